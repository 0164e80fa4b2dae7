package trainrun

import (
	"testing"

	"sectionview/internal/netz"
	"sectionview/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sectionIDs(sections []*netz.Section) []int {
	ids := make([]int, len(sections))
	for i, s := range sections {
		ids[i] = s.ID
	}
	return ids
}

func TestLastNonStopNode_WalksThroughChain(t *testing.T) {
	net := testutil.ChainNetwork(t)
	svc := NewService(net)
	s11 := net.Section(11)

	assert.Equal(t, 1, svc.LastNonStopNode(net.Node(2), s11).ID)
	assert.Equal(t, 4, svc.LastNonStopNode(net.Node(3), s11).ID)
}

func TestLastNonStopNode_PlainSection(t *testing.T) {
	net := testutil.ChainNetwork(t)
	svc := NewService(net)
	s20 := net.Section(20)

	pair := svc.BothLastNonStopNodes(s20)
	assert.Equal(t, 5, pair.Node1.ID)
	assert.Equal(t, 6, pair.Node2.ID)

	outer := svc.BothLastNonStopSections(s20)
	assert.Same(t, s20, outer.Section1)
	assert.Same(t, s20, outer.Section2)
}

func TestBothLastNonStop_FromEveryLeg(t *testing.T) {
	net := testutil.ChainNetwork(t)
	svc := NewService(net)

	for _, id := range []int{10, 11, 12} {
		s := net.Section(id)
		pair := svc.BothLastNonStopNodes(s)
		assert.Equal(t, 1, pair.Node1.ID, "section %d", id)
		assert.Equal(t, 4, pair.Node2.ID, "section %d", id)

		outer := svc.BothLastNonStopSections(s)
		assert.Equal(t, 10, outer.Section1.ID, "section %d", id)
		assert.Equal(t, 12, outer.Section2.ID, "section %d", id)
	}
}

func TestChainAndCumulativeTravelTime(t *testing.T) {
	net := testutil.ChainNetwork(t)
	svc := NewService(net)

	for _, id := range []int{10, 11, 12} {
		assert.Equal(t, []int{10, 11, 12}, sectionIDs(svc.Chain(net.Section(id))))
		assert.Equal(t, 45.0, svc.CumulativeTravelTime(net.Section(id)))
	}
	assert.Equal(t, []int{20}, sectionIDs(svc.Chain(net.Section(20))))
	assert.Equal(t, 25.0, svc.CumulativeTravelTime(net.Section(20)))
}

func TestStopTransitionEndsChain(t *testing.T) {
	net := testutil.NewNetworkBuilder().
		Node(1, 0, 0).Node(2, 10, 0).Node(3, 20, 0).
		Section(10, 1, 2, testutil.WithTravelTime(5)).
		Section(11, 2, 3, testutil.WithTravelTime(7)).
		Stop(2, 10, 11).
		Build(t)
	svc := NewService(net)

	pair := svc.BothLastNonStopNodes(net.Section(10))
	assert.Equal(t, 1, pair.Node1.ID)
	assert.Equal(t, 2, pair.Node2.ID)
	assert.Equal(t, 5.0, svc.CumulativeTravelTime(net.Section(10)))
}

func TestChainTerminatesOnCycle(t *testing.T) {
	net := testutil.NewNetworkBuilder().
		Node(1, 0, 0).Node(2, 10, 0).Node(3, 5, 10).
		Section(10, 1, 2, testutil.WithTravelTime(1)).
		Section(11, 2, 3, testutil.WithTravelTime(2)).
		Section(12, 3, 1, testutil.WithTravelTime(3)).
		NonStop(1, 12, 10).
		NonStop(2, 10, 11).
		NonStop(3, 11, 12).
		Build(t)
	svc := NewService(net)
	s10 := net.Section(10)

	chain := svc.Chain(s10)
	require.Len(t, chain, 3)
	assert.ElementsMatch(t, []int{10, 11, 12}, sectionIDs(chain))
	assert.Equal(t, 6.0, svc.CumulativeTravelTime(s10))

	pair := svc.BothLastNonStopNodes(s10)
	assert.NotNil(t, pair.Node1)
	assert.NotNil(t, pair.Node2)
}
