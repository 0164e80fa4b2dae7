package editor

import (
	"context"
	"encoding/json"
	"testing"

	"sectionview/internal/orientation"
	"sectionview/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChainManager(t *testing.T) (*Manager, *fakeMetrics) {
	t.Helper()
	m := &fakeMetrics{}
	mgr := NewManager(nil, nil, 0, m)
	mgr.Install(testutil.ChainNetwork(t))
	return mgr, m
}

func ptr(v float64) *float64 { return &v }

func TestPresent_PlainSectionFollowsOrder(t *testing.T) {
	mgr, m := newChainManager(t)

	p, err := mgr.Present(context.Background(), Request{
		SectionID:      20,
		OrderedNodeIDs: []int{5, 6},
		Selected:       "source-departure",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, 2, p.TrainrunID)
	assert.Equal(t, "IC 2", p.TrainrunName)
	assert.Equal(t, 5, p.LeftNodeID)
	assert.Equal(t, 6, p.RightNodeID)
	assert.Equal(t, [2]string{"OL", "(Olten)"}, p.LeftLabel)
	assert.Equal(t, [2]string{"AA", "(Aarau)"}, p.RightLabel)
	assert.Equal(t, orientation.TimeStructure{
		LeftDepartureTime:  50,
		LeftArrivalTime:    10,
		RightDepartureTime: 45,
		RightArrivalTime:   15,
		TravelTime:         25,
	}, p.Times)
	assert.Equal(t, orientation.LockStructure{LeftLock: true}, p.Locks)
	assert.True(t, p.SourceLock)
	assert.False(t, p.TargetLock)
	require.NotNil(t, p.Selected)
	assert.Equal(t, orientation.LeftDeparture, *p.Selected)
	assert.Nil(t, p.Remapped)
	assert.Nil(t, p.Preview)
	assert.Empty(t, p.Legs)
	assert.Equal(t, 1, m.presented)
}

func TestPresent_FallsBackToPosition(t *testing.T) {
	mgr, _ := newChainManager(t)

	p, err := mgr.Present(context.Background(), Request{SectionID: 20, Selected: "source-departure"})
	require.NoError(t, err)
	assert.Equal(t, 6, p.LeftNodeID)
	assert.Equal(t, orientation.RightDeparture, *p.Selected)
	assert.Equal(t, orientation.LockStructure{RightLock: true}, p.Locks)
	// source/target locks do not depend on the order
	assert.True(t, p.SourceLock)
	assert.False(t, p.TargetLock)
}

func TestPresent_RemapsStaleTimes(t *testing.T) {
	mgr, _ := newChainManager(t)
	stale := orientation.TimeStructure{LeftDepartureTime: 1, LeftArrivalTime: 2, RightDepartureTime: 3, RightArrivalTime: 4, TravelTime: 5}

	p, err := mgr.Present(context.Background(), Request{SectionID: 20, OrderedNodeIDs: []int{5, 6}, Times: &stale})
	require.NoError(t, err)
	require.NotNil(t, p.Remapped)
	assert.Equal(t, orientation.TimeStructure{
		LeftDepartureTime:  3,
		LeftArrivalTime:    4,
		RightDepartureTime: 1,
		RightArrivalTime:   2,
		TravelTime:         5,
	}, *p.Remapped)
}

func TestPresent_PreviewAndLegs(t *testing.T) {
	mgr, _ := newChainManager(t)

	p, err := mgr.Present(context.Background(), Request{
		SectionID:       11,
		LeftDeparture:   ptr(20),
		TotalTravelTime: ptr(90),
	})
	require.NoError(t, err)

	require.NotNil(t, p.Preview)
	assert.Equal(t, orientation.TimeStructure{
		LeftDepartureTime:  20,
		LeftArrivalTime:    40,
		RightDepartureTime: 55,
		RightArrivalTime:   5,
		TravelTime:         45,
	}, *p.Preview)
	assert.Equal(t, []orientation.LegTravelTime{
		{SectionID: 10, TravelTime: 20},
		{SectionID: 11, TravelTime: 30},
		{SectionID: 12, TravelTime: 40},
	}, p.Legs)
}

func TestPresent_NameFollowsDirection(t *testing.T) {
	mgr, m := newChainManager(t)

	p, err := mgr.Present(context.Background(), Request{SectionID: 20, Selected: "name", Direction: "forward"})
	require.NoError(t, err)
	require.NotNil(t, p.Selected)
	assert.Equal(t, orientation.RightLeftTrainrunName, *p.Selected)
	assert.Zero(t, m.unmapped)
}

func TestPresent_Errors(t *testing.T) {
	cases := []struct {
		name   string
		req    Request
		target error
		reason string
	}{
		{"unknown section", Request{SectionID: 99}, ErrUnknownSection, "unknown_section"},
		{"unknown node", Request{SectionID: 20, OrderedNodeIDs: []int{5, 77}}, ErrUnknownNode, "unknown_node"},
		{"bad selection", Request{SectionID: 20, Selected: "platform"}, ErrBadSelection, "bad_selection"},
		{"bad direction", Request{SectionID: 20, Direction: "sideways"}, ErrBadDirection, "bad_direction"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mgr, m := newChainManager(t)
			_, err := mgr.Present(context.Background(), tc.req)
			require.ErrorIs(t, err, tc.target)
			assert.Equal(t, tc.reason, Reason(err))
			assert.Equal(t, []string{tc.reason}, m.errs)
			assert.Zero(t, m.presented)
		})
	}
}

func TestPresent_NoNetwork(t *testing.T) {
	m := &fakeMetrics{}
	mgr := NewManager(nil, nil, 0, m)

	_, err := mgr.Present(context.Background(), Request{SectionID: 10})
	assert.ErrorIs(t, err, ErrNoNetwork)
	assert.Equal(t, []string{"no_network"}, m.errs)
}

func TestPresent_CanceledContext(t *testing.T) {
	mgr, _ := newChainManager(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mgr.Present(ctx, Request{SectionID: 10})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "canceled", Reason(err))
}

func TestPresent_RejectsDegenerateSection(t *testing.T) {
	// a non-stop loop whose both ends come back to node 1
	net := testutil.NewNetworkBuilder().
		Node(1, 0, 0).
		Node(2, 100, 0).
		Node(3, 50, 100).
		Section(1, 1, 2, testutil.WithTravelTime(5)).
		Section(2, 2, 3, testutil.WithTravelTime(5)).
		Section(3, 3, 1, testutil.WithTravelTime(5)).
		NonStop(2, 1, 2).
		NonStop(3, 2, 3).
		Build(t)
	mgr := NewManager(nil, nil, 0, nil)
	mgr.Install(net)

	_, err := mgr.Present(context.Background(), Request{SectionID: 2})
	assert.ErrorIs(t, err, ErrDegenerateSection)
	assert.Equal(t, "degenerate_section", Reason(err))
}

func TestPresentation_JSON(t *testing.T) {
	mgr, _ := newChainManager(t)
	p, err := mgr.Present(context.Background(), Request{SectionID: 20, OrderedNodeIDs: []int{5, 6}, Selected: "travel-time"})
	require.NoError(t, err)

	b, err := json.Marshal(p)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, "travel-time", out["selected"])
	assert.Equal(t, []any{"OL", "(Olten)"}, out["leftLabel"])
	assert.Equal(t, float64(50), out["times"].(map[string]any)["leftDepartureTime"])
	assert.NotContains(t, out, "legs")
}

func TestReason_Unknown(t *testing.T) {
	assert.Equal(t, "internal", Reason(assert.AnError))
}

type countingObserver struct {
	resolves []orientation.ResolveEvent
	remaps   int
}

func (o *countingObserver) OnResolve(e orientation.ResolveEvent) { o.resolves = append(o.resolves, e) }
func (o *countingObserver) OnRemap(orientation.RemapEvent)       { o.remaps++ }

func TestPresent_ReportsOneResolvePerRequest(t *testing.T) {
	obs := &countingObserver{}
	mgr := NewManager(nil, obs, 0, nil)
	mgr.Install(testutil.ChainNetwork(t))
	stale := orientation.TimeStructure{LeftDepartureTime: 1, LeftArrivalTime: 2, RightDepartureTime: 3, RightArrivalTime: 4, TravelTime: 5}

	_, err := mgr.Present(context.Background(), Request{
		SectionID:       20,
		OrderedNodeIDs:  []int{5, 6},
		Times:           &stale,
		Selected:        "source-departure",
		TotalTravelTime: ptr(25),
	})
	require.NoError(t, err)
	assert.Equal(t, []orientation.ResolveEvent{{SectionID: 20, Ordered: true}}, obs.resolves)
	assert.Equal(t, 1, obs.remaps)

	_, err = mgr.Present(context.Background(), Request{SectionID: 20})
	require.NoError(t, err)
	require.Len(t, obs.resolves, 2)
	assert.False(t, obs.resolves[1].Ordered)
}
