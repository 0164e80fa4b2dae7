package testutil

import (
	"fmt"
	"testing"

	"sectionview/internal/netz"
)

// NetworkBuilder assembles small networks for tests. All sections belong to
// trainrun 1 unless WithTrainrun says otherwise.
type NetworkBuilder struct {
	nodes    []*netz.Node
	byID     map[int]*netz.Node
	sections []*netz.Section
	err      error
}

func NewNetworkBuilder() *NetworkBuilder {
	return &NetworkBuilder{byID: make(map[int]*netz.Node)}
}

type NodeOption func(*netz.Node)

func WithNames(operatingPoint, fullName string) NodeOption {
	return func(n *netz.Node) {
		n.OperatingPoint = operatingPoint
		n.FullName = fullName
	}
}

func (b *NetworkBuilder) Node(id int, x, y float64, opts ...NodeOption) *NetworkBuilder {
	n := &netz.Node{
		ID:             id,
		OperatingPoint: fmt.Sprintf("N%d", id),
		FullName:       fmt.Sprintf("Node %d", id),
		PositionX:      x,
		PositionY:      y,
	}
	for _, opt := range opts {
		opt(n)
	}
	b.nodes = append(b.nodes, n)
	b.byID[id] = n
	return b
}

type SectionOption func(*netz.Section)

// WithTimes sets source departure/arrival, target departure/arrival and travel time.
func WithTimes(srcDep, srcArr, tgtDep, tgtArr, travel float64) SectionOption {
	return func(s *netz.Section) {
		s.SourceDeparture = srcDep
		s.SourceArrival = srcArr
		s.TargetDeparture = tgtDep
		s.TargetArrival = tgtArr
		s.TravelTime = travel
	}
}

func WithTravelTime(travel float64) SectionOption {
	return func(s *netz.Section) { s.TravelTime = travel }
}

func WithSourceLocks(arrival, departure bool) SectionOption {
	return func(s *netz.Section) {
		s.SourceArrivalLock = arrival
		s.SourceDepartureLock = departure
	}
}

func WithTargetLocks(arrival, departure bool) SectionOption {
	return func(s *netz.Section) {
		s.TargetArrivalLock = arrival
		s.TargetDepartureLock = departure
	}
}

func WithTravelTimeLock() SectionOption {
	return func(s *netz.Section) { s.TravelTimeLock = true }
}

func WithTrainrun(id int) SectionOption {
	return func(s *netz.Section) { s.TrainrunID = id }
}

func (b *NetworkBuilder) Section(id, source, target int, opts ...SectionOption) *NetworkBuilder {
	src, tgt := b.byID[source], b.byID[target]
	if src == nil || tgt == nil {
		b.err = fmt.Errorf("section %d references unknown node", id)
		return b
	}
	s := &netz.Section{ID: id, TrainrunID: 1, Source: src, Target: tgt}
	for _, opt := range opts {
		opt(s)
	}
	b.sections = append(b.sections, s)
	return b
}

// NonStop routes sections a and c through node without a stop.
func (b *NetworkBuilder) NonStop(node, a, c int) *NetworkBuilder {
	return b.transition(node, a, c, true)
}

// Stop routes sections a and c through node with a stop.
func (b *NetworkBuilder) Stop(node, a, c int) *NetworkBuilder {
	return b.transition(node, a, c, false)
}

func (b *NetworkBuilder) transition(node, a, c int, nonStop bool) *NetworkBuilder {
	n := b.byID[node]
	if n == nil {
		b.err = fmt.Errorf("transition at unknown node %d", node)
		return b
	}
	n.Transitions = append(n.Transitions, netz.Transition{SectionA: a, SectionB: c, NonStop: nonStop})
	return b
}

func (b *NetworkBuilder) Build(t *testing.T) *netz.Network {
	t.Helper()
	if b.err != nil {
		t.Fatalf("building network: %v", b.err)
	}
	trainruns := map[int]bool{}
	var runs []*netz.Trainrun
	for _, s := range b.sections {
		if !trainruns[s.TrainrunID] {
			trainruns[s.TrainrunID] = true
			runs = append(runs, &netz.Trainrun{ID: s.TrainrunID, Name: fmt.Sprintf("IC %d", s.TrainrunID), Category: "IC"})
		}
	}
	net, err := netz.NewNetwork(b.nodes, b.sections, runs)
	if err != nil {
		t.Fatalf("building network: %v", err)
	}
	return net
}

// OrderedNodes resolves ids against net, preserving their order.
func OrderedNodes(net *netz.Network, ids ...int) []*netz.Node {
	out := make([]*netz.Node, 0, len(ids))
	for _, id := range ids {
		out = append(out, net.Node(id))
	}
	return out
}

// ChainNetwork is the standard fixture used across packages:
//
//	1 --s10--> 2 --s11--> 3 --s12--> 4        trainrun 1, nodes 2 and 3 non-stop
//	5 --s20--> 6                               trainrun 2, plain section
//
// Node positions put 1 left of 4 and 6 left of 5.
func ChainNetwork(t *testing.T) *netz.Network {
	t.Helper()
	return NewNetworkBuilder().
		Node(1, 0, 0, WithNames("ZUE", "Zuerich HB")).
		Node(2, 100, 0).
		Node(3, 200, 0).
		Node(4, 300, 0, WithNames("BN", "Bern")).
		Node(5, 300, 200, WithNames("OL", "Olten")).
		Node(6, 0, 200, WithNames("AA", "Aarau")).
		Section(10, 1, 2, WithTimes(2, 58, 48, 12, 10), WithSourceLocks(false, true)).
		Section(11, 2, 3, WithTimes(12, 48, 33, 27, 15)).
		Section(12, 3, 4, WithTimes(27, 33, 13, 47, 20), WithTargetLocks(true, false), WithTravelTimeLock()).
		Section(20, 5, 6, WithTimes(50, 10, 45, 15, 25), WithTrainrun(2), WithSourceLocks(true, false)).
		NonStop(2, 10, 11).
		NonStop(3, 11, 12).
		Build(t)
}
