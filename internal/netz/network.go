package netz

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrSelfLoop         = errors.New("section source and target are the same node")
	ErrMissingEndpoint  = errors.New("section without source or target")
	ErrBadTransition    = errors.New("transition does not match incident sections")
	ErrDuplicateID      = errors.New("duplicate id")
	ErrUnknownReference = errors.New("unknown reference")
)

// Network is an immutable snapshot of nodes, sections and trainruns. It is
// built once per load and replaced wholesale, never mutated in place.
type Network struct {
	nodes     map[int]*Node
	sections  map[int]*Section
	trainruns map[int]*Trainrun
}

func NewNetwork(nodes []*Node, sections []*Section, trainruns []*Trainrun) (*Network, error) {
	n := &Network{
		nodes:     make(map[int]*Node, len(nodes)),
		sections:  make(map[int]*Section, len(sections)),
		trainruns: make(map[int]*Trainrun, len(trainruns)),
	}
	for _, node := range nodes {
		if _, dup := n.nodes[node.ID]; dup {
			return nil, fmt.Errorf("node %d: %w", node.ID, ErrDuplicateID)
		}
		n.nodes[node.ID] = node
	}
	for _, s := range sections {
		if _, dup := n.sections[s.ID]; dup {
			return nil, fmt.Errorf("section %d: %w", s.ID, ErrDuplicateID)
		}
		n.sections[s.ID] = s
	}
	for _, tr := range trainruns {
		if _, dup := n.trainruns[tr.ID]; dup {
			return nil, fmt.Errorf("trainrun %d: %w", tr.ID, ErrDuplicateID)
		}
		n.trainruns[tr.ID] = tr
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// Validate rejects graphs the orientation code cannot handle: self-loops,
// dangling endpoints and transitions that do not route through the node or
// that join sections of different trainruns.
func (n *Network) Validate() error {
	for _, s := range n.sections {
		if s.Source == nil || s.Target == nil {
			return fmt.Errorf("section %d: %w", s.ID, ErrMissingEndpoint)
		}
		if s.Source.ID == s.Target.ID {
			return fmt.Errorf("section %d at node %d: %w", s.ID, s.Source.ID, ErrSelfLoop)
		}
		if _, ok := n.nodes[s.Source.ID]; !ok {
			return fmt.Errorf("section %d source %d: %w", s.ID, s.Source.ID, ErrUnknownReference)
		}
		if _, ok := n.nodes[s.Target.ID]; !ok {
			return fmt.Errorf("section %d target %d: %w", s.ID, s.Target.ID, ErrUnknownReference)
		}
	}
	for _, node := range n.nodes {
		for _, t := range node.Transitions {
			a, okA := n.sections[t.SectionA]
			b, okB := n.sections[t.SectionB]
			if !okA || !okB {
				return fmt.Errorf("node %d transition %d/%d: %w", node.ID, t.SectionA, t.SectionB, ErrUnknownReference)
			}
			if t.SectionA == t.SectionB || !a.Touches(node) || !b.Touches(node) || a.TrainrunID != b.TrainrunID {
				return fmt.Errorf("node %d transition %d/%d: %w", node.ID, t.SectionA, t.SectionB, ErrBadTransition)
			}
		}
	}
	return nil
}

func (n *Network) Node(id int) *Node { return n.nodes[id] }

func (n *Network) Section(id int) *Section { return n.sections[id] }

func (n *Network) Trainrun(id int) *Trainrun { return n.trainruns[id] }

func (n *Network) NodeCount() int { return len(n.nodes) }

func (n *Network) SectionCount() int { return len(n.sections) }

// Sections returns all sections ordered by ID.
func (n *Network) Sections() []*Section {
	out := make([]*Section, 0, len(n.sections))
	for _, s := range n.sections {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
