package netz

type Trainrun struct {
	ID       int
	Name     string
	Category string
}

// Transition pairs two incident sections of the same trainrun at a node.
type Transition struct {
	SectionA int
	SectionB int
	NonStop  bool // train passes the node without stopping
}

// Other returns the section paired with sectionID, or 0 if sectionID is not part of t.
func (t Transition) Other(sectionID int) int {
	switch sectionID {
	case t.SectionA:
		return t.SectionB
	case t.SectionB:
		return t.SectionA
	}
	return 0
}

type Node struct {
	ID             int
	OperatingPoint string // short operating point code, e.g. "BN"
	FullName       string
	PositionX      float64
	PositionY      float64
	Transitions    []Transition
}

// Transition returns the transition that routes sectionID through n.
func (n *Node) Transition(sectionID int) (Transition, bool) {
	for _, t := range n.Transitions {
		if t.SectionA == sectionID || t.SectionB == sectionID {
			return t, true
		}
	}
	return Transition{}, false
}

// IsNonStop reports whether the train of s passes n without stopping.
func (n *Node) IsNonStop(s *Section) bool {
	t, ok := n.Transition(s.ID)
	return ok && t.NonStop
}

func (n *Node) DepartureTime(s *Section) float64 {
	if s.Source != nil && s.Source.ID == n.ID {
		return s.SourceDeparture
	}
	return s.TargetDeparture
}

func (n *Node) ArrivalTime(s *Section) float64 {
	if s.Source != nil && s.Source.ID == n.ID {
		return s.SourceArrival
	}
	return s.TargetArrival
}

// Section is a directed leg of a trainrun. Clock values are minutes in [0,60),
// TravelTime is a duration in minutes.
type Section struct {
	ID         int
	TrainrunID int
	Source     *Node
	Target     *Node

	SourceDeparture float64
	SourceArrival   float64
	TargetDeparture float64
	TargetArrival   float64
	TravelTime      float64

	SourceDepartureLock bool
	SourceArrivalLock   bool
	TargetDepartureLock bool
	TargetArrivalLock   bool
	TravelTimeLock      bool
}

// OtherNode returns the endpoint of s opposite to n.
func (s *Section) OtherNode(n *Node) *Node {
	if s.Source != nil && s.Source.ID == n.ID {
		return s.Target
	}
	return s.Source
}

// Touches reports whether n is one of the endpoints of s.
func (s *Section) Touches(n *Node) bool {
	return (s.Source != nil && s.Source.ID == n.ID) || (s.Target != nil && s.Target.ID == n.ID)
}

// NodePair holds the effective endpoints of a section: Node1 on the source
// side, Node2 on the target side.
type NodePair struct {
	Node1 *Node
	Node2 *Node
}

// SectionPair holds the outermost sections of a non-stop chain, Section1 on
// the source side.
type SectionPair struct {
	Section1 *Section
	Section2 *Section
}
