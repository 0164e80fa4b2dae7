// Package trainrun walks trainruns through chains of non-stop transit nodes.
package trainrun

import "sectionview/internal/netz"

type Service struct {
	net *netz.Network
}

func NewService(net *netz.Network) *Service {
	return &Service{net: net}
}

// walk steps away from section through node while node is a non-stop
// transit for the current section. It returns the node where the train stops
// (or the run ends) and the sections crossed on the way, nearest first.
// Sections already in visited are never entered, so cyclic runs terminate.
func (s *Service) walk(node *netz.Node, section *netz.Section, visited map[int]bool) (*netz.Node, []*netz.Section) {
	var crossed []*netz.Section
	cur := section
	for node.IsNonStop(cur) {
		t, _ := node.Transition(cur.ID)
		next := s.net.Section(t.Other(cur.ID))
		if next == nil || visited[next.ID] {
			break
		}
		visited[next.ID] = true
		crossed = append(crossed, next)
		cur = next
		node = next.OtherNode(node)
	}
	return node, crossed
}

// LastNonStopNode returns the first node reached from node, moving away from
// section, at which the train stops.
func (s *Service) LastNonStopNode(node *netz.Node, section *netz.Section) *netz.Node {
	last, _ := s.walk(node, section, map[int]bool{section.ID: true})
	return last
}

func (s *Service) BothLastNonStopNodes(section *netz.Section) netz.NodePair {
	return netz.NodePair{
		Node1: s.LastNonStopNode(section.Source, section),
		Node2: s.LastNonStopNode(section.Target, section),
	}
}

// BothLastNonStopSections returns the outermost section at each end of the
// chain containing section. For a section between two stops both are section.
func (s *Service) BothLastNonStopSections(section *netz.Section) netz.SectionPair {
	pair := netz.SectionPair{Section1: section, Section2: section}
	if _, crossed := s.walk(section.Source, section, map[int]bool{section.ID: true}); len(crossed) > 0 {
		pair.Section1 = crossed[len(crossed)-1]
	}
	if _, crossed := s.walk(section.Target, section, map[int]bool{section.ID: true}); len(crossed) > 0 {
		pair.Section2 = crossed[len(crossed)-1]
	}
	return pair
}

// Chain returns every section of the non-stop run containing section,
// ordered from the source-side endpoint to the target-side endpoint.
func (s *Service) Chain(section *netz.Section) []*netz.Section {
	visited := map[int]bool{section.ID: true}
	_, before := s.walk(section.Source, section, visited)
	_, after := s.walk(section.Target, section, visited)

	chain := make([]*netz.Section, 0, len(before)+1+len(after))
	for i := len(before) - 1; i >= 0; i-- {
		chain = append(chain, before[i])
	}
	chain = append(chain, section)
	return append(chain, after...)
}

func (s *Service) CumulativeTravelTime(section *netz.Section) float64 {
	total := 0.0
	for _, leg := range s.Chain(section) {
		total += leg.TravelTime
	}
	return total
}
