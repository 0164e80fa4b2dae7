// Package orientation decides which end of a trainrun section is drawn on the
// left and maps times, locks and selected fields onto that presentation.
//
// Nothing is cached: every call resolves orientation again from the section,
// the caller's node order and the non-stop traversal.
package orientation

import (
	"sectionview/internal/layout"
	"sectionview/internal/netz"
)

// Trainruns is the non-stop chain traversal the resolver depends on. It must
// terminate on cyclic runs.
type Trainruns interface {
	BothLastNonStopNodes(section *netz.Section) netz.NodePair
	BothLastNonStopSections(section *netz.Section) netz.SectionPair
	LastNonStopNode(node *netz.Node, section *netz.Section) *netz.Node
	CumulativeTravelTime(section *netz.Section) float64
	Chain(section *netz.Section) []*netz.Section
}

type Resolver struct {
	trainruns Trainruns
	observer  Observer
}

// NewResolver returns a resolver over trainruns. A nil observer discards events.
func NewResolver(trainruns Trainruns, observer Observer) *Resolver {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &Resolver{trainruns: trainruns, observer: observer}
}

// WithoutResolveEvents returns a resolver over the same trainruns that still
// reports remaps but no resolutions. Callers composing several operations for
// one request use it after reporting the request's own resolution.
func (r *Resolver) WithoutResolveEvents() *Resolver {
	return &Resolver{trainruns: r.trainruns, observer: remapOnly{r.observer}}
}

type endpoints struct {
	pair  netz.NodePair
	left  *netz.Node
	right *netz.Node
}

// resolve uses order when it contains both effective endpoints and falls back
// to canvas position otherwise.
func (r *Resolver) resolve(section *netz.Section, order []*netz.Node) endpoints {
	pair := r.trainruns.BothLastNonStopNodes(section)
	e := endpoints{pair: pair}
	ordered := layout.Contains(order, pair.Node1) && layout.Contains(order, pair.Node2)
	if ordered {
		e.left = layout.LeftNodeAccordingToOrder(order, pair.Node1, pair.Node2)
		e.right = layout.RightNodeAccordingToOrder(order, pair.Node1, pair.Node2)
	} else {
		e.left = layout.LeftOrTopNode(pair.Node1, pair.Node2)
		e.right = layout.RightOrBottomNode(pair.Node1, pair.Node2)
	}
	r.observer.OnResolve(ResolveEvent{SectionID: section.ID, Ordered: ordered})
	return e
}

// Endpoints returns the effective left and right nodes of section in one pass.
func (r *Resolver) Endpoints(section *netz.Section, order []*netz.Node) (left, right *netz.Node) {
	e := r.resolve(section, order)
	return e.left, e.right
}

func (r *Resolver) LeftNode(section *netz.Section, order []*netz.Node) *netz.Node {
	return r.resolve(section, order).left
}

func (r *Resolver) RightNode(section *netz.Section, order []*netz.Node) *netz.Node {
	return r.resolve(section, order).right
}

// LeftLabel returns the operating point code and the parenthesised full name
// of the left node.
func (r *Resolver) LeftLabel(section *netz.Section, order []*netz.Node) [2]string {
	return label(r.LeftNode(section, order))
}

func (r *Resolver) RightLabel(section *netz.Section, order []*netz.Node) [2]string {
	return label(r.RightNode(section, order))
}

func label(n *netz.Node) [2]string {
	return [2]string{n.OperatingPoint, "(" + n.FullName + ")"}
}

// sourceIsLeft reports whether the source-side effective endpoint of section
// is left.
func (r *Resolver) sourceIsLeft(section *netz.Section, left *netz.Node) bool {
	return r.trainruns.LastNonStopNode(section.Source, section).ID == left.ID
}

// canonicalLeft is the position-based left endpoint, independent of any order.
func (r *Resolver) canonicalLeft(section *netz.Section) *netz.Node {
	pair := r.trainruns.BothLastNonStopNodes(section)
	return layout.LeftOrTopNode(pair.Node1, pair.Node2)
}
