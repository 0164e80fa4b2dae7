// Package layout compares nodes by canvas position or by a caller-supplied
// screen order.
package layout

import "sectionview/internal/netz"

// LeftOrTopNode picks the node further left, then further up. Nodes at the
// same position are ordered by ID so the result is total over distinct nodes.
func LeftOrTopNode(a, b *netz.Node) *netz.Node {
	if leftOrTop(a, b) {
		return a
	}
	return b
}

// RightOrBottomNode is the complement of LeftOrTopNode.
func RightOrBottomNode(a, b *netz.Node) *netz.Node {
	if leftOrTop(a, b) {
		return b
	}
	return a
}

func leftOrTop(a, b *netz.Node) bool {
	if a.PositionX != b.PositionX {
		return a.PositionX < b.PositionX
	}
	if a.PositionY != b.PositionY {
		return a.PositionY < b.PositionY
	}
	return a.ID < b.ID
}

// IndexOf returns the position of n in order, or -1.
func IndexOf(order []*netz.Node, n *netz.Node) int {
	for i, o := range order {
		if o != nil && o.ID == n.ID {
			return i
		}
	}
	return -1
}

func Contains(order []*netz.Node, n *netz.Node) bool {
	return IndexOf(order, n) >= 0
}

// LeftNodeAccordingToOrder returns whichever of a and b appears first in order.
// A node missing from order sorts after every node that is present.
func LeftNodeAccordingToOrder(order []*netz.Node, a, b *netz.Node) *netz.Node {
	if before(order, a, b) {
		return a
	}
	return b
}

func RightNodeAccordingToOrder(order []*netz.Node, a, b *netz.Node) *netz.Node {
	if before(order, a, b) {
		return b
	}
	return a
}

func before(order []*netz.Node, a, b *netz.Node) bool {
	ia, ib := IndexOf(order, a), IndexOf(order, b)
	switch {
	case ia < 0 && ib < 0:
		return leftOrTop(a, b)
	case ia < 0:
		return false
	case ib < 0:
		return true
	}
	return ia < ib
}
