package orientation

import "sectionview/internal/netz"

// LeftAndRightLock folds the source and target arrival/departure locks of
// section onto the side each endpoint is drawn on.
//
// SourceLock and TargetLock read the position-based frame. Only a structure
// built with a nil order round-trips through them; one built with an order
// that disagrees with canvas position reads the wrong side.
func (r *Resolver) LeftAndRightLock(section *netz.Section, order []*netz.Node) LockStructure {
	e := r.resolve(section, order)
	source := r.trainruns.LastNonStopNode(section.Source, section)

	sourceLock := section.SourceArrivalLock || section.SourceDepartureLock
	targetLock := section.TargetArrivalLock || section.TargetDepartureLock

	locks := LockStructure{
		LeftLock:       targetLock,
		RightLock:      targetLock,
		TravelTimeLock: section.TravelTimeLock,
	}
	if source.ID == e.left.ID {
		locks.LeftLock = sourceLock
	}
	if source.ID == e.right.ID {
		locks.RightLock = sourceLock
	}
	return locks
}

// SourceLock returns the side of locks that belongs to the source of section.
// locks is read in the position-based frame, the one LeftAndRightLock produces
// without a node order.
func (r *Resolver) SourceLock(locks LockStructure, section *netz.Section) bool {
	if r.sourceIsLeft(section, r.canonicalLeft(section)) {
		return locks.LeftLock
	}
	return locks.RightLock
}

func (r *Resolver) TargetLock(locks LockStructure, section *netz.Section) bool {
	if r.sourceIsLeft(section, r.canonicalLeft(section)) {
		return locks.RightLock
	}
	return locks.LeftLock
}
