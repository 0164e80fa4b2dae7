package orientation

import "sectionview/internal/netz"

// MapSelectedTimeElement translates a source/target relative text field into
// its left/right identity. The second result is false for texts without a
// counterpart.
//
// For the trainrun name an unspecified direction always reads left to right.
func (r *Resolver) MapSelectedTimeElement(text netz.SectionText, section *netz.Section, order []*netz.Node, dir Direction) (Element, bool) {
	left := r.LeftNode(section, order)
	sourceLeft := r.sourceIsLeft(section, left)

	switch text {
	case netz.TextSourceDeparture:
		return pick(sourceLeft, LeftDeparture, RightDeparture), true
	case netz.TextSourceArrival:
		return pick(sourceLeft, LeftArrival, RightArrival), true
	case netz.TextTargetDeparture:
		return pick(!sourceLeft, LeftDeparture, RightDeparture), true
	case netz.TextTargetArrival:
		return pick(!sourceLeft, LeftArrival, RightArrival), true
	case netz.TextTravelTime:
		return TravelTime, true
	case netz.TextName:
		switch dir {
		case DirectionUnspecified:
			return LeftRightTrainrunName, true
		case DirectionForward:
			return pick(sourceLeft, LeftRightTrainrunName, RightLeftTrainrunName), true
		case DirectionBackward:
			return pick(sourceLeft, RightLeftTrainrunName, LeftRightTrainrunName), true
		}
	}
	return 0, false
}

func pick(cond bool, yes, no Element) Element {
	if cond {
		return yes
	}
	return no
}
