package orientation

import (
	"math"

	"sectionview/internal/netz"
)

// Round rounds to whole minutes, halves up.
func Round(x float64) float64 {
	return math.Floor(x + 0.5)
}

// SymmetricTime reflects a clock minute across the hour; 0 maps to itself.
func SymmetricTime(t float64) float64 {
	if t == 0 {
		return 0
	}
	return 60 - t
}

// DefaultTimeStructure keeps only the left times of ts.
func DefaultTimeStructure(ts TimeStructure) TimeStructure {
	return TimeStructure{
		LeftDepartureTime: ts.LeftDepartureTime,
		LeftArrivalTime:   ts.LeftArrivalTime,
	}
}

// SectionTravelTime returns one leg's share when a chain's travel time is
// redistributed. Inner legs (right node is a non-stop transit) scale their own
// travel time by factor; the last leg takes whatever remains of total. Both
// are at least one minute.
func SectionTravelTime(total, summed, factor, sectionTravelTime float64, isRightNonStopTransit bool) float64 {
	if isRightNonStopTransit {
		return math.Max(Round(sectionTravelTime*factor), 1)
	}
	return math.Max(Round(total-summed), 1)
}

func RightArrivalTime(ts TimeStructure) float64 {
	return Round(math.Mod(ts.LeftDepartureTime+math.Mod(ts.TravelTime, 60), 60))
}

func RightDepartureTime(ts TimeStructure) float64 {
	return Round(SymmetricTime(ts.RightArrivalTime))
}

// ApplyLeftDeparture recomputes ts after the left departure was edited to
// minute, keeping the travel time.
func ApplyLeftDeparture(ts TimeStructure, minute float64) TimeStructure {
	out := ts
	out.LeftDepartureTime = minute
	out.LeftArrivalTime = SymmetricTime(minute)
	out.RightArrivalTime = RightArrivalTime(out)
	out.RightDepartureTime = RightDepartureTime(out)
	return out
}

// LeftAndRightTimes reads the times at both effective endpoints of section
// and lays them out left/right. TravelTime covers the whole non-stop chain.
func (r *Resolver) LeftAndRightTimes(section *netz.Section, order []*netz.Node) TimeStructure {
	e := r.resolve(section, order)
	outer := r.trainruns.BothLastNonStopSections(section)

	leftSection, rightSection := outer.Section1, outer.Section2
	if e.left.ID != e.pair.Node1.ID {
		leftSection, rightSection = outer.Section2, outer.Section1
	}
	return TimeStructure{
		LeftDepartureTime:  e.left.DepartureTime(leftSection),
		LeftArrivalTime:    e.left.ArrivalTime(leftSection),
		RightDepartureTime: e.right.DepartureTime(rightSection),
		RightArrivalTime:   e.right.ArrivalTime(rightSection),
		TravelTime:         r.trainruns.CumulativeTravelTime(section),
	}
}

// MapLeftAndRightTimes re-anchors ts, computed against the position-based left
// node, to the left node implied by order. When both agree ts is returned as is.
func (r *Resolver) MapLeftAndRightTimes(section *netz.Section, order []*netz.Node, ts TimeStructure) TimeStructure {
	canonical := r.canonicalLeft(section)
	local := r.resolve(section, order).left
	if canonical.ID == local.ID {
		return ts
	}
	r.observer.OnRemap(RemapEvent{
		SectionID:       section.ID,
		CanonicalLeftID: canonical.ID,
		OrderedLeftID:   local.ID,
	})
	mapped := DefaultTimeStructure(ts)
	mapped.RightArrivalTime = ts.LeftArrivalTime
	mapped.LeftArrivalTime = ts.RightArrivalTime
	mapped.RightDepartureTime = ts.LeftDepartureTime
	mapped.LeftDepartureTime = ts.RightDepartureTime
	mapped.TravelTime = ts.TravelTime
	return mapped
}

// DistributeTravelTime spreads total over the legs of the non-stop chain
// containing section, walking from the left endpoint to the right one.
func (r *Resolver) DistributeTravelTime(section *netz.Section, order []*netz.Node, total float64) []LegTravelTime {
	chain := r.trainruns.Chain(section)
	e := r.resolve(section, order)
	if e.left.ID != e.pair.Node1.ID {
		reversed := make([]*netz.Section, len(chain))
		for i, leg := range chain {
			reversed[len(chain)-1-i] = leg
		}
		chain = reversed
	}

	cumulative := 0.0
	for _, leg := range chain {
		cumulative += leg.TravelTime
	}
	factor := 0.0
	if cumulative > 0 {
		factor = total / cumulative
	}

	legs := make([]LegTravelTime, len(chain))
	summed := 0.0
	for i, leg := range chain {
		tt := SectionTravelTime(total, summed, factor, leg.TravelTime, i < len(chain)-1)
		summed += tt
		legs[i] = LegTravelTime{SectionID: leg.ID, TravelTime: tt}
	}
	return legs
}
