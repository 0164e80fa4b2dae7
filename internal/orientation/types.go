package orientation

import (
	"fmt"
	"strings"
)

// TimeStructure holds the four clock values and the travel time shown in the
// section editor. Left and right refer to whichever node is currently
// resolved as left for the section; the struct carries no node identity.
type TimeStructure struct {
	LeftDepartureTime  float64 `json:"leftDepartureTime"`
	LeftArrivalTime    float64 `json:"leftArrivalTime"`
	RightDepartureTime float64 `json:"rightDepartureTime"`
	RightArrivalTime   float64 `json:"rightArrivalTime"`
	TravelTime         float64 `json:"travelTime"`
}

// LockStructure is the left/right view of a section's lock flags.
type LockStructure struct {
	LeftLock       bool `json:"leftLock"`
	RightLock      bool `json:"rightLock"`
	TravelTimeLock bool `json:"travelTimeLock"`
}

// LegTravelTime is one leg's share of a redistributed chain travel time.
type LegTravelTime struct {
	SectionID  int     `json:"sectionId"`
	TravelTime float64 `json:"travelTime"`
}

// Element is the orientation-free identity of an editable field.
type Element int

const (
	LeftDeparture Element = iota
	LeftArrival
	RightDeparture
	RightArrival
	TravelTime
	LeftRightTrainrunName
	RightLeftTrainrunName
)

var elementNames = [...]string{
	LeftDeparture:         "left-departure",
	LeftArrival:           "left-arrival",
	RightDeparture:        "right-departure",
	RightArrival:          "right-arrival",
	TravelTime:            "travel-time",
	LeftRightTrainrunName: "left-right-name",
	RightLeftTrainrunName: "right-left-name",
}

func (e Element) String() string {
	if e >= 0 && int(e) < len(elementNames) {
		return elementNames[e]
	}
	return fmt.Sprintf("Element(%d)", int(e))
}

func (e Element) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *Element) UnmarshalText(b []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(b)))
	for i, name := range elementNames {
		if name == s {
			*e = Element(i)
			return nil
		}
	}
	return fmt.Errorf("unknown element %q", string(b))
}

// Direction says which way a trainrun name should read. The zero value means
// the caller gave no hint.
type Direction int

const (
	DirectionUnspecified Direction = iota
	DirectionForward
	DirectionBackward
)

func (d Direction) String() string {
	switch d {
	case DirectionForward:
		return "forward"
	case DirectionBackward:
		return "backward"
	}
	return ""
}

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DirectionUnspecified, nil
	case "forward", "fwd":
		return DirectionForward, nil
	case "backward", "bwd":
		return DirectionBackward, nil
	}
	return DirectionUnspecified, fmt.Errorf("unknown direction %q", s)
}
