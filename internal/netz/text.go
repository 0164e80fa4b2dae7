package netz

import (
	"fmt"
	"strings"
)

// SectionText identifies an editable text field of a section as drawn on the
// canvas, relative to the section's source and target.
type SectionText int

const (
	TextSourceDeparture SectionText = iota + 1
	TextSourceArrival
	TextTargetDeparture
	TextTargetArrival
	TextTravelTime
	TextName
)

var sectionTextNames = map[SectionText]string{
	TextSourceDeparture: "source-departure",
	TextSourceArrival:   "source-arrival",
	TextTargetDeparture: "target-departure",
	TextTargetArrival:   "target-arrival",
	TextTravelTime:      "travel-time",
	TextName:            "name",
}

func (t SectionText) String() string {
	if s, ok := sectionTextNames[t]; ok {
		return s
	}
	return fmt.Sprintf("SectionText(%d)", int(t))
}

// ParseSectionText accepts the kebab-case names used by String.
func ParseSectionText(s string) (SectionText, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range sectionTextNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown section text %q", s)
}
