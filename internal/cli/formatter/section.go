package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"sectionview/internal/editor"
	"sectionview/internal/orientation"
)

func minutes(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func label(l [2]string) string {
	return strings.TrimSpace(l[0] + " " + StyleDim.Render(l[1]))
}

func title(p *editor.Presentation) string {
	name := p.TrainrunName
	if name == "" {
		name = fmt.Sprintf("trainrun %d", p.TrainrunID)
	}
	return fmt.Sprintf("section %d · %s", p.SectionID, name)
}

// FormatPresentation renders the left/right view of a section.
func FormatPresentation(p *editor.Presentation) string {
	var b strings.Builder
	b.WriteString(Header(title(p)))
	b.WriteString("\n\n")

	rows := [][]string{
		{"node", label(p.LeftLabel), label(p.RightLabel)},
		{"departure", minutes(p.Times.LeftDepartureTime), minutes(p.Times.RightDepartureTime)},
		{"arrival", minutes(p.Times.LeftArrivalTime), minutes(p.Times.RightArrivalTime)},
		{"lock", Lock(p.Locks.LeftLock), Lock(p.Locks.RightLock)},
	}
	b.WriteString(RenderTable([]string{"", "left", "right"}, rows))
	fmt.Fprintf(&b, "\ntravel time %s min (%s)\n", minutes(p.Times.TravelTime), Lock(p.Locks.TravelTimeLock))

	if p.Remapped != nil {
		b.WriteString("\n" + StyleBold.Render("remapped") + "\n")
		b.WriteString(formatTimes(*p.Remapped))
	}
	if p.Preview != nil {
		b.WriteString("\n" + StyleBold.Render("preview") + "\n")
		b.WriteString(formatTimes(*p.Preview))
	}
	if p.Selected != nil {
		fmt.Fprintf(&b, "\nselected %s\n", StyleBold.Render(p.Selected.String()))
	}
	if len(p.Legs) > 0 {
		b.WriteString("\n")
		b.WriteString(FormatLegs(p.Legs))
	}
	return b.String()
}

func formatTimes(ts orientation.TimeStructure) string {
	return fmt.Sprintf("  left  %s / %s\n  right %s / %s\n  travel %s\n",
		minutes(ts.LeftDepartureTime), minutes(ts.LeftArrivalTime),
		minutes(ts.RightDepartureTime), minutes(ts.RightArrivalTime),
		minutes(ts.TravelTime))
}

// FormatLocks renders the left/right locks and the source/target write-back flags.
func FormatLocks(p *editor.Presentation) string {
	var b strings.Builder
	b.WriteString(Header(title(p)))
	b.WriteString("\n\n")
	b.WriteString(RenderTable([]string{"side", "node", "lock"}, [][]string{
		{"left", label(p.LeftLabel), Lock(p.Locks.LeftLock)},
		{"right", label(p.RightLabel), Lock(p.Locks.RightLock)},
		{"travel time", "", Lock(p.Locks.TravelTimeLock)},
	}))
	fmt.Fprintf(&b, "\nsource %s, target %s\n", Lock(p.SourceLock), Lock(p.TargetLock))
	return b.String()
}

func FormatSelection(text string, p *editor.Presentation) string {
	if p.Selected == nil {
		return fmt.Sprintf("%s has no left/right counterpart\n", text)
	}
	return fmt.Sprintf("%s -> %s\n", text, StyleBold.Render(p.Selected.String()))
}

func FormatLegs(legs []orientation.LegTravelTime) string {
	rows := make([][]string, 0, len(legs)+1)
	total := 0.0
	for _, leg := range legs {
		rows = append(rows, []string{strconv.Itoa(leg.SectionID), minutes(leg.TravelTime)})
		total += leg.TravelTime
	}
	rows = append(rows, []string{StyleDim.Render("total"), minutes(total)})
	return RenderTable([]string{"section", "travel time"}, rows)
}
