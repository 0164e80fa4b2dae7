package editor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sectionview/internal/netz"
	"sectionview/internal/orientation"
)

var (
	ErrNoNetwork         = errors.New("no network loaded")
	ErrUnknownSection    = errors.New("unknown section")
	ErrUnknownNode       = errors.New("unknown node")
	ErrDegenerateSection = errors.New("section endpoints resolve to the same node")
	ErrBadSelection      = errors.New("bad selection")
	ErrBadDirection      = errors.New("bad direction")
)

// Request asks for the presentation of one section. Everything besides
// SectionID is optional; OrderedNodeIDs is the current on-screen node order.
type Request struct {
	SectionID       int                        `json:"sectionId"`
	OrderedNodeIDs  []int                      `json:"orderedNodeIds,omitempty"`
	Times           *orientation.TimeStructure `json:"times,omitempty"`           // stale structure to re-anchor
	Selected        string                     `json:"selected,omitempty"`        // e.g. "source-departure"
	Direction       string                     `json:"direction,omitempty"`       // "forward", "backward" or empty
	LeftDeparture   *float64                   `json:"leftDeparture,omitempty"`   // edit preview
	TotalTravelTime *float64                   `json:"totalTravelTime,omitempty"` // redistribute over the chain
}

type Presentation struct {
	ID           string                      `json:"id"`
	SectionID    int                         `json:"sectionId"`
	TrainrunID   int                         `json:"trainrunId"`
	TrainrunName string                      `json:"trainrunName,omitempty"`
	LeftNodeID   int                         `json:"leftNodeId"`
	RightNodeID  int                         `json:"rightNodeId"`
	LeftLabel    [2]string                   `json:"leftLabel"`
	RightLabel   [2]string                   `json:"rightLabel"`
	Times        orientation.TimeStructure   `json:"times"`
	Locks        orientation.LockStructure   `json:"locks"`
	SourceLock   bool                        `json:"sourceLock"`
	TargetLock   bool                        `json:"targetLock"`
	Remapped     *orientation.TimeStructure  `json:"remapped,omitempty"`
	Preview      *orientation.TimeStructure  `json:"preview,omitempty"`
	Selected     *orientation.Element        `json:"selected,omitempty"`
	Legs         []orientation.LegTravelTime `json:"legs,omitempty"`
	ResolvedAt   time.Time                   `json:"resolvedAt"`
}

// Present resolves req against the current snapshot. The snapshot is taken
// once, so a concurrent reload never mixes two networks in one answer.
func (m *Manager) Present(ctx context.Context, req Request) (*Presentation, error) {
	start := time.Now()
	p, err := m.present(ctx, req)
	if m.metrics != nil {
		m.metrics.PresentObserve(time.Since(start))
		if err != nil {
			m.metrics.PresentationErrInc(Reason(err))
		} else {
			m.metrics.PresentationInc()
		}
	}
	return p, err
}

func (m *Manager) present(ctx context.Context, req Request) (*Presentation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap := m.current()
	if snap == nil {
		return nil, ErrNoNetwork
	}
	section := snap.net.Section(req.SectionID)
	if section == nil {
		return nil, fmt.Errorf("section %d: %w", req.SectionID, ErrUnknownSection)
	}
	order, err := resolveOrder(snap.net, req.OrderedNodeIDs)
	if err != nil {
		return nil, err
	}
	if pair := snap.trains.BothLastNonStopNodes(section); pair.Node1.ID == pair.Node2.ID {
		return nil, fmt.Errorf("section %d at node %d: %w", section.ID, pair.Node1.ID, ErrDegenerateSection)
	}
	dir, err := orientation.ParseDirection(req.Direction)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDirection, err)
	}

	// One resolve event per request; the remaining calls report remaps only.
	left, right := snap.resolver.Endpoints(section, order)
	r := snap.quiet
	p := &Presentation{
		ID:          uuid.NewString(),
		SectionID:   section.ID,
		TrainrunID:  section.TrainrunID,
		LeftNodeID:  left.ID,
		RightNodeID: right.ID,
		LeftLabel:   r.LeftLabel(section, order),
		RightLabel:  r.RightLabel(section, order),
		Times:       r.LeftAndRightTimes(section, order),
		Locks:       r.LeftAndRightLock(section, order),
		ResolvedAt:  time.Now().UTC(),
	}
	if tr := snap.net.Trainrun(section.TrainrunID); tr != nil {
		p.TrainrunName = tr.Name
	}

	canonical := r.LeftAndRightLock(section, nil)
	p.SourceLock = r.SourceLock(canonical, section)
	p.TargetLock = r.TargetLock(canonical, section)

	if req.Times != nil {
		remapped := r.MapLeftAndRightTimes(section, order, *req.Times)
		p.Remapped = &remapped
	}
	if req.LeftDeparture != nil {
		preview := orientation.ApplyLeftDeparture(p.Times, *req.LeftDeparture)
		p.Preview = &preview
	}
	if req.TotalTravelTime != nil {
		p.Legs = r.DistributeTravelTime(section, order, *req.TotalTravelTime)
	}
	if req.Selected != "" {
		text, err := netz.ParseSectionText(req.Selected)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadSelection, err)
		}
		if el, ok := r.MapSelectedTimeElement(text, section, order, dir); ok {
			p.Selected = &el
		} else if m.metrics != nil {
			m.metrics.UnmappedSelectionInc()
		}
	}
	return p, nil
}

func resolveOrder(net *netz.Network, ids []int) ([]*netz.Node, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	order := make([]*netz.Node, 0, len(ids))
	for _, id := range ids {
		n := net.Node(id)
		if n == nil {
			return nil, fmt.Errorf("node %d: %w", id, ErrUnknownNode)
		}
		order = append(order, n)
	}
	return order, nil
}

// Reason maps a Present error to a short metrics/HTTP label.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrNoNetwork):
		return "no_network"
	case errors.Is(err, ErrUnknownSection):
		return "unknown_section"
	case errors.Is(err, ErrUnknownNode):
		return "unknown_node"
	case errors.Is(err, ErrDegenerateSection):
		return "degenerate_section"
	case errors.Is(err, ErrBadSelection):
		return "bad_selection"
	case errors.Is(err, ErrBadDirection):
		return "bad_direction"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	}
	return "internal"
}
