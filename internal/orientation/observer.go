package orientation

import "log"

// ResolveEvent is emitted once per endpoint resolution.
type ResolveEvent struct {
	SectionID int
	Ordered   bool // false when the position fallback was used
}

// RemapEvent is emitted when MapLeftAndRightTimes swaps sides.
type RemapEvent struct {
	SectionID       int
	CanonicalLeftID int
	OrderedLeftID   int
}

// Observer receives resolver events for logging and metrics.
type Observer interface {
	OnResolve(ResolveEvent)
	OnRemap(RemapEvent)
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnResolve(ResolveEvent) {}
func (NoopObserver) OnRemap(RemapEvent)     {}

// remapOnly forwards remaps and drops resolutions.
type remapOnly struct{ Observer }

func (remapOnly) OnResolve(ResolveEvent) {}

// LogObserver traces remaps. Resolutions are too frequent to log.
type LogObserver struct {
	l *log.Logger
}

// NewLogObserver logs to l, or to the standard logger when l is nil.
func NewLogObserver(l *log.Logger) *LogObserver {
	if l == nil {
		l = log.Default()
	}
	return &LogObserver{l: l}
}

func (o *LogObserver) OnResolve(ResolveEvent) {}

func (o *LogObserver) OnRemap(e RemapEvent) {
	o.l.Printf("remap section %d: left %d -> %d", e.SectionID, e.CanonicalLeftID, e.OrderedLeftID)
}
