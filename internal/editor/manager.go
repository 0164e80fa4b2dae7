package editor

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"sectionview/internal/netz"
	"sectionview/internal/orientation"
	"sectionview/internal/trainrun"
)

// Loader fetches a fresh network snapshot.
type Loader func(ctx context.Context) (*netz.Network, error)

// Metrics is the subset of the collector the manager reports to. Nil disables reporting.
type Metrics interface {
	PresentObserve(d time.Duration)
	PresentationInc()
	PresentationErrInc(reason string)
	UnmappedSelectionInc()
	ReloadObserve(nodes, sections int, err error)
}

// snapshot bundles a network with the services built over it. It is replaced
// as a whole on reload.
type snapshot struct {
	net      *netz.Network
	trains   *trainrun.Service
	resolver *orientation.Resolver
	quiet    *orientation.Resolver // reports remaps only
	loadedAt time.Time
}

type Manager struct {
	load            Loader
	observer        orientation.Observer
	refreshInterval time.Duration
	metrics         Metrics

	mu   sync.RWMutex
	snap *snapshot

	refreshCancel context.CancelFunc
	refreshWG     sync.WaitGroup
}

func NewManager(load Loader, observer orientation.Observer, refreshInterval time.Duration, metrics Metrics) *Manager {
	return &Manager{
		load:            load,
		observer:        observer,
		refreshInterval: refreshInterval,
		metrics:         metrics,
	}
}

// Install replaces the current snapshot with net.
func (m *Manager) Install(net *netz.Network) {
	trains := trainrun.NewService(net)
	resolver := orientation.NewResolver(trains, m.observer)
	s := &snapshot{
		net:      net,
		trains:   trains,
		resolver: resolver,
		quiet:    resolver.WithoutResolveEvents(),
		loadedAt: time.Now().UTC(),
	}
	m.mu.Lock()
	m.snap = s
	m.mu.Unlock()
}

func (m *Manager) current() *snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap
}

// Network returns the current snapshot's network, or nil before the first load.
func (m *Manager) Network() *netz.Network {
	if s := m.current(); s != nil {
		return s.net
	}
	return nil
}

// LoadedAt returns when the current snapshot was installed.
func (m *Manager) LoadedAt() time.Time {
	if s := m.current(); s != nil {
		return s.loadedAt
	}
	return time.Time{}
}

// Reload fetches a network and installs it. On error the previous snapshot
// stays. Reload does not log; callers decide what a reload is worth reporting.
func (m *Manager) Reload(ctx context.Context) error {
	if m.load == nil {
		return errors.New("no network loader")
	}
	net, err := m.load(ctx)
	if err != nil {
		if m.metrics != nil {
			m.metrics.ReloadObserve(0, 0, err)
		}
		return err
	}
	m.Install(net)
	if m.metrics != nil {
		m.metrics.ReloadObserve(net.NodeCount(), net.SectionCount(), nil)
	}
	return nil
}

func (m *Manager) StartRefresher(parent context.Context) {
	if m.refreshInterval <= 0 {
		return
	}
	ctx, cancel := context.WithCancel(parent)
	m.refreshCancel = cancel
	m.refreshWG.Add(1)
	go func() {
		defer m.refreshWG.Done()
		ticker := time.NewTicker(m.refreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := m.Reload(ctx); err != nil {
					log.Printf("refresh network error: %v", err)
					continue
				}
				net := m.Network()
				log.Printf("network refreshed: %d nodes, %d sections", net.NodeCount(), net.SectionCount())
			}
		}
	}()
}

// Stop cancels the refresher and waits for it to exit.
func (m *Manager) Stop() {
	if m.refreshCancel != nil {
		m.refreshCancel()
	}
	m.refreshWG.Wait()
}
