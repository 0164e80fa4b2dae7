package main

import (
	"context"
	"database/sql"
	"log"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"sectionview/internal/api"
	"sectionview/internal/config"
	"sectionview/internal/db"
	"sectionview/internal/editor"
	"sectionview/internal/metrics"
	"sectionview/internal/netz"
	"sectionview/internal/orientation"
	"sectionview/internal/publisher"
)

const variantCheckInterval = 30 * time.Minute

func main() {
	// Load configuration from .env and environment
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	// Root context with cancellation on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// With PROJECT set on a Postgres cluster, read the newest published variant
	// from the 'postgres' meta database and connect to it.
	useVariants := cfg.Project != "" && db.IsPostgres(cfg.DatabaseURL)
	finalDSN := cfg.DatabaseURL
	var currentDBName string
	if useVariants {
		name, dsn, err := resolveVariant(ctx, cfg)
		if err != nil {
			log.Fatalf("resolve latest variant for project %q: %v", cfg.Project, err)
		}
		currentDBName, finalDSN = name, dsn
		log.Printf("using database %q for project %q", name, cfg.Project)
	}
	sqlDB, err := db.Open(finalDSN)
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}
	if err := db.Ping(ctx, sqlDB); err != nil {
		log.Fatalf("db ping error: %v", err)
	}
	var current atomic.Pointer[sql.DB]
	current.Store(sqlDB)
	defer func() { current.Load().Close() }()

	mcol := metrics.NewCollector(cfg.RefreshInterval)

	var observer orientation.Observer = &metricsObserver{c: mcol}
	if cfg.LogRemaps {
		observer = observers{observer, orientation.NewLogObserver(nil)}
	}

	load := func(ctx context.Context) (*netz.Network, error) {
		return db.FetchNetwork(ctx, current.Load())
	}
	mgr := editor.NewManager(load, observer, cfg.RefreshInterval, wrapEditorMetrics(mcol))
	if err := mgr.Reload(ctx); err != nil {
		log.Fatalf("load network error: %v", err)
	}
	if net := mgr.Network(); net != nil {
		log.Printf("network loaded: %d nodes, %d sections", net.NodeCount(), net.SectionCount())
	}
	mgr.StartRefresher(ctx)

	// NATS: broadcast presentations and answer request/reply
	var pub *publisher.NATSPublisher
	if cfg.NATSEnabled {
		pub, err = publisher.NewNATSPublisher(cfg.NATSURL, cfg.NATSSubjectPrefix, cfg.LogNATSSubjects, wrapPublisherMetrics(mcol))
		if err != nil {
			log.Fatalf("nats error: %v", err)
		}
		defer pub.Close()
		if err := pub.Serve(cfg.NATSRequestSubject, 5*time.Second, mgr.Present); err != nil {
			log.Fatalf("nats serve error: %v", err)
		}
	}

	// HTTP API and /metrics
	if cfg.HTTPAddr != "" {
		opts := api.Options{
			Presenter:   mgr,
			Metrics:     mcol.Handler(),
			CORSOrigins: cfg.CORSOrigins,
		}
		if pub != nil {
			opts.OnPresent = func(p *editor.Presentation) {
				if err := pub.PublishPresentation(p); err != nil {
					log.Printf("publish presentation error: %v", err)
				}
			}
		}
		api.Serve(ctx, cfg.HTTPAddr, api.NewRouter(opts))
		log.Printf("http listening on %s", cfg.HTTPAddr)
	}

	// Periodic variant watcher: switch to a newer published variant, or
	// re-resolve when the current database stops answering.
	var done chan struct{}
	if useVariants {
		done = make(chan struct{})
		go func() {
			defer close(done)
			ticker := time.NewTicker(variantCheckInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
				}

				needSwitch := false
				if err := db.Ping(ctx, current.Load()); err != nil {
					log.Printf("db ping failed: %v, re-resolving variant", err)
					mcol.DBSwitches.WithLabelValues("ping_failure").Inc()
					needSwitch = true
				}

				newName, newDSN, err := resolveVariant(ctx, cfg)
				if err != nil {
					log.Printf("resolve latest variant error: %v", err)
					continue
				}
				if newName != currentDBName {
					log.Printf("detected updated variant for project %q: %q -> %q", cfg.Project, currentDBName, newName)
					mcol.DBSwitches.WithLabelValues("update").Inc()
					needSwitch = true
				}
				if !needSwitch {
					continue
				}

				newDB, err := db.Open(newDSN)
				if err != nil {
					log.Printf("open new DB error: %v", err)
					continue
				}
				if err := db.Ping(ctx, newDB); err != nil {
					log.Printf("ping new DB error: %v", err)
					newDB.Close()
					continue
				}

				old := current.Swap(newDB)
				if err := mgr.Reload(ctx); err != nil {
					log.Printf("load network from %q error: %v, keeping %q", newName, err, currentDBName)
					current.Store(old)
					newDB.Close()
					continue
				}
				old.Close()
				currentDBName = newName
				log.Printf("switched to DB %q for project %q", currentDBName, cfg.Project)
			}
		}()
	}

	// Block until context cancelled
	<-ctx.Done()
	mgr.Stop()
	if done != nil {
		<-done
	}
	log.Println("shutdown complete")
}

// resolveVariant returns the newest published variant database for the
// configured project and a DSN pointing at it.
func resolveVariant(ctx context.Context, cfg *config.Config) (string, string, error) {
	rootDSN, err := db.WithDBName(cfg.DatabaseURL, "postgres")
	if err != nil {
		return "", "", err
	}
	metaDB, err := db.Open(rootDSN)
	if err != nil {
		return "", "", err
	}
	defer metaDB.Close()
	if err := db.Ping(ctx, metaDB); err != nil {
		return "", "", err
	}
	name, err := db.ResolveLatestVariantDBName(ctx, metaDB, cfg.Project)
	if err != nil {
		return "", "", err
	}
	dsn, err := db.WithDBName(cfg.DatabaseURL, name)
	if err != nil {
		return "", "", err
	}
	return name, dsn, nil
}

// observers fans resolver events out to several observers.
type observers []orientation.Observer

func (o observers) OnResolve(e orientation.ResolveEvent) {
	for _, ob := range o {
		ob.OnResolve(e)
	}
}

func (o observers) OnRemap(e orientation.RemapEvent) {
	for _, ob := range o {
		ob.OnRemap(e)
	}
}

type metricsObserver struct{ c *metrics.Collector }

func (m *metricsObserver) OnResolve(e orientation.ResolveEvent) { m.c.ObserveResolve(e.Ordered) }
func (m *metricsObserver) OnRemap(orientation.RemapEvent)       { m.c.Remaps.Inc() }

// wrapEditorMetrics adapts our Collector to the editor.Metrics interface.
func wrapEditorMetrics(c *metrics.Collector) editor.Metrics {
	if c == nil {
		return nil
	}
	return &editorMetrics{c: c}
}

type editorMetrics struct{ c *metrics.Collector }

func (e *editorMetrics) PresentObserve(d time.Duration) { e.c.PresentDuration.Observe(d.Seconds()) }
func (e *editorMetrics) PresentationInc()               { e.c.Presentations.Inc() }
func (e *editorMetrics) PresentationErrInc(reason string) {
	e.c.PresentationErrors.WithLabelValues(reason).Inc()
}
func (e *editorMetrics) UnmappedSelectionInc() { e.c.UnmappedSelections.Inc() }
func (e *editorMetrics) ReloadObserve(nodes, sections int, err error) {
	e.c.ObserveReload(nodes, sections, err)
}

// wrapPublisherMetrics adapts our Collector to the PublisherMetrics interface.
func wrapPublisherMetrics(c *metrics.Collector) publisher.PublisherMetrics {
	if c == nil {
		return nil
	}
	return &pubMetrics{c: c}
}

type pubMetrics struct{ c *metrics.Collector }

func (p *pubMetrics) NATSPublishedInc()              { p.c.NATSPublished.Inc() }
func (p *pubMetrics) NATSPublishErrInc()             { p.c.NATSPublishErrs.Inc() }
func (p *pubMetrics) PublishObserve(d time.Duration) { p.c.PublishDuration.Observe(d.Seconds()) }
func (p *pubMetrics) NATSSetConnected(b bool) {
	if b {
		p.c.NATSConnected.Set(1)
	} else {
		p.c.NATSConnected.Set(0)
	}
}
