package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	Resolutions        *prometheus.CounterVec // mode label: ordered|fallback
	Remaps             prometheus.Counter
	Presentations      prometheus.Counter
	PresentationErrors *prometheus.CounterVec // reason label
	UnmappedSelections prometheus.Counter

	NetworkReloads  *prometheus.CounterVec // result label: ok|error
	NetworkNodes    prometheus.Gauge
	NetworkSections prometheus.Gauge
	DBSwitches      *prometheus.CounterVec // reason label: update|ping_failure

	NATSPublished   prometheus.Counter
	NATSPublishErrs prometheus.Counter
	NATSConnected   prometheus.Gauge

	PresentDuration prometheus.Histogram
	PublishDuration prometheus.Histogram

	RefreshInterval prometheus.Gauge // seconds
}

func NewCollector(refreshInterval time.Duration) *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sectionview_resolutions_total",
			Help: "Left/right endpoint resolutions by mode.",
		}, []string{"mode"}),
		Remaps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sectionview_remaps_total",
			Help: "Time structures whose sides were swapped to follow the node order.",
		}),
		Presentations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sectionview_presentations_total",
			Help: "Section presentations served.",
		}),
		PresentationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sectionview_presentation_errors_total",
			Help: "Rejected presentation requests by reason.",
		}, []string{"reason"}),
		UnmappedSelections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sectionview_unmapped_selections_total",
			Help: "Selected text fields without a left/right counterpart.",
		}),
		NetworkReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sectionview_network_reloads_total",
			Help: "Network snapshot reloads by result.",
		}, []string{"result"}),
		NetworkNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sectionview_network_nodes",
			Help: "Nodes in the current network snapshot.",
		}),
		NetworkSections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sectionview_network_sections",
			Help: "Trainrun sections in the current network snapshot.",
		}),
		DBSwitches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sectionview_db_switches_total",
			Help: "Switches to another variant database by reason.",
		}, []string{"reason"}),
		NATSPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sectionview_nats_published_total",
			Help: "Total NATS messages published.",
		}),
		NATSPublishErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sectionview_nats_publish_errors_total",
			Help: "Total NATS publish errors.",
		}),
		NATSConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sectionview_nats_connected",
			Help: "1 if NATS connection is established, 0 otherwise.",
		}),
		PresentDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sectionview_present_duration_seconds",
			Help:    "Duration to build a section presentation.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 2, 15),
		}),
		PublishDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sectionview_publish_duration_seconds",
			Help:    "Duration to marshal and publish a NATS message.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 15),
		}),
		RefreshInterval: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sectionview_refresh_interval_seconds",
			Help: "Network refresh interval in seconds.",
		}),
	}

	reg.MustRegister(
		c.Resolutions, c.Remaps, c.Presentations, c.PresentationErrors, c.UnmappedSelections,
		c.NetworkReloads, c.NetworkNodes, c.NetworkSections, c.DBSwitches,
		c.NATSPublished, c.NATSPublishErrs, c.NATSConnected,
		c.PresentDuration, c.PublishDuration,
		c.RefreshInterval,
	)

	c.RefreshInterval.Set(refreshInterval.Seconds())

	return c
}

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

// ObserveResolve counts one endpoint resolution.
func (c *Collector) ObserveResolve(ordered bool) {
	mode := "fallback"
	if ordered {
		mode = "ordered"
	}
	c.Resolutions.WithLabelValues(mode).Inc()
}

// ObserveReload records the outcome of a network reload and, on success, its size.
func (c *Collector) ObserveReload(nodes, sections int, err error) {
	if err != nil {
		c.NetworkReloads.WithLabelValues("error").Inc()
		return
	}
	c.NetworkReloads.WithLabelValues("ok").Inc()
	c.NetworkNodes.Set(float64(nodes))
	c.NetworkSections.Set(float64(sections))
}
