package metrics

import (
	"time"

	"sanctuary-mural/internal/core/domain"
	"sanctuary-mural/internal/core/ports"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Provider implements ports.Metrics with Prometheus collectors.
type Provider struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	donationsTotal  *prometheus.CounterVec
	pixelsTotal     *prometheus.CounterVec
	muralFullTotal  *prometheus.CounterVec
	batchSize       prometheus.Histogram
	batchDuration   prometheus.Histogram
	subscribers     *prometheus.GaugeVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
}

// NewProvider registers collectors on reg. When disabled, a no-op is returned
// and nothing is registered.
func NewProvider(enabled bool, reg prometheus.Registerer) ports.Metrics {
	if !enabled {
		return Noop()
	}

	f := promauto.With(reg)
	return &Provider{
		requestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mural_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"route", "status"}),

		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mural_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),

		donationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mural_donations_total",
			Help: "Webhook donations by provider and outcome",
		}, []string{"provider", "outcome"}),

		pixelsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mural_pixels_allocated_total",
			Help: "Pixels allocated per sanctuary",
		}, []string{"sanctuary"}),

		muralFullTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mural_full_skips_total",
			Help: "Pixel slots skipped because the mural was full",
		}, []string{"sanctuary"}),

		batchSize: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "mural_queue_batch_size",
			Help:    "Donations per consumed queue batch",
			Buckets: prometheus.LinearBuckets(1, 5, 10),
		}),

		batchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "mural_queue_batch_duration_seconds",
			Help:    "Time to forward and allocate one queue batch",
			Buckets: prometheus.DefBuckets,
		}),

		subscribers: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mural_ws_subscribers",
			Help: "Open WebSocket subscribers per sanctuary",
		}, []string{"sanctuary"}),

		cacheHits: f.NewCounter(prometheus.CounterOpts{
			Name: "mural_snapshot_cache_hits_total",
			Help: "Total number of snapshot cache hits",
		}),

		cacheMisses: f.NewCounter(prometheus.CounterOpts{
			Name: "mural_snapshot_cache_misses_total",
			Help: "Total number of snapshot cache misses",
		}),
	}
}

func (m *Provider) IncRequestsTotal(route string, status int) {
	m.requestsTotal.WithLabelValues(route, httpStatusBucket(status)).Inc()
}

func (m *Provider) ObserveRequestDuration(route string, duration time.Duration) {
	m.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

func (m *Provider) IncDonations(provider domain.ProviderID, outcome string) {
	m.donationsTotal.WithLabelValues(string(provider), outcome).Inc()
}

func (m *Provider) AddPixels(sanctuary string, count int) {
	m.pixelsTotal.WithLabelValues(sanctuary).Add(float64(count))
}

func (m *Provider) IncMuralFull(sanctuary string) {
	m.muralFullTotal.WithLabelValues(sanctuary).Inc()
}

func (m *Provider) ObserveBatch(size int, duration time.Duration) {
	m.batchSize.Observe(float64(size))
	m.batchDuration.Observe(duration.Seconds())
}

func (m *Provider) SetSubscribers(sanctuary string, count int) {
	m.subscribers.WithLabelValues(sanctuary).Set(float64(count))
}

func (m *Provider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *Provider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

// Noop returns a metrics implementation that records nothing.
func Noop() ports.Metrics {
	return noopMetrics{}
}

type noopMetrics struct{}

func (noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (noopMetrics) IncDonations(_ domain.ProviderID, _ string)       {}
func (noopMetrics) AddPixels(_ string, _ int)                        {}
func (noopMetrics) IncMuralFull(_ string)                            {}
func (noopMetrics) ObserveBatch(_ int, _ time.Duration)              {}
func (noopMetrics) SetSubscribers(_ string, _ int)                   {}
func (noopMetrics) IncCacheHits()                                    {}
func (noopMetrics) IncCacheMisses()                                  {}
