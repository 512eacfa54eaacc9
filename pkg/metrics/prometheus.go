// Package metrics provides Prometheus metrics for the overlay renderer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for a render run.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Frame loop metrics
	framesRendered prometheus.Counter
	framesSkipped  prometheus.Counter
	frameLatency   prometheus.Histogram
	clockSeconds   prometheus.Gauge

	// Timeline metrics
	eventsDispatched *prometheus.CounterVec
	eventsRemaining  prometheus.Gauge

	// Card display metrics
	phaseTransitions *prometheus.CounterVec
	cardQueueDepth   prometheus.Gauge
	zoomCycles       prometheus.Counter

	// Life tracker metrics
	lifeGap *prometheus.GaugeVec

	// Frame buffer metrics
	frameBufferDepth prometheus.Gauge
	encodeLatency    prometheus.Histogram
	encodeErrors     prometheus.Counter

	// Failure metrics
	parseErrors  prometheus.Counter
	lookupErrors prometheus.Counter
	renderErrors *prometheus.CounterVec

	// Ops endpoint metrics
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "gotoone",
		subsystem:        "overlay",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.framesRendered = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "frames_rendered_total",
		Help:      "Total number of output frames written",
	})

	m.framesSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "frames_skipped_total",
		Help:      "Total number of source frames consumed without an output frame",
	})

	m.frameLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "frame_latency_milliseconds",
		Help:      "Histogram of per-frame compose and encode latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.clockSeconds = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "clock_seconds",
		Help:      "Current position of the media clock in seconds (render progress)",
	})

	m.eventsDispatched = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "events_dispatched_total",
			Help:      "Total number of timeline events dispatched by kind",
		},
		[]string{"kind"},
	)

	m.eventsRemaining = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_remaining",
		Help:      "Number of timeline events not yet dispatched",
	})

	m.phaseTransitions = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "card_phase_transitions_total",
			Help:      "Total number of card display phase transitions by entered phase",
		},
		[]string{"phase"},
	)

	m.cardQueueDepth = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "card_queue_depth",
		Help:      "Number of played cards waiting for display",
	})

	m.zoomCycles = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "zoom_cycles_total",
		Help:      "Total number of completed card zoom cycles",
	})

	m.lifeGap = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "life_display_gap",
			Help:      "Distance between a player's displayed and target life totals",
		},
		[]string{"player"},
	)

	m.frameBufferDepth = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "frame_buffer_depth",
		Help:      "Number of composed frames waiting for the encoder",
	})

	m.encodeLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "encode_latency_milliseconds",
		Help:      "Histogram of per-frame encoder write latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.encodeErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "encode_errors_total",
		Help:      "Total number of encoder write failures",
	})

	m.parseErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "parse_errors_total",
		Help:      "Total number of annotation parse failures",
	})

	m.lookupErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "card_lookup_errors_total",
		Help:      "Total number of card database lookup misses",
	})

	m.renderErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "render_errors_total",
			Help:      "Total number of render failures by component",
		},
		[]string{"component"},
	)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of ops endpoint requests",
		},
		[]string{"endpoint", "method", "status"},
	)

	m.httpDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "Histogram of ops endpoint request durations in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method"},
	)
}

// RecordFrameRendered increments the rendered frames counter.
func RecordFrameRendered() {
	globalManager.framesRendered.Inc()
}

// RecordFrameSkipped increments the skipped source frames counter.
func RecordFrameSkipped() {
	globalManager.framesSkipped.Inc()
}

// RecordFrameLatency records per-frame latency in milliseconds.
func RecordFrameLatency(latencyMs float64) {
	globalManager.frameLatency.Observe(latencyMs)
}

// UpdateClockSeconds sets the media clock position.
func UpdateClockSeconds(seconds float64) {
	globalManager.clockSeconds.Set(seconds)
}

// RecordEventDispatched increments the dispatch counter for an event kind.
func RecordEventDispatched(kind string) {
	globalManager.eventsDispatched.WithLabelValues(kind).Inc()
}

// UpdateEventsRemaining sets the undispatched event count.
func UpdateEventsRemaining(count int) {
	globalManager.eventsRemaining.Set(float64(count))
}

// RecordPhaseTransition increments the transition counter for an entered phase.
func RecordPhaseTransition(phase string) {
	globalManager.phaseTransitions.WithLabelValues(phase).Inc()
}

// UpdateCardQueueDepth sets the pending card count.
func UpdateCardQueueDepth(depth int) {
	globalManager.cardQueueDepth.Set(float64(depth))
}

// RecordZoomCycle increments the completed zoom cycle counter.
func RecordZoomCycle() {
	globalManager.zoomCycles.Inc()
}

// UpdateLifeGap sets the displayed-versus-target life distance for a player.
func UpdateLifeGap(player string, gap int) {
	if gap < 0 {
		gap = -gap
	}
	globalManager.lifeGap.WithLabelValues(player).Set(float64(gap))
}

// UpdateFrameBufferDepth sets the number of frames waiting for the encoder.
func UpdateFrameBufferDepth(depth int) {
	globalManager.frameBufferDepth.Set(float64(depth))
}

// RecordEncodeLatency records a single encoder write latency in milliseconds.
func RecordEncodeLatency(latencyMs float64) {
	globalManager.encodeLatency.Observe(latencyMs)
}

// RecordEncodeError increments the encoder write failure counter.
func RecordEncodeError() {
	globalManager.encodeErrors.Inc()
}

// RecordParseError increments the annotation parse failure counter.
func RecordParseError() {
	globalManager.parseErrors.Inc()
}

// RecordLookupError increments the card lookup miss counter.
func RecordLookupError() {
	globalManager.lookupErrors.Inc()
}

// RecordRenderError increments the render failure counter for a component.
func RecordRenderError(component string) {
	globalManager.renderErrors.WithLabelValues(component).Inc()
}

// RecordHTTPRequest increments the ops endpoint request counter.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration records an ops endpoint request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method string, durationMs float64) {
	globalManager.httpDuration.WithLabelValues(endpoint, method).Observe(durationMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
