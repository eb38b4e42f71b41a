package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Latency buckets in milliseconds.
var defaultBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000} //nolint:gochecknoglobals // bucket table

// Manager owns every Prometheus instrument of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Directory
	directorySize     prometheus.Gauge
	registrations     *prometheus.CounterVec
	searches          prometheus.Counter
	searchLatency     prometheus.Histogram
	searchResults     prometheus.Histogram
	estimates         *prometheus.CounterVec
	bookingsSubmitted prometheus.Counter
	idempotentReplays prometheus.Counter
	persistLatency    *prometheus.HistogramVec
	persistFailures   *prometheus.CounterVec

	// Notification pipeline
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueue       prometheus.Counter
	queueEnqueueErrors prometheus.Counter
	queueDequeue       prometheus.Counter
	workerCount        prometheus.Gauge
	dispatchLatency    *prometheus.HistogramVec
	dispatchErrors     *prometheus.CounterVec
	wsClients          prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec

	// Process
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegisterer(customRegistry))
}

// NewManager creates a metrics manager and registers its instruments.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "protecthire",
		subsystem:        "directory",
		histogramBuckets: defaultBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: m.histogramBuckets,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.directorySize = m.gauge("guards_total", "Number of guard profiles in the directory")
	m.registrations = m.counterVec("registrations_total", "Guard registrations by outcome", "outcome")
	m.searches = m.counter("searches_total", "Directory searches served")
	m.searchLatency = m.histogram("search_latency_milliseconds", "Directory search latency in milliseconds", m.histogramBuckets)
	m.searchResults = m.histogram("search_results", "Number of profiles returned per search",
		[]float64{0, 1, 2, 5, 10, 25, 50, 100, 250, 1000})
	m.estimates = m.counterVec("estimates_total", "Booking estimates by pricing basis", "basis")
	m.bookingsSubmitted = m.counter("bookings_submitted_total", "Booking requests accepted for notification")
	m.idempotentReplays = m.counter("idempotent_replays_total", "Registrations answered from the idempotency cache")
	m.persistLatency = m.histogramVec("persist_latency_milliseconds", "Backend save latency in milliseconds", "backend")
	m.persistFailures = m.counterVec("persist_failures_total", "Backend save failures", "backend")

	m.queueSize = m.gauge("queue_size", "Current notification queue depth")
	m.queueCapacity = m.gauge("queue_capacity", "Notification queue capacity")
	m.queueEnqueue = m.counter("queue_enqueue_total", "Notifications enqueued")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Notifications rejected by a full or closed queue")
	m.queueDequeue = m.counter("queue_dequeue_total", "Notifications dequeued")
	m.workerCount = m.gauge("worker_count", "Running notification workers")
	m.dispatchLatency = m.histogramVec("dispatch_latency_milliseconds", "Notification dispatch latency in milliseconds", "kind")
	m.dispatchErrors = m.counterVec("dispatch_errors_total", "Notification dispatch failures", "kind")
	m.wsClients = m.gauge("websocket_clients", "Connected websocket subscribers")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint and method",
		"endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds",
		"endpoint", "method", "status_code")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "HTTP errors by endpoint",
		"endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap memory in use")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// UpdateDirectorySize sets the number of profiles held by the directory.
func UpdateDirectorySize(n int) { globalManager.directorySize.Set(float64(n)) }

// RecordRegistration counts a registration; outcome is created, replayed, invalid or failed.
func RecordRegistration(outcome string) { globalManager.registrations.WithLabelValues(outcome).Inc() }

// RecordSearch records one directory search.
func RecordSearch(latencyMs float64, results int) {
	globalManager.searches.Inc()
	globalManager.searchLatency.Observe(latencyMs)
	globalManager.searchResults.Observe(float64(results))
}

// RecordEstimate counts an estimate by its pricing basis.
func RecordEstimate(basis string) { globalManager.estimates.WithLabelValues(basis).Inc() }

// RecordBookingSubmitted counts an accepted booking request.
func RecordBookingSubmitted() { globalManager.bookingsSubmitted.Inc() }

// RecordIdempotentReplay counts a registration served from the idempotency cache.
func RecordIdempotentReplay() { globalManager.idempotentReplays.Inc() }

// RecordPersist records a backend save.
func RecordPersist(backend string, latencyMs float64, err error) {
	globalManager.persistLatency.WithLabelValues(backend).Observe(latencyMs)
	if err != nil {
		globalManager.persistFailures.WithLabelValues(backend).Inc()
	}
}

// UpdateQueueSize sets the current queue depth.
func UpdateQueueSize(size int) { globalManager.queueSize.Set(float64(size)) }

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() { globalManager.queueEnqueue.Inc() }

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() { globalManager.queueEnqueueErrors.Inc() }

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() { globalManager.queueDequeue.Inc() }

// UpdateWorkerCount sets the number of running workers.
func UpdateWorkerCount(count int) { globalManager.workerCount.Set(float64(count)) }

// RecordDispatch records one notification dispatch.
func RecordDispatch(kind string, latencyMs float64, err error) {
	globalManager.dispatchLatency.WithLabelValues(kind).Observe(latencyMs)
	if err != nil {
		globalManager.dispatchErrors.WithLabelValues(kind).Inc()
	}
}

// UpdateWebsocketClients sets the number of connected subscribers.
func UpdateWebsocketClients(n int) { globalManager.wsClients.Set(float64(n)) }

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) { globalManager.systemGoroutineCount.Set(float64(count)) }

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) { globalManager.systemGCPauseTime.Observe(pauseMs) }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
