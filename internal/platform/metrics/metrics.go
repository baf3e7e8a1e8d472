package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters and gauges for the stagehand engine.
type Metrics struct {
	registry                 *prometheus.Registry
	requestsTotal            prometheus.Counter
	errorsTotal              prometheus.Counter
	framesTotal              prometheus.Counter
	moduleSwitchesTotal      prometheus.Counter
	updateFailuresTotal      prometheus.Counter
	recordingsStartedTotal   prometheus.Counter
	recordingsFinishedTotal  prometheus.Counter
	jsonExportsTotal         prometheus.Counter
	batchJobsDispatchedTotal prometheus.Counter
	batchesCompletedTotal    prometheus.Counter
	recordingActive          prometheus.Gauge
	batchIndex               prometheus.Gauge
	sceneObjects             prometheus.Gauge
	loopHalted               prometheus.Gauge
}

// New creates and registers Prometheus metrics for the engine.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stagehand_requests_total",
		Help: "Total number of HTTP requests received",
	})
	errorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stagehand_errors_total",
		Help: "Total number of HTTP responses with error status (4xx or 5xx)",
	})
	framesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stagehand_frames_total",
		Help: "Total number of frames stepped by the render loop",
	})
	moduleSwitchesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stagehand_module_switches_total",
		Help: "Total number of module activations",
	})
	updateFailuresTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stagehand_module_update_failures_total",
		Help: "Total number of module update faults (each halts the loop)",
	})
	recordingsStartedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stagehand_recordings_started_total",
		Help: "Total number of recording sessions started",
	})
	recordingsFinishedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stagehand_recordings_finished_total",
		Help: "Total number of recording sessions finalized",
	})
	jsonExportsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stagehand_json_exports_total",
		Help: "Total number of JSON documents exported",
	})
	batchJobsDispatchedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stagehand_batch_jobs_dispatched_total",
		Help: "Total number of deliverable jobs dispatched by the batch director",
	})
	batchesCompletedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stagehand_batches_completed_total",
		Help: "Total number of deliverable batches run to completion",
	})
	recordingActive := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "stagehand_recording_active",
		Help: "Whether a recording session is currently active (1) or not (0)",
	})
	batchIndex := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "stagehand_batch_index",
		Help: "Current batch cursor position of the active production module",
	})
	sceneObjects := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "stagehand_scene_objects",
		Help: "Number of objects attached to the shared scene",
	})
	loopHalted := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "stagehand_loop_halted",
		Help: "Whether the render loop has fail-stopped (1) or is running (0)",
	})

	registry.MustRegister(
		requestsTotal,
		errorsTotal,
		framesTotal,
		moduleSwitchesTotal,
		updateFailuresTotal,
		recordingsStartedTotal,
		recordingsFinishedTotal,
		jsonExportsTotal,
		batchJobsDispatchedTotal,
		batchesCompletedTotal,
		recordingActive,
		batchIndex,
		sceneObjects,
		loopHalted,
	)

	return &Metrics{
		registry:                 registry,
		requestsTotal:            requestsTotal,
		errorsTotal:              errorsTotal,
		framesTotal:              framesTotal,
		moduleSwitchesTotal:      moduleSwitchesTotal,
		updateFailuresTotal:      updateFailuresTotal,
		recordingsStartedTotal:   recordingsStartedTotal,
		recordingsFinishedTotal:  recordingsFinishedTotal,
		jsonExportsTotal:         jsonExportsTotal,
		batchJobsDispatchedTotal: batchJobsDispatchedTotal,
		batchesCompletedTotal:    batchesCompletedTotal,
		recordingActive:          recordingActive,
		batchIndex:               batchIndex,
		sceneObjects:             sceneObjects,
		loopHalted:               loopHalted,
	}
}

// IncRequests increments the total request counter.
func (m *Metrics) IncRequests() {
	m.requestsTotal.Inc()
}

// IncErrors increments the HTTP errors counter.
func (m *Metrics) IncErrors() {
	m.errorsTotal.Inc()
}

// IncFrames increments the stepped frames counter.
func (m *Metrics) IncFrames() {
	m.framesTotal.Inc()
}

// IncModuleSwitches increments the module activation counter.
func (m *Metrics) IncModuleSwitches() {
	m.moduleSwitchesTotal.Inc()
}

// IncUpdateFailures increments the module update fault counter.
func (m *Metrics) IncUpdateFailures() {
	m.updateFailuresTotal.Inc()
}

// IncRecordingsStarted increments the recordings started counter.
func (m *Metrics) IncRecordingsStarted() {
	m.recordingsStartedTotal.Inc()
}

// IncRecordingsFinished increments the recordings finalized counter.
func (m *Metrics) IncRecordingsFinished() {
	m.recordingsFinishedTotal.Inc()
}

// IncJSONExports increments the JSON export counter.
func (m *Metrics) IncJSONExports() {
	m.jsonExportsTotal.Inc()
}

// IncBatchJobsDispatched increments the dispatched deliverable job counter.
func (m *Metrics) IncBatchJobsDispatched() {
	m.batchJobsDispatchedTotal.Inc()
}

// IncBatchesCompleted increments the completed batch counter.
func (m *Metrics) IncBatchesCompleted() {
	m.batchesCompletedTotal.Inc()
}

// SetRecordingActive sets the recording-active gauge.
func (m *Metrics) SetRecordingActive(active bool) {
	m.recordingActive.Set(boolGauge(active))
}

// SetBatchIndex sets the batch cursor gauge.
func (m *Metrics) SetBatchIndex(n int) {
	m.batchIndex.Set(float64(n))
}

// SetSceneObjects sets the scene object count gauge.
func (m *Metrics) SetSceneObjects(n int) {
	m.sceneObjects.Set(float64(n))
}

// SetLoopHalted sets the loop-halted gauge.
func (m *Metrics) SetLoopHalted(halted bool) {
	m.loopHalted.Set(boolGauge(halted))
}

func boolGauge(v bool) float64 {
	if v {
		return 1
	}
	return 0
}

// Handler returns an http.Handler that serves Prometheus metrics.
// updateGauges is called before each scrape to refresh gauge values
// (e.g. batch cursor and recording state from an engine snapshot).
func (m *Metrics) Handler(updateGauges func()) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if updateGauges != nil {
			updateGauges()
		}
		promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
	})
}
