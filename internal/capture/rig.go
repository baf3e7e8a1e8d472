package capture

import (
	"log/slog"

	"stagehand/internal/platform/metrics"
	"stagehand/internal/scene"
)

// Rig is the engine capability surface handed to modules and the batch
// director: recording control, JSON export, and camera mode switching.
// Its operations never fail to the caller; an unavailable capability
// degrades to a log line and a no-op, observable only through IsRecording.
type Rig struct {
	log      *slog.Logger
	rec      *Recorder
	exp      *Exporter
	controls *scene.OrbitControls
	metrics  *metrics.Metrics // nil disables metric recording
}

// NewRig wires the capability surface. Metrics may be nil (e.g. in tests).
func NewRig(log *slog.Logger, rec *Recorder, exp *Exporter, controls *scene.OrbitControls, m *metrics.Metrics) *Rig {
	return &Rig{log: log, rec: rec, exp: exp, controls: controls, metrics: m}
}

// IsRecording reports whether a recording session is active.
func (r *Rig) IsRecording() bool {
	return r.rec.IsRecording()
}

// StartRecording begins capturing rendered output under the given artifact
// name. No-op if no render surface is attached or a session is already
// active.
func (r *Rig) StartRecording(name string) {
	if r.rec.Start(name) && r.metrics != nil {
		r.metrics.IncRecordingsStarted()
	}
}

// StopRecording ends the active session, if any. IsRecording clears
// immediately; the clip itself is written by a finalizer goroutine.
func (r *Rig) StopRecording() {
	r.rec.Stop()
}

// SaveJSON synchronously serializes v and writes it under name. Failures
// are logged, never raised.
func (r *Rig) SaveJSON(name string, v any) {
	if err := r.exp.SaveJSON(name, v); err != nil {
		r.log.Error("json export failed",
			slog.String("name", name),
			slog.String("error", err.Error()))
		return
	}
	if r.metrics != nil {
		r.metrics.IncJSONExports()
	}
}

// SetCameraMode hands camera authority to the operator (orbit) or to the
// active module's scripted animation. Scripted mode disables the orbit
// controls and resets them to a neutral pose. Unknown modes are logged and
// ignored.
func (r *Rig) SetCameraMode(mode scene.CameraMode) {
	switch mode {
	case scene.ModeOrbit:
		r.controls.Enabled = true
	case scene.ModeScripted:
		r.controls.Enabled = false
		r.controls.Reset()
	default:
		r.log.Warn("unknown camera mode", slog.String("mode", string(mode)))
		return
	}
	r.log.Debug("camera mode set", slog.String("mode", string(mode)))
}

// CameraMode reports the current mode implied by the orbit controls.
func (r *Rig) CameraMode() scene.CameraMode {
	return r.controls.Mode()
}
