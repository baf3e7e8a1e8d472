package stage

import (
	"context"
	"errors"
	"log/slog"

	"stagehand/internal/capture"
	"stagehand/internal/director"
	"stagehand/internal/platform/metrics"
	"stagehand/internal/scene"
)

var (
	// ErrModuleNotFound is returned when activating an unknown module ID.
	ErrModuleNotFound = errors.New("module not found")

	// ErrNoActiveModule is returned when starting a batch with nothing active.
	ErrNoActiveModule = errors.New("no active module")

	// ErrNotProduction is returned when the active module has no authored
	// deliverables to batch.
	ErrNotProduction = errors.New("active module is not a production module")

	// ErrBatchActive is returned when a batch run is already processing.
	ErrBatchActive = errors.New("a batch is already processing")
)

// Options configures an engine. Metrics, Events, Sink and OnClip may be nil
// or zero; sensible defaults apply.
type Options struct {
	Project string
	FPS     int
	Width   int
	Height  int
	Metrics *metrics.Metrics
	Events  EventSink
	Sink    capture.Sink

	// OnClip is called after a finished recording lands in the sink. It
	// runs off the loop goroutine.
	OnClip func(capture.Clip)
}

// Engine assembles the stage: scene, camera, orbit controls, renderer,
// capture rig, module registry, lifecycle controller and frame loop. One
// engine hosts one stage.
type Engine struct {
	log *slog.Logger

	Scene    *scene.Scene
	Camera   *scene.Camera
	Controls *scene.OrbitControls
	Renderer *scene.Renderer
	Recorder *capture.Recorder
	Rig      *capture.Rig
	Registry *Registry

	controller *Controller
	loop       *Loop
	events     EventSink
}

// New builds an engine hosting the given modules. Nothing is active until
// ActivateModule is called.
func New(log *slog.Logger, opts Options, mods ...Module) *Engine {
	sink := opts.Sink
	if sink == nil {
		sink = capture.NewMemorySink()
	}
	fps := opts.FPS
	if fps <= 0 {
		fps = DefaultFrameRate
	}

	sc := scene.New()
	cam := scene.NewCamera()
	controls := scene.NewOrbitControls(cam)
	renderer := scene.NewRenderer(opts.Width, opts.Height)

	rec := capture.NewRecorder(log, sink, fps)
	rec.Attach(renderer)
	rec.OnFinalized = func(clip capture.Clip) {
		if opts.Metrics != nil {
			opts.Metrics.IncRecordingsFinished()
		}
		if opts.OnClip != nil {
			opts.OnClip(clip)
		}
	}
	rig := capture.NewRig(log, rec, capture.NewExporter(log, sink), controls, opts.Metrics)

	controller := NewController(log, sc, cam, controls, rig, opts.Project, opts.Metrics)
	loop := NewLoop(LoopConfig{
		Log:        log,
		FPS:        fps,
		Scene:      sc,
		Camera:     cam,
		Controls:   controls,
		Renderer:   renderer,
		Rig:        rig,
		Controller: controller,
		Metrics:    opts.Metrics,
		Events:     opts.Events,
	})

	return &Engine{
		log:        log,
		Scene:      sc,
		Camera:     cam,
		Controls:   controls,
		Renderer:   renderer,
		Recorder:   rec,
		Rig:        rig,
		Registry:   NewRegistry(mods...),
		controller: controller,
		loop:       loop,
		events:     opts.Events,
	}
}

// Run drives the frame loop until ctx is cancelled or a module update
// faults.
func (e *Engine) Run(ctx context.Context) error {
	return e.loop.Run(ctx)
}

// Close disposes the active module and waits for pending clip
// finalizations. Call after Run has returned.
func (e *Engine) Close() {
	e.controller.Close()
	e.Recorder.Close()
}

// ActivateModule switches the stage to the module registered under id. The
// switch itself runs on the loop goroutine; this call waits for it.
func (e *Engine) ActivateModule(id string) error {
	m, ok := e.Registry.Get(id)
	if !ok {
		return ErrModuleNotFound
	}
	if _, err := Call(e.loop, func() (struct{}, error) {
		return struct{}{}, e.controller.SwitchTo(m)
	}); err != nil {
		return err
	}
	if e.events != nil {
		e.events.ModuleActivated(id)
	}
	return nil
}

// StartBatch kicks off a batch run on the active production module and
// returns its run ID. The loop's per-tick reconcile does all the work from
// here.
func (e *Engine) StartBatch() (string, error) {
	return Call(e.loop, func() (string, error) {
		m, mctx := e.controller.Active()
		if m == nil {
			return "", ErrNoActiveModule
		}
		if mctx.Production == nil {
			return "", ErrNotProduction
		}
		if mctx.Production.Batch.Active {
			return "", ErrBatchActive
		}
		director.StartBatch(mctx.Production, e.Rig)
		e.log.Info("batch started",
			slog.String("module_id", m.Descriptor().ID),
			slog.String("run", mctx.Production.Batch.RunID),
			slog.Int("jobs", len(mctx.Production.Deliverables)))
		return mctx.Production.Batch.RunID, nil
	})
}

// CameraPose is the rendered camera state.
type CameraPose struct {
	Position [3]float32       `json:"position"`
	Target   [3]float32       `json:"target"`
	FOV      float32          `json:"fov"`
	Mode     scene.CameraMode `json:"mode"`
}

// PlaybackStatus reports the scripted shot most recently in flight.
type PlaybackStatus struct {
	ShotID   string `json:"shotId"`
	Playing  bool   `json:"playing"`
	Progress int    `json:"progress"`
}

// Snapshot is a point-in-time view of the stage, safe to serialize after
// the call returns.
type Snapshot struct {
	ActiveModule string               `json:"activeModule,omitempty"`
	Category     string               `json:"category,omitempty"`
	Frame        uint64               `json:"frame"`
	Elapsed      float64              `json:"elapsed"`
	Objects      int                  `json:"objects"`
	Camera       CameraPose           `json:"camera"`
	Recording    bool                 `json:"recording"`
	Playback     *PlaybackStatus      `json:"playback,omitempty"`
	Batch        *director.BatchState `json:"batch,omitempty"`
	Halted       bool                 `json:"halted"`
	Fault        string               `json:"fault,omitempty"`
}

// Snapshot captures the current stage state. After a halt it still answers,
// carrying the fault instead of live state.
func (e *Engine) Snapshot() Snapshot {
	snap, err := Call(e.loop, func() (Snapshot, error) {
		return e.buildSnapshot(), nil
	})
	if err != nil {
		return Snapshot{Halted: true, Fault: e.loop.HaltReason()}
	}
	return snap
}

// buildSnapshot assembles the view. Must run on the loop goroutine.
func (e *Engine) buildSnapshot() Snapshot {
	s := Snapshot{
		Frame:   e.Renderer.Frames(),
		Elapsed: e.loop.elapsed,
		Objects: e.Scene.ObjectCount(),
		Camera: CameraPose{
			Position: [3]float32{e.Camera.Position.X, e.Camera.Position.Y, e.Camera.Position.Z},
			Target:   [3]float32{e.Camera.Target.X, e.Camera.Target.Y, e.Camera.Target.Z},
			FOV:      e.Camera.FOV,
			Mode:     e.Controls.Mode(),
		},
		Recording: e.Rig.IsRecording(),
		Halted:    e.loop.Halted(),
	}

	m, mctx := e.controller.Active()
	if m == nil {
		return s
	}
	desc := m.Descriptor()
	s.ActiveModule = desc.ID
	s.Category = string(desc.Category)
	if p := mctx.Production; p != nil {
		if p.ActiveShotID != "" {
			s.Playback = &PlaybackStatus{
				ShotID:   p.ActiveShotID,
				Playing:  p.Playing,
				Progress: p.Progress,
			}
		}
		batch := p.Batch
		s.Batch = &batch
	}
	return s
}
