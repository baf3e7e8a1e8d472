package stage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"stagehand/internal/capture"
	"stagehand/internal/director"
	"stagehand/internal/platform/metrics"
	"stagehand/internal/scene"
)

// The capture rig must satisfy the director's view of the capability surface.
var _ director.Rig = (*capture.Rig)(nil)

// DefaultFrameRate is the tick rate used when none is configured.
const DefaultFrameRate = 60

// ErrLoopHalted is returned by Do and Call once the loop is no longer
// running, whether it faulted or was shut down.
var ErrLoopHalted = errors.New("frame loop halted")

// EventSink receives loop lifecycle events. Implementations must not block;
// they are called from the frame loop goroutine.
type EventSink interface {
	ModuleActivated(id string)
	ShotCompleted(shotID string)
	BatchCompleted(moduleID string)
	LoopHalted(reason string)
}

// LoopConfig carries the pieces the frame loop drives each tick. Metrics
// and Events may be nil.
type LoopConfig struct {
	Log        *slog.Logger
	FPS        int
	Scene      *scene.Scene
	Camera     *scene.Camera
	Controls   *scene.OrbitControls
	Renderer   *scene.Renderer
	Rig        *capture.Rig
	Controller *Controller
	Metrics    *metrics.Metrics
	Events     EventSink
}

// Loop is the frame loop. One goroutine, started by Run, owns every piece
// of stage state; everything else talks to that goroutine through Do and
// Call. A module update fault stops the loop for good. HTTP keeps serving
// after a halt, reporting the fault instead of frames.
type Loop struct {
	log        *slog.Logger
	fps        int
	scene      *scene.Scene
	camera     *scene.Camera
	controls   *scene.OrbitControls
	renderer   *scene.Renderer
	rig        *capture.Rig
	controller *Controller
	metrics    *metrics.Metrics
	events     EventSink

	commands chan func()
	done     chan struct{}

	halted     atomic.Bool
	haltMu     sync.Mutex
	haltReason string

	prev    time.Time
	elapsed float64
}

// NewLoop builds a loop from its configuration. Run must be called exactly
// once for commands to execute.
func NewLoop(cfg LoopConfig) *Loop {
	fps := cfg.FPS
	if fps <= 0 {
		fps = DefaultFrameRate
	}
	return &Loop{
		log:        cfg.Log,
		fps:        fps,
		scene:      cfg.Scene,
		camera:     cfg.Camera,
		controls:   cfg.Controls,
		renderer:   cfg.Renderer,
		rig:        cfg.Rig,
		controller: cfg.Controller,
		metrics:    cfg.Metrics,
		events:     cfg.Events,
		commands:   make(chan func(), 64),
		done:       make(chan struct{}),
	}
}

// Run ticks the loop until the context is cancelled or a module update
// faults. Queued commands execute between frames, never during one. The
// returned error is nil for a clean shutdown and the update fault otherwise.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(l.fps))
	defer ticker.Stop()
	defer close(l.done)

	l.prev = time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-l.commands:
			fn()
		case now := <-ticker.C:
			if err := l.step(now); err != nil {
				l.halt(err)
				return err
			}
		}
	}
}

// step advances the world by one frame: module update, scripted playback,
// batch reconcile, orbit controls, then exactly one draw. The draw happens
// even on the faulting frame, so the last rendered state matches what the
// module saw.
func (l *Loop) step(now time.Time) error {
	delta := now.Sub(l.prev).Seconds()
	if delta < 0 {
		delta = 0
	}
	l.prev = now
	l.elapsed += delta

	m, mctx := l.controller.Active()

	var updateErr error
	if m != nil {
		if updateErr = l.safeUpdate(m, mctx, delta); updateErr != nil && l.metrics != nil {
			l.metrics.IncUpdateFailures()
		}
	}

	if updateErr == nil && mctx != nil && mctx.Production != nil {
		director.Advance(mctx.Production, l.camera, l.elapsed)

		res := director.Step(mctx.Production, l.rig, l.camera, l.elapsed, l.log)
		if res.Dispatched != nil && l.metrics != nil {
			l.metrics.IncBatchJobsDispatched()
		}
		if res.Completed {
			if l.metrics != nil {
				l.metrics.IncBatchesCompleted()
			}
			if l.events != nil {
				l.events.BatchCompleted(m.Descriptor().ID)
			}
		}

		select {
		case shotID := <-mctx.Production.Done.C():
			l.log.Info("shot completed", slog.String("shot", shotID))
			if l.events != nil {
				l.events.ShotCompleted(shotID)
			}
		default:
		}
	}

	l.controls.Advance(delta)
	l.renderer.Render(l.scene, l.camera, l.elapsed)
	if l.metrics != nil {
		l.metrics.IncFrames()
	}

	if updateErr != nil {
		return fmt.Errorf("module %q update: %w", m.Descriptor().ID, updateErr)
	}
	return nil
}

// safeUpdate runs a module's update with panics converted to errors, so
// the loop can fail stop instead of crashing the process.
func (l *Loop) safeUpdate(m Module, ctx *Context, delta float64) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("update panicked: %v", rec)
		}
	}()
	return m.Update(ctx, l.elapsed, delta)
}

func (l *Loop) halt(err error) {
	l.haltMu.Lock()
	l.haltReason = err.Error()
	l.haltMu.Unlock()
	l.halted.Store(true)

	if l.metrics != nil {
		l.metrics.SetLoopHalted(true)
	}
	l.log.Error("frame loop halted", slog.String("error", err.Error()))
	if l.events != nil {
		l.events.LoopHalted(err.Error())
	}
}

// Halted reports whether the loop stopped because of a fault.
func (l *Loop) Halted() bool {
	return l.halted.Load()
}

// HaltReason returns the fault that stopped the loop, or "" if it is still
// running or shut down cleanly.
func (l *Loop) HaltReason() string {
	l.haltMu.Lock()
	defer l.haltMu.Unlock()
	return l.haltReason
}

// Do queues fn for execution on the loop goroutine and returns without
// waiting for it to run.
func (l *Loop) Do(fn func()) error {
	select {
	case l.commands <- fn:
		return nil
	case <-l.done:
		return ErrLoopHalted
	}
}

type result[T any] struct {
	v   T
	err error
}

// Call runs fn on the loop goroutine and waits for its result. It fails
// with ErrLoopHalted when the loop stops before fn can run.
func Call[T any](l *Loop, fn func() (T, error)) (T, error) {
	reply := make(chan result[T], 1)
	if err := l.Do(func() {
		v, err := fn()
		reply <- result[T]{v: v, err: err}
	}); err != nil {
		var zero T
		return zero, err
	}
	select {
	case r := <-reply:
		return r.v, r.err
	case <-l.done:
		var zero T
		return zero, ErrLoopHalted
	}
}
