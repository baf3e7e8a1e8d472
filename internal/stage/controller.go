package stage

import (
	"fmt"
	"log/slog"

	"stagehand/internal/capture"
	"stagehand/internal/director"
	"stagehand/internal/platform/metrics"
	"stagehand/internal/scene"
)

// Controller owns module lifecycle. At most one module is active at a time;
// a switch tears the old one down completely before the new one sees the
// scene. All methods run on the frame loop goroutine.
type Controller struct {
	log      *slog.Logger
	scene    *scene.Scene
	camera   *scene.Camera
	controls *scene.OrbitControls
	rig      *capture.Rig
	project  string
	metrics  *metrics.Metrics

	active Module
	ctx    *Context
}

// NewController wires the controller to the shared stage. The metrics
// handle may be nil.
func NewController(log *slog.Logger, sc *scene.Scene, cam *scene.Camera, controls *scene.OrbitControls, rig *capture.Rig, project string, m *metrics.Metrics) *Controller {
	return &Controller{
		log:      log,
		scene:    sc,
		camera:   cam,
		controls: controls,
		rig:      rig,
		project:  project,
		metrics:  m,
	}
}

// Active returns the published module and its context, or nil, nil when
// nothing is active. Frames render the bare stage in that case.
func (c *Controller) Active() (Module, *Context) {
	return c.active, c.ctx
}

// SwitchTo activates the given module, tearing down the current one first.
// Passing nil deactivates without activating a replacement.
//
// The published pair is cleared before teardown begins, so no frame can
// run an update against a module that is mid-teardown. Dispose failures
// are contained; the switch always proceeds to a clean stage. An init
// failure leaves the host with no active module and returns the error.
func (c *Controller) SwitchTo(next Module) error {
	prev, prevCtx := c.active, c.ctx
	c.active, c.ctx = nil, nil

	if prev != nil {
		c.disposeQuietly(prev, prevCtx)
	}

	c.scene.ResetToBaseline()
	c.camera.Reset()
	c.controls.Reset()
	c.rig.SetCameraMode(scene.ModeOrbit)

	if next == nil {
		c.log.Info("stage cleared")
		return nil
	}

	desc := next.Descriptor()
	ctx := &Context{
		Scene:  c.scene,
		Camera: c.camera,
		Rig:    c.rig,
		Log:    c.log.With(slog.String("module_id", desc.ID)),
	}
	if desc.Category == CategoryProduction {
		ctx.Production = director.NewProduction(c.project, desc.Deliverables, desc.Shots)
	}

	if err := c.safeInit(next, ctx); err != nil {
		c.log.Error("module init failed",
			slog.String("module_id", desc.ID),
			slog.String("error", err.Error()))
		return fmt.Errorf("init module %q: %w", desc.ID, err)
	}

	c.active, c.ctx = next, ctx
	if c.metrics != nil {
		c.metrics.IncModuleSwitches()
	}
	c.log.Info("module activated",
		slog.String("module_id", desc.ID),
		slog.String("category", string(desc.Category)))
	return nil
}

// Close tears down whatever is active. Called once on shutdown, after the
// frame loop has stopped.
func (c *Controller) Close() {
	if c.active == nil {
		return
	}
	prev, prevCtx := c.active, c.ctx
	c.active, c.ctx = nil, nil
	c.disposeQuietly(prev, prevCtx)
}

// safeInit runs a module's init with panics converted to errors, so a bad
// module cannot take the loop down during a switch.
func (c *Controller) safeInit(m Module, ctx *Context) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("init panicked: %v", rec)
		}
	}()
	return m.Init(ctx)
}

// disposeQuietly runs a module's dispose and contains any failure. A switch
// finishes even when the outgoing module cannot clean up after itself.
func (c *Controller) disposeQuietly(m Module, ctx *Context) {
	id := m.Descriptor().ID
	defer func() {
		if rec := recover(); rec != nil {
			c.log.Error("module dispose panicked",
				slog.String("module_id", id),
				slog.Any("panic", rec))
		}
	}()
	if err := m.Dispose(ctx); err != nil {
		c.log.Error("module dispose failed",
			slog.String("module_id", id),
			slog.String("error", err.Error()))
	}
}
