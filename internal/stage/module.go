package stage

import (
	"stagehand/internal/director"
)

// Category groups modules by what the host does for them. Production
// modules get a batch/playback state block; playground modules run with
// interactive orbit controls only.
type Category string

const (
	CategoryPlayground Category = "PLAYGROUND"
	CategoryProduction Category = "PRODUCTION"
)

// Descriptor is a module's immutable self-description. Deliverables and
// shots are authored content; their order is meaningful.
type Descriptor struct {
	ID           string
	Name         string
	Category     Category
	Deliverables []director.DeliverableSpec
	Shots        []director.ShotSpec
}

// Module is one switchable scene experience hosted by the controller.
//
// Init builds the module's world into the context's scene. Update advances
// it by one frame and is only ever called between a successful Init and the
// matching Dispose. Dispose releases everything Init created, including any
// recording the module left running. All three run on the frame loop
// goroutine.
type Module interface {
	Descriptor() Descriptor
	Init(ctx *Context) error
	Update(ctx *Context, elapsed, delta float64) error
	Dispose(ctx *Context) error
}
