package stage

import (
	"log/slog"

	"stagehand/internal/capture"
	"stagehand/internal/director"
	"stagehand/internal/scene"
)

// Context is everything a module may touch while it is active. The host
// builds one per activation and passes the same pointer to Init, every
// Update and Dispose.
//
// Production is only set for production-category modules; playground
// modules must tolerate it being nil.
type Context struct {
	Scene  *scene.Scene
	Camera *scene.Camera
	Rig    *capture.Rig
	Log    *slog.Logger

	Production *director.Production
}
