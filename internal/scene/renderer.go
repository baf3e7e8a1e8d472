package scene

// FrameTap observes every rendered frame. The recorder attaches one to
// capture output while a session is active.
type FrameTap func(frame uint64, elapsed float64)

// RenderStats describes one completed draw.
type RenderStats struct {
	Frame   uint64
	Objects int
	Elapsed float64
}

// Renderer is the headless render surface. It draws nothing; it advances a
// frame counter, reports per-draw stats, and feeds the frame tap. Owned by
// the frame loop goroutine.
type Renderer struct {
	Width  int
	Height int

	frame uint64
	last  RenderStats
	tap   FrameTap
}

// NewRenderer returns a renderer with the given output size; non-positive
// dimensions fall back to 1920x1080.
func NewRenderer(width, height int) *Renderer {
	if width <= 0 || height <= 0 {
		width, height = 1920, 1080
	}
	return &Renderer{Width: width, Height: height}
}

// SetFrameTap installs the per-frame observer. Pass nil to clear it.
func (r *Renderer) SetFrameTap(tap FrameTap) {
	r.tap = tap
}

// Render issues one draw of the scene/camera pair and returns its stats.
func (r *Renderer) Render(s *Scene, cam *Camera, elapsed float64) RenderStats {
	r.frame++
	r.last = RenderStats{
		Frame:   r.frame,
		Objects: s.ObjectCount(),
		Elapsed: elapsed,
	}
	if r.tap != nil {
		r.tap(r.frame, elapsed)
	}
	return r.last
}

// Frames returns the number of draws issued so far.
func (r *Renderer) Frames() uint64 {
	return r.frame
}

// LastStats returns the stats of the most recent draw.
func (r *Renderer) LastStats() RenderStats {
	return r.last
}
