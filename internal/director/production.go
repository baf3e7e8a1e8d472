package director

import (
	"cogentcore.org/core/math32"
)

// BatchStatus names a phase of the batch export state machine.
type BatchStatus string

const (
	BatchIdle       BatchStatus = "IDLE"
	BatchProcessing BatchStatus = "PROCESSING"
	BatchComplete   BatchStatus = "COMPLETE"
)

// BatchState is the cursor of a batch run. Index always points at the next
// deliverable to consider, never at one already finished.
type BatchState struct {
	Active bool        `json:"active"`
	Index  int         `json:"index"`
	Status BatchStatus `json:"status"`
	RunID  string      `json:"runId,omitempty"`
}

// TrackingSample is one per-frame camera sample emitted during recorded
// playback, indexed at the export frame rate.
type TrackingSample struct {
	ShotID string     `json:"shotId"`
	Frame  int        `json:"frame"`
	Time   float64    `json:"time"`
	Pos    [3]float32 `json:"pos"`
	Rot    [3]float32 `json:"rot"`
	FOV    float32    `json:"fov"`
}

// ParticleSource exposes a module's point cloud for metadata export.
type ParticleSource interface {
	Preset() string
	Positions() []math32.Vector3
}

// Effect is a module-installed visual that the director drives to full
// intensity for VFX element passes.
type Effect interface {
	SetIntensity(v float32)
}

// TrackingRate is the frame rate tracking samples are indexed at. It is an
// export convention, decoupled from the render rate.
const TrackingRate = 30.0

// VFXPassShotID is the synthetic shot used to time effect recordings. It
// never appears in a module's shot list, so playback holds the camera still.
const VFXPassShotID = "VFX_PASS"

// defaultVFXPassSeconds times a VFX element pass whose deliverable carries
// no duration of its own.
const defaultVFXPassSeconds = 4.0

// Production is the playback and batch state attached to the context of a
// production-category module. It lives from the module's init to its
// dispose and is only ever touched on the frame loop goroutine.
type Production struct {
	Project      string
	Deliverables []DeliverableSpec
	Shots        []ShotSpec

	ActiveShotID string
	Playing      bool
	StartAt      float64 // loop time the current shot began, seconds
	ShotDuration float64 // seconds
	Progress     int     // 0..100
	Tracking     []TrackingSample

	Batch BatchState

	// Done receives each finished shot's ID exactly once.
	Done *Signal

	// Optional collaborators a module may install during init.
	ParticleSource ParticleSource
	Effect         Effect

	signalled bool
	cooldown  int // reconcile ticks to sit out after a recording hand-off
}

// NewProduction builds the state block for one activation of a production
// module. Deliverable and shot lists are authored content and are never
// mutated here.
func NewProduction(project string, deliverables []DeliverableSpec, shots []ShotSpec) *Production {
	return &Production{
		Project:      project,
		Deliverables: deliverables,
		Shots:        shots,
		Batch:        BatchState{Status: BatchIdle},
		Done:         NewSignal(),
	}
}

// ShotByID looks a shot up by identifier.
func (p *Production) ShotByID(id string) (ShotSpec, bool) {
	for _, s := range p.Shots {
		if s.ID == id {
			return s, true
		}
	}
	return ShotSpec{}, false
}

// beginShot arms playback of the given shot starting at loop time at.
func (p *Production) beginShot(shotID string, duration, at float64) {
	p.ActiveShotID = shotID
	p.ShotDuration = duration
	p.StartAt = at
	p.Playing = true
	p.Progress = 0
	p.signalled = false
}
