package director

import (
	"strings"

	"cogentcore.org/core/math32"
)

// DeliverableKind classifies what a batch job produces.
type DeliverableKind string

const (
	KindVideoPlate DeliverableKind = "VIDEO_PLATE"
	KindVFXElement DeliverableKind = "VFX_ELEMENT"
	KindMetadata   DeliverableKind = "METADATA"
)

// ProjectToken is the placeholder deliverable filenames may embed. The
// director substitutes the production's project code for it at dispatch.
const ProjectToken = "{PROJECT}"

// DeliverableSpec is one authored, immutable batch job. Ordering within a
// module's deliverable list is the batch execution order.
type DeliverableSpec struct {
	ID          string          `json:"id"`
	Filename    string          `json:"filename"`
	Kind        DeliverableKind `json:"kind"`
	Duration    float64         `json:"duration,omitempty"` // seconds; used by VFX passes
	ShotID      string          `json:"shotId,omitempty"`
	Description string          `json:"description,omitempty"`
}

// ShotSpec is one authored, immutable scripted camera move: a linear push
// from PosStart to PosEnd over Duration seconds, looking at Target.
type ShotSpec struct {
	ID       string  `json:"id"`
	Slug     string  `json:"slug"`
	Duration float64 `json:"duration"` // seconds
	FOV      float32 `json:"fov"`

	PosStart math32.Vector3 `json:"-"`
	PosEnd   math32.Vector3 `json:"-"`
	Target   math32.Vector3 `json:"-"`
}

// ExpandFilename substitutes the project code for ProjectToken.
func ExpandFilename(name, project string) string {
	return strings.ReplaceAll(name, ProjectToken, project)
}
