package scene

import (
	"cogentcore.org/core/math32"
)

// Baseline appearance every module starts from. SwitchTo restores these
// between modules so no module inherits a predecessor's look.
const (
	DefaultBackground   = "#0b0d12"
	DefaultFogColor     = "#0b0d12"
	DefaultEnvIntensity = 1.0
)

// Object is a named placeholder for a piece of scene geometry. The real
// mesh/material data lives outside this service; modules position and scale
// objects and the renderer counts them per draw.
type Object struct {
	Name     string
	Position math32.Vector3
	Scale    math32.Vector3
}

// NewObject returns an object at the given position with unit scale.
func NewObject(name string, position math32.Vector3) *Object {
	return &Object{Name: name, Position: position, Scale: math32.Vec3(1, 1, 1)}
}

// Fog is the scene's depth fog. Zero value means fog disabled.
type Fog struct {
	Enabled bool
	Color   string
	Near    float32
	Far     float32
}

// Scene is the shared headless scene graph. It is owned by the frame loop
// goroutine; no internal locking.
type Scene struct {
	Background   string
	Fog          Fog
	EnvIntensity float32

	objects []*Object
}

// New returns a scene at its baseline state.
func New() *Scene {
	s := &Scene{}
	s.ResetToBaseline()
	return s
}

// Add attaches an object to the scene.
func (s *Scene) Add(obj *Object) {
	if obj == nil {
		return
	}
	s.objects = append(s.objects, obj)
}

// Remove detaches the first object with the given name and reports whether
// one was found.
func (s *Scene) Remove(name string) bool {
	for i, obj := range s.objects {
		if obj.Name == name {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			return true
		}
	}
	return false
}

// Objects returns a snapshot of the attached objects in attach order.
func (s *Scene) Objects() []*Object {
	out := make([]*Object, len(s.objects))
	copy(out, s.objects)
	return out
}

// ObjectCount returns the number of attached objects.
func (s *Scene) ObjectCount() int {
	return len(s.objects)
}

// ResetToBaseline clears all attached objects and restores the default
// background, fog, and environment intensity.
func (s *Scene) ResetToBaseline() {
	s.objects = nil
	s.Background = DefaultBackground
	s.Fog = Fog{}
	s.EnvIntensity = DefaultEnvIntensity
}
