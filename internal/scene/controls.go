package scene

import (
	"cogentcore.org/core/math32"
)

// CameraMode selects who drives the camera: the operator (orbit) or the
// active module's scripted animation.
type CameraMode string

const (
	ModeOrbit    CameraMode = "orbit"
	ModeScripted CameraMode = "scripted"
)

// minimum gap kept between elevation and the poles, radians
const poleMargin = 0.01

// OrbitControls moves the camera on a sphere around its target with damped
// angular velocity. Disabled controls keep their state but ignore input and
// do not move the camera, which hands authority to scripted playback.
type OrbitControls struct {
	Enabled         bool
	AutoRotate      bool
	AutoRotateSpeed float32 // radians per second
	Damping         float32 // angular velocity decay per second

	cam          *Camera
	radius       float32
	azimuth      float32
	elevation    float32
	velAzimuth   float32
	velElevation float32
}

// NewOrbitControls returns enabled controls synced to the camera's current
// pose.
func NewOrbitControls(cam *Camera) *OrbitControls {
	o := &OrbitControls{
		Enabled:         true,
		AutoRotateSpeed: 0.25,
		Damping:         4,
		cam:             cam,
	}
	o.syncFromCamera()
	return o
}

// Mode reports the current camera mode implied by the enabled flag.
func (o *OrbitControls) Mode() CameraMode {
	if o.Enabled {
		return ModeOrbit
	}
	return ModeScripted
}

// Reset zeroes angular velocity and re-syncs the spherical coordinates to
// the camera's current pose. This is the neutral pose used when camera
// authority is handed to a module.
func (o *OrbitControls) Reset() {
	o.velAzimuth = 0
	o.velElevation = 0
	o.syncFromCamera()
}

// Nudge adds operator input as angular velocity, radians per second.
// Ignored while disabled.
func (o *OrbitControls) Nudge(dAzimuth, dElevation float32) {
	if !o.Enabled {
		return
	}
	o.velAzimuth += dAzimuth
	o.velElevation += dElevation
}

// Advance applies auto-rotation, velocity, and damping for one frame and
// repositions the camera. The loop calls this every frame; disabled
// controls return immediately.
func (o *OrbitControls) Advance(delta float64) {
	if !o.Enabled || o.cam == nil {
		return
	}
	d := float32(delta)

	o.azimuth += o.velAzimuth * d
	o.elevation += o.velElevation * d
	if o.AutoRotate {
		o.azimuth += o.AutoRotateSpeed * d
	}

	limit := float32(math32.Pi/2) - poleMargin
	if o.elevation > limit {
		o.elevation = limit
	}
	if o.elevation < -limit {
		o.elevation = -limit
	}

	decay := 1 - o.Damping*d
	if decay < 0 {
		decay = 0
	}
	o.velAzimuth *= decay
	o.velElevation *= decay

	o.apply()
}

func (o *OrbitControls) syncFromCamera() {
	if o.cam == nil {
		return
	}
	offset := o.cam.Position.Sub(o.cam.Target)
	o.radius = offset.Length()
	if o.radius == 0 {
		o.radius = 0.001
	}
	o.elevation = math32.Asin(offset.Y / o.radius)
	o.azimuth = math32.Atan2(offset.X, offset.Z)
}

func (o *OrbitControls) apply() {
	offset := math32.Vec3(
		o.radius*math32.Cos(o.elevation)*math32.Sin(o.azimuth),
		o.radius*math32.Sin(o.elevation),
		o.radius*math32.Cos(o.elevation)*math32.Cos(o.azimuth),
	)
	o.cam.Position = o.cam.Target.Add(offset)
}
