package scene

import (
	"cogentcore.org/core/math32"
)

// Default camera pose. Matches the establishing view modules are handed
// before they position the camera themselves.
const DefaultFOV = 50

var (
	defaultCameraPosition = math32.Vec3(10, 7, 16)
	defaultCameraTarget   = math32.Vec3(0, 2, 0)
)

// Camera is the shared look-at camera. Position and Target are in scene
// units; FOV is the vertical field of view in degrees.
type Camera struct {
	Position math32.Vector3
	Target   math32.Vector3
	FOV      float32
}

// NewCamera returns a camera at the default pose.
func NewCamera() *Camera {
	c := &Camera{}
	c.Reset()
	return c
}

// Reset restores the default pose.
func (c *Camera) Reset() {
	c.Position = defaultCameraPosition
	c.Target = defaultCameraTarget
	c.FOV = DefaultFOV
}

// LookAt points the camera at the given target.
func (c *Camera) LookAt(target math32.Vector3) {
	c.Target = target
}

// Forward returns the normalized view direction. A degenerate pose
// (position equals target) looks down -Z.
func (c *Camera) Forward() math32.Vector3 {
	dir := c.Target.Sub(c.Position)
	if dir.Length() == 0 {
		return math32.Vec3(0, 0, -1)
	}
	return dir.Normal()
}

// Euler returns the camera orientation as XYZ Euler angles in radians:
// pitch around X, yaw around Y, roll fixed at zero for a look-at camera.
// Yaw is zero when looking down -Z.
func (c *Camera) Euler() math32.Vector3 {
	f := c.Forward()
	horiz := math32.Sqrt(f.X*f.X + f.Z*f.Z)
	pitch := math32.Atan2(f.Y, horiz)
	yaw := math32.Atan2(-f.X, -f.Z)
	return math32.Vec3(pitch, yaw, 0)
}
