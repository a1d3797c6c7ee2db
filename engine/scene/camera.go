package scene

import (
	"github.com/emberengine/ember/engine/math"
)

// OrbitCamera circles a target point on a spherical shell. Theta is the
// azimuth around the y axis, Phi the polar angle from it, Radius the
// distance from the target.
type OrbitCamera struct {
	Theta  float32
	Phi    float32
	Radius float32
	Target math.Vec3
}

func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Theta:  1.5 * math.Pi,
		Phi:    0.2 * math.Pi,
		Radius: 15.0,
	}
}

// Orbit rotates the camera around the target. Phi is clamped away from the
// poles so the view matrix never degenerates.
func (c *OrbitCamera) Orbit(deltaTheta, deltaPhi float32) {
	c.Theta += deltaTheta
	c.Phi = math.Clamp(c.Phi+deltaPhi, 0.1, math.Pi-0.1)
}

// Zoom moves the camera along the view ray, clamped to a sane range.
func (c *OrbitCamera) Zoom(delta float32) {
	c.Radius = math.Clamp(c.Radius+delta, 5.0, 150.0)
}

// Eye converts the spherical coordinates to a world-space position.
func (c *OrbitCamera) Eye() math.Vec3 {
	return math.NewVec3(
		c.Target.X+c.Radius*math.Sin(c.Phi)*math.Cos(c.Theta),
		c.Target.Y+c.Radius*math.Cos(c.Phi),
		c.Target.Z+c.Radius*math.Sin(c.Phi)*math.Sin(c.Theta),
	)
}

// View builds the camera's view matrix.
func (c *OrbitCamera) View() math.Mat4 {
	return math.NewMat4LookAt(c.Eye(), c.Target, math.NewVec3Up())
}
