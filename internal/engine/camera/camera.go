// Package camera provides the scene camera: a look-at view that can follow
// position and target curves over a time window.
package camera

import (
	"time"

	"github.com/chewxy/math32"

	"github.com/Faultbox/nucleus3d/internal/engine/curve"
	"github.com/Faultbox/nucleus3d/pkg/math"
)

// Camera is a look-at camera with a perspective projection.
type Camera struct {
	Name string

	// View
	Position math.Vec3
	Target   math.Vec3
	Up       math.Vec3

	// Projection
	FOV  float32 // vertical, radians
	Near float32
	Far  float32

	// Path following
	Path       curve.Path
	TargetPath curve.Path
	Start      time.Duration
	End        time.Duration
}

// New returns a camera at the origin looking down +Z with a 45 degree field
// of view and clip planes at 1 and 10000.
func New(name string) *Camera {
	return &Camera{
		Name:     name,
		Position: math.Vec3{},
		Target:   math.Vec3{Z: 5},
		Up:       math.Vec3{Y: 1},
		FOV:      math32.Pi / 4,
		Near:     1,
		Far:      10000,
	}
}

// Set places the camera.
func (c *Camera) Set(pos, target, up math.Vec3) {
	c.Position = pos
	c.Target = target
	c.Up = up
}

// SetClipPlanes sets the near and far clip distances.
func (c *Camera) SetClipPlanes(near, far float32) {
	c.Near = near
	c.Far = far
}

// ViewMatrix builds the left-handed view matrix from position, target and up.
func (c *Camera) ViewMatrix() math.Mat4 {
	return math.LookAtLH(c.Position, c.Target, c.Up)
}

// Projection builds the perspective matrix for aspect (width/height).
func (c *Camera) Projection(aspect float32) math.Mat4 {
	return math.PerspectiveLH(c.FOV, aspect, c.Near, c.Far)
}

// ViewVector returns target minus position.
func (c *Camera) ViewVector() math.Vec3 {
	return c.Target.Sub(c.Position)
}

// Move translates position and target together.
func (c *Camera) Move(x, y, z float32) {
	d := math.Vec3{X: x, Y: y, Z: z}
	c.Position = c.Position.Add(d)
	c.Target = c.Target.Add(d)
}

// MoveTo moves the camera to pos, keeping the view vector.
func (c *Camera) MoveTo(pos math.Vec3) {
	d := pos.Sub(c.Position)
	c.Move(d.X, d.Y, d.Z)
}

// Orbit rotates the position around the target by Euler angles and turns
// the up vector with it.
func (c *Camera) Orbit(x, y, z float32) {
	rot := math.RotateEuler(x, y, z)
	c.Position = c.Target.Add(rot.TransformDirection(c.Position.Sub(c.Target)))
	c.Up = rot.TransformDirection(c.Up)
}

// Zoom moves the position towards the target by factor of the distance.
func (c *Camera) Zoom(factor float32) {
	c.Position = c.Position.Add(c.ViewVector().Scale(factor))
}

// Spin rolls the camera around its view axis.
func (c *Camera) Spin(angle float32) {
	rot := math.RotateAxis(c.ViewVector().Normalize(), angle)
	c.Up = rot.TransformDirection(c.Up)
}

// SetPath binds position and target curves to the [start, end) window.
// Either curve may be nil.
func (c *Camera) SetPath(path, target curve.Path, start, end time.Duration) {
	c.Path = path
	c.TargetPath = target
	c.Start = start
	c.End = end
}

// PathParam maps elapsed time to a curve parameter. Outside the window the
// result is clamped to [0,1]; with cycle set it wraps instead.
func (c *Camera) PathParam(elapsed time.Duration, cycle bool) float32 {
	span := c.End - c.Start
	if span <= 0 {
		if elapsed < c.Start {
			return 0
		}
		return 1
	}
	t := float32(float64(elapsed-c.Start) / float64(span))
	if cycle {
		t = math32.Mod(t, 1)
		if t < 0 {
			t++
		}
		return t
	}
	return math32.Max(0, math32.Min(1, t))
}

// FollowPath samples the bound curves at the parameter for elapsed.
func (c *Camera) FollowPath(elapsed time.Duration, cycle bool) {
	c.FollowParam(c.PathParam(elapsed, cycle))
}

// FollowParam samples the bound curves at t, clamped to [0,1].
func (c *Camera) FollowParam(t float32) {
	t = math32.Max(0, math32.Min(1, t))
	if c.Path != nil {
		c.Position = c.Path.Interpolate(t)
	}
	if c.TargetPath != nil {
		c.Target = c.TargetPath.Interpolate(t)
	}
}
