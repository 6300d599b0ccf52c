// Package motion drives object transforms from per-axis functions of time.
package motion

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/nucleus3d/internal/engine/curve"
	"github.com/Faultbox/nucleus3d/pkg/math"
)

// Func maps time to a scalar.
type Func func(t float32) float32

// Axes holds one optional function per axis. InputScale multiplies t before
// the functions see it.
type Axes struct {
	X, Y, Z    Func
	InputScale float32
}

func (a Axes) eval(t, unset float32) math.Vec3 {
	t *= a.InputScale
	at := func(f Func) float32 {
		if f == nil {
			return unset
		}
		return f(t)
	}
	return math.Vec3{X: at(a.X), Y: at(a.Y), Z: at(a.Z)}
}

// Controller composes scale, rotation and translation functions into a
// transform. Scaling applies first, then rotation, then translation.
type Controller struct {
	Translation Axes
	Rotation    Axes
	Scaling     Axes

	// Path, when set, replaces the translation functions. It is sampled at
	// t times PathScale, clamped by the curve to [0,1].
	Path      curve.Path
	PathScale float32
}

// NewController returns a controller that produces the identity.
func NewController() *Controller {
	return &Controller{
		Translation: Axes{InputScale: 1},
		Rotation:    Axes{InputScale: 1},
		Scaling:     Axes{InputScale: 1},
		PathScale:   1,
	}
}

// SetTranslation sets the translation functions.
func (c *Controller) SetTranslation(x, y, z Func, inputScale float32) {
	c.Translation = Axes{X: x, Y: y, Z: z, InputScale: inputScale}
}

// SetRotation sets the Euler angle functions, in radians.
func (c *Controller) SetRotation(x, y, z Func, inputScale float32) {
	c.Rotation = Axes{X: x, Y: y, Z: z, InputScale: inputScale}
}

// SetScaling sets the scale functions. Missing axes keep unit scale.
func (c *Controller) SetScaling(x, y, z Func, inputScale float32) {
	c.Scaling = Axes{X: x, Y: y, Z: z, InputScale: inputScale}
}

// SetPath makes translation follow p.
func (c *Controller) SetPath(p curve.Path, inputScale float32) {
	c.Path = p
	c.PathScale = inputScale
}

// Transform returns the motion matrix at t.
func (c *Controller) Transform(t float32) math.Mat4 {
	s := c.Scaling.eval(t, 1)
	r := c.Rotation.eval(t, 0)

	var tr math.Vec3
	if c.Path != nil {
		tr = c.Path.Interpolate(t * c.PathScale)
	} else {
		tr = c.Translation.eval(t, 0)
	}

	return math.Translate(tr.X, tr.Y, tr.Z).
		Mul(math.RotateEuler(r.X, r.Y, r.Z)).
		Mul(math.Scale(s.X, s.Y, s.Z))
}

// Constant returns a Func that always yields v.
func Constant(v float32) Func {
	return func(float32) float32 { return v }
}

// Linear returns a Func yielding from + rate*t.
func Linear(from, rate float32) Func {
	return func(t float32) float32 { return from + rate*t }
}

// Sine returns a Func yielding amp*sin(freq*t + phase).
func Sine(amp, freq, phase float32) Func {
	return func(t float32) float32 { return amp * math32.Sin(freq*t+phase) }
}
