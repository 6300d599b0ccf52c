// Package lighting implements the scene lights: directional, point, spot and
// target spot. Each kind holds only the state that applies to it and is
// converted to device parameters by a single type switch.
package lighting

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/nucleus3d/internal/engine/gfx"
	"github.com/Faultbox/nucleus3d/pkg/math"
)

// Kind identifies the light variant.
type Kind int

const (
	KindDirectional Kind = iota
	KindPoint
	KindSpot
	KindTargetSpot
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindDirectional:
		return "directional"
	case KindPoint:
		return "point"
	case KindSpot:
		return "spot"
	case KindTargetSpot:
		return "target-spot"
	default:
		return "unknown"
	}
}

// Source is the kind-specific part of a light. It is implemented by
// *Directional, *Point, *Spot and *TargetSpot only.
type Source interface {
	kind() Kind
}

// Directional is a light at infinity with a direction only.
type Directional struct {
	Direction math.Vec3
	DirRot    Transform
}

func (*Directional) kind() Kind { return KindDirectional }

// WorldDirection returns the direction after the accumulated rotation.
func (d *Directional) WorldDirection() math.Vec3 {
	m := d.DirRot.Matrix()
	return m.TransformDirection(d.Direction)
}

// Point is an omni light with range and attenuation.
type Point struct {
	Position    math.Vec3
	Range       float32
	Attenuation [3]float32
	Motion      Transform
}

func (*Point) kind() Kind { return KindPoint }

// WorldPosition returns the position after the accumulated motion.
func (p *Point) WorldPosition() math.Vec3 {
	m := p.Motion.Matrix()
	return m.TransformPoint(p.Position)
}

// SetAttenuation sets the constant, linear and quadratic coefficients.
func (p *Point) SetAttenuation(c, l, q float32) {
	p.Attenuation = [3]float32{c, l, q}
}

// Cone describes a spot light cone. Angles are in radians.
type Cone struct {
	Theta   float32 // inner
	Phi     float32 // outer
	Falloff float32
}

// SetCone sets the inner and outer angles.
func (c *Cone) SetCone(inner, outer float32) {
	c.Theta = inner
	c.Phi = outer
}

func defaultCone() Cone {
	phi := float32(math32.Pi / 4)
	return Cone{Phi: phi, Theta: phi - phi/9, Falloff: 1}
}

// Spot is a point light restricted to a cone around a direction.
type Spot struct {
	Point
	Cone
	Direction math.Vec3
	DirRot    Transform
}

func (*Spot) kind() Kind { return KindSpot }

// WorldDirection returns the direction after the accumulated rotation.
func (s *Spot) WorldDirection() math.Vec3 {
	m := s.DirRot.Matrix()
	return m.TransformDirection(s.Direction)
}

// TargetSpot is a spot light aimed at a target point. Its direction is
// derived from the live position and target every time it is needed.
type TargetSpot struct {
	Point
	Cone
	Target       math.Vec3
	TargetMotion Transform
}

func (*TargetSpot) kind() Kind { return KindTargetSpot }

// WorldTarget returns the target after its accumulated motion.
func (t *TargetSpot) WorldTarget() math.Vec3 {
	m := t.TargetMotion.Matrix()
	return m.TransformPoint(t.Target)
}

// WorldDirection returns the unit vector from position to target.
func (t *TargetSpot) WorldDirection() math.Vec3 {
	return t.WorldTarget().Sub(t.WorldPosition()).Normalize()
}

// Light is a scene light: shared colour state plus a kind-specific Source.
type Light struct {
	Name string

	Ambient   math.Color
	Diffuse   math.Color
	Specular  math.Color
	Intensity float32

	CastShadows bool

	Source Source
}

func newLight(src Source) *Light {
	return &Light{
		Ambient:   math.Color{A: 1},
		Diffuse:   math.Gray(1),
		Specular:  math.Gray(1),
		Intensity: 1,
		Source:    src,
	}
}

// NewDirectional returns a directional light.
func NewDirectional(dir math.Vec3) *Light {
	return newLight(&Directional{Direction: dir})
}

// NewPoint returns a point light.
func NewPoint(pos math.Vec3, rng float32) *Light {
	return newLight(&Point{Position: pos, Range: rng, Attenuation: [3]float32{1, 0, 0}})
}

// DefaultPoint returns a point light hanging above the origin.
func DefaultPoint() *Light {
	return NewPoint(math.Vec3{Y: 100}, 300)
}

// NewSpot returns a spot light with the default cone.
func NewSpot(pos, dir math.Vec3, rng float32) *Light {
	return newLight(&Spot{
		Point:     Point{Position: pos, Range: rng, Attenuation: [3]float32{1, 0, 0}},
		Cone:      defaultCone(),
		Direction: dir,
	})
}

// NewTargetSpot returns a spot light aimed at target with the default cone.
func NewTargetSpot(pos, target math.Vec3, rng float32) *Light {
	return newLight(&TargetSpot{
		Point:  Point{Position: pos, Range: rng, Attenuation: [3]float32{1, 0, 0}},
		Cone:   defaultCone(),
		Target: target,
	})
}

// Kind returns the light variant.
func (l *Light) Kind() Kind {
	return l.Source.kind()
}

// SetColor sets both the diffuse and specular colour.
func (l *Light) SetColor(c math.Color) {
	l.Diffuse = c
	l.Specular = c
}

// Position returns the world position. Directional lights have none.
func (l *Light) Position() (math.Vec3, bool) {
	switch s := l.Source.(type) {
	case *Point:
		return s.WorldPosition(), true
	case *Spot:
		return s.WorldPosition(), true
	case *TargetSpot:
		return s.WorldPosition(), true
	}
	return math.Vec3{}, false
}

// Direction returns the world direction. Point lights have none.
func (l *Light) Direction() (math.Vec3, bool) {
	switch s := l.Source.(type) {
	case *Directional:
		return s.WorldDirection(), true
	case *Spot:
		return s.WorldDirection(), true
	case *TargetSpot:
		return s.WorldDirection(), true
	}
	return math.Vec3{}, false
}

// Params converts the light to device parameters, scaling colours by the
// intensity and applying all accumulated transforms.
func (l *Light) Params() gfx.LightParams {
	p := gfx.LightParams{
		Ambient:  l.Ambient.Scale(l.Intensity),
		Diffuse:  l.Diffuse.Scale(l.Intensity),
		Specular: l.Specular.Scale(l.Intensity),
	}

	switch s := l.Source.(type) {
	case *Directional:
		p.Kind = gfx.LightDirectional
		p.Direction = s.WorldDirection()
	case *Point:
		p.Kind = gfx.LightPoint
		setPoint(&p, s)
	case *Spot:
		p.Kind = gfx.LightSpot
		setPoint(&p, &s.Point)
		setCone(&p, s.Cone)
		p.Direction = s.WorldDirection()
	case *TargetSpot:
		p.Kind = gfx.LightSpot
		setPoint(&p, &s.Point)
		setCone(&p, s.Cone)
		p.Direction = s.WorldDirection()
	}
	return p
}

func setPoint(p *gfx.LightParams, pt *Point) {
	p.Position = pt.WorldPosition()
	p.Range = pt.Range
	p.Attenuation = pt.Attenuation
}

func setCone(p *gfx.LightParams, c Cone) {
	p.Theta = c.Theta
	p.Phi = c.Phi
	p.Falloff = c.Falloff
}

// SetLight pushes the light into a device slot and enables it.
func (l *Light) SetLight(dev gfx.Device, slot int) {
	dev.SetLight(slot, l.Params())
	dev.EnableLight(slot, true)
}

// DirectionAt returns the direction light travels when it reaches p, with
// both p and the result expressed in the space whose inverse world matrix is
// toLocal. Directional lights ignore p.
func (l *Light) DirectionAt(p math.Vec3, toLocal math.Mat4) math.Vec3 {
	if d, ok := l.Source.(*Directional); ok {
		return toLocal.TransformDirection(d.WorldDirection())
	}
	pos, _ := l.Position()
	return p.Sub(toLocal.TransformPoint(pos))
}
