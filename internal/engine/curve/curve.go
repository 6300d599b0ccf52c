// Package curve implements uniform cubic B-splines and Catmull-Rom splines
// with optional arc-length reparametrization.
package curve

import (
	"errors"
	"fmt"
	"sort"

	"github.com/chewxy/math32"

	"github.com/Faultbox/nucleus3d/pkg/math"
)

// ErrTooFewPoints is returned by Validate when a curve cannot be evaluated.
var ErrTooFewPoints = errors.New("too few control points")

// SamplesPerSegment is the density of the arc-length table.
const SamplesPerSegment = 30

// Path is anything that maps t in [0,1] to a position.
type Path interface {
	Interpolate(t float32) math.Vec3
}

// Kind selects the interpolation kernel.
type Kind int

const (
	BSpline Kind = iota
	CatmullRom
)

// String returns the kernel name.
func (k Kind) String() string {
	if k == CatmullRom {
		return "catmull-rom"
	}
	return "bspline"
}

// minPoints is the control point count a kernel needs for one segment.
func (k Kind) minPoints() int {
	if k == CatmullRom {
		return 2
	}
	return 4
}

// Sample is one row of the arc-length table.
type Sample struct {
	T      float32 // parameter
	Length float32 // normalised cumulative arc length
}

// Curve is a spline through (or near, for B-splines) its control points.
type Curve struct {
	Name string

	kind   Kind
	points []math.Vec3

	arc     bool
	samples []Sample
	ease    Path
}

// New returns an empty curve of the given kind.
func New(kind Kind, name string) *Curve {
	return &Curve{Name: name, kind: kind}
}

// NewBSpline returns an empty uniform cubic B-spline.
func NewBSpline(name string) *Curve { return New(BSpline, name) }

// NewCatmullRom returns an empty Catmull-Rom spline.
func NewCatmullRom(name string) *Curve { return New(CatmullRom, name) }

// Kind returns the interpolation kernel.
func (c *Curve) Kind() Kind { return c.kind }

// AddControlPoint appends p and drops the arc-length table.
func (c *Curve) AddControlPoint(p math.Vec3) {
	c.points = append(c.points, p)
	c.samples = nil
}

// Points returns the control points. The slice must not be modified.
func (c *Curve) Points() []math.Vec3 { return c.points }

// SegmentCount returns the number of polynomial pieces.
func (c *Curve) SegmentCount() int {
	n := len(c.points) - c.kind.minPoints() + 1
	if n < 0 {
		return 0
	}
	return n
}

// Validate reports whether the curve has enough control points.
func (c *Curve) Validate() error {
	if len(c.points) < c.kind.minPoints() {
		return fmt.Errorf("%s %q has %d points, needs %d: %w",
			c.kind, c.Name, len(c.points), c.kind.minPoints(), ErrTooFewPoints)
	}
	return nil
}

// SetArcParametrization turns constant-speed traversal on or off.
func (c *Curve) SetArcParametrization(on bool) { c.arc = on }

// ArcParametrization reports whether constant-speed traversal is on.
func (c *Curve) ArcParametrization() bool { return c.arc }

// SetEaseCurve installs a 1-D timing curve, applied after arc-length
// reparametrization. Only the Y component of ease is used.
func (c *Curve) SetEaseCurve(ease Path) { c.ease = ease }

// Interpolate evaluates the curve at t, clamped to [0,1]. A curve with too
// few control points yields the zero vector.
func (c *Curve) Interpolate(t float32) math.Vec3 {
	if c.Validate() != nil {
		return math.Vec3{}
	}
	t = clamp01(t)
	if c.arc {
		t = c.easeT(c.parametrize(t))
	}
	return c.eval(t)
}

func (c *Curve) eval(t float32) math.Vec3 {
	segs := c.SegmentCount()
	t *= float32(segs)
	seg := int(t)
	t -= float32(seg)
	if seg >= segs {
		seg = segs - 1
		t = 1
	}

	if c.kind == CatmullRom {
		p1 := c.points[seg]
		p2 := c.points[seg+1]
		p0, p3 := p1, p2
		if seg > 0 {
			p0 = c.points[seg-1]
		}
		if seg+2 < len(c.points) {
			p3 = c.points[seg+2]
		}
		return catmullRom(p0, p1, p2, p3, t)
	}
	p := c.points[seg : seg+4]
	return bspline(p[0], p[1], p[2], p[3], t)
}

func bspline(p0, p1, p2, p3 math.Vec3, t float32) math.Vec3 {
	t2 := t * t
	t3 := t2 * t
	b0 := (-t3 + 3*t2 - 3*t + 1) / 6
	b1 := (3*t3 - 6*t2 + 4) / 6
	b2 := (-3*t3 + 3*t2 + 3*t + 1) / 6
	b3 := t3 / 6
	return blend(p0, p1, p2, p3, b0, b1, b2, b3)
}

func catmullRom(p0, p1, p2, p3 math.Vec3, t float32) math.Vec3 {
	t2 := t * t
	t3 := t2 * t
	b0 := (-t3 + 2*t2 - t) / 2
	b1 := (3*t3 - 5*t2 + 2) / 2
	b2 := (-3*t3 + 4*t2 + t) / 2
	b3 := (t3 - t2) / 2
	return blend(p0, p1, p2, p3, b0, b1, b2, b3)
}

func blend(p0, p1, p2, p3 math.Vec3, b0, b1, b2, b3 float32) math.Vec3 {
	return p0.Scale(b0).Add(p1.Scale(b1)).Add(p2.Scale(b2)).Add(p3.Scale(b3))
}

// ArcTable returns the arc-length table, building it if needed.
func (c *Curve) ArcTable() []Sample {
	if c.samples == nil && c.Validate() == nil {
		c.sampleArcLengths()
	}
	return c.samples
}

func (c *Curve) sampleArcLengths() {
	n := c.SegmentCount() * SamplesPerSegment
	samples := make([]Sample, n)
	step := 1 / float32(n-1)

	var prev math.Vec3
	for i := range samples {
		t := step * float32(i)
		if i == n-1 {
			t = 1
		}
		pos := c.eval(t)
		samples[i].T = t
		if i > 0 {
			samples[i].Length = samples[i-1].Length + pos.Distance(prev)
		}
		prev = pos
	}

	total := samples[n-1].Length
	for i := range samples {
		if total > 0 {
			samples[i].Length /= total
		} else {
			samples[i].Length = samples[i].T
		}
	}
	samples[n-1].Length = 1
	c.samples = samples
}

// parametrize maps a normalised arc length to the curve parameter.
func (c *Curve) parametrize(s float32) float32 {
	table := c.ArcTable()
	i := sort.Search(len(table), func(i int) bool { return table[i].Length >= s })
	if i == 0 {
		return table[0].T
	}
	if i >= len(table) {
		return table[len(table)-1].T
	}
	lo, hi := table[i-1], table[i]
	span := hi.Length - lo.Length
	if span <= 0 {
		return hi.T
	}
	return lo.T + (hi.T-lo.T)*(s-lo.Length)/span
}

func (c *Curve) easeT(t float32) float32 {
	if c.ease == nil {
		return t
	}
	if ec, ok := c.ease.(*Curve); ok {
		ec.SetArcParametrization(true)
	}
	return clamp01(c.ease.Interpolate(t).Y)
}

func clamp01(t float32) float32 {
	return math32.Max(0, math32.Min(1, t))
}
