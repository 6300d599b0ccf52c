package curve

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/nucleus3d/pkg/math"
)

const eps = 1e-4

func build(kind Kind, pts ...math.Vec3) *Curve {
	c := New(kind, "test")
	for _, p := range pts {
		c.AddControlPoint(p)
	}
	return c
}

func TestCatmullRomHitsEndpoints(t *testing.T) {
	all := []math.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 3, Y: 1, Z: 0},
		{X: 4, Y: 5, Z: -2},
		{X: -1, Y: 2, Z: 7},
		{X: 10, Y: 0, Z: 1},
		{X: 2, Y: 2, Z: 2},
	}
	for n := 2; n <= len(all); n++ {
		for _, arc := range []bool{false, true} {
			c := build(CatmullRom, all[:n]...)
			c.SetArcParametrization(arc)

			assert.True(t, c.Interpolate(0).ApproxEqual(all[0], eps), "n=%d arc=%v start", n, arc)
			assert.True(t, c.Interpolate(1).ApproxEqual(all[n-1], eps), "n=%d arc=%v end: %v", n, arc, c.Interpolate(1))
		}
	}
}

func TestCatmullRomPassesThroughControlPoints(t *testing.T) {
	pts := []math.Vec3{{X: 0}, {X: 1, Y: 2}, {X: 3, Y: -1}, {X: 6}}
	c := build(CatmullRom, pts...)
	for i, p := range pts {
		got := c.Interpolate(float32(i) / float32(len(pts)-1))
		assert.True(t, got.ApproxEqual(p, eps), "point %d: got %v", i, got)
	}
}

func TestBSplineLinearPoints(t *testing.T) {
	c := build(BSpline, math.Vec3{X: 0}, math.Vec3{X: 1}, math.Vec3{X: 2}, math.Vec3{X: 3})

	assert.InDelta(t, 1, c.Interpolate(0).X, eps)
	assert.InDelta(t, 1.5, c.Interpolate(0.5).X, eps)
	assert.InDelta(t, 2, c.Interpolate(1).X, eps)
	assert.Equal(t, 1, c.SegmentCount())
}

func TestTooFewPoints(t *testing.T) {
	tests := []struct {
		kind Kind
		n    int
		ok   bool
	}{
		{BSpline, 0, false},
		{BSpline, 3, false},
		{BSpline, 4, true},
		{CatmullRom, 1, false},
		{CatmullRom, 2, true},
	}
	for _, tt := range tests {
		c := New(tt.kind, "short")
		for i := 0; i < tt.n; i++ {
			c.AddControlPoint(math.Vec3{X: float32(i + 1)})
		}
		err := c.Validate()
		if tt.ok {
			assert.NoError(t, err, "%s with %d points", tt.kind, tt.n)
			continue
		}
		assert.True(t, errors.Is(err, ErrTooFewPoints), "%s with %d points: %v", tt.kind, tt.n, err)
		assert.Equal(t, math.Vec3{}, c.Interpolate(0.5))
		assert.Nil(t, c.ArcTable())
	}
}

func TestArcTableMonotonic(t *testing.T) {
	c := build(CatmullRom,
		math.Vec3{}, math.Vec3{X: 0.1}, math.Vec3{X: 0.2}, math.Vec3{X: 10}, math.Vec3{X: 10, Y: 10})
	table := c.ArcTable()

	require.Len(t, table, c.SegmentCount()*SamplesPerSegment)
	assert.Equal(t, float32(0), table[0].T)
	assert.Equal(t, float32(0), table[0].Length)
	assert.Equal(t, float32(1), table[len(table)-1].Length)
	assert.Equal(t, float32(1), table[len(table)-1].T)
	for i := 1; i < len(table); i++ {
		assert.GreaterOrEqual(t, table[i].T, table[i-1].T)
		assert.GreaterOrEqual(t, table[i].Length, table[i-1].Length)
	}
}

func TestArcTableInvalidatedByAdd(t *testing.T) {
	c := build(CatmullRom, math.Vec3{}, math.Vec3{X: 1})
	first := c.ArcTable()
	require.Len(t, first, SamplesPerSegment)

	c.AddControlPoint(math.Vec3{X: 2})
	assert.Len(t, c.ArcTable(), 2*SamplesPerSegment)
}

func TestArcParametrizationEvensSpeed(t *testing.T) {
	// Two short segments followed by a long one: plain parametrization
	// spends a third of the time on each.
	c := build(CatmullRom, math.Vec3{}, math.Vec3{X: 2}, math.Vec3{X: 4}, math.Vec3{X: 14})

	assert.InDelta(t, 2, c.Interpolate(1.0/3).X, eps)

	c.SetArcParametrization(true)
	var prev math.Vec3
	for i := 0; i <= 10; i++ {
		p := c.Interpolate(float32(i) / 10)
		if i > 0 {
			assert.InDelta(t, 1.4, p.Distance(prev), 0.05, "step %d", i)
		}
		prev = p
	}
}

func TestEaseCurve(t *testing.T) {
	c := build(CatmullRom, math.Vec3{}, math.Vec3{X: 10})
	c.SetArcParametrization(true)

	// A flat ease curve at y=0.5 parks the path in the middle.
	ease := build(CatmullRom, math.Vec3{Y: 0.5}, math.Vec3{X: 1, Y: 0.5})
	c.SetEaseCurve(ease)

	for _, tt := range []float32{0, 0.3, 1} {
		assert.InDelta(t, 5, c.Interpolate(tt).X, 1e-3)
	}
	assert.True(t, ease.ArcParametrization())

	// Ease output is clamped into [0,1].
	c.SetEaseCurve(build(CatmullRom, math.Vec3{Y: 4}, math.Vec3{X: 1, Y: 4}))
	assert.InDelta(t, 10, c.Interpolate(0.5).X, 1e-3)
}

func TestDegenerateCurve(t *testing.T) {
	c := build(CatmullRom, math.Vec3{X: 2}, math.Vec3{X: 2}, math.Vec3{X: 2})
	c.SetArcParametrization(true)
	for _, s := range c.ArcTable() {
		assert.False(t, s.Length != s.Length, "NaN in table")
	}
	assert.True(t, c.Interpolate(0.7).ApproxEqual(math.Vec3{X: 2}, eps))
}

func TestClampsParameter(t *testing.T) {
	c := build(CatmullRom, math.Vec3{}, math.Vec3{X: 1})
	assert.Equal(t, c.Interpolate(0), c.Interpolate(-3))
	assert.Equal(t, c.Interpolate(1), c.Interpolate(7))
}
