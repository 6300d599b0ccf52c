package camera

import (
	"testing"
	"time"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/nucleus3d/internal/engine/curve"
	"github.com/Faultbox/nucleus3d/pkg/math"
)

const eps = 1e-4

func line(from, to math.Vec3) *curve.Curve {
	c := curve.NewCatmullRom("line")
	c.AddControlPoint(from)
	c.AddControlPoint(to)
	return c
}

func TestDefaults(t *testing.T) {
	c := New("main")
	assert.Equal(t, math.Vec3{Z: 5}, c.Target)
	assert.Equal(t, math.Vec3{Y: 1}, c.Up)
	assert.InDelta(t, math32.Pi/4, c.FOV, eps)
	assert.Equal(t, float32(1), c.Near)
	assert.Equal(t, float32(10000), c.Far)
}

func TestViewMatrixMapsTargetOntoAxis(t *testing.T) {
	c := New("main")
	c.Set(math.Vec3{X: 3, Y: 4, Z: -10}, math.Vec3{X: 3, Y: 4, Z: 0}, math.Vec3{Y: 1})

	v := c.ViewMatrix()
	got := v.TransformPoint(c.Target)
	assert.True(t, got.ApproxEqual(math.Vec3{Z: 10}, eps), "target in view space: %v", got)

	eye := v.TransformPoint(c.Position)
	assert.True(t, eye.ApproxEqual(math.Vec3{}, eps))

	right := v.TransformPoint(math.Vec3{X: 4, Y: 4, Z: -10})
	assert.True(t, right.ApproxEqual(math.Vec3{X: 1}, eps), "left-handed +X: %v", right)
}

func TestFollowPathClampsOutsideWindow(t *testing.T) {
	c := New("path")
	c.SetPath(line(math.Vec3{}, math.Vec3{X: 10}), nil, 1*time.Second, 3*time.Second)

	tests := []struct {
		elapsed time.Duration
		want    float32
	}{
		{0, 0},
		{1 * time.Second, 0},
		{2 * time.Second, 5},
		{5 * time.Second, 10},
	}
	for _, tt := range tests {
		c.FollowPath(tt.elapsed, false)
		assert.InDelta(t, tt.want, c.Position.X, 1e-3, "elapsed %v", tt.elapsed)
	}
}

func TestFollowPathCycles(t *testing.T) {
	c := New("path")
	c.SetPath(nil, line(math.Vec3{}, math.Vec3{Y: 8}), 0, 2*time.Second)

	assert.InDelta(t, 0.25, c.PathParam(2500*time.Millisecond, true), eps)
	assert.InDelta(t, 0.75, c.PathParam(-500*time.Millisecond, true), eps)

	c.FollowPath(5*time.Second, true)
	assert.InDelta(t, 4, c.Target.Y, 1e-3)
	assert.Equal(t, math.Vec3{}, c.Position, "position untouched without a path")
}

func TestPathParamEmptyWindow(t *testing.T) {
	c := New("path")
	c.SetPath(nil, nil, time.Second, time.Second)
	assert.Equal(t, float32(0), c.PathParam(0, false))
	assert.Equal(t, float32(1), c.PathParam(2*time.Second, true))
}

func TestFollowParamClamps(t *testing.T) {
	c := New("path")
	c.SetPath(line(math.Vec3{}, math.Vec3{Z: 4}), line(math.Vec3{Y: 1}, math.Vec3{Y: 1, Z: 8}), 0, time.Second)

	c.FollowParam(1.5)
	assert.InDelta(t, 4, c.Position.Z, 1e-3)
	assert.InDelta(t, 8, c.Target.Z, 1e-3)

	c.FollowParam(-2)
	assert.InDelta(t, 0, c.Position.Z, 1e-3)
}

func TestMoveKeepsViewVector(t *testing.T) {
	c := New("main")
	before := c.ViewVector()
	c.Move(1, 2, 3)
	assert.Equal(t, before, c.ViewVector())
	c.MoveTo(math.Vec3{X: -5})
	assert.Equal(t, math.Vec3{X: -5}, c.Position)
	assert.True(t, c.ViewVector().ApproxEqual(before, eps))
}

func TestOrbitKeepsDistance(t *testing.T) {
	c := New("main")
	c.Set(math.Vec3{Z: -10}, math.Vec3{}, math.Vec3{Y: 1})
	c.Orbit(0, math32.Pi/2, 0)
	assert.InDelta(t, 10, c.ViewVector().Length(), eps)
	assert.True(t, c.Position.ApproxEqual(math.Vec3{X: -10}, eps), "got %v", c.Position)
}

func TestZoomAndSpin(t *testing.T) {
	c := New("main")
	c.Set(math.Vec3{Z: -10}, math.Vec3{}, math.Vec3{Y: 1})
	c.Zoom(0.5)
	assert.True(t, c.Position.ApproxEqual(math.Vec3{Z: -5}, eps))

	c.Spin(math32.Pi / 2)
	assert.InDelta(t, 1, c.Up.Length(), eps)
	assert.InDelta(t, 0, c.Up.Y, eps)
}
