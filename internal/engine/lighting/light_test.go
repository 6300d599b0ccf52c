package lighting

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/nucleus3d/internal/engine/gfx"
	"github.com/Faultbox/nucleus3d/internal/engine/texture"
	"github.com/Faultbox/nucleus3d/pkg/math"
)

const eps = 1e-4

func TestDefaults(t *testing.T) {
	l := DefaultPoint()
	require.Equal(t, KindPoint, l.Kind())
	pt := l.Source.(*Point)

	assert.Equal(t, math.Vec3{Y: 100}, pt.Position)
	assert.Equal(t, float32(300), pt.Range)
	assert.Equal(t, [3]float32{1, 0, 0}, pt.Attenuation)
	assert.Equal(t, float32(1), l.Intensity)
	assert.Equal(t, math.Gray(1), l.Diffuse)
	assert.False(t, l.CastShadows)

	s := NewSpot(math.Vec3{}, math.Vec3{Y: -1}, 100).Source.(*Spot)
	assert.InDelta(t, math32.Pi/4, s.Phi, eps)
	assert.InDelta(t, s.Phi*8/9, s.Theta, eps)
	assert.Equal(t, float32(1), s.Falloff)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "directional", KindDirectional.String())
	assert.Equal(t, "target-spot", KindTargetSpot.String())
	assert.Equal(t, "unknown", Kind(42).String())
}

func TestParamsScaleByIntensity(t *testing.T) {
	l := NewPoint(math.Vec3{X: 1, Y: 2, Z: 3}, 50)
	l.Diffuse = math.RGB(1, 0.5, 0)
	l.Intensity = 0.5

	p := l.Params()
	assert.Equal(t, gfx.LightPoint, p.Kind)
	assert.InDelta(t, 0.5, p.Diffuse.R, eps)
	assert.InDelta(t, 0.25, p.Diffuse.G, eps)
	assert.Equal(t, float32(50), p.Range)
	assert.Equal(t, math.Vec3{X: 1, Y: 2, Z: 3}, p.Position)
}

func TestPointMotion(t *testing.T) {
	l := DefaultPoint()
	pt := l.Source.(*Point)

	pt.Motion.Translate(5, 0, 0)
	pos, ok := l.Position()
	require.True(t, ok)
	assert.True(t, pos.ApproxEqual(math.Vec3{X: 5, Y: 100}, eps), "got %v", pos)

	// Rotation applies before translation.
	pt.Motion.Rotate(0, 0, math32.Pi/2)
	pos, _ = l.Position()
	assert.True(t, pos.ApproxEqual(math.Vec3{X: -95, Y: 0}, 1e-3), "got %v", pos)

	pt.Motion.Reset()
	pos, _ = l.Position()
	assert.Equal(t, math.Vec3{Y: 100}, pos)
}

func TestPointParamsFollowMotion(t *testing.T) {
	l := NewPoint(math.Vec3{X: 10}, 80)
	pt := l.Source.(*Point)
	pt.SetAttenuation(1, 0.1, 0.01)
	pt.Motion.Translate(0, 20, 0)

	p := l.Params()
	assert.Equal(t, gfx.LightPoint, p.Kind)
	assert.True(t, p.Position.ApproxEqual(math.Vec3{X: 10, Y: 20}, eps), "got %v", p.Position)
	assert.Equal(t, float32(80), p.Range)
	assert.Equal(t, [3]float32{1, 0.1, 0.01}, p.Attenuation)
	assert.Zero(t, p.Phi, "point lights carry no cone")
}

func TestTargetSpotFollowsTarget(t *testing.T) {
	l := NewTargetSpot(math.Vec3{Y: 10}, math.Vec3{}, 100)
	ts := l.Source.(*TargetSpot)

	dir, ok := l.Direction()
	require.True(t, ok)
	assert.True(t, dir.ApproxEqual(math.Vec3{Y: -1}, eps))

	ts.TargetMotion.Translate(10, 10, 0)
	p := l.Params()
	assert.Equal(t, gfx.LightSpot, p.Kind)
	assert.True(t, p.Direction.ApproxEqual(math.Vec3{X: 1}, eps), "got %v", p.Direction)

	ts.Motion.Translate(0, -10, 0)
	p = l.Params()
	assert.True(t, p.Direction.ApproxEqual(math.Vec3{X: 1, Y: 1}.Normalize(), eps), "got %v", p.Direction)
}

func TestDirectionalHasNoPosition(t *testing.T) {
	l := NewDirectional(math.Vec3{Z: 1})
	_, ok := l.Position()
	assert.False(t, ok)

	d := l.Source.(*Directional)
	d.DirRot.Rotate(0, math32.Pi/2, 0)
	dir, ok := l.Direction()
	require.True(t, ok)
	assert.True(t, dir.ApproxEqual(math.Vec3{X: 1}, eps), "got %v", dir)

	_, ok = NewPoint(math.Vec3{}, 1).Direction()
	assert.False(t, ok)
}

func TestDirectionAt(t *testing.T) {
	world := math.Translate(0, 0, 10).Mul(math.RotateY(math32.Pi / 2))
	toLocal := world.Inverse()

	dir := NewDirectional(math.Vec3{X: 1})
	got := dir.DirectionAt(math.Vec3{X: 123}, toLocal)
	assert.True(t, got.ApproxEqual(math.Vec3{Z: 1}, eps), "directional in local space: %v", got)

	pt := NewPoint(math.Vec3{Z: 10, Y: 5}, 100)
	got = pt.DirectionAt(math.Vec3{}, toLocal)
	assert.True(t, got.ApproxEqual(math.Vec3{Y: -5}, eps), "point: %v", got)
}

func TestSetLight(t *testing.T) {
	rec := gfx.NewRecorder()
	l := NewSpot(math.Vec3{Y: 5}, math.Vec3{Y: -1}, 20)
	l.Source.(*Spot).SetCone(0.1, 0.2)

	l.SetLight(rec, 3)
	p, enabled := rec.Light(3)
	assert.True(t, enabled)
	assert.Equal(t, gfx.LightSpot, p.Kind)
	assert.Equal(t, float32(0.1), p.Theta)
	assert.Equal(t, float32(0.2), p.Phi)
}

func TestDrawHalo(t *testing.T) {
	rec := gfx.NewRecorder()
	ctx := gfx.NewContext(rec, texture.NewManager(rec, ""))
	before := rec.RenderState()

	l := NewPoint(math.Vec3{X: 1, Y: 2, Z: 3}, 10)
	l.Draw(ctx, 8)

	require.Len(t, rec.Draws, 1)
	d := rec.Draws[0]
	assert.Equal(t, gfx.DrawUserKind, d.Kind)
	assert.Equal(t, 4, d.Vertices)
	assert.Equal(t, 6, d.Indices)
	assert.True(t, d.State.Billboard)
	assert.True(t, d.State.AlphaBlend)
	assert.Equal(t, gfx.BlendOne, d.State.SrcBlend)
	assert.Equal(t, gfx.BlendOne, d.State.DstBlend)
	assert.False(t, d.State.ZWrite)
	assert.False(t, d.State.Lighting)
	require.NotNil(t, d.Textures[0])
	assert.Equal(t, texture.StockSize, d.Textures[0].Width())
	assert.Equal(t, math.Vec3{X: 1, Y: 2, Z: 3}, d.World.Translation())

	assert.Equal(t, before, rec.RenderState(), "render state leaked")
	assert.Nil(t, rec.BoundTexture(0))
}

func TestDrawHaloWithoutLoader(t *testing.T) {
	rec := gfx.NewRecorder()
	NewSpot(math.Vec3{}, math.Vec3{Y: -1}, 1).Draw(gfx.NewContext(rec, nil), 4)
	require.Len(t, rec.Draws, 1)
	assert.Nil(t, rec.Draws[0].Textures[0])
}

func TestDrawGizmo(t *testing.T) {
	rec := gfx.NewRecorder()
	view := math.LookAtLH(math.Vec3{Z: -50}, math.Vec3{}, math.Vec3{Y: 1})
	rec.SetTransform(gfx.TransformView, view)

	NewDirectional(math.Vec3{Y: -1}).Draw(gfx.NewContext(rec, nil), 1)

	require.Len(t, rec.Draws, 1)
	d := rec.Draws[0]
	assert.Equal(t, 4, d.Vertices)
	assert.Equal(t, 12, d.Indices)
	assert.False(t, d.State.ZTest)
	assert.True(t, d.State.ColorVertex)

	assert.Equal(t, view, rec.Transform(gfx.TransformView), "view matrix not restored")
	assert.True(t, rec.RenderState().ZTest)
}

func TestBasisMapsZToDirection(t *testing.T) {
	for _, dir := range []math.Vec3{{Z: 1}, {Y: -1}, {X: 1, Y: 1}, {Y: 1}} {
		m := basis(dir)
		got := m.TransformDirection(math.Vec3{Z: 1})
		assert.True(t, got.ApproxEqual(dir.Normalize(), eps), "dir %v: got %v", dir, got)
	}
}
