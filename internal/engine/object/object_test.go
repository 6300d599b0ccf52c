package object

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/nucleus3d/internal/engine/gfx"
	"github.com/Faultbox/nucleus3d/internal/engine/lighting"
	"github.com/Faultbox/nucleus3d/internal/engine/motion"
	"github.com/Faultbox/nucleus3d/internal/engine/shadow"
	"github.com/Faultbox/nucleus3d/internal/logger"
	"github.com/Faultbox/nucleus3d/pkg/math"
)

const eps = 1e-4

func newTestContext() (*gfx.Recorder, *gfx.Context) {
	rec := gfx.NewRecorder()
	return rec, gfx.NewContext(rec, nil)
}

func transform(o *Object, p math.Vec3) math.Vec3 {
	return o.WorldTransform().TransformPoint(p)
}

func TestNewDefaults(t *testing.T) {
	_, ctx := newTestContext()
	o := New(ctx, "box", 2)

	assert.Equal(t, "box", o.Name)
	assert.NotEqual(t, o.ID, New(ctx, "box", 2).ID)
	assert.Equal(t, 2, o.Mesh().Levels())
	assert.Equal(t, math.Identity(), o.WorldTransform())
	assert.True(t, o.Params.ZWrite)
	src, dst := o.BlendFunc()
	assert.Equal(t, gfx.BlendSrcAlpha, src)
	assert.Equal(t, gfx.BlendInvSrcAlpha, dst)
	assert.False(t, o.ShadowCasting())
}

func TestWorldTransformOrder(t *testing.T) {
	_, ctx := newTestContext()
	o := New(ctx, "o", 1)

	o.Scale(2, 2, 2)
	o.Rotate(0, 0, math32.Pi/2)
	o.Translate(10, 0, 0)

	// scale, then rotate, then translate
	got := transform(o, math.Vec3{X: 1})
	assert.True(t, got.ApproxEqual(math.Vec3{X: 10, Y: 2}, eps), "got %v", got)

	// global rotation swings the translated object around the origin
	o.GlobalRotate(0, 0, math32.Pi/2)
	got = transform(o, math.Vec3{X: 1})
	assert.True(t, got.ApproxEqual(math.Vec3{X: -2, Y: 10}, eps), "got %v", got)
}

func TestTransformsAccumulateAndReset(t *testing.T) {
	_, ctx := newTestContext()
	o := New(ctx, "o", 1)

	o.Translate(1, 0, 0)
	o.Translate(0, 2, 0)
	assert.Equal(t, math.Vec3{X: 1, Y: 2}, o.Position())

	o.SetTranslation(5, 0, 0)
	assert.Equal(t, math.Vec3{X: 5}, o.Position())

	o.Rotate(0, 0, math32.Pi/4)
	o.Rotate(0, 0, math32.Pi/4)
	got := transform(o, math.Vec3{X: 1})
	assert.True(t, got.ApproxEqual(math.Vec3{X: 5, Y: 1}, eps), "got %v", got)

	o.SetRotation(0, 0, math32.Pi/4)
	o.SetRotation(0, 0, math32.Pi/2)
	got = transform(o, math.Vec3{X: 1})
	assert.True(t, got.ApproxEqual(math.Vec3{X: 5, Y: 1}, eps), "set replaces: got %v", got)

	o.ResetTransform()
	assert.Equal(t, math.Identity(), o.WorldTransform())
}

func TestMotionAppliesInObjectSpace(t *testing.T) {
	_, ctx := newTestContext()
	o := New(ctx, "o", 1)
	o.Rotate(0, 0, math32.Pi/2)

	ctrl := motion.NewController()
	ctrl.SetTranslation(motion.Linear(0, 5), nil, nil, 1)
	o.SetMotion(ctrl)

	// before Animate the controller has not been evaluated
	assert.Equal(t, math.Vec3{}, transform(o, math.Vec3{}))

	o.Animate(1)
	got := transform(o, math.Vec3{})
	assert.True(t, got.ApproxEqual(math.Vec3{Y: 5}, eps), "got %v", got)

	o.SetMotion(nil)
	assert.True(t, transform(o, math.Vec3{}).ApproxEqual(math.Vec3{}, eps))
}

func TestSetDetailLevelClamps(t *testing.T) {
	_, ctx := newTestContext()
	o := New(ctx, "o", 3)

	o.SetDetailLevel(7)
	assert.Equal(t, 2, o.DetailLevel())
	o.SetDetailLevel(-1)
	assert.Equal(t, 0, o.DetailLevel())
}

func TestCloneOwnsMesh(t *testing.T) {
	_, ctx := newTestContext()
	o := NewCube(ctx, "cube", 1, 1)
	o.Translate(1, 2, 3)

	c, err := o.Clone()
	require.NoError(t, err)
	assert.NotEqual(t, o.ID, c.ID)
	assert.Equal(t, o.WorldTransform(), c.WorldTransform())

	c.Mesh().ModVertices()[0].Pos = math.Vec3{X: 99}
	assert.NotEqual(t, float32(99), o.Mesh().Vertices()[0].Pos.X)
}

func TestCalculateShadows(t *testing.T) {
	_, ctx := newTestContext()
	o := NewPlane(ctx, "floor", 2, 0, 1)
	o.SetShadowCasting(true)

	// the plane faces -Z: light travelling -Z hits its back
	away := lighting.NewDirectional(math.Vec3{Z: -1})
	toward := lighting.NewDirectional(math.Vec3{Z: 1})

	o.CalculateShadows([]shadow.Light{away, toward})
	require.Equal(t, 2, o.ShadowVolumeCount())
	assert.Equal(t, 24, o.ShadowVolume(0).VertexCount())
	assert.Equal(t, 0, o.ShadowVolume(1).VertexCount())
	assert.Nil(t, o.ShadowVolume(2))
	assert.Nil(t, o.ShadowVolume(-1))

	o.CalculateShadows([]shadow.Light{toward})
	assert.Equal(t, 1, o.ShadowVolumeCount())
	assert.Equal(t, 0, o.ShadowVolume(0).VertexCount())
}

func TestDisablingShadowCastingDropsVolumes(t *testing.T) {
	_, ctx := newTestContext()
	o := NewPlane(ctx, "floor", 2, 0, 1)
	o.SetShadowCasting(true)
	o.CalculateShadows([]shadow.Light{lighting.NewDirectional(math.Vec3{Z: -1})})
	require.Equal(t, 1, o.ShadowVolumeCount())

	o.SetShadowCasting(false)
	assert.Zero(t, o.ShadowVolumeCount())
	assert.Nil(t, o.ShadowVolume(0))
}

func TestShadowRebuildLogsOnlyOnCasterChange(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := logger.Log
	logger.Log = zap.New(core)
	t.Cleanup(func() { logger.Log = prev })

	_, ctx := newTestContext()
	o := NewPlane(ctx, "floor", 2, 0, 1)
	o.SetShadowCasting(true)
	sun := lighting.NewDirectional(math.Vec3{Z: -1})
	lamp := lighting.DefaultPoint()

	for i := 0; i < 5; i++ {
		o.CalculateShadows([]shadow.Light{sun})
	}
	assert.Equal(t, 1, logs.Len(), "steady frames stay quiet")

	o.CalculateShadows([]shadow.Light{sun, lamp})
	assert.Equal(t, 2, logs.Len())
}

func TestShadowVolumeStaysInMeshSpace(t *testing.T) {
	_, ctx := newTestContext()
	o := NewPlane(ctx, "floor", 2, 0, 1)
	o.Translate(100, 0, 0)

	o.CalculateShadows([]shadow.Light{lighting.NewDirectional(math.Vec3{Z: -1})})
	for _, v := range o.ShadowVolume(0).Vertices() {
		assert.LessOrEqual(t, math32.Abs(v.Pos.X), float32(1)+eps)
	}
}

func TestGenerators(t *testing.T) {
	_, ctx := newTestContext()

	assert.Equal(t, 4, NewPlane(ctx, "p", 1, 0, 1).Mesh().VertexCount())
	assert.Equal(t, 36, NewCube(ctx, "c", 1, 1).Mesh().VertexCount())
	s := NewSphere(ctx, "s", 1, 8, 6, 2)
	assert.Positive(t, s.Mesh().TriangleCount())
	assert.Equal(t, 2, s.Mesh().Levels())
}
