package parts

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/nucleus3d/internal/demo"
	"github.com/Faultbox/nucleus3d/internal/engine/camera"
	"github.com/Faultbox/nucleus3d/internal/engine/curve"
	"github.com/Faultbox/nucleus3d/internal/engine/gfx"
	"github.com/Faultbox/nucleus3d/internal/engine/lighting"
	"github.com/Faultbox/nucleus3d/internal/engine/material"
	"github.com/Faultbox/nucleus3d/internal/engine/motion"
	"github.com/Faultbox/nucleus3d/internal/engine/object"
	"github.com/Faultbox/nucleus3d/internal/engine/particles"
	"github.com/Faultbox/nucleus3d/internal/engine/scene"
	"github.com/Faultbox/nucleus3d/internal/engine/texture"
	"github.com/Faultbox/nucleus3d/pkg/math"
)

// Shadows flies the camera along a spline over a floor where a bouncing
// sphere and a tumbling cube cast stencil shadows from an orbiting lamp.
// A pillar's shadow from the fixed sun is baked once. Leaves drift down
// through a black fog.
type Shadows struct {
	demo.BasePart

	cam    *camera.Camera
	lamp   *lighting.Light
	orbit  *lighting.Point
	leaves *particles.System
}

// NewShadows builds the shadow scene. It fails only when opts.Model is set
// and cannot be loaded.
func NewShadows(ctx *gfx.Context, opts Options) (*Shadows, error) {
	sc := scene.New(ctx, opts.Scene)
	sc.Ambient = math.Gray(0.15)
	sc.SetFog(true, math.Color{A: 1}, 300, 1400)

	p := &Shadows{BasePart: demo.NewBasePart("shadows", sc)}
	lod := opts.LODLevels

	floor := object.NewPlane(ctx, "floor", 600, 8, lod)
	floor.SetRotation(math32.Pi/2, 0, 0)
	floor.Material.SetTexture(material.DiffuseMap, ctx.LoadTexture(texture.StockGrid))
	floor.Material.SetTexture(material.DetailMap, ctx.LoadTexture(texture.StockBlob))
	floor.SetTextureMatrix(math.Scale(8, 8, 1))
	sc.AddObject(floor)

	ball := object.NewSphere(ctx, "ball", 25, 20, 14, lod)
	ball.Material = material.NewColor(0.9, 0.3, 0.2)
	ball.Material.SetSpecularPower(30)
	ball.SetShadowCasting(true)
	bounce := motion.NewController()
	bounce.SetTranslation(motion.Sine(120, 0.5, 0), absSine(90, 2), motion.Constant(0), 1)
	ball.SetMotion(bounce)
	ball.SetTranslation(0, 25, 0)
	sc.AddObject(ball)

	box := object.NewCube(ctx, "box", 40, lod)
	box.Material.SetTexture(material.DiffuseMap, ctx.LoadTexture(texture.StockChessboard))
	box.SetShadowCasting(true)
	tumble := motion.NewController()
	tumble.SetRotation(motion.Linear(0, 0.4), motion.Linear(0, 0.9), motion.Sine(0.5, 1, 0), 1)
	box.SetMotion(tumble)
	box.SetTranslation(-120, 60, 80)
	sc.AddObject(box)

	if opts.Model != "" {
		model, err := object.LoadModel(ctx, opts.Model, lod)
		if err != nil {
			return nil, fmt.Errorf("loading shadows model: %w", err)
		}
		model.SetShadowCasting(true)
		model.SetTranslation(140, 0, -60)
		sc.AddObject(model)
	}

	p.lamp = lighting.NewPoint(math.Vec3{X: 200, Y: 220}, 900)
	p.lamp.Name = "lamp"
	p.lamp.CastShadows = true
	p.orbit = p.lamp.Source.(*lighting.Point)
	sc.AddLight(p.lamp)

	sun := lighting.NewPoint(math.Vec3{X: -300, Y: 400, Z: -300}, 2000)
	sun.Name = "sun"
	sun.SetColor(math.RGB(0.4, 0.4, 0.5))
	sun.CastShadows = true
	sc.AddLight(sun)

	pillar := object.NewCube(ctx, "pillar", 30, lod)
	pillar.SetScaling(1, 5, 1)
	pillar.SetTranslation(100, 75, 150)
	sc.AddObject(pillar)
	sc.BakeShadowVolume(pillar, sun)

	path := curve.NewCatmullRom("flight")
	for _, pt := range []math.Vec3{
		{X: -400, Y: 300, Z: -400},
		{X: -250, Y: 200, Z: -350},
		{X: 0, Y: 150, Z: -300},
		{X: 250, Y: 180, Z: -200},
		{X: 350, Y: 250, Z: 0},
		{X: 300, Y: 300, Z: 250},
	} {
		path.AddControlPoint(pt)
	}
	path.SetArcParametrization(true)
	sc.AddCurve(path)

	p.cam = camera.New("flight")
	p.cam.SetPath(path, nil, 0, 0)
	p.cam.Target = math.Vec3{Y: 30}
	sc.AddCamera(p.cam)

	leaves := particles.DefaultConfig()
	leaves.Position = math.Vec3{Y: 400}
	leaves.Shoot = math.Vec3{Y: -4}
	leaves.Dispersion = math32.Pi / 8
	leaves.Gravity = 0.8
	leaves.Friction = 0.05
	leaves.SpawnRate = 4
	leaves.SpawnRadius = 600
	leaves.Life = 150
	leaves.Size = 6
	leaves.StartColor = math.RGB(0.6, 0.5, 0.5)
	leaves.EndColor = leaves.StartColor
	leaves.SrcBlend = gfx.BlendSrcAlpha
	leaves.DstBlend = gfx.BlendInvSrcAlpha
	leaves.Texture = texture.StockBlob
	p.leaves = particles.New(ctx, leaves)

	return p, nil
}

// Start launches the part with no leaves in the air.
func (p *Shadows) Start(c *demo.Clock) {
	p.BasePart.Start(c)
	p.leaves.Reset()
}

// Frame moves the lamp around the scene, flies the camera and draws with
// shadows.
func (p *Shadows) Frame(t int64) error {
	sc := p.Scene
	sec := seconds(t)
	sc.Animate(sec)

	p.orbit.Motion.Reset()
	p.orbit.Motion.Rotate(0, 0.6*sec, 0)

	p.cam.FollowParam(p.ParametricPosition(p.Timing().Start + t))
	p.leaves.Update(sec)

	clearFrame(sc.Context(), math.Color{A: 1})
	err := sc.Render()
	return errors.Join(err, p.leaves.Render())
}

// absSine is a bounce: amp*|sin(freq*t)|.
func absSine(amp, freq float32) motion.Func {
	return func(t float32) float32 { return amp * math32.Abs(math32.Sin(freq*t)) }
}
