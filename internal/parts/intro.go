package parts

import (
	"github.com/Faultbox/nucleus3d/internal/demo"
	"github.com/Faultbox/nucleus3d/internal/engine/camera"
	"github.com/Faultbox/nucleus3d/internal/engine/gfx"
	"github.com/Faultbox/nucleus3d/internal/engine/lighting"
	"github.com/Faultbox/nucleus3d/internal/engine/material"
	"github.com/Faultbox/nucleus3d/internal/engine/motion"
	"github.com/Faultbox/nucleus3d/internal/engine/object"
	"github.com/Faultbox/nucleus3d/internal/engine/scene"
	"github.com/Faultbox/nucleus3d/internal/engine/texture"
	"github.com/Faultbox/nucleus3d/pkg/math"
)

// Intro spins a textured cube in front of a chessboard while a glass
// sphere fades in around it.
type Intro struct {
	demo.BasePart

	cube  *object.Object
	glass *object.Object
	lamp  *lighting.Light
}

// NewIntro builds the intro scene.
func NewIntro(ctx *gfx.Context, opts Options) *Intro {
	cfg := opts.Scene
	cfg.Shadows = false
	sc := scene.New(ctx, cfg)
	sc.Ambient = math.Gray(0.2)

	p := &Intro{BasePart: demo.NewBasePart("intro", sc)}

	backdrop := object.NewPlane(ctx, "backdrop", 400, 4, opts.LODLevels)
	backdrop.SetTranslation(0, 0, 150)
	backdrop.Material.SetTexture(material.DiffuseMap, ctx.LoadTexture(texture.StockChessboard))
	backdrop.SetTextureMatrix(math.Scale(4, 4, 1))
	sc.AddObject(backdrop)

	p.cube = object.NewCube(ctx, "cube", 40, opts.LODLevels)
	p.cube.Material.SetTexture(material.DiffuseMap, ctx.LoadTexture(texture.StockGrid))
	p.cube.Material.SetSpecularPower(20)
	spin := motion.NewController()
	spin.SetRotation(motion.Linear(0, 0.7), motion.Linear(0, 1.1), nil, 1)
	p.cube.SetMotion(spin)
	sc.AddObject(p.cube)

	p.glass = object.NewSphere(ctx, "glass", 45, 24, 16, opts.LODLevels)
	p.glass.Material = material.NewColor(0.6, 0.8, 1)
	p.glass.Material.SetTexture(material.EnvironmentMap, ctx.LoadTexture(texture.StockBlofm))
	p.glass.Material.SetAlpha(0)
	p.glass.SetWriteZBuffer(false)
	sc.AddObject(p.glass)

	p.lamp = lighting.NewPoint(math.Vec3{X: 60, Y: 80, Z: -120}, 500)
	p.lamp.Name = "lamp"
	p.lamp.SetColor(math.RGB(1, 0.95, 0.8))
	sc.AddLight(p.lamp)

	cam := camera.New("front")
	cam.Set(math.Vec3{Z: -200}, math.Vec3{}, math.Vec3{Y: 1})
	sc.AddCamera(cam)

	return p
}

// Frame animates the cube and fades the sphere in over the first half of
// the part.
func (p *Intro) Frame(t int64) error {
	sc := p.Scene
	sc.Animate(seconds(t))

	fade := min(1, 2*p.ParametricPosition(p.Timing().Start+t))
	p.glass.Material.SetAlpha(0.5 * fade)

	clearFrame(sc.Context(), math.RGB(0.05, 0.05, 0.1))
	return sc.Render()
}
