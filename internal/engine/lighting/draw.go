package lighting

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/nucleus3d/internal/engine/gfx"
	"github.com/Faultbox/nucleus3d/internal/engine/texture"
	"github.com/Faultbox/nucleus3d/pkg/math"
)

var haloIndices = []uint16{0, 1, 2, 0, 2, 3}

var gizmoIndices = []uint16{0, 1, 2, 0, 2, 3, 0, 3, 1, 1, 3, 2}

var gizmoMaterial = gfx.MaterialParams{
	Ambient:  math.RGB(0.9, 0.8, 0.3),
	Diffuse:  math.RGB(0.9, 0.8, 0.3),
	Specular: math.RGB(0.9, 0.8, 0.3),
	Emissive: math.Color{A: 1},
}

// Draw renders the light's visual marker: an additive billboard halo for
// positional lights, a small arrow for directional ones. The device render
// state, texture bindings and view matrix are left as they were found.
func (l *Light) Draw(ctx *gfx.Context, size float32) {
	if d, ok := l.Source.(*Directional); ok {
		l.drawGizmo(ctx, d)
		return
	}
	pt := l.point()
	if pt == nil {
		return
	}
	l.drawHalo(ctx, pt, size)
}

func (l *Light) point() *Point {
	switch s := l.Source.(type) {
	case *Point:
		return s
	case *Spot:
		return &s.Point
	case *TargetSpot:
		return &s.Point
	}
	return nil
}

// HaloQuad returns the halo vertices centred on the origin.
func HaloQuad(size float32, color uint32) []gfx.Vertex {
	h := size / 2
	return []gfx.Vertex{
		gfx.NewVertex(math.Vec3{X: -h, Y: h}, 0, 0, color),
		gfx.NewVertex(math.Vec3{X: h, Y: h}, 1, 0, color),
		gfx.NewVertex(math.Vec3{X: h, Y: -h}, 1, 1, color),
		gfx.NewVertex(math.Vec3{X: -h, Y: -h}, 0, 1, color),
	}
}

func (l *Light) drawHalo(ctx *gfx.Context, pt *Point, size float32) {
	verts := HaloQuad(size, l.Diffuse.Scale(l.Intensity).Packed())

	guard := gfx.Save(ctx)
	defer guard.Restore()

	ctx.SetTexture(0, ctx.LoadTexture(texture.StockBlob))
	ctx.SetTextureStage(0, gfx.StageState{
		ColorOp:   gfx.TexOpModulate,
		ColorArg1: gfx.TexArgTexture,
		ColorArg2: gfx.TexArgCurrent,
		AlphaOp:   gfx.TexOpSelectArg1,
		AlphaArg1: gfx.TexArgTexture,
		AlphaArg2: gfx.TexArgCurrent,
	})
	ctx.SetTexture(1, nil)
	ctx.SetTextureStage(1, gfx.DisabledStage())

	world := pt.Motion.Matrix().Mul(math.Translate(pt.Position.X, pt.Position.Y, pt.Position.Z))
	ctx.SetTransform(gfx.TransformWorld, world)

	gfx.Update(ctx, func(s *gfx.RenderState) {
		s.AlphaBlend = true
		s.SrcBlend = gfx.BlendOne
		s.DstBlend = gfx.BlendOne
		s.ColorVertex = true
		s.Lighting = false
		s.ZWrite = false
		s.Billboard = true
	})

	ctx.DrawUser(verts, haloIndices)

	ctx.SetTexture(0, nil)
}

func (l *Light) drawGizmo(ctx *gfx.Context, d *Directional) {
	verts := []gfx.Vertex{
		gfx.NewVertex(math.Vec3{Z: 0.1}, 0, 0, 0x00ff0000),
		gfx.NewVertex(math.Vec3{X: 0.03, Y: 0.03}, 0, 0, 0),
		gfx.NewVertex(math.Vec3{X: -0.03, Y: 0.03}, 0, 0, 0),
		gfx.NewVertex(math.Vec3{Y: -0.03}, 0, 0, 0x000000ff),
	}

	guard := gfx.Save(ctx)
	defer guard.Restore()

	view := ctx.Transform(gfx.TransformView)
	defer ctx.SetTransform(gfx.TransformView, view)

	ctx.SetMaterial(gizmoMaterial)
	ctx.SetTexture(0, nil)
	ctx.SetTextureStage(1, gfx.DisabledStage())
	gfx.Update(ctx, func(s *gfx.RenderState) {
		s.ColorVertex = true
		s.Lighting = false
		s.ZTest = false
	})

	ctx.SetTransform(gfx.TransformWorld, d.DirRot.Matrix().Mul(basis(d.Direction)))
	ctx.SetTransform(gfx.TransformView, normalizeColumns(view))

	ctx.DrawUser(verts, gizmoIndices)
}

// basis returns a rotation taking +Z onto dir.
func basis(dir math.Vec3) math.Mat4 {
	k := dir.Normalize()
	if k == (math.Vec3{}) {
		return math.Identity()
	}
	up := math.Vec3{Y: 1}
	if math32.Abs(k.Dot(up)) > 0.999 {
		up = math.Vec3{X: 1}
	}
	i := up.Cross(k).Normalize()
	j := k.Cross(i)
	return math.Mat4{
		i.X, i.Y, i.Z, 0,
		j.X, j.Y, j.Z, 0,
		k.X, k.Y, k.Z, 0,
		0, 0, 0, 1,
	}
}

// normalizeColumns rescales every stored column to unit length so the gizmo
// keeps a fixed size on screen regardless of camera distance.
func normalizeColumns(m math.Mat4) math.Mat4 {
	for c := 0; c < 4; c++ {
		col := m.Column(c)
		var sq float32
		for _, v := range col {
			sq += v * v
		}
		if sq == 0 {
			continue
		}
		inv := 1 / math32.Sqrt(sq)
		for i := range col {
			col[i] *= inv
		}
		m.SetColumn(c, col)
	}
	return m
}
