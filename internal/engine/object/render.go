package object

import (
	"github.com/Faultbox/nucleus3d/internal/engine/gfx"
	"github.com/Faultbox/nucleus3d/internal/engine/material"
	"github.com/Faultbox/nucleus3d/pkg/math"
)

// envMapMatrix maps camera space normals in [-1,1] to sphere map
// coordinates in [0,1], flipping v.
var envMapMatrix = math.Mat4{
	0.5, 0, 0, 0,
	0, -0.5, 0, 0,
	0, 0, 1, 0,
	0.5, 0.5, 0, 1,
}

// Render draws the object with its own render parameters.
func (o *Object) Render() error {
	return o.render(o.Params.ZWrite)
}

// RenderBlended draws the object with depth writes suppressed for this call
// only, as done for the transparent pass of a scene.
func (o *Object) RenderBlended() error {
	return o.render(false)
}

// RenderBare draws the mesh with whatever state the device currently holds.
func (o *Object) RenderBare() error {
	return o.draw()
}

// render runs the two texture unit pipeline. Pass one draws the diffuse and
// environment maps, pass two multiplies the light map over the result. Every
// stage a pass does not use is disabled, and the render state is restored on
// return.
func (o *Object) render(zwrite bool) error {
	dev := o.ctx.Device
	guard := gfx.Save(dev)
	defer guard.Restore()

	o.setRenderStates(zwrite)

	mat := &o.Material
	if mat.TextureCount() == 0 {
		return o.renderUntextured()
	}

	drewBase, err := o.renderBasePass()
	if err != nil {
		return err
	}
	return o.renderLightPass(drewBase)
}

func (o *Object) setRenderStates(zwrite bool) {
	dev := o.ctx.Device
	dev.SetTransform(gfx.TransformWorld, o.WorldTransform())
	dev.SetMaterial(o.Material.Params())

	gfx.Update(dev, func(s *gfx.RenderState) {
		s.Specular = o.Material.SpecularEnable
		s.VertexProgram = o.Params.VertexProgram
		s.PixelProgram = o.Params.PixelProgram
		s.Shading = o.Params.Shading
		if !zwrite {
			s.ZWrite = false
		}
	})
}

// alphaFactor routes material alpha through the texture factor when the
// material is translucent and reports whether it did.
func (o *Object) alphaFactor() bool {
	alpha := o.Material.Alpha
	if alpha >= 1 {
		return false
	}
	gfx.Update(o.ctx.Device, func(s *gfx.RenderState) {
		s.TextureFactor = math.Color{R: alpha, G: alpha, B: alpha, A: alpha}
	})
	return true
}

func (o *Object) renderUntextured() error {
	dev := o.ctx.Device

	st := gfx.StageState{
		ColorOp:   gfx.TexOpSelectArg1,
		ColorArg1: gfx.TexArgDiffuse,
		ColorArg2: gfx.TexArgTexture,
		AlphaOp:   gfx.TexOpSelectArg1,
		AlphaArg1: gfx.TexArgCurrent,
		AlphaArg2: gfx.TexArgTexture,
	}
	if o.alphaFactor() {
		st.AlphaArg1 = gfx.TexArgFactor
		st.AlphaArg2 = gfx.TexArgDiffuse
	}

	dev.SetTexture(0, nil)
	dev.SetTextureStage(0, st)
	dev.SetTexture(1, nil)
	dev.SetTextureStage(1, gfx.DisabledStage())

	o.setBlend(true, o.Params.SrcBlend, o.Params.DstBlend)
	err := o.draw()
	o.setBlend(false, o.Params.SrcBlend, o.Params.DstBlend)
	return err
}

// renderBasePass draws the diffuse and environment maps and reports whether
// anything was drawn.
func (o *Object) renderBasePass() (bool, error) {
	dev := o.ctx.Device
	mat := &o.Material
	stage := 0

	if tex := mat.Texture(material.DiffuseMap); tex != nil {
		dev.SetTexture(stage, tex)
		if o.useTexMatrix {
			dev.SetTextureMatrix(stage, o.texMatrix)
		}

		st := gfx.StageState{
			ColorOp:   gfx.TexOpModulate,
			ColorArg1: gfx.TexArgCurrent,
			ColorArg2: gfx.TexArgTexture,
			AlphaOp:   gfx.TexOpSelectArg2,
			AlphaArg1: gfx.TexArgCurrent,
			AlphaArg2: gfx.TexArgTexture,
		}
		if o.alphaFactor() {
			st.AlphaOp = gfx.TexOpModulate
			st.AlphaArg1 = gfx.TexArgTexture
			st.AlphaArg2 = gfx.TexArgFactor
		}
		dev.SetTextureStage(stage, st)
		stage++
	}

	if tex := mat.Texture(material.EnvironmentMap); tex != nil {
		dev.SetTexture(stage, tex)
		dev.SetTextureStage(stage, gfx.StageState{
			ColorOp:   gfx.TexOpAdd,
			ColorArg1: gfx.TexArgCurrent,
			ColorArg2: gfx.TexArgTexture,
			AlphaOp:   gfx.TexOpSelectArg1,
			AlphaArg1: gfx.TexArgCurrent,
			AlphaArg2: gfx.TexArgTexture,
			TexGen:    gfx.TexGenCameraSpaceNormal,
		})
		dev.SetTextureMatrix(stage, envMapMatrix)
		stage++
	}

	o.terminateStages(stage)
	if stage == 0 {
		return false, nil
	}

	o.setBlend(true, o.Params.SrcBlend, o.Params.DstBlend)
	err := o.draw()
	o.setBlend(false, o.Params.SrcBlend, o.Params.DstBlend)

	dev.SetTextureMatrix(0, math.Identity())
	dev.SetTextureMatrix(1, math.Identity())
	return true, err
}

// renderLightPass multiplies the light map into the frame buffer. Bump maps
// are accepted by materials but not drawn.
func (o *Object) renderLightPass(drewBase bool) error {
	dev := o.ctx.Device
	mat := &o.Material

	if drewBase {
		o.setBlend(true, gfx.BlendDestColor, gfx.BlendZero)
		params := mat.Params()
		params.Emissive = math.Gray(1)
		dev.SetMaterial(params)
		defer dev.SetMaterial(mat.Params())
	}

	stage := 0
	if tex := mat.Texture(material.LightMap); tex != nil {
		dev.SetTexture(stage, tex)
		dev.SetTextureStage(stage, gfx.StageState{
			ColorOp:       gfx.TexOpSelectArg2,
			ColorArg1:     gfx.TexArgCurrent,
			ColorArg2:     gfx.TexArgTexture,
			AlphaOp:       gfx.TexOpSelectArg1,
			AlphaArg1:     gfx.TexArgCurrent,
			AlphaArg2:     gfx.TexArgTexture,
			TexCoordIndex: 1,
		})
		stage++
	}

	o.terminateStages(stage)

	var err error
	if stage > 0 {
		err = o.draw()
	}

	dev.SetTextureStage(1, gfx.DisabledStage())
	o.setBlend(false, o.Params.SrcBlend, o.Params.DstBlend)
	return err
}

// terminateStages unbinds and disables the stages a pass left unused: every
// remaining one of the two units, or the stage after them when both are used.
func (o *Object) terminateStages(used int) {
	dev := o.ctx.Device
	for s := used; s < 2; s++ {
		dev.SetTexture(s, nil)
		dev.SetTextureStage(s, gfx.DisabledStage())
	}
	if used >= 2 && used < gfx.MaxTextureStages {
		dev.SetTexture(used, nil)
		dev.SetTextureStage(used, gfx.DisabledStage())
	}
}

func (o *Object) setBlend(on bool, src, dst gfx.BlendFactor) {
	gfx.Update(o.ctx.Device, func(s *gfx.RenderState) {
		s.AlphaBlend = on
		s.SrcBlend = src
		s.DstBlend = dst
	})
}

func (o *Object) draw() error {
	vb, err := o.mesh.VertexBuffer(o.level())
	if err != nil {
		return err
	}
	ib, err := o.mesh.IndexBuffer(o.level())
	if err != nil {
		return err
	}
	if vb == nil || ib == nil {
		return nil
	}
	o.ctx.Device.DrawIndexed(vb, ib)
	return nil
}
