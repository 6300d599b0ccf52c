package renderer

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/nucleus3d/internal/engine/gfx"
	"github.com/Faultbox/nucleus3d/internal/engine/shader"
	"github.com/Faultbox/nucleus3d/pkg/math"
)

// program caches the uniform locations of a linked program. Locations the
// program does not declare are -1 and GL ignores writes to them.
type program struct {
	id uint32

	world, view, proj int32
	eyePos, ambient   int32
	lighting          int32
	colorVertex       int32
	specular          int32
	billboard         int32
	flat              int32
	textureFactor     int32
	fog, fogColor     int32
	fogRange          int32

	matAmbient, matDiffuse, matSpecular, matEmissive, matPower int32

	lightEnabled, lightKind, lightPos, lightDir []int32
	lightAmbient, lightDiffuse, lightSpecular   []int32
	lightRange, lightAtten, lightCone           []int32
	texMatrix, texCoordIndex, texGen            []int32
	sampler, hasTex                             []int32
	colorOp, colorArg1, colorArg2               []int32
	alphaOp, alphaArg1, alphaArg2               []int32
}

func newProgram(id uint32) *program {
	u := func(name string) int32 { return shader.GetUniform(id, name) }
	lights := func(name string) []int32 { return shader.GetUniformArray(id, name, gfx.MaxLights) }
	stages := func(name string) []int32 { return shader.GetUniformArray(id, name, gfx.MaxTextureStages) }

	p := &program{
		id:            id,
		world:         u("uWorld"),
		view:          u("uView"),
		proj:          u("uProj"),
		eyePos:        u("uEyePos"),
		ambient:       u("uAmbient"),
		lighting:      u("uLighting"),
		colorVertex:   u("uColorVertex"),
		specular:      u("uSpecular"),
		billboard:     u("uBillboard"),
		flat:          u("uFlat"),
		textureFactor: u("uTextureFactor"),
		fog:           u("uFog"),
		fogColor:      u("uFogColor"),
		fogRange:      u("uFogRange"),

		matAmbient:  u("uMatAmbient"),
		matDiffuse:  u("uMatDiffuse"),
		matSpecular: u("uMatSpecular"),
		matEmissive: u("uMatEmissive"),
		matPower:    u("uMatPower"),

		lightEnabled:  lights("uLightEnabled"),
		lightKind:     lights("uLightKind"),
		lightPos:      lights("uLightPos"),
		lightDir:      lights("uLightDir"),
		lightAmbient:  lights("uLightAmbient"),
		lightDiffuse:  lights("uLightDiffuse"),
		lightSpecular: lights("uLightSpecular"),
		lightRange:    lights("uLightRange"),
		lightAtten:    lights("uLightAtten"),
		lightCone:     lights("uLightCone"),

		texMatrix:     stages("uTexMatrix"),
		texCoordIndex: stages("uTexCoordIndex"),
		texGen:        stages("uTexGen"),
		sampler:       stages("uTex"),
		hasTex:        stages("uHasTex"),
		colorOp:       stages("uColorOp"),
		colorArg1:     stages("uColorArg1"),
		colorArg2:     stages("uColorArg2"),
		alphaOp:       stages("uAlphaOp"),
		alphaArg1:     stages("uAlphaArg1"),
		alphaArg2:     stages("uAlphaArg2"),
	}

	gl.UseProgram(id)
	for i, loc := range p.sampler {
		gl.Uniform1i(loc, int32(i))
	}
	return p
}

// upload pushes the device state into the program's uniforms.
func (p *program) upload(d *Device) {
	world := d.transform[gfx.TransformWorld]
	view := d.transform[gfx.TransformView]
	proj := d.transform[gfx.TransformProjection]
	gl.UniformMatrix4fv(p.world, 1, false, world.Ptr())
	gl.UniformMatrix4fv(p.view, 1, false, view.Ptr())
	gl.UniformMatrix4fv(p.proj, 1, false, proj.Ptr())

	eye := view.Inverse().Translation()
	gl.Uniform3f(p.eyePos, eye.X, eye.Y, eye.Z)
	color4(p.ambient, d.ambient)

	s := d.state
	gl.Uniform1i(p.lighting, boolInt(s.Lighting))
	gl.Uniform1i(p.colorVertex, boolInt(s.ColorVertex))
	gl.Uniform1i(p.specular, boolInt(s.Specular))
	gl.Uniform1i(p.billboard, boolInt(s.Billboard))
	gl.Uniform1i(p.flat, boolInt(s.Shading == gfx.ShadeFlat))
	color4(p.textureFactor, s.TextureFactor)
	gl.Uniform1i(p.fog, boolInt(s.Fog.Enabled))
	color4(p.fogColor, s.Fog.Color)
	gl.Uniform2f(p.fogRange, s.Fog.Start, s.Fog.End)

	m := d.material
	color4(p.matAmbient, m.Ambient)
	color4(p.matDiffuse, m.Diffuse)
	color4(p.matSpecular, m.Specular)
	color4(p.matEmissive, m.Emissive)
	gl.Uniform1f(p.matPower, m.Power)

	for i := range d.lights {
		gl.Uniform1i(p.lightEnabled[i], boolInt(d.lightOn[i]))
		if !d.lightOn[i] {
			continue
		}
		l := d.lights[i]
		gl.Uniform1i(p.lightKind[i], int32(l.Kind))
		gl.Uniform3f(p.lightPos[i], l.Position.X, l.Position.Y, l.Position.Z)
		gl.Uniform3f(p.lightDir[i], l.Direction.X, l.Direction.Y, l.Direction.Z)
		color4(p.lightAmbient[i], l.Ambient)
		color4(p.lightDiffuse[i], l.Diffuse)
		color4(p.lightSpecular[i], l.Specular)
		rng := l.Range
		if rng <= 0 {
			rng = math32.MaxFloat32
		}
		gl.Uniform1f(p.lightRange[i], rng)
		gl.Uniform3f(p.lightAtten[i], l.Attenuation[0], l.Attenuation[1], l.Attenuation[2])
		gl.Uniform3f(p.lightCone[i],
			math32.Cos(l.Theta/2),
			math32.Cos(l.Phi/2),
			l.Falloff)
	}

	for i, st := range d.stages {
		tm := d.texMatrix[i]
		gl.UniformMatrix4fv(p.texMatrix[i], 1, false, tm.Ptr())
		gl.Uniform1i(p.texCoordIndex[i], int32(st.TexCoordIndex))
		gl.Uniform1i(p.texGen[i], int32(st.TexGen))
		gl.Uniform1i(p.hasTex[i], boolInt(d.textures[i] != nil))
		gl.Uniform1i(p.colorOp[i], int32(st.ColorOp))
		gl.Uniform1i(p.colorArg1[i], int32(st.ColorArg1))
		gl.Uniform1i(p.colorArg2[i], int32(st.ColorArg2))
		gl.Uniform1i(p.alphaOp[i], int32(st.AlphaOp))
		gl.Uniform1i(p.alphaArg1[i], int32(st.AlphaArg1))
		gl.Uniform1i(p.alphaArg2[i], int32(st.AlphaArg2))
	}
}

func color4(loc int32, c math.Color) {
	gl.Uniform4f(loc, c.R, c.G, c.B, c.A)
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
