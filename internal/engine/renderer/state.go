package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/nucleus3d/internal/engine/gfx"
)

var blendFactors = map[gfx.BlendFactor]uint32{
	gfx.BlendZero:         gl.ZERO,
	gfx.BlendOne:          gl.ONE,
	gfx.BlendSrcColor:     gl.SRC_COLOR,
	gfx.BlendInvSrcColor:  gl.ONE_MINUS_SRC_COLOR,
	gfx.BlendSrcAlpha:     gl.SRC_ALPHA,
	gfx.BlendInvSrcAlpha:  gl.ONE_MINUS_SRC_ALPHA,
	gfx.BlendDestAlpha:    gl.DST_ALPHA,
	gfx.BlendInvDestAlpha: gl.ONE_MINUS_DST_ALPHA,
	gfx.BlendDestColor:    gl.DST_COLOR,
	gfx.BlendInvDestColor: gl.ONE_MINUS_DST_COLOR,
	gfx.BlendSrcAlphaSat:  gl.SRC_ALPHA_SATURATE,
}

var cmpFuncs = map[gfx.CmpFunc]uint32{
	gfx.CmpNever:        gl.NEVER,
	gfx.CmpLess:         gl.LESS,
	gfx.CmpEqual:        gl.EQUAL,
	gfx.CmpLessEqual:    gl.LEQUAL,
	gfx.CmpGreater:      gl.GREATER,
	gfx.CmpNotEqual:     gl.NOTEQUAL,
	gfx.CmpGreaterEqual: gl.GEQUAL,
	gfx.CmpAlways:       gl.ALWAYS,
}

var stencilOps = map[gfx.StencilOp]uint32{
	gfx.StencilKeep:    gl.KEEP,
	gfx.StencilZero:    gl.ZERO,
	gfx.StencilReplace: gl.REPLACE,
	gfx.StencilIncSat:  gl.INCR,
	gfx.StencilDecSat:  gl.DECR,
	gfx.StencilInvert:  gl.INVERT,
	gfx.StencilInc:     gl.INCR_WRAP,
	gfx.StencilDec:     gl.DECR_WRAP,
}

// frontFace maps the winding to GL. Windings are defined in a y-down screen
// space while GL window space is y-up, so the sense flips.
func frontFace(f gfx.FaceOrder) uint32 {
	if f == gfx.CounterClockwise {
		return gl.CW
	}
	return gl.CCW
}

func enable(capability uint32, on bool) {
	if on {
		gl.Enable(capability)
	} else {
		gl.Disable(capability)
	}
}

// applyState issues the GL calls for every field that differs from the
// current state, or for all of them when force is set. Shader-side fields
// (lighting, shading, texture factor) travel as uniforms on the next draw.
func (d *Device) applyState(s gfx.RenderState, force bool) {
	cur := d.state

	if force || s.AlphaBlend != cur.AlphaBlend {
		enable(gl.BLEND, s.AlphaBlend)
	}
	if force || s.SrcBlend != cur.SrcBlend || s.DstBlend != cur.DstBlend {
		gl.BlendFunc(blendFactors[s.SrcBlend], blendFactors[s.DstBlend])
	}

	if force || s.ZTest != cur.ZTest {
		enable(gl.DEPTH_TEST, s.ZTest)
	}
	if force || s.ZWrite != cur.ZWrite {
		gl.DepthMask(s.ZWrite)
	}
	if force || s.ColorWrite != cur.ColorWrite {
		gl.ColorMask(s.ColorWrite[0], s.ColorWrite[1], s.ColorWrite[2], s.ColorWrite[3])
	}

	st, cst := s.Stencil, cur.Stencil
	if force || st.Enabled != cst.Enabled {
		enable(gl.STENCIL_TEST, st.Enabled)
	}
	if force || st.Func != cst.Func || st.Ref != cst.Ref {
		gl.StencilFunc(cmpFuncs[st.Func], int32(st.Ref), 0xff)
	}
	if force || st.Fail != cst.Fail || st.ZFail != cst.ZFail || st.Pass != cst.Pass {
		gl.StencilOp(stencilOps[st.Fail], stencilOps[st.ZFail], stencilOps[st.Pass])
	}
	if force {
		gl.StencilMask(0xff)
	}

	if force || s.FrontFace != cur.FrontFace {
		gl.FrontFace(frontFace(s.FrontFace))
	}
}
