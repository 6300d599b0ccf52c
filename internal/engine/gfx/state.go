package gfx

import "github.com/Faultbox/nucleus3d/pkg/math"

// StencilState configures the stencil test.
type StencilState struct {
	Enabled bool
	Func    CmpFunc
	Ref     uint8
	Fail    StencilOp
	ZFail   StencilOp
	Pass    StencilOp
}

// FogState configures linear fog by distance from the eye. The fog factor
// is 1 at Start and 0 at End; colours blend toward Color as it falls.
type FogState struct {
	Enabled    bool
	Color      math.Color
	Start, End float32
}

// Factor returns the share of the surface colour kept at distance dist.
func (f FogState) Factor(dist float32) float32 {
	if !f.Enabled {
		return 1
	}
	if f.End <= f.Start {
		if dist < f.Start {
			return 1
		}
		return 0
	}
	v := (f.End - dist) / (f.End - f.Start)
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// RenderState is a snapshot of every fixed-function state the core touches.
// Devices apply it as a whole, so callers modify a copy and hand it back.
type RenderState struct {
	AlphaBlend bool
	SrcBlend   BlendFactor
	DstBlend   BlendFactor

	ZTest  bool
	ZWrite bool

	// ColorWrite masks the R, G, B and A channels.
	ColorWrite [4]bool

	Stencil   StencilState
	FrontFace FaceOrder

	Lighting    bool
	Specular    bool
	Shading     ShadeMode
	ColorVertex bool
	Billboard   bool

	// TextureFactor is the constant read by TexArgFactor.
	TextureFactor math.Color

	Fog FogState

	VertexProgram uint32
	PixelProgram  uint32
}

// DefaultRenderState is the state a device starts in.
func DefaultRenderState() RenderState {
	return RenderState{
		SrcBlend:   BlendSrcAlpha,
		DstBlend:   BlendInvSrcAlpha,
		ZTest:      true,
		ZWrite:     true,
		ColorWrite: [4]bool{true, true, true, true},
		Stencil: StencilState{
			Func:  CmpAlways,
			Fail:  StencilKeep,
			ZFail: StencilKeep,
			Pass:  StencilKeep,
		},
		FrontFace:     Clockwise,
		Lighting:      true,
		Shading:       ShadeGouraud,
		TextureFactor: math.Color{R: 1, G: 1, B: 1, A: 1},
	}
}

// ColorWriteEnabled reports whether any colour channel is writable.
func (s RenderState) ColorWriteEnabled() bool {
	return s.ColorWrite[0] || s.ColorWrite[1] || s.ColorWrite[2] || s.ColorWrite[3]
}

// StageState configures one texture stage.
type StageState struct {
	ColorOp   TexOp
	ColorArg1 TexArg
	ColorArg2 TexArg
	AlphaOp   TexOp
	AlphaArg1 TexArg
	AlphaArg2 TexArg

	TexCoordIndex int
	TexGen        TexGen
}

// DisabledStage is a stage that terminates the stage cascade.
func DisabledStage() StageState {
	return StageState{
		ColorOp:   TexOpDisable,
		ColorArg1: TexArgTexture,
		ColorArg2: TexArgCurrent,
		AlphaOp:   TexOpDisable,
		AlphaArg1: TexArgTexture,
		AlphaArg2: TexArgCurrent,
	}
}

// Enabled reports whether the stage takes part in blending.
func (s StageState) Enabled() bool {
	return s.ColorOp != TexOpDisable
}

// Guard captures the device render state and puts it back on Restore.
//
//	g := gfx.Save(dev)
//	defer g.Restore()
type Guard struct {
	dev   Device
	state RenderState
}

// Save snapshots the current render state of dev.
func Save(dev Device) Guard {
	return Guard{dev: dev, state: dev.RenderState()}
}

// Restore reapplies the snapshot.
func (g Guard) Restore() {
	g.dev.SetRenderState(g.state)
}

// Saved returns the captured state.
func (g Guard) Saved() RenderState {
	return g.state
}

// Update applies fn to a copy of the current render state and pushes the result.
func Update(dev Device, fn func(*RenderState)) {
	s := dev.RenderState()
	fn(&s)
	dev.SetRenderState(s)
}
