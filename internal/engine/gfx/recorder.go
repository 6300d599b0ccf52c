package gfx

import (
	"fmt"
	"image"

	"github.com/Faultbox/nucleus3d/pkg/math"
)

// DrawKind tells how a recorded draw was issued.
type DrawKind int

const (
	DrawIndexedKind DrawKind = iota
	DrawArraysKind
	DrawUserKind
)

// DrawCall is the device state captured at one draw.
type DrawCall struct {
	Kind      DrawKind
	Vertices  int
	Indices   int
	State     RenderState
	Stages    [MaxTextureStages]StageState
	Textures  [MaxTextureStages]Texture
	TexMatrix [MaxTextureStages]math.Mat4
	Material  MaterialParams
	World     math.Mat4
	Lights    [MaxLights]bool
}

// ActiveStages returns the stages up to the first disabled one.
func (d DrawCall) ActiveStages() []StageState {
	var out []StageState
	for _, s := range d.Stages {
		if !s.Enabled() {
			break
		}
		out = append(out, s)
	}
	return out
}

// Recorder is a headless Device. It keeps the full state machine in memory and
// records every draw, which makes it the test double for render paths and the
// backend for -headless runs.
type Recorder struct {
	state     RenderState
	stages    [MaxTextureStages]StageState
	textures  [MaxTextureStages]Texture
	texMatrix [MaxTextureStages]math.Mat4
	transform [transformCount]math.Mat4
	lights    [MaxLights]LightParams
	enabled   [MaxLights]bool
	ambient   math.Color
	material  MaterialParams

	// Draws holds every draw since the last Reset.
	Draws []DrawCall
	// VertexUploads counts vertex buffer creations and updates.
	VertexUploads int
	// IndexUploads counts index buffer creations and updates.
	IndexUploads int
	// Clears counts Clear calls.
	Clears int
	// Log holds a line per state-changing call when Trace is set.
	Log   []string
	Trace bool
}

// NewRecorder returns a recorder in the default device state.
func NewRecorder() *Recorder {
	r := &Recorder{state: DefaultRenderState()}
	for i := range r.stages {
		r.stages[i] = DisabledStage()
		r.texMatrix[i] = math.Identity()
	}
	r.stages[0] = StageState{
		ColorOp:   TexOpModulate,
		ColorArg1: TexArgTexture,
		ColorArg2: TexArgCurrent,
		AlphaOp:   TexOpSelectArg1,
		AlphaArg1: TexArgTexture,
		AlphaArg2: TexArgCurrent,
	}
	for i := range r.transform {
		r.transform[i] = math.Identity()
	}
	return r
}

// Reset forgets recorded draws and counters but keeps device state.
func (r *Recorder) Reset() {
	r.Draws = r.Draws[:0]
	r.VertexUploads = 0
	r.IndexUploads = 0
	r.Clears = 0
	r.Log = r.Log[:0]
}

func (r *Recorder) trace(format string, args ...any) {
	if r.Trace {
		r.Log = append(r.Log, fmt.Sprintf(format, args...))
	}
}

// Stage returns the current configuration of a texture stage.
func (r *Recorder) Stage(stage int) StageState { return r.stages[stage] }

// BoundTexture returns the texture bound to stage.
func (r *Recorder) BoundTexture(stage int) Texture { return r.textures[stage] }

// TextureMatrix returns the texture matrix of stage.
func (r *Recorder) TextureMatrix(stage int) math.Mat4 { return r.texMatrix[stage] }

// Light returns the parameters of a light slot and whether it is enabled.
func (r *Recorder) Light(slot int) (LightParams, bool) { return r.lights[slot], r.enabled[slot] }

// Ambient returns the ambient colour.
func (r *Recorder) Ambient() math.Color { return r.ambient }

// Material returns the current material.
func (r *Recorder) Material() MaterialParams { return r.material }

// Clear implements Device.
func (r *Recorder) Clear(flags ClearFlags, color math.Color) {
	r.Clears++
	r.trace("clear %d", flags)
}

type recVertexBuffer struct {
	n       int
	dynamic bool
}

func (b *recVertexBuffer) Len() int      { return b.n }
func (b *recVertexBuffer) Dynamic() bool { return b.dynamic }
func (b *recVertexBuffer) Release()      {}

type recIndexBuffer struct{ n int }

func (b *recIndexBuffer) Len() int { return b.n }
func (b *recIndexBuffer) Release() {}

// NewVertexBuffer implements Device.
func (r *Recorder) NewVertexBuffer(verts []Vertex, dynamic bool) (VertexBuffer, error) {
	if len(verts) > 1<<16 {
		return nil, ErrBufferTooLarge
	}
	r.VertexUploads++
	return &recVertexBuffer{n: len(verts), dynamic: dynamic}, nil
}

// UpdateVertexBuffer implements Device.
func (r *Recorder) UpdateVertexBuffer(vb VertexBuffer, verts []Vertex) error {
	b, ok := vb.(*recVertexBuffer)
	if !ok {
		return fmt.Errorf("foreign vertex buffer %T", vb)
	}
	r.VertexUploads++
	b.n = len(verts)
	return nil
}

// NewIndexBuffer implements Device.
func (r *Recorder) NewIndexBuffer(indices []uint16, dynamic bool) (IndexBuffer, error) {
	r.IndexUploads++
	return &recIndexBuffer{n: len(indices)}, nil
}

// UpdateIndexBuffer implements Device.
func (r *Recorder) UpdateIndexBuffer(ib IndexBuffer, indices []uint16) error {
	b, ok := ib.(*recIndexBuffer)
	if !ok {
		return fmt.Errorf("foreign index buffer %T", ib)
	}
	r.IndexUploads++
	b.n = len(indices)
	return nil
}

// RecTexture is the texture type created by a Recorder.
type RecTexture struct {
	W, H  int
	Alpha bool
	Name  string
}

func (t *RecTexture) Width() int     { return t.W }
func (t *RecTexture) Height() int    { return t.H }
func (t *RecTexture) HasAlpha() bool { return t.Alpha }
func (t *RecTexture) Release()       {}

// NewTexture implements Device.
func (r *Recorder) NewTexture(img *image.RGBA) (Texture, error) {
	b := img.Bounds()
	return &RecTexture{W: b.Dx(), H: b.Dy(), Alpha: !img.Opaque()}, nil
}

// SetTransform implements Device.
func (r *Recorder) SetTransform(kind TransformKind, m math.Mat4) {
	r.transform[kind] = m
}

// Transform implements Device.
func (r *Recorder) Transform(kind TransformKind) math.Mat4 {
	return r.transform[kind]
}

// SetTextureMatrix implements Device.
func (r *Recorder) SetTextureMatrix(stage int, m math.Mat4) {
	r.texMatrix[stage] = m
}

// SetMaterial implements Device.
func (r *Recorder) SetMaterial(m MaterialParams) {
	r.material = m
}

// SetAmbient implements Device.
func (r *Recorder) SetAmbient(c math.Color) {
	r.ambient = c
}

// SetLight implements Device.
func (r *Recorder) SetLight(slot int, p LightParams) {
	if slot < 0 || slot >= MaxLights {
		return
	}
	r.lights[slot] = p
	r.trace("light %d kind=%d", slot, p.Kind)
}

// EnableLight implements Device.
func (r *Recorder) EnableLight(slot int, enable bool) {
	if slot < 0 || slot >= MaxLights {
		return
	}
	r.enabled[slot] = enable
	r.trace("light %d enable=%t", slot, enable)
}

// SetTexture implements Device.
func (r *Recorder) SetTexture(stage int, tex Texture) {
	if stage >= MaxTextureStages {
		return
	}
	r.textures[stage] = tex
}

// SetTextureStage implements Device.
func (r *Recorder) SetTextureStage(stage int, s StageState) {
	if stage >= MaxTextureStages {
		return
	}
	r.stages[stage] = s
	r.trace("stage %d color=%s alpha=%s", stage, s.ColorOp, s.AlphaOp)
}

// RenderState implements Device.
func (r *Recorder) RenderState() RenderState {
	return r.state
}

// SetRenderState implements Device.
func (r *Recorder) SetRenderState(s RenderState) {
	r.state = s
}

func (r *Recorder) record(kind DrawKind, vertices, indices int) {
	r.Draws = append(r.Draws, DrawCall{
		Kind:      kind,
		Vertices:  vertices,
		Indices:   indices,
		State:     r.state,
		Stages:    r.stages,
		Textures:  r.textures,
		TexMatrix: r.texMatrix,
		Material:  r.material,
		World:     r.transform[TransformWorld],
		Lights:    r.enabled,
	})
	r.trace("draw kind=%d v=%d i=%d", kind, vertices, indices)
}

// DrawIndexed implements Device.
func (r *Recorder) DrawIndexed(vb VertexBuffer, ib IndexBuffer) {
	if vb == nil || ib == nil {
		return
	}
	r.record(DrawIndexedKind, vb.Len(), ib.Len())
}

// Draw implements Device.
func (r *Recorder) Draw(vb VertexBuffer, count int) {
	if vb == nil || count == 0 {
		return
	}
	r.record(DrawArraysKind, count, 0)
}

// DrawUser implements Device.
func (r *Recorder) DrawUser(verts []Vertex, indices []uint16) {
	r.record(DrawUserKind, len(verts), len(indices))
}
