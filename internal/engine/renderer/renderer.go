// Package renderer implements the graphics device on OpenGL 4.1 core.
//
// The fixed-function pipeline the core is written against (eight lights,
// chained texture stages, a texture factor) is emulated by one embedded
// shader program whose uniforms mirror the device state.
package renderer

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/nucleus3d/internal/engine/gfx"
	"github.com/Faultbox/nucleus3d/internal/engine/renderer/shaders"
	"github.com/Faultbox/nucleus3d/internal/engine/shader"
	"github.com/Faultbox/nucleus3d/internal/logger"
	"github.com/Faultbox/nucleus3d/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Device is the OpenGL gfx.Device.
// IMPORTANT: Must be created AFTER the OpenGL context is current!
type Device struct {
	config Config
	log    *zap.Logger

	fixed    *program
	programs map[uint32]*program
	active   *program

	state     gfx.RenderState
	transform [3]math.Mat4
	texMatrix [gfx.MaxTextureStages]math.Mat4
	stages    [gfx.MaxTextureStages]gfx.StageState
	textures  [gfx.MaxTextureStages]*texture
	material  gfx.MaterialParams
	ambient   math.Color
	lights    [gfx.MaxLights]gfx.LightParams
	lightOn   [gfx.MaxLights]bool

	// streaming buffers for DrawUser
	user    *vertexBuffer
	userIdx *indexBuffer
}

var _ gfx.Device = (*Device)(nil)

// New initialises OpenGL and builds the fixed-function program.
func New(cfg Config) (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	d := &Device{
		config:   cfg,
		log:      logger.Named("renderer"),
		programs: make(map[uint32]*program),
	}

	d.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	id, err := shader.CompileProgram(shaders.FixedVertexShader, shaders.FixedFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create fixed-function program: %w", err)
	}
	d.fixed = newProgram(id)
	d.active = d.fixed
	gl.UseProgram(id)

	d.user = newVertexBuffer(nil, true)
	d.userIdx = newIndexBuffer(nil, true)

	for i := range d.transform {
		d.transform[i] = math.Identity()
	}
	for i := range d.stages {
		d.texMatrix[i] = math.Identity()
		d.stages[i] = gfx.DisabledStage()
	}
	d.stages[0].ColorOp = gfx.TexOpModulate
	d.stages[0].AlphaOp = gfx.TexOpSelectArg1

	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.DepthFunc(gl.LEQUAL)
	d.state = gfx.DefaultRenderState()
	d.applyState(d.state, true)

	d.Resize(cfg.Width, cfg.Height)
	return d, nil
}

// Close releases every GL object owned by the device.
func (d *Device) Close() {
	d.log.Info("closing renderer")
	d.user.Release()
	d.userIdx.Release()
	for id := range d.programs {
		gl.DeleteProgram(id)
	}
	if d.fixed != nil {
		gl.DeleteProgram(d.fixed.id)
	}
}

// Resize handles window resize.
func (d *Device) Resize(width, height int) {
	d.config.Width = width
	d.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	d.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the viewport size.
func (d *Device) Size() (int, int) {
	return d.config.Width, d.config.Height
}

// CompileProgram builds a replacement for the fixed-function program. The
// returned id is selected through RenderState.VertexProgram; the shaders must
// declare the same uniforms as the built-in program for the state they use.
// RenderState.PixelProgram is ignored since GL links both stages together.
func (d *Device) CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	id, err := shader.CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return 0, err
	}
	d.programs[id] = newProgram(id)
	return id, nil
}

// Clear clears the selected buffers. Write masks are opened for the clear and
// put back afterwards.
func (d *Device) Clear(flags gfx.ClearFlags, color math.Color) {
	var mask uint32
	if flags&gfx.ClearColor != 0 {
		gl.ClearColor(color.R, color.G, color.B, color.A)
		gl.ColorMask(true, true, true, true)
		mask |= gl.COLOR_BUFFER_BIT
	}
	if flags&gfx.ClearDepth != 0 {
		gl.DepthMask(true)
		gl.ClearDepth(1)
		mask |= gl.DEPTH_BUFFER_BIT
	}
	if flags&gfx.ClearStencil != 0 {
		gl.StencilMask(0xff)
		gl.ClearStencil(0)
		mask |= gl.STENCIL_BUFFER_BIT
	}
	if mask == 0 {
		return
	}
	gl.Clear(mask)
	d.applyState(d.state, true)
}

func (d *Device) SetTransform(kind gfx.TransformKind, m math.Mat4) {
	d.transform[kind] = m
}

func (d *Device) Transform(kind gfx.TransformKind) math.Mat4 {
	return d.transform[kind]
}

func (d *Device) SetTextureMatrix(stage int, m math.Mat4) {
	d.texMatrix[stage] = m
}

func (d *Device) SetMaterial(m gfx.MaterialParams) { d.material = m }

func (d *Device) SetAmbient(c math.Color) { d.ambient = c }

func (d *Device) SetLight(slot int, p gfx.LightParams) {
	d.lights[slot] = p
}

func (d *Device) EnableLight(slot int, enable bool) {
	d.lightOn[slot] = enable
}

// SetTexture binds tex to stage. Textures from another device are treated as unbound.
func (d *Device) SetTexture(stage int, tex gfx.Texture) {
	t, _ := tex.(*texture)
	d.textures[stage] = t
	gl.ActiveTexture(gl.TEXTURE0 + uint32(stage))
	if t == nil {
		gl.BindTexture(gl.TEXTURE_2D, 0)
		return
	}
	gl.BindTexture(gl.TEXTURE_2D, t.id)
}

func (d *Device) SetTextureStage(stage int, s gfx.StageState) {
	d.stages[stage] = s
}

func (d *Device) RenderState() gfx.RenderState { return d.state }

func (d *Device) SetRenderState(s gfx.RenderState) {
	d.applyState(s, false)
	d.state = s
}

// DrawIndexed draws an indexed triangle list.
func (d *Device) DrawIndexed(vb gfx.VertexBuffer, ib gfx.IndexBuffer) {
	v, ok := vb.(*vertexBuffer)
	i, iok := ib.(*indexBuffer)
	if !ok || !iok || v == nil || i == nil || i.n == 0 {
		return
	}
	d.flush()
	gl.BindVertexArray(v.vao)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, i.id)
	gl.DrawElements(gl.TRIANGLES, int32(i.n), gl.UNSIGNED_SHORT, nil)
	gl.BindVertexArray(0)
}

// Draw draws count vertices of vb as a non-indexed triangle list.
func (d *Device) Draw(vb gfx.VertexBuffer, count int) {
	v, ok := vb.(*vertexBuffer)
	if !ok || v == nil || count <= 0 {
		return
	}
	if count > v.n {
		count = v.n
	}
	d.flush()
	gl.BindVertexArray(v.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(count))
	gl.BindVertexArray(0)
}

// DrawUser streams client geometry through the device's dynamic buffers.
func (d *Device) DrawUser(verts []gfx.Vertex, indices []uint16) {
	if len(verts) == 0 {
		return
	}
	d.user.upload(verts)
	if len(indices) == 0 {
		d.Draw(d.user, len(verts))
		return
	}
	d.userIdx.upload(indices)
	d.DrawIndexed(d.user, d.userIdx)
}

// flush selects the program for the current state and pushes every uniform.
func (d *Device) flush() {
	p := d.fixed
	if custom, ok := d.programs[d.state.VertexProgram]; ok {
		p = custom
	}
	if p != d.active {
		gl.UseProgram(p.id)
		d.active = p
	}
	p.upload(d)
}

// ErrForeignResource is returned when a buffer created by another device is passed in.
var ErrForeignResource = errors.New("resource does not belong to this device")
