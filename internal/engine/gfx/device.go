package gfx

import (
	"image"

	"github.com/Faultbox/nucleus3d/pkg/math"
)

// Texture is a device-resident image.
type Texture interface {
	Width() int
	Height() int
	// HasAlpha reports whether any texel is not fully opaque.
	HasAlpha() bool
	Release()
}

// VertexBuffer is a device-resident vertex array.
type VertexBuffer interface {
	Len() int
	Dynamic() bool
	Release()
}

// IndexBuffer is a device-resident array of 16-bit triangle list indices.
type IndexBuffer interface {
	Len() int
	Release()
}

// Device is the immediate-mode graphics context. Every call is synchronous
// and all state persists until changed; nothing is reset between frames.
type Device interface {
	Clear(flags ClearFlags, color math.Color)

	NewVertexBuffer(verts []Vertex, dynamic bool) (VertexBuffer, error)
	UpdateVertexBuffer(vb VertexBuffer, verts []Vertex) error
	NewIndexBuffer(indices []uint16, dynamic bool) (IndexBuffer, error)
	UpdateIndexBuffer(ib IndexBuffer, indices []uint16) error
	NewTexture(img *image.RGBA) (Texture, error)

	SetTransform(kind TransformKind, m math.Mat4)
	Transform(kind TransformKind) math.Mat4
	SetTextureMatrix(stage int, m math.Mat4)

	SetMaterial(m MaterialParams)
	SetAmbient(c math.Color)
	SetLight(slot int, p LightParams)
	EnableLight(slot int, enable bool)

	SetTexture(stage int, tex Texture)
	SetTextureStage(stage int, s StageState)

	RenderState() RenderState
	SetRenderState(s RenderState)

	// DrawIndexed draws an indexed triangle list.
	DrawIndexed(vb VertexBuffer, ib IndexBuffer)
	// Draw draws count vertices of vb as a non-indexed triangle list.
	Draw(vb VertexBuffer, count int)
	// DrawUser draws client memory geometry without creating buffers.
	DrawUser(verts []Vertex, indices []uint16)
}

// TextureLoader resolves texture names, including stock names, to textures.
// A nil result means the texture is unavailable and should be treated as unbound.
type TextureLoader interface {
	Load(name string) Texture
}

// Context bundles the device with the texture loader shared by the scene.
type Context struct {
	Device
	Textures TextureLoader
}

// NewContext returns a context for dev. textures may be nil.
func NewContext(dev Device, textures TextureLoader) *Context {
	return &Context{Device: dev, Textures: textures}
}

// LoadTexture resolves name through the loader, returning nil when there is none.
func (c *Context) LoadTexture(name string) Texture {
	if c.Textures == nil {
		return nil
	}
	return c.Textures.Load(name)
}
