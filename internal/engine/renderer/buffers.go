package renderer

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/nucleus3d/internal/engine/gfx"
)

var (
	vertexSize   = int32(unsafe.Sizeof(gfx.Vertex{}))
	offsetNormal = unsafe.Offsetof(gfx.Vertex{}.Normal)
	offsetColor  = unsafe.Offsetof(gfx.Vertex{}.Color)
	offsetTex    = unsafe.Offsetof(gfx.Vertex{}.Tex)
)

// vertexBuffer owns a VBO and the VAO describing the gfx.Vertex layout.
type vertexBuffer struct {
	vao, vbo uint32
	n        int
	dynamic  bool
}

func newVertexBuffer(verts []gfx.Vertex, dynamic bool) *vertexBuffer {
	vb := &vertexBuffer{dynamic: dynamic}
	gl.GenVertexArrays(1, &vb.vao)
	gl.BindVertexArray(vb.vao)
	gl.GenBuffers(1, &vb.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vb.vbo)

	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, vertexSize, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, vertexSize, offsetNormal)
	gl.EnableVertexAttribArray(1)
	// 0xAARRGGBB is stored little endian as B, G, R, A
	gl.VertexAttribPointerWithOffset(2, gl.BGRA, gl.UNSIGNED_BYTE, true, vertexSize, offsetColor)
	gl.EnableVertexAttribArray(2)
	for i := 0; i < gfx.MaxTexCoords; i++ {
		loc := uint32(3 + i)
		gl.VertexAttribPointerWithOffset(loc, 2, gl.FLOAT, false, vertexSize, offsetTex+uintptr(i*8))
		gl.EnableVertexAttribArray(loc)
	}

	gl.BindVertexArray(0)
	vb.upload(verts)
	return vb
}

func (vb *vertexBuffer) upload(verts []gfx.Vertex) {
	usage := uint32(gl.STATIC_DRAW)
	if vb.dynamic {
		usage = gl.DYNAMIC_DRAW
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, vb.vbo)
	if len(verts) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, usage)
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, len(verts)*int(vertexSize), gl.Ptr(verts), usage)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	vb.n = len(verts)
}

func (vb *vertexBuffer) Len() int      { return vb.n }
func (vb *vertexBuffer) Dynamic() bool { return vb.dynamic }

func (vb *vertexBuffer) Release() {
	if vb.vbo != 0 {
		gl.DeleteBuffers(1, &vb.vbo)
		vb.vbo = 0
	}
	if vb.vao != 0 {
		gl.DeleteVertexArrays(1, &vb.vao)
		vb.vao = 0
	}
	vb.n = 0
}

type indexBuffer struct {
	id      uint32
	n       int
	dynamic bool
}

func newIndexBuffer(indices []uint16, dynamic bool) *indexBuffer {
	ib := &indexBuffer{dynamic: dynamic}
	gl.GenBuffers(1, &ib.id)
	ib.upload(indices)
	return ib
}

func (ib *indexBuffer) upload(indices []uint16) {
	usage := uint32(gl.STATIC_DRAW)
	if ib.dynamic {
		usage = gl.DYNAMIC_DRAW
	}
	// binding ELEMENT_ARRAY_BUFFER would modify the bound VAO
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ib.id)
	if len(indices) == 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, 0, nil, usage)
	} else {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*2, gl.Ptr(indices), usage)
	}
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)
	ib.n = len(indices)
}

func (ib *indexBuffer) Len() int { return ib.n }

func (ib *indexBuffer) Release() {
	if ib.id != 0 {
		gl.DeleteBuffers(1, &ib.id)
		ib.id = 0
	}
	ib.n = 0
}

func (d *Device) NewVertexBuffer(verts []gfx.Vertex, dynamic bool) (gfx.VertexBuffer, error) {
	return newVertexBuffer(verts, dynamic), nil
}

func (d *Device) UpdateVertexBuffer(vb gfx.VertexBuffer, verts []gfx.Vertex) error {
	v, ok := vb.(*vertexBuffer)
	if !ok {
		return ErrForeignResource
	}
	v.upload(verts)
	return nil
}

func (d *Device) NewIndexBuffer(indices []uint16, dynamic bool) (gfx.IndexBuffer, error) {
	return newIndexBuffer(indices, dynamic), nil
}

func (d *Device) UpdateIndexBuffer(ib gfx.IndexBuffer, indices []uint16) error {
	i, ok := ib.(*indexBuffer)
	if !ok {
		return ErrForeignResource
	}
	i.upload(indices)
	return nil
}

// texture is a mipmapped RGBA8 GL texture.
type texture struct {
	id     uint32
	w, h   int
	alpha  bool
	device *Device
}

func (t *texture) Width() int     { return t.w }
func (t *texture) Height() int    { return t.h }
func (t *texture) HasAlpha() bool { return t.alpha }

func (t *texture) Release() {
	if t.id == 0 {
		return
	}
	for i, bound := range t.device.textures {
		if bound == t {
			t.device.SetTexture(i, nil)
		}
	}
	gl.DeleteTextures(1, &t.id)
	t.id = 0
}

// NewTexture uploads img with row 0 at texture coordinate v = 0.
func (d *Device) NewTexture(img *image.RGBA) (gfx.Texture, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("empty texture %dx%d", w, h)
	}

	// tightly packed copy when img is a sub-image
	pix := img.Pix
	if img.Stride != w*4 || len(pix) != w*h*4 {
		pix = make([]byte, 0, w*h*4)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			off := img.PixOffset(b.Min.X, y)
			pix = append(pix, img.Pix[off:off+w*4]...)
		}
	}

	t := &texture{w: w, h: h, device: d, alpha: hasAlpha(pix)}
	gl.GenTextures(1, &t.id)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)

	// put back whatever stage 0 had bound
	d.SetTexture(0, d.textureOrNil(0))
	return t, nil
}

func (d *Device) textureOrNil(stage int) gfx.Texture {
	if d.textures[stage] == nil {
		return nil
	}
	return d.textures[stage]
}

func hasAlpha(pix []byte) bool {
	for i := 3; i < len(pix); i += 4 {
		if pix[i] != 0xff {
			return true
		}
	}
	return false
}
