package gfx

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardRestoresOnEveryPath(t *testing.T) {
	dev := NewRecorder()
	before := dev.RenderState()

	mutate := func(early bool) {
		g := Save(dev)
		defer g.Restore()

		Update(dev, func(s *RenderState) {
			s.ZWrite = false
			s.Stencil.Enabled = true
		})
		if early {
			return
		}
		Update(dev, func(s *RenderState) { s.FrontFace = CounterClockwise })
	}

	mutate(true)
	assert.Equal(t, before, dev.RenderState())
	mutate(false)
	assert.Equal(t, before, dev.RenderState())
}

func TestFogFactor(t *testing.T) {
	f := FogState{Start: 10, End: 110}
	assert.Equal(t, float32(1), f.Factor(500), "disabled fog keeps everything")

	f.Enabled = true
	assert.Equal(t, float32(1), f.Factor(0))
	assert.Equal(t, float32(1), f.Factor(10))
	assert.InDelta(t, 0.5, f.Factor(60), 1e-6)
	assert.Equal(t, float32(0), f.Factor(110))
	assert.Equal(t, float32(0), f.Factor(1e6))

	f.End = f.Start
	assert.Equal(t, float32(1), f.Factor(5))
	assert.Equal(t, float32(0), f.Factor(10))
}

func TestDefaultRenderState(t *testing.T) {
	s := DefaultRenderState()
	assert.True(t, s.ZWrite)
	assert.True(t, s.ColorWriteEnabled())
	assert.Equal(t, Clockwise, s.FrontFace)
	assert.Equal(t, CmpAlways, s.Stencil.Func)
	assert.False(t, s.Stencil.Enabled)
}

func TestRecorderCountsUploadsAndDraws(t *testing.T) {
	dev := NewRecorder()

	vb, err := dev.NewVertexBuffer(make([]Vertex, 3), false)
	require.NoError(t, err)
	ib, err := dev.NewIndexBuffer([]uint16{0, 1, 2}, false)
	require.NoError(t, err)
	require.NoError(t, dev.UpdateVertexBuffer(vb, make([]Vertex, 6)))

	assert.Equal(t, 2, dev.VertexUploads)
	assert.Equal(t, 1, dev.IndexUploads)

	dev.DrawIndexed(vb, ib)
	dev.Draw(vb, 0)
	dev.Draw(vb, 6)
	require.Len(t, dev.Draws, 2)
	assert.Equal(t, 6, dev.Draws[0].Vertices)
	assert.Equal(t, DrawArraysKind, dev.Draws[1].Kind)

	dev.Reset()
	assert.Empty(t, dev.Draws)
	assert.Zero(t, dev.VertexUploads)
}

func TestRecorderRejectsOversizedBuffers(t *testing.T) {
	_, err := NewRecorder().NewVertexBuffer(make([]Vertex, 1<<16+1), false)
	assert.ErrorIs(t, err, ErrBufferTooLarge)
}

func TestRecorderTextureAlpha(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	tex, err := NewRecorder().NewTexture(img)
	require.NoError(t, err)
	assert.True(t, tex.HasAlpha(), "zeroed RGBA image is transparent")
	assert.Equal(t, 2, tex.Width())
}

func TestActiveStagesStopsAtFirstDisabled(t *testing.T) {
	d := DrawCall{}
	for i := range d.Stages {
		d.Stages[i] = DisabledStage()
	}
	d.Stages[0].ColorOp = TexOpModulate
	d.Stages[2].ColorOp = TexOpAdd
	assert.Len(t, d.ActiveStages(), 1)
}

func TestContextWithoutLoader(t *testing.T) {
	ctx := NewContext(NewRecorder(), nil)
	assert.Nil(t, ctx.LoadTexture("STOCKTEX_BLOB"))
}
