package object

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/nucleus3d/internal/engine/gfx"
	"github.com/Faultbox/nucleus3d/internal/engine/material"
	"github.com/Faultbox/nucleus3d/pkg/formats"
	"github.com/Faultbox/nucleus3d/pkg/math"
)

type mapLoader map[string]gfx.Texture

func (m mapLoader) Load(name string) gfx.Texture { return m[name] }

func triangleN3M() *formats.N3M {
	return &formats.N3M{
		Material: formats.N3MMaterial{
			Ambient:    [3]float32{0.1, 0.1, 0.1},
			Diffuse:    [3]float32{0.8, 0.6, 0.4},
			Specular:   [3]float32{1, 1, 1},
			Emissive:   0.2,
			Alpha:      1,
			Power:      12,
			DiffuseMap: "wood.tga",
			ReflectMap: "missing.png",
			EnvBlend:   0.4,
		},
		Vertices: []formats.N3MVertex{
			{Position: [3]float32{0, 0, 0}, Normal: [3]float32{0, 0, -1}},
			{Position: [3]float32{1, 0, 0}, Normal: [3]float32{0, 0, -1}, UV: [2]float32{1, 0}},
			{Position: [3]float32{0, 1, 0}, Normal: [3]float32{0, 0, -1}, UV: [2]float32{0, 1}},
		},
		Triangles: []formats.N3MTriangle{
			{Vertices: [3]uint32{0, 2, 1}, Normal: [3]float32{0, 0, -1}},
		},
	}
}

func TestFromN3M(t *testing.T) {
	rec := gfx.NewRecorder()
	wood := &gfx.RecTexture{W: 32, H: 32, Alpha: true, Name: "wood.tga"}
	ctx := gfx.NewContext(rec, mapLoader{"wood.tga": wood})

	o, err := FromN3M(ctx, "tri", triangleN3M(), 2)
	require.NoError(t, err)

	mesh := o.Mesh()
	assert.Equal(t, 2, mesh.Levels())
	require.Equal(t, 3, mesh.VertexCount())
	require.Equal(t, 1, mesh.TriangleCount())
	assert.Equal(t, [3]uint16{0, 2, 1}, mesh.Triangles()[0].V)
	assert.Equal(t, math.Vec3{X: 1}, mesh.Vertices()[1].Pos)
	assert.Equal(t, math.Vec2{Y: 1}, mesh.Vertices()[2].Tex[0])
	assert.Equal(t, math.Vec2{Y: 1}, mesh.Vertices()[2].Tex[1], "uv duplicated into the light map set")

	mat := o.Material
	assert.Equal(t, math.Color{R: 0.8, G: 0.6, B: 0.4, A: 1}, mat.Diffuse)
	assert.Equal(t, math.Color{R: 0.2, G: 0.2, B: 0.2, A: 1}, mat.Emissive)
	assert.True(t, mat.SpecularEnable)
	assert.Equal(t, float32(0.4), mat.EnvBlend)
	assert.Equal(t, wood, mat.Texture(material.DiffuseMap))
	assert.Nil(t, mat.Texture(material.EnvironmentMap), "missing textures stay unbound")
	assert.True(t, mat.HasTransparentTex)
	assert.False(t, mat.Opaque())
}

func TestFromN3MRejectsBadIndices(t *testing.T) {
	_, ctx := newTestContext()
	n3m := triangleN3M()
	n3m.Triangles[0].Vertices[2] = 3

	_, err := FromN3M(ctx, "bad", n3m, 1)
	assert.ErrorIs(t, err, formats.ErrN3MIndexRange)
}

func TestFromN3MRejectsLargeMeshes(t *testing.T) {
	_, ctx := newTestContext()
	n3m := &formats.N3M{Material: formats.N3MMaterial{Alpha: 1}}
	n3m.Vertices = make([]formats.N3MVertex, maxIndexedVertices+1)

	_, err := FromN3M(ctx, "huge", n3m, 1)
	assert.ErrorIs(t, err, gfx.ErrBufferTooLarge)
}

func TestLoadModel(t *testing.T) {
	_, ctx := newTestContext()
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.n3m")
	require.NoError(t, os.WriteFile(bad, []byte("NOPE\x00\x00\x00\x00"), 0o644))
	_, err := LoadModel(ctx, bad, 1)
	assert.ErrorIs(t, err, formats.ErrInvalidN3MMagic)

	_, err = LoadModel(ctx, filepath.Join(dir, "missing.n3m"), 1)
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.n3m")
	require.NoError(t, os.WriteFile(empty, []byte("N3DM\x08\x00\x00\x00"), 0o644))
	o, err := LoadModel(ctx, empty, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, o.Mesh().VertexCount())
	assert.Equal(t, empty, o.Name)
}
