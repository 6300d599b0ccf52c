package object

import (
	"fmt"

	"github.com/Faultbox/nucleus3d/internal/engine/gfx"
	"github.com/Faultbox/nucleus3d/internal/engine/material"
	"github.com/Faultbox/nucleus3d/internal/engine/model"
	"github.com/Faultbox/nucleus3d/pkg/formats"
	"github.com/Faultbox/nucleus3d/pkg/math"
)

const maxIndexedVertices = 1 << 16

// LoadModel reads an N3M file into a new object. Texture maps named by the
// file are resolved through the context's texture loader; missing ones are
// left unbound.
func LoadModel(ctx *gfx.Context, path string, levels int) (*Object, error) {
	n3m, err := formats.ParseN3MFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading model %s: %w", path, err)
	}
	return FromN3M(ctx, path, n3m, levels)
}

// FromN3M builds an object from parsed model data.
func FromN3M(ctx *gfx.Context, name string, n3m *formats.N3M, levels int) (*Object, error) {
	if err := n3m.Validate(); err != nil {
		return nil, fmt.Errorf("model %s: %w", name, err)
	}
	if len(n3m.Vertices) > maxIndexedVertices {
		return nil, fmt.Errorf("model %s has %d vertices: %w", name, len(n3m.Vertices), gfx.ErrBufferTooLarge)
	}

	verts := make([]model.Vertex, len(n3m.Vertices))
	for i, v := range n3m.Vertices {
		verts[i] = gfx.NewVertex(vec3(v.Position), v.UV[0], v.UV[1], 0xffffffff)
		verts[i].Normal = vec3(v.Normal)
	}

	tris := make([]model.Triangle, len(n3m.Triangles))
	for i, t := range n3m.Triangles {
		tris[i] = model.Triangle{
			V:      [3]uint16{uint16(t.Vertices[0]), uint16(t.Vertices[1]), uint16(t.Vertices[2])},
			Normal: vec3(t.Normal),
		}
	}

	obj := New(ctx, name, levels)
	obj.Material = materialFromN3M(ctx, &n3m.Material)
	obj.mesh.SetData(verts, tris)
	return obj, nil
}

func materialFromN3M(ctx *gfx.Context, m *formats.N3MMaterial) material.Material {
	mat := material.New()
	mat.Ambient = color(m.Ambient)
	mat.Diffuse = color(m.Diffuse)
	mat.Specular = color(m.Specular)
	mat.Emissive = math.Color{R: m.Emissive, G: m.Emissive, B: m.Emissive, A: 1}
	mat.SetSpecularPower(m.Power)
	mat.SetAlpha(m.Alpha)
	mat.EnvBlend = m.EnvBlend

	if m.DiffuseMap != "" {
		mat.SetTexture(material.DiffuseMap, ctx.LoadTexture(m.DiffuseMap))
	}
	if m.ReflectMap != "" {
		mat.SetTexture(material.EnvironmentMap, ctx.LoadTexture(m.ReflectMap))
	}
	if m.BumpMap != "" {
		mat.SetTexture(material.BumpMap, ctx.LoadTexture(m.BumpMap))
	}
	return mat
}

func vec3(v [3]float32) math.Vec3 {
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

func color(c [3]float32) math.Color {
	return math.Color{R: c[0], G: c[1], B: c[2], A: 1}
}
