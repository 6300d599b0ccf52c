package model

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/nucleus3d/internal/engine/gfx"
	"github.com/Faultbox/nucleus3d/pkg/math"
)

func TestNewPlaneCounts(t *testing.T) {
	tests := []struct {
		subdivisions int
		verts, tris  int
	}{
		{0, 4, 2},
		{1, 9, 8},
		{3, 25, 32},
	}
	for _, tt := range tests {
		m := NewPlane(gfx.NewRecorder(), 10, tt.subdivisions, 1)
		assert.Equal(t, tt.verts, m.VertexCount(), "subdivisions=%d", tt.subdivisions)
		assert.Equal(t, tt.tris, m.TriangleCount(), "subdivisions=%d", tt.subdivisions)
	}
}

func TestNewPlaneFacesMinusZ(t *testing.T) {
	m := NewPlane(gfx.NewRecorder(), 2, 2, 1)
	for i, tri := range m.Triangles() {
		c := tri
		c.CalculateNormal(m.Vertices(), true)
		assert.True(t, c.Normal.ApproxEqual(math.Vec3{Z: -1}, 1e-5), "triangle %d winding", i)
	}
	b := m.Bounds()
	assert.InDelta(t, -1, b.Min.X, 1e-6)
	assert.InDelta(t, 1, b.Max.Y, 1e-6)
}

func TestNewCubeUnshared(t *testing.T) {
	m := NewCube(gfx.NewRecorder(), 1, 1)
	assert.Equal(t, 36, m.VertexCount())
	assert.Equal(t, 12, m.TriangleCount())
}

func TestNewSphereIsClosedAndOutward(t *testing.T) {
	m := NewSphere(gfx.NewRecorder(), 1, 10, 6, 1)

	edges := map[[2]uint16]int{}
	for _, tri := range m.Triangles() {
		for i := 0; i < 3; i++ {
			a, b := tri.V[i], tri.V[(i+1)%3]
			if a > b {
				a, b = b, a
			}
			edges[[2]uint16{a, b}]++
		}
	}
	for e, n := range edges {
		assert.Equal(t, 2, n, "edge %v", e)
	}

	for i, tri := range m.Triangles() {
		c := tri.Centroid(m.Vertices())
		assert.Greater(t, tri.Normal.Dot(c), float32(0), "triangle %d points inward", i)
	}
}
