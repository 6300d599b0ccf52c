// Package model holds triangle mesh geometry: vertex and triangle arrays per
// level of detail, their lazily synchronised device buffers, normal
// generation and procedural generators.
package model

import (
	"github.com/Faultbox/nucleus3d/internal/engine/gfx"
	"github.com/Faultbox/nucleus3d/pkg/math"
)

// Vertex is the mesh vertex, identical to the device vertex format.
type Vertex = gfx.Vertex

// Triangle indexes three vertices. Winding is clockwise when seen from the
// front; the face normal is (v1-v0) x (v2-v0).
type Triangle struct {
	V           [3]uint16
	Normal      math.Vec3
	SmoothGroup uint32
}

// CalculateNormal recomputes the face normal from verts.
func (t *Triangle) CalculateNormal(verts []Vertex, normalize bool) {
	p0 := verts[t.V[0]].Pos
	e1 := verts[t.V[1]].Pos.Sub(p0)
	e2 := verts[t.V[2]].Pos.Sub(p0)
	t.Normal = e1.Cross(e2)
	if normalize {
		t.Normal = t.Normal.Normalize()
	}
}

// Centroid returns the average of the three corner positions.
func (t Triangle) Centroid(verts []Vertex) math.Vec3 {
	return verts[t.V[0]].Pos.Add(verts[t.V[1]].Pos).Add(verts[t.V[2]].Pos).Scale(1.0 / 3.0)
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Center returns the box centre.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Radius returns the radius of the sphere enclosing the box.
func (b Bounds) Radius() float32 {
	return b.Max.Sub(b.Min).Length() * 0.5
}

func (b *Bounds) extend(p math.Vec3) {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.Z < b.Min.Z {
		b.Min.Z = p.Z
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
	if p.Z > b.Max.Z {
		b.Max.Z = p.Z
	}
}
