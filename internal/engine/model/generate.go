package model

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/nucleus3d/internal/engine/gfx"
	"github.com/Faultbox/nucleus3d/pkg/math"
)

const white = 0xffffffff

// NewPlane builds a size x size plane in the XY plane facing -Z, split into
// (subdivisions+1)^2 quads.
func NewPlane(dev gfx.Device, size float32, subdivisions, levels int) *TriMesh {
	quadsRow := subdivisions + 1
	vertsRow := subdivisions + 2

	verts := make([]Vertex, 0, vertsRow*vertsRow)
	for j := 0; j < vertsRow; j++ {
		for i := 0; i < vertsRow; i++ {
			u := float32(i) / float32(quadsRow)
			v := float32(j) / float32(quadsRow)
			pos := math.Vec3{X: u - 0.5, Y: 0.5 - v}.Scale(size)
			vx := gfx.NewVertex(pos, u, v, white)
			vx.Normal = math.Vec3{Z: -1}
			verts = append(verts, vx)
		}
	}

	tris := make([]Triangle, 0, quadsRow*quadsRow*2)
	for q := 0; q < quadsRow*quadsRow; q++ {
		v0 := uint16(q + q/quadsRow)
		v1 := v0 + 1
		v2 := v0 + uint16(vertsRow)
		v3 := v1 + uint16(vertsRow)
		tris = append(tris,
			Triangle{V: [3]uint16{v0, v1, v3}, Normal: math.Vec3{Z: -1}},
			Triangle{V: [3]uint16{v0, v3, v2}, Normal: math.Vec3{Z: -1}},
		)
	}

	m := NewTriMesh(dev, levels)
	m.SetData(verts, tris)
	return m
}

// cubeCorners lists the 36 unshared cube vertices as position and texcoord.
var cubeCorners = [36][5]float32{
	{-1, +1, -1, 0, 0}, {+1, +1, -1, 1, 0}, {+1, -1, -1, 1, 1},
	{-1, +1, -1, 0, 0}, {+1, -1, -1, 1, 1}, {-1, -1, -1, 0, 1},
	{-1, +1, +1, 0, 0}, {-1, +1, -1, 1, 0}, {-1, -1, -1, 1, 1},
	{-1, +1, +1, 0, 0}, {-1, -1, -1, 1, 1}, {-1, -1, +1, 0, 1},
	{-1, +1, +1, 1, 0}, {-1, -1, +1, 1, 1}, {+1, +1, +1, 0, 0},
	{+1, +1, +1, 0, 0}, {-1, -1, +1, 1, 1}, {+1, -1, +1, 0, 1},
	{+1, +1, -1, 0, 0}, {+1, +1, +1, 1, 0}, {+1, -1, +1, 1, 1},
	{+1, +1, -1, 0, 0}, {+1, -1, +1, 1, 1}, {+1, -1, -1, 0, 1},
	{-1, +1, -1, 0, 1}, {+1, +1, +1, 1, 0}, {+1, +1, -1, 1, 1},
	{-1, +1, +1, 0, 0}, {+1, +1, +1, 1, 0}, {-1, +1, -1, 0, 1},
	{-1, -1, +1, 0, 1}, {-1, -1, -1, 0, 0}, {+1, -1, +1, 1, 1},
	{-1, -1, -1, 0, 0}, {+1, -1, -1, 1, 0}, {+1, -1, +1, 1, 1},
}

// NewCube builds a cube of edge length size centred at the origin. Faces do
// not share vertices so each keeps a flat normal.
func NewCube(dev gfx.Device, size float32, levels int) *TriMesh {
	half := size / 2
	verts := make([]Vertex, len(cubeCorners))
	for i, c := range cubeCorners {
		verts[i] = gfx.NewVertex(math.Vec3{X: c[0], Y: c[1], Z: c[2]}.Scale(half), c[3], c[4], white)
	}

	tris := make([]Triangle, 12)
	for i := range tris {
		b := uint16(i * 3)
		tris[i].V = [3]uint16{b, b + 1, b + 2}
	}

	m := NewTriMesh(dev, levels)
	m.SetData(verts, tris)
	m.CalculateNormals()
	return m
}

// NewSphere builds a closed UV sphere. Poles and the longitude seam share
// vertices, which keeps the surface watertight for shadow volume extraction.
func NewSphere(dev gfx.Device, radius float32, slices, stacks, levels int) *TriMesh {
	if slices < 3 {
		slices = 3
	}
	if stacks < 2 {
		stacks = 2
	}

	verts := make([]Vertex, 0, 2+slices*(stacks-1))
	verts = append(verts, gfx.NewVertex(math.Vec3{Y: radius}, 0.5, 0, white))
	for r := 1; r < stacks; r++ {
		phi := math32.Pi * float32(r) / float32(stacks)
		sp, cp := math32.Sincos(phi)
		for i := 0; i < slices; i++ {
			theta := 2 * math32.Pi * float32(i) / float32(slices)
			st, ct := math32.Sincos(theta)
			pos := math.Vec3{X: sp * ct, Y: cp, Z: sp * st}.Scale(radius)
			verts = append(verts, gfx.NewVertex(pos, float32(i)/float32(slices), float32(r)/float32(stacks), white))
		}
	}
	bottom := uint16(len(verts))
	verts = append(verts, gfx.NewVertex(math.Vec3{Y: -radius}, 0.5, 1, white))

	ring := func(r, i int) uint16 {
		return uint16(1 + (r-1)*slices + i%slices)
	}

	var tris []Triangle
	for i := 0; i < slices; i++ {
		tris = append(tris, Triangle{V: [3]uint16{0, ring(1, i+1), ring(1, i)}})
	}
	for r := 1; r < stacks-1; r++ {
		for i := 0; i < slices; i++ {
			v0, v1 := ring(r, i), ring(r, i+1)
			v2, v3 := ring(r+1, i), ring(r+1, i+1)
			tris = append(tris,
				Triangle{V: [3]uint16{v0, v1, v3}},
				Triangle{V: [3]uint16{v0, v3, v2}},
			)
		}
	}
	for i := 0; i < slices; i++ {
		tris = append(tris, Triangle{V: [3]uint16{ring(stacks-1, i), ring(stacks-1, i+1), bottom}})
	}

	m := NewTriMesh(dev, levels)
	m.SetData(verts, tris)
	m.CalculateNormals()
	return m
}
