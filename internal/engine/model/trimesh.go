package model

import (
	"fmt"

	"github.com/jinzhu/copier"

	"github.com/Faultbox/nucleus3d/internal/engine/gfx"
)

// Simplifier derives a lower detail level from level 0.
type Simplifier interface {
	Simplify(verts []Vertex, tris []Triangle, level int) ([]Vertex, []Triangle)
}

// CopySimplifier fills every level with a verbatim copy of level 0. It keeps
// the level slots usable until a real decimation pass is plugged in.
type CopySimplifier struct{}

// Simplify implements Simplifier.
func (CopySimplifier) Simplify(verts []Vertex, tris []Triangle, level int) ([]Vertex, []Triangle) {
	return append([]Vertex(nil), verts...), append([]Triangle(nil), tris...)
}

type level struct {
	verts []Vertex
	tris  []Triangle

	vb gfx.VertexBuffer
	ib gfx.IndexBuffer

	// stale is set whenever the CPU arrays changed since the last upload.
	stale bool

	// adj lists the triangles incident on each vertex.
	adj      [][]int
	adjValid bool
}

// TriMesh owns per-level vertex and triangle arrays together with the device
// buffers mirroring them. Buffers are rebuilt lazily, at most once per
// mutation, when a draw asks for them.
type TriMesh struct {
	dev        gfx.Device
	levels     []level
	dynamic    bool
	simplifier Simplifier

	rebuilds int
}

// NewTriMesh creates an empty mesh with the given number of detail levels.
// dev is used only to allocate and update buffers.
func NewTriMesh(dev gfx.Device, levels int) *TriMesh {
	if levels < 1 {
		levels = 1
	}
	return &TriMesh{
		dev:        dev,
		levels:     make([]level, levels),
		simplifier: CopySimplifier{},
	}
}

// Levels returns the number of detail levels.
func (m *TriMesh) Levels() int { return len(m.levels) }

// SetSimplifier replaces the level generator and regenerates levels 1..n.
func (m *TriMesh) SetSimplifier(s Simplifier) {
	m.simplifier = s
	m.updateLODChain()
}

// SetData replaces level 0 wholesale. The slices are copied.
func (m *TriMesh) SetData(verts []Vertex, tris []Triangle) {
	l := &m.levels[0]
	l.verts = append(l.verts[:0], verts...)
	l.tris = append(l.tris[:0], tris...)
	for i := range m.levels {
		m.levels[i].stale = true
		m.levels[i].adjValid = false
	}
	m.updateLODChain()
}

// VertexCount returns the level 0 vertex count.
func (m *TriMesh) VertexCount() int { return len(m.levels[0].verts) }

// TriangleCount returns the level 0 triangle count.
func (m *TriMesh) TriangleCount() int { return len(m.levels[0].tris) }

// Vertices returns level 0 vertices. Callers must not modify the slice;
// use ModVertices for that.
func (m *TriMesh) Vertices() []Vertex { return m.levels[0].verts }

// Triangles returns level 0 triangles. Callers must not modify the slice.
func (m *TriMesh) Triangles() []Triangle { return m.levels[0].tris }

// LevelVertices returns the vertices of a detail level.
func (m *TriMesh) LevelVertices(lvl int) []Vertex { return m.levels[lvl].verts }

// ModVertices returns level 0 vertices for in-place modification and marks
// every level's buffers stale.
func (m *TriMesh) ModVertices() []Vertex {
	m.invalidateBuffers()
	return m.levels[0].verts
}

// ModTriangles returns level 0 triangles for in-place modification. Buffers
// and the adjacency cache are invalidated.
func (m *TriMesh) ModTriangles() []Triangle {
	m.invalidateBuffers()
	m.levels[0].adjValid = false
	return m.levels[0].tris
}

// SetDynamic hints that buffers are rewritten often. Existing buffers are
// recreated with the new usage on the next sync.
func (m *TriMesh) SetDynamic(dynamic bool) {
	if m.dynamic == dynamic {
		return
	}
	m.dynamic = dynamic
	m.releaseBuffers()
	m.invalidateBuffers()
}

// Dynamic reports the buffer usage hint.
func (m *TriMesh) Dynamic() bool { return m.dynamic }

// Rebuilds returns how many times device buffers were synchronised.
func (m *TriMesh) Rebuilds() int { return m.rebuilds }

// Stale reports whether the buffers of a level must be re-uploaded.
func (m *TriMesh) Stale(lvl int) bool { return m.levels[lvl].stale }

// Bounds returns the level 0 bounding box.
func (m *TriMesh) Bounds() Bounds {
	verts := m.levels[0].verts
	if len(verts) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: verts[0].Pos, Max: verts[0].Pos}
	for _, v := range verts[1:] {
		b.extend(v.Pos)
	}
	return b
}

// VertexBuffer returns the device vertex buffer of a level, uploading the CPU
// array first if it changed.
func (m *TriMesh) VertexBuffer(lvl int) (gfx.VertexBuffer, error) {
	if err := m.sync(lvl); err != nil {
		return nil, err
	}
	return m.levels[lvl].vb, nil
}

// IndexBuffer returns the device index buffer of a level, uploading first if
// the level is stale. Meshes without triangles have no index buffer.
func (m *TriMesh) IndexBuffer(lvl int) (gfx.IndexBuffer, error) {
	if err := m.sync(lvl); err != nil {
		return nil, err
	}
	return m.levels[lvl].ib, nil
}

func (m *TriMesh) sync(lvl int) error {
	if lvl < 0 || lvl >= len(m.levels) {
		return fmt.Errorf("detail level %d out of range [0,%d)", lvl, len(m.levels))
	}
	l := &m.levels[lvl]
	if !l.stale {
		return nil
	}

	var err error
	switch {
	case len(l.verts) == 0:
		m.releaseLevel(l)
	case l.vb != nil && m.dynamic && l.vb.Len() == len(l.verts):
		err = m.dev.UpdateVertexBuffer(l.vb, l.verts)
	default:
		if l.vb != nil {
			l.vb.Release()
		}
		l.vb, err = m.dev.NewVertexBuffer(l.verts, m.dynamic)
	}
	if err != nil {
		return fmt.Errorf("uploading vertices of level %d: %w", lvl, err)
	}

	if len(l.tris) > 0 {
		indices := make([]uint16, 0, len(l.tris)*3)
		for _, t := range l.tris {
			indices = append(indices, t.V[0], t.V[1], t.V[2])
		}
		if l.ib != nil && m.dynamic && l.ib.Len() == len(indices) {
			err = m.dev.UpdateIndexBuffer(l.ib, indices)
		} else {
			if l.ib != nil {
				l.ib.Release()
			}
			l.ib, err = m.dev.NewIndexBuffer(indices, m.dynamic)
		}
		if err != nil {
			return fmt.Errorf("uploading indices of level %d: %w", lvl, err)
		}
	} else if l.ib != nil {
		l.ib.Release()
		l.ib = nil
	}

	l.stale = false
	m.rebuilds++
	return nil
}

func (m *TriMesh) invalidateBuffers() {
	for i := range m.levels {
		m.levels[i].stale = true
	}
}

func (m *TriMesh) releaseLevel(l *level) {
	if l.vb != nil {
		l.vb.Release()
		l.vb = nil
	}
	if l.ib != nil {
		l.ib.Release()
		l.ib = nil
	}
}

func (m *TriMesh) releaseBuffers() {
	for i := range m.levels {
		m.releaseLevel(&m.levels[i])
	}
}

// Release frees every device buffer owned by the mesh. CPU data is kept and
// buffers are recreated if the mesh is drawn again.
func (m *TriMesh) Release() {
	m.releaseBuffers()
	m.invalidateBuffers()
}

// Clone returns a deep copy of the CPU arrays. The copy owns no device
// buffers; they are created on its first draw.
func (m *TriMesh) Clone() (*TriMesh, error) {
	c := NewTriMesh(m.dev, len(m.levels))
	c.dynamic = m.dynamic
	c.simplifier = m.simplifier

	opt := copier.Option{DeepCopy: true}
	for i := range m.levels {
		src, dst := &m.levels[i], &c.levels[i]
		if err := copier.CopyWithOption(&dst.verts, src.verts, opt); err != nil {
			return nil, fmt.Errorf("copying level %d vertices: %w", i, err)
		}
		if err := copier.CopyWithOption(&dst.tris, src.tris, opt); err != nil {
			return nil, fmt.Errorf("copying level %d triangles: %w", i, err)
		}
		dst.stale = true
	}
	return c, nil
}

func (m *TriMesh) updateLODChain() {
	base := &m.levels[0]
	for i := 1; i < len(m.levels); i++ {
		l := &m.levels[i]
		l.verts, l.tris = m.simplifier.Simplify(base.verts, base.tris, i)
		l.stale = true
		l.adjValid = false
	}
}
