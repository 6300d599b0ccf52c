// Package shadow builds stencil shadow volumes: the silhouette of a mesh as
// seen from a light, extruded away from the light.
package shadow

import (
	"github.com/Faultbox/nucleus3d/internal/engine/gfx"
	"github.com/Faultbox/nucleus3d/internal/engine/model"
	"github.com/Faultbox/nucleus3d/pkg/math"
)

// ExtrudeDistance is how far silhouette edges are pushed along the light
// direction. It stands in for infinity, so volumes have no far cap.
const ExtrudeDistance = 100000

// Light gives the direction light travels when reaching p. Both p and the
// result are in the space whose inverse world matrix is toLocal.
type Light interface {
	DirectionAt(p math.Vec3, toLocal math.Mat4) math.Vec3
}

// Geometry is the mesh data the builder reads.
type Geometry interface {
	Vertices() []model.Vertex
	Triangles() []model.Triangle
}

// Edge is a silhouette edge, kept in the winding order of the triangle that
// contributed it.
type Edge struct {
	A, B uint16
}

type edgeKey [2]uint16

func keyOf(a, b uint16) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// edgeSet holds edges added an odd number of times. Adding an edge that is
// already present, in either direction, removes it.
type edgeSet struct {
	index map[edgeKey]int
	edges []Edge
}

func newEdgeSet(capacity int) *edgeSet {
	return &edgeSet{index: make(map[edgeKey]int, capacity), edges: make([]Edge, 0, capacity)}
}

func (s *edgeSet) toggle(a, b uint16) {
	k := keyOf(a, b)
	i, ok := s.index[k]
	if !ok {
		s.index[k] = len(s.edges)
		s.edges = append(s.edges, Edge{a, b})
		return
	}

	last := len(s.edges) - 1
	if i != last {
		moved := s.edges[last]
		s.edges[i] = moved
		s.index[keyOf(moved.A, moved.B)] = i
	}
	s.edges = s.edges[:last]
	delete(s.index, k)
}

// SilhouetteEdges returns the edges that separate triangles facing away from
// the light from the rest of the mesh. A triangle faces away when its stored
// normal points along the light direction at its centroid.
func SilhouetteEdges(g Geometry, light Light, world math.Mat4) []Edge {
	verts := g.Vertices()
	tris := g.Triangles()
	toLocal := world.Inverse()

	set := newEdgeSet(len(tris))
	for i := range tris {
		t := &tris[i]
		dir := light.DirectionAt(t.Centroid(verts), toLocal)
		if t.Normal.Dot(dir) < 0 {
			continue
		}
		set.toggle(t.V[0], t.V[1])
		set.toggle(t.V[1], t.V[2])
		set.toggle(t.V[2], t.V[0])
	}
	return set.edges
}

// Extrude turns each edge into a quad reaching ExtrudeDistance away from the
// light, emitted as two triangles (six vertices per edge). With inWorld set
// the result is transformed by world; otherwise it stays in mesh space.
func Extrude(verts []model.Vertex, edges []Edge, light Light, world math.Mat4, inWorld bool) []model.Vertex {
	toLocal := world.Inverse()
	out := make([]model.Vertex, 0, len(edges)*6)

	for _, e := range edges {
		v0, v1 := verts[e.A], verts[e.B]
		v2 := model.Vertex{Pos: v1.Pos.Add(light.DirectionAt(v1.Pos, toLocal).Scale(ExtrudeDistance))}
		v3 := model.Vertex{Pos: v0.Pos.Add(light.DirectionAt(v0.Pos, toLocal).Scale(ExtrudeDistance))}
		out = append(out, v0, v1, v2, v0, v2, v3)
	}

	if inWorld {
		for i := range out {
			out[i].Pos = world.TransformPoint(out[i].Pos)
		}
	}
	return out
}

// BuildVolume builds the shadow volume of g for light. The result is a
// single-level, non-indexed mesh with no triangles; draw it with
// Device.Draw over VertexCount vertices. A mesh with nothing facing away
// from the light yields an empty volume.
func BuildVolume(dev gfx.Device, g Geometry, light Light, world math.Mat4, inWorld bool) *model.TriMesh {
	edges := SilhouetteEdges(g, light, world)
	volume := model.NewTriMesh(dev, 1)
	volume.SetData(Extrude(g.Vertices(), edges, light, world, inWorld), nil)
	return volume
}

// Draw submits a volume built by BuildVolume.
func Draw(dev gfx.Device, volume *model.TriMesh) error {
	if volume == nil || volume.VertexCount() == 0 {
		return nil
	}
	vb, err := volume.VertexBuffer(0)
	if err != nil {
		return err
	}
	dev.Draw(vb, volume.VertexCount())
	return nil
}
