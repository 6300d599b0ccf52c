package model

import "github.com/Faultbox/nucleus3d/pkg/math"

// CalculateNormals sets every vertex normal to the normalised sum of the face
// normals of its incident triangles. Face normals are left unnormalised so
// larger faces weigh more. The per-vertex adjacency is built on the first
// call and reused until the topology changes.
func (m *TriMesh) CalculateNormals() {
	l := &m.levels[0]

	for i := range l.tris {
		l.tris[i].CalculateNormal(l.verts, false)
	}

	if !l.adjValid {
		l.adj = buildAdjacency(len(l.verts), l.tris)
		l.adjValid = true
	}

	for i := range l.verts {
		var n math.Vec3
		for _, ti := range l.adj[i] {
			n = n.Add(l.tris[ti].Normal)
		}
		l.verts[i].Normal = n.Normalize()
	}

	m.invalidateBuffers()
	m.updateLODChain()
}

// CalculateNormalsFast gives each triangle's three corners its unit face
// normal. Shared vertices keep the normal of the last triangle written.
func (m *TriMesh) CalculateNormalsFast() {
	l := &m.levels[0]

	for i := range l.tris {
		t := &l.tris[i]
		t.CalculateNormal(l.verts, true)
		for _, vi := range t.V {
			l.verts[vi].Normal = t.Normal
		}
	}

	m.invalidateBuffers()
	m.updateLODChain()
}

func buildAdjacency(vertexCount int, tris []Triangle) [][]int {
	adj := make([][]int, vertexCount)
	for ti, t := range tris {
		for c, vi := range t.V {
			// a degenerate triangle may reference the same vertex twice
			if c > 0 && t.V[c-1] == vi || c == 2 && t.V[0] == vi {
				continue
			}
			adj[vi] = append(adj[vi], ti)
		}
	}
	return adj
}
