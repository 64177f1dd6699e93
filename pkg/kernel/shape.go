package kernel

import "github.com/PozzettiAndrea/brepray/pkg/geom"

// Face is one boundary face of a tessellated shape: its triangle
// discretization plus the surface it approximates. Triangles carry the
// owning face index so hits can be resolved back to surface attributes.
type Face struct {
	Surface   Surface
	Triangles []geom.Triangle
}

// Shape is a tessellated boundary representation produced by a Kernel.
// It is a plain validated value; no kernel internals leak through it.
type Shape struct {
	Faces      []Face
	Deflection float64 // deflection the tessellation was produced at
}

// NumFaces returns the number of faces.
func (s *Shape) NumFaces() int {
	return len(s.Faces)
}

// TriangleCount returns the total triangle count across all faces.
func (s *Shape) TriangleCount() int {
	n := 0
	for i := range s.Faces {
		n += len(s.Faces[i].Triangles)
	}
	return n
}

// IsTessellated reports whether any face carries triangles.
func (s *Shape) IsTessellated() bool {
	return s.TriangleCount() > 0
}

// Bounds returns the bounding box of all triangles.
func (s *Shape) Bounds() geom.AABB {
	b := geom.EmptyAABB()
	for i := range s.Faces {
		for j := range s.Faces[i].Triangles {
			b = b.Union(s.Faces[i].Triangles[j].Bounds())
		}
	}
	return b
}
