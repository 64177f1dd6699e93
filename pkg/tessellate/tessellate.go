// Package tessellate holds the tessellated shape store: the flattened,
// face-tagged triangle set a raytracer queries against. The store borrows
// the caller's shape for the duration of a load and never mutates it.
package tessellate

import (
	"errors"
	"fmt"

	"github.com/PozzettiAndrea/brepray/pkg/geom"
	"github.com/PozzettiAndrea/brepray/pkg/kernel"
)

// ErrEmptyShape is returned by Load for a shape with zero faces.
var ErrEmptyShape = errors.New("tessellate: shape has no faces")

// ErrNotTessellated is returned by Load for a shape whose faces carry no
// triangles; the caller must tessellate at the desired deflection first.
var ErrNotTessellated = errors.New("tessellate: shape has no triangulation")

// Store holds one loaded shape flattened into a triangle soup with face
// provenance. At most one shape is resident; re-loading replaces it.
type Store struct {
	shape      *kernel.Shape
	tris       []geom.Triangle
	bounds     geom.AABB
	tolerance  float64
	deflection float64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Load flattens the shape's faces into the store, stamping each triangle
// with its owning face index and dropping degenerate (zero-area) triangles.
// The previous contents are discarded even if the load fails.
func (st *Store) Load(shape *kernel.Shape, tolerance, deflection float64) error {
	st.Clear()

	if shape == nil || shape.NumFaces() == 0 {
		return ErrEmptyShape
	}
	if !shape.IsTessellated() {
		return fmt.Errorf("%w (deflection %g)", ErrNotTessellated, deflection)
	}

	tris := make([]geom.Triangle, 0, shape.TriangleCount())
	bounds := geom.EmptyAABB()
	for f := range shape.Faces {
		for _, t := range shape.Faces[f].Triangles {
			if t.IsDegenerate() {
				continue
			}
			t.Face = int32(f)
			tris = append(tris, t)
			bounds = bounds.Union(t.Bounds())
		}
	}
	if len(tris) == 0 {
		return fmt.Errorf("%w (all triangles degenerate)", ErrNotTessellated)
	}

	st.shape = shape
	st.tris = tris
	st.bounds = bounds
	st.tolerance = tolerance
	st.deflection = deflection
	return nil
}

// Clear drops the resident shape.
func (st *Store) Clear() {
	st.shape = nil
	st.tris = nil
	st.bounds = geom.AABB{}
	st.tolerance = 0
	st.deflection = 0
}

// IsLoaded reports whether a shape is resident.
func (st *Store) IsLoaded() bool {
	return st.shape != nil
}

// Triangles returns the flattened triangle set. Read-only; shared across
// traversal workers.
func (st *Store) Triangles() []geom.Triangle {
	return st.tris
}

// NumFaces returns the face count of the loaded shape, 0 when unloaded.
func (st *Store) NumFaces() int {
	if st.shape == nil {
		return 0
	}
	return st.shape.NumFaces()
}

// Face returns the face a triangle back-references, or nil when out of range.
func (st *Store) Face(i int32) *kernel.Face {
	if st.shape == nil || i < 0 || int(i) >= st.shape.NumFaces() {
		return nil
	}
	return &st.shape.Faces[i]
}

// Bounds returns the bounding box of the loaded triangles.
func (st *Store) Bounds() geom.AABB {
	return st.bounds
}

// Tolerance returns the geometric tolerance the shape was loaded with.
func (st *Store) Tolerance() float64 {
	return st.tolerance
}

// Deflection returns the tessellation deflection the shape was loaded with.
func (st *Store) Deflection() float64 {
	return st.deflection
}
