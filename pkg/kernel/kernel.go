// Package kernel defines the abstract geometry kernel interface.
// Implementations (prim, sdfx) supply solids and tessellate them into
// Shapes the raytracer can load. The kernel abstraction allows swapping
// geometry backends without changing the query engine.
package kernel

import "github.com/PozzettiAndrea/brepray/pkg/geom"

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max geom.Vec3)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Sphere(radius float64) Solid
	Cylinder(height, radius float64) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid

	// Tessellate discretizes a solid into a triangle mesh whose chordal
	// deviation from the true surface stays within deflection.
	Tessellate(s Solid, deflection float64) (*Shape, error)
}
