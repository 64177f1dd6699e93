// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library. Solids are signed distance
// fields; tessellation runs marching cubes at a resolution derived from the
// requested deflection, and surface attributes (normal, curvature) are
// evaluated on the field itself by finite differences.
package sdfx

import (
	"fmt"
	"math"

	lru "github.com/hashicorp/golang-lru"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/PozzettiAndrea/brepray/pkg/geom"
	"github.com/PozzettiAndrea/brepray/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Kernel = (*Kernel)(nil)

// Marching cubes resolution bounds. Cells scale with bbox/deflection but
// are clamped to keep pathological deflections from exploding memory.
const (
	minCells = 16
	maxCells = 384
)

// curvatureCacheSize bounds the per-kernel curvature evaluation cache.
// Each entry is one quantized surface point.
const curvatureCacheSize = 4096

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max geom.Vec3) {
	bb := s.s.BoundingBox()
	return geom.V3(bb.Min.X, bb.Min.Y, bb.Min.Z), geom.V3(bb.Max.X, bb.Max.Y, bb.Max.Z)
}

// Kernel implements kernel.Kernel using sdfx. Curvature evaluations are
// cached across all shapes tessellated by this kernel instance.
type Kernel struct {
	cache *lru.Cache
}

// New returns a new sdfx kernel.
func New() *Kernel {
	cache, _ := lru.New(curvatureCacheSize)
	return &Kernel{cache: cache}
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// Box creates a box with its minimum corner at the origin. sdf.Box3D
// centers the box, so we shift by half-dimensions to match the prim kernel.
func (k *Kernel) Box(x, y, z float64) kernel.Solid {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Box3D: %v", err))
	}
	m := sdf.Translate3d(v3.Vec{X: x / 2, Y: y / 2, Z: z / 2})
	return wrap(sdf.Transform3D(s, m))
}

// Sphere creates a sphere centered at the origin.
func (k *Kernel) Sphere(radius float64) kernel.Solid {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Sphere3D: %v", err))
	}
	return wrap(s)
}

// Cylinder creates a Z-axis cylinder centered at the origin.
func (k *Kernel) Cylinder(height, radius float64) kernel.Solid {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Cylinder3D: %v", err))
	}
	return wrap(s)
}

// Union returns the union of two solids.
func (k *Kernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Difference returns the difference a - b.
func (k *Kernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Difference3D(unwrap(a), unwrap(b)))
}

// Intersection returns the intersection of two solids.
func (k *Kernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Intersect3D(unwrap(a), unwrap(b)))
}

// Translate moves a solid by (x, y, z).
func (k *Kernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *Kernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0

	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Tessellate runs marching cubes over the field. An SDF has no face
// decomposition, so the result is a single face whose surface evaluates
// attributes on the field itself. Per-triangle UVs are flat in-plane charts.
func (k *Kernel) Tessellate(s kernel.Solid, deflection float64) (*kernel.Shape, error) {
	if deflection <= 0 {
		return nil, fmt.Errorf("sdfx: deflection must be positive, got %g", deflection)
	}
	sdf3 := unwrap(s)

	bb := sdf3.BoundingBox()
	size := bb.Max.Sub(bb.Min)
	maxDim := math.Max(size.X, math.Max(size.Y, size.Z))
	if maxDim <= 0 {
		return &kernel.Shape{Deflection: deflection}, nil
	}

	// Marching cubes error is about half a cell.
	cells := int(math.Ceil(maxDim / (2 * deflection)))
	if cells < minCells {
		cells = minCells
	}
	if cells > maxCells {
		cells = maxCells
	}

	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(sdf3, renderer)

	surf := &sdfSurface{
		s:     sdf3,
		eps:   1e-4 * maxDim,
		cache: k.cache,
	}

	tris := make([]geom.Triangle, 0, len(triangles))
	for _, tri := range triangles {
		t := geom.Triangle{
			V0: geom.V3(tri[0].X, tri[0].Y, tri[0].Z),
			V1: geom.V3(tri[1].X, tri[1].Y, tri[1].Z),
			V2: geom.V3(tri[2].X, tri[2].Y, tri[2].Z),
		}
		if t.IsDegenerate() {
			continue
		}
		// Per-triangle planar chart: U along the first edge, V in-plane
		// orthogonal to it.
		e1 := t.V1.Sub(t.V0)
		e2 := t.V2.Sub(t.V0)
		uAxis := e1.Normalize()
		vAxis := t.Normal().Cross(uAxis)
		t.UV0 = geom.Vec2{}
		t.UV1 = geom.Vec2{X: e1.Length(), Y: 0}
		t.UV2 = geom.Vec2{X: e2.Dot(uAxis), Y: e2.Dot(vAxis)}
		tris = append(tris, t)
	}

	face := kernel.Face{Surface: surf, Triangles: tris}
	return &kernel.Shape{Faces: []kernel.Face{face}, Deflection: deflection}, nil
}
