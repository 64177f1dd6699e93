package geom

import "math"

// intersectEpsilon rejects rays nearly parallel to the triangle plane and,
// with them, zero-area triangles whose determinant vanishes for every ray.
const intersectEpsilon = 1e-12

// Triangle is one tessellation triangle with per-vertex surface parameters
// and a back-reference to the face it discretizes. Immutable after
// tessellation.
type Triangle struct {
	V0, V1, V2    Vec3
	UV0, UV1, UV2 Vec2
	Face          int32
}

// Bounds returns the triangle's bounding box.
func (t *Triangle) Bounds() AABB {
	return AABB{
		Min: Vec3{
			X: math.Min(t.V0.X, math.Min(t.V1.X, t.V2.X)),
			Y: math.Min(t.V0.Y, math.Min(t.V1.Y, t.V2.Y)),
			Z: math.Min(t.V0.Z, math.Min(t.V1.Z, t.V2.Z)),
		},
		Max: Vec3{
			X: math.Max(t.V0.X, math.Max(t.V1.X, t.V2.X)),
			Y: math.Max(t.V0.Y, math.Max(t.V1.Y, t.V2.Y)),
			Z: math.Max(t.V0.Z, math.Max(t.V1.Z, t.V2.Z)),
		},
	}
}

// Centroid returns the triangle centroid.
func (t *Triangle) Centroid() Vec3 {
	return t.V0.Add(t.V1).Add(t.V2).Mul(1.0 / 3.0)
}

// Normal returns the unit geometric normal, following the winding order.
// Degenerate triangles return the zero vector.
func (t *Triangle) Normal() Vec3 {
	n := t.V1.Sub(t.V0).Cross(t.V2.Sub(t.V0))
	l := n.Length()
	if l == 0 {
		return Vec3{}
	}
	return n.Mul(1 / l)
}

// IsDegenerate reports whether the triangle has (near) zero area.
func (t *Triangle) IsDegenerate() bool {
	return t.V1.Sub(t.V0).Cross(t.V2.Sub(t.V0)).LengthSq() < intersectEpsilon*intersectEpsilon
}

// Intersect runs the Möller–Trumbore test against the ray, accepting hits
// with parameter in [tMin, tMax]. On a hit it returns the ray parameter and
// the barycentric coordinates (u, v) such that
// P = (1-u-v)·V0 + u·V1 + v·V2.
func (t *Triangle) Intersect(r Ray, tMin, tMax float64) (tHit, u, v float64, ok bool) {
	edge1 := t.V1.Sub(t.V0)
	edge2 := t.V2.Sub(t.V0)

	h := r.Dir.Cross(edge2)
	det := edge1.Dot(h)
	if det > -intersectEpsilon && det < intersectEpsilon {
		return 0, 0, 0, false
	}

	inv := 1.0 / det
	s := r.Origin.Sub(t.V0)
	u = inv * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, 0, 0, false
	}

	q := s.Cross(edge1)
	v = inv * r.Dir.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, 0, 0, false
	}

	tHit = inv * edge2.Dot(q)
	if tHit < tMin || tHit > tMax {
		return 0, 0, 0, false
	}
	return tHit, u, v, true
}

// BaryPoint interpolates the triangle vertices at barycentric (u, v).
func (t *Triangle) BaryPoint(u, v float64) Vec3 {
	return t.V0.Mul(1 - u - v).Add(t.V1.Mul(u)).Add(t.V2.Mul(v))
}

// BaryUV interpolates the vertex surface parameters at barycentric (u, v).
func (t *Triangle) BaryUV(u, v float64) Vec2 {
	return t.UV0.Mul(1 - u - v).Add(t.UV1.Mul(u)).Add(t.UV2.Mul(v))
}
