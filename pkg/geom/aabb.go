package geom

import "math"

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max Vec3
}

// EmptyAABB returns an inverted box that unions correctly with anything.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: Vec3{X: inf, Y: inf, Z: inf},
		Max: Vec3{X: -inf, Y: -inf, Z: -inf},
	}
}

// Union returns a box bounding both b and o.
func (b AABB) Union(o AABB) AABB {
	return AABB{
		Min: Vec3{
			X: math.Min(b.Min.X, o.Min.X),
			Y: math.Min(b.Min.Y, o.Min.Y),
			Z: math.Min(b.Min.Z, o.Min.Z),
		},
		Max: Vec3{
			X: math.Max(b.Max.X, o.Max.X),
			Y: math.Max(b.Max.Y, o.Max.Y),
			Z: math.Max(b.Max.Z, o.Max.Z),
		},
	}
}

// Extend returns a box grown to contain p.
func (b AABB) Extend(p Vec3) AABB {
	return b.Union(AABB{Min: p, Max: p})
}

// Center returns the box midpoint.
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the extent along each axis.
func (b AABB) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the largest extent.
func (b AABB) LongestAxis() int {
	s := b.Size()
	if s.X > s.Y && s.X > s.Z {
		return 0
	}
	if s.Y > s.Z {
		return 1
	}
	return 2
}

// IsValid reports whether Min <= Max on every axis.
func (b AABB) IsValid() bool {
	return b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y && b.Min.Z <= b.Max.Z
}

// Hit tests the ray against the box with the slab method, restricted to
// the parameter interval [tMin, tMax].
func (b AABB) Hit(r Ray, tMin, tMax float64) bool {
	for axis := 0; axis < 3; axis++ {
		lo := b.Min.Component(axis)
		hi := b.Max.Component(axis)
		origin := r.Origin.Component(axis)
		dir := r.Dir.Component(axis)

		if math.Abs(dir) < 1e-12 {
			// Parallel to the slab: inside or out, no interval update.
			if origin < lo || origin > hi {
				return false
			}
			continue
		}

		inv := 1.0 / dir
		t1 := (lo - origin) * inv
		t2 := (hi - origin) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return false
		}
	}
	return true
}

// HitInv is the slab test with a precomputed reciprocal direction, used by
// the flattened-traversal backends. Zero direction components produce
// infinities (or NaNs exactly on a slab plane) that at worst let a node
// through to the triangle tests, never skip a real hit.
func (b AABB) HitInv(origin, invDir Vec3, tMin, tMax float64) bool {
	t1 := (b.Min.X - origin.X) * invDir.X
	t2 := (b.Max.X - origin.X) * invDir.X
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	if t1 > tMin {
		tMin = t1
	}
	if t2 < tMax {
		tMax = t2
	}

	t1 = (b.Min.Y - origin.Y) * invDir.Y
	t2 = (b.Max.Y - origin.Y) * invDir.Y
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	if t1 > tMin {
		tMin = t1
	}
	if t2 < tMax {
		tMax = t2
	}

	t1 = (b.Min.Z - origin.Z) * invDir.Z
	t2 = (b.Max.Z - origin.Z) * invDir.Z
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	if t1 > tMin {
		tMin = t1
	}
	if t2 < tMax {
		tMax = t2
	}

	return tMin <= tMax
}
