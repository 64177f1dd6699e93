package geom

// Ray is a half-line with a unit direction. With Dir normalized, the ray
// parameter t is the geometric distance from Origin.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// NewRay builds a ray, normalizing the direction.
func NewRay(origin, dir Vec3) Ray {
	return Ray{Origin: origin, Dir: dir.Normalize()}
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}
