package sdfx

import (
	"math"

	lru "github.com/hashicorp/golang-lru"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/PozzettiAndrea/brepray/pkg/geom"
	"github.com/PozzettiAndrea/brepray/pkg/kernel"
)

// sdfSurface evaluates surface attributes on the signed distance field by
// central differences at the hit point. The (u, v) parameters are ignored;
// an SDF chart has no closed-form parametrization.
type sdfSurface struct {
	s     sdf.SDF3
	eps   float64 // finite-difference step, scaled to the solid size
	cache *lru.Cache
}

// cacheKey is the evaluation point quantized to a quarter of the
// finite-difference step.
type cacheKey struct {
	x, y, z int64
}

func (s *sdfSurface) key(p geom.Vec3) cacheKey {
	q := 4 / s.eps
	return cacheKey{
		x: int64(math.Round(p.X * q)),
		y: int64(math.Round(p.Y * q)),
		z: int64(math.Round(p.Z * q)),
	}
}

func (s *sdfSurface) eval(p geom.Vec3) float64 {
	return s.s.Evaluate(v3.Vec{X: p.X, Y: p.Y, Z: p.Z})
}

// gradient is the central-difference estimate of the field gradient.
func (s *sdfSurface) gradient(p geom.Vec3) geom.Vec3 {
	h := s.eps
	return geom.V3(
		s.eval(geom.V3(p.X+h, p.Y, p.Z))-s.eval(geom.V3(p.X-h, p.Y, p.Z)),
		s.eval(geom.V3(p.X, p.Y+h, p.Z))-s.eval(geom.V3(p.X, p.Y-h, p.Z)),
		s.eval(geom.V3(p.X, p.Y, p.Z+h))-s.eval(geom.V3(p.X, p.Y, p.Z-h)),
	).Mul(1 / (2 * h))
}

// hessian is the central-difference estimate of the field Hessian,
// returned as the six distinct entries of the symmetric matrix.
func (s *sdfSurface) hessian(p geom.Vec3) (xx, yy, zz, xy, xz, yz float64) {
	h := s.eps
	f := s.eval(p)

	d2 := func(a geom.Vec3) float64 {
		return (s.eval(p.Add(a)) - 2*f + s.eval(p.Sub(a))) / (h * h)
	}
	mixed := func(a, b geom.Vec3) float64 {
		return (s.eval(p.Add(a).Add(b)) - s.eval(p.Add(a).Sub(b)) -
			s.eval(p.Sub(a).Add(b)) + s.eval(p.Sub(a).Sub(b))) / (4 * h * h)
	}

	ex := geom.V3(h, 0, 0)
	ey := geom.V3(0, h, 0)
	ez := geom.V3(0, 0, h)

	xx = d2(ex)
	yy = d2(ey)
	zz = d2(ez)
	xy = mixed(ex, ey)
	xz = mixed(ex, ez)
	yz = mixed(ey, ez)
	return
}

// Normal returns the normalized field gradient at p, which points outward
// for a conventional negative-inside SDF.
func (s *sdfSurface) Normal(u, v float64, p geom.Vec3) geom.Vec3 {
	return s.gradient(p).Normalize()
}

// Curvature evaluates the implicit-surface curvature formulas at p:
// Gaussian K = gᵀ·adj(H)·g / |g|⁴ and mean H = (|g|²·tr(H) − gᵀHg) / (2|g|³),
// with the sign convention that convex regions (sphere, outward normal)
// have positive curvature.
func (s *sdfSurface) Curvature(u, v float64, p geom.Vec3) kernel.Curvature {
	k := s.key(p)
	if cached, ok := s.cache.Get(k); ok {
		return cached.(kernel.Curvature)
	}

	g := s.gradient(p)
	gl2 := g.LengthSq()
	if gl2 == 0 {
		return kernel.Curvature{}
	}
	gl := math.Sqrt(gl2)

	xx, yy, zz, xy, xz, yz := s.hessian(p)

	// Adjugate of the symmetric Hessian.
	axx := yy*zz - yz*yz
	ayy := xx*zz - xz*xz
	azz := xx*yy - xy*xy
	axy := xz*yz - xy*zz
	axz := xy*yz - xz*yy
	ayz := xy*xz - yz*xx

	gAdjG := g.X*g.X*axx + g.Y*g.Y*ayy + g.Z*g.Z*azz +
		2*(g.X*g.Y*axy+g.X*g.Z*axz+g.Y*g.Z*ayz)
	gauss := gAdjG / (gl2 * gl2)

	gHg := g.X*g.X*xx + g.Y*g.Y*yy + g.Z*g.Z*zz +
		2*(g.X*g.Y*xy+g.X*g.Z*xz+g.Y*g.Z*yz)
	mean := (gl2*(xx+yy+zz) - gHg) / (2 * gl2 * gl)

	disc := mean*mean - gauss
	if disc < 0 {
		disc = 0
	}
	root := math.Sqrt(disc)

	c := kernel.Curvature{
		Gaussian: gauss,
		Mean:     mean,
		Min:      mean - root,
		Max:      mean + root,
	}
	s.cache.Add(k, c)
	return c
}

// Classify always reports Unknown: the SDF chart has no trimmed boundary
// to classify against.
func (s *sdfSurface) Classify(u, v, tol float64) kernel.State {
	return kernel.StateUnknown
}
