package prim

import (
	"math"

	"github.com/PozzettiAndrea/brepray/pkg/geom"
	"github.com/PozzettiAndrea/brepray/pkg/kernel"
)

// planeSurface is a rectangular planar face. UV are in-plane coordinates
// from origin along uAxis/vAxis, trimmed to [0,uMax] x [0,vMax].
type planeSurface struct {
	origin       geom.Vec3
	uAxis, vAxis geom.Vec3
	normal       geom.Vec3
	uMax, vMax   float64
}

func (p *planeSurface) Normal(u, v float64, pt geom.Vec3) geom.Vec3 {
	return p.normal
}

func (p *planeSurface) Curvature(u, v float64, pt geom.Vec3) kernel.Curvature {
	return kernel.Curvature{}
}

func (p *planeSurface) Classify(u, v, tol float64) kernel.State {
	if u < -tol || u > p.uMax+tol || v < -tol || v > p.vMax+tol {
		return kernel.StateOut
	}
	if u < tol || u > p.uMax-tol || v < tol || v > p.vMax-tol {
		return kernel.StateOn
	}
	return kernel.StateIn
}

// discSurface is a circular planar cap. UV are in-plane coordinates
// centered on the axis, trimmed to radius r.
type discSurface struct {
	center geom.Vec3
	normal geom.Vec3
	r      float64
}

func (d *discSurface) Normal(u, v float64, pt geom.Vec3) geom.Vec3 {
	return d.normal
}

func (d *discSurface) Curvature(u, v float64, pt geom.Vec3) kernel.Curvature {
	return kernel.Curvature{}
}

func (d *discSurface) Classify(u, v, tol float64) kernel.State {
	rho := math.Hypot(u, v)
	if rho > d.r+tol {
		return kernel.StateOut
	}
	if rho > d.r-tol {
		return kernel.StateOn
	}
	return kernel.StateIn
}

// sphereSurface is a full sphere. U is the azimuth in [0,2pi], V the
// colatitude in [0,pi] measured from +Z.
type sphereSurface struct {
	center geom.Vec3
	r      float64
}

func (s *sphereSurface) Normal(u, v float64, pt geom.Vec3) geom.Vec3 {
	return geom.V3(math.Sin(v)*math.Cos(u), math.Sin(v)*math.Sin(u), math.Cos(v))
}

func (s *sphereSurface) Curvature(u, v float64, pt geom.Vec3) kernel.Curvature {
	k := 1 / s.r
	return kernel.Curvature{Gaussian: 1 / (s.r * s.r), Mean: k, Min: k, Max: k}
}

func (s *sphereSurface) Classify(u, v, tol float64) kernel.State {
	// Closed surface: only the seam and the poles count as boundary.
	if v < tol || v > math.Pi-tol || u < tol || u > 2*math.Pi-tol {
		return kernel.StateOn
	}
	return kernel.StateIn
}

// cylinderSurface is the lateral wall of a Z-axis cylinder. U is the
// azimuth in [0,2pi], V the height above the bottom cap in [0,h].
type cylinderSurface struct {
	center geom.Vec3
	r, h   float64
}

func (c *cylinderSurface) Normal(u, v float64, pt geom.Vec3) geom.Vec3 {
	return geom.V3(math.Cos(u), math.Sin(u), 0)
}

func (c *cylinderSurface) Curvature(u, v float64, pt geom.Vec3) kernel.Curvature {
	k := 1 / c.r
	return kernel.Curvature{Gaussian: 0, Mean: k / 2, Min: 0, Max: k}
}

func (c *cylinderSurface) Classify(u, v, tol float64) kernel.State {
	if v < -tol || v > c.h+tol {
		return kernel.StateOut
	}
	if v < tol || v > c.h-tol || u < tol || u > 2*math.Pi-tol {
		return kernel.StateOn
	}
	return kernel.StateIn
}
