// Package prim implements the kernel.Kernel interface with exact analytic
// primitives. Tessellations place every vertex on the true surface and each
// face carries a closed-form Surface, so hit attributes (normal, curvature,
// boundary state) are exact rather than finite-difference approximations.
package prim

import (
	"fmt"
	"math"

	"github.com/PozzettiAndrea/brepray/pkg/geom"
	"github.com/PozzettiAndrea/brepray/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Kernel = (*Kernel)(nil)

// minSegments keeps very coarse deflections from collapsing curved faces.
const minSegments = 8

// Kernel implements kernel.Kernel with analytic primitives.
type Kernel struct{}

// New returns a new analytic primitive kernel.
func New() *Kernel {
	return &Kernel{}
}

type boxSolid struct {
	dx, dy, dz float64
	off        geom.Vec3
}

func (s *boxSolid) BoundingBox() (min, max geom.Vec3) {
	return s.off, s.off.Add(geom.V3(s.dx, s.dy, s.dz))
}

type sphereSolid struct {
	r      float64
	center geom.Vec3
}

func (s *sphereSolid) BoundingBox() (min, max geom.Vec3) {
	e := geom.V3(s.r, s.r, s.r)
	return s.center.Sub(e), s.center.Add(e)
}

type cylinderSolid struct {
	h, r   float64
	center geom.Vec3
}

func (s *cylinderSolid) BoundingBox() (min, max geom.Vec3) {
	e := geom.V3(s.r, s.r, s.h/2)
	return s.center.Sub(e), s.center.Add(e)
}

type plateSolid struct {
	dx, dy float64
	off    geom.Vec3 // min corner, at the plate height
}

func (s *plateSolid) BoundingBox() (min, max geom.Vec3) {
	return s.off, s.off.Add(geom.V3(s.dx, s.dy, 0))
}

// Box creates a box with its minimum corner at the origin, so placement
// translations work intuitively.
func (k *Kernel) Box(x, y, z float64) kernel.Solid {
	return &boxSolid{dx: x, dy: y, dz: z}
}

// Sphere creates a sphere centered at the origin.
func (k *Kernel) Sphere(radius float64) kernel.Solid {
	return &sphereSolid{r: radius}
}

// Cylinder creates a Z-axis cylinder centered at the origin.
func (k *Kernel) Cylinder(height, radius float64) kernel.Solid {
	return &cylinderSolid{h: height, r: radius}
}

// Plate creates a single rectangular face of size x by y lying in the
// horizontal plane at height z, minimum corner at (0, 0, z).
func (k *Kernel) Plate(x, y, z float64) kernel.Solid {
	return &plateSolid{dx: x, dy: y, off: geom.V3(0, 0, z)}
}

// Translate moves a solid by (x, y, z).
func (k *Kernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	d := geom.V3(x, y, z)
	switch v := s.(type) {
	case *boxSolid:
		return &boxSolid{dx: v.dx, dy: v.dy, dz: v.dz, off: v.off.Add(d)}
	case *sphereSolid:
		return &sphereSolid{r: v.r, center: v.center.Add(d)}
	case *cylinderSolid:
		return &cylinderSolid{h: v.h, r: v.r, center: v.center.Add(d)}
	case *plateSolid:
		return &plateSolid{dx: v.dx, dy: v.dy, off: v.off.Add(d)}
	default:
		panic(fmt.Sprintf("prim: foreign solid %T", s))
	}
}

// Tessellate discretizes a prim solid. Planar faces are exact regardless of
// deflection; curved faces are segmented so the chordal sag stays within it.
func (k *Kernel) Tessellate(s kernel.Solid, deflection float64) (*kernel.Shape, error) {
	if deflection <= 0 {
		return nil, fmt.Errorf("prim: deflection must be positive, got %g", deflection)
	}
	switch v := s.(type) {
	case *boxSolid:
		return tessellateBox(v, deflection), nil
	case *sphereSolid:
		return tessellateSphere(v, deflection), nil
	case *cylinderSolid:
		return tessellateCylinder(v, deflection), nil
	case *plateSolid:
		return tessellatePlate(v, deflection), nil
	default:
		return nil, fmt.Errorf("prim: foreign solid %T", s)
	}
}

// arcSegments returns the segment count covering an arc of the given angle
// on a circle of radius r so that the chord sag stays within deflection.
func arcSegments(angle, r, deflection float64) int {
	if deflection >= r {
		return minSegments
	}
	step := 2 * math.Acos(1-deflection/r)
	n := int(math.Ceil(angle / step))
	if n < minSegments {
		n = minSegments
	}
	return n
}

// quadFace builds a rectangular planar face spanning uMax by vMax from
// origin along the given in-plane axes. uAxis x vAxis must point outward.
func quadFace(origin, uAxis, vAxis geom.Vec3, uMax, vMax float64) kernel.Face {
	c0 := origin
	c1 := origin.Add(uAxis.Mul(uMax))
	c2 := origin.Add(uAxis.Mul(uMax)).Add(vAxis.Mul(vMax))
	c3 := origin.Add(vAxis.Mul(vMax))

	uv0 := geom.Vec2{X: 0, Y: 0}
	uv1 := geom.Vec2{X: uMax, Y: 0}
	uv2 := geom.Vec2{X: uMax, Y: vMax}
	uv3 := geom.Vec2{X: 0, Y: vMax}

	return kernel.Face{
		Surface: &planeSurface{
			origin: origin,
			uAxis:  uAxis,
			vAxis:  vAxis,
			normal: uAxis.Cross(vAxis),
			uMax:   uMax,
			vMax:   vMax,
		},
		Triangles: []geom.Triangle{
			{V0: c0, V1: c1, V2: c2, UV0: uv0, UV1: uv1, UV2: uv2},
			{V0: c0, V1: c2, V2: c3, UV0: uv0, UV1: uv2, UV2: uv3},
		},
	}
}

func tessellateBox(b *boxSolid, deflection float64) *kernel.Shape {
	o := b.off
	ex := geom.V3(1, 0, 0)
	ey := geom.V3(0, 1, 0)
	ez := geom.V3(0, 0, 1)

	faces := []kernel.Face{
		quadFace(o, ez, ey, b.dz, b.dy),                   // -X
		quadFace(o.Add(ex.Mul(b.dx)), ey, ez, b.dy, b.dz), // +X
		quadFace(o, ex, ez, b.dx, b.dz),                   // -Y
		quadFace(o.Add(ey.Mul(b.dy)), ez, ex, b.dz, b.dx), // +Y
		quadFace(o, ey, ex, b.dy, b.dx),                   // -Z
		quadFace(o.Add(ez.Mul(b.dz)), ex, ey, b.dx, b.dy), // +Z
	}
	return &kernel.Shape{Faces: faces, Deflection: deflection}
}

func tessellatePlate(p *plateSolid, deflection float64) *kernel.Shape {
	face := quadFace(p.off, geom.V3(1, 0, 0), geom.V3(0, 1, 0), p.dx, p.dy)
	return &kernel.Shape{Faces: []kernel.Face{face}, Deflection: deflection}
}

func tessellateSphere(s *sphereSolid, deflection float64) *kernel.Shape {
	nu := arcSegments(2*math.Pi, s.r, deflection)
	nv := arcSegments(math.Pi, s.r, deflection)
	if nv < minSegments/2 {
		nv = minSegments / 2
	}

	// Grid of (nu+1) x (nv+1) vertices; the seam column and the poles are
	// duplicated so UV interpolation stays continuous per triangle.
	type gridPt struct {
		p  geom.Vec3
		uv geom.Vec2
	}
	at := func(i, j int) gridPt {
		theta := 2 * math.Pi * float64(i) / float64(nu)
		phi := math.Pi * float64(j) / float64(nv)
		dir := geom.V3(math.Sin(phi)*math.Cos(theta), math.Sin(phi)*math.Sin(theta), math.Cos(phi))
		return gridPt{p: s.center.Add(dir.Mul(s.r)), uv: geom.Vec2{X: theta, Y: phi}}
	}

	var tris []geom.Triangle
	for j := 0; j < nv; j++ {
		for i := 0; i < nu; i++ {
			a := at(i, j)
			b := at(i+1, j)
			c := at(i+1, j+1)
			d := at(i, j+1)
			if j > 0 {
				tris = append(tris, geom.Triangle{
					V0: a.p, V1: c.p, V2: b.p,
					UV0: a.uv, UV1: c.uv, UV2: b.uv,
				})
			}
			if j < nv-1 {
				tris = append(tris, geom.Triangle{
					V0: a.p, V1: d.p, V2: c.p,
					UV0: a.uv, UV1: d.uv, UV2: c.uv,
				})
			}
		}
	}

	face := kernel.Face{
		Surface:   &sphereSurface{center: s.center, r: s.r},
		Triangles: tris,
	}
	return &kernel.Shape{Faces: []kernel.Face{face}, Deflection: deflection}
}

func tessellateCylinder(c *cylinderSolid, deflection float64) *kernel.Shape {
	nu := arcSegments(2*math.Pi, c.r, deflection)
	zBot := c.center.Z - c.h/2
	zTop := c.center.Z + c.h/2

	ring := func(i int) (geom.Vec3, float64) {
		theta := 2 * math.Pi * float64(i) / float64(nu)
		return geom.V3(c.center.X+c.r*math.Cos(theta), c.center.Y+c.r*math.Sin(theta), 0), theta
	}

	// Lateral face: UV = (theta, height above the bottom cap).
	var lateral []geom.Triangle
	for i := 0; i < nu; i++ {
		p0, th0 := ring(i)
		p1, th1 := ring(i + 1)
		a := geom.V3(p0.X, p0.Y, zBot)
		b := geom.V3(p1.X, p1.Y, zBot)
		cc := geom.V3(p1.X, p1.Y, zTop)
		d := geom.V3(p0.X, p0.Y, zTop)
		uvA := geom.Vec2{X: th0, Y: 0}
		uvB := geom.Vec2{X: th1, Y: 0}
		uvC := geom.Vec2{X: th1, Y: c.h}
		uvD := geom.Vec2{X: th0, Y: c.h}
		lateral = append(lateral,
			geom.Triangle{V0: a, V1: b, V2: cc, UV0: uvA, UV1: uvB, UV2: uvC},
			geom.Triangle{V0: a, V1: cc, V2: d, UV0: uvA, UV1: uvC, UV2: uvD},
		)
	}

	// Caps: triangle fans with planar UVs centered on the axis.
	capFace := func(z float64, top bool) kernel.Face {
		center := geom.V3(c.center.X, c.center.Y, z)
		normal := geom.V3(0, 0, 1)
		if !top {
			normal = geom.V3(0, 0, -1)
		}
		var tris []geom.Triangle
		for i := 0; i < nu; i++ {
			p0, _ := ring(i)
			p1, _ := ring(i + 1)
			a := geom.V3(p0.X, p0.Y, z)
			b := geom.V3(p1.X, p1.Y, z)
			uv := func(p geom.Vec3) geom.Vec2 {
				return geom.Vec2{X: p.X - center.X, Y: p.Y - center.Y}
			}
			if top {
				tris = append(tris, geom.Triangle{
					V0: center, V1: a, V2: b,
					UV0: geom.Vec2{}, UV1: uv(a), UV2: uv(b),
				})
			} else {
				tris = append(tris, geom.Triangle{
					V0: center, V1: b, V2: a,
					UV0: geom.Vec2{}, UV1: uv(b), UV2: uv(a),
				})
			}
		}
		return kernel.Face{
			Surface: &discSurface{
				center: center,
				normal: normal,
				r:      c.r,
			},
			Triangles: tris,
		}
	}

	faces := []kernel.Face{
		{Surface: &cylinderSurface{center: c.center, r: c.r, h: c.h}, Triangles: lateral},
		capFace(zTop, true),
		capFace(zBot, false),
	}
	return &kernel.Shape{Faces: faces, Deflection: deflection}
}
