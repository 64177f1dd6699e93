package sdfx

import (
	"math"
	"testing"

	"github.com/PozzettiAndrea/brepray/pkg/geom"
)

func TestBoxBoundingBox(t *testing.T) {
	k := New()
	box := k.Box(100, 50, 25)
	min, max := box.BoundingBox()

	const tol = 0.01
	expectMin := geom.V3(0, 0, 0)
	expectMax := geom.V3(100, 50, 25)

	if min.Sub(expectMin).Length() > tol {
		t.Errorf("min = %+v, expected %+v", min, expectMin)
	}
	if max.Sub(expectMax).Length() > tol {
		t.Errorf("max = %+v, expected %+v", max, expectMax)
	}
}

func TestTranslate(t *testing.T) {
	k := New()
	box := k.Translate(k.Box(10, 10, 10), 100, 200, 300)
	min, max := box.BoundingBox()

	const tol = 0.5
	expectMin := geom.V3(100, 200, 300)
	expectMax := geom.V3(110, 210, 310)

	if min.Sub(expectMin).Length() > tol {
		t.Errorf("min = %+v, expected ~%+v", min, expectMin)
	}
	if max.Sub(expectMax).Length() > tol {
		t.Errorf("max = %+v, expected ~%+v", max, expectMax)
	}
}

func TestRotate(t *testing.T) {
	k := New()
	// A long box along X rotated 90 degrees around Z extends along Y.
	rotated := k.Rotate(k.Box(100, 10, 10), 0, 0, 90)
	min, max := rotated.BoundingBox()

	xExtent := max.X - min.X
	yExtent := max.Y - min.Y

	const tol = 1.0
	if math.Abs(xExtent-10) > tol {
		t.Errorf("rotated X extent = %f, expected ~10", xExtent)
	}
	if math.Abs(yExtent-100) > tol {
		t.Errorf("rotated Y extent = %f, expected ~100", yExtent)
	}
}

func TestTessellateBox(t *testing.T) {
	k := New()
	shape, err := k.Tessellate(k.Box(100, 100, 50), 0.5)
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if shape.NumFaces() != 1 {
		t.Fatalf("expected a single face, got %d", shape.NumFaces())
	}
	if shape.TriangleCount() == 0 {
		t.Fatal("expected non-zero triangle count")
	}
	t.Logf("box triangle count: %d", shape.TriangleCount())

	// All triangles must stay near the box volume.
	bounds := shape.Bounds()
	const slack = 2.0
	if bounds.Min.X < -slack || bounds.Max.X > 100+slack ||
		bounds.Min.Z < -slack || bounds.Max.Z > 50+slack {
		t.Errorf("tessellation escapes the box: %+v", bounds)
	}
}

func TestTessellateRejectsBadDeflection(t *testing.T) {
	k := New()
	if _, err := k.Tessellate(k.Sphere(10), 0); err == nil {
		t.Fatal("expected an error for zero deflection")
	}
	if _, err := k.Tessellate(k.Sphere(10), -1); err == nil {
		t.Fatal("expected an error for negative deflection")
	}
}

func TestDifference(t *testing.T) {
	k := New()
	box := k.Translate(k.Box(100, 100, 100), -50, -50, -50)
	cyl := k.Cylinder(120, 20)
	diff := k.Difference(box, cyl)

	boxShape, err := k.Tessellate(box, 1)
	if err != nil {
		t.Fatalf("Tessellate(box) failed: %v", err)
	}
	diffShape, err := k.Tessellate(diff, 1)
	if err != nil {
		t.Fatalf("Tessellate(diff) failed: %v", err)
	}
	// A box with a hole needs more triangles than a plain box.
	if diffShape.TriangleCount() <= boxShape.TriangleCount() {
		t.Fatalf("difference (%d triangles) should exceed box (%d triangles)",
			diffShape.TriangleCount(), boxShape.TriangleCount())
	}
}

func TestUnion(t *testing.T) {
	k := New()
	u := k.Union(k.Box(50, 50, 50), k.Translate(k.Box(50, 50, 50), 30, 0, 0))
	shape, err := k.Tessellate(u, 1)
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if shape.TriangleCount() == 0 {
		t.Fatal("union tessellation is empty")
	}
	min, max := u.BoundingBox()
	if max.X-min.X < 75 {
		t.Errorf("union X extent = %f, expected ~80", max.X-min.X)
	}
}

func TestSphereSurfaceNormal(t *testing.T) {
	k := New()
	shape, err := k.Tessellate(k.Sphere(10), 0.2)
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	surf := shape.Faces[0].Surface

	// The field normal at a surface point is the outward radial direction.
	points := []geom.Vec3{
		geom.V3(10, 0, 0),
		geom.V3(0, 10, 0),
		geom.V3(0, 0, -10),
		geom.V3(10, 10, 0).Normalize().Mul(10),
	}
	for _, p := range points {
		n := surf.Normal(0, 0, p)
		want := p.Normalize()
		if n.Sub(want).Length() > 1e-3 {
			t.Errorf("Normal at %+v = %+v, expected %+v", p, n, want)
		}
	}
}

func TestSphereSurfaceCurvature(t *testing.T) {
	k := New()
	const r = 10.0
	shape, err := k.Tessellate(k.Sphere(r), 0.2)
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	surf := shape.Faces[0].Surface

	c := surf.Curvature(0, 0, geom.V3(r, 0, 0))
	// A convex sphere has mean curvature 1/r and Gaussian 1/r^2.
	if math.Abs(c.Mean-1/r) > 0.1/r {
		t.Errorf("Mean = %f, expected ~%f", c.Mean, 1/r)
	}
	if math.Abs(c.Gaussian-1/(r*r)) > 0.1/(r*r) {
		t.Errorf("Gaussian = %f, expected ~%f", c.Gaussian, 1/(r*r))
	}
	if c.Max < c.Min {
		t.Errorf("Max %f < Min %f", c.Max, c.Min)
	}
}
