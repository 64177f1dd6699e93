package trace_test

import (
	"errors"
	"math"
	"testing"

	"github.com/PozzettiAndrea/brepray/pkg/kernel/prim"
	"github.com/PozzettiAndrea/brepray/pkg/trace"
)

// loadedPlate loads a 100 x 50 horizontal plate at height 30.
func loadedPlate(t *testing.T, opts ...trace.Option) *trace.Raytracer {
	t.Helper()
	k := prim.New()
	shape, err := k.Tessellate(k.Plate(100, 50, 30), 0.5)
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	rt, err := trace.New(opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := rt.Load(shape, 1e-6, 0.5); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return rt
}

func TestOrthoPlateDepth(t *testing.T) {
	rt := loadedPlate(t)

	// Frame wider than the plate so the border pixels miss. Viewed from
	// offset 100 along Z, every covered pixel is at ray distance 70.
	const offset = 100.0
	maps, err := rt.RenderOrthographic(64, 32, [4]float64{-10, -10, 110, 60}, trace.AxisZ, offset)
	if err != nil {
		t.Fatalf("RenderOrthographic failed: %v", err)
	}
	if maps.Width != 64 || maps.Height != 32 {
		t.Fatalf("maps are %dx%d", maps.Width, maps.Height)
	}

	covered, missed := 0, 0
	for i, d := range maps.Depth {
		if math.IsNaN(float64(d)) {
			missed++
			if maps.FaceIDs[i] != -1 {
				t.Fatalf("pixel %d: missed with face id %d", i, maps.FaceIDs[i])
			}
			if !math.IsNaN(float64(maps.Normals[3*i])) {
				t.Fatalf("pixel %d: missed with normal set", i)
			}
			continue
		}
		covered++
		if math.Abs(float64(d)-(offset-30)) > 1e-4 {
			t.Fatalf("pixel %d: depth = %g, expected %g", i, d, offset-30.0)
		}
		if maps.FaceIDs[i] != 0 {
			t.Fatalf("pixel %d: face id = %d, expected 0", i, maps.FaceIDs[i])
		}
		if maps.Normals[3*i+2] != 1 {
			t.Fatalf("pixel %d: normal Z = %g, expected 1", i, maps.Normals[3*i+2])
		}
	}
	if covered == 0 || missed == 0 {
		t.Fatalf("covered=%d missed=%d; frame should contain both", covered, missed)
	}
	t.Logf("%d covered, %d missed", covered, missed)
}

func TestOrthoAxes(t *testing.T) {
	rt := loadedBox(t)

	// The box is 100 x 100 x 50; along each axis the frame covers it fully,
	// so the center pixel always hits.
	cases := []struct {
		axis   trace.Axis
		bounds [4]float64
		offset float64
		depth  float64
	}{
		{trace.AxisZ, [4]float64{0, 0, 100, 100}, 100, 50}, // hits z=50
		{trace.AxisY, [4]float64{0, 0, 100, 50}, 200, 100}, // hits y=100
		{trace.AxisX, [4]float64{0, 0, 100, 50}, 150, 50},  // hits x=100
	}
	for _, tc := range cases {
		maps, err := rt.RenderOrthographic(9, 9, tc.bounds, tc.axis, tc.offset)
		if err != nil {
			t.Fatalf("axis %s: RenderOrthographic failed: %v", tc.axis, err)
		}
		center := maps.Depth[4*9+4]
		if math.IsNaN(float64(center)) {
			t.Fatalf("axis %s: center pixel missed", tc.axis)
		}
		if math.Abs(float64(center)-tc.depth) > 1e-4 {
			t.Errorf("axis %s: center depth = %g, expected %g", tc.axis, center, tc.depth)
		}
	}
}

func TestOrthoSinglePixel(t *testing.T) {
	rt := loadedPlate(t)
	// A 1x1 render samples (umin, vmax): (50, 25) is inside the plate.
	maps, err := rt.RenderOrthographic(1, 1, [4]float64{50, 0, 100, 25}, trace.AxisZ, 100)
	if err != nil {
		t.Fatalf("RenderOrthographic failed: %v", err)
	}
	if math.IsNaN(float64(maps.Depth[0])) {
		t.Fatal("single pixel missed the plate")
	}
	if math.Abs(float64(maps.Depth[0])-70) > 1e-4 {
		t.Errorf("depth = %g, expected 70", maps.Depth[0])
	}
}

func TestOrthoRejectsBadResolution(t *testing.T) {
	rt := loadedPlate(t)
	var mismatch *trace.ShapeMismatchError

	_, err := rt.RenderOrthographic(0, 10, [4]float64{0, 0, 1, 1}, trace.AxisZ, 100)
	if !errors.As(err, &mismatch) {
		t.Errorf("zero width: err = %v, expected ShapeMismatchError", err)
	}
	_, err = rt.RenderOrthographic(10, -1, [4]float64{0, 0, 1, 1}, trace.AxisZ, 100)
	if !errors.As(err, &mismatch) {
		t.Errorf("negative height: err = %v, expected ShapeMismatchError", err)
	}
}

func TestOrthoRejectsOverflowingResolution(t *testing.T) {
	rt := loadedPlate(t)
	_, err := rt.RenderOrthographic(1<<20, 1<<20, [4]float64{0, 0, 1, 1}, trace.AxisZ, 100)
	var alloc *trace.AllocationError
	if !errors.As(err, &alloc) {
		t.Errorf("err = %v, expected AllocationError", err)
	}
}

func TestOrthoBeforeLoad(t *testing.T) {
	rt, err := trace.New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	_, err = rt.RenderOrthographic(4, 4, [4]float64{0, 0, 1, 1}, trace.AxisZ, 100)
	var notLoaded *trace.NotLoadedError
	if !errors.As(err, &notLoaded) {
		t.Fatalf("err = %v, expected NotLoadedError", err)
	}
}

func TestParseAxis(t *testing.T) {
	cases := []struct {
		name string
		want trace.Axis
	}{
		{"x", trace.AxisX},
		{"Y", trace.AxisY},
		{"z", trace.AxisZ},
		{"", trace.AxisZ},
	}
	for _, tc := range cases {
		got, err := trace.ParseAxis(tc.name)
		if err != nil {
			t.Errorf("ParseAxis(%q) failed: %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseAxis(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
	if _, err := trace.ParseAxis("w"); err == nil {
		t.Error("expected an error for an unknown axis")
	}
}
