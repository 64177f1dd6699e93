package kernel

import (
	"testing"

	"github.com/PozzettiAndrea/brepray/pkg/geom"
)

// --- Shape helper method tests ---

func oneTriangle() []geom.Triangle {
	return []geom.Triangle{
		{V0: geom.V3(0, 0, 0), V1: geom.V3(1, 0, 0), V2: geom.V3(0, 1, 0)},
	}
}

func TestShapeNumFaces(t *testing.T) {
	tests := []struct {
		name  string
		faces []Face
		want  int
	}{
		{"empty", nil, 0},
		{"one face", []Face{{}}, 1},
		{"three faces", []Face{{}, {}, {}}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Shape{Faces: tt.faces}
			if got := s.NumFaces(); got != tt.want {
				t.Errorf("NumFaces() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestShapeTriangleCount(t *testing.T) {
	tests := []struct {
		name  string
		faces []Face
		want  int
	}{
		{"empty", nil, 0},
		{"one triangle", []Face{{Triangles: oneTriangle()}}, 1},
		{"split across faces", []Face{
			{Triangles: oneTriangle()},
			{},
			{Triangles: append(oneTriangle(), oneTriangle()...)},
		}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Shape{Faces: tt.faces}
			if got := s.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestShapeIsTessellated(t *testing.T) {
	t.Run("bare faces", func(t *testing.T) {
		s := &Shape{Faces: []Face{{}}}
		if s.IsTessellated() {
			t.Error("IsTessellated() = true for a shape with no triangles")
		}
	})
	t.Run("with triangles", func(t *testing.T) {
		s := &Shape{Faces: []Face{{Triangles: oneTriangle()}}}
		if !s.IsTessellated() {
			t.Error("IsTessellated() = false for a tessellated shape")
		}
	})
}

func TestShapeBounds(t *testing.T) {
	s := &Shape{Faces: []Face{
		{Triangles: oneTriangle()},
		{Triangles: []geom.Triangle{
			{V0: geom.V3(-1, 0, 2), V1: geom.V3(0, 3, 2), V2: geom.V3(0, 0, 5)},
		}},
	}}
	b := s.Bounds()
	if b.Min != geom.V3(-1, 0, 0) || b.Max != geom.V3(1, 3, 5) {
		t.Errorf("Bounds() = %+v", b)
	}
}

// --- State string forms ---

func TestStateString(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{StateIn, "in"},
		{StateOn, "on"},
		{StateOut, "out"},
		{StateUnknown, "unknown"},
		{State(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}

// --- Compile-time interface check with a stub kernel ---

type stubSolid struct {
	min, max geom.Vec3
}

func (s *stubSolid) BoundingBox() (min, max geom.Vec3) {
	return s.min, s.max
}

// stubKernel proves the interface is satisfiable without geometry deps.
type stubKernel struct{}

func (k *stubKernel) Box(x, y, z float64) Solid {
	return &stubSolid{max: geom.V3(x, y, z)}
}

func (k *stubKernel) Sphere(radius float64) Solid {
	e := geom.V3(radius, radius, radius)
	return &stubSolid{min: e.Mul(-1), max: e}
}

func (k *stubKernel) Cylinder(height, radius float64) Solid {
	return &stubSolid{
		min: geom.V3(-radius, -radius, -height/2),
		max: geom.V3(radius, radius, height/2),
	}
}

func (k *stubKernel) Translate(s Solid, x, y, z float64) Solid {
	v := s.(*stubSolid)
	d := geom.V3(x, y, z)
	return &stubSolid{min: v.min.Add(d), max: v.max.Add(d)}
}

func (k *stubKernel) Tessellate(_ Solid, deflection float64) (*Shape, error) {
	return &Shape{Deflection: deflection}, nil
}

var _ Solid = (*stubSolid)(nil)
var _ Kernel = (*stubKernel)(nil)

func TestStubKernelBoxBoundingBox(t *testing.T) {
	var k Kernel = &stubKernel{}
	min, max := k.Box(10, 20, 30).BoundingBox()
	if min != geom.V3(0, 0, 0) {
		t.Errorf("Box min = %v, want origin", min)
	}
	if max != geom.V3(10, 20, 30) {
		t.Errorf("Box max = %v, want (10, 20, 30)", max)
	}
}

func TestStubKernelTessellate(t *testing.T) {
	var k Kernel = &stubKernel{}
	s, err := k.Tessellate(k.Box(1, 1, 1), 0.5)
	if err != nil {
		t.Fatalf("Tessellate() error = %v", err)
	}
	if s == nil || s.IsTessellated() {
		t.Error("stub Tessellate() should return an empty shape")
	}
	if s.Deflection != 0.5 {
		t.Errorf("Deflection = %g, want 0.5", s.Deflection)
	}
}
