package geom

import (
	"math"
	"testing"
)

func TestAABBHit(t *testing.T) {
	b := AABB{Min: V3(0, 0, 0), Max: V3(1, 1, 1)}

	cases := []struct {
		name string
		r    Ray
		want bool
	}{
		{"through center", NewRay(V3(0.5, 0.5, 2), V3(0, 0, -1)), true},
		{"from inside", NewRay(V3(0.5, 0.5, 0.5), V3(1, 0, 0)), true},
		{"away from box", NewRay(V3(0.5, 0.5, 2), V3(0, 0, 1)), false},
		{"beside box", NewRay(V3(2, 2, 2), V3(0, 0, -1)), false},
		{"diagonal", NewRay(V3(-1, -1, -1), V3(1, 1, 1)), true},
		{"axis parallel outside slab", NewRay(V3(2, 0.5, 2), V3(0, 0, -1)), false},
	}
	for _, tc := range cases {
		if got := b.Hit(tc.r, 0, math.Inf(1)); got != tc.want {
			t.Errorf("%s: Hit = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestAABBHitWindow(t *testing.T) {
	b := AABB{Min: V3(0, 0, 0), Max: V3(1, 1, 1)}
	r := NewRay(V3(0.5, 0.5, 5), V3(0, 0, -1))

	// The box spans t in [4, 5] along this ray.
	if b.Hit(r, 0, 3) {
		t.Error("box beyond tMax should be rejected")
	}
	if !b.Hit(r, 0, 4.5) {
		t.Error("box straddling tMax should be accepted")
	}
	if b.Hit(r, 6, math.Inf(1)) {
		t.Error("box before tMin should be rejected")
	}
}

func TestAABBHitInvMatchesHit(t *testing.T) {
	b := AABB{Min: V3(-2, 1, 0), Max: V3(3, 4, 2)}
	rays := []Ray{
		NewRay(V3(0, 2, 5), V3(0, 0, -1)),
		NewRay(V3(-5, 0, 0), V3(1, 1, 0.5)),
		NewRay(V3(0, 2, 1), V3(1, 0, 0)),
		NewRay(V3(10, 10, 10), V3(1, 0, 0)),
	}
	for i, r := range rays {
		inv := V3(1/r.Dir.X, 1/r.Dir.Y, 1/r.Dir.Z)
		want := b.Hit(r, 0, math.Inf(1))
		got := b.HitInv(r.Origin, inv, 0, math.Inf(1))
		if got != want {
			t.Errorf("ray %d: HitInv = %v, Hit = %v", i, got, want)
		}
	}
}

func TestAABBUnionExtend(t *testing.T) {
	b := EmptyAABB()
	if b.IsValid() {
		t.Error("empty box should be invalid")
	}
	b = b.Extend(V3(1, 2, 3))
	b = b.Extend(V3(-1, 0, 5))
	if !b.IsValid() {
		t.Fatal("box with points should be valid")
	}
	if b.Min != V3(-1, 0, 3) || b.Max != V3(1, 2, 5) {
		t.Errorf("bounds = %+v", b)
	}

	u := b.Union(AABB{Min: V3(0, -4, 0), Max: V3(0, -4, 0)})
	if u.Min != V3(-1, -4, 0) || u.Max != V3(1, 2, 5) {
		t.Errorf("union = %+v", u)
	}
}

func TestAABBLongestAxis(t *testing.T) {
	cases := []struct {
		b    AABB
		want int
	}{
		{AABB{Min: V3(0, 0, 0), Max: V3(5, 1, 1)}, 0},
		{AABB{Min: V3(0, 0, 0), Max: V3(1, 5, 1)}, 1},
		{AABB{Min: V3(0, 0, 0), Max: V3(1, 1, 5)}, 2},
	}
	for i, tc := range cases {
		if got := tc.b.LongestAxis(); got != tc.want {
			t.Errorf("case %d: LongestAxis = %d, want %d", i, got, tc.want)
		}
	}
}
