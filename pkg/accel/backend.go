// Package accel defines the acceleration backend abstraction: a backend is
// built once over the loaded triangle set and answers nearest-hit ray
// queries against it. Backends register themselves by id, driver style, so
// a build that omits a backend's package simply reports it unavailable.
package accel

import (
	"errors"
	"fmt"
	"sort"

	"github.com/PozzettiAndrea/brepray/pkg/geom"
)

// BackendID selects an acceleration/traversal implementation.
type BackendID int

const (
	// NativeBVH is the built-in pointer-based BVH.
	NativeBVH BackendID = iota
	// VectorScalar is the flattened-array accelerator, one ray at a time.
	VectorScalar
	// VectorSIMD4 traverses packets of 4 rays against the flattened array.
	VectorSIMD4
	// VectorSIMD8 traverses packets of 8 rays against the flattened array.
	VectorSIMD8
)

// String returns the backend name.
func (id BackendID) String() string {
	switch id {
	case NativeBVH:
		return "native"
	case VectorScalar:
		return "vector"
	case VectorSIMD4:
		return "vector-simd4"
	case VectorSIMD8:
		return "vector-simd8"
	default:
		return fmt.Sprintf("backend(%d)", int(id))
	}
}

// ParseBackendID resolves a backend name as used in configuration files.
func ParseBackendID(name string) (BackendID, error) {
	switch name {
	case "native", "":
		return NativeBVH, nil
	case "vector", "vector-scalar":
		return VectorScalar, nil
	case "vector-simd4", "simd4":
		return VectorSIMD4, nil
	case "vector-simd8", "simd8":
		return VectorSIMD8, nil
	default:
		return 0, fmt.Errorf("accel: unknown backend %q", name)
	}
}

// Hit is a raw traversal result: the index of the intersected triangle in
// the slice passed to Build, the ray parameter, and the barycentric
// coordinates of the hit on that triangle.
type Hit struct {
	Tri  int32
	T    float64
	U, V float64
}

// Backend is the acceleration strategy interface. Build is called once per
// shape load (and again after a backend switch); the built structure is
// read-only afterwards, so Intersect is safe to call concurrently.
type Backend interface {
	ID() BackendID

	// Build constructs the acceleration structure over the triangle set.
	// Degenerate triangles are excluded from the hierarchy.
	Build(tris []geom.Triangle)

	// Intersect returns the nearest hit along the ray within [tMin, tMax].
	Intersect(r geom.Ray, tMin, tMax float64) (Hit, bool)
}

// Packet is an optional capability: traversing a fixed-width bundle of rays
// together. Per-lane results must be identical to Intersect on each ray.
type Packet interface {
	Backend

	// Width returns the packet lane count.
	Width() int

	// IntersectPacket resolves up to Width rays at once, writing hits[i]
	// and oks[i] for each lane. Slices may be shorter than Width.
	IntersectPacket(rays []geom.Ray, tMin, tMax float64, hits []Hit, oks []bool)
}

// ErrUnavailable reports a backend whose implementation is not linked into
// the binary.
var ErrUnavailable = errors.New("accel: backend not available")

var registry = map[BackendID]func() Backend{}

// Register makes a backend constructor available under the given id.
// Typically called from a package init.
func Register(id BackendID, factory func() Backend) {
	registry[id] = factory
}

// New constructs the backend registered under id, or ErrUnavailable.
func New(id BackendID) (Backend, error) {
	factory, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, id)
	}
	return factory(), nil
}

// Available lists the registered backend ids in ascending order.
func Available() []BackendID {
	ids := make([]BackendID, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
