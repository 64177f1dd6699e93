package kernel

import "github.com/PozzettiAndrea/brepray/pkg/geom"

// State classifies a surface parameter point relative to the face boundary.
type State int

const (
	StateUnknown State = iota
	StateIn            // strictly inside the face's parametric domain
	StateOn            // on the boundary, within tolerance
	StateOut           // outside the trimmed domain
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIn:
		return "in"
	case StateOn:
		return "on"
	case StateOut:
		return "out"
	default:
		return "unknown"
	}
}

// Curvature holds the four curvature scalars evaluated at a surface point.
type Curvature struct {
	Gaussian float64
	Mean     float64
	Min      float64
	Max      float64
}

// Surface evaluates geometric attributes of a face at surface parameters
// (u, v). The 3D point p of the evaluation is passed alongside for
// implementations (such as implicit surfaces) that have no closed-form
// inverse parametrization.
type Surface interface {
	// Normal returns the outward unit normal at (u, v).
	Normal(u, v float64, p geom.Vec3) geom.Vec3

	// Curvature returns the curvature scalars at (u, v).
	Curvature(u, v float64, p geom.Vec3) Curvature

	// Classify locates (u, v) relative to the face boundary using the
	// given tolerance in parameter space.
	Classify(u, v, tol float64) State
}
