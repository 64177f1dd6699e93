// Package trace is the query engine: it owns a tessellated shape, an
// acceleration backend built over it, and answers nearest-hit ray queries
// with fully resolved surface attributes.
package trace

import (
	"time"

	"go.uber.org/zap"

	"github.com/PozzettiAndrea/brepray/pkg/accel"
	_ "github.com/PozzettiAndrea/brepray/pkg/accel/vector" // register vector backends
	"github.com/PozzettiAndrea/brepray/pkg/geom"
	"github.com/PozzettiAndrea/brepray/pkg/kernel"
	"github.com/PozzettiAndrea/brepray/pkg/tessellate"
)

// Transition describes the ray's crossing sense at the hit point.
type Transition int

const (
	// TransitionIn means the ray enters the solid (dir against the normal).
	TransitionIn Transition = iota
	// TransitionOut means the ray exits the solid (dir along the normal).
	TransitionOut
	// TransitionTangent means the ray grazes the surface.
	TransitionTangent
)

// String returns the transition name.
func (t Transition) String() string {
	switch t {
	case TransitionIn:
		return "in"
	case TransitionOut:
		return "out"
	default:
		return "tangent"
	}
}

// tangentEpsilon bounds |dir·normal| below which a crossing counts as
// tangent. Both vectors are unit length.
const tangentEpsilon = 1e-9

// Hit is one fully resolved intersection record.
type Hit struct {
	Point      geom.Vec3
	U, V       float64
	W          float64 // ray parameter; distance for unit directions
	FaceIndex  int32
	Normal     geom.Vec3
	Transition Transition
	State      kernel.State
	Curvature  kernel.Curvature
}

// Raytracer binds a loaded shape to an acceleration backend and holds the
// result of the most recent Perform. Load, SetBackend and Perform require
// exclusive access; batch queries share the built structure read-only.
type Raytracer struct {
	store    *tessellate.Store
	backend  accel.Backend
	parallel bool
	log      *zap.Logger

	rebuild bool // backend must be rebuilt before the next query

	wantBackend accel.BackendID // requested via WithBackend, resolved in New

	done   bool
	hasHit bool
	hit    Hit
}

// Option configures a Raytracer at construction.
type Option func(*Raytracer)

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(rt *Raytracer) {
		rt.log = log
	}
}

// WithBackend selects the initial acceleration backend. An unavailable id
// surfaces as a BackendUnavailableError from New.
func WithBackend(id accel.BackendID) Option {
	return func(rt *Raytracer) {
		rt.wantBackend = id
	}
}

// WithParallel sets the initial batch parallelism mode.
func WithParallel(parallel bool) Option {
	return func(rt *Raytracer) {
		rt.parallel = parallel
	}
}

// New returns a Raytracer with no shape loaded, using the native BVH
// backend unless overridden.
func New(opts ...Option) (*Raytracer, error) {
	rt := &Raytracer{
		store:       tessellate.NewStore(),
		log:         zap.NewNop(),
		wantBackend: accel.NativeBVH,
	}
	for _, opt := range opts {
		opt(rt)
	}
	backend, err := accel.New(rt.wantBackend)
	if err != nil {
		return nil, &BackendUnavailableError{ID: rt.wantBackend, Err: err}
	}
	rt.backend = backend
	return rt, nil
}

// Load replaces the resident shape. The previous shape, its acceleration
// structure and the last result are discarded even when the load fails.
// The backend is rebuilt lazily before the next query.
func (rt *Raytracer) Load(shape *kernel.Shape, tolerance, deflection float64) error {
	rt.clearResult()
	rt.rebuild = true
	if err := rt.store.Load(shape, tolerance, deflection); err != nil {
		return &GeometryError{Err: err}
	}
	rt.log.Info("shape loaded",
		zap.Int("faces", rt.store.NumFaces()),
		zap.Int("triangles", len(rt.store.Triangles())),
		zap.Float64("deflection", deflection))
	return nil
}

// SetBackend switches the acceleration backend. The structure is rebuilt
// lazily before the next query; the loaded shape is untouched.
func (rt *Raytracer) SetBackend(id accel.BackendID) error {
	backend, err := accel.New(id)
	if err != nil {
		return &BackendUnavailableError{ID: id, Err: err}
	}
	rt.backend = backend
	rt.rebuild = true
	return nil
}

// Backend returns the id of the active backend.
func (rt *Raytracer) Backend() accel.BackendID {
	return rt.backend.ID()
}

// SetParallel toggles multi-goroutine batch dispatch.
func (rt *Raytracer) SetParallel(parallel bool) {
	rt.parallel = parallel
}

// Parallel reports whether batch queries fan out across goroutines.
func (rt *Raytracer) Parallel() bool {
	return rt.parallel
}

// IsLoaded reports whether a shape is resident.
func (rt *Raytracer) IsLoaded() bool {
	return rt.store.IsLoaded()
}

// Bounds returns the bounding box of the loaded triangles.
func (rt *Raytracer) Bounds() geom.AABB {
	return rt.store.Bounds()
}

// NumFaces returns the face count of the loaded shape, 0 when unloaded.
func (rt *Raytracer) NumFaces() int {
	return rt.store.NumFaces()
}

func (rt *Raytracer) clearResult() {
	rt.done = false
	rt.hasHit = false
	rt.hit = Hit{}
}

// ensureBuilt rebuilds the backend over the resident triangles if a load or
// backend switch invalidated it.
func (rt *Raytracer) ensureBuilt() {
	if !rt.rebuild {
		return
	}
	start := time.Now()
	rt.backend.Build(rt.store.Triangles())
	rt.rebuild = false
	rt.log.Debug("acceleration structure built",
		zap.Stringer("backend", rt.backend.ID()),
		zap.Int("triangles", len(rt.store.Triangles())),
		zap.Duration("elapsed", time.Since(start)))
}

// Perform casts a single ray and records the nearest hit within
// [tMin, tMax]. A miss is not an error: IsDone reports true and NumPoints
// zero. The ray direction should be unit length for W to be a distance;
// geom.NewRay normalizes.
func (rt *Raytracer) Perform(r geom.Ray, tMin, tMax float64) error {
	rt.clearResult()
	if !rt.store.IsLoaded() {
		return &NotLoadedError{Op: "Perform"}
	}
	rt.ensureBuilt()
	h, ok := rt.backend.Intersect(r, tMin, tMax)
	rt.done = true
	if ok {
		rt.hit = rt.resolve(r, h)
		rt.hasHit = true
	}
	return nil
}

// IsDone reports whether the last Perform completed. False before the
// first Perform and after Load or a Perform error.
func (rt *Raytracer) IsDone() bool {
	return rt.done
}

// NumPoints returns the number of recorded intersection points: 1 after a
// hit, 0 otherwise.
func (rt *Raytracer) NumPoints() int {
	if rt.hasHit {
		return 1
	}
	return 0
}

// Result returns the last hit record by value, and whether one exists.
func (rt *Raytracer) Result() (Hit, bool) {
	return rt.hit, rt.hasHit
}

func (rt *Raytracer) mustHit(op string) *Hit {
	if !rt.hasHit {
		panic("trace: " + op + " called with no intersection recorded")
	}
	return &rt.hit
}

// Point returns the intersection point. Panics when NumPoints is zero.
func (rt *Raytracer) Point() geom.Vec3 { return rt.mustHit("Point").Point }

// U returns the surface u parameter at the hit. Panics when NumPoints is zero.
func (rt *Raytracer) U() float64 { return rt.mustHit("U").U }

// V returns the surface v parameter at the hit. Panics when NumPoints is zero.
func (rt *Raytracer) V() float64 { return rt.mustHit("V").V }

// W returns the ray parameter at the hit. Panics when NumPoints is zero.
func (rt *Raytracer) W() float64 { return rt.mustHit("W").W }

// Normal returns the surface normal at the hit. Panics when NumPoints is zero.
func (rt *Raytracer) Normal() geom.Vec3 { return rt.mustHit("Normal").Normal }

// TransitionAt returns the crossing sense at the hit. Panics when NumPoints
// is zero.
func (rt *Raytracer) TransitionAt() Transition { return rt.mustHit("TransitionAt").Transition }

// State returns the boundary classification at the hit. Panics when
// NumPoints is zero.
func (rt *Raytracer) State() kernel.State { return rt.mustHit("State").State }

// CurvatureAt returns the surface curvature at the hit. Panics when
// NumPoints is zero.
func (rt *Raytracer) CurvatureAt() kernel.Curvature { return rt.mustHit("CurvatureAt").Curvature }

// FaceIndex returns the index of the face the hit triangle belongs to.
// Panics when NumPoints is zero.
func (rt *Raytracer) FaceIndex() int32 { return rt.mustHit("FaceIndex").FaceIndex }

// resolve turns a raw traversal hit into a full record: barycentric point
// and UV, surface-evaluated normal and curvature, boundary state at the
// load tolerance, and the crossing sense against the ray.
func (rt *Raytracer) resolve(r geom.Ray, h accel.Hit) Hit {
	tri := &rt.store.Triangles()[h.Tri]
	point := tri.BaryPoint(h.U, h.V)
	uv := tri.BaryUV(h.U, h.V)

	normal := tri.Normal()
	state := kernel.StateUnknown
	var curv kernel.Curvature
	if face := rt.store.Face(tri.Face); face != nil && face.Surface != nil {
		if n := face.Surface.Normal(uv.X, uv.Y, point); n.LengthSq() > 0 {
			normal = n
		}
		state = face.Surface.Classify(uv.X, uv.Y, rt.store.Tolerance())
		curv = face.Surface.Curvature(uv.X, uv.Y, point)
	}

	transition := TransitionTangent
	if d := r.Dir.Dot(normal); d < -tangentEpsilon {
		transition = TransitionIn
	} else if d > tangentEpsilon {
		transition = TransitionOut
	}

	return Hit{
		Point:      point,
		U:          uv.X,
		V:          uv.Y,
		W:          h.T,
		FaceIndex:  tri.Face,
		Normal:     normal,
		Transition: transition,
		State:      state,
		Curvature:  curv,
	}
}
