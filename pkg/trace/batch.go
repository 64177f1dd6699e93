package trace

import (
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/PozzettiAndrea/brepray/pkg/accel"
	"github.com/PozzettiAndrea/brepray/pkg/geom"
)

// BatchResult holds per-ray outputs in flat row-major arrays: 3 floats per
// point and normal, 2 per UV. Rows for missed rays carry sentinels so the
// arrays stay rectangular: W = -1, normal = (0, 0, 1), face id = -1.
type BatchResult struct {
	Hits    []bool
	Points  []float64 // 3 per ray
	Normals []float64 // 3 per ray
	UVs     []float64 // 2 per ray
	Ws      []float64
	FaceIDs []int32
}

// NumRays returns the number of rows in the result.
func (r *BatchResult) NumRays() int {
	return len(r.Hits)
}

// missNormal is the sentinel normal written to missed rows.
var missNormal = geom.V3(0, 0, 1)

// CastRaysBatch casts one ray per row of the flat xyz-interleaved origin
// and direction arrays and resolves every hit exactly as Perform does.
// A miss fills the row with sentinels; the call never fails per ray.
// Directions are normalized, so Ws are distances.
func (rt *Raytracer) CastRaysBatch(origins, directions []float64) (*BatchResult, error) {
	if len(origins)%3 != 0 {
		return nil, &ShapeMismatchError{Reason: fmt.Sprintf("origins length %d is not a multiple of 3", len(origins))}
	}
	if len(directions)%3 != 0 {
		return nil, &ShapeMismatchError{Reason: fmt.Sprintf("directions length %d is not a multiple of 3", len(directions))}
	}
	if len(origins) != len(directions) {
		return nil, &ShapeMismatchError{
			Reason: fmt.Sprintf("%d origins vs %d directions", len(origins)/3, len(directions)/3),
		}
	}
	if !rt.store.IsLoaded() {
		return nil, &NotLoadedError{Op: "CastRaysBatch"}
	}
	rt.ensureBuilt()

	n := len(origins) / 3
	res := &BatchResult{
		Hits:    make([]bool, n),
		Points:  make([]float64, 3*n),
		Normals: make([]float64, 3*n),
		UVs:     make([]float64, 2*n),
		Ws:      make([]float64, n),
		FaceIDs: make([]int32, n),
	}
	if n == 0 {
		return res, nil
	}

	rays := make([]geom.Ray, n)
	for i := 0; i < n; i++ {
		rays[i] = geom.NewRay(
			geom.V3(origins[3*i], origins[3*i+1], origins[3*i+2]),
			geom.V3(directions[3*i], directions[3*i+1], directions[3*i+2]),
		)
	}

	if !rt.parallel {
		rt.castRange(rays, res, 0, n)
		return res, nil
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			break
		}
		g.Go(func() error {
			rt.castRange(rays, res, lo, hi)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// castRange resolves rays[lo:hi] into the result rows of the same index
// range. Workers share the read-only acceleration structure and write
// disjoint rows, so no synchronization is needed.
func (rt *Raytracer) castRange(rays []geom.Ray, res *BatchResult, lo, hi int) {
	tMax := math.Inf(1)
	if packet, ok := rt.backend.(accel.Packet); ok {
		width := packet.Width()
		hits := make([]accel.Hit, width)
		oks := make([]bool, width)
		for i := lo; i < hi; i += width {
			end := i + width
			if end > hi {
				end = hi
			}
			packet.IntersectPacket(rays[i:end], 0, tMax, hits[:end-i], oks[:end-i])
			for lane := 0; lane < end-i; lane++ {
				rt.writeRow(res, i+lane, rays[i+lane], hits[lane], oks[lane])
			}
		}
		return
	}
	for i := lo; i < hi; i++ {
		h, ok := rt.backend.Intersect(rays[i], 0, tMax)
		rt.writeRow(res, i, rays[i], h, ok)
	}
}

// writeRow scatters one ray's outcome into row i of the result.
func (rt *Raytracer) writeRow(res *BatchResult, i int, r geom.Ray, h accel.Hit, ok bool) {
	if !ok {
		res.Normals[3*i] = missNormal.X
		res.Normals[3*i+1] = missNormal.Y
		res.Normals[3*i+2] = missNormal.Z
		res.Ws[i] = -1
		res.FaceIDs[i] = -1
		return
	}
	hit := rt.resolve(r, h)
	res.Hits[i] = true
	res.Points[3*i] = hit.Point.X
	res.Points[3*i+1] = hit.Point.Y
	res.Points[3*i+2] = hit.Point.Z
	res.Normals[3*i] = hit.Normal.X
	res.Normals[3*i+1] = hit.Normal.Y
	res.Normals[3*i+2] = hit.Normal.Z
	res.UVs[2*i] = hit.U
	res.UVs[2*i+1] = hit.V
	res.Ws[i] = hit.W
	res.FaceIDs[i] = hit.FaceIndex
}
