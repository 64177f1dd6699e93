// Package vector provides the flattened-array acceleration backends: a
// linear BVH traversed iteratively, one ray at a time or in packets of 4
// or 8 rays sharing a traversal stack. Importing the package registers the
// VectorScalar, VectorSIMD4 and VectorSIMD8 backends with pkg/accel.
package vector

import (
	"sort"

	"github.com/PozzettiAndrea/brepray/pkg/accel"
	"github.com/PozzettiAndrea/brepray/pkg/geom"
)

const leafThreshold = 8

// maxStackDepth bounds the traversal stack. A median-split tree over n
// primitives is log2(n) deep; 64 covers any slice addressable in memory.
const maxStackDepth = 64

func init() {
	accel.Register(accel.VectorScalar, func() accel.Backend {
		return &scalarBackend{}
	})
	accel.Register(accel.VectorSIMD4, func() accel.Backend {
		return &packetBackend{id: accel.VectorSIMD4, width: 4}
	})
	accel.Register(accel.VectorSIMD8, func() accel.Backend {
		return &packetBackend{id: accel.VectorSIMD8, width: 8}
	})
}

// node is one flattened BVH node. Internal nodes store the right child
// index (the left child immediately follows the node); leaves store a
// contiguous primitive range.
type node struct {
	bounds geom.AABB
	first  int32 // leaf: first primitive
	count  int32 // leaf: primitive count; 0 for internal nodes
	right  int32 // internal: right child index
}

// prim is a reordered triangle with its original index for hit resolution.
type prim struct {
	tri   geom.Triangle
	index int32
}

// linearBVH is the shared flattened structure behind the vector backends.
type linearBVH struct {
	nodes []node
	prims []prim
}

type buildPrim struct {
	tri      geom.Triangle
	index    int32
	centroid geom.Vec3
}

func (l *linearBVH) build(tris []geom.Triangle) {
	l.nodes = nil
	l.prims = nil

	work := make([]buildPrim, 0, len(tris))
	for i := range tris {
		if tris[i].IsDegenerate() {
			continue
		}
		work = append(work, buildPrim{
			tri:      tris[i],
			index:    int32(i),
			centroid: tris[i].Centroid(),
		})
	}
	if len(work) == 0 {
		return
	}
	l.emit(work)
}

// emit appends the node for this span depth-first and returns its index.
// The same median split and index tiebreak as the native backend keeps the
// two hierarchies geometrically equivalent.
func (l *linearBVH) emit(work []buildPrim) int32 {
	bounds := work[0].tri.Bounds()
	for i := 1; i < len(work); i++ {
		bounds = bounds.Union(work[i].tri.Bounds())
	}

	self := int32(len(l.nodes))
	if len(work) <= leafThreshold {
		l.nodes = append(l.nodes, node{
			bounds: bounds,
			first:  int32(len(l.prims)),
			count:  int32(len(work)),
		})
		for i := range work {
			l.prims = append(l.prims, prim{tri: work[i].tri, index: work[i].index})
		}
		return self
	}

	axis := bounds.LongestAxis()
	sort.Slice(work, func(i, j int) bool {
		ci := work[i].centroid.Component(axis)
		cj := work[j].centroid.Component(axis)
		if ci != cj {
			return ci < cj
		}
		return work[i].index < work[j].index
	})

	l.nodes = append(l.nodes, node{bounds: bounds})
	mid := len(work) / 2
	l.emit(work[:mid]) // left child lands at self+1
	right := l.emit(work[mid:])
	l.nodes[self].right = right
	return self
}

// intersect is the iterative stack traversal for a single ray.
func (l *linearBVH) intersect(r geom.Ray, tMin, tMax float64) (accel.Hit, bool) {
	if len(l.nodes) == 0 {
		return accel.Hit{}, false
	}

	inv := geom.V3(1/r.Dir.X, 1/r.Dir.Y, 1/r.Dir.Z)

	var best accel.Hit
	found := false
	closest := tMax

	var stack [maxStackDepth]int32
	sp := 0
	stack[sp] = 0
	sp++

	for sp > 0 {
		sp--
		idx := stack[sp]
		n := &l.nodes[idx]
		if !n.bounds.HitInv(r.Origin, inv, tMin, closest) {
			continue
		}
		if n.count > 0 {
			for i := n.first; i < n.first+n.count; i++ {
				p := &l.prims[i]
				if t, u, v, ok := p.tri.Intersect(r, tMin, closest); ok {
					closest = t
					best = accel.Hit{Tri: p.index, T: t, U: u, V: v}
					found = true
				}
			}
			continue
		}
		// Right first so the left child is popped (and tested) first,
		// matching the native traversal order.
		stack[sp] = n.right
		sp++
		stack[sp] = idx + 1
		sp++
	}
	return best, found
}
