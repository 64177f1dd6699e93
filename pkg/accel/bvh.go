package accel

import (
	"sort"

	"github.com/PozzettiAndrea/brepray/pkg/geom"
)

// leafThreshold is the triangle count below which a node becomes a leaf;
// small leaves are cheaper to scan linearly than to split further.
const leafThreshold = 8

// bvhNode is either an internal node with two children or a leaf holding a
// contiguous range of primitive references.
type bvhNode struct {
	bounds      geom.AABB
	left, right *bvhNode
	prims       []bvhPrim // non-nil for leaves
}

// bvhPrim pairs a triangle with its index in the original slice, so hits
// can be resolved back to face provenance after sorting.
type bvhPrim struct {
	tri      geom.Triangle
	index    int32
	centroid geom.Vec3
}

// nativeBVH is the built-in pointer-based BVH backend: median split over
// the longest centroid axis, recursive nearest-hit traversal.
type nativeBVH struct {
	root *bvhNode
}

func init() {
	Register(NativeBVH, func() Backend { return &nativeBVH{} })
}

func (b *nativeBVH) ID() BackendID { return NativeBVH }

func (b *nativeBVH) Build(tris []geom.Triangle) {
	prims := gatherPrims(tris)
	if len(prims) == 0 {
		b.root = nil
		return
	}
	b.root = buildNode(prims)
}

// gatherPrims copies the non-degenerate triangles with their original
// indices. The copy keeps concurrent builds from mutating caller slices.
func gatherPrims(tris []geom.Triangle) []bvhPrim {
	prims := make([]bvhPrim, 0, len(tris))
	for i := range tris {
		if tris[i].IsDegenerate() {
			continue
		}
		prims = append(prims, bvhPrim{
			tri:      tris[i],
			index:    int32(i),
			centroid: tris[i].Centroid(),
		})
	}
	return prims
}

func buildNode(prims []bvhPrim) *bvhNode {
	bounds := prims[0].tri.Bounds()
	for i := 1; i < len(prims); i++ {
		bounds = bounds.Union(prims[i].tri.Bounds())
	}

	if len(prims) <= leafThreshold {
		return &bvhNode{bounds: bounds, prims: prims}
	}

	// Median split along the longest axis. The original-index tiebreak
	// makes the build deterministic for any input ordering.
	axis := bounds.LongestAxis()
	sort.Slice(prims, func(i, j int) bool {
		ci := prims[i].centroid.Component(axis)
		cj := prims[j].centroid.Component(axis)
		if ci != cj {
			return ci < cj
		}
		return prims[i].index < prims[j].index
	})

	mid := len(prims) / 2
	return &bvhNode{
		bounds: bounds,
		left:   buildNode(prims[:mid]),
		right:  buildNode(prims[mid:]),
	}
}

func (b *nativeBVH) Intersect(r geom.Ray, tMin, tMax float64) (Hit, bool) {
	if b.root == nil {
		return Hit{}, false
	}
	return hitNode(b.root, r, tMin, tMax)
}

func hitNode(node *bvhNode, r geom.Ray, tMin, tMax float64) (Hit, bool) {
	if !node.bounds.Hit(r, tMin, tMax) {
		return Hit{}, false
	}

	if node.prims != nil {
		var best Hit
		found := false
		closest := tMax
		for i := range node.prims {
			p := &node.prims[i]
			if t, u, v, ok := p.tri.Intersect(r, tMin, closest); ok {
				closest = t
				best = Hit{Tri: p.index, T: t, U: u, V: v}
				found = true
			}
		}
		return best, found
	}

	var best Hit
	found := false
	closest := tMax
	if h, ok := hitNode(node.left, r, tMin, closest); ok {
		closest = h.T
		best = h
		found = true
	}
	if h, ok := hitNode(node.right, r, tMin, closest); ok {
		best = h
		found = true
	}
	return best, found
}
