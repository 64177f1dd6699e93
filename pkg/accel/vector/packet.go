package vector

import (
	"github.com/PozzettiAndrea/brepray/pkg/accel"
	"github.com/PozzettiAndrea/brepray/pkg/geom"
)

// scalarBackend traverses the linear BVH one ray at a time.
type scalarBackend struct {
	linearBVH
}

func (b *scalarBackend) ID() accel.BackendID { return accel.VectorScalar }

func (b *scalarBackend) Build(tris []geom.Triangle) {
	b.build(tris)
}

func (b *scalarBackend) Intersect(r geom.Ray, tMin, tMax float64) (accel.Hit, bool) {
	return b.intersect(r, tMin, tMax)
}

// packetBackend traverses the linear BVH with 4 or 8 rays sharing one node
// stack. A node descends while any lane's interval still intersects it;
// per-lane triangle tests reuse the scalar intersection math, so each
// lane's result is identical to a scalar traversal of the same ray.
type packetBackend struct {
	linearBVH
	id    accel.BackendID
	width int
}

// Compile-time capability check.
var _ accel.Packet = (*packetBackend)(nil)

func (b *packetBackend) ID() accel.BackendID { return b.id }

func (b *packetBackend) Width() int { return b.width }

func (b *packetBackend) Build(tris []geom.Triangle) {
	b.build(tris)
}

func (b *packetBackend) Intersect(r geom.Ray, tMin, tMax float64) (accel.Hit, bool) {
	return b.intersect(r, tMin, tMax)
}

func (b *packetBackend) IntersectPacket(rays []geom.Ray, tMin, tMax float64, hits []accel.Hit, oks []bool) {
	lanes := len(rays)
	if lanes > b.width {
		lanes = b.width
	}
	for i := 0; i < lanes; i++ {
		oks[i] = false
	}
	if len(b.nodes) == 0 || lanes == 0 {
		return
	}

	var inv [8]geom.Vec3
	var closest [8]float64
	for i := 0; i < lanes; i++ {
		inv[i] = geom.V3(1/rays[i].Dir.X, 1/rays[i].Dir.Y, 1/rays[i].Dir.Z)
		closest[i] = tMax
	}

	var stack [maxStackDepth]int32
	sp := 0
	stack[sp] = 0
	sp++

	for sp > 0 {
		sp--
		idx := stack[sp]
		n := &b.nodes[idx]
		active := false
		for i := 0; i < lanes; i++ {
			if n.bounds.HitInv(rays[i].Origin, inv[i], tMin, closest[i]) {
				active = true
				break
			}
		}
		if !active {
			continue
		}
		if n.count > 0 {
			for pi := n.first; pi < n.first+n.count; pi++ {
				p := &b.prims[pi]
				for i := 0; i < lanes; i++ {
					if t, u, v, ok := p.tri.Intersect(rays[i], tMin, closest[i]); ok {
						closest[i] = t
						hits[i] = accel.Hit{Tri: p.index, T: t, U: u, V: v}
						oks[i] = true
					}
				}
			}
			continue
		}
		stack[sp] = n.right
		sp++
		stack[sp] = idx + 1
		sp++
	}
}
