package trace

import (
	"fmt"
	"math"
)

// Axis names a principal view direction for orthographic rendering.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// String returns the axis name.
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	default:
		return "z"
	}
}

// ParseAxis resolves an axis name as used in configuration files.
func ParseAxis(name string) (Axis, error) {
	switch name {
	case "x", "X":
		return AxisX, nil
	case "y", "Y":
		return AxisY, nil
	case "z", "Z", "":
		return AxisZ, nil
	default:
		return 0, fmt.Errorf("trace: unknown axis %q", name)
	}
}

// OrthoMaps holds the per-pixel outputs of an orthographic render in
// row-major order with row 0 at the top of the image. Missed pixels carry
// NaN depth and normals and face id -1.
type OrthoMaps struct {
	Width, Height int
	Depth         []float32 // ray distance to the hit
	Normals       []float32 // 3 per pixel
	FaceIDs       []int32
}

// RenderOrthographic casts one ray per pixel of a width x height grid laid
// over bounds = [umin, vmin, umax, vmax] in the plane perpendicular to
// axis, from offset along that axis, firing in the negative axis
// direction. Pixel u runs umin to umax left to right, v runs vmax to vmin
// top to bottom; a single-column image samples umin and a single-row image
// samples vmax. The in-plane coordinates map onto the world axes in order:
// axis Z reads bounds as (x, y), axis Y as (x, z), axis X as (y, z).
func (rt *Raytracer) RenderOrthographic(width, height int, bounds [4]float64, axis Axis, offset float64) (*OrthoMaps, error) {
	if width <= 0 || height <= 0 {
		return nil, &ShapeMismatchError{Reason: fmt.Sprintf("resolution %dx%d must be positive", width, height)}
	}
	pixels := int64(width) * int64(height)
	if pixels > math.MaxInt32 {
		return nil, &AllocationError{Elems: pixels}
	}
	if !rt.store.IsLoaded() {
		return nil, &NotLoadedError{Op: "RenderOrthographic"}
	}

	n := int(pixels)
	origins := make([]float64, 3*n)
	dirs := make([]float64, 3*n)
	for row := 0; row < height; row++ {
		v := gridCoord(row, height, bounds[3], bounds[1])
		for col := 0; col < width; col++ {
			u := gridCoord(col, width, bounds[0], bounds[2])
			i := row*width + col
			switch axis {
			case AxisZ:
				origins[3*i], origins[3*i+1], origins[3*i+2] = u, v, offset
				dirs[3*i+2] = -1
			case AxisY:
				origins[3*i], origins[3*i+1], origins[3*i+2] = u, offset, v
				dirs[3*i+1] = -1
			default: // AxisX
				origins[3*i], origins[3*i+1], origins[3*i+2] = offset, u, v
				dirs[3*i] = -1
			}
		}
	}

	res, err := rt.CastRaysBatch(origins, dirs)
	if err != nil {
		return nil, err
	}

	maps := &OrthoMaps{
		Width:   width,
		Height:  height,
		Depth:   make([]float32, n),
		Normals: make([]float32, 3*n),
		FaceIDs: make([]int32, n),
	}
	nan := float32(math.NaN())
	for i := 0; i < n; i++ {
		if !res.Hits[i] {
			maps.Depth[i] = nan
			maps.Normals[3*i] = nan
			maps.Normals[3*i+1] = nan
			maps.Normals[3*i+2] = nan
			maps.FaceIDs[i] = -1
			continue
		}
		maps.Depth[i] = float32(res.Ws[i])
		maps.Normals[3*i] = float32(res.Normals[3*i])
		maps.Normals[3*i+1] = float32(res.Normals[3*i+1])
		maps.Normals[3*i+2] = float32(res.Normals[3*i+2])
		maps.FaceIDs[i] = res.FaceIDs[i]
	}
	return maps, nil
}

// gridCoord maps sample i of n onto [from, to]; a single sample takes the
// from endpoint.
func gridCoord(i, n int, from, to float64) float64 {
	if n == 1 {
		return from
	}
	return from + (to-from)*float64(i)/float64(n-1)
}
