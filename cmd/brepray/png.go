package main

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/PozzettiAndrea/brepray/pkg/trace"
)

// writeDepthPNG writes the depth map as 16-bit grayscale: nearest hit maps
// to white, the farthest to black, misses stay black. PNG is lossless, so
// the only quantization is the float32 to 16-bit normalization.
func writeDepthPNG(path string, maps *trace.OrthoMaps) error {
	minD := math.Inf(1)
	maxD := math.Inf(-1)
	for _, d := range maps.Depth {
		v := float64(d)
		if math.IsNaN(v) {
			continue
		}
		if v < minD {
			minD = v
		}
		if v > maxD {
			maxD = v
		}
	}
	span := maxD - minD
	if span <= 0 {
		span = 1
	}

	img := image.NewGray16(image.Rect(0, 0, maps.Width, maps.Height))
	for y := 0; y < maps.Height; y++ {
		for x := 0; x < maps.Width; x++ {
			v := float64(maps.Depth[y*maps.Width+x])
			if math.IsNaN(v) {
				continue
			}
			n := 1 - (v-minD)/span
			img.SetGray16(x, y, color.Gray16{Y: uint16(math.Round(n * 65535))})
		}
	}
	return writePNG(path, img)
}

// writeNormalsPNG writes the normal map as 8-bit RGB with each component
// mapped from [-1, 1] to [0, 255]. Missed pixels are black.
func writeNormalsPNG(path string, maps *trace.OrthoMaps) error {
	img := image.NewRGBA(image.Rect(0, 0, maps.Width, maps.Height))
	for y := 0; y < maps.Height; y++ {
		for x := 0; x < maps.Width; x++ {
			i := y*maps.Width + x
			if math.IsNaN(float64(maps.Normals[3*i])) {
				img.SetRGBA(x, y, color.RGBA{A: 255})
				continue
			}
			img.SetRGBA(x, y, color.RGBA{
				R: normalByte(maps.Normals[3*i]),
				G: normalByte(maps.Normals[3*i+1]),
				B: normalByte(maps.Normals[3*i+2]),
				A: 255,
			})
		}
	}
	return writePNG(path, img)
}

func normalByte(c float32) uint8 {
	n := (float64(c) + 1) / 2
	if n < 0 {
		n = 0
	}
	if n > 1 {
		n = 1
	}
	return uint8(math.Round(n * 255))
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return (&png.Encoder{CompressionLevel: png.BestSpeed}).Encode(f, img)
}
