// Command brepray tessellates a solid, loads it into the raytracer and
// renders orthographic depth and normal maps to PNG.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/PozzettiAndrea/brepray/internal/config"
	"github.com/PozzettiAndrea/brepray/internal/logger"
	"github.com/PozzettiAndrea/brepray/pkg/accel"
	"github.com/PozzettiAndrea/brepray/pkg/kernel"
	"github.com/PozzettiAndrea/brepray/pkg/kernel/prim"
	"github.com/PozzettiAndrea/brepray/pkg/kernel/sdfx"
	"github.com/PozzettiAndrea/brepray/pkg/trace"
)

type flags struct {
	configPath *string
	kernelName *string
	shape      *string
	backend    *string
	width      *int
	height     *int
	axis       *string
	out        *string
	level      *string
}

func defineFlags() flags {
	return flags{
		configPath: flag.String("config", "", "YAML config file path (flags override it)"),
		kernelName: flag.String("kernel", "", "Geometry kernel: prim or sdfx"),
		shape:      flag.String("shape", "", "Solid to render: box, sphere, cylinder or plate"),
		backend:    flag.String("backend", "", "Acceleration backend: native, vector, vector-simd4 or vector-simd8"),
		width:      flag.Int("width", 0, "Output width in pixels"),
		height:     flag.Int("height", 0, "Output height in pixels"),
		axis:       flag.String("axis", "", "View axis: x, y or z"),
		out:        flag.String("out", "", "Output file prefix"),
		level:      flag.String("level", "", "Log level: debug, info, warn or error"),
	}
}

func (f flags) apply(cfg *config.Config) {
	if *f.kernelName != "" {
		cfg.Scene.Kernel = *f.kernelName
	}
	if *f.shape != "" {
		cfg.Scene.Shape = *f.shape
	}
	if *f.backend != "" {
		cfg.Trace.Backend = *f.backend
	}
	if *f.width > 0 {
		cfg.Render.Width = *f.width
	}
	if *f.height > 0 {
		cfg.Render.Height = *f.height
	}
	if *f.axis != "" {
		cfg.Render.Axis = *f.axis
	}
	if *f.out != "" {
		cfg.Render.Output = *f.out
	}
	if *f.level != "" {
		cfg.Logging.Level = *f.level
	}
}

func main() {
	f := defineFlags()
	flag.Parse()

	cfg, err := config.Load(*f.configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	f.apply(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.LogFile)
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("render failed", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	shape, err := buildShape(cfg.Scene)
	if err != nil {
		return err
	}

	backendID, err := accel.ParseBackendID(cfg.Trace.Backend)
	if err != nil {
		return err
	}
	rt, err := trace.New(
		trace.WithLogger(log),
		trace.WithBackend(backendID),
		trace.WithParallel(cfg.Trace.Parallel),
	)
	if err != nil {
		return err
	}
	if err := rt.Load(shape, cfg.Scene.Tolerance, cfg.Scene.Deflection); err != nil {
		return err
	}

	axis, err := trace.ParseAxis(cfg.Render.Axis)
	if err != nil {
		return err
	}
	bounds, offset := frame(rt, cfg.Render, axis)

	start := time.Now()
	maps, err := rt.RenderOrthographic(cfg.Render.Width, cfg.Render.Height, bounds, axis, offset)
	if err != nil {
		return err
	}
	log.Info("render complete",
		zap.Int("width", maps.Width),
		zap.Int("height", maps.Height),
		zap.Stringer("backend", rt.Backend()),
		zap.Duration("elapsed", time.Since(start)))

	depthPath := cfg.Render.Output + "_depth.png"
	if err := writeDepthPNG(depthPath, maps); err != nil {
		return err
	}
	normalsPath := cfg.Render.Output + "_normals.png"
	if err := writeNormalsPNG(normalsPath, maps); err != nil {
		return err
	}
	log.Info("maps written", zap.String("depth", depthPath), zap.String("normals", normalsPath))
	return nil
}

// buildShape constructs and tessellates the configured solid.
func buildShape(scene config.SceneConfig) (*kernel.Shape, error) {
	var k kernel.Kernel
	switch scene.Kernel {
	case "sdfx":
		k = sdfx.New()
	default:
		k = prim.New()
	}

	d := scene.Dimensions
	var solid kernel.Solid
	switch scene.Shape {
	case "sphere":
		solid = k.Sphere(d[0])
	case "cylinder":
		solid = k.Cylinder(d[0], d[1])
	case "plate":
		if pk, ok := k.(*prim.Kernel); ok {
			solid = pk.Plate(d[0], d[1], d[2])
		} else {
			solid = k.Box(d[0], d[1], d[2])
		}
	default:
		solid = k.Box(d[0], d[1], d[2])
	}
	return k.Tessellate(solid, scene.Deflection)
}

// frame resolves the view window: explicit config bounds and offset when
// set, otherwise the shape's bounding box padded by 5% with the origin
// placed past the box along the view axis.
func frame(rt *trace.Raytracer, render config.RenderConfig, axis trace.Axis) ([4]float64, float64) {
	if render.Bounds != ([4]float64{}) {
		return render.Bounds, render.Offset
	}

	bb := rt.Bounds()
	var uAxis, vAxis, wAxis int
	switch axis {
	case trace.AxisZ:
		uAxis, vAxis, wAxis = 0, 1, 2
	case trace.AxisY:
		uAxis, vAxis, wAxis = 0, 2, 1
	default:
		uAxis, vAxis, wAxis = 1, 2, 0
	}
	uMin, uMax := bb.Min.Component(uAxis), bb.Max.Component(uAxis)
	vMin, vMax := bb.Min.Component(vAxis), bb.Max.Component(vAxis)
	uPad := 0.05 * (uMax - uMin)
	vPad := 0.05 * (vMax - vMin)
	bounds := [4]float64{uMin - uPad, vMin - vPad, uMax + uPad, vMax + vPad}

	offset := render.Offset
	if offset == 0 {
		wMin, wMax := bb.Min.Component(wAxis), bb.Max.Component(wAxis)
		offset = wMax + 0.1*(wMax-wMin)
	}
	return bounds, offset
}
