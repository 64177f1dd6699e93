// Package config handles CLI configuration: defaults, YAML overlay and
// validation.
package config

import (
	"fmt"

	"github.com/PozzettiAndrea/brepray/pkg/accel"
	"github.com/PozzettiAndrea/brepray/pkg/trace"
)

// Config holds all renderer settings.
type Config struct {
	Scene   SceneConfig   `yaml:"scene"`
	Trace   TraceConfig   `yaml:"trace"`
	Render  RenderConfig  `yaml:"render"`
	Logging LoggingConfig `yaml:"logging"`
}

// SceneConfig selects the geometry kernel and the solid to build.
type SceneConfig struct {
	Kernel     string     `yaml:"kernel"` // prim or sdfx
	Shape      string     `yaml:"shape"`  // box, sphere, cylinder or plate
	Dimensions [3]float64 `yaml:"dimensions"`
	Deflection float64    `yaml:"deflection"`
	Tolerance  float64    `yaml:"tolerance"`
}

// TraceConfig holds query engine settings.
type TraceConfig struct {
	Backend  string `yaml:"backend"`
	Parallel bool   `yaml:"parallel"`
}

// RenderConfig holds the orthographic render settings.
type RenderConfig struct {
	Width  int        `yaml:"width"`
	Height int        `yaml:"height"`
	Bounds [4]float64 `yaml:"bounds"` // umin, vmin, umax, vmax; zero = fit shape
	Axis   string     `yaml:"axis"`
	Offset float64    `yaml:"offset"`
	Output string     `yaml:"output"` // prefix for depth/normal map files
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Scene: SceneConfig{
			Kernel:     "prim",
			Shape:      "box",
			Dimensions: [3]float64{100, 100, 50},
			Deflection: 0.5,
			Tolerance:  1e-6,
		},
		Trace: TraceConfig{
			Backend:  "native",
			Parallel: true,
		},
		Render: RenderConfig{
			Width:  512,
			Height: 512,
			Axis:   "z",
			Output: "out",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks the settings that would otherwise fail deep inside a
// render, so errors carry configuration terms instead of geometry ones.
func (c *Config) Validate() error {
	switch c.Scene.Kernel {
	case "prim", "sdfx":
	default:
		return fmt.Errorf("config: unknown kernel %q", c.Scene.Kernel)
	}
	switch c.Scene.Shape {
	case "box", "sphere", "cylinder", "plate":
	default:
		return fmt.Errorf("config: unknown shape %q", c.Scene.Shape)
	}
	for _, d := range c.Scene.Dimensions {
		if d <= 0 {
			return fmt.Errorf("config: dimensions must be positive, got %v", c.Scene.Dimensions)
		}
	}
	if c.Scene.Deflection <= 0 {
		return fmt.Errorf("config: deflection must be positive, got %g", c.Scene.Deflection)
	}
	if c.Scene.Tolerance <= 0 {
		return fmt.Errorf("config: tolerance must be positive, got %g", c.Scene.Tolerance)
	}
	if _, err := accel.ParseBackendID(c.Trace.Backend); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("config: resolution %dx%d must be positive", c.Render.Width, c.Render.Height)
	}
	if _, err := trace.ParseAxis(c.Render.Axis); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Render.Output == "" {
		return fmt.Errorf("config: output prefix must not be empty")
	}
	return nil
}
