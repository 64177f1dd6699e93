package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Scene.Kernel != "prim" {
		t.Errorf("expected kernel 'prim', got %s", cfg.Scene.Kernel)
	}
	if cfg.Scene.Shape != "box" {
		t.Errorf("expected shape 'box', got %s", cfg.Scene.Shape)
	}
	if cfg.Scene.Deflection != 0.5 {
		t.Errorf("expected deflection 0.5, got %g", cfg.Scene.Deflection)
	}
	if cfg.Trace.Backend != "native" {
		t.Errorf("expected backend 'native', got %s", cfg.Trace.Backend)
	}
	if !cfg.Trace.Parallel {
		t.Error("expected parallel to be true by default")
	}
	if cfg.Render.Width != 512 || cfg.Render.Height != 512 {
		t.Errorf("expected 512x512, got %dx%d", cfg.Render.Width, cfg.Render.Height)
	}
	if cfg.Render.Axis != "z" {
		t.Errorf("expected axis 'z', got %s", cfg.Render.Axis)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoadOverlay(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
scene:
  kernel: sdfx
  shape: sphere
  dimensions: [25, 25, 25]
  deflection: 0.2

trace:
  backend: vector-simd8
  parallel: false

render:
  width: 128
  height: 64
  axis: y
  output: render/out

logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Scene.Kernel != "sdfx" || cfg.Scene.Shape != "sphere" {
		t.Errorf("scene = %+v", cfg.Scene)
	}
	if cfg.Scene.Deflection != 0.2 {
		t.Errorf("deflection = %g, expected 0.2", cfg.Scene.Deflection)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Scene.Tolerance != 1e-6 {
		t.Errorf("tolerance = %g, expected the default 1e-6", cfg.Scene.Tolerance)
	}
	if cfg.Trace.Backend != "vector-simd8" || cfg.Trace.Parallel {
		t.Errorf("trace = %+v", cfg.Trace)
	}
	if cfg.Render.Width != 128 || cfg.Render.Height != 64 || cfg.Render.Axis != "y" {
		t.Errorf("render = %+v", cfg.Render)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %s, expected debug", cfg.Logging.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected an error for a missing file")
	}
	// An empty path skips the overlay and returns defaults.
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}
	if cfg.Scene.Kernel != "prim" {
		t.Errorf("kernel = %s, expected the default", cfg.Scene.Kernel)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown kernel", func(c *Config) { c.Scene.Kernel = "brep" }},
		{"unknown shape", func(c *Config) { c.Scene.Shape = "torus" }},
		{"zero dimension", func(c *Config) { c.Scene.Dimensions[1] = 0 }},
		{"negative deflection", func(c *Config) { c.Scene.Deflection = -1 }},
		{"zero tolerance", func(c *Config) { c.Scene.Tolerance = 0 }},
		{"unknown backend", func(c *Config) { c.Trace.Backend = "cuda" }},
		{"zero width", func(c *Config) { c.Render.Width = 0 }},
		{"unknown axis", func(c *Config) { c.Render.Axis = "w" }},
		{"empty output", func(c *Config) { c.Render.Output = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}
