// Package config handles renderer configuration loading and management.
package config

// Config holds all renderer settings.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Renderer RendererConfig `yaml:"renderer"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// RendererConfig holds batching and rasterization settings.
type RendererConfig struct {
	MaxVerts     int  `yaml:"max_verts"`     // Vertex batch capacity before forced flush
	Premultiply  bool `yaml:"premultiply"`   // Bake the transform into vertices on the CPU
	BezierDetail int  `yaml:"bezier_detail"` // Segments per Bezier curve span
	CurveDetail  int  `yaml:"curve_detail"`  // Segments per Catmull-Rom curve span
	ShowFPS      bool `yaml:"show_fps"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "vecgl",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Renderer: RendererConfig{
			MaxVerts:     6000,
			Premultiply:  false,
			BezierDetail: 20,
			CurveDetail:  20,
			ShowFPS:      false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
