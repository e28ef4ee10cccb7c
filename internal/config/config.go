package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"pixel-constant-renderer/internal/scene"
)

// Property ranges and defaults of the framing settings panel.
const (
	DefaultPixelsPerUnit  = 100
	DefaultCameraAngle    = scene.DefaultCameraAngle
	DefaultCameraDistance = 15.0

	MinPixelsPerUnit  = 1
	MinCameraAngle    = 0.0
	MaxCameraAngle    = 90.0
	MinCameraDistance = 0.001
)

// Config holds framing overrides, output paths and render settings.
type Config struct {
	// Framing; zero means "keep the scene's value".
	PixelsPerUnit  float64  `json:"pixels_per_unit"`
	CameraAngle    *float64 `json:"camera_angle,omitempty"`
	CameraDistance float64  `json:"camera_distance"`

	// Paths
	SceneDir  string `json:"scene_dir"`
	OutputDir string `json:"output_dir"`

	// Render settings
	Preview     *bool `json:"preview,omitempty"` // nil: the tool's own default
	Supersample int   `json:"supersample"`
	Workers     int   `json:"workers"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	PixelsPerUnit  float64
	CameraAngle    float64
	CameraDistance float64
	AngleSet       bool // -angle 0 is a valid override
	SceneDir       string
	OutputDir      string
	Preview        bool
	PreviewSet     bool
	Workers        int
}

// Resolve applies CLI overrides and fills in defaults.
func (c *Config) Resolve(flags Flags) {
	if flags.PixelsPerUnit > 0 {
		c.PixelsPerUnit = flags.PixelsPerUnit
	}
	if flags.AngleSet {
		angle := flags.CameraAngle
		c.CameraAngle = &angle
	}
	if flags.CameraDistance > 0 {
		c.CameraDistance = flags.CameraDistance
	}
	if flags.SceneDir != "" {
		c.SceneDir = flags.SceneDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.PreviewSet {
		preview := flags.Preview
		c.Preview = &preview
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.SceneDir == "" {
		c.SceneDir = "."
	}
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.SceneDir, "renders")
	} else if !filepath.IsAbs(c.OutputDir) && c.SceneDir != "." {
		c.OutputDir = filepath.Join(c.SceneDir, c.OutputDir)
	}

	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// PreviewEnabled reports whether previews are rendered, falling back to def
// when neither the config file nor a flag decided.
func (c *Config) PreviewEnabled(def bool) bool {
	if c.Preview == nil {
		return def
	}
	return *c.Preview
}

// Apply overlays the configured framing values onto scene settings, fills in
// defaults for anything still unset and clamps to the property ranges.
func (c *Config) Apply(s *scene.Settings) {
	if c.PixelsPerUnit > 0 {
		s.PixelsPerUnit = c.PixelsPerUnit
	}
	if c.CameraAngle != nil {
		angle := *c.CameraAngle
		s.CameraAngle = &angle
	}
	if c.CameraDistance > 0 {
		s.CameraDistance = c.CameraDistance
	}
	Defaults(s)
	Clamp(s)
}

// Defaults fills unset framing values. Pixels per unit and distance have no
// valid zero, so zero means unset; the angle is unset only when nil.
func Defaults(s *scene.Settings) {
	if s.CameraAngle == nil {
		angle := DefaultCameraAngle
		s.CameraAngle = &angle
	}
	if s.PixelsPerUnit == 0 {
		s.PixelsPerUnit = DefaultPixelsPerUnit
	}
	if s.CameraDistance == 0 {
		s.CameraDistance = DefaultCameraDistance
	}
}

// Clamp restricts framing values to the ranges the settings panel allows.
// Pixels per unit is an integer property and is truncated.
func Clamp(s *scene.Settings) {
	s.PixelsPerUnit = float64(int(s.PixelsPerUnit))
	if s.PixelsPerUnit < MinPixelsPerUnit {
		s.PixelsPerUnit = MinPixelsPerUnit
	}
	if s.CameraAngle != nil {
		angle := min(max(*s.CameraAngle, MinCameraAngle), MaxCameraAngle)
		s.CameraAngle = &angle
	}
	if s.CameraDistance < MinCameraDistance {
		s.CameraDistance = MinCameraDistance
	}
}
