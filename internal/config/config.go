package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/windtrail/internal/palette"
)

const (
	DefaultGlobalAlpha     = 0.9
	DefaultLineWidth       = 1.0
	DefaultVelocityScale   = 0.01
	DefaultMaxAge          = 90
	DefaultParticleCount   = 3000
	DefaultFrameIntervalMs = 40.0
	DefaultScaleName       = "wind"
)

type Config struct {
	Source string       `yaml:"source"`
	Seed   int64        `yaml:"seed"`
	Engine EngineConfig `yaml:"engine"`
}

// EngineConfig carries the recognized animation options. It is consumed
// at wiring time and never mutated by the core.
type EngineConfig struct {
	GlobalAlpha     float64       `yaml:"global_alpha"`
	LineWidth       float64       `yaml:"line_width"`
	ColorScale      palette.Scale `yaml:"color_scale,omitempty"`
	ScaleName       string        `yaml:"scale_name"`
	VelocityScale   float64       `yaml:"velocity_scale"`
	MaxAge          int           `yaml:"max_age"`
	ParticleCount   int           `yaml:"particle_count"`
	FrameIntervalMs float64       `yaml:"frame_interval_ms"`
}

func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			GlobalAlpha:     DefaultGlobalAlpha,
			LineWidth:       DefaultLineWidth,
			ScaleName:       DefaultScaleName,
			VelocityScale:   DefaultVelocityScale,
			MaxAge:          DefaultMaxAge,
			ParticleCount:   DefaultParticleCount,
			FrameIntervalMs: DefaultFrameIntervalMs,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	e := c.Engine
	if e.GlobalAlpha < 0 || e.GlobalAlpha > 1 {
		return fmt.Errorf("config: global_alpha must be in [0,1], got %g", e.GlobalAlpha)
	}
	if e.LineWidth <= 0 {
		return fmt.Errorf("config: line_width must be positive, got %g", e.LineWidth)
	}
	if e.VelocityScale <= 0 {
		return fmt.Errorf("config: velocity_scale must be positive, got %g", e.VelocityScale)
	}
	if e.MaxAge < 1 {
		return fmt.Errorf("config: max_age must be >= 1, got %d", e.MaxAge)
	}
	if e.ParticleCount < 1 {
		return fmt.Errorf("config: particle_count must be >= 1, got %d", e.ParticleCount)
	}
	if e.FrameIntervalMs < 0 {
		return fmt.Errorf("config: frame_interval_ms must be >= 0, got %g", e.FrameIntervalMs)
	}
	if e.ScaleName != "" {
		if _, ok := palette.Get(e.ScaleName); !ok {
			return fmt.Errorf("config: unknown scale %q (available: %v)", e.ScaleName, palette.Names())
		}
	}
	return nil
}

// Scale resolves the configured color scale: an explicit color list wins
// over a named builtin.
func (c *Config) Scale() palette.Scale {
	if len(c.Engine.ColorScale) > 0 {
		return c.Engine.ColorScale
	}
	if s, ok := palette.Get(c.Engine.ScaleName); ok {
		return s
	}
	s, _ := palette.Get(DefaultScaleName)
	return s
}
