package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/particles/internal/field"
)

const (
	DefaultWidth      = 1280.0
	DefaultHeight     = 720.0
	DefaultRatio      = 1.0
	DefaultFPS        = 60
	DefaultFrames     = 180
	DefaultColor      = "#e10600"
	DefaultBackground = "#0a0a0a"
	DefaultPointer    = "orbit"
)

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Viewport     field.Viewport `yaml:"viewport"`
	ReduceMotion bool           `yaml:"reduce_motion"`
	FPS          int            `yaml:"fps"`
	Seed         int64          `yaml:"seed"`
	Color        string         `yaml:"color"`
	Background   string         `yaml:"background"`
	Frames       int            `yaml:"frames"`
	Pointer      string         `yaml:"pointer"`
}

func DefaultConfig() *Config {
	return &Config{
		Viewport: field.Viewport{
			Width:            DefaultWidth,
			Height:           DefaultHeight,
			DevicePixelRatio: DefaultRatio,
		},
		FPS:        DefaultFPS,
		Color:      DefaultColor,
		Background: DefaultBackground,
		Frames:     DefaultFrames,
		Pointer:    DefaultPointer,
	}
}

// Load reads a YAML file over the defaults, so missing keys keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
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

// Validate reports every problem at once, joined, each wrapping
// ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if !c.Viewport.Valid() || c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		bad("viewport %s must have positive width and height", c.Viewport)
	}
	if c.FPS <= 0 {
		bad("fps must be positive, got %d", c.FPS)
	}
	if c.Frames < 0 {
		bad("frames must be non-negative, got %d", c.Frames)
	}
	if _, err := ParseColor(c.Color); err != nil {
		bad("color: %v", err)
	}
	if c.Background != "" {
		if _, err := ParseColor(c.Background); err != nil {
			bad("background: %v", err)
		}
	}
	switch strings.ToLower(c.Pointer) {
	case "none", "center", "orbit":
	default:
		bad("pointer %q must be none, center or orbit", c.Pointer)
	}
	return errors.Join(errs...)
}

// ParticleColor is the parsed particle colour; it falls back to the field
// default when Color does not parse.
func (c *Config) ParticleColor() field.Color {
	col, err := ParseColor(c.Color)
	if err != nil {
		return field.DefaultColor
	}
	return col
}

// ParseColor accepts #rgb and #rrggbb hex strings.
func ParseColor(s string) (field.Color, error) {
	s = strings.TrimSpace(s)
	if len(s) == 4 && s[0] == '#' {
		s = "#" + strings.Repeat(s[1:2], 2) + strings.Repeat(s[2:3], 2) + strings.Repeat(s[3:4], 2)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return field.Color{}, fmt.Errorf("parse colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return field.Color{R: r, G: g, B: b}, nil
}
