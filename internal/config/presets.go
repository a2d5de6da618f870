package config

import (
	"sort"

	"github.com/san-kum/particles/internal/field"
)

type Preset struct {
	Viewport    field.Viewport
	Description string
}

var Presets = map[string]Preset{
	"desktop": {field.Viewport{Width: 1920, Height: 1080, DevicePixelRatio: 1}, "full HD monitor, hits the particle cap"},
	"laptop":  {field.Viewport{Width: 1440, Height: 900, DevicePixelRatio: 1}, "typical laptop window"},
	"retina":  {field.Viewport{Width: 1440, Height: 900, DevicePixelRatio: 2}, "high-density laptop, ratio 2"},
	"tablet":  {field.Viewport{Width: 1024, Height: 768, DevicePixelRatio: 2}, "tablet in landscape"},
	"mobile":  {field.Viewport{Width: 390, Height: 844, DevicePixelRatio: 3}, "phone, ratio clamped to 2"},
	"small":   {field.Viewport{Width: 800, Height: 600, DevicePixelRatio: 1}, "800x600, 40 particles"},
}

func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Viewport = p.Viewport
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
