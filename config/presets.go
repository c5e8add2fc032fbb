package config

import (
	"fmt"
	"sort"
)

// DefaultPreset is used when no preset is named.
const DefaultPreset = "default"

var presets = map[string]func() Config{
	"default": func() Config {
		cfg := base()
		cfg.Scene = "default"
		cfg.Eye = Vec3{0, 0, -10}
		cfg.Target = Vec3{0, 0, 0}
		cfg.Near = 0.1
		cfg.Far = 100
		cfg.Light.Position = Vec3{0, 0, -5}
		return cfg
	},
	"shapes": func() Config {
		cfg := base()
		cfg.Scene = "shapes"
		cfg.Eye = Vec3{0, 3, -8}
		cfg.Target = Vec3{0, 0, 0}
		cfg.Near = 0.1
		cfg.Far = 100
		cfg.Light.Position = Vec3{0, 4, -4}
		return cfg
	},
	"avenger": func() Config {
		cfg := base()
		cfg.Scene = "res/models/avenger/6887_allied_avenger_gi2.obj"
		cfg.Eye = Vec3{150, 225, 300}
		cfg.Target = Vec3{0, 0, 30}
		cfg.Near = 1
		cfg.Far = 1000
		cfg.Light.Position = Vec3{150, 300, 200}
		cfg.Controller.MovementSpeed = 100
		return cfg
	},
}

// base holds the settings every preset shares.
func base() Config {
	return Config{
		Width:  640,
		Height: 480,
		FovY:   45,
		Path:   "tilted",
		Keys:   "wasd",
		Light: LightConfig{
			Color: Vec3{1, 1, 1},
		},
		Controller: ControllerConfig{
			MovementSpeed: 5,
			RotationSpeed: 0.005,
			ZoomSpeed:     10,
			CurveSpeed:    0.1,
			MaxPanSpeed:   20,
		},
		VertexShader:   "res/shaders/basic_shader.vert",
		FragmentShader: "res/shaders/basic_shader.frag",
		Vsync:          true,
		Samples:        8,
		Cull:           true,
		LogLevel:       "info",
	}
}

// Preset returns a fresh copy of the named preset. An empty name selects
// DefaultPreset.
func Preset(name string) (Config, error) {
	if name == "" {
		name = DefaultPreset
	}
	build, ok := presets[name]
	if !ok {
		return Config{}, fmt.Errorf("preset %q: %w", name, ErrUnknownPreset)
	}
	return build(), nil
}

// PresetNames lists the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
