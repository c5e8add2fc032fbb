// Package config holds the viewer settings. Values are layered: a named
// preset, then an optional TOML file, then VIEWER_* environment variables;
// command-line flags are applied last by the caller.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"

	"scene-viewer/math"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "VIEWER"

// KeyLayouts are the accepted values of Config.Keys.
var KeyLayouts = []string{"wasd", "arrows"}

var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrUnknownPreset = errors.New("unknown preset")
)

// Vec3 is a point or direction written as a three element array in TOML and
// as "x,y,z" in the environment.
type Vec3 [3]float32

func (v Vec3) Vec() math.Vec3 {
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

// Decode implements envconfig.Decoder.
func (v *Vec3) Decode(value string) error {
	parts := strings.Split(value, ",")
	if len(parts) != 3 {
		return fmt.Errorf("expected x,y,z, got %q", value)
	}
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return fmt.Errorf("component %d of %q: %w", i, value, err)
		}
		v[i] = float32(f)
	}
	return nil
}

// Config is the full viewer configuration. Environment keys are the field
// names split into words under EnvPrefix, e.g. VIEWER_FOV_Y or
// VIEWER_CONTROLLER_MOVEMENT_SPEED.
type Config struct {
	// Scene is a model path (.obj, .gltf, .glb) or "default".
	Scene string `toml:"scene" split_words:"true"`

	Width  int     `toml:"width" split_words:"true"`
	Height int     `toml:"height" split_words:"true"`
	FovY   float32 `toml:"fov" split_words:"true"` // degrees
	Near   float32 `toml:"near" split_words:"true"`
	Far    float32 `toml:"far" split_words:"true"`
	Eye    Vec3    `toml:"eye" split_words:"true"`
	Target Vec3    `toml:"target" split_words:"true"`

	// Path names the camera path preset used in curve mode.
	Path string `toml:"path" split_words:"true"`
	// Keys selects the movement key layout, see KeyLayouts.
	Keys string `toml:"keys" split_words:"true"`

	Light       LightConfig       `toml:"light" split_words:"true"`
	Controller  ControllerConfig  `toml:"controller" split_words:"true"`
	Environment EnvironmentConfig `toml:"environment" split_words:"true"`

	VertexShader   string `toml:"vertex_shader" split_words:"true"`
	FragmentShader string `toml:"fragment_shader" split_words:"true"`
	WatchShaders   bool   `toml:"watch_shaders" split_words:"true"`

	Vsync    bool   `toml:"vsync" split_words:"true"`
	Samples  int    `toml:"samples" split_words:"true"`
	Cull     bool   `toml:"cull" split_words:"true"`
	LogLevel string `toml:"log_level" split_words:"true"`
}

type LightConfig struct {
	Position Vec3 `toml:"position" split_words:"true"`
	Color    Vec3 `toml:"color" split_words:"true"`
}

type ControllerConfig struct {
	MovementSpeed float32 `toml:"movement_speed" split_words:"true"`
	RotationSpeed float32 `toml:"rotation_speed" split_words:"true"`
	ZoomSpeed     float32 `toml:"zoom_speed" split_words:"true"`
	CurveSpeed    float32 `toml:"curve_speed" split_words:"true"`
	MaxPanSpeed   float32 `toml:"max_pan_speed" split_words:"true"`
}

// EnvironmentConfig lists optional image based lighting maps. Empty paths
// are skipped.
type EnvironmentConfig struct {
	IrradianceMap  string   `toml:"irradiance_map" split_words:"true"`
	IntegrationMap string   `toml:"integration_map" split_words:"true"`
	PrefilteredMap []string `toml:"prefiltered_maps" split_words:"true"`
}

// Load builds a configuration from the named preset, the TOML file at path
// (skipped when empty) and the environment, then validates it.
func Load(preset, path string) (Config, error) {
	cfg, err := Preset(preset)
	if err != nil {
		return Config{}, err
	}
	if path != "" {
		if err := cfg.ApplyFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyFile overlays the keys present in a TOML file. Unknown keys are
// rejected so that typos do not pass silently.
func (c *Config) ApplyFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config %q: %w", path, err)
	}
	defer f.Close()

	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return fmt.Errorf("config %q:%d:%d: %w", path, row, col, err)
		}
		return fmt.Errorf("config %q: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays VIEWER_* environment variables.
func (c *Config) ApplyEnv() error {
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	return nil
}

// Validate rejects settings that would produce a broken camera or window.
func (c Config) Validate() error {
	var problems []string
	if c.Scene == "" {
		problems = append(problems, "scene is empty")
	}
	if c.Width <= 0 || c.Height <= 0 {
		problems = append(problems, fmt.Sprintf("window size %dx%d must be positive", c.Width, c.Height))
	}
	if !(c.FovY > 0 && c.FovY < 180) {
		problems = append(problems, fmt.Sprintf("fov %v must be in (0, 180)", c.FovY))
	}
	if !(c.Near > 0 && c.Near < c.Far) {
		problems = append(problems, fmt.Sprintf("clip planes near %v far %v must satisfy 0 < near < far", c.Near, c.Far))
	}
	if c.Eye == c.Target {
		problems = append(problems, "eye and target coincide")
	}
	if !slices.Contains(KeyLayouts, c.Keys) {
		problems = append(problems, fmt.Sprintf("keys %q must be one of %s", c.Keys, strings.Join(KeyLayouts, ", ")))
	}
	if c.Controller.MaxPanSpeed <= 0 {
		problems = append(problems, fmt.Sprintf("max pan speed %v must be positive", c.Controller.MaxPanSpeed))
	}
	ctl := c.Controller
	if ctl.MovementSpeed < 0 || ctl.RotationSpeed < 0 || ctl.ZoomSpeed < 0 || ctl.CurveSpeed < 0 {
		problems = append(problems, "controller speeds must not be negative")
	}
	if c.Samples < 0 {
		problems = append(problems, fmt.Sprintf("samples %d must not be negative", c.Samples))
	}
	if _, err := c.SlogLevel(); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// SlogLevel parses LogLevel (debug, info, warn, error).
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
