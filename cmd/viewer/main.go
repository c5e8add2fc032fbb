package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"scene-viewer/config"
	"scene-viewer/viewer"
)

const longHelp = `viewer opens an OBJ or glTF scene (or the built-in "default" triangle) in a
window with an orbit/pan/zoom camera and an automatic camera path.

Settings are layered: preset, then --config TOML file, then VIEWER_* environment
variables, then flags.

Controls:
  W/A/S/D        move (arrows with --keys arrows)
  left drag      pan
  right drag     orbit
  scroll         zoom
  C              toggle camera path
  R              reset camera
  P              toggle wireframe
  Esc            quit`

type options struct {
	configPath   string
	preset       string
	width        int
	height       int
	fov          float32
	near         float32
	far          float32
	path         string
	keys         string
	logLevel     string
	vert         string
	frag         string
	watchShaders bool
	cull         bool
}

func (o *options) bind(f *pflag.FlagSet) {
	f.StringVarP(&o.configPath, "config", "c", "", "TOML configuration file")
	f.StringVarP(&o.preset, "preset", "p", config.DefaultPreset, "named preset, see 'viewer presets'")
	f.IntVar(&o.width, "width", 0, "window width in pixels")
	f.IntVar(&o.height, "height", 0, "window height in pixels")
	f.Float32Var(&o.fov, "fov", 0, "vertical field of view in degrees")
	f.Float32Var(&o.near, "near", 0, "near clip plane distance")
	f.Float32Var(&o.far, "far", 0, "far clip plane distance")
	f.StringVar(&o.path, "path", "", "camera path preset (flat, tilted)")
	f.StringVar(&o.keys, "keys", "", "movement key layout (wasd, arrows)")
	f.StringVar(&o.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	f.StringVar(&o.vert, "vert", "", "vertex shader path")
	f.StringVar(&o.frag, "frag", "", "fragment shader path")
	f.BoolVar(&o.watchShaders, "watch-shaders", false, "reload shaders when the files change")
	f.BoolVar(&o.cull, "cull", true, "skip meshes outside the view frustum")
}

func newRootCmd() *cobra.Command {
	var o options
	cmd := &cobra.Command{
		Use:           "viewer [scene]",
		Short:         "Interactive OpenGL scene viewer",
		Long:          longHelp,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, args)
		},
	}
	o.bind(cmd.Flags())
	cmd.AddCommand(newPresetsCmd(), newInfoCmd())
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (o *options) run(cmd *cobra.Command, args []string) error {
	cfg, err := o.load(cmd.Flags(), args)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	v, err := viewer.New(cfg, logger)
	if err != nil {
		return err
	}
	defer v.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return v.Run(ctx)
}

// load layers preset, file and environment, then the flags the user
// actually set, then validates the result.
func (o *options) load(flags *pflag.FlagSet, args []string) (config.Config, error) {
	cfg, err := config.Preset(o.preset)
	if err != nil {
		return config.Config{}, err
	}
	if o.configPath != "" {
		if err := cfg.ApplyFile(o.configPath); err != nil {
			return config.Config{}, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return config.Config{}, err
	}

	o.apply(&cfg, flags, args)

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func (o *options) apply(cfg *config.Config, flags *pflag.FlagSet, args []string) {
	if len(args) > 0 {
		cfg.Scene = args[0]
	}

	changed := flags.Changed
	if changed("width") {
		cfg.Width = o.width
	}
	if changed("height") {
		cfg.Height = o.height
	}
	if changed("fov") {
		cfg.FovY = o.fov
	}
	if changed("near") {
		cfg.Near = o.near
	}
	if changed("far") {
		cfg.Far = o.far
	}
	if changed("path") {
		cfg.Path = o.path
	}
	if changed("keys") {
		cfg.Keys = o.keys
	}
	if changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if changed("vert") {
		cfg.VertexShader = o.vert
	}
	if changed("frag") {
		cfg.FragmentShader = o.frag
	}
	if changed("watch-shaders") {
		cfg.WatchShaders = o.watchShaders
	}
	if changed("cull") {
		cfg.Cull = o.cull
	}
}

func newLogger(cfg config.Config) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}
