package viewer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"scene-viewer/config"
	"scene-viewer/core"
	"scene-viewer/input"
	"scene-viewer/internal/opengl"
	"scene-viewer/scene"
)

// shaderDebounce coalesces the burst of write events editors produce on save.
const shaderDebounce = 100 * time.Millisecond

type resize struct {
	width, height int
	pending       bool
}

// Viewer is the interactive window: it owns the GL context, the uploaded
// scene and the Frame that drives the camera.
type Viewer struct {
	cfg    config.Config
	logger *slog.Logger

	window   *core.Window
	poller   *input.Poller
	state    input.State
	renderer *opengl.Renderer
	watcher  *opengl.ShaderWatcher
	scene    *scene.Scene
	frame    *Frame

	resize  resize
	visible []int
}

// New loads the scene, opens the window and uploads everything the loop
// needs. cfg must already be validated.
func New(cfg config.Config, logger *slog.Logger) (*Viewer, error) {
	if logger == nil {
		logger = slog.Default()
	}

	bindings, err := BindingsFor(cfg.Keys)
	if err != nil {
		return nil, err
	}

	frame, err := NewFrameFromConfig(cfg, logger)
	if err != nil {
		return nil, err
	}

	s, err := scene.LoadScene(cfg.Scene)
	if err != nil {
		return nil, fmt.Errorf("load scene: %w", err)
	}
	s.Light.Position = cfg.Light.Position.Vec()
	s.Light.Color = cfg.Light.Color.Vec()
	logger.Info("scene loaded",
		"scene", cfg.Scene,
		"triangles", s.TriangleCount(),
		"meshes", len(s.Meshes),
		"materials", len(s.Materials),
	)

	wcfg := core.DefaultWindowConfig()
	wcfg.Title = "Scene Viewer - " + s.Name
	wcfg.Width = cfg.Width
	wcfg.Height = cfg.Height
	wcfg.VSync = cfg.Vsync
	wcfg.Samples = cfg.Samples
	wcfg.DebugContext = logger.Enabled(context.Background(), slog.LevelDebug)

	window, err := core.NewWindow(wcfg)
	if err != nil {
		return nil, err
	}

	v := &Viewer{
		cfg:    cfg,
		logger: logger,
		window: window,
		scene:  s,
		frame:  frame,
	}

	if err := v.initGPU(wcfg.DebugContext); err != nil {
		v.Close()
		return nil, err
	}

	v.poller = input.NewPoller(window, bindings)
	window.SetScrollCallback(v.poller.OnScroll)
	window.OnResize(func(width, height int) {
		v.resize = resize{width: width, height: height, pending: true}
	})

	// HiDPI framebuffers can differ from the requested window size.
	w, h := window.GetFramebufferSize()
	v.resize = resize{width: w, height: h, pending: true}

	return v, nil
}

func (v *Viewer) initGPU(debug bool) error {
	if err := opengl.Init(debug); err != nil {
		return err
	}

	program, err := opengl.LoadProgram(v.cfg.VertexShader, v.cfg.FragmentShader)
	if err != nil {
		return err
	}
	v.renderer, err = opengl.NewRenderer(program, v.scene)
	if err != nil {
		program.Delete()
		return err
	}

	env := v.cfg.Environment
	if env.IrradianceMap != "" || env.IntegrationMap != "" || len(env.PrefilteredMap) > 0 {
		e, err := opengl.LoadEnvironment(env.IrradianceMap, env.PrefilteredMap, env.IntegrationMap)
		switch {
		case errors.Is(err, opengl.ErrBindlessUnsupported):
			v.logger.Warn("environment maps skipped", "error", err)
		case err != nil:
			return fmt.Errorf("environment: %w", err)
		default:
			v.renderer.SetEnvironment(e)
		}
	}

	if v.cfg.WatchShaders {
		v.watcher, err = opengl.NewShaderWatcher(shaderDebounce, v.cfg.VertexShader, v.cfg.FragmentShader)
		if err != nil {
			v.logger.Warn("shader hot reload disabled", "error", err)
			v.watcher = nil
		}
	}
	return nil
}

// Run drives the frame loop until the window closes, Escape is pressed or
// ctx is cancelled.
func (v *Viewer) Run(ctx context.Context) error {
	v.bindProgram()

	last := v.window.Time()
	for !v.window.ShouldClose() {
		select {
		case <-ctx.Done():
			v.logger.Info("viewer stopping", "reason", ctx.Err())
			return nil
		default:
		}

		now := v.window.Time()
		dt := ClampDelta(now - last)
		last = now

		v.applyResize()
		v.reloadShaders()

		v.poller.Poll(&v.state)
		if v.window.IsKeyPressed(core.KeyEscape) {
			break
		}

		u := v.frame.Step(dt, &v.state)
		if v.frame.Wireframe() != v.renderer.IsWireframe() {
			v.renderer.SetWireframe(v.frame.Wireframe())
		}

		v.renderer.BeginFrame()
		UploadUniforms(v.renderer.Program(), u)
		if v.cfg.Cull {
			f := scene.FrustumFromVP(u.VP)
			v.visible = v.scene.VisibleMeshes(&f, v.visible[:0])
			v.renderer.DrawMeshes(v.visible)
		} else {
			v.renderer.Draw()
		}

		v.window.SwapBuffers()
		v.window.PollEvents()
	}
	return nil
}

func (v *Viewer) bindProgram() {
	v.renderer.BindProgram()
	v.uploadStatic()
}

// uploadStatic writes the uniforms that only change with the program.
func (v *Viewer) uploadStatic() {
	p := v.renderer.Program()
	UploadLight(p, v.scene.Light)
	UploadModel(p, v.frame.Uniforms())
}

// applyResize runs at the start of a frame so the viewport and projection
// change before any matrix is read.
func (v *Viewer) applyResize() {
	if !v.resize.pending {
		return
	}
	r := v.resize
	v.resize.pending = false

	v.renderer.SetViewport(r.width, r.height)
	if err := v.frame.Resize(r.width, r.height); err != nil {
		v.logger.Warn("viewport not updated", "width", r.width, "height", r.height, "error", err)
		return
	}
	v.logger.Debug("viewport resized", "width", r.width, "height", r.height)
}

func (v *Viewer) reloadShaders() {
	if v.watcher == nil || !v.watcher.Changed() {
		return
	}
	if err := v.renderer.ReloadProgram(); err != nil {
		v.logger.Error("shader reload failed, keeping previous program", "error", err)
		return
	}
	v.uploadStatic()
	vert, frag := v.renderer.Program().Paths()
	v.logger.Info("shaders reloaded", "vertex", vert, "fragment", frag)
}

// Close releases the GPU resources and the window. It is safe on a partly
// constructed Viewer.
func (v *Viewer) Close() {
	if v.watcher != nil {
		if err := v.watcher.Close(); err != nil {
			v.logger.Warn("shader watcher close", "error", err)
		}
		v.watcher = nil
	}
	if v.renderer != nil {
		v.renderer.Destroy()
		v.renderer = nil
	}
	if v.window != nil {
		v.window.Destroy()
		v.window = nil
	}
}

// BindingsFor resolves a config key layout name.
func BindingsFor(layout string) (input.Bindings, error) {
	switch layout {
	case "", "wasd":
		return core.DefaultBindings(), nil
	case "arrows":
		return core.ArrowBindings(), nil
	}
	return input.Bindings{}, fmt.Errorf("unknown key layout %q", layout)
}
