package opengl

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"

	"scene-viewer/core"
	"scene-viewer/scene"
)

// Renderer owns the GPU side of one scene: the shader program, the uploaded
// buffers, the optional image based lighting maps and the raster state.
type Renderer struct {
	program     *Program
	buffers     *SceneBuffers
	environment *Environment

	viewportW  int32
	viewportH  int32
	wireframe  bool
	clearColor core.Color
}

// Init loads the OpenGL entry points and sets the fixed raster state. Must be
// called after the GLFW window context is made current. With debug set, GL
// debug messages are forwarded to slog.
func Init(debug bool) error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	slog.Info("opengl context",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)),
		"vendor", gl.GoStr(gl.GetString(gl.VENDOR)),
		"glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),
	)

	if debug {
		gl.Enable(gl.DEBUG_OUTPUT)
		gl.DebugMessageControl(gl.DONT_CARE, gl.DEBUG_TYPE_OTHER, gl.DEBUG_SEVERITY_NOTIFICATION, 0, nil, false)
		gl.DebugMessageCallback(debugMessage, nil)
	}

	gl.Enable(gl.MULTISAMPLE)
	// The projection flips Y, so the window origin moves to the top left.
	gl.ClipControl(gl.UPPER_LEFT, gl.NEGATIVE_ONE_TO_ONE)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.PointSize(10)
	gl.LineWidth(2)
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	return nil
}

func debugMessage(source, gltype, id, severity uint32, length int32, message string, userParam unsafe.Pointer) {
	if gltype == gl.DEBUG_TYPE_ERROR {
		slog.Error("gl", "type", gltype, "severity", severity, "message", message)
		return
	}
	slog.Debug("gl", "type", gltype, "severity", severity, "message", message)
}

// NewRenderer uploads s for drawing with program. The renderer takes
// ownership of program.
func NewRenderer(program *Program, s *scene.Scene) (*Renderer, error) {
	buffers, err := NewSceneBuffers(s)
	if err != nil {
		return nil, fmt.Errorf("upload scene %q: %w", s.Name, err)
	}
	return &Renderer{
		program:    program,
		buffers:    buffers,
		clearColor: core.Color{R: 0, G: 0, B: 0, A: 1},
	}, nil
}

func (r *Renderer) Program() *Program { return r.program }

// SetEnvironment attaches image based lighting maps; their handles are
// uploaded whenever the program is (re)bound through BindProgram.
func (r *Renderer) SetEnvironment(env *Environment) {
	r.environment = env
}

// BindProgram binds the program and uploads the environment handles.
func (r *Renderer) BindProgram() {
	r.program.Bind()
	if r.environment != nil {
		r.environment.Upload(r.program)
	}
}

// ReloadProgram recompiles the shaders from disk and rebinds. On failure the
// previous program stays in use.
func (r *Renderer) ReloadProgram() error {
	if err := r.program.Reload(); err != nil {
		return err
	}
	r.BindProgram()
	return nil
}

// SetViewport resizes the OpenGL viewport.
func (r *Renderer) SetViewport(width, height int) {
	r.viewportW = int32(width)
	r.viewportH = int32(height)
	gl.Viewport(0, 0, r.viewportW, r.viewportH)
}

func (r *Renderer) Viewport() (int, int) {
	return int(r.viewportW), int(r.viewportH)
}

// SetWireframe toggles wireframe rendering mode.
func (r *Renderer) SetWireframe(enabled bool) {
	r.wireframe = enabled
	if enabled {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

// IsWireframe returns whether wireframe mode is active.
func (r *Renderer) IsWireframe() bool {
	return r.wireframe
}

func (r *Renderer) SetClearColor(c core.Color) {
	r.clearColor = c
}

// BeginFrame clears the color, depth and stencil buffers.
func (r *Renderer) BeginFrame() {
	c := r.clearColor
	gl.ClearColor(c.R, c.G, c.B, c.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT | gl.STENCIL_BUFFER_BIT)
}

// Draw submits the whole scene.
func (r *Renderer) Draw() {
	r.buffers.Draw()
}

// DrawMeshes submits the listed mesh ranges only.
func (r *Renderer) DrawMeshes(indices []int) {
	r.buffers.DrawMeshes(indices)
}

// Destroy releases all GPU resources.
func (r *Renderer) Destroy() {
	if r.environment != nil {
		r.environment.Delete()
		r.environment = nil
	}
	if r.buffers != nil {
		r.buffers.Delete()
		r.buffers = nil
	}
	if r.program != nil {
		r.program.Delete()
	}
}
