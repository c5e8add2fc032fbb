package viewer

import (
	"fmt"
	"log/slog"

	"scene-viewer/config"
	"scene-viewer/input"
	"scene-viewer/math"
	"scene-viewer/scene"
)

// MaxFrameDelta caps the time step handed to the controller, so a stall
// (window drag, breakpoint) does not fling the camera.
const MaxFrameDelta = 0.1

// FrameUniforms are the per-frame transforms the shaders consume. M is the
// model matrix and MN its normal matrix; both stay fixed for the scene.
type FrameUniforms struct {
	M   math.Mat4
	MN  math.Mat4
	MV  math.Mat4
	MVN math.Mat4
	MVP math.Mat4
	VP  math.Mat4
	P   math.Mat4
	V   math.Mat4
	Eye math.Vec3
}

// Frame is the GL-free half of the render loop. It owns the camera, its
// controller and the wireframe toggle, and turns one input snapshot into the
// matrices for one frame.
type Frame struct {
	camera     *scene.Camera
	controller *scene.CameraController
	logger     *slog.Logger

	model       math.Mat4
	modelNormal math.Mat4

	wireframeToggle input.Button
	wireframe       bool
}

func NewFrame(camera *scene.Camera, controller *scene.CameraController, logger *slog.Logger) *Frame {
	if logger == nil {
		logger = slog.Default()
	}
	f := &Frame{
		camera:     camera,
		controller: controller,
		logger:     logger,
	}
	f.SetModel(math.Mat4Identity())
	return f
}

// NewFrameFromConfig builds the camera and controller described by cfg.
func NewFrameFromConfig(cfg config.Config, logger *slog.Logger) (*Frame, error) {
	if logger == nil {
		logger = slog.Default()
	}

	camera, err := scene.NewCamera(cfg.Width, cfg.Height, cfg.FovY, cfg.Eye.Vec(), cfg.Target.Vec(), cfg.Near, cfg.Far)
	if err != nil {
		return nil, fmt.Errorf("camera: %w", err)
	}

	path, err := scene.PathPreset(cfg.Path)
	if err != nil {
		return nil, err
	}

	controller := scene.NewCameraController(camera,
		scene.WithMovementSpeed(cfg.Controller.MovementSpeed),
		scene.WithRotationSpeed(cfg.Controller.RotationSpeed),
		scene.WithZoomSpeed(cfg.Controller.ZoomSpeed),
		scene.WithCurveSpeed(cfg.Controller.CurveSpeed),
		scene.WithMaxPanSpeed(cfg.Controller.MaxPanSpeed),
		scene.WithPath(path),
		scene.WithLogger(logger),
	)
	return NewFrame(camera, controller, logger), nil
}

// SetModel replaces the model matrix. The normal matrix is the transposed
// Euclidean inverse, which assumes M is a rigid transform.
func (f *Frame) SetModel(m math.Mat4) {
	f.model = m
	f.modelNormal = m.EuclideanInverse().Transpose()
}

// Step runs one frame: wireframe toggle, controller update, camera update.
// A degenerate pose keeps the previous matrices.
func (f *Frame) Step(dt float32, st *input.State) FrameUniforms {
	if f.wireframeToggle.Update(st.KeyDown(input.KeyWireframe)) {
		f.wireframe = !f.wireframe
		f.logger.Debug("wireframe toggled", "enabled", f.wireframe)
	}

	f.controller.Update(dt, st)
	if err := f.camera.Update(); err != nil {
		f.logger.Debug("camera update skipped", "error", err)
	}

	return f.Uniforms()
}

// Uniforms derives the frame matrices from the camera's current state.
func (f *Frame) Uniforms() FrameUniforms {
	v := f.camera.GetViewMatrix()
	vp := f.camera.GetViewProjectionMatrix()
	return FrameUniforms{
		M:   f.model,
		MN:  f.modelNormal,
		MV:  v.Mul(f.model),
		MVN: v.Mul(f.modelNormal),
		MVP: vp.Mul(f.model),
		VP:  vp,
		P:   f.camera.GetProjectionMatrix(),
		V:   v,
		Eye: f.camera.ViewFrom(),
	}
}

// Resize forwards a framebuffer size change to the camera.
func (f *Frame) Resize(width, height int) error {
	return f.camera.UpdateViewport(width, height)
}

func (f *Frame) Wireframe() bool                     { return f.wireframe }
func (f *Frame) Camera() *scene.Camera               { return f.camera }
func (f *Frame) Controller() *scene.CameraController { return f.controller }

// ClampDelta converts a measured frame time to a controller step in
// [0, MaxFrameDelta].
func ClampDelta(seconds float64) float32 {
	switch {
	case seconds < 0:
		return 0
	case seconds > MaxFrameDelta:
		return MaxFrameDelta
	}
	return float32(seconds)
}
