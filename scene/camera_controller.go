package scene

import (
	"log/slog"

	"github.com/chewxy/math32"

	"scene-viewer/input"
	"scene-viewer/math"
)

// ControlMode selects how the controller drives the camera.
type ControlMode int

const (
	// ModeManual is keyboard fly, mouse pan, orbit and zoom.
	ModeManual ControlMode = iota
	// ModeCurve moves the eye along a closed path around the target.
	ModeCurve
)

func (m ControlMode) String() string {
	switch m {
	case ModeManual:
		return "manual"
	case ModeCurve:
		return "curve"
	}
	return "unknown"
}

const (
	DefaultMovementSpeed float32 = 5
	DefaultRotationSpeed float32 = 0.005
	DefaultZoomSpeed     float32 = 10
	DefaultCurveSpeed    float32 = 0.1
	DefaultMaxPanSpeed   float32 = 20

	minZoom          float32 = 0.1
	movementDeadzone float32 = 1e-3
	maxPitch         float32 = 0.95 * math.Pi / 2
)

// CameraController translates per-frame input into eye/target changes on a
// Camera. It never calls Camera.Update; the frame loop does that after the
// controller has run.
type CameraController struct {
	camera *Camera
	mode   ControlMode

	movementSpeed float32
	rotationSpeed float32
	zoomSpeed     float32
	curveSpeed    float32
	maxPanSpeed   float32

	originInitial math.Vec3
	targetInitial math.Vec3

	// X is yaw, Y is pitch, both radians.
	rotation     math.Vec2
	zoom         float32
	viewOffset   math.Vec3
	viewDistance float32

	path      *BezierSpline
	pathParam float32

	lastPointer math.Vec2
	hasPointer  bool

	resetButton  input.Button
	toggleButton input.Button

	logger *slog.Logger
}

type ControllerOption func(*CameraController)

func WithMovementSpeed(speed float32) ControllerOption {
	return func(c *CameraController) { c.movementSpeed = speed }
}

// WithRotationSpeed sets the orbit rate in radians per pixel of drag.
func WithRotationSpeed(speed float32) ControllerOption {
	return func(c *CameraController) { c.rotationSpeed = speed }
}

func WithZoomSpeed(speed float32) ControllerOption {
	return func(c *CameraController) { c.zoomSpeed = speed }
}

// WithCurveSpeed sets how many path loops are covered per second.
func WithCurveSpeed(speed float32) ControllerOption {
	return func(c *CameraController) { c.curveSpeed = speed }
}

// WithMaxPanSpeed sets the pointer delta, in pixels, that maps to full pan
// speed.
func WithMaxPanSpeed(pixels float32) ControllerOption {
	return func(c *CameraController) {
		if pixels > 0 {
			c.maxPanSpeed = pixels
		}
	}
}

func WithPath(path *BezierSpline) ControllerOption {
	return func(c *CameraController) {
		if path != nil && path.Len() > 0 {
			c.path = path
		}
	}
}

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *CameraController) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCameraController snapshots the camera's current eye and target as the
// reset pose and starts in manual mode.
func NewCameraController(camera *Camera, opts ...ControllerOption) *CameraController {
	c := &CameraController{
		camera:        camera,
		mode:          ModeManual,
		movementSpeed: DefaultMovementSpeed,
		rotationSpeed: DefaultRotationSpeed,
		zoomSpeed:     DefaultZoomSpeed,
		curveSpeed:    DefaultCurveSpeed,
		maxPanSpeed:   DefaultMaxPanSpeed,
		originInitial: camera.ViewFrom(),
		targetInitial: camera.ViewAt(),
		path:          TiltedCirclePath(),
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.reset()
	return c
}

// Update advances the controller by dt seconds. A reset press restores the
// initial pose and ends the frame's update; a mode toggle press switches
// between manual and curve before movement is applied.
func (c *CameraController) Update(dt float32, st *input.State) {
	// Scroll is drained every frame so it never carries over a reset or a
	// curve-mode stretch.
	scroll, scrolled := st.ConsumeScroll()

	delta := math.Vec2{}
	if c.hasPointer {
		delta = st.Pointer.Sub(c.lastPointer)
	}
	c.lastPointer = st.Pointer
	c.hasPointer = true

	if c.resetButton.Update(st.KeyDown(input.KeyReset)) {
		c.Reset()
		return
	}

	if c.toggleButton.Update(st.KeyDown(input.KeyModeToggle)) {
		if c.mode == ModeManual {
			c.mode = ModeCurve
		} else {
			c.mode = ModeManual
		}
		c.logger.Debug("camera mode changed", "mode", c.mode)
	}

	switch c.mode {
	case ModeCurve:
		c.curveMovement(dt)
	case ModeManual:
		c.manualMovement(dt, st, delta, scroll, scrolled)
	}
}

func (c *CameraController) manualMovement(dt float32, st *input.State, delta math.Vec2, scroll float32, scrolled bool) {
	from := c.camera.ViewFrom()
	at := c.camera.ViewAt()
	right := c.camera.GetRight()
	up := c.camera.GetUp()
	back := c.camera.GetBackward()

	axis := math.NewVec2(
		st.Axis(input.KeyRight, input.KeyLeft),
		st.Axis(input.KeyForward, input.KeyBack),
	)
	if axis.Length() > movementDeadzone {
		dir := right.Mul(axis.X).Sub(back.Mul(axis.Y)).Normalize()
		ds := dir.Mul(c.movementSpeed * dt)
		from = from.Add(ds)
		at = at.Add(ds)
	}

	if st.ButtonDown(input.MousePrimary) {
		pan := delta.Mul(1/c.maxPanSpeed).Clamp(-1, 1)
		ds := right.Mul(-pan.X).Add(up.Mul(pan.Y)).Mul(c.movementSpeed * dt)
		from = from.Add(ds)
		at = at.Add(ds)
	}

	if st.ButtonDown(input.MouseSecondary) {
		c.rotation.X -= delta.X * c.rotationSpeed
		c.rotation.Y = math.Clamp(c.rotation.Y-delta.Y*c.rotationSpeed, -maxPitch, maxPitch)
		c.viewOffset = orbitOffset(c.rotation, c.viewDistance)
		from = at.Add(c.viewOffset.Mul(c.zoom))
	}

	if scrolled {
		c.zoom -= scroll * dt * c.zoomSpeed
		if c.zoom < minZoom {
			c.zoom = minZoom
		}
		from = at.Add(c.viewOffset.Mul(c.zoom))
	}

	c.camera.SetPose(from, at)
}

func (c *CameraController) curveMovement(dt float32) {
	c.pathParam += dt * c.curveSpeed
	if c.pathParam >= 1 || c.pathParam < 0 {
		c.pathParam -= math32.Floor(c.pathParam)
		if c.pathParam >= 1 {
			c.pathParam = 0
		}
	}

	at := c.camera.ViewAt()
	c.camera.SetViewFrom(at.Add(c.path.Sample(c.pathParam).Mul(c.viewDistance)))
}

// Reset restores the initial eye and target and the default orbit state.
func (c *CameraController) Reset() {
	c.reset()
	c.logger.Debug("camera reset", "from", c.originInitial, "at", c.targetInitial)
}

func (c *CameraController) reset() {
	c.camera.SetPose(c.originInitial, c.targetInitial)

	c.viewOffset = c.targetInitial.Sub(c.originInitial)
	c.viewDistance = c.viewOffset.Length()
	c.rotation = math.NewVec2(math.Pi, 0)
	c.zoom = 1
	c.viewOffset = orbitOffset(c.rotation, c.viewDistance)
}

// orbitOffset turns the yaw/pitch pair into an eye offset from the target.
// The reference offset lies on +Z so that zero pitch is level with the
// horizon; yaw turns about world up, pitch about the yawed horizontal axis.
func orbitOffset(rotation math.Vec2, distance float32) math.Vec3 {
	reference := math.NewVec3(0, 0, distance)

	yaw := math.QuaternionFromAxisAngle(math.Vec3Up, rotation.X)
	horizontal := yaw.RotateVector(math.Vec3Right)
	pitch := math.QuaternionFromAxisAngle(horizontal, rotation.Y)

	return pitch.Mul(yaw).RotateVector(reference)
}

func (c *CameraController) Mode() ControlMode        { return c.mode }
func (c *CameraController) Zoom() float32            { return c.zoom }
func (c *CameraController) Rotation() math.Vec2      { return c.rotation }
func (c *CameraController) PathParam() float32       { return c.pathParam }
func (c *CameraController) ViewDistance() float32    { return c.viewDistance }
func (c *CameraController) ViewOffset() math.Vec3    { return c.viewOffset }
func (c *CameraController) Camera() *Camera          { return c.camera }
func (c *CameraController) SetMode(mode ControlMode) { c.mode = mode }
