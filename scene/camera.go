package scene

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"scene-viewer/math"
)

var (
	ErrInvalidViewport    = errors.New("viewport width and height must be positive")
	ErrInvalidClipPlanes  = errors.New("clip planes must satisfy 0 < near < far")
	ErrInvalidFieldOfView = errors.New("vertical field of view must be in (0, 180) degrees")
	ErrDegenerateView     = errors.New("eye and target do not define a view direction")
)

// degenerateEpsilon bounds the lengths below which the view basis is
// considered undefined.
const degenerateEpsilon = 1e-6

// Camera is a pin-hole camera described by an eye, a target and a fixed up
// hint. The basis and matrices are cached: after moving the eye or target,
// Update must be called before the view matrices are read.
type Camera struct {
	width  int
	height int
	fovY   float32 // degrees
	focalY float32 // pixels

	viewFrom math.Vec3
	viewAt   math.Vec3
	up       math.Vec3

	near float32
	far  float32

	// right, up, backward
	viewX math.Vec3
	viewY math.Vec3
	viewZ math.Vec3

	viewMatrix       math.Mat4
	projectionMatrix math.Mat4
	viewProjMatrix   math.Mat4
}

type CameraOption func(*Camera)

// WithUp replaces the default (0,1,0) world up hint.
func WithUp(up math.Vec3) CameraOption {
	return func(c *Camera) {
		c.up = up.Normalize()
	}
}

// NewCamera validates the parameters and builds the initial projection,
// basis and view matrices. fovY is in degrees.
func NewCamera(width, height int, fovY float32, viewFrom, viewAt math.Vec3, near, far float32, opts ...CameraOption) (*Camera, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("new camera %dx%d: %w", width, height, ErrInvalidViewport)
	}
	if !(fovY > 0 && fovY < 180) {
		return nil, fmt.Errorf("new camera fov %v: %w", fovY, ErrInvalidFieldOfView)
	}
	if err := validateClipPlanes(near, far); err != nil {
		return nil, fmt.Errorf("new camera: %w", err)
	}

	c := &Camera{
		width:    width,
		height:   height,
		fovY:     fovY,
		viewFrom: viewFrom,
		viewAt:   viewAt,
		up:       math.Vec3Up,
		near:     near,
		far:      far,
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.UpdateViewport(width, height); err != nil {
		return nil, fmt.Errorf("new camera: %w", err)
	}
	if err := c.Update(); err != nil {
		return nil, fmt.Errorf("new camera: %w", err)
	}
	return c, nil
}

func validateClipPlanes(near, far float32) error {
	if !(near > 0 && near < far) {
		return fmt.Errorf("near %v far %v: %w", near, far, ErrInvalidClipPlanes)
	}
	return nil
}

// viewBasis derives the right/up/backward axes. It fails when the eye sits on
// the target or the view direction is parallel to up.
func viewBasis(from, at, up math.Vec3) (x, y, z math.Vec3, err error) {
	d := from.Sub(at)
	if d.Length() < degenerateEpsilon {
		return x, y, z, ErrDegenerateView
	}
	z = d.Normalize()
	x = up.Cross(z)
	if x.Length() < degenerateEpsilon {
		return x, y, z, ErrDegenerateView
	}
	x = x.Normalize()
	y = z.Cross(x).Normalize()
	return x, y, z, nil
}

// Update recomputes the basis, the view matrix and VP from the current eye
// and target. On a degenerate pose the previous basis and matrices stay in
// place and ErrDegenerateView is returned.
func (c *Camera) Update() error {
	x, y, z, err := viewBasis(c.viewFrom, c.viewAt, c.up)
	if err != nil {
		return fmt.Errorf("camera update from %v at %v: %w", c.viewFrom, c.viewAt, err)
	}
	c.viewX, c.viewY, c.viewZ = x, y, z

	c.viewMatrix = math.Mat4FromBasis(x, y, z, c.viewFrom).EuclideanInverse()
	c.viewProjMatrix = c.projectionMatrix.Mul(c.viewMatrix)
	return nil
}

// UpdateProjection rebuilds P for the given clip planes and stores them. The
// frustum maps near to NDC depth -1 and far to +1, and flips Y so that +Y in
// clip space points down the viewport.
func (c *Camera) UpdateProjection(near, far float32) error {
	if err := validateClipPlanes(near, far); err != nil {
		return err
	}
	c.near = near
	c.far = far

	n, f := near, far
	a := (n + f) / (n - f)
	b := (2 * n * f) / (n - f)

	frustum := math.NewMat4(
		n, 0, 0, 0,
		0, n, 0, 0,
		0, 0, a, b,
		0, 0, -1, 0,
	)

	h := 2 * n * math32.Tan(math.Deg2Rad(c.fovY)*0.5)
	w := h * c.Aspect()

	scale := math.NewMat4(
		2/w, 0, 0, 0,
		0, -2/h, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	)

	c.projectionMatrix = scale.Mul(frustum)
	c.viewProjMatrix = c.projectionMatrix.Mul(c.viewMatrix)
	return nil
}

// UpdateViewport applies a new framebuffer size and rebuilds P with the
// stored clip planes.
func (c *Camera) UpdateViewport(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("viewport %dx%d: %w", width, height, ErrInvalidViewport)
	}
	c.width = width
	c.height = height
	c.focalY = float32(height) / (2 * math32.Tan(math.Deg2Rad(c.fovY)*0.5))
	return c.UpdateProjection(c.near, c.far)
}

// MoveForward slides eye and target together along the view direction.
func (c *Camera) MoveForward(distance float32) {
	ds := c.viewAt.Sub(c.viewFrom).Normalize().Mul(distance)
	c.viewFrom = c.viewFrom.Add(ds)
	c.viewAt = c.viewAt.Add(ds)
}

func (c *Camera) SetViewFrom(p math.Vec3) { c.viewFrom = p }
func (c *Camera) SetViewAt(p math.Vec3)   { c.viewAt = p }

// SetPose sets eye and target together.
func (c *Camera) SetPose(viewFrom, viewAt math.Vec3) {
	c.viewFrom = viewFrom
	c.viewAt = viewAt
}

func (c *Camera) ViewFrom() math.Vec3 { return c.viewFrom }
func (c *Camera) ViewAt() math.Vec3   { return c.viewAt }
func (c *Camera) Up() math.Vec3       { return c.up }
func (c *Camera) FovY() float32       { return c.fovY }
func (c *Camera) Width() int          { return c.width }
func (c *Camera) Height() int         { return c.height }
func (c *Camera) Near() float32       { return c.near }
func (c *Camera) Far() float32        { return c.far }

// FocalLength is the vertical focal length in pixels.
func (c *Camera) FocalLength() float32 { return c.focalY }

func (c *Camera) Aspect() float32 {
	return float32(c.width) / float32(c.height)
}

func (c *Camera) GetRight() math.Vec3    { return c.viewX }
func (c *Camera) GetUp() math.Vec3       { return c.viewY }
func (c *Camera) GetBackward() math.Vec3 { return c.viewZ }
func (c *Camera) GetForward() math.Vec3  { return c.viewZ.Negate() }

func (c *Camera) GetViewMatrix() math.Mat4           { return c.viewMatrix }
func (c *Camera) GetProjectionMatrix() math.Mat4     { return c.projectionMatrix }
func (c *Camera) GetViewProjectionMatrix() math.Mat4 { return c.viewProjMatrix }
