package scene

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-viewer/math"
)

const epsilon = 1e-4

func newTestCamera(t *testing.T) *Camera {
	t.Helper()
	cam, err := NewCamera(640, 480, 45, math.NewVec3(150, 225, 300), math.NewVec3(0, 0, 30), 1, 1000)
	require.NoError(t, err)
	return cam
}

func toMgl(v math.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

func assertMatchesMgl(t *testing.T, expected mgl32.Mat4, actual math.Mat4) {
	t.Helper()
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			assert.InDelta(t, expected.At(row, col), actual[row][col], epsilon, "element [%d][%d]", row, col)
		}
	}
}

func TestNewCameraValidation(t *testing.T) {
	eye := math.NewVec3(0, 0, -10)
	tests := []struct {
		name          string
		width, height int
		fov           float32
		from          math.Vec3
		near, far     float32
		want          error
	}{
		{"zero height", 640, 0, 45, eye, 0.1, 100, ErrInvalidViewport},
		{"negative width", -1, 480, 45, eye, 0.1, 100, ErrInvalidViewport},
		{"zero near", 640, 480, 45, eye, 0, 100, ErrInvalidClipPlanes},
		{"near beyond far", 640, 480, 45, eye, 10, 5, ErrInvalidClipPlanes},
		{"near equals far", 640, 480, 45, eye, 5, 5, ErrInvalidClipPlanes},
		{"zero fov", 640, 480, 0, eye, 0.1, 100, ErrInvalidFieldOfView},
		{"straight fov", 640, 480, 180, eye, 0.1, 100, ErrInvalidFieldOfView},
		{"eye on target", 640, 480, 45, math.Vec3Zero, 0.1, 100, ErrDegenerateView},
		{"looking straight down", 640, 480, 45, math.NewVec3(0, 10, 0), 0.1, 100, ErrDegenerateView},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam, err := NewCamera(tt.width, tt.height, tt.fov, tt.from, math.Vec3Zero, tt.near, tt.far)
			assert.Nil(t, cam)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestCameraBasisOrthonormal(t *testing.T) {
	eyes := []math.Vec3{
		{X: 150, Y: 225, Z: 300},
		{X: 0, Y: 0, Z: -10},
		{X: -3, Y: 0.5, Z: 2},
		{X: 0.001, Y: -40, Z: 0.5},
	}

	for _, eye := range eyes {
		cam, err := NewCamera(800, 600, 60, eye, math.NewVec3(0, 0, 1), 0.1, 100)
		require.NoError(t, err)

		x, y, z := cam.GetRight(), cam.GetUp(), cam.GetBackward()
		assert.InDelta(t, 1, x.Length(), epsilon)
		assert.InDelta(t, 1, y.Length(), epsilon)
		assert.InDelta(t, 1, z.Length(), epsilon)
		assert.InDelta(t, 0, x.Dot(y), epsilon)
		assert.InDelta(t, 0, y.Dot(z), epsilon)
		assert.InDelta(t, 0, z.Dot(x), epsilon)
		// right-handed
		assert.True(t, x.Cross(y).ApproxEqual(z, epsilon))

		origin := cam.GetViewMatrix().MulVec(eye.ToVec4(1))
		assert.InDelta(t, 0, origin.X, epsilon)
		assert.InDelta(t, 0, origin.Y, epsilon)
		assert.InDelta(t, 0, origin.Z, epsilon)
		assert.InDelta(t, 1, origin.W, epsilon)
	}
}

func TestCameraViewMatchesLookAt(t *testing.T) {
	cam := newTestCamera(t)

	expected := mgl32.LookAtV(toMgl(cam.ViewFrom()), toMgl(cam.ViewAt()), mgl32.Vec3{0, 1, 0})
	assertMatchesMgl(t, expected, cam.GetViewMatrix())
}

func TestCameraProjectionFlipsY(t *testing.T) {
	cam := newTestCamera(t)

	expected := mgl32.Scale3D(1, -1, 1).Mul4(mgl32.Perspective(mgl32.DegToRad(45), 640.0/480.0, 1, 1000))
	assertMatchesMgl(t, expected, cam.GetProjectionMatrix())
}

func TestCameraProjectionClipPlanes(t *testing.T) {
	tests := []struct {
		fov           float32
		width, height int
		near, far     float32
	}{
		{45, 640, 480, 1, 1000},
		{45, 640, 480, 0.1, 100},
		{90, 1920, 1080, 0.5, 50},
		{10, 300, 900, 2, 3},
		{170, 1, 1, 0.01, 10000},
	}

	for _, tt := range tests {
		cam, err := NewCamera(tt.width, tt.height, tt.fov, math.NewVec3(0, 0, -10), math.Vec3Zero, tt.near, tt.far)
		require.NoError(t, err)
		p := cam.GetProjectionMatrix()

		nearClip := p.MulVec(math.NewVec4(0, 0, -tt.near, 1))
		farClip := p.MulVec(math.NewVec4(0, 0, -tt.far, 1))

		assert.InDelta(t, -1, nearClip.Z/nearClip.W, 1e-3, "near plane for %+v", tt)
		assert.InDelta(t, 1, farClip.Z/farClip.W, 1e-3, "far plane for %+v", tt)
	}
}

func TestCameraFrustumEdges(t *testing.T) {
	cam := newTestCamera(t)
	p := cam.GetProjectionMatrix()

	half := math32.Tan(math.Deg2Rad(45) / 2)
	depth := float32(10)

	top := p.MulPoint(math.NewVec3(0, depth*half, -depth))
	assert.InDelta(t, -1, top.Y, epsilon, "top of the frustum maps to -1 with Y down")

	right := p.MulPoint(math.NewVec3(depth*half*cam.Aspect(), 0, -depth))
	assert.InDelta(t, 1, right.X, epsilon)
}

func TestCameraUpdateViewport(t *testing.T) {
	cam := newTestCamera(t)
	before := cam.GetProjectionMatrix()

	require.NoError(t, cam.UpdateViewport(1280, 480))

	assert.Equal(t, 1280, cam.Width())
	assert.InDelta(t, 1280.0/480.0, cam.Aspect(), epsilon)
	assert.InDelta(t, 480/(2*math32.Tan(math.Deg2Rad(22.5))), cam.FocalLength(), 1e-2)
	assert.Equal(t, float32(1), cam.Near())
	assert.Equal(t, float32(1000), cam.Far())

	after := cam.GetProjectionMatrix()
	assert.InDelta(t, before[0][0]/2, after[0][0], epsilon)
	assert.InDelta(t, before[1][1], after[1][1], epsilon)
	assert.True(t, after.Mul(cam.GetViewMatrix()).ApproxEqual(cam.GetViewProjectionMatrix(), epsilon))

	err := cam.UpdateViewport(0, 480)
	assert.ErrorIs(t, err, ErrInvalidViewport)
	assert.Equal(t, 1280, cam.Width())
}

func TestCameraUpdateProjectionRejectsInvalidPlanes(t *testing.T) {
	cam := newTestCamera(t)
	before := cam.GetProjectionMatrix()

	assert.ErrorIs(t, cam.UpdateProjection(-1, 10), ErrInvalidClipPlanes)
	assert.ErrorIs(t, cam.UpdateProjection(10, 10), ErrInvalidClipPlanes)
	assert.Equal(t, before, cam.GetProjectionMatrix())
	assert.Equal(t, float32(1), cam.Near())

	require.NoError(t, cam.UpdateProjection(2, 20))
	assert.Equal(t, float32(2), cam.Near())
	assert.Equal(t, float32(20), cam.Far())
}

func TestCameraUpdateKeepsBasisOnDegeneratePose(t *testing.T) {
	cam := newTestCamera(t)
	view := cam.GetViewMatrix()
	right := cam.GetRight()

	cam.SetViewFrom(cam.ViewAt())
	err := cam.Update()
	assert.ErrorIs(t, err, ErrDegenerateView)
	assert.Equal(t, view, cam.GetViewMatrix())
	assert.Equal(t, right, cam.GetRight())

	cam.SetPose(math.NewVec3(0, 50, 30), math.NewVec3(0, 0, 30))
	assert.ErrorIs(t, cam.Update(), ErrDegenerateView)
	assert.Equal(t, view, cam.GetViewMatrix())
}

func TestCameraUpdateIsExplicit(t *testing.T) {
	cam := newTestCamera(t)
	view := cam.GetViewMatrix()

	cam.SetViewFrom(math.NewVec3(10, 0, 0))
	assert.Equal(t, view, cam.GetViewMatrix(), "matrices only change on Update")

	require.NoError(t, cam.Update())
	assert.NotEqual(t, view, cam.GetViewMatrix())
	assert.True(t, cam.GetProjectionMatrix().Mul(cam.GetViewMatrix()).ApproxEqual(cam.GetViewProjectionMatrix(), epsilon))
}

func TestCameraWithUp(t *testing.T) {
	cam, err := NewCamera(640, 480, 45, math.NewVec3(0, 10, 0), math.Vec3Zero, 0.1, 100, WithUp(math.Vec3Front))
	require.NoError(t, err)

	assert.True(t, cam.Up().ApproxEqual(math.Vec3Front, epsilon))
	assert.True(t, cam.GetForward().ApproxEqual(math.Vec3Down, epsilon))
}

func TestCameraMoveForward(t *testing.T) {
	cam, err := NewCamera(640, 480, 45, math.NewVec3(0, 0, -10), math.Vec3Zero, 0.1, 100)
	require.NoError(t, err)

	cam.MoveForward(4)
	assert.True(t, cam.ViewFrom().ApproxEqual(math.NewVec3(0, 0, -6), epsilon))
	assert.True(t, cam.ViewAt().ApproxEqual(math.NewVec3(0, 0, 4), epsilon))
}

func BenchmarkCameraUpdate(b *testing.B) {
	cam, err := NewCamera(640, 480, 45, math.NewVec3(150, 225, 300), math.NewVec3(0, 0, 30), 1, 1000)
	if err != nil {
		b.Fatal(err)
	}
	for i := 0; i < b.N; i++ {
		_ = cam.Update()
	}
}
