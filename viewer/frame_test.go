package viewer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-viewer/config"
	"scene-viewer/core"
	"scene-viewer/input"
	"scene-viewer/math"
	"scene-viewer/scene"
)

type recordingSink struct {
	mats map[string]math.Mat4
	vecs map[string]math.Vec3
}

func newRecordingSink() *recordingSink {
	return &recordingSink{
		mats: map[string]math.Mat4{},
		vecs: map[string]math.Vec3{},
	}
}

func (s *recordingSink) UploadMat4(name string, m math.Mat4)   { s.mats[name] = m }
func (s *recordingSink) UploadFloat3(name string, v math.Vec3) { s.vecs[name] = v }

func newTestFrame(t *testing.T) *Frame {
	t.Helper()
	cfg, err := config.Preset("default")
	require.NoError(t, err)
	f, err := NewFrameFromConfig(cfg, nil)
	require.NoError(t, err)
	return f
}

func TestStepIdleFrame(t *testing.T) {
	f := newTestFrame(t)
	var st input.State

	u := f.Step(0.016, &st)

	cam := f.Camera()
	assert.Equal(t, cam.GetViewMatrix(), u.V)
	assert.Equal(t, cam.GetProjectionMatrix(), u.P)
	assert.Equal(t, cam.GetViewProjectionMatrix(), u.VP)
	assert.True(t, u.MVP.ApproxEqual(u.VP, 1e-6), "identity model")
	assert.True(t, u.MV.ApproxEqual(u.V, 1e-6))
	assert.True(t, u.MVN.ApproxEqual(u.V, 1e-6))
	assert.Equal(t, math.NewVec3(0, 0, -10), u.Eye)
}

func TestStepMovesCamera(t *testing.T) {
	f := newTestFrame(t)
	var st input.State
	st.Keys[input.KeyForward] = true

	before := f.Camera().ViewFrom()
	u := f.Step(0.1, &st)

	// forward is +Z for an eye at z=-10 looking at the origin
	assert.Greater(t, u.Eye.Z, before.Z)
	assert.Equal(t, f.Camera().GetViewMatrix(), u.V)
}

func TestStepDegeneratePoseKeepsMatrices(t *testing.T) {
	f := newTestFrame(t)
	var st input.State
	before := f.Step(0.016, &st)

	cam := f.Camera()
	cam.SetPose(cam.ViewAt(), cam.ViewAt())
	u := f.Step(0.016, &st)

	assert.Equal(t, before.V, u.V)
	assert.Equal(t, before.VP, u.VP)
}

func TestWireframeTogglesOnPress(t *testing.T) {
	f := newTestFrame(t)
	var st input.State

	st.Keys[input.KeyWireframe] = true
	f.Step(0.016, &st)
	assert.True(t, f.Wireframe())

	// held
	f.Step(0.016, &st)
	assert.True(t, f.Wireframe())

	st.Keys[input.KeyWireframe] = false
	f.Step(0.016, &st)
	st.Keys[input.KeyWireframe] = true
	f.Step(0.016, &st)
	assert.False(t, f.Wireframe())
}

func TestStepConsumesScroll(t *testing.T) {
	f := newTestFrame(t)
	var st input.State
	st.AddScroll(1)

	f.Step(0.016, &st)

	_, pending := st.ConsumeScroll()
	assert.False(t, pending)
	assert.Less(t, f.Controller().Zoom(), float32(1))
}

func TestSetModel(t *testing.T) {
	f := newTestFrame(t)
	m := math.Mat4Translation(math.NewVec3(1, 2, 3))
	f.SetModel(m)

	u := f.Uniforms()
	assert.Equal(t, m, u.M)
	assert.True(t, u.MN.ApproxEqual(m.EuclideanInverse().Transpose(), 1e-6))
	assert.True(t, u.MVP.ApproxEqual(u.VP.Mul(m), 1e-5))
	assert.True(t, u.MV.ApproxEqual(u.V.Mul(m), 1e-5))
}

func TestResize(t *testing.T) {
	f := newTestFrame(t)
	require.NoError(t, f.Resize(800, 400))

	var st input.State
	u := f.Step(0, &st)
	assert.Equal(t, 800, f.Camera().Width())
	assert.Equal(t, 400, f.Camera().Height())
	// x scale is y scale over aspect; y carries the flip
	assert.InDelta(t, -u.P[1][1]/2, u.P[0][0], 1e-5)

	assert.ErrorIs(t, f.Resize(0, 10), scene.ErrInvalidViewport)
	assert.Equal(t, 800, f.Camera().Width())
}

func TestNewFrameFromConfigUnknownPath(t *testing.T) {
	cfg, err := config.Preset("default")
	require.NoError(t, err)
	cfg.Path = "spiral"

	_, err = NewFrameFromConfig(cfg, nil)
	assert.ErrorIs(t, err, scene.ErrUnknownPath)
}

func TestNewFrameFromConfigInvalidCamera(t *testing.T) {
	cfg, err := config.Preset("default")
	require.NoError(t, err)
	cfg.Near = 0

	_, err = NewFrameFromConfig(cfg, nil)
	assert.ErrorIs(t, err, scene.ErrInvalidClipPlanes)
}

func TestUploadUniforms(t *testing.T) {
	f := newTestFrame(t)
	var st input.State
	u := f.Step(0.016, &st)

	sink := newRecordingSink()
	UploadUniforms(sink, u)

	assert.Equal(t, u.MV, sink.mats["MV"])
	assert.Equal(t, u.MVN, sink.mats["MVN"])
	assert.Equal(t, u.MVP, sink.mats["MVP"])
	assert.Equal(t, u.Eye, sink.vecs["p_eye"])
	assert.Len(t, sink.mats, 3)

	UploadModel(sink, u)
	assert.Equal(t, u.M, sink.mats["M"])
	assert.Equal(t, u.MN, sink.mats["MN"])
}

func TestUploadLight(t *testing.T) {
	light := scene.DefaultLight()
	light.Position = math.NewVec3(1, 2, 3)

	sink := newRecordingSink()
	UploadLight(sink, light)

	assert.Equal(t, light.Position, sink.vecs["p_light"])
	assert.Equal(t, light.Color, sink.vecs["light_color"])
	assert.Equal(t, math.NewVec3(1, 0.07, 0.017), sink.vecs["light_attenuation"])
}

func TestClampDelta(t *testing.T) {
	tests := []struct {
		in   float64
		want float32
	}{
		{-1, 0},
		{0, 0},
		{0.016, 0.016},
		{0.1, 0.1},
		{3, MaxFrameDelta},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, ClampDelta(tt.in), 1e-7, "ClampDelta(%v)", tt.in)
	}
}

func TestBindingsFor(t *testing.T) {
	b, err := BindingsFor("arrows")
	require.NoError(t, err)
	assert.Equal(t, core.KeyUp, b.Keys[input.KeyForward])

	b, err = BindingsFor("wasd")
	require.NoError(t, err)
	assert.Equal(t, core.KeyW, b.Keys[input.KeyForward])

	_, err = BindingsFor("dvorak")
	assert.Error(t, err)
}
