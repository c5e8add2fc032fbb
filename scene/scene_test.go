package scene

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-viewer/core"
	"scene-viewer/math"
)

func TestDefaultScene(t *testing.T) {
	s, err := LoadScene("default")
	require.NoError(t, err)

	assert.Equal(t, 3, s.VertexCount())
	assert.Equal(t, 1, s.TriangleCount())
	require.Len(t, s.Meshes, 1)
	require.Len(t, s.Materials, 1)
	assert.Equal(t, "triangle", s.Meshes[0].Name)
	assert.Equal(t, 0, s.Meshes[0].Offset)
	assert.Equal(t, 3, s.Meshes[0].Count)
	assert.Equal(t, 0, s.Meshes[0].MaterialIndex)

	assert.Equal(t, math.NewVec3(1, 0.07, 0.017), s.Light.Attenuation)
	assert.Equal(t, math.Vec3One, s.Light.Color)

	bounds := s.Bounds()
	assert.Equal(t, math.NewVec3(-0.9, -0.9, 0), bounds.Min)
	assert.Equal(t, math.NewVec3(0.9, 0.9, 0), bounds.Max)
}

func TestLoadSceneUnsupported(t *testing.T) {
	_, err := LoadScene("model.fbx")
	assert.ErrorIs(t, err, ErrUnsupportedScene)
}

func TestAddMeshStampsMaterialAndTangents(t *testing.T) {
	s := NewScene("test")
	s.AddMaterial(DefaultMaterial())
	red := s.AddMaterial(NewMaterial("red", core.Color{R: 1, A: 1}))

	n := math.Vec3Front
	verts := []core.Vertex{
		{Position: math.NewVec3(0, 0, 0), Normal: n, UV: math.NewVec2(0, 0)},
		{Position: math.NewVec3(2, 0, 0), Normal: n, UV: math.NewVec2(1, 0)},
		{Position: math.NewVec3(0, 2, 0), Normal: n, UV: math.NewVec2(0, 1)},
		// dangling vertex, not a whole triangle
		{Position: math.NewVec3(5, 5, 5)},
	}

	first := s.AddMesh("a", verts[:3], 0)
	second := s.AddMesh("b", verts, red)

	assert.Equal(t, 0, first.Offset)
	assert.Equal(t, 3, second.Offset)
	assert.Equal(t, 3, second.Count)
	assert.Equal(t, 6, s.VertexCount())

	for _, v := range s.Vertices[3:] {
		assert.Equal(t, int32(red), v.MaterialIdx)
		assert.True(t, v.Tangent.ApproxEqual(math.Vec3Right, epsilon), "tangent %v", v.Tangent)
	}
}

func TestTangentOrthogonalToNormal(t *testing.T) {
	tri := []core.Vertex{
		{Position: math.NewVec3(0, 0, 0), Normal: math.NewVec3(0, 0.2, 1).Normalize(), UV: math.NewVec2(0, 0)},
		{Position: math.NewVec3(1, 0, 0), Normal: math.NewVec3(0.3, 0, 1).Normalize(), UV: math.NewVec2(1, 0)},
		{Position: math.NewVec3(0, 1, 0), Normal: math.Vec3Front, UV: math.NewVec2(0, 1)},
	}
	triangleTangents(tri)

	for i, v := range tri {
		assert.InDelta(t, 1, v.Tangent.Length(), epsilon, "vertex %d", i)
		assert.InDelta(t, 0, v.Tangent.Dot(v.Normal), epsilon, "vertex %d", i)
	}
}

func TestTangentDegenerateUV(t *testing.T) {
	tri := []core.Vertex{
		{Position: math.NewVec3(0, 0, 0), Normal: math.Vec3Up},
		{Position: math.NewVec3(1, 0, 0), Normal: math.Vec3Up},
		{Position: math.NewVec3(0, 0, 1), Normal: math.Vec3Up},
	}
	triangleTangents(tri)

	for _, v := range tri {
		assert.InDelta(t, 1, v.Tangent.Length(), epsilon)
		assert.InDelta(t, 0, v.Tangent.Dot(math.Vec3Up), epsilon)
	}
}

func TestGPUMaterialLayout(t *testing.T) {
	var m GPUMaterial
	assert.Equal(t, uintptr(GPUMaterialSize), unsafe.Sizeof(m))
	assert.Equal(t, uintptr(16), unsafe.Offsetof(m.DiffuseTex))
	assert.Equal(t, uintptr(32), unsafe.Offsetof(m.RMA))
	assert.Equal(t, uintptr(48), unsafe.Offsetof(m.RMATex))
	assert.Equal(t, uintptr(64), unsafe.Offsetof(m.Normal))
	assert.Equal(t, uintptr(80), unsafe.Offsetof(m.NormalTex))
}

func TestGPUMaterialTextures(t *testing.T) {
	const white = 7

	plain := NewMaterial("plain", core.Color{R: 0.2, G: 0.4, B: 0.6, A: 1})
	gpu := plain.GPU(white)
	assert.Equal(t, [3]float32{0.2, 0.4, 0.6}, gpu.Diffuse)
	assert.Equal(t, uint64(white), gpu.DiffuseTex)
	assert.Equal(t, [3]float32{0.5, 0, 1}, gpu.RMA)

	textured := NewMaterial("textured", core.Color{R: 0.2, G: 0.4, B: 0.6, A: 1})
	textured.DiffuseTexture = &Texture{Name: "albedo", Handle: 42}
	textured.RMATexture = &Texture{Name: "rma"} // not resident yet
	gpu = textured.GPU(white)
	assert.Equal(t, [3]float32{1, 1, 1}, gpu.Diffuse)
	assert.Equal(t, uint64(42), gpu.DiffuseTex)
	assert.Equal(t, uint64(white), gpu.RMATex)

	s := NewScene("materials")
	s.AddMaterial(plain)
	s.AddMaterial(textured)
	packed := s.GPUMaterials(white)
	require.Len(t, packed, 2)
	assert.Equal(t, uint64(42), packed[1].DiffuseTex)
	assert.Len(t, s.Textures(), 2)
}
