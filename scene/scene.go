package scene

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"scene-viewer/core"
	"scene-viewer/math"
)

var ErrUnsupportedScene = errors.New("unsupported scene format")

// DefaultSceneName selects the built-in single-triangle scene in LoadScene.
const DefaultSceneName = "default"

// Scene is a flat, non-indexed triangle list split into per-material mesh
// ranges, plus the material table and a single point light.
type Scene struct {
	Name      string
	Vertices  []core.Vertex
	Meshes    []Mesh
	Materials []*Material
	Light     Light
}

// Light is a point light with quadratic attenuation, stored as the constant,
// linear and quadratic coefficients.
type Light struct {
	Position    math.Vec3
	Attenuation math.Vec3
	Color       math.Vec3
}

func DefaultLight() Light {
	return Light{
		Position:    math.NewVec3(0, 0, 0),
		Attenuation: math.NewVec3(1, 0.07, 0.017),
		Color:       math.Vec3One,
	}
}

func NewScene(name string) *Scene {
	return &Scene{
		Name:  name,
		Light: DefaultLight(),
	}
}

// AddMaterial appends m to the material table and returns its index.
func (s *Scene) AddMaterial(m *Material) int {
	s.Materials = append(s.Materials, m)
	return len(s.Materials) - 1
}

// AddMesh appends the triangles in vertices as one mesh range. Every vertex
// is stamped with the material index and gets its triangle's tangent.
// Trailing vertices that do not form a whole triangle are dropped.
func (s *Scene) AddMesh(name string, vertices []core.Vertex, materialIndex int) Mesh {
	count := len(vertices) / 3 * 3
	mesh := Mesh{
		Name:          name,
		Offset:        len(s.Vertices),
		Count:         count,
		MaterialIndex: materialIndex,
	}

	for i := 0; i < count; i += 3 {
		tri := vertices[i : i+3]
		for j := range tri {
			tri[j].MaterialIdx = int32(materialIndex)
		}
		triangleTangents(tri)
	}

	mesh.Bounds = computeAABB(vertices[:count])

	s.Vertices = append(s.Vertices, vertices[:count]...)
	s.Meshes = append(s.Meshes, mesh)
	return mesh
}

func (s *Scene) VertexCount() int {
	return len(s.Vertices)
}

func (s *Scene) TriangleCount() int {
	return len(s.Vertices) / 3
}

func (s *Scene) Bounds() AABB {
	return computeAABB(s.Vertices)
}

// Textures collects every texture referenced by the material table.
func (s *Scene) Textures() []*Texture {
	seen := make(map[*Texture]bool)
	var out []*Texture
	for _, m := range s.Materials {
		for _, tex := range m.Textures() {
			if !seen[tex] {
				seen[tex] = true
				out = append(out, tex)
			}
		}
	}
	return out
}

// DefaultScene is a single white triangle in the z=0 plane, facing a camera
// placed on the negative Z axis.
func DefaultScene() *Scene {
	s := NewScene(DefaultSceneName)
	mat := s.AddMaterial(DefaultMaterial())

	normal := math.Vec3Back
	vertices := []core.Vertex{
		{Position: math.NewVec3(-0.9, 0.9, 0), UV: math.NewVec2(0, 1)},
		{Position: math.NewVec3(0.9, 0.9, 0), UV: math.NewVec2(1, 1)},
		{Position: math.NewVec3(0, -0.9, 0), UV: math.NewVec2(0.5, 0)},
	}
	for i := range vertices {
		vertices[i].Normal = normal
		vertices[i].Color = core.ColorWhite.RGB()
	}
	s.AddMesh("triangle", vertices, mat)
	s.Light.Position = math.NewVec3(0, 0, -5)
	return s
}

// LoadScene resolves path to a scene: the names "default" and "shapes" give
// the built-in scenes, otherwise the file extension picks the loader.
func LoadScene(path string) (*Scene, error) {
	switch path {
	case DefaultSceneName:
		return DefaultScene(), nil
	case ShapesSceneName:
		return ShapesScene(), nil
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		return LoadOBJ(path)
	case ".gltf", ".glb":
		return LoadGLTF(path)
	default:
		return nil, fmt.Errorf("load scene %q: %w", path, ErrUnsupportedScene)
	}
}
