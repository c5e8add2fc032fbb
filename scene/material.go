package scene

import (
	"scene-viewer/core"
	"scene-viewer/math"
)

// Material describes the surface of a mesh range. Texture handles are filled
// in by the GPU backend after upload; until then the material falls back to
// its constant colors.
type Material struct {
	Name      string
	Diffuse   core.Color
	Specular  core.Color
	Shininess float32

	// Roughness, metallic and ambient occlusion, packed as one vector on the
	// GPU side.
	Roughness float32
	Metallic  float32
	AO        float32

	DiffuseTexture *Texture
	RMATexture     *Texture
	NormalTexture  *Texture
}

// DefaultMaterial returns a plain white matte material.
func DefaultMaterial() *Material {
	return &Material{
		Name:      "default",
		Diffuse:   core.ColorWhite,
		Specular:  core.Color{R: 0.3, G: 0.3, B: 0.3, A: 1},
		Shininess: 32,
		Roughness: 0.5,
		AO:        1,
	}
}

func NewMaterial(name string, diffuse core.Color) *Material {
	m := DefaultMaterial()
	m.Name = name
	m.Diffuse = diffuse
	return m
}

// Textures lists the material's textures that still need uploading.
func (m *Material) Textures() []*Texture {
	var out []*Texture
	for _, tex := range []*Texture{m.DiffuseTexture, m.RMATexture, m.NormalTexture} {
		if tex != nil {
			out = append(out, tex)
		}
	}
	return out
}

// GPUMaterial mirrors one std430 entry of the material storage buffer. Every
// vec3 is padded to 16 bytes and every 64-bit bindless handle to 16 bytes,
// giving 96 bytes per material.
type GPUMaterial struct {
	Diffuse    [3]float32
	_          [4]byte
	DiffuseTex uint64
	_          [8]byte

	RMA    [3]float32
	_      [4]byte
	RMATex uint64
	_      [8]byte

	Normal    [3]float32
	_         [4]byte
	NormalTex uint64
	_         [8]byte
}

// GPUMaterialSize is the std430 stride of GPUMaterial.
const GPUMaterialSize = 96

var flatNormal = math.NewVec3(0.5, 0.5, 1)

// GPU packs the material. A bound diffuse texture replaces the constant
// diffuse with white so that the texture is not tinted; slots without an
// uploaded texture use fallback, normally a 1x1 white texture handle.
func (m *Material) GPU(fallback uint64) GPUMaterial {
	out := GPUMaterial{
		Diffuse:    m.Diffuse.RGB().Data(),
		DiffuseTex: fallback,
		RMA:        [3]float32{m.Roughness, m.Metallic, m.AO},
		RMATex:     fallback,
		Normal:     flatNormal.Data(),
		NormalTex:  fallback,
	}

	if h := m.DiffuseTexture.handle(); h != 0 {
		out.Diffuse = core.ColorWhite.RGB().Data()
		out.DiffuseTex = h
	}
	if h := m.RMATexture.handle(); h != 0 {
		out.RMA = [3]float32{1, 1, 1}
		out.RMATex = h
	}
	if h := m.NormalTexture.handle(); h != 0 {
		out.Normal = [3]float32{1, 1, 1}
		out.NormalTex = h
	}
	return out
}

// GPUMaterials packs the scene's material table in index order, matching
// the per-vertex material indices.
func (s *Scene) GPUMaterials(fallback uint64) []GPUMaterial {
	out := make([]GPUMaterial, len(s.Materials))
	for i, m := range s.Materials {
		out[i] = m.GPU(fallback)
	}
	return out
}
