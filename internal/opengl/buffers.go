package opengl

import (
	"errors"
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"

	"scene-viewer/core"
	"scene-viewer/scene"
)

// MaterialBinding is the shader storage binding of the material table.
const MaterialBinding = 0

// SceneBuffers owns the vertex array, vertex buffer and material storage
// buffer of one uploaded scene.
type SceneBuffers struct {
	vao  uint32
	vbo  uint32
	ssbo uint32

	vertexCount int32
	meshes      []scene.Mesh
	textures    []*scene.Texture
	white       *scene.Texture
}

// NewSceneBuffers uploads the scene's vertices and materials. Material
// textures are made resident as bindless handles when the context supports
// it; otherwise the material table carries zero handles.
func NewSceneBuffers(s *scene.Scene) (*SceneBuffers, error) {
	if len(s.Vertices) == 0 {
		return nil, fmt.Errorf("scene %q has no vertices", s.Name)
	}

	b := &SceneBuffers{
		vertexCount: int32(len(s.Vertices)),
		meshes:      s.Meshes,
		white:       scene.NewSolidTexture("white", 255, 255, 255, 255),
	}

	var fallback uint64
	if err := MakeResident(b.white); err == nil {
		fallback = b.white.Handle
		b.textures = append(b.textures, b.white)
		for _, tex := range s.Textures() {
			if err := MakeResident(tex); err != nil {
				slog.Warn("texture not resident", "texture", tex.Name, "error", err)
				continue
			}
			b.textures = append(b.textures, tex)
		}
	} else if !errors.Is(err, ErrBindlessUnsupported) {
		return nil, fmt.Errorf("fallback texture: %w", err)
	}

	stride := int32(unsafe.Sizeof(core.Vertex{}))

	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(s.Vertices)*int(stride), gl.Ptr(s.Vertices), gl.STATIC_DRAW)

	var v core.Vertex
	posOff := int(unsafe.Offsetof(v.Position))
	normOff := int(unsafe.Offsetof(v.Normal))
	colorOff := int(unsafe.Offsetof(v.Color))
	uvOff := int(unsafe.Offsetof(v.UV))
	tangentOff := int(unsafe.Offsetof(v.Tangent))
	matOff := int(unsafe.Offsetof(v.MaterialIdx))

	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(posOff))
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(normOff))
	gl.VertexAttribPointer(2, 3, gl.FLOAT, false, stride, gl.PtrOffset(colorOff))
	gl.VertexAttribPointer(3, 2, gl.FLOAT, false, stride, gl.PtrOffset(uvOff))
	gl.VertexAttribPointer(4, 3, gl.FLOAT, false, stride, gl.PtrOffset(tangentOff))
	gl.VertexAttribIPointer(5, 1, gl.INT, stride, gl.PtrOffset(matOff))
	for i := uint32(0); i < 6; i++ {
		gl.EnableVertexAttribArray(i)
	}

	materials := s.GPUMaterials(fallback)
	gl.GenBuffers(1, &b.ssbo)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, b.ssbo)
	if len(materials) > 0 {
		gl.BufferData(gl.SHADER_STORAGE_BUFFER, len(materials)*scene.GPUMaterialSize, gl.Ptr(materials), gl.STATIC_DRAW)
	}
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, MaterialBinding, b.ssbo)

	gl.BindVertexArray(0)
	return b, nil
}

// Draw submits the whole vertex buffer as one triangle list.
func (b *SceneBuffers) Draw() {
	gl.BindVertexArray(b.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, b.vertexCount)
	gl.BindVertexArray(0)
}

// DrawMeshes submits only the listed mesh ranges.
func (b *SceneBuffers) DrawMeshes(indices []int) {
	gl.BindVertexArray(b.vao)
	for _, i := range indices {
		m := b.meshes[i]
		gl.DrawArrays(gl.TRIANGLES, int32(m.Offset), int32(m.Count))
	}
	gl.BindVertexArray(0)
}

func (b *SceneBuffers) VertexCount() int { return int(b.vertexCount) }

func (b *SceneBuffers) Delete() {
	for _, tex := range b.textures {
		DeleteTexture(tex)
	}
	b.textures = nil
	gl.DeleteBuffers(1, &b.vbo)
	gl.DeleteBuffers(1, &b.ssbo)
	gl.DeleteVertexArrays(1, &b.vao)
	b.vao, b.vbo, b.ssbo = 0, 0, 0
}
