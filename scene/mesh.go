package scene

import (
	"scene-viewer/core"
	"scene-viewer/math"
)

// Mesh is a contiguous range of the scene vertex buffer drawn with one
// material. Offset and Count are in vertices; every three form a triangle.
type Mesh struct {
	Name          string
	Offset        int
	Count         int
	MaterialIndex int
	Bounds        AABB
}

func (m Mesh) TriangleCount() int {
	return m.Count / 3
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max math.Vec3
}

func (b AABB) Center() math.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b AABB) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// computeAABB returns the tight box around the given vertex positions.
func computeAABB(vertices []core.Vertex) AABB {
	if len(vertices) == 0 {
		return AABB{}
	}
	min := vertices[0].Position
	max := vertices[0].Position
	for i := 1; i < len(vertices); i++ {
		p := vertices[i].Position
		min = math.Vec3{X: minf(min.X, p.X), Y: minf(min.Y, p.Y), Z: minf(min.Z, p.Z)}
		max = math.Vec3{X: maxf(max.X, p.X), Y: maxf(max.Y, p.Y), Z: maxf(max.Z, p.Z)}
	}
	return AABB{Min: min, Max: max}
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
