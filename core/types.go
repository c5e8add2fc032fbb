package core

import (
	"scene-viewer/math"
)

type Color struct {
	R, G, B, A float32
}

var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}
	ColorGrey  = Color{0.5, 0.5, 0.5, 1}
)

// RGB drops alpha for vec3 uniforms.
func (c Color) RGB() math.Vec3 {
	return math.Vec3{X: c.R, Y: c.G, Z: c.B}
}

// Vertex is the interleaved layout uploaded to the vertex buffer. Field order
// matches the shader attribute locations 0..5.
type Vertex struct {
	Position    math.Vec3
	Normal      math.Vec3
	Color       math.Vec3
	UV          math.Vec2
	Tangent     math.Vec3
	MaterialIdx int32
}
