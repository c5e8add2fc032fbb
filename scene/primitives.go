package scene

import (
	"github.com/chewxy/math32"

	"scene-viewer/core"
	"scene-viewer/math"
)

// ShapesSceneName selects the built-in primitive showcase in LoadScene.
const ShapesSceneName = "shapes"

// SphereVertices generates a UV sphere centred on the origin as a flat
// triangle list.
func SphereVertices(radius float32, segments, rings int) []core.Vertex {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}

	var vertices []core.Vertex
	var indices []uint32

	for ring := 0; ring <= rings; ring++ {
		phi := float32(ring) * math.Pi / float32(rings)
		sinPhi, cosPhi := math32.Sincos(phi)

		for seg := 0; seg <= segments; seg++ {
			theta := float32(seg) * 2 * math.Pi / float32(segments)
			sinTheta, cosTheta := math32.Sincos(theta)

			normal := math.Vec3{X: sinPhi * cosTheta, Y: cosPhi, Z: sinPhi * sinTheta}
			vertices = append(vertices, core.Vertex{
				Position: normal.Mul(radius),
				Normal:   normal,
				UV:       math.Vec2{X: float32(seg) / float32(segments), Y: float32(ring) / float32(rings)},
			})
		}
	}

	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			current := uint32(ring*(segments+1) + seg)
			next := current + uint32(segments+1)

			indices = append(indices, current, next, current+1)
			indices = append(indices, current+1, next, next+1)
		}
	}

	return expandIndexed(vertices, indices)
}

// TorusVertices generates a torus around the Y axis as a flat triangle list.
func TorusVertices(majorRadius, minorRadius float32, majorSegments, minorSegments int) []core.Vertex {
	if majorSegments < 3 {
		majorSegments = 3
	}
	if minorSegments < 3 {
		minorSegments = 3
	}

	var vertices []core.Vertex
	var indices []uint32

	for i := 0; i <= majorSegments; i++ {
		theta := float32(i) * 2 * math.Pi / float32(majorSegments)
		sinTheta, cosTheta := math32.Sincos(theta)

		for j := 0; j <= minorSegments; j++ {
			phi := float32(j) * 2 * math.Pi / float32(minorSegments)
			sinPhi, cosPhi := math32.Sincos(phi)

			ring := majorRadius + minorRadius*cosPhi
			vertices = append(vertices, core.Vertex{
				Position: math.Vec3{X: ring * cosTheta, Y: minorRadius * sinPhi, Z: ring * sinTheta},
				Normal:   math.Vec3{X: cosPhi * cosTheta, Y: sinPhi, Z: cosPhi * sinTheta}.Normalize(),
				UV:       math.Vec2{X: float32(i) / float32(majorSegments), Y: float32(j) / float32(minorSegments)},
			})
		}
	}

	for i := 0; i < majorSegments; i++ {
		for j := 0; j < minorSegments; j++ {
			current := uint32(i*(minorSegments+1) + j)
			next := uint32((i+1)*(minorSegments+1) + j)

			indices = append(indices, current, next, current+1)
			indices = append(indices, current+1, next, next+1)
		}
	}

	return expandIndexed(vertices, indices)
}

// PlaneVertices generates a subdivided plane in XZ facing +Y.
func PlaneVertices(width, depth float32, subdivisions int) []core.Vertex {
	if subdivisions < 1 {
		subdivisions = 1
	}

	var vertices []core.Vertex
	var indices []uint32

	for z := 0; z <= subdivisions; z++ {
		for x := 0; x <= subdivisions; x++ {
			u := float32(x) / float32(subdivisions)
			v := float32(z) / float32(subdivisions)

			vertices = append(vertices, core.Vertex{
				Position: math.Vec3{X: (u - 0.5) * width, Y: 0, Z: (v - 0.5) * depth},
				Normal:   math.Vec3Up,
				UV:       math.Vec2{X: u, Y: v},
			})
		}
	}

	for z := 0; z < subdivisions; z++ {
		for x := 0; x < subdivisions; x++ {
			topLeft := uint32(z*(subdivisions+1) + x)
			topRight := topLeft + 1
			bottomLeft := topLeft + uint32(subdivisions+1)
			bottomRight := bottomLeft + 1

			indices = append(indices, topLeft, bottomLeft, topRight)
			indices = append(indices, topRight, bottomLeft, bottomRight)
		}
	}

	return expandIndexed(vertices, indices)
}

// expandIndexed resolves an indexed mesh into the flat triangle list Scene
// stores. Vertex colors default to white.
func expandIndexed(vertices []core.Vertex, indices []uint32) []core.Vertex {
	out := make([]core.Vertex, len(indices))
	for i, idx := range indices {
		v := vertices[idx]
		v.Color = core.ColorWhite.RGB()
		out[i] = v
	}
	return out
}

func translated(vertices []core.Vertex, offset math.Vec3) []core.Vertex {
	for i := range vertices {
		vertices[i].Position = vertices[i].Position.Add(offset)
	}
	return vertices
}

// ShapesScene is a sphere and a torus standing on a floor plane, each with
// its own material. It gives frustum culling and the material table more
// than one mesh to work with when no model file is at hand.
func ShapesScene() *Scene {
	s := NewScene(ShapesSceneName)

	floor := NewMaterial("floor", core.ColorGrey)
	floor.Roughness = 0.9

	sphere := NewMaterial("sphere", core.Color{R: 0.8, G: 0.2, B: 0.15, A: 1})
	sphere.Roughness = 0.3

	torus := NewMaterial("torus", core.Color{R: 0.95, G: 0.75, B: 0.3, A: 1})
	torus.Roughness = 0.25
	torus.Metallic = 1

	s.AddMesh("floor", translated(PlaneVertices(12, 12, 4), math.NewVec3(0, -1, 0)), s.AddMaterial(floor))
	s.AddMesh("sphere", translated(SphereVertices(1, 32, 16), math.NewVec3(-2, 0, 0)), s.AddMaterial(sphere))
	s.AddMesh("torus", translated(TorusVertices(0.8, 0.3, 32, 16), math.NewVec3(2, 0, 0)), s.AddMaterial(torus))

	s.Light.Position = math.NewVec3(0, 4, -4)
	return s
}
