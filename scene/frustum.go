package scene

import "scene-viewer/math"

// Plane represents a half-space: Normal·p + D = 0, with Normal pointing into
// the frustum.
type Plane struct {
	Normal math.Vec3
	D      float32
}

// DistanceTo returns the signed distance from a point to the plane.
// Positive means on the inside.
func (p Plane) DistanceTo(pt math.Vec3) float32 {
	return p.Normal.Dot(pt) + p.D
}

// Frustum holds the six clip planes of a view frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far (Y-flipped clip space swaps the labels of bottom and top)
}

// FrustumFromVP extracts the six world-space planes from a view-projection
// matrix using the Gribb/Hartmann row combinations. Matrices here multiply
// column vectors, so the rows are read directly.
func FrustumFromVP(vp math.Mat4) Frustum {
	row := func(i int) math.Vec4 {
		return math.Vec4{X: vp[i][0], Y: vp[i][1], Z: vp[i][2], W: vp[i][3]}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	var f Frustum
	f.Planes[0] = normalizePlane(r3.Add(r0))
	f.Planes[1] = normalizePlane(r3.Sub(r0))
	f.Planes[2] = normalizePlane(r3.Add(r1))
	f.Planes[3] = normalizePlane(r3.Sub(r1))
	f.Planes[4] = normalizePlane(r3.Add(r2))
	f.Planes[5] = normalizePlane(r3.Sub(r2))
	return f
}

func normalizePlane(v math.Vec4) Plane {
	l := v.ToVec3().Length()
	if l == 0 {
		return Plane{}
	}
	return Plane{Normal: v.ToVec3().Div(l), D: v.W / l}
}

// IntersectsFrustum returns false if the box is completely outside the
// frustum. For each plane only the corner furthest along the plane normal is
// tested.
func (box AABB) IntersectsFrustum(f *Frustum) bool {
	for i := 0; i < 6; i++ {
		p := f.Planes[i]
		px := box.Max.X
		if p.Normal.X < 0 {
			px = box.Min.X
		}
		py := box.Max.Y
		if p.Normal.Y < 0 {
			py = box.Min.Y
		}
		pz := box.Max.Z
		if p.Normal.Z < 0 {
			pz = box.Min.Z
		}
		if p.DistanceTo(math.Vec3{X: px, Y: py, Z: pz}) < 0 {
			return false
		}
	}
	return true
}

// VisibleMeshes appends to dst the indices of the mesh ranges whose bounds
// touch the frustum.
func (s *Scene) VisibleMeshes(f *Frustum, dst []int) []int {
	for i, m := range s.Meshes {
		if m.Bounds.IntersectsFrustum(f) {
			dst = append(dst, i)
		}
	}
	return dst
}
