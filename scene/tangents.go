package scene

import (
	"scene-viewer/core"
	"scene-viewer/math"
)

// triangleTangents assigns each vertex of one triangle the triangle's UV
// tangent, orthogonalized against that vertex's normal. Triangles without a
// usable UV mapping get an arbitrary tangent perpendicular to the normal.
func triangleTangents(tri []core.Vertex) {
	v0, v1, v2 := tri[0], tri[1], tri[2]

	e1 := v1.Position.Sub(v0.Position)
	e2 := v2.Position.Sub(v0.Position)

	dt1 := v1.UV.Sub(v0.UV)
	dt2 := v2.UV.Sub(v0.UV)

	det := dt1.X*dt2.Y - dt2.X*dt1.Y
	var t math.Vec3
	if det != 0 {
		t = e1.Mul(dt2.Y).Sub(e2.Mul(dt1.Y)).Mul(1 / det)
	}

	for i := range tri {
		tri[i].Tangent = orthogonalTangent(t, tri[i].Normal)
	}
}

// orthogonalTangent returns normalize(t - (t.n)n), or some unit vector
// perpendicular to n when that is undefined.
func orthogonalTangent(t, n math.Vec3) math.Vec3 {
	t = t.Sub(n.Mul(t.Dot(n)))
	if t.LengthSqr() < 1e-12 {
		if tangentAbs(n.X) < 0.9 {
			t = math.Vec3{X: 1}.Sub(n.Mul(n.X))
		} else {
			t = math.Vec3{Y: 1}.Sub(n.Mul(n.Y))
		}
	}
	return t.Normalize()
}

// faceNormal is the unit normal of a counter-clockwise triangle.
func faceNormal(p0, p1, p2 math.Vec3) math.Vec3 {
	return p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
}

func tangentAbs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
