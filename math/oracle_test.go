package math

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

// The mgl32 matrices are column-major but At(row, col) reads them in the
// same orientation as Mat4[row][col].

func TestRotationAgreesWithMathGL(t *testing.T) {
	axes := []Vec3{Vec3Up, Vec3Right, NewVec3(1, 1, 1), NewVec3(-0.3, 0.2, 0.9)}
	angles := []float32{0.1, Pi / 3, -2.2}

	for _, axis := range axes {
		for _, angle := range angles {
			got := Mat4RotationAxis(axis, angle)
			n := axis.Normalize()
			want := mgl32.HomogRotate3D(angle, mgl32.Vec3{n.X, n.Y, n.Z})
			for i := 0; i < 4; i++ {
				for j := 0; j < 4; j++ {
					assert.InDelta(t, want.At(i, j), got[i][j], 1e-5, "axis %v angle %v [%d][%d]", axis, angle, i, j)
				}
			}
		}
	}
}

func TestQuaternionAgreesWithMathGL(t *testing.T) {
	axis := NewVec3(0.4, -1, 0.25).Normalize()
	v := NewVec3(3, -2, 5)

	got := QuaternionFromAxisAngle(axis, 0.9).RotateVector(v)
	want := mgl32.QuatRotate(0.9, mgl32.Vec3{axis.X, axis.Y, axis.Z}).Rotate(mgl32.Vec3{v.X, v.Y, v.Z})

	assert.InDelta(t, want.X(), got.X, 1e-4)
	assert.InDelta(t, want.Y(), got.Y, 1e-4)
	assert.InDelta(t, want.Z(), got.Z, 1e-4)
}

func TestEuclideanInverseAgreesWithMathGL(t *testing.T) {
	m := Mat4Translation(NewVec3(1, -2, 3)).Mul(Mat4RotationAxis(NewVec3(0, 1, 1), 0.6))

	var mg mgl32.Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			mg.Set(i, j, m[i][j])
		}
	}
	want := mg.Inv()
	got := m.EuclideanInverse()

	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			assert.InDelta(t, want.At(i, j), got[i][j], 1e-4)
		}
	}
}
