package math

import (
	"errors"

	"github.com/chewxy/math32"
)

// ErrSingularMatrix is returned when inverting a matrix with a zero determinant.
var ErrSingularMatrix = errors.New("matrix is singular")

// Mat3 is a 3x3 matrix with the same layout rules as Mat4.
type Mat3 [3][3]float32

func Mat3Identity() Mat3 {
	return Mat3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

func (m Mat3) Mul(other Mat3) Mat3 {
	var result Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				result[i][j] += m[i][k] * other[k][j]
			}
		}
	}
	return result
}

func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

func (m Mat3) Transpose() Mat3 {
	return Mat3{
		{m[0][0], m[1][0], m[2][0]},
		{m[0][1], m[1][1], m[2][1]},
		{m[0][2], m[1][2], m[2][2]},
	}
}

func (m Mat3) Determinant() float32 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// Inverse uses the adjugate. Near-zero determinants are reported as singular.
func (m Mat3) Inverse() (Mat3, error) {
	det := m.Determinant()
	if math32.Abs(det) < 1e-12 {
		return Mat3{}, ErrSingularMatrix
	}
	inv := 1 / det
	return Mat3{
		{
			(m[1][1]*m[2][2] - m[1][2]*m[2][1]) * inv,
			(m[0][2]*m[2][1] - m[0][1]*m[2][2]) * inv,
			(m[0][1]*m[1][2] - m[0][2]*m[1][1]) * inv,
		},
		{
			(m[1][2]*m[2][0] - m[1][0]*m[2][2]) * inv,
			(m[0][0]*m[2][2] - m[0][2]*m[2][0]) * inv,
			(m[0][2]*m[1][0] - m[0][0]*m[1][2]) * inv,
		},
		{
			(m[1][0]*m[2][1] - m[1][1]*m[2][0]) * inv,
			(m[0][1]*m[2][0] - m[0][0]*m[2][1]) * inv,
			(m[0][0]*m[1][1] - m[0][1]*m[1][0]) * inv,
		},
	}, nil
}

// NormalMatrix returns the inverse-transpose of the linear part of m, used to
// carry normals through non-uniform scales.
func NormalMatrix(m Mat4) (Mat3, error) {
	inv, err := m.Mat3().Inverse()
	if err != nil {
		return Mat3{}, err
	}
	return inv.Transpose(), nil
}

// Data flattens the matrix row by row.
func (m Mat3) Data() [9]float32 {
	var d [9]float32
	for i := 0; i < 3; i++ {
		copy(d[i*3:i*3+3], m[i][:])
	}
	return d
}
