package math

import (
	"math"
	"testing"
)

const tolerance = 1e-4

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) <= tolerance
}

func TestVec3Operations(t *testing.T) {
	v1 := NewVec3(1, 2, 3)
	v2 := NewVec3(4, 5, 6)

	// Addition
	result := v1.Add(v2)
	expected := NewVec3(5, 7, 9)
	if result != expected {
		t.Errorf("Add: expected %v, got %v", expected, result)
	}

	// Subtraction
	result = v2.Sub(v1)
	expected = NewVec3(3, 3, 3)
	if result != expected {
		t.Errorf("Sub: expected %v, got %v", expected, result)
	}

	// Scalar multiplication
	result = v1.Mul(2)
	expected = NewVec3(2, 4, 6)
	if result != expected {
		t.Errorf("Mul: expected %v, got %v", expected, result)
	}

	// Dot product
	dot := v1.Dot(v2)
	expectedDot := float32(32) // 1*4 + 2*5 + 3*6
	if dot != expectedDot {
		t.Errorf("Dot: expected %v, got %v", expectedDot, dot)
	}

	// Cross product (Right x Up = Front in right-handed system)
	cross := Vec3Right.Cross(Vec3Up)
	if cross != Vec3Front {
		t.Errorf("Cross: expected %v, got %v", Vec3Front, cross)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := NewVec3(3, 0, 0)
	normalized := v.Normalize()
	expected := NewVec3(1, 0, 0)

	if normalized != expected {
		t.Errorf("Normalize: expected %v, got %v", expected, normalized)
	}

	if !near(normalized.Length(), 1) {
		t.Errorf("Normalize: expected length 1, got %v", normalized.Length())
	}

	// The zero vector has no direction and must not turn into NaN.
	if z := Vec3Zero.Normalize(); z != Vec3Zero {
		t.Errorf("Normalize: expected zero vector unchanged, got %v", z)
	}
}

func TestMat4Identity(t *testing.T) {
	m := Mat4Identity()

	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			expected := float32(0)
			if i == j {
				expected = 1
			}
			if m[i][j] != expected {
				t.Errorf("Identity: expected [%d][%d] = %v, got %v", i, j, expected, m[i][j])
			}
		}
	}
}

func TestMat4Multiplication(t *testing.T) {
	a := NewMat4(
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	)

	if got := a.Mul(Mat4Identity()); got != a {
		t.Errorf("Mul: A*I expected %v, got %v", a, got)
	}
	if got := Mat4Identity().Mul(a); got != a {
		t.Errorf("Mul: I*A expected %v, got %v", a, got)
	}

	// Row 0 of A times column 0 of A: 1*1 + 2*5 + 3*9 + 4*13
	if got := a.Mul(a)[0][0]; got != 90 {
		t.Errorf("Mul: expected (A*A)[0][0] = 90, got %v", got)
	}
}

func TestMat4Translation(t *testing.T) {
	translation := NewVec3(1, 2, 3)
	m := Mat4Translation(translation)

	if m[0][3] != 1 || m[1][3] != 2 || m[2][3] != 3 {
		t.Errorf("Translation: expected (1,2,3) in last column, got (%v,%v,%v)", m[0][3], m[1][3], m[2][3])
	}

	result := m.MulVec(NewVec4(0, 0, 0, 1))
	if result.ToVec3() != translation {
		t.Errorf("Translation: expected %v, got %v", translation, result.ToVec3())
	}

	// Directions ignore translation.
	if d := m.MulDir(Vec3Up); d != Vec3Up {
		t.Errorf("Translation: expected direction unchanged, got %v", d)
	}
}

func TestMat4EuclideanInverse(t *testing.T) {
	rot := Mat4RotationAxis(NewVec3(1, 2, 3), 0.7)
	m := Mat4Translation(NewVec3(4, -5, 6)).Mul(rot)

	inv := m.EuclideanInverse()
	if !m.Mul(inv).ApproxEqual(Mat4Identity(), tolerance) {
		t.Errorf("EuclideanInverse: M*inv(M) expected identity, got %v", m.Mul(inv))
	}
	if !inv.Mul(m).ApproxEqual(Mat4Identity(), tolerance) {
		t.Errorf("EuclideanInverse: inv(M)*M expected identity, got %v", inv.Mul(m))
	}
}

func TestMat4FromBasis(t *testing.T) {
	origin := NewVec3(7, 8, 9)
	m := Mat4FromBasis(Vec3Right, Vec3Up, Vec3Front, origin)

	if got := m.MulPoint(Vec3Zero); got != origin {
		t.Errorf("FromBasis: expected local origin at %v, got %v", origin, got)
	}
	if got := m.Column(1).ToVec3(); got != Vec3Up {
		t.Errorf("FromBasis: expected second column %v, got %v", Vec3Up, got)
	}
}

func TestMat4Data(t *testing.T) {
	m := Mat4Translation(NewVec3(1, 2, 3))
	d := m.Data()
	if d[3] != 1 || d[7] != 2 || d[11] != 3 || d[15] != 1 {
		t.Errorf("Data: expected row-major layout, got %v", d)
	}
}

func TestMat3Inverse(t *testing.T) {
	m := Mat3{
		{2, 0, 1},
		{1, 3, 0},
		{0, 1, 4},
	}
	inv, err := m.Inverse()
	if err != nil {
		t.Fatalf("Inverse: unexpected error %v", err)
	}
	p := m.Mul(inv)
	id := Mat3Identity()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if !near(p[i][j], id[i][j]) {
				t.Errorf("Inverse: expected identity at [%d][%d], got %v", i, j, p[i][j])
			}
		}
	}

	if _, err := (Mat3{}).Inverse(); err != ErrSingularMatrix {
		t.Errorf("Inverse: expected ErrSingularMatrix, got %v", err)
	}
}

func TestNormalMatrix(t *testing.T) {
	m := Mat4Scale(NewVec3(2, 1, 1))
	n, err := NormalMatrix(m)
	if err != nil {
		t.Fatalf("NormalMatrix: unexpected error %v", err)
	}
	if !near(n[0][0], 0.5) || !near(n[1][1], 1) || !near(n[2][2], 1) {
		t.Errorf("NormalMatrix: expected diag(0.5,1,1), got %v", n)
	}
}

func TestQuaternionIdentity(t *testing.T) {
	q := QuaternionIdentity()

	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("QuaternionIdentity: expected (0,0,0,1), got (%v,%v,%v,%v)", q.X, q.Y, q.Z, q.W)
	}
}

func TestQuaternionRotation(t *testing.T) {
	// 90 degree rotation around Y axis
	q := QuaternionFromAxisAngle(Vec3Up, Pi/2)

	// Rotating +X by 90 degrees around +Y lands on -Z in a right-handed system.
	result := q.RotateVector(Vec3Right)
	if !result.ApproxEqual(Vec3Back, tolerance) {
		t.Errorf("Quaternion rotation: expected approximately (0,0,-1), got %v", result)
	}

	// The matrix form must agree with direct rotation.
	viaMatrix := q.ToMat4().MulDir(Vec3Right)
	if !viaMatrix.ApproxEqual(result, tolerance) {
		t.Errorf("Quaternion ToMat4: expected %v, got %v", result, viaMatrix)
	}
}

func TestQuaternionMatchesAxisMatrix(t *testing.T) {
	axis := NewVec3(-1, 2, 0.5)
	angle := float32(1.1)
	q := QuaternionFromAxisAngle(axis, angle)
	if !q.ToMat4().ApproxEqual(Mat4RotationAxis(axis, angle), tolerance) {
		t.Errorf("expected quaternion and axis-angle matrices to agree:\n%v\n%v", q.ToMat4(), Mat4RotationAxis(axis, angle))
	}
}

func TestQuaternionSlerpEndpoints(t *testing.T) {
	a := QuaternionIdentity()
	b := QuaternionFromAxisAngle(Vec3Up, Pi/2)

	if got := a.Slerp(b, 0); !near(got.Dot(a), 1) {
		t.Errorf("Slerp(0): expected start, got %v", got)
	}
	if got := a.Slerp(b, 1); !near(got.Dot(b), 1) {
		t.Errorf("Slerp(1): expected end, got %v", got)
	}
	half := a.Slerp(b, 0.5).RotateVector(Vec3Right)
	want := QuaternionFromAxisAngle(Vec3Up, Pi/4).RotateVector(Vec3Right)
	if !half.ApproxEqual(want, tolerance) {
		t.Errorf("Slerp(0.5): expected %v, got %v", want, half)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, -1, 1) != 1 || Clamp(-5, -1, 1) != -1 || Clamp(0.5, -1, 1) != 0.5 {
		t.Error("Clamp: expected values limited to [-1, 1]")
	}
	if v := NewVec2(3, -0.25).Clamp(-1, 1); v != NewVec2(1, -0.25) {
		t.Errorf("Vec2.Clamp: expected (1,-0.25), got %v", v)
	}
	if !near(Rad2Deg(Deg2Rad(45)), 45) {
		t.Error("Deg2Rad/Rad2Deg: expected round trip")
	}
}

func BenchmarkVec3Add(b *testing.B) {
	v1 := NewVec3(1, 2, 3)
	v2 := NewVec3(4, 5, 6)

	for i := 0; i < b.N; i++ {
		_ = v1.Add(v2)
	}
}

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Mat4Identity()
	m2 := Mat4Identity()

	for i := 0; i < b.N; i++ {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4EuclideanInverse(b *testing.B) {
	m := Mat4Translation(NewVec3(1, 2, 3)).Mul(Mat4RotationAxis(Vec3Up, 0.3))

	for i := 0; i < b.N; i++ {
		_ = m.EuclideanInverse()
	}
}
