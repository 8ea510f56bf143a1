package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	id := Identity()
	result := m.Mul(id)

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)

	// Translation should be in column 4 (indices 12, 13, 14)
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
}

func TestScale(t *testing.T) {
	m := Scale(2, 3, 4)

	if m[0] != 2 || m[5] != 3 || m[10] != 4 {
		t.Errorf("Scale diagonal: got (%f, %f, %f), want (2, 3, 4)", m[0], m[5], m[10])
	}
}

func TestTransformPoint(t *testing.T) {
	// Translate by (10, 20, 30)
	m := Translate(10, 20, 30)
	p := [3]float32{1, 2, 3}
	result := m.TransformPoint(p)

	expected := [3]float32{11, 22, 33}
	if result != expected {
		t.Errorf("TransformPoint: got %v, want %v", result, expected)
	}
}

func TestTransformPointScale(t *testing.T) {
	m := Scale(2, 2, 2)
	p := [3]float32{1, 2, 3}
	result := m.TransformPoint(p)

	expected := [3]float32{2, 4, 6}
	if result != expected {
		t.Errorf("TransformPoint with scale: got %v, want %v", result, expected)
	}
}

func TestRotateZ90(t *testing.T) {
	m := RotateZ(float32(math.Pi / 2)) // 90 degrees
	p := [3]float32{1, 0, 0}           // Point on X axis
	result := m.TransformPoint(p)

	// After 90 degree Z rotation, (1,0,0) should become approximately (0,1,0)
	if abs(result[0]) > 0.001 || abs(result[1]-1) > 0.001 || abs(result[2]) > 0.001 {
		t.Errorf("RotateZ 90: got %v, want (0, 1, 0)", result)
	}
}

func TestPerspective(t *testing.T) {
	fov := float32(math.Pi / 4) // 45 degrees
	aspect := float32(1.0)
	near := float32(0.1)
	far := float32(100.0)

	m := Perspective(fov, aspect, near, far)

	// Should be a valid projection matrix (not identity)
	if m[0] == 0 || m[5] == 0 {
		t.Error("Perspective should have non-zero elements")
	}
	// Element [15] should be 0 for perspective projection
	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	// Element [11] should be -1 for perspective projection
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}
}

func TestLookAt(t *testing.T) {
	eye := Vec3{0, 0, 5}
	center := Vec3{0, 0, 0}
	up := Vec3{0, 1, 0}

	m := LookAt(eye, center, up)

	// Transform eye position - should result in origin (or close to it)
	// This is a simple sanity check
	if m[15] != 1 {
		t.Errorf("LookAt [15] should be 1, got %f", m[15])
	}
}

func TestFromTRSMatchesProduct(t *testing.T) {
	tr := Vec3{1, 2, 3}
	rot := QuatFromAxisAngle(Vec3{0, 0, 1}, 0.7)
	scl := Vec3{2, 3, 4}

	got := FromTRS(tr, rot, scl)
	want := Translate(1, 2, 3).Mul(rot.ToMat4()).Mul(Scale(2, 3, 4))
	if !got.ApproxEqual(want, 1e-5) {
		t.Errorf("FromTRS: got %v, want %v", got, want)
	}
}

func TestPostMultipliedOps(t *testing.T) {
	base := RotateZ(0.4).Mul(Scale(2, 2, 2))
	v := Vec3{1, -2, 0.5}
	q := QuatFromAxisAngle(Vec3{1, 0, 0}, 1.1)

	if got, want := base.Translated(v), base.Mul(Translate(v.X, v.Y, v.Z)); !got.ApproxEqual(want, 1e-5) {
		t.Errorf("Translated: got %v, want %v", got, want)
	}
	if got, want := base.Rotated(q), base.Mul(q.ToMat4()); !got.ApproxEqual(want, 1e-5) {
		t.Errorf("Rotated: got %v, want %v", got, want)
	}
	if got, want := base.Scaled(1, 2, 3), base.Mul(Scale(1, 2, 3)); !got.ApproxEqual(want, 1e-5) {
		t.Errorf("Scaled: got %v, want %v", got, want)
	}
}

func TestInverse(t *testing.T) {
	m := FromTRS(Vec3{4, 5, 6}, QuatFromAxisAngle(Vec3{0, 1, 0}, 0.3), Vec3{1, 2, 3})
	if got := m.Mul(m.Inverse()); !got.ApproxEqual(Identity(), 1e-5) {
		t.Errorf("M * M^-1 should be identity, got %v", got)
	}
}

func TestNormalMatrixUniformScale(t *testing.T) {
	m := Translate(10, 0, 0).Mul(Scale(2, 2, 2))
	n := m.NormalMatrix()

	// Inverse transpose of a uniform scale is the reciprocal scale, translation dropped
	if abs(n[0]-0.5) > 1e-5 || abs(n[5]-0.5) > 1e-5 || abs(n[10]-0.5) > 1e-5 {
		t.Errorf("NormalMatrix diagonal: got (%f, %f, %f), want 0.5", n[0], n[5], n[10])
	}
	if n[12] != 0 || n[13] != 0 || n[14] != 0 {
		t.Errorf("NormalMatrix should not carry translation, got (%f, %f, %f)", n[12], n[13], n[14])
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
