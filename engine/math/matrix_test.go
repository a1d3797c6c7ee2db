package math

import (
	"testing"
)

const tolerance = 1e-4

func TestMat4IdentityMul(t *testing.T) {
	id := NewMat4Identity()
	m := NewMat4Translation(NewVec3(1, 2, 3)).Mul(NewMat4EulerY(0.7))

	if got := m.Mul(id); !got.Compare(m, tolerance) {
		t.Errorf("m * I = %v, want %v", got.Data, m.Data)
	}
	if got := id.Mul(m); !got.Compare(m, tolerance) {
		t.Errorf("I * m = %v, want %v", got.Data, m.Data)
	}
}

func TestMat4TransposedTwiceIsIdentityOp(t *testing.T) {
	m := NewMat4LookAt(NewVec3(3, 4, 5), NewVec3Zero(), NewVec3Up())
	if got := NewMat4Transposed(NewMat4Transposed(m)); !got.Compare(m, tolerance) {
		t.Errorf("double transpose changed the matrix: %v", got.Data)
	}
}

func TestMat4Determinant(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
		want float32
	}{
		{"identity", NewMat4Identity(), 1},
		{"uniform scale", NewMat4Scale(NewVec3(2, 2, 2)), 8},
		{"rotation preserves volume", NewMat4EulerXYZ(0.3, 1.1, -0.5), 1},
		{"translation preserves volume", NewMat4Translation(NewVec3(7, -2, 9)), 1},
		{"singular", NewMat4Scale(NewVec3(1, 0, 1)), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.Determinant(); Abs(got-tt.want) > tolerance {
				t.Errorf("Determinant() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestMat4InverseRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
	}{
		{"translation", NewMat4Translation(NewVec3(1, -4, 12))},
		{"rotation", NewMat4EulerXYZ(0.4, -0.9, 2.2)},
		{"look-at", NewMat4LookAt(NewVec3(0, 0, 10), NewVec3Zero(), NewVec3Up())},
		{"perspective", NewMat4Perspective(DegToRad(90), 16.0/9.0, 1.0, 1000.0)},
		{"composite", NewMat4Scale(NewVec3(2, 3, 4)).Mul(NewMat4EulerY(1.3)).Mul(NewMat4Translation(NewVec3(5, 6, 7)))},
	}
	id := NewMat4Identity()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := tt.m.Inverse()
			if got := tt.m.Mul(inv); !got.Compare(id, 1e-3) {
				t.Errorf("m * m^-1 = %v, want identity", got.Data)
			}
			if got := inv.Mul(tt.m); !got.Compare(id, 1e-3) {
				t.Errorf("m^-1 * m = %v, want identity", got.Data)
			}
		})
	}
}

func TestMat4LookAtMapsEyeToOrigin(t *testing.T) {
	eye := NewVec3(0, 0, 10)
	view := NewMat4LookAt(eye, NewVec3Zero(), NewVec3Up())

	if got := eye.Transform(view); !got.Compare(NewVec3Zero(), tolerance) {
		t.Errorf("view transform of the eye = %v, want origin", got)
	}
	// A point between the eye and the target lands on the negative z axis.
	if got := NewVec3(0, 0, 5).Transform(view); got.Z >= 0 {
		t.Errorf("point in front of the camera has view-space z %f, want < 0", got.Z)
	}
}

func TestVec3CrossOrthogonality(t *testing.T) {
	a := NewVec3(1, 2, 3).Normalized()
	b := NewVec3(-4, 1, 0.5).Normalized()
	c := a.Cross(b)
	if Abs(c.Dot(a)) > tolerance || Abs(c.Dot(b)) > tolerance {
		t.Errorf("cross product %v not orthogonal to inputs", c)
	}
}
