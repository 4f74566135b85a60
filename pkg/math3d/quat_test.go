package math3d

import (
	"math"
	"testing"
)

func TestQuatFromAxisAngleRotatesVector(t *testing.T) {
	q := QuatFromAxisAngle(V3(0, 1, 0), math.Pi/2)
	got := V3(1, 0, 0).ApplyQuat(q)
	if !got.ApproxEqual(V3(0, 0, -1), 1e-9) {
		t.Errorf("rotated = %v, want (0, 0, -1)", got)
	}

	// The rotation matrix agrees with the quaternion.
	viaMat := RotationFromQuat(q).MulVec3(V3(1, 0, 0))
	if !viaMat.ApproxEqual(got, 1e-9) {
		t.Errorf("matrix rotation = %v, want %v", viaMat, got)
	}
}

func TestEulerRoundTripAllOrders(t *testing.T) {
	for _, order := range []EulerOrder{OrderXYZ, OrderYXZ, OrderZXY, OrderZYX, OrderYZX, OrderXZY} {
		t.Run(order.String(), func(t *testing.T) {
			in := Euler{X: 0.3, Y: -0.5, Z: 1.2, Order: order}
			q := in.Quat()
			out := EulerFromQuat(q, order)

			if out.Order != order {
				t.Errorf("order = %v, want %v", out.Order, order)
			}
			if math.Abs(out.X-in.X) > 1e-9 || math.Abs(out.Y-in.Y) > 1e-9 || math.Abs(out.Z-in.Z) > 1e-9 {
				t.Errorf("euler = %+v, want %+v", out, in)
			}
		})
	}
}

func TestEulerMatchesAxisRotations(t *testing.T) {
	// XYZ order applies X first in the local frame: R = Rx * Ry * Rz.
	e := E(0.4, 0.2, -0.9)
	want := RotateX(e.X).Mul(RotateY(e.Y)).Mul(RotateZ(e.Z))
	got := RotationFromQuat(e.Quat())
	if !got.ApproxEqual(want, 1e-9) {
		t.Errorf("rotation = %v, want %v", got, want)
	}
}

func TestParseEulerOrder(t *testing.T) {
	o, err := ParseEulerOrder("yxz")
	if err != nil || o != OrderYXZ {
		t.Errorf("ParseEulerOrder(yxz) = %v, %v", o, err)
	}
	if o, _ := ParseEulerOrder(""); o != OrderXYZ {
		t.Errorf("empty order = %v, want XYZ", o)
	}
	if _, err := ParseEulerOrder("XXY"); err == nil {
		t.Error("expected error for invalid order")
	}
}

func TestQuatMulComposesRotations(t *testing.T) {
	a := QuatFromAxisAngle(V3(0, 0, 1), math.Pi/2)
	b := QuatFromAxisAngle(V3(1, 0, 0), math.Pi/2)

	// a*b applies b first.
	v := V3(0, 1, 0)
	got := v.ApplyQuat(a.Mul(b))
	want := v.ApplyQuat(b).ApplyQuat(a)
	if !got.ApproxEqual(want, 1e-9) {
		t.Errorf("a*b applied = %v, want %v", got, want)
	}

	if !a.Mul(a.Inverse()).ApproxEqual(IdentityQuat(), 1e-9) {
		t.Error("q * q^-1 should be identity")
	}
}

func TestQuatSlerp(t *testing.T) {
	a := IdentityQuat()
	b := QuatFromAxisAngle(V3(0, 1, 0), math.Pi/2)

	mid := a.Slerp(b, 0.5)
	want := QuatFromAxisAngle(V3(0, 1, 0), math.Pi/4)
	if !mid.ApproxEqual(want, 1e-9) {
		t.Errorf("slerp 0.5 = %v, want %v", mid, want)
	}
	if a.Slerp(b, 0) != a || a.Slerp(b, 1) != b {
		t.Error("slerp endpoints should be exact")
	}
}

func TestQuatFromUnitVectors(t *testing.T) {
	tests := []struct {
		name     string
		from, to Vec3
	}{
		{"x to y", V3(1, 0, 0), V3(0, 1, 0)},
		{"same", V3(0, 0, 1), V3(0, 0, 1)},
		{"opposite", V3(1, 0, 0), V3(-1, 0, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := QuatFromUnitVectors(tc.from, tc.to)
			if got := tc.from.ApplyQuat(q); !got.ApproxEqual(tc.to, 1e-9) {
				t.Errorf("rotated = %v, want %v", got, tc.to)
			}
		})
	}
}

func TestQuatFromRotationMatrixBranches(t *testing.T) {
	// Angles near pi exercise the non-trace branches.
	for _, axis := range []Vec3{V3(1, 0, 0), V3(0, 1, 0), V3(0, 0, 1)} {
		q := QuatFromAxisAngle(axis, math.Pi*0.99)
		got := QuatFromRotationMatrix(RotationFromQuat(q))
		if got.AngleTo(q) > 1e-6 {
			t.Errorf("axis %v: angle between = %v", axis, got.AngleTo(q))
		}
	}
}

func TestNormalizeZero(t *testing.T) {
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("zero Vec3 should normalize to zero")
	}
	if (Vec2{}).Normalize() != (Vec2{}) {
		t.Error("zero Vec2 should normalize to zero")
	}
	if (Quat{}).Normalize() != IdentityQuat() {
		t.Error("zero Quat should normalize to identity")
	}
}
