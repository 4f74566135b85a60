package math3d

import (
	"fmt"
	"math"
	"strings"
)

// EulerOrder is the order in which the three axis rotations are applied.
type EulerOrder int

// Rotation orders. XYZ is the default.
const (
	OrderXYZ EulerOrder = iota
	OrderYXZ
	OrderZXY
	OrderZYX
	OrderYZX
	OrderXZY
)

var orderNames = [...]string{"XYZ", "YXZ", "ZXY", "ZYX", "YZX", "XZY"}

func (o EulerOrder) String() string {
	if o < 0 || int(o) >= len(orderNames) {
		return fmt.Sprintf("EulerOrder(%d)", int(o))
	}
	return orderNames[o]
}

// ParseEulerOrder parses an order name such as "XYZ" or "yxz".
func ParseEulerOrder(s string) (EulerOrder, error) {
	if s == "" {
		return OrderXYZ, nil
	}
	for i, name := range orderNames {
		if strings.EqualFold(s, name) {
			return EulerOrder(i), nil
		}
	}
	return OrderXYZ, fmt.Errorf("math3d: unknown euler order %q", s)
}

// Euler holds rotation angles in radians around X, Y and Z.
// It is a view over a rotation; scene nodes store the quaternion and derive
// Euler angles on demand.
type Euler struct {
	X, Y, Z float64
	Order   EulerOrder
}

// E creates an Euler rotation with the default XYZ order.
func E(x, y, z float64) Euler {
	return Euler{X: x, Y: y, Z: z}
}

// Quat converts the rotation to a quaternion.
func (e Euler) Quat() Quat {
	return QuatFromEuler(e)
}

// EulerFromQuat derives Euler angles in the given order from q.
func EulerFromQuat(q Quat, order EulerOrder) Euler {
	return EulerFromRotationMatrix(RotationFromQuat(q), order)
}

// EulerFromRotationMatrix derives Euler angles from the upper 3x3 of an
// unscaled rotation matrix. At gimbal lock the third angle is set to zero.
func EulerFromRotationMatrix(m Mat4, order EulerOrder) Euler {
	m11, m12, m13 := m[0], m[4], m[8]
	m21, m22, m23 := m[1], m[5], m[9]
	m31, m32, m33 := m[2], m[6], m[10]

	const lock = 0.9999999
	e := Euler{Order: order}

	switch order {
	case OrderYXZ:
		e.X = math.Asin(-Clamp(m23, -1, 1))
		if math.Abs(m23) < lock {
			e.Y = math.Atan2(m13, m33)
			e.Z = math.Atan2(m21, m22)
		} else {
			e.Y = math.Atan2(-m31, m11)
		}
	case OrderZXY:
		e.X = math.Asin(Clamp(m32, -1, 1))
		if math.Abs(m32) < lock {
			e.Y = math.Atan2(-m31, m33)
			e.Z = math.Atan2(-m12, m22)
		} else {
			e.Z = math.Atan2(m21, m11)
		}
	case OrderZYX:
		e.Y = math.Asin(-Clamp(m31, -1, 1))
		if math.Abs(m31) < lock {
			e.X = math.Atan2(m32, m33)
			e.Z = math.Atan2(m21, m11)
		} else {
			e.Z = math.Atan2(-m12, m22)
		}
	case OrderYZX:
		e.Z = math.Asin(Clamp(m21, -1, 1))
		if math.Abs(m21) < lock {
			e.X = math.Atan2(-m23, m22)
			e.Y = math.Atan2(-m31, m11)
		} else {
			e.Y = math.Atan2(m13, m33)
		}
	case OrderXZY:
		e.Z = math.Asin(-Clamp(m12, -1, 1))
		if math.Abs(m12) < lock {
			e.X = math.Atan2(m32, m22)
			e.Y = math.Atan2(m13, m11)
		} else {
			e.X = math.Atan2(-m23, m33)
		}
	default:
		e.Y = math.Asin(Clamp(m13, -1, 1))
		if math.Abs(m13) < lock {
			e.X = math.Atan2(-m23, m33)
			e.Z = math.Atan2(-m12, m11)
		} else {
			e.X = math.Atan2(m32, m22)
		}
	}
	return e
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
