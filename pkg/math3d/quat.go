package math3d

import "math"

// Quat is a rotation quaternion. The identity is (0, 0, 0, 1).
type Quat struct {
	X, Y, Z, W float64
}

// Q creates a new Quat.
func Q(x, y, z, w float64) Quat {
	return Quat{x, y, z, w}
}

// IdentityQuat returns the identity rotation.
func IdentityQuat() Quat {
	return Quat{0, 0, 0, 1}
}

// QuatFromAxisAngle returns a rotation of angle radians around axis.
// The axis is normalized first.
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	axis = axis.Normalize()
	s := math.Sin(angle / 2)
	return Quat{axis.X * s, axis.Y * s, axis.Z * s, math.Cos(angle / 2)}
}

// QuatFromEuler converts Euler angles to a quaternion, honoring e.Order.
func QuatFromEuler(e Euler) Quat {
	c1, c2, c3 := math.Cos(e.X/2), math.Cos(e.Y/2), math.Cos(e.Z/2)
	s1, s2, s3 := math.Sin(e.X/2), math.Sin(e.Y/2), math.Sin(e.Z/2)

	switch e.Order {
	case OrderYXZ:
		return Quat{
			s1*c2*c3 + c1*s2*s3,
			c1*s2*c3 - s1*c2*s3,
			c1*c2*s3 - s1*s2*c3,
			c1*c2*c3 + s1*s2*s3,
		}
	case OrderZXY:
		return Quat{
			s1*c2*c3 - c1*s2*s3,
			c1*s2*c3 + s1*c2*s3,
			c1*c2*s3 + s1*s2*c3,
			c1*c2*c3 - s1*s2*s3,
		}
	case OrderZYX:
		return Quat{
			s1*c2*c3 - c1*s2*s3,
			c1*s2*c3 + s1*c2*s3,
			c1*c2*s3 - s1*s2*c3,
			c1*c2*c3 + s1*s2*s3,
		}
	case OrderYZX:
		return Quat{
			s1*c2*c3 + c1*s2*s3,
			c1*s2*c3 + s1*c2*s3,
			c1*c2*s3 - s1*s2*c3,
			c1*c2*c3 - s1*s2*s3,
		}
	case OrderXZY:
		return Quat{
			s1*c2*c3 - c1*s2*s3,
			c1*s2*c3 - s1*c2*s3,
			c1*c2*s3 + s1*s2*c3,
			c1*c2*c3 + s1*s2*s3,
		}
	default: // XYZ
		return Quat{
			s1*c2*c3 + c1*s2*s3,
			c1*s2*c3 - s1*c2*s3,
			c1*c2*s3 + s1*s2*c3,
			c1*c2*c3 - s1*s2*s3,
		}
	}
}

// QuatFromRotationMatrix extracts the rotation of a pure (unscaled) rotation
// matrix stored in the upper 3x3 of m.
func QuatFromRotationMatrix(m Mat4) Quat {
	m11, m12, m13 := m[0], m[4], m[8]
	m21, m22, m23 := m[1], m[5], m[9]
	m31, m32, m33 := m[2], m[6], m[10]

	trace := m11 + m22 + m33

	switch {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		return Quat{(m32 - m23) * s, (m13 - m31) * s, (m21 - m12) * s, 0.25 / s}
	case m11 > m22 && m11 > m33:
		s := 2 * math.Sqrt(1+m11-m22-m33)
		return Quat{0.25 * s, (m12 + m21) / s, (m13 + m31) / s, (m32 - m23) / s}
	case m22 > m33:
		s := 2 * math.Sqrt(1+m22-m11-m33)
		return Quat{(m12 + m21) / s, 0.25 * s, (m23 + m32) / s, (m13 - m31) / s}
	default:
		s := 2 * math.Sqrt(1+m33-m11-m22)
		return Quat{(m13 + m31) / s, (m23 + m32) / s, 0.25 * s, (m21 - m12) / s}
	}
}

// QuatFromUnitVectors returns the rotation that turns unit vector from onto to.
func QuatFromUnitVectors(from, to Vec3) Quat {
	r := from.Dot(to) + 1

	var q Quat
	if r < 1e-6 {
		// Opposite vectors: pick any axis orthogonal to from.
		if math.Abs(from.X) > math.Abs(from.Z) {
			q = Quat{-from.Y, from.X, 0, 0}
		} else {
			q = Quat{0, -from.Z, from.Y, 0}
		}
	} else {
		c := from.Cross(to)
		q = Quat{c.X, c.Y, c.Z, r}
	}
	return q.Normalize()
}

// Mul returns the Hamilton product a * b, i.e. the rotation b followed by a.
//
//nolint:st1016 // a*b naming convention is clearer for quaternion products
func (a Quat) Mul(b Quat) Quat {
	return Quat{
		a.X*b.W + a.W*b.X + a.Y*b.Z - a.Z*b.Y,
		a.Y*b.W + a.W*b.Y + a.Z*b.X - a.X*b.Z,
		a.Z*b.W + a.W*b.Z + a.X*b.Y - a.Y*b.X,
		a.W*b.W - a.X*b.X - a.Y*b.Y - a.Z*b.Z,
	}
}

// Conjugate returns the conjugate, which is the inverse of a unit quaternion.
func (q Quat) Conjugate() Quat {
	return Quat{-q.X, -q.Y, -q.Z, q.W}
}

// Inverse returns the inverse rotation of a unit quaternion.
func (q Quat) Inverse() Quat {
	return q.Conjugate()
}

// Dot returns the four-component dot product.
//
//nolint:st1016 // a,b naming convention is clearer for quaternion products
func (a Quat) Dot(b Quat) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z + a.W*b.W
}

// Len returns the quaternion norm.
func (q Quat) Len() float64 {
	return math.Sqrt(q.Dot(q))
}

// Normalize returns the unit quaternion. A zero quaternion becomes identity.
func (q Quat) Normalize() Quat {
	l := q.Len()
	if l == 0 {
		return IdentityQuat()
	}
	return Quat{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

// AngleTo returns the angle in radians between two unit quaternions.
//
//nolint:st1016 // a,b naming convention is clearer for quaternion products
func (a Quat) AngleTo(b Quat) float64 {
	d := math.Abs(a.Dot(b))
	return 2 * math.Acos(math.Min(d, 1))
}

// Slerp returns the spherical interpolation between a and b by t.
//
//nolint:st1016 // a,b naming convention is clearer for interpolation
func (a Quat) Slerp(b Quat, t float64) Quat {
	if t == 0 {
		return a
	}
	if t == 1 {
		return b
	}

	cosHalf := a.Dot(b)
	if cosHalf < 0 {
		b = Quat{-b.X, -b.Y, -b.Z, -b.W}
		cosHalf = -cosHalf
	}
	if cosHalf >= 1 {
		return a
	}

	sqrSin := 1 - cosHalf*cosHalf
	if sqrSin <= 1e-12 {
		s := 1 - t
		return Quat{
			s*a.X + t*b.X,
			s*a.Y + t*b.Y,
			s*a.Z + t*b.Z,
			s*a.W + t*b.W,
		}.Normalize()
	}

	sinHalf := math.Sqrt(sqrSin)
	half := math.Atan2(sinHalf, cosHalf)
	ra := math.Sin((1-t)*half) / sinHalf
	rb := math.Sin(t*half) / sinHalf

	return Quat{
		a.X*ra + b.X*rb,
		a.Y*ra + b.Y*rb,
		a.Z*ra + b.Z*rb,
		a.W*ra + b.W*rb,
	}
}

// ApproxEqual reports whether a and b differ by at most eps per component.
// q and -q encode the same rotation but are not considered equal here.
//
//nolint:st1016 // a,b naming convention is clearer for comparisons
func (a Quat) ApproxEqual(b Quat, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps &&
		math.Abs(a.Z-b.Z) <= eps && math.Abs(a.W-b.W) <= eps
}
