package math3d

import (
	"math"

	"github.com/taigrr/vista/pkg/diag"
)

// Mat3 is a 3x3 matrix stored in column-major order.
//
// | 0  3  6 |
// | 1  4  7 |
// | 2  5  8 |
type Mat3 [9]float64

// Identity3 returns the 3x3 identity matrix.
func Identity3() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Mat3FromMat4 returns the upper-left 3x3 of m.
func Mat3FromMat4(m Mat4) Mat3 {
	return Mat3{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}

// NormalMatrix returns the inverse transpose of the upper-left 3x3 of m,
// which maps object-space normals into world space.
func NormalMatrix(m Mat4) Mat3 {
	return Mat3FromMat4(m).Inverse().Transpose()
}

// Mul multiplies two matrices: a * b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat3) Mul(b Mat3) Mat3 {
	var m Mat3
	for col := range 3 {
		for row := range 3 {
			var sum float64
			for k := range 3 {
				sum += a[row+k*3] * b[k+col*3]
			}
			m[row+col*3] = sum
		}
	}
	return m
}

// MulVec3 transforms v by the matrix.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[3]*v.Y + m[6]*v.Z,
		m[1]*v.X + m[4]*v.Y + m[7]*v.Z,
		m[2]*v.X + m[5]*v.Y + m[8]*v.Z,
	}
}

// Transpose returns the transposed matrix.
func (m Mat3) Transpose() Mat3 {
	return Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// Determinant returns the determinant of the matrix.
func (m Mat3) Determinant() float64 {
	return m[0]*(m[4]*m[8]-m[7]*m[5]) -
		m[3]*(m[1]*m[8]-m[7]*m[2]) +
		m[6]*(m[1]*m[5]-m[4]*m[2])
}

// Inverse returns the inverse of the matrix.
// A singular matrix yields the identity and a warning on the diagnostic channel.
func (m Mat3) Inverse() Mat3 {
	inv, ok := m.InverseOK()
	if !ok {
		diag.Warn("math3d: Mat3.Inverse on singular matrix, using identity")
	}
	return inv
}

// InverseStrict returns the inverse of the matrix or ErrSingularMatrix.
func (m Mat3) InverseStrict() (Mat3, error) {
	inv, ok := m.InverseOK()
	if !ok {
		return inv, ErrSingularMatrix
	}
	return inv, nil
}

// InverseOK returns the inverse and true, or the identity and false when
// the determinant is zero.
func (m Mat3) InverseOK() (Mat3, bool) {
	n11, n21, n31 := m[0], m[1], m[2]
	n12, n22, n32 := m[3], m[4], m[5]
	n13, n23, n33 := m[6], m[7], m[8]

	t11 := n33*n22 - n32*n23
	t12 := n32*n13 - n33*n12
	t13 := n23*n12 - n22*n13

	det := n11*t11 + n21*t12 + n31*t13
	if det == 0 {
		return Identity3(), false
	}
	d := 1 / det

	return Mat3{
		t11 * d, (n31*n23 - n33*n21) * d, (n32*n21 - n31*n22) * d,
		t12 * d, (n33*n11 - n31*n13) * d, (n31*n12 - n32*n11) * d,
		t13 * d, (n21*n13 - n23*n11) * d, (n22*n11 - n21*n12) * d,
	}, true
}

// ApproxEqual reports whether every element of a and b differs by at most eps.
//
//nolint:st1016 // a,b naming convention is clearer for comparisons
func (a Mat3) ApproxEqual(b Mat3, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}
