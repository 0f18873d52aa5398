package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// RotationMatrix is a 3x3 matrix in row major order.
// m[3*r + c] is the element in the r'th row and c'th column.
type RotationMatrix struct {
	mat [9]float64
}

// NewRotationMatrix creates the rotation matrix from a slice of 9 row-major entries.
func NewRotationMatrix(m [9]float64) *RotationMatrix {
	return &RotationMatrix{mat: m}
}

// At returns the element at row r, column c.
func (rm *RotationMatrix) At(r, c int) float64 {
	return rm.mat[3*r+c]
}

// Row returns the r'th row as a vector.
func (rm *RotationMatrix) Row(r int) r3.Vector {
	return r3.Vector{X: rm.At(r, 0), Y: rm.At(r, 1), Z: rm.At(r, 2)}
}

// Col returns the c'th column as a vector.
func (rm *RotationMatrix) Col(c int) r3.Vector {
	return r3.Vector{X: rm.At(0, c), Y: rm.At(1, c), Z: rm.At(2, c)}
}

// Mul rotates the vector v.
func (rm *RotationMatrix) Mul(v r3.Vector) r3.Vector {
	return r3.Vector{X: rm.Row(0).Dot(v), Y: rm.Row(1).Dot(v), Z: rm.Row(2).Dot(v)}
}

// RotationMatrix returns the orientation in rotation matrix representation.
func (rm *RotationMatrix) RotationMatrix() *RotationMatrix {
	return rm
}

// Quaternion returns orientation in quaternion representation, using Shepperd's method to pick
// the numerically largest component.
func (rm *RotationMatrix) Quaternion() quat.Number {
	m := func(r, c int) float64 { return rm.At(r, c) }
	trace := m(0, 0) + m(1, 1) + m(2, 2)
	var q quat.Number
	switch {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		q = quat.Number{Real: 0.25 / s, Imag: (m(2, 1) - m(1, 2)) * s, Jmag: (m(0, 2) - m(2, 0)) * s, Kmag: (m(1, 0) - m(0, 1)) * s}
	case m(0, 0) > m(1, 1) && m(0, 0) > m(2, 2):
		s := 2 * math.Sqrt(1+m(0, 0)-m(1, 1)-m(2, 2))
		q = quat.Number{Real: (m(2, 1) - m(1, 2)) / s, Imag: 0.25 * s, Jmag: (m(0, 1) + m(1, 0)) / s, Kmag: (m(0, 2) + m(2, 0)) / s}
	case m(1, 1) > m(2, 2):
		s := 2 * math.Sqrt(1+m(1, 1)-m(0, 0)-m(2, 2))
		q = quat.Number{Real: (m(0, 2) - m(2, 0)) / s, Imag: (m(0, 1) + m(1, 0)) / s, Jmag: 0.25 * s, Kmag: (m(1, 2) + m(2, 1)) / s}
	default:
		s := 2 * math.Sqrt(1+m(2, 2)-m(0, 0)-m(1, 1))
		q = quat.Number{Real: (m(1, 0) - m(0, 1)) / s, Imag: (m(0, 2) + m(2, 0)) / s, Jmag: (m(1, 2) + m(2, 1)) / s, Kmag: 0.25 * s}
	}
	return Normalize(q)
}

// AxisAngles returns the orientation in axis angle representation.
func (rm *RotationMatrix) AxisAngles() *R4AA {
	return QuatToR4AA(rm.Quaternion())
}

// EulerAngles returns orientation in Euler angle representation.
func (rm *RotationMatrix) EulerAngles() *EulerAngles {
	return QuatToEulerAngles(rm.Quaternion())
}
