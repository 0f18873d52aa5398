// Package spatialmath defines spatial mathematical operations.
// Poses are stored as unit dual quaternions, orientations can be converted between
// quaternions, axis angles, fixed-axis Euler angles (as used by URDF rpy attributes)
// and rotation matrices.
package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// defaultOrientationEpsilon is the quaternion component tolerance of OrientationAlmostEqual.
const defaultOrientationEpsilon = 1e-5

// Orientation is a rotation in 3D space that can be read back in any of the supported
// parameterizations.
type Orientation interface {
	AxisAngles() *R4AA
	Quaternion() quat.Number
	EulerAngles() *EulerAngles
	RotationMatrix() *RotationMatrix
}

// NewZeroOrientation returns an orientation which signifies no rotation.
func NewZeroOrientation() Orientation {
	return &quaternion{1, 0, 0, 0}
}

// OrientationAlmostEqual reports whether two orientations describe approximately the same rotation.
func OrientationAlmostEqual(o1, o2 Orientation) bool {
	return OrientationAlmostEqualEps(o1, o2, defaultOrientationEpsilon)
}

// OrientationAlmostEqualEps is OrientationAlmostEqual with an explicit tolerance.
func OrientationAlmostEqualEps(o1, o2 Orientation, epsilon float64) bool {
	return QuaternionAlmostEqual(Normalize(o1.Quaternion()), Normalize(o2.Quaternion()), epsilon)
}

// OrientationBetween returns the rotation that takes o1 to o2, so that applying o1 and then the
// result is the same as applying o2.
func OrientationBetween(o1, o2 Orientation) Orientation {
	q := quaternion(quat.Mul(o2.Quaternion(), quat.Conj(o1.Quaternion())))
	return &q
}

// OrientationInverse returns the opposite rotation.
func OrientationInverse(o Orientation) Orientation {
	q := quaternion(quat.Conj(Normalize(o.Quaternion())))
	return &q
}

// RotateVector applies the rotation to v.
func RotateVector(o Orientation, v r3.Vector) r3.Vector {
	q := Normalize(o.Quaternion())
	rotated := quat.Mul(quat.Mul(q, quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}), quat.Conj(q))
	return r3.Vector{X: rotated.Imag, Y: rotated.Jmag, Z: rotated.Kmag}
}
