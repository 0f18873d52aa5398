package spatialmath

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/dualquat"
	"gonum.org/v1/gonum/num/quat"
)

// Pose represents a 6dof pose, position and orientation, with respect to the origin.
// The Point() method returns the position in (x,y,z) and Orientation() returns the rotation.
// Units are whatever the source document uses; for URDF that is meters.
type Pose interface {
	Point() r3.Vector
	Orientation() Orientation
}

// NewZeroPose returns a pose at (0,0,0) with same orientation as whatever frame it is placed in.
func NewZeroPose() Pose {
	return newDualQuaternion()
}

// NewPose takes in a position and orientation and returns a Pose.
func NewPose(p r3.Vector, o Orientation) Pose {
	if o == nil {
		return NewPoseFromPoint(p)
	}
	q := newDualQuaternion()
	q.Real = Normalize(o.Quaternion())
	q.setTranslation(p)
	return q
}

// NewPoseFromPoint takes in a cartesian (x,y,z) and stores it as a vector.
// It will have the same orientation as the frame it is in.
func NewPoseFromPoint(point r3.Vector) Pose {
	q := newDualQuaternion()
	q.setTranslation(point)
	return q
}

// NewPoseFromOrientation takes in an orientation and returns a Pose with no translation.
func NewPoseFromOrientation(o Orientation) Pose {
	return NewPose(r3.Vector{}, o)
}

// Compose treats Poses as functions A(x) and B(x), and produces a new function C(x) = A(B(x)).
// It converts the poses to dual quaternions and multiplies them together, normalizes the transform and returns a new Pose.
// Composition does not commute in general, i.e. you cannot guarantee ABx == BAx.
func Compose(a, b Pose) Pose {
	result := &dualQuaternion{dualquat.Mul(dualQuaternionFromPose(a).Number, dualQuaternionFromPose(b).Number)}

	// Normalization
	if vecLen := 1 / quat.Abs(result.Real); vecLen-1 > 1e-10 || vecLen-1 < -1e-10 {
		result.Real = quat.Scale(vecLen, result.Real)
		result.Dual = quat.Scale(vecLen, result.Dual)
	}
	return result
}

// PoseInverse will return the inverse of a pose. So if a given pose p is the pose of A relative to B, PoseInverse(p) will give
// the pose of B relative to A.
func PoseInverse(p Pose) Pose {
	q := dualQuaternionFromPose(p)
	inv := newDualQuaternion()
	inv.Real = quat.Conj(q.Real)
	rot := &quaternion{inv.Real.Real, inv.Real.Imag, inv.Real.Jmag, inv.Real.Kmag}
	inv.setTranslation(rot.RotationMatrix().Mul(q.Point()).Mul(-1))
	return inv
}

// PoseBetween returns the difference between two dualQuaternions, that is, the dq which if multiplied by one will give the other.
// Example: if PoseBetween(a, b) = c, then Compose(a, c) = b.
func PoseBetween(a, b Pose) Pose {
	return Compose(PoseInverse(a), b)
}

// TransformPoint applies the pose to a point expressed in the pose's child frame.
func TransformPoint(p Pose, pt r3.Vector) r3.Vector {
	return RotateVector(p.Orientation(), pt).Add(p.Point())
}

// PoseAlmostEqual will return a bool describing whether 2 poses are approximately the same.
func PoseAlmostEqual(a, b Pose) bool {
	return PoseAlmostEqualEps(a, b, 1e-8)
}

// PoseAlmostEqualEps will return a bool describing whether 2 poses are approximately the same, within the given epsilon.
func PoseAlmostEqualEps(a, b Pose, epsilon float64) bool {
	return R3VectorAlmostEqual(a.Point(), b.Point(), epsilon) &&
		QuaternionAlmostEqual(a.Orientation().Quaternion(), b.Orientation().Quaternion(), math.Max(epsilon, 1e-8))
}

// PoseToMat4 returns the 4x4 homogeneous transform of a pose.
func PoseToMat4(p Pose) mgl64.Mat4 {
	rm := p.Orientation().RotationMatrix()
	pt := p.Point()
	m := mgl64.Ident4()
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m.Set(r, c, rm.At(r, c))
		}
	}
	m.Set(0, 3, pt.X)
	m.Set(1, 3, pt.Y)
	m.Set(2, 3, pt.Z)
	return m
}

// PoseFromMat4 is the inverse of PoseToMat4. The upper-left block must be a rotation.
func PoseFromMat4(m mgl64.Mat4) Pose {
	var rows [9]float64
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			rows[3*r+c] = m.At(r, c)
		}
	}
	return NewPose(r3.Vector{X: m.At(0, 3), Y: m.At(1, 3), Z: m.At(2, 3)}, NewRotationMatrix(rows))
}

// PrettyPrint returns a short human readable description of a pose: translation and fixed-axis rpy.
func PrettyPrint(p Pose) string {
	pt := p.Point()
	ea := p.Orientation().EulerAngles()
	return fmt.Sprintf("xyz=(%.6f %.6f %.6f) rpy=(%.6f %.6f %.6f)", pt.X, pt.Y, pt.Z, ea.Roll, ea.Pitch, ea.Yaw)
}

// R3VectorAlmostEqual compares two r3.Vector objects and returns if the all elementwise differences are less than epsilon.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return math.Abs(a.X-b.X) < epsilon && math.Abs(a.Y-b.Y) < epsilon && math.Abs(a.Z-b.Z) < epsilon
}

// dualQuaternion defines functions to perform rigid dualQuaternion transformations in 3D.
// The real part is the rotation, the dual part is half the translation multiplied by the rotation.
type dualQuaternion struct {
	dualquat.Number
}

// newDualQuaternion returns a pointer to a new dualQuaternion object whose Quaternion is an identity Quaternion.
// Since the real part of a dual quaternion should be a unit quaternion, not all zeroes, this should be used
// instead of &dualQuaternion{}.
func newDualQuaternion() *dualQuaternion {
	return &dualQuaternion{dualquat.Number{
		Real: quat.Number{Real: 1},
		Dual: quat.Number{},
	}}
}

func dualQuaternionFromPose(p Pose) *dualQuaternion {
	if q, ok := p.(*dualQuaternion); ok {
		return q
	}
	q := newDualQuaternion()
	q.Real = Normalize(p.Orientation().Quaternion())
	q.setTranslation(p.Point())
	return q
}

// setTranslation correctly sets the translation quaternion against the rotation.
func (q *dualQuaternion) setTranslation(pt r3.Vector) {
	q.Dual = quat.Mul(quat.Number{Imag: pt.X / 2, Jmag: pt.Y / 2, Kmag: pt.Z / 2}, q.Real)
}

// Point multiplies the dual quaternion by its own conjugate to give a dq where the real is the identity quat,
// and the dual is representative of real world translation.
func (q *dualQuaternion) Point() r3.Vector {
	t := quat.Scale(2, quat.Mul(q.Dual, quat.Conj(q.Real)))
	return r3.Vector{X: t.Imag, Y: t.Jmag, Z: t.Kmag}
}

// Orientation returns the rotation quaternion as an Orientation.
func (q *dualQuaternion) Orientation() Orientation {
	o := quaternion(q.Real)
	return &o
}
