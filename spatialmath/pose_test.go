package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestZeroPose(t *testing.T) {
	p := NewZeroPose()
	test.That(t, p.Point(), test.ShouldResemble, r3.Vector{})
	test.That(t, OrientationAlmostEqual(p.Orientation(), NewZeroOrientation()), test.ShouldBeTrue)
	test.That(t, PoseAlmostEqual(Compose(p, p), p), test.ShouldBeTrue)
}

func TestNewPose(t *testing.T) {
	pt := r3.Vector{X: 1, Y: -2, Z: 3}
	o := &EulerAngles{Roll: 0.1, Pitch: 0.2, Yaw: 0.3}
	p := NewPose(pt, o)
	test.That(t, R3VectorAlmostEqual(p.Point(), pt, 1e-12), test.ShouldBeTrue)
	test.That(t, OrientationAlmostEqual(p.Orientation(), o), test.ShouldBeTrue)

	p = NewPose(pt, nil)
	test.That(t, PoseAlmostEqual(p, NewPoseFromPoint(pt)), test.ShouldBeTrue)
}

func TestCompose(t *testing.T) {
	// translate then rotate 90 degrees about z: the child's x axis now points along parent's y
	a := NewPose(r3.Vector{X: 1}, &R4AA{Theta: math.Pi / 2, RZ: 1})
	b := NewPoseFromPoint(r3.Vector{X: 2})
	c := Compose(a, b)
	test.That(t, R3VectorAlmostEqual(c.Point(), r3.Vector{X: 1, Y: 2}, 1e-9), test.ShouldBeTrue)
	test.That(t, c.Orientation().EulerAngles().Yaw, test.ShouldAlmostEqual, math.Pi/2)

	// composition does not commute
	d := Compose(b, a)
	test.That(t, R3VectorAlmostEqual(d.Point(), r3.Vector{X: 3}, 1e-9), test.ShouldBeTrue)

	test.That(t, R3VectorAlmostEqual(TransformPoint(a, r3.Vector{X: 2}), c.Point(), 1e-9), test.ShouldBeTrue)
}

func TestPoseInverse(t *testing.T) {
	p := NewPose(r3.Vector{X: 0.4, Y: -1.1, Z: 2}, &EulerAngles{Roll: 1.2, Pitch: -0.3, Yaw: 2.2})
	test.That(t, PoseAlmostEqual(Compose(p, PoseInverse(p)), NewZeroPose()), test.ShouldBeTrue)
	test.That(t, PoseAlmostEqual(Compose(PoseInverse(p), p), NewZeroPose()), test.ShouldBeTrue)

	q := NewPose(r3.Vector{Z: 5}, &R4AA{Theta: 0.3, RY: 1})
	test.That(t, PoseAlmostEqual(Compose(p, PoseBetween(p, q)), q), test.ShouldBeTrue)
}

func TestMat4RoundTrip(t *testing.T) {
	p := NewPose(r3.Vector{X: 0.1, Y: 0.2, Z: 0.3}, &EulerAngles{Roll: -0.5, Pitch: 1.0, Yaw: 0.25})
	m := PoseToMat4(p)
	test.That(t, m.At(3, 3), test.ShouldEqual, 1.)
	test.That(t, m.At(0, 3), test.ShouldAlmostEqual, 0.1)
	test.That(t, m.At(2, 3), test.ShouldAlmostEqual, 0.3)
	test.That(t, PoseAlmostEqualEps(PoseFromMat4(m), p, 1e-9), test.ShouldBeTrue)

	// the matrix product matches pose composition
	q := NewPose(r3.Vector{X: -1}, &R4AA{Theta: 0.7, RX: 1, RY: 1})
	test.That(t, PoseAlmostEqualEps(PoseFromMat4(m.Mul4(PoseToMat4(q))), Compose(p, q), 1e-9), test.ShouldBeTrue)
}

func TestPrettyPrint(t *testing.T) {
	s := PrettyPrint(NewPoseFromPoint(r3.Vector{X: 1}))
	test.That(t, s, test.ShouldContainSubstring, "xyz=(1.000000 0.000000 0.000000)")
}
