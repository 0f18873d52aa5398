package referenceframe

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/bestman-robotics/robot-description/spatialmath"
)

func mobileBase(t *testing.T) *Tree {
	t.Helper()
	blue := Material{Name: "blue", Color: &Color{B: 1, A: 1}}
	tree, err := NewTree("base",
		[]Link{
			{Name: "base_link"},
			{Name: "deck", Visuals: []Visual{{Geometry: Geometry{Type: BoxGeometry, Size: r3.Vector{X: 1, Y: 1, Z: 0.1}}, Material: &Material{Name: "blue"}}}},
		},
		[]Joint{fixedJoint("deck_joint", "base_link", "deck", r3.Vector{Z: 0.3})},
		[]Material{blue},
	)
	test.That(t, err, test.ShouldBeNil)
	return tree
}

func TestMount(t *testing.T) {
	base := mobileBase(t)
	arm := simpleArm(t)

	origin := Origin{XYZ: r3.Vector{X: 0.1}, RPY: spatialmath.EulerAngles{Yaw: math.Pi / 2}}
	merged, err := Mount("robot", base, "deck", arm, MountOptions{Origin: origin})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, merged.Name(), test.ShouldEqual, "robot")
	test.That(t, merged.Root().Name, test.ShouldEqual, "base_link")
	test.That(t, merged.Links(), test.ShouldHaveLength, 6)
	test.That(t, merged.DoF(), test.ShouldEqual, 2)

	mount, err := merged.ParentJoint("base")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, mount.Name, test.ShouldEqual, "deck_to_base")
	test.That(t, mount.Type, test.ShouldEqual, FixedJoint)

	values := JointValues{"shoulder": 0.5, "elbow": 0.25}
	armTip, err := arm.WorldTransform("tip", values)
	test.That(t, err, test.ShouldBeNil)
	deck, err := base.WorldTransform("deck", nil)
	test.That(t, err, test.ShouldBeNil)
	expected := spatialmath.Compose(spatialmath.Compose(deck, origin.Pose()), armTip)

	tip, err := merged.WorldTransform("tip", values)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.PoseAlmostEqual(tip, expected), test.ShouldBeTrue)

	// inputs are untouched
	test.That(t, base.Links(), test.ShouldHaveLength, 2)
	test.That(t, arm.Root().Name, test.ShouldEqual, "base")
}

func TestMountPrefixAndMaterials(t *testing.T) {
	base := mobileBase(t)

	merged, err := Mount("twin", base, "deck", mobileBase(t), MountOptions{Prefix: "upper_", JointName: "stack"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, merged.Materials(), test.ShouldHaveLength, 1)
	_, err = merged.Link("upper_deck")
	test.That(t, err, test.ShouldBeNil)
	stack, err := merged.Joint("stack")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, stack.Child, test.ShouldEqual, "upper_base_link")

	pose, err := merged.WorldTransform("upper_deck", nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(pose.Point(), r3.Vector{Z: 0.6}, 1e-12), test.ShouldBeTrue)
}

func TestMountErrors(t *testing.T) {
	base := mobileBase(t)

	_, err := Mount("clash", base, "deck", mobileBase(t), MountOptions{})
	test.That(t, errors.Is(err, ErrDuplicateName), test.ShouldBeTrue)

	_, err = Mount("nowhere", base, "roof", simpleArm(t), MountOptions{})
	test.That(t, errors.Is(err, ErrUnknownLink), test.ShouldBeTrue)

	red := mobileBase(t)
	red.materials[0].Color = &Color{R: 1, A: 1}
	_, err = Mount("paint", base, "deck", red, MountOptions{Prefix: "p_"})
	test.That(t, errors.Is(err, ErrDuplicateName), test.ShouldBeTrue)
}
