package referenceframe

import (
	"math"
	"sync"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/bestman-robotics/robot-description/spatialmath"
)

func namedLinks(names ...string) []Link {
	out := make([]Link, 0, len(names))
	for _, n := range names {
		out = append(out, Link{Name: n})
	}
	return out
}

func fixedJoint(name, parent, child string, xyz r3.Vector) Joint {
	return Joint{Name: name, Type: FixedJoint, Parent: parent, Child: child, Origin: Origin{XYZ: xyz}}
}

func revoluteJoint(name, parent, child string, xyz, axis r3.Vector) Joint {
	return Joint{
		Name:   name,
		Type:   RevoluteJoint,
		Parent: parent,
		Child:  child,
		Origin: Origin{XYZ: xyz},
		Axis:   &axis,
		Limit:  &Limit{Lower: -math.Pi, Upper: math.Pi, Effort: 10, Velocity: 1},
	}
}

// simpleArm builds base -> shoulder(z) -> upper -> elbow(y) -> fore -> tool(fixed) -> tip.
func simpleArm(t *testing.T) *Tree {
	t.Helper()
	tree, err := NewTree("arm",
		namedLinks("base", "upper", "fore", "tip"),
		[]Joint{
			revoluteJoint("shoulder", "base", "upper", r3.Vector{Z: 0.1}, r3.Vector{Z: 1}),
			revoluteJoint("elbow", "upper", "fore", r3.Vector{X: 0.5}, r3.Vector{Y: 1}),
			fixedJoint("tool", "fore", "tip", r3.Vector{X: 0.2}),
		},
		nil,
	)
	test.That(t, err, test.ShouldBeNil)
	return tree
}

func TestNewTreeErrors(t *testing.T) {
	nan := math.NaN()
	zero := r3.Vector{}
	withLimit := func(j Joint, lim *Limit) Joint {
		j.Limit = lim
		return j
	}
	withAxis := func(j Joint, axis *r3.Vector) Joint {
		j.Axis = axis
		return j
	}
	withType := func(j Joint, jt JointType) Joint {
		j.Type = jt
		return j
	}
	ab := revoluteJoint("j", "a", "b", r3.Vector{}, r3.Vector{Z: 1})

	for _, tc := range []struct {
		name      string
		links     []Link
		joints    []Joint
		materials []Material
		expected  error
	}{
		{"unnamed link", namedLinks("a", ""), nil, nil, ErrMalformedDocument},
		{"duplicate link", namedLinks("a", "a"), nil, nil, ErrDuplicateName},
		{
			"duplicate joint",
			namedLinks("a", "b", "c"),
			[]Joint{fixedJoint("j", "a", "b", zero), fixedJoint("j", "a", "c", zero)},
			nil,
			ErrDuplicateName,
		},
		{
			"two parents",
			namedLinks("a", "b", "c"),
			[]Joint{fixedJoint("j1", "a", "c", zero), fixedJoint("j2", "b", "c", zero)},
			nil,
			ErrDuplicateName,
		},
		{"duplicate material", namedLinks("a"), nil, []Material{{Name: "m"}, {Name: "m"}}, ErrDuplicateName},
		{"unknown parent", namedLinks("b"), []Joint{fixedJoint("j", "a", "b", zero)}, nil, ErrDanglingReference},
		{"unknown child", namedLinks("a"), []Joint{fixedJoint("j", "a", "b", zero)}, nil, ErrDanglingReference},
		{
			"undeclared material",
			[]Link{{Name: "a", Visuals: []Visual{{Geometry: Geometry{Type: SphereGeometry, Radius: 1}, Material: &Material{Name: "blue"}}}}},
			nil,
			nil,
			ErrDanglingReference,
		},
		{"floating joint", namedLinks("a", "b"), []Joint{withType(fixedJoint("j", "a", "b", zero), FloatingJoint)}, nil, ErrUnsupportedJointType},
		{"planar joint", namedLinks("a", "b"), []Joint{withType(fixedJoint("j", "a", "b", zero), PlanarJoint)}, nil, ErrUnsupportedJointType},
		{"self loop", namedLinks("a", "b"), []Joint{fixedJoint("j1", "a", "b", zero), fixedJoint("j2", "a", "a", zero)}, nil, ErrCyclicGraph},
		{
			"cycle",
			namedLinks("a", "b", "c"),
			[]Joint{fixedJoint("j1", "a", "b", zero), fixedJoint("j2", "b", "c", zero), fixedJoint("j3", "c", "a", zero)},
			nil,
			ErrCyclicGraph,
		},
		{"no links", nil, nil, nil, ErrNoRoot},
		{"two roots", namedLinks("a", "b", "c"), []Joint{fixedJoint("j", "a", "b", zero)}, nil, ErrMultipleRoots},
		{"revolute without limit", namedLinks("a", "b"), []Joint{withLimit(ab, nil)}, nil, ErrInvalidLimit},
		{"lower above upper", namedLinks("a", "b"), []Joint{withLimit(ab, &Limit{Lower: 0.5, Upper: -0.5})}, nil, ErrInvalidLimit},
		{"nan bound", namedLinks("a", "b"), []Joint{withLimit(ab, &Limit{Lower: nan, Upper: 1})}, nil, ErrInvalidLimit},
		{"negative velocity", namedLinks("a", "b"), []Joint{withLimit(ab, &Limit{Upper: 1, Velocity: -1})}, nil, ErrInvalidLimit},
		{"zero axis", namedLinks("a", "b"), []Joint{withAxis(ab, &r3.Vector{})}, nil, ErrInvalidAxis},
		{"nan axis", namedLinks("a", "b"), []Joint{withAxis(ab, &r3.Vector{X: nan})}, nil, ErrInvalidAxis},
		{"nan origin", namedLinks("a", "b"), []Joint{fixedJoint("j", "a", "b", r3.Vector{Y: nan})}, nil, ErrMalformedDocument},
	} {
		t.Run(tc.name, func(t *testing.T) {
			tree, err := NewTree("bad", tc.links, tc.joints, tc.materials)
			test.That(t, tree, test.ShouldBeNil)
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, errors.Is(err, tc.expected), test.ShouldBeTrue)
		})
	}
}

func TestNewTreeMessagesNameTheElement(t *testing.T) {
	_, err := NewTree("bad", namedLinks("a", "b", "c"),
		[]Joint{fixedJoint("j1", "a", "c", r3.Vector{}), fixedJoint("j2", "b", "c", r3.Vector{})}, nil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `"c"`)
	test.That(t, err.Error(), test.ShouldContainSubstring, `"j2"`)

	_, err = NewTree("bad", namedLinks("a", "b"),
		[]Joint{revoluteJoint("shoulder", "a", "b", r3.Vector{}, r3.Vector{})}, nil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "shoulder")
}

func TestNewTreeCopiesInput(t *testing.T) {
	links := namedLinks("a", "b")
	joints := []Joint{fixedJoint("j", "a", "b", r3.Vector{X: 1})}
	tree, err := NewTree("copy", links, joints, nil)
	test.That(t, err, test.ShouldBeNil)

	links[0].Name = "changed"
	joints[0].Origin.XYZ.X = 5
	test.That(t, tree.Root().Name, test.ShouldEqual, "a")
	pose, err := tree.WorldTransform("b", nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pose.Point().X, test.ShouldEqual, 1)
}

func TestNewTreeCopiesNestedFields(t *testing.T) {
	scale := r3.Vector{X: 1, Y: 1, Z: 1}
	links := []Link{
		{Name: "a"},
		{
			Name:     "b",
			Inertial: &Inertial{Mass: 2},
			Visuals: []Visual{{
				Geometry: Geometry{Type: MeshGeometry, Filename: "b.stl", Scale: &scale},
				Material: &Material{Name: "red", Color: &Color{R: 1, A: 1}},
			}},
			Collisions: []Collision{{Geometry: Geometry{Type: SphereGeometry, Radius: 0.1}}},
		},
	}
	joints := []Joint{revoluteJoint("j", "a", "b", r3.Vector{}, r3.Vector{Z: 1})}
	joints[0].Limit = &Limit{Lower: -1, Upper: 1}
	joints[0].Dynamics = &Dynamics{Damping: 0.5}
	materials := []Material{{Name: "blue", Color: &Color{B: 1, A: 1}}}
	tree, err := NewTree("copy", links, joints, materials)
	test.That(t, err, test.ShouldBeNil)

	joints[0].Limit.Lower = 5
	*joints[0].Axis = r3.Vector{}
	joints[0].Dynamics.Damping = 9
	links[1].Inertial.Mass = 7
	scale.X = 3
	links[1].Visuals[0].Material.Color.R = 0
	links[1].Collisions[0].Geometry.Radius = 4
	materials[0].Color.B = 0

	j, err := tree.Joint("j")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, *j.Limit, test.ShouldResemble, Limit{Lower: -1, Upper: 1})
	test.That(t, j.AxisOrDefault(), test.ShouldResemble, r3.Vector{Z: 1})
	test.That(t, j.Dynamics.Damping, test.ShouldEqual, 0.5)
	test.That(t, tree.CheckJointValues(JointValues{"j": 0}), test.ShouldBeNil)

	b, err := tree.Link("b")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, b.Mass(), test.ShouldEqual, 2)
	test.That(t, b.Visuals[0].Geometry.Scale.X, test.ShouldEqual, 1)
	test.That(t, b.Visuals[0].Material.Color.R, test.ShouldEqual, 1)
	test.That(t, b.Collisions[0].Geometry.Radius, test.ShouldEqual, 0.1)
	blue, ok := tree.Material("blue")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, blue.Color.B, test.ShouldEqual, 1)
}

func TestTreeQueries(t *testing.T) {
	tree := simpleArm(t)
	test.That(t, tree.Name(), test.ShouldEqual, "arm")
	test.That(t, tree.Root().Name, test.ShouldEqual, "base")
	test.That(t, tree.Links(), test.ShouldHaveLength, 4)
	test.That(t, tree.Joints(), test.ShouldHaveLength, 3)

	fore, err := tree.Link("fore")
	test.That(t, err, test.ShouldBeNil)
	byHandle, err := tree.LinkByHandle(fore.Handle())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, byHandle, test.ShouldEqual, fore)
	_, err = tree.LinkByHandle(LinkHandle(42))
	test.That(t, errors.Is(err, ErrUnknownLink), test.ShouldBeTrue)

	elbow, err := tree.Joint("elbow")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, elbow.ChildHandle(), test.ShouldEqual, fore.Handle())
	upper, err := tree.Link("upper")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, elbow.ParentHandle(), test.ShouldEqual, upper.Handle())

	children, err := tree.Children("base")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, children, test.ShouldHaveLength, 1)
	test.That(t, children[0].Name, test.ShouldEqual, "shoulder")
	children, err = tree.Children("tip")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, children, test.ShouldBeEmpty)

	parent, err := tree.ParentJoint("base")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, parent, test.ShouldBeNil)
	parent, err = tree.ParentJoint("tip")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, parent.Name, test.ShouldEqual, "tool")

	path, err := tree.Path("tip")
	test.That(t, err, test.ShouldBeNil)
	names := make([]string, 0, len(path))
	for _, j := range path {
		names = append(names, j.Name)
	}
	test.That(t, names, test.ShouldResemble, []string{"shoulder", "elbow", "tool"})
	path, err = tree.Path("base")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, path, test.ShouldBeEmpty)

	for _, query := range []func() error{
		func() error { _, err := tree.Link("nope"); return err },
		func() error { _, err := tree.Children("nope"); return err },
		func() error { _, err := tree.ParentJoint("nope"); return err },
		func() error { _, err := tree.Path("nope"); return err },
		func() error { _, err := tree.WorldTransform("nope", nil); return err },
	} {
		test.That(t, errors.Is(query(), ErrUnknownLink), test.ShouldBeTrue)
	}
	_, err = tree.Joint("nope")
	test.That(t, errors.Is(err, ErrUnknownJoint), test.ShouldBeTrue)
	_, err = tree.LocalTransform("nope")
	test.That(t, errors.Is(err, ErrUnknownJoint), test.ShouldBeTrue)
	_, err = tree.JointTransform("nope", 0)
	test.That(t, errors.Is(err, ErrUnknownJoint), test.ShouldBeTrue)
}

func TestChildrenKeepDeclarationOrder(t *testing.T) {
	tree, err := NewTree("fan", namedLinks("hub", "c", "a", "b"), []Joint{
		fixedJoint("to_c", "hub", "c", r3.Vector{}),
		fixedJoint("to_a", "hub", "a", r3.Vector{}),
		fixedJoint("to_b", "hub", "b", r3.Vector{}),
	}, nil)
	test.That(t, err, test.ShouldBeNil)
	children, err := tree.Children("hub")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, children[0].Name, test.ShouldEqual, "to_c")
	test.That(t, children[1].Name, test.ShouldEqual, "to_a")
	test.That(t, children[2].Name, test.ShouldEqual, "to_b")
}

func TestWorldTransformOfRootIsIdentity(t *testing.T) {
	tree := simpleArm(t)
	pose, err := tree.WorldTransform("base", JointValues{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.PoseAlmostEqual(pose, spatialmath.NewZeroPose()), test.ShouldBeTrue)
}

func TestWorldTransform(t *testing.T) {
	tree := simpleArm(t)

	pose, err := tree.WorldTransform("tip", tree.ZeroJointValues())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(pose.Point(), r3.Vector{X: 0.7, Z: 0.1}, 1e-12), test.ShouldBeTrue)

	pose, err = tree.WorldTransform("tip", JointValues{"shoulder": math.Pi / 2, "elbow": 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(pose.Point(), r3.Vector{Y: 0.7, Z: 0.1}, 1e-12), test.ShouldBeTrue)

	// pitching the elbow down by 90 degrees points the forearm at the floor
	pose, err = tree.WorldTransform("tip", JointValues{"shoulder": 0, "elbow": math.Pi / 2})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(pose.Point(), r3.Vector{X: 0.5, Z: -0.1}, 1e-12), test.ShouldBeTrue)
}

func TestWorldTransformMatchesManualChain(t *testing.T) {
	tree := simpleArm(t)
	values := JointValues{"shoulder": 0.3, "elbow": -1.1}

	shoulder, err := tree.JointTransform("shoulder", values["shoulder"])
	test.That(t, err, test.ShouldBeNil)
	elbow, err := tree.JointTransform("elbow", values["elbow"])
	test.That(t, err, test.ShouldBeNil)
	tool, err := tree.JointTransform("tool", 0)
	test.That(t, err, test.ShouldBeNil)
	expected := spatialmath.Compose(spatialmath.Compose(shoulder, elbow), tool)

	pose, err := tree.WorldTransform("tip", values)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.PoseAlmostEqual(pose, expected), test.ShouldBeTrue)

	all, err := tree.WorldTransforms(values)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, all, test.ShouldHaveLength, 4)
	for name, p := range all {
		single, err := tree.WorldTransform(name, values)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, spatialmath.PoseAlmostEqual(p, single), test.ShouldBeTrue)
	}
}

func TestWorldTransformValues(t *testing.T) {
	tree := simpleArm(t)

	_, err := tree.WorldTransform("tip", JointValues{"shoulder": 0})
	test.That(t, errors.Is(err, ErrMissingJointValue), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "elbow")

	// joints off the path are not needed
	_, err = tree.WorldTransform("upper", JointValues{"shoulder": 0})
	test.That(t, err, test.ShouldBeNil)

	_, err = tree.WorldTransform("tip", JointValues{"shoulder": 0, "elbow": 0, "tool": 0})
	test.That(t, err, test.ShouldBeNil)

	_, err = tree.WorldTransform("tip", JointValues{"shoulder": 0, "elbow": 0, "tool": 0.1})
	test.That(t, errors.Is(err, ErrInvalidJointValue), test.ShouldBeTrue)

	_, err = tree.WorldTransform("tip", JointValues{"shoulder": math.Inf(1), "elbow": 0})
	test.That(t, errors.Is(err, ErrInvalidJointValue), test.ShouldBeTrue)

	_, err = tree.WorldTransforms(JointValues{"shoulder": 0})
	test.That(t, errors.Is(err, ErrMissingJointValue), test.ShouldBeTrue)
}

func TestLocalTransform(t *testing.T) {
	tree := simpleArm(t)
	local, err := tree.LocalTransform("elbow")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.PoseAlmostEqual(local, spatialmath.NewPoseFromPoint(r3.Vector{X: 0.5})), test.ShouldBeTrue)

	moved, err := tree.JointTransform("elbow", 0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.PoseAlmostEqual(moved, local), test.ShouldBeTrue)
}

func TestPrismaticAndContinuousJoints(t *testing.T) {
	axis := r3.Vector{Z: 2}
	tree, err := NewTree("lift", namedLinks("base", "carriage", "wheel"), []Joint{
		{
			Name: "lift", Type: PrismaticJoint, Parent: "base", Child: "carriage",
			Axis: &axis, Limit: &Limit{Lower: 0, Upper: 0.5},
		},
		{Name: "spin", Type: ContinuousJoint, Parent: "carriage", Child: "wheel", Origin: Origin{XYZ: r3.Vector{Y: 1}}},
	}, nil)
	test.That(t, err, test.ShouldBeNil)

	pose, err := tree.WorldTransform("carriage", JointValues{"lift": 0.25})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(pose.Point(), r3.Vector{Z: 0.25}, 1e-12), test.ShouldBeTrue)

	spin, err := tree.Joint("spin")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spin.Axis, test.ShouldBeNil)
	test.That(t, spin.AxisOrDefault(), test.ShouldResemble, DefaultAxis)
	test.That(t, math.IsInf(spin.Bounds().Lower, -1), test.ShouldBeTrue)
	test.That(t, math.IsInf(spin.Bounds().Upper, 1), test.ShouldBeTrue)

	// an absent axis rotates about x, so a quarter turn carries +y onto +z
	pose, err = tree.WorldTransform("wheel", JointValues{"lift": 0, "spin": math.Pi / 2})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(pose.Point(), r3.Vector{Y: 1}, 1e-12), test.ShouldBeTrue)
	rotated := spatialmath.TransformPoint(pose, r3.Vector{Y: 1})
	test.That(t, spatialmath.R3VectorAlmostEqual(rotated, r3.Vector{Y: 1, Z: 1}, 1e-12), test.ShouldBeTrue)
}

func TestWorldTransformIsDeterministic(t *testing.T) {
	tree := simpleArm(t)
	values := JointValues{"shoulder": 0.7, "elbow": 0.2}
	first, err := tree.WorldTransform("tip", values)
	test.That(t, err, test.ShouldBeNil)
	for i := 0; i < 10; i++ {
		again, err := tree.WorldTransform("tip", values)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, again.Point(), test.ShouldResemble, first.Point())
	}
}

func TestConcurrentQueries(t *testing.T) {
	tree := simpleArm(t)
	values := JointValues{"shoulder": 0.4, "elbow": -0.9}
	expected, err := tree.WorldTransform("tip", values)
	test.That(t, err, test.ShouldBeNil)

	const workers = 16
	results := make([]spatialmath.Pose, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := tree.WorldTransforms(values); err != nil {
				errs[i] = err
				return
			}
			results[i], errs[i] = tree.WorldTransform("tip", values)
		}(i)
	}
	wg.Wait()
	for i := 0; i < workers; i++ {
		test.That(t, errs[i], test.ShouldBeNil)
		test.That(t, spatialmath.PoseAlmostEqual(results[i], expected), test.ShouldBeTrue)
	}
}
