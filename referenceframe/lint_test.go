package referenceframe

import (
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/test"
)

func inertialLink(name string, mass float64, in Inertia) Link {
	return Link{Name: name, Inertial: &Inertial{Mass: mass, Inertia: in}}
}

func TestTotalMass(t *testing.T) {
	tree, err := NewTree("masses",
		[]Link{inertialLink("a", 2.5, Inertia{}), {Name: "b"}, inertialLink("c", 0.5, Inertia{})},
		[]Joint{fixedJoint("ab", "a", "b", r3.Vector{}), fixedJoint("bc", "b", "c", r3.Vector{})},
		nil,
	)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, tree.TotalMass(), test.ShouldEqual, 3.0)
	test.That(t, tree.Lint(DefaultLintOptions()), test.ShouldBeNil)
}

func TestLint(t *testing.T) {
	box := []Visual{{Geometry: Geometry{Type: BoxGeometry, Size: r3.Vector{X: 1, Y: 1, Z: 1}}}}
	placeholder := Inertia{IXX: 1, IYY: 1, IZZ: 1}
	tree, err := NewTree("lint",
		[]Link{
			inertialLink("base", 10, Inertia{IXX: 0.1, IYY: 0.1, IZZ: 0.1}),
			inertialLink("placeholder", 0.1, placeholder),
			{Name: "bare", Visuals: box},
			inertialLink("negative", -1, Inertia{}),
			inertialLink("flat", 1, Inertia{IXX: 1, IYY: 1, IZZ: -1}),
			inertialLink("lopsided", 1, Inertia{IXX: 0.1, IYY: 0.1, IZZ: 1}),
		},
		[]Joint{
			fixedJoint("j1", "base", "placeholder", r3.Vector{}),
			fixedJoint("j2", "base", "bare", r3.Vector{}),
			fixedJoint("j3", "base", "negative", r3.Vector{}),
			fixedJoint("j4", "base", "flat", r3.Vector{}),
			fixedJoint("j5", "base", "lopsided", r3.Vector{}),
		},
		nil,
	)
	test.That(t, err, test.ShouldBeNil)

	// placeholder values are kept exactly as declared
	link, err := tree.Link("placeholder")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, link.Inertial.Inertia, test.ShouldResemble, placeholder)

	warnings := multierr.Errors(tree.Lint(DefaultLintOptions()))
	test.That(t, warnings, test.ShouldHaveLength, 5)
	for _, w := range warnings {
		test.That(t, errors.Is(w, ErrLintWarning), test.ShouldBeTrue)
	}
	test.That(t, warnings[0].Error(), test.ShouldContainSubstring, "placeholder")
	test.That(t, warnings[1].Error(), test.ShouldContainSubstring, "bare")
	test.That(t, warnings[2].Error(), test.ShouldContainSubstring, "negative mass")
	test.That(t, warnings[3].Error(), test.ShouldContainSubstring, "not positive definite")
	test.That(t, warnings[4].Error(), test.ShouldContainSubstring, "triangle inequality")

	quiet := multierr.Errors(tree.Lint(LintOptions{}))
	test.That(t, quiet, test.ShouldHaveLength, 3)
}
