package referenceframe

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/mat"
)

// ErrLintWarning is wrapped by every finding of Lint. Findings never prevent a tree from loading.
var ErrLintWarning = errors.New("lint warning")

// LintOptions selects which findings Lint reports.
type LintOptions struct {
	// PlaceholderInertia flags identity inertia tensors, which are usually modeling placeholders.
	PlaceholderInertia bool
	// MasslessLeaf flags leaf links that carry geometry but no inertial block.
	MasslessLeaf bool
}

// DefaultLintOptions enables every check.
func DefaultLintOptions() LintOptions {
	return LintOptions{PlaceholderInertia: true, MasslessLeaf: true}
}

// TotalMass sums the mass of every link.
func (t *Tree) TotalMass() float64 {
	var total float64
	for i := range t.links {
		total += t.links[i].Mass()
	}
	return total
}

// Lint inspects the physical plausibility of the tree and returns the findings combined with multierr,
// or nil. Values are reported, never changed.
func (t *Tree) Lint(opts LintOptions) error {
	var warnings error
	warn := func(format string, args ...interface{}) {
		warnings = multierr.Append(warnings, errors.Wrap(ErrLintWarning, fmt.Sprintf(format, args...)))
	}

	for i := range t.links {
		l := &t.links[i]
		if l.Inertial == nil {
			if opts.MasslessLeaf && len(t.children[i]) == 0 && i != t.root && (len(l.Visuals) > 0 || len(l.Collisions) > 0) {
				warn("link %q has geometry but no inertial block", l.Name)
			}
			continue
		}
		in := l.Inertial
		if in.Mass < 0 {
			warn("link %q has negative mass %v", l.Name, in.Mass)
		}
		if opts.PlaceholderInertia && isPlaceholderInertia(in.Inertia) {
			warn("link %q uses a placeholder identity inertia tensor", l.Name)
			continue
		}
		if reason := inertiaProblem(in.Inertia); reason != "" {
			warn("link %q inertia %s", l.Name, reason)
		}
	}
	return warnings
}

func isPlaceholderInertia(in Inertia) bool {
	return in.IXX == 1 && in.IYY == 1 && in.IZZ == 1 && in.IXY == 0 && in.IXZ == 0 && in.IYZ == 0
}

// inertiaProblem checks that the tensor is positive definite and that its principal moments satisfy
// the triangle inequality. An all-zero tensor is accepted as a point mass.
func inertiaProblem(in Inertia) string {
	if in == (Inertia{}) {
		return ""
	}
	var eig mat.EigenSym
	if ok := eig.Factorize(in.Matrix(), false); !ok {
		return "could not be factorized"
	}
	values := eig.Values(nil)
	const tol = 1e-12
	for _, v := range values {
		if v <= 0 {
			return "is not positive definite"
		}
	}
	a, b, c := values[0], values[1], values[2]
	if a+b < c-tol || a+c < b-tol || b+c < a-tol {
		return "principal moments violate the triangle inequality"
	}
	return ""
}
