package referenceframe

import (
	"sort"

	"github.com/samber/lo"
	"go.uber.org/multierr"

	"github.com/bestman-robotics/robot-description/utils"
)

// MovableJoints returns the joints that take a value, in declaration order.
func (t *Tree) MovableJoints() []*Joint {
	var out []*Joint
	for i := range t.joints {
		if t.joints[i].Type.Movable() {
			out = append(out, &t.joints[i])
		}
	}
	return out
}

// DoF returns the number of movable joints.
func (t *Tree) DoF() int {
	return len(t.MovableJoints())
}

// Limits returns the bounds of every movable joint, in the same order as MovableJoints.
func (t *Tree) Limits() []Limit {
	movable := t.MovableJoints()
	out := make([]Limit, 0, len(movable))
	for _, j := range movable {
		out = append(out, j.Bounds())
	}
	return out
}

// ZeroJointValues returns a zero value for every movable joint.
func (t *Tree) ZeroJointValues() JointValues {
	values := JointValues{}
	for _, j := range t.MovableJoints() {
		values[j.Name] = 0
	}
	return values
}

// JointValuesFromFloats pairs positional values with the movable joints in declaration order.
func (t *Tree) JointValuesFromFloats(floats []float64) (JointValues, error) {
	movable := t.MovableJoints()
	if len(floats) != len(movable) {
		return nil, NewIncorrectDoFError(len(floats), len(movable))
	}
	values := make(JointValues, len(floats))
	for i, j := range movable {
		values[j.Name] = floats[i]
	}
	return values, nil
}

// JointValuesToFloats is the inverse of JointValuesFromFloats. Missing joints are reported.
func (t *Tree) JointValuesToFloats(values JointValues) ([]float64, error) {
	movable := t.MovableJoints()
	out := make([]float64, len(movable))
	for i, j := range movable {
		v, ok := values[j.Name]
		if !ok {
			return nil, NewMissingJointValueError(j.Name)
		}
		out[i] = v
	}
	return out, nil
}

// CheckJointValues reports every value that names an unknown joint, is not finite, is non-zero on a
// fixed joint or falls outside its joint's limits. Joints without a value are not checked.
func (t *Tree) CheckJointValues(values JointValues) error {
	var errs error
	for _, j := range t.Joints() {
		v, ok := values[j.Name]
		if !ok {
			continue
		}
		switch {
		case !utils.IsFinite(v):
			errs = multierr.Append(errs, NewInvalidJointValueError(j.Name, v, "value is not finite"))
		case j.Type == FixedJoint && v != 0:
			errs = multierr.Append(errs, NewInvalidJointValueError(j.Name, v, "fixed joints only accept zero"))
		case j.Type.Bounded():
			if lim := j.Bounds(); v < lim.Lower || v > lim.Upper {
				errs = multierr.Append(errs, NewJointValueOutOfRangeError(j.Name, v, lim))
			}
		}
	}
	unknown := lo.Filter(lo.Keys(values), func(name string, _ int) bool {
		_, ok := t.jointIndex[name]
		return !ok
	})
	sort.Strings(unknown)
	for _, name := range unknown {
		errs = multierr.Append(errs, NewUnknownJointError(name))
	}
	return errs
}
