package referenceframe

import (
	"github.com/pkg/errors"
)

// Load-time failures. Every error returned by NewTree or the urdf loader wraps exactly one of these,
// so callers can test with errors.Is.
var (
	ErrMalformedDocument    = errors.New("malformed document")
	ErrDuplicateName        = errors.New("duplicate name")
	ErrDanglingReference    = errors.New("dangling reference")
	ErrMultipleRoots        = errors.New("multiple root links")
	ErrNoRoot               = errors.New("no root link")
	ErrCyclicGraph          = errors.New("cyclic graph")
	ErrInvalidLimit         = errors.New("invalid limit")
	ErrInvalidAxis          = errors.New("invalid axis")
	ErrUnsupportedJointType = errors.New("unsupported joint type")
)

// Query-time failures.
var (
	ErrUnknownLink          = errors.New("unknown link")
	ErrUnknownJoint         = errors.New("unknown joint")
	ErrMissingJointValue    = errors.New("missing joint value")
	ErrInvalidJointValue    = errors.New("invalid joint value")
	ErrJointValueOutOfRange = errors.New("joint value out of range")
)

// NewMalformedDocumentError wraps a parse failure.
func NewMalformedDocumentError(err error, context string) error {
	if err == nil {
		return errors.Wrap(ErrMalformedDocument, context)
	}
	return errors.Wrapf(ErrMalformedDocument, "%s: %v", context, err)
}

// NewDuplicateNameError is used when two elements of the same kind share a name.
func NewDuplicateNameError(kind, name string) error {
	return errors.Wrapf(ErrDuplicateName, "%s %q declared more than once", kind, name)
}

// NewMultipleParentsError is used when a link is the child of more than one joint.
func NewMultipleParentsError(link, first, second string) error {
	return errors.Wrapf(ErrDuplicateName, "link %q is the child of both joint %q and joint %q", link, first, second)
}

// NewDanglingReferenceError is used when an element refers to an undeclared one.
func NewDanglingReferenceError(from, kind, name string) error {
	return errors.Wrapf(ErrDanglingReference, "%s refers to undeclared %s %q", from, kind, name)
}

// NewUnsupportedJointTypeError is used when a joint type is not handled.
func NewUnsupportedJointTypeError(jointName string, jointType JointType) error {
	return errors.Wrapf(ErrUnsupportedJointType, "joint %q has type %q", jointName, jointType)
}

// NewCyclicGraphError is used when links can reach themselves through joints.
func NewCyclicGraphError(links []string) error {
	return errors.Wrapf(ErrCyclicGraph, "links %q form a cycle", links)
}

// NewInvalidLimitError is used when a bounded joint has no usable limit block.
func NewInvalidLimitError(jointName, reason string) error {
	return errors.Wrapf(ErrInvalidLimit, "joint %q: %s", jointName, reason)
}

// NewUnknownLinkError is used when a queried link is not in the tree.
func NewUnknownLinkError(name string) error {
	return errors.Wrapf(ErrUnknownLink, "%q", name)
}

// NewUnknownJointError is used when a queried joint is not in the tree.
func NewUnknownJointError(name string) error {
	return errors.Wrapf(ErrUnknownJoint, "%q", name)
}

// NewMissingJointValueError is used when a movable joint on a kinematic path has no value.
func NewMissingJointValueError(jointName string) error {
	return errors.Wrapf(ErrMissingJointValue, "no value supplied for joint %q", jointName)
}

// NewInvalidJointValueError is used for values a joint cannot take.
func NewInvalidJointValueError(jointName string, value float64, reason string) error {
	return errors.Wrapf(ErrInvalidJointValue, "joint %q given %v: %s", jointName, value, reason)
}

// NewJointValueOutOfRangeError is used when a value falls outside of a joint's limits.
func NewJointValueOutOfRangeError(jointName string, value float64, lim Limit) error {
	return errors.Wrapf(ErrJointValueOutOfRange, "joint %q value %v outside [%v, %v]", jointName, value, lim.Lower, lim.Upper)
}

// NewIncorrectDoFError is returned when a joint value slice does not match the number of movable joints.
func NewIncorrectDoFError(actual, expected int) error {
	return errors.Errorf("number of joint values does not match degrees of freedom. Expected %d but got %d", expected, actual)
}
