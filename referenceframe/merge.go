package referenceframe

import (
	"reflect"

	"github.com/pkg/errors"
)

// MountOptions describes how one tree is attached to another.
type MountOptions struct {
	// JointName names the new fixed joint. Defaults to "<attachTo>_to_<child root>".
	JointName string
	// Origin places the child root relative to the attach link.
	Origin Origin
	// Prefix is prepended to every link and joint name of the child tree, so two copies of the same
	// description can be mounted side by side.
	Prefix string
}

// Mount returns a new tree named name in which the root of child hangs off the base link attachTo
// through a fixed joint. Neither input is modified. Name clashes between the two trees fail with
// ErrDuplicateName; materials declared identically in both are kept once.
func Mount(name string, base *Tree, attachTo string, child *Tree, opts MountOptions) (*Tree, error) {
	if _, err := base.Link(attachTo); err != nil {
		return nil, errors.Wrap(err, "mount point")
	}

	links := make([]Link, 0, len(base.links)+len(child.links))
	links = append(links, base.links...)
	for _, l := range child.links {
		l.Name = opts.Prefix + l.Name
		links = append(links, l)
	}

	joints := make([]Joint, 0, len(base.joints)+len(child.joints)+1)
	joints = append(joints, base.joints...)
	childRoot := opts.Prefix + child.Root().Name
	jointName := opts.JointName
	if jointName == "" {
		jointName = attachTo + "_to_" + childRoot
	}
	joints = append(joints, Joint{
		Name:   jointName,
		Type:   FixedJoint,
		Parent: attachTo,
		Child:  childRoot,
		Origin: opts.Origin,
	})
	for _, j := range child.joints {
		j.Name = opts.Prefix + j.Name
		j.Parent = opts.Prefix + j.Parent
		j.Child = opts.Prefix + j.Child
		joints = append(joints, j)
	}

	materials := append([]Material(nil), base.materials...)
	for _, m := range child.materials {
		if existing, ok := base.Material(m.Name); ok && reflect.DeepEqual(*existing, m) {
			continue
		}
		materials = append(materials, m)
	}

	return NewTree(name, links, joints, materials)
}
