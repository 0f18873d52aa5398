package cli

import (
	"github.com/urfave/cli/v2"

	"github.com/bestman-robotics/robot-description/referenceframe"
)

// FmtAction re-serializes a description in canonical form.
func FmtAction(c *cli.Context) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	tree, err := loadTree(c, c.Args().First())
	if err != nil {
		return err
	}
	return writeTree(c, tree)
}

// CollapseAction removes the fixed leaf links of a description, such as tool frames and sensor
// mounts, and writes the result.
func CollapseAction(c *cli.Context) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	tree, err := loadTree(c, c.Args().First())
	if err != nil {
		return err
	}
	collapsed, removed, err := tree.CollapseFixedLeaves()
	if err != nil {
		return err
	}
	stateFrom(c).logger.Infow("collapsed fixed leaves", "removed", removed)
	return writeTree(c, collapsed)
}

// MountAction attaches the root of ARM to a link of BASE through a fixed joint.
func MountAction(c *cli.Context) error {
	if err := requireArgs(c, 2); err != nil {
		return err
	}
	base, err := loadTree(c, c.Args().Get(0))
	if err != nil {
		return err
	}
	arm, err := loadTree(c, c.Args().Get(1))
	if err != nil {
		return err
	}
	origin, err := parseOrigin(c.String(flagXYZ), c.String(flagRPY))
	if err != nil {
		return err
	}
	name := c.String(flagName)
	if name == "" {
		name = base.Name()
	}
	merged, err := referenceframe.Mount(name, base, c.String(flagAt), arm, referenceframe.MountOptions{
		JointName: c.String(flagJoint),
		Origin:    origin,
		Prefix:    c.String(flagPrefix),
	})
	if err != nil {
		return err
	}
	stateFrom(c).logger.Debugw("mounted", "base", base.Name(), "arm", arm.Name(), "at", c.String(flagAt))
	return writeTree(c, merged)
}
