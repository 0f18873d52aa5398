package cli

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/bestman-robotics/robot-description/referenceframe"
	"github.com/bestman-robotics/robot-description/spatialmath"
	"github.com/bestman-robotics/robot-description/utils"
)

// FKAction prints the world pose of a link. Every movable joint between the root and the link
// needs a value unless --zero is given.
func FKAction(c *cli.Context) error {
	if err := requireArgs(c, 2); err != nil {
		return err
	}
	tree, err := loadTree(c, c.Args().Get(0))
	if err != nil {
		return err
	}
	link := c.Args().Get(1)

	values, err := parseJointValues(c.StringSlice(flagJoint))
	if err != nil {
		return err
	}
	if c.Bool(flagDegrees) {
		for name, v := range values {
			if j, err := tree.Joint(name); err == nil && j.Type != referenceframe.PrismaticJoint {
				values[name] = utils.DegToRad(v)
			}
		}
	}
	if c.Bool(flagZero) {
		for name, v := range tree.ZeroJointValues() {
			if _, ok := values[name]; !ok {
				values[name] = v
			}
		}
	}
	if err := tree.CheckJointValues(values); err != nil {
		return errors.Wrap(err, "invalid joint values")
	}

	pose, err := tree.WorldTransform(link, values)
	if err != nil {
		if errors.Is(err, referenceframe.ErrMissingJointValue) {
			path, _ := tree.Path(link) //nolint:errcheck
			return errors.Wrapf(err, "give --%s values for (%s) or pass --%s", flagJoint, movableJointNames(path), flagZero)
		}
		return err
	}
	stateFrom(c).logger.Debugw("computed world pose", "link", link, "values", values)

	if c.Bool(flagDegrees) {
		pt, rpy := pose.Point(), pose.Orientation().EulerAngles()
		printf(c.App.Writer, "%s: xyz=(%.6f %.6f %.6f) rpy_deg=(%.4f %.4f %.4f)\n", link, pt.X, pt.Y, pt.Z,
			utils.RadToDeg(rpy.Roll), utils.RadToDeg(rpy.Pitch), utils.RadToDeg(rpy.Yaw))
	} else {
		printf(c.App.Writer, "%s: %s\n", link, spatialmath.PrettyPrint(pose))
	}
	if c.Bool(flagMatrix) {
		m := spatialmath.PoseToMat4(pose)
		for r := 0; r < 4; r++ {
			printf(c.App.Writer, "%12.6f %12.6f %12.6f %12.6f\n", m.At(r, 0), m.At(r, 1), m.At(r, 2), m.At(r, 3))
		}
	}
	return nil
}

// parseJointValues parses repeated NAME=VALUE flags. A name given twice is an error.
func parseJointValues(flags []string) (referenceframe.JointValues, error) {
	values := referenceframe.JointValues{}
	for _, f := range flags {
		name, raw, found := strings.Cut(f, "=")
		name = strings.TrimSpace(name)
		if !found || name == "" {
			return nil, errors.Errorf("joint value %q is not NAME=VALUE", f)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "joint %s", name)
		}
		if _, dup := values[name]; dup {
			return nil, errors.Errorf("joint %s given more than once", name)
		}
		values[name] = v
	}
	return values, nil
}
