package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/bestman-robotics/robot-description/referenceframe"
	"github.com/bestman-robotics/robot-description/referenceframe/urdf"
	"github.com/bestman-robotics/robot-description/robots"
	"github.com/bestman-robotics/robot-description/spatialmath"
	"github.com/bestman-robotics/robot-description/utils"
)

// builtinPrefix selects an embedded robot wherever a description file is expected.
const builtinPrefix = "builtin:"

const fileOutputPerm = 0o644

var (
	okMark   = color.New(color.FgGreen).SprintFunc()
	failMark = color.New(color.FgRed, color.Bold).SprintFunc()
	warnMark = color.New(color.FgYellow).SprintFunc()
)

// printf writes to w, ignoring write errors like fmt.Printf callers usually do.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format, a...)
}

// requireArgs checks the number of positional arguments.
func requireArgs(c *cli.Context, n int) error {
	if c.NArg() != n {
		return errors.Errorf("%s expects %d argument(s) (%s), got %d", c.Command.Name, n, c.Command.ArgsUsage, c.NArg())
	}
	return nil
}

// loadTree loads a description from a file, or from the embedded robots for "builtin:NAME".
func loadTree(c *cli.Context, source string) (*referenceframe.Tree, error) {
	logger := stateFrom(c).logger
	if name, ok := strings.CutPrefix(source, builtinPrefix); ok {
		logger.Debugw("loading embedded robot", "name", name)
		return robots.Load(name)
	}
	logger.Debugw("loading description", "file", source)
	tree, err := urdf.ParseModelXMLFile(source, "")
	if err != nil {
		return nil, err
	}
	logger.Debugw("loaded description", "file", source, "robot", tree.Name(), "links", len(tree.Links()), "joints", len(tree.Joints()))
	return tree, nil
}

// writeOutput writes data to path, or to the app writer when path is empty or "-".
func writeOutput(c *cli.Context, data []byte, path string) error {
	if path == "" || path == "-" {
		_, err := c.App.Writer.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, fileOutputPerm); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	stateFrom(c).logger.Infow("wrote description", "file", path)
	return nil
}

// writeTree serializes tree to the --output flag.
func writeTree(c *cli.Context, tree *referenceframe.Tree) error {
	data, err := urdf.MarshalModelXML(tree)
	if err != nil {
		return err
	}
	return writeOutput(c, data, c.String(flagOutput))
}

// parseOrigin builds an origin from space separated xyz and rpy strings.
func parseOrigin(xyz, rpy string) (referenceframe.Origin, error) {
	t, err := utils.ParseFloatList(xyz, 3)
	if err != nil {
		return referenceframe.Origin{}, errors.Wrap(err, "--xyz")
	}
	r, err := utils.ParseFloatList(rpy, 3)
	if err != nil {
		return referenceframe.Origin{}, errors.Wrap(err, "--rpy")
	}
	return referenceframe.Origin{
		XYZ: r3.Vector{X: t[0], Y: t[1], Z: t[2]},
		RPY: spatialmath.EulerAngles{Roll: r[0], Pitch: r[1], Yaw: r[2]},
	}, nil
}
