package cli

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"github.com/bestman-robotics/robot-description/referenceframe/urdf"
)

// ValidateAction loads every file given and reports one line per file. Load failures and missing
// meshes fail the command; lint findings are only printed.
func ValidateAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.Errorf("%s expects at least one FILE", c.Command.Name)
	}
	st := stateFrom(c)
	logger := st.logger.Sublogger("validate")

	var errs error
	for _, file := range c.Args().Slice() {
		tree, err := loadTree(c, file)
		if err != nil {
			printf(c.App.Writer, "%s %s: %v\n", failMark("FAIL"), file, err)
			errs = multierr.Append(errs, err)
			continue
		}

		var missing []string
		embedded := strings.HasPrefix(file, builtinPrefix)
		if c.Bool(flagCheckMeshes) && !embedded {
			missing = urdf.MissingMeshes(tree, filepath.Dir(file), st.cfg.PackagePaths())
		}
		if len(missing) == 0 {
			printf(c.App.Writer, "%s %s: robot %q, %d links, %d joints, %d DoF\n",
				okMark("OK"), file, tree.Name(), len(tree.Links()), len(tree.Joints()), tree.DoF())
		} else {
			printf(c.App.Writer, "%s %s: %d missing mesh(es)\n", failMark("FAIL"), file, len(missing))
		}
		if c.Bool(flagCheckMeshes) && embedded {
			// embedded robots have no directory to resolve relative meshes against
			logger.Debugw("skipping mesh check", "source", file)
			printf(c.App.Writer, "  meshes not checked for embedded robot\n")
		}
		for _, mesh := range missing {
			printf(c.App.Writer, "  missing mesh %s\n", mesh)
			errs = multierr.Append(errs, errors.Errorf("%s: missing mesh %s", file, mesh))
		}

		if c.Bool(flagLint) {
			for _, finding := range multierr.Errors(tree.Lint(st.cfg.LintOptions())) {
				logger.Warnw("lint finding", "file", file, "finding", finding.Error())
				printf(c.App.Writer, "  %s %v\n", warnMark("warning:"), finding)
			}
		}
	}
	// urfave/cli exits the process on errors exposing Errors(), so the combination is wrapped.
	return errors.Wrap(errs, "validation failed")
}
