// Package cli contains the urdf command line tool.
package cli

import (
	"io"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/bestman-robotics/robot-description/config"
	"github.com/bestman-robotics/robot-description/logging"
)

const (
	// Global flags.
	flagConfig  = "config"
	flagDebug   = "debug"
	flagNoColor = "no-color"

	// Command flags.
	flagOutput      = "output"
	flagCheckMeshes = "check-meshes"
	flagLint        = "lint"
	flagJoint       = "joint"
	flagZero        = "zero"
	flagMatrix      = "matrix"
	flagDegrees     = "degrees"
	flagAt          = "at"
	flagXYZ         = "xyz"
	flagRPY         = "rpy"
	flagPrefix      = "prefix"
	flagName        = "name"

	stateKey = "state"
)

var outputFlag = &cli.StringFlag{
	Name:    flagOutput,
	Aliases: []string{"o"},
	Usage:   "write the result to `FILE` instead of stdout",
}

// toolState is built once per invocation from the global flags.
type toolState struct {
	cfg    *config.Config
	logger logging.Logger
	close  func() error
}

func stateFrom(c *cli.Context) *toolState {
	//nolint:forcetypeassert
	return c.App.Metadata[stateKey].(*toolState)
}

func before(c *cli.Context) error {
	if c.Bool(flagNoColor) {
		color.NoColor = true
	}
	cfg, err := config.Load(c.Path(flagConfig), config.Overrides{Debug: c.Bool(flagDebug)})
	if err != nil {
		return err
	}
	logger, closeFn, err := cfg.NewLogger("urdf", c.App.ErrWriter)
	if err != nil {
		return err
	}
	c.App.Metadata[stateKey] = &toolState{cfg: cfg, logger: logger, close: closeFn}
	return nil
}

func after(c *cli.Context) error {
	st, ok := c.App.Metadata[stateKey].(*toolState)
	if !ok {
		return nil
	}
	delete(c.App.Metadata, stateKey)
	return st.close()
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            "urdf",
		Usage:           "load, check and transform URDF robot descriptions",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Metadata:        map[string]interface{}{},
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load configuration from `FILE`",
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.BoolFlag{
				Name:  flagNoColor,
				Usage: "disable colored output",
			},
		},
		Before: before,
		After:  after,
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "load each description and report errors",
				ArgsUsage: "FILE...",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  flagCheckMeshes,
						Usage: "resolve mesh references and report missing files (skipped for " + builtinPrefix + " sources)",
					},
					&cli.BoolFlag{
						Name:  flagLint,
						Usage: "report physically implausible inertial data",
					},
				},
				Action: ValidateAction,
			},
			{
				Name:      "inspect",
				Usage:     "print tables of links, joints and materials",
				ArgsUsage: "FILE",
				Action:    InspectAction,
			},
			{
				Name:      "tree",
				Usage:     "print the link hierarchy",
				ArgsUsage: "FILE",
				Action:    TreeAction,
			},
			{
				Name:      "fk",
				Usage:     "print the world pose of a link for the given joint values",
				ArgsUsage: "FILE LINK",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    flagJoint,
						Aliases: []string{"j"},
						Usage:   "joint value as `NAME=VALUE`, radians or meters; may be repeated",
					},
					&cli.BoolFlag{
						Name:  flagZero,
						Usage: "default joints without a value to zero",
					},
					&cli.BoolFlag{
						Name:  flagMatrix,
						Usage: "also print the 4x4 homogeneous transform",
					},
					&cli.BoolFlag{
						Name:  flagDegrees,
						Usage: "read rotational joint values and print rpy in degrees",
					},
				},
				Action: FKAction,
			},
			{
				Name:      "fmt",
				Usage:     "re-serialize a description",
				ArgsUsage: "FILE",
				Flags:     []cli.Flag{outputFlag},
				Action:    FmtAction,
			},
			{
				Name:      "collapse",
				Usage:     "remove leaf links attached through fixed joints",
				ArgsUsage: "FILE",
				Flags:     []cli.Flag{outputFlag},
				Action:    CollapseAction,
			},
			{
				Name:      "mount",
				Usage:     "attach the root of ARM to a link of BASE with a fixed joint",
				ArgsUsage: "BASE ARM",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     flagAt,
						Required: true,
						Usage:    "`LINK` of BASE to attach to",
					},
					&cli.StringFlag{
						Name:  flagXYZ,
						Value: "0 0 0",
						Usage: "translation of the arm root relative to the mount link",
					},
					&cli.StringFlag{
						Name:  flagRPY,
						Value: "0 0 0",
						Usage: "fixed-axis roll pitch yaw of the arm root relative to the mount link",
					},
					&cli.StringFlag{
						Name:  flagPrefix,
						Usage: "prefix for every link and joint name of ARM",
					},
					&cli.StringFlag{
						Name:  flagJoint,
						Usage: "name of the new fixed joint",
					},
					&cli.StringFlag{
						Name:  flagName,
						Usage: "robot name of the result, defaults to the name of BASE",
					},
					outputFlag,
				},
				Action: MountAction,
			},
			{
				Name:      "watch",
				Usage:     "re-validate a description every time it changes",
				ArgsUsage: "FILE",
				Action:    WatchAction,
			},
			{
				Name:      "builtin",
				Usage:     "list the embedded robots, or print one as URDF",
				ArgsUsage: "[NAME]",
				Flags:     []cli.Flag{outputFlag},
				Action:    BuiltinAction,
			},
		},
	}
}
