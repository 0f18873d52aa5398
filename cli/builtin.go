package cli

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"

	"github.com/bestman-robotics/robot-description/robots"
	"github.com/bestman-robotics/robot-description/utils"
)

// BuiltinAction lists the embedded robots, or writes the named one as URDF.
func BuiltinAction(c *cli.Context) error {
	if c.NArg() > 1 {
		return requireArgs(c, 1)
	}
	if c.NArg() == 1 {
		tree, err := robots.Load(c.Args().First())
		if err != nil {
			return err
		}
		return writeTree(c, tree)
	}

	t := newTable(table.Row{"Name", "Links", "Joints", "DoF", "Mass (kg)"})
	for _, name := range robots.Names() {
		tree, err := robots.Load(name)
		if err != nil {
			return err
		}
		t.AppendRow(table.Row{name, len(tree.Links()), len(tree.Joints()), tree.DoF(), utils.FormatFloat(tree.TotalMass())})
	}
	printf(c.App.Writer, "%s\n", t.Render())
	return nil
}
