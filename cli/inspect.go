package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"github.com/bestman-robotics/robot-description/referenceframe"
	"github.com/bestman-robotics/robot-description/utils"
)

var jointColors = map[referenceframe.JointType]*color.Color{
	referenceframe.FixedJoint:      color.New(color.FgHiBlack),
	referenceframe.RevoluteJoint:   color.New(color.FgCyan),
	referenceframe.ContinuousJoint: color.New(color.FgMagenta),
	referenceframe.PrismaticJoint:  color.New(color.FgYellow),
}

// InspectAction prints a summary of a description followed by tables of its links, joints and
// materials.
func InspectAction(c *cli.Context) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	tree, err := loadTree(c, c.Args().First())
	if err != nil {
		return err
	}
	w := c.App.Writer
	printf(w, "robot %q: root %s, %d links, %d joints, %d DoF, total mass %s kg\n",
		tree.Name(), tree.Root().Name, len(tree.Links()), len(tree.Joints()), tree.DoF(), utils.FormatFloat(tree.TotalMass()))
	printf(w, "%s\n%s\n", linkTable(tree), jointTable(tree))
	if len(tree.Materials()) > 0 {
		printf(w, "%s\n", materialTable(tree))
	}
	return nil
}

func newTable(header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)
	return t
}

func linkTable(tree *referenceframe.Tree) string {
	t := newTable(table.Row{"#", "Link", "Parent joint", "Mass", "Visuals", "Collisions"})
	for i, l := range tree.Links() {
		parent := ""
		//nolint:errcheck
		if j, _ := tree.ParentJoint(l.Name); j != nil {
			parent = j.Name
		}
		mass := "-"
		if l.Inertial != nil {
			mass = utils.FormatFloat(l.Inertial.Mass)
		}
		t.AppendRow(table.Row{i, l.Name, parent, mass, len(l.Visuals), len(l.Collisions)})
	}
	return t.Render()
}

func jointTable(tree *referenceframe.Tree) string {
	t := newTable(table.Row{"#", "Joint", "Type", "Parent", "Child", "Axis", "Lower", "Upper", "Effort", "Velocity"})
	for i, j := range tree.Joints() {
		row := table.Row{i, j.Name, j.Type, j.Parent, j.Child, "", "", "", "", ""}
		if j.Type.Movable() {
			axis := j.AxisOrDefault()
			row[5] = utils.FormatFloatList(axis.X, axis.Y, axis.Z)
		}
		if j.Limit != nil {
			lim := j.Bounds()
			if j.Type.Bounded() {
				row[6], row[7] = utils.FormatFloat(lim.Lower), utils.FormatFloat(lim.Upper)
			}
			row[8], row[9] = utils.FormatFloat(j.Limit.Effort), utils.FormatFloat(j.Limit.Velocity)
		}
		t.AppendRow(row)
	}
	return t.Render()
}

func materialTable(tree *referenceframe.Tree) string {
	t := newTable(table.Row{"Material", "Color", "Texture"})
	for _, m := range tree.Materials() {
		rgba := ""
		if m.Color != nil {
			rgba = utils.FormatFloatList(m.Color.R, m.Color.G, m.Color.B, m.Color.A)
		}
		t.AppendRow(table.Row{m.Name, rgba, m.Texture})
	}
	return t.Render()
}

// TreeAction prints the link hierarchy, one joint per line.
func TreeAction(c *cli.Context) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	tree, err := loadTree(c, c.Args().First())
	if err != nil {
		return err
	}
	printf(c.App.Writer, "%s\n", tree.Root().Name)
	return printSubtree(c.App.Writer, tree, tree.Root().Name, "")
}

func printSubtree(w io.Writer, tree *referenceframe.Tree, link, indent string) error {
	children, err := tree.Children(link)
	if err != nil {
		return err
	}
	for i, j := range children {
		branch, next := "├── ", "│   "
		if i == len(children)-1 {
			branch, next = "└── ", "    "
		}
		printf(w, "%s%s%s %s\n", indent, branch, jointLabel(j), j.Child)
		if err := printSubtree(w, tree, j.Child, indent+next); err != nil {
			return err
		}
	}
	return nil
}

func jointLabel(j *referenceframe.Joint) string {
	label := fmt.Sprintf("[%s %s]", j.Type, j.Name)
	if c, ok := jointColors[j.Type]; ok {
		return c.Sprint(label)
	}
	return label
}

// movableJointNames lists the movable joints among joints, for error hints.
func movableJointNames(joints []*referenceframe.Joint) string {
	movable := lo.Filter(joints, func(j *referenceframe.Joint, _ int) bool { return j.Type.Movable() })
	return strings.Join(lo.Map(movable, func(j *referenceframe.Joint, _ int) string { return j.Name }), ", ")
}
