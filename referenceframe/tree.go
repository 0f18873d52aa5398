// Package referenceframe holds the kinematic data model of a robot description: links connected by joints
// into a tree, together with the validation performed when the tree is built and the transform
// queries consumers run against it.
package referenceframe

import (
	"math"
	"sort"
	"strconv"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/bestman-robotics/robot-description/spatialmath"
	"github.com/bestman-robotics/robot-description/utils"
)

const noParent = -1

// JointValues maps joint names to joint positions: radians for revolute and continuous joints,
// meters for prismatic joints.
type JointValues map[string]float64

// Tree is a validated, immutable kinematic tree. Links and joints live in arenas indexed by handle
// and joints refer to their links by handle, so transform composition never looks up names.
// A Tree is safe for concurrent use; values returned by its methods must not be modified.
type Tree struct {
	name      string
	links     []Link
	joints    []Joint
	materials []Material

	linkIndex     map[string]int
	jointIndex    map[string]int
	materialIndex map[string]int

	parentJoint []int   // per link, noParent for the root
	children    [][]int // per link, joint indices in declaration order
	root        int

	locals []spatialmath.Pose // per joint
	axes   []r3.Vector        // per joint, unit length for movable joints
}

// NewTree validates the given elements and assembles them into a Tree. The elements are deep copied,
// so later changes to the arguments do not reach the tree.
// On failure the returned error wraps one of the Err* load sentinels and names the offending element.
func NewTree(name string, links []Link, joints []Joint, materials []Material) (*Tree, error) {
	t := &Tree{
		name:          name,
		links:         make([]Link, 0, len(links)),
		joints:        make([]Joint, 0, len(joints)),
		materials:     make([]Material, 0, len(materials)),
		linkIndex:     make(map[string]int, len(links)),
		jointIndex:    make(map[string]int, len(joints)),
		materialIndex: make(map[string]int, len(materials)),
	}
	for _, l := range links {
		t.links = append(t.links, l.clone())
	}
	for _, j := range joints {
		t.joints = append(t.joints, j.clone())
	}
	for _, m := range materials {
		t.materials = append(t.materials, m.clone())
	}
	for _, check := range []func() error{
		t.indexNames,
		t.checkMaterials,
		t.checkJointTypes,
		t.resolveJoints,
		t.checkCycles,
		t.findRoot,
		t.checkJoints,
	} {
		if err := check(); err != nil {
			return nil, err
		}
	}
	t.precompute()
	return t, nil
}

func (t *Tree) indexNames() error {
	for i := range t.links {
		name := t.links[i].Name
		if name == "" {
			return NewMalformedDocumentError(nil, "link without a name")
		}
		if _, ok := t.linkIndex[name]; ok {
			return NewDuplicateNameError("link", name)
		}
		t.linkIndex[name] = i
		t.links[i].handle = LinkHandle(i)
	}
	for i := range t.joints {
		name := t.joints[i].Name
		if name == "" {
			return NewMalformedDocumentError(nil, "joint without a name")
		}
		if _, ok := t.jointIndex[name]; ok {
			return NewDuplicateNameError("joint", name)
		}
		t.jointIndex[name] = i
	}
	for i := range t.materials {
		name := t.materials[i].Name
		if name == "" {
			return NewMalformedDocumentError(nil, "material without a name")
		}
		if _, ok := t.materialIndex[name]; ok {
			return NewDuplicateNameError("material", name)
		}
		t.materialIndex[name] = i
	}
	return nil
}

// checkMaterials makes sure every material a visual refers to by name alone is declared, either at the
// top level or inline in an earlier visual.
func (t *Tree) checkMaterials() error {
	known := make(map[string]bool, len(t.materials))
	for name := range t.materialIndex {
		known[name] = true
	}
	for i := range t.links {
		for _, v := range t.links[i].Visuals {
			if v.Material == nil {
				continue
			}
			if !v.Material.IsReference() {
				if v.Material.Name != "" {
					known[v.Material.Name] = true
				}
				continue
			}
			if !known[v.Material.Name] {
				return NewDanglingReferenceError("visual of link "+strconv.Quote(t.links[i].Name), "material", v.Material.Name)
			}
		}
	}
	return nil
}

func (t *Tree) checkJointTypes() error {
	for i := range t.joints {
		if !t.joints[i].Type.supported() {
			return NewUnsupportedJointTypeError(t.joints[i].Name, t.joints[i].Type)
		}
	}
	return nil
}

func (t *Tree) resolveJoints() error {
	t.parentJoint = make([]int, len(t.links))
	for i := range t.parentJoint {
		t.parentJoint[i] = noParent
	}
	for i := range t.joints {
		j := &t.joints[i]
		parent, ok := t.linkIndex[j.Parent]
		if !ok {
			return NewDanglingReferenceError("joint "+strconv.Quote(j.Name), "parent link", j.Parent)
		}
		child, ok := t.linkIndex[j.Child]
		if !ok {
			return NewDanglingReferenceError("joint "+strconv.Quote(j.Name), "child link", j.Child)
		}
		if prev := t.parentJoint[child]; prev != noParent {
			return NewMultipleParentsError(j.Child, t.joints[prev].Name, j.Name)
		}
		j.parent, j.child = LinkHandle(parent), LinkHandle(child)
		t.parentJoint[child] = i
	}
	return nil
}

func (t *Tree) checkCycles() error {
	g := simple.NewDirectedGraph()
	for i := range t.links {
		g.AddNode(simple.Node(i))
	}
	for i := range t.joints {
		j := &t.joints[i]
		if j.parent == j.child {
			return NewCyclicGraphError([]string{j.Parent})
		}
		g.SetEdge(g.NewEdge(simple.Node(j.parent), simple.Node(j.child)))
	}
	_, err := topo.Sort(g)
	if err == nil {
		return nil
	}
	cycles, ok := err.(topo.Unorderable)
	if !ok || len(cycles) == 0 {
		return errors.Wrap(ErrCyclicGraph, err.Error())
	}
	var members []string
	for _, n := range cycles[0] {
		members = append(members, t.links[n.ID()].Name)
	}
	sort.Strings(members)
	return NewCyclicGraphError(members)
}

func (t *Tree) findRoot() error {
	var roots []string
	t.root = noParent
	for i, pj := range t.parentJoint {
		if pj == noParent {
			roots = append(roots, t.links[i].Name)
			if t.root == noParent {
				t.root = i
			}
		}
	}
	switch len(roots) {
	case 0:
		return errors.Wrap(ErrNoRoot, "every link has a parent joint")
	case 1:
		return nil
	default:
		return errors.Wrapf(ErrMultipleRoots, "links %q have no parent joint", roots)
	}
}

func (t *Tree) checkJoints() error {
	for i := range t.joints {
		j := &t.joints[i]
		if !j.Origin.finite() {
			return NewMalformedDocumentError(nil, "joint "+strconv.Quote(j.Name)+" has a non-finite origin")
		}
		if j.Type.Bounded() && j.Limit == nil {
			return NewInvalidLimitError(j.Name, "a "+string(j.Type)+" joint must declare a limit")
		}
		if j.Limit != nil {
			lim := j.Limit
			if math.IsNaN(lim.Lower) || math.IsNaN(lim.Upper) || math.IsNaN(lim.Effort) || math.IsNaN(lim.Velocity) {
				return NewInvalidLimitError(j.Name, "limit contains NaN")
			}
			if j.Type.Bounded() && lim.Lower > lim.Upper {
				return NewInvalidLimitError(j.Name, "lower "+utils.FormatFloat(lim.Lower)+" is greater than upper "+utils.FormatFloat(lim.Upper))
			}
			if lim.Effort < 0 || lim.Velocity < 0 {
				return NewInvalidLimitError(j.Name, "effort and velocity must not be negative")
			}
		}
		if !j.Type.Movable() {
			continue
		}
		axis := j.AxisOrDefault()
		if !utils.IsFinite(axis.X) || !utils.IsFinite(axis.Y) || !utils.IsFinite(axis.Z) {
			return errors.Wrapf(ErrInvalidAxis, "joint %q axis is not finite", j.Name)
		}
		if axis.Norm() == 0 {
			return errors.Wrapf(ErrInvalidAxis, "joint %q axis is the zero vector", j.Name)
		}
	}
	return nil
}

func (t *Tree) precompute() {
	t.children = make([][]int, len(t.links))
	t.locals = make([]spatialmath.Pose, len(t.joints))
	t.axes = make([]r3.Vector, len(t.joints))
	for i := range t.joints {
		j := &t.joints[i]
		t.children[j.parent] = append(t.children[j.parent], i)
		t.locals[i] = j.Origin.Pose()
		if j.Type.Movable() {
			t.axes[i] = j.AxisOrDefault().Normalize()
		}
	}
}

// Name returns the robot name.
func (t *Tree) Name() string {
	return t.name
}

// Root returns the unique link with no parent joint.
func (t *Tree) Root() *Link {
	return &t.links[t.root]
}

// Link returns the named link.
func (t *Tree) Link(name string) (*Link, error) {
	idx, ok := t.linkIndex[name]
	if !ok {
		return nil, NewUnknownLinkError(name)
	}
	return &t.links[idx], nil
}

// LinkByHandle returns the link with the given handle.
func (t *Tree) LinkByHandle(h LinkHandle) (*Link, error) {
	if int(h) < 0 || int(h) >= len(t.links) {
		return nil, errors.Wrapf(ErrUnknownLink, "handle %d", h)
	}
	return &t.links[h], nil
}

// Joint returns the named joint.
func (t *Tree) Joint(name string) (*Joint, error) {
	idx, ok := t.jointIndex[name]
	if !ok {
		return nil, NewUnknownJointError(name)
	}
	return &t.joints[idx], nil
}

// Material returns the named top-level material.
func (t *Tree) Material(name string) (*Material, bool) {
	idx, ok := t.materialIndex[name]
	if !ok {
		return nil, false
	}
	return &t.materials[idx], true
}

// Links returns every link in declaration order.
func (t *Tree) Links() []*Link {
	out := make([]*Link, len(t.links))
	for i := range t.links {
		out[i] = &t.links[i]
	}
	return out
}

// Joints returns every joint in declaration order.
func (t *Tree) Joints() []*Joint {
	out := make([]*Joint, len(t.joints))
	for i := range t.joints {
		out[i] = &t.joints[i]
	}
	return out
}

// Materials returns the top-level materials in declaration order.
func (t *Tree) Materials() []*Material {
	out := make([]*Material, len(t.materials))
	for i := range t.materials {
		out[i] = &t.materials[i]
	}
	return out
}

// Children returns the joints whose parent is the named link, in declaration order.
func (t *Tree) Children(link string) ([]*Joint, error) {
	idx, ok := t.linkIndex[link]
	if !ok {
		return nil, NewUnknownLinkError(link)
	}
	out := make([]*Joint, 0, len(t.children[idx]))
	for _, j := range t.children[idx] {
		out = append(out, &t.joints[j])
	}
	return out, nil
}

// ParentJoint returns the joint whose child is the named link, or nil for the root.
func (t *Tree) ParentJoint(link string) (*Joint, error) {
	idx, ok := t.linkIndex[link]
	if !ok {
		return nil, NewUnknownLinkError(link)
	}
	if t.parentJoint[idx] == noParent {
		return nil, nil
	}
	return &t.joints[t.parentJoint[idx]], nil
}

// Path returns the joints from the root down to the named link. The root's path is empty.
func (t *Tree) Path(link string) ([]*Joint, error) {
	idx, ok := t.linkIndex[link]
	if !ok {
		return nil, NewUnknownLinkError(link)
	}
	path := t.path(idx)
	out := make([]*Joint, len(path))
	for i, j := range path {
		out[i] = &t.joints[j]
	}
	return out, nil
}

// path walks parent joints up from a link and returns their indices ordered root first.
func (t *Tree) path(link int) []int {
	var up []int
	for pj := t.parentJoint[link]; pj != noParent; pj = t.parentJoint[t.joints[pj].parent] {
		up = append(up, pj)
	}
	for i, k := 0, len(up)-1; i < k; i, k = i+1, k-1 {
		up[i], up[k] = up[k], up[i]
	}
	return up
}

// LocalTransform returns the fixed offset of the joint's child frame relative to its parent frame,
// independent of joint motion.
func (t *Tree) LocalTransform(joint string) (spatialmath.Pose, error) {
	idx, ok := t.jointIndex[joint]
	if !ok {
		return nil, NewUnknownJointError(joint)
	}
	return t.locals[idx], nil
}

// JointTransform composes the joint's local transform with its motion: a rotation of value radians
// about the axis for revolute and continuous joints, a translation of value meters along the axis
// for prismatic joints. Fixed joints ignore motion and only accept a zero value.
func (t *Tree) JointTransform(joint string, value float64) (spatialmath.Pose, error) {
	idx, ok := t.jointIndex[joint]
	if !ok {
		return nil, NewUnknownJointError(joint)
	}
	return t.jointTransform(idx, value)
}

func (t *Tree) jointTransform(idx int, value float64) (spatialmath.Pose, error) {
	j := &t.joints[idx]
	if !utils.IsFinite(value) {
		return nil, NewInvalidJointValueError(j.Name, value, "value is not finite")
	}
	switch j.Type {
	case FixedJoint:
		if value != 0 {
			return nil, NewInvalidJointValueError(j.Name, value, "fixed joints only accept zero")
		}
		return t.locals[idx], nil
	case RevoluteJoint, ContinuousJoint:
		motion := spatialmath.NewPoseFromOrientation(spatialmath.NewR4AAFromAxis(t.axes[idx], value))
		return spatialmath.Compose(t.locals[idx], motion), nil
	case PrismaticJoint:
		motion := spatialmath.NewPoseFromPoint(t.axes[idx].Mul(value))
		return spatialmath.Compose(t.locals[idx], motion), nil
	case FloatingJoint, PlanarJoint:
	}
	return nil, NewUnsupportedJointTypeError(j.Name, j.Type)
}

// valueFor looks up the value of a joint on a kinematic path.
func (t *Tree) valueFor(idx int, values JointValues) (float64, error) {
	j := &t.joints[idx]
	v, ok := values[j.Name]
	if !ok {
		if j.Type.Movable() {
			return 0, NewMissingJointValueError(j.Name)
		}
		return 0, nil
	}
	return v, nil
}

// WorldTransform composes joint transforms along the path from the root to the named link, parent
// first. Every movable joint on the path needs a value; fixed joints may be omitted or given zero.
func (t *Tree) WorldTransform(link string, values JointValues) (spatialmath.Pose, error) {
	idx, ok := t.linkIndex[link]
	if !ok {
		return nil, NewUnknownLinkError(link)
	}
	pose := spatialmath.NewZeroPose()
	for _, j := range t.path(idx) {
		v, err := t.valueFor(j, values)
		if err != nil {
			return nil, err
		}
		tf, err := t.jointTransform(j, v)
		if err != nil {
			return nil, err
		}
		pose = spatialmath.Compose(pose, tf)
	}
	return pose, nil
}

// WorldTransforms computes the pose of every link in one preorder walk from the root.
// Every movable joint in the tree needs a value.
func (t *Tree) WorldTransforms(values JointValues) (map[string]spatialmath.Pose, error) {
	poses := make(map[string]spatialmath.Pose, len(t.links))
	type visit struct {
		link int
		pose spatialmath.Pose
	}
	stack := []visit{{t.root, spatialmath.NewZeroPose()}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		poses[t.links[cur.link].Name] = cur.pose

		kids := t.children[cur.link]
		// push in reverse so children are visited in declaration order
		for k := len(kids) - 1; k >= 0; k-- {
			j := kids[k]
			v, err := t.valueFor(j, values)
			if err != nil {
				return nil, err
			}
			tf, err := t.jointTransform(j, v)
			if err != nil {
				return nil, err
			}
			stack = append(stack, visit{int(t.joints[j].child), spatialmath.Compose(cur.pose, tf)})
		}
	}
	return poses, nil
}
