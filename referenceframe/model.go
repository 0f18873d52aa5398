package referenceframe

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/bestman-robotics/robot-description/spatialmath"
	"github.com/bestman-robotics/robot-description/utils"
)

// JointType is the kind of motion a joint permits.
type JointType string

// The joint types understood by the loader. Floating and planar joints are recognized so that
// they can be rejected by name.
const (
	FixedJoint      JointType = "fixed"
	RevoluteJoint   JointType = "revolute"
	ContinuousJoint JointType = "continuous"
	PrismaticJoint  JointType = "prismatic"
	FloatingJoint   JointType = "floating"
	PlanarJoint     JointType = "planar"
)

// Movable reports whether the joint takes a value.
func (jt JointType) Movable() bool {
	return jt == RevoluteJoint || jt == ContinuousJoint || jt == PrismaticJoint
}

// Bounded reports whether the joint requires a limit block with lower and upper bounds.
func (jt JointType) Bounded() bool {
	return jt == RevoluteJoint || jt == PrismaticJoint
}

func (jt JointType) supported() bool {
	return jt == FixedJoint || jt.Movable()
}

// DefaultAxis is the joint axis used when a document does not declare one.
var DefaultAxis = r3.Vector{X: 1, Y: 0, Z: 0}

// Origin is the rigid transform of a frame relative to its parent: rotation from fixed-axis rpy, then translation.
type Origin struct {
	XYZ r3.Vector
	RPY spatialmath.EulerAngles
}

// Pose returns the origin as a spatialmath.Pose.
func (o Origin) Pose() spatialmath.Pose {
	rpy := o.RPY
	return spatialmath.NewPose(o.XYZ, &rpy)
}

// IsZero reports whether the origin is the identity transform.
func (o Origin) IsZero() bool {
	return o.XYZ == (r3.Vector{}) && o.RPY.IsZero()
}

func (o Origin) finite() bool {
	for _, v := range []float64{o.XYZ.X, o.XYZ.Y, o.XYZ.Z, o.RPY.Roll, o.RPY.Pitch, o.RPY.Yaw} {
		if !utils.IsFinite(v) {
			return false
		}
	}
	return true
}

// Limit is the limit block of a joint. Lower and Upper are radians for rotational joints and meters for prismatic ones.
type Limit struct {
	Lower    float64
	Upper    float64
	Effort   float64
	Velocity float64
}

// Dynamics holds the optional damping and friction of a joint.
type Dynamics struct {
	Damping  float64
	Friction float64
}

// Inertia is the symmetric 3x3 rotational inertia tensor, stored as its six distinct components.
type Inertia struct {
	IXX, IXY, IXZ float64
	IYY, IYZ      float64
	IZZ           float64
}

// Matrix returns the full tensor.
func (in Inertia) Matrix() *mat.SymDense {
	return mat.NewSymDense(3, []float64{
		in.IXX, in.IXY, in.IXZ,
		in.IXY, in.IYY, in.IYZ,
		in.IXZ, in.IYZ, in.IZZ,
	})
}

// Inertial is the mass properties block of a link.
type Inertial struct {
	Origin  Origin
	Mass    float64
	Inertia Inertia
}

// GeometryType enumerates the shapes a visual or collision element can have.
type GeometryType string

// Known geometry types.
const (
	BoxGeometry      GeometryType = "box"
	CylinderGeometry GeometryType = "cylinder"
	SphereGeometry   GeometryType = "sphere"
	MeshGeometry     GeometryType = "mesh"
)

// Geometry describes a shape. Which fields are meaningful depends on Type:
// box uses Size, cylinder uses Radius and Length, sphere uses Radius and mesh uses Filename and Scale.
// Mesh files are referenced by path only and are never opened.
type Geometry struct {
	Type     GeometryType
	Size     r3.Vector
	Radius   float64
	Length   float64
	Filename string
	Scale    *r3.Vector
}

// Color is an rgba color with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// Material is a named color and/or texture. A material with neither is a reference to a material declared elsewhere.
type Material struct {
	Name    string
	Color   *Color
	Texture string
}

// IsReference reports whether the material only names another declaration.
func (m *Material) IsReference() bool {
	return m.Color == nil && m.Texture == ""
}

// Visual is the visual appearance of a link.
type Visual struct {
	Name     string
	Origin   Origin
	Geometry Geometry
	Material *Material
}

// Collision is the collision geometry of a link.
type Collision struct {
	Name     string
	Origin   Origin
	Geometry Geometry
}

// LinkHandle indexes a link inside the Tree that owns it.
type LinkHandle int

// Link is a rigid body. A link without an inertial block is massless.
type Link struct {
	Name       string
	Visuals    []Visual
	Collisions []Collision
	Inertial   *Inertial

	handle LinkHandle
}

// Handle returns the link's index in its tree. It is only meaningful for links returned by a Tree.
func (l *Link) Handle() LinkHandle {
	return l.handle
}

// Mass returns the mass of the link, zero when no inertial block is declared.
func (l *Link) Mass() float64 {
	if l.Inertial == nil {
		return 0
	}
	return l.Inertial.Mass
}

// Joint connects a parent link to a child link.
type Joint struct {
	Name     string
	Type     JointType
	Parent   string
	Child    string
	Origin   Origin
	Axis     *r3.Vector
	Limit    *Limit
	Dynamics *Dynamics

	parent LinkHandle
	child  LinkHandle
}

// ParentHandle returns the handle of the parent link. It is only meaningful for joints returned by a Tree.
func (j *Joint) ParentHandle() LinkHandle {
	return j.parent
}

// ChildHandle returns the handle of the child link. It is only meaningful for joints returned by a Tree.
func (j *Joint) ChildHandle() LinkHandle {
	return j.child
}

// AxisOrDefault returns the declared axis, or DefaultAxis when none was declared.
func (j *Joint) AxisOrDefault() r3.Vector {
	if j.Axis == nil {
		return DefaultAxis
	}
	return *j.Axis
}

// Bounds returns the range of values the joint accepts. Continuous joints are unbounded and fixed joints only accept zero.
func (j *Joint) Bounds() Limit {
	switch {
	case j.Type == ContinuousJoint:
		lim := Limit{Lower: math.Inf(-1), Upper: math.Inf(1)}
		if j.Limit != nil {
			lim.Effort, lim.Velocity = j.Limit.Effort, j.Limit.Velocity
		}
		return lim
	case j.Limit != nil && j.Type.Bounded():
		return *j.Limit
	default:
		return Limit{}
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func (g Geometry) clone() Geometry {
	g.Scale = clonePtr(g.Scale)
	return g
}

func (m Material) clone() Material {
	m.Color = clonePtr(m.Color)
	return m
}

// clone returns a copy of the link that shares no memory with l.
func (l Link) clone() Link {
	out := l
	out.Inertial = clonePtr(l.Inertial)
	if l.Visuals != nil {
		out.Visuals = make([]Visual, 0, len(l.Visuals))
	}
	for _, v := range l.Visuals {
		v.Geometry = v.Geometry.clone()
		if v.Material != nil {
			m := v.Material.clone()
			v.Material = &m
		}
		out.Visuals = append(out.Visuals, v)
	}
	if l.Collisions != nil {
		out.Collisions = make([]Collision, 0, len(l.Collisions))
	}
	for _, c := range l.Collisions {
		c.Geometry = c.Geometry.clone()
		out.Collisions = append(out.Collisions, c)
	}
	return out
}

// clone returns a copy of the joint that shares no memory with j.
func (j Joint) clone() Joint {
	j.Axis = clonePtr(j.Axis)
	j.Limit = clonePtr(j.Limit)
	j.Dynamics = clonePtr(j.Dynamics)
	return j
}
