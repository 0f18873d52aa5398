package urdf

import (
	"strconv"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/bestman-robotics/robot-description/referenceframe"
	"github.com/bestman-robotics/robot-description/spatialmath"
	"github.com/bestman-robotics/robot-description/utils"
)

// pose is a struct which details the XML used in a URDF origin element.
type pose struct {
	XYZ string `xml:"xyz,attr,omitempty"`
	RPY string `xml:"rpy,attr,omitempty"`
}

type frame struct {
	Link string `xml:"link,attr"`
}

type axis struct {
	XYZ string `xml:"xyz,attr"`
}

type limit struct {
	Lower    string `xml:"lower,attr,omitempty"`
	Upper    string `xml:"upper,attr,omitempty"`
	Effort   string `xml:"effort,attr,omitempty"`
	Velocity string `xml:"velocity,attr,omitempty"`
}

type dynamics struct {
	Damping  string `xml:"damping,attr,omitempty"`
	Friction string `xml:"friction,attr,omitempty"`
}

type inertial struct {
	Origin  *pose   `xml:"origin"`
	Mass    mass    `xml:"mass"`
	Inertia inertia `xml:"inertia"`
}

type mass struct {
	Value string `xml:"value,attr"`
}

type inertia struct {
	IXX string `xml:"ixx,attr"`
	IXY string `xml:"ixy,attr"`
	IXZ string `xml:"ixz,attr"`
	IYY string `xml:"iyy,attr"`
	IYZ string `xml:"iyz,attr"`
	IZZ string `xml:"izz,attr"`
}

type visual struct {
	Name     string    `xml:"name,attr,omitempty"`
	Origin   *pose     `xml:"origin"`
	Geometry geometry  `xml:"geometry"`
	Material *material `xml:"material"`
}

type collision struct {
	Name     string   `xml:"name,attr,omitempty"`
	Origin   *pose    `xml:"origin"`
	Geometry geometry `xml:"geometry"`
}

// geometry is a struct which details the XML used in a URDF geometry element. Exactly one shape must be set.
type geometry struct {
	Box *struct {
		Size string `xml:"size,attr"`
	} `xml:"box,omitempty"`
	Cylinder *struct {
		Radius string `xml:"radius,attr"`
		Length string `xml:"length,attr"`
	} `xml:"cylinder,omitempty"`
	Sphere *struct {
		Radius string `xml:"radius,attr"`
	} `xml:"sphere,omitempty"`
	Mesh *struct {
		Filename string `xml:"filename,attr"`
		Scale    string `xml:"scale,attr,omitempty"`
	} `xml:"mesh,omitempty"`
}

type material struct {
	Name    string `xml:"name,attr,omitempty"`
	Color   *color `xml:"color"`
	Texture *struct {
		Filename string `xml:"filename,attr"`
	} `xml:"texture"`
}

type color struct {
	RGBA string `xml:"rgba,attr"`
}

// parseScalar reads an optional numeric attribute. Absent attributes read as zero.
func parseScalar(name, s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Errorf("attribute %s: invalid number %q", name, s)
	}
	return v, nil
}

// requireScalar reads a numeric attribute that must be present.
func requireScalar(name, s string) (float64, error) {
	if s == "" {
		return 0, errors.Errorf("missing attribute %s", name)
	}
	return parseScalar(name, s)
}

func parseVector(name, s string) (r3.Vector, error) {
	values, err := utils.ParseFloatList(s, 3)
	if err != nil {
		return r3.Vector{}, errors.Wrapf(err, "attribute %s", name)
	}
	return r3.Vector{X: values[0], Y: values[1], Z: values[2]}, nil
}

func formatVector(v r3.Vector) string {
	return utils.FormatFloatList(v.X, v.Y, v.Z)
}

func (p *pose) parse() (referenceframe.Origin, error) {
	var o referenceframe.Origin
	if p == nil {
		return o, nil
	}
	if p.XYZ != "" {
		xyz, err := parseVector("xyz", p.XYZ)
		if err != nil {
			return o, err
		}
		o.XYZ = xyz
	}
	if p.RPY != "" {
		rpy, err := parseVector("rpy", p.RPY)
		if err != nil {
			return o, err
		}
		o.RPY = spatialmath.EulerAngles{Roll: rpy.X, Pitch: rpy.Y, Yaw: rpy.Z}
	}
	return o, nil
}

func newPose(o referenceframe.Origin) *pose {
	return &pose{
		XYZ: formatVector(o.XYZ),
		RPY: utils.FormatFloatList(o.RPY.Roll, o.RPY.Pitch, o.RPY.Yaw),
	}
}

// newOptionalPose omits identity origins, which URDF treats as the default.
func newOptionalPose(o referenceframe.Origin) *pose {
	if o.IsZero() {
		return nil
	}
	return newPose(o)
}

func (a *axis) parse() (r3.Vector, error) {
	return parseVector("axis xyz", a.XYZ)
}

func newAxis(v r3.Vector) *axis {
	return &axis{XYZ: formatVector(v)}
}

func (l *limit) parse() (*referenceframe.Limit, error) {
	var (
		out referenceframe.Limit
		err error
	)
	if out.Lower, err = parseScalar("lower", l.Lower); err != nil {
		return nil, err
	}
	if out.Upper, err = parseScalar("upper", l.Upper); err != nil {
		return nil, err
	}
	if out.Effort, err = parseScalar("effort", l.Effort); err != nil {
		return nil, err
	}
	if out.Velocity, err = parseScalar("velocity", l.Velocity); err != nil {
		return nil, err
	}
	return &out, nil
}

func newLimit(l *referenceframe.Limit) *limit {
	return &limit{
		Lower:    utils.FormatFloat(l.Lower),
		Upper:    utils.FormatFloat(l.Upper),
		Effort:   utils.FormatFloat(l.Effort),
		Velocity: utils.FormatFloat(l.Velocity),
	}
}

func (d *dynamics) parse() (*referenceframe.Dynamics, error) {
	var (
		out referenceframe.Dynamics
		err error
	)
	if out.Damping, err = parseScalar("damping", d.Damping); err != nil {
		return nil, err
	}
	if out.Friction, err = parseScalar("friction", d.Friction); err != nil {
		return nil, err
	}
	return &out, nil
}

func newDynamics(d *referenceframe.Dynamics) *dynamics {
	return &dynamics{Damping: utils.FormatFloat(d.Damping), Friction: utils.FormatFloat(d.Friction)}
}

func (in *inertial) parse() (*referenceframe.Inertial, error) {
	origin, err := in.Origin.parse()
	if err != nil {
		return nil, err
	}
	out := &referenceframe.Inertial{Origin: origin}
	if out.Mass, err = requireScalar("mass value", in.Mass.Value); err != nil {
		return nil, err
	}
	components := []struct {
		name string
		raw  string
		dst  *float64
	}{
		{"ixx", in.Inertia.IXX, &out.Inertia.IXX},
		{"ixy", in.Inertia.IXY, &out.Inertia.IXY},
		{"ixz", in.Inertia.IXZ, &out.Inertia.IXZ},
		{"iyy", in.Inertia.IYY, &out.Inertia.IYY},
		{"iyz", in.Inertia.IYZ, &out.Inertia.IYZ},
		{"izz", in.Inertia.IZZ, &out.Inertia.IZZ},
	}
	for _, c := range components {
		if *c.dst, err = parseScalar(c.name, c.raw); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func newInertial(in *referenceframe.Inertial) *inertial {
	return &inertial{
		Origin: newOptionalPose(in.Origin),
		Mass:   mass{Value: utils.FormatFloat(in.Mass)},
		Inertia: inertia{
			IXX: utils.FormatFloat(in.Inertia.IXX),
			IXY: utils.FormatFloat(in.Inertia.IXY),
			IXZ: utils.FormatFloat(in.Inertia.IXZ),
			IYY: utils.FormatFloat(in.Inertia.IYY),
			IYZ: utils.FormatFloat(in.Inertia.IYZ),
			IZZ: utils.FormatFloat(in.Inertia.IZZ),
		},
	}
}

func (v *visual) parse() (*referenceframe.Visual, error) {
	origin, err := v.Origin.parse()
	if err != nil {
		return nil, err
	}
	geom, err := v.Geometry.parse()
	if err != nil {
		return nil, err
	}
	out := &referenceframe.Visual{Name: v.Name, Origin: origin, Geometry: *geom}
	if v.Material != nil {
		if out.Material, err = v.Material.parse(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func newVisual(v *referenceframe.Visual) visual {
	out := visual{Name: v.Name, Origin: newOptionalPose(v.Origin), Geometry: newGeometry(&v.Geometry)}
	if v.Material != nil {
		out.Material = newMaterial(v.Material)
	}
	return out
}

func (c *collision) parse() (*referenceframe.Collision, error) {
	origin, err := c.Origin.parse()
	if err != nil {
		return nil, err
	}
	geom, err := c.Geometry.parse()
	if err != nil {
		return nil, err
	}
	return &referenceframe.Collision{Name: c.Name, Origin: origin, Geometry: *geom}, nil
}

func newCollision(c *referenceframe.Collision) collision {
	return collision{Name: c.Name, Origin: newOptionalPose(c.Origin), Geometry: newGeometry(&c.Geometry)}
}

func (g *geometry) parse() (*referenceframe.Geometry, error) {
	set := 0
	for _, present := range []bool{g.Box != nil, g.Cylinder != nil, g.Sphere != nil, g.Mesh != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return nil, errors.Errorf("geometry must contain exactly one shape, found %d", set)
	}

	var (
		out referenceframe.Geometry
		err error
	)
	switch {
	case g.Box != nil:
		out.Type = referenceframe.BoxGeometry
		if out.Size, err = parseVector("box size", g.Box.Size); err != nil {
			return nil, err
		}
	case g.Cylinder != nil:
		out.Type = referenceframe.CylinderGeometry
		if out.Radius, err = requireScalar("cylinder radius", g.Cylinder.Radius); err != nil {
			return nil, err
		}
		if out.Length, err = requireScalar("cylinder length", g.Cylinder.Length); err != nil {
			return nil, err
		}
	case g.Sphere != nil:
		out.Type = referenceframe.SphereGeometry
		if out.Radius, err = requireScalar("sphere radius", g.Sphere.Radius); err != nil {
			return nil, err
		}
	default:
		out.Type = referenceframe.MeshGeometry
		if g.Mesh.Filename == "" {
			return nil, errors.New("mesh is missing a filename")
		}
		out.Filename = g.Mesh.Filename
		if g.Mesh.Scale != "" {
			scale, err := parseVector("mesh scale", g.Mesh.Scale)
			if err != nil {
				return nil, err
			}
			out.Scale = &scale
		}
	}
	return &out, nil
}

func newGeometry(g *referenceframe.Geometry) geometry {
	var out geometry
	switch g.Type {
	case referenceframe.BoxGeometry:
		out.Box = &struct {
			Size string `xml:"size,attr"`
		}{Size: formatVector(g.Size)}
	case referenceframe.CylinderGeometry:
		out.Cylinder = &struct {
			Radius string `xml:"radius,attr"`
			Length string `xml:"length,attr"`
		}{Radius: utils.FormatFloat(g.Radius), Length: utils.FormatFloat(g.Length)}
	case referenceframe.SphereGeometry:
		out.Sphere = &struct {
			Radius string `xml:"radius,attr"`
		}{Radius: utils.FormatFloat(g.Radius)}
	case referenceframe.MeshGeometry:
		out.Mesh = &struct {
			Filename string `xml:"filename,attr"`
			Scale    string `xml:"scale,attr,omitempty"`
		}{Filename: g.Filename}
		if g.Scale != nil {
			out.Mesh.Scale = formatVector(*g.Scale)
		}
	}
	return out
}

func (m *material) parse() (*referenceframe.Material, error) {
	out := &referenceframe.Material{Name: m.Name}
	if m.Color != nil {
		rgba, err := utils.ParseFloatList(m.Color.RGBA, 4)
		if err != nil {
			return nil, errors.Wrap(err, "color rgba")
		}
		out.Color = &referenceframe.Color{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]}
	}
	if m.Texture != nil {
		if m.Texture.Filename == "" {
			return nil, errors.New("texture is missing a filename")
		}
		out.Texture = m.Texture.Filename
	}
	return out, nil
}

func newMaterial(m *referenceframe.Material) *material {
	out := &material{Name: m.Name}
	if m.Color != nil {
		out.Color = &color{RGBA: utils.FormatFloatList(m.Color.R, m.Color.G, m.Color.B, m.Color.A)}
	}
	if m.Texture != "" {
		out.Texture = &struct {
			Filename string `xml:"filename,attr"`
		}{Filename: m.Texture}
	}
	return out
}

func quoted(name string) string {
	return strconv.Quote(name)
}
