// Package urdf reads and writes Unified Robot Description Format documents as referenceframe trees.
package urdf

import (
	"bytes"
	"encoding/xml"
	"os"

	"github.com/pkg/errors"

	"github.com/bestman-robotics/robot-description/referenceframe"
)

// Extension is the file extension associated with URDF files.
const Extension string = "urdf"

// ModelConfig represents all supported fields in a Universal Robot Description Format (URDF) file.
// Elements the loader does not understand (transmissions, gazebo blocks) are dropped.
type ModelConfig struct {
	XMLName   xml.Name   `xml:"robot"`
	Name      string     `xml:"name,attr"`
	Materials []material `xml:"material"`
	Links     []link     `xml:"link"`
	Joints    []joint    `xml:"joint"`
}

// link is a struct which details the XML used in a URDF link element.
type link struct {
	Name       string      `xml:"name,attr"`
	Inertial   *inertial   `xml:"inertial"`
	Visuals    []visual    `xml:"visual"`
	Collisions []collision `xml:"collision"`
}

// joint is a struct which details the XML used in a URDF joint element.
type joint struct {
	Name     string    `xml:"name,attr"`
	Type     string    `xml:"type,attr"`
	Origin   *pose     `xml:"origin"`
	Parent   frame     `xml:"parent"`
	Child    frame     `xml:"child"`
	Axis     *axis     `xml:"axis"`
	Limit    *limit    `xml:"limit"`
	Dynamics *dynamics `xml:"dynamics"`
}

// UnmarshalModelXML parses URDF XML data into a validated kinematic tree. If modelName is empty the
// robot name from the document is used.
func UnmarshalModelXML(xmlData []byte, modelName string) (*referenceframe.Tree, error) {
	mc, err := UnmarshalModelConfig(xmlData)
	if err != nil {
		return nil, err
	}
	return mc.ParseConfig(modelName)
}

// UnmarshalModelConfig decodes URDF XML data without converting or validating it.
func UnmarshalModelConfig(xmlData []byte) (*ModelConfig, error) {
	// empty data probably means that the read URDF has no actionable information
	if len(bytes.TrimSpace(xmlData)) == 0 {
		return nil, referenceframe.NewMalformedDocumentError(nil, "empty URDF document")
	}
	mc := &ModelConfig{}
	if err := xml.Unmarshal(xmlData, mc); err != nil {
		return nil, referenceframe.NewMalformedDocumentError(err, "failed to convert URDF data to equivalent ModelConfig struct")
	}
	return mc, nil
}

// ParseModelXMLFile will read a given file and parse the contained URDF XML data into an equivalent tree.
func ParseModelXMLFile(filename, modelName string) (*referenceframe.Tree, error) {
	//nolint:gosec
	xmlData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read URDF file")
	}
	tree, err := UnmarshalModelXML(xmlData, modelName)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", filename)
	}
	return tree, nil
}

// ParseConfig converts the decoded document into referenceframe types and validates the result.
func (mc *ModelConfig) ParseConfig(modelName string) (*referenceframe.Tree, error) {
	if modelName == "" {
		modelName = mc.Name
	}

	materials := make([]referenceframe.Material, 0, len(mc.Materials))
	for _, m := range mc.Materials {
		parsed, err := m.parse()
		if err != nil {
			return nil, referenceframe.NewMalformedDocumentError(err, "material "+quoted(m.Name))
		}
		materials = append(materials, *parsed)
	}

	links := make([]referenceframe.Link, 0, len(mc.Links))
	for _, l := range mc.Links {
		parsed, err := l.parse()
		if err != nil {
			return nil, referenceframe.NewMalformedDocumentError(err, "link "+quoted(l.Name))
		}
		links = append(links, *parsed)
	}

	joints := make([]referenceframe.Joint, 0, len(mc.Joints))
	for _, j := range mc.Joints {
		parsed, err := j.parse()
		if err != nil {
			return nil, referenceframe.NewMalformedDocumentError(err, "joint "+quoted(j.Name))
		}
		joints = append(joints, *parsed)
	}

	return referenceframe.NewTree(modelName, links, joints, materials)
}

func (l *link) parse() (*referenceframe.Link, error) {
	out := &referenceframe.Link{Name: l.Name}
	if l.Inertial != nil {
		in, err := l.Inertial.parse()
		if err != nil {
			return nil, errors.Wrap(err, "inertial")
		}
		out.Inertial = in
	}
	for i := range l.Visuals {
		v, err := l.Visuals[i].parse()
		if err != nil {
			return nil, errors.Wrapf(err, "visual %d", i)
		}
		out.Visuals = append(out.Visuals, *v)
	}
	for i := range l.Collisions {
		c, err := l.Collisions[i].parse()
		if err != nil {
			return nil, errors.Wrapf(err, "collision %d", i)
		}
		out.Collisions = append(out.Collisions, *c)
	}
	return out, nil
}

func (j *joint) parse() (*referenceframe.Joint, error) {
	out := &referenceframe.Joint{
		Name:   j.Name,
		Type:   referenceframe.JointType(j.Type),
		Parent: j.Parent.Link,
		Child:  j.Child.Link,
	}
	if j.Type == "" {
		return nil, errors.New("missing type attribute")
	}
	origin, err := j.Origin.parse()
	if err != nil {
		return nil, err
	}
	out.Origin = origin
	if j.Axis != nil {
		a, err := j.Axis.parse()
		if err != nil {
			return nil, err
		}
		out.Axis = &a
	}
	if j.Limit != nil {
		lim, err := j.Limit.parse()
		if err != nil {
			return nil, err
		}
		out.Limit = lim
	}
	if j.Dynamics != nil {
		dyn, err := j.Dynamics.parse()
		if err != nil {
			return nil, err
		}
		out.Dynamics = dyn
	}
	return out, nil
}

// NewModelConfig converts a tree back into its URDF representation.
func NewModelConfig(tree *referenceframe.Tree) *ModelConfig {
	mc := &ModelConfig{Name: tree.Name()}
	for _, m := range tree.Materials() {
		mc.Materials = append(mc.Materials, *newMaterial(m))
	}
	for _, l := range tree.Links() {
		out := link{Name: l.Name}
		if l.Inertial != nil {
			out.Inertial = newInertial(l.Inertial)
		}
		for i := range l.Visuals {
			out.Visuals = append(out.Visuals, newVisual(&l.Visuals[i]))
		}
		for i := range l.Collisions {
			out.Collisions = append(out.Collisions, newCollision(&l.Collisions[i]))
		}
		mc.Links = append(mc.Links, out)
	}
	for _, j := range tree.Joints() {
		out := joint{
			Name:   j.Name,
			Type:   string(j.Type),
			Origin: newPose(j.Origin),
			Parent: frame{Link: j.Parent},
			Child:  frame{Link: j.Child},
		}
		if j.Axis != nil {
			out.Axis = newAxis(*j.Axis)
		}
		if j.Limit != nil {
			out.Limit = newLimit(j.Limit)
		}
		if j.Dynamics != nil {
			out.Dynamics = newDynamics(j.Dynamics)
		}
		mc.Joints = append(mc.Joints, out)
	}
	return mc
}

// MarshalModelXML serializes a tree as an indented URDF document. Numbers are written in their shortest
// exact form, so unmarshaling the output reproduces every value bit for bit.
func MarshalModelXML(tree *referenceframe.Tree) ([]byte, error) {
	out, err := xml.MarshalIndent(NewModelConfig(tree), "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal URDF")
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}

// WriteModelXMLFile writes the serialized tree to filename.
func WriteModelXMLFile(tree *referenceframe.Tree, filename string) error {
	data, err := MarshalModelXML(tree)
	if err != nil {
		return err
	}
	//nolint:gosec
	return errors.Wrapf(os.WriteFile(filename, data, 0o644), "writing %s", filename)
}
