// Package universalrobots carries the kinematic description of a UR5e arm fitted with a vacuum gripper.
package universalrobots

import (
	_ "embed" // for embedding model file

	"github.com/bestman-robotics/robot-description/referenceframe"
	"github.com/bestman-robotics/robot-description/referenceframe/urdf"
)

// ModelName is the robot name declared in the embedded description.
const ModelName = "ur5e_vacuum"

// Frames of interest on the arm.
const (
	BaseLink = "base_link"
	Flange   = "flange"
	Tool0    = "tool0"
	// TCP is the tool center point at the face of the suction cup.
	TCP = "vacuum_tcp"
)

// ArmJoints lists the six revolute joints from base to wrist.
var ArmJoints = []string{
	"shoulder_pan_joint",
	"shoulder_lift_joint",
	"elbow_joint",
	"wrist_1_joint",
	"wrist_2_joint",
	"wrist_3_joint",
}

//go:embed ur5e_vacuum.urdf
var ur5eVacuumURDF []byte

// URDF returns a copy of the embedded document.
func URDF() []byte {
	return append([]byte(nil), ur5eVacuumURDF...)
}

// MakeModel returns the kinematic tree of the arm. An empty name keeps the name declared in the document.
func MakeModel(name string) (*referenceframe.Tree, error) {
	return urdf.UnmarshalModelXML(ur5eVacuumURDF, name)
}
