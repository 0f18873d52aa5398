// Package agilex carries the kinematic description of an AgileX Ranger Mini 3 mobile base with its
// small auxiliary arm, lidar, camera, display and basket.
package agilex

import (
	_ "embed" // for embedding model file

	"github.com/bestman-robotics/robot-description/referenceframe"
	"github.com/bestman-robotics/robot-description/referenceframe/urdf"
)

// ModelName is the robot name declared in the embedded description.
const ModelName = "ranger_mini3"

// Frames of interest on the base.
const (
	BaseLink = "base_link"
	// ArmMountLink is where a manipulator is attached, on top of the chassis.
	ArmMountLink       = "arm_mount_link"
	LidarLink          = "lidar_link"
	CameraLink         = "camera_link"
	CameraOpticalFrame = "camera_optical_frame"
	DisplayLink        = "display_link"
	BasketLink         = "basket_link"
	SmallArmEndLink    = "small_arm_ee_link"
)

// Joint groups, each in declaration order.
var (
	SteeringJoints = []string{"fl_steering_joint", "fr_steering_joint", "rl_steering_joint", "rr_steering_joint"}
	WheelJoints    = []string{"fl_wheel_joint", "fr_wheel_joint", "rl_wheel_joint", "rr_wheel_joint"}
	SmallArmJoints = []string{"small_arm_joint1", "small_arm_joint2", "small_arm_joint3"}
)

//go:embed ranger_mini3.urdf
var rangerMini3URDF []byte

// URDF returns a copy of the embedded document.
func URDF() []byte {
	return append([]byte(nil), rangerMini3URDF...)
}

// MakeModel returns the kinematic tree of the base. An empty name keeps the name declared in the document.
func MakeModel(name string) (*referenceframe.Tree, error) {
	return urdf.UnmarshalModelXML(rangerMini3URDF, name)
}
