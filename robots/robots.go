// Package robots looks up the robot descriptions embedded in this repository by name.
package robots

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/bestman-robotics/robot-description/referenceframe"
	"github.com/bestman-robotics/robot-description/robots/agilex"
	"github.com/bestman-robotics/robot-description/robots/universalrobots"
)

// MobileManipulatorName names the Ranger Mini 3 base carrying the UR5e vacuum arm.
const MobileManipulatorName = "ranger_ur5e"

// ArmPrefix is prepended to every link and joint of the arm when it is mounted on the base,
// since both descriptions name their root base_link.
const ArmPrefix = "arm_"

// ErrUnknownRobot is returned for names that are not registered.
var ErrUnknownRobot = errors.New("unknown robot")

// Constructor builds a description. An empty name keeps the default.
type Constructor func(name string) (*referenceframe.Tree, error)

var registry = map[string]Constructor{
	universalrobots.ModelName: universalrobots.MakeModel,
	agilex.ModelName:          agilex.MakeModel,
	MobileManipulatorName:     MakeMobileManipulator,
}

// Names returns the registered robot names in sorted order.
func Names() []string {
	names := lo.Keys(registry)
	sort.Strings(names)
	return names
}

// Load builds the named robot.
func Load(name string) (*referenceframe.Tree, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownRobot, "%q (known: %v)", name, Names())
	}
	return ctor("")
}

// MakeMobileManipulator mounts the UR5e vacuum arm on the arm mount of the Ranger Mini 3 through a
// fixed joint. Arm links and joints are renamed with ArmPrefix.
func MakeMobileManipulator(name string) (*referenceframe.Tree, error) {
	if name == "" {
		name = MobileManipulatorName
	}
	base, err := agilex.MakeModel("")
	if err != nil {
		return nil, err
	}
	arm, err := universalrobots.MakeModel("")
	if err != nil {
		return nil, err
	}
	return referenceframe.Mount(name, base, agilex.ArmMountLink, arm, referenceframe.MountOptions{
		JointName: "arm_mount_to_arm",
		Prefix:    ArmPrefix,
	})
}
