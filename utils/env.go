package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
)

const (
	// ConfigEnvVar names a configuration file to use when no --config flag is given.
	ConfigEnvVar = "URDF_CONFIG"

	// PackagePathEnvVar lists directories searched for package:// roots, separated by the OS list
	// separator. It follows the ROS convention.
	PackagePathEnvVar = "ROS_PACKAGE_PATH"

	// NoColorEnvVar disables colored terminal output when set to any value.
	NoColorEnvVar = "NO_COLOR"

	// packageManifest marks a directory as a package root.
	packageManifest = "package.xml"
)

// EnvTrueValues contains strings that we interpret as boolean true in env vars.
var EnvTrueValues = []string{"true", "yes", "1", "TRUE", "YES"}

// EnvIsTrue reports whether the environment variable holds one of EnvTrueValues.
func EnvIsTrue(name string) bool {
	return slices.Contains(EnvTrueValues, os.Getenv(name))
}

// PlatformHomeDir wraps Getenv("HOME"), except on windows, where it asks the OS.
func PlatformHomeDir() string {
	if runtime.GOOS == "windows" {
		homedir, _ := os.UserHomeDir() //nolint:errcheck
		if homedir != "" {
			return homedir
		}
	}
	return os.Getenv("HOME")
}

// PackagePathsFromEnv maps package names to directories by scanning every entry of
// ROS_PACKAGE_PATH. An entry that is itself a package root contributes its own name; otherwise its
// immediate subdirectories holding a package.xml do. Earlier entries win.
func PackagePathsFromEnv() map[string]string {
	packages := map[string]string{}
	for _, dir := range filepath.SplitList(os.Getenv(PackagePathEnvVar)) {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			continue
		}
		addPackage := func(root string) {
			name := filepath.Base(root)
			if _, ok := packages[name]; !ok {
				packages[name] = root
			}
		}
		if FileExists(filepath.Join(dir, packageManifest)) {
			addPackage(dir)
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() && FileExists(filepath.Join(dir, entry.Name(), packageManifest)) {
				addPackage(filepath.Join(dir, entry.Name()))
			}
		}
	}
	return packages
}
