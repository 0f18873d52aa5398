package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/bestman-robotics/robot-description/utils"
)

// FileName is the name looked up in the working directory and the user config directory.
const FileName = "urdf.yaml"

// Overrides are command line settings that take priority over the file.
type Overrides struct {
	Debug bool
}

// Load loads configuration with priority: defaults < ROS_PACKAGE_PATH < file < overrides. An empty
// path falls back to URDF_CONFIG and then to the standard locations; finding no file is not an error.
func Load(path string, overrides Overrides) (*Config, error) {
	cfg := Default()
	for name, dir := range utils.PackagePathsFromEnv() {
		cfg.Packages[name] = dir
	}

	if path == "" {
		path = os.Getenv(utils.ConfigEnvVar)
	}
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, errors.Wrapf(err, "loading config from %s", path)
		}
	}

	if overrides.Debug {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		FileName,
		filepath.Join(Dir(), FileName),
	}
	for _, path := range candidates {
		if utils.FileExists(path) {
			return path
		}
	}
	return ""
}

// Dir returns the OS-appropriate config directory.
func Dir() string {
	home := utils.PlatformHomeDir()
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "urdf")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "urdf")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "urdf")
		}
		return filepath.Join(home, ".config", "urdf")
	}
}

// loadFromFile merges the YAML file into cfg. Keys absent from the file keep their current value.
func loadFromFile(cfg *Config, path string) error {
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	cfg.dir = filepath.Dir(abs)
	return nil
}

// Save writes the config as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
