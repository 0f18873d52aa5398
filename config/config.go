// Package config holds the settings of the urdf command line tool.
package config

import (
	"io"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/bestman-robotics/robot-description/logging"
	"github.com/bestman-robotics/robot-description/referenceframe"
)

// Config holds all tool settings.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Lint    LintConfig    `yaml:"lint"`
	// Packages maps a package name used in package:// mesh URIs to a directory. Relative
	// directories are resolved against the directory of the configuration file.
	Packages map[string]string `yaml:"packages,omitempty"`

	// dir is the directory of the file the config was read from, empty for defaults.
	dir string
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level    string                        `yaml:"level"`
	File     *FileConfig                   `yaml:"file,omitempty"`
	Patterns []logging.LoggerPatternConfig `yaml:"patterns,omitempty"`
}

// FileConfig describes an optional rotated log file.
type FileConfig struct {
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// LintConfig selects the optional lint findings.
type LintConfig struct {
	PlaceholderInertia bool `yaml:"placeholder_inertia"`
	MasslessLeaf       bool `yaml:"massless_leaf"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	lint := referenceframe.DefaultLintOptions()
	return &Config{
		Logging: LoggingConfig{
			Level: "info",
		},
		Lint: LintConfig{
			PlaceholderInertia: lint.PlaceholderInertia,
			MasslessLeaf:       lint.MasslessLeaf,
		},
		Packages: map[string]string{},
	}
}

// Validate returns every problem found in the config combined into one error.
func (c *Config) Validate() error {
	var errs error
	if _, err := logging.LevelFromString(c.Logging.Level); err != nil {
		errs = multierr.Append(errs, errors.Wrap(err, "logging.level"))
	}
	for i, p := range c.Logging.Patterns {
		if !logging.ValidatePattern(p.Pattern) {
			errs = multierr.Append(errs, errors.Errorf("logging.patterns[%d]: invalid pattern %q", i, p.Pattern))
		}
		if _, err := logging.LevelFromString(p.Level); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "logging.patterns[%d]", i))
		}
	}
	if f := c.Logging.File; f != nil {
		if f.Path == "" {
			errs = multierr.Append(errs, errors.New("logging.file.path is required"))
		}
		if f.MaxSizeMB < 0 || f.MaxBackups < 0 || f.MaxAgeDays < 0 {
			errs = multierr.Append(errs, errors.New("logging.file rotation settings must not be negative"))
		}
	}
	for name, dir := range c.Packages {
		if name == "" {
			errs = multierr.Append(errs, errors.New("packages: empty package name"))
			continue
		}
		if dir == "" {
			errs = multierr.Append(errs, errors.Errorf("packages.%s: empty path", name))
		}
	}
	return errs
}

// LintOptions returns the lint checks enabled by the config.
func (c *Config) LintOptions() referenceframe.LintOptions {
	return referenceframe.LintOptions{
		PlaceholderInertia: c.Lint.PlaceholderInertia,
		MasslessLeaf:       c.Lint.MasslessLeaf,
	}
}

// PackagePaths returns the package map with relative directories made relative to the
// configuration file.
func (c *Config) PackagePaths() map[string]string {
	paths := make(map[string]string, len(c.Packages))
	for name, dir := range c.Packages {
		if !filepath.IsAbs(dir) && c.dir != "" {
			dir = filepath.Join(c.dir, dir)
		}
		paths[name] = dir
	}
	return paths
}

// NewLogger builds the tool logger described by the config, writing to console when it is non-nil.
// The returned close function releases the log file, if any.
func (c *Config) NewLogger(name string, console io.Writer) (logging.Logger, func() error, error) {
	level, err := logging.LevelFromString(c.Logging.Level)
	if err != nil {
		return nil, nil, err
	}
	logger := logging.NewBlankLogger(name)
	logger.SetLevel(level)
	if console != nil {
		logger.AddAppender(logging.NewWriterAppender(console))
	}

	closeFn := func() error { return logger.Sync() }
	if f := c.Logging.File; f != nil {
		appender := logging.NewFileAppender(logging.FileAppenderConfig{
			Path:       f.Path,
			MaxSizeMB:  f.MaxSizeMB,
			MaxBackups: f.MaxBackups,
			MaxAgeDays: f.MaxAgeDays,
			Compress:   f.Compress,
		})
		logger.AddAppender(appender)
		closeFn = func() error {
			return multierr.Combine(logger.Sync(), appender.Close())
		}
	}
	if err := logging.UpdateLoggerConfig(c.Logging.Patterns, logger); err != nil {
		return nil, nil, multierr.Combine(err, closeFn())
	}
	return logger, closeFn, nil
}
