package logging

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// LoggerPatternConfig sets the level for loggers whose names match Pattern.
type LoggerPatternConfig struct {
	Pattern string `yaml:"pattern"`
	Level   string `yaml:"level"`
}

const (
	// e.g. "foo".
	validLoggerSectionName = `[a-zA-Z0-9]+([_-]*[a-zA-Z0-9]+)*`
	// e.g. "foo" or "*".
	validLoggerSectionNameWithWildcard = `(` + validLoggerSectionName + `|\*)`
	// e.g. "foo.*.foo".
	validLoggerSectionsWithWildcard = validLoggerSectionNameWithWildcard + `(\.` + validLoggerSectionNameWithWildcard + `)*`
	// Restricts above regex to be the entire pattern.
	validLoggerName = `^` + validLoggerSectionsWithWildcard + `$`
)

var loggerPatternRegexp = regexp.MustCompile(validLoggerName)

// ValidatePattern reports whether pattern is a dotted logger name in which any section may be "*".
func ValidatePattern(pattern string) bool {
	return loggerPatternRegexp.MatchString(pattern)
}

func buildRegexFromPattern(pattern string) string {
	var matcher strings.Builder
	matcher.WriteRune('^')
	for _, ch := range pattern {
		switch ch {
		case '*':
			matcher.WriteString(`.*`)
		case '.':
			matcher.WriteString(`\.`)
		default:
			matcher.WriteRune(ch)
		}
	}
	matcher.WriteRune('$')
	return matcher.String()
}

type compiledPattern struct {
	matcher *regexp.Regexp
	level   Level
}

// Registry tracks named loggers so their levels can be changed by name or by pattern.
type Registry struct {
	mu       sync.RWMutex
	loggers  map[string]Logger
	patterns []compiledPattern
}

var globalLoggerRegistry = newRegistry()

func newRegistry() *Registry {
	return &Registry{
		loggers: make(map[string]Logger),
	}
}

// registerLogger stores the logger under name, replacing any previous one, and applies the
// configured patterns to it. Unnamed loggers are not tracked.
func (lr *Registry) registerLogger(name string, logger Logger) {
	if name == "" {
		return
	}
	lr.mu.Lock()
	defer lr.mu.Unlock()
	lr.loggers[name] = logger
	if level, ok := lr.matchLocked(name); ok {
		logger.SetLevel(level)
	}
}

func (lr *Registry) loggerNamed(name string) (logger Logger, ok bool) {
	lr.mu.RLock()
	defer lr.mu.RUnlock()
	logger, ok = lr.loggers[name]
	return
}

func (lr *Registry) updateLoggerLevel(name string, level Level) error {
	lr.mu.RLock()
	defer lr.mu.RUnlock()
	logger, ok := lr.loggers[name]
	if !ok {
		return errors.Errorf("logger named %s not recognized", name)
	}
	logger.SetLevel(level)
	return nil
}

// matchLocked returns the level of the last pattern matching name. The caller holds lr.mu.
func (lr *Registry) matchLocked(name string) (Level, bool) {
	var (
		level   Level
		matched bool
	)
	for _, p := range lr.patterns {
		if p.matcher.MatchString(name) {
			level, matched = p.level, true
		}
	}
	return level, matched
}

// UpdateConfig replaces the level patterns and applies them to every registered logger. Later patterns
// win over earlier ones. Loggers matching no pattern keep their level. Invalid patterns are reported
// to errorLogger and skipped; an unknown level fails the whole update.
func (lr *Registry) UpdateConfig(logConfig []LoggerPatternConfig, errorLogger Logger) error {
	compiled := make([]compiledPattern, 0, len(logConfig))
	for _, lpc := range logConfig {
		if !ValidatePattern(lpc.Pattern) {
			errorLogger.Warnw("failed to validate a pattern", "pattern", lpc.Pattern)
			continue
		}
		level, err := LevelFromString(lpc.Level)
		if err != nil {
			return errors.Wrapf(err, "pattern %q", lpc.Pattern)
		}
		r, err := regexp.Compile(buildRegexFromPattern(lpc.Pattern))
		if err != nil {
			return err
		}
		compiled = append(compiled, compiledPattern{r, level})
	}

	lr.mu.Lock()
	defer lr.mu.Unlock()
	lr.patterns = compiled
	for name, logger := range lr.loggers {
		if level, ok := lr.matchLocked(name); ok {
			logger.SetLevel(level)
		}
	}
	return nil
}

func (lr *Registry) getRegisteredLoggerNames() []string {
	lr.mu.RLock()
	defer lr.mu.RUnlock()
	registeredNames := make([]string, 0, len(lr.loggers))
	for name := range lr.loggers {
		registeredNames = append(registeredNames, name)
	}
	sort.Strings(registeredNames)
	return registeredNames
}

// Exported Functions specifically for use on the global registry.

// RegisterLogger registers a new logger with a given name.
func RegisterLogger(name string, logger Logger) {
	globalLoggerRegistry.registerLogger(name, logger)
}

// LoggerNamed returns logger with specified name if exists.
func LoggerNamed(name string) (logger Logger, ok bool) {
	return globalLoggerRegistry.loggerNamed(name)
}

// UpdateLoggerLevel assigns level to appropriate logger in the registry.
func UpdateLoggerLevel(name string, level Level) error {
	return globalLoggerRegistry.updateLoggerLevel(name, level)
}

// UpdateLoggerConfig applies level patterns to the global registry.
func UpdateLoggerConfig(logConfig []LoggerPatternConfig, errorLogger Logger) error {
	return globalLoggerRegistry.UpdateConfig(logConfig, errorLogger)
}

// GetRegisteredLoggerNames returns the names of all loggers in the registry, sorted.
func GetRegisteredLoggerNames() []string {
	return globalLoggerRegistry.getRegisteredLoggerNames()
}
