package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultEnvPrefix is the prefix for gradebook environment variables.
const DefaultEnvPrefix = "GRADEBOOK_"

// EnvLoader loads configuration from environment variables and, optionally,
// a .env file. Variables already present in the process environment win over
// values from the .env file.
type EnvLoader struct {
	prefix     string            // Environment variable prefix (e.g., "GRADEBOOK_")
	mapping    map[string]string // Env var -> config path
	dotEnvPath string
	environ    func() []string
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "GRADEBOOK_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
		environ: os.Environ,
	}
}

// WithDotEnv makes the loader also read variables from a .env file.
// A missing file is not an error.
func (l *EnvLoader) WithDotEnv(path string) *EnvLoader {
	l.dotEnvPath = path
	return l
}

// defaultEnvMapping returns the short-form environment variable mappings.
func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "LOG_LEVEL":         "logging.level",
		prefix + "LOG_FORMAT":        "logging.format",
		prefix + "RECENT_LIMIT":      "display.recentLimit",
		prefix + "PRECISION":         "display.precision",
		prefix + "INSTRUCTION_LIMIT": "script.instructionLimit",
		prefix + "SCRIPT_TIMEOUT":    "script.timeout",
		prefix + "WATCH":             "watch",
	}
}

// Load reads environment variables and returns a configuration map.
// Note: Empty string values are treated as valid values, not as unset.
func (l *EnvLoader) Load() (map[string]any, error) {
	vars, err := l.variables()
	if err != nil {
		return nil, err
	}

	config := make(map[string]any)
	for name, value := range vars {
		if !strings.HasPrefix(name, l.prefix) {
			continue
		}
		path, ok := l.mapping[name]
		if !ok {
			// Convert GRADEBOOK_DISPLAY_RECENT_LIMIT to display.recentLimit
			path = l.envToPath(name)
		}
		setByPath(config, path, parseValue(value))
	}

	return config, nil
}

// variables merges the .env file under the process environment.
func (l *EnvLoader) variables() (map[string]string, error) {
	vars := make(map[string]string)

	if l.dotEnvPath != "" {
		dot, err := godotenv.Read(l.dotEnvPath)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading env file %s: %w", l.dotEnvPath, err)
		}
		for k, v := range dot {
			vars[k] = v
		}
	}

	for _, env := range l.environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		vars[name] = value
	}

	return vars, nil
}

// envToPath converts GRADEBOOK_DISPLAY_RECENT_LIMIT to display.recentLimit.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.TrimPrefix(env, l.prefix)
	parts := strings.Split(name, "_")

	section := strings.ToLower(parts[0])
	if len(parts) == 1 {
		return section
	}

	setting := strings.ToLower(parts[1])
	for _, part := range parts[2:] {
		if len(part) > 0 {
			setting += strings.ToUpper(part[:1]) + strings.ToLower(part[1:])
		}
	}

	return section + "." + setting
}

// parseValue attempts to parse the string value into an appropriate type.
func parseValue(s string) any {
	if s == "" {
		return s
	}

	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}

	// Only if it contains a decimal point to avoid misinterpreting ints
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}

	if d, err := time.ParseDuration(s); err == nil {
		return d
	}

	return s
}
