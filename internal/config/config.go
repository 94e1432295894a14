package config

import (
	"fmt"
	"time"

	"github.com/dshills/gradebook/internal/config/loader"
)

// Default configuration values.
const (
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "console"
	DefaultRecentLimit      = 10
	DefaultPrecision        = 2
	DefaultInstructionLimit = 1_000_000
	DefaultScriptTimeout    = 5 * time.Second

	maxPrecision = 6
)

// LoggingConfig controls diagnostic logging.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string

	// Format is "console" or "json".
	Format string
}

// DisplayConfig controls how results are rendered.
type DisplayConfig struct {
	// RecentLimit is the default number of log entries shown.
	RecentLimit int

	// Precision is the number of decimals used for averages.
	Precision int
}

// ScriptConfig limits Lua script execution.
type ScriptConfig struct {
	// InstructionLimit caps calls into the gradebook.* Lua functions per
	// run. Plain Lua instructions are not counted.
	InstructionLimit int

	// Timeout bounds the wall-clock time of one run, including pure Lua
	// loops.
	Timeout time.Duration
}

// Config is the resolved configuration.
type Config struct {
	Logging LoggingConfig
	Display DisplayConfig
	Script  ScriptConfig

	// Watch enables live reload of the config file.
	Watch bool

	// Path is the config file the values were read from, if any.
	Path string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Display: DisplayConfig{
			RecentLimit: DefaultRecentLimit,
			Precision:   DefaultPrecision,
		},
		Script: ScriptConfig{
			InstructionLimit: DefaultInstructionLimit,
			Timeout:          DefaultScriptTimeout,
		},
	}
}

// Option configures Load.
type Option func(*options)

type options struct {
	path       string
	dotEnvPath string
	envPrefix  string
	fs         loader.FileSystem
}

// WithPath sets the config file path. The extension selects the format.
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithDotEnv sets a .env file to read before the process environment.
func WithDotEnv(path string) Option {
	return func(o *options) {
		o.dotEnvPath = path
	}
}

// WithEnvPrefix overrides the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(o *options) {
		o.envPrefix = prefix
	}
}

// WithFS sets the file system used to read the config file.
func WithFS(fsys loader.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// Load resolves defaults, the config file and the environment.
func Load(opts ...Option) (*Config, error) {
	o := options{
		envPrefix: loader.DefaultEnvPrefix,
		fs:        loader.DefaultFS(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	merged := make(map[string]any)

	if o.path != "" {
		l, err := loader.ForPath(o.fs, o.path)
		if err != nil {
			return nil, err
		}
		fileCfg, err := l.Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, fileCfg)
	}

	env := loader.NewEnvLoader(o.envPrefix)
	if o.dotEnvPath != "" {
		env.WithDotEnv(o.dotEnvPath)
	}
	envCfg, err := env.Load()
	if err != nil {
		return nil, err
	}
	merged = loader.DeepMerge(merged, envCfg)

	cfg := Default()
	cfg.Path = o.path
	if err := cfg.apply(merged); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// apply copies recognized settings from a merged map. Unknown keys are ignored.
func (c *Config) apply(m map[string]any) error {
	if err := setString(m, "logging.level", &c.Logging.Level); err != nil {
		return err
	}
	if err := setString(m, "logging.format", &c.Logging.Format); err != nil {
		return err
	}
	if err := setInt(m, "display.recentLimit", &c.Display.RecentLimit); err != nil {
		return err
	}
	if err := setInt(m, "display.precision", &c.Display.Precision); err != nil {
		return err
	}
	if err := setInt(m, "script.instructionLimit", &c.Script.InstructionLimit); err != nil {
		return err
	}
	if err := setDuration(m, "script.timeout", &c.Script.Timeout); err != nil {
		return err
	}
	return setBool(m, "watch", &c.Watch)
}

// Validate checks every setting against its allowed range.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return invalid("logging.level", c.Logging.Level, "must be debug, info, warn, or error")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return invalid("logging.format", c.Logging.Format, "must be console or json")
	}
	if c.Display.RecentLimit < 0 {
		return invalid("display.recentLimit", c.Display.RecentLimit, "must not be negative")
	}
	if c.Display.Precision < 0 || c.Display.Precision > maxPrecision {
		return invalid("display.precision", c.Display.Precision, fmt.Sprintf("must be between 0 and %d", maxPrecision))
	}
	if c.Script.InstructionLimit <= 0 {
		return invalid("script.instructionLimit", c.Script.InstructionLimit, "must be positive")
	}
	if c.Script.Timeout <= 0 {
		return invalid("script.timeout", c.Script.Timeout, "must be positive")
	}
	return nil
}

func setString(m map[string]any, path string, dst *string) error {
	v, ok := loader.GetByPath(m, path)
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return invalid(path, v, "expected string")
	}
	*dst = s
	return nil
}

func setBool(m map[string]any, path string, dst *bool) error {
	v, ok := loader.GetByPath(m, path)
	if !ok {
		return nil
	}
	b, ok := v.(bool)
	if !ok {
		return invalid(path, v, "expected bool")
	}
	*dst = b
	return nil
}

func setInt(m map[string]any, path string, dst *int) error {
	v, ok := loader.GetByPath(m, path)
	if !ok {
		return nil
	}
	switch n := v.(type) {
	case int:
		*dst = n
	case int64:
		*dst = int(n)
	case uint64:
		*dst = int(n)
	case float64:
		if n != float64(int(n)) {
			return invalid(path, v, "expected integer")
		}
		*dst = int(n)
	default:
		return invalid(path, v, "expected integer")
	}
	return nil
}

func setDuration(m map[string]any, path string, dst *time.Duration) error {
	v, ok := loader.GetByPath(m, path)
	if !ok {
		return nil
	}
	switch d := v.(type) {
	case time.Duration:
		*dst = d
	case string:
		parsed, err := time.ParseDuration(d)
		if err != nil {
			return invalid(path, v, "expected duration")
		}
		*dst = parsed
	default:
		return invalid(path, v, "expected duration")
	}
	return nil
}
