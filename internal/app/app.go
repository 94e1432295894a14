// Package app provides the main application structure and coordination
// for the gradebook CLI. It wires configuration, logging, the gradebook
// engine, the script runner and the REPL session together.
package app

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"

	"github.com/dshills/gradebook/internal/config"
	"github.com/dshills/gradebook/internal/config/watcher"
	"github.com/dshills/gradebook/internal/engine"
	"github.com/dshills/gradebook/internal/script"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file.
	ConfigPath string

	// EnvFile is an optional .env file read before the process environment.
	EnvFile string

	// LogLevel overrides the configured log level when non-empty.
	LogLevel string

	// Watch forces live reload of the config file on.
	Watch bool

	// Prompt is printed before each REPL line.
	Prompt string

	// Input, Output and ErrOutput default to the process streams.
	Input     io.Reader
	Output    io.Writer
	ErrOutput io.Writer
}

// Application is the central coordinator for all gradebook components.
type Application struct {
	mu sync.RWMutex

	config *config.Config
	logger *Logger

	gradebook *engine.Gradebook
	runner    *script.Runner
	session   *Session
	watcher   *watcher.Watcher

	shutdownOnce sync.Once

	opts Options
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.ErrOutput == nil {
		opts.ErrOutput = os.Stderr
	}

	app := &Application{opts: opts}
	if err := app.bootstrap(); err != nil {
		app.Shutdown()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Config
	cfg, err := app.loadConfig()
	if err != nil {
		return &ComponentError{Component: "config", Action: "load", Err: err}
	}
	app.config = cfg

	// 2. Logger
	app.logger = NewLogger(LoggerConfig{
		Level:  ParseLogLevel(cfg.Logging.Level),
		Format: cfg.Logging.Format,
		Output: app.opts.ErrOutput,
		Prefix: "gradebook",
	})

	// 3. Engine
	app.gradebook = engine.New(
		engine.WithLogger(app.logger.WithComponent("engine").Zap()),
	)

	// 4. Script runner
	app.runner = script.NewRunner(app.gradebook,
		script.WithOutput(app.opts.Output),
		script.WithTimeout(cfg.Script.Timeout),
		script.WithInstructionLimit(int64(cfg.Script.InstructionLimit)),
		script.WithLogger(app.logger.WithComponent("script").Zap()),
	)

	// 5. Session
	app.session = NewSession(app.gradebook, app.opts.Output,
		WithPrompt(app.opts.Prompt),
		WithDisplay(cfg.Display),
		WithRunner(app.runner),
		WithSessionLogger(app.logger.WithComponent("repl")),
	)

	// 6. Watcher (optional)
	if cfg.Watch && cfg.Path != "" {
		w, err := watcher.New(cfg.Path)
		if err != nil {
			return &ComponentError{Component: "watcher", Action: "start", Err: err}
		}
		app.watcher = w
	}

	app.logger.Debug("application initialized (config=%q, watch=%t)", cfg.Path, app.watcher != nil)
	return nil
}

// loadConfig resolves the configuration and applies flag overrides.
func (app *Application) loadConfig() (*config.Config, error) {
	var opts []config.Option
	if app.opts.ConfigPath != "" {
		opts = append(opts, config.WithPath(app.opts.ConfigPath))
	}
	if app.opts.EnvFile != "" {
		opts = append(opts, config.WithDotEnv(app.opts.EnvFile))
	}

	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, err
	}

	if app.opts.LogLevel != "" {
		cfg.Logging.Level = app.opts.LogLevel
	}
	if app.opts.Watch {
		cfg.Watch = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Config returns a copy of the active configuration.
func (app *Application) Config() config.Config {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return *app.config
}

// Gradebook returns the gradebook instance.
func (app *Application) Gradebook() *engine.Gradebook {
	return app.gradebook
}

// Logger returns the application's logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// RunREPL runs the interactive session until quit, EOF, or ctx is done.
func (app *Application) RunREPL(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if app.watcher != nil {
		go app.watchLoop(ctx)
	}

	err := app.session.Run(ctx, app.opts.Input)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// RunScript executes one Lua file against the gradebook.
func (app *Application) RunScript(ctx context.Context, path string) error {
	return app.runner.RunFile(ctx, path)
}

// PrintLog writes the most recent activity using the log command.
func (app *Application) PrintLog(ctx context.Context) error {
	return app.session.Execute(ctx, "log")
}

// Shutdown releases all resources. Safe to call multiple times.
func (app *Application) Shutdown() {
	app.shutdownOnce.Do(func() {
		if app.watcher != nil {
			if err := app.watcher.Close(); err != nil {
				app.logger.Warn("closing watcher: %v", err)
			}
		}
		if app.runner != nil {
			app.runner.Close()
		}
		if app.logger != nil {
			_ = app.logger.Sync()
		}
	})
}
