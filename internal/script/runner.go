package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/dshills/gradebook/internal/engine"
)

// Default limits for script execution.
const (
	DefaultInstructionLimit = 1_000_000
	DefaultTimeout          = 5 * time.Second
)

// Runner executes Lua scripts against one gradebook.
type Runner struct {
	mu sync.Mutex

	L  *lua.LState
	gb *engine.Gradebook

	out    io.Writer
	logger *zap.Logger

	timeout          time.Duration
	instructionLimit int64
	instructionCount int64

	closed bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithOutput sets where print writes. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		if w != nil {
			r.out = w
		}
	}
}

// WithTimeout sets the wall-clock limit per run.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithInstructionLimit sets the maximum number of gradebook.* binding calls
// per run. Plain Lua instructions are not counted; they are bounded by the
// timeout. A run that exceeds the limit fails with ErrInstructionLimit even if
// the script catches the error.
func WithInstructionLimit(limit int64) Option {
	return func(r *Runner) {
		if limit > 0 {
			r.instructionLimit = limit
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a sandboxed Lua state bound to gb.
func NewRunner(gb *engine.Gradebook, opts ...Option) *Runner {
	r := &Runner{
		gb:               gb,
		out:              os.Stdout,
		logger:           zap.NewNop(),
		timeout:          DefaultTimeout,
		instructionLimit: DefaultInstructionLimit,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(r.L)
	installSandbox(r.L, r.out)
	r.registerGradebook()

	return r
}

// RunString executes Lua source. name identifies the chunk in errors.
func (r *Runner) RunString(ctx context.Context, name, src string) error {
	return r.run(ctx, name, func(L *lua.LState) error {
		fn, err := L.Load(strings.NewReader(src), name)
		if err != nil {
			return err
		}
		L.Push(fn)
		return L.PCall(0, lua.MultRet, nil)
	})
}

// RunFile executes the Lua file at path.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	return r.run(ctx, path, func(L *lua.LState) error {
		fn, err := L.Load(f, path)
		if err != nil {
			return err
		}
		L.Push(fn)
		return L.PCall(0, lua.MultRet, nil)
	})
}

// Close releases the Lua state. Safe to call multiple times.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	r.L.Close()
}

// IsClosed reports whether Close has been called.
func (r *Runner) IsClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

func (r *Runner) run(ctx context.Context, name string, fn func(L *lua.LState) error) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrStateClosed
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	r.instructionCount = 0
	r.L.SetContext(ctx)
	defer r.L.RemoveContext()

	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("lua panic: %v", p)
		}
		r.logger.Debug("script finished",
			zap.String("script", name),
			zap.Int64("calls", r.instructionCount),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
	}()

	err = fn(r.L)

	// A script may swallow the budget error with pcall; the run still fails.
	if r.instructionCount > r.instructionLimit {
		return fmt.Errorf("script %s: %w", name, ErrInstructionLimit)
	}
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return fmt.Errorf("script %s: %w", name, ctx.Err())
	}

	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("script %s: %s", name, apiErr.Object.String())
	}
	return fmt.Errorf("script %s: %w", name, err)
}

// charge counts one gradebook call and raises a Lua error past the limit.
func (r *Runner) charge(L *lua.LState) {
	r.instructionCount++
	if r.instructionCount > r.instructionLimit {
		L.RaiseError("%s", ErrInstructionLimit.Error())
	}
}
