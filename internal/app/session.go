package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/dshills/gradebook/internal/config"
	"github.com/dshills/gradebook/internal/engine"
	"github.com/dshills/gradebook/internal/script"
)

// Session is a line-oriented REPL over one gradebook.
type Session struct {
	gb       *engine.Gradebook
	runner   *script.Runner
	out      io.Writer
	logger   *Logger
	prompt   string
	commands *commandTable

	mu      sync.RWMutex
	display config.DisplayConfig
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithPrompt sets the prompt printed before each line. Empty disables it.
func WithPrompt(prompt string) SessionOption {
	return func(s *Session) {
		s.prompt = prompt
	}
}

// WithDisplay sets the initial rendering settings.
func WithDisplay(d config.DisplayConfig) SessionOption {
	return func(s *Session) {
		s.display = d
	}
}

// WithRunner enables the run command.
func WithRunner(r *script.Runner) SessionOption {
	return func(s *Session) {
		s.runner = r
	}
}

// WithSessionLogger sets the diagnostic logger.
func WithSessionLogger(l *Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSession creates a session writing results to out.
func NewSession(gb *engine.Gradebook, out io.Writer, opts ...SessionOption) *Session {
	s := &Session{
		gb:     gb,
		out:    out,
		logger: NullLogger,
		display: config.DisplayConfig{
			RecentLimit: config.DefaultRecentLimit,
			Precision:   config.DefaultPrecision,
		},
		commands: newCommandTable(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetDisplay replaces the rendering settings. Safe to call while Run is active.
func (s *Session) SetDisplay(d config.DisplayConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.display = d
}

// Display returns the current rendering settings.
func (s *Session) Display() config.DisplayConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.display
}

// Run reads commands from in until EOF, quit, or ctx is done.
// Command errors are reported to the output and do not stop the loop.
//
// Lines are read on a separate goroutine. If Run returns while that
// goroutine is blocked in a read, it stays blocked until in yields a line
// or EOF, and then drops that line. Run is therefore one-shot per reader:
// do not call it again with the same in after a cancellation.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				scanErr <- ctx.Err()
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		s.printPrompt()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return <-scanErr
			}
			err := s.Execute(ctx, line)
			if errors.Is(err, ErrQuit) {
				return nil
			}
			if err != nil {
				s.logger.Debug("command failed: %v", err)
				fmt.Fprintf(s.out, "error: %v\n", err)
			}
		}
	}
}

// Execute runs one command line. Blank lines are ignored.
func (s *Session) Execute(ctx context.Context, line string) error {
	args, err := splitArgs(line)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}

	name, args := args[0], args[1:]
	cmd := s.commands.get(name)
	if cmd == nil {
		return fmt.Errorf("%w: %s (try help)", ErrUnknownCommand, name)
	}
	if len(args) < cmd.minArgs || len(args) > cmd.maxArgs {
		return &CommandError{Command: cmd.name, Err: fmt.Errorf("%w: %s", ErrUsage, cmd.usage)}
	}
	if err := cmd.run(ctx, s, args); err != nil {
		if errors.Is(err, ErrQuit) {
			return err
		}
		return &CommandError{Command: cmd.name, Err: err}
	}
	return nil
}

func (s *Session) printPrompt() {
	if s.prompt != "" {
		fmt.Fprint(s.out, s.prompt)
	}
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format+"\n", args...)
}
