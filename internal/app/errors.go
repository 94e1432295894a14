package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrQuit signals that the session should exit normally.
	ErrQuit = errors.New("quit requested")

	// ErrUnknownCommand indicates an unrecognized REPL command.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrUsage indicates a command was given the wrong arguments.
	ErrUsage = errors.New("usage")

	// ErrInvalidGrade indicates a grade that is not an integer.
	ErrInvalidGrade = errors.New("grade must be an integer")

	// ErrGradeRange indicates a grade outside 0..100.
	ErrGradeRange = errors.New("grade must be between 0 and 100")

	// ErrUnterminatedQuote indicates a command line with an open quote.
	ErrUnterminatedQuote = errors.New("unterminated quote")

	// ErrScriptingUnavailable indicates the session has no script runner.
	ErrScriptingUnavailable = errors.New("scripting unavailable")
)

// CommandError represents an error from a specific REPL command.
type CommandError struct {
	Command string // Command name (e.g., "add-grade")
	Err     error  // Underlying error
}

func (e *CommandError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Command, e.Err)
	}
	return e.Command
}

func (e *CommandError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ComponentError represents an error from a specific component.
type ComponentError struct {
	Component string // Component name (e.g., "config", "watcher")
	Action    string // Action being performed
	Err       error  // Underlying error
}

func (e *ComponentError) Error() string {
	if e == nil {
		return ""
	}

	if e.Action != "" {
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: %v", e.Component, e.Action, e.Err)
		}
		return fmt.Sprintf("%s: %s", e.Component, e.Action)
	}

	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Component, e.Err)
	}

	return e.Component
}

func (e *ComponentError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
