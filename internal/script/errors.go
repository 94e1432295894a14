package script

import "errors"

// Errors for script execution.
var (
	// ErrStateClosed is returned when running on a closed runner.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrInstructionLimit is returned when a script exceeds its call budget.
	ErrInstructionLimit = errors.New("lua instruction limit exceeded")
)
