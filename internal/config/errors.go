package config

import (
	"errors"
	"fmt"
)

// ErrInvalidValue indicates a setting holds a value of the wrong type or
// outside its allowed range.
var ErrInvalidValue = errors.New("invalid config value")

// invalid returns an ErrInvalidValue wrapped with the setting path.
func invalid(path string, value any, reason string) error {
	return fmt.Errorf("%s = %v: %s: %w", path, value, reason, ErrInvalidValue)
}
