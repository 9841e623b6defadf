package dupehash

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRoot is returned when the scan root is missing or not a directory
	ErrInvalidRoot = errors.New("root is not a directory")

	// ErrInterrupted is returned when a scan is cancelled before it completes
	ErrInterrupted = errors.New("operation interrupted")
)

// ConfigError is a fatal configuration problem detected before any work starts.
type ConfigError struct {
	Field string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// TraverseError records an entry the traverser could not inspect. The walk
// continues past it.
type TraverseError struct {
	Path string
	Op   string
	Err  error
}

func (e *TraverseError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *TraverseError) Unwrap() error { return e.Err }

// HashError records a candidate whose content could not be hashed.
type HashError struct {
	Path string
	Err  error
}

func (e *HashError) Error() string {
	return fmt.Sprintf("hash %s: %v", e.Path, e.Err)
}

func (e *HashError) Unwrap() error { return e.Err }

// IsConfigError reports whether err is, or wraps, a *ConfigError
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
