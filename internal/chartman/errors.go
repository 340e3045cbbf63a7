package chartman

import (
	"errors"
	"fmt"
)

// Sentinel errors for creation and destruction failures. All are returned
// to the caller, never panicked, and leave the registry and listener set
// untouched.
var (
	// ErrContainerNotFound means the creation-time container selector
	// matched nothing in the host document.
	ErrContainerNotFound = errors.New("container not found")

	// ErrNotFound means the destruction-time identifier is not in the
	// registry.
	ErrNotFound = errors.New("chart not found by id")

	// ErrDOMMissing means the registry and the host document diverged:
	// the identifier is registered but its wrapper element is gone.
	ErrDOMMissing = errors.New("chart wrapper not found in document")
)

// ConfigError reports an invalid raw config payload.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return fmt.Sprintf("config: %v", e.Err) }
func (e *ConfigError) Unwrap() error { return e.Err }

// ParamsError reports an invalid raw parameter payload.
type ParamsError struct {
	Err error
}

func (e *ParamsError) Error() string { return fmt.Sprintf("params: %v", e.Err) }
func (e *ParamsError) Unwrap() error { return e.Err }
