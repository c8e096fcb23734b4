package deadline

import (
	"errors"
	"fmt"

	"github.com/tartampluch/go-plazos/internal/config"
)

// Sentinel errors for errors.Is checks.
var (
	ErrInvalidMode     = errors.New(config.ErrInvalidMode)
	ErrInvalidArgument = errors.New(config.ErrInvalidArgument)
)

// InvalidModeError reports an unrecognized counting mode.
type InvalidModeError struct {
	Mode string
}

func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("%s: %q", config.ErrInvalidMode, e.Mode)
}

// Is makes errors.Is(err, ErrInvalidMode) true.
func (e *InvalidModeError) Is(target error) bool {
	return target == ErrInvalidMode
}

// InvalidArgumentError reports a request value that violates a precondition.
type InvalidArgumentError struct {
	Field  string
	Value  int
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("%s: %s=%d: %s", config.ErrInvalidArgument, e.Field, e.Value, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidArgument) true.
func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}
