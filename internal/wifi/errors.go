package wifi

import (
	"errors"
	"fmt"
)

// Normalized result taxonomy. Every operation returns nil or one of these,
// possibly wrapped in a DriverError that keeps the firmware diagnostic.
var (
	// ErrFailure covers firmware calls returning an error code, failed
	// enum translations, and out-of-bounds inputs.
	ErrFailure = errors.New("FAILURE")

	// ErrTimeout means the gate could not be acquired in time, or a
	// bounded device wait expired. The requested operation was not
	// issued, or not completed, respectively.
	ErrTimeout = errors.New("TIMEOUT")

	// ErrNotSupported marks intentionally unimplemented operations and
	// enum values with no firmware equivalent.
	ErrNotSupported = errors.New("NOT_SUPPORTED")
)

// DriverError wraps a firmware error with the normalized code while
// preserving the original diagnostic.
type DriverError struct {
	Code     error // normalized taxonomy code
	Original error // firmware error
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("%v (driver: %v)", e.Code, e.Original)
}

func (e *DriverError) Unwrap() error {
	return e.Code
}

// driverFailure normalizes a firmware error to ErrFailure, keeping the
// diagnostic. Returns nil for nil.
func driverFailure(err error) error {
	if err == nil {
		return nil
	}
	return &DriverError{Code: ErrFailure, Original: err}
}

// Outcome codes recorded by the action logger.
const (
	outcomeSuccess      = "SUCCESS"
	outcomeFailure      = "FAILURE"
	outcomeTimeout      = "TIMEOUT"
	outcomeNotSupported = "NOT_SUPPORTED"
)

// outcomeFor maps an operation result to its audit outcome code.
func outcomeFor(err error) string {
	switch {
	case err == nil:
		return outcomeSuccess
	case errors.Is(err, ErrTimeout):
		return outcomeTimeout
	case errors.Is(err, ErrNotSupported):
		return outcomeNotSupported
	default:
		return outcomeFailure
	}
}
