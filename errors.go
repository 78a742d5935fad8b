package salesbase

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	// Data errors
	ErrNotFound    = errors.New("document not found")
	ErrInvalidData = errors.New("invalid data format")

	// Ingestion errors
	ErrBadRow = errors.New("malformed source row")

	// Pipeline errors
	ErrInvalidPipeline = errors.New("invalid pipeline")

	// Backend errors
	ErrStoreUnavailable = errors.New("document store unavailable")
	ErrUnauthorized     = errors.New("unauthorized access")

	// Configuration errors
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ErrorWithContext adds additional context to errors for better debugging and logging
type ErrorWithContext struct {
	Err     error
	Context map[string]interface{}
}

func (e *ErrorWithContext) Error() string {
	if len(e.Context) == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v (context: %+v)", e.Err, e.Context)
}

func (e *ErrorWithContext) Unwrap() error {
	return e.Err
}

// WithContext adds context to an error
func WithContext(err error, context map[string]interface{}) error {
	if err == nil {
		return nil
	}
	return &ErrorWithContext{
		Err:     err,
		Context: context,
	}
}

// Common error checking helpers

// IsNotFound checks if an error is a "not found" error.
// A lookup miss by business key is a normal outcome, not a failure;
// callers should branch on this rather than treat it as fatal.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsBadRow checks if an error came from a malformed ingestion row
func IsBadRow(err error) bool {
	return errors.Is(err, ErrBadRow)
}

// IsInvalidPipeline checks if an error came from pipeline validation
func IsInvalidPipeline(err error) bool {
	return errors.Is(err, ErrInvalidPipeline)
}

// IsUnavailable checks if an error means the store could not be reached.
// These errors are fatal for the current run; no partial state is assumed
// committed and no retry is attempted at this layer.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
