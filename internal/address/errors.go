package address

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies lookup failures for logging and metrics. None of
// them reach the guest: every failure degrades to manual entry.
type ErrorCategory string

const (
	ErrorTimeout        ErrorCategory = "timeout"
	ErrorNotFound       ErrorCategory = "not_found"
	ErrorBadData        ErrorCategory = "bad_data"
	ErrorProviderOutage ErrorCategory = "provider_outage"
	ErrorInternal       ErrorCategory = "internal"
)

type LookupError struct {
	Category ErrorCategory
	Message  string
	Err      error
}

func (e *LookupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("address lookup [%s]: %s: %v", e.Category, e.Message, e.Err)
	}
	return fmt.Sprintf("address lookup [%s]: %s", e.Category, e.Message)
}

func (e *LookupError) Unwrap() error { return e.Err }

func newLookupError(category ErrorCategory, message string, err error) *LookupError {
	return &LookupError{Category: category, Message: message, Err: err}
}

// CategoryOf returns the category of a *LookupError anywhere in the chain,
// or ErrorInternal for anything else.
func CategoryOf(err error) ErrorCategory {
	var le *LookupError
	if errors.As(err, &le) {
		return le.Category
	}
	return ErrorInternal
}
