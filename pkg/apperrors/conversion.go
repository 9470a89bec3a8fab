package apperrors

import (
	"fmt"
	"runtime/debug"
)

// ConversionError is the single error kind surfaced by the yearly/continuous
// frame converters. It carries the original failure's message and a stack
// trace captured at wrap time; the original error type is deliberately
// discarded so that callers only ever deal with one conversion error.
type ConversionError struct {
	// Target names the representation the conversion was producing,
	// e.g. "continuous" or "yearly".
	Target string
	// Message is the original failure's message.
	Message string
	// Trace is the stack captured where the failure was wrapped.
	Trace string
}

// NewConversionError wraps cause into a ConversionError for the given target
// representation, capturing the current stack.
func NewConversionError(target string, cause error) *ConversionError {
	return &ConversionError{
		Target:  target,
		Message: cause.Error(),
		Trace:   string(debug.Stack()),
	}
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert frame to the %s representation: %s\noriginal trace:\n%s",
		e.Target, e.Message, e.Trace)
}
