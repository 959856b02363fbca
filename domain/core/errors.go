package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrRenderFailed     = errors.New("chart rendering failed")
)

// InvalidInputError reports a malformed or non-numeric input value.
// Index is -1 when the error is not tied to a single element.
type InvalidInputError struct {
	Input  string
	Index  int
	Value  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	switch {
	case e.Index >= 0 && e.Value != "":
		return fmt.Sprintf("%v: %s[%d] = %q: %s", ErrInvalidInput, e.Input, e.Index, e.Value, e.Reason)
	case e.Index >= 0:
		return fmt.Sprintf("%v: %s[%d]: %s", ErrInvalidInput, e.Input, e.Index, e.Reason)
	default:
		return fmt.Sprintf("%v: %s: %s", ErrInvalidInput, e.Input, e.Reason)
	}
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// InsufficientDataError reports a statistic that needs more observations
// than the sample provides.
type InsufficientDataError struct {
	Statistic string
	Required  int
	Got       int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%v: %s requires at least %d values, got %d", ErrInsufficientData, e.Statistic, e.Required, e.Got)
}

func (e *InsufficientDataError) Unwrap() error { return ErrInsufficientData }

// Error constructors with context
func NewInvalidInputError(input string, index int, value, reason string) error {
	return &InvalidInputError{Input: input, Index: index, Value: value, Reason: reason}
}

func NewInsufficientDataError(statistic string, required, got int) error {
	return &InsufficientDataError{Statistic: statistic, Required: required, Got: got}
}

func NewRenderError(chart string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrRenderFailed, chart, err)
}

// Error checking helpers
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

func IsInsufficientData(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}

func IsRenderError(err error) bool {
	return errors.Is(err, ErrRenderFailed)
}
