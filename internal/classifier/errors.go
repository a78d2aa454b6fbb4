package classifier

import (
	"errors"
	"fmt"
)

// ErrorCode identifies why a classifier call did not produce a result.
type ErrorCode string

const (
	ErrRateLimited    ErrorCode = "RATE_LIMITED"
	ErrCircuitOpen    ErrorCode = "CIRCUIT_OPEN"
	ErrLLMUnavailable ErrorCode = "LLM_UNAVAILABLE"
	ErrSchemaInvalid  ErrorCode = "SCHEMA_INVALID"
	ErrNotConfigured  ErrorCode = "NOT_CONFIGURED"
)

// ClassifierError is a structured error for classifier failures.
type ClassifierError struct {
	Code      ErrorCode
	Message   string
	Model     string // e.g. "gemini-2.0-flash-lite"
	Retryable bool
	Cause     error
}

func (e *ClassifierError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *ClassifierError) Unwrap() error {
	return e.Cause
}

// IsRetryable returns whether this error is retryable.
func (e *ClassifierError) IsRetryable() bool {
	return e.Retryable
}

// CodeOf returns the ErrorCode carried by err, or "" if err is not a
// classifier error.
func CodeOf(err error) ErrorCode {
	var ce *ClassifierError
	if errors.As(err, &ce) {
		return ce.Code
	}
	var se *SchemaError
	if errors.As(err, &se) {
		return ErrSchemaInvalid
	}
	return ""
}

// countsAsFailure reports whether err should trip the circuit breaker.
// Rejections by the guard itself never do.
func countsAsFailure(err error) bool {
	switch CodeOf(err) {
	case ErrRateLimited, ErrCircuitOpen, ErrNotConfigured:
		return false
	}
	return err != nil
}
