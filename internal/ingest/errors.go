package ingest

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents specific ingestion error types.
type ErrorCode string

const (
	ErrInvalidDocument     ErrorCode = "INVALID_DOCUMENT"
	ErrFileTooLarge        ErrorCode = "FILE_TOO_LARGE"
	ErrNoTransactionsFound ErrorCode = "NO_TRANSACTIONS_FOUND"
	ErrLLMFailed           ErrorCode = "LLM_FAILED"
)

// IngestError is a structured error for statement ingestion failures.
type IngestError struct {
	Code    ErrorCode
	Message string
	Details []string // per-row problems, if any
	Cause   error
}

func (e *IngestError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if len(e.Details) > 0 {
		msg += ": " + strings.Join(e.Details, "; ")
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *IngestError) Unwrap() error {
	return e.Cause
}

// CodeOf returns the ErrorCode carried by err, or "".
func CodeOf(err error) ErrorCode {
	var ie *IngestError
	if errors.As(err, &ie) {
		return ie.Code
	}
	return ""
}
