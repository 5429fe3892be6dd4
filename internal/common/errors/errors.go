// Package errors provides standardized error handling for the bookbot engine.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"

	ErrCodeLLMNotConfigured    ErrorCode = "LLM_NOT_CONFIGURED"
	ErrCodeLLMTimeout          ErrorCode = "LLM_TIMEOUT"
	ErrCodeLLMGenerationFailed ErrorCode = "LLM_GENERATION_FAILED"
	ErrCodeLLMMalformedOutput  ErrorCode = "LLM_MALFORMED_OUTPUT"

	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	ErrCodeInternalError  ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// New creates a StandardError with the given code and message.
func New(code ErrorCode, message string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// Wrap creates a StandardError carrying the original error text as details.
func Wrap(code ErrorCode, message string, err error, retryable bool) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// IsRetryable reports whether err is a retryable StandardError.
func IsRetryable(err error) bool {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr.Retryable
	}
	return false
}

// CodeOf returns the error code of err, or INTERNAL_ERROR for foreign errors.
func CodeOf(err error) ErrorCode {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr.Code
	}
	return ErrCodeInternalError
}
