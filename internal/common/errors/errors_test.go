package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandardError(t *testing.T) {
	err := New(ErrCodeQueryExecutionFailed, "query failed", true)

	assert.Equal(t, ErrCodeQueryExecutionFailed, err.Code)
	assert.True(t, err.Retryable)
	assert.Contains(t, err.Error(), "QUERY_EXECUTION_FAILED")
	assert.False(t, err.Timestamp.IsZero())
}

func TestWrapCarriesDetails(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(ErrCodeDatabaseConnectionFailed, "cannot reach postgres", cause, true)

	assert.Equal(t, "connection refused", err.Details)
	assert.Equal(t, "cannot reach postgres", err.Message)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(New(ErrCodeLLMTimeout, "timed out", true)))
	assert.False(t, IsRetryable(New(ErrCodeInvalidRequest, "bad input", false)))
	assert.False(t, IsRetryable(fmt.Errorf("plain error")))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrCodeLLMMalformedOutput, CodeOf(New(ErrCodeLLMMalformedOutput, "bad json", false)))
	assert.Equal(t, ErrCodeInternalError, CodeOf(fmt.Errorf("plain error")))
}
