package clierr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewf_WithDetails(t *testing.T) {
	err := Newf(TaskNotFound, "task not found: #%d", 7).WithDetails(map[string]any{"id": 7})

	assert.Equal(t, "task not found: #7", err.Error())
	assert.Equal(t, TaskNotFound, err.Code)
	assert.Equal(t, 7, err.Details["id"])
	assert.Equal(t, 1, err.ExitCode())
}

func TestExitCode_Internal(t *testing.T) {
	assert.Equal(t, 2, New(InternalError, "boom").ExitCode())
}

func TestErrorsAs_ThroughWrap(t *testing.T) {
	wrapped := fmt.Errorf("editing: %w", New(InvalidStatus, "bad status"))

	var cliErr *Error
	assert.True(t, errors.As(wrapped, &cliErr))
	assert.Equal(t, InvalidStatus, cliErr.Code)
}

func TestSilentError(t *testing.T) {
	assert.Equal(t, "exit 1", (&SilentError{Code: 1}).Error())
}
