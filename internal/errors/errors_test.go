package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreError_ErrorMessage(t *testing.T) {
	plain := New(ErrCodeInvalidArgument, "bad input", nil)
	assert.Equal(t, "bad input", plain.Error())

	wrapped := New(ErrCodeInternal, "write failed", fmt.Errorf("disk full"))
	assert.Equal(t, "write failed: disk full", wrapped.Error())
}

func TestStoreError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("underlying")
	se := New(ErrCodeInternal, "wrapper", cause)
	assert.Equal(t, cause, errors.Unwrap(se))
}

func TestStoreError_WithDetail(t *testing.T) {
	se := KeyNotFound("user:42")
	assert.Equal(t, ErrCodeNotFound, se.Code)
	assert.Equal(t, "user:42", se.Details["key"])

	se.WithDetail("attempt", 2)
	assert.Equal(t, 2, se.Details["attempt"])
}

func TestIsAndCode(t *testing.T) {
	se := DurabilityDegraded("wal closed", nil)
	assert.True(t, Is(se, ErrCodeDurabilityDegraded))
	assert.False(t, Is(se, ErrCodeInternal))
	assert.Equal(t, ErrCodeDurabilityDegraded, Code(se))

	assert.Equal(t, ErrCodeInternal, Code(fmt.Errorf("plain error")))
}
