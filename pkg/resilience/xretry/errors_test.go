package xretry

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermanentError(t *testing.T) {
	inner := errors.New("bad input")
	err := NewPermanentError(inner)

	assert.Equal(t, "bad input", err.Error())
	assert.False(t, err.Retryable())
	assert.ErrorIs(t, err, inner)

	nilErr := NewPermanentError(nil)
	assert.Equal(t, "permanent error", nilErr.Error())
	assert.Nil(t, nilErr.Unwrap())
}

func TestTemporaryError(t *testing.T) {
	inner := errors.New("busy")
	err := NewTemporaryError(inner)

	assert.Equal(t, "busy", err.Error())
	assert.True(t, err.Retryable())
	assert.ErrorIs(t, err, inner)

	nilErr := NewTemporaryError(nil)
	assert.Equal(t, "temporary error", nilErr.Error())
	assert.Nil(t, nilErr.Unwrap())
}

func TestIsRetryable(t *testing.T) {
	t.Run("NilIsNotRetryable", func(t *testing.T) {
		assert.False(t, IsRetryable(nil))
	})

	t.Run("PlainErrorIsRetryable", func(t *testing.T) {
		assert.True(t, IsRetryable(errors.New("boom")))
	})

	t.Run("ContextErrorsAreNotRetryable", func(t *testing.T) {
		assert.False(t, IsRetryable(context.Canceled))
		assert.False(t, IsRetryable(context.DeadlineExceeded))
		assert.False(t, IsRetryable(fmt.Errorf("wait: %w", context.Canceled)))
	})

	t.Run("ClassifiedErrors", func(t *testing.T) {
		assert.False(t, IsRetryable(NewPermanentError(errors.New("x"))))
		assert.True(t, IsRetryable(NewTemporaryError(errors.New("x"))))
	})

	t.Run("WrappedClassifiedErrors", func(t *testing.T) {
		permanent := fmt.Errorf("call failed: %w", NewPermanentError(errors.New("x")))
		assert.False(t, IsRetryable(permanent))

		temporary := fmt.Errorf("call failed: %w", NewTemporaryError(errors.New("x")))
		assert.True(t, IsRetryable(temporary))
	})
}

func TestIsPermanent(t *testing.T) {
	assert.False(t, IsPermanent(nil))
	assert.True(t, IsPermanent(NewPermanentError(errors.New("x"))))
	assert.False(t, IsPermanent(errors.New("x")))
}

type customRetryable struct {
	retryable bool
}

func (e *customRetryable) Error() string   { return "custom" }
func (e *customRetryable) Retryable() bool { return e.retryable }

func TestIsRetryable_CustomInterface(t *testing.T) {
	assert.True(t, IsRetryable(&customRetryable{retryable: true}))
	assert.False(t, IsRetryable(&customRetryable{retryable: false}))
}
