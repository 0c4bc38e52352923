package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DocFacts/pkg/errors"
)

// ============================================================================
// AppError basics
// ============================================================================

func TestAppError_ErrorFormat(t *testing.T) {
	err := errors.New(errors.ErrCodeDocumentNotFound, "document missing")
	assert.Equal(t, "[STORE_002] document missing", err.Error())

	withDetail := err.WithDetail("key=reports/q1.txt")
	assert.Equal(t, "[STORE_002] document missing: key=reports/q1.txt", withDetail.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	root := stderrors.New("connection reset")
	wrapped := errors.Wrap(root, errors.ErrCodeStorageError, "fetch failed")

	assert.True(t, stderrors.Is(wrapped, root))

	var ae *errors.AppError
	require.True(t, stderrors.As(wrapped, &ae))
	assert.Equal(t, errors.ErrCodeStorageError, ae.Code)
}

func TestAppError_WithDetailClones(t *testing.T) {
	base := errors.New(errors.ErrCodeBadRequest, "bad input")
	detailed := base.WithDetail("field=text")

	assert.Empty(t, base.Detail)
	assert.Equal(t, "field=text", detailed.Detail)
	assert.Equal(t, base.Code, detailed.Code)
}

func TestAppError_WithCauseClones(t *testing.T) {
	cause := stderrors.New("boom")
	base := errors.New(errors.ErrCodeInternal, "processing failed")
	withCause := base.WithCause(cause)

	assert.Nil(t, base.Cause)
	assert.True(t, stderrors.Is(withCause, cause))
}

func TestAppError_NilReceiverSafety(t *testing.T) {
	var nilErr *errors.AppError
	assert.Nil(t, nilErr.WithDetail("x"))
	assert.Nil(t, nilErr.WithCause(stderrors.New("x")))
}

func TestNew_CapturesStack(t *testing.T) {
	err := errors.New(errors.ErrCodeInternal, "oops")
	assert.Contains(t, err.Stack, "errors_test")
}

// ============================================================================
// Wrap
// ============================================================================

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, errors.ErrCodeStorageError, "ignored"))
}

func TestWrap_UnknownCodePreservesOriginal(t *testing.T) {
	inner := errors.New(errors.ErrCodeJobNotFound, "no such job")
	outer := errors.Wrap(inner, errors.ErrCodeUnknown, "lookup failed")

	assert.Equal(t, errors.ErrCodeJobNotFound, outer.Code)
}

func TestWrap_ExplicitCodeWins(t *testing.T) {
	inner := errors.New(errors.ErrCodeJobNotFound, "no such job")
	outer := errors.Wrap(inner, errors.ErrCodeInternal, "lookup failed")

	assert.Equal(t, errors.ErrCodeInternal, outer.Code)
	// The original code is still reachable through the chain.
	assert.True(t, errors.IsCode(outer, errors.ErrCodeJobNotFound))
}

func TestWrap_ThroughFmtErrorf(t *testing.T) {
	inner := errors.New(errors.ErrCodeEmptyText, "text must not be empty")
	outer := fmt.Errorf("extract call: %w", inner)

	assert.True(t, errors.IsCode(outer, errors.ErrCodeEmptyText))
	assert.Equal(t, errors.ErrCodeEmptyText, errors.GetCode(outer))
}

// ============================================================================
// Chain inspection
// ============================================================================

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"generic not found", errors.NotFound("gone"), true},
		{"document not found", errors.New(errors.ErrCodeDocumentNotFound, "gone"), true},
		{"job not found", errors.New(errors.ErrCodeJobNotFound, "gone"), true},
		{"wrapped not found", errors.Wrap(errors.New(errors.ErrCodeDocumentNotFound, "gone"), errors.ErrCodeInternal, "outer"), true},
		{"bad request", errors.InvalidParam("nope"), false},
		{"plain error", stderrors.New("gone"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.IsNotFound(tt.err))
		})
	}
}

func TestIsValidation(t *testing.T) {
	assert.True(t, errors.IsValidation(errors.InvalidParam("bad")))
	assert.True(t, errors.IsValidation(errors.New(errors.ErrCodeValidation, "bad")))
	assert.False(t, errors.IsValidation(errors.Internal("boom")))
}

func TestIsConflict(t *testing.T) {
	assert.True(t, errors.IsConflict(errors.Conflict("taken")))
	assert.False(t, errors.IsConflict(errors.NotFound("gone")))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.ErrCodeUnknown, errors.GetCode(stderrors.New("plain")))
	assert.Equal(t, errors.ErrCodeJobQueueFull, errors.GetCode(errors.New(errors.ErrCodeJobQueueFull, "full")))
}

// ============================================================================
// Convenience factories
// ============================================================================

func TestConvenienceFactories(t *testing.T) {
	tests := []struct {
		name string
		err  *errors.AppError
		code errors.ErrorCode
	}{
		{"NotFound", errors.NotFound("x"), errors.ErrCodeNotFound},
		{"InvalidParam", errors.InvalidParam("x"), errors.ErrCodeBadRequest},
		{"Conflict", errors.Conflict("x"), errors.ErrCodeConflict},
		{"Internal", errors.Internal("x"), errors.ErrCodeInternal},
		{"Timeout", errors.Timeout("x"), errors.ErrCodeTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, "x", tt.err.Message)
		})
	}
}
