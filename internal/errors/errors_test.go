package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(cause, ErrCodeInternal, "something failed")
	assert.Equal(t, "something failed: boom", err.Error())
	assert.Equal(t, cause, stderrors.Unwrap(err))

	plain := NotFound("missing")
	assert.Equal(t, "missing", plain.Error())
}

func TestCodePredicates(t *testing.T) {
	assert.True(t, IsNotFound(NotFoundf("user %s not found", "u-1")))
	assert.True(t, IsConflict(Conflict("dup")))
	assert.True(t, IsValidation(Validation("bad")))
	assert.True(t, IsUnauthorized(Unauthorized("no session")))
	assert.True(t, IsForbidden(Forbidden("admin only")))
	assert.True(t, IsInternal(Internal("oops")))

	assert.False(t, IsNotFound(stderrors.New("plain")))
	assert.False(t, IsNotFound(nil))
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	inner := NotFound("gone")
	outer := Wrapf(inner, ErrCodeInternal, "loading record")
	// The outermost AppError decides the code; the original stays reachable.
	assert.Equal(t, ErrCodeInternal, GetCode(outer))
	assert.False(t, IsNotFound(outer))
	assert.True(t, stderrors.Is(outer, inner))
}

func TestGetField(t *testing.T) {
	err := ValidationField("email", "email is taken")
	assert.Equal(t, "email", GetField(err))
	assert.Empty(t, GetField(stderrors.New("x")))
}

func TestWrapNil(t *testing.T) {
	require.Nil(t, Wrap(nil, ErrCodeInternal, "x"))
	require.Nil(t, Wrapf(nil, ErrCodeInternal, "x %d", 1))
}
