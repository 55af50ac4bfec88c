package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesExistingCode(t *testing.T) {
	inner := New(CodeLifecycle, "record is revoked")
	wrapped := Wrap(inner, CodeInternal, "field read failed")

	assert.True(t, HasCode(wrapped, CodeLifecycle))
	assert.False(t, HasCode(wrapped, CodeInternal))
	assert.Equal(t, "field read failed", wrapped.Error())
}

func TestWrapPlainError(t *testing.T) {
	inner := errors.New("disk full")
	wrapped := Wrap(inner, CodeInternal, "store write failed")

	require.True(t, HasCode(wrapped, CodeInternal))
	assert.ErrorIs(t, wrapped, inner)
}

func TestIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeProtocol, "stale sequence"))
	assert.ErrorIs(t, err, &Error{Code: CodeProtocol})
	assert.NotErrorIs(t, err, &Error{Code: CodeAttestation})
}

func TestErrorMessageFallsBackToCode(t *testing.T) {
	err := &Error{Code: CodeAttestation}
	assert.Equal(t, string(CodeAttestation), err.Error())
}
