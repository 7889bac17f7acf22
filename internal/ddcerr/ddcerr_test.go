package ddcerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIs_MatchesOnKindAlone(t *testing.T) {
	a := New(KindRetries).WithTryCount(3)
	b := New(KindRetries)
	assert.True(t, errors.Is(a, b))

	c := New(KindAllTriesZero)
	assert.False(t, errors.Is(a, c))
}

func TestUnwrap_ReturnsCause(t *testing.T) {
	cause := errors.New("boom")
	wrapped := Wrap(KindTransportOther, cause)
	assert.Equal(t, cause, errors.Unwrap(wrapped))
}

func TestKindRetryable(t *testing.T) {
	assert.True(t, KindReadAllZero.Retryable())
	assert.True(t, KindBusBusy.Retryable())
	assert.False(t, KindNullResponse.Retryable())
	assert.False(t, KindInvalidArgument.Retryable())
}

func TestWithTryCount_DoesNotMutateOriginal(t *testing.T) {
	base := New(KindRetries)
	annotated := base.WithTryCount(5)
	assert.Equal(t, 0, base.TryCount)
	assert.Equal(t, 5, annotated.TryCount)
}

// Assert is a no-op outside a "debug"-tagged build; this package's own
// tests build without that tag, so a failing condition must not panic.
func TestAssert_NoopWithoutDebugTag(t *testing.T) {
	assert.False(t, DebugAssertions)
	assert.NotPanics(t, func() { Assert(false, "should not fire here") })
}
