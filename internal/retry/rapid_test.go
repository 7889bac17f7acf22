package retry

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/n5dux/ddctl/internal/ddcctx"
	"github.com/n5dux/ddctl/internal/ddcerr"
	"github.com/n5dux/ddctl/internal/packet"
	"github.com/n5dux/ddctl/internal/transport"
)

// TestRapid_RetryTryCountExactness: for any configured max and any
// always-failing-with-a-retryable-kind op, WriteRead makes exactly max
// attempts before giving up (retry try-count-exactness
// invariant for the persistent-failure case).
func TestRapid_RetryTryCountExactness(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		max := rapid.IntRange(1, ddcctx.MaxRetryUpperBound).Draw(rt, "max")

		runtime := newTestRuntime()
		runtime.SetRetryMax(ddcctx.ClassWriteRead, max)

		attempts := 0
		_, err := WriteRead(runtime, ddcctx.ClassWriteRead, transport.KindI2C, false, func() (*packet.Packet, error) {
			attempts++
			return nil, ddcerr.New(ddcerr.KindDDCData) // always retryable, never succeeds
		})
		if err == nil {
			rt.Fatalf("expected a terminal error")
		}
		if attempts != max {
			rt.Fatalf("attempts = %d, want exactly max = %d", attempts, max)
		}
		de, ok := err.(*ddcerr.Error)
		if !ok {
			rt.Fatalf("expected *ddcerr.Error, got %T", err)
		}
		if de.Kind != ddcerr.KindRetries {
			rt.Fatalf("expected KindRetries, got %v", de.Kind)
		}
		if de.TryCount != max {
			rt.Fatalf("TryCount = %d, want %d", de.TryCount, max)
		}
	})
}

// TestRapid_NonRetryableAlwaysStopsAtOne: any non-retryable kind stops
// the loop at exactly one attempt regardless of the configured max
// (the non-retryable-terminal case of the same invariant).
func TestRapid_NonRetryableAlwaysStopsAtOne(t *testing.T) {
	nonRetryable := []ddcerr.Kind{
		ddcerr.KindNullResponse, ddcerr.KindBadDescriptor, ddcerr.KindInvalidArgument,
	}

	rapid.Check(t, func(rt *rapid.T) {
		max := rapid.IntRange(1, ddcctx.MaxRetryUpperBound).Draw(rt, "max")
		kind := rapid.SampledFrom(nonRetryable).Draw(rt, "kind")

		runtime := newTestRuntime()
		runtime.SetRetryMax(ddcctx.ClassWriteRead, max)

		attempts := 0
		_, err := WriteRead(runtime, ddcctx.ClassWriteRead, transport.KindI2C, false, func() (*packet.Packet, error) {
			attempts++
			return nil, ddcerr.New(kind)
		})
		if err == nil {
			rt.Fatalf("expected a terminal error")
		}
		if attempts != 1 {
			rt.Fatalf("attempts = %d, want exactly 1 for non-retryable kind %v", attempts, kind)
		}
	})
}
