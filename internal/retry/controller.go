// Package retry wraps an exchange function with bounded
// retry behavior: per-class max tries, per-error-kind retryability, and
// process-wide success/failure statistics.
//
// The USB-HID transport is not named in the retryability table, which
// covers only I2C and the vendor adapter. We treat it like I2C
// for retry purposes (a raw device node with the same class of
// transient failures), since no column describes HID behavior
// differently and the transport shares I2C's failure modes (bus
// contention, partial reads) far more than the adapter's (which
// performs the I2C exchange behind an opaque vendor call).
package retry

import (
	"github.com/n5dux/ddctl/internal/ddcctx"
	"github.com/n5dux/ddctl/internal/ddcerr"
	"github.com/n5dux/ddctl/internal/packet"
	"github.com/n5dux/ddctl/internal/transport"
)

// WriteReadOp performs one attempt of a write-read exchange. It is
// exchange.WriteRead bound to a particular handle/request/expectations.
type WriteReadOp func() (*packet.Packet, error)

// WriteOnlyOp performs one attempt of a write-only exchange.
type WriteOnlyOp func() error

// AsDDCErr is the exported form of asDDCErr for other packages (namely
// multipart) that implement their own retry-shaped loops.
func AsDDCErr(err error) *ddcerr.Error {
	return asDDCErr(err)
}

func asDDCErr(err error) *ddcerr.Error {
	if de, ok := err.(*ddcerr.Error); ok {
		return de
	}
	return ddcerr.Wrap(ddcerr.KindTransportOther, err)
}

// WriteRead retries op up to rt's configured max for class, applying
// the retryable() policy for tk. allZeroResponseOk is the VCP facade's
// flag (true when an all-zero reply is an expected, non-error outcome
// for this particular call, e.g. some monitors legitimately return all
// zero for a handful of features).
func WriteRead(rt *ddcctx.Runtime, class ddcctx.Class, tk transport.Kind, allZeroResponseOk bool, op WriteReadOp) (*packet.Packet, error) {
	max := rt.RetryMax(class)
	allAttemptsAllZero := true

	var lastErr *ddcerr.Error
	tries := 0
	for try := 1; try <= max; try++ {
		tries = try
		resp, err := op()
		if err == nil {
			rt.Stats().RecordOutcome(class, try, nil)
			return resp, nil
		}

		derr := asDDCErr(err)
		if derr.Kind != ddcerr.KindReadAllZero {
			allAttemptsAllZero = false
		}
		if !retryable(derr.Kind, tk, allZeroResponseOk) {
			terminal := derr.WithTryCount(try)
			rt.Stats().RecordOutcome(class, try, terminal)
			return nil, terminal
		}
		lastErr = derr
	}

	kind := ddcerr.KindRetries
	if allAttemptsAllZero {
		kind = ddcerr.KindAllTriesZero
	}
	terminal := ddcerr.New(kind).WithTryCount(tries)
	terminal.Cause = lastErr
	rt.Stats().RecordOutcome(class, tries, terminal)
	return nil, terminal
}

// WriteOnly retries a write-only op the same way, minus the
// all-zero-response tracking (there is no read to classify).
func WriteOnly(rt *ddcctx.Runtime, class ddcctx.Class, tk transport.Kind, op WriteOnlyOp) error {
	max := rt.RetryMax(class)
	var lastErr *ddcerr.Error
	tries := 0
	for try := 1; try <= max; try++ {
		tries = try
		err := op()
		if err == nil {
			rt.Stats().RecordOutcome(class, try, nil)
			return nil
		}
		derr := asDDCErr(err)
		if !retryable(derr.Kind, tk, false) {
			terminal := derr.WithTryCount(try)
			rt.Stats().RecordOutcome(class, try, terminal)
			return terminal
		}
		lastErr = derr
	}
	terminal := ddcerr.New(ddcerr.KindRetries).WithTryCount(tries)
	terminal.Cause = lastErr
	rt.Stats().RecordOutcome(class, tries, terminal)
	return terminal
}
