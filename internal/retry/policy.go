package retry

import (
	"github.com/n5dux/ddctl/internal/ddcerr"
	"github.com/n5dux/ddctl/internal/transport"
)

// retryable implements the per-error-kind, per-transport retryability
// table. allZeroOK is the caller's "all_zero_response_ok" flag, which
// only changes the answer for KindReadAllZero on the I2C transport: on
// the adapter transport an all-zero reply is always retryable
// regardless of the flag.
//
// KindReadEqualsWrite retries on both transports; see DESIGN.md for
// the reasoning.
//
// Retryable is the exported form of retryable, used directly by the
// multi-part reader, which implements its own retry loop so it can
// interleave the capabilities/table inter-fragment sleep that the
// plain write-read retry loop doesn't need.
func Retryable(kind ddcerr.Kind, tk transport.Kind, allZeroOK bool) bool {
	return retryable(kind, tk, allZeroOK)
}

func retryable(kind ddcerr.Kind, tk transport.Kind, allZeroOK bool) bool {
	switch kind {
	case ddcerr.KindNullResponse:
		return false
	case ddcerr.KindReadAllZero:
		if tk == transport.KindAdapter {
			return true
		}
		return !allZeroOK
	case ddcerr.KindReadEqualsWrite:
		return true
	case ddcerr.KindDDCData:
		return true
	case ddcerr.KindBusBusy:
		return tk != transport.KindAdapter
	case ddcerr.KindBadDescriptor:
		return false
	case ddcerr.KindTransportOther:
		return tk != transport.KindAdapter
	default:
		return false
	}
}
