// Package ddcerr defines the closed set of error kinds that flow out of
// the DDC/CI engine. Protocol errors are returned by value, never
// panicked; see Error and Kind.
package ddcerr

import "fmt"

// Kind is one member of the flat, closed error taxonomy: transport/OS
// errors, framing errors, semantic outcomes, and library-use errors.
// New kinds are never added lightly, since the retry controller and
// the CLI both switch on the full set.
type Kind int

const (
	// KindUnknown is the zero value and never returned deliberately.
	KindUnknown Kind = iota

	// Transport/OS errors, surfaced close to verbatim.
	KindBusBusy
	KindBadDescriptor
	KindPermissionDenied
	KindNoDevice
	KindTransportOther

	// Framing errors.
	KindDDCData
	KindNullResponse
	KindReadAllZero
	KindReadEqualsWrite
	KindMultiPartFragment
	KindInvalidEDID

	// Semantic outcomes.
	KindReportedUnsupported
	KindDeterminedUnsupported
	KindRetries
	KindAllTriesZero
	KindVerify

	// Library-use errors.
	KindInvalidArgument
	KindUninitialized
	KindUnknownFeature
	KindInvalidDisplay
)

var kindNames = map[Kind]string{
	KindUnknown:               "unknown",
	KindBusBusy:               "bus busy",
	KindBadDescriptor:         "bad descriptor",
	KindPermissionDenied:      "permission denied",
	KindNoDevice:              "no such device",
	KindTransportOther:        "transport error",
	KindDDCData:               "bad DDC/CI frame",
	KindNullResponse:          "DDC null response",
	KindReadAllZero:           "all-zero response",
	KindReadEqualsWrite:       "response echoed request",
	KindMultiPartFragment:     "multi-part fragment offset mismatch",
	KindInvalidEDID:           "invalid EDID",
	KindReportedUnsupported:   "feature reported unsupported by monitor",
	KindDeterminedUnsupported: "feature determined unsupported",
	KindRetries:               "DDC communication failed, retries exhausted",
	KindAllTriesZero:          "DDC communication failed, all attempts returned zero",
	KindVerify:                "value did not verify after set",
	KindInvalidArgument:       "invalid argument",
	KindUninitialized:         "not initialized",
	KindUnknownFeature:        "unknown VCP feature",
	KindInvalidDisplay:        "invalid display",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "invalid error kind"
}

// Retryable reports whether a bare Kind is ever retryable in principle.
// The retry controller additionally conditions this on transport and
// on all_zero_response_ok; see internal/retry.
func (k Kind) Retryable() bool {
	switch k {
	case KindReadAllZero, KindReadEqualsWrite, KindDDCData, KindBusBusy, KindTransportOther:
		return true
	default:
		return false
	}
}

// Error carries a Kind plus an optional wrapped cause and try-count
// context set by the retry controller on terminal outcomes.
type Error struct {
	Kind     Kind
	Cause    error
	TryCount int // 0 when not applicable
}

func New(kind Kind) *Error {
	return &Error{Kind: kind}
}

func Wrap(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, ddcerr.New(KindRetries)) match on Kind alone,
// ignoring Cause and TryCount.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// WithTryCount returns a copy of e annotated with the number of
// attempts the retry controller made before giving up.
func (e *Error) WithTryCount(n int) *Error {
	cp := *e
	cp.TryCount = n
	return &cp
}

// Assert panics with msg if cond is false, but only in builds tagged
// "debug" (see DebugAssertions). Call sites are invariant checks that
// should never fire in a correctly wired program; leaving them
// compiled out of release builds matches the user-visible failure
// policy, where only ddcerr.Error values cross package boundaries.
func Assert(cond bool, msg string) {
	if DebugAssertions && !cond {
		panic("ddcerr: assertion failed: " + msg)
	}
}
