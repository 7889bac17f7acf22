//go:build !debug

package ddcerr

// DebugAssertions is false in every ordinary build. Assert a cheap
// check on this constant rather than calling Assert unconditionally:
// the compiler drops the call entirely when DebugAssertions is false.
const DebugAssertions = false
