//go:build debug

package ddcerr

// DebugAssertions is compiled true only in builds tagged "debug". Assert
// calls are no-ops everywhere else, so invariant checks never run in a
// release build.
const DebugAssertions = true
