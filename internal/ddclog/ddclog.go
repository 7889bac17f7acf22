// Package ddclog builds the single process-wide logger handed to
// ddcctx.NewRuntime. Rather than a global "current color" that every
// print statement sets before writing, output goes through one leveled
// logger, and verbosity is a level rather than an on/off debug flag.
package ddclog

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New builds a logger writing to w (os.Stderr in production, a buffer
// in tests) at the given verbosity count: 0 is warnings and above, 1 is
// info, 2+ is debug. This mirrors the CLI's repeatable -v flag.
func New(w io.Writer, verbosity int) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
	})
	switch {
	case verbosity <= 0:
		logger.SetLevel(log.WarnLevel)
	case verbosity == 1:
		logger.SetLevel(log.InfoLevel)
	default:
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// Component returns a child logger of base tagged with a "component"
// field set to name. No package in this repository calls it; the
// core packages log through the Runtime's Logger directly.
func Component(base *log.Logger, name string) *log.Logger {
	return base.With("component", name)
}
