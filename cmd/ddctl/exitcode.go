package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/n5dux/ddctl/internal/ddcerr"
)

// Exit codes, mirroring user-visible
// failure categories.
const (
	exitSuccess         = 0
	exitRetries         = 1
	exitUnsupported     = 2
	exitInvalidArgument = 3
)

// exitCodeFor classifies a terminal error from the core into one of
// the CLI's four exit codes and prints a one-line message to stderr.
func exitCodeFor(err error) int {
	if err == nil {
		return exitSuccess
	}

	var de *ddcerr.Error
	if errors.As(err, &de) {
		switch de.Kind {
		case ddcerr.KindRetries, ddcerr.KindAllTriesZero, ddcerr.KindVerify,
			ddcerr.KindBusBusy, ddcerr.KindTransportOther, ddcerr.KindNoDevice,
			ddcerr.KindBadDescriptor, ddcerr.KindPermissionDenied:
			fmt.Fprintf(os.Stderr, "ddctl: %v\n", err)
			return exitRetries
		case ddcerr.KindReportedUnsupported, ddcerr.KindDeterminedUnsupported, ddcerr.KindUnknownFeature:
			fmt.Fprintf(os.Stderr, "ddctl: %v\n", err)
			return exitUnsupported
		case ddcerr.KindInvalidArgument, ddcerr.KindInvalidDisplay, ddcerr.KindUninitialized:
			fmt.Fprintf(os.Stderr, "ddctl: %v\n", err)
			return exitInvalidArgument
		default:
			fmt.Fprintf(os.Stderr, "ddctl: %v\n", err)
			return exitRetries
		}
	}

	fmt.Fprintf(os.Stderr, "ddctl: %v\n", err)
	return exitRetries
}
