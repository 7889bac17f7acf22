package main

import (
	"fmt"
	"runtime"
	"time"

	"github.com/lestrrat-go/strftime"

	"github.com/n5dux/ddctl/internal/ddcctx"
	"github.com/n5dux/ddctl/internal/registry"
)

// cmdEnvironment is the "environment"/"interrogate" diagnostic dump: a
// snapshot of the process configuration and whatever displays
// detection finds, always exiting 0 per the CLI surface table, since a
// diagnostic dump succeeding at reporting "nothing found" is not
// itself a failure.
func cmdEnvironment(reg *registry.Registry, rt *ddcctx.Runtime, args []string) int {
	ts, _ := strftime.Format("%Y-%m-%d %H:%M:%S", time.Now())
	fmt.Printf("ddctl environment report (%s)\n", ts)
	fmt.Printf("  go runtime: %s / %s\n", runtime.Version(), runtime.GOOS)
	fmt.Printf("  I/O strategy: %v\n", rt.Strategy())
	fmt.Printf("  verify-on-set: %v\n", rt.VerifyOnSet())

	for c := ddcctx.ClassWriteOnly; c <= ddcctx.ClassMultiPart; c++ {
		fmt.Printf("  retry max (%s): %d\n", c, rt.RetryMax(c))
	}

	classes, sleep := rt.Stats().Snapshot()
	for c := ddcctx.ClassWriteOnly; c <= ddcctx.ClassMultiPart; c++ {
		snap := classes[c]
		fmt.Printf("  outcomes (%s): failures=%d successes-by-try=%v\n", c, snap.Failures, snap.SuccessByTry)
	}
	fmt.Printf("  sleeps: calls=%d requested=%v elapsed=%v\n", sleep.Calls, sleep.RequestedTotal, sleep.ElapsedTotal)

	refs, err := reg.References()
	if err != nil {
		fmt.Printf("  detection failed: %v\n", err)
		return exitSuccess
	}
	fmt.Printf("  displays detected: %d\n", len(refs))
	for _, ref := range refs {
		fmt.Printf("    - %v display=%d monitor=%v\n", ref.Coordinates().Kind, ref.DisplayNumber(), ref.Flags().Has(registry.FlagIsMonitor))
	}
	return exitSuccess
}
