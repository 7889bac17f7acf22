// Package ddcctx holds the process-wide, mutable-but-rarely-mutated
// state the DDC/CI engine needs: which I/O strategy the I2C transport
// uses, how long each sleep phase waits, how many tries each retry
// class gets, and the accumulated retry/sleep statistics.
//
// Design note: these are legitimately process-scoped (one running
// ddctl process talks to one set of displays), but they are not held
// in package-level var singletons. They live on a *Runtime value
// created once at startup and threaded explicitly into the transport,
// exchange, and retry layers. That keeps the core testable: a test can
// build an isolated *Runtime with tiny sleep durations and call into
// the same code path production uses.
package ddcctx

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Phase identifies one of the fixed points in an exchange where the
// engine sleeps to give the monitor's DDC/CI microcontroller time to
// react.
type Phase int

const (
	PhasePostOpen Phase = iota
	PhaseWriteToRead
	PhasePostRead
	PhasePostWrite
	PhaseCapabilitiesRetry
	PhaseTableRetry
	numPhases
)

// NumPhases is the exported count of Phase values, for callers (e.g.
// ddcconfig) that need to range over every phase without reaching
// into the package's unexported sentinel.
const NumPhases = int(numPhases)

func (p Phase) String() string {
	switch p {
	case PhasePostOpen:
		return "post-open"
	case PhaseWriteToRead:
		return "write-to-read"
	case PhasePostRead:
		return "post-read"
	case PhasePostWrite:
		return "post-write"
	case PhaseCapabilitiesRetry:
		return "capabilities-retry"
	case PhaseTableRetry:
		return "table-retry"
	default:
		return "unknown-phase"
	}
}

// Class identifies one of the three retry classes, each with its own
// configurable maximum try count.
type Class int

const (
	ClassWriteOnly Class = iota
	ClassWriteRead
	ClassMultiPart
	numClasses
)

func (c Class) String() string {
	switch c {
	case ClassWriteOnly:
		return "write-only"
	case ClassWriteRead:
		return "write-read"
	case ClassMultiPart:
		return "multi-part"
	default:
		return "unknown-class"
	}
}

// Strategy selects how the I2C transport performs a read/write: one
// plain byte stream call per operation, or one I2C_RDWR ioctl per
// operation. The ioctl strategy does not bundle an exchange's write and
// read into a single kernel transfer.
type Strategy int

const (
	StrategyByteStream Strategy = iota
	StrategyIoctl
)

// MaxRetryUpperBound is the absolute ceiling the DDC/CI protocol calls for:
// however a caller configures a class's max tries, it can never exceed
// this.
const MaxRetryUpperBound = 32

// defaultSleepMillis gives each phase a transport-neutral default in
// the 40-200ms range called out in the DDC/CI protocol The I2C transport is
// the slow one (the kernel bus is the bottleneck) so it gets the
// longer end; a future per-transport override could read from here and
// adjust, but no caller currently needs that granularity.
var defaultSleepMillis = [numPhases]int{
	PhasePostOpen:          PhasePostOpenDefaultMillis,
	PhaseWriteToRead:       50,
	PhasePostRead:          40,
	PhasePostWrite:         PhasePostWriteDefaultMillis,
	PhaseCapabilitiesRetry: 200,
	PhaseTableRetry:        200,
}

const (
	PhasePostOpenDefaultMillis  = 100
	PhasePostWriteDefaultMillis = 50
)

var defaultRetryMax = [numClasses]int{
	ClassWriteOnly: 4,
	ClassWriteRead: 4,
	ClassMultiPart: 10,
}

// Runtime bundles the tunables and statistics counters shared by the
// transport, exchange, and retry layers. Construct one with NewRuntime
// and pass it explicitly down through their constructors.
type Runtime struct {
	Logger *log.Logger

	mu          sync.RWMutex
	strategy    Strategy
	sleepTable  [numPhases]time.Duration
	retryMaxima [numClasses]int
	verifyOnSet bool

	stats *Stats
}

// NewRuntime builds a Runtime with the built-in defaults. logger may be
// nil, in which case a logger writing to a discarded sink is used (the
// CLI always supplies a real one; tests usually don't care).
func NewRuntime(logger *log.Logger) *Runtime {
	if logger == nil {
		logger = log.New(nil)
		logger.SetLevel(log.FatalLevel + 1) // effectively silent
	}
	rt := &Runtime{
		Logger: logger,
		stats:  newStats(),
	}
	for p := Phase(0); p < numPhases; p++ {
		rt.sleepTable[p] = time.Duration(defaultSleepMillis[p]) * time.Millisecond
	}
	copy(rt.retryMaxima[:], defaultRetryMax[:])
	return rt
}

func (rt *Runtime) Strategy() Strategy {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.strategy
}

// SetStrategy changes the process-wide I2C I/O strategy. Changing it
// after displays are already open is undefined; callers are expected
// to do this once at startup, before registry detection.
func (rt *Runtime) SetStrategy(s Strategy) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.strategy = s
}

func (rt *Runtime) SleepDuration(p Phase) time.Duration {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.sleepTable[p]
}

func (rt *Runtime) SetSleepDuration(p Phase, d time.Duration) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.sleepTable[p] = d
}

func (rt *Runtime) RetryMax(c Class) int {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.retryMaxima[c]
}

// SetRetryMax sets the maximum try count for a retry class, clamped to
// [1, MaxRetryUpperBound].
func (rt *Runtime) SetRetryMax(c Class, n int) {
	if n < 1 {
		n = 1
	}
	if n > MaxRetryUpperBound {
		n = MaxRetryUpperBound
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.retryMaxima[c] = n
}

func (rt *Runtime) VerifyOnSet() bool {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.verifyOnSet
}

func (rt *Runtime) SetVerifyOnSet(v bool) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.verifyOnSet = v
}

// Sleep blocks for the configured duration of phase p and records the
// call in the process-wide sleep statistics. It is the one suspension
// point every transport operation passes through .
func (rt *Runtime) Sleep(p Phase) {
	d := rt.SleepDuration(p)
	start := time.Now()
	if d > 0 {
		time.Sleep(d)
	}
	elapsed := time.Since(start)
	rt.stats.recordSleep(d, elapsed)
	rt.Logger.Debug("slept", "phase", p, "requested", d, "elapsed", elapsed)
}

// Stats returns the shared statistics accumulator so retry/sleep
// bookkeeping can be recorded and later snapshotted or reset.
func (rt *Runtime) Stats() *Stats {
	return rt.stats
}
