package ddcctx

import (
	"sync"
	"time"

	"github.com/n5dux/ddctl/internal/ddcerr"
)

// classHistogram tracks, for one retry class, how many exchanges
// succeeded at each try count 1..MaxRetryUpperBound and how many
// ultimately failed.
type classHistogram struct {
	successByTry [MaxRetryUpperBound + 1]uint64 // index 0 unused
	failures     uint64
}

// Stats accumulates the process-wide retry and sleep counters: a
// per-class success-by-try histogram and a sleep-call/duration total.
// All updates are protected by a mutex rather than raw atomics because
// a terminal outcome touches two related fields (histogram bucket,
// optionally failures) that must stay consistent under the parallel
// detection fan-out the registry runs.
type Stats struct {
	mu         sync.Mutex
	byClass    [numClasses]classHistogram
	sleepCalls uint64
	sleepReqMs uint64
	sleepNs    uint64
}

func newStats() *Stats {
	return &Stats{}
}

// RecordOutcome records a terminal retry outcome: success at tryCount,
// or a failure (tryCount is the number of attempts actually made).
func (s *Stats) RecordOutcome(class Class, tryCount int, err *ddcerr.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := &s.byClass[class]
	if err == nil {
		if tryCount >= 1 && tryCount < len(h.successByTry) {
			h.successByTry[tryCount]++
		}
		return
	}
	h.failures++
}

func (s *Stats) recordSleep(requested, elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sleepCalls++
	s.sleepReqMs += uint64(requested.Milliseconds())
	s.sleepNs += uint64(elapsed.Nanoseconds())
}

// ClassSnapshot is a point-in-time copy of one class's histogram,
// safe to read without holding the Stats lock.
type ClassSnapshot struct {
	SuccessByTry map[int]uint64
	Failures     uint64
}

// SleepSnapshot is a point-in-time copy of the sleep counters.
type SleepSnapshot struct {
	Calls          uint64
	RequestedTotal time.Duration
	ElapsedTotal   time.Duration
}

// Snapshot returns a consistent copy of every counter. It never
// mutates state, unlike Reset.
func (s *Stats) Snapshot() (map[Class]ClassSnapshot, SleepSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	classes := make(map[Class]ClassSnapshot, numClasses)
	for c := Class(0); c < numClasses; c++ {
		h := s.byClass[c]
		byTry := make(map[int]uint64)
		for try, n := range h.successByTry {
			if n > 0 {
				byTry[try] = n
			}
		}
		classes[c] = ClassSnapshot{SuccessByTry: byTry, Failures: h.failures}
	}

	sleep := SleepSnapshot{
		Calls:          s.sleepCalls,
		RequestedTotal: time.Duration(s.sleepReqMs) * time.Millisecond,
		ElapsedTotal:   time.Duration(s.sleepNs),
	}
	return classes, sleep
}

// Reset atomically zeroes every counter, "reset on
// demand".
func (s *Stats) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byClass = [numClasses]classHistogram{}
	s.sleepCalls, s.sleepReqMs, s.sleepNs = 0, 0, 0
}
