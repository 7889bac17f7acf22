// Package multipart assembles capability strings and table-feature
// values from the sequence of fragments DDC/CI uses for anything
// larger than one reply packet.
package multipart

import (
	"github.com/n5dux/ddctl/internal/ddcctx"
	"github.com/n5dux/ddctl/internal/ddcerr"
	"github.com/n5dux/ddctl/internal/packet"
	"github.com/n5dux/ddctl/internal/retry"
	"github.com/n5dux/ddctl/internal/transport"
)

// Target selects what a multi-part read is fetching: the capabilities
// string, or one table-valued VCP feature.
type Target struct {
	Capabilities bool
	Feature      byte
}

// FragmentFunc performs one attempt at reading the fragment a caller's
// closure has already bound to a specific offset.
type FragmentFunc func() (*packet.Packet, error)

// ReadMulti assembles the full byte buffer for target by issuing an
// increasing sequence of fragment requests via fragmentFor, retrying
// each fragment individually, until a zero-length fragment or maxTotal
// is hit.
//
// Rules:
//   - each fragment exchange gets its own write-read retry (class =
//     multi-part), sleeping the target's inter-fragment phase between
//     retries of the same fragment;
//   - the echoed offset must equal the requested offset, else
//     KindMultiPartFragment;
//   - total accumulated length is bounded by maxTotal;
//   - a run of all-zero fragments across every retry of one fragment
//     collapses that fragment's failure to KindAllTriesZero, same as
//     the plain retry controller;
//   - open question (b) in the DDC/CI protocol: a fragment with non-zero offset
//     and zero length is still treated as end-of-stream.
func ReadMulti(rt *ddcctx.Runtime, tk transport.Kind, target Target, maxTotal int, fragmentFor func(offset uint16) FragmentFunc) ([]byte, error) {
	class := ddcctx.ClassMultiPart
	phase := ddcctx.PhaseTableRetry
	if target.Capabilities {
		phase = ddcctx.PhaseCapabilitiesRetry
	}

	buf := make([]byte, 0, 256)
	var offset uint16

	for {
		frag, err := readFragmentWithRetry(rt, tk, class, phase, target, fragmentFor(offset))
		if err != nil {
			return nil, err
		}
		if frag.Offset != offset {
			return nil, ddcerr.New(ddcerr.KindMultiPartFragment)
		}

		if len(frag.Data) == 0 {
			// Zero-length fragment: end of stream. A monitor that
			// replies with a non-zero offset and zero length still
			// terminates the read here, since we only ever return the
			// bytes already accumulated in buf.
			return buf, nil
		}

		if len(buf)+len(frag.Data) > maxTotal {
			return nil, ddcerr.New(ddcerr.KindInvalidArgument)
		}
		buf = append(buf, frag.Data...)
		offset += uint16(len(frag.Data))
	}
}

// readFragmentWithRetry is the multi-part class's own retry loop: same
// shape as retry.WriteRead, but it sleeps the capabilities/table
// inter-fragment phase before each retry (not before the first
// attempt), which the generic write-read retry loop has no reason to
// do since it has no notion of "the next thing in a sequence".
func readFragmentWithRetry(rt *ddcctx.Runtime, tk transport.Kind, class ddcctx.Class, phase ddcctx.Phase, target Target, op FragmentFunc) (packet.Fragment, error) {
	max := rt.RetryMax(class)
	allAttemptsAllZero := true
	var lastErr *ddcerr.Error

	tries := 0
	for try := 1; try <= max; try++ {
		tries = try
		if try > 1 {
			rt.Sleep(phase)
		}

		resp, err := op()
		if err == nil {
			frag, decErr := decodeFragment(target, resp)
			if decErr != nil {
				rt.Stats().RecordOutcome(class, try, ddcerr.New(ddcerr.KindDDCData))
				return packet.Fragment{}, ddcerr.New(ddcerr.KindDDCData)
			}
			rt.Stats().RecordOutcome(class, try, nil)
			return frag, nil
		}

		derr := retry.AsDDCErr(err)
		if derr.Kind != ddcerr.KindReadAllZero {
			allAttemptsAllZero = false
		}
		if !retry.Retryable(derr.Kind, tk, false) {
			terminal := derr.WithTryCount(try)
			rt.Stats().RecordOutcome(class, try, terminal)
			return packet.Fragment{}, terminal
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
	return packet.Fragment{}, terminal
}

func decodeFragment(target Target, resp *packet.Packet) (packet.Fragment, error) {
	if target.Capabilities {
		return packet.DecodeCapabilitiesFragment(resp)
	}
	frag, _, err := packet.DecodeTableReadFragment(resp)
	return frag, err
}
