package packet

import (
	"testing"

	"pgregory.net/rapid"
)

// TestRapid_BytesParseRoundTrip is the packet round-trip invariant from
// the DDC/CI protocol: any packet built with Bytes and parsed back with
// ParseTypedResponse (when addresses are handled consistently) yields
// the same opcode and payload.
func TestRapid_BytesParseRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, MaxPayload).Draw(rt, "payloadLen")
		payload := make([]byte, n)
		for i := range payload {
			payload[i] = byte(rapid.IntRange(0, 255).Draw(rt, "b"))
		}
		opcode := Opcode(rapid.SampledFrom([]byte{
			byte(OpVCPReply), byte(OpTableReadReply), byte(OpCapabilityReply), byte(OpIDReply),
		}).Draw(rt, "opcode"))
		includeAddr := rapid.Bool().Draw(rt, "includeAddr")

		p := &Packet{Direction: MonitorToHost, Opcode: opcode, Payload: payload}
		wire := p.Bytes(includeAddr)

		parsed, err := ParseTypedResponse(wire, includeAddr, opcode, -1)
		if err != nil {
			rt.Fatalf("unexpected parse error: %v", err)
		}
		if parsed.Opcode != opcode {
			rt.Fatalf("opcode mismatch: got %v want %v", parsed.Opcode, opcode)
		}
		if len(parsed.Payload) != len(payload) {
			rt.Fatalf("payload length mismatch: got %d want %d", len(parsed.Payload), len(payload))
		}
		for i := range payload {
			if parsed.Payload[i] != payload[i] {
				rt.Fatalf("payload[%d] mismatch: got %x want %x", i, parsed.Payload[i], payload[i])
			}
		}
	})
}

// TestRapid_ChecksumCoversEveryByte: flipping any single bit anywhere in
// the frame except the checksum byte itself must make the checksum
// invalid.
func TestRapid_ChecksumCoversEveryByte(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, MaxPayload).Draw(rt, "payloadLen")
		payload := make([]byte, n)
		for i := range payload {
			payload[i] = byte(rapid.IntRange(0, 255).Draw(rt, "b"))
		}
		p := &Packet{Direction: MonitorToHost, Opcode: OpVCPReply, Payload: payload}
		wire := p.Bytes(false)

		flipIdx := rapid.IntRange(0, len(wire)-2).Draw(rt, "flipIdx") // never the checksum byte
		wire[flipIdx] ^= 0x01

		if _, err := ParseTypedResponse(wire, false, OpVCPReply, -1); err == nil {
			rt.Fatalf("expected checksum rejection after flipping byte %d", flipIdx)
		}
	})
}
