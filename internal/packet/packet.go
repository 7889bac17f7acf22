// Package packet builds and parses DDC/CI frames: the length/opcode/
// payload/checksum structure carried over whichever transport.
//
// A packet's checksum is the XOR of every byte starting from a
// transport-neutral pseudo source-address seed that differs by
// direction: 0x6e for a host-to-monitor request, 0x50 for a
// monitor-to-host reply (a long-standing quirk of the VESA standard
// that every real implementation has to reproduce to interoperate).
// The seed byte itself is never transmitted on I2C, since the kernel
// driver supplies the slave address out of band, but it is always
// part of the checksum computation, and the adapter transport does
// transmit it as a literal leading byte.
package packet

import "github.com/n5dux/ddctl/internal/ddcerr"

// Opcode identifies a DDC/CI packet kind by its one-byte opcode field.
type Opcode byte

const (
	OpVCPRequest       Opcode = 0x01
	OpVCPReply         Opcode = 0x02
	OpVCPSet           Opcode = 0x03
	OpTimingRequest    Opcode = 0x07
	OpTimingReply      Opcode = 0x08
	OpVCPReset         Opcode = 0x09
	OpSaveSettings     Opcode = 0x0c
	OpSelfTestRequest  Opcode = 0xb0
	OpSelfTestReply    Opcode = 0xb1
	OpIDRequest        Opcode = 0xf1
	OpIDReply          Opcode = 0xe1
	OpCapabilityReqest Opcode = 0xf3
	OpCapabilityReply  Opcode = 0xe3
	OpTableReadRequest Opcode = 0xe2
	OpTableReadReply   Opcode = 0xe4
	OpTableWrite       Opcode = 0xe7
)

// Direction selects the checksum seed: HostToMonitor for packets this
// process builds and sends, MonitorToHost for packets it parses on
// receive.
type Direction int

const (
	HostToMonitor Direction = iota
	MonitorToHost
)

const (
	hostSeed    byte = 0x6e
	monitorSeed byte = 0x50

	// MonitorReplyAddr and HostRequestAddr are the literal source-
	// address bytes a vendor-adapter transport prepends when it wants
	// a fully assembled frame (the DDC/CI protocol, "submits pre-assembled
	// DDC frames including the pseudo-address").
	HostRequestAddr byte = 0x6e
	MonitorReplyAddr byte = 0x6f

	lengthHighBit byte = 0x80

	// MaxPayload bounds a single non-fragmented packet's payload; VCP
	// and capability fragments are always small, but table writes can
	// carry up to this many bytes per chunk.
	MaxPayload = 35
)

func seedFor(dir Direction) byte {
	if dir == MonitorToHost {
		return monitorSeed
	}
	return hostSeed
}

func addrFor(dir Direction) byte {
	if dir == MonitorToHost {
		return MonitorReplyAddr
	}
	return HostRequestAddr
}

// Packet is a parsed or about-to-be-built DDC/CI frame.
type Packet struct {
	Direction Direction
	Opcode    Opcode
	Payload   []byte
}

func checksum(seed byte, lengthByte, opcode byte, payload []byte) byte {
	cs := seed ^ lengthByte ^ opcode
	for _, b := range payload {
		cs ^= b
	}
	return cs
}

// Bytes encodes the packet for transport. When includeAddress is true
// the literal pseudo source-address byte is prepended (the adapter
// transport's convention); when false the caller gets the
// length/opcode/payload/checksum frame the I2C transport actually
// writes to the file descriptor, with the slave address supplied by
// the kernel instead.
func (p *Packet) Bytes(includeAddress bool) []byte {
	lengthByte := lengthHighBit | byte(len(p.Payload)+1)
	cs := checksum(seedFor(p.Direction), lengthByte, byte(p.Opcode), p.Payload)

	out := make([]byte, 0, len(p.Payload)+4)
	if includeAddress {
		out = append(out, addrFor(p.Direction))
	}
	out = append(out, lengthByte, byte(p.Opcode))
	out = append(out, p.Payload...)
	out = append(out, cs)
	return out
}

// NullMessage is the DDC Null Message some monitors send in place of
// the standard unsupported-feature bit.
var NullMessage = []byte{0x6f, 0x6e, 0x80, 0xbe}

// IsNullMessage reports whether raw is exactly the DDC Null Message,
// with or without its own leading pseudo-address byte stripped (the
// I2C transport never transmits 0x6f on the wire, but the exchange
// engine compares against the same four bytes the adapter transport
// would return).
func IsNullMessage(raw []byte) bool {
	if len(raw) == len(NullMessage) {
		return bytesEqual(raw, NullMessage)
	}
	if len(raw) == len(NullMessage)-1 {
		return bytesEqual(raw, NullMessage[1:])
	}
	return false
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// IsAllZero reports whether every byte of raw is 0x00.
func IsAllZero(raw []byte) bool {
	for _, b := range raw {
		if b != 0 {
			return false
		}
	}
	return len(raw) > 0
}

// ParseTypedResponse validates and decodes a raw reply buffer. raw may
// or may not carry a leading pseudo-address byte; both the I2C
// transport's stripped form and the adapter transport's full form are
// accepted, distinguished by hasAddr.
//
// Validation order matches the DDC/CI protocol: length byte high bit, then
// checksum, then opcode, then (when expectedSubtype is non-negative)
// the echoed feature/table code.
func ParseTypedResponse(raw []byte, hasAddr bool, expectedOpcode Opcode, expectedSubtype int) (*Packet, error) {
	body := raw
	if hasAddr {
		if len(body) < 1 {
			return nil, ddcerr.New(ddcerr.KindDDCData)
		}
		body = body[1:]
	}
	if len(body) < 3 {
		return nil, ddcerr.New(ddcerr.KindDDCData)
	}
	lengthByte := body[0]
	if lengthByte&lengthHighBit == 0 {
		return nil, ddcerr.New(ddcerr.KindDDCData)
	}
	n := int(lengthByte &^ lengthHighBit)
	if n < 1 || len(body) < 1+n+1 {
		return nil, ddcerr.New(ddcerr.KindDDCData)
	}
	opcode := Opcode(body[1])
	payload := body[2 : 1+n]
	gotChecksum := body[1+n]

	wantChecksum := checksum(seedFor(MonitorToHost), lengthByte, byte(opcode), payload)
	if gotChecksum != wantChecksum {
		return nil, ddcerr.New(ddcerr.KindDDCData)
	}
	if opcode != expectedOpcode {
		return nil, ddcerr.New(ddcerr.KindDDCData)
	}
	if expectedSubtype >= 0 {
		if len(payload) < 1 || int(payload[0]) != expectedSubtype {
			return nil, ddcerr.New(ddcerr.KindDDCData)
		}
	}

	return &Packet{Direction: MonitorToHost, Opcode: opcode, Payload: payload}, nil
}

// HIDReportSize is the fixed length of an opcode-indexed HID report
// (see HIDBytes), padded out regardless of how much payload a given
// request or reply actually carries.
const HIDReportSize = 2 + MaxPayload

// HIDBytes encodes the packet as an opcode-indexed HID report rather
// than a raw I2C frame: the report ID is the opcode byte itself,
// followed by a payload-length byte and the payload, zero-padded to
// HIDReportSize. HID reports carry no DDC/CI checksum; the USB
// transfer itself already guarantees the bytes weren't corrupted in
// flight, which is what frees this path from the length/checksum
// dance Bytes does for I2C and the adapter transport.
func (p *Packet) HIDBytes() []byte {
	out := make([]byte, HIDReportSize)
	out[0] = byte(p.Opcode)
	out[1] = byte(len(p.Payload))
	copy(out[2:], p.Payload)
	return out
}

// ParseHIDReport decodes an opcode-indexed HID report into a Packet.
// The report ID must equal expectedOpcode; when expectedSubtype is
// non-negative the payload's leading byte must equal it too.
func ParseHIDReport(raw []byte, expectedOpcode Opcode, expectedSubtype int) (*Packet, error) {
	if len(raw) < 2 {
		return nil, ddcerr.New(ddcerr.KindDDCData)
	}
	opcode := Opcode(raw[0])
	if opcode != expectedOpcode {
		return nil, ddcerr.New(ddcerr.KindDDCData)
	}
	n := int(raw[1])
	if n < 0 || len(raw) < 2+n {
		return nil, ddcerr.New(ddcerr.KindDDCData)
	}
	payload := append([]byte(nil), raw[2:2+n]...)
	if expectedSubtype >= 0 {
		if len(payload) < 1 || int(payload[0]) != expectedSubtype {
			return nil, ddcerr.New(ddcerr.KindDDCData)
		}
	}
	return &Packet{Direction: MonitorToHost, Opcode: opcode, Payload: payload}, nil
}

// BuildVCPRequest builds a VCP feature-value request packet for
// feature code.
func BuildVCPRequest(feature byte) *Packet {
	return &Packet{Direction: HostToMonitor, Opcode: OpVCPRequest, Payload: []byte{feature}}
}

// BuildVCPSet builds a VCP set packet writing valueHigh/valueLow (the
// two-byte big-endian new value) to feature.
func BuildVCPSet(feature byte, valueHigh, valueLow byte) *Packet {
	return &Packet{Direction: HostToMonitor, Opcode: OpVCPSet, Payload: []byte{feature, valueHigh, valueLow}}
}

// BuildVCPReset builds a VCP reset-to-factory-defaults packet. A
// non-zero feature resets just that feature; zero resets everything.
func BuildVCPReset(feature byte) *Packet {
	return &Packet{Direction: HostToMonitor, Opcode: OpVCPReset, Payload: []byte{feature}}
}

// BuildSaveSettings builds a "commit current settings to NVRAM" packet.
func BuildSaveSettings() *Packet {
	return &Packet{Direction: HostToMonitor, Opcode: OpSaveSettings, Payload: nil}
}

// BuildCapabilitiesRequest builds a capabilities-string fragment
// request for the given 16-bit offset.
func BuildCapabilitiesRequest(offset uint16) *Packet {
	return &Packet{
		Direction: HostToMonitor,
		Opcode:    OpCapabilityReqest,
		Payload:   []byte{byte(offset >> 8), byte(offset)},
	}
}

// BuildTableReadRequest builds a table-feature fragment read request.
func BuildTableReadRequest(feature byte, offset uint16) *Packet {
	return &Packet{
		Direction: HostToMonitor,
		Opcode:    OpTableReadRequest,
		Payload:   []byte{feature, byte(offset >> 8), byte(offset)},
	}
}

// BuildTableWrite builds a table-feature fragment write request,
// carrying at most MaxPayload-3 bytes of data.
func BuildTableWrite(feature byte, offset uint16, data []byte) *Packet {
	payload := make([]byte, 0, 3+len(data))
	payload = append(payload, feature, byte(offset>>8), byte(offset))
	payload = append(payload, data...)
	return &Packet{Direction: HostToMonitor, Opcode: OpTableWrite, Payload: payload}
}

// NonTableValue is a parsed VCP reply for a continuous or
// non-continuous feature.
type NonTableValue struct {
	Feature byte
	Result  byte // 0 = success (the monitor calls this 0x00); non-zero = unsupported-style result byte
	MaxHigh byte
	MaxLow  byte
	CurHigh byte
	CurLow  byte
}

func (v NonTableValue) Max() uint16 { return uint16(v.MaxHigh)<<8 | uint16(v.MaxLow) }
func (v NonTableValue) Cur() uint16 { return uint16(v.CurHigh)<<8 | uint16(v.CurLow) }

// DecodeVCPReply extracts a NonTableValue from a parsed VCP reply
// packet's payload (result, feature, type, max-high, max-low,
// cur-high, cur-low). The type byte is not decoded.
func DecodeVCPReply(p *Packet) (NonTableValue, error) {
	if len(p.Payload) < 7 {
		return NonTableValue{}, ddcerr.New(ddcerr.KindDDCData)
	}
	return NonTableValue{
		Result:  p.Payload[0],
		Feature: p.Payload[1],
		MaxHigh: p.Payload[3],
		MaxLow:  p.Payload[4],
		CurHigh: p.Payload[5],
		CurLow:  p.Payload[6],
	}, nil
}

// Fragment is a decoded capabilities- or table-read reply: the offset
// the monitor echoed back, and the payload bytes at that offset.
type Fragment struct {
	Offset uint16
	Data   []byte
}

// DecodeCapabilitiesFragment extracts a Fragment from a parsed
// capabilities reply packet (offset-high, offset-low, data...).
func DecodeCapabilitiesFragment(p *Packet) (Fragment, error) {
	if len(p.Payload) < 2 {
		return Fragment{}, ddcerr.New(ddcerr.KindDDCData)
	}
	offset := uint16(p.Payload[0])<<8 | uint16(p.Payload[1])
	return Fragment{Offset: offset, Data: append([]byte(nil), p.Payload[2:]...)}, nil
}

// DecodeTableReadFragment extracts a Fragment from a parsed table-read
// reply packet (result, offset-high, offset-low, data...). The result
// byte mirrors the VCP reply's unsupported-feature signaling.
func DecodeTableReadFragment(p *Packet) (Fragment, byte, error) {
	if len(p.Payload) < 3 {
		return Fragment{}, 0, ddcerr.New(ddcerr.KindDDCData)
	}
	result := p.Payload[0]
	offset := uint16(p.Payload[1])<<8 | uint16(p.Payload[2])
	return Fragment{Offset: offset, Data: append([]byte(nil), p.Payload[3:]...)}, result, nil
}
