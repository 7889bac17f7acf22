package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/n5dux/ddctl/internal/ddcctx"
	"github.com/n5dux/ddctl/internal/ddcerr"
	"github.com/n5dux/ddctl/internal/packet"
	"github.com/n5dux/ddctl/internal/transport"
)

// fakeHandle scripts a VCP reply per requested feature code, keyed off
// the feature byte BuildVCPRequest/BuildVCPSet always puts first in
// the payload. It is enough to drive the registry's initial checks
// without a real device.
type fakeHandle struct {
	kind        transport.Kind
	responses   map[byte][]byte
	lastFeature byte
}

func (f *fakeHandle) Kind() transport.Kind { return f.kind }

func (f *fakeHandle) Write(frame []byte) error {
	if len(frame) >= 3 {
		f.lastFeature = frame[2]
	}
	return nil
}

func (f *fakeHandle) Read(maxBytes int) ([]byte, error) {
	resp, ok := f.responses[f.lastFeature]
	if !ok {
		return nil, ddcerr.New(ddcerr.KindNoDevice)
	}
	return resp, nil
}

func (f *fakeHandle) Close() error { return nil }

type fakeOpener struct{ h transport.Handle }

func (o fakeOpener) Open(transport.Coordinates, *ddcctx.Runtime) (transport.Handle, error) {
	if o.h == nil {
		return nil, ddcerr.New(ddcerr.KindNoDevice)
	}
	return o.h, nil
}

type fakeBuses struct{ buses []int }

func (f fakeBuses) I2CBuses() ([]int, error) { return f.buses, nil }

type fakeHIDs struct{ paths []string }

func (f fakeHIDs) HIDPaths() ([]string, error) { return f.paths, nil }

type fakeAdapter struct{ n int }

func (f fakeAdapter) NumDisplays() int { return f.n }

func replyWire(feature byte, maxVal, curVal uint16) []byte {
	p := &packet.Packet{
		Direction: packet.MonitorToHost,
		Opcode:    packet.OpVCPReply,
		Payload: []byte{
			0x00, feature, 0x00,
			byte(maxVal >> 8), byte(maxVal),
			byte(curVal >> 8), byte(curVal),
		},
	}
	return p.Bytes(false)
}

// hidReplyWire builds an opcode-indexed HID report reply, the wire
// shape the HID transport's exchange path expects (see
// packet.HIDBytes/ParseHIDReport), as opposed to replyWire's
// checksummed I2C frame.
func hidReplyWire(feature byte, maxVal, curVal uint16) []byte {
	p := &packet.Packet{
		Direction: packet.MonitorToHost,
		Opcode:    packet.OpVCPReply,
		Payload: []byte{
			0x00, feature, 0x00,
			byte(maxVal >> 8), byte(maxVal),
			byte(curVal >> 8), byte(curVal),
		},
	}
	return p.HIDBytes()
}

func workingHIDHandle() *fakeHandle {
	return &fakeHandle{
		kind: transport.KindUSB,
		responses: map[byte][]byte{
			featureBrightness: hidReplyWire(featureBrightness, 100, 50),
			featureNullProbe:  append([]byte(nil), packet.NullMessage[1:]...),
			featureMCCSVer:    hidReplyWire(featureMCCSVer, 0, 0x0201),
		},
	}
}

func TestDetect_HIDDisplayGetsCheckedAndNumbered(t *testing.T) {
	rt := ddcctx.NewRuntime(nil)
	reg := NewWithDeps(rt, fakeOpener{}, fakeOpener{}, fakeOpener{h: workingHIDHandle()},
		fakeBuses{}, fakeHIDs{paths: []string{"/dev/hidraw0"}}, fakeAdapter{})

	refs, err := reg.References()
	require.NoError(t, err)
	require.Len(t, refs, 1)

	ref := refs[0]
	assert.True(t, ref.Flags().Has(FlagDDCChecked))
	assert.True(t, ref.Flags().Has(FlagDDCWorking))
	assert.True(t, ref.Flags().Has(FlagIsMonitor))
	assert.True(t, ref.Flags().Has(FlagNullResponseChecked))
	assert.True(t, ref.Flags().Has(FlagUsesNullResponseForUnsupported))
	assert.Equal(t, 1, ref.DisplayNumber())
	assert.Equal(t, MCCSVersion{Major: 2, Minor: 1}, ref.Version())
}

func TestDetect_IsIdempotent(t *testing.T) {
	rt := ddcctx.NewRuntime(nil)
	reg := NewWithDeps(rt, fakeOpener{}, fakeOpener{}, fakeOpener{h: workingHIDHandle()},
		fakeBuses{}, fakeHIDs{paths: []string{"/dev/hidraw0"}}, fakeAdapter{})

	require.NoError(t, reg.Detect())
	first := reg.refs[0]
	require.NoError(t, reg.Detect())
	assert.True(t, first == reg.refs[0], "a second Detect must not replace the detected references")
}

func TestDetect_BrokenDisplayGetsNegativeNumber(t *testing.T) {
	rt := ddcctx.NewRuntime(nil)
	broken := &fakeHandle{kind: transport.KindUSB, responses: map[byte][]byte{}}
	reg := NewWithDeps(rt, fakeOpener{}, fakeOpener{}, fakeOpener{h: broken},
		fakeBuses{}, fakeHIDs{paths: []string{"/dev/hidraw0"}}, fakeAdapter{})

	refs, err := reg.References()
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, -1, refs[0].DisplayNumber())
	assert.False(t, refs[0].Flags().Has(FlagDDCWorking))
}

func TestLookup_ByHIDNumber(t *testing.T) {
	rt := ddcctx.NewRuntime(nil)
	reg := NewWithDeps(rt, fakeOpener{}, fakeOpener{}, fakeOpener{h: workingHIDHandle()},
		fakeBuses{}, fakeHIDs{paths: []string{"/dev/hidraw0"}}, fakeAdapter{})

	ref, err := reg.Lookup(ByHIDNumber(0))
	require.NoError(t, err)
	assert.Equal(t, 1, ref.DisplayNumber())

	_, err = reg.Lookup(ByHIDNumber(9))
	require.Error(t, err)
	de, ok := err.(*ddcerr.Error)
	require.True(t, ok)
	assert.Equal(t, ddcerr.KindInvalidDisplay, de.Kind)
}

func TestLookup_ForceBypassesDetect(t *testing.T) {
	rt := ddcctx.NewRuntime(nil)
	h := &fakeHandle{
		kind: transport.KindI2C,
		responses: map[byte][]byte{
			featureBrightness: replyWire(featureBrightness, 100, 50),
			featureNullProbe:  append([]byte(nil), packet.NullMessage[1:]...),
			featureMCCSVer:    replyWire(featureMCCSVer, 0, 0x0201),
		},
	}
	reg := NewWithDeps(rt, fakeOpener{h: h}, fakeOpener{}, fakeOpener{},
		fakeBuses{}, fakeHIDs{}, fakeAdapter{})

	ref, err := reg.Lookup(ByBus(6, true))
	require.NoError(t, err)
	assert.True(t, ref.Flags().Has(FlagDDCWorking))

	reg.mu.Lock()
	detected := reg.detected
	reg.mu.Unlock()
	assert.False(t, detected, "a forced lookup must not trigger a full Detect")
}
