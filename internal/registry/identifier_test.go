package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/n5dux/ddctl/internal/transport"
)

func TestIdentifier_Matches(t *testing.T) {
	byNum := &Reference{coords: transport.Coordinates{Kind: transport.KindI2C, I2CBusNumber: 6}}
	byNum.displayNumber = 2

	assert.True(t, ByNumber(2).matches(byNum))
	assert.False(t, ByNumber(3).matches(byNum))

	assert.True(t, ByBus(6, false).matches(byNum))
	assert.False(t, ByBus(7, false).matches(byNum))

	adapterRef := &Reference{coords: transport.Coordinates{Kind: transport.KindAdapter, AdapterIndex: 0, DisplayIndex: 1}}
	assert.True(t, ByAdapter(0, 1, false).matches(adapterRef))
	assert.False(t, ByAdapter(0, 2, false).matches(adapterRef))
	assert.False(t, ByAdapter(0, 1, false).matches(byNum), "kind mismatch must not match")

	identityRef := &Reference{mfg: "ACM", model: "X", serial: "S1"}
	assert.True(t, ByIdentity("ACM", "X", "S1").matches(identityRef))
	assert.False(t, ByIdentity("ACM", "X", "S2").matches(identityRef))

	var edid [128]byte
	edid[0] = 0xff
	edidRef := &Reference{edid: edid}
	assert.True(t, ByEdidBytes(edid).matches(edidRef))
	var other [128]byte
	assert.False(t, ByEdidBytes(other).matches(edidRef))

	usbRef := &Reference{coords: transport.Coordinates{Kind: transport.KindUSB, USBBus: 1, USBDevice: 4}}
	assert.True(t, ByUSBCoords(1, 4).matches(usbRef))
	assert.False(t, ByUSBCoords(1, 5).matches(usbRef))

	hidRef := &Reference{detail: &hidDetail{number: 3, path: "/dev/hidraw3"}}
	assert.True(t, ByHIDNumber(3).matches(hidRef))
	assert.False(t, ByHIDNumber(4).matches(hidRef))
}
