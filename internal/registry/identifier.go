// Package registry detects, identifies, opens, and validates displays
// ("Display Identifier", "Display Reference", "Display Handle").
package registry

import "github.com/n5dux/ddctl/internal/transport"

// IdentifierKind tags which of the Display Identifier's variants is
// populated.
type IdentifierKind int

const (
	ByDisplayNumber IdentifierKind = iota
	ByI2CBus
	ByAdapterIndex
	ByMfgModelSerial
	ByEDID
	ByUSB
	ByHID
)

// Identifier describes which display a caller means. It is immutable
// once built; construct one with the By* constructors below.
type Identifier struct {
	kind IdentifierKind

	displayNumber int

	i2cBus int

	adapterIndex int
	displayIndex int

	mfg, model, serial string

	edid [128]byte

	usbBus, usbDevice int

	hidDeviceNumber int

	// Force, when true and the identifier carries direct transport
	// coordinates (bus number, adapter/display index), lets Lookup
	// synthesize a transient Reference bypassing the registry rather
	// than requiring a prior Detect() to have found it. The caller
	// then owns that Reference and must call Registry.Free on it; see
	// registry.go.
	Force bool
}

func ByNumber(n int) Identifier { return Identifier{kind: ByDisplayNumber, displayNumber: n} }

func ByBus(bus int, force bool) Identifier {
	return Identifier{kind: ByI2CBus, i2cBus: bus, Force: force}
}

func ByAdapter(adapterIndex, displayIndex int, force bool) Identifier {
	return Identifier{kind: ByAdapterIndex, adapterIndex: adapterIndex, displayIndex: displayIndex, Force: force}
}

func ByIdentity(mfg, model, serial string) Identifier {
	return Identifier{kind: ByMfgModelSerial, mfg: mfg, model: model, serial: serial}
}

func ByEdidBytes(edid [128]byte) Identifier {
	return Identifier{kind: ByEDID, edid: edid}
}

func ByUSBCoords(bus, device int) Identifier {
	return Identifier{kind: ByUSB, usbBus: bus, usbDevice: device}
}

func ByHIDNumber(n int) Identifier {
	return Identifier{kind: ByHID, hidDeviceNumber: n}
}

// matches reports whether ref satisfies every field the identifier
// specifies; a mismatch on any specified criterion means ref is
// skipped.
func (id Identifier) matches(ref *Reference) bool {
	switch id.kind {
	case ByDisplayNumber:
		return ref.DisplayNumber() == id.displayNumber
	case ByI2CBus:
		c := ref.Coordinates()
		return c.Kind == transport.KindI2C && c.I2CBusNumber == id.i2cBus
	case ByAdapterIndex:
		c := ref.Coordinates()
		return c.Kind == transport.KindAdapter && c.AdapterIndex == id.adapterIndex && c.DisplayIndex == id.displayIndex
	case ByMfgModelSerial:
		mfg, model, serial := ref.Identity()
		return mfg == id.mfg && model == id.model && serial == id.serial
	case ByEDID:
		return ref.EDID() == id.edid
	case ByUSB:
		c := ref.Coordinates()
		return c.Kind == transport.KindUSB && c.USBBus == id.usbBus && c.USBDevice == id.usbDevice
	case ByHID:
		return ref.hidDeviceNumber() == id.hidDeviceNumber
	default:
		return false
	}
}
