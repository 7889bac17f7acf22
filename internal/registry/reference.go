package registry

import (
	"sync"

	"github.com/n5dux/ddctl/internal/transport"
)

// Flags records the progress of a Reference's one-time initial checks.
// Bits are only ever set, never cleared, except by SetFlagsForTest in
// tests.
type Flags uint8

const (
	FlagDDCChecked Flags = 1 << iota
	FlagDDCWorking
	FlagNullResponseChecked
	FlagUsesNullResponseForUnsupported
	FlagIsMonitor
)

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }

// MCCSVersion is the monitor's negotiated MCCS protocol version, cached
// on the Reference after the registry's version query. Major == 0
// means "unqueried".
type MCCSVersion struct {
	Major, Minor byte
}

func (v MCCSVersion) Queried() bool { return v.Major != 0 }

// Reference is the registry's canonical record for one detected
// display. References are owned by the Registry for
// the process lifetime; a Reference handed to a caller by Lookup is a
// borrow and must not be freed, *unless* it was synthesized by a
// forced lookup (Identifier.Force), in which case the caller owns it
// and must call Registry.Free.
type Reference struct {
	mu sync.RWMutex

	coords transport.Coordinates
	edid   [128]byte

	mfg, model, serial string

	displayNumber int // positive = usable, -1 = detected but DDC not working

	version MCCSVersion
	flags   Flags

	// owned marks a Reference synthesized by a forced direct-coordinate
	// lookup: the caller, not the Registry, is responsible for its
	// lifetime.
	owned bool

	// detail is a transport-specific record (e.g. the udev device path
	// a HID reference was discovered at) opaque to the rest of the
	// registry.
	detail any

	// capabilities caches the raw capability string bytes fetched by
	// the VCP facade, so a second GetCapabilities call is free.
	capabilities []byte
}

// NewReferenceForTest builds a bare Reference at coords, for tests
// that need a Handle/Reference pair without running Detect.
func NewReferenceForTest(coords transport.Coordinates) *Reference {
	return &Reference{coords: coords}
}

// SetFlagsForTest overwrites the flag bits directly, for tests that
// need to exercise a facade's flag-dependent branches (e.g.
// FlagUsesNullResponseForUnsupported) without replaying a full
// initial-checks sequence.
func (r *Reference) SetFlagsForTest(f Flags) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flags = f
}

func (r *Reference) Capabilities() ([]byte, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.capabilities == nil {
		return nil, false
	}
	return r.capabilities, true
}

// CacheCapabilities stores the raw capability-string bytes fetched
// by the VCP facade's GetCapabilities.
func (r *Reference) CacheCapabilities(b []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.capabilities = b
}

func (r *Reference) DisplayNumber() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.displayNumber
}

func (r *Reference) TransportKind() transport.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.coords.Kind
}

func (r *Reference) Coordinates() transport.Coordinates {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.coords
}

func (r *Reference) EDID() [128]byte {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.edid
}

func (r *Reference) Identity() (mfg, model, serial string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.mfg, r.model, r.serial
}

func (r *Reference) Version() MCCSVersion {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

func (r *Reference) SetVersion(v MCCSVersion) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.version = v
}

func (r *Reference) Flags() Flags {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.flags
}

// markDDCChecked records that the communication check ran, and whether
// it concluded DDC is working. Invariant: DDC_WORKING implies
// DDC_CHECKED, enforced by always setting both bits together.
func (r *Reference) markDDCChecked(working bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flags |= FlagDDCChecked
	if working {
		r.flags |= FlagDDCWorking
	}
}

func (r *Reference) markNullResponseConvention(uses bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flags |= FlagNullResponseChecked
	if uses {
		r.flags |= FlagUsesNullResponseForUnsupported
	}
}

func (r *Reference) markIsMonitor() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flags |= FlagIsMonitor
}

// setDisplayNumber enforces the second registry invariant: a positive
// display number may only be assigned when DDC_WORKING is already set.
func (r *Reference) setDisplayNumber(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n > 0 && r.flags&FlagDDCWorking == 0 {
		panic("registry: attempted to assign a positive display number without DDC_WORKING")
	}
	r.displayNumber = n
}

// hidDetail is the transport-specific detail record for a USB/HID
// reference: its registry-assigned sequential index (used by the
// ByHID identifier variant) and the hidraw device path it was
// discovered at.
type hidDetail struct {
	number int
	path   string
}

func (r *Reference) hidDeviceNumber() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if d, ok := r.detail.(*hidDetail); ok {
		return d.number
	}
	return -1
}
