package registry

import (
	"sync"

	"github.com/n5dux/ddctl/internal/ddcctx"
	"github.com/n5dux/ddctl/internal/ddcerr"
	"github.com/n5dux/ddctl/internal/exchange"
	"github.com/n5dux/ddctl/internal/packet"
	"github.com/n5dux/ddctl/internal/retry"
	"github.com/n5dux/ddctl/internal/transport"
)

// featureBrightness and featureNullProbe are the two VCP feature codes
// the initial checks probe with.
const (
	featureBrightness = 0x10
	featureNullProbe  = 0x00
	featureMCCSVer    = 0xdf
)

// bus and hid enumerators are the seams the linux/non-linux enumerate
// files fill in with udev-backed and stub implementations
// respectively.
type busEnumerator interface {
	I2CBuses() ([]int, error)
}

type hidEnumerator interface {
	HIDPaths() ([]string, error)
}

// adapterEnumerator mirrors transport.AdapterOpener's NumDisplays,
// kept as an interface so tests can substitute a fake with nonzero
// displays without a real vendor library.
type adapterEnumerator interface {
	NumDisplays() int
}

// Registry is the process-wide cache of detected displays, per
// the DDC/CI protocol Detect populates it once; subsequent calls are no-ops.
type Registry struct {
	rt *ddcctx.Runtime

	i2cOpener     transport.Opener
	adapterOpener transport.Opener
	hidOpener     transport.Opener

	buses   busEnumerator
	hids    hidEnumerator
	adapter adapterEnumerator

	mu       sync.Mutex
	detected bool
	refs     []*Reference
}

// New builds a Registry wired to the real Linux/stub transports and
// enumerators. Callers normally want this; NewWithDeps exists for
// tests that want to substitute fakes.
func New(rt *ddcctx.Runtime) *Registry {
	return NewWithDeps(rt, transport.I2COpener{}, transport.AdapterOpener{}, transport.HIDOpener{},
		defaultBusEnumerator{}, defaultHIDEnumerator{}, transport.AdapterOpener{})
}

func NewWithDeps(rt *ddcctx.Runtime, i2cOpener, adapterOpener, hidOpener transport.Opener,
	buses busEnumerator, hids hidEnumerator, adapter adapterEnumerator) *Registry {
	return &Registry{
		rt:            rt,
		i2cOpener:     i2cOpener,
		adapterOpener: adapterOpener,
		hidOpener:     hidOpener,
		buses:         buses,
		hids:          hids,
		adapter:       adapter,
	}
}

// Detect runs the the DDC/CI protocol detection algorithm exactly once;
// subsequent calls return immediately. It is safe to call
// concurrently.
func (reg *Registry) Detect() error {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.detected {
		return nil
	}

	var refs []*Reference

	buses, err := reg.buses.I2CBuses()
	if err != nil {
		reg.rt.Logger.Debug("i2c bus enumeration failed", "err", err)
		buses = nil
	}
	for _, bus := range buses {
		edid, err := transport.ReadEDID(bus)
		if err != nil {
			continue
		}
		mfg, model, serial := parseEDIDIdentity(edid)
		refs = append(refs, &Reference{
			coords: transport.Coordinates{Kind: transport.KindI2C, I2CBusNumber: bus},
			edid:   edid,
			mfg:    mfg,
			model:  model,
			serial: serial,
		})
	}

	for i := 0; i < reg.adapter.NumDisplays(); i++ {
		refs = append(refs, &Reference{
			coords: transport.Coordinates{Kind: transport.KindAdapter, AdapterIndex: 0, DisplayIndex: i},
		})
	}

	hidPaths, err := reg.hids.HIDPaths()
	if err != nil {
		reg.rt.Logger.Debug("hid enumeration failed", "err", err)
		hidPaths = nil
	}
	for i, path := range hidPaths {
		refs = append(refs, &Reference{
			coords: transport.Coordinates{Kind: transport.KindUSB, HIDPath: path},
			detail: &hidDetail{number: i, path: path},
		})
	}

	hasAdapterRef := false
	for _, ref := range refs {
		if ref.coords.Kind == transport.KindAdapter {
			hasAdapterRef = true
			break
		}
	}

	if len(refs) >= 3 && !hasAdapterRef {
		var wg sync.WaitGroup
		for _, ref := range refs {
			wg.Add(1)
			go func(ref *Reference) {
				defer wg.Done()
				reg.runInitialChecks(ref)
			}(ref)
		}
		wg.Wait()
	} else {
		for _, ref := range refs {
			reg.runInitialChecks(ref)
		}
	}

	next := 1
	for _, ref := range refs {
		if ref.Flags().Has(FlagDDCWorking) {
			ref.setDisplayNumber(next)
			next++
		} else {
			ref.setDisplayNumber(-1)
		}
	}

	reg.refs = refs
	reg.detected = true
	return nil
}

// runInitialChecks opens ref's transport once, runs the communication
// check, the null-response convention check, and the MCCS version
// query, and closes the transport again. It is
// idempotent per-Reference via the flag bits it sets, but Detect only
// ever calls it once per freshly-created Reference, so the idempotence
// guard is belt-and-braces rather than load-bearing here.
func (reg *Registry) runInitialChecks(ref *Reference) {
	if ref.Flags().Has(FlagDDCChecked) {
		return
	}

	h, err := reg.openTransport(ref.Coordinates())
	if err != nil {
		ref.markDDCChecked(false)
		return
	}
	defer h.Close()

	tk := h.Kind()

	working := false
	_, err = retry.WriteRead(reg.rt, ddcctx.ClassWriteRead, tk, false, func() (*packet.Packet, error) {
		req := packet.BuildVCPRequest(featureBrightness)
		return exchange.WriteRead(h, reg.rt, req, 2+packet.MaxPayload, packet.OpVCPReply, -1)
	})
	switch {
	case err == nil:
		// Success: the monitor answered, whatever the VCP result byte says.
		working = true
	default:
		if de, ok := err.(*ddcerr.Error); ok {
			switch de.Kind {
			case ddcerr.KindNullResponse, ddcerr.KindAllTriesZero:
				// Reported unsupported (DDC Null Message) or
				// determined unsupported (persistent all-zero reply)
				// both still prove DDC/CI communication works.
				working = true
			}
		}
	}
	ref.markDDCChecked(working)
	if !working {
		return
	}
	ref.markIsMonitor()

	usesNull := false
	_, err = retry.WriteRead(reg.rt, ddcctx.ClassWriteRead, tk, false, func() (*packet.Packet, error) {
		req := packet.BuildVCPRequest(featureNullProbe)
		return exchange.WriteRead(h, reg.rt, req, 2+packet.MaxPayload, packet.OpVCPReply, -1)
	})
	if de, ok := err.(*ddcerr.Error); ok && de.Kind == ddcerr.KindNullResponse {
		usesNull = true
	}
	ref.markNullResponseConvention(usesNull)

	resp, err := retry.WriteRead(reg.rt, ddcctx.ClassWriteRead, tk, false, func() (*packet.Packet, error) {
		req := packet.BuildVCPRequest(featureMCCSVer)
		return exchange.WriteRead(h, reg.rt, req, 2+packet.MaxPayload, packet.OpVCPReply, -1)
	})
	if err == nil {
		if v, decErr := packet.DecodeVCPReply(resp); decErr == nil && v.Feature == featureMCCSVer {
			ref.SetVersion(MCCSVersion{Major: v.CurHigh, Minor: v.CurLow})
		}
	}
}

// openTransport dispatches coords.Kind to the matching Opener.
func (reg *Registry) openTransport(coords transport.Coordinates) (transport.Handle, error) {
	switch coords.Kind {
	case transport.KindI2C:
		return reg.i2cOpener.Open(coords, reg.rt)
	case transport.KindAdapter:
		return reg.adapterOpener.Open(coords, reg.rt)
	case transport.KindUSB:
		return reg.hidOpener.Open(coords, reg.rt)
	default:
		return nil, ddcerr.New(ddcerr.KindInvalidArgument)
	}
}

// References runs Detect if needed and returns the detected list, for
// callers (the CLI's detect subcommand) that want to enumerate rather
// than look up a single display.
func (reg *Registry) References() ([]*Reference, error) {
	if err := reg.Detect(); err != nil {
		return nil, err
	}
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return append([]*Reference(nil), reg.refs...), nil
}

// Lookup translates id to match criteria and linear-scans the
// registry, A direct-coordinate identifier with
// Force set synthesizes a transient, caller-owned Reference (running
// its own initial checks) instead of requiring a prior Detect to have
// found it.
func (reg *Registry) Lookup(id Identifier) (*Reference, error) {
	if id.Force {
		if ref, ok := reg.forceSynthesize(id); ok {
			reg.runInitialChecks(ref)
			ref.owned = true
			return ref, nil
		}
	}

	if err := reg.Detect(); err != nil {
		return nil, err
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	for _, ref := range reg.refs {
		if id.matches(ref) {
			return ref, nil
		}
	}
	return nil, ddcerr.New(ddcerr.KindInvalidDisplay)
}

// forceSynthesize builds a transient Reference directly from an
// identifier's coordinates, without consulting the registry's
// detected list. Only the coordinate-bearing identifier kinds are
// eligible.
func (reg *Registry) forceSynthesize(id Identifier) (*Reference, bool) {
	switch id.kind {
	case ByI2CBus:
		return &Reference{coords: transport.Coordinates{Kind: transport.KindI2C, I2CBusNumber: id.i2cBus}}, true
	case ByAdapterIndex:
		return &Reference{coords: transport.Coordinates{Kind: transport.KindAdapter, AdapterIndex: id.adapterIndex, DisplayIndex: id.displayIndex}}, true
	default:
		return nil, false
	}
}

// Open opens a fresh transport endpoint for ref and wraps it in a
// Handle, "Display Handle".
func (reg *Registry) Open(ref *Reference) (*Handle, error) {
	h, err := reg.openTransport(ref.Coordinates())
	if err != nil {
		return nil, err
	}
	return &Handle{transport: h, ref: ref, rt: reg.rt}, nil
}

// Free releases a Reference synthesized by a forced Lookup. Freeing a
// registry-owned (non-forced) Reference is a caller bug; Free is a
// no-op in that case since the registry still owns it for the process
// lifetime.
func (reg *Registry) Free(ref *Reference) {
	if ref == nil || !ref.owned {
		return
	}
}
