package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/n5dux/ddctl/internal/ddcerr"
	"github.com/n5dux/ddctl/internal/registry"
)

// selectorFlags mirrors the Display Identifier variants 1:1.
type selectorFlags struct {
	display int
	bus     int
	adl     string
	usb     string
	mfg     string
	model   string
	sn      string
	edid    string
	force   bool
}

func newSelectorFlags(fs *pflag.FlagSet) *selectorFlags {
	s := &selectorFlags{}
	fs.IntVar(&s.display, "display", 0, "select by registry display number")
	fs.IntVar(&s.bus, "bus", -1, "select by I2C bus number (e.g. --bus 6)")
	fs.StringVar(&s.adl, "adl", "", "select by adapter.display index (e.g. --adl 0.1)")
	fs.StringVar(&s.usb, "usb", "", "select by usb bus.device (e.g. --usb 1.4)")
	fs.StringVar(&s.mfg, "mfg", "", "select by EDID manufacturer ID")
	fs.StringVar(&s.model, "model", "", "select by EDID model name")
	fs.StringVar(&s.sn, "sn", "", "select by EDID serial number")
	fs.StringVar(&s.edid, "edid", "", "select by full 128-byte EDID, hex-encoded")
	fs.BoolVar(&s.force, "force", false, "bypass detection for direct --bus/--adl coordinates")
	return s
}

// resolve turns whichever selector flags were set into a single
// registry.Identifier. Exactly one selector family must be specified;
// the DDC/CI protocol treats an ambiguous or empty selector as an invalid
// argument.
func (s *selectorFlags) resolve() (registry.Identifier, error) {
	set := 0
	var id registry.Identifier

	if s.display != 0 {
		set++
		id = registry.ByNumber(s.display)
	}
	if s.bus >= 0 {
		set++
		id = registry.ByBus(s.bus, s.force)
	}
	if s.adl != "" {
		var a, d int
		if _, err := fmt.Sscanf(s.adl, "%d.%d", &a, &d); err != nil {
			return registry.Identifier{}, ddcerr.Wrap(ddcerr.KindInvalidArgument, err)
		}
		set++
		id = registry.ByAdapter(a, d, s.force)
	}
	if s.usb != "" {
		var b, d int
		if _, err := fmt.Sscanf(s.usb, "%d.%d", &b, &d); err != nil {
			return registry.Identifier{}, ddcerr.Wrap(ddcerr.KindInvalidArgument, err)
		}
		set++
		id = registry.ByUSBCoords(b, d)
	}
	if s.mfg != "" || s.model != "" || s.sn != "" {
		set++
		id = registry.ByIdentity(s.mfg, s.model, s.sn)
	}
	if s.edid != "" {
		raw, err := hex.DecodeString(s.edid)
		if err != nil || len(raw) != 128 {
			return registry.Identifier{}, ddcerr.New(ddcerr.KindInvalidArgument)
		}
		var buf [128]byte
		copy(buf[:], raw)
		set++
		id = registry.ByEdidBytes(buf)
	}

	if set != 1 {
		return registry.Identifier{}, ddcerr.New(ddcerr.KindInvalidArgument)
	}
	return id, nil
}
