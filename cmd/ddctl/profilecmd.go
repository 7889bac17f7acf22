package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/n5dux/ddctl/internal/ddcctx"
	"github.com/n5dux/ddctl/internal/ddcerr"
	"github.com/n5dux/ddctl/internal/profile"
	"github.com/n5dux/ddctl/internal/registry"
	"github.com/n5dux/ddctl/internal/vcp"
)

// cmdDumpVCP reads each feature named on the command line from the
// selected display and writes a profile.Dump to stdout.
func cmdDumpVCP(reg *registry.Registry, rt *ddcctx.Runtime, sel *selectorFlags, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "ddctl: dumpvcp requires at least one feature code")
		return exitInvalidArgument
	}
	features := make([]byte, 0, len(args))
	for _, a := range args {
		f, err := parseFeature(a)
		if err != nil {
			return exitCodeFor(err)
		}
		features = append(features, f)
	}

	id, err := sel.resolve()
	if err != nil {
		return exitCodeFor(err)
	}
	ref, err := reg.Lookup(id)
	if err != nil {
		return exitCodeFor(err)
	}
	defer reg.Free(ref)

	h, err := reg.Open(ref)
	if err != nil {
		return exitCodeFor(err)
	}
	defer h.Close()

	mfg, model, serial := ref.Identity()
	edid := ref.EDID()
	v := ref.Version()
	p := profile.Profile{
		EDIDHex:          hex.EncodeToString(edid[:]),
		Manufacturer:     mfg,
		Model:            model,
		Serial:           serial,
		Timestamp:        time.Now(),
		MCCSVersionMajor: v.Major,
		MCCSVersionMinor: v.Minor,
	}

	for _, f := range features {
		val, err := vcp.GetValue(h, rt, f, vcp.TypeContinuous)
		if err != nil {
			return exitCodeFor(err)
		}
		p.Features = append(p.Features, profile.FeatureValue{Feature: f, Value: val.Current})
	}

	if err := profile.Dump(os.Stdout, p); err != nil {
		return exitCodeFor(err)
	}
	return exitSuccess
}

// cmdLoadVCP reads a profile from stdin (or the named file as the sole
// argument) and writes each (feature, value) pair back to the
// selected display.
func cmdLoadVCP(reg *registry.Registry, rt *ddcctx.Runtime, sel *selectorFlags, args []string) int {
	var src *os.File
	switch len(args) {
	case 0:
		src = os.Stdin
	case 1:
		f, err := os.Open(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "ddctl: %v\n", err)
			return exitInvalidArgument
		}
		defer f.Close()
		src = f
	default:
		fmt.Fprintln(os.Stderr, "ddctl: loadvcp takes at most one file argument")
		return exitInvalidArgument
	}

	p, err := profile.Load(src)
	if err != nil {
		return exitCodeFor(ddcerr.Wrap(ddcerr.KindInvalidArgument, err))
	}

	id, err := sel.resolve()
	if err != nil {
		return exitCodeFor(err)
	}
	ref, err := reg.Lookup(id)
	if err != nil {
		return exitCodeFor(err)
	}
	defer reg.Free(ref)

	h, err := reg.Open(ref)
	if err != nil {
		return exitCodeFor(err)
	}
	defer h.Close()

	for _, fv := range p.Features {
		if err := vcp.SetValue(h, rt, fv.Feature, fv.Value); err != nil {
			return exitCodeFor(err)
		}
	}
	return exitSuccess
}
