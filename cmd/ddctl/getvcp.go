package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/n5dux/ddctl/internal/ddcctx"
	"github.com/n5dux/ddctl/internal/ddcerr"
	"github.com/n5dux/ddctl/internal/registry"
	"github.com/n5dux/ddctl/internal/vcp"
)

// parseFeature accepts either a bare hex byte ("10") or a "0x"-prefixed
// one.
func parseFeature(s string) (byte, error) {
	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
		s = s[2:]
	}
	n, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, ddcerr.Wrap(ddcerr.KindInvalidArgument, err)
	}
	return byte(n), nil
}

func cmdGetVCP(reg *registry.Registry, rt *ddcctx.Runtime, sel *selectorFlags, args []string) int {
	fs := pflag.NewFlagSet("getvcp", pflag.ContinueOnError)
	nc := fs.Bool("nc", false, "treat the feature as non-continuous")
	table := fs.Bool("table", false, "treat the feature as a table feature")
	if err := fs.Parse(args); err != nil {
		return exitInvalidArgument
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "ddctl: getvcp requires one or more feature codes")
		return exitInvalidArgument
	}
	features := make([]byte, fs.NArg())
	for i, arg := range fs.Args() {
		feature, err := parseFeature(arg)
		if err != nil {
			return exitCodeFor(err)
		}
		features[i] = feature
	}

	vtype := vcp.TypeContinuous
	switch {
	case *table:
		vtype = vcp.TypeTable
	case *nc:
		vtype = vcp.TypeNonContinuous
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

	code := exitSuccess
	for _, feature := range features {
		v, err := vcp.GetValue(h, rt, feature, vtype)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ddctl: VCP %02x: %v\n", feature, err)
			code = exitCodeFor(err)
			continue
		}
		if vtype == vcp.TypeTable {
			fmt.Printf("VCP %02x table (%d bytes): % x\n", feature, len(v.TableData), v.TableData)
		} else {
			fmt.Printf("VCP %02x current value = %5d, max value = %5d\n", feature, v.Current, v.Max)
		}
	}
	return code
}
