package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/n5dux/ddctl/internal/ddcctx"
	"github.com/n5dux/ddctl/internal/registry"
	"github.com/n5dux/ddctl/internal/vcp"
)

func cmdSetVCP(reg *registry.Registry, rt *ddcctx.Runtime, sel *selectorFlags, args []string) int {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "ddctl: setvcp requires a feature code and a value")
		return exitInvalidArgument
	}
	feature, err := parseFeature(args[0])
	if err != nil {
		return exitCodeFor(err)
	}
	value, err := strconv.ParseUint(args[1], 10, 16)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ddctl: invalid value %q: %v\n", args[1], err)
		return exitInvalidArgument
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

	if err := vcp.SetValue(h, rt, feature, uint16(value)); err != nil {
		return exitCodeFor(err)
	}
	return exitSuccess
}
