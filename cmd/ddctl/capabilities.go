package main

import (
	"fmt"

	"github.com/n5dux/ddctl/internal/ddcctx"
	"github.com/n5dux/ddctl/internal/registry"
	"github.com/n5dux/ddctl/internal/vcp"
)

func cmdCapabilities(reg *registry.Registry, rt *ddcctx.Runtime, sel *selectorFlags, args []string) int {
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

	data, err := vcp.GetCapabilities(h, rt)
	if err != nil {
		return exitCodeFor(err)
	}

	fmt.Printf("%s\n", data)
	return exitSuccess
}
