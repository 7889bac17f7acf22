package main

import (
	"encoding/hex"
	"fmt"

	"github.com/n5dux/ddctl/internal/ddcctx"
	"github.com/n5dux/ddctl/internal/registry"
)

func cmdDetect(reg *registry.Registry, rt *ddcctx.Runtime, args []string) int {
	refs, err := reg.References()
	if err != nil {
		return exitCodeFor(err)
	}

	if len(refs) == 0 {
		fmt.Println("No displays found.")
		return exitSuccess
	}

	for _, ref := range refs {
		n := ref.DisplayNumber()
		coords := ref.Coordinates()
		mfg, model, serial := ref.Identity()
		v := ref.Version()

		status := "DDC communication failed"
		if n > 0 {
			status = fmt.Sprintf("display %d", n)
		}

		fmt.Printf("%s (%s)\n", status, coords.Kind)
		if mfg != "" || model != "" {
			fmt.Printf("    Monitor: %s %s (sn %q)\n", mfg, model, serial)
		}
		if v.Queried() {
			fmt.Printf("    VCP version: %d.%d\n", v.Major, v.Minor)
		}
		edid := ref.EDID()
		fmt.Printf("    EDID: %s\n", hex.EncodeToString(edid[:]))
	}
	return exitSuccess
}
