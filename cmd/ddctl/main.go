// Command ddctl is a single CLI binary fronting the DDC/CI display
// registry and VCP value facade, with one binary holding several
// subcommands, closer to how ddcutil itself is shaped.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/n5dux/ddctl/internal/ddcconfig"
	"github.com/n5dux/ddctl/internal/ddcctx"
	"github.com/n5dux/ddctl/internal/ddclog"
	"github.com/n5dux/ddctl/internal/registry"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := pflag.NewFlagSet("ddctl", pflag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "ddctl - control DDC/CI monitors\n\n")
		fmt.Fprintf(os.Stderr, "Usage: ddctl [global flags] <command> [command flags]\n\n")
		fmt.Fprintf(os.Stderr, "Commands: detect, capabilities, getvcp, setvcp, dumpvcp, loadvcp, environment\n\n")
		fs.PrintDefaults()
	}

	verbosity := fs.CountP("verbose", "v", "increase log verbosity")
	configPath := fs.String("config", "", "path to config.yaml (default ~/.config/ddctl/config.yaml)")
	ioctlStrategy := fs.Bool("ioctl", false, "use the I2C_RDWR ioctl transfer strategy")
	verifyOnSet := fs.Bool("verify", false, "verify every setvcp with a follow-up read")

	sel := newSelectorFlags(fs)

	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return exitInvalidArgument
	}

	rest := fs.Args()
	if len(rest) < 1 {
		fs.Usage()
		return exitInvalidArgument
	}
	cmd, cmdArgs := rest[0], rest[1:]

	logger := ddclog.New(os.Stderr, *verbosity)
	rt := ddcctx.NewRuntime(logger)

	cfg, err := ddcconfig.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ddctl: loading config: %v\n", err)
		return exitInvalidArgument
	}
	ddcconfig.Apply(cfg, rt)

	if *ioctlStrategy {
		rt.SetStrategy(ddcctx.StrategyIoctl)
	}
	if *verifyOnSet {
		rt.SetVerifyOnSet(true)
	}

	reg := registry.New(rt)

	switch cmd {
	case "detect":
		return cmdDetect(reg, rt, cmdArgs)
	case "capabilities":
		return cmdCapabilities(reg, rt, sel, cmdArgs)
	case "getvcp":
		return cmdGetVCP(reg, rt, sel, cmdArgs)
	case "setvcp":
		return cmdSetVCP(reg, rt, sel, cmdArgs)
	case "dumpvcp":
		return cmdDumpVCP(reg, rt, sel, cmdArgs)
	case "loadvcp":
		return cmdLoadVCP(reg, rt, sel, cmdArgs)
	case "environment", "interrogate":
		return cmdEnvironment(reg, rt, cmdArgs)
	default:
		fmt.Fprintf(os.Stderr, "ddctl: unknown command %q\n", cmd)
		fs.Usage()
		return exitInvalidArgument
	}
}
