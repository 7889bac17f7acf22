// Package ddcconfig loads the optional YAML defaults file for the
// process-wide runtime tunables. It reads one path (the --config value,
// or ~/.config/ddctl/config.yaml) and falls back to built-in defaults
// when that file does not exist.
package ddcconfig

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/n5dux/ddctl/internal/ddcctx"
)

// Config is the on-disk, optional process-wide defaults file shape.
type Config struct {
	// Strategy is "ioctl" or "bytestream"; unset or unrecognized
	// values fall back to the built-in Runtime default.
	Strategy string `yaml:"strategy"`

	RetryMax struct {
		WriteOnly int `yaml:"write_only"`
		WriteRead int `yaml:"write_read"`
		MultiPart int `yaml:"multi_part"`
	} `yaml:"retry_max"`

	// SleepMultiplier scales every built-in phase duration; 0 or
	// unset means 1.0 (no change).
	SleepMultiplier float64 `yaml:"sleep_multiplier"`

	VerifyOnSet bool `yaml:"verify_on_set"`
}

// defaultPath is ~/.config/ddctl/config.yaml, resolved lazily so
// tests never depend on the real home directory unless they choose
// to.
func defaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.config/ddctl/config.yaml"
}

// Load reads path (or the default location when path is empty) and
// returns the parsed Config. A missing file is not an error: it
// returns a zero Config, which Apply treats as "use every built-in
// default".
func Load(path string) (Config, error) {
	if path == "" {
		path = defaultPath()
	}
	if path == "" {
		return Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Apply pushes a loaded Config's non-zero fields onto rt, leaving the
// Runtime's built-in defaults in place for anything the file didn't
// set.
func Apply(cfg Config, rt *ddcctx.Runtime) {
	switch cfg.Strategy {
	case "ioctl":
		rt.SetStrategy(ddcctx.StrategyIoctl)
	case "bytestream":
		rt.SetStrategy(ddcctx.StrategyByteStream)
	}

	if cfg.RetryMax.WriteOnly > 0 {
		rt.SetRetryMax(ddcctx.ClassWriteOnly, cfg.RetryMax.WriteOnly)
	}
	if cfg.RetryMax.WriteRead > 0 {
		rt.SetRetryMax(ddcctx.ClassWriteRead, cfg.RetryMax.WriteRead)
	}
	if cfg.RetryMax.MultiPart > 0 {
		rt.SetRetryMax(ddcctx.ClassMultiPart, cfg.RetryMax.MultiPart)
	}

	if cfg.SleepMultiplier > 0 && cfg.SleepMultiplier != 1.0 {
		for i := 0; i < ddcctx.NumPhases; i++ {
			p := ddcctx.Phase(i)
			scaled := float64(rt.SleepDuration(p)) * cfg.SleepMultiplier
			rt.SetSleepDuration(p, time.Duration(scaled))
		}
	}

	if cfg.VerifyOnSet {
		rt.SetVerifyOnSet(true)
	}
}
