package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds settings that may be given in a TOML file, like:
//
//	step-budget = 1000000
//	heap-limit = 65536
//	heap-default = 0
//	implicit-end = true
//	timeout = "5s"
//
// Command line flags override anything given in the file.
type Config struct {
	StepBudget  uint     `toml:"step-budget"`
	HeapLimit   uint     `toml:"heap-limit"`
	HeapDefault *int     `toml:"heap-default"`
	ImplicitEnd bool     `toml:"implicit-end"`
	HeapReads   bool     `toml:"heap-reads"`
	Trace       bool     `toml:"trace"`
	Timeout     duration `toml:"timeout"`
}

type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) (err error) {
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// LoadConfig reads a TOML config file; unknown keys are an error, so that
// typos do not go unnoticed.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("cannot load config %v: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("unknown keys in config %v: %v", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

func (cfg Config) options() []VMOption {
	var opts []VMOption
	if cfg.StepBudget != 0 {
		opts = append(opts, WithStepBudget(cfg.StepBudget))
	}
	if cfg.HeapLimit != 0 {
		opts = append(opts, WithHeapLimit(cfg.HeapLimit))
	}
	if cfg.HeapDefault != nil {
		opts = append(opts, WithHeapDefault(*cfg.HeapDefault))
	}
	if cfg.ImplicitEnd {
		opts = append(opts, WithImplicitEnd())
	}
	if cfg.HeapReads {
		opts = append(opts, WithHeapReads())
	}
	return opts
}
