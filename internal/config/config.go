// Package config handles application configuration and setup.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/z80goasm/internal/disasm"
	"github.com/retroenv/z80goasm/internal/program"
)

// CreateLogger creates a logger with appropriate settings.
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// bundle is the on-disk TOML layout of a disassembler configuration.
type bundle struct {
	Data  []dataRange       `toml:"data"`
	Chars map[string]string `toml:"chars"`
}

type dataRange struct {
	Start int64 `toml:"start"`
	End   int64 `toml:"end"`
}

// LoadDisasmConfig reads a disassembler configuration bundle from a
// TOML file. Data ranges use inclusive start and end addresses, the
// chars table overrides single entries of the default display table
// keyed by byte value.
func LoadDisasmConfig(path string) (disasm.Config, error) {
	var cfg disasm.Config

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}

	var b bundle
	if err := toml.Unmarshal(data, &b); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	for _, r := range b.Data {
		if r.Start < 0 || r.End > 0xFFFF || r.Start > r.End {
			return cfg, fmt.Errorf("invalid data range 0x%04X-0x%04X", r.Start, r.End)
		}
		cfg.DataRanges = append(cfg.DataRanges, program.AddressRange{
			Start: uint16(r.Start),
			End:   uint16(r.End),
		})
	}

	if len(b.Chars) > 0 {
		chars := disasm.DefaultCharTable()
		for key, value := range b.Chars {
			index, err := strconv.ParseInt(key, 0, 64)
			if err != nil || index < 0 || index > 255 {
				return cfg, fmt.Errorf("invalid chars table key %q", key)
			}
			chars[index] = value
		}
		cfg.Chars = chars
	}
	return cfg, nil
}
