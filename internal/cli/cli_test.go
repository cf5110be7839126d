package cli

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/z80goasm/internal/options"
)

func TestParseFlagsAssemble(t *testing.T) {
	opts, err := ParseFlags([]string{"z80goasm", "asm", "-f", "in.asm", "-o", "out.bin", "-s", "16384"})
	assert.NoError(t, err)
	assert.Equal(t, options.Assemble, opts.Command)
	assert.Equal(t, "in.asm", opts.Assembler.Input)
	assert.Equal(t, "out.bin", opts.Assembler.Output)
	assert.Equal(t, 16384, opts.Assembler.Size)
}

func TestParseFlagsAssembleMissingFiles(t *testing.T) {
	_, err := ParseFlags([]string{"z80goasm", "asm", "-f", "in.asm"})
	var usageErr *UsageError
	assert.True(t, errors.As(err, &usageErr))
}

func TestParseFlagsDisassemble(t *testing.T) {
	opts, err := ParseFlags([]string{
		"z80goasm", "disasm",
		"-i", "a.bin", "-i", "b.bin",
		"-s", "0x8000",
		"-c", "cfg.toml",
		"-n", "-q",
	})
	assert.NoError(t, err)
	assert.Equal(t, options.Disassemble, opts.Command)
	assert.Equal(t, []string{"a.bin", "b.bin"}, opts.Inputs)
	assert.Equal(t, uint16(0x8000), opts.Start)
	assert.Equal(t, "cfg.toml", opts.Disassembler.Config)
	assert.True(t, opts.NoDump)
	assert.True(t, opts.Quiet)
	assert.Equal(t, "", opts.Disassembler.Output)
}

func TestParseFlagsDisassembleDefaults(t *testing.T) {
	opts, err := ParseFlags([]string{"z80goasm", "disasm", "-i", "a.bin"})
	assert.NoError(t, err)
	assert.Equal(t, uint16(0), opts.Start)
	assert.False(t, opts.NoDump)
}

func TestParseFlagsInvalidStart(t *testing.T) {
	_, err := ParseFlags([]string{"z80goasm", "disasm", "-i", "a.bin", "-s", "0x10000"})
	var usageErr *UsageError
	assert.True(t, errors.As(err, &usageErr))

	_, err = ParseFlags([]string{"z80goasm", "disasm", "-i", "a.bin", "-s", "nope"})
	assert.True(t, errors.As(err, &usageErr))
}

func TestParseFlagsUnknownCommand(t *testing.T) {
	_, err := ParseFlags([]string{"z80goasm", "link"})
	var usageErr *UsageError
	assert.True(t, errors.As(err, &usageErr))

	_, err = ParseFlags([]string{"z80goasm"})
	assert.True(t, errors.As(err, &usageErr))
}
