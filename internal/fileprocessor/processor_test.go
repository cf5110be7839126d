package fileprocessor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/z80goasm/internal/options"
)

func TestAssembleFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "test.asm")
	output := filepath.Join(dir, "test.bin")

	source := "org 0x0004\nld a,42\nret\n"
	assert.NoError(t, os.WriteFile(input, []byte(source), 0o644))

	opts := options.Program{
		Command: options.Assemble,
		Assembler: options.Assembler{
			Input:  input,
			Output: output,
			Size:   8,
		},
	}
	assert.NoError(t, AssembleFile(log.NewTestLogger(t), opts))

	// the code is placed at its absolute address in the file
	data, err := os.ReadFile(output)
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x00, 0x3E, 0x2A, 0xC9, 0x00}, data)
}

func TestAssembleFileError(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "bad.asm")
	assert.NoError(t, os.WriteFile(input, []byte("jp nowhere\n"), 0o644))

	opts := options.Program{
		Command: options.Assemble,
		Assembler: options.Assembler{
			Input:  input,
			Output: filepath.Join(dir, "bad.bin"),
		},
	}
	assert.Error(t, AssembleFile(log.NewTestLogger(t), opts))
}

func TestDisassembleFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.bin")
	second := filepath.Join(dir, "second.bin")
	output := filepath.Join(dir, "out.asm")

	assert.NoError(t, os.WriteFile(first, []byte{0x3E, 0x2A}, 0o644))
	assert.NoError(t, os.WriteFile(second, []byte{0xC9}, 0o644))

	opts := options.Program{
		Command: options.Disassemble,
		Disassembler: options.Disassembler{
			Inputs: []string{first, second},
			Output: output,
			Start:  0x0100,
			NoDump: true,
		},
	}
	assert.NoError(t, DisassembleFiles(context.Background(), log.NewTestLogger(t), opts))

	data, err := os.ReadFile(output)
	assert.NoError(t, err)
	expected := "org 0x0100\n    ld a, 0x2A\n    ret\n"
	assert.Equal(t, expected, string(data))
}

func TestDisassembleFilesWithConfig(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "data.bin")
	cfgFile := filepath.Join(dir, "cfg.toml")
	output := filepath.Join(dir, "out.asm")

	assert.NoError(t, os.WriteFile(input, []byte{0x41, 0xC9}, 0o644))
	assert.NoError(t, os.WriteFile(cfgFile, []byte("[[data]]\nstart = 0\nend = 0\n"), 0o644))

	opts := options.Program{
		Command: options.Disassemble,
		Disassembler: options.Disassembler{
			Inputs: []string{input},
			Output: output,
			Config: cfgFile,
			NoDump: true,
		},
	}
	assert.NoError(t, DisassembleFiles(context.Background(), log.NewTestLogger(t), opts))

	data, err := os.ReadFile(output)
	assert.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "db 0x41 ; [A]"))
}

func TestDisassembleFilesMissingInput(t *testing.T) {
	opts := options.Program{
		Command: options.Disassemble,
		Disassembler: options.Disassembler{
			Inputs: []string{filepath.Join(t.TempDir(), "missing.bin")},
		},
	}
	assert.Error(t, DisassembleFiles(context.Background(), log.NewTestLogger(t), opts))
}

func TestDisassembleFilesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := options.Program{
		Command: options.Disassemble,
		Disassembler: options.Disassembler{
			Inputs: []string{"unused.bin"},
		},
	}
	err := DisassembleFiles(ctx, log.NewTestLogger(t), opts)
	assert.True(t, err == context.Canceled)
}
