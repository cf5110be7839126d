package disasm

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/z80goasm/internal/assembler"
)

// Assembling a program and disassembling the result must reproduce the
// instruction boundaries and operand values.
func TestRoundTrip(t *testing.T) {
	source := `
        org 0x0100
        start:
        ld a,42
        ld hl,data
        add a,(hl)
        jr nz,start
        ret
        data: db 0xED
    `
	result, err := assembler.New(log.NewTestLogger(t)).Assemble(source)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x0100), result.Origin)

	records := process(t, result.Origin, Config{}, result.Data)

	expected := []string{
		"org 0x0100",
		"ld a, 0x2A",
		"ld hl, 0x0109",
		"add a, (hl)",
		"jr nz, L_0100",
		"ret",
		"db 0xED",
	}
	assert.Equal(t, len(expected), len(records))
	for i, code := range expected {
		assert.Equal(t, code, records[i].Code)
	}
	assert.Equal(t, "L_0100", records[1].Label)
}

// Reassembling the rendered plain output of a disassembly yields the
// original bytes.
func TestRoundTripReassemble(t *testing.T) {
	data := []byte{0x3E, 0x2A, 0x21, 0x09, 0x01, 0x86, 0x20, 0xF8, 0xC9, 0xED}
	records := process(t, 0x0100, Config{}, data)

	source := ""
	for _, rec := range records {
		if rec.Label != "" {
			source += rec.Label + ":\n"
		}
		source += rec.Code + "\n"
	}

	result, err := assembler.New(log.NewTestLogger(t)).Assemble(source)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x0100), result.Origin)
	assert.Equal(t, data, result.Data)
}
