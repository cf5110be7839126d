// Package disasm decodes Z80 machine code into an ordered sequence of
// records, one per instruction or data byte.
//
// Decoding never fails on malformed input: bytes that match no opcode
// degrade to single byte data records, so any buffer disassembles
// completely with every byte consumed by exactly one record.
package disasm

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/z80goasm/internal/program"
	"github.com/retroenv/z80goasm/internal/z80"
)

// Config adjusts the interpretation and presentation of the input.
type Config struct {
	// DataRanges forces all bytes inside the ranges to be decoded as
	// data regardless of opcode table matches.
	DataRanges []program.AddressRange
	// Chars maps byte values to their display representation in data
	// record comments. Nil selects the default ASCII table.
	Chars *CharTable
}

// Disasm disassembles a binary image.
type Disasm struct {
	logger *log.Logger
	cfg    Config
	start  uint16
	data   []byte
}

// New creates a disassembler for the given buffers, which are treated
// as one contiguous image loaded at the start address.
func New(logger *log.Logger, start uint16, cfg Config, buffers ...[]byte) (*Disasm, error) {
	var data []byte
	for _, buf := range buffers {
		data = append(data, buf...)
	}
	if int(start)+len(data) > z80.AddressSpaceSize {
		return nil, fmt.Errorf("%d bytes at address 0x%04X exceed the 64 KiB address space",
			len(data), start)
	}
	if cfg.Chars == nil {
		cfg.Chars = DefaultCharTable()
	}

	return &Disasm{
		logger: logger,
		cfg:    cfg,
		start:  start,
		data:   data,
	}, nil
}

// Process decodes the whole image and returns the record sequence,
// starting with an origin marker pseudo record.
func (d *Disasm) Process() []program.Record {
	records := []program.Record{{
		Address: d.start,
		Code:    fmt.Sprintf("org 0x%04X", d.start),
	}}

	i := 0
	for i < len(d.data) {
		address := d.start + uint16(i)

		if d.forcedData(address) {
			records = append(records, d.dataRecord(address, d.data[i], d.charComment(d.data[i])))
			i++
			continue
		}

		op := z80.Decode(d.data[i:])
		if op == nil {
			records = append(records, d.dataRecord(address, d.data[i], "Invalid Opcode"))
			i++
			continue
		}

		records = append(records, d.instructionRecord(address, op, d.data[i:i+op.Size]))
		i += op.Size
	}

	d.synthesizeLabels(records)
	return records
}

func (d *Disasm) forcedData(address uint16) bool {
	for _, r := range d.cfg.DataRanges {
		if r.Contains(address) {
			return true
		}
	}
	return false
}

func (d *Disasm) charComment(value byte) string {
	return fmt.Sprintf("[%s]", d.cfg.Chars[value])
}

func (d *Disasm) dataRecord(address uint16, value byte, comment string) program.Record {
	return program.Record{
		Address:  address,
		Data:     []byte{value},
		Code:     fmt.Sprintf("db 0x%02X", value),
		Mnemonic: "db",
		Comment:  comment,
	}
}

// instructionRecord renders one decoded instruction. Absolute jump and
// call destinations and relative branch targets are written as L_ label
// references and recorded for label synthesis.
func (d *Disasm) instructionRecord(address uint16, op *z80.Opcode, data []byte) program.Record {
	rec := program.Record{
		Address:  address,
		Data:     data,
		Mnemonic: op.Mnemonic,
	}

	syntax := op.Syntax
	offsets := op.OperandOffsets()

	switch op.Kind {
	case z80.OperandByte, z80.OperandBitIndexed:
		syntax = strings.Replace(syntax, z80.SlotByte,
			fmt.Sprintf("0x%02X", data[offsets[0]]), 1)

	case z80.OperandBytePair:
		syntax = strings.Replace(syntax, z80.SlotByte,
			fmt.Sprintf("0x%02X", data[offsets[0]]), 1)
		syntax = strings.Replace(syntax, z80.SlotByte,
			fmt.Sprintf("0x%02X", data[offsets[1]]), 1)

	case z80.OperandWord:
		value := uint16(data[offsets[0]]) | uint16(data[offsets[0]+1])<<8
		if op.Jump {
			rec.Target = value
			rec.HasTarget = true
			syntax = strings.Replace(syntax, z80.SlotWord, fmt.Sprintf("L_%04X", value), 1)
		} else {
			syntax = strings.Replace(syntax, z80.SlotWord, fmt.Sprintf("0x%04X", value), 1)
		}

	case z80.OperandRelative:
		disp := int8(data[offsets[0]])
		target := address + uint16(op.Size) + uint16(disp)
		rec.Target = target
		rec.HasTarget = true
		syntax = strings.Replace(syntax, z80.SlotRelative, fmt.Sprintf("L_%04X", target), 1)
	}

	rec.Code = strings.ReplaceAll(syntax, ",", ", ")
	return rec
}
