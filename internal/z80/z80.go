// Package z80 provides the Z80 instruction encoding tables shared by the
// assembler and the disassembler.
package z80

import (
	"strings"

	"github.com/retroenv/retrogolib/set"
)

// MaxOpcodeSize is the longest possible instruction encoding in bytes.
const MaxOpcodeSize = 4

// AddressSpaceSize is the size of the flat Z80 address space.
const AddressSpaceSize = 0x10000

// registers contains the 8-bit register names in their encoding order,
// index 6 is the (hl) memory form.
var registers = []string{"b", "c", "d", "e", "h", "l", "(hl)", "a"}

// conditions contains the condition code names in their encoding order.
var conditions = []string{"nz", "z", "nc", "c", "po", "pe", "p", "m"}

// Reserved contains all words that can not be used as labels or inside
// expressions: register names, condition codes, mnemonics and directives.
// The set is filled from the opcode table at initialization time.
var Reserved = set.New[string]()

// mnemonics whose leading numeric operand is part of the opcode encoding
// and therefore stays literal during instruction lookup.
var embeddedOperandMnemonics = map[string]struct{}{
	"bit": {},
	"res": {},
	"set": {},
	"rst": {},
	"im":  {},
}

// EmbedsOperand reports whether the first numeric operand of the mnemonic
// selects the opcode instead of being encoded as an operand byte.
func EmbedsOperand(mnemonic string) bool {
	_, ok := embeddedOperandMnemonics[strings.ToLower(mnemonic)]
	return ok
}

// IsIndexRegister reports whether the token names one of the index registers.
func IsIndexRegister(token string) bool {
	switch strings.ToLower(token) {
	case "ix", "iy":
		return true
	}
	return false
}

func init() {
	initReserved()
}

func initReserved() {
	words := []string{
		"i", "r", "ixh", "ixl", "iyh", "iyl",
		"ix", "iy", "bc", "de", "hl", "sp", "af", "af'",
		"org", "db", "dw", "defb", "defw", "equ",
	}
	words = append(words, registers...)
	words = append(words, conditions...)
	for _, word := range words {
		if word == "(hl)" {
			continue
		}
		Reserved.Add(word)
	}
}
