package z80

// OperandKind describes how the operand bytes of an instruction are laid out.
type OperandKind uint8

const (
	// OperandNone marks instructions without operand bytes.
	OperandNone OperandKind = iota
	// OperandByte marks an 8-bit immediate in the last instruction byte.
	OperandByte
	// OperandWord marks a 16-bit little-endian value in the last two bytes.
	OperandWord
	// OperandRelative marks an 8-bit signed displacement in the last byte,
	// relative to the address following the instruction.
	OperandRelative
	// OperandBytePair marks two 8-bit values in the last two bytes,
	// used by the ld (ix+d),n and ld (iy+d),n forms.
	OperandBytePair
	// OperandBitIndexed marks the ddcb/fdcb forms where the displacement
	// byte precedes the final opcode selector byte.
	OperandBitIndexed
)

// Opcode defines the encoding of one mnemonic and operand pattern
// combination. The table is immutable after initialization and shared
// read-only by the assembler and the disassembler.
type Opcode struct {
	Mnemonic string // lower case mnemonic, e.g. "ld"
	Syntax   string // display syntax with {b}, {w} and {e} operand slots
	Prefix   []byte // zero or more prefix bytes
	Code     byte   // primary opcode byte, the final byte for ddcb/fdcb forms
	Size     int    // total instruction length in bytes
	Kind     OperandKind
	Jump     bool // the word operand is an absolute jump or call target
}

// Encode returns the instruction bytes with operand positions zeroed.
func (op *Opcode) Encode() []byte {
	code := make([]byte, 0, op.Size)

	if op.Kind == OperandBitIndexed {
		// prefix, prefix, displacement, selector
		code = append(code, op.Prefix...)
		code = append(code, 0x00, op.Code)
		return code
	}

	code = append(code, op.Prefix...)
	code = append(code, op.Code)
	for len(code) < op.Size {
		code = append(code, 0x00)
	}
	return code
}

// OperandOffsets returns the byte offsets of the operand slots within the
// instruction encoding, in operand order.
func (op *Opcode) OperandOffsets() []int {
	switch op.Kind {
	case OperandByte, OperandRelative:
		return []int{op.Size - 1}
	case OperandWord:
		return []int{op.Size - 2}
	case OperandBytePair:
		return []int{op.Size - 2, op.Size - 1}
	case OperandBitIndexed:
		return []int{2}
	default:
		return nil
	}
}

// HasTarget reports whether the instruction operand references a code
// address that label synthesis should resolve.
func (op *Opcode) HasTarget() bool {
	return op.Jump || op.Kind == OperandRelative
}
