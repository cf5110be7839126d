package z80

import (
	"fmt"
	"strings"
)

// Operand slot markers used in syntax strings and assembly lookup keys.
const (
	SlotByte     = "{b}" // 8-bit value
	SlotWord     = "{w}" // 16-bit value
	SlotRelative = "{e}" // relative displacement, written as a target address
)

// decodeTable is one level of the prefix-nested opcode lookup. A defined
// prefix byte advances into a nested table, any other byte selects an
// opcode definition directly.
type decodeTable struct {
	prefixed map[byte]*decodeTable
	indexed  bool // a displacement byte precedes the selector byte (ddcb/fdcb)
	ops      [256]*Opcode
}

func newDecodeTable() *decodeTable {
	return &decodeTable{
		prefixed: map[byte]*decodeTable{},
	}
}

type tables struct {
	asm  map[string]*Opcode
	root *decodeTable
}

// instructions is the process-wide immutable opcode table.
var instructions = newTables()

// LookupAssembly returns the opcode definition for an assembly lookup key,
// built with AssemblyKey from a token list with operand expressions
// replaced by slot markers.
func LookupAssembly(key string) (*Opcode, bool) {
	op, ok := instructions.asm[key]
	return op, ok
}

// Decode matches the longest applicable opcode definition at the start of
// data. Prefix bytes are consumed greedily. It returns nil if no
// definition matches or the instruction would extend past the end of data.
func Decode(data []byte) *Opcode {
	t := instructions.root
	i := 0
	for {
		if i >= len(data) {
			return nil
		}
		b := data[i]
		if next, ok := t.prefixed[b]; ok {
			t = next
			i++
			if t.indexed {
				i++ // skip the displacement byte to reach the selector
			}
			continue
		}
		op := t.ops[b]
		if op == nil || op.Size > len(data) {
			return nil
		}
		return op
	}
}

// AssemblyKey builds the canonical assembly lookup key for a token list.
func AssemblyKey(tokens []string) string {
	return strings.ToLower(strings.Join(tokens, " "))
}

// splitSyntax tokenizes a syntax string using the same separator
// characters as the assembler tokenizer.
func splitSyntax(s string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch r {
		case ' ', '\t':
			flush()
		case '(', ')', ':', ',', '+', '-', '*', '/':
			flush()
			tokens = append(tokens, string(r))
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}

func asmKeyForSyntax(syntax string) string {
	tokens := splitSyntax(syntax)
	for i, tok := range tokens {
		if tok == SlotRelative {
			tokens[i] = SlotByte // relative forms match a byte slot
		}
	}
	return AssemblyKey(tokens)
}

func newTables() *tables {
	t := &tables{
		asm:  map[string]*Opcode{},
		root: newDecodeTable(),
	}
	t.addMain()
	t.addCB()
	t.addED()
	t.addIndexed(0xDD, "ix")
	t.addIndexed(0xFD, "iy")
	return t
}

func (t *tables) register(op *Opcode) *Opcode {
	key := asmKeyForSyntax(op.Syntax)
	if _, ok := t.asm[key]; ok {
		panic("duplicate assembly key: " + key)
	}
	t.asm[key] = op

	dt := t.root
	for _, prefix := range op.Prefix {
		next := dt.prefixed[prefix]
		if next == nil {
			next = newDecodeTable()
			dt.prefixed[prefix] = next
		}
		dt = next
	}
	if op.Kind == OperandBitIndexed {
		dt.indexed = true
	}
	if dt.ops[op.Code] != nil {
		panic(fmt.Sprintf("duplicate opcode byte %02x for %s", op.Code, op.Syntax))
	}
	dt.ops[op.Code] = op

	Reserved.Add(op.Mnemonic)
	return op
}

// alias registers an additional assembly spelling for an opcode.
func (t *tables) alias(spelling string, op *Opcode) {
	key := asmKeyForSyntax(spelling)
	if _, ok := t.asm[key]; ok {
		panic("duplicate assembly key: " + key)
	}
	t.asm[key] = op
}

func operandSize(kind OperandKind) int {
	switch kind {
	case OperandByte, OperandRelative, OperandBitIndexed:
		return 1
	case OperandWord, OperandBytePair:
		return 2
	default:
		return 0
	}
}

func (t *tables) add(syntax string, kind OperandKind, jump bool, code ...byte) *Opcode {
	mnemonic, _, _ := strings.Cut(syntax, " ")
	op := &Opcode{
		Mnemonic: strings.ToLower(mnemonic),
		Syntax:   syntax,
		Prefix:   code[:len(code)-1],
		Code:     code[len(code)-1],
		Size:     len(code) + operandSize(kind),
		Kind:     kind,
		Jump:     jump,
	}
	return t.register(op)
}

func (t *tables) op0(syntax string, code ...byte) *Opcode {
	return t.add(syntax, OperandNone, false, code...)
}

func (t *tables) opB(syntax string, code ...byte) *Opcode {
	return t.add(syntax, OperandByte, false, code...)
}

func (t *tables) opW(syntax string, code ...byte) *Opcode {
	return t.add(syntax, OperandWord, false, code...)
}

func (t *tables) jp(syntax string, code ...byte) *Opcode {
	return t.add(syntax, OperandWord, true, code...)
}

func (t *tables) rel(syntax string, code ...byte) *Opcode {
	return t.add(syntax, OperandRelative, false, code...)
}

func (t *tables) pair(syntax string, code ...byte) *Opcode {
	return t.add(syntax, OperandBytePair, false, code...)
}

func (t *tables) bitIdx(syntax string, code ...byte) *Opcode {
	return t.add(syntax, OperandBitIndexed, false, code...)
}

// aluForms are the accumulator arithmetic/logic families in encoding
// order, starting at 0x80 for register operands and 0xC6 for immediates.
var aluForms = []string{"add a,%s", "adc a,%s", "sub %s", "sbc a,%s", "and %s", "xor %s", "or %s", "cp %s"}

// rotForms are the cb-prefixed rotate/shift families in encoding order,
// slot 6 (sll) is undocumented and left undefined.
var rotForms = []string{"rlc", "rrc", "rl", "rr", "sla", "sra", "", "srl"}

var registerPairs = []string{"bc", "de", "hl", "sp"}

func (t *tables) addMain() {
	for i, dst := range registers {
		for j, src := range registers {
			if dst == "(hl)" && src == "(hl)" {
				continue // 0x76 is halt
			}
			t.op0("ld "+dst+","+src, byte(0x40+i*8+j))
		}
	}

	for k, form := range aluForms {
		for j, r := range registers {
			t.op0(fmt.Sprintf(form, r), byte(0x80+k*8+j))
		}
		t.opB(fmt.Sprintf(form, SlotByte), byte(0xC6+k*8))
	}

	for i, r := range registers {
		t.op0("inc "+r, byte(0x04+i*8))
		t.op0("dec "+r, byte(0x05+i*8))
		t.opB("ld "+r+","+SlotByte, byte(0x06+i*8))
	}

	t.op0("nop", 0x00)
	t.opW("ld bc,{w}", 0x01)
	t.op0("ld (bc),a", 0x02)
	t.op0("inc bc", 0x03)
	t.op0("rlca", 0x07)
	t.op0("ex af,af'", 0x08)
	t.op0("add hl,bc", 0x09)
	t.op0("ld a,(bc)", 0x0A)
	t.op0("dec bc", 0x0B)
	t.op0("rrca", 0x0F)
	t.rel("djnz {e}", 0x10)
	t.opW("ld de,{w}", 0x11)
	t.op0("ld (de),a", 0x12)
	t.op0("inc de", 0x13)
	t.op0("rla", 0x17)
	t.rel("jr {e}", 0x18)
	t.op0("add hl,de", 0x19)
	t.op0("ld a,(de)", 0x1A)
	t.op0("dec de", 0x1B)
	t.op0("rra", 0x1F)
	t.rel("jr nz,{e}", 0x20)
	t.opW("ld hl,{w}", 0x21)
	t.opW("ld ({w}),hl", 0x22)
	t.op0("inc hl", 0x23)
	t.op0("daa", 0x27)
	t.rel("jr z,{e}", 0x28)
	t.op0("add hl,hl", 0x29)
	t.opW("ld hl,({w})", 0x2A)
	t.op0("dec hl", 0x2B)
	t.op0("cpl", 0x2F)
	t.rel("jr nc,{e}", 0x30)
	t.opW("ld sp,{w}", 0x31)
	t.opW("ld ({w}),a", 0x32)
	t.op0("inc sp", 0x33)
	t.op0("scf", 0x37)
	t.rel("jr c,{e}", 0x38)
	t.op0("add hl,sp", 0x39)
	t.opW("ld a,({w})", 0x3A)
	t.op0("dec sp", 0x3B)
	t.op0("ccf", 0x3F)
	t.op0("halt", 0x76)

	for i, cc := range conditions {
		t.op0("ret "+cc, byte(0xC0+i*8))
		t.jp("jp "+cc+",{w}", byte(0xC2+i*8))
		t.jp("call "+cc+",{w}", byte(0xC4+i*8))
	}

	for i, pair := range []string{"bc", "de", "hl", "af"} {
		t.op0("pop "+pair, byte(0xC1+i*16))
		t.op0("push "+pair, byte(0xC5+i*16))
	}

	for i := range 8 {
		vector := byte(i * 8)
		op := t.op0(fmt.Sprintf("rst 0x%02x", vector), 0xC7+vector)
		t.alias(fmt.Sprintf("rst %d", vector), op)
	}

	t.jp("jp {w}", 0xC3)
	t.jp("call {w}", 0xCD)
	t.op0("ret", 0xC9)
	t.opB("out ({b}),a", 0xD3)
	t.op0("exx", 0xD9)
	t.opB("in a,({b})", 0xDB)
	t.op0("ex (sp),hl", 0xE3)
	t.op0("jp (hl)", 0xE9)
	t.op0("ex de,hl", 0xEB)
	t.op0("di", 0xF3)
	t.op0("ld sp,hl", 0xF9)
	t.op0("ei", 0xFB)
}

func (t *tables) addCB() {
	for k, form := range rotForms {
		if form == "" {
			continue
		}
		for j, r := range registers {
			t.op0(form+" "+r, 0xCB, byte(k*8+j))
		}
	}

	for bi, form := range []string{"bit", "res", "set"} {
		base := 0x40 * (bi + 1)
		for b := range 8 {
			for j, r := range registers {
				t.op0(fmt.Sprintf("%s %d,%s", form, b, r), 0xCB, byte(base+b*8+j))
			}
		}
	}
}

func (t *tables) addED() {
	for i, pair := range registerPairs {
		t.op0("sbc hl,"+pair, 0xED, byte(0x42+i*16))
		t.op0("adc hl,"+pair, 0xED, byte(0x4A+i*16))
		if pair == "hl" {
			continue // ld ({w}),hl uses the shorter unprefixed encoding
		}
		t.opW("ld ({w}),"+pair, 0xED, byte(0x43+i*16))
		t.opW("ld "+pair+",({w})", 0xED, byte(0x4B+i*16))
	}

	for j, r := range registers {
		if r == "(hl)" {
			continue
		}
		t.op0("in "+r+",(c)", 0xED, byte(0x40+j*8))
		t.op0("out (c),"+r, 0xED, byte(0x41+j*8))
	}

	t.op0("neg", 0xED, 0x44)
	t.op0("retn", 0xED, 0x45)
	t.op0("im 0", 0xED, 0x46)
	t.op0("ld i,a", 0xED, 0x47)
	t.op0("reti", 0xED, 0x4D)
	t.op0("ld r,a", 0xED, 0x4F)
	t.op0("im 1", 0xED, 0x56)
	t.op0("ld a,i", 0xED, 0x57)
	t.op0("im 2", 0xED, 0x5E)
	t.op0("ld a,r", 0xED, 0x5F)
	t.op0("rrd", 0xED, 0x67)
	t.op0("rld", 0xED, 0x6F)

	blocks := []struct {
		name string
		code byte
	}{
		{"ldi", 0xA0}, {"cpi", 0xA1}, {"ini", 0xA2}, {"outi", 0xA3},
		{"ldd", 0xA8}, {"cpd", 0xA9}, {"ind", 0xAA}, {"outd", 0xAB},
		{"ldir", 0xB0}, {"cpir", 0xB1}, {"inir", 0xB2}, {"otir", 0xB3},
		{"lddr", 0xB8}, {"cpdr", 0xB9}, {"indr", 0xBA}, {"otdr", 0xBB},
	}
	for _, block := range blocks {
		t.op0(block.name, 0xED, block.code)
	}
}

// addIndexed derives the ix/iy instruction families from the hl forms.
func (t *tables) addIndexed(prefix byte, name string) {
	mem := "(" + name + "+" + SlotByte + ")"

	for i, pair := range []string{"bc", "de", name, "sp"} {
		t.op0("add "+name+","+pair, prefix, byte(0x09+i*16))
	}

	t.opW("ld "+name+",{w}", prefix, 0x21)
	t.opW("ld ({w}),"+name, prefix, 0x22)
	t.op0("inc "+name, prefix, 0x23)
	t.opW("ld "+name+",({w})", prefix, 0x2A)
	t.op0("dec "+name, prefix, 0x2B)
	t.opB("inc "+mem, prefix, 0x34)
	t.opB("dec "+mem, prefix, 0x35)
	t.pair("ld "+mem+","+SlotByte, prefix, 0x36)

	for j, r := range registers {
		if r == "(hl)" {
			continue
		}
		t.opB("ld "+r+","+mem, prefix, byte(0x46+j*8))
		t.opB("ld "+mem+","+r, prefix, byte(0x70+j))
	}

	for k, form := range aluForms {
		t.opB(fmt.Sprintf(form, mem), prefix, byte(0x86+k*8))
	}

	t.op0("pop "+name, prefix, 0xE1)
	t.op0("ex (sp),"+name, prefix, 0xE3)
	t.op0("push "+name, prefix, 0xE5)
	t.op0("jp ("+name+")", prefix, 0xE9)
	t.op0("ld sp,"+name, prefix, 0xF9)

	for k, form := range rotForms {
		if form == "" {
			continue
		}
		t.bitIdx(form+" "+mem, prefix, 0xCB, byte(k*8+6))
	}
	for bi, form := range []string{"bit", "res", "set"} {
		base := 0x40 * (bi + 1)
		for b := range 8 {
			t.bitIdx(fmt.Sprintf("%s %d,%s", form, b, mem), prefix, 0xCB, byte(base+b*8+6))
		}
	}
}
