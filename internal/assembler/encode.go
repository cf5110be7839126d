package assembler

import (
	"strings"

	"github.com/retroenv/z80goasm/internal/z80"
)

// operandSpan locates one operand expression within a token list.
type operandSpan struct {
	start   int
	length  int
	negated bool // span follows an ix/iy minus sign separator
}

func (s operandSpan) expression(tokens []string) []string {
	expr := tokens[s.start : s.start+s.length]
	if !s.negated {
		return expr
	}
	// fold the index register minus sign into the operand value
	negated := make([]string, 0, len(expr)+3)
	negated = append(negated, "-", "(")
	negated = append(negated, expr...)
	negated = append(negated, ")")
	return negated
}

// isExpressionStart reports whether the token at index can begin an
// operand expression. Reserved words, delimiters, addressing parentheses
// like (hl) and the ix/iy displacement sign are not expression starts.
func isExpressionStart(tokens []string, index int) bool {
	token := tokens[index]

	if z80.Reserved.Contains(strings.ToLower(token)) {
		return false
	}
	switch token {
	case ",", ")":
		return false
	}
	if (token == "+" || token == "-") && index > 0 && z80.IsIndexRegister(tokens[index-1]) {
		return false
	}
	if token == "(" && index+2 < len(tokens) && tokens[index+2] == ")" &&
		z80.Reserved.Contains(strings.ToLower(tokens[index+1])) {
		return false
	}
	return true
}

// findExpressionEnd returns the index right after the expression starting
// at start, stopping at a top-level comma or an unbalanced closing
// parenthesis.
func findExpressionEnd(tokens []string, start int) int {
	end := start
	balance := 0
	for end < len(tokens) {
		switch tokens[end] {
		case "(":
			balance++
		case ")":
			balance--
		case ",":
			if balance == 0 {
				return end
			}
		}
		if balance < 0 {
			return end
		}
		end++
	}
	return end
}

// findOperands locates all operand expression spans of an instruction
// token list. Addressing parentheses are skipped, their content is
// inspected, so (ix+5) yields the span of the displacement only.
func findOperands(tokens []string) []operandSpan {
	var spans []operandSpan
	i := 0
	for i < len(tokens) {
		if tokens[i] == "(" {
			i++
			continue
		}
		if isExpressionStart(tokens, i) {
			end := findExpressionEnd(tokens, i)
			if end > i {
				span := operandSpan{start: i, length: end - i}
				if i > 1 && tokens[i-1] == "-" && z80.IsIndexRegister(tokens[i-2]) {
					span.negated = true
				}
				spans = append(spans, span)
				i = end
				continue
			}
		}
		i++
	}
	return spans
}

// buildTemplate returns a copy of the token list with each operand span
// replaced by its slot marker. A folded ix/iy minus sign is rewritten to
// the canonical plus separator.
func buildTemplate(tokens []string, spans []operandSpan, slots []string) []string {
	out := make([]string, 0, len(tokens))
	prev := 0
	for i, span := range spans {
		out = append(out, tokens[prev:span.start]...)
		if span.negated {
			out[len(out)-1] = "+"
		}
		out = append(out, slots[i])
		prev = span.start + span.length
	}
	out = append(out, tokens[prev:]...)
	return out
}

// encodeInstruction determines the instruction encoding and length from
// the opcode table and records a fixup for every operand expression.
// Operand bytes stay zero until fixup application.
func (a *Assembler) encodeInstruction(it *item) ([]fixup, error) {
	tokens := it.tokens
	spans := findOperands(tokens)

	// surface undefined symbols and malformed expressions already during
	// size resolution
	for _, span := range spans {
		ev := &evaluator{
			tokens:  span.expression(tokens),
			line:    it.line,
			address: uint16(it.base + it.offset),
			defined: a.defined,
		}
		if _, err := ev.evaluate(); err != nil {
			return nil, err
		}
	}

	if z80.EmbedsOperand(tokens[0]) && len(spans) > 0 {
		spans = spans[1:] // the bit number or vector stays part of the lookup key
	}

	switch len(spans) {
	case 0:
		op, ok := z80.LookupAssembly(z80.AssemblyKey(tokens))
		if !ok {
			return nil, a.invalidInstruction(it)
		}
		it.code = op.Encode()
		return nil, nil

	case 1:
		// byte-sized forms take precedence over word-sized forms
		if op, ok := z80.LookupAssembly(z80.AssemblyKey(buildTemplate(tokens, spans, []string{z80.SlotByte}))); ok {
			return a.applyOpcode(it, op, spans)
		}
		if op, ok := z80.LookupAssembly(z80.AssemblyKey(buildTemplate(tokens, spans, []string{z80.SlotWord}))); ok {
			return a.applyOpcode(it, op, spans)
		}
		return nil, a.invalidInstruction(it)

	case 2:
		slots := []string{z80.SlotByte, z80.SlotByte}
		if op, ok := z80.LookupAssembly(z80.AssemblyKey(buildTemplate(tokens, spans, slots))); ok {
			return a.applyOpcode(it, op, spans)
		}
		return nil, a.invalidInstruction(it)

	default:
		return nil, a.invalidInstruction(it)
	}
}

// applyOpcode emits the opcode encoding and creates one fixup per
// operand slot.
func (a *Assembler) applyOpcode(it *item, op *z80.Opcode, spans []operandSpan) ([]fixup, error) {
	it.code = op.Encode()

	offsets := op.OperandOffsets()
	fixups := make([]fixup, 0, len(offsets))
	for i, offset := range offsets {
		kind := fixupByte
		switch op.Kind {
		case z80.OperandWord:
			kind = fixupWord
		case z80.OperandRelative:
			kind = fixupRelative
		}
		fixups = append(fixups, fixup{
			item:    it,
			offset:  offset,
			kind:    kind,
			expr:    spans[i].expression(it.tokens),
			line:    it.line,
			address: uint16(it.base + it.offset),
		})
	}
	return fixups, nil
}

func (a *Assembler) invalidInstruction(it *item) error {
	return lineError(it.line, "%w: invalid instruction %q", ErrSyntax, strings.Join(it.tokens, " "))
}
