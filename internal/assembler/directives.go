package assembler

import (
	"strconv"
)

// byteDirective emits the bytes of a db/defb directive. Operands must be
// numeric literals in the 0-255 range or string literals, which expand to
// one byte per character.
func byteDirective(it *item) error {
	var code []byte
	for _, token := range it.tokens[1:] {
		if token == "," {
			continue
		}

		if token[0] == '"' || token[0] == '\'' {
			s, err := unquote(token)
			if err != nil {
				return lineError(it.line, "%w: %v", ErrDirective, err)
			}
			code = append(code, s...)
			continue
		}

		value, err := strconv.ParseInt(token, 0, 64)
		if err != nil {
			return lineError(it.line, "%w: invalid db operand %q", ErrDirective, token)
		}
		if value < 0 || value > 255 {
			return lineError(it.line, "%w: db value %d does not fit a byte", ErrValueOutOfRange, value)
		}
		code = append(code, byte(value))
	}

	if len(code) == 0 {
		return lineError(it.line, "%w: empty db operand list", ErrDirective)
	}
	it.code = code
	return nil
}

// wordDirective reserves two little-endian bytes per comma-separated
// operand of a dw/defw directive and records a word fixup for each, so
// that label references and expressions resolve in fixup application.
func wordDirective(it *item) ([]fixup, error) {
	var fixups []fixup
	tokens := it.tokens

	i := 1
	for i < len(tokens) {
		if tokens[i] == "," {
			i++
			continue
		}
		end := findExpressionEnd(tokens, i)
		if end == i {
			return nil, lineError(it.line, "%w: invalid dw operand %q", ErrDirective, tokens[i])
		}
		fixups = append(fixups, fixup{
			item:    it,
			offset:  len(it.code),
			kind:    fixupWord,
			expr:    tokens[i:end],
			line:    it.line,
			address: uint16(it.base + it.offset),
		})
		it.code = append(it.code, 0x00, 0x00)
		i = end
	}

	if len(it.code) == 0 {
		return nil, lineError(it.line, "%w: empty dw operand list", ErrDirective)
	}
	return fixups, nil
}
