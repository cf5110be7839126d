package assembler

import (
	"strconv"
	"strings"

	"github.com/retroenv/retrogolib/set"
	"github.com/retroenv/z80goasm/internal/z80"
)

// evaluator is a recursive-descent parser and evaluator for arithmetic
// expressions over numeric literals, character literals, label references
// and the current-address symbol $.
//
// It implements the two-phase evaluation contract of the assembler:
// during size resolution labels is nil and every known label evaluates to
// a placeholder of zero, during fixup application labels holds the final
// addresses and every referenced label must resolve. The evaluator never
// mutates the symbol table.
type evaluator struct {
	tokens  []string
	idx     int
	line    int
	address uint16            // value of the current-address symbol $
	labels  map[string]uint16 // final label addresses, nil during sizing
	defined set.Set[string]   // symbol names known to exist, sizing only
}

func (e *evaluator) evaluate() (int, error) {
	if len(e.tokens) == 0 {
		return 0, lineError(e.line, "%w: empty expression", ErrExpression)
	}
	value, err := e.parseAddSub()
	if err != nil {
		return 0, err
	}
	if e.idx != len(e.tokens) {
		return 0, lineError(e.line, "%w: unexpected token %q", ErrExpression, e.peek())
	}
	return value, nil
}

func (e *evaluator) peek() string {
	if e.idx >= len(e.tokens) {
		return ""
	}
	return e.tokens[e.idx]
}

func (e *evaluator) consume() {
	e.idx++
}

func (e *evaluator) parseAddSub() (int, error) {
	value, err := e.parseMulDiv()
	if err != nil {
		return 0, err
	}
	for {
		op := e.peek()
		if op != "+" && op != "-" {
			return value, nil
		}
		e.consume()
		rhs, err := e.parseMulDiv()
		if err != nil {
			return 0, err
		}
		if op == "+" {
			value += rhs
		} else {
			value -= rhs
		}
	}
}

func (e *evaluator) parseMulDiv() (int, error) {
	value, err := e.parseFactor()
	if err != nil {
		return 0, err
	}
	for {
		op := e.peek()
		if op != "*" && op != "/" {
			return value, nil
		}
		e.consume()
		rhs, err := e.parseFactor()
		if err != nil {
			return 0, err
		}
		if op == "*" {
			value *= rhs
		} else {
			if rhs == 0 {
				return 0, lineError(e.line, "%w: division by zero", ErrExpression)
			}
			value /= rhs
		}
	}
}

func (e *evaluator) parseFactor() (int, error) {
	token := e.peek()
	switch token {
	case "":
		return 0, lineError(e.line, "%w: unexpected end of expression", ErrExpression)
	case "(":
		e.consume()
		value, err := e.parseAddSub()
		if err != nil {
			return 0, err
		}
		if e.peek() != ")" {
			return 0, lineError(e.line, "%w: mismatched parentheses", ErrExpression)
		}
		e.consume()
		return value, nil
	case "-":
		e.consume()
		value, err := e.parseFactor()
		return -value, err
	case "+":
		e.consume()
		return e.parseFactor()
	case "$":
		e.consume()
		return int(e.address), nil
	}

	e.consume()

	if isQuoted(token) {
		return charLiteral(token, e.line)
	}

	if value, err := strconv.ParseInt(token, 0, 64); err == nil {
		return int(value), nil
	}

	if z80.Reserved.Contains(strings.ToLower(token)) {
		return 0, lineError(e.line, "%w: reserved word %q in expression", ErrExpression, token)
	}

	if e.labels != nil {
		value, ok := e.labels[token]
		if !ok {
			return 0, lineError(e.line, "%w: undefined label %q", ErrUnresolvedSymbol, token)
		}
		return int(value), nil
	}

	if e.defined != nil && !e.defined.Contains(token) {
		return 0, lineError(e.line, "%w: undefined symbol %q", ErrUnresolvedSymbol, token)
	}
	return 0, nil // placeholder during size resolution
}

// charLiteral evaluates a 1 or 2 character string literal as a byte or a
// big-endian word value.
func charLiteral(token string, line int) (int, error) {
	s, err := unquote(token)
	if err != nil {
		return 0, lineError(line, "%w: %v", ErrExpression, err)
	}
	switch len(s) {
	case 1:
		return int(s[0]), nil
	case 2:
		return int(s[0])<<8 | int(s[1]), nil
	default:
		return 0, lineError(line, "%w: string literal in expression must be 1 or 2 characters", ErrExpression)
	}
}
