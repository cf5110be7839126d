package assembler

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/z80goasm/internal/z80"
)

func TestFindOperands(t *testing.T) {
	tests := []struct {
		name     string
		tokens   []string
		expected []operandSpan
	}{
		{"no operands", []string{"ret"}, nil},
		{"registers only", []string{"ld", "a", ",", "b"}, nil},
		{"immediate", []string{"ld", "a", ",", "42"},
			[]operandSpan{{start: 3, length: 1}}},
		{"expression", []string{"ld", "hl", ",", "base", "+", "2"},
			[]operandSpan{{start: 3, length: 3}}},
		{"memory operand", []string{"ld", "a", ",", "(", "0x1234", ")"},
			[]operandSpan{{start: 4, length: 1}}},
		{"indexed positive", []string{"ld", "(", "ix", "+", "5", ")", ",", "a"},
			[]operandSpan{{start: 4, length: 1}}},
		{"indexed negative", []string{"ld", "(", "iy", "-", "2", ")", ",", "b"},
			[]operandSpan{{start: 4, length: 1, negated: true}}},
		{"two operands", []string{"ld", "(", "ix", "+", "1", ")", ",", "0x20"},
			[]operandSpan{{start: 4, length: 1}, {start: 7, length: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, findOperands(tt.tokens))
		})
	}
}

func TestBuildTemplate(t *testing.T) {
	tokens := []string{"ld", "(", "iy", "-", "2", ")", ",", "b"}
	spans := findOperands(tokens)

	template := buildTemplate(tokens, spans, []string{z80.SlotByte})
	assert.Equal(t, []string{"ld", "(", "iy", "+", "{b}", ")", ",", "b"}, template)

	// the source tokens stay untouched
	assert.Equal(t, "-", tokens[3])
}

func TestOperandSpanExpression(t *testing.T) {
	tokens := []string{"ld", "(", "ix", "-", "3", ")", ",", "a"}
	spans := findOperands(tokens)
	assert.Equal(t, 1, len(spans))
	assert.Equal(t, []string{"-", "(", "3", ")"}, spans[0].expression(tokens))
}

func TestFindExpressionEnd(t *testing.T) {
	tokens := []string{"1", "+", "2", ",", "3"}
	assert.Equal(t, 3, findExpressionEnd(tokens, 0))

	tokens = []string{"(", "1", "+", "2", ")", "*", "3"}
	assert.Equal(t, 7, findExpressionEnd(tokens, 0))

	tokens = []string{"5", ")", ",", "a"}
	assert.Equal(t, 1, findExpressionEnd(tokens, 0))
}
