package assembler

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/set"
)

func evalTokens(t *testing.T, labels map[string]uint16, address uint16, tokens ...string) (int, error) {
	t.Helper()
	ev := &evaluator{
		tokens:  tokens,
		line:    1,
		address: address,
		labels:  labels,
	}
	return ev.evaluate()
}

func TestEvaluate(t *testing.T) {
	labels := map[string]uint16{"start": 0x0100, "data": 0x0200}

	tests := []struct {
		name     string
		tokens   []string
		expected int
	}{
		{"decimal literal", []string{"42"}, 42},
		{"hex literal", []string{"0x1F"}, 31},
		{"addition", []string{"1", "+", "2"}, 3},
		{"precedence", []string{"2", "+", "3", "*", "4"}, 14},
		{"grouping", []string{"(", "2", "+", "3", ")", "*", "4"}, 20},
		{"division", []string{"10", "/", "3"}, 3},
		{"unary minus", []string{"-", "5"}, -5},
		{"label reference", []string{"start"}, 0x0100},
		{"label arithmetic", []string{"data", "-", "start"}, 0x0100},
		{"char literal byte", []string{"'A'"}, 0x41},
		{"char literal word", []string{"'AB'"}, 0x4142},
		{"nested negation", []string{"-", "(", "3", ")"}, -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := evalTokens(t, labels, 0, tt.tokens...)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, value)
		})
	}
}

func TestEvaluateCurrentAddress(t *testing.T) {
	value, err := evalTokens(t, map[string]uint16{}, 0x8000, "$", "+", "2")
	assert.NoError(t, err)
	assert.Equal(t, 0x8002, value)
}

func TestEvaluateErrors(t *testing.T) {
	labels := map[string]uint16{"start": 0x0100}

	tests := []struct {
		name   string
		tokens []string
		kind   error
	}{
		{"empty", nil, ErrExpression},
		{"division by zero", []string{"1", "/", "0"}, ErrExpression},
		{"mismatched parentheses", []string{"(", "1"}, ErrExpression},
		{"trailing token", []string{"1", "2"}, ErrExpression},
		{"reserved word", []string{"hl"}, ErrExpression},
		{"undefined label", []string{"missing"}, ErrUnresolvedSymbol},
		{"long char literal", []string{"'ABC'"}, ErrExpression},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := evalTokens(t, labels, 0, tt.tokens...)
			assert.True(t, errors.Is(err, tt.kind))

			var asmErr *Error
			assert.True(t, errors.As(err, &asmErr))
			assert.Equal(t, 1, asmErr.Line)
		})
	}
}

func TestEvaluateSizingPlaceholder(t *testing.T) {
	defined := set.New[string]()
	defined.Add("later")

	ev := &evaluator{
		tokens:  []string{"later", "+", "1"},
		line:    1,
		defined: defined,
	}
	value, err := ev.evaluate()
	assert.NoError(t, err)
	assert.Equal(t, 1, value) // known symbols evaluate to zero during sizing

	ev = &evaluator{
		tokens:  []string{"missing"},
		line:    1,
		defined: defined,
	}
	_, err = ev.evaluate()
	assert.True(t, errors.Is(err, ErrUnresolvedSymbol))
}
