package assembler

import (
	"errors"
	"fmt"
)

// Error kinds returned by the assembler. All of them are wrapped into an
// Error carrying the originating source line.
var (
	ErrSyntax           = errors.New("syntax error")
	ErrDuplicateLabel   = errors.New("duplicate label")
	ErrUnresolvedSymbol = errors.New("unresolved symbol")
	ErrExpression       = errors.New("expression error")
	ErrValueOutOfRange  = errors.New("value out of range")
	ErrDirective        = errors.New("directive error")
	ErrSizeExceeded     = errors.New("content exceeds requested size")
)

// Error is an assembler error annotated with the source line it
// originated from.
type Error struct {
	Line int
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Err)
}

// Unwrap returns the wrapped error kind.
func (e *Error) Unwrap() error {
	return e.Err
}

func lineError(line int, format string, args ...any) error {
	return &Error{
		Line: line,
		Err:  fmt.Errorf(format, args...),
	}
}
