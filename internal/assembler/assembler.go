// Package assembler translates Z80 assembly source into machine code.
//
// Assembly happens in two passes over an intermediate item list: the
// first pass resolves instruction encodings and sizes with label values
// substituted by placeholders, which fixes every label address, the
// second pass patches all operand bytes using the final symbol table.
package assembler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
	"github.com/retroenv/z80goasm/internal/z80"
)

// item is one source line that produces output bytes or changes the
// location counter.
type item struct {
	line   int
	label  string
	tokens []string
	org    bool // item is an org directive, base holds the new origin

	base   int // origin of the section this item belongs to
	offset int // distance from base, valid after size resolution
	code   []byte
}

type fixupKind int

const (
	fixupByte fixupKind = iota
	fixupWord
	fixupRelative
)

// fixup is a deferred operand patch, applied once all label addresses
// are known.
type fixup struct {
	item    *item
	offset  int // byte offset of the operand within item.code
	kind    fixupKind
	expr    []string
	line    int
	address uint16 // address of the instruction, value of $ in expr
}

// Assembler assembles Z80 source text into a binary image.
type Assembler struct {
	logger *log.Logger

	labels    map[string]uint16
	constants map[string]string
	defined   set.Set[string]
	items     []*item
	fixups    []fixup
}

// New creates a new assembler.
func New(logger *log.Logger) *Assembler {
	return &Assembler{
		logger: logger,
	}
}

// Assemble translates the given source text and returns the resulting
// binary image. The returned error wraps one of the Err* kinds and
// carries the source line number.
func (a *Assembler) Assemble(source string) (*Result, error) {
	a.labels = map[string]uint16{}
	a.constants = map[string]string{}
	a.defined = set.New[string]()
	a.items = nil
	a.fixups = nil

	lines := splitSource(source)

	if err := a.scan(lines); err != nil {
		return nil, err
	}
	a.substituteConstants()
	if err := a.resolve(); err != nil {
		return nil, err
	}
	if err := a.applyFixups(); err != nil {
		return nil, err
	}
	return a.result(), nil
}

// scan builds the item list from the tokenized source. It collects
// labels and constants, validates org directives and separates labels
// from instructions sharing a line.
func (a *Assembler) scan(lines []Line) error {
	for _, line := range lines {
		tokens := line.Tokens

		switch {
		case len(tokens) == 2 && strings.EqualFold(tokens[0], "org"):
			org, err := parseLiteral(tokens[1])
			if err != nil || org < 0 || org > 0xFFFF {
				return lineError(line.Number, "%w: invalid org address %q", ErrDirective, tokens[1])
			}
			a.items = append(a.items, &item{
				line: line.Number,
				org:  true,
				base: org,
			})

		case len(tokens) == 4 && tokens[1] == ":" && strings.EqualFold(tokens[2], "equ"):
			value, err := parseLiteral(tokens[3])
			if err != nil || value < 0 || value >= 0xFFFF {
				return lineError(line.Number, "%w: invalid equ value %q", ErrDirective, tokens[3])
			}
			if err := a.defineSymbol(tokens[0], line.Number); err != nil {
				return err
			}
			a.constants[tokens[0]] = tokens[3]

		case len(tokens) == 2 && tokens[1] == ":":
			if err := a.defineSymbol(tokens[0], line.Number); err != nil {
				return err
			}
			a.items = append(a.items, &item{
				line:  line.Number,
				label: tokens[0],
			})

		case len(tokens) > 2 && tokens[1] == ":":
			if err := a.defineSymbol(tokens[0], line.Number); err != nil {
				return err
			}
			a.items = append(a.items, &item{
				line:   line.Number,
				label:  tokens[0],
				tokens: tokens[2:],
			})

		default:
			a.items = append(a.items, &item{
				line:   line.Number,
				tokens: tokens,
			})
		}
	}
	return nil
}

// defineSymbol registers a label or constant name, rejecting reserved
// words, invalid leading characters and redefinitions.
func (a *Assembler) defineSymbol(name string, line int) error {
	lower := strings.ToLower(name)
	if z80.Reserved.Contains(lower) {
		return lineError(line, "%w: %q is a reserved word", ErrSyntax, name)
	}
	c := name[0]
	if c != '@' && !(c >= 'a' && c <= 'z') && !(c >= 'A' && c <= 'Z') {
		return lineError(line, "%w: invalid symbol name %q", ErrSyntax, name)
	}
	if a.defined.Contains(name) {
		return lineError(line, "%w: %q", ErrDuplicateLabel, name)
	}
	a.defined.Add(name)
	return nil
}

// substituteConstants replaces every use of an equ constant by its
// literal value before size resolution.
func (a *Assembler) substituteConstants() {
	if len(a.constants) == 0 {
		return
	}
	for _, it := range a.items {
		for i, token := range it.tokens {
			if value, ok := a.constants[token]; ok {
				it.tokens[i] = value
			}
		}
	}
}

// resolve performs size resolution: every item gets its encoding and
// final address assigned, labels are recorded in the symbol table and
// operand fixups are collected for the second pass.
func (a *Assembler) resolve() error {
	base := 0
	offset := 0

	for _, it := range a.items {
		if it.org {
			base = it.base
			offset = 0
			continue
		}

		it.base = base
		it.offset = offset

		if it.label != "" {
			a.labels[it.label] = uint16(base + offset)
			a.logger.Debug("label defined",
				log.String("label", it.label),
				log.Hex("address", uint16(base+offset)))
		}
		if len(it.tokens) == 0 {
			continue
		}

		mnemonic := strings.ToLower(it.tokens[0])
		switch mnemonic {
		case "db", "defb":
			if err := byteDirective(it); err != nil {
				return err
			}
		case "dw", "defw":
			fixups, err := wordDirective(it)
			if err != nil {
				return err
			}
			a.fixups = append(a.fixups, fixups...)
		default:
			fixups, err := a.encodeInstruction(it)
			if err != nil {
				return err
			}
			a.fixups = append(a.fixups, fixups...)
		}

		offset += len(it.code)
		if base+offset > z80.AddressSpaceSize {
			return lineError(it.line, "%w: output exceeds the 64 KiB address space", ErrValueOutOfRange)
		}
	}
	return nil
}

// applyFixups patches all deferred operand bytes using the final label
// addresses.
func (a *Assembler) applyFixups() error {
	for _, f := range a.fixups {
		ev := &evaluator{
			tokens:  f.expr,
			line:    f.line,
			address: f.address,
			labels:  a.labels,
		}
		value, err := ev.evaluate()
		if err != nil {
			return err
		}

		switch f.kind {
		case fixupRelative:
			pc := int(f.address) + len(f.item.code)
			disp := value - pc
			if disp < -128 || disp > 127 {
				return lineError(f.line, "%w: jump target out of relative range by %d bytes",
					ErrValueOutOfRange, disp)
			}
			f.item.code[f.offset] = byte(disp)

		case fixupWord:
			if value < -32768 || value > 65535 {
				return lineError(f.line, "%w: value %d does not fit a word", ErrValueOutOfRange, value)
			}
			f.item.code[f.offset] = byte(value)
			f.item.code[f.offset+1] = byte(value >> 8)

		default:
			if value < -128 || value > 255 {
				return lineError(f.line, "%w: value %d does not fit a byte", ErrValueOutOfRange, value)
			}
			f.item.code[f.offset] = byte(value)
		}
	}
	return nil
}

// result assembles the final binary image from the resolved items.
// Gaps between sections are zero filled.
func (a *Assembler) result() *Result {
	minAddr := -1
	maxAddr := 0
	for _, it := range a.items {
		if it.org || len(it.code) == 0 {
			continue
		}
		start := it.base + it.offset
		end := start + len(it.code)
		if minAddr < 0 || start < minAddr {
			minAddr = start
		}
		if end > maxAddr {
			maxAddr = end
		}
	}
	if minAddr < 0 {
		return &Result{}
	}

	data := make([]byte, maxAddr-minAddr)
	for _, it := range a.items {
		if it.org || len(it.code) == 0 {
			continue
		}
		copy(data[it.base+it.offset-minAddr:], it.code)
	}
	return &Result{
		Origin: uint16(minAddr),
		Data:   data,
	}
}

// Labels returns the symbol table built by the last Assemble call.
func (a *Assembler) Labels() map[string]uint16 {
	return a.labels
}

// Result is the assembled binary image.
type Result struct {
	Origin uint16
	Data   []byte
}

// FileImage returns the binary file content, with the data placed at its
// absolute origin address and all gaps zero filled. A size greater than 0
// pads the file with zero bytes to exactly that size and fails when the
// content extends past it.
func (r *Result) FileImage(size int) ([]byte, error) {
	end := int(r.Origin) + len(r.Data)
	if size == 0 {
		size = end
	} else if end > size {
		return nil, fmt.Errorf("%w: content ends at 0x%04X, %d bytes requested",
			ErrSizeExceeded, end, size)
	}
	image := make([]byte, size)
	copy(image[r.Origin:], r.Data)
	return image, nil
}

// parseLiteral parses a plain numeric literal, no expression allowed.
func parseLiteral(token string) (int, error) {
	value, err := strconv.ParseInt(token, 0, 64)
	return int(value), err
}
