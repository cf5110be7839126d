// Package writer renders disassembled records as text.
package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/z80goasm/internal/program"
)

// Renderer produces the textual output for a record sequence. The
// default implementation can be replaced to customize the listing
// format.
type Renderer interface {
	Render(records []program.Record, noDump bool) error
}

// DefaultRenderer writes a listing with address and hex dump columns,
// or plain reassemblable source when the dump is suppressed.
type DefaultRenderer struct {
	w io.Writer
}

// New creates a renderer writing to w.
func New(w io.Writer) *DefaultRenderer {
	return &DefaultRenderer{w: w}
}

// Render writes one line per record. With noDump set, labels get their
// own line and instruction lines are indented, producing output that
// assembles back to the input bytes.
func (r *DefaultRenderer) Render(records []program.Record, noDump bool) error {
	for _, rec := range records {
		if noDump {
			if err := r.renderPlain(rec); err != nil {
				return err
			}
			continue
		}
		if err := r.renderDump(rec); err != nil {
			return err
		}
	}
	return nil
}

func (r *DefaultRenderer) renderDump(rec program.Record) error {
	var dump strings.Builder
	for _, b := range rec.Data {
		fmt.Fprintf(&dump, "%02X ", b)
	}

	label := rec.Label
	if label != "" {
		label += ":"
	}

	_, err := fmt.Fprintf(r.w, "0x%04X %-12s %-6s %s\n",
		rec.Address, dump.String(), label, line(rec))
	return err
}

func (r *DefaultRenderer) renderPlain(rec program.Record) error {
	if rec.Label != "" {
		if _, err := fmt.Fprintf(r.w, "%s:\n", rec.Label); err != nil {
			return err
		}
	}

	indent := ""
	if rec.Mnemonic != "" {
		indent = "    "
	}
	_, err := fmt.Fprintf(r.w, "%s%s\n", indent, line(rec))
	return err
}

func line(rec program.Record) string {
	if rec.Comment == "" {
		return rec.Code
	}
	return fmt.Sprintf("%s ; %s", rec.Code, rec.Comment)
}
