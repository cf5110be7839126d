package disasm

import (
	"fmt"
	"slices"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
	"github.com/retroenv/z80goasm/internal/program"
)

// synthesizeLabels collects all jump and branch targets and attaches a
// L_ label to the record starting at each target address. A target that
// points into the middle of a decoded instruction or outside the image
// is reported as a warning and left without a label.
func (d *Disasm) synthesizeLabels(records []program.Record) {
	targets := set.New[uint16]()
	for _, rec := range records {
		if rec.HasTarget {
			targets.Add(rec.Target)
		}
	}
	if len(targets) == 0 {
		return
	}

	starts := make(map[uint16]int, len(records))
	for i, rec := range records {
		if len(rec.Data) == 0 {
			continue // origin marker pseudo record
		}
		starts[rec.Address] = i
	}

	sorted := make([]uint16, 0, len(targets))
	for target := range targets {
		sorted = append(sorted, target)
	}
	slices.Sort(sorted)

	for _, target := range sorted {
		index, ok := starts[target]
		if !ok {
			d.logger.Warn("jump target does not start an instruction",
				log.String("target", fmt.Sprintf("0x%04X", target)))
			continue
		}
		records[index].Label = fmt.Sprintf("L_%04X", target)
	}
}
