// Package fileprocessor handles file loading and processing operations.
package fileprocessor

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/z80goasm/internal/assembler"
	"github.com/retroenv/z80goasm/internal/config"
	"github.com/retroenv/z80goasm/internal/disasm"
	"github.com/retroenv/z80goasm/internal/options"
	"github.com/retroenv/z80goasm/internal/writer"
)

// AssembleFile assembles the source file of the asm command and writes
// the binary image, padded to the requested size.
func AssembleFile(logger *log.Logger, opts options.Program) error {
	source, err := os.ReadFile(opts.Assembler.Input)
	if err != nil {
		return fmt.Errorf("reading source file %s: %w", opts.Assembler.Input, err)
	}

	asm := assembler.New(logger)
	result, err := asm.Assemble(string(source))
	if err != nil {
		return fmt.Errorf("assembling %s: %w", opts.Assembler.Input, err)
	}

	image, err := result.FileImage(opts.Assembler.Size)
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.Assembler.Output, image, 0o644); err != nil {
		return fmt.Errorf("writing output file %s: %w", opts.Assembler.Output, err)
	}

	logger.Info("Assembly finished",
		log.String("output", opts.Assembler.Output),
		log.Int("bytes", len(image)),
		log.Hex("origin", result.Origin))
	return nil
}

// DisassembleFiles disassembles the input files of the disasm command
// as one contiguous image and renders the listing.
func DisassembleFiles(ctx context.Context, logger *log.Logger, opts options.Program) error {
	buffers, err := loadInputs(ctx, opts.Inputs)
	if err != nil {
		return err
	}

	var cfg disasm.Config
	if opts.Disassembler.Config != "" {
		cfg, err = config.LoadDisasmConfig(opts.Disassembler.Config)
		if err != nil {
			return err
		}
	}

	dis, err := disasm.New(logger, opts.Start, cfg, buffers...)
	if err != nil {
		return fmt.Errorf("creating disassembler: %w", err)
	}
	records := dis.Process()

	out, err := createWriter(opts)
	if err != nil {
		return err
	}
	defer func() {
		if closer, ok := out.(io.Closer); ok {
			_ = closer.Close()
		}
	}()

	if err := writer.New(out).Render(records, opts.NoDump); err != nil {
		return fmt.Errorf("rendering output: %w", err)
	}
	return nil
}

func loadInputs(ctx context.Context, names []string) ([][]byte, error) {
	buffers := make([][]byte, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("reading input file %s: %w", name, err)
		}
		buffers = append(buffers, data)
	}
	return buffers, nil
}

func createWriter(opts options.Program) (io.Writer, error) {
	if opts.Disassembler.Output == "" {
		return os.Stdout, nil
	}
	file, err := os.Create(opts.Disassembler.Output)
	if err != nil {
		return nil, fmt.Errorf("creating output file %s: %w", opts.Disassembler.Output, err)
	}
	return file, nil
}

// PrintBanner prints application version information.
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}
	logger.Info("z80goasm", log.String("version", buildinfo.Version(version, commit, date)))
}
