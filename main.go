// Package main implements the main entry point for the Z80 assembler
// and disassembler tool.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/z80goasm/internal/cli"
	"github.com/retroenv/z80goasm/internal/config"
	"github.com/retroenv/z80goasm/internal/fileprocessor"
	"github.com/retroenv/z80goasm/internal/options"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, err := cli.ParseFlags(os.Args)
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			fileprocessor.PrintBanner(logger, opts, version, commit, date)
			usageErr.ShowUsage()
		} else {
			logger.Fatal(err.Error())
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	fileprocessor.PrintBanner(logger, opts, version, commit, date)

	switch opts.Command {
	case options.Assemble:
		err = fileprocessor.AssembleFile(logger, opts)
	case options.Disassemble:
		err = fileprocessor.DisassembleFiles(ctx, logger, opts)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		logger.Error("Processing failed", log.Err(err))
		os.Exit(1)
	}
}
