// Package cli handles command line interface logic.
package cli

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/retroenv/z80goasm/internal/options"
)

// ParseFlags parses the command line and returns the program options.
func ParseFlags(args []string) (options.Program, error) {
	if len(args) < 2 {
		return options.Program{}, &UsageError{}
	}

	switch options.Command(args[1]) {
	case options.Assemble:
		return parseAssemble(args[2:])
	case options.Disassemble:
		return parseDisassemble(args[2:])
	default:
		return options.Program{}, &UsageError{
			msg: fmt.Sprintf("unknown command %q", args[1]),
		}
	}
}

// UsageError represents an error that should show usage information.
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the usage of the failed command, or of the tool when
// no command was recognized.
func (e *UsageError) ShowUsage() {
	if e.flags == nil {
		fmt.Printf("usage: z80goasm <command> [options]\n\n" +
			"commands:\n" +
			"  asm     assemble a source file into a binary\n" +
			"  disasm  disassemble one or more binary files\n\n")
		return
	}
	fmt.Printf("usage: z80goasm %s [options]\n\n", e.flags.Name())
	e.flags.PrintDefaults()
	fmt.Println()
}

func parseAssemble(args []string) (options.Program, error) {
	flags := flag.NewFlagSet(string(options.Assemble), flag.ContinueOnError)
	opts := options.Program{Command: options.Assemble}

	flags.StringVar(&opts.Assembler.Input, "f", "", "name of the source file to assemble")
	flags.StringVar(&opts.Assembler.Output, "o", "", "name of the output binary file")
	flags.IntVar(&opts.Assembler.Size, "s", 0, "pad the output with zero bytes to this size")
	readCommonFlags(flags, &opts)

	if err := flags.Parse(args); err != nil {
		return opts, &UsageError{flags: flags}
	}
	if opts.Assembler.Input == "" || opts.Assembler.Output == "" {
		return opts, &UsageError{flags: flags, msg: "input and output file names are required"}
	}
	if opts.Assembler.Size < 0 {
		return opts, &UsageError{flags: flags, msg: "size must not be negative"}
	}
	return opts, nil
}

func parseDisassemble(args []string) (options.Program, error) {
	flags := flag.NewFlagSet(string(options.Disassemble), flag.ContinueOnError)
	opts := options.Program{Command: options.Disassemble}

	var start string
	flags.Var(stringList{&opts.Inputs}, "i", "name of a binary input file, repeatable")
	flags.StringVar(&opts.Disassembler.Output, "o", "", "name of the output .asm file, printed on console if no name given")
	flags.StringVar(&opts.Disassembler.Config, "c", "", "name of a TOML configuration bundle file")
	flags.StringVar(&start, "s", "0", "start address of the first input byte")
	flags.BoolVar(&opts.Disassembler.NoDump, "n", false, "omit the address and hex dump columns")
	readCommonFlags(flags, &opts)

	if err := flags.Parse(args); err != nil {
		return opts, &UsageError{flags: flags}
	}
	if len(opts.Inputs) == 0 {
		return opts, &UsageError{flags: flags, msg: "at least one input file is required"}
	}

	address, err := strconv.ParseInt(start, 0, 64)
	if err != nil || address < 0 || address > 0xFFFF {
		return opts, &UsageError{flags: flags, msg: fmt.Sprintf("invalid start address %q", start)}
	}
	opts.Start = uint16(address)
	return opts, nil
}

func readCommonFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
	flags.SetOutput(os.Stderr)
}

// stringList collects the values of a repeatable string flag.
type stringList struct {
	values *[]string
}

func (s stringList) String() string {
	if s.values == nil {
		return ""
	}
	return fmt.Sprint(*s.values)
}

func (s stringList) Set(value string) error {
	*s.values = append(*s.values, value)
	return nil
}
