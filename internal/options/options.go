// Package options contains the program options.
package options

// Command selects the tool mode.
type Command string

// Supported commands.
const (
	Assemble    Command = "asm"
	Disassemble Command = "disasm"
)

// Assembler contains the options of the asm command.
type Assembler struct {
	Input  string // source file to assemble
	Output string // output binary file
	Size   int    // pad the output with zero bytes to this size, 0 disables
}

// Disassembler contains the options of the disasm command.
type Disassembler struct {
	Inputs []string // binary input files, concatenated in order
	Output string   // output .asm file, stdout if empty
	Config string   // optional TOML configuration bundle
	Start  uint16   // load address of the first input byte
	NoDump bool     // omit the address and hex dump columns
}

// Program options of the tool.
type Program struct {
	Command Command

	Assembler
	Disassembler

	Debug bool
	Quiet bool
}
