// Package program defines the decoded listing model shared by the decoder
// and the renderers.
package program

// Record is one line of a disassembly listing. It can represent a decoded
// instruction, a raw data byte or a pseudo line like the origin marker.
type Record struct {
	Address uint16
	Data    []byte // raw bytes, empty for pseudo lines

	Label    string // optional label bound to this address
	Code     string // assembly text
	Mnemonic string // empty signals a pseudo line that is not indented
	Comment  string

	Target    uint16 // absolute jump/call/branch target address
	HasTarget bool
}

// IsData reports whether the record is a raw data byte.
func (r Record) IsData() bool {
	return r.Mnemonic == "db" && len(r.Data) == 1
}

// AddressRange is an inclusive address range.
type AddressRange struct {
	Start uint16
	End   uint16
}

// Contains reports whether the address falls into the range.
func (r AddressRange) Contains(address uint16) bool {
	return address >= r.Start && address <= r.End
}
