package disasm

// CharTable maps each byte value to the string shown for it in data
// record comments.
type CharTable [256]string

// DefaultCharTable returns a table that displays printable ASCII bytes
// as themselves and everything else as a dot.
func DefaultCharTable() *CharTable {
	var table CharTable
	for i := range table {
		if i >= 0x20 && i <= 0x7E {
			table[i] = string(rune(i))
		} else {
			table[i] = "."
		}
	}
	return &table
}
