package program

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestRecordIsData(t *testing.T) {
	data := Record{Mnemonic: "db", Data: []byte{0x41}}
	assert.True(t, data.IsData())

	instruction := Record{Mnemonic: "ld", Data: []byte{0x3E, 0x2A}}
	assert.False(t, instruction.IsData())

	pseudo := Record{Code: "org 0x0100"}
	assert.False(t, pseudo.IsData())
}

func TestAddressRangeContains(t *testing.T) {
	r := AddressRange{Start: 0x0100, End: 0x01FF}

	assert.True(t, r.Contains(0x0100))
	assert.True(t, r.Contains(0x01FF))
	assert.True(t, r.Contains(0x0180))
	assert.False(t, r.Contains(0x00FF))
	assert.False(t, r.Contains(0x0200))
}
