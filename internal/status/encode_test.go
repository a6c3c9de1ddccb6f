// internal/status/encode_test.go
package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_Layout(t *testing.T) {
	regs := Encode(Snapshot{
		Verdict:     VerdictFailed,
		PassMask:    0x1B,
		RS485Detail: 0x1F,
		Part:        5,
	}, "GZ-01")

	require.Len(t, regs, SlotsPerStation)
	assert.Equal(t, VerdictFailed, regs[SlotVerdictCode])
	assert.Equal(t, uint16(0x1B), regs[SlotPassMask])
	assert.Equal(t, uint16(0x1F), regs[SlotRS485Detail])
	assert.Equal(t, uint16(5), regs[SlotProgressPart])

	for i := SlotReservedStart; i <= SlotReservedEnd; i++ {
		assert.Zero(t, regs[i], "reserved slot %d", i)
	}

	assert.Equal(t, EncodeName("GZ-01"), regs[SlotStationNameStart:SlotStationNameEnd+1])
}

func TestEncodeName(t *testing.T) {
	got := EncodeName("GZ-01")
	require.Len(t, got, SlotStationNameSlots)
	assert.Equal(t, uint16('G')<<8|uint16('Z'), got[0])
	assert.Equal(t, uint16('-')<<8|uint16('0'), got[1])
	assert.Equal(t, uint16('1')<<8, got[2])
	assert.Zero(t, got[3])
}

func TestEncodeName_TruncatesAndSanitizes(t *testing.T) {
	got := EncodeName("ABCDEFGHIJKLMNOPQRST")
	assert.Equal(t, uint16('O')<<8|uint16('P'), got[7])

	got = EncodeName("A\tB")
	assert.Equal(t, uint16('A')<<8|uint16('?'), got[0])
	assert.Equal(t, uint16('B')<<8, got[1])
}
