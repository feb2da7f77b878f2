package pointersearch_test

import (
	"testing"

	"github.com/newhook/memsearch/counter"
	"github.com/newhook/memsearch/memregion"
	"github.com/newhook/memsearch/pointersearch"
	"github.com/newhook/memsearch/valuesearch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func putU16(data []byte, addr uint16, v uint16) {
	data[addr] = byte(v)
	data[addr+1] = byte(v >> 8)
}

func TestInitFindsSingleHopPointer(t *testing.T) {
	data := make([]byte, 0x3000)
	putU16(data, 0x1000, 0x2000) // a pointer to the target address
	data[0x2000] = 42            // the tracked value itself

	guest := memregion.NewFlatGuest("ram", 0, data, 2, memregion.LittleEndian)
	acc := memregion.NewAccessor(guest)

	s, err := pointersearch.Init(acc, 0x2000, 1, counter.Int, 0, 1, 64)
	require.NoError(t, err)

	results := s.Results()
	require.Len(t, results, 1)
	assert.EqualValues(t, 0x1000, results[0].AddressInitial)
	assert.Equal(t, []int64{0}, results[0].Offsets)
	assert.EqualValues(t, 42, results[0].ValueCurrent.Uint())
}

func TestInitRejectsUnreadableTarget(t *testing.T) {
	data := make([]byte, 0x100)
	guest := memregion.NewFlatGuest("ram", 0, data, 2, memregion.LittleEndian)
	acc := memregion.NewAccessor(guest)

	_, err := pointersearch.Init(acc, 0x500, 1, counter.Int, 0, 1, 64)
	assert.ErrorIs(t, err, pointersearch.ErrUnreachableTarget)
}

func TestInitRejectsZeroPasses(t *testing.T) {
	data := make([]byte, 0x100)
	guest := memregion.NewFlatGuest("ram", 0, data, 2, memregion.LittleEndian)
	acc := memregion.NewAccessor(guest)

	_, err := pointersearch.Init(acc, 0x10, 1, counter.Int, 0, 0, 64)
	assert.ErrorIs(t, err, pointersearch.ErrNoPasses)
}

func TestTwoPassChainResolves(t *testing.T) {
	data := make([]byte, 0x3000)
	putU16(data, 0x0010, 0x1000) // outer pointer: points at the inner pointer
	putU16(data, 0x1000, 0x2000) // inner pointer: points at the target
	data[0x2000] = 7

	guest := memregion.NewFlatGuest("ram", 0, data, 2, memregion.LittleEndian)
	acc := memregion.NewAccessor(guest)

	s, err := pointersearch.Init(acc, 0x2000, 1, counter.Int, 0, 2, 64)
	require.NoError(t, err)

	results := s.Results()
	require.Len(t, results, 1)
	assert.EqualValues(t, 0x0010, results[0].AddressInitial)
	assert.Equal(t, []int64{0, 0}, results[0].Offsets)

	s.Configure(valuesearch.Equal, valuesearch.PreviousSnapshot)
	matches, valid, err := s.Step(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, matches)
	assert.Equal(t, 1, valid)
}

func TestStepDropsChainWhoseValueChanged(t *testing.T) {
	data := make([]byte, 0x3000)
	putU16(data, 0x1000, 0x2000)
	data[0x2000] = 9

	guest := memregion.NewFlatGuest("ram", 0, data, 2, memregion.LittleEndian)
	acc := memregion.NewAccessor(guest)

	s, err := pointersearch.Init(acc, 0x2000, 1, counter.Int, 0, 1, 64)
	require.NoError(t, err)
	require.Len(t, s.Results(), 1)

	// Rewrite the pointer so the chain still resolves but now lands
	// somewhere its previous value cannot match.
	putU16(data, 0x1000, 0x2500)

	s.Configure(valuesearch.Equal, valuesearch.PreviousSnapshot)
	matches, valid, err := s.Step(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, matches)
	assert.Equal(t, 1, valid) // the chain still resolved, just to a different value
}

func TestUpdateRefreshesWithoutFiltering(t *testing.T) {
	data := make([]byte, 0x3000)
	putU16(data, 0x1000, 0x2000)
	data[0x2000] = 5

	guest := memregion.NewFlatGuest("ram", 0, data, 2, memregion.LittleEndian)
	acc := memregion.NewAccessor(guest)

	s, err := pointersearch.Init(acc, 0x2000, 1, counter.Int, 0, 1, 64)
	require.NoError(t, err)

	data[0x2000] = 99
	s.Update()

	results := s.Results()
	require.Len(t, results, 1)
	assert.EqualValues(t, 99, results[0].ValueCurrent.Uint())
	assert.EqualValues(t, 0x2000, results[0].AddressFinal)
}

func TestInitTruncatesAtMaxResults(t *testing.T) {
	data := make([]byte, 0x40)
	for addr := uint16(0); addr < 0x20; addr += 2 {
		putU16(data, addr, 0x30) // every candidate slot points at the same target
	}
	data[0x30] = 1

	guest := memregion.NewFlatGuest("ram", 0, data, 2, memregion.LittleEndian)
	acc := memregion.NewAccessor(guest)

	s, err := pointersearch.Init(acc, 0x30, 1, counter.Int, 0, 1, 3)
	require.NoError(t, err)
	assert.True(t, s.Truncated())
	assert.Len(t, s.Results(), 3)
}
