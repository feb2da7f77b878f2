package valuesearch

import (
	"encoding/binary"

	"github.com/newhook/memsearch/counter"
	"github.com/newhook/memsearch/memregion"
)

// readWidth decodes the first width bytes of b as an unsigned integer,
// honoring endian. It mirrors memregion's internal codec but operates on a
// page's own snapshot buffer rather than a Registry.
func readWidth(b []byte, width int, endian memregion.Endianness) uint64 {
	switch width {
	case 1:
		return uint64(b[0])
	case 2:
		if endian == memregion.BigEndian {
			return uint64(binary.BigEndian.Uint16(b[:2]))
		}
		return uint64(binary.LittleEndian.Uint16(b[:2]))
	case 4:
		if endian == memregion.BigEndian {
			return uint64(binary.BigEndian.Uint32(b[:4]))
		}
		return uint64(binary.LittleEndian.Uint32(b[:4]))
	default:
		if endian == memregion.BigEndian {
			return binary.BigEndian.Uint64(b[:8])
		}
		return binary.LittleEndian.Uint64(b[:8])
	}
}

// encodeCounter writes current's bit pattern into dst[:width], honoring
// endian, so the page's snapshot buffer stays in sync as the "previous"
// value for the following Step.
func encodeCounter(dst []byte, current counter.Counter, endian memregion.Endianness, width int) {
	v := current.Uint()
	switch width {
	case 1:
		dst[0] = byte(v)
	case 2:
		if endian == memregion.BigEndian {
			binary.BigEndian.PutUint16(dst, uint16(v))
		} else {
			binary.LittleEndian.PutUint16(dst, uint16(v))
		}
	case 4:
		if endian == memregion.BigEndian {
			binary.BigEndian.PutUint32(dst, uint32(v))
		} else {
			binary.LittleEndian.PutUint32(dst, uint32(v))
		}
	default:
		if endian == memregion.BigEndian {
			binary.BigEndian.PutUint64(dst, v)
		} else {
			binary.LittleEndian.PutUint64(dst, v)
		}
	}
}
