package memregion

import "encoding/binary"

// FlatGuest is the simplest possible Registry: a single region backed by one
// contiguous byte slice, such as a single running process's address space.
// It gives the single-region branch of pointersearch's exactOnly heuristic
// (spec.md §4.E "region-count heuristic") a realistic fixture.
type FlatGuest struct {
	region Region
	data   []byte
}

// NewFlatGuest wraps data (not copied) as a single region starting at
// baseGuest with the given native pointer width and endianness.
func NewFlatGuest(name string, baseGuest uint64, data []byte, pointerLength int, endianness Endianness) *FlatGuest {
	return &FlatGuest{
		region: Region{
			Name:          name,
			BaseGuest:     baseGuest,
			Size:          uint64(len(data)),
			PointerLength: pointerLength,
			Endianness:    endianness,
		},
		data: data,
	}
}

func (g *FlatGuest) Regions() []Region { return []Region{g.region} }

func (g *FlatGuest) FindRegion(addr uint64) (Region, bool) {
	if g.region.Contains(addr) {
		return g.region, true
	}
	return Region{}, false
}

func (g *FlatGuest) offset(addr uint64) int {
	return int(addr - g.region.BaseGuest)
}

func (g *FlatGuest) ReadAt(region Region, addr uint64, width int) (uint64, error) {
	off := g.offset(addr)
	if off < 0 || off+width > len(g.data) {
		return 0, ErrUnreadable
	}
	return decode(g.data[off:off+width], region.Endianness), nil
}

func (g *FlatGuest) ReadBulk(region Region, addr uint64, buf []byte, length int) error {
	off := g.offset(addr)
	if off < 0 || off+length > len(g.data) {
		return ErrUnreadable
	}
	copy(buf, g.data[off:off+length])
	return nil
}

func (g *FlatGuest) WriteAt(region Region, addr uint64, width int, value uint64) error {
	off := g.offset(addr)
	if off < 0 || off+width > len(g.data) {
		return ErrUnreadable
	}
	encode(g.data[off:off+width], value, region.Endianness)
	return nil
}

func decode(b []byte, endian Endianness) uint64 {
	var buf [8]byte
	copy(buf[:], b)
	switch len(b) {
	case 1:
		return uint64(buf[0])
	case 2:
		if endian == BigEndian {
			return uint64(binary.BigEndian.Uint16(buf[:2]))
		}
		return uint64(binary.LittleEndian.Uint16(buf[:2]))
	case 4:
		if endian == BigEndian {
			return uint64(binary.BigEndian.Uint32(buf[:4]))
		}
		return uint64(binary.LittleEndian.Uint32(buf[:4]))
	default:
		if endian == BigEndian {
			return binary.BigEndian.Uint64(buf[:8])
		}
		return binary.LittleEndian.Uint64(buf[:8])
	}
}

func encode(dst []byte, value uint64, endian Endianness) {
	switch len(dst) {
	case 1:
		dst[0] = byte(value)
	case 2:
		if endian == BigEndian {
			binary.BigEndian.PutUint16(dst, uint16(value))
		} else {
			binary.LittleEndian.PutUint16(dst, uint16(value))
		}
	case 4:
		if endian == BigEndian {
			binary.BigEndian.PutUint32(dst, uint32(value))
		} else {
			binary.LittleEndian.PutUint32(dst, uint32(value))
		}
	default:
		if endian == BigEndian {
			binary.BigEndian.PutUint64(dst, value)
		} else {
			binary.LittleEndian.PutUint64(dst, value)
		}
	}
}
