// Package counter implements the typed value used throughout the search
// engines to compare guest memory contents without mixing integer and
// float semantics by accident.
package counter

import "math"

// Kind tags the payload carried by a Counter.
type Kind uint8

const (
	Int Kind = iota
	Float
)

func (k Kind) String() string {
	if k == Float {
		return "float"
	}
	return "int"
}

// Width is the size in bytes of the value a Counter was loaded from.
type Width uint8

const (
	Width1 Width = 1
	Width2 Width = 2
	Width4 Width = 4
	Width8 Width = 8
)

// MismatchHook, when set, is called whenever Equal/Greater/Less is asked to
// compare counters of different Kind. It exists so a host can surface the
// condition as a programming error without this package reaching for a
// process-wide logger or panicking on what is, at the API boundary, a
// recoverable "false" result.
var MismatchHook func(a, b Counter)

// Counter holds a single comparable value tagged with its kind and width.
// Integers are stored zero/sign-extended into bits as a uint64 bit pattern;
// floats are stored bit-cast into the low 32 or 64 bits of bits depending on
// Width.
type Counter struct {
	Kind  Kind
	Width Width
	bits  uint64
}

// StoreInt loads an integer value into the counter.
func StoreInt(v int64, width Width) Counter {
	return Counter{Kind: Int, Width: width, bits: uint64(v)}
}

// StoreFloat loads a float value into the counter. Width4 bit-casts through
// float32; Width8 bit-casts through float64.
func StoreFloat(v float64, width Width) Counter {
	c := Counter{Kind: Float, Width: width}
	if width == Width4 {
		c.bits = uint64(math.Float32bits(float32(v)))
	} else {
		c.bits = math.Float64bits(v)
	}
	return c
}

// Int returns the counter's payload as a signed 64-bit integer, sign-extended
// from Width. Only meaningful when Kind == Int.
func (c Counter) Int() int64 {
	switch c.Width {
	case Width1:
		return int64(int8(c.bits))
	case Width2:
		return int64(int16(c.bits))
	case Width4:
		return int64(int32(c.bits))
	default:
		return int64(c.bits)
	}
}

// Uint returns the counter's payload as an unsigned 64-bit integer.
func (c Counter) Uint() uint64 {
	switch c.Width {
	case Width1:
		return uint64(uint8(c.bits))
	case Width2:
		return uint64(uint16(c.bits))
	case Width4:
		return uint64(uint32(c.bits))
	default:
		return c.bits
	}
}

// Float returns the counter's payload as a float64. Only meaningful when
// Kind == Float.
func (c Counter) Float() float64 {
	if c.Width == Width4 {
		return float64(math.Float32frombits(uint32(c.bits)))
	}
	return math.Float64frombits(c.bits)
}

// Mask returns the bit mask covering exactly Width bytes, used by callers
// that need width-correct wrapping arithmetic (e.g. qualified Increased /
// Decreased deltas).
func (c Counter) Mask() uint64 {
	switch c.Width {
	case Width1:
		return 0xFF
	case Width2:
		return 0xFFFF
	case Width4:
		return 0xFFFFFFFF
	default:
		return 0xFFFFFFFFFFFFFFFF
	}
}

// WithUint returns a copy of c with its integer payload replaced, masked to
// c.Width. Used to build "previous + delta" style values with the same
// wraparound the guest's own arithmetic would exhibit.
func (c Counter) WithUint(v uint64) Counter {
	c.bits = v & c.Mask()
	return c
}

func (a Counter) mismatch(b Counter) bool {
	if a.Kind != b.Kind {
		if MismatchHook != nil {
			MismatchHook(a, b)
		}
		return true
	}
	return false
}

// Equal reports whether a == b. NaN never compares equal.
func (a Counter) Equal(b Counter) bool {
	if a.mismatch(b) {
		return false
	}
	if a.Kind == Float {
		af, bf := a.Float(), b.Float()
		if math.IsNaN(af) || math.IsNaN(bf) {
			return false
		}
		// Equality with a non-fractional argument compares the floor of the
		// current value to the argument — the caller has not expressed
		// sub-unit precision. Both sides are real floats here (not a literal
		// argument), so apply the same floor rule when b has no fractional
		// part.
		if math.Floor(bf) == bf {
			return math.Floor(af) == bf
		}
		return af == bf
	}
	return a.Uint() == b.Uint()
}

// NotEqual reports whether a != b. NaN always compares not-equal to
// anything, including itself.
func (a Counter) NotEqual(b Counter) bool {
	if a.mismatch(b) {
		return true
	}
	if a.Kind == Float {
		af, bf := a.Float(), b.Float()
		if math.IsNaN(af) || math.IsNaN(bf) {
			return true
		}
	}
	return !a.Equal(b)
}

// Greater reports whether a > b. NaN never compares greater.
func (a Counter) Greater(b Counter) bool {
	if a.mismatch(b) {
		return false
	}
	if a.Kind == Float {
		af, bf := a.Float(), b.Float()
		if math.IsNaN(af) || math.IsNaN(bf) {
			return false
		}
		return af > bf
	}
	return a.Int() > b.Int()
}

// Less reports whether a < b. NaN never compares less.
func (a Counter) Less(b Counter) bool {
	if a.mismatch(b) {
		return false
	}
	if a.Kind == Float {
		af, bf := a.Float(), b.Float()
		if math.IsNaN(af) || math.IsNaN(bf) {
			return false
		}
		return af < bf
	}
	return a.Int() < b.Int()
}
