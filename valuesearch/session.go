package valuesearch

import (
	"github.com/newhook/memsearch/bitmap"
	"github.com/newhook/memsearch/counter"
	"github.com/newhook/memsearch/memregion"
)

// Row is one surviving candidate element as returned by Iterate: its guest
// address, the value recorded by the previous Step, and its freshly read
// current value.
type Row struct {
	Address  uint64
	Previous counter.Counter
	Current  counter.Counter
}

// Session is the component D "Value Search Engine": a paged, incremental
// scan across every region a Registry exposes, narrowed one Step at a time.
// A zero Session is not usable; construct one with NewSession.
type Session struct {
	accessor *memregion.Accessor

	valueSize int
	kind      counter.Kind
	width     counter.Width
	pageSize  int

	cfg Config

	pages   []*page
	steps   int
	matches int
}

// NewSession creates a value-search session reading through accessor. Call
// Reset to size the first search.
func NewSession(accessor *memregion.Accessor) *Session {
	return &Session{accessor: accessor, pageSize: DefaultPageSize}
}

// Reset starts a brand new search: every size-byte element of every
// registered region (at a stride of size from the region's base) becomes a
// candidate of width size and kind. This discards any
// prior narrowing.
func (s *Session) Reset(kind counter.Kind, size int) error {
	if err := validateConfig(size, kind, s.pageSizeOrDefault()); err != nil {
		return err
	}
	s.valueSize = size
	s.kind = kind
	s.width = counter.Width(size)
	s.steps = 0
	s.matches = 0
	s.pages = nil

	for _, region := range s.accessor.Registry.Regions() {
		for off := uint64(0); off < region.Size; off += uint64(s.pageSizeOrDefault()) {
			remaining := region.Size - off
			psize := uint64(s.pageSizeOrDefault())
			if remaining < psize {
				psize = remaining
			}
			// Truncate to a whole number of elements; a region whose size is
			// not element-aligned drops its final partial element.
			elemCount := int(psize) / size
			if elemCount == 0 {
				continue
			}
			byteLen := elemCount * size
			p := &page{
				region: region,
				start:  region.BaseGuest + off,
				size:   byteLen,
				data:   make([]byte, byteLen),
			}
			p.validity = bitmap.New(elemCount)
			if err := s.accessor.ReadBulk(region, p.start, p.data, byteLen); err != nil {
				continue
			}
			p.validity.SetAll()
			p.firstMatch = 0
			p.lastMatch = elemCount - 1
			p.matches = elemCount
			s.matches += elemCount
			s.pages = append(s.pages, p)
		}
	}
	return nil
}

func (s *Session) pageSizeOrDefault() int {
	if s.cfg.PageSize > 0 {
		return s.cfg.PageSize
	}
	return DefaultPageSize
}

// Configure sets the comparison applied by the next StepValue/StepASCII
// call. It may be called again between steps to change the predicate
// without discarding narrowed candidates (spec.md §4.F).
func (s *Session) Configure(cfg Config) error {
	if cfg.PageSize == 0 {
		cfg.PageSize = s.pageSizeOrDefault()
	}
	if err := validateConfig(s.valueSize, s.kind, cfg.PageSize); err != nil {
		return err
	}
	s.cfg = cfg
	return nil
}

// Matches returns the number of currently valid candidate elements.
func (s *Session) Matches() int { return s.matches }

// StepValue reads current memory for every remaining candidate, applies the
// configured comparison, and discards non-matching elements. value supplies
// both the immediate comparison operand (Equal/NotEqual/Greater/Less with an
// Immediate Source) and the optional qualifier for a quantified
// Increased/Decreased ("changed by exactly value"); pass nil for an
// unqualified Increased/Decreased or when Source is PreviousSnapshot /
// CurrentRam.
func (s *Session) StepValue(value *counter.Counter) (int, error) {
	first := s.steps == 0
	s.steps++
	s.matches = 0

	kept := s.pages[:0]
	for _, p := range s.pages {
		if err := s.stepPage(p, value, first); err != nil {
			return 0, err
		}
		if p.matches > 0 {
			kept = append(kept, p)
			s.matches += p.matches
		}
		// A pass that drops a page to zero matches retires it for good: the
		// spec's Open Question resolution treats this as a terminal empty
		// state for that region window, not a silent empty-array swap-in.
	}
	s.pages = kept
	return s.matches, nil
}

func (s *Session) stepPage(p *page, value *counter.Counter, first bool) error {
	n := p.elementCount(s.valueSize)
	newData := make([]byte, p.size)
	copy(newData, p.data)

	firstMatch, lastMatch, matches := -1, -1, 0
	for i := 0; i < n; i++ {
		if !p.validity.Get(i) {
			continue
		}
		addr := p.address(i, s.valueSize)
		cur, err := s.accessor.Read(&p.region, addr, 0, s.valueSize)
		if err != nil {
			p.validity.Clear(i)
			continue
		}
		current := decodeCounter(cur, s.kind, s.width)
		previous := decodeCounter(readWidth(p.data[i*s.valueSize:], s.valueSize, p.region.Endianness), s.kind, s.width)

		var ok bool
		switch s.cfg.Comparison {
		case AboveAddress:
			ok = value != nil && addr > value.Uint()
		case BelowAddress:
			ok = value != nil && addr < value.Uint()
		default:
			if first {
				ok = Evaluate(current, current, s.cfg.Comparison, s.cfg.Source, value)
			} else {
				ok = Evaluate(current, previous, s.cfg.Comparison, s.cfg.Source, value)
			}
		}

		encodeCounter(newData[i*s.valueSize:], current, p.region.Endianness, s.valueSize)
		if !ok {
			p.validity.Clear(i)
			continue
		}
		if firstMatch == -1 {
			firstMatch = i
		}
		lastMatch = i
		matches++
	}

	p.data = newData
	p.firstMatch = firstMatch
	p.lastMatch = lastMatch
	p.matches = matches
	return nil
}

// StepASCII narrows candidates to addresses where the 1-byte-wide elements
// spell out text starting at that address: elements within
// [lastMatch-len(text)+1, lastMatch] must also fall within range and verify
// their trailing bytes, mirroring the original source's in-place ASCII
// chain check.
func (s *Session) StepASCII(text string) (int, error) {
	if len(text) == 0 {
		return s.matches, nil
	}
	s.steps++
	s.matches = 0

	kept := s.pages[:0]
	for _, p := range s.pages {
		n := p.elementCount(1)
		matches := 0
		first, last := -1, -1
		for i := 0; i < n; i++ {
			if !p.validity.Get(i) {
				continue
			}
			addr := p.address(i, 1)
			// The trailing bytes of a candidate near the end of this page may
			// still be readable — pages are arbitrary PageSize-wide slices,
			// not region-aligned. Only the region's own extent bounds a
			// valid ASCII match (spec.md §4.D); a page-local cutoff would
			// wrongly drop matches that straddle two pages of the same
			// region.
			if addr+uint64(len(text)) > p.region.BaseGuest+p.region.Size {
				p.validity.Clear(i)
				continue
			}
			ok := true
			for j := 0; j < len(text); j++ {
				addr := p.address(i+j, 1)
				v, err := s.accessor.Read(&p.region, addr, 0, 1)
				if err != nil || byte(v) != text[j] {
					ok = false
					break
				}
			}
			if !ok {
				p.validity.Clear(i)
				continue
			}
			if first == -1 {
				first = i
			}
			last = i
			matches++
		}
		p.firstMatch, p.lastMatch, p.matches = first, last, matches
		if matches > 0 {
			kept = append(kept, p)
			s.matches += matches
		}
	}
	s.pages = kept
	return s.matches, nil
}

// Iterate returns every surviving candidate in ascending address order. It
// is safe to call repeatedly between Steps; each call re-reads current
// memory so results reflect the latest guest state.
func (s *Session) Iterate() ([]Row, error) {
	var rows []Row
	for _, p := range s.pages {
		n := p.elementCount(s.valueSize)
		for i := 0; i < n; i++ {
			if !p.validity.Get(i) {
				continue
			}
			addr := p.address(i, s.valueSize)
			cur, err := s.accessor.Read(&p.region, addr, 0, s.valueSize)
			if err != nil {
				continue
			}
			prev := readWidth(p.data[i*s.valueSize:], s.valueSize, p.region.Endianness)
			rows = append(rows, Row{
				Address:  addr,
				Previous: decodeCounter(prev, s.kind, s.width),
				Current:  decodeCounter(cur, s.kind, s.width),
			})
		}
	}
	return rows, nil
}

func decodeCounter(bits uint64, kind counter.Kind, width counter.Width) counter.Counter {
	if kind == counter.Float {
		return counter.StoreFloat(0, width).WithUint(bits)
	}
	return counter.StoreInt(0, width).WithUint(bits)
}
