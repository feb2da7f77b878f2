package pointersearch

import (
	"github.com/newhook/memsearch/counter"
	"github.com/newhook/memsearch/memregion"
	"github.com/newhook/memsearch/valuesearch"
)

// Resolve walks a candidate chain: starting from AddressInitial, it
// dereferences through accessor once per recorded offset, adding that
// pass's offset after each dereference. It mirrors
// original_source/cl_search.c's resolve_pointerresult exactly, including
// failing closed the moment any hop lands outside a registered region.
// Exported so a caller holding a Result outside any live Session (e.g.
// searchsession's Observer/Refresh API) can re-resolve it without needing a
// Session at all.
func Resolve(accessor *memregion.Accessor, r Result) (uint64, bool) {
	address := r.AddressInitial
	for i := 0; i < len(r.Offsets); i++ {
		region, ok := accessor.FindRegion(address)
		if !ok {
			return 0, false
		}
		next, err := accessor.Read(&region, address, 0, region.PointerLength)
		if err != nil {
			return 0, false
		}
		address = next + uint64(r.Offsets[i])
	}
	return address, true
}

func (s *Session) resolvePointer(r Result) (uint64, bool) {
	return Resolve(s.accessor, r)
}

// Configure sets the comparison applied by the next Step. Unlike
// valuesearch, CurrentRam is meaningless here (there is no single guest
// "current memory" backing a pointer chain) and is treated the same as
// PreviousSnapshot.
func (s *Session) Configure(cmp valuesearch.Comparison, source valuesearch.Source) {
	if source == valuesearch.CurrentRam {
		source = valuesearch.PreviousSnapshot
	}
	s.comparison = cmp
	s.source = source
}

// Step resolves every candidate chain, reads its terminal value, and drops
// chains that fail to resolve or do not satisfy the configured comparison.
// value plays the same dual immediate/qualifier role as
// valuesearch.Session.StepValue's argument. It returns the number of chains
// that matched and the number that resolved at all (matches <= valid
// pointers <= len(Results) before the step), matching
// cl_pointersearch_step's "matches across N valid pointers" bookkeeping
// (supplementing spec.md, which tracks only the match count).
func (s *Session) Step(value *counter.Counter) (matches int, validPointers int, err error) {
	kept := s.results[:0]
	for _, r := range s.results {
		addr, ok := s.resolvePointer(r)
		if !ok {
			continue
		}
		bits, rerr := s.accessor.Read(nil, addr, 0, s.valueSize)
		if rerr != nil {
			continue
		}
		r.AddressFinal = addr
		r.ValueCurrent = decodeWidth(bits, s.kind, s.width)
		validPointers++

		matched := valuesearch.Evaluate(r.ValueCurrent, r.ValuePrevious, s.comparison, s.source, value)
		r.ValuePrevious = r.ValueCurrent
		if matched {
			kept = append(kept, r)
			matches++
		}
	}
	s.results = kept
	return matches, validPointers, nil
}

// Update refreshes AddressFinal and ValueCurrent for every surviving
// candidate without applying the comparison or discarding anything — the
// Observer/Refresh path a UI uses to redraw values between Steps.
func (s *Session) Update() {
	for i := range s.results {
		r := &s.results[i]
		addr, ok := s.resolvePointer(*r)
		if !ok {
			continue
		}
		bits, err := s.accessor.Read(nil, addr, 0, s.valueSize)
		if err != nil {
			continue
		}
		r.AddressFinal = addr
		r.ValueCurrent = decodeWidth(bits, s.kind, s.width)
	}
}

// Results returns the session's current candidate chains.
func (s *Session) Results() []Result { return s.results }

// Truncated reports whether Init or any of its additional passes stopped
// early because it hit maxResults.
func (s *Session) Truncated() bool { return s.truncated }

// Passes reports how many dereferences a fully resolved chain takes.
func (s *Session) Passes() int { return s.passes }
