// Package pointersearch implements the component E "Pointer Search Engine":
// multi-pass discovery of pointer chains that resolve to a chosen target
// address, grounded on original_source/cl_search.c's add_pass/
// resolve_pointerresult and cl_pointersearch_init/_step/_update.
package pointersearch

import (
	"errors"
	"log"

	"github.com/newhook/memsearch/counter"
	"github.com/newhook/memsearch/memregion"
	"github.com/newhook/memsearch/valuesearch"
)

// ErrUnreachableTarget is returned by Init when the requested target address
// cannot itself be read (the original's "address is invalid for a pointer
// search" check).
var ErrUnreachableTarget = errors.New("pointersearch: target address is not readable")

// ErrNoPasses is returned by Init when passes is zero; a pointer chain needs
// at least one dereference to mean anything.
var ErrNoPasses = errors.New("pointersearch: passes must be at least 1")

// Result is one candidate pointer chain: a base address holding a pointer,
// a sequence of per-pass offsets applied after each dereference, and the
// value last observed at the chain's resolved terminal address.
//
// Offsets is ordered outermost-first: Offsets[0] is added immediately after
// the first dereference of AddressInitial, Offsets[len-1] after the last
// dereference before reaching the terminal address.
type Result struct {
	AddressInitial uint64
	AddressFinal   uint64
	Offsets        []int64

	ValueCurrent  counter.Counter
	ValuePrevious counter.Counter
}

// Session is a live pointer search: a candidate set of chains, narrowed by
// Step the same way valuesearch narrows byte candidates, but rooted in
// chain resolution rather than raw address comparison.
type Session struct {
	accessor *memregion.Accessor

	target     uint64
	valueSize  int
	kind       counter.Kind
	width      counter.Width
	rng        uint64
	maxResults int
	passes     int

	comparison valuesearch.Comparison
	source     valuesearch.Source

	results   []Result
	truncated bool
}

// Init performs the first pass: every region is scanned for pointer-width
// values that land within [target-rng, target] (the original's "offset
// window"), each becoming a candidate one-hop chain to target. passes-1
// further add_pass rounds then extend each candidate one hop further back.
//
// exactOnly mirrors spec.md §4.E's region-count heuristic: with more than
// one registered region it is true and only pointers to the absolute target
// match; with exactly one region it is false and the target is taken as
// relative to that region's base address. It is always set, never left
// uninitialized as in the original C.
func Init(accessor *memregion.Accessor, target uint64, valueSize int, kind counter.Kind, rng uint64, passes int, maxResults int) (*Session, error) {
	if passes <= 0 {
		return nil, ErrNoPasses
	}
	width := counter.Width(valueSize)
	prevBits, err := accessor.Read(nil, target, 0, valueSize)
	if err != nil {
		return nil, ErrUnreachableTarget
	}
	prevValue := decodeWidth(prevBits, kind, width)

	s := &Session{
		accessor:   accessor,
		target:     target,
		valueSize:  valueSize,
		kind:       kind,
		width:      width,
		rng:        rng,
		maxResults: maxResults,
		passes:     1,
		comparison: valuesearch.Equal,
		source:     valuesearch.PreviousSnapshot,
	}

	exactOnly := len(accessor.Registry.Regions()) > 1

	for _, region := range accessor.Registry.Regions() {
		if region.Size < uint64(region.PointerLength) {
			continue
		}
		matchTarget := target
		if !exactOnly {
			matchTarget = region.BaseGuest + target
		}
		done := false
		for k := uint64(0); k+uint64(region.PointerLength) <= region.Size; k += uint64(region.PointerLength) {
			value, err := accessor.Read(&region, region.BaseGuest, k, region.PointerLength)
			if err != nil {
				continue
			}
			if !withinWindow(value, matchTarget, rng) {
				continue
			}
			s.results = append(s.results, Result{
				AddressInitial: region.BaseGuest + k,
				AddressFinal:   target,
				Offsets:        []int64{int64(target) - int64(value)},
				ValueCurrent:   prevValue,
				ValuePrevious:  prevValue,
			})
			if len(s.results) == maxResults {
				log.Printf("pointersearch: search for %#x reached maximum result count of %d", target, maxResults)
				s.truncated = true
				done = true
				break
			}
		}
		if done {
			break
		}
	}

	for i := passes; i > 1; i-- {
		s.addPass()
	}
	return s, nil
}

// withinWindow reports whether value falls in [target-rng, target],
// matching the original's "value <= target && value >= target - range"
// without the unsigned wraparound a literal port would introduce when
// target < rng.
func withinWindow(value, target, rng uint64) bool {
	if value > target {
		return false
	}
	if target-value > rng {
		return false
	}
	return true
}

// addPass extends every current candidate one hop further back: each
// result's AddressInitial becomes the new match target, and a fresh offset
// is prepended ahead of the chain already discovered.
func (s *Session) addPass() {
	s.passes++
	var next []Result
	for _, prev := range s.results {
		matchTarget := prev.AddressInitial
		stop := false
		for _, region := range s.accessor.Registry.Regions() {
			if region.Size < uint64(region.PointerLength) {
				continue
			}
			for k := uint64(0); k+uint64(region.PointerLength) <= region.Size; k += uint64(region.PointerLength) {
				value, err := s.accessor.Read(&region, region.BaseGuest, k, region.PointerLength)
				if err != nil {
					continue
				}
				if !withinWindow(value, matchTarget, s.rng) {
					continue
				}
				offsets := make([]int64, len(prev.Offsets)+1)
				offsets[0] = int64(matchTarget) - int64(value)
				copy(offsets[1:], prev.Offsets)
				next = append(next, Result{
					AddressInitial: region.BaseGuest + k,
					AddressFinal:   prev.AddressFinal,
					Offsets:        offsets,
					ValueCurrent:   prev.ValueCurrent,
					ValuePrevious:  prev.ValuePrevious,
				})
				if len(next) == s.maxResults {
					log.Printf("pointersearch: pass %d reached maximum result count of %d", s.passes, s.maxResults)
					s.truncated = true
					stop = true
					break
				}
			}
			if stop {
				break
			}
		}
		if stop {
			break
		}
	}
	s.results = next
}

func decodeWidth(bits uint64, kind counter.Kind, width counter.Width) counter.Counter {
	if kind == counter.Float {
		return counter.StoreFloat(0, width).WithUint(bits)
	}
	return counter.StoreInt(0, width).WithUint(bits)
}
