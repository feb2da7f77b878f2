// Package searchsession is the component F/G facade spec.md §6 describes:
// a single entry point reproducing the exposed interface
// (Reset/Configure/StepValue/StepASCII/Iterate/PointerInit/PointerStep/
// PointerUpdate/PointerResults/Free) in front of the two real engines,
// valuesearch.Session and pointersearch.Session.
package searchsession

import (
	"errors"

	"github.com/newhook/memsearch/counter"
	"github.com/newhook/memsearch/memregion"
	"github.com/newhook/memsearch/pointersearch"
	"github.com/newhook/memsearch/valuesearch"
)

// ErrNoPointerSearch is returned by PointerStep/PointerUpdate/PointerResults
// when PointerInit has not (yet, or any longer) been called.
var ErrNoPointerSearch = errors.New("searchsession: no pointer search in progress")

// Session owns one value-search engine and, optionally, one pointer-search
// engine layered on the same memory registry. Both share a single
// memregion.Accessor, so a value-search Step and a pointer-search Step see
// the same guest state.
type Session struct {
	registry memregion.Registry
	accessor *memregion.Accessor

	values   *valuesearch.Session
	pointers *pointersearch.Session
}

// New constructs a session reading through registry. Call Reset before the
// first StepValue/StepASCII.
func New(registry memregion.Registry) *Session {
	accessor := memregion.NewAccessor(registry)
	return &Session{
		registry: registry,
		accessor: accessor,
		values:   valuesearch.NewSession(accessor),
	}
}

// Reset starts a brand new value search of the given element kind and size.
func (s *Session) Reset(kind counter.Kind, size int) error {
	return s.values.Reset(kind, size)
}

// Configure sets the comparison applied by the next StepValue/StepASCII.
func (s *Session) Configure(cfg valuesearch.Config) error {
	return s.values.Configure(cfg)
}

// StepValue narrows the value search by one step.
func (s *Session) StepValue(value *counter.Counter) (int, error) {
	return s.values.StepValue(value)
}

// StepASCII narrows the value search to addresses spelling out text.
func (s *Session) StepASCII(text string) (int, error) {
	return s.values.StepASCII(text)
}

// Iterate returns every surviving value-search candidate, ascending by
// address.
func (s *Session) Iterate() ([]valuesearch.Row, error) {
	return s.values.Iterate()
}

// Matches reports the current value-search candidate count.
func (s *Session) Matches() int {
	return s.values.Matches()
}

// PointerInit starts a new pointer search for chains that resolve to
// address, replacing any pointer search already in progress.
func (s *Session) PointerInit(address uint64, valueSize int, kind counter.Kind, rng uint64, passes, maxResults int) error {
	ps, err := pointersearch.Init(s.accessor, address, valueSize, kind, rng, passes, maxResults)
	if err != nil {
		return err
	}
	s.pointers = ps
	return nil
}

// PointerStep narrows the pointer search by one step, applying comparison
// over source to each resolved chain's terminal value.
func (s *Session) PointerStep(comparison valuesearch.Comparison, source valuesearch.Source, value *counter.Counter) (matches, validPointers int, err error) {
	if s.pointers == nil {
		return 0, 0, ErrNoPointerSearch
	}
	s.pointers.Configure(comparison, source)
	return s.pointers.Step(value)
}

// PointerUpdate refreshes every surviving chain's terminal address and
// value without filtering.
func (s *Session) PointerUpdate() error {
	if s.pointers == nil {
		return ErrNoPointerSearch
	}
	s.pointers.Update()
	return nil
}

// PointerResults returns the pointer search's current candidate chains.
func (s *Session) PointerResults() ([]pointersearch.Result, error) {
	if s.pointers == nil {
		return nil, ErrNoPointerSearch
	}
	return s.pointers.Results(), nil
}

// PointerTruncated reports whether the active pointer search hit its
// maximum result count during discovery.
func (s *Session) PointerTruncated() bool {
	return s.pointers != nil && s.pointers.Truncated()
}

// Free releases the pointer search (the value search has no off-heap
// resources to release in the Go port; Free exists to match spec.md §6's
// exposed interface and as the place a future resource would be closed).
func (s *Session) Free() {
	s.pointers = nil
}
