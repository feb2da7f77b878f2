package searchsession

import (
	"github.com/newhook/memsearch/memregion"
	"github.com/newhook/memsearch/pointersearch"
	"github.com/newhook/memsearch/valuesearch"
)

// SnapshotWindow returns up to count rows starting at firstIndex from the
// current value-search candidate set, re-reading guest memory so the
// result reflects the latest state (spec.md §4.G "Observer/Refresh" — a UI
// paging through a large result set without re-running Step).
func (s *Session) SnapshotWindow(firstIndex, count int) ([]valuesearch.Row, error) {
	rows, err := s.values.Iterate()
	if err != nil {
		return nil, err
	}
	if firstIndex >= len(rows) {
		return nil, nil
	}
	end := firstIndex + count
	if end > len(rows) {
		end = len(rows)
	}
	return rows[firstIndex:end], nil
}

// ResolvePointerChain resolves a single pointer-search result to its
// current terminal address. Unlike PointerStep/PointerUpdate it does not
// require r to still belong to s's active pointer search — a UI may hold a
// Result captured earlier (e.g. pinned for continuous display after the
// candidate set has moved on).
func (s *Session) ResolvePointerChain(r pointersearch.Result) (uint64, error) {
	address, ok := pointersearch.Resolve(s.accessor, r)
	if !ok {
		return 0, memregion.ErrUnreadable
	}
	return address, nil
}
