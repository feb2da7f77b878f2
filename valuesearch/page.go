package valuesearch

import (
	"github.com/newhook/memsearch/bitmap"
	"github.com/newhook/memsearch/memregion"
)

// page is the spec.md §3 "Search Page": a fixed-size window into one region
// carrying the last-seen bytes plus per-element validity. Pages live in
// Session.pages, a plain growable slice compacted after every Step (Design
// Notes option (b)) rather than a hand-rolled doubly-linked list — the
// engine only ever needs whole-page removal during a single forward walk,
// which compaction handles with far less bookkeeping.
type page struct {
	region memregion.Region
	start  uint64 // guest base address of this page
	size   int    // bytes actually covered (< PageSize only for a region's tail page)

	data     []byte
	validity bitmap.Bitmap

	firstMatch int
	lastMatch  int
	matches    int
}

func (p *page) elementCount(valueSize int) int {
	return p.size / valueSize
}

// address returns the guest address of element i within this page.
func (p *page) address(i, valueSize int) uint64 {
	return p.start + uint64(i*valueSize)
}
