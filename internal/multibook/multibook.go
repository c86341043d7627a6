// Package multibook implements the thin "many books in one process"
// container: three independently-growable pools of books, one per tier,
// dispatched through a stable Handle.
package multibook

import (
	"github.com/raddy/tape-book/internal/arena"
	"github.com/raddy/tape-book/internal/book"
	"github.com/raddy/tape-book/internal/tape"
	"github.com/raddy/tape-book/pkg/metrics"
)

// BookTier tags which of the container's three width variants a book
// belongs to.
type BookTier int8

const (
	High BookTier = iota
	Medium
	Low
)

// Handle is a stable key into a Container, valid for the container's
// lifetime. The underlying slice only ever grows, so an index handed out
// once stays valid across later allocations.
type Handle struct {
	Tier BookTier
	Idx  int32
}

// TierWidths gives each tier's tape width N and per-side spill max_cap.
type TierWidths struct {
	N      int32
	MaxCap int32
}

// Container is the static-dispatch table over High/Medium/Low books. All
// three tiers hold the same Go type, *book.Book[P, Q] — this
// implementation renders tape width as a runtime field rather than a
// compile-time parameter (see SPEC_FULL.md §3), so there is no
// type-per-tier dispatch problem to solve; the tiers are kept as
// separate slices purely so each one's books stay contiguous and grows
// independently.
type Container[P tape.Price, Q tape.Qty] struct {
	widths [3]TierWidths
	books  [3][]*book.Book[P, Q]
	pool   *arena.Arena[P, Q]
	rec    *metrics.Recorder
}

// New constructs a Container with the given per-tier widths. pool and
// rec may be nil; when pool is non-nil it backs every allocated book's
// spill sides and is shared across all three tiers.
func New[P tape.Price, Q tape.Qty](high, medium, low TierWidths, pool *arena.Arena[P, Q], rec *metrics.Recorder) *Container[P, Q] {
	return &Container[P, Q]{
		widths: [3]TierWidths{High: high, Medium: medium, Low: low},
		pool:   pool,
		rec:    rec,
	}
}

// Allocate constructs a new book in the given tier, anchored at 0, and
// returns a Handle to it.
func (c *Container[P, Q]) Allocate(tier BookTier) Handle {
	w := c.widths[tier]
	b := book.New[P, Q](w.N, w.MaxCap, c.pool, c.rec)
	idx := int32(len(c.books[tier]))
	c.books[tier] = append(c.books[tier], b)
	return Handle{Tier: tier, Idx: idx}
}

// WithBook dispatches fn against the book identified by h.
func (c *Container[P, Q]) WithBook(h Handle, fn func(*book.Book[P, Q])) {
	fn(c.books[h.Tier][h.Idx])
}

// Book returns the book identified by h directly, for callers that don't
// need the closure form.
func (c *Container[P, Q]) Book(h Handle) *book.Book[P, Q] {
	return c.books[h.Tier][h.Idx]
}

// Len returns the number of books allocated in tier.
func (c *Container[P, Q]) Len(tier BookTier) int32 { return int32(len(c.books[tier])) }

// Release releases every allocated book's spill allocations back to the
// shared arena, if any. It must run before the arena's own release.
func (c *Container[P, Q]) Release() {
	for tier := range c.books {
		for _, b := range c.books[tier] {
			b.Release()
		}
	}
}
