package gc

import "unsafe"

// Descriptor is the embedder-supplied, stable, read-only record of
// callbacks for one payload layout. The collector never inspects payload
// bytes itself; every child pointer is reached through these three
// functions.
//
// Descriptor values must outlive the Collector and must not move once
// registered: the collector stores a raw pointer to the descriptor inside
// every cell header's tag word, relying on the low bit being free for the
// mark flag (guaranteed by Go for any pointer-containing value).
type Descriptor struct {
	// Trace is called once per live cell during the mark phase. The
	// embedder must call Collector.NoteReachable for every managed child
	// pointer in payload.
	Trace func(c *Collector, payload unsafe.Pointer)

	// Relocate is called once per surviving cell during the rewrite
	// phase, after every old header holds a forwarding address. The
	// embedder must call Collector.Rewrite for every managed child
	// pointer in payload, overwriting it in place.
	Relocate func(c *Collector, payload unsafe.Pointer)

	// Destroy is called during the copy phase on every allocated cell the
	// mark phase did not reach, while its old payload is still intact and
	// before any forwarding address is written over its header. Cells
	// earlier in the walk may already have been copied and forwarded, so
	// Destroy callbacks must not follow managed pointers: their targets
	// may already have moved.
	Destroy func(c *Collector, payload unsafe.Pointer)
}
