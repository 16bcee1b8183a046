package gc

import "unsafe"

// Allocate reserves a cell of descriptor d and payloadBytes of payload
// space, bump-allocating inside the active half and triggering a
// collection on exhaustion. Returns ErrOutOfMemory if the request still
// does not fit after a collection, or is larger than a whole half-space.
func (c *Collector) Allocate(d *Descriptor, payloadBytes uintptr) (*Ptr, error) {
	if c.inGC {
		return nil, ErrReentrantAlloc
	}

	need := roundUp(headerSize + payloadBytes)
	if need > c.spaceSize-c.cursor {
		c.Collect()
		if need > c.spaceSize-c.cursor {
			return nil, ErrOutOfMemory
		}
	}

	cellAddr := c.active() + c.cursor
	h := headerAt(cellAddr)
	h.tag = newTagWord(d)
	h.size = need

	c.cursor += need
	c.totalAlloc += uint64(need)
	if uint64(c.cursor) > c.highWater {
		c.highWater = uint64(c.cursor)
	}

	// The trailing free cell always exists, spanning every byte still
	// unused in the active half — unless the cell we just carved out
	// exactly exhausted the half, in which case there is no unused space
	// left to describe and writing a header here would run one cell past
	// the end of the mapped half.
	if c.cursor < c.spaceSize {
		free := headerAt(c.active() + c.cursor)
		free.tag = freeTagWord()
		free.size = c.spaceSize - c.cursor
	}

	return NewPtr(h.payload()), nil
}

// AllocateTyped allocates a cell sized for T, copies value into it, and —
// if a collection ran during the call — re-runs d.Relocate on the fresh
// payload. That second step matters because value may hold managed
// pointers copied in from caller locals: those locals were never anchored
// by a handle, so a collection triggered by this very call can leave them
// stale by the time they're written into the new cell. Detection is by
// comparing the collection count before and after the allocation.
//
// Embedders that anchor every input in a handle before calling
// AllocateTyped may ignore this and treat it as a plain Allocate + copy;
// the re-run is a no-op when no collection occurred.
func AllocateTyped[T any](c *Collector, d *Descriptor, value T) (*Ptr, error) {
	sz := unsafe.Sizeof(value)
	before := c.gcCount

	p, err := c.Allocate(d, sz)
	if err != nil {
		return nil, err
	}

	*(*T)(p.Load()) = value

	if c.gcCount != before {
		d.Relocate(c, p.Load())
	}
	return p, nil
}
