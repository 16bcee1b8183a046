package gc

import (
	"unsafe"

	"go.uber.org/zap"
)

// NoteReachable is called from inside a Descriptor.Trace callback for
// every managed child pointer found in the traced payload. It pushes the
// child's cell onto the mark work list; pushing an already-marked cell is
// harmless, since mark() is idempotent and breaks cycles.
func (c *Collector) NoteReachable(p *Ptr) {
	c.work.Push(p.header().addr())
}

// Rewrite is called from inside a Descriptor.Relocate callback for every
// managed child pointer found in a surviving payload. It looks up the
// child's forwarding address, installed during the copy phase, and
// stores it back through the managed pointer.
func (c *Collector) Rewrite(p *Ptr) {
	p.Store(unsafe.Pointer(p.header().forward()))
}

// Collect runs one full collection cycle: mark roots, mark, copy, seal,
// rewrite, rewrite handles, flip. Calling Collect while a collection is
// already in progress is a programmer error and aborts the process.
func (c *Collector) Collect() {
	if c.inGC {
		fatalRecursiveGC()
	}
	c.inGC = true
	defer func() { c.inGC = false }()

	c.logger.Debug("gc: collection starting",
		zap.Uint64("count", c.gcCount),
		zap.Uintptr("cursor", c.cursor))

	c.markRoots()
	c.mark()
	toCursor := c.copyLive()
	c.seal(toCursor)
	c.rewriteScratch()
	c.rewriteHandles()
	c.flip(toCursor)

	c.gcCount++
	c.logger.Debug("gc: collection finished",
		zap.Uint64("count", c.gcCount),
		zap.Uintptr("cursor", c.cursor))
}

// markRoots seeds the work list with every handle-table entry and every
// registered root provider's current roots.
func (c *Collector) markRoots() {
	c.work.Reset()
	c.handles.forEach(func(addr unsafe.Pointer) {
		c.work.Push(headerOf(addr).addr())
	})
	for _, rp := range c.rootProviders {
		for _, addr := range rp.Roots() {
			c.work.Push(headerOf(addr).addr())
		}
	}
}

// mark drains the work list, calling each live cell's Trace callback
// exactly once. Trace pushes the cell's children back onto the list via
// NoteReachable, so the loop terminates only once every reachable cell
// has been visited.
func (c *Collector) mark() {
	for {
		addr, ok := c.work.Pop()
		if !ok {
			return
		}
		h := headerAt(addr)
		if h.mark() {
			continue
		}
		if h.isFree() {
			fatalFreeInWorkList()
		}
		h.descriptor().Trace(c, h.payload())
	}
}

// copyLive walks the active half linearly from offset 0, copying every
// marked cell to the scratch half in address order (stable, order
// preserving compaction) and calling Destroy on every unmarked one. It
// installs a forwarding address — the payload address of the new copy —
// in each surviving cell's old header, and returns the number of bytes
// written to the scratch half.
func (c *Collector) copyLive() uintptr {
	from := c.active()
	to := c.scratch()

	var fromCursor, toCursor uintptr
	for fromCursor < c.spaceSize {
		h := headerAt(from + fromCursor)
		sz := h.sizeBytes()
		if sz < headerSize {
			fatalUndersizedCell()
		}

		if h.isFree() {
			fromCursor += sz
			continue
		}

		if !h.tag.marked() {
			h.descriptor().Destroy(c, h.payload())
			fromCursor += sz
			continue
		}

		dst := to + toCursor
		copyBytes(from+fromCursor, dst, sz)

		newHeader := headerAt(dst)
		newHeader.unmark()
		h.installForward(uintptr(newHeader.payload()))

		fromCursor += sz
		toCursor += sz
	}
	return toCursor
}

// seal writes the trailing free-cell header at the end of the live data
// just copied into the scratch half, unless the copy exactly filled it —
// in which case there is no trailing free cell and writing one would run
// past the end of the mapped half.
func (c *Collector) seal(toCursor uintptr) {
	if toCursor < c.spaceSize {
		free := headerAt(c.scratch() + toCursor)
		free.tag = freeTagWord()
		free.size = c.spaceSize - toCursor
	}
}

// rewriteScratch walks the scratch half linearly, calling Relocate on
// every surviving cell so every managed pointer it holds is rewritten to
// point into the scratch half. This must run strictly after copyLive and
// seal complete, so that every old header already holds a forwarding
// address before any Relocate callback reads one.
func (c *Collector) rewriteScratch() {
	base := c.scratch()
	var cursor uintptr
	for cursor < c.spaceSize {
		h := headerAt(base + cursor)
		sz := h.sizeBytes()
		if h.isFree() {
			cursor += sz
			continue
		}
		h.descriptor().Relocate(c, h.payload())
		cursor += sz
	}
}

// rewriteHandles replaces every handle-table entry with its forwarding
// address, the last step before the two halves swap roles.
func (c *Collector) rewriteHandles() {
	c.handles.rewriteAll(func(old unsafe.Pointer) unsafe.Pointer {
		return unsafe.Pointer(headerOf(old).forward())
	})
}

// flip swaps the roles of the two half-spaces and adopts the scratch
// half's cursor as the new active cursor.
func (c *Collector) flip(toCursor uintptr) {
	c.activeOffset = c.spaceSize - c.activeOffset
	c.cursor = toCursor
}

// copyBytes performs a non-overlapping byte copy between two addresses in
// the collector's mapping. The two halves are disjoint regions, so this
// is always non-overlapping regardless of sz.
func copyBytes(src, dst uintptr, sz uintptr) {
	srcSlice := unsafe.Slice((*byte)(unsafe.Pointer(src)), sz)
	dstSlice := unsafe.Slice((*byte)(unsafe.Pointer(dst)), sz)
	copy(dstSlice, srcSlice)
}
