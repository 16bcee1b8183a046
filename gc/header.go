package gc

import "unsafe"

// ALIGNMENT is the byte alignment every cell start and every cell's total
// size must satisfy.
const ALIGNMENT = 16

// header is the two-word prefix written immediately before every cell's
// payload bytes.
type header struct {
	tag  tagWord
	size uintptr
}

// headerSize is sizeof(header), always one cell's worth of bookkeeping
// overhead: two machine words.
const headerSize = unsafe.Sizeof(header{})

// headerAt reinterprets the bytes at addr as a header. addr must be the
// start of a cell.
func headerAt(addr uintptr) *header {
	return (*header)(unsafe.Pointer(addr))
}

// headerOf returns the header immediately preceding a payload address.
func headerOf(payload unsafe.Pointer) *header {
	return headerAt(uintptr(payload) - headerSize)
}

// payload returns the address of the bytes immediately following h.
func (h *header) payload() unsafe.Pointer {
	return unsafe.Pointer(uintptr(unsafe.Pointer(h)) + headerSize)
}

// addr returns the address of the header itself, i.e. the start of the cell.
func (h *header) addr() uintptr {
	return uintptr(unsafe.Pointer(h))
}

// sizeBytes returns the cell's total byte length, header included.
func (h *header) sizeBytes() uintptr {
	return h.size
}

// isFree reports whether this header denotes an unallocated cell.
func (h *header) isFree() bool {
	return h.tag.isFree()
}

// descriptor returns the type descriptor for a live cell. Must not be
// called on a free cell.
func (h *header) descriptor() *Descriptor {
	return h.tag.descriptor()
}

// mark sets the mark bit and reports whether it was already set. Cycle
// detection in the mark phase relies on the idempotence of this operation:
// a cell visited twice is only traced once.
func (h *header) mark() bool {
	if h.tag.marked() {
		return true
	}
	h.tag = h.tag.withMark()
	return false
}

// unmark clears the mark bit, leaving the descriptor pointer untouched.
func (h *header) unmark() {
	h.tag = h.tag.withoutMark()
}

// installForward overwrites the tag word with a raw forwarding address.
// Callers must not thereafter interpret this header's tag word as a
// descriptor/mark pair. The forwarding address stays readable in the old
// half from the copy phase until the next collection reuses that half;
// the rewrite phases and AllocateTyped's post-collection Relocate read it.
func (h *header) installForward(addr uintptr) {
	h.tag = forwardTagWord(addr)
}

// forward reads the tag word as a raw forwarding address.
func (h *header) forward() uintptr {
	return h.tag.asForward()
}

// roundUp rounds n up to the next multiple of ALIGNMENT.
func roundUp(n uintptr) uintptr {
	return (n + ALIGNMENT - 1) &^ (ALIGNMENT - 1)
}
