package gc

import "unsafe"

// tagBits is the width, in bits, of the tag carried in the low bits of a
// tagWord. Only the mark flag is stored today, but the mask arithmetic below
// is written generically so a wider tag never requires touching set/get.
const tagBits = 1

// tagMask clears exactly the low tagBits bits of a pointer value. For a
// 1-bit tag that's bit 0; clearing bit 1 instead (as in `1<<tagBits`
// rather than `1<<tagBits - 1`) would leave the mark bit itself inside
// the "pointer" part, corrupting the descriptor address.
const tagMask = ^(uintptr(1)<<tagBits - 1)

// tagWord is the first machine word of a cell header. Outside a collection
// cycle it unions a descriptor address (2-byte aligned, guaranteed by Go for
// any pointer-containing struct) with a 1-bit mark flag in the low bit. A
// zero pointer with a clear mark bit denotes a free cell.
//
// During collection, between the copy phase and the rewrite-handles phase,
// the very same storage is reinterpreted as a raw forwarding address instead
// (see header.installForward). The two interpretations are never valid at
// the same time; it is a programmer error to read one while the other is
// live, and this type does not attempt to prevent that by itself — the
// collector tracks its own phase and only calls the matching accessor.
type tagWord uintptr

// freeTagWord constructs the tag word for an unallocated cell.
func freeTagWord() tagWord {
	return 0
}

// newTagWord packs a descriptor pointer with a clear mark bit.
func newTagWord(d *Descriptor) tagWord {
	return tagWord(uintptr(unsafe.Pointer(d)))
}

// descriptor returns the type descriptor, ignoring the mark bit. Callers
// must not invoke this on a free cell's tag word.
func (w tagWord) descriptor() *Descriptor {
	return (*Descriptor)(unsafe.Pointer(uintptr(w) & tagMask))
}

// isFree reports whether this word denotes a free cell: a null descriptor
// pointer, regardless of the mark bit. The mark bit is masked off before
// the nullness check so that a corrupted free cell that was wrongly
// pushed onto the mark work list (and thus had its mark bit set before
// anyone noticed it was free) is still correctly reported as free.
func (w tagWord) isFree() bool {
	return uintptr(w)&tagMask == 0
}

// marked reports the mark bit without disturbing the descriptor pointer.
func (w tagWord) marked() bool {
	return uintptr(w)&(uintptr(1)<<(tagBits-1)) != 0
}

// withMark sets the mark bit, preserving the descriptor pointer.
func (w tagWord) withMark() tagWord {
	return tagWord(uintptr(w) | uintptr(1)<<(tagBits-1))
}

// withoutMark clears the mark bit, preserving the descriptor pointer.
func (w tagWord) withoutMark() tagWord {
	return tagWord(uintptr(w) & tagMask)
}

// asForward reinterprets the raw bits as a forwarding address. Valid on an
// old-half header from the copy phase of a collection until the next
// collection reuses that half (AllocateTyped reads it after the flip).
func (w tagWord) asForward() uintptr {
	return uintptr(w)
}

// forwardTagWord builds the tag-word bit pattern for a forwarding address.
func forwardTagWord(addr uintptr) tagWord {
	return tagWord(addr)
}
