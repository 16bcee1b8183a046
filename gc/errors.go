package gc

import "errors"

// Resource-exhaustion errors are returned to the caller; they are ordinary
// conditions an embedder is expected to handle.
var (
	// ErrOutOfMemory is returned by Allocate/AllocateTyped when a request
	// does not fit even after a collection, or is larger than a
	// half-space outright.
	ErrOutOfMemory = errors.New("gc: out of memory")

	// ErrReentrantAlloc is returned by Allocate/AllocateTyped when called
	// while a collection is in progress (only possible if a descriptor
	// callback tries to allocate).
	ErrReentrantAlloc = errors.New("gc: allocate called during collection")
)

// Programmer-error and heap-corruption conditions are fatal: there is no
// partial recovery from a failed collection, so these abort the process
// via dedicated panic helpers rather than returning an error.

// ErrBadAnchor is the panic value when AcquireHandle is given a pointer
// that is misaligned or lies outside the active half.
var ErrBadAnchor = errors.New("gc: handle target misaligned or out of range")

// ErrRecursiveGC is the panic value when collect is invoked while already
// collecting.
var ErrRecursiveGC = errors.New("gc: recursive collection")

// ErrFreeInWorkList is the panic value when the mark phase pops a free
// cell off the work list, which indicates heap corruption or a descriptor
// that traced a stale pointer.
var ErrFreeInWorkList = errors.New("gc: free cell reached during mark")

// ErrUndersizedCell is the panic value when a header's size field is
// smaller than headerSize during a linear walk.
var ErrUndersizedCell = errors.New("gc: cell size smaller than header")

func fatalRecursiveGC() {
	panic(ErrRecursiveGC)
}

func fatalBadAnchor() {
	panic(ErrBadAnchor)
}

func fatalFreeInWorkList() {
	panic(ErrFreeInWorkList)
}

func fatalUndersizedCell() {
	panic(ErrUndersizedCell)
}
