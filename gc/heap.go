package gc

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/lynzrand/ike-gc/internal/worklist"
)

// RootProvider anchors additional roots outside the handle table, e.g. a
// VM's operand stack. Supplementing the handle table with providers is
// optional: the handle table alone is a complete, sufficient root set.
type RootProvider interface {
	// Roots returns the current set of payload addresses this provider
	// wants kept alive. Called once per collection, from mark-roots.
	Roots() []unsafe.Pointer
}

// Config configures a new Collector.
type Config struct {
	// HalfSize is the size in bytes of each half-space; the collector
	// maps 2*HalfSize bytes total. Rounded up to a multiple of
	// ALIGNMENT if it isn't already one.
	HalfSize uintptr

	// Logger receives phase-boundary diagnostics. Defaults to a no-op
	// logger if nil.
	Logger *zap.Logger
}

// Collector owns a 2x half-size anonymous memory mapping split into a
// from-space (active) and to-space (scratch) half, a bump-pointer
// allocator over the active half, and the mark-copy-forward cycle that
// reclaims it. It is not safe for concurrent use: allocate, collect, and
// every handle/descriptor callback must run on a single thread of
// control.
type Collector struct {
	mapping   []byte
	base      uintptr
	spaceSize uintptr

	// activeOffset is 0 or spaceSize, selecting which half of mapping is
	// currently the active (from-space) half.
	activeOffset uintptr
	cursor       uintptr

	inGC bool
	work worklist.Queue

	handles       *handleTable
	rootProviders []RootProvider

	gcCount    uint64
	totalAlloc uint64
	highWater  uint64

	logger *zap.Logger
}

// New maps a fresh 2*cfg.HalfSize region and returns a Collector with an
// empty active half: a single free cell spanning the whole space.
func New(cfg Config) (*Collector, error) {
	spaceSize := roundUp(cfg.HalfSize)
	if spaceSize < headerSize {
		spaceSize = roundUp(headerSize)
	}

	mapping, err := unix.Mmap(-1, 0, int(2*spaceSize),
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("gc: mmap %d bytes: %w", 2*spaceSize, err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = newNopLogger()
	}

	c := &Collector{
		mapping:   mapping,
		base:      uintptr(unsafe.Pointer(&mapping[0])),
		spaceSize: spaceSize,
		handles:   newHandleTable(),
		logger:    logger,
	}
	headerAt(c.active()).size = spaceSize
	return c, nil
}

// Close unmaps the collector's backing memory. It does not invoke Destroy
// on any surviving cell; process teardown is implicit.
func (c *Collector) Close() error {
	return unix.Munmap(c.mapping)
}

// active returns the address of the start of the currently active half.
func (c *Collector) active() uintptr {
	return c.base + c.activeOffset
}

// scratch returns the address of the start of the currently inactive half.
func (c *Collector) scratch() uintptr {
	return c.base + (c.spaceSize - c.activeOffset)
}

// InActiveHalf reports whether a managed pointer currently refers to an
// address inside the active half.
func (c *Collector) InActiveHalf(p *Ptr) bool {
	addr := uintptr(p.Load())
	return addr >= c.active() && addr < c.active()+c.spaceSize
}

// Cursor returns the number of bytes currently occupied by allocated cells
// in the active half, i.e. the offset of the trailing free cell. Cells
// allocated since the last collection count whether or not they are still
// reachable. The
// trailing free cell itself, spanning [Cursor, S), is not included.
func (c *Collector) Cursor() uintptr {
	return c.cursor
}

// TotalAllocatedBytes returns the cumulative number of bytes ever handed
// out by Allocate/AllocateTyped, across the collector's whole lifetime.
func (c *Collector) TotalAllocatedBytes() uint64 {
	return c.totalAlloc
}

// HighWaterMarkBytes returns the largest Cursor value ever observed.
func (c *Collector) HighWaterMarkBytes() uint64 {
	return c.highWater
}

// CollectionCount returns the number of completed collections.
func (c *Collector) CollectionCount() uint64 {
	return c.gcCount
}

// AddRootProvider registers an additional root source, consulted on every
// subsequent collection alongside the handle table.
func (c *Collector) AddRootProvider(p RootProvider) {
	c.rootProviders = append(c.rootProviders, p)
}

// AcquireHandle anchors addr as a root. addr must be 16-byte aligned and
// lie strictly inside the active half; violating that is a programmer
// error and aborts the process rather than returning an error.
func (c *Collector) AcquireHandle(addr unsafe.Pointer) Handle {
	a := uintptr(addr)
	if a%ALIGNMENT != 0 || a < c.active() || a >= c.active()+c.spaceSize {
		fatalBadAnchor()
	}
	return c.handles.insert(addr)
}

// GetHandle returns the current payload address for a live handle.
func (c *Collector) GetHandle(h Handle) (unsafe.Pointer, bool) {
	return c.handles.get(h)
}

// ReleaseHandle drops a handle. The handle is never valid again.
func (c *Collector) ReleaseHandle(h Handle) {
	c.handles.release(h)
}
