package gc

import "unsafe"

// Handle is an opaque key into the collector's handle table. Handles,
// together with the addresses returned by any registered RootProvider,
// form the collector's root set.
type Handle uint64

// handleTable is a stable map from handle key to current payload address.
// Entries are rewritten in place by the collector's rewrite-handles phase.
// Go map iteration order is unspecified and may differ between forEach and
// rewriteAll; neither phase depends on the order in which it visits
// entries.
type handleTable struct {
	entries map[Handle]unsafe.Pointer
	next    Handle
}

func newHandleTable() *handleTable {
	return &handleTable{entries: make(map[Handle]unsafe.Pointer)}
}

// insert adds a new entry and returns its key. Bounds/alignment validation
// is the caller's responsibility (Collector.AcquireHandle).
func (t *handleTable) insert(addr unsafe.Pointer) Handle {
	t.next++
	h := t.next
	t.entries[h] = addr
	return h
}

// get returns the current address for h and whether h is still live.
func (t *handleTable) get(h Handle) (unsafe.Pointer, bool) {
	addr, ok := t.entries[h]
	return addr, ok
}

// release drops an entry. A released handle is never reused.
func (t *handleTable) release(h Handle) {
	delete(t.entries, h)
}

// rewriteAll replaces every entry's address with the result of fn, used by
// the collector's rewrite-handles phase to point every root at its
// post-copy location.
func (t *handleTable) rewriteAll(fn func(old unsafe.Pointer) unsafe.Pointer) {
	for h, addr := range t.entries {
		t.entries[h] = fn(addr)
	}
}

// forEach visits every live entry, used by the mark-roots phase.
func (t *handleTable) forEach(fn func(addr unsafe.Pointer)) {
	for _, addr := range t.entries {
		fn(addr)
	}
}
