package alloc

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"unsafe"

	"github.com/joshuapare/thindst/layout"
)

// Runtime debug flag for allocation logging - controlled by THINDST_LOG_ALLOC env var.
var logAlloc = os.Getenv("THINDST_LOG_ALLOC") != ""

// Allocator hands out raw, zeroed, non-moving blocks of memory.
//
// Blocks are untyped: the Go garbage collector does not scan their contents,
// so callers must not store Go-heap pointers inside them. One-word handles
// into other allocator blocks are safe to embed because the block registry,
// not the embedded word, keeps the target reachable.
type Allocator interface {
	// Alloc returns a block of l.Size bytes aligned to l.Align, zeroed.
	// Allocation failure is reported as an error wrapping ErrExhausted.
	Alloc(l layout.Layout) (unsafe.Pointer, error)

	// Free returns a block obtained from Alloc. Freeing the same block
	// twice, or a pointer not produced by this allocator, panics.
	Free(p unsafe.Pointer)
}

// Default is the allocator used by convenience constructors that do not take
// an explicit Allocator.
var Default Allocator = NewHeap()

// block is a registry record for one live allocation.
type block struct {
	owner   Allocator
	backing []byte // keeps Go-heap chunks reachable; nil for mapped memory
	size    uintptr
}

var (
	regMu  sync.Mutex
	blocks = make(map[uintptr]block)
)

// register records a live block. Called by allocator implementations after
// carving out a block, before returning it.
func register(p unsafe.Pointer, b block) {
	regMu.Lock()
	blocks[uintptr(p)] = b
	regMu.Unlock()
}

// unregister removes a live block record, returning it. ok = false means the
// pointer is not a live registered block.
func unregister(p unsafe.Pointer) (block, bool) {
	regMu.Lock()
	b, ok := blocks[uintptr(p)]
	if ok {
		delete(blocks, uintptr(p))
	}
	regMu.Unlock()
	return b, ok
}

// lookup returns the registry record for a live block without removing it.
func lookup(p unsafe.Pointer) (block, bool) {
	regMu.Lock()
	b, ok := blocks[uintptr(p)]
	regMu.Unlock()
	return b, ok
}

// Free routes a block back to the allocator that produced it. This is how
// one-word handles release memory without carrying an allocator reference.
func Free(p unsafe.Pointer) {
	b, ok := lookup(p)
	if !ok {
		panic(fmt.Sprintf("alloc: free of unknown block %#x", uintptr(p)))
	}
	b.owner.Free(p)
}

// Live reports the number of registered live blocks. Intended for leak
// checks in tests and diagnostics.
func Live() int {
	regMu.Lock()
	n := len(blocks)
	regMu.Unlock()
	return n
}

func logAllocEvent(op string, p unsafe.Pointer, size uintptr) {
	if !logAlloc {
		return
	}
	slog.Debug("alloc",
		"op", op,
		"base", fmt.Sprintf("%#x", uintptr(p)),
		"size", size,
	)
}
