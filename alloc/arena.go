package alloc

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/joshuapare/thindst/internal/buf"
	"github.com/joshuapare/thindst/layout"
)

// defaultChunkSize is the arena's chunk granularity when none is given.
const defaultChunkSize = 64 << 10

// Arena is an append-only bump allocator over large chunks. On unix systems
// chunks are anonymous memory mappings; elsewhere they fall back to Go-heap
// slices. Free releases ownership accounting only - space inside a chunk is
// never reused - and Close unmaps everything once no blocks remain live.
//
// The bump design trades reuse for O(1) allocation with zero per-block
// overhead, which suits batch construction of many small DSTs torn down
// together.
type Arena struct {
	mu        sync.Mutex
	chunkSize uintptr
	chunks    [][]byte
	cur       []byte
	off       uintptr
	live      int
	closed    bool
	stats     counters
}

// NewArena creates an arena with the given chunk size in bytes.
// chunkSize <= 0 selects the default of 64KB.
func NewArena(chunkSize int) *Arena {
	cs := uintptr(chunkSize)
	if chunkSize <= 0 {
		cs = defaultChunkSize
	}
	return &Arena{chunkSize: cs}
}

// Alloc implements Allocator.
func (a *Arena) Alloc(l layout.Layout) (unsafe.Pointer, error) {
	if !buf.IsPowerOfTwo(l.Align) {
		a.stats.failure()
		return nil, fmt.Errorf("%w: align %d", ErrBadLayout, l.Align)
	}
	size := l.Size
	if size == 0 {
		size = 1
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		a.stats.failure()
		return nil, ErrClosed
	}

	p, ok := a.carve(size, l.Align)
	if !ok {
		need := size + l.Align
		if need < a.chunkSize {
			need = a.chunkSize
		}
		chunk, err := a.grow(need)
		if err != nil {
			a.stats.failure()
			return nil, fmt.Errorf("%w: %v", ErrExhausted, err)
		}
		a.chunks = append(a.chunks, chunk)
		a.cur = chunk
		a.off = 0
		p, ok = a.carve(size, l.Align)
		if !ok {
			a.stats.failure()
			return nil, fmt.Errorf("%w: block of %d bytes", ErrExhausted, size)
		}
	}

	// Bump chunks are reused across arena lifetimes on some platforms;
	// deliver the same zeroed contract as the heap allocator.
	clear(unsafe.Slice((*byte)(p), size))

	register(p, block{owner: a, size: l.Size})
	a.live++
	a.stats.alloc(l.Size)
	logAllocEvent("alloc", p, l.Size)
	return p, nil
}

// carve bump-allocates size bytes at the requested alignment from the
// current chunk. ok = false when the chunk cannot fit the block.
func (a *Arena) carve(size, align uintptr) (unsafe.Pointer, bool) {
	if a.cur == nil {
		return nil, false
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(a.cur)))
	start, ok := buf.AlignUpSafe(base+a.off, align)
	if !ok {
		return nil, false
	}
	end := start + size
	if end > base+uintptr(len(a.cur)) {
		return nil, false
	}
	a.off = end - base
	return unsafe.Add(unsafe.Pointer(unsafe.SliceData(a.cur)), start-base), true
}

// Free implements Allocator. The block's space is not reclaimed until Close.
func (a *Arena) Free(p unsafe.Pointer) {
	b, ok := unregister(p)
	if !ok || b.owner != Allocator(a) {
		panic(fmt.Sprintf("alloc: arena free of unknown block %#x", uintptr(p)))
	}
	a.mu.Lock()
	a.live--
	a.mu.Unlock()
	a.stats.free(b.size)
	logAllocEvent("free", p, b.size)
}

// Close releases every chunk. It refuses to tear down the arena while blocks
// are still live, since handles into unmapped memory would be left dangling.
func (a *Arena) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	if a.live > 0 {
		return fmt.Errorf("alloc: arena close with %d live blocks", a.live)
	}
	a.closed = true
	var firstErr error
	for _, chunk := range a.chunks {
		if err := a.release(chunk); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.chunks, a.cur, a.off = nil, nil, 0
	return firstErr
}

// Stats returns a snapshot of this arena's counters.
func (a *Arena) Stats() Stats {
	return a.stats.snapshot()
}
