package alloc

import (
	"fmt"
	"unsafe"

	"github.com/joshuapare/thindst/internal/buf"
	"github.com/joshuapare/thindst/layout"
)

// Heap is the general-purpose allocator. Each block is carved out of a
// dedicated Go-heap byte slice, manually aligned, and pinned through the
// block registry until freed. Blocks never move and are zeroed on
// allocation.
type Heap struct {
	stats counters
}

// NewHeap creates a heap allocator.
func NewHeap() *Heap {
	return &Heap{}
}

// Alloc implements Allocator.
func (h *Heap) Alloc(l layout.Layout) (unsafe.Pointer, error) {
	if !buf.IsPowerOfTwo(l.Align) {
		h.stats.failure()
		return nil, fmt.Errorf("%w: align %d", ErrBadLayout, l.Align)
	}
	// Zero-sized layouts still get a distinct non-nil block so that erased
	// addresses stay unique and freeable.
	size := l.Size
	if size == 0 {
		size = 1
	}
	// Over-allocate by align-1 so a suitably aligned base always exists.
	backing := make([]byte, size+l.Align-1)
	base := unsafe.Pointer(unsafe.SliceData(backing))
	pad := (l.Align - uintptr(base)%l.Align) % l.Align
	p := unsafe.Add(base, pad)

	register(p, block{owner: h, backing: backing, size: l.Size})
	h.stats.alloc(l.Size)
	logAllocEvent("alloc", p, l.Size)
	return p, nil
}

// Free implements Allocator.
func (h *Heap) Free(p unsafe.Pointer) {
	b, ok := unregister(p)
	if !ok || b.owner != Allocator(h) {
		panic(fmt.Sprintf("alloc: heap free of unknown block %#x", uintptr(p)))
	}
	h.stats.free(b.size)
	logAllocEvent("free", p, b.size)
}

// Stats returns a snapshot of this heap's counters.
func (h *Heap) Stats() Stats {
	return h.stats.snapshot()
}
