package alloc

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/joshuapare/thindst/layout"
)

// Limited wraps an allocator with an allocation budget. Once the budget is
// spent every Alloc reports ErrExhausted. It exists to exercise the fallible
// construction paths deterministically; production callers normally use the
// inner allocator directly.
type Limited struct {
	inner Allocator

	mu        sync.Mutex
	remaining int
}

// NewLimited wraps inner with a budget of n successful allocations.
func NewLimited(inner Allocator, n int) *Limited {
	return &Limited{inner: inner, remaining: n}
}

// Alloc implements Allocator.
func (l *Limited) Alloc(lay layout.Layout) (unsafe.Pointer, error) {
	l.mu.Lock()
	if l.remaining <= 0 {
		l.mu.Unlock()
		return nil, fmt.Errorf("%w: allocation budget spent", ErrExhausted)
	}
	l.remaining--
	l.mu.Unlock()
	return l.inner.Alloc(lay)
}

// Free implements Allocator. Blocks are owned by the inner allocator, so
// routed frees never reach here, but direct use still works.
func (l *Limited) Free(p unsafe.Pointer) {
	l.inner.Free(p)
}
