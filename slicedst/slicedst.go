package slicedst

import (
	"fmt"
	"unsafe"

	"github.com/joshuapare/thindst/alloc"
	"github.com/joshuapare/thindst/erasure"
	"github.com/joshuapare/thindst/internal/buf"
	"github.com/joshuapare/thindst/layout"
)

// SliceDst is the layout capability of a custom slice-carrying DST with
// typed view V. Implementations are zero-size strategy types passed as type
// parameters; WithHeader and StrWithHeader are the provided ones.
//
// A block described by this capability is laid out as an inline count
// prefix followed by the value's fields, with the count at offset zero so
// Unerase can recover the view from a bare address. The layout computed for
// a given n is fixed for the block's lifetime.
type SliceDst[V any] interface {
	erasure.Erasable[V]

	// LayoutFor returns the full allocation layout for n trailing
	// elements. Unrepresentable sizes report layout.ErrOverflow; the
	// engine surfaces that before any allocation attempt.
	LayoutFor(n int) (layout.Layout, error)

	// Align returns the allocation alignment. Pure function of the type,
	// independent of the element count.
	Align() uintptr

	// Retype attaches the type and length to a raw block address. It must
	// not dereference the address: the block may be freshly allocated and
	// entirely uninitialized.
	Retype(p erasure.ErasedPtr, n int) V

	// ReleaseContents releases the header and every element of a fully
	// constructed value, without freeing the block. Element and header
	// types implementing erasure.Releasable are released individually;
	// all others need no per-element bookkeeping.
	ReleaseContents(v V)
}

// newIn is the allocation engine core. It computes the layout (overflow is
// reported before allocation), allocates prefix extra bytes ahead of the
// value for ownership metadata, retypes, and runs init. The block is owned
// by the engine until init returns nil; if init errors or panics the block
// is freed before the failure propagates, so interrupted construction never
// leaks. init must fully initialize the value, count prefix included, and
// must release any partially written elements before failing.
func newIn[V any, D SliceDst[V]](a alloc.Allocator, n int, prefix uintptr, init func(V) error) (V, unsafe.Pointer, error) {
	var zero V
	var d D
	if n < 0 {
		panic(fmt.Errorf("%w: negative declared length %d", ErrLengthMismatch, n))
	}
	l, err := d.LayoutFor(n)
	if err != nil {
		return zero, nil, err
	}
	if prefix != 0 {
		size, ok := buf.AddOverflowSafe(l.Size, prefix)
		if !ok {
			return zero, nil, fmt.Errorf("slicedst: ownership prefix: %w", layout.ErrOverflow)
		}
		align := l.Align
		if align < rcAlign {
			align = rcAlign
		}
		l = layout.Layout{Size: size, Align: align}
	}
	blk, err := a.Alloc(l)
	if err != nil {
		return zero, nil, err
	}
	v := d.Retype(erasure.FromUnsafe(unsafe.Add(blk, prefix)), n)

	done := false
	defer func() {
		if !done {
			a.Free(blk)
		}
	}()
	if err := init(v); err != nil {
		return zero, nil, err
	}
	done = true
	return v, blk, nil
}

// NewIn allocates a block for n elements of the custom DST described by D
// and hands the uninitialized typed view to init. This is the extension
// point for user-defined DST shapes; the provided types wrap it through
// NewUniqueIn and NewSharedIn.
func NewIn[V any, D SliceDst[V]](a alloc.Allocator, n int, init func(V) error) (V, error) {
	v, _, err := newIn[V, D](a, n, 0, init)
	return v, err
}

// NewUniqueIn builds an exclusively owned DST value.
func NewUniqueIn[V any, D SliceDst[V]](a alloc.Allocator, n int, init func(V) error) (Unique[V, D], error) {
	v, _, err := newIn[V, D](a, n, 0, init)
	if err != nil {
		var zero Unique[V, D]
		return zero, err
	}
	return Unique[V, D]{v: v}, nil
}

// NewSharedIn builds a shared-ownership DST value. The reference count
// lives inline in the same block, ahead of the count prefix, so the handle
// stays one erasable word and construction is a single allocation.
func NewSharedIn[V any, D SliceDst[V]](a alloc.Allocator, n int, init func(V) error) (Shared[V, D], error) {
	var d D
	v, blk, err := newIn[V, D](a, n, sharedPrefix(d.Align()), init)
	if err != nil {
		var zero Shared[V, D]
		return zero, err
	}
	sharedCount(blk).Store(1)
	return Shared[V, D]{v: v}, nil
}

// Must unwraps a constructor result, panicking on failure. This is the
// infallible allocation path: layout overflow or allocator exhaustion
// becomes fatal instead of reported.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// wantsRelease reports whether values of type X carry a Release hook. Types
// without one take the bulk path: no per-element bookkeeping during
// teardown or unwind. Release must use a value receiver to be seen here,
// which every handle kind in this module does.
func wantsRelease[X any]() bool {
	var z X
	_, ok := any(z).(erasure.Releasable)
	return ok
}

func releaseVal[X any](v X) {
	if r, ok := any(v).(erasure.Releasable); ok {
		r.Release()
	}
}

func strideOf[T any]() uintptr {
	var z T
	return unsafe.Sizeof(z)
}
