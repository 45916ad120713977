package slicedst

import (
	"sync/atomic"
	"unsafe"

	"github.com/joshuapare/thindst/alloc"
	"github.com/joshuapare/thindst/erasure"
)

// Ownership kinds over slice-DST values. Each kind is a thin struct around
// the typed view; erasing a handle erases the view's address, and recovery
// reconstructs a handle with identical ownership semantics. The zero value
// of every kind is invalid.

const (
	rcSize  = unsafe.Sizeof(atomic.Int64{})
	rcAlign = unsafe.Alignof(atomic.Int64{})
)

// sharedPrefix returns the byte distance between a shared block's start and
// its value base. One alignment unit always fits the count slot, and the
// distance depends only on the type's alignment, so recovery needs no
// metadata beyond the value address itself.
func sharedPrefix(align uintptr) uintptr {
	if align < rcAlign {
		align = rcAlign
	}
	return align
}

// sharedCount locates the reference count at the start of a shared block.
func sharedCount(blk unsafe.Pointer) *atomic.Int64 {
	return (*atomic.Int64)(blk)
}

// Unique is an exclusively owning handle: one block, one owner. Releasing
// it tears down contents and frees the block; using a Unique after Release,
// or releasing it twice, is a bug (the block registry panics on the double
// free).
type Unique[V any, D SliceDst[V]] struct {
	v V
}

// View returns the typed view. The view borrows from the handle and must
// not outlive it.
func (u Unique[V, D]) View() V {
	return u.v
}

// Raw returns the erased address, for identity comparisons.
func (u Unique[V, D]) Raw() erasure.ErasedPtr {
	var d D
	return d.Erase(u.v)
}

// Release tears down contents and frees the block. Runs exactly once.
func (u Unique[V, D]) Release() {
	var d D
	d.ReleaseContents(u.v)
	alloc.Free(d.Erase(u.v).Unsafe())
}

// Thin erases the handle into a one-word wrapper. Ownership moves into the
// Thin.
func (u Unique[V, D]) Thin() erasure.Thin[Unique[V, D], UniqueEraser[V, D]] {
	return erasure.ThinFrom[Unique[V, D], UniqueEraser[V, D]](u)
}

// Shared is a shared-ownership handle. The strong count lives inline in the
// value's own block, so copies made through Retain and recovery through
// erasure all see the same count slot. Each Retain must be paired with one
// Release; the last Release tears down contents and frees the block.
type Shared[V any, D SliceDst[V]] struct {
	v V
}

// View returns the typed view. The view borrows from the handle and must
// not outlive the last Release.
func (s Shared[V, D]) View() V {
	return s.v
}

// Raw returns the erased address, for identity comparisons.
func (s Shared[V, D]) Raw() erasure.ErasedPtr {
	var d D
	return d.Erase(s.v)
}

// block returns the allocation start, one ownership prefix ahead of the
// value base.
func (s Shared[V, D]) block() unsafe.Pointer {
	var d D
	base := d.Erase(s.v).Unsafe()
	return unsafe.Add(base, -int(sharedPrefix(d.Align())))
}

// Retain adds an owner and returns the handle for chaining.
func (s Shared[V, D]) Retain() Shared[V, D] {
	sharedCount(s.block()).Add(1)
	return s
}

// Release drops one owner; the last one out tears down contents and frees
// the block.
func (s Shared[V, D]) Release() {
	if sharedCount(s.block()).Add(-1) == 0 {
		var d D
		d.ReleaseContents(s.v)
		alloc.Free(s.block())
	}
}

// Strong reports the current owner count. Diagnostic only: the value may be
// stale the moment it returns.
func (s Shared[V, D]) Strong() int64 {
	return sharedCount(s.block()).Load()
}

// Thin erases the handle into a one-word wrapper. The wrapper stands in for
// this handle's single ownership stake.
func (s Shared[V, D]) Thin() erasure.Thin[Shared[V, D], SharedEraser[V, D]] {
	return erasure.ThinFrom[Shared[V, D], SharedEraser[V, D]](s)
}

// UniqueEraser erases Unique handles. Recovery reads only the inline count
// prefix and yields a handle owning the same block.
type UniqueEraser[V any, D SliceDst[V]] struct{}

// Erase implements erasure.PtrEraser.
func (UniqueEraser[V, D]) Erase(u Unique[V, D]) erasure.ErasedPtr {
	var d D
	return d.Erase(u.v)
}

// Unerase implements erasure.PtrEraser.
func (UniqueEraser[V, D]) Unerase(p erasure.ErasedPtr) Unique[V, D] {
	var d D
	return Unique[V, D]{v: d.Unerase(p)}
}

// SharedEraser erases Shared handles. Neither direction touches the
// reference count: the erased word stands in for exactly one owner, and
// recovery reattaches that same owner to the same count slot.
type SharedEraser[V any, D SliceDst[V]] struct{}

// Erase implements erasure.PtrEraser.
func (SharedEraser[V, D]) Erase(s Shared[V, D]) erasure.ErasedPtr {
	var d D
	return d.Erase(s.v)
}

// Unerase implements erasure.PtrEraser.
func (SharedEraser[V, D]) Unerase(p erasure.ErasedPtr) Shared[V, D] {
	var d D
	return Shared[V, D]{v: d.Unerase(p)}
}
