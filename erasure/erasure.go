// Package erasure erases pointers of their static type and recovers them
// from a single machine word.
//
// # Overview
//
// An ErasedPtr is a thin, opaque, non-null address: the common currency
// between the allocation engine, ownership kinds, and storage that wants
// one-word handles. Two capability contracts govern the round trip:
//
//   - Erasable: per pointee type. Erase discards the type, Unerase rebuilds
//     the full typed reference. For fixed-size pointees this is an identity
//     cast (Direct). For dynamically sized pointees the trailing length must
//     already be embedded inline in the allocation, and Unerase recomputes
//     address+length by reading only that inline prefix.
//   - PtrEraser: per ownership kind. Same shape, stricter contract: erasing
//     must not alter the pointee's ownership count, and unerasing must
//     reconstruct a handle with identical ownership semantics.
//
// # The recovery rule
//
// Unerase implementations must not materialize any view of the pointee -
// no header pointer, no slice - beyond a raw load of the inline prefix.
// The prefix is written once, as the final step of construction, and never
// changes afterwards, so recovery is safe alongside readers and writers of
// the rest of the block that synchronize among themselves. A capability
// that breaks this rule is a latent memory-safety defect the engine cannot
// detect at runtime.
package erasure

import (
	"fmt"
	"unsafe"
)

// ErasedPtr is a thin, type-erased pointer. Always non-null; never
// dereferenced directly. Comparable: two erased pointers are equal exactly
// when they address the same allocation.
type ErasedPtr struct {
	p unsafe.Pointer
}

// FromUnsafe wraps a raw address. The address must come from a validly
// aligned, live allocation; nil panics.
func FromUnsafe(p unsafe.Pointer) ErasedPtr {
	if p == nil {
		panic("erasure: erased nil pointer")
	}
	return ErasedPtr{p: p}
}

// Unsafe returns the raw address for capability implementations.
func (e ErasedPtr) Unsafe() unsafe.Pointer {
	return e.p
}

// Addr returns the address as an integer, for logging and diagnostics only.
func (e ErasedPtr) Addr() uintptr {
	return uintptr(e.p)
}

// String formats the erased address.
func (e ErasedPtr) String() string {
	return fmt.Sprintf("ErasedPtr(%#x)", uintptr(e.p))
}

// Erasable is the pointee-level erasure capability for references of type R.
// Implementations are zero-size strategy types.
//
// The round trip must be exact: Unerase(Erase(r)) == r bit-for-bit, for
// every valid r including zero-length views.
type Erasable[R any] interface {
	// Erase discards the reference's static type. For dynamically sized
	// pointees, any metadata Unerase needs must already sit inline in the
	// allocation before Erase is called.
	Erase(R) ErasedPtr

	// Unerase rebuilds the typed reference. It must read at most the
	// inline metadata prefix, as a raw load, and must not fabricate any
	// other view of the pointee.
	Unerase(ErasedPtr) R
}

// PtrEraser is the ownership-kind-level erasure capability. It has the
// Erasable shape plus two extra obligations: Erase must not change the
// pointee's ownership count, and Unerase must yield a handle with the
// identical ownership semantics, reusing the same shared-count slot.
type PtrEraser[P any] interface {
	Erasable[P]
}

// Direct is the Erasable capability for fixed-size pointee types: both
// directions are identity casts.
type Direct[T any] struct{}

// Erase implements Erasable.
func (Direct[T]) Erase(p *T) ErasedPtr {
	return FromUnsafe(unsafe.Pointer(p))
}

// Unerase implements Erasable.
func (Direct[T]) Unerase(e ErasedPtr) *T {
	return (*T)(e.Unsafe())
}

// Releasable is implemented by handles and element types that own
// resources. Release runs teardown exactly once; the engine invokes it for
// elements and headers during unwind and final teardown.
type Releasable interface {
	Release()
}
