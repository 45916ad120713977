// Package slicedst builds heap objects whose size is fixed at construction
// time and addressed through one-word pointers.
//
// # Overview
//
// A slice DST is a block laid out as
//
//	[count] [header] [element0 ... elementN-1]
//
// with the element count embedded inline at offset zero. Because the count
// lives in the block rather than in the pointer, a bare one-word address is
// enough to recover the full typed view - no fat pointers, no extra
// indirection for the variable-length payload.
//
// # Key pieces
//
//   - SliceDst: the layout capability describing a custom DST shape
//   - NewIn / NewUniqueIn / NewSharedIn: the allocation engine
//   - Unique, Shared: ownership kinds, erasable to one word
//   - Ref / WithHeader: the provided header+slice type
//   - StrRef / StrWithHeader: the provided header+string type
//
// # Construction
//
// Constructors take either a Go slice (bulk copy, cannot fail partway) or
// an element source with a declared exact length (iter.Seq2 plus count).
// Construction writes the header, then each element in order, and attaches
// the count last. If the source fails after k elements, exactly the header
// and those k elements are released and the block is freed before the error
// propagates: interrupted construction leaks nothing and never releases
// uninitialized memory. A source that yields a different number of elements
// than declared panics with ErrLengthMismatch.
//
// Zero-length values are valid and never touch element memory. Allocation
// failure and layout overflow are reported as errors; wrap a constructor in
// Must for the fatal-on-failure path.
//
// # Teardown
//
// Element and header types that own resources implement erasure.Releasable
// with a value receiver; teardown releases the header and each element
// exactly once, then frees the block. Types without a Release hook take a
// bulk path with no per-element work.
//
// # Example
//
//	type meta struct{ kind uint32 }
//
//	u, err := slicedst.NewSlice(meta{kind: 7}, []uint32{1, 2, 3})
//	if err != nil { ... }
//	defer u.Release()
//	v := u.View()
//	_ = v.Header().kind // 7
//	_ = v.Slice()       // [1 2 3]
//
//	thin := u.Thin() // one word; recover with thin.Into()
package slicedst
