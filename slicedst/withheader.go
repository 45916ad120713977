package slicedst

import (
	"fmt"
	"iter"
	"unsafe"

	"github.com/joshuapare/thindst/alloc"
	"github.com/joshuapare/thindst/erasure"
	"github.com/joshuapare/thindst/internal/buf"
	"github.com/joshuapare/thindst/layout"
)

// Ref is the typed view of a header+slice DST: a block holding an inline
// count, a fixed header H, and count trailing elements of type T. The view
// itself is a fat reference (address plus length); erasing it drops the
// length, which recovery re-reads from the inline prefix.
//
// Two Ref values are == exactly when they view the same block.
type Ref[H, T any] struct {
	base unsafe.Pointer
	n    int
}

// Len returns the element count. Fixed at construction.
func (r Ref[H, T]) Len() int {
	return r.n
}

// Header returns the header field.
func (r Ref[H, T]) Header() *H {
	return (*H)(unsafe.Add(r.base, headerOffOf[H, T]()))
}

// Slice returns the trailing elements. The slice aliases the block; it must
// not outlive the owning handle.
func (r Ref[H, T]) Slice() []T {
	return unsafe.Slice((*T)(unsafe.Add(r.base, sliceOffOf[H, T]())), r.n)
}

// Erase discards the view's type and length.
func (r Ref[H, T]) Erase() erasure.ErasedPtr {
	return erasure.FromUnsafe(r.base)
}

// WithHeader is the SliceDst capability for Ref views. Zero size; used as a
// type parameter.
type WithHeader[H, T any] struct{}

// LayoutFor implements SliceDst.
func (WithHeader[H, T]) LayoutFor(n int) (layout.Layout, error) {
	f, err := fieldsOf[H, T](n)
	if err != nil {
		return layout.Layout{}, err
	}
	return f.full, nil
}

// Align implements SliceDst.
func (WithHeader[H, T]) Align() uintptr {
	f, _ := fieldsOf[H, T](0)
	return f.full.Align
}

// Retype implements SliceDst.
func (WithHeader[H, T]) Retype(p erasure.ErasedPtr, n int) Ref[H, T] {
	return Ref[H, T]{base: p.Unsafe(), n: n}
}

// Erase implements erasure.Erasable.
func (WithHeader[H, T]) Erase(r Ref[H, T]) erasure.ErasedPtr {
	return erasure.FromUnsafe(r.base)
}

// Unerase implements erasure.Erasable. Only the inline count prefix is
// read; no header pointer or slice view is formed.
func (WithHeader[H, T]) Unerase(p erasure.ErasedPtr) Ref[H, T] {
	return Ref[H, T]{base: p.Unsafe(), n: buf.LoadCount(p.Unsafe())}
}

// ReleaseContents implements SliceDst: header first, then elements in
// order. Element types without a Release hook take the bulk path and skip
// the loop entirely.
func (WithHeader[H, T]) ReleaseContents(r Ref[H, T]) {
	releaseVal(*r.Header())
	if !wantsRelease[T]() {
		return
	}
	for _, it := range r.Slice() {
		releaseVal(it)
	}
}

// Handle and thin-handle shorthands for the provided header+slice type.
type (
	UniqueSlice[H, T any] = Unique[Ref[H, T], WithHeader[H, T]]
	SharedSlice[H, T any] = Shared[Ref[H, T], WithHeader[H, T]]

	ThinUnique[H, T any] = erasure.Thin[UniqueSlice[H, T], UniqueEraser[Ref[H, T], WithHeader[H, T]]]
	ThinShared[H, T any] = erasure.Thin[SharedSlice[H, T], SharedEraser[Ref[H, T], WithHeader[H, T]]]
)

// NewSliceIn builds an exclusively owned header+slice value from a Go
// slice. This is the bulk path: elements are copied in one move and no
// per-element bookkeeping is needed, since a slice source cannot fail
// partway.
func NewSliceIn[H, T any](a alloc.Allocator, header H, items []T) (UniqueSlice[H, T], error) {
	return NewUniqueIn[Ref[H, T], WithHeader[H, T]](a, len(items), func(v Ref[H, T]) error {
		fillFromSlice(v, header, items)
		return nil
	})
}

// NewSlice is NewSliceIn with the default allocator.
func NewSlice[H, T any](header H, items []T) (UniqueSlice[H, T], error) {
	return NewSliceIn(alloc.Default, header, items)
}

// NewSharedSliceIn builds a shared header+slice value from a Go slice.
func NewSharedSliceIn[H, T any](a alloc.Allocator, header H, items []T) (SharedSlice[H, T], error) {
	return NewSharedIn[Ref[H, T], WithHeader[H, T]](a, len(items), func(v Ref[H, T]) error {
		fillFromSlice(v, header, items)
		return nil
	})
}

// NewSharedSlice is NewSharedSliceIn with the default allocator.
func NewSharedSlice[H, T any](header H, items []T) (SharedSlice[H, T], error) {
	return NewSharedSliceIn(alloc.Default, header, items)
}

// CollectIn builds an exclusively owned header+slice value from an element
// source that declares its exact length. The source must yield exactly n
// elements; a mismatch panics with ErrLengthMismatch. An element error
// unwinds construction - the header and every element written so far are
// released, the block freed - and then propagates.
func CollectIn[H, T any](a alloc.Allocator, header H, n int, items iter.Seq2[T, error]) (UniqueSlice[H, T], error) {
	return NewUniqueIn[Ref[H, T], WithHeader[H, T]](a, n, fillFromSeq(header, n, items))
}

// Collect is CollectIn with the default allocator.
func Collect[H, T any](header H, n int, items iter.Seq2[T, error]) (UniqueSlice[H, T], error) {
	return CollectIn(alloc.Default, header, n, items)
}

// CollectSharedIn is CollectIn for shared ownership.
func CollectSharedIn[H, T any](a alloc.Allocator, header H, n int, items iter.Seq2[T, error]) (SharedSlice[H, T], error) {
	return NewSharedIn[Ref[H, T], WithHeader[H, T]](a, n, fillFromSeq(header, n, items))
}

// CollectShared is CollectSharedIn with the default allocator.
func CollectShared[H, T any](header H, n int, items iter.Seq2[T, error]) (SharedSlice[H, T], error) {
	return CollectSharedIn(alloc.Default, header, n, items)
}

// fillFromSlice writes header and elements, then attaches the count. For a
// zero-length source no slice memory is touched at all.
func fillFromSlice[H, T any](v Ref[H, T], header H, items []T) {
	*(*H)(unsafe.Add(v.base, headerOffOf[H, T]())) = header
	if len(items) > 0 {
		dst := unsafe.Slice((*T)(unsafe.Add(v.base, sliceOffOf[H, T]())), len(items))
		copy(dst, items)
	}
	buf.StoreCount(v.base, len(items))
}

// fillFromSeq returns the guarded init for source-driven construction:
// header first, elements in order, count attached last.
func fillFromSeq[H, T any](header H, n int, items iter.Seq2[T, error]) func(Ref[H, T]) error {
	return func(v Ref[H, T]) error {
		w := sliceWriter[H, T]{ref: v, declared: n}
		done := false
		defer func() {
			if !done {
				w.unwind()
			}
		}()

		w.header(header)
		for item, err := range items {
			if err != nil {
				return fmt.Errorf("slicedst: element source: %w", err)
			}
			if w.written == n {
				panic(fmt.Errorf("%w: source yielded more than the declared %d elements", ErrLengthMismatch, n))
			}
			w.push(item)
		}
		if w.written != n {
			panic(fmt.Errorf("%w: source yielded %d of the declared %d elements", ErrLengthMismatch, w.written, n))
		}
		w.finish()
		done = true
		return nil
	}
}

// sliceWriter tracks construction progress so an interrupted build can
// release exactly what it wrote: the header plus the first written
// elements, nothing more.
type sliceWriter[H, T any] struct {
	ref      Ref[H, T]
	declared int
	written  int
	hasHdr   bool
}

func (w *sliceWriter[H, T]) header(h H) {
	*(*H)(unsafe.Add(w.ref.base, headerOffOf[H, T]())) = h
	w.hasHdr = true
}

func (w *sliceWriter[H, T]) push(item T) {
	p := unsafe.Add(w.ref.base, sliceOffOf[H, T]()+uintptr(w.written)*strideOf[T]())
	*(*T)(p) = item
	w.written++
}

// finish attaches the count prefix, the block's final and only metadata
// write.
func (w *sliceWriter[H, T]) finish() {
	buf.StoreCount(w.ref.base, w.declared)
}

func (w *sliceWriter[H, T]) unwind() {
	if wantsRelease[T]() {
		for i := 0; i < w.written; i++ {
			it := *(*T)(unsafe.Add(w.ref.base, sliceOffOf[H, T]()+uintptr(i)*strideOf[T]()))
			releaseVal(it)
		}
	}
	if w.hasHdr {
		releaseVal(*(*H)(unsafe.Add(w.ref.base, headerOffOf[H, T]())))
	}
}
