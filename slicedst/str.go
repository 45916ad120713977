package slicedst

import (
	"unsafe"

	"github.com/joshuapare/thindst/alloc"
	"github.com/joshuapare/thindst/erasure"
	"github.com/joshuapare/thindst/internal/buf"
	"github.com/joshuapare/thindst/layout"
)

// StrRef is the typed view of a header+string DST: an inline count, a fixed
// header H, and count trailing UTF-8 bytes.
type StrRef[H any] struct {
	base unsafe.Pointer
	n    int
}

// Len returns the byte length of the string payload.
func (r StrRef[H]) Len() int {
	return r.n
}

// Header returns the header field.
func (r StrRef[H]) Header() *H {
	return (*H)(unsafe.Add(r.base, headerOffOf[H, byte]()))
}

// Str returns the string payload. The string aliases the block; it must not
// outlive the owning handle.
func (r StrRef[H]) Str() string {
	if r.n == 0 {
		return ""
	}
	return unsafe.String((*byte)(unsafe.Add(r.base, sliceOffOf[H, byte]())), r.n)
}

// Erase discards the view's type and length.
func (r StrRef[H]) Erase() erasure.ErasedPtr {
	return erasure.FromUnsafe(r.base)
}

// StrWithHeader is the SliceDst capability for StrRef views.
type StrWithHeader[H any] struct{}

// LayoutFor implements SliceDst.
func (StrWithHeader[H]) LayoutFor(n int) (layout.Layout, error) {
	f, err := fieldsOf[H, byte](n)
	if err != nil {
		return layout.Layout{}, err
	}
	return f.full, nil
}

// Align implements SliceDst.
func (StrWithHeader[H]) Align() uintptr {
	f, _ := fieldsOf[H, byte](0)
	return f.full.Align
}

// Retype implements SliceDst.
func (StrWithHeader[H]) Retype(p erasure.ErasedPtr, n int) StrRef[H] {
	return StrRef[H]{base: p.Unsafe(), n: n}
}

// Erase implements erasure.Erasable.
func (StrWithHeader[H]) Erase(r StrRef[H]) erasure.ErasedPtr {
	return erasure.FromUnsafe(r.base)
}

// Unerase implements erasure.Erasable via a raw load of the count prefix.
func (StrWithHeader[H]) Unerase(p erasure.ErasedPtr) StrRef[H] {
	return StrRef[H]{base: p.Unsafe(), n: buf.LoadCount(p.Unsafe())}
}

// ReleaseContents implements SliceDst. Bytes carry no hooks, so only the
// header can need releasing.
func (StrWithHeader[H]) ReleaseContents(r StrRef[H]) {
	releaseVal(*r.Header())
}

// Handle shorthands for the provided header+string type.
type (
	UniqueStr[H any] = Unique[StrRef[H], StrWithHeader[H]]
	SharedStr[H any] = Shared[StrRef[H], StrWithHeader[H]]

	ThinUniqueStr[H any] = erasure.Thin[UniqueStr[H], UniqueEraser[StrRef[H], StrWithHeader[H]]]
	ThinSharedStr[H any] = erasure.Thin[SharedStr[H], SharedEraser[StrRef[H], StrWithHeader[H]]]
)

// NewStrIn builds an exclusively owned header+string value. The bytes are
// copied in one move; for an empty string no payload memory is touched.
func NewStrIn[H any](a alloc.Allocator, header H, s string) (UniqueStr[H], error) {
	return NewUniqueIn[StrRef[H], StrWithHeader[H]](a, len(s), func(v StrRef[H]) error {
		fillStr(v, header, s)
		return nil
	})
}

// NewStr is NewStrIn with the default allocator.
func NewStr[H any](header H, s string) (UniqueStr[H], error) {
	return NewStrIn(alloc.Default, header, s)
}

// NewSharedStrIn builds a shared header+string value.
func NewSharedStrIn[H any](a alloc.Allocator, header H, s string) (SharedStr[H], error) {
	return NewSharedIn[StrRef[H], StrWithHeader[H]](a, len(s), func(v StrRef[H]) error {
		fillStr(v, header, s)
		return nil
	})
}

// NewSharedStr is NewSharedStrIn with the default allocator.
func NewSharedStr[H any](header H, s string) (SharedStr[H], error) {
	return NewSharedStrIn(alloc.Default, header, s)
}

func fillStr[H any](v StrRef[H], header H, s string) {
	*(*H)(unsafe.Add(v.base, headerOffOf[H, byte]())) = header
	if len(s) > 0 {
		dst := unsafe.Slice((*byte)(unsafe.Add(v.base, sliceOffOf[H, byte]())), len(s))
		copy(dst, s)
	}
	buf.StoreCount(v.base, len(s))
}
