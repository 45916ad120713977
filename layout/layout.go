// Package layout computes allocation layouts for dynamically sized values.
//
// A Layout is a plain descriptor value: a byte size plus an alignment. It is
// computed once, as a pure function of its inputs, and reused for both
// allocation and metadata attachment. All arithmetic is overflow-checked;
// an unrepresentable layout surfaces as ErrOverflow instead of wrapping.
package layout

import (
	"fmt"
	"unsafe"

	"github.com/joshuapare/thindst/internal/buf"
)

// Layout describes the size and alignment of an allocation.
//
// Size may be zero. Align is always a non-zero power of two.
type Layout struct {
	Size  uintptr
	Align uintptr
}

// Of returns the layout of the Go type T.
func Of[T any]() Layout {
	var z T
	return Layout{Size: unsafe.Sizeof(z), Align: unsafe.Alignof(z)}
}

// FromSizeAlign builds a layout from explicit values, validating that align
// is a power of two and that size rounded up to align is representable.
func FromSizeAlign(size, align uintptr) (Layout, error) {
	if !buf.IsPowerOfTwo(align) {
		return Layout{}, fmt.Errorf("layout: align %d is not a power of two: %w", align, ErrOverflow)
	}
	if _, ok := buf.AlignUpSafe(size, align); !ok {
		return Layout{}, fmt.Errorf("layout: size %d overflows when padded to align %d: %w", size, align, ErrOverflow)
	}
	return Layout{Size: size, Align: align}, nil
}

// Array returns the layout of n contiguous elements of type T.
//
// n may be zero; zero-sized element types are valid and never divide or
// overflow. A negative n is unrepresentable and reports ErrOverflow.
func Array[T any](n int) (Layout, error) {
	if n < 0 {
		return Layout{}, fmt.Errorf("layout: negative element count %d: %w", n, ErrOverflow)
	}
	elem := Of[T]()
	// Element stride is the padded size; identical to unsafe.Sizeof for any
	// Go type, but kept explicit so the arithmetic is self-contained.
	stride, ok := buf.AlignUpSafe(elem.Size, elem.Align)
	if !ok {
		return Layout{}, fmt.Errorf("layout: element size %d: %w", elem.Size, ErrOverflow)
	}
	size, ok := buf.MulOverflowSafe(stride, uintptr(n))
	if !ok {
		return Layout{}, fmt.Errorf("layout: array of %d elements: %w", n, ErrOverflow)
	}
	return Layout{Size: size, Align: elem.Align}, nil
}

// Extend appends next after l, inserting alignment padding as required.
// It returns the combined layout plus the byte offset of next within it.
// The combined layout is not yet padded to its own alignment; callers
// finish with PadToAlign once all fields are placed.
func (l Layout) Extend(next Layout) (Layout, uintptr, error) {
	align := l.Align
	if next.Align > align {
		align = next.Align
	}
	offset, ok := buf.AlignUpSafe(l.Size, next.Align)
	if !ok {
		return Layout{}, 0, fmt.Errorf("layout: field offset: %w", ErrOverflow)
	}
	size, ok := buf.AddOverflowSafe(offset, next.Size)
	if !ok {
		return Layout{}, 0, fmt.Errorf("layout: combined size: %w", ErrOverflow)
	}
	return Layout{Size: size, Align: align}, offset, nil
}

// PadToAlign rounds Size up to a multiple of Align, yielding the final
// allocation size.
func (l Layout) PadToAlign() (Layout, error) {
	size, ok := buf.AlignUpSafe(l.Size, l.Align)
	if !ok {
		return Layout{}, fmt.Errorf("layout: trailing padding: %w", ErrOverflow)
	}
	return Layout{Size: size, Align: l.Align}, nil
}
