package slicedst

import (
	"github.com/joshuapare/thindst/layout"
)

// fields is the computed layout of a [count][header][elements] block.
// Computed once per construction as a pure function of the element count
// and reused for allocation, writing, and metadata attachment.
type fields struct {
	full      layout.Layout
	headerOff uintptr
	sliceOff  uintptr
}

// fieldsOf places the count prefix, header, and element array in order,
// with standard struct alignment padding between them and trailing padding
// to the overall alignment.
func fieldsOf[H, T any](n int) (fields, error) {
	l := layout.Of[int]()
	l, headerOff, err := l.Extend(layout.Of[H]())
	if err != nil {
		return fields{}, err
	}
	arr, err := layout.Array[T](n)
	if err != nil {
		return fields{}, err
	}
	l, sliceOff, err := l.Extend(arr)
	if err != nil {
		return fields{}, err
	}
	l, err = l.PadToAlign()
	if err != nil {
		return fields{}, err
	}
	return fields{full: l, headerOff: headerOff, sliceOff: sliceOff}, nil
}

// headerOffOf and sliceOffOf expose the n-independent offsets: element
// count only stretches the trailing array, never moves the fields before
// it. The n=0 computation cannot overflow.

func headerOffOf[H, T any]() uintptr {
	f, _ := fieldsOf[H, T](0)
	return f.headerOff
}

func sliceOffOf[H, T any]() uintptr {
	f, _ := fieldsOf[H, T](0)
	return f.sliceOff
}
