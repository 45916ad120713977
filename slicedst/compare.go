package slicedst

import (
	"cmp"
	"slices"
	"strings"
)

// Value comparison for the provided types: header first, then the trailing
// payload lexicographically. The results match what a two-field non-DST
// struct { Header H; Slice []T } would give.

// Equal reports whether two header+slice values are equal by contents.
func Equal[H, T comparable](x, y Ref[H, T]) bool {
	if *x.Header() != *y.Header() {
		return false
	}
	return slices.Equal(x.Slice(), y.Slice())
}

// Compare orders two header+slice values: header, then elements
// lexicographically, then length.
func Compare[H, T cmp.Ordered](x, y Ref[H, T]) int {
	if c := cmp.Compare(*x.Header(), *y.Header()); c != 0 {
		return c
	}
	return slices.Compare(x.Slice(), y.Slice())
}

// EqualStr reports whether two header+string values are equal by contents.
func EqualStr[H comparable](x, y StrRef[H]) bool {
	return *x.Header() == *y.Header() && x.Str() == y.Str()
}

// CompareStr orders two header+string values: header, then bytes.
func CompareStr[H cmp.Ordered](x, y StrRef[H]) int {
	if c := cmp.Compare(*x.Header(), *y.Header()); c != 0 {
		return c
	}
	return strings.Compare(x.Str(), y.Str())
}
