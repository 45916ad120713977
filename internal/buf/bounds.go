package buf

// AddOverflowSafe adds a and b, returning ok = false when the result would
// overflow uintptr.
func AddOverflowSafe(a, b uintptr) (uintptr, bool) {
	sum := a + b
	if sum < a {
		return 0, false
	}
	return sum, true
}

// MulOverflowSafe multiplies a and b, returning ok = false when the result
// would overflow uintptr. This is essential for count * elementSize
// calculations in layout arithmetic.
func MulOverflowSafe(a, b uintptr) (uintptr, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > ^uintptr(0)/b {
		return 0, false
	}
	return a * b, true
}

// AlignUpSafe rounds n up to the next multiple of align, returning
// ok = false on overflow. align must be a power of two.
func AlignUpSafe(n, align uintptr) (uintptr, bool) {
	mask := align - 1
	sum, ok := AddOverflowSafe(n, mask)
	if !ok {
		return 0, false
	}
	return sum &^ mask, true
}

// IsPowerOfTwo reports whether align is a non-zero power of two.
func IsPowerOfTwo(align uintptr) bool {
	return align != 0 && align&(align-1) == 0
}
