package buf

import "unsafe"

// Inline count prefix access.
//
// Every slice-DST block starts with a machine word holding the trailing
// element count. Recovering a typed reference from a bare address reads this
// word and nothing else. Both accessors must stay plain word loads/stores:
// building an intermediate slice or struct view here would alias the pointee
// and break the recovery contract for blocks that are concurrently mutated
// under external synchronization.

// CountSize is the byte size of the inline count prefix.
const CountSize = unsafe.Sizeof(int(0))

// LoadCount reads the element count stored at the start of a block.
func LoadCount(p unsafe.Pointer) int {
	return *(*int)(p)
}

// StoreCount writes the element count at the start of a block. Called exactly
// once per block, as the final step of construction.
func StoreCount(p unsafe.Pointer, n int) {
	*(*int)(p) = n
}
