package erasure

import "fmt"

// Thin stores exactly one erased pointer but behaves as the ownership
// handle P. The eraser E rebuilds P on demand, so a Thin value is one
// machine word regardless of how wide P is.
//
// Thin is a storage type: embed it in structs or slices that need one-word
// handles, and convert back to P at the use site. The zero Thin holds no
// pointer and must not be used.
//
// Two Thin values compare equal with == exactly when they address the same
// allocation.
type Thin[P any, E PtrEraser[P]] struct {
	ptr ErasedPtr
}

// ThinFrom erases p and stores it. Ownership moves into the Thin; release
// it through Release or recover it with Into.
func ThinFrom[P any, E PtrEraser[P]](p P) Thin[P, E] {
	var e E
	return Thin[P, E]{ptr: e.Erase(p)}
}

// With runs f with a borrowed view of the handle. The view must not be
// released or stored beyond the call; ownership stays with the Thin.
func (t Thin[P, E]) With(f func(P)) {
	var e E
	f(e.Unerase(t.ptr))
}

// Into recovers the handle, consuming the wrapper. The Thin must not be
// used afterwards.
func (t Thin[P, E]) Into() P {
	var e E
	return e.Unerase(t.ptr)
}

// Release recovers the handle and releases it exactly once. No-op for
// handle kinds without teardown.
func (t Thin[P, E]) Release() {
	var e E
	p := e.Unerase(t.ptr)
	if r, ok := any(p).(Releasable); ok {
		r.Release()
	}
}

// Raw exposes the stored erased pointer for address comparisons.
func (t Thin[P, E]) Raw() ErasedPtr {
	return t.ptr
}

// String forwards to P when it implements fmt.Stringer, else prints the
// erased address.
func (t Thin[P, E]) String() string {
	var e E
	if s, ok := any(e.Unerase(t.ptr)).(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("Thin(%#x)", t.ptr.Addr())
}
