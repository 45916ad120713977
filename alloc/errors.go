package alloc

import "errors"

var (
	// ErrExhausted indicates the allocator could not satisfy the request.
	// Recoverable on fallible construction paths; the infallible paths
	// panic on it.
	ErrExhausted = errors.New("alloc: allocator exhausted")

	// ErrBadLayout indicates a layout with an invalid alignment was passed
	// to an allocator.
	ErrBadLayout = errors.New("alloc: invalid layout")

	// ErrClosed indicates an allocation was attempted on a closed arena.
	ErrClosed = errors.New("alloc: arena closed")
)
