package slicedst

import "errors"

// ErrLengthMismatch indicates an element source yielded a different number
// of elements than it declared. This is a caller contract violation, not an
// ordinary failure: construction panics with an error wrapping this
// sentinel, after unwinding whatever was already written.
var ErrLengthMismatch = errors.New("slicedst: element source length mismatch")
