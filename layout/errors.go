package layout

import "errors"

// ErrOverflow indicates that a requested layout's size or alignment is not
// representable. It is reported before any allocation is attempted.
var ErrOverflow = errors.New("layout: size computation overflow")
