package slicedst

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"

	"github.com/joshuapare/thindst/alloc"
)

// UTF-16LE construction. Registry-style wire formats carry strings as
// UTF-16LE byte runs; these constructors transcode to UTF-8 before building
// the header+string block, so the stored payload is always valid UTF-8.

// DecodeUTF16LE transcodes a UTF-16LE byte run to a UTF-8 string.
func DecodeUTF16LE(raw []byte) (string, error) {
	if len(raw)%2 != 0 {
		return "", fmt.Errorf("slicedst: utf16 input has odd length %d", len(raw))
	}
	dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	decoded, err := dec.Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("slicedst: decode utf16: %w", err)
	}
	return string(decoded), nil
}

// NewStrUTF16In builds an exclusively owned header+string value from a
// UTF-16LE byte run.
func NewStrUTF16In[H any](a alloc.Allocator, header H, raw []byte) (UniqueStr[H], error) {
	s, err := DecodeUTF16LE(raw)
	if err != nil {
		var zero UniqueStr[H]
		return zero, err
	}
	return NewStrIn(a, header, s)
}

// NewSharedStrUTF16In builds a shared header+string value from a UTF-16LE
// byte run.
func NewSharedStrUTF16In[H any](a alloc.Allocator, header H, raw []byte) (SharedStr[H], error) {
	s, err := DecodeUTF16LE(raw)
	if err != nil {
		var zero SharedStr[H]
		return zero, err
	}
	return NewSharedStrIn(a, header, s)
}
