//go:build unix

package alloc

import (
	"errors"

	"golang.org/x/sys/unix"
)

const pageSize = 4096

// grow maps a fresh anonymous chunk of at least n bytes.
func (a *Arena) grow(n uintptr) ([]byte, error) {
	// Round to page granularity; the kernel would anyway.
	n = (n + pageSize - 1) &^ uintptr(pageSize-1)
	return unix.Mmap(-1, 0, int(n),
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON)
}

// release unmaps a chunk. Double-unmap is treated as a no-op for callers.
func (a *Arena) release(chunk []byte) error {
	err := unix.Munmap(chunk)
	if errors.Is(err, unix.EINVAL) {
		return nil
	}
	return err
}
