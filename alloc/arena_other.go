//go:build !unix

package alloc

// grow allocates a fresh Go-heap chunk. The chunk stays reachable through
// a.chunks, so blocks inside it are pinned for the arena's lifetime.
func (a *Arena) grow(n uintptr) ([]byte, error) {
	return make([]byte, n), nil
}

// release lets the garbage collector reclaim the chunk.
func (a *Arena) release([]byte) error {
	return nil
}
