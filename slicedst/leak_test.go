package slicedst_test

import (
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/thindst/alloc"
	"github.com/joshuapare/thindst/slicedst"
)

// Release hooks cannot mutate their receiver (value semantics) and blocks
// must not hold Go-heap pointers, so the test hooks count through
// package-level tallies reset at the start of each test.
var (
	hookHdrReleases  int
	hookItemReleases int
)

func resetHooks() {
	hookHdrReleases = 0
	hookItemReleases = 0
}

type hookHdr struct {
	ID uint32
}

func (hookHdr) Release() { hookHdrReleases++ }

type hookItem struct {
	V uint64
}

func (hookItem) Release() { hookItemReleases++ }

// failAfter yields k items, then an error.
func failAfter(k int) iter.Seq2[hookItem, error] {
	return func(yield func(hookItem, error) bool) {
		for i := 0; i < k; i++ {
			if !yield(hookItem{V: uint64(i)}, nil) {
				return
			}
		}
		yield(hookItem{}, errors.New("source broke"))
	}
}

func TestCollect_SourceErrorUnwinds(t *testing.T) {
	resetHooks()
	h := alloc.NewHeap()

	_, err := slicedst.CollectIn(h, hookHdr{ID: 1}, 5, failAfter(3))
	require.Error(t, err)
	require.ErrorContains(t, err, "source broke")

	// exactly what was written gets released: 3 items plus the header
	require.Equal(t, 3, hookItemReleases)
	require.Equal(t, 1, hookHdrReleases)
	require.Equal(t, uint64(0), h.Stats().LiveBlocks)
}

func TestCollect_FullTeardownReleasesEverything(t *testing.T) {
	resetHooks()
	h := alloc.NewHeap()

	u, err := slicedst.CollectIn(h, hookHdr{ID: 2}, 4, seqOf(
		hookItem{V: 1}, hookItem{V: 2}, hookItem{V: 3}, hookItem{V: 4}))
	require.NoError(t, err)
	require.Zero(t, hookItemReleases)

	u.Release()
	require.Equal(t, 4, hookItemReleases)
	require.Equal(t, 1, hookHdrReleases)
	require.Equal(t, uint64(0), h.Stats().LiveBlocks)
}

func TestCollect_UnderYieldPanics(t *testing.T) {
	resetHooks()
	h := alloc.NewHeap()

	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r)
			err, ok := r.(error)
			require.True(t, ok)
			require.ErrorIs(t, err, slicedst.ErrLengthMismatch)
		}()
		_, _ = slicedst.CollectIn(h, hookHdr{}, 5, seqOf(hookItem{V: 1}, hookItem{V: 2}))
	}()

	// the panic still unwinds and frees
	require.Equal(t, 2, hookItemReleases)
	require.Equal(t, 1, hookHdrReleases)
	require.Equal(t, uint64(0), h.Stats().LiveBlocks)
}

func TestCollect_OverYieldPanics(t *testing.T) {
	resetHooks()
	h := alloc.NewHeap()

	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r)
			err, ok := r.(error)
			require.True(t, ok)
			require.ErrorIs(t, err, slicedst.ErrLengthMismatch)
		}()
		_, _ = slicedst.CollectIn(h, hookHdr{}, 1, seqOf(hookItem{V: 1}, hookItem{V: 2}, hookItem{V: 3}))
	}()

	require.Equal(t, 1, hookItemReleases)
	require.Equal(t, uint64(0), h.Stats().LiveBlocks)
}

func TestCollect_NegativeLengthPanics(t *testing.T) {
	h := alloc.NewHeap()
	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r)
			err, ok := r.(error)
			require.True(t, ok)
			require.ErrorIs(t, err, slicedst.ErrLengthMismatch)
		}()
		_, _ = slicedst.CollectIn(h, hookHdr{}, -1, seqOf[hookItem]())
	}()
	require.Equal(t, uint64(0), h.Stats().LiveBlocks)
}

func TestCollect_AllocatorExhausted(t *testing.T) {
	resetHooks()
	lim := alloc.NewLimited(alloc.NewHeap(), 0)

	_, err := slicedst.CollectIn(lim, hookHdr{}, 3, seqOf(hookItem{}, hookItem{}, hookItem{}))
	require.ErrorIs(t, err, alloc.ErrExhausted)

	// nothing was written, nothing gets released
	require.Zero(t, hookItemReleases)
	require.Zero(t, hookHdrReleases)
}

func TestCollectShared_SourceErrorUnwinds(t *testing.T) {
	resetHooks()
	h := alloc.NewHeap()

	_, err := slicedst.CollectSharedIn(h, hookHdr{}, 4, failAfter(2))
	require.Error(t, err)
	require.Equal(t, 2, hookItemReleases)
	require.Equal(t, 1, hookHdrReleases)
	require.Equal(t, uint64(0), h.Stats().LiveBlocks)
}
