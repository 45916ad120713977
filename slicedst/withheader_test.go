package slicedst_test

import (
	"iter"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/thindst/alloc"
	"github.com/joshuapare/thindst/slicedst"
)

type nodeMeta struct {
	Kind  uint32
	Flags uint16
}

// seqOf yields the given items with no errors.
func seqOf[T any](items ...T) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for _, it := range items {
			if !yield(it, nil) {
				return
			}
		}
	}
}

func TestNewSlice_HeaderAndElements(t *testing.T) {
	h := alloc.NewHeap()
	u, err := slicedst.NewSliceIn(h, nodeMeta{Kind: 7, Flags: 1}, []uint64{10, 20, 30})
	require.NoError(t, err)

	v := u.View()
	require.Equal(t, 3, v.Len())
	require.Equal(t, nodeMeta{Kind: 7, Flags: 1}, *v.Header())
	require.Equal(t, []uint64{10, 20, 30}, v.Slice())

	// the view aliases the block
	v.Slice()[1] = 99
	require.Equal(t, uint64(99), v.Slice()[1])

	u.Release()
	require.Equal(t, uint64(0), h.Stats().LiveBlocks)
}

func TestNewSlice_ZeroLength(t *testing.T) {
	h := alloc.NewHeap()
	u, err := slicedst.NewSliceIn[nodeMeta, uint64](h, nodeMeta{Kind: 1}, nil)
	require.NoError(t, err)

	v := u.View()
	require.Equal(t, 0, v.Len())
	require.Empty(t, v.Slice())
	require.Equal(t, uint32(1), v.Header().Kind)

	u.Release()
	require.Equal(t, uint64(0), h.Stats().LiveBlocks)
}

func TestNewSlice_ZeroSizedElements(t *testing.T) {
	h := alloc.NewHeap()
	u, err := slicedst.NewSliceIn(h, nodeMeta{}, make([]struct{}, 1<<16))
	require.NoError(t, err)

	require.Equal(t, 1<<16, u.View().Len())
	require.Len(t, u.View().Slice(), 1<<16)

	u.Release()
	require.Equal(t, uint64(0), h.Stats().LiveBlocks)
}

func TestEraseUnerase_BitForBit(t *testing.T) {
	h := alloc.NewHeap()
	u, err := slicedst.NewSliceIn(h, nodeMeta{Kind: 3}, []uint64{1, 2, 3, 4})
	require.NoError(t, err)
	defer u.Release()

	var d slicedst.WithHeader[nodeMeta, uint64]
	v := u.View()
	got := d.Unerase(d.Erase(v))

	require.Equal(t, v, got)
	require.Equal(t, 4, got.Len())
	require.Equal(t, []uint64{1, 2, 3, 4}, got.Slice())
}

func TestEraseUnerase_ZeroLength(t *testing.T) {
	h := alloc.NewHeap()
	u, err := slicedst.NewSliceIn(h, nodeMeta{}, []uint64{})
	require.NoError(t, err)
	defer u.Release()

	var d slicedst.WithHeader[nodeMeta, uint64]
	v := u.View()
	got := d.Unerase(d.Erase(v))
	require.Equal(t, v, got)
	require.Equal(t, 0, got.Len())
}

func TestLayoutFor_Deterministic(t *testing.T) {
	var d slicedst.WithHeader[nodeMeta, uint64]
	for _, n := range []int{0, 1, 17, 1 << 20} {
		a, err := d.LayoutFor(n)
		require.NoError(t, err)
		b, err := d.LayoutFor(n)
		require.NoError(t, err)
		require.Equal(t, a, b)
		require.Zero(t, a.Size%a.Align)
	}
}

func TestCollect_ExactSource(t *testing.T) {
	h := alloc.NewHeap()
	u, err := slicedst.CollectIn(h, nodeMeta{Kind: 2}, 3, seqOf[uint32](5, 6, 7))
	require.NoError(t, err)

	v := u.View()
	require.Equal(t, []uint32{5, 6, 7}, v.Slice())
	require.Equal(t, uint32(2), v.Header().Kind)

	u.Release()
	require.Equal(t, uint64(0), h.Stats().LiveBlocks)
}

func TestCollect_EmptySource(t *testing.T) {
	h := alloc.NewHeap()
	u, err := slicedst.CollectIn(h, nodeMeta{}, 0, seqOf[uint32]())
	require.NoError(t, err)
	require.Equal(t, 0, u.View().Len())
	u.Release()
}

func TestThinUnique_RoundTrip(t *testing.T) {
	h := alloc.NewHeap()
	u, err := slicedst.NewSliceIn(h, nodeMeta{Kind: 9}, []uint64{42})
	require.NoError(t, err)

	var th slicedst.ThinUnique[nodeMeta, uint64] = u.Thin()

	th.With(func(got slicedst.UniqueSlice[nodeMeta, uint64]) {
		require.Equal(t, u.Raw(), got.Raw())
		require.Equal(t, []uint64{42}, got.View().Slice())
	})

	back := th.Into()
	require.Equal(t, u.Raw(), back.Raw())
	require.Equal(t, 1, back.View().Len())

	back.Release()
	require.Equal(t, uint64(0), h.Stats().LiveBlocks)
}

func TestThin_ReleaseFreesBlock(t *testing.T) {
	h := alloc.NewHeap()
	u, err := slicedst.NewSliceIn(h, nodeMeta{}, []uint64{1, 2})
	require.NoError(t, err)

	th := u.Thin()
	th.Release()
	require.Equal(t, uint64(0), h.Stats().LiveBlocks)
}

func TestMust(t *testing.T) {
	h := alloc.NewHeap()
	u := slicedst.Must(slicedst.NewSliceIn(h, nodeMeta{Kind: 4}, []uint64{8}))
	require.Equal(t, uint32(4), u.View().Header().Kind)
	u.Release()

	lim := alloc.NewLimited(h, 0)
	require.Panics(t, func() {
		slicedst.Must(slicedst.NewSliceIn(lim, nodeMeta{}, []uint64{1}))
	})
}
