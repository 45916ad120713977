package alloc

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/thindst/layout"
)

func TestArena_CarveSequential(t *testing.T) {
	a := NewArena(0)
	defer func() { require.NoError(t, a.Close()) }()

	l := layout.Layout{Size: 24, Align: 8}
	p1, err := a.Alloc(l)
	require.NoError(t, err)
	p2, err := a.Alloc(l)
	require.NoError(t, err)

	// same chunk, bumped past the first block
	require.Greater(t, uintptr(p2), uintptr(p1))
	require.GreaterOrEqual(t, uintptr(p2)-uintptr(p1), l.Size)

	a.Free(p1)
	a.Free(p2)
}

func TestArena_Alignment(t *testing.T) {
	a := NewArena(0)
	defer func() { require.NoError(t, a.Close()) }()

	// odd-size block first so the next one needs padding
	p1, err := a.Alloc(layout.Layout{Size: 3, Align: 1})
	require.NoError(t, err)
	p2, err := a.Alloc(layout.Layout{Size: 64, Align: 64})
	require.NoError(t, err)
	require.Zero(t, uintptr(p2)%64)

	a.Free(p1)
	a.Free(p2)
}

func TestArena_Zeroed(t *testing.T) {
	a := NewArena(0)
	defer func() { require.NoError(t, a.Close()) }()

	p, err := a.Alloc(layout.Layout{Size: 256, Align: 8})
	require.NoError(t, err)
	for _, b := range unsafe.Slice((*byte)(p), 256) {
		require.Zero(t, b)
	}
	a.Free(p)
}

func TestArena_GrowsPastChunk(t *testing.T) {
	a := NewArena(4096)
	defer func() { require.NoError(t, a.Close()) }()

	// larger than the chunk, forces a dedicated grow
	p, err := a.Alloc(layout.Layout{Size: 16 << 10, Align: 8})
	require.NoError(t, err)
	a.Free(p)

	// many small blocks spanning several chunks
	var ps []unsafe.Pointer
	for i := 0; i < 64; i++ {
		p, err := a.Alloc(layout.Layout{Size: 512, Align: 8})
		require.NoError(t, err)
		ps = append(ps, p)
	}
	for _, p := range ps {
		a.Free(p)
	}
}

func TestArena_CloseWithLiveBlocks(t *testing.T) {
	a := NewArena(0)
	p, err := a.Alloc(layout.Layout{Size: 8, Align: 8})
	require.NoError(t, err)

	require.Error(t, a.Close())

	a.Free(p)
	require.NoError(t, a.Close())
	require.NoError(t, a.Close()) // idempotent
}

func TestArena_AllocAfterClose(t *testing.T) {
	a := NewArena(0)
	require.NoError(t, a.Close())

	_, err := a.Alloc(layout.Layout{Size: 8, Align: 8})
	require.ErrorIs(t, err, ErrClosed)
}

func TestArena_RoutedFree(t *testing.T) {
	a := NewArena(0)
	defer func() { require.NoError(t, a.Close()) }()

	p, err := a.Alloc(layout.Layout{Size: 8, Align: 8})
	require.NoError(t, err)

	Free(p)
	require.Equal(t, uint64(1), a.Stats().Frees)
}
