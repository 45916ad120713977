package alloc

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/thindst/layout"
)

func TestCollector_ExposesAllCounters(t *testing.T) {
	h := NewHeap()
	c := NewCollector("heap", h)

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(c))

	p, err := h.Alloc(layout.Layout{Size: 64, Align: 8})
	require.NoError(t, err)
	defer h.Free(p)

	require.Equal(t, 5, testutil.CollectAndCount(c))

	expected := `
		# HELP thindst_alloc_blocks_total Blocks handed out since allocator creation.
		# TYPE thindst_alloc_blocks_total counter
		thindst_alloc_blocks_total{allocator="heap"} 1
		# HELP thindst_alloc_live_bytes Payload bytes currently outstanding.
		# TYPE thindst_alloc_live_bytes gauge
		thindst_alloc_live_bytes{allocator="heap"} 64
	`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"thindst_alloc_blocks_total", "thindst_alloc_live_bytes"))
}

func TestCollector_TracksFrees(t *testing.T) {
	a := NewArena(0)
	c := NewCollector("arena", a)

	p, err := a.Alloc(layout.Layout{Size: 8, Align: 8})
	require.NoError(t, err)
	a.Free(p)
	require.NoError(t, a.Close())

	expected := `
		# HELP thindst_alloc_frees_total Blocks returned since allocator creation.
		# TYPE thindst_alloc_frees_total counter
		thindst_alloc_frees_total{allocator="arena"} 1
		# HELP thindst_alloc_live_blocks Blocks currently outstanding.
		# TYPE thindst_alloc_live_blocks gauge
		thindst_alloc_live_blocks{allocator="arena"} 0
	`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"thindst_alloc_frees_total", "thindst_alloc_live_blocks"))
}
