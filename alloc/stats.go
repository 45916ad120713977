package alloc

import (
	"fmt"
	"sync/atomic"

	"github.com/c2h5oh/datasize"
)

// Stats is a point-in-time snapshot of an allocator's counters.
type Stats struct {
	Allocs     uint64 // blocks handed out since creation
	Frees      uint64 // blocks returned since creation
	Failures   uint64 // failed allocation attempts
	LiveBlocks uint64 // blocks currently outstanding
	LiveBytes  uint64 // payload bytes currently outstanding
}

// String renders the snapshot in a single log-friendly line.
func (s Stats) String() string {
	return fmt.Sprintf("allocs=%d frees=%d failures=%d live=%d (%s)",
		s.Allocs, s.Frees, s.Failures, s.LiveBlocks,
		datasize.ByteSize(s.LiveBytes).HR())
}

// Instrumented is implemented by allocators that expose counters.
type Instrumented interface {
	Stats() Stats
}

// counters holds an allocator's statistics. Updated with atomics so
// instrumentation never serializes allocation paths.
type counters struct {
	allocs     atomic.Uint64
	frees      atomic.Uint64
	failures   atomic.Uint64
	liveBlocks atomic.Int64
	liveBytes  atomic.Int64
}

func (c *counters) alloc(size uintptr) {
	c.allocs.Add(1)
	c.liveBlocks.Add(1)
	c.liveBytes.Add(int64(size))
}

func (c *counters) free(size uintptr) {
	c.frees.Add(1)
	c.liveBlocks.Add(-1)
	c.liveBytes.Add(-int64(size))
}

func (c *counters) failure() {
	c.failures.Add(1)
}

func (c *counters) snapshot() Stats {
	return Stats{
		Allocs:     c.allocs.Load(),
		Frees:      c.frees.Load(),
		Failures:   c.failures.Load(),
		LiveBlocks: uint64(c.liveBlocks.Load()),
		LiveBytes:  uint64(c.liveBytes.Load()),
	}
}
