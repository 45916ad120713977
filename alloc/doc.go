// Package alloc provides manually managed memory blocks for dynamically
// sized values.
//
// # Overview
//
// This package is the memory supplier for the slicedst allocation engine.
// An Allocator hands out raw, zeroed, aligned, non-moving blocks described
// by a layout.Layout, and takes them back through Free. A process-wide
// block registry maps every live block back to its owning allocator, which
// lets one-word handles release memory without carrying an allocator
// reference, and keeps Go-heap backing arrays reachable until the block is
// explicitly freed.
//
// # Implementations
//
// Heap: general-purpose allocator over Go-heap byte slices
//
//   - One backing slice per block, manually aligned
//   - Zeroed blocks, stable addresses
//   - Default choice; package variable Default
//
// Arena: append-only bump allocator over large chunks
//
//   - Anonymous memory mappings on unix, Go-heap chunks elsewhere
//   - O(1) allocation, no per-block overhead, no space reuse
//   - Close unmaps everything once no blocks remain live
//
// Limited: budget wrapper for exercising allocation-failure paths
//
// # Memory discipline
//
// Blocks are untyped and invisible to the garbage collector's scanner.
// Never store Go-heap pointers (strings, slices, maps, *T into Go objects)
// inside a block. Handles produced by this module are safe to embed: their
// one-word addresses target registry-pinned blocks.
//
// # Instrumentation
//
// Allocators expose Stats counters; NewCollector adapts them to a
// prometheus.Collector. Setting THINDST_LOG_ALLOC logs every alloc and free
// through log/slog at debug level.
package alloc
