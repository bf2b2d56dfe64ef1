// Package talon provides a memory-mapped counting time-series store.
//
// A talon timeline records a running count per fixed-width time bucket and
// answers point, range, and whole-series sum/mean/variance queries in
// O(1) after locating a bucket, using two memory-mapped files per series:
// a sparse index of (time, position) breakpoints and a dense array of
// buckets carrying running prefix sums.
//
// # Core Features
//
//   - Memory-mapped storage: no in-process cache to warm, no serialization
//     step between writes and durability
//   - O(1) point and range queries via prefix-sum buckets
//   - A sharded table of timelines for concurrent multi-key workloads
//   - A line-oriented TCP protocol and an HTTP query/metrics API
//   - Compressed snapshot export/import for operator-driven backup
//
// # Basic Usage
//
// Opening a single timeline directly:
//
//	tl, err := timeline.FromDirectory("/data/cpu.load", 10)
//	tl.Put(1710000000, 5)
//	res := tl.Get(1710000000, 0)
//
// Serving many keys behind a sharded table:
//
//	tbl := talon.NewTable("/data", 16, 10)
//	tbl.Put("cpu.load", 1710000000, 5)
//	tbl.Summary("cpu.load")
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the timeline
// and shard packages, simplifying the most common use case: a sharded
// store rooted at one data directory. For fine-grained control over a
// single series -- custom logging or metrics -- use the timeline package
// directly.
package talon

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sagalu/talon/internal/metrics"
	"github.com/sagalu/talon/shard"
	"github.com/sagalu/talon/timeline"
)

// Table is a sharded collection of timelines rooted at one data directory.
// It is a thin alias so callers of this package never need to import
// shard directly for the common case.
type Table = shard.Table

// GetResult, DiffResult, and SummaryResult are re-exported so callers of
// NewTable never need to import timeline directly for the common case.
type (
	GetResult     = timeline.GetResult
	DiffResult    = timeline.DiffResult
	SummaryResult = timeline.SummaryResult
)

// NewTable creates a sharded Table rooted at dataDir with shardCount
// shards, each timeline created with the given bucket resolution (in
// seconds), and metrics registered against Prometheus's default
// registerer.
//
// For a custom Prometheus registerer, or per-timeline logging and metrics
// options, construct a timeline.Timeline directly with
// timeline.FromDirectory, or build a shard.Table with shard.New.
func NewTable(dataDir string, shardCount int, resolution uint64) *Table {
	reg := metrics.NewRegistry(prometheus.DefaultRegisterer)
	return shard.New(dataDir, shardCount, resolution, reg)
}
