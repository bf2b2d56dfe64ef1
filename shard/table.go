// Package shard implements the sharded hash table of timelines that sits
// above the core timeline package: each of a fixed number of shards owns
// a subset of timelines, guarded by its own read-write lock, so that Put
// on one key never blocks Get/Diff/Summary on a key in another shard. Keys
// that share a shard also share its lock.
package shard

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/sagalu/talon/errs"
	"github.com/sagalu/talon/internal/metrics"
	"github.com/sagalu/talon/internal/shardkey"
	"github.com/sagalu/talon/timeline"
)

// shardEntry owns a subset of timelines assigned by shardkey.ShardIndex.
type shardEntry struct {
	mu        sync.RWMutex
	timelines map[string]*timeline.Timeline
}

// Table is a fixed-size sharded hash table of timelines rooted at a data
// directory, one subdirectory per key (named by shardkey.DirName).
type Table struct {
	dataDir    string
	resolution uint64
	shards     []*shardEntry
	metrics    *metrics.Registry
	log        *logrus.Entry
}

// New creates a Table with shardCount shards. Timelines are created
// lazily on first Put/Get/Diff/Summary for a key.
func New(dataDir string, shardCount int, resolution uint64, reg *metrics.Registry) *Table {
	shards := make([]*shardEntry, shardCount)
	for i := range shards {
		shards[i] = &shardEntry{timelines: make(map[string]*timeline.Timeline)}
	}

	return &Table{
		dataDir:    dataDir,
		resolution: resolution,
		shards:     shards,
		metrics:    reg,
		log:        logrus.WithField("component", "shard"),
	}
}

func (t *Table) shardFor(key string) *shardEntry {
	return t.shards[shardkey.ShardIndex(key, len(t.shards))]
}

// timelineFor returns the timeline for key, opening it on first use.
func (t *Table) timelineFor(key string) (*timeline.Timeline, error) {
	if key == "" {
		return nil, errs.ErrKeyEmpty
	}

	s := t.shardFor(key)

	s.mu.RLock()
	tl, ok := s.timelines[key]
	s.mu.RUnlock()
	if ok {
		return tl, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if tl, ok := s.timelines[key]; ok {
		return tl, nil
	}

	dir := filepath.Join(t.dataDir, shardkey.DirName(key))

	var opts []timeline.Option
	if t.metrics != nil {
		opts = append(opts, timeline.WithMetrics(t.metrics))
	}

	tl, err := timeline.FromDirectory(dir, t.resolution, opts...)
	if err != nil {
		return nil, fmt.Errorf("shard: opening timeline for %q: %w", key, err)
	}

	s.timelines[key] = tl

	return tl, nil
}

// Put dispatches count c at time t to the timeline owned by key, opening
// it if this is the first write for key. It holds the owning shard's
// write lock for the duration of the underlying Timeline.Put call.
func (t *Table) Put(key string, tsec, c uint64) (bool, error) {
	s := t.shardFor(key)

	tl, err := t.timelineFor(key)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return tl.Put(tsec, c), nil
}

// Get dispatches a point query to key's timeline.
func (t *Table) Get(key string, tsec, hint uint64) (timeline.GetResult, error) {
	s := t.shardFor(key)

	tl, err := t.timelineFor(key)
	if err != nil {
		return timeline.GetResult{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return tl.Get(tsec, hint), nil
}

// Diff dispatches a range query to key's timeline.
func (t *Table) Diff(key string, a, b, hint uint64) (timeline.DiffResult, error) {
	s := t.shardFor(key)

	tl, err := t.timelineFor(key)
	if err != nil {
		return timeline.DiffResult{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return tl.Diff(a, b, hint), nil
}

// Series dispatches a per-bucket range query to key's timeline.
func (t *Table) Series(key string, a, b, hint uint64) ([]uint64, error) {
	s := t.shardFor(key)

	tl, err := t.timelineFor(key)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return tl.Series(a, b, hint)
}

// Summary dispatches a whole-series query to key's timeline.
func (t *Table) Summary(key string) (timeline.SummaryResult, error) {
	s := t.shardFor(key)

	tl, err := t.timelineFor(key)
	if err != nil {
		return timeline.SummaryResult{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return tl.Summary(), nil
}

// Close closes every open timeline across every shard concurrently,
// supervised by an errgroup. It waits for every shard to finish and
// returns the first failure encountered.
func (t *Table) Close(ctx context.Context) error {
	g, _ := errgroup.WithContext(ctx)

	for _, s := range t.shards {
		s := s
		g.Go(func() error {
			s.mu.Lock()
			defer s.mu.Unlock()

			for key, tl := range s.timelines {
				if err := tl.Close(); err != nil {
					return fmt.Errorf("shard: closing timeline %q: %w", key, err)
				}
			}

			return nil
		})
	}

	return g.Wait()
}
