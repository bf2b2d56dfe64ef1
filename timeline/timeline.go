// Package timeline implements the counting time-series engine: a single
// Timeline composes an Index (sparse time breakpoints) and a Data array
// (dense buckets with running prefix sums) to answer point, range, and
// whole-series queries in O(1) after locating a bucket.
//
// The algorithm here is carried over unchanged from
// henhouse's db/timeline.cpp: propagate/update_current become
// data.propagateFrom/Timeline.Put's in-range branch, diff_buckets becomes
// diffBuckets, and find_pos/find_pos_from_range become index.findPos/
// findPosFromRange.
package timeline

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sagalu/talon/internal/metrics"
	"github.com/sagalu/talon/internal/pool"
	"github.com/sagalu/talon/section"
)

// Timeline is a single counting time series backed by two memory-mapped
// files in one directory: an Index of (time, pos) breakpoints and a Data
// array of buckets.
//
// A Timeline is not safe for concurrent use: callers needing concurrent
// access (the shard package) must hold a read-write lock at the Timeline
// granularity around Put versus Get/Diff/Summary.
type Timeline struct {
	dir     string
	index   *index
	data    *data
	log     *logrus.Entry
	metrics *metrics.Registry
}

// Put records count c at time t, appending a new bucket or updating an
// existing one.
//
// Put returns false, not an error, when t is earlier than the time of the
// last Index entry, or when its bucket lies section.AddBucketBackLimit or
// more buckets before the end of the Data array — both are operational
// rejections per the timeline's contract, not failures. A failure to read
// or write the backing files is logged and also reported as false; Put
// does not return it as an error.
func (tl *Timeline) Put(t, c uint64) bool {
	accepted := tl.put(t, c)
	tl.observePut(accepted)

	return accepted
}

func (tl *Timeline) observePut(accepted bool) {
	if tl.metrics == nil {
		return
	}

	result := "rejected"
	if accepted {
		result = "accepted"
	}
	tl.metrics.PutTotal.WithLabelValues(result).Inc()
}

func (tl *Timeline) put(t, c uint64) bool {
	if tl.index.empty() {
		if err := tl.putFirst(t, c); err != nil {
			tl.log.WithError(err).Error("put: failed to write first bucket")
			return false
		}

		return true
	}

	last, err := tl.index.back()
	if err != nil {
		tl.log.WithError(err).Error("put: failed to read last index entry")
		return false
	}

	if t < last.Time {
		return false
	}

	p := tl.index.findPosFromRange(t, tl.index.size()-1, tl.index.size())
	pos := p.pos + p.offset

	if pos < tl.data.size() {
		return tl.putInRange(pos, c)
	}

	return tl.putAppend(p, pos, c)
}

func (tl *Timeline) putFirst(t, c uint64) error {
	v := section.Bucket{Value: c, Integral: c, SecondIntegral: c * c}
	if err := tl.data.pushBack(v); err != nil {
		return err
	}

	return tl.index.pushBack(section.IndexEntry{Time: t, Pos: 0})
}

// putInRange accumulates c into the bucket at pos and repropagates prefix
// sums forward to the write frontier, unless pos is too far behind the
// frontier to bound the repropagation cost.
func (tl *Timeline) putInRange(pos, c uint64) bool {
	slack := tl.data.size() - pos
	if slack >= section.AddBucketBackLimit {
		return false
	}

	cur, err := tl.data.at(pos)
	if err != nil {
		tl.log.WithError(err).Error("put: failed to read target bucket")
		return false
	}

	cur.Value += c
	prev := tl.data.prevOf(pos)
	cur = section.FromPrev(prev, cur.Value)

	if err := tl.data.set(pos, cur); err != nil {
		tl.log.WithError(err).Error("put: failed to write target bucket")
		return false
	}

	if err := tl.data.propagateFrom(pos); err != nil {
		tl.log.WithError(err).Error("put: failed to repropagate prefix sums")
		return false
	}

	if tl.metrics != nil {
		tl.metrics.RepropagationLength.Observe(float64(slack))
	}

	return true
}

// putAppend appends a new bucket carrying count c at the write frontier,
// and indexes it when the append created a gap relative to pos.
func (tl *Timeline) putAppend(p posResult, pos, c uint64) bool {
	lastPos := tl.data.size() - 1

	prev, err := tl.data.at(lastPos)
	if err != nil {
		tl.log.WithError(err).Error("put: failed to read frontier bucket")
		return false
	}

	current := section.FromPrev(prev, c)
	if err := tl.data.pushBack(current); err != nil {
		tl.log.WithError(err).Error("put: failed to append bucket")
		return false
	}

	newPos := lastPos + 1
	if pos == newPos {
		return true
	}

	resolution := tl.index.resolution()
	aliasedTime := p.time + p.offset*resolution

	if err := tl.index.pushBack(section.IndexEntry{Time: aliasedTime, Pos: newPos}); err != nil {
		tl.log.WithError(err).Error("put: failed to append index entry")
		return false
	}

	return true
}

// Get returns the bucket covering time t, using hint as a monotone
// lower-bound index offset to avoid rescanning the Index from the start.
func (tl *Timeline) Get(t, hint uint64) GetResult {
	if tl.metrics != nil {
		tl.metrics.GetTotal.Inc()
	}

	p := tl.index.findPos(t, hint)
	p = tl.clamp(p)

	beforeBeginning := t < p.time
	var value section.Bucket
	if !beforeBeginning {
		v, err := tl.data.at(p.pos + p.offset)
		if err != nil {
			tl.log.WithError(err).Warn("get: failed to read bucket, returning zero value")
		} else {
			value = v
		}
	}

	return GetResult{
		IndexOffset: p.indexOffset,
		QueryTime:   t,
		RangeTime:   p.time,
		Pos:         p.pos,
		Offset:      p.offset,
		Value:       value,
	}
}

// clamp bounds p.pos+p.offset to the last valid Data index, mirroring
// find_pos's deliberate lack of bounds checking against data.size().
func (tl *Timeline) clamp(p posResult) posResult {
	size := tl.data.size()
	if size == 0 {
		return p
	}

	if p.pos+p.offset < size {
		return p
	}

	p.offset = size - p.pos - 1

	return p
}

// Diff returns the sum, mean, and variance of counts recorded between a
// and b (order-independent).
func (tl *Timeline) Diff(a, b, hint uint64) DiffResult {
	if tl.metrics != nil {
		tl.metrics.DiffTotal.Inc()
	}

	resolution := tl.index.resolution()

	if a > b {
		a, b = b, a
	}

	if tl.data.empty() {
		return DiffResult{From: a, To: b, Resolution: resolution}
	}

	ar := tl.Get(a, hint)
	br := tl.Get(b, ar.IndexOffset)

	bAdj := max64(br.QueryTime, br.RangeTime)
	aAdj := min64(ar.QueryTime, bAdj)

	n := (bAdj - aAdj) / resolution
	if n == 0 {
		return DiffResult{
			From: aAdj, To: bAdj, Resolution: resolution,
			FromValue: ar.Value, ToValue: br.Value,
		}
	}

	return diffBuckets(aAdj, bAdj, resolution, ar.IndexOffset, ar.Value, br.Value, n)
}

// Summary returns Diff over the timeline's entire recorded range.
func (tl *Timeline) Summary() SummaryResult {
	if tl.metrics != nil {
		tl.metrics.SummaryTotal.Inc()
	}

	resolution := tl.index.resolution()

	if tl.index.empty() {
		return SummaryResult{Resolution: resolution}
	}

	front, err := tl.index.front()
	if err != nil {
		tl.log.WithError(err).Error("summary: failed to read first index entry")
		return SummaryResult{Resolution: resolution}
	}

	back, err := tl.index.back()
	if err != nil {
		tl.log.WithError(err).Error("summary: failed to read last index entry")
		return SummaryResult{Resolution: resolution}
	}

	from := front.Time
	lastBuckets := tl.data.size() - back.Pos
	to := back.Time + lastBuckets*resolution

	n := (to - from) / resolution

	lastBucket, err := tl.data.back()
	if err != nil {
		tl.log.WithError(err).Error("summary: failed to read frontier bucket")
		return SummaryResult{Resolution: resolution}
	}

	diff := diffBuckets(from, to, resolution, 0, section.Bucket{}, lastBucket, n)

	return SummaryResult{
		From: from, To: to, Resolution: resolution,
		Sum: diff.Sum, Mean: diff.Mean, Variance: diff.Variance, Count: n,
	}
}

// Series materializes each bucket's raw count between a and b
// (order-independent), one value per stored bucket from a's bucket
// through b's, for callers that want the per-bucket series rather than
// its aggregate. Gaps between Index runs have no stored buckets and
// contribute no values.
//
// The returned slice is freshly allocated and owned by the caller; the
// pooled scratch buffer used to build it never escapes this call.
func (tl *Timeline) Series(a, b, hint uint64) ([]uint64, error) {
	if tl.metrics != nil {
		tl.metrics.SeriesTotal.Inc()
	}

	if tl.data.empty() {
		return nil, nil
	}

	if a > b {
		a, b = b, a
	}

	from := tl.clamp(tl.index.findPos(a, hint))
	to := tl.clamp(tl.index.findPos(b, from.indexOffset))

	startPos := from.pos + from.offset
	endPos := to.pos + to.offset
	if endPos < startPos {
		return nil, nil
	}

	n := int(endPos-startPos) + 1
	scratch, release := pool.GetUint64Slice(n)
	defer release()

	for i := 0; i < n; i++ {
		bucket, err := tl.data.at(startPos + uint64(i))
		if err != nil {
			return nil, fmt.Errorf("timeline: reading series bucket %d: %w", i, err)
		}
		scratch[i] = bucket.Value
	}

	out := make([]uint64, n)
	copy(out, scratch)

	return out, nil
}

// diffBuckets computes sum, mean, and variance across n buckets given the
// prefix-sum state at the range's two endpoints.
//
// Var(X) = E[X^2] - (E[X])^2, so second_sum/n - mean^2 requires only the
// two endpoints' integral and second_integral, uninterrupted between them.
func diffBuckets(a, b, resolution, indexOffset uint64, from, to section.Bucket, n uint64) DiffResult {
	sum := to.Integral - from.Integral
	secondSum := to.SecondIntegral - from.SecondIntegral

	mean := float64(sum) / float64(n)
	meanSquared := mean * mean
	secondMean := float64(secondSum) / float64(n)
	variance := secondMean - meanSquared

	return DiffResult{
		From: a, To: b, Resolution: resolution, IndexOffset: indexOffset,
		Sum: sum, Mean: mean, Variance: variance, Count: n,
		FromValue: from, ToValue: to,
	}
}

func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

// Close flushes and unmaps both backing files.
func (tl *Timeline) Close() error {
	if err := tl.data.close(); err != nil {
		return fmt.Errorf("timeline: closing data file: %w", err)
	}

	if err := tl.index.close(); err != nil {
		return fmt.Errorf("timeline: closing index file: %w", err)
	}

	return nil
}

// Resolution returns the timeline's fixed bucket width.
func (tl *Timeline) Resolution() uint64 {
	return tl.index.resolution()
}
