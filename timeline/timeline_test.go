package timeline

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestTimeline(t *testing.T, resolution uint64) *Timeline {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "tl")
	tl, err := FromDirectory(dir, resolution)
	require.NoError(t, err)
	t.Cleanup(func() { tl.Close() })

	return tl
}

// S1: empty timeline, Diff returns a zero-count result.
func TestScenarioEmptyDiff(t *testing.T) {
	tl := newTestTimeline(t, 60)

	r := tl.Diff(0, 120, 0)
	require.Equal(t, uint64(0), r.Count)
	require.Equal(t, uint64(0), r.Sum)
}

// S2: a single point creates one bucket and one index entry.
func TestScenarioSinglePoint(t *testing.T) {
	tl := newTestTimeline(t, 60)

	require.True(t, tl.Put(1000, 5))

	g := tl.Get(1000, 0)
	require.Equal(t, uint64(5), g.Value.Value)
	require.Equal(t, uint64(5), g.Value.Integral)
	require.Equal(t, uint64(25), g.Value.SecondIntegral)
}

// S3: contiguous in-order accumulation keeps a single index entry and
// correct running sums.
func TestScenarioContiguousAccumulation(t *testing.T) {
	tl := newTestTimeline(t, 60)

	require.True(t, tl.Put(0, 1))
	require.True(t, tl.Put(60, 2))
	require.True(t, tl.Put(120, 3))

	s := tl.Summary()
	require.Equal(t, uint64(6), s.Sum)
	require.Equal(t, uint64(3), s.Count)
}

// S4: a gap between two in-order puts creates a new index entry.
func TestScenarioGapCreatesIndexEntry(t *testing.T) {
	tl := newTestTimeline(t, 60)

	require.True(t, tl.Put(0, 1))
	require.True(t, tl.Put(300, 1)) // 4 bucket gap

	sizeBefore := tl.index.size()
	require.Equal(t, uint64(2), sizeBefore)
}

// S5: a Put strictly before the last Index entry's time is rejected.
func TestScenarioRejectedBackdate(t *testing.T) {
	tl := newTestTimeline(t, 60)

	require.True(t, tl.Put(600, 1))
	require.False(t, tl.Put(0, 1))
}

// S6: a Put landing within the back-limit slack updates an existing
// bucket and repropagates forward.
func TestScenarioWithinSlackBackUpdate(t *testing.T) {
	tl := newTestTimeline(t, 60)

	require.True(t, tl.Put(0, 1))
	for i := uint64(1); i <= 5; i++ {
		require.True(t, tl.Put(i*60, 1))
	}

	// Update the third bucket (time=120) again, well within the 60-bucket
	// back limit.
	require.True(t, tl.Put(120, 10))

	g := tl.Get(120, 0)
	require.Equal(t, uint64(11), g.Value.Value)

	s := tl.Summary()
	require.Equal(t, uint64(1+1+11+1+1+1), s.Sum)
}

func TestPutRejectsBeyondBackLimit(t *testing.T) {
	tl := newTestTimeline(t, 1)

	require.True(t, tl.Put(0, 1))
	for i := uint64(1); i <= 100; i++ {
		require.True(t, tl.Put(i, 1))
	}

	require.False(t, tl.Put(0, 1))
}

func TestGetBeforeBeginningReturnsZeroBucket(t *testing.T) {
	tl := newTestTimeline(t, 60)
	require.True(t, tl.Put(1000, 5))

	g := tl.Get(0, 0)
	require.Equal(t, uint64(0), g.Value.Value)
}

// Diff's "from" endpoint is the caller's baseline bucket, matching the
// original diff_buckets semantics: a query starting strictly before the
// timeline's front (a zero baseline) and ending strictly inside the last
// bucket's window is what makes Diff's sum/mean/variance equal the plain
// brute-force statistics over every recorded count.
func TestDiffMatchesBruteForceSumAndVariance(t *testing.T) {
	tl := newTestTimeline(t, 10)

	counts := []uint64{1, 2, 3, 4, 5, 6, 7, 8}
	for i, c := range counts {
		require.True(t, tl.Put(uint64(i+1)*10, c))
	}

	r := tl.Diff(0, 85, 0)

	var sum, sumSq float64
	for _, c := range counts {
		sum += float64(c)
		sumSq += float64(c) * float64(c)
	}
	n := float64(len(counts))
	wantMean := sum / n
	wantVariance := (sumSq / n) - wantMean*wantMean

	require.InDelta(t, wantMean, r.Mean, 0.001)
	require.InDelta(t, wantVariance, r.Variance, 0.001)
}

func TestIdempotentSameTimeAccumulationAddsNotReplaces(t *testing.T) {
	tl := newTestTimeline(t, 60)

	require.True(t, tl.Put(0, 3))
	require.True(t, tl.Put(0, 4))

	g := tl.Get(0, 0)
	require.Equal(t, uint64(7), g.Value.Value)
}

func TestReopenReplayConsistency(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tl")

	tl, err := FromDirectory(dir, 60)
	require.NoError(t, err)

	require.True(t, tl.Put(0, 1))
	require.True(t, tl.Put(60, 2))
	require.True(t, tl.Put(120, 3))
	require.NoError(t, tl.Close())

	reopened, err := FromDirectory(dir, 60)
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })

	s := reopened.Summary()
	require.Equal(t, uint64(6), s.Sum)
	require.Equal(t, uint64(3), s.Count)
}

func TestSeriesReturnsOneValuePerBucket(t *testing.T) {
	tl := newTestTimeline(t, 10)

	require.True(t, tl.Put(10, 1))
	require.True(t, tl.Put(20, 2))
	require.True(t, tl.Put(30, 3))

	series, err := tl.Series(10, 30, 0)
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 2, 3}, series)
}

func TestSeriesOnEmptyTimelineReturnsNil(t *testing.T) {
	tl := newTestTimeline(t, 10)

	series, err := tl.Series(0, 100, 0)
	require.NoError(t, err)
	require.Nil(t, series)
}

// TestPropertyPrefixSumRecurrenceHolds runs a randomized sequence of Puts
// and checks that every bucket's prefix sums satisfy the recurrence
// data[i].Integral == data[i-1].Integral + data[i].Value (and likewise for
// SecondIntegral), for every i >= 1, plus the base case at i == 0.
func TestPropertyPrefixSumRecurrenceHolds(t *testing.T) {
	tl := newTestTimeline(t, 10)

	rng := rand.New(rand.NewSource(1))
	tsec := uint64(0)
	for i := 0; i < 500; i++ {
		tsec += uint64(rng.Intn(4)) * 10 // 0: same bucket, 1: contiguous, 2-3: a gap
		count := uint64(rng.Intn(50) + 1)
		require.True(t, tl.Put(tsec, count))
	}

	n := tl.data.size()
	require.Greater(t, n, uint64(1))

	first, err := tl.data.at(0)
	require.NoError(t, err)
	require.Equal(t, first.Value, first.Integral)
	require.Equal(t, first.Value*first.Value, first.SecondIntegral)

	for i := uint64(1); i < n; i++ {
		prev, err := tl.data.at(i - 1)
		require.NoError(t, err)
		cur, err := tl.data.at(i)
		require.NoError(t, err)

		require.Equal(t, prev.Integral+cur.Value, cur.Integral, "integral recurrence broken at bucket %d", i)
		require.Equal(t, prev.SecondIntegral+cur.Value*cur.Value, cur.SecondIntegral, "second-integral recurrence broken at bucket %d", i)
	}
}

// TestPropertyIndexEntriesStrictlyIncreasing runs a randomized sequence of
// Puts with gaps of varying size and checks that the resulting Index
// entries are strictly increasing in both Time and Pos.
func TestPropertyIndexEntriesStrictlyIncreasing(t *testing.T) {
	tl := newTestTimeline(t, 10)

	rng := rand.New(rand.NewSource(2))
	tsec := uint64(0)
	for i := 0; i < 300; i++ {
		tsec += uint64(rng.Intn(10)) * 10 // occasional large gaps force new index entries
		count := uint64(rng.Intn(50) + 1)
		require.True(t, tl.Put(tsec, count))
	}

	n := tl.index.size()
	require.Greater(t, n, uint64(1))

	prev, err := tl.index.at(0)
	require.NoError(t, err)

	for i := uint64(1); i < n; i++ {
		cur, err := tl.index.at(i)
		require.NoError(t, err)

		require.Greater(t, cur.Time, prev.Time, "index time not strictly increasing at entry %d", i)
		require.Greater(t, cur.Pos, prev.Pos, "index pos not strictly increasing at entry %d", i)

		prev = cur
	}
}

// TestPropertyDiffMatchesBruteForceAcrossRandomRanges broadens
// TestDiffMatchesBruteForceSumAndVariance from one fixed (a, b) pair to
// many random pairs over the same recorded series, per the same
// Diff-equals-brute-force-statistics invariant.
func TestPropertyDiffMatchesBruteForceAcrossRandomRanges(t *testing.T) {
	tl := newTestTimeline(t, 10)

	rng := rand.New(rand.NewSource(3))
	const buckets = 50
	counts := make([]uint64, buckets)
	for i := range counts {
		counts[i] = uint64(rng.Intn(100) + 1)
		require.True(t, tl.Put(uint64(i+1)*10, counts[i]))
	}

	for trial := 0; trial < 20; trial++ {
		from := rng.Intn(buckets)
		to := rng.Intn(buckets)
		if from > to {
			from, to = to, from
		}

		r := tl.Diff(uint64(from)*10, uint64(to+1)*10, 0)

		var sum, sumSq float64
		n := 0
		for i := from; i <= to; i++ {
			sum += float64(counts[i])
			sumSq += float64(counts[i]) * float64(counts[i])
			n++
		}

		wantMean := sum / float64(n)
		wantVariance := (sumSq / float64(n)) - wantMean*wantMean

		require.InDelta(t, wantMean, r.Mean, 0.001, "mean mismatch for range [%d,%d]", from, to)
		require.InDelta(t, wantVariance, r.Variance, 0.001, "variance mismatch for range [%d,%d]", from, to)
	}
}

func TestFromDirectoryRejectsZeroResolution(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tl")

	_, err := FromDirectory(dir, 0)
	require.Error(t, err)
}
