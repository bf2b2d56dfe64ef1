package timeline

import "github.com/sagalu/talon/section"

// posResult is the internal result of locating a query time within the
// Index, before it has been clamped against the Data array's size.
type posResult struct {
	indexOffset uint64
	time        uint64
	pos         uint64
	offset      uint64
}

// GetResult is the outcome of a point query at a specific time.
type GetResult struct {
	// IndexOffset hints a later monotone query at the entry that covered
	// this one, avoiding a re-scan from the start of the Index.
	IndexOffset uint64
	// QueryTime is the time that was requested.
	QueryTime uint64
	// RangeTime is the start time of the bucket run this query landed in.
	RangeTime uint64
	Pos       uint64
	Offset    uint64
	// Value is the bucket at RangeTime + Offset*resolution, or a zero
	// bucket if QueryTime precedes the timeline's first recorded time.
	Value section.Bucket
}

// DiffResult is the outcome of a range query between two times.
type DiffResult struct {
	From, To    uint64
	Resolution  uint64
	IndexOffset uint64
	Sum         uint64
	Mean        float64
	Variance    float64
	Count       uint64
	FromValue   section.Bucket
	ToValue     section.Bucket
}

// SummaryResult is DiffResult over the timeline's entire recorded range.
type SummaryResult struct {
	From, To   uint64
	Resolution uint64
	Sum        uint64
	Mean       float64
	Variance   float64
	Count      uint64
}
