package section

// Record and header sizes in bytes, all fixed-width little-endian.
const (
	BucketSize      = 24 // value, integral, second_integral, each uint64
	IndexEntrySize  = 16 // time, pos, each uint64
	IndexHeaderSize = 8  // resolution, uint64
	DataHeaderSize  = 8  // reserved, unused by any domain logic

	// AddBucketBackLimit bounds how far behind the current write frontier
	// a Put may land and still be accepted as an in-range update rather
	// than rejected as a regression. It bounds the cost of repropagating
	// prefix sums forward to the frontier.
	AddBucketBackLimit = 60

	// InitialCapacity is the number of records a newly created mapped
	// array is sized for before the first doubling growth.
	InitialCapacity = 64

	// DataFileSuffix and IndexFileSuffix name the two files that make up
	// one timeline's on-disk state within its directory.
	DataFileSuffix  = "_.d"
	IndexFileSuffix = "_.i"
)
