package section

import (
	"github.com/sagalu/talon/endian"
	"github.com/sagalu/talon/internal/mmio"
)

// Bucket is one fixed-width accumulation window in the Data array.
//
// Integral and SecondIntegral are running prefix sums, valid up to the
// highest bucket written so far: Integral[i] = sum(Value[0..i]),
// SecondIntegral[i] = sum(Value[0..i]^2). They let Diff and Summary answer
// a range sum, mean, or variance in O(1) once the endpoints are located.
type Bucket struct {
	Value          uint64
	Integral       uint64
	SecondIntegral uint64
}

// FromPrev derives a new bucket's prefix sums from the bucket immediately
// before it and this bucket's own value. Passing a zero Bucket for prev
// gives the correct result for the first bucket in the array.
func FromPrev(prev Bucket, value uint64) Bucket {
	return Bucket{
		Value:          value,
		Integral:       prev.Integral + value,
		SecondIntegral: prev.SecondIntegral + value*value,
	}
}

// BucketCodec is the RecordCodec for Bucket, using the little-endian
// engine shared with the rest of talon's on-disk records.
var BucketCodec = func() mmio.RecordCodec[Bucket] {
	engine := endian.GetLittleEndianEngine()

	return mmio.RecordCodec[Bucket]{
		Size: BucketSize,
		Encode: func(b Bucket, dst []byte) {
			engine.PutUint64(dst[0:8], b.Value)
			engine.PutUint64(dst[8:16], b.Integral)
			engine.PutUint64(dst[16:24], b.SecondIntegral)
		},
		Decode: func(src []byte) Bucket {
			return Bucket{
				Value:          engine.Uint64(src[0:8]),
				Integral:       engine.Uint64(src[8:16]),
				SecondIntegral: engine.Uint64(src[16:24]),
			}
		},
	}
}()

// DataHeader is the unused header slot of the Data array. It carries no
// domain logic; the value stored is arbitrary and never inspected.
type DataHeader struct {
	Reserved uint64
}

// DataHeaderCodec is the HeaderCodec for DataHeader.
var DataHeaderCodec = func() mmio.HeaderCodec[DataHeader] {
	engine := endian.GetLittleEndianEngine()

	return mmio.HeaderCodec[DataHeader]{
		Size: DataHeaderSize,
		Encode: func(h DataHeader, dst []byte) {
			engine.PutUint64(dst[0:8], h.Reserved)
		},
		Decode: func(src []byte) DataHeader {
			return DataHeader{Reserved: engine.Uint64(src[0:8])}
		},
	}
}()
