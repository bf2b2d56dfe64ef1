package compress

import (
	"fmt"

	"github.com/sagalu/talon/format"
)

// Compressor compresses one of snapshot's two payload shapes: an Index
// file's monotone (time, pos) pairs, or a Data file's bucket records with
// running sums. Both are read straight out of a mapped array's backing
// file at export time.
type Compressor interface {
	// Compress returns a compressed form of data. It does not modify
	// data. NoOpCompressor returns data itself rather than a copy.
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor of the same algorithm.
type Decompressor interface {
	// Decompress returns the data Compress produced. The Zstd, S2, and LZ4
	// implementations return an error for data they cannot decode;
	// NoOpCompressor returns data itself and never fails.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
//
// This interface is useful for implementations that can handle both operations
// efficiently with shared internal state or optimizations.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}
