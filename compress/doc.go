// Package compress provides the compression codecs the snapshot package
// applies to a timeline's exported Index and Data files.
//
// # Supported algorithms
//
//   - None (format.CompressionNone): no compression; use when export
//     latency matters more than the size of the resulting archive.
//   - Zstd (format.CompressionZstd): best compression ratio, moderate
//     speed; use for cold-storage snapshots.
//   - S2 (format.CompressionS2): balanced ratio and speed.
//   - LZ4 (format.CompressionLZ4): fastest decompression, most useful
//     when a snapshot is imported far more often than it is exported.
//
// # Architecture
//
// Compressor and Decompressor are separate interfaces so an implementation
// can have asymmetric performance in each direction; Codec combines both
// for callers, like GetCodec, that need to go either way.
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// # Usage
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	compressed, err := codec.Compress(indexBytes)
//
// snapshot.Export selects the codec via a format.CompressionType argument;
// snapshot.Import reads the codec recorded in the snapshot's own header,
// so callers never need to know which codec produced a given archive.
//
// # Memory management
//
// The Zstd and LZ4 implementations pool their encoder/decoder state in a
// sync.Pool to avoid re-initializing it on every call; S2 and NoOp carry
// no internal state to pool.
package compress
