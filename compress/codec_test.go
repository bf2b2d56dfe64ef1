package compress

import (
	"testing"

	"github.com/sagalu/talon/format"
	"github.com/stretchr/testify/require"
)

// indexPayload and dataPayload approximate the two byte shapes snapshot
// actually compresses: monotone (time, pos) pairs and bucket records with
// running sums.
func indexPayload(entries int) []byte {
	buf := make([]byte, entries*16)
	for i := 0; i < entries; i++ {
		t := uint64(i * 10)
		pos := uint64(i)
		for j := 0; j < 8; j++ {
			buf[i*16+j] = byte(t >> (8 * j))
			buf[i*16+8+j] = byte(pos >> (8 * j))
		}
	}
	return buf
}

func dataPayload(buckets int) []byte {
	buf := make([]byte, buckets*24)
	var running uint64
	for i := 0; i < buckets; i++ {
		running += uint64(i % 97)
		for j := 0; j < 8; j++ {
			buf[i*24+j] = byte(uint64(i) >> (8 * j))
			buf[i*24+8+j] = byte(running >> (8 * j))
		}
	}
	return buf
}

func allCodecs() map[format.CompressionType]Codec {
	return map[format.CompressionType]Codec{
		format.CompressionNone: NewNoOpCompressor(),
		format.CompressionZstd: NewZstdCompressor(),
		format.CompressionS2:   NewS2Compressor(),
		format.CompressionLZ4:  NewLZ4Compressor(),
	}
}

func TestGetCodecReturnsEachBuiltinType(t *testing.T) {
	for _, typ := range []format.CompressionType{
		format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4,
	} {
		codec, err := GetCodec(typ)
		require.NoError(t, err)
		require.NotNil(t, codec)
	}
}

func TestGetCodecRejectsUnknownType(t *testing.T) {
	_, err := GetCodec(format.CompressionType(255))
	require.Error(t, err)
}

func TestAllCodecsRoundTripIndexPayload(t *testing.T) {
	payload := indexPayload(500)

	for typ, codec := range allCodecs() {
		t.Run(typ.String(), func(t *testing.T) {
			compressed, err := codec.Compress(payload)
			require.NoError(t, err)

			decompressed, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Equal(t, payload, decompressed)
		})
	}
}

func TestAllCodecsRoundTripDataPayload(t *testing.T) {
	payload := dataPayload(1000)

	for typ, codec := range allCodecs() {
		t.Run(typ.String(), func(t *testing.T) {
			compressed, err := codec.Compress(payload)
			require.NoError(t, err)

			decompressed, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Equal(t, payload, decompressed)
		})
	}
}

func TestAllCodecsHandleEmptyInput(t *testing.T) {
	for typ, codec := range allCodecs() {
		t.Run(typ.String(), func(t *testing.T) {
			compressed, err := codec.Compress(nil)
			require.NoError(t, err)

			decompressed, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Empty(t, decompressed)
		})
	}
}

func TestZstdDecompressRejectsCorruptInput(t *testing.T) {
	codec := NewZstdCompressor()

	_, err := codec.Decompress([]byte("not a zstd frame"))
	require.Error(t, err)
}

func TestLZ4DecompressRejectsCorruptInput(t *testing.T) {
	codec := NewLZ4Compressor()

	_, err := codec.Decompress([]byte("not an lz4 block"))
	require.Error(t, err)
}

func TestNoOpCompressorReturnsInputUnchanged(t *testing.T) {
	codec := NewNoOpCompressor()
	payload := indexPayload(10)

	compressed, err := codec.Compress(payload)
	require.NoError(t, err)
	require.Equal(t, payload, compressed)

	decompressed, err := codec.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, payload, decompressed)
}
