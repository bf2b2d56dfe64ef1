package section

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromPrevFirstBucket(t *testing.T) {
	b := FromPrev(Bucket{}, 5)

	require.Equal(t, Bucket{Value: 5, Integral: 5, SecondIntegral: 25}, b)
}

func TestFromPrevAccumulates(t *testing.T) {
	first := FromPrev(Bucket{}, 3)
	second := FromPrev(first, 4)

	require.Equal(t, uint64(4), second.Value)
	require.Equal(t, uint64(7), second.Integral)
	require.Equal(t, uint64(9+16), second.SecondIntegral)
}

func TestBucketCodecRoundTrip(t *testing.T) {
	b := Bucket{Value: 42, Integral: 100, SecondIntegral: 900}

	buf := make([]byte, BucketCodec.Size)
	BucketCodec.Encode(b, buf)
	got := BucketCodec.Decode(buf)

	require.Equal(t, b, got)
}

func TestDataHeaderCodecRoundTrip(t *testing.T) {
	h := DataHeader{Reserved: 7}

	buf := make([]byte, DataHeaderCodec.Size)
	DataHeaderCodec.Encode(h, buf)
	got := DataHeaderCodec.Decode(buf)

	require.Equal(t, h, got)
}
