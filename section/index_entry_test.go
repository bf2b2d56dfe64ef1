package section

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIndexEntryCodecRoundTrip(t *testing.T) {
	e := IndexEntry{Time: 1_700_000_000, Pos: 12345}

	buf := make([]byte, IndexEntryCodec.Size)
	IndexEntryCodec.Encode(e, buf)
	got := IndexEntryCodec.Decode(buf)

	require.Equal(t, e, got)
}

func TestIndexHeaderCodecRoundTrip(t *testing.T) {
	h := IndexHeader{Resolution: 60}

	buf := make([]byte, IndexHeaderCodec.Size)
	IndexHeaderCodec.Encode(h, buf)
	got := IndexHeaderCodec.Decode(buf)

	require.Equal(t, h, got)
}

func TestIndexHeaderCodecRejectsNothingButRoundTripsZero(t *testing.T) {
	h := IndexHeader{}

	buf := make([]byte, IndexHeaderCodec.Size)
	IndexHeaderCodec.Encode(h, buf)
	got := IndexHeaderCodec.Decode(buf)

	require.Equal(t, uint64(0), got.Resolution)
}
