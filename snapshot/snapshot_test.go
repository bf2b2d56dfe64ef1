package snapshot

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sagalu/talon/format"
	"github.com/sagalu/talon/timeline"
)

func writeSampleTimeline(t *testing.T, dir string) {
	t.Helper()

	tl, err := timeline.FromDirectory(dir, 10)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.True(t, tl.Put(uint64((i+1)*10), uint64(i+1)))
	}

	require.NoError(t, tl.Close())
}

func TestExportImportRoundTripNoCompression(t *testing.T) {
	src := filepath.Join(t.TempDir(), "src")
	writeSampleTimeline(t, src)

	var buf bytes.Buffer
	require.NoError(t, Export(src, &buf, format.CompressionNone))

	dst := filepath.Join(t.TempDir(), "dst")
	require.NoError(t, Import(dst, &buf))

	tl, err := timeline.FromDirectory(dst, 10)
	require.NoError(t, err)
	defer tl.Close()

	s := tl.Summary()
	require.Equal(t, uint64(1+2+3+4+5), s.Sum)
}

func TestExportImportRoundTripZstd(t *testing.T) {
	src := filepath.Join(t.TempDir(), "src")
	writeSampleTimeline(t, src)

	var buf bytes.Buffer
	require.NoError(t, Export(src, &buf, format.CompressionZstd))

	dst := filepath.Join(t.TempDir(), "dst")
	require.NoError(t, Import(dst, &buf))

	tl, err := timeline.FromDirectory(dst, 10)
	require.NoError(t, err)
	defer tl.Close()

	s := tl.Summary()
	require.Equal(t, uint64(1+2+3+4+5), s.Sum)
}

func TestImportRejectsCorruptedPayload(t *testing.T) {
	src := filepath.Join(t.TempDir(), "src")
	writeSampleTimeline(t, src)

	var buf bytes.Buffer
	require.NoError(t, Export(src, &buf, format.CompressionNone))

	corrupted := buf.Bytes()
	corrupted[len(corrupted)-1] ^= 0xFF

	dst := filepath.Join(t.TempDir(), "dst")
	err := Import(dst, bytes.NewReader(corrupted))
	require.Error(t, err)
}

func TestImportRejectsBadMagic(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "dst")
	err := Import(dst, bytes.NewReader([]byte{0, 0, 0, 0, byte(format.CompressionNone)}))
	require.Error(t, err)
}
