// Package snapshot implements compressed export and import of a single
// timeline's on-disk state: its Index and Data mapped-array files, taken
// as a point-in-time copy for operator-driven backup.
//
// It is the one real caller of the compress package's Codec table,
// applying whichever of noop/zstd/s2/lz4 the operator selects to the raw
// bytes of the Index and Data files.
package snapshot

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"

	"github.com/sagalu/talon/compress"
	"github.com/sagalu/talon/errs"
	"github.com/sagalu/talon/format"
	"github.com/sagalu/talon/internal/pool"
	"github.com/sagalu/talon/section"
)

// magic identifies a talon snapshot archive and its layout version.
const magic = uint32(0x74616c31) // "tal1"

// Export writes a compressed snapshot of the timeline directory dir's
// Index and Data files to w.
//
// Layout: magic(4) codec(1) [indexLen(8) indexCRC(4) indexBytes] [dataLen(8) dataCRC(4) dataBytes],
// lengths and CRCs cover the compressed payload.
func Export(dir string, w io.Writer, codecType format.CompressionType) error {
	codec, err := compress.GetCodec(codecType)
	if err != nil {
		return fmt.Errorf("snapshot: %w: %v", errs.ErrUnsupportedCodec, err)
	}

	header := make([]byte, 5)
	binary.LittleEndian.PutUint32(header[0:4], magic)
	header[4] = byte(codecType)
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("snapshot: writing header: %w", err)
	}

	if err := exportFile(filepath.Join(dir, section.IndexFileSuffix), w, codec); err != nil {
		return fmt.Errorf("snapshot: exporting index: %w", err)
	}

	if err := exportFile(filepath.Join(dir, section.DataFileSuffix), w, codec); err != nil {
		return fmt.Errorf("snapshot: exporting data: %w", err)
	}

	return nil
}

func exportFile(path string, w io.Writer, codec compress.Compressor) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	buf := pool.GetSnapshotBuffer()
	defer pool.PutSnapshotBuffer(buf)

	compressed, err := codec.Compress(raw)
	if err != nil {
		return fmt.Errorf("compressing: %w", err)
	}
	buf.MustWrite(compressed)

	frame := make([]byte, 12)
	binary.LittleEndian.PutUint64(frame[0:8], uint64(buf.Len()))
	binary.LittleEndian.PutUint32(frame[8:12], crc32.ChecksumIEEE(buf.Bytes()))

	if _, err := w.Write(frame); err != nil {
		return err
	}

	_, err = buf.WriteTo(w)

	return err
}

// Import reads a snapshot previously written by Export from r and
// reconstructs dir's Index and Data files. dir must not already contain a
// timeline; Import does not merge with existing state.
func Import(dir string, r io.Reader) error {
	header := make([]byte, 5)
	if _, err := io.ReadFull(r, header); err != nil {
		return fmt.Errorf("snapshot: reading header: %w", err)
	}

	if binary.LittleEndian.Uint32(header[0:4]) != magic {
		return fmt.Errorf("snapshot: %w: bad magic", errs.ErrUnsupportedCodec)
	}

	codecType := format.CompressionType(header[4])
	codec, err := compress.GetCodec(codecType)
	if err != nil {
		return fmt.Errorf("snapshot: %w: %v", errs.ErrUnsupportedCodec, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("snapshot: creating directory: %w", err)
	}

	if err := importFile(filepath.Join(dir, section.IndexFileSuffix), r, codec); err != nil {
		return fmt.Errorf("snapshot: importing index: %w", err)
	}

	if err := importFile(filepath.Join(dir, section.DataFileSuffix), r, codec); err != nil {
		return fmt.Errorf("snapshot: importing data: %w", err)
	}

	return nil
}

func importFile(path string, r io.Reader, codec compress.Decompressor) error {
	frame := make([]byte, 12)
	if _, err := io.ReadFull(r, frame); err != nil {
		return fmt.Errorf("reading frame: %w", err)
	}

	length := binary.LittleEndian.Uint64(frame[0:8])
	wantCRC := binary.LittleEndian.Uint32(frame[8:12])

	compressed := make([]byte, length)
	if _, err := io.ReadFull(r, compressed); err != nil {
		return fmt.Errorf("reading payload: %w", err)
	}

	if crc32.ChecksumIEEE(compressed) != wantCRC {
		return errs.ErrSnapshotChecksum
	}

	raw, err := codec.Decompress(compressed)
	if err != nil {
		return fmt.Errorf("decompressing: %w", err)
	}

	return os.WriteFile(path, raw, 0o644)
}
