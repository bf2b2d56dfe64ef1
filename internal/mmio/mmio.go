// Package mmio implements the Mapped Array primitive: a growable,
// memory-mapped file holding a fixed-size typed header followed by a
// contiguous run of fixed-size typed records.
//
// It generalizes a fixed-width record encoding pattern (a Bytes/Parse pair
// per type) to an arbitrary header type H and record type R, backed by a
// real mmap(2) mapping instead of an in-memory buffer. Both section.Bucket
// and section.IndexEntry sit on top of an Array instance.
package mmio

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/sagalu/talon/errs"
)

// sizeFieldWidth is the width in bytes of the persisted logical record
// count that follows the header on disk.
const sizeFieldWidth = 8

// HeaderCodec describes how to encode and decode a fixed-size header of
// type H to and from its on-disk byte representation.
type HeaderCodec[H any] struct {
	// Size is the fixed encoded width of H in bytes.
	Size int
	// Encode writes h into dst, which is exactly Size bytes long.
	Encode func(h H, dst []byte)
	// Decode reads a header of type H from src, which is exactly Size
	// bytes long.
	Decode func(src []byte) H
}

// RecordCodec describes how to encode and decode a fixed-size record of
// type R to and from its on-disk byte representation.
type RecordCodec[R any] struct {
	// Size is the fixed encoded width of R in bytes.
	Size int
	// Encode writes r into dst, which is exactly Size bytes long.
	Encode func(r R, dst []byte)
	// Decode reads a record of type R from src, which is exactly Size
	// bytes long.
	Decode func(src []byte) R
}

// Array is a growable memory-mapped file holding one header of type H
// followed by a persisted logical size and a contiguous run of records of
// type R.
//
// On-disk layout: [header: H][size: uint64 little-endian][records: R*capacity].
// The mapped capacity may exceed the logical size; PushBack grows the
// backing file by doubling when the logical size reaches capacity.
//
// An Array is not safe for concurrent use by multiple goroutines; callers
// (section, timeline) are responsible for external synchronization.
type Array[H any, R any] struct {
	path string
	file *os.File
	mm   mmap.MMap

	headerCodec HeaderCodec[H]
	recordCodec RecordCodec[R]

	size     uint64 // logical record count, mirrors the persisted field
	capacity uint64 // number of records the current mapping can hold

	onGrow func() // optional hook invoked after each doubling remap
}

// SetGrowthHook installs a callback invoked after every doubling-growth
// remap. It is used by the timeline package to feed
// internal/metrics.Registry.MappedFileGrowths.
func (a *Array[H, R]) SetGrowthHook(fn func()) {
	a.onGrow = fn
}

// recordsOffset is the byte offset of the first record, i.e. the end of
// the header and size fields.
func (a *Array[H, R]) recordsOffset() int64 {
	return int64(a.headerCodec.Size + sizeFieldWidth)
}

// Open opens the mapped array at path, creating it with the given seed
// header and initial record capacity if it does not already exist.
//
// If the file exists, its header and persisted size are validated against
// headerCodec and recordCodec before the mapping is established.
func Open[H any, R any](path string, headerCodec HeaderCodec[H], recordCodec RecordCodec[R], initialCapacity int, seed H) (*Array[H, R], error) {
	if initialCapacity < 1 {
		initialCapacity = 1
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}

	a := &Array[H, R]{
		path:        path,
		file:        f,
		headerCodec: headerCodec,
		recordCodec: recordCodec,
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	if info.Size() == 0 {
		if err := a.initialize(seed, int64(initialCapacity)); err != nil {
			f.Close()
			return nil, err
		}
	} else {
		if err := a.load(info.Size()); err != nil {
			f.Close()
			return nil, err
		}
	}

	return a, nil
}

// initialize lays out a brand new file: header, zero size, and a
// zero-filled record region sized for capacity records.
func (a *Array[H, R]) initialize(seed H, capacity int64) error {
	total := a.recordsOffset() + capacity*int64(a.recordCodec.Size)
	if err := a.file.Truncate(total); err != nil {
		return err
	}

	m, err := mmap.Map(a.file, mmap.RDWR, 0)
	if err != nil {
		return err
	}
	a.mm = m
	a.capacity = uint64(capacity)
	a.size = 0

	a.headerCodec.Encode(seed, a.mm[:a.headerCodec.Size])
	binary.LittleEndian.PutUint64(a.mm[a.headerCodec.Size:a.recordsOffset()], 0)

	return a.mm.Flush()
}

// load maps an existing file and validates its header and persisted size
// against the on-disk length.
func (a *Array[H, R]) load(fileSize int64) error {
	minSize := int64(a.headerCodec.Size + sizeFieldWidth)
	if fileSize < minSize {
		return errs.ErrCorruptHeader
	}

	m, err := mmap.Map(a.file, mmap.RDWR, 0)
	if err != nil {
		return err
	}
	a.mm = m

	recordRegion := fileSize - minSize
	if a.recordCodec.Size <= 0 || recordRegion%int64(a.recordCodec.Size) != 0 {
		a.mm.Unmap()
		return errs.ErrRecordSize
	}

	a.capacity = uint64(recordRegion / int64(a.recordCodec.Size))
	a.size = binary.LittleEndian.Uint64(a.mm[a.headerCodec.Size:a.recordsOffset()])
	if a.size > a.capacity {
		a.mm.Unmap()
		return errs.ErrCorruptHeader
	}

	return nil
}

// Meta returns the current header value.
func (a *Array[H, R]) Meta() H {
	return a.headerCodec.Decode(a.mm[:a.headerCodec.Size])
}

// SetMeta overwrites the header value in place.
func (a *Array[H, R]) SetMeta(h H) {
	a.headerCodec.Encode(h, a.mm[:a.headerCodec.Size])
}

// Size returns the number of logical records currently stored.
func (a *Array[H, R]) Size() uint64 {
	return a.size
}

// Empty reports whether the array holds no records.
func (a *Array[H, R]) Empty() bool {
	return a.size == 0
}

// recordBytes returns the byte slice backing record i, without bounds
// checking against the logical size.
func (a *Array[H, R]) recordBytes(i uint64) []byte {
	start := a.recordsOffset() + int64(i)*int64(a.recordCodec.Size)
	return a.mm[start : start+int64(a.recordCodec.Size)]
}

// At returns the record at logical index i.
func (a *Array[H, R]) At(i uint64) (R, error) {
	var zero R
	if i >= a.size {
		return zero, errs.ErrOutOfRange
	}

	return a.recordCodec.Decode(a.recordBytes(i)), nil
}

// Set overwrites the record at logical index i.
func (a *Array[H, R]) Set(i uint64, r R) error {
	if i >= a.size {
		return errs.ErrOutOfRange
	}

	a.recordCodec.Encode(r, a.recordBytes(i))

	return nil
}

// Front returns the first record.
func (a *Array[H, R]) Front() (R, error) {
	if a.size == 0 {
		var zero R
		return zero, errs.ErrEmptyArray
	}

	return a.At(0)
}

// Back returns the last record.
func (a *Array[H, R]) Back() (R, error) {
	if a.size == 0 {
		var zero R
		return zero, errs.ErrEmptyArray
	}

	return a.At(a.size - 1)
}

// PushBack appends r, doubling the mapped region's capacity when full.
func (a *Array[H, R]) PushBack(r R) error {
	if a.size >= a.capacity {
		if err := a.grow(); err != nil {
			return err
		}
	}

	a.recordCodec.Encode(r, a.recordBytes(a.size))
	a.size++
	a.persistSize()

	return nil
}

// grow doubles the record capacity by unmapping, truncating the backing
// file, and remapping. Any failure here is fatal to the array's caller;
// there is no partial-state commit.
func (a *Array[H, R]) grow() error {
	newCapacity := a.capacity * 2
	if newCapacity == 0 {
		newCapacity = 1
	}

	if err := a.mm.Unmap(); err != nil {
		return err
	}

	newLen := a.recordsOffset() + int64(newCapacity)*int64(a.recordCodec.Size)
	if err := a.file.Truncate(newLen); err != nil {
		return err
	}

	m, err := mmap.Map(a.file, mmap.RDWR, 0)
	if err != nil {
		return err
	}

	a.mm = m
	a.capacity = newCapacity

	if a.onGrow != nil {
		a.onGrow()
	}

	return nil
}

// persistSize writes the current logical size into the size field.
func (a *Array[H, R]) persistSize() {
	binary.LittleEndian.PutUint64(a.mm[a.headerCodec.Size:a.recordsOffset()], a.size)
}

// Sync flushes the mapping and the persisted size to disk.
func (a *Array[H, R]) Sync() error {
	a.persistSize()
	return a.mm.Flush()
}

// Close flushes and unmaps the array, then closes the backing file.
func (a *Array[H, R]) Close() error {
	if a.mm == nil {
		return nil
	}

	a.persistSize()

	if err := a.mm.Flush(); err != nil {
		a.mm.Unmap()
		a.file.Close()
		return err
	}

	if err := a.mm.Unmap(); err != nil {
		a.file.Close()
		return err
	}
	a.mm = nil

	return a.file.Close()
}

// WriteRawTo copies the array's full on-disk representation (header, size,
// and every logical record, but not unused capacity beyond size) to w.
// snapshot.Export does not call it; it reads the backing files directly.
func (a *Array[H, R]) WriteRawTo(w io.Writer) (int64, error) {
	end := a.recordsOffset() + int64(a.size)*int64(a.recordCodec.Size)

	n, err := w.Write(a.mm[:end])

	return int64(n), err
}
