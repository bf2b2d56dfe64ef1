// Package errs defines the sentinel errors returned by talon's storage and
// service layers, following the same errors.Is-comparable sentinel table
// convention used throughout the section, mmio, and timeline packages.
package errs

import "errors"

var (
	// ErrInvalidResolution is returned when a timeline is created or opened
	// with a zero resolution.
	ErrInvalidResolution = errors.New("talon: resolution must be greater than zero")

	// ErrNotDirectory is returned when the path given to FromDirectory
	// exists but is not a directory.
	ErrNotDirectory = errors.New("talon: path exists and is not a directory")

	// ErrClosed names the error for an operation on a mapped array or
	// timeline after Close. No code in this module returns it: mmio and
	// timeline do not check for a closed array.
	ErrClosed = errors.New("talon: array is closed")

	// ErrCorruptHeader is returned when a mapped file's header cannot be
	// parsed or fails validation on open.
	ErrCorruptHeader = errors.New("talon: corrupt or truncated header")

	// ErrRecordSize is returned when an on-disk file's length is not a
	// whole multiple of the record size after the header, which indicates
	// a truncated write or a build with a mismatched record layout.
	ErrRecordSize = errors.New("talon: file length is not aligned to record size")

	// ErrOutOfRange is returned by random-access operations (At, Set) when
	// the requested index is beyond the array's logical size.
	ErrOutOfRange = errors.New("talon: index out of range")

	// ErrEmptyArray is returned by Front/Back when the array has no
	// records.
	ErrEmptyArray = errors.New("talon: array is empty")

	// ErrShortWrite names the error for a write to a mapped region that
	// completes fewer bytes than requested. No code in this module returns
	// it; writes into a mapping are plain slice copies.
	ErrShortWrite = errors.New("talon: short write to mapped region")

	// ErrKeyEmpty is returned by the shard table and line protocol when a
	// timeline key is the empty string.
	ErrKeyEmpty = errors.New("talon: key must not be empty")

	// ErrMalformedLine is returned by the line protocol parser when an
	// input line does not have the form "KEY COUNT TIME".
	ErrMalformedLine = errors.New("talon: malformed line, expected KEY COUNT TIME")

	// ErrUnsupportedCodec is returned by the snapshot package when asked to
	// export or import with an unrecognized compression codec.
	ErrUnsupportedCodec = errors.New("talon: unsupported snapshot codec")

	// ErrSnapshotChecksum is returned by snapshot import when the stored
	// checksum does not match the decompressed payload.
	ErrSnapshotChecksum = errors.New("talon: snapshot checksum mismatch")
)
