package section

import (
	"github.com/sagalu/talon/endian"
	"github.com/sagalu/talon/internal/mmio"
)

// IndexEntry is one sparse breakpoint in the Index array: the bucket array
// position that was current at a given time. Entries are strictly
// ascending by Time and by Pos.
type IndexEntry struct {
	Time uint64
	Pos  uint64
}

// IndexEntryCodec is the RecordCodec for IndexEntry.
var IndexEntryCodec = func() mmio.RecordCodec[IndexEntry] {
	engine := endian.GetLittleEndianEngine()

	return mmio.RecordCodec[IndexEntry]{
		Size: IndexEntrySize,
		Encode: func(e IndexEntry, dst []byte) {
			engine.PutUint64(dst[0:8], e.Time)
			engine.PutUint64(dst[8:16], e.Pos)
		},
		Decode: func(src []byte) IndexEntry {
			return IndexEntry{
				Time: engine.Uint64(src[0:8]),
				Pos:  engine.Uint64(src[8:16]),
			}
		},
	}
}()
