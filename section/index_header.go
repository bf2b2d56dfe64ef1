package section

import (
	"github.com/sagalu/talon/endian"
	"github.com/sagalu/talon/internal/mmio"
)

// IndexHeader carries the timeline's bucket resolution, immutable for the
// timeline's life once the Index file is created.
type IndexHeader struct {
	Resolution uint64
}

// IndexHeaderCodec is the HeaderCodec for IndexHeader.
var IndexHeaderCodec = func() mmio.HeaderCodec[IndexHeader] {
	engine := endian.GetLittleEndianEngine()

	return mmio.HeaderCodec[IndexHeader]{
		Size: IndexHeaderSize,
		Encode: func(h IndexHeader, dst []byte) {
			engine.PutUint64(dst[0:8], h.Resolution)
		},
		Decode: func(src []byte) IndexHeader {
			return IndexHeader{Resolution: engine.Uint64(src[0:8])}
		},
	}
}()
