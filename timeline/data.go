package timeline

import (
	"github.com/sagalu/talon/internal/mmio"
	"github.com/sagalu/talon/section"
)

// data wraps the mapped array of buckets. It carries no domain logic of
// its own; propagation of prefix sums is the timeline's job.
type data struct {
	arr *mmio.Array[section.DataHeader, section.Bucket]
}

func openData(path string) (*data, error) {
	arr, err := mmio.Open(path, section.DataHeaderCodec, section.BucketCodec, section.InitialCapacity, section.DataHeader{})
	if err != nil {
		return nil, err
	}

	return &data{arr: arr}, nil
}

func (d *data) size() uint64                         { return d.arr.Size() }
func (d *data) empty() bool                          { return d.arr.Empty() }
func (d *data) at(i uint64) (section.Bucket, error)  { return d.arr.At(i) }
func (d *data) set(i uint64, b section.Bucket) error { return d.arr.Set(i, b) }
func (d *data) back() (section.Bucket, error)        { return d.arr.Back() }
func (d *data) pushBack(b section.Bucket) error      { return d.arr.PushBack(b) }
func (d *data) close() error                         { return d.arr.Close() }

// prevOf returns the bucket at pos-1, or a zero bucket when pos == 0 (no
// predecessor) or that bucket cannot be read.
func (d *data) prevOf(pos uint64) section.Bucket {
	if pos == 0 {
		return section.Bucket{}
	}

	b, err := d.at(pos - 1)
	if err != nil {
		return section.Bucket{}
	}

	return b
}

// propagateFrom recomputes prefix sums forward from index i+1 through the
// end of the array, using data[i] as the running total.
func (d *data) propagateFrom(i uint64) error {
	prev, err := d.at(i)
	if err != nil {
		return err
	}

	for p := i + 1; p < d.size(); p++ {
		cur, err := d.at(p)
		if err != nil {
			return err
		}

		cur = section.FromPrev(prev, cur.Value)
		if err := d.set(p, cur); err != nil {
			return err
		}

		prev = cur
	}

	return nil
}
