package timeline

import (
	"github.com/sagalu/talon/internal/mmio"
	"github.com/sagalu/talon/section"
)

// index wraps the mapped array of (time, pos) breakpoints and answers
// find_pos queries against it.
type index struct {
	arr *mmio.Array[section.IndexHeader, section.IndexEntry]
}

func openIndex(path string, resolution uint64) (*index, error) {
	arr, err := mmio.Open(path, section.IndexHeaderCodec, section.IndexEntryCodec, section.InitialCapacity, section.IndexHeader{Resolution: resolution})
	if err != nil {
		return nil, err
	}

	return &index{arr: arr}, nil
}

func (ix *index) resolution() uint64 {
	return ix.arr.Meta().Resolution
}

func (ix *index) size() uint64 { return ix.arr.Size() }
func (ix *index) empty() bool  { return ix.arr.Empty() }

func (ix *index) front() (section.IndexEntry, error)      { return ix.arr.Front() }
func (ix *index) back() (section.IndexEntry, error)       { return ix.arr.Back() }
func (ix *index) at(i uint64) (section.IndexEntry, error) { return ix.arr.At(i) }

func (ix *index) pushBack(e section.IndexEntry) error { return ix.arr.PushBack(e) }

func (ix *index) close() error { return ix.arr.Close() }

// findPos locates the index entry covering t, starting the search at
// entry hint (a monotone lower-bound: correct for any hint <= the true
// answer). It is equivalent to findPosFromRange(t, hint, size()).
func (ix *index) findPos(t, hint uint64) posResult {
	return ix.findPosFromRange(t, hint, ix.size())
}

// findPosFromRange restricts the search for the entry covering t to
// [begin, end) of the Index array.
func (ix *index) findPosFromRange(t, begin, end uint64) posResult {
	resolution := ix.resolution()

	if ix.empty() {
		return posResult{}
	}

	front, _ := ix.front()
	if t < front.Time {
		return posResult{indexOffset: 0, time: front.Time, pos: 0, offset: 0}
	}

	if end > ix.size() {
		end = ix.size()
	}
	if begin >= end {
		begin = 0
	}

	// Linear scan forward from begin for the last entry with time <= t.
	// The hint bounds cost to O(distance from hint to answer); on the hot
	// put path begin is size()-1, so this is O(1) for in-order arrivals.
	best := begin
	for i := begin; i < end; i++ {
		e, err := ix.at(i)
		if err != nil {
			break
		}
		if e.Time > t {
			break
		}
		best = i
	}

	e, _ := ix.at(best)
	offset := (t - e.Time) / resolution

	return posResult{indexOffset: best, time: e.Time, pos: e.Pos, offset: offset}
}
