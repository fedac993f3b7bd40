// Package region implements the Region descriptor and RegionTable ordered
// index at the heart of the mapping engine.
package region

import "math"

// Region is an immutable descriptor of one OS mapping over [start, end] of
// the underlying file, plus a saturating use counter consulted by LFU
// eviction. A Region never mutates start/end/buffer after construction;
// only UseCount changes over its lifetime.
type Region struct {
	start    int64
	end      int64
	buffer   []byte
	useCount uint64
}

// New wraps a freshly mapped buffer starting at the given file offset.
// A zero-length buffer produces an empty region (end == start) that never
// encompasses any position; this is how the eagerly-mapped initial region
// over an empty file is represented.
func New(start int64, buffer []byte) *Region {
	r := &Region{start: start, buffer: buffer}
	if len(buffer) > 0 {
		r.end = start + int64(len(buffer)) - 1
	} else {
		r.end = start
	}
	return r
}

func (r *Region) Start() int64 { return r.start }
func (r *Region) End() int64   { return r.end }
func (r *Region) Buffer() []byte { return r.buffer }
func (r *Region) Capacity() int  { return len(r.buffer) }

// Encompasses reports whether p falls within this region's mapped span.
// A zero-capacity region never encompasses anything.
func (r *Region) Encompasses(p int64) bool {
	return len(r.buffer) > 0 && r.start <= p && p <= r.end
}

// IsBefore reports whether this region lies strictly before p.
func (r *Region) IsBefore(p int64) bool {
	return r.end < p
}

// IsAfter reports whether this region lies strictly after p.
func (r *Region) IsAfter(p int64) bool {
	return r.start > p
}

// UseCount returns the number of transfers that have touched this region.
func (r *Region) UseCount() uint64 { return r.useCount }

// IncrementUseCount bumps the use counter, saturating at the maximum
// representable uint64 instead of wrapping.
func (r *Region) IncrementUseCount() {
	if r.useCount != math.MaxUint64 {
		r.useCount++
	}
}
