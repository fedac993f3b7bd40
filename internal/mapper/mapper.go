// Package mapper installs new regions into a region.Table on demand,
// evicting first if the table is already at capacity.
package mapper

import (
	"vmap/internal/errs"
	"vmap/internal/evictor"
	"vmap/internal/filehandle"
	"vmap/internal/mmap"
	"vmap/internal/region"
)

// Mapper wraps the OS map call and the min/max sizing policy for new
// regions.
type Mapper struct {
	fh      filehandle.Handle
	mode    filehandle.AccessMode
	minSize int64
	maxSize int64
}

func New(fh filehandle.Handle, mode filehandle.AccessMode, minSize, maxSize int64) *Mapper {
	return &Mapper{fh: fh, mode: mode, minSize: minSize, maxSize: maxSize}
}

// MapAt installs a region covering p into table, evicting a slot first if
// the table is full. fcPosition is the committed cursor position, used to
// pick a directional scan when locating the neighboring region, and to
// decide whether the new mapping is a forward (sequential) or backward
// (random) access for the madvise hint.
func (m *Mapper) MapAt(table *region.Table, p, fcPosition int64) (int, error) {
	if table.Used() == table.Capacity() {
		if err := evictor.Evict(table, m.fh); err != nil {
			return -1, err
		}
	}

	span := m.maxSize
	if after, ok := table.ClosestAfter(p, fcPosition); ok {
		span = table.At(after).Start() - p
	}
	size := region.Clamp(span, m.minSize, m.maxSize)

	buf, err := m.fh.Map(p, size, m.mode)
	if err != nil {
		return -1, errs.Wrap("mapper.MapAt", p, errs.ErrIoMap, err)
	}

	if p >= fcPosition {
		_ = mmap.AdviseSequential(buf)
	} else {
		_ = mmap.AdviseRandom(buf)
	}

	r := region.New(p, buf)
	slot, err := table.Insert(r, fcPosition)
	if err != nil {
		_ = m.fh.Unmap(buf)
		return -1, err
	}
	return slot, nil
}
