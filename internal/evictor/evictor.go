// Package evictor implements least-frequently-used slot reclamation for a
// full region table.
package evictor

import (
	"vmap/internal/errs"
	"vmap/internal/filehandle"
	"vmap/internal/region"
)

// Evict picks the least-frequently-used slot in table, flushes and unmaps
// its region through fh, and removes it. On a total tie among use counts
// the highest-indexed slot is chosen, which needs no left-shift when the
// table was full and access has been strictly sequential.
func Evict(table *region.Table, fh filehandle.Handle) error {
	used := table.Used()
	if used == 0 {
		return errs.New("evictor.Evict", 0, errs.ErrInvariantViolation)
	}

	victim := used - 1
	victimCount := table.At(victim).UseCount()
	for i := used - 2; i >= 0; i-- {
		if c := table.At(i).UseCount(); c < victimCount {
			victim = i
			victimCount = c
		}
	}

	r := table.At(victim)
	if err := fh.Sync(r.Buffer()); err != nil {
		return errs.Wrap("evictor.Evict", r.Start(), errs.ErrIoFlushOrUnmap, err)
	}
	if err := fh.Unmap(r.Buffer()); err != nil {
		return errs.Wrap("evictor.Evict", r.Start(), errs.ErrIoFlushOrUnmap, err)
	}
	return table.Delete(victim)
}
