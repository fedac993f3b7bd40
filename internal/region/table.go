package region

import "vmap/internal/errs"

// Table is the fixed-capacity, strictly start-ordered sequence of live
// regions. It never allocates once constructed: Insert/Delete shift slots
// in place within a capacity-sized backing array.
type Table struct {
	regions  []*Region
	capacity int
	used     int
	active   int
}

// NewTable allocates a table that can hold up to capacity live regions.
func NewTable(capacity int) *Table {
	return &Table{regions: make([]*Region, capacity), capacity: capacity}
}

func (t *Table) Capacity() int { return t.capacity }
func (t *Table) Used() int     { return t.used }
func (t *Table) Active() int   { return t.active }

// At returns the region occupying slot i (0 <= i < Used()).
func (t *Table) At(i int) *Region { return t.regions[i] }

// SetActive marks slot i as the most recently touched region.
func (t *Table) SetActive(i int) { t.active = i }

// FindCovering returns the slot whose region encompasses p, scanning
// forward from active if p is ahead of fcPosition, backward if behind.
// If p equals fcPosition, active is returned only when it encompasses p;
// otherwise the result is not found.
func (t *Table) FindCovering(p, fcPosition int64) (int, bool) {
	if t.used == 0 {
		return -1, false
	}
	switch {
	case p > fcPosition:
		for i := t.active; i < t.used; i++ {
			if t.regions[i].Encompasses(p) {
				return i, true
			}
		}
	case p < fcPosition:
		for i := t.active; i >= 0; i-- {
			if t.regions[i].Encompasses(p) {
				return i, true
			}
		}
	default:
		// p == fcPosition: active is the obvious candidate, but only a
		// genuine hit if it still encompasses p — a transfer that just
		// exhausted the active region's last byte leaves p sitting one
		// past its end, which must fall through to a fresh mapping.
		if t.regions[t.active].Encompasses(p) {
			return t.active, true
		}
		return -1, false
	}
	return -1, false
}

// ClosestBefore returns the highest-indexed slot whose region lies
// strictly before p.
func (t *Table) ClosestBefore(p, fcPosition int64) (int, bool) {
	if t.used == 0 {
		return -1, false
	}
	candidate := -1
	if p > fcPosition {
		for i := t.active; i < t.used; i++ {
			if t.regions[i].IsBefore(p) {
				candidate = i
			} else {
				break
			}
		}
	} else {
		for i := t.active; i >= 0; i-- {
			if t.regions[i].IsBefore(p) {
				candidate = i
				break
			}
		}
	}
	return candidate, candidate != -1
}

// ClosestAfter returns the lowest-indexed slot whose region lies strictly
// after p.
func (t *Table) ClosestAfter(p, fcPosition int64) (int, bool) {
	if t.used == 0 {
		return -1, false
	}
	candidate := -1
	if p >= fcPosition {
		for i := t.active; i < t.used; i++ {
			if t.regions[i].IsAfter(p) {
				candidate = i
				break
			}
		}
	} else {
		for i := t.active; i >= 0; i-- {
			if t.regions[i].IsAfter(p) {
				candidate = i
			} else {
				break
			}
		}
	}
	return candidate, candidate != -1
}

// Insert places r into the table at the position dictated by its start
// offset, shifting later slots right by one as needed. fcPosition is the
// committed cursor position used to pick the scan direction, exactly as in
// FindCovering/ClosestBefore/ClosestAfter.
func (t *Table) Insert(r *Region, fcPosition int64) (int, error) {
	if t.used == t.capacity {
		return -1, errs.New("region.Insert", r.Start(), errs.ErrInvariantViolation)
	}

	before, hasBefore := t.ClosestBefore(r.Start(), fcPosition)
	after, hasAfter := t.ClosestAfter(r.Start(), fcPosition)

	if !hasBefore && !hasAfter && t.used > 0 {
		// Neither neighbor exists only when a region already sits exactly at
		// r.Start() without lying strictly before or after it, which is only
		// possible for a zero-capacity region (IsBefore and IsAfter both
		// false at their own start). That happens once: the eagerly-mapped
		// placeholder installed over an empty file. A real write at that
		// same offset displaces it rather than sharing its slot.
		for i := 0; i < t.used; i++ {
			if t.regions[i].Start() == r.Start() && t.regions[i].Capacity() == 0 {
				if err := t.Delete(i); err != nil {
					return -1, err
				}
				break
			}
		}
		before, hasBefore = t.ClosestBefore(r.Start(), fcPosition)
		after, hasAfter = t.ClosestAfter(r.Start(), fcPosition)
	}

	var slot int
	switch {
	case hasBefore && hasAfter:
		if after-before != 1 {
			return -1, errs.New("region.Insert", r.Start(), errs.ErrInvariantViolation)
		}
		slot = after
	case hasBefore:
		slot = before + 1
	case hasAfter:
		slot = after
	default:
		slot = 0
	}

	for i := t.used; i > slot; i-- {
		t.regions[i] = t.regions[i-1]
	}
	t.regions[slot] = r
	t.used++
	return slot, nil
}

// Delete removes the region at slot e, shifting later slots left by one.
func (t *Table) Delete(e int) error {
	if e < 0 || e >= t.used {
		return errs.New("region.Delete", int64(e), errs.ErrInvariantViolation)
	}
	if t.active == e {
		if e == 0 {
			t.active = 0
		} else {
			t.active = e - 1
		}
	}
	for i := e; i < t.used-1; i++ {
		t.regions[i] = t.regions[i+1]
	}
	t.regions[t.used-1] = nil
	t.used--
	return nil
}
