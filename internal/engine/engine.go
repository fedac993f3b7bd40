// Package engine drives the region table and mapper behind a single
// logical cursor, presenting a bounded set of OS mappings as one
// contiguous, randomly-addressable byte sequence over a file handle.
package engine

import (
	"errors"
	"strings"

	"vmap/internal/errs"
	"vmap/internal/filehandle"
	"vmap/internal/mapper"
	"vmap/internal/mmap"
	"vmap/internal/region"
)

// Engine is the assembled region cache: a table of live mappings, the
// mapper that installs new ones, and the cursor pair that drives
// transfers across region boundaries.
//
// fcPosition is where the last transfer actually landed. nextFcPosition
// is where the next transfer should start; SetPosition only ever moves
// nextFcPosition. A transfer first locates (or maps) the region covering
// nextFcPosition, using the old fcPosition to pick the scan direction,
// and then commits fcPosition to nextFcPosition, which is what lets a
// caller seek and then read/write without an intervening no-op sync.
type Engine struct {
	fh     filehandle.Handle
	mode   filehandle.AccessMode
	mapper *mapper.Mapper
	table  *region.Table

	fcPosition     int64
	nextFcPosition int64

	closed bool
}

// Config carries the validated construction parameters for Open.
type Config struct {
	Mode            filehandle.AccessMode
	MinRegionSize   int64
	MaxRegionSize   int64
	MaxRegions      int
	InitialPosition int64
}

// Open queries fh's current size, eagerly maps the region covering
// InitialPosition (or a zero-capacity placeholder if the file is empty
// there), and returns a ready-to-use Engine.
func Open(fh filehandle.Handle, cfg Config) (*Engine, error) {
	if cfg.MaxRegions <= 0 {
		return nil, errs.New("engine.Open", cfg.InitialPosition, errs.ErrInvalidArgument)
	}
	if cfg.InitialPosition < 0 {
		return nil, errs.New("engine.Open", cfg.InitialPosition, errs.ErrInvalidArgument)
	}
	if cfg.MinRegionSize <= 0 || cfg.MaxRegionSize < cfg.MinRegionSize {
		return nil, errs.New("engine.Open", cfg.InitialPosition, errs.ErrInvalidArgument)
	}

	size, err := fh.Size()
	if err != nil {
		return nil, errs.Wrap("engine.Open", cfg.InitialPosition, errs.ErrIoSize, err)
	}

	e := &Engine{
		fh:     fh,
		mode:   cfg.Mode,
		mapper: mapper.New(fh, cfg.Mode, cfg.MinRegionSize, cfg.MaxRegionSize),
		table:  region.NewTable(cfg.MaxRegions),
	}

	available := size - cfg.InitialPosition
	if available < 0 {
		available = 0
	}
	var buf []byte
	if available > 0 {
		regionSize := region.Clamp(size, cfg.MinRegionSize, cfg.MaxRegionSize)
		var err error
		buf, err = fh.Map(cfg.InitialPosition, regionSize, cfg.Mode)
		if err != nil {
			return nil, errs.Wrap("engine.Open", cfg.InitialPosition, errs.ErrIoMap, err)
		}
	}
	// available == 0 leaves buf nil: a zero-capacity placeholder so the
	// table is never empty without an OS mapping backing it. The first
	// real transfer through this offset displaces it (see
	// region.Table.Insert).
	r := region.New(cfg.InitialPosition, buf)
	if _, err := e.table.Insert(r, cfg.InitialPosition); err != nil {
		_ = fh.Unmap(buf)
		return nil, err
	}
	e.table.SetActive(0)
	e.fcPosition = cfg.InitialPosition
	e.nextFcPosition = cfg.InitialPosition

	return e, nil
}

// Position returns the position the next transfer will start from. It
// is not necessarily where the last transfer landed if SetPosition has
// been called since.
func (e *Engine) Position() int64 { return e.nextFcPosition }

// SetPosition moves the pending cursor. It never touches a mapping and
// rejects only negative positions; a position past the end of the file
// is accepted and checked the first time a Get actually uses it.
func (e *Engine) SetPosition(p int64) error {
	if e.closed {
		return errs.ErrClosed
	}
	if p < 0 {
		return errs.New("engine.SetPosition", p, errs.ErrInvalidArgument)
	}
	e.nextFcPosition = p
	return nil
}

func checkBounds(offset, length, bufLen int) error {
	end := offset + length
	if (offset|length|end|(bufLen-end)) < 0 {
		return errs.New("engine.checkBounds", int64(offset), errs.ErrInvalidArgument)
	}
	return nil
}

// GetRange copies length bytes starting at the current position into
// dst[offset:offset+length], advancing the cursor by length.
func (e *Engine) GetRange(dst []byte, offset, length int) error {
	if e.closed {
		return errs.ErrClosed
	}
	if err := checkBounds(offset, length, len(dst)); err != nil {
		return err
	}

	fileLen, err := e.fh.Size()
	if err != nil {
		return errs.Wrap("engine.Get", e.nextFcPosition, errs.ErrIoSize, err)
	}
	if int64(length) > fileLen-e.nextFcPosition {
		return errs.New("engine.Get", e.nextFcPosition, errs.ErrUnderflow)
	}
	if length == 0 {
		return nil
	}

	return e.transfer(dst, offset, length, true)
}

// Get is GetRange over the whole of dst.
func (e *Engine) Get(dst []byte) error { return e.GetRange(dst, 0, len(dst)) }

// PutRange copies length bytes from src[offset:offset+length] to the
// current position, advancing the cursor by length. Unlike Get, no
// underflow check applies: writing past the current end of file grows
// it, backed by filehandle.Handle's truncate-on-map behavior.
func (e *Engine) PutRange(src []byte, offset, length int) error {
	if e.closed {
		return errs.ErrClosed
	}
	if e.mode != filehandle.ReadWrite {
		return errs.New("engine.Put", e.nextFcPosition, errs.ErrInvalidArgument)
	}
	if err := checkBounds(offset, length, len(src)); err != nil {
		return err
	}
	if length == 0 {
		return nil
	}
	return e.transfer(src, offset, length, false)
}

// Put is PutRange over the whole of src.
func (e *Engine) Put(src []byte) error { return e.PutRange(src, 0, len(src)) }

// PutByte writes b at the active region's current interior position
// without advancing the cursor and without consulting the region
// table's covering search. This mirrors a narrow escape hatch some
// callers rely on to poke a single byte into the region they're already
// sitting in; use Put for the normal advancing write.
func (e *Engine) PutByte(b byte) error {
	if e.closed {
		return errs.ErrClosed
	}
	if e.mode != filehandle.ReadWrite {
		return errs.New("engine.PutByte", e.fcPosition, errs.ErrInvalidArgument)
	}
	r := e.table.At(e.table.Active())
	off := e.fcPosition - r.Start()
	if off < 0 || off >= int64(r.Capacity()) {
		return errs.New("engine.PutByte", e.fcPosition, errs.ErrRegionOverflow)
	}
	r.Buffer()[off] = b
	r.IncrementUseCount()
	return nil
}

// transfer moves length bytes between buf[offset:] and the region
// currently covering nextFcPosition, recursing across region boundaries
// until the whole request is satisfied. Each iteration:
//  1. locates (or maps) the region covering nextFcPosition;
//  2. commits fcPosition to nextFcPosition and marks that region active;
//  3. copies as many bytes as fit in the remainder of that region;
//  4. advances both cursor fields by the bytes copied;
//  5. recurses on whatever is left.
//
// Every iteration copies at least one byte, since a region is only ever
// selected or installed when it actually encompasses the target
// position, so the loop always terminates.
func (e *Engine) transfer(buf []byte, offset, length int, isGet bool) error {
	if length == 0 {
		return nil
	}

	backward := e.nextFcPosition < e.fcPosition

	slot, ok := e.table.FindCovering(e.nextFcPosition, e.fcPosition)
	if !ok {
		var err error
		slot, err = e.mapper.MapAt(e.table, e.nextFcPosition, e.fcPosition)
		if err != nil {
			return err
		}
	} else if backward {
		// Reusing an already-resident region out of order is exactly the
		// out-of-order access the sequential hint given at install time no
		// longer describes; re-advise random on every such reuse.
		_ = mmap.AdviseRandom(e.table.At(slot).Buffer())
	}

	e.fcPosition = e.nextFcPosition
	e.table.SetActive(slot)
	r := e.table.At(slot)

	regionOffset := e.fcPosition - r.Start()
	if regionOffset < 0 || regionOffset >= int64(r.Capacity()) {
		return errs.New("engine.transfer", e.fcPosition, errs.ErrRegionOverflow)
	}

	remaining := r.Capacity() - int(regionOffset)
	n := length
	if remaining < n {
		n = remaining
	}

	if isGet {
		copy(buf[offset:offset+n], r.Buffer()[regionOffset:int(regionOffset)+n])
	} else {
		copy(r.Buffer()[regionOffset:int(regionOffset)+n], buf[offset:offset+n])
	}
	r.IncrementUseCount()

	e.fcPosition += int64(n)
	e.nextFcPosition += int64(n)

	if left := length - n; left > 0 {
		return e.transfer(buf, offset+n, left, isGet)
	}
	return nil
}

// Close flushes and unmaps every live region, draining from the
// highest-indexed slot down to zero, and reports a single aggregate
// error if any step along the way failed. It is safe to call more than
// once; only the first call does any work.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	var failures []string
	for i := e.table.Used() - 1; i >= 0; i-- {
		r := e.table.At(i)
		if err := e.fh.Sync(r.Buffer()); err != nil {
			failures = append(failures, err.Error())
		}
		if err := e.fh.Unmap(r.Buffer()); err != nil {
			failures = append(failures, err.Error())
		}
	}
	if len(failures) > 0 {
		return errs.Wrap("engine.Close", e.fcPosition, errs.ErrIoFlushOrUnmap, errors.New(strings.Join(failures, "; ")))
	}
	return nil
}
