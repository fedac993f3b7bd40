// Package vmap presents a bounded set of memory mappings over a file as
// one contiguous, randomly-addressable byte buffer.
package vmap

import (
	"vmap/internal/engine"
	"vmap/internal/errs"
	"vmap/internal/filehandle"
)

// 对外暴露的 sentinel errors，便于调用方 errors.Is。
var (
	ErrInvalidArgument    = errs.ErrInvalidArgument
	ErrUnderflow          = errs.ErrUnderflow
	ErrIoSize             = errs.ErrIoSize
	ErrIoMap              = errs.ErrIoMap
	ErrIoFlushOrUnmap     = errs.ErrIoFlushOrUnmap
	ErrRegionOverflow     = errs.ErrRegionOverflow
	ErrInvariantViolation = errs.ErrInvariantViolation
	ErrClosed             = errs.ErrClosed
)

// AccessMode fixes whether a Buffer's mappings permit writes.
type AccessMode = filehandle.AccessMode

const (
	ReadOnly  = filehandle.ReadOnly
	ReadWrite = filehandle.ReadWrite
)

const (
	defaultMinRegionSize   = 64 << 20
	defaultMaxRegionSize   = 512 << 20
	defaultMaxRegions      = 16
	defaultInitialPosition = 0
)

type config struct {
	mode            AccessMode
	minRegionSize   int64
	maxRegionSize   int64
	maxRegions      int
	initialPosition int64
}

func defaultConfig() config {
	return config{
		mode:            ReadOnly,
		minRegionSize:   defaultMinRegionSize,
		maxRegionSize:   defaultMaxRegionSize,
		maxRegions:      defaultMaxRegions,
		initialPosition: defaultInitialPosition,
	}
}

// Option configures a Buffer at construction time.
type Option func(*config)

// WithMode sets whether mappings are read-only or read-write. Default
// ReadOnly.
func WithMode(mode AccessMode) Option {
	return func(c *config) { c.mode = mode }
}

// WithMinRegionSize sets the floor on freshly mapped region size.
// Default 64 MiB.
func WithMinRegionSize(n int64) Option {
	return func(c *config) { c.minRegionSize = n }
}

// WithMaxRegionSize sets the ceiling on freshly mapped region size.
// Default 512 MiB.
func WithMaxRegionSize(n int64) Option {
	return func(c *config) { c.maxRegionSize = n }
}

// WithMaxRegions sets how many live mappings the buffer may hold before
// the evictor starts reclaiming slots. Default 16.
func WithMaxRegions(n int) Option {
	return func(c *config) { c.maxRegions = n }
}

// WithInitialPosition sets the cursor position the buffer opens at.
// Default 0.
func WithInitialPosition(p int64) Option {
	return func(c *config) { c.initialPosition = p }
}

// Buffer is a bounded set of OS mappings over a filehandle.Handle,
// addressed as a single contiguous byte sequence.
type Buffer struct {
	e *engine.Engine
}

// Open maps fh through a Buffer using the given options, or the
// defaults (read-only, 64 MiB/512 MiB region bounds, 16 regions,
// position 0) for anything left unset.
func Open(fh filehandle.Handle, opts ...Option) (*Buffer, error) {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	e, err := engine.Open(fh, engine.Config{
		Mode:            c.mode,
		MinRegionSize:   c.minRegionSize,
		MaxRegionSize:   c.maxRegionSize,
		MaxRegions:      c.maxRegions,
		InitialPosition: c.initialPosition,
	})
	if err != nil {
		return nil, err
	}
	return &Buffer{e: e}, nil
}

// Position returns the offset the next Get/Put will start from.
func (b *Buffer) Position() int64 { return b.e.Position() }

// SetPosition moves the cursor without touching any mapping.
func (b *Buffer) SetPosition(p int64) error { return b.e.SetPosition(p) }

// Get fills dst entirely from the current position, advancing the
// cursor by len(dst).
func (b *Buffer) Get(dst []byte) error { return b.e.Get(dst) }

// GetRange fills dst[offset:offset+length] from the current position,
// advancing the cursor by length.
func (b *Buffer) GetRange(dst []byte, offset, length int) error {
	return b.e.GetRange(dst, offset, length)
}

// Put writes all of src at the current position, advancing the cursor
// by len(src). The buffer must have been opened with ReadWrite.
func (b *Buffer) Put(src []byte) error { return b.e.Put(src) }

// PutRange writes src[offset:offset+length] at the current position,
// advancing the cursor by length.
func (b *Buffer) PutRange(src []byte, offset, length int) error {
	return b.e.PutRange(src, offset, length)
}

// PutByte writes a single byte into the region the last transfer
// touched, at the position that transfer left off, without advancing
// the cursor. A position set by SetPosition since then is not used.
// See engine.Engine.PutByte.
func (b *Buffer) PutByte(v byte) error { return b.e.PutByte(v) }

// Close flushes and unmaps every live region.
func (b *Buffer) Close() error {
	if b == nil || b.e == nil {
		return nil
	}
	return b.e.Close()
}

// Builder assembles a Buffer through chained calls instead of Options,
// mirroring the fluent construction style callers may already know
// from other mapped-buffer APIs.
type Builder struct {
	fh  filehandle.Handle
	cfg config
}

// NewBuilder starts a fluent construction chain over fh.
func NewBuilder(fh filehandle.Handle) *Builder {
	return &Builder{fh: fh, cfg: defaultConfig()}
}

func (bld *Builder) Mode(mode AccessMode) *Builder {
	bld.cfg.mode = mode
	return bld
}

func (bld *Builder) MinRegionSize(n int64) *Builder {
	bld.cfg.minRegionSize = n
	return bld
}

func (bld *Builder) MaxRegionSize(n int64) *Builder {
	bld.cfg.maxRegionSize = n
	return bld
}

func (bld *Builder) MaxRegions(n int) *Builder {
	bld.cfg.maxRegions = n
	return bld
}

func (bld *Builder) InitialPosition(p int64) *Builder {
	bld.cfg.initialPosition = p
	return bld
}

// Build maps the file and returns the assembled Buffer.
func (bld *Builder) Build() (*Buffer, error) {
	return Open(bld.fh,
		WithMode(bld.cfg.mode),
		WithMinRegionSize(bld.cfg.minRegionSize),
		WithMaxRegionSize(bld.cfg.maxRegionSize),
		WithMaxRegions(bld.cfg.maxRegions),
		WithInitialPosition(bld.cfg.initialPosition),
	)
}
