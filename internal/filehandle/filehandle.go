// Package filehandle defines the borrowed-file abstraction the mapping
// engine maps regions from, and an *os.File-backed implementation of it.
package filehandle

import (
	"os"

	"vmap/internal/mmap"
)

// AccessMode fixes whether a Handle's mappings permit writes.
type AccessMode int

const (
	ReadOnly AccessMode = iota
	ReadWrite
)

// Handle is an opaque, externally-owned source of memory mappings over a
// randomly-addressable byte sequence. The engine borrows it for its
// lifetime and never closes it.
type Handle interface {
	// Size reports the current length of the underlying sequence.
	Size() (int64, error)
	// Map returns an OS mapping of [offset, offset+length) in mode.
	Map(offset, length int64, mode AccessMode) ([]byte, error)
	// Sync flushes a mapping returned by Map back to the underlying
	// sequence.
	Sync(mapped []byte) error
	// Unmap releases a mapping returned by Map.
	Unmap(mapped []byte) error
}

// OSFile adapts an *os.File into a Handle using the platform mmap
// primitives. In ReadWrite mode, Map first truncates the file up so the
// requested span is backed by real file blocks, since mmap itself cannot
// grow a file.
type OSFile struct {
	f *os.File
}

// New wraps an already-open file. The caller retains ownership: OSFile
// never closes f.
func New(f *os.File) *OSFile {
	return &OSFile{f: f}
}

func (o *OSFile) Size() (int64, error) {
	fi, err := o.f.Stat()
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

func (o *OSFile) Map(offset, length int64, mode AccessMode) ([]byte, error) {
	writable := mode == ReadWrite
	if writable {
		size, err := o.Size()
		if err != nil {
			return nil, err
		}
		if end := offset + length; end > size {
			if err := o.f.Truncate(end); err != nil {
				return nil, err
			}
		}
	}
	return mmap.Map(o.f.Fd(), offset, int(length), writable)
}

func (o *OSFile) Sync(mapped []byte) error { return mmap.Sync(mapped) }

func (o *OSFile) Unmap(mapped []byte) error { return mmap.Unmap(mapped) }
