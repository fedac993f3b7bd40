// Package vmap presents a host file as one contiguous, randomly
// addressable byte buffer while holding only a bounded number of OS
// memory mappings open at a time.
//
// A Buffer never maps the whole file at once. It keeps a small,
// capacity-limited table of live regions, each an independent mmap
// over a slice of the file, and slides that window under a single
// logical cursor as callers Get and Put across it. When a Get or Put
// needs a position no live region covers, the mapper installs a new
// one, evicting the least-frequently-used region first if the table is
// already full.
//
// Open (or NewBuilder) accepts a filehandle.Handle, the pluggable
// abstraction over the file being mapped, so callers can substitute
// their own backing store in tests without touching a real file.
package vmap
