// Package mmap wraps the platform mmap/msync/munmap/madvise primitives used
// by the region cache. Unix and Windows builds present the same signatures;
// callers never branch on GOOS themselves.
package mmap
