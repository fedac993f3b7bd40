package vmap

import "vmap/internal/fixed"

// PutFixed serializes a pointer-free struct's raw bytes into b at
// offset, advancing the cursor by sizeof(T).
func PutFixed[T any](b *Buffer, offset int64, v *T) error {
	return fixed.Put(b, offset, v)
}

// GetFixed reads sizeof(T) bytes from b at offset into a freshly
// allocated *T, advancing the cursor by sizeof(T).
func GetFixed[T any](b *Buffer, offset int64) (*T, error) {
	return fixed.Get[T](b, offset)
}
