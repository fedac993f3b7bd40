// Package fixed serializes pointer-free fixed-size values directly into
// a byte cursor's Get/Put pair via unsafe byte views, skipping an
// encoding step for callers who just want a struct's bit pattern on
// disk.
package fixed

import (
	"fmt"
	"reflect"
	"unsafe"
)

// Cursor is the subset of Buffer's surface fixed-record access needs.
type Cursor interface {
	SetPosition(p int64) error
	Put(src []byte) error
	Get(dst []byte) error
}

func assertNoPointers[T any]() error {
	var zero T
	return typeNoPointers(reflect.TypeOf(zero))
}

func typeNoPointers(t reflect.Type) error {
	switch t.Kind() {
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return nil
	case reflect.Array:
		return typeNoPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if err := typeNoPointers(t.Field(i).Type); err != nil {
				return fmt.Errorf("field %s: %w", t.Field(i).Name, err)
			}
		}
		return nil
	case reflect.String, reflect.Slice, reflect.Map, reflect.Pointer,
		reflect.Interface, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return fmt.Errorf("type %s contains pointer-like data", t.String())
	default:
		return fmt.Errorf("unsupported kind %s (%s)", t.Kind(), t.String())
	}
}

func bytesViewOf[T any](p *T) []byte {
	n := int(unsafe.Sizeof(*p))
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), n)
}

// Put validates that T holds no pointer-like data, then writes v's raw
// bytes at offset.
func Put[T any](c Cursor, offset int64, v *T) error {
	if err := assertNoPointers[T](); err != nil {
		return err
	}
	if err := c.SetPosition(offset); err != nil {
		return err
	}
	return c.Put(bytesViewOf(v))
}

// Get validates that T holds no pointer-like data, then reads
// sizeof(T) bytes from offset into a freshly allocated *T.
func Get[T any](c Cursor, offset int64) (*T, error) {
	if err := assertNoPointers[T](); err != nil {
		return nil, err
	}
	if err := c.SetPosition(offset); err != nil {
		return nil, err
	}
	out := new(T)
	if err := c.Get(bytesViewOf(out)); err != nil {
		return nil, err
	}
	return out, nil
}
