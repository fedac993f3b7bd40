//go:build windows

package mmap

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// Map 将 fd 的 [offset, offset+size) 映射进地址空间；writable 为 false 时映射只读。
//
// offset 必须按系统分配粒度对齐（通常 64KB），调用方（Mapper）负责保证这一点；
// 该约束与 Unix 的页对齐要求类似，未做自动纠正。
func Map(fd uintptr, offset int64, size int, writable bool) ([]byte, error) {
	if size == 0 {
		return nil, nil
	}
	prot := uint32(windows.PAGE_READONLY)
	access := uint32(windows.FILE_MAP_READ)
	if writable {
		prot = windows.PAGE_READWRITE
		access = windows.FILE_MAP_WRITE
	}

	// CreateFileMapping 的 maxSize 需要涵盖 offset+size。
	end := uint64(offset) + uint64(size)
	h, err := windows.CreateFileMapping(windows.Handle(fd), nil, prot, uint32(end>>32), uint32(end), nil)
	if err != nil {
		return nil, err
	}
	defer windows.CloseHandle(h)

	loOffset := uint32(uint64(offset) & 0xFFFFFFFF)
	hiOffset := uint32(uint64(offset) >> 32)
	addr, err := windows.MapViewOfFile(h, access, hiOffset, loOffset, uintptr(size))
	if err != nil {
		return nil, err
	}

	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size), nil
}

// Sync 将映射区同步刷回磁盘。
func Sync(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	addr := uintptr(unsafe.Pointer(&data[0]))
	return windows.FlushViewOfFile(addr, uintptr(len(data)))
}

// Unmap 解除映射。
func Unmap(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	addr := uintptr(unsafe.Pointer(&data[0]))
	return windows.UnmapViewOfFile(addr)
}

// AdviseSequential 在 Windows 上没有 madvise 等价物，是空操作。
func AdviseSequential(data []byte) error { return nil }

// AdviseRandom 在 Windows 上没有 madvise 等价物，是空操作。
func AdviseRandom(data []byte) error { return nil }
