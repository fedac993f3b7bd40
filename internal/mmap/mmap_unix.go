//go:build unix

package mmap

import (
	"golang.org/x/sys/unix"
)

// Map 将 fd 的 [offset, offset+size) 映射进地址空间；writable 为 false 时映射只读。
func Map(fd uintptr, offset int64, size int, writable bool) ([]byte, error) {
	prot := unix.PROT_READ
	if writable {
		prot |= unix.PROT_WRITE
	}
	return unix.Mmap(int(fd), offset, size, prot, unix.MAP_SHARED)
}

// Sync 将映射区同步刷回磁盘。
func Sync(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	return unix.Msync(data, unix.MS_SYNC)
}

// Unmap 解除映射。
func Unmap(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	return unix.Munmap(data)
}

// AdviseSequential 提示内核该映射区将被顺序访问。
func AdviseSequential(data []byte) error {
	return advise(data, unix.MADV_SEQUENTIAL)
}

// AdviseRandom 提示内核该映射区将被随机访问。
func AdviseRandom(data []byte) error {
	return advise(data, unix.MADV_RANDOM)
}

func advise(data []byte, adviceFlag int) error {
	if len(data) == 0 {
		return nil
	}
	err := unix.Madvise(data, adviceFlag)
	if err == unix.EINVAL {
		// 常见于映射区未按页对齐，提示本就是尽力而为，忽略之。
		return nil
	}
	return err
}
