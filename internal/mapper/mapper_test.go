package mapper

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"vmap/internal/errs"
	"vmap/internal/filehandle"
	"vmap/internal/region"
)

func openTestFile(t *testing.T, size int64) *filehandle.OSFile {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data")
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if size > 0 {
		if err := f.Truncate(size); err != nil {
			t.Fatalf("truncate: %v", err)
		}
	}
	t.Cleanup(func() { f.Close() })
	return filehandle.New(f)
}

func TestMapAtInstallsRegion(t *testing.T) {
	fh := openTestFile(t, 1<<16)
	m := New(fh, filehandle.ReadWrite, 4096, 8192)
	tb := region.NewTable(4)

	slot, err := m.MapAt(tb, 0, 0)
	if err != nil {
		t.Fatalf("MapAt: %v", err)
	}
	if slot != 0 || tb.Used() != 1 {
		t.Fatalf("slot=%d used=%d, want 0/1", slot, tb.Used())
	}
	if tb.At(0).Capacity() != 8192 {
		t.Errorf("capacity=%d, want clamped to max 8192", tb.At(0).Capacity())
	}
}

func TestMapAtClampsToNeighbor(t *testing.T) {
	fh := openTestFile(t, 1<<20)
	m := New(fh, filehandle.ReadWrite, 4096, 1<<16)
	tb := region.NewTable(4)

	tb.Insert(region.New(20000, make([]byte, 4)), 0)
	tb.SetActive(0)

	slot, err := m.MapAt(tb, 0, 0)
	if err != nil {
		t.Fatalf("MapAt: %v", err)
	}
	got := tb.At(slot).Capacity()
	if got != 20000 {
		t.Errorf("capacity=%d, want 20000 (clamped by neighbor at 20000)", got)
	}
}

func TestMapAtEvictsWhenFull(t *testing.T) {
	fh := openTestFile(t, 1<<20)
	m := New(fh, filehandle.ReadWrite, 16, 16)
	tb := region.NewTable(1)

	if _, err := m.MapAt(tb, 0, 0); err != nil {
		t.Fatalf("first MapAt: %v", err)
	}
	tb.SetActive(0)
	if _, err := m.MapAt(tb, 100, 0); err != nil {
		t.Fatalf("second MapAt should evict and succeed: %v", err)
	}
	if tb.Used() != 1 {
		t.Fatalf("used=%d, want 1 after eviction made room", tb.Used())
	}
	if tb.At(0).Start() != 100 {
		t.Errorf("Start=%d, want 100 (old region evicted)", tb.At(0).Start())
	}
}

func TestMapAtSurfacesMapFailure(t *testing.T) {
	fake := filehandle.NewFake(make([]byte, 1<<16))
	fake.MapErr = errors.New("mmap: cannot allocate memory")
	m := New(fake, filehandle.ReadWrite, 4096, 8192)
	tb := region.NewTable(4)

	_, err := m.MapAt(tb, 0, 0)
	if err == nil {
		t.Fatal("expected an error when the underlying Map call fails")
	}
	if !errors.Is(err, errs.ErrIoMap) {
		t.Errorf("error = %v, want it to wrap ErrIoMap", err)
	}
	if tb.Used() != 0 {
		t.Errorf("used=%d, want 0: a failed map must not install a region", tb.Used())
	}
}
