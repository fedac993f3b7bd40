package vmap

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"vmap/internal/filehandle"
)

func openFile(t *testing.T, initial []byte) *filehandle.OSFile {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data")
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(initial) > 0 {
		if _, err := f.Write(initial); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	t.Cleanup(func() { f.Close() })
	return filehandle.New(f)
}

func TestOpenAndRoundTrip(t *testing.T) {
	buf, err := Open(openFile(t, nil),
		WithMode(ReadWrite),
		WithMinRegionSize(4096),
		WithMaxRegionSize(4096),
		WithMaxRegions(4),
	)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer buf.Close()

	payload := []byte("the quick brown fox jumps over the lazy dog")
	if err := buf.Put(payload); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := buf.SetPosition(0); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	got := make([]byte, len(payload))
	if err := buf.Get(got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("round trip = %q, want %q", got, payload)
	}
}

func TestBuilder(t *testing.T) {
	buf, err := NewBuilder(openFile(t, []byte("hello, world"))).
		Mode(ReadOnly).
		MinRegionSize(8).
		MaxRegionSize(8).
		MaxRegions(4).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer buf.Close()

	dst := make([]byte, 5)
	if err := buf.Get(dst); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(dst) != "hello" {
		t.Errorf("Get = %q, want %q", dst, "hello")
	}
	if err := buf.Put([]byte("x")); err == nil {
		t.Error("expected Put on a read-only Buffer to fail")
	}
}

type fixedRecord struct {
	ID    uint64
	Score int32
	Name  [8]byte
}

func TestFixedRoundTrip(t *testing.T) {
	buf, err := Open(openFile(t, nil), WithMode(ReadWrite), WithMinRegionSize(4096), WithMaxRegionSize(4096))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer buf.Close()

	in := &fixedRecord{ID: 7, Score: -3}
	copy(in.Name[:], "alice")
	if err := PutFixed(buf, 100, in); err != nil {
		t.Fatalf("PutFixed: %v", err)
	}

	out, err := GetFixed[fixedRecord](buf, 100)
	if err != nil {
		t.Fatalf("GetFixed: %v", err)
	}
	if out.ID != in.ID || out.Score != in.Score || string(out.Name[:]) != string(in.Name[:]) {
		t.Errorf("GetFixed = %+v, want %+v", out, in)
	}
}

func TestFixedRejectsPointerLikeTypes(t *testing.T) {
	buf, err := Open(openFile(t, nil), WithMode(ReadWrite), WithMinRegionSize(4096), WithMaxRegionSize(4096))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer buf.Close()

	type withSlice struct {
		Data []byte
	}
	if err := PutFixed(buf, 0, &withSlice{Data: []byte("no")}); err == nil {
		t.Error("expected PutFixed to reject a struct containing a slice")
	}
}
