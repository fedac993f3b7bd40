package filehandle

// Fake is an in-memory Handle for tests that need to inject failures at
// the Map/Sync/Unmap seam without a real file or the OS mmap syscalls.
// Map hands out slices of a growable backing array instead of an actual
// mapping; LiveMaps tracks how many of those slices are currently
// outstanding, so tests can assert nothing was left mapped after Close.
type Fake struct {
	data []byte

	MapErr   error
	SyncErr  error
	UnmapErr error

	liveMaps int
}

// NewFake wraps initial as the starting contents of the fake file.
func NewFake(initial []byte) *Fake {
	return &Fake{data: append([]byte(nil), initial...)}
}

func (f *Fake) Size() (int64, error) { return int64(len(f.data)), nil }

// LiveMaps reports how many mappings handed out by Map have not yet
// been released through Unmap.
func (f *Fake) LiveMaps() int { return f.liveMaps }

func (f *Fake) Map(offset, length int64, mode AccessMode) ([]byte, error) {
	if f.MapErr != nil {
		return nil, f.MapErr
	}
	end := offset + length
	if end > int64(len(f.data)) {
		grown := make([]byte, end)
		copy(grown, f.data)
		f.data = grown
	}
	f.liveMaps++
	return f.data[offset:end:end], nil
}

func (f *Fake) Sync(mapped []byte) error {
	return f.SyncErr
}

func (f *Fake) Unmap(mapped []byte) error {
	if f.UnmapErr != nil {
		return f.UnmapErr
	}
	if len(mapped) > 0 {
		f.liveMaps--
	}
	return nil
}
