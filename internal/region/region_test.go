package region

import "testing"

func TestNewNonEmpty(t *testing.T) {
	r := New(100, make([]byte, 16))
	if r.Start() != 100 || r.End() != 115 {
		t.Errorf("Start=%d End=%d, want 100/115", r.Start(), r.End())
	}
	if r.Capacity() != 16 {
		t.Errorf("Capacity=%d, want 16", r.Capacity())
	}
}

func TestNewEmpty(t *testing.T) {
	r := New(50, nil)
	if r.Start() != 50 || r.End() != 50 {
		t.Errorf("Start=%d End=%d, want 50/50", r.Start(), r.End())
	}
	if r.Encompasses(50) {
		t.Error("a zero-capacity region must never encompass anything, including its own start")
	}
}

func TestEncompasses(t *testing.T) {
	r := New(10, make([]byte, 10)) // [10,19]
	cases := []struct {
		p    int64
		want bool
	}{
		{9, false},
		{10, true},
		{19, true},
		{20, false},
	}
	for _, c := range cases {
		if got := r.Encompasses(c.p); got != c.want {
			t.Errorf("Encompasses(%d)=%v, want %v", c.p, got, c.want)
		}
	}
}

func TestIsBeforeIsAfter(t *testing.T) {
	r := New(10, make([]byte, 10)) // [10,19]
	if !r.IsBefore(20) || r.IsBefore(19) {
		t.Error("IsBefore boundary wrong")
	}
	if !r.IsAfter(9) || r.IsAfter(10) {
		t.Error("IsAfter boundary wrong")
	}
}

func TestUseCountSaturates(t *testing.T) {
	r := New(0, make([]byte, 1))
	r.useCount = ^uint64(0)
	r.IncrementUseCount()
	if r.UseCount() != ^uint64(0) {
		t.Errorf("use count should saturate, got %d", r.UseCount())
	}
}
