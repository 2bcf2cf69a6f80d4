package pool

import "testing"

func TestLogBaseTwo(t *testing.T) {
	cases := map[uint32]int{
		1: 0, 2: 1, 4: 2, 8: 3, 16: 4, 1024: 10, 1 << 16: 16,
	}
	for x, want := range cases {
		if got := LogBaseTwo(x); got != want {
			t.Errorf("LogBaseTwo(%d) = %d, want %d", x, got, want)
		}
	}
}

func TestAlignUpPowerOfTwo(t *testing.T) {
	cases := map[uint32]uint32{
		1: 1, 2: 2, 3: 4, 5: 8, 100: 128, 4096: 4096, 4097: 8192,
	}
	for x, want := range cases {
		if got := AlignUpPowerOfTwo(x); got != want {
			t.Errorf("AlignUpPowerOfTwo(%d) = %d, want %d", x, got, want)
		}
	}
}

func TestAlignDownPowerOfTwo(t *testing.T) {
	cases := map[uint32]uint32{
		1: 1, 2: 2, 3: 2, 5: 4, 100: 64, 4096: 4096, 4097: 4096,
	}
	for x, want := range cases {
		if got := AlignDownPowerOfTwo(x); got != want {
			t.Errorf("AlignDownPowerOfTwo(%d) = %d, want %d", x, got, want)
		}
	}
}

func TestGetPutRoundTrip(t *testing.T) {
	p := New(64, 4096)

	buf := p.Get(100)
	if len(buf) < 100 {
		t.Fatalf("Get(100) returned %d bytes, want at least 100", len(buf))
	}
	p.Put(buf)

	again := p.Get(100)
	if cap(again) != cap(buf) {
		t.Fatalf("Get after Put returned a differently sized bucket: cap %d, want %d", cap(again), cap(buf))
	}
}

func TestGetBelowMinUsesSmallestBucket(t *testing.T) {
	p := New(64, 4096)
	buf := p.Get(1)
	if len(buf) < 1 {
		t.Fatalf("Get(1) returned empty slice")
	}
	if cap(buf) != 64 {
		t.Fatalf("Get(1) capacity = %d, want the minimum bucket size 64", cap(buf))
	}
}

func TestGetAboveMaxAllocatesDirectly(t *testing.T) {
	p := New(64, 4096)
	buf := p.Get(8192)
	if len(buf) != 8192 {
		t.Fatalf("Get(8192) len = %d, want 8192", len(buf))
	}

	// Putting an oversized buffer back must not panic or corrupt the pool;
	// it is simply dropped.
	p.Put(buf)
	buf2 := p.Get(100)
	if len(buf2) < 100 {
		t.Fatalf("pool corrupted after Put of an oversized buffer")
	}
}
