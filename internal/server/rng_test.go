package server

import "testing"

func TestRNGSequenceForSeedOne(t *testing.T) {
	r := newRNG(1)
	want := []uint32{48271, 182605794, 1291394886, 1914720637}
	for i, w := range want {
		got := r.next()
		if got != w {
			t.Fatalf("draw %d = %d, want %d", i, got, w)
		}
	}
}

func TestRNGPositionDrawsXThenY(t *testing.T) {
	r := newRNG(1)
	pos := r.position(8, 8)
	if pos.X != 7 || pos.Y != 2 {
		t.Fatalf("first position = %+v, want {7 2}", pos)
	}
	pos = r.position(8, 8)
	if pos.X != 6 || pos.Y != 5 {
		t.Fatalf("second position = %+v, want {6 5}", pos)
	}
}
