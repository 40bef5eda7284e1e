// ABOUTME: Ring buffer tests
// ABOUTME: Verifies write/read offsets, interpolation and reset
package synth

import (
	"math"
	"testing"
)

func TestRingReadOffsets(t *testing.T) {
	r := NewRing(5)
	for _, s := range []float32{1, 2, 3} {
		r.Write(s)
	}

	if got := r.Read(0); got != 3 {
		t.Errorf("Read(0) = %v, want most recent sample 3", got)
	}
	if got := r.Read(1); got != 2 {
		t.Errorf("Read(1) = %v, want 2", got)
	}
	if got := r.Read(2); got != 1 {
		t.Errorf("Read(2) = %v, want 1", got)
	}
}

func TestRingWraparound(t *testing.T) {
	r := NewRing(3)
	for s := float32(1); s <= 7; s++ {
		r.Write(s)
	}

	// Only the last 3 samples survive.
	for offset, want := range []float32{7, 6, 5} {
		if got := r.Read(offset); got != want {
			t.Errorf("Read(%d) = %v, want %v", offset, got, want)
		}
	}
}

func TestRingReadClampsOffset(t *testing.T) {
	r := NewRing(4)
	r.Write(1)
	r.Write(2)

	if got := r.Read(-3); got != 2 {
		t.Errorf("negative offset should clamp to 0, got %v", got)
	}
	// Beyond capacity clamps to the oldest slot instead of panicking.
	_ = r.Read(99)
}

func TestRingReadFractional(t *testing.T) {
	r := NewRing(8)
	r.Write(0)
	r.Write(1) // offset 1
	r.Write(2) // offset 0

	got := r.ReadFractional(0.5)
	if math.Abs(float64(got)-1.5) > 1e-6 {
		t.Errorf("ReadFractional(0.5) = %v, want 1.5", got)
	}

	// Integer offsets match plain reads exactly.
	if got := r.ReadFractional(1); got != r.Read(1) {
		t.Errorf("ReadFractional(1) = %v, want %v", got, r.Read(1))
	}
}

func TestRingReset(t *testing.T) {
	r := NewRing(4)
	r.Write(0.7)
	r.Reset()

	for offset := 0; offset < 4; offset++ {
		if got := r.Read(offset); got != 0 {
			t.Errorf("offset %d not zeroed after reset: %v", offset, got)
		}
	}
}

func TestRingMinimumSize(t *testing.T) {
	r := NewRing(0)
	if r.Len() != 1 {
		t.Errorf("expected size floor of 1, got %d", r.Len())
	}
	r.Write(0.5)
	if got := r.Read(0); got != 0.5 {
		t.Errorf("single-slot ring broken: %v", got)
	}
}
