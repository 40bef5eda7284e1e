// ABOUTME: Audio type tests
// ABOUTME: Verifies sample conversion and clamping behavior
package audio

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		in   float32
		want float32
	}{
		{"in range", 0.5, 0.5},
		{"zero", 0, 0},
		{"above max", 1.7, 1.0},
		{"below min", -2.3, -1.0},
		{"at max", 1.0, 1.0},
		{"at min", -1.0, -1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.in); got != tt.want {
				t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSampleToInt16Clamps(t *testing.T) {
	if got := SampleToInt16(2.0); got != 32767 {
		t.Errorf("expected full-scale positive, got %d", got)
	}
	if got := SampleToInt16(-2.0); got != -32768 {
		t.Errorf("expected full-scale negative, got %d", got)
	}
	if got := SampleToInt16(0); got != 0 {
		t.Errorf("expected silence, got %d", got)
	}
}

func TestSampleRoundTrip(t *testing.T) {
	// Half an LSB at the shared 32768 scale.
	const halfLSB = 0.5/32768.0 + 1e-7

	for _, s := range []float32{0, 0.25, -0.25, 0.9, -0.9, 0.999} {
		back := SampleFromInt16(SampleToInt16(s))
		if math.Abs(float64(back-s)) > halfLSB {
			t.Errorf("round trip of %v drifted to %v", s, back)
		}
	}
}

func TestSampleRoundTripExactValues(t *testing.T) {
	// Values on the 1/32768 grid must survive a round trip untouched.
	for _, s := range []float32{0, 0.25, -0.25, 0.5, -0.5, -1.0, 8192.0 / 32768.0} {
		if back := SampleFromInt16(SampleToInt16(s)); back != s {
			t.Errorf("grid value %v round-tripped to %v", s, back)
		}
	}
}

func TestBlockDuration(t *testing.T) {
	f := Format{SampleRate: 44100, Channels: 1}
	want := 512.0 / 44100.0
	if got := f.BlockDuration(512); math.Abs(got-want) > 1e-12 {
		t.Errorf("BlockDuration(512) = %v, want %v", got, want)
	}

	zero := Format{}
	if got := zero.BlockDuration(512); got != 0 {
		t.Errorf("expected 0 for unset format, got %v", got)
	}
}

func TestZero(t *testing.T) {
	block := []float32{0.1, -0.2, 0.3}
	Zero(block)
	for i, s := range block {
		if s != 0 {
			t.Errorf("sample %d not zeroed: %v", i, s)
		}
	}
}
