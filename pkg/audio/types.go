// ABOUTME: Audio type definitions
// ABOUTME: Defines stream formats, block helpers and sample conversion functions
package audio

import "math"

const (
	// Canonical float sample range
	MaxSample float32 = 1.0
	MinSample float32 = -1.0
)

// Format describes an audio stream format
type Format struct {
	SampleRate int
	Channels   int
}

// BlockDuration returns the wall-clock budget for producing one block
// of n frames at this format's sample rate, in seconds.
func (f Format) BlockDuration(n int) float64 {
	if f.SampleRate <= 0 {
		return 0
	}
	return float64(n) / float64(f.SampleRate)
}

// Clamp limits a sample to the canonical [-1, +1] range
func Clamp(s float32) float32 {
	if s > MaxSample {
		return MaxSample
	}
	if s < MinSample {
		return MinSample
	}
	return s
}

// SampleToInt16 converts a float sample to 16-bit PCM with clamping.
// Encode and decode share the 32768 scale so a round trip never drifts
// by more than half an LSB.
func SampleToInt16(s float32) int16 {
	v := math.Round(float64(Clamp(s)) * 32768.0)
	if v > 32767 {
		v = 32767
	}
	if v < -32768 {
		v = -32768
	}
	return int16(v)
}

// SampleFromInt16 converts a 16-bit PCM sample to the float range
func SampleFromInt16(s int16) float32 {
	return float32(s) / 32768.0
}

// Zero fills a block with silence
func Zero(block []float32) {
	for i := range block {
		block[i] = 0
	}
}
