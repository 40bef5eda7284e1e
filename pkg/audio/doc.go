// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format and sample conversion/clamping helpers
// Package audio provides fundamental audio types and utilities for the
// warble engine.
//
// This package defines the core types used throughout the library:
//   - Format: Describes a stream format (sample rate, channels)
//
// It also provides utilities for converting between sample representations:
//   - float32 ↔ 16-bit PCM conversions
//   - clamping to the canonical [-1, +1] range
//
// Example:
//
//	format := audio.Format{
//	    SampleRate: 44100,
//	    Channels:   1,
//	}
//
//	// Convert a float sample to 16-bit PCM
//	pcm := audio.SampleToInt16(sample)
package audio
