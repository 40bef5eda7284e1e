// ABOUTME: Audio output package for rendering sample blocks
// ABOUTME: Provides the Sink interface and oto/malgo/portaudio/headless backends
// Package output provides pull-based audio playback sinks.
//
// A Sink owns the real-time schedule: once started it repeatedly pulls
// fixed-size sample blocks from a Source and renders them to hardware
// (or, for the headless sink, to memory). Backends: oto, malgo
// (miniaudio), portaudio (behind the portaudio build tag) and headless.
//
// Example:
//
//	sink := output.NewOto()
//	err := sink.Open(audio.Format{SampleRate: 44100, Channels: 1}, 512)
//	err = sink.Start(src)
package output
