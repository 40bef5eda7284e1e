// ABOUTME: Synthesis package providing the signal graph and parameter store
// ABOUTME: Implements oscillator, comb filter, vibrato and delay stages
// Package synth implements the warble signal graph: a fixed pipeline of
// unit generators (oscillator, comb filter, vibrato, delay line, output
// gain) advanced one block at a time, plus the lock-free parameter store
// that feeds live control values into it.
//
// The graph topology is fixed at construction; only parameter values
// change at runtime. ProcessBlock is safe to call from a real-time audio
// context: it never allocates, never locks and never blocks.
//
// Example:
//
//	g := synth.NewGraph(synth.GraphConfig{
//	    SampleRate: 44100,
//	    Wave:       synth.Blip,
//	})
//	g.Params().Set(synth.ParamDelaySeconds, 0.25)
//
//	block := make([]float32, 512)
//	g.ProcessBlock(block)
package synth
