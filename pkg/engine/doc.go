// ABOUTME: Engine package managing playback handles and the sink lifecycle
// ABOUTME: Provides Play/Free semantics over the synth signal graph
// Package engine ties a signal graph to an output sink behind an
// exclusively-owned playback handle.
//
// Play allocates a graph and parameter store, opens a sink and registers
// the real-time pull callback; Free deregisters it, drains in-flight
// work within a bounded wait and releases everything. A freed handle is
// inert: every further operation is a no-op or reports ErrInvalidState,
// and a late sink pull gets silence.
//
// Example:
//
//	eng := engine.New(engine.Config{})
//	h, err := eng.Play(synth.GraphConfig{Wave: synth.Blip})
//	h.SetParam(synth.ParamDelaySeconds, 0.3)
//	h.Free()
package engine
