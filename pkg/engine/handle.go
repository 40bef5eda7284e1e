// ABOUTME: Playback handle owning one signal graph and its sink
// ABOUTME: Exposes live parameter control and an idempotent Free
package engine

import (
	"sync/atomic"
	"time"

	"github.com/Warble-Audio/warble-go/pkg/audio"
	"github.com/Warble-Audio/warble-go/pkg/audio/output"
	"github.com/Warble-Audio/warble-go/pkg/synth"
	"github.com/google/uuid"
)

// HandleState is the user-visible lifecycle of a handle.
type HandleState int32

const (
	StateActive HandleState = iota
	StateFreed
)

// String returns the state name.
func (s HandleState) String() string {
	if s == StateFreed {
		return "freed"
	}
	return "active"
}

// SessionState tracks the engine-side callback lifecycle of a handle.
type SessionState int32

const (
	SessionIdle SessionState = iota
	SessionRunning
	SessionStopping
)

// String returns the session state name.
func (s SessionState) String() string {
	switch s {
	case SessionRunning:
		return "running"
	case SessionStopping:
		return "stopping"
	}
	return "idle"
}

// Handle represents one active playback session. It exclusively owns its
// signal graph, parameter store and output sink; handles are neither
// shared nor cloned. A Handle is also the sink's Source: the real-time
// pull lands in ReadBlock.
type Handle struct {
	id     uuid.UUID
	engine *Engine
	graph  *synth.Graph
	sink   output.Sink

	state   atomic.Int32 // HandleState
	session atomic.Int32 // SessionState

	inFlight  atomic.Int32
	blocks    atomic.Uint64
	underruns atomic.Uint64

	budget time.Duration // wall-clock allowance per block
}

// ID returns the handle's unique id.
func (h *Handle) ID() uuid.UUID {
	return h.id
}

// State returns the handle lifecycle state.
func (h *Handle) State() HandleState {
	return HandleState(h.state.Load())
}

// Session returns the callback lifecycle state.
func (h *Handle) Session() SessionState {
	return SessionState(h.session.Load())
}

// ReadBlock implements output.Source. It runs on the real-time audio
// path: no locks, no allocation. A freed handle produces silence, which
// covers sink pulls that race with Free.
func (h *Handle) ReadBlock(out []float32) {
	if HandleState(h.state.Load()) != StateActive {
		audio.Zero(out)
		return
	}

	h.inFlight.Add(1)
	start := time.Now()

	h.graph.ProcessBlock(out)

	if time.Since(start) > h.budget {
		h.underruns.Add(1)
	}
	h.blocks.Add(1)
	h.inFlight.Add(-1)
}

// SetParam updates a live parameter. Out-of-range values are clamped by
// the parameter store, never rejected; only a freed handle or an unknown
// name is reported.
func (h *Handle) SetParam(name string, value float64) error {
	if h.State() != StateActive {
		return ErrInvalidState
	}
	if !h.graph.Params().Set(name, value) {
		return ErrUnknownParam
	}
	return nil
}

// Param returns the current committed value of a parameter.
func (h *Handle) Param(name string) float64 {
	return h.graph.Params().Get(name)
}

// ParamNames returns the handle's fixed parameter set.
func (h *Handle) ParamNames() []string {
	return h.graph.Params().Names()
}

// Blocks returns how many blocks this handle has produced.
func (h *Handle) Blocks() uint64 {
	return h.blocks.Load()
}

// Underruns returns how many blocks missed their real-time budget. The
// audio path never reports this condition synchronously; the control
// context polls it here.
func (h *Handle) Underruns() uint64 {
	return h.underruns.Load()
}

// Free deregisters the real-time callback, waits boundedly for in-flight
// block production and releases all owned resources. Freeing an already
// freed handle is a no-op.
func (h *Handle) Free() error {
	if !h.state.CompareAndSwap(int32(StateActive), int32(StateFreed)) {
		return nil
	}
	return h.engine.release(h)
}
