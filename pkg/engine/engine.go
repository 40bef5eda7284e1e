// ABOUTME: Engine managing playback handle lifecycle and sink wiring
// ABOUTME: Play builds a graph, opens a sink and returns a live Handle
package engine

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Warble-Audio/warble-go/pkg/audio"
	"github.com/Warble-Audio/warble-go/pkg/audio/output"
	"github.com/Warble-Audio/warble-go/pkg/synth"
	"github.com/google/uuid"
)

const defaultFreeWait = 100 * time.Millisecond

// Config controls the engine's output format and sink construction.
type Config struct {
	Format    audio.Format
	BlockSize int

	// NewSink builds the output backend for each handle. Defaults to the
	// oto speaker sink.
	NewSink output.Factory

	// FreeWait bounds how long Free blocks waiting for an in-flight
	// block to finish before deferring cleanup.
	FreeWait time.Duration
}

func (c *Config) withDefaults() {
	if c.Format.SampleRate == 0 {
		c.Format.SampleRate = synth.DefaultSampleRate
	}
	if c.Format.Channels == 0 {
		c.Format.Channels = 1
	}
	if c.BlockSize == 0 {
		c.BlockSize = synth.DefaultBlockSize
	}
	if c.NewSink == nil {
		c.NewSink = output.NewOto
	}
	if c.FreeWait == 0 {
		c.FreeWait = defaultFreeWait
	}
}

// Engine creates and tracks playback handles. All methods are safe for
// concurrent use from control contexts; none of them run on the audio
// path.
type Engine struct {
	config Config

	mu      sync.Mutex
	handles map[uuid.UUID]*Handle
}

// New creates an engine with the given config. Zero-valued fields take
// engine defaults.
func New(config Config) *Engine {
	config.withDefaults()
	return &Engine{
		config:  config,
		handles: make(map[uuid.UUID]*Handle),
	}
}

// Play builds a signal graph from gc, opens a fresh sink and starts
// pulling blocks through it. The graph's sample rate and block size are
// forced to the engine's; the rest of gc is taken as-is.
func (e *Engine) Play(gc synth.GraphConfig) (*Handle, error) {
	gc.SampleRate = e.config.Format.SampleRate
	gc.BlockSize = e.config.BlockSize

	graph := synth.NewGraph(gc)

	sink := e.config.NewSink()
	if err := sink.Open(e.config.Format, e.config.BlockSize); err != nil {
		return nil, fmt.Errorf("opening sink: %w", err)
	}

	h := &Handle{
		id:     uuid.New(),
		engine: e,
		graph:  graph,
		sink:   sink,
		budget: time.Duration(e.config.Format.BlockDuration(e.config.BlockSize) * float64(time.Second)),
	}
	h.state.Store(int32(StateActive))
	h.session.Store(int32(SessionRunning))

	if err := sink.Start(h); err != nil {
		sink.Close()
		return nil, fmt.Errorf("starting sink: %w", err)
	}

	e.mu.Lock()
	e.handles[h.id] = h
	e.mu.Unlock()

	log.Printf("Playback started: handle=%s wave=%s rate=%d block=%d",
		h.id, gc.Wave, gc.SampleRate, gc.BlockSize)
	return h, nil
}

// release tears down a handle. The caller has already flipped the
// handle's state to freed, so the sink callback sees silence from here
// on even before Stop lands.
func (e *Engine) release(h *Handle) error {
	h.session.Store(int32(SessionStopping))

	err := h.sink.Stop()

	// Bounded wait for a block production that raced with Free. If it
	// does not drain in time, cleanup still proceeds: the freed state
	// guarantees any straggler only writes silence.
	deadline := time.Now().Add(e.config.FreeWait)
	for h.inFlight.Load() != 0 {
		if time.Now().After(deadline) {
			log.Printf("Handle %s: deferred cleanup, block still in flight after %v",
				h.id, e.config.FreeWait)
			break
		}
		time.Sleep(time.Millisecond)
	}

	if cerr := h.sink.Close(); cerr != nil && err == nil {
		err = cerr
	}

	e.mu.Lock()
	delete(e.handles, h.id)
	e.mu.Unlock()

	h.session.Store(int32(SessionIdle))
	log.Printf("Playback freed: handle=%s blocks=%d underruns=%d",
		h.id, h.Blocks(), h.Underruns())
	return err
}

// Active returns the number of live handles.
func (e *Engine) Active() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.handles)
}

// Handle looks up a live handle by id.
func (e *Engine) Handle(id uuid.UUID) (*Handle, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	h, ok := e.handles[id]
	return h, ok
}

// Handles returns a snapshot of all live handles.
func (e *Engine) Handles() []*Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*Handle, 0, len(e.handles))
	for _, h := range e.handles {
		out = append(out, h)
	}
	return out
}

// Close frees every live handle.
func (e *Engine) Close() error {
	var first error
	for _, h := range e.Handles() {
		if err := h.Free(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
