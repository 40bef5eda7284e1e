// ABOUTME: Headless audio sink for tests and CI
// ABOUTME: Pulls blocks on a ticker or on demand, with optional capture
package output

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/Warble-Audio/warble-go/pkg/audio"
)

// Headless is a sink with no audio device behind it. In ticker mode it
// pulls blocks on the real-time cadence and discards them; in capture
// mode the test drives it with Pull and inspects the captured samples.
type Headless struct {
	format    audio.Format
	blockSize int

	src   atomic.Pointer[sourceHolder]
	block []float32

	mu      sync.Mutex
	ready   bool
	started bool
	capture bool

	capMu    sync.Mutex
	captured []float32
	blocks   int

	stopChan chan struct{}
	doneChan chan struct{}
}

// NewHeadless creates a ticker-driven headless sink that discards its
// output.
func NewHeadless() Sink {
	return &Headless{}
}

// NewHeadlessCapture creates a headless sink driven manually with Pull;
// every pulled block is captured for inspection.
func NewHeadlessCapture() *Headless {
	return &Headless{capture: true}
}

// Open records the format and allocates the pull buffer.
func (h *Headless) Open(format audio.Format, blockSize int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.format = format
	h.blockSize = blockSize
	h.block = make([]float32, blockSize)
	h.ready = true
	return nil
}

// Start registers src. In ticker mode it also launches the pull loop at
// the real-time block cadence.
func (h *Headless) Start(src Source) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.ready {
		return ErrNotOpen
	}
	if h.started {
		return ErrAlreadyStarted
	}

	h.src.Store(&sourceHolder{src: src})
	h.started = true

	if !h.capture {
		h.stopChan = make(chan struct{})
		h.doneChan = make(chan struct{})
		interval := time.Duration(h.format.BlockDuration(h.blockSize) * float64(time.Second))
		if interval <= 0 {
			interval = time.Millisecond
		}
		go h.run(interval)
	}

	return nil
}

// run is the ticker-mode pull loop.
func (h *Headless) run(interval time.Duration) {
	defer close(h.doneChan)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			h.pullOne()
		case <-h.stopChan:
			return
		}
	}
}

// pullOne pulls a single block from the registered source.
func (h *Headless) pullOne() {
	holder := h.src.Load()
	if holder == nil || holder.src == nil {
		return
	}
	holder.src.ReadBlock(h.block)

	if h.capture {
		h.capMu.Lock()
		h.captured = append(h.captured, h.block...)
		h.blocks++
		h.capMu.Unlock()
	}
}

// Pull drives one block through the sink in capture mode and returns a
// copy of it.
func (h *Headless) Pull() []float32 {
	h.pullOne()

	h.capMu.Lock()
	defer h.capMu.Unlock()
	if len(h.captured) < h.blockSize {
		return nil
	}
	out := make([]float32, h.blockSize)
	copy(out, h.captured[len(h.captured)-h.blockSize:])
	return out
}

// Captured returns all samples pulled so far in capture mode.
func (h *Headless) Captured() []float32 {
	h.capMu.Lock()
	defer h.capMu.Unlock()
	out := make([]float32, len(h.captured))
	copy(out, h.captured)
	return out
}

// Blocks returns the number of blocks pulled so far.
func (h *Headless) Blocks() int {
	h.capMu.Lock()
	defer h.capMu.Unlock()
	return h.blocks
}

// Stop deregisters the Source and, in ticker mode, waits for the pull
// loop to exit so no pull is in flight afterwards.
func (h *Headless) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.started {
		return nil
	}

	h.src.Store(&sourceHolder{})

	if h.stopChan != nil {
		close(h.stopChan)
		<-h.doneChan
		h.stopChan = nil
		h.doneChan = nil
	}
	h.started = false

	return nil
}

// Close stops the sink.
func (h *Headless) Close() error {
	if err := h.Stop(); err != nil {
		return err
	}
	h.mu.Lock()
	h.ready = false
	h.mu.Unlock()
	return nil
}
