//go:build portaudio

// ABOUTME: PortAudio sink implementation
// ABOUTME: Cross-platform audio output using the PortAudio callback API
package output

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Warble-Audio/warble-go/pkg/audio"
	"github.com/gordonklaus/portaudio"
)

// PortAudio sink implementation. The stream callback pulls blocks from
// the registered Source directly into the device buffer.
type PortAudio struct {
	stream *portaudio.Stream

	format    audio.Format
	blockSize int

	src atomic.Pointer[sourceHolder]

	mu      sync.Mutex
	ready   bool
	started bool
}

// NewPortAudio creates a new PortAudio sink.
func NewPortAudio() Sink {
	return &PortAudio{}
}

// Open initializes PortAudio.
func (p *PortAudio) Open(format audio.Format, blockSize int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	p.format = format
	p.blockSize = blockSize
	p.ready = true

	return nil
}

// Start registers src and opens the default output stream with the
// sink's block size, so each callback maps to exactly one Source pull.
func (p *PortAudio) Start(src Source) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.ready {
		return ErrNotOpen
	}
	if p.started {
		return ErrAlreadyStarted
	}

	p.src.Store(&sourceHolder{src: src})

	stream, err := portaudio.OpenDefaultStream(
		0, p.format.Channels, float64(p.format.SampleRate), p.blockSize/p.format.Channels,
		func(out []float32) {
			holder := p.src.Load()
			if holder == nil || holder.src == nil {
				for i := range out {
					out[i] = 0
				}
				return
			}
			holder.src.ReadBlock(out)
		})
	if err != nil {
		return fmt.Errorf("failed to open stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("failed to start stream: %w", err)
	}

	p.stream = stream
	p.started = true

	return nil
}

// Stop deregisters the Source and stops the stream; portaudio's Stop
// waits for the callback to drain.
func (p *PortAudio) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return nil
	}

	p.src.Store(&sourceHolder{})

	if p.stream != nil {
		if err := p.stream.Stop(); err != nil {
			return fmt.Errorf("failed to stop stream: %w", err)
		}
		if err := p.stream.Close(); err != nil {
			return fmt.Errorf("failed to close stream: %w", err)
		}
		p.stream = nil
	}
	p.started = false

	return nil
}

// Close stops the stream and terminates PortAudio.
func (p *PortAudio) Close() error {
	if err := p.Stop(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.ready = false
	return portaudio.Terminate()
}
