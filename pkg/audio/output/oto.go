// ABOUTME: Oto-based audio sink implementation
// ABOUTME: Streams float32 blocks to hardware through a persistent oto player
package output

import (
	"encoding/binary"
	"fmt"
	"log"
	"math"
	"sync"
	"sync/atomic"

	"github.com/Warble-Audio/warble-go/pkg/audio"
	"github.com/ebitengine/oto/v3"
)

// sourceHolder lets the hot path swap the active Source atomically.
type sourceHolder struct {
	src Source
}

// oto permits one context per process, but the engine opens a sink per
// voice. All Oto sinks share the context created by the first Open.
var (
	otoCtxMu     sync.Mutex
	otoSharedCtx *oto.Context
	otoCtxFormat audio.Format
)

func sharedOtoContext(format audio.Format) (*oto.Context, error) {
	otoCtxMu.Lock()
	defer otoCtxMu.Unlock()

	if otoSharedCtx != nil {
		if otoCtxFormat != format {
			return nil, fmt.Errorf("oto context already open at %dHz, cannot reopen at %dHz",
				otoCtxFormat.SampleRate, format.SampleRate)
		}
		return otoSharedCtx, nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   format.SampleRate,
		ChannelCount: format.Channels,
		Format:       oto.FormatFloat32LE,
	}
	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-readyChan

	otoSharedCtx = ctx
	otoCtxFormat = format
	return ctx, nil
}

// Oto sink implementation using the oto library. The oto player pulls
// from this sink through io.Reader; Read forwards the demand to the
// registered Source block by block.
type Oto struct {
	otoCtx *oto.Context
	player *oto.Player

	format    audio.Format
	blockSize int

	// Hot-path state: the player's reader goroutine owns block/blockPos,
	// src is swapped atomically so Stop never locks against Read.
	src      atomic.Pointer[sourceHolder]
	block    []float32
	blockPos int

	mu      sync.Mutex // setup/control operations only
	ready   bool
	started bool
}

// NewOto creates a new oto sink.
func NewOto() Sink {
	return &Oto{}
}

// Open initializes the oto context for the given format.
func (o *Oto) Open(format audio.Format, blockSize int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.otoCtx != nil {
		if o.format == format && o.blockSize == blockSize {
			return nil
		}
		return fmt.Errorf("oto does not support reopening with a new format (%dHz -> %dHz)",
			o.format.SampleRate, format.SampleRate)
	}

	ctx, err := sharedOtoContext(format)
	if err != nil {
		return err
	}

	o.otoCtx = ctx
	o.format = format
	o.blockSize = blockSize
	o.block = make([]float32, blockSize)
	o.blockPos = blockSize // staging buffer starts empty
	o.ready = true

	log.Printf("Audio output initialized: %dHz, %d channels (oto)",
		format.SampleRate, format.Channels)

	return nil
}

// Start registers src and begins playback.
func (o *Oto) Start(src Source) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.ready {
		return ErrNotOpen
	}
	if o.started {
		return ErrAlreadyStarted
	}

	o.src.Store(&sourceHolder{src: src})
	o.player = o.otoCtx.NewPlayer(o)
	o.player.Play()
	o.started = true

	return nil
}

// Read implements io.Reader for the oto player. It pulls whole blocks
// from the Source into a pre-allocated staging buffer and encodes them
// as float32 little-endian. With no Source registered it yields silence.
func (o *Oto) Read(p []byte) (int, error) {
	holder := o.src.Load()
	if holder == nil || holder.src == nil {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	n := len(p) / 4
	for i := 0; i < n; i++ {
		if o.blockPos >= len(o.block) {
			holder.src.ReadBlock(o.block)
			o.blockPos = 0
		}
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(o.block[o.blockPos]))
		o.blockPos++
	}

	return n * 4, nil
}

// Stop deregisters the Source and closes the player, waiting for the
// in-flight read to finish.
func (o *Oto) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.started {
		return nil
	}

	// Late reads observe the cleared source and emit silence.
	o.src.Store(&sourceHolder{})

	if o.player != nil {
		if err := o.player.Close(); err != nil {
			return fmt.Errorf("failed to close oto player: %w", err)
		}
		o.player = nil
	}
	o.started = false

	return nil
}

// Close stops playback and detaches from the shared oto context. The
// context itself is process-wide and stays alive for other sinks.
func (o *Oto) Close() error {
	if err := o.Stop(); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.otoCtx = nil
	o.ready = false
	return nil
}
