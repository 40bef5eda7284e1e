// ABOUTME: Malgo-based audio sink implementation
// ABOUTME: Renders float32 blocks through miniaudio's data callback
package output

import (
	"encoding/binary"
	"fmt"
	"log"
	"math"
	"sync"
	"sync/atomic"

	"github.com/Warble-Audio/warble-go/pkg/audio"
	"github.com/gen2brain/malgo"
)

// Malgo sink implementation using the malgo/miniaudio library. The
// device data callback pulls blocks from the registered Source.
type Malgo struct {
	malgoCtx *malgo.AllocatedContext
	device   *malgo.Device

	format    audio.Format
	blockSize int

	// Hot-path state, owned by the device callback thread.
	src      atomic.Pointer[sourceHolder]
	block    []float32
	blockPos int

	mu      sync.Mutex
	ready   bool
	started bool
}

// NewMalgo creates a new malgo sink.
func NewMalgo() Sink {
	return &Malgo{}
}

// Open initializes the miniaudio context and device configuration.
func (m *Malgo) Open(format audio.Format, blockSize int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.malgoCtx == nil {
		ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
		if err != nil {
			return fmt.Errorf("failed to initialize malgo context: %w", err)
		}
		m.malgoCtx = ctx
	}

	m.format = format
	m.blockSize = blockSize
	m.block = make([]float32, blockSize)
	m.blockPos = blockSize
	m.ready = true

	log.Printf("Audio output initialized: %dHz, %d channels (malgo)",
		format.SampleRate, format.Channels)

	return nil
}

// Start registers src, initializes the playback device and starts it.
func (m *Malgo) Start(src Source) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.ready {
		return ErrNotOpen
	}
	if m.started {
		return ErrAlreadyStarted
	}

	m.src.Store(&sourceHolder{src: src})

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatF32
	deviceConfig.Playback.Channels = uint32(m.format.Channels)
	deviceConfig.SampleRate = uint32(m.format.SampleRate)
	deviceConfig.Alsa.NoMMap = 1

	deviceCallbacks := malgo.DeviceCallbacks{
		Data: func(pOutput, pInput []byte, frameCount uint32) {
			m.dataCallback(pOutput, frameCount)
		},
	}

	device, err := malgo.InitDevice(m.malgoCtx.Context, deviceConfig, deviceCallbacks)
	if err != nil {
		return fmt.Errorf("failed to initialize playback device: %w", err)
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		return fmt.Errorf("failed to start device: %w", err)
	}

	m.device = device
	m.started = true

	return nil
}

// dataCallback fills the device buffer with samples pulled from the
// Source, block by block, as float32 little-endian.
func (m *Malgo) dataCallback(pOutput []byte, frameCount uint32) {
	holder := m.src.Load()
	if holder == nil || holder.src == nil {
		for i := range pOutput {
			pOutput[i] = 0
		}
		return
	}

	n := int(frameCount) * m.format.Channels
	for i := 0; i < n && i*4+4 <= len(pOutput); i++ {
		if m.blockPos >= len(m.block) {
			holder.src.ReadBlock(m.block)
			m.blockPos = 0
		}
		binary.LittleEndian.PutUint32(pOutput[i*4:], math.Float32bits(m.block[m.blockPos]))
		m.blockPos++
	}
}

// Stop deregisters the Source and stops the device. malgo's Stop waits
// for the data callback to return, which bounds the in-flight work.
func (m *Malgo) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return nil
	}

	m.src.Store(&sourceHolder{})

	if m.device != nil {
		if err := m.device.Stop(); err != nil {
			log.Printf("Warning: device stop error: %v", err)
		}
		m.device.Uninit()
		m.device = nil
	}
	m.started = false

	return nil
}

// Close stops playback and releases the miniaudio context.
func (m *Malgo) Close() error {
	if err := m.Stop(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.malgoCtx != nil {
		if err := m.malgoCtx.Uninit(); err != nil {
			log.Printf("Warning: malgo context uninit error: %v", err)
		}
		m.malgoCtx.Free()
		m.malgoCtx = nil
	}
	m.ready = false

	return nil
}
