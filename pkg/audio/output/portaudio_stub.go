//go:build !portaudio

// ABOUTME: PortAudio stub when library not available
// ABOUTME: Provides compile-time placeholder when PortAudio not installed
package output

import (
	"fmt"

	"github.com/Warble-Audio/warble-go/pkg/audio"
)

// PortAudio sink implementation (stub)
type PortAudio struct{}

// NewPortAudio creates a new PortAudio sink
func NewPortAudio() Sink {
	return &PortAudio{}
}

// Open initializes PortAudio
func (p *PortAudio) Open(format audio.Format, blockSize int) error {
	return fmt.Errorf("PortAudio support not enabled (build with -tags portaudio)")
}

// Start registers the pull callback
func (p *PortAudio) Start(src Source) error {
	return fmt.Errorf("PortAudio support not enabled (build with -tags portaudio)")
}

// Stop deregisters the pull callback
func (p *PortAudio) Stop() error {
	return fmt.Errorf("PortAudio support not enabled (build with -tags portaudio)")
}

// Close releases resources
func (p *PortAudio) Close() error {
	return fmt.Errorf("PortAudio support not enabled (build with -tags portaudio)")
}
