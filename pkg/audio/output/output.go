// ABOUTME: Audio sink interface definition
// ABOUTME: Common pull-based contract for playback backends
package output

import (
	"errors"

	"github.com/Warble-Audio/warble-go/pkg/audio"
)

// ErrNotOpen is returned when a sink is started before Open succeeds.
var ErrNotOpen = errors.New("output: sink not open")

// ErrAlreadyStarted is returned when Start is called on a running sink.
var ErrAlreadyStarted = errors.New("output: sink already started")

// Source produces sample blocks on the real-time path. ReadBlock must
// fill out completely and must not allocate, lock or block; the sink
// never retains the slice between calls.
type Source interface {
	ReadBlock(out []float32)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(out []float32)

// ReadBlock implements Source.
func (f SourceFunc) ReadBlock(out []float32) { f(out) }

// Sink renders sample blocks pulled from a Source on a real-time
// schedule external to the engine.
type Sink interface {
	// Open prepares the device for the given format and block size.
	Open(format audio.Format, blockSize int) error

	// Start registers src as the real-time pull callback and begins
	// playback. At most one Source is registered per sink.
	Start(src Source) error

	// Stop deregisters the callback, waiting for any in-flight pull to
	// complete. The sink may be started again afterwards.
	Stop() error

	// Close releases device resources. The sink cannot be reused.
	Close() error
}

// Factory creates sinks; the engine opens one per playback handle.
type Factory func() Sink
