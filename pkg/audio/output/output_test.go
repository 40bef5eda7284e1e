// ABOUTME: Audio sink tests
// ABOUTME: Verifies interface compliance, headless pulls and silence fallback
package output

import (
	"testing"

	"github.com/Warble-Audio/warble-go/pkg/audio"
)

func TestBackendsImplementSink(t *testing.T) {
	var _ Sink = (*Oto)(nil)
	var _ Sink = (*Malgo)(nil)
	var _ Sink = (*PortAudio)(nil)
	var _ Sink = (*Headless)(nil)
}

func TestSourceFunc(t *testing.T) {
	called := false
	src := SourceFunc(func(out []float32) {
		called = true
		for i := range out {
			out[i] = 0.25
		}
	})

	block := make([]float32, 8)
	src.ReadBlock(block)

	if !called {
		t.Fatal("SourceFunc not invoked")
	}
	if block[7] != 0.25 {
		t.Errorf("block not filled: %v", block[7])
	}
}

func TestHeadlessCapturePulls(t *testing.T) {
	sink := NewHeadlessCapture()
	format := audio.Format{SampleRate: 8000, Channels: 1}

	if err := sink.Open(format, 16); err != nil {
		t.Fatalf("Open: %v", err)
	}

	var counter float32
	src := SourceFunc(func(out []float32) {
		for i := range out {
			counter++
			out[i] = counter
		}
	})

	if err := sink.Start(src); err != nil {
		t.Fatalf("Start: %v", err)
	}

	first := sink.Pull()
	second := sink.Pull()

	if len(first) != 16 || len(second) != 16 {
		t.Fatalf("unexpected block sizes: %d, %d", len(first), len(second))
	}
	if first[0] != 1 || second[0] != 17 {
		t.Errorf("blocks not sequential: first[0]=%v second[0]=%v", first[0], second[0])
	}
	if sink.Blocks() != 2 {
		t.Errorf("expected 2 blocks pulled, got %d", sink.Blocks())
	}
	if got := len(sink.Captured()); got != 32 {
		t.Errorf("expected 32 captured samples, got %d", got)
	}

	if err := sink.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestHeadlessStartRequiresOpen(t *testing.T) {
	sink := NewHeadless()
	err := sink.Start(SourceFunc(func(out []float32) {}))
	if err != ErrNotOpen {
		t.Errorf("expected ErrNotOpen, got %v", err)
	}
}

func TestHeadlessDoubleStart(t *testing.T) {
	sink := NewHeadlessCapture()
	if err := sink.Open(audio.Format{SampleRate: 8000, Channels: 1}, 8); err != nil {
		t.Fatalf("Open: %v", err)
	}

	src := SourceFunc(func(out []float32) {})
	if err := sink.Start(src); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := sink.Start(src); err != ErrAlreadyStarted {
		t.Errorf("expected ErrAlreadyStarted, got %v", err)
	}
}

func TestHeadlessStopIsIdempotent(t *testing.T) {
	sink := NewHeadlessCapture()
	if err := sink.Open(audio.Format{SampleRate: 8000, Channels: 1}, 8); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := sink.Start(SourceFunc(func(out []float32) {})); err != nil {
		t.Fatalf("Start: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := sink.Stop(); err != nil {
			t.Fatalf("Stop #%d: %v", i+1, err)
		}
	}
}

func TestHeadlessTickerModeStops(t *testing.T) {
	sink := NewHeadless()
	if err := sink.Open(audio.Format{SampleRate: 44100, Channels: 1}, 64); err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := sink.Start(SourceFunc(func(out []float32) {
		audio.Zero(out)
	})); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Stop must wait for the pull loop to exit, not leak it.
	if err := sink.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestOtoSilenceWithoutSource(t *testing.T) {
	o := &Oto{}

	p := make([]byte, 64)
	for i := range p {
		p[i] = 0xFF
	}

	n, err := o.Read(p)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != len(p) {
		t.Fatalf("short read: %d", n)
	}
	for i, b := range p {
		if b != 0 {
			t.Fatalf("byte %d not silenced: %#x", i, b)
		}
	}
}
