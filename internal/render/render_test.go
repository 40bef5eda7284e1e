// ABOUTME: Tests for the offline renderer round-tripping WAV files
// ABOUTME: Verifies decoding, effect application and voice generation
package render

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"

	"github.com/Warble-Audio/warble-go/pkg/audio"
	"github.com/Warble-Audio/warble-go/pkg/synth"
)

const testRate = 8000

// writeTestWAV writes mono float32 samples to a temp WAV and returns
// its path.
func writeTestWAV(t *testing.T, samples []float32) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.wav")
	if err := writeWAV(path, samples, testRate); err != nil {
		t.Fatalf("writing test input: %v", err)
	}
	return path
}

// readTestWAV decodes a mono WAV back into float32 samples.
func readTestWAV(t *testing.T, path string) []float32 {
	t.Helper()
	samples, rate, err := decodeWAV(path)
	if err != nil {
		t.Fatalf("decoding %s: %v", path, err)
	}
	if rate != testRate {
		t.Fatalf("decoded rate = %d, want %d", rate, testRate)
	}
	return samples
}

func TestWAVRoundTrip(t *testing.T) {
	in := make([]float32, 100)
	for i := range in {
		in[i] = float32(math.Sin(2 * math.Pi * float64(i) / 50))
	}
	path := writeTestWAV(t, in)
	out := readTestWAV(t, path)

	if len(out) != len(in) {
		t.Fatalf("round trip length = %d, want %d", len(out), len(in))
	}
	for i := range in {
		if math.Abs(float64(out[i]-in[i])) > 1.0/32000 {
			t.Fatalf("sample %d = %v, want %v within 16-bit precision", i, out[i], in[i])
		}
	}
}

func TestRenderFilePassthrough(t *testing.T) {
	in := make([]float32, 300)
	for i := range in {
		in[i] = 0.25
	}
	inPath := writeTestWAV(t, in)
	outPath := filepath.Join(t.TempDir(), "out.wav")

	if err := RenderFile(inPath, outPath, Options{}); err != nil {
		t.Fatalf("RenderFile failed: %v", err)
	}

	out := readTestWAV(t, outPath)
	if len(out) != len(in) {
		t.Fatalf("output length = %d, want %d", len(out), len(in))
	}
	for i := range out {
		if math.Abs(float64(out[i]-0.25)) > 1.0/32000 {
			t.Fatalf("sample %d = %v, want passthrough 0.25", i, out[i])
		}
	}
}

func TestRenderFileAppliesGain(t *testing.T) {
	in := make([]float32, 200)
	for i := range in {
		in[i] = 0.5
	}
	inPath := writeTestWAV(t, in)
	outPath := filepath.Join(t.TempDir(), "out.wav")

	if err := RenderFile(inPath, outPath, Options{OutputGain: 0.5}); err != nil {
		t.Fatalf("RenderFile failed: %v", err)
	}

	out := readTestWAV(t, outPath)
	for i := range out {
		if math.Abs(float64(out[i]-0.25)) > 1.0/32000 {
			t.Fatalf("sample %d = %v, want 0.25 after gain", i, out[i])
		}
	}
}

func TestRenderFileAppliesDelay(t *testing.T) {
	// Impulse input: the tail delay should shift it by a known offset.
	const delaySamples = 40
	in := make([]float32, 400)
	in[0] = 1.0
	inPath := writeTestWAV(t, in)
	outPath := filepath.Join(t.TempDir(), "out.wav")

	opts := Options{
		BlockSize:    64,
		DelaySeconds: float64(delaySamples) / testRate,
	}
	if err := RenderFile(inPath, outPath, opts); err != nil {
		t.Fatalf("RenderFile failed: %v", err)
	}

	out := readTestWAV(t, outPath)
	peak := 0
	for i := range out {
		if out[i] > out[peak] {
			peak = i
		}
	}
	if peak != delaySamples {
		t.Errorf("impulse peak at %d, want %d", peak, delaySamples)
	}
}

func TestRenderFileCombColorsSignal(t *testing.T) {
	// An impulse through a FIR comb produces a second impulse at the comb
	// delay, scaled by the gain.
	const combDelaySamples = 20
	in := make([]float32, 200)
	in[0] = 1.0
	inPath := writeTestWAV(t, in)
	outPath := filepath.Join(t.TempDir(), "out.wav")

	opts := Options{
		CombType:         synth.FIR,
		CombDelaySeconds: float64(combDelaySamples) / testRate,
		CombGain:         0.5,
	}
	if err := RenderFile(inPath, outPath, opts); err != nil {
		t.Fatalf("RenderFile failed: %v", err)
	}

	out := readTestWAV(t, outPath)
	if math.Abs(float64(out[combDelaySamples]-0.5)) > 1.0/16000 {
		t.Errorf("comb echo = %v at sample %d, want 0.5", out[combDelaySamples], combDelaySamples)
	}
}

func TestRenderFileRejectsUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.ogg")
	if err := os.WriteFile(path, []byte("not audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := RenderFile(path, filepath.Join(t.TempDir(), "out.wav"), Options{}); err == nil {
		t.Error("expected error for unsupported input format")
	}
}

func TestRenderVoice(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "voice.wav")
	gc := synth.GraphConfig{
		SampleRate:  testRate,
		BlockSize:   64,
		Wave:        synth.Sine,
		FrequencyHz: 220,
		OutputGain:  0.8,
	}
	if err := RenderVoice(outPath, gc, 0.5); err != nil {
		t.Fatalf("RenderVoice failed: %v", err)
	}

	out := readTestWAV(t, outPath)
	if want := testRate / 2; len(out) != want {
		t.Fatalf("rendered %d samples, want %d", len(out), want)
	}

	var energy float64
	for _, s := range out {
		energy += float64(s) * float64(s)
	}
	if energy == 0 {
		t.Error("rendered voice is silent")
	}
	for i, s := range out {
		if s > audio.MaxSample || s < audio.MinSample {
			t.Fatalf("sample %d = %v outside canonical range", i, s)
		}
	}
}

func TestRenderVoiceRejectsZeroDuration(t *testing.T) {
	if err := RenderVoice(filepath.Join(t.TempDir(), "x.wav"), synth.GraphConfig{}, 0); err == nil {
		t.Error("expected error for zero duration")
	}
}

func TestDecodeWAVSampleRatePreserved(t *testing.T) {
	path := writeTestWAV(t, make([]float32, 50))

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	d := wav.NewDecoder(f)
	if buf, err := d.FullPCMBuffer(); err != nil || buf.Format.SampleRate != testRate {
		t.Errorf("encoder wrote rate %v (err %v), want %d", buf.Format.SampleRate, err, testRate)
	}
}
