// ABOUTME: Offline renderer applying the effect chain to audio files
// ABOUTME: Decodes WAV or MP3 input and writes processed mono WAV output
package render

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	mp3 "github.com/hajimehoshi/go-mp3"

	"github.com/Warble-Audio/warble-go/pkg/audio"
	"github.com/Warble-Audio/warble-go/pkg/synth"
)

// Options configures one offline render.
type Options struct {
	BlockSize int // samples per processing block, default 512

	// Comb stage, enabled when CombGain is non-zero.
	CombType         synth.FilterType
	CombDelaySeconds float64
	CombGain         float64

	// Vibrato stage, enabled when ModDepthSeconds is non-zero.
	ModFreqHz       float64
	ModDepthSeconds float64

	// Tail delay stage.
	DelaySeconds float64

	OutputGain float64 // default 1.0
}

func (o *Options) withDefaults() {
	if o.BlockSize <= 0 {
		o.BlockSize = synth.DefaultBlockSize
	}
	if o.OutputGain == 0 {
		o.OutputGain = 1.0
	}
	if o.CombGain != 0 && o.CombDelaySeconds <= 0 {
		o.CombDelaySeconds = 0.05
	}
}

// chain is the offline stage pipeline. Unlike the live graph it runs
// with fixed parameter values for the whole render.
type chain struct {
	opts    Options
	comb    *synth.CombFilter
	vibrato *synth.Vibrato
	delay   *synth.DelayLine
}

func newChain(opts Options, sampleRate int) *chain {
	c := &chain{opts: opts}
	if opts.CombGain != 0 {
		c.comb = synth.NewCombFilter(opts.CombType, opts.CombDelaySeconds, sampleRate)
	}
	if opts.ModDepthSeconds != 0 {
		c.vibrato = synth.NewVibrato(opts.ModDepthSeconds, sampleRate)
	}
	if opts.DelaySeconds > 0 {
		c.delay = synth.NewDelayLine(opts.DelaySeconds, sampleRate)
	}
	return c
}

func (c *chain) processBlock(buf []float32) {
	if c.comb != nil {
		c.comb.ProcessBlock(buf, c.opts.CombGain)
	}
	if c.vibrato != nil {
		c.vibrato.ProcessBlock(buf, c.opts.ModFreqHz, c.opts.ModDepthSeconds)
	}
	if c.delay != nil {
		c.delay.ProcessBlock(buf, c.opts.DelaySeconds)
	}
	gain := float32(c.opts.OutputGain)
	for i := range buf {
		buf[i] = audio.Clamp(buf[i] * gain)
	}
}

// RenderFile decodes inPath, runs the effect chain over it and writes a
// mono 16-bit WAV to outPath. WAV and MP3 inputs are supported; multi-
// channel input is mixed down to mono before processing.
func RenderFile(inPath, outPath string, opts Options) error {
	opts.withDefaults()

	samples, sampleRate, err := decodeFile(inPath)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", inPath, err)
	}
	log.Printf("Rendering %s: %d samples at %d Hz", filepath.Base(inPath), len(samples), sampleRate)

	c := newChain(opts, sampleRate)
	for start := 0; start < len(samples); start += opts.BlockSize {
		end := start + opts.BlockSize
		if end > len(samples) {
			end = len(samples)
		}
		c.processBlock(samples[start:end])
	}

	return writeWAV(outPath, samples, sampleRate)
}

// RenderVoice generates seconds of a synth voice offline and writes it
// as a mono 16-bit WAV. The voice runs through the same graph the live
// engine uses.
func RenderVoice(outPath string, gc synth.GraphConfig, seconds float64) error {
	if seconds <= 0 {
		return errors.New("render duration must be positive")
	}

	g := synth.NewGraph(gc)
	total := int(seconds * float64(g.SampleRate()))
	samples := make([]float32, total)

	block := make([]float32, g.BlockSize())
	for start := 0; start < total; start += len(block) {
		g.ProcessBlock(block)
		copy(samples[start:], block)
	}

	return writeWAV(outPath, samples, g.SampleRate())
}

// decodeFile reads a WAV or MP3 file into normalized mono float32
// samples, selecting the decoder by file extension.
func decodeFile(path string) ([]float32, int, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return decodeWAV(path)
	case ".mp3":
		return decodeMP3(path)
	default:
		return nil, 0, fmt.Errorf("unsupported input format: %s", filepath.Ext(path))
	}
}

func decodeWAV(path string) ([]float32, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("reading PCM data: %w", err)
	}
	if buf.Format == nil || buf.Format.NumChannels == 0 {
		return nil, 0, errors.New("missing WAV format information")
	}

	channels := buf.Format.NumChannels
	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = 16
	}
	scale := float32(int64(1) << (bitDepth - 1))

	frames := len(buf.Data) / channels
	samples := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for ch := 0; ch < channels; ch++ {
			sum += float32(buf.Data[i*channels+ch]) / scale
		}
		samples[i] = sum / float32(channels)
	}
	return samples, buf.Format.SampleRate, nil
}

func decodeMP3(path string) ([]float32, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	d, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, 0, fmt.Errorf("creating mp3 decoder: %w", err)
	}

	// go-mp3 always produces interleaved stereo int16 little-endian.
	var samples []float32
	buf := make([]byte, 8192)
	for {
		n, err := d.Read(buf)
		for i := 0; i+3 < n; i += 4 {
			left := int16(uint16(buf[i]) | uint16(buf[i+1])<<8)
			right := int16(uint16(buf[i+2]) | uint16(buf[i+3])<<8)
			mixed := (audio.SampleFromInt16(left) + audio.SampleFromInt16(right)) / 2
			samples = append(samples, mixed)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("mp3 decode error: %w", err)
		}
	}
	return samples, d.SampleRate(), nil
}

// writeWAV writes mono float32 samples as 16-bit PCM.
func writeWAV(path string, samples []float32, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(audio.SampleToInt16(s))
	}
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("writing PCM data: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalizing WAV: %w", err)
	}
	return f.Close()
}
