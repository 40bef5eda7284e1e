// ABOUTME: Signal graph wiring oscillator, comb, vibrato, delay and gain
// ABOUTME: Fixed topology at construction, block-wise real-time processing
package synth

import "github.com/Warble-Audio/warble-go/pkg/audio"

// Defaults applied by NewGraph when GraphConfig fields are zero.
const (
	DefaultSampleRate      = 44100
	DefaultBlockSize       = 512
	DefaultMaxDelaySeconds = 1.0
	DefaultMaxModDepth     = 0.02
	DefaultOutputGain      = 0.8
	DefaultFrequencyHz     = 440.0
)

// CombConfig enables the optional comb filter stage.
type CombConfig struct {
	Type         FilterType
	DelaySeconds float64 // fixed comb delay, default 0.05
	Gain         float64 // initial feedback_gain
}

// GraphConfig fixes the graph topology and limits. Only parameter values
// change after construction.
type GraphConfig struct {
	SampleRate int
	BlockSize  int

	Wave        Waveform
	FrequencyHz float64

	MaxDelaySeconds float64
	DelaySeconds    float64 // initial delay_seconds
	OutputGain      float64 // initial output_gain

	Comb *CombConfig // nil disables the comb stage

	EnableVibrato      bool
	MaxModDepthSeconds float64
	ModFreqHz          float64 // initial mod_freq_hz
	ModDepthSeconds    float64 // initial mod_depth
}

// withDefaults fills zero fields without mutating the caller's config.
func (c GraphConfig) withDefaults() GraphConfig {
	if c.SampleRate <= 0 {
		c.SampleRate = DefaultSampleRate
	}
	if c.BlockSize <= 0 {
		c.BlockSize = DefaultBlockSize
	}
	if c.FrequencyHz <= 0 {
		c.FrequencyHz = DefaultFrequencyHz
	}
	if c.MaxDelaySeconds <= 0 {
		c.MaxDelaySeconds = DefaultMaxDelaySeconds
	}
	if c.MaxModDepthSeconds <= 0 {
		c.MaxModDepthSeconds = DefaultMaxModDepth
	}
	if c.OutputGain <= 0 {
		c.OutputGain = DefaultOutputGain
	}
	if c.Comb != nil && c.Comb.DelaySeconds <= 0 {
		comb := *c.Comb
		comb.DelaySeconds = 0.05
		c.Comb = &comb
	}
	return c
}

// Graph is one voice: a fixed stage pipeline plus its parameter store.
// Each stage owns its internal state exclusively.
type Graph struct {
	cfg    GraphConfig
	params *Params

	osc     *Oscillator
	comb    *CombFilter
	vibrato *Vibrato
	delay   *DelayLine
}

// NewGraph builds the pipeline described by cfg and resets all stage
// state. The returned graph is ready for ProcessBlock.
func NewGraph(cfg GraphConfig) *Graph {
	cfg = cfg.withDefaults()

	g := &Graph{
		cfg:    cfg,
		params: NewParams(cfg.MaxDelaySeconds, cfg.MaxModDepthSeconds),
		osc:    NewOscillator(cfg.Wave, cfg.SampleRate),
		delay:  NewDelayLine(cfg.MaxDelaySeconds, cfg.SampleRate),
	}
	if cfg.Comb != nil {
		g.comb = NewCombFilter(cfg.Comb.Type, cfg.Comb.DelaySeconds, cfg.SampleRate)
		g.params.Set(ParamFeedbackGain, cfg.Comb.Gain)
	}
	if cfg.EnableVibrato {
		g.vibrato = NewVibrato(cfg.MaxModDepthSeconds, cfg.SampleRate)
		g.params.Set(ParamModFreqHz, cfg.ModFreqHz)
		g.params.Set(ParamModDepth, cfg.ModDepthSeconds)
	}

	g.params.Set(ParamFrequencyHz, cfg.FrequencyHz)
	g.params.Set(ParamDelaySeconds, cfg.DelaySeconds)
	g.params.Set(ParamOutputGain, cfg.OutputGain)

	g.Reset()
	return g
}

// Params returns the graph's parameter store.
func (g *Graph) Params() *Params {
	return g.params
}

// SampleRate returns the configured sample rate.
func (g *Graph) SampleRate() int {
	return g.cfg.SampleRate
}

// BlockSize returns the configured block length in samples.
func (g *Graph) BlockSize() int {
	return g.cfg.BlockSize
}

// Reset reinitializes all stage state: oscillator and LFO phases go to
// zero and every delay ring is cleared.
func (g *Graph) Reset() {
	g.osc.Reset()
	g.delay.Reset()
	if g.comb != nil {
		g.comb.Reset()
	}
	if g.vibrato != nil {
		g.vibrato.Reset()
	}
}

// ProcessBlock fills out with the next block of samples. It observes
// parameter values once at the start of the block and performs no
// allocation, locking or I/O, so it is safe on the real-time path.
func (g *Graph) ProcessBlock(out []float32) {
	freq := g.params.Get(ParamFrequencyHz)
	delaySec := g.params.Get(ParamDelaySeconds)
	gain := float32(g.params.Get(ParamOutputGain))

	for i := range out {
		out[i] = g.osc.Next(freq)
	}

	if g.comb != nil {
		g.comb.ProcessBlock(out, g.params.Get(ParamFeedbackGain))
	}
	if g.vibrato != nil {
		g.vibrato.ProcessBlock(out, g.params.Get(ParamModFreqHz), g.params.Get(ParamModDepth))
	}
	g.delay.ProcessBlock(out, delaySec)

	for i := range out {
		out[i] = audio.Clamp(out[i] * gain)
	}
}
