// ABOUTME: Lock-free parameter store for live-tunable values
// ABOUTME: Control goroutines write, the audio context reads, neither blocks
package synth

import (
	"math"
	"sync/atomic"
)

// Parameter names accepted by Params.Set and Params.Get.
const (
	ParamDelaySeconds = "delay_seconds"
	ParamFeedbackGain = "feedback_gain"
	ParamFrequencyHz  = "frequency_hz"
	ParamModFreqHz    = "mod_freq_hz"
	ParamModDepth     = "mod_depth"
	ParamOutputGain   = "output_gain"
)

// MaxFrequencyHz bounds the oscillator frequency parameter.
const MaxFrequencyHz = 20000.0

// MaxFeedbackGain keeps the IIR comb stage stable.
const MaxFeedbackGain = 0.99

// MaxModFreqHz bounds the vibrato LFO rate.
const MaxModFreqHz = 20.0

// param is a single value slot. Writes clamp and publish atomically, so
// the audio context never observes a torn or out-of-range value.
type param struct {
	bits atomic.Uint64
	min  float64
	max  float64
}

func (p *param) set(v float64) {
	if v < p.min {
		v = p.min
	}
	if v > p.max {
		v = p.max
	}
	p.bits.Store(math.Float64bits(v))
}

func (p *param) get() float64 {
	return math.Float64frombits(p.bits.Load())
}

// Params holds the live-tunable values of one signal graph. The slot map
// is immutable after construction; only slot values change.
type Params struct {
	slots map[string]*param
	names []string
}

// NewParams creates a parameter store with ranges derived from the graph
// limits. Initial values are mid-of-the-road defaults; callers normally
// overwrite them from GraphConfig right after construction.
func NewParams(maxDelaySeconds, maxModDepthSeconds float64) *Params {
	ps := &Params{slots: make(map[string]*param)}

	add := func(name string, min, max, initial float64) {
		p := &param{min: min, max: max}
		p.set(initial)
		ps.slots[name] = p
		ps.names = append(ps.names, name)
	}

	add(ParamDelaySeconds, 0, maxDelaySeconds, 0)
	add(ParamFeedbackGain, 0, MaxFeedbackGain, 0)
	add(ParamFrequencyHz, 0, MaxFrequencyHz, 440)
	add(ParamModFreqHz, 0, MaxModFreqHz, 5)
	add(ParamModDepth, 0, maxModDepthSeconds, 0)
	add(ParamOutputGain, 0, 1, 0.8)

	return ps
}

// Set stores a value, clamping it to the parameter's valid range. It is
// callable from any goroutine and never blocks the audio context. The
// return value reports whether the name is a known parameter; audio
// control must never fail audibly, so unknown names are simply ignored.
func (ps *Params) Set(name string, value float64) bool {
	p, ok := ps.slots[name]
	if !ok {
		return false
	}
	p.set(value)
	return true
}

// Get returns the most recently committed value for name, or 0 for an
// unknown name. Safe to call from the audio context.
func (ps *Params) Get(name string) float64 {
	p, ok := ps.slots[name]
	if !ok {
		return 0
	}
	return p.get()
}

// Names returns the fixed parameter set in registration order.
func (ps *Params) Names() []string {
	out := make([]string, len(ps.names))
	copy(out, ps.names)
	return out
}
