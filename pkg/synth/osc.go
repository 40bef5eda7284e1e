// ABOUTME: Waveform oscillator source stage
// ABOUTME: Sine, square, saw, triangle and blip generators with bounded phase
package synth

import "math"

// Waveform selects the oscillator shape.
type Waveform int

const (
	Sine Waveform = iota
	Square
	Saw
	Triangle
	// Blip is a gated square pulse: one short burst per second with a
	// quartic decay envelope.
	Blip
)

// String returns the waveform name.
func (w Waveform) String() string {
	switch w {
	case Sine:
		return "sine"
	case Square:
		return "square"
	case Saw:
		return "saw"
	case Triangle:
		return "triangle"
	case Blip:
		return "blip"
	}
	return "unknown"
}

// ParseWaveform maps a name to a Waveform, defaulting to Sine.
func ParseWaveform(name string) Waveform {
	switch name {
	case "square":
		return Square
	case "saw":
		return Saw
	case "triangle":
		return Triangle
	case "blip":
		return Blip
	}
	return Sine
}

const blipBurstDuration = 1.0 / 8.0 // seconds of audible pulse per gate cycle

// Oscillator produces one periodic waveform sample per tick. Phase is
// kept in [0, 1) by wrapping every tick, so it never accumulates
// floating-point error over long runs.
type Oscillator struct {
	wave       Waveform
	sampleRate float64
	phase      float64 // tone phase, [0, 1)
	gatePhase  float64 // blip gate phase at 1 Hz, [0, 1)
}

// NewOscillator creates an oscillator at the given sample rate.
func NewOscillator(wave Waveform, sampleRate int) *Oscillator {
	return &Oscillator{wave: wave, sampleRate: float64(sampleRate)}
}

// Reset rewinds all phase accumulators.
func (o *Oscillator) Reset() {
	o.phase = 0
	o.gatePhase = 0
}

// Phase returns the current tone phase in [0, 1).
func (o *Oscillator) Phase() float64 {
	return o.phase
}

// Next advances the oscillator by one sample at the given frequency and
// returns the produced sample.
func (o *Oscillator) Next(freqHz float64) float32 {
	var s float32
	switch o.wave {
	case Sine:
		s = float32(math.Sin(2 * math.Pi * o.phase))
	case Square:
		if o.phase < 0.5 {
			s = 1
		} else {
			s = -1
		}
	case Saw:
		s = float32(2*o.phase - 1)
	case Triangle:
		if o.phase < 0.5 {
			s = float32(4*o.phase - 1)
		} else {
			s = float32(3 - 4*o.phase)
		}
	case Blip:
		s = o.blip()
	}

	o.phase = wrapPhase(o.phase + freqHz/o.sampleRate)
	if o.wave == Blip {
		o.gatePhase = wrapPhase(o.gatePhase + 1/o.sampleRate)
	}
	return s
}

// blip produces the gated square burst: the tone phase supplies the
// square carrier, the 1 Hz gate phase supplies the decay envelope.
func (o *Oscillator) blip() float32 {
	var sqr float32 = -1
	if o.phase < 0.5 {
		sqr = 1
	}
	if o.gatePhase > blipBurstDuration {
		return 0
	}
	env := math.Pow(1-o.gatePhase/blipBurstDuration, 4)
	return sqr * float32(env)
}

// wrapPhase folds a phase accumulator back into [0, 1).
func wrapPhase(p float64) float64 {
	for p >= 1 {
		p -= 1
	}
	for p < 0 {
		p += 1
	}
	return p
}
