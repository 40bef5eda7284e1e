// ABOUTME: Vibrato stage built from an LFO-modulated fractional delay tap
// ABOUTME: Reads the delay line at a position swept by a low-frequency sine
package synth

import "math"

// LFO is a low-frequency sine oscillator used for parameter modulation.
// Phase wraps into [0, 1) every tick, same as the audio oscillator.
type LFO struct {
	sampleRate float64
	phase      float64
}

// NewLFO creates an LFO at the given sample rate.
func NewLFO(sampleRate int) *LFO {
	return &LFO{sampleRate: float64(sampleRate)}
}

// Reset rewinds the LFO phase.
func (l *LFO) Reset() {
	l.phase = 0
}

// Next advances the LFO by one sample at freqHz and returns a value in
// [-1, +1].
func (l *LFO) Next(freqHz float64) float64 {
	v := math.Sin(2 * math.Pi * l.phase)
	l.phase = wrapPhase(l.phase + freqHz/l.sampleRate)
	return v
}

// Vibrato modulates a fractional delay tap with a sine LFO. The tap
// position is depth·(1 + sin), so a depth of zero passes the signal
// through untouched and the average delay equals the depth.
type Vibrato struct {
	ring       *Ring
	lfo        *LFO
	sampleRate float64
	maxDepth   float64 // samples
}

// NewVibrato creates a vibrato stage with modulation depth of up to
// maxDepthSeconds at the given sample rate.
func NewVibrato(maxDepthSeconds float64, sampleRate int) *Vibrato {
	maxDepth := maxDepthSeconds * float64(sampleRate)
	if maxDepth < 0 {
		maxDepth = 0
	}
	// Tap sweeps up to 2·depth; +2 for interpolation headroom.
	return &Vibrato{
		ring:       NewRing(int(2*maxDepth) + 2),
		lfo:        NewLFO(sampleRate),
		sampleRate: float64(sampleRate),
		maxDepth:   maxDepth,
	}
}

// Reset zeroes the delay line and LFO phase.
func (v *Vibrato) Reset() {
	v.ring.Reset()
	v.lfo.Reset()
}

// ProcessBlock applies vibrato to buf in place. modFreqHz and
// depthSeconds are trusted to be pre-clamped by the parameter store.
func (v *Vibrato) ProcessBlock(buf []float32, modFreqHz, depthSeconds float64) {
	depth := depthSeconds * v.sampleRate
	if depth < 0 {
		depth = 0
	}
	if depth > v.maxDepth {
		depth = v.maxDepth
	}

	if depth == 0 {
		// Keep the line warm so enabling the depth later is seamless.
		for i := range buf {
			v.ring.Write(buf[i])
		}
		return
	}

	for i := range buf {
		mod := v.lfo.Next(modFreqHz)
		tap := depth * (1 + mod)
		v.ring.Write(buf[i])
		buf[i] = v.ring.ReadFractional(tap)
	}
}
