// ABOUTME: Pure delay line stage with live-adjustable delay time
// ABOUTME: Slews the read offset across each block to avoid clicks
package synth

// DelayLine time-shifts its input by a live-adjustable number of samples.
// When the delay parameter changes between blocks the read offset is
// linearly slewed from the old value to the new one across the block, so
// a change never produces a discontinuity larger than one sample step.
// A stable delay time is sample-exact.
type DelayLine struct {
	ring       *Ring
	sampleRate float64
	maxSamples float64
	offset     float64 // current read offset in samples
	primed     bool
}

// NewDelayLine creates a delay line able to delay by up to
// maxDelaySeconds at the given sample rate.
func NewDelayLine(maxDelaySeconds float64, sampleRate int) *DelayLine {
	maxSamples := maxDelaySeconds * float64(sampleRate)
	if maxSamples < 0 {
		maxSamples = 0
	}
	// +2 leaves headroom for the interpolated read.
	return &DelayLine{
		ring:       NewRing(int(maxSamples) + 2),
		sampleRate: float64(sampleRate),
		maxSamples: maxSamples,
	}
}

// Reset zeroes the buffer. The next block adopts its delay target
// immediately instead of slewing from stale state.
func (d *DelayLine) Reset() {
	d.ring.Reset()
	d.offset = 0
	d.primed = false
}

// ProcessBlock delays buf in place, moving toward delaySeconds across
// the block. delaySeconds is trusted to be pre-clamped by the parameter
// store; the stage only guards its own buffer bounds.
func (d *DelayLine) ProcessBlock(buf []float32, delaySeconds float64) {
	target := delaySeconds * d.sampleRate
	if target < 0 {
		target = 0
	}
	if target > d.maxSamples {
		target = d.maxSamples
	}

	if !d.primed {
		d.offset = target
		d.primed = true
	}

	step := (target - d.offset) / float64(len(buf))
	for i := range buf {
		d.ring.Write(buf[i])
		d.offset += step
		buf[i] = d.ring.ReadFractional(d.offset)
	}
	// Pin to the target so slew error cannot accumulate across blocks.
	d.offset = target
}
