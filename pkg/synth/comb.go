// ABOUTME: Comb filter stage in FIR and IIR topologies
// ABOUTME: Adds a gain-scaled copy of the signal delayed by a fixed offset
package synth

// FilterType selects the comb topology.
type FilterType int

const (
	// FIR feeds the dry input back into the delay line:
	// y[n] = x[n] + g·x[n-D]
	FIR FilterType = iota
	// IIR feeds the output back into the delay line:
	// y[n] = x[n] + g·y[n-D]
	IIR
)

// String returns the filter type name.
func (t FilterType) String() string {
	if t == IIR {
		return "iir"
	}
	return "fir"
}

// ParseFilterType maps a name to a FilterType, defaulting to FIR.
func ParseFilterType(name string) FilterType {
	if name == "iir" {
		return IIR
	}
	return FIR
}

// CombFilter is a comb stage with a delay offset fixed at construction
// and a live feedback gain. The gain is trusted to be pre-clamped below
// 1 by the parameter store, which keeps the IIR topology stable.
type CombFilter struct {
	typ     FilterType
	ring    *Ring
	samples int
}

// NewCombFilter creates a comb filter delaying by delaySeconds at the
// given sample rate. Delays shorter than one sample are stretched to one.
func NewCombFilter(typ FilterType, delaySeconds float64, sampleRate int) *CombFilter {
	samples := int(delaySeconds * float64(sampleRate))
	if samples < 1 {
		samples = 1
	}
	return &CombFilter{
		typ:     typ,
		ring:    NewRing(samples + 1),
		samples: samples,
	}
}

// DelaySamples returns the fixed comb delay in samples.
func (c *CombFilter) DelaySamples() int {
	return c.samples
}

// Reset zeroes the delay line.
func (c *CombFilter) Reset() {
	c.ring.Reset()
}

// ProcessBlock filters buf in place with the given feedback gain.
func (c *CombFilter) ProcessBlock(buf []float32, gain float64) {
	g := float32(gain)
	for i := range buf {
		x := buf[i]
		delayed := c.ring.Read(c.samples - 1)
		y := x + g*delayed

		if c.typ == FIR {
			c.ring.Write(x)
		} else {
			c.ring.Write(y)
		}
		buf[i] = y
	}
}
