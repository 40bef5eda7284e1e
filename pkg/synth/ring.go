// ABOUTME: Circular sample buffer with fractional reads
// ABOUTME: Backs the delay, comb and vibrato stages
package synth

// Ring is a fixed-size circular sample buffer. Offset 0 reads the most
// recently written sample; larger offsets read further into the past.
type Ring struct {
	buf      []float32
	writePos int
}

// NewRing returns a ring holding size samples, minimum 1.
func NewRing(size int) *Ring {
	if size < 1 {
		size = 1
	}
	return &Ring{buf: make([]float32, size)}
}

// Len returns the ring capacity in samples.
func (r *Ring) Len() int {
	return len(r.buf)
}

// Write stores one sample and advances the write cursor.
func (r *Ring) Write(s float32) {
	r.buf[r.writePos] = s
	r.writePos++
	if r.writePos >= len(r.buf) {
		r.writePos = 0
	}
}

// Read returns the sample written offset steps ago. Offsets outside
// [0, Len()-1] are clamped.
func (r *Ring) Read(offset int) float32 {
	size := len(r.buf)
	if offset < 0 {
		offset = 0
	}
	if offset >= size {
		offset = size - 1
	}
	pos := r.writePos - 1 - offset
	if pos < 0 {
		pos += size
	}
	return r.buf[pos]
}

// ReadFractional returns a linearly interpolated sample at a fractional
// offset. Offsets are clamped to the interpolatable range.
func (r *Ring) ReadFractional(offset float64) float32 {
	if offset < 0 {
		offset = 0
	}
	max := float64(len(r.buf) - 2)
	if max < 0 {
		max = 0
	}
	if offset > max {
		offset = max
	}

	i := int(offset)
	frac := float32(offset - float64(i))
	if frac == 0 {
		return r.Read(i)
	}
	return r.Read(i)*(1-frac) + r.Read(i+1)*frac
}

// Reset zeroes the buffer and rewinds the write cursor.
func (r *Ring) Reset() {
	for i := range r.buf {
		r.buf[i] = 0
	}
	r.writePos = 0
}
