package audio

// linearResampler converts a mono stream from one fixed sample rate to
// another via linear interpolation, carrying fractional phase and the
// last input sample across calls so successive blocks from the same
// callback stream resample as one continuous signal instead of
// clicking at block boundaries.
type linearResampler struct {
	ratio float64 // inRate / outRate
	pos   float64 // next output sample's position, in input samples, relative to the start of the pending block; can be negative when it still refers to prev
	prev  float32
	out   []float32
}

// newLinearResampler builds a resampler for a fixed inRate->outRate
// conversion. Returns nil if the rates already match, since callers
// should skip resampling entirely in that case.
func newLinearResampler(inRate, outRate int) *linearResampler {
	if inRate == outRate || inRate <= 0 || outRate <= 0 {
		return nil
	}
	return &linearResampler{ratio: float64(inRate) / float64(outRate)}
}

// Process resamples in and returns the result in a buffer owned by the
// resampler, valid until the next call. A sample that falls in the gap
// between this call and the last is held back and emitted on the next
// call once the following block's first sample is known, rather than
// guessed from this block alone.
func (r *linearResampler) Process(in []float32) []float32 {
	r.out = r.out[:0]
	n := len(in)
	for {
		idx := r.pos
		if idx < 0 {
			if n == 0 {
				break
			}
			frac := idx + 1
			r.out = append(r.out, r.prev+float32(frac)*(in[0]-r.prev))
			r.pos += r.ratio
			continue
		}
		lo := int(idx)
		if lo+1 >= n {
			break
		}
		frac := idx - float64(lo)
		r.out = append(r.out, in[lo]+float32(frac)*(in[lo+1]-in[lo]))
		r.pos += r.ratio
	}
	if n > 0 {
		r.prev = in[n-1]
	}
	r.pos -= float64(n)
	return r.out
}
