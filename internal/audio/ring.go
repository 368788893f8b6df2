// Package audio implements the lock-free PCM ring and the platform
// audio capture backend.
package audio

import (
	"math"
	"sync/atomic"
)

const (
	// SampleRate is the fixed capture rate; all downstream components
	// (ring, inference) assume 16 kHz mono f32.
	SampleRate = 16000
	// MaxSeconds is the hard cap on one Recording Session.
	MaxSeconds = 65
	// MaxSamples is the Ring's fixed capacity: 65 * 16000.
	MaxSamples = SampleRate * MaxSeconds
)

// Ring is a single-producer/single-consumer append-only buffer of f32
// samples, pre-allocated to MaxSamples. The producer (audio callback
// thread) calls Append and UpdateLevel; the consumer (Session FSM) calls
// Take on Stop. length is written with release ordering by the producer
// and read with acquire ordering by the consumer; Go's sync/atomic
// provides sequentially-consistent ordering, a strictly stronger
// guarantee than a release/acquire pairing needs, so no additional
// fencing is required.
type Ring struct {
	buf        []float32
	length     atomic.Int64
	rmsBits    atomic.Uint32
	capReached atomic.Bool
	capSignal  chan struct{}
}

// NewRing allocates a ring at full capacity. Allocation happens once,
// here, never on the audio callback thread.
func NewRing() *Ring {
	return &Ring{
		buf:       make([]float32, MaxSamples),
		capSignal: make(chan struct{}, 1),
	}
}

// Reset clears the ring for a new Recording Session. Called by the FSM
// before Start, never from the callback thread.
func (r *Ring) Reset() {
	r.length.Store(0)
	r.capReached.Store(false)
	select {
	case <-r.capSignal:
	default:
	}
}

// Append writes samples to the ring. If remaining capacity is exhausted,
// the excess is dropped and CapSignal fires exactly once per session.
// Must not allocate: callers on the audio callback thread depend on this.
func (r *Ring) Append(samples []float32) {
	cur := int(r.length.Load())
	remaining := MaxSamples - cur
	if remaining <= 0 {
		r.signalCapOnce()
		return
	}
	n := len(samples)
	if n > remaining {
		n = remaining
	}
	copy(r.buf[cur:cur+n], samples[:n])
	r.length.Store(int64(cur + n))
	if cur+n >= MaxSamples {
		r.signalCapOnce()
	}
}

func (r *Ring) signalCapOnce() {
	if r.capReached.CompareAndSwap(false, true) {
		select {
		case r.capSignal <- struct{}{}:
		default:
		}
	}
}

// CapSignal fires once when the ring has reached MaxSamples for the
// current session, driving the FSM's automatic Recording->Finalizing
// transition.
func (r *Ring) CapSignal() <-chan struct{} { return r.capSignal }

// UpdateLevel computes the RMS of block and stores it in the relaxed
// atomic cell. Must not allocate.
func (r *Ring) UpdateLevel(block []float32) {
	if len(block) == 0 {
		return
	}
	var sumSq float64
	for _, s := range block {
		sumSq += float64(s) * float64(s)
	}
	rms := float32(math.Sqrt(sumSq / float64(len(block))))
	r.rmsBits.Store(math.Float32bits(rms))
}

// Level returns the most recently published RMS value. Tolerates
// staleness (relaxed read); callers poll it on their own cadence for
// a live level overlay.
func (r *Ring) Level() float32 {
	return math.Float32frombits(r.rmsBits.Load())
}

// Take returns the slice [0:len) by copy and resets the ring. Called on
// the consumer side (FSM) only, at session Stop.
func (r *Ring) Take() []float32 {
	n := int(r.length.Load())
	out := make([]float32, n)
	copy(out, r.buf[:n])
	r.Reset()
	return out
}

// Len reports the current valid sample count.
func (r *Ring) Len() int { return int(r.length.Load()) }
