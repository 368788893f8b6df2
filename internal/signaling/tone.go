// Package signaling synthesizes the start/stop tones and plays them
// through a non-blocking OS call that returns without waiting for
// playback to finish.
package signaling

import (
	"bytes"
	"errors"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const sampleRate = 44100

// startTone/stopTone parameters: 800Hz/600Hz, 80ms each. The linear
// fade-in/fade-out envelope shape is adopted from
// _examples/original_source/src-tauri/src/sounds.rs's envelope()
// (that file's own frequency/duration numbers, 880/440 Hz and
// 120/150 ms, are overridden here — see DESIGN.md).
const (
	startFreqHz    = 800.0
	stopFreqHz     = 600.0
	toneDurationMs = 80
	fadeMs         = 8
	amplitude      = 0.3
)

// seekableBuffer is an in-memory io.WriteSeeker; wav.Encoder needs to
// seek back and patch chunk-size fields at Close, which a plain
// bytes.Buffer cannot do.
type seekableBuffer struct {
	buf []byte
	pos int
}

func (s *seekableBuffer) Write(p []byte) (int, error) {
	end := s.pos + len(p)
	if end > len(s.buf) {
		grown := make([]byte, end)
		copy(grown, s.buf)
		s.buf = grown
	}
	copy(s.buf[s.pos:end], p)
	s.pos = end
	return len(p), nil
}

func (s *seekableBuffer) Seek(offset int64, whence int) (int64, error) {
	var newPos int64
	switch whence {
	case 0:
		newPos = offset
	case 1:
		newPos = int64(s.pos) + offset
	case 2:
		newPos = int64(len(s.buf)) + offset
	default:
		return 0, errors.New("seekableBuffer: invalid whence")
	}
	if newPos < 0 {
		return 0, errors.New("seekableBuffer: negative seek position")
	}
	s.pos = int(newPos)
	return newPos, nil
}

// generateTone renders a mono 16-bit PCM WAV buffer: a sine wave at
// freqHz for durationMs milliseconds, with a linear fade-in and
// fade-out of fadeMs each to avoid a click at the boundaries.
func generateTone(freqHz float64, durationMs, fadeMs int, amplitude float64) ([]byte, error) {
	numSamples := sampleRate * durationMs / 1000
	ints := make([]int, numSamples)

	durationSecs := float64(durationMs) / 1000
	fadeSecs := float64(fadeMs) / 1000

	for i := 0; i < numSamples; i++ {
		t := float64(i) / sampleRate
		env := envelope(t, durationSecs, fadeSecs, fadeSecs)
		sample := amplitude * env * math.Sin(2*math.Pi*freqHz*t)
		ints[i] = int(clamp(sample*32767, -32768, 32767))
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           ints,
		SourceBitDepth: 16,
	}

	dst := &seekableBuffer{}
	enc := wav.NewEncoder(dst, sampleRate, 16, 1, 1)
	if err := enc.Write(buf); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return dst.buf, nil
}

// envelope is a linear fade-in/sustain/fade-out multiplier in [0,1].
func envelope(t, duration, fadeIn, fadeOut float64) float64 {
	switch {
	case t < fadeIn:
		return t / fadeIn
	case t > duration-fadeOut:
		return (duration - t) / fadeOut
	default:
		return 1
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Tones holds the pre-generated WAV buffers for the start and stop
// sounds, built once at startup.
type Tones struct {
	Start []byte
	Stop  []byte
}

// NewTones synthesizes the start and stop tones.
func NewTones() (*Tones, error) {
	start, err := generateTone(startFreqHz, toneDurationMs, fadeMs, amplitude)
	if err != nil {
		return nil, err
	}
	stop, err := generateTone(stopFreqHz, toneDurationMs, fadeMs, amplitude)
	if err != nil {
		return nil, err
	}
	return &Tones{Start: start, Stop: stop}, nil
}

var errEmptyBuffer = errors.New("signaling: empty tone buffer")

func validateWav(data []byte) error {
	if len(data) < 44 || !bytes.Equal(data[0:4], []byte("RIFF")) {
		return errEmptyBuffer
	}
	return nil
}
