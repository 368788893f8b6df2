//go:build windows

package audio

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// PortAudioCapture opens the default input device via PortAudio and
// streams callback-delivered blocks straight into a Ring. Grounded on
// the teacher's internal/record/record.go, restructured around a true
// callback (portaudio's function-argument stream form) rather than the
// teacher's polling Read loop, so the ring append genuinely happens on
// the OS audio subsystem's own thread rather than a polling goroutine.
type PortAudioCapture struct {
	mu     sync.Mutex
	stream *portaudio.Stream
	// downmix is reused across callbacks; allocated once in Start, never
	// on the callback path.
	downmix []float32
	// resampler converts the device's native rate to SampleRate; nil
	// when the device already delivers SampleRate directly.
	resampler *linearResampler
}

// NewCapture returns the Windows PortAudio-backed capture implementation.
func NewCapture() *PortAudioCapture {
	return &PortAudioCapture{}
}

// Start clears ring and begins the input stream. The stream is opened
// at the device's own native rate rather than demanding SampleRate
// from PortAudio, so devices that can't deliver 16 kHz directly still
// work: channel downmix and sample-rate conversion to 16 kHz mono both
// happen in-process, in the callback, before the block reaches the
// ring.
func (c *PortAudioCapture) Start(ring *Ring) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	ring.Reset()

	host, err := portaudio.DefaultHostApi()
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	dev := host.DefaultInputDevice
	if dev == nil {
		portaudio.Terminate()
		return fmt.Errorf("%w: no default input device", ErrDeviceUnavailable)
	}

	channels := dev.MaxInputChannels
	if channels < 1 {
		channels = 1
	}
	if channels > 2 {
		channels = 2
	}
	if channels > 1 {
		c.downmix = make([]float32, 0, 4096)
	}

	nativeRate := int(dev.DefaultSampleRate)
	if nativeRate <= 0 {
		nativeRate = SampleRate
	}
	c.resampler = newLinearResampler(nativeRate, SampleRate)

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   dev,
			Channels: channels,
			Latency:  dev.DefaultLowInputLatency,
		},
		SampleRate:      float64(nativeRate),
		FramesPerBuffer: portaudio.FramesPerBufferUnspecified,
	}

	deliver := func(mono []float32) {
		if c.resampler != nil {
			mono = c.resampler.Process(mono)
			if len(mono) == 0 {
				return
			}
		}
		ring.Append(mono)
		ring.UpdateLevel(mono)
	}

	var cb func([]float32)
	if channels == 1 {
		cb = func(in []float32) {
			deliver(in)
		}
	} else {
		cb = func(in []float32) {
			frames := len(in) / channels
			if cap(c.downmix) < frames {
				// Capacity was sized for a typical block in Start; a
				// larger block here would allocate, which the hot path
				// must avoid. Truncate instead of growing.
				frames = cap(c.downmix)
			}
			mono := c.downmix[:frames]
			for i := 0; i < frames; i++ {
				var sum float32
				for ch := 0; ch < channels; ch++ {
					sum += in[i*channels+ch]
				}
				mono[i] = sum / float32(channels)
			}
			deliver(mono)
		}
	}

	stream, err := portaudio.OpenStream(params, cb)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	c.mu.Lock()
	c.stream = stream
	c.mu.Unlock()
	return nil
}

// Stop halts and closes the stream. Safe to call even if Start failed.
func (c *PortAudioCapture) Stop() error {
	c.mu.Lock()
	stream := c.stream
	c.stream = nil
	c.mu.Unlock()

	if stream == nil {
		return nil
	}
	stopErr := stream.Stop()
	closeErr := stream.Close()
	portaudio.Terminate()
	if stopErr != nil {
		return stopErr
	}
	return closeErr
}
