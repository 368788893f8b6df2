package audio

import "errors"

// ErrDeviceUnavailable is returned by Start when the default input
// device cannot be opened; the FSM treats it as a Device-kind error.
var ErrDeviceUnavailable = errors.New("audio: input device unavailable")

// Capture is the platform audio capture backend. Start begins writing
// samples into ring on the audio subsystem's own callback thread; Stop
// halts the stream. Concrete implementations live in capture_windows.go
// and capture_stub.go.
type Capture interface {
	Start(ring *Ring) error
	Stop() error
}
