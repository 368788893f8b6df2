// Package micconditioner detects a muted or near-silent default input
// device at Arming and attempts one corrective action.
package micconditioner

import "errors"

// Volume thresholds for the corrective action: below VolumeThreshold
// counts as near-silent and gets raised to DefaultVolume.
const (
	VolumeThreshold = 0.1
	DefaultVolume   = 0.8
)

// ErrMicUnavailable is returned when the device's mute/volume state
// cannot be queried or changed. The FSM treats this as a non-fatal
// warning; recording proceeds regardless.
var ErrMicUnavailable = errors.New("micconditioner: input device mute/volume query failed")

// Result reports what, if anything, was changed.
type Result struct {
	WasMuted        bool
	WasBelowThresh  bool
	UnmutedByUs     bool
	VolumeRaisedTo  float32 // zero if not raised
}

// Changed reports whether this conditioning pass altered device state.
func (r Result) Changed() bool { return r.UnmutedByUs || r.VolumeRaisedTo > 0 }

// Conditioner queries and corrects the default input device's mute
// state and master volume.
type Conditioner interface {
	Condition() (Result, error)
}

// decide is the pure policy shared by every backend: given the queried
// mute state and volume, what correction (if any) should be applied.
// Kept free of COM/syscall so it can be tested without a real device.
func decide(muted bool, volume float32) (wantUnmute bool, wantVolume float32) {
	if muted {
		wantUnmute = true
	}
	if volume < VolumeThreshold {
		wantVolume = DefaultVolume
	}
	return wantUnmute, wantVolume
}
