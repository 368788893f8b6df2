//go:build windows

package signaling

import (
	"runtime"
	"syscall"
	"unsafe"
)

var (
	winmm          = syscall.NewLazyDLL("winmm.dll")
	procPlaySoundA = winmm.NewProc("PlaySoundA")
)

const (
	sndASYNC     = 0x0001
	sndMEMORY    = 0x0004
	sndNODEFAULT = 0x0002
)

// Player plays pre-synthesized tones without blocking the caller.
type Player struct {
	tones *Tones
}

// New builds a Player from freshly synthesized tones.
func New() (*Player, error) {
	tones, err := NewTones()
	if err != nil {
		return nil, err
	}
	return &Player{tones: tones}, nil
}

// PlayStart fires the start tone and returns immediately.
func (p *Player) PlayStart() {
	playBuffer(p.tones.Start)
}

// PlayStop fires the stop tone and returns immediately.
func (p *Player) PlayStop() {
	playBuffer(p.tones.Stop)
}

// playBuffer plays a WAV byte buffer from memory. PlaySoundA (not the
// wide variant) is used deliberately: SND_MEMORY treats the pointer
// as a raw byte pointer to the RIFF data, and a PCWSTR-typed call
// would misinterpret that layout (grounded on
// _examples/original_source/src-tauri/src/sounds.rs's play_wav, which
// notes the same constraint).
func playBuffer(data []byte) {
	if len(data) == 0 {
		return
	}
	if err := validateWav(data); err != nil {
		return
	}
	ptr := unsafe.Pointer(&data[0])
	// PlaySoundA does not copy synchronously under SND_ASYNC until
	// playback is queued; keep the buffer alive until after the call
	// returns via KeepAlive.
	procPlaySoundA.Call(uintptr(ptr), 0, uintptr(sndASYNC|sndMEMORY|sndNODEFAULT))
	runtime.KeepAlive(data)
}
