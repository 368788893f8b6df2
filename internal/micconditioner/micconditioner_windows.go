//go:build windows

package micconditioner

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// COM interfaces involved in querying the default audio endpoint's
// mute/volume state. No example repo in the retrieval pack touches
// Core Audio COM interfaces, so this is built directly on
// golang.org/x/sys/windows's GUID/IUnknown/CoCreateInstance primitives
// rather than adapted from a pack file (see DESIGN.md).
var (
	clsidMMDeviceEnumerator = windows.GUID{Data1: 0xBCDE0395, Data2: 0xE52F, Data3: 0x467C, Data4: [8]byte{0x8E, 0x3D, 0xC4, 0x57, 0x92, 0x91, 0x69, 0x2E}}
	iidIMMDeviceEnumerator  = windows.GUID{Data1: 0xA95664D2, Data2: 0x9614, Data3: 0x4F35, Data4: [8]byte{0xA7, 0x46, 0xDE, 0x8D, 0xB6, 0x36, 0x17, 0xE6}}
	iidIAudioEndpointVolume = windows.GUID{Data1: 0x5CDF2C82, Data2: 0x841E, Data3: 0x4546, Data4: [8]byte{0x97, 0x22, 0x0C, 0xF7, 0x40, 0x78, 0x22, 0x9A}}
)

const (
	eRender  = 0
	eCapture = 1
	eConsole = 0
	clsctxAll = 23
)

// comObject is a thin vtable-call helper shared by every interface we
// touch below; each interface's methods live at a fixed vtable slot
// index past the three IUnknown slots.
type comObject struct {
	vtbl uintptr
	self uintptr
}

func wrap(p uintptr) comObject {
	return comObject{vtbl: *(*uintptr)(unsafe.Pointer(p)), self: p}
}

func (o comObject) call(slot int, args ...uintptr) (uintptr, error) {
	fn := *(*uintptr)(unsafe.Pointer(o.vtbl + uintptr(slot)*unsafe.Sizeof(uintptr(0))))
	all := append([]uintptr{o.self}, args...)
	ret, _, _ := syscallN(fn, all...)
	if int32(ret) < 0 {
		return ret, fmt.Errorf("COM call failed, HRESULT=0x%X", uint32(ret))
	}
	return ret, nil
}

func (o comObject) release() {
	fn := *(*uintptr)(unsafe.Pointer(o.vtbl + 2*unsafe.Sizeof(uintptr(0))))
	syscallN(fn, o.self)
}

// Core implements Conditioner by walking IMMDeviceEnumerator ->
// default capture IMMDevice -> IAudioEndpointVolume, exactly the
// activation chain WASAPI clients use to reach per-device volume.
type Core struct{}

// New returns the Windows Core Audio backed Conditioner.
func New() *Core { return &Core{} }

func (c *Core) Condition() (Result, error) {
	// CoInitializeEx returns S_FALSE (no error value in this binding) when
	// COM was already initialized on this thread by another component;
	// only a genuine failure HRESULT surfaces as a non-nil err here.
	_ = windows.CoInitializeEx(0, windows.COINIT_MULTITHREADED)
	defer windows.CoUninitialize()

	var enumeratorPtr uintptr
	if err := windows.CoCreateInstance(
		&clsidMMDeviceEnumerator, nil, clsctxAll, &iidIMMDeviceEnumerator,
		(**windows.IUnknown)(unsafe.Pointer(&enumeratorPtr)),
	); err != nil {
		return Result{}, fmt.Errorf("%w: CoCreateInstance: %v", ErrMicUnavailable, err)
	}
	enumerator := wrap(enumeratorPtr)
	defer enumerator.release()

	var devicePtr uintptr
	// IMMDeviceEnumerator::GetDefaultAudioEndpoint is vtable slot 4.
	if _, err := enumerator.call(4, uintptr(eCapture), uintptr(eConsole), uintptr(unsafe.Pointer(&devicePtr))); err != nil {
		return Result{}, fmt.Errorf("%w: GetDefaultAudioEndpoint: %v", ErrMicUnavailable, err)
	}
	device := wrap(devicePtr)
	defer device.release()

	var volPtr uintptr
	// IMMDevice::Activate is vtable slot 3.
	if _, err := device.call(3, uintptr(unsafe.Pointer(&iidIAudioEndpointVolume)), uintptr(clsctxAll), 0, uintptr(unsafe.Pointer(&volPtr))); err != nil {
		return Result{}, fmt.Errorf("%w: Activate(IAudioEndpointVolume): %v", ErrMicUnavailable, err)
	}
	vol := wrap(volPtr)
	defer vol.release()

	var muted int32
	// IAudioEndpointVolume::GetMute is vtable slot 15.
	if _, err := vol.call(15, uintptr(unsafe.Pointer(&muted))); err != nil {
		return Result{}, fmt.Errorf("%w: GetMute: %v", ErrMicUnavailable, err)
	}

	var level float32
	// IAudioEndpointVolume::GetMasterVolumeLevelScalar is vtable slot 9.
	if _, err := vol.call(9, uintptr(unsafe.Pointer(&level))); err != nil {
		return Result{}, fmt.Errorf("%w: GetMasterVolumeLevelScalar: %v", ErrMicUnavailable, err)
	}

	wantUnmute, wantVolume := decide(muted != 0, level)
	res := Result{WasMuted: muted != 0, WasBelowThresh: wantVolume > 0}

	if wantUnmute {
		// IAudioEndpointVolume::SetMute is vtable slot 14.
		if _, err := vol.call(14, 0, 0); err != nil {
			return res, fmt.Errorf("%w: SetMute: %v", ErrMicUnavailable, err)
		}
		res.UnmutedByUs = true
	}
	if wantVolume > 0 {
		// IAudioEndpointVolume::SetMasterVolumeLevelScalar is vtable slot 7.
		bits := *(*uint32)(unsafe.Pointer(&wantVolume))
		if _, err := vol.call(7, uintptr(bits), 0); err != nil {
			return res, fmt.Errorf("%w: SetMasterVolumeLevelScalar: %v", ErrMicUnavailable, err)
		}
		res.VolumeRaisedTo = wantVolume
	}
	return res, nil
}
