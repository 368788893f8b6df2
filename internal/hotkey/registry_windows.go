//go:build windows

package hotkey

import (
	"fmt"
	"runtime"
	"sync"
	"syscall"
	"time"
	"unsafe"
)

var (
	user32                = syscall.NewLazyDLL("user32.dll")
	procRegisterHotKey     = user32.NewProc("RegisterHotKey")
	procUnregisterHotKey   = user32.NewProc("UnregisterHotKey")
	procPeekMessageW       = user32.NewProc("PeekMessageW")
)

const (
	wmHotkey   = 0x0312
	pmRemove   = 0x0001
	pollPeriod = 8 * time.Millisecond
)

type win32Msg struct {
	Hwnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	PtX     int32
	PtY     int32
}

type regCmd struct {
	kind  int // 0=register, 1=unregister
	winID int
	mod   uint32
	vk    uint32
	reply chan error
}

const (
	cmdRegister = iota
	cmdUnregister
)

type bound struct {
	winID   int
	binding parsed
}

// Registry manages OS-level global hotkeys on a single thread affine to
// the RegisterHotKey/GetMessage calls, as Win32 requires. Dynamic
// register/unregister after startup is achieved by routing commands to
// that thread instead of blocking on GetMessageW, since new bindings
// must be added while the loop is already running.
type Registry struct {
	mu       sync.Mutex
	bound    map[string]bound
	nextID   int
	paused   map[string]Binding
	isPaused bool
	debug    bool

	events chan HotkeyPress
	cmds   chan regCmd
	quit   chan struct{}
}

// NewRegistry starts the hotkey message loop on its own locked OS thread
// and returns a Registry ready to accept Register calls.
func NewRegistry(debug bool) *Registry {
	r := &Registry{
		bound:  make(map[string]bound),
		paused: make(map[string]Binding),
		events: make(chan HotkeyPress, 8),
		cmds:   make(chan regCmd),
		quit:   make(chan struct{}),
		debug:  debug,
	}
	go r.loop()
	return r
}

// Events returns the channel on which HotkeyPress events are delivered.
func (r *Registry) Events() <-chan HotkeyPress { return r.events }

// Close stops the message loop and unregisters all active bindings.
func (r *Registry) Close() {
	close(r.quit)
}

func (r *Registry) loop() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	idToName := make(map[int]string)

	var msg win32Msg
	for {
		select {
		case <-r.quit:
			r.mu.Lock()
			for _, b := range r.bound {
				procUnregisterHotKey.Call(0, uintptr(b.winID))
			}
			r.mu.Unlock()
			return
		case cmd := <-r.cmds:
			switch cmd.kind {
			case cmdRegister:
				ret, _, _ := procRegisterHotKey.Call(0, uintptr(cmd.winID), uintptr(cmd.mod), uintptr(cmd.vk))
				if ret == 0 {
					cmd.reply <- fmt.Errorf("RegisterHotKey failed for id=%d mod=0x%X vk=0x%X", cmd.winID, cmd.mod, cmd.vk)
				} else {
					cmd.reply <- nil
				}
			case cmdUnregister:
				procUnregisterHotKey.Call(0, uintptr(cmd.winID))
				cmd.reply <- nil
			}
		default:
		}

		for {
			ret, _, _ := procPeekMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0, pmRemove)
			if ret == 0 {
				break
			}
			if msg.Message == wmHotkey {
				id := int(msg.WParam)
				r.mu.Lock()
				name := idToName[id]
				r.mu.Unlock()
				if name != "" {
					select {
					case r.events <- HotkeyPress{Name: name}:
					default:
						if r.debug {
							fmt.Println("[hotkey] event channel full, dropping press")
						}
					}
				}
			}
		}

		// Refresh id->name after any command processed this tick.
		r.mu.Lock()
		for name, b := range r.bound {
			idToName[b.winID] = name
		}
		r.mu.Unlock()

		time.Sleep(pollPeriod)
	}
}

func (r *Registry) call(kind int, winID int, mod, vk uint32) error {
	reply := make(chan error, 1)
	select {
	case r.cmds <- regCmd{kind: kind, winID: winID, mod: mod, vk: vk, reply: reply}:
	case <-time.After(2 * time.Second):
		return fmt.Errorf("hotkey registry command timed out")
	}
	select {
	case err := <-reply:
		return err
	case <-time.After(2 * time.Second):
		return fmt.Errorf("hotkey registry command timed out waiting for reply")
	}
}

// Register installs binding under the logical name. Re-registering an
// existing name registers the new binding first and unregisters the
// prior one only after that succeeds.
func (r *Registry) Register(name string, b Binding) error {
	p, err := parseRaw(string(b), false)
	if err != nil {
		return err
	}
	vk, err := vkFor(p.key)
	if err != nil {
		return &ErrInvalidBinding{Raw: string(b), Reason: err.Error()}
	}

	r.mu.Lock()
	prev, had := r.bound[name]
	id := r.nextID + 1
	r.nextID = id
	r.mu.Unlock()

	if err := r.call(cmdRegister, id, p.mask(), vk); err != nil {
		return err
	}

	r.mu.Lock()
	r.bound[name] = bound{winID: id, binding: p}
	r.mu.Unlock()

	if had {
		_ = r.call(cmdUnregister, prev.winID, 0, 0)
	}
	return nil
}

// Unregister removes the binding registered under name, if any.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	b, ok := r.bound[name]
	delete(r.bound, name)
	r.mu.Unlock()
	if !ok {
		return nil
	}
	return r.call(cmdUnregister, b.winID, 0, 0)
}

// Rebind registers newB before unregistering the binding previously held
// under name, so there is no observable window with nothing armed. On
// failure to register newB, the old binding remains active.
func (r *Registry) Rebind(name string, newB Binding) error {
	return r.Register(name, newB)
}

// Pause unregisters all active bindings so raw key events reach a
// capture-mode UI unambiguously, remembering them for Resume.
func (r *Registry) Pause() error {
	r.mu.Lock()
	if r.isPaused {
		r.mu.Unlock()
		return nil
	}
	r.isPaused = true
	snapshot := make(map[string]bound, len(r.bound))
	for name, b := range r.bound {
		snapshot[name] = b
		r.paused[name] = Binding(formatParsed(b.binding))
	}
	r.mu.Unlock()

	var firstErr error
	for name, b := range snapshot {
		if err := r.call(cmdUnregister, b.winID, 0, 0); err != nil && firstErr == nil {
			firstErr = err
		}
		r.mu.Lock()
		delete(r.bound, name)
		r.mu.Unlock()
	}
	return firstErr
}

// Resume re-registers the bindings captured by the most recent Pause.
func (r *Registry) Resume() error {
	r.mu.Lock()
	if !r.isPaused {
		r.mu.Unlock()
		return nil
	}
	r.isPaused = false
	toRestore := r.paused
	r.paused = make(map[string]Binding)
	r.mu.Unlock()

	var firstErr error
	for name, b := range toRestore {
		if err := r.Register(name, b); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
