package session

import (
	"errors"
	"testing"
	"time"

	"scribe/internal/audio"
	"scribe/internal/config"
	"scribe/internal/history"
	"scribe/internal/hotkey"
	"scribe/internal/inference"
	"scribe/internal/micconditioner"
	"scribe/internal/textinjector"
)

type fakeHotkeys struct {
	events    chan hotkey.HotkeyPress
	rebound   []hotkey.Binding
	rebindErr error
}

func newFakeHotkeys() *fakeHotkeys {
	return &fakeHotkeys{events: make(chan hotkey.HotkeyPress, 4)}
}

func (f *fakeHotkeys) Events() <-chan hotkey.HotkeyPress { return f.events }
func (f *fakeHotkeys) Register(name string, b hotkey.Binding) error { return nil }
func (f *fakeHotkeys) Unregister(name string) error                 { return nil }
func (f *fakeHotkeys) Rebind(name string, newB hotkey.Binding) error {
	if f.rebindErr != nil {
		return f.rebindErr
	}
	f.rebound = append(f.rebound, newB)
	return nil
}
func (f *fakeHotkeys) Pause() error  { return nil }
func (f *fakeHotkeys) Resume() error { return nil }
func (f *fakeHotkeys) Close()        {}

func (f *fakeHotkeys) press(name string) { f.events <- hotkey.HotkeyPress{Name: name} }

type fakeCapture struct {
	startErr error
	samples  []float32
	stopped  int
}

func (c *fakeCapture) Start(ring *audio.Ring) error {
	if c.startErr != nil {
		return c.startErr
	}
	if len(c.samples) > 0 {
		ring.Append(c.samples)
	}
	return nil
}

func (c *fakeCapture) Stop() error {
	c.stopped++
	return nil
}

type fakeEngine struct {
	transcript  inference.Transcript
	err         error
	block       chan struct{} // if non-nil, Transcribe waits on it or on cancel
	cancelled   chan struct{}
	cancelCalls int
}

func (e *fakeEngine) Load(desc inference.ModelDescriptor) error { return nil }

func (e *fakeEngine) Cancel() {
	e.cancelCalls++
	if e.cancelled != nil {
		select {
		case <-e.cancelled:
		default:
			close(e.cancelled)
		}
	}
}

func (e *fakeEngine) Transcribe(pcm []float32, language string) (inference.Transcript, error) {
	if e.block != nil {
		select {
		case <-e.block:
			return e.transcript, e.err
		case <-e.cancelled:
			return inference.Transcript{}, inference.ErrCancelled
		}
	}
	return e.transcript, e.err
}

type fakeInjector struct {
	calls []string
	err   error
	fails int // number of leading calls that fail before succeeding
}

func (in *fakeInjector) Inject(text string, mode textinjector.Mode) (textinjector.OutputMethod, error) {
	in.calls = append(in.calls, text)
	if len(in.calls) <= in.fails {
		return 0, errors.New("transient failure")
	}
	return textinjector.MethodClipboardPaste, in.err
}

type fakeTones struct{ started, stopped int }

func (t *fakeTones) PlayStart() { t.started++ }
func (t *fakeTones) PlayStop()  { t.stopped++ }

func newTestSession(t *testing.T) (*Session, *fakeHotkeys, *fakeCapture, *fakeEngine, *fakeInjector) {
	t.Helper()
	hk := newFakeHotkeys()
	capt := &fakeCapture{samples: make([]float32, 19200)} // 1.2 s at 16 kHz, above minRecordingSeconds
	eng := &fakeEngine{transcript: inference.Transcript{Text: "hello world", DetectedLanguage: "en", Duration: 1.2}}
	inj := &fakeInjector{}

	s := New(Deps{
		Hotkeys:     hk,
		Capture:     capt,
		Ring:        audio.NewRing(),
		Conditioner: micconditioner.New(),
		Engine:      eng,
		Injector:    inj,
		History:     history.Load(),
		Tones:       &fakeTones{},
		Settings:    config.Default(),
	})
	s.Start()
	t.Cleanup(s.Close)
	return s, hk, capt, eng, inj
}

func waitForState(t *testing.T, s *Session, want State, timeout time.Duration) {
	t.Helper()
	deadline := time.After(timeout)
	ticker := time.NewTicker(2 * time.Millisecond)
	defer ticker.Stop()
	for {
		if s.State() == want {
			return
		}
		select {
		case <-ticker.C:
		case <-deadline:
			t.Fatalf("state = %v, want %v (timed out)", s.State(), want)
		}
	}
}

func TestHelloWorldHappyPath(t *testing.T) {
	s, hk, _, _, inj := newTestSession(t)

	hk.press("main")
	waitForState(t, s, StateRecording, time.Second)

	hk.press("main")
	waitForState(t, s, StateIdle, time.Second)

	if len(inj.calls) != 1 {
		t.Fatalf("injector called %d times, want 1", len(inj.calls))
	}
	if inj.calls[0] != "Hello world." {
		t.Fatalf("injected text = %q", inj.calls[0])
	}
	entries := s.history.List()
	if len(entries) != 1 || entries[0].Text != "Hello world." {
		t.Fatalf("history = %+v", entries)
	}
}

func TestEscapeBeforeSpeakingDiscardsSession(t *testing.T) {
	s, hk, _, _, inj := newTestSession(t)

	hk.press("main")
	waitForState(t, s, StateRecording, time.Second)

	hk.press("escape")
	waitForState(t, s, StateIdle, time.Second)

	if len(inj.calls) != 0 {
		t.Fatalf("injector should not have been called, got %v", inj.calls)
	}
	if len(s.history.List()) != 0 {
		t.Fatal("history should be empty after a cancelled session")
	}
}

func TestCapSignalTriggersFinalizingWithoutSecondPress(t *testing.T) {
	s, hk, _, _, _ := newTestSession(t)

	hk.press("main")
	waitForState(t, s, StateRecording, time.Second)

	// Simulate the audio callback thread filling the ring to capacity.
	s.ring.Reset()
	s.ring.Append(make([]float32, audio.MaxSamples))

	waitForState(t, s, StateIdle, time.Second)
}

func TestSetHotkeyRebindsAndPersistsNormalizedForm(t *testing.T) {
	s, hk, _, _, _ := newTestSession(t)

	got, err := s.SetHotkey("ctrl+alt+d")
	if err != nil {
		t.Fatalf("SetHotkey error: %v", err)
	}
	if got != "Ctrl+Alt+D" {
		t.Fatalf("got %q, want normalized Ctrl+Alt+D", got)
	}
	if len(hk.rebound) != 1 || string(hk.rebound[0]) != "Ctrl+Alt+D" {
		t.Fatalf("rebound = %v", hk.rebound)
	}
	if s.Settings().Hotkey != "Ctrl+Alt+D" {
		t.Fatalf("settings hotkey = %q", s.Settings().Hotkey)
	}
}

func TestModelSwitchCancelsInFlightTranscription(t *testing.T) {
	hk := newFakeHotkeys()
	capt := &fakeCapture{samples: make([]float32, audio.SampleRate)} // 1 s, above minRecordingSeconds
	eng := &fakeEngine{block: make(chan struct{}), cancelled: make(chan struct{})}
	inj := &fakeInjector{}

	s := New(Deps{
		Hotkeys:     hk,
		Capture:     capt,
		Ring:        audio.NewRing(),
		Conditioner: micconditioner.New(),
		Engine:      eng,
		Injector:    inj,
		History:     history.Load(),
		Tones:       &fakeTones{},
		Settings:    config.Default(),
	})
	s.Start()
	defer s.Close()

	hk.press("main")
	waitForState(t, s, StateRecording, time.Second)
	hk.press("main")
	waitForState(t, s, StateFinalizing, time.Second)

	if err := s.SwitchModel(inference.ModelDescriptor{Name: "small.en"}); err != nil {
		t.Fatalf("SwitchModel error: %v", err)
	}

	waitForState(t, s, StateIdle, time.Second)
	if len(inj.calls) != 0 {
		t.Fatal("a cancelled transcription must not reach the injector")
	}
	if s.Settings().Model != "small.en" {
		t.Fatalf("settings model = %q, want small.en", s.Settings().Model)
	}
}
