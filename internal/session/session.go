// Package session implements the recording/transcription lifecycle
// FSM: the single place the program's four logical threads (main/UI,
// audio callback, inference worker, injection/post-processing) meet.
// Grounded on the teacher's internal/record/record.go (mutex-guarded
// State enum, Result-over-channel completion, Start/Stop/Cancel
// shape), generalized from a three-state recorder into the full
// six-state cycle and extended with the inference/injection stages
// the teacher's cloud-upload design never needed.
package session

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"scribe/internal/apperr"
	"scribe/internal/audio"
	"scribe/internal/config"
	"scribe/internal/history"
	"scribe/internal/hotkey"
	"scribe/internal/inference"
	"scribe/internal/micconditioner"
	"scribe/internal/notify"
	"scribe/internal/postprocess"
	"scribe/internal/textinjector"
)

// State is one of the six states in the recording lifecycle's strict
// cycle.
type State int32

const (
	StateIdle State = iota
	StateArming
	StateRecording
	StateFinalizing
	StateInjecting
	StateCancelling
)

func (st State) String() string {
	switch st {
	case StateIdle:
		return "idle"
	case StateArming:
		return "arming"
	case StateRecording:
		return "recording"
	case StateFinalizing:
		return "finalizing"
	case StateInjecting:
		return "injecting"
	case StateCancelling:
		return "cancelling"
	default:
		return "unknown"
	}
}

// armTimeout bounds Arming; missing it returns to Idle with an error.
const armTimeout = 250 * time.Millisecond

// minRecordingSeconds is the shortest Recording duration that still
// reaches Inference Engine; anything shorter terminates at Idle as
// TooShort, grounded on the original app's "Hold longer and speak.
// Minimum 0.5 seconds." notice.
const minRecordingSeconds = 0.5

// HotkeyRegistry is the subset of *hotkey.Registry the session needs,
// small enough that tests can substitute a fake without touching the
// real OS hotkey APIs.
type HotkeyRegistry interface {
	Events() <-chan hotkey.HotkeyPress
	Register(name string, b hotkey.Binding) error
	Unregister(name string) error
	Rebind(name string, newB hotkey.Binding) error
	Pause() error
	Resume() error
	Close()
}

// Engine is the subset of *inference.Engine the session needs.
type Engine interface {
	Load(desc inference.ModelDescriptor) error
	Cancel()
	Transcribe(pcm []float32, language string) (inference.Transcript, error)
}

// Injector is the subset of *textinjector.Injector the session needs.
type Injector interface {
	Inject(text string, mode textinjector.Mode) (textinjector.OutputMethod, error)
}

// Tones is the subset of *signaling.Player the session needs.
type Tones interface {
	PlayStart()
	PlayStop()
}

// Deps bundles every collaborator the session wires together.
type Deps struct {
	Hotkeys     HotkeyRegistry
	Capture     audio.Capture
	Ring        *audio.Ring
	Conditioner micconditioner.Conditioner
	Engine      Engine
	Injector    Injector
	History     *history.Log
	Tones       Tones
	Settings    config.Settings
}

type armOutcome struct {
	sessionID string
	err       error
}

type inferRequest struct {
	sessionID string
	pcm       []float32
	language  string
}

type inferResultMsg struct {
	sessionID  string
	transcript inference.Transcript
	err        error
}

type injectResultMsg struct {
	sessionID string
	err       error
}

// Session runs the FSM on its own goroutine (Start), owns the
// inference worker goroutine, and spawns a short-lived
// injection/post-processing goroutine per completed transcription.
// All cross-goroutine communication is by channel; no shared state is
// touched outside the FSM goroutine except through atomics or the
// collaborators' own concurrency discipline (Ring, Engine).
type Session struct {
	hotkeys     HotkeyRegistry
	capture     audio.Capture
	ring        *audio.Ring
	conditioner micconditioner.Conditioner
	engine      Engine
	injector    Injector
	history     *history.Log
	tones       Tones

	settings  atomic.Pointer[config.Settings]
	stateBits atomic.Int32

	onState func(State)

	inferReq    chan inferRequest
	inferResult chan inferResultMsg
	injectDone  chan injectResultMsg
	armResult   chan armOutcome

	quit chan struct{}
	wg   sync.WaitGroup

	// state and sessionID belong to the FSM goroutine only; no lock
	// is needed because only run's loop ever reads or writes them.
	state     State
	sessionID string
	armTimer  *time.Timer
}

// New wires the collaborators into a Session. Start must be called to
// begin running the FSM loop and the inference worker.
func New(d Deps) *Session {
	s := &Session{
		hotkeys:     d.Hotkeys,
		capture:     d.Capture,
		ring:        d.Ring,
		conditioner: d.Conditioner,
		engine:      d.Engine,
		injector:    d.Injector,
		history:     d.History,
		tones:       d.Tones,
		inferReq:    make(chan inferRequest, 1),
		inferResult: make(chan inferResultMsg, 1),
		injectDone:  make(chan injectResultMsg, 1),
		armResult:   make(chan armOutcome, 1),
		quit:        make(chan struct{}),
	}
	settings := d.Settings
	s.settings.Store(&settings)
	return s
}

// OnStateChange registers a callback invoked on every state
// transition, on the FSM goroutine. Meant for the overlay/tray UI
// bridge; must not block or call back into the Session.
func (s *Session) OnStateChange(fn func(State)) {
	s.onState = fn
}

// RegisterHotkeys installs the configured "main" binding and the
// fixed "escape" cancel binding. Escape bypasses the user-facing
// modifier-required validation (hotkey.ParseSystemKey) since it is
// not user-configurable.
func (s *Session) RegisterHotkeys() error {
	main, err := hotkey.Parse(s.Settings().Hotkey)
	if err != nil {
		return err
	}
	if err := s.hotkeys.Register("main", main); err != nil {
		return err
	}
	esc, err := hotkey.ParseSystemKey("Escape")
	if err != nil {
		return err
	}
	return s.hotkeys.Register("escape", esc)
}

// Start launches the inference worker and the FSM loop.
func (s *Session) Start() {
	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		s.inferenceWorker()
	}()
	go func() {
		defer s.wg.Done()
		s.run()
	}()
}

// Close stops the FSM loop and inference worker and waits for them to
// exit.
func (s *Session) Close() {
	close(s.quit)
	s.wg.Wait()
}

// State returns the current FSM state. Safe to call from any
// goroutine (e.g. the overlay's poll tick).
func (s *Session) State() State {
	return State(s.stateBits.Load())
}

// OverlayVisible reports whether the overlay should be shown, per
// invariant I4: visible exactly in {Arming, Recording, Finalizing}.
func (s *Session) OverlayVisible() bool {
	switch s.State() {
	case StateArming, StateRecording, StateFinalizing:
		return true
	default:
		return false
	}
}

// Level returns the most recent RMS reading for the overlay VU meter.
func (s *Session) Level() float32 {
	return s.ring.Level()
}

// Settings returns the current immutable settings snapshot.
func (s *Session) Settings() config.Settings {
	p := s.settings.Load()
	if p == nil {
		return config.Default()
	}
	return *p
}

// UpdateSettings publishes a new immutable settings snapshot. The FSM
// only reads through Settings() at transition edges, never through a
// shared mutable map.
func (s *Session) UpdateSettings(ns config.Settings) {
	s.settings.Store(&ns)
}

// SetHotkey parses, rebinds, and persists a new "main" binding.
// Rebind registers the new binding before unregistering the old one,
// so there is no observable window with nothing armed.
func (s *Session) SetHotkey(raw string) (string, error) {
	b, err := hotkey.Parse(raw)
	if err != nil {
		return "", err
	}
	if err := s.hotkeys.Rebind("main", b); err != nil {
		return "", err
	}
	ns := s.Settings()
	ns.Hotkey = string(b)
	s.UpdateSettings(ns)
	if err := ns.Save(); err != nil {
		notify.NotifyError(apperr.Resource, err.Error())
	}
	return string(b), nil
}

// PauseHotkeys unregisters the active bindings for capture-mode UI.
func (s *Session) PauseHotkeys() error { return s.hotkeys.Pause() }

// ResumeHotkeys re-registers the bindings captured by PauseHotkeys.
func (s *Session) ResumeHotkeys() error { return s.hotkeys.Resume() }

// SwitchModel cancels any in-flight transcription and atomically
// swaps the loaded model.
func (s *Session) SwitchModel(desc inference.ModelDescriptor) error {
	s.engine.Cancel()
	if err := s.engine.Load(desc); err != nil {
		return err
	}
	ns := s.Settings()
	ns.Model = desc.Name
	s.UpdateSettings(ns)
	return nil
}

func (s *Session) setState(st State) {
	s.state = st
	s.stateBits.Store(int32(st))
	if s.onState != nil {
		s.onState(st)
	}
}

func (s *Session) armTimerChan() <-chan time.Time {
	if s.armTimer == nil {
		return nil
	}
	return s.armTimer.C
}

func (s *Session) stopArmTimer() {
	if s.armTimer != nil {
		s.armTimer.Stop()
		s.armTimer = nil
	}
}

func (s *Session) inferenceWorker() {
	for {
		select {
		case <-s.quit:
			return
		case req := <-s.inferReq:
			t, err := s.engine.Transcribe(req.pcm, req.language)
			select {
			case s.inferResult <- inferResultMsg{sessionID: req.sessionID, transcript: t, err: err}:
			case <-s.quit:
				return
			}
		}
	}
}

func (s *Session) run() {
	for {
		select {
		case <-s.quit:
			return
		case press, ok := <-s.hotkeys.Events():
			if !ok {
				continue
			}
			s.handlePress(press)
		case <-s.armTimerChan():
			s.handleArmTimeout()
		case out := <-s.armResult:
			s.handleArmResult(out)
		case <-s.ring.CapSignal():
			s.handleCapSignal()
		case res := <-s.inferResult:
			s.handleInferResult(res)
		case done := <-s.injectDone:
			s.handleInjectDone(done)
		}
	}
}

func (s *Session) handlePress(press hotkey.HotkeyPress) {
	switch press.Name {
	case "main":
		s.handleMainPress()
	case "escape":
		s.handleEscapePress()
	}
}

// handleMainPress honors a press only from Idle (arm a new session)
// or Recording (stop and finalize); presses during Arming,
// Finalizing, Injecting, or Cancelling are dropped, not queued.
func (s *Session) handleMainPress() {
	switch s.state {
	case StateIdle:
		s.sessionID = uuid.New().String()
		id := s.sessionID
		s.ring.Reset()
		s.armTimer = time.NewTimer(armTimeout)
		s.setState(StateArming)
		go s.arm(id)
	case StateRecording:
		s.beginFinalizing()
	}
}

// handleEscapePress honors Escape only from Recording (discard,
// straight to Idle) or Finalizing (request cancellation of the
// in-flight decode); other states drop it.
func (s *Session) handleEscapePress() {
	switch s.state {
	case StateRecording:
		_ = s.capture.Stop()
		s.ring.Take()
		s.setState(StateCancelling)
		s.setState(StateIdle)
	case StateFinalizing:
		s.engine.Cancel()
		s.setState(StateCancelling)
	}
}

func (s *Session) handleCapSignal() {
	if s.state == StateRecording {
		s.beginFinalizing()
	}
}

func (s *Session) beginFinalizing() {
	_ = s.capture.Stop()
	pcm := s.ring.Take()
	if s.Settings().SoundEffects {
		s.tones.PlayStop()
	}

	switch {
	case len(pcm) == 0:
		notify.Notify("Scribe", "No audio was captured.")
		s.setState(StateIdle)
		return
	case float64(len(pcm))/float64(audio.SampleRate) < minRecordingSeconds:
		notify.Notify("Scribe", "Hold longer and speak. Minimum 0.5 seconds.")
		s.setState(StateIdle)
		return
	}

	s.setState(StateFinalizing)

	req := inferRequest{sessionID: s.sessionID, pcm: pcm, language: s.Settings().Language}
	select {
	case s.inferReq <- req:
	default:
		// At most one inference runs at a time, so the capacity-1
		// channel is always free here; this branch only guards
		// against a violation rather than blocking the FSM goroutine.
		notify.NotifyError(apperr.Fatal, "inference worker busy with a prior session")
	}
}

func (s *Session) arm(id string) {
	// A non-fatal warning: recording proceeds regardless of mic
	// conditioning outcome.
	_, _ = s.conditioner.Condition()
	if s.Settings().SoundEffects {
		s.tones.PlayStart()
	}
	err := s.capture.Start(s.ring)
	select {
	case s.armResult <- armOutcome{sessionID: id, err: err}:
	case <-s.quit:
	}
}

func (s *Session) handleArmTimeout() {
	if s.state != StateArming {
		return
	}
	s.armTimer = nil
	notify.NotifyError(apperr.Device, "arming timed out")
	s.setState(StateIdle)
}

func (s *Session) handleArmResult(out armOutcome) {
	if out.sessionID != s.sessionID || s.state != StateArming {
		if out.err == nil {
			// The arm attempt succeeded after this session was
			// already abandoned (timeout or a later press); stop the
			// stream it leaked rather than leaving it running.
			_ = s.capture.Stop()
		}
		return
	}
	s.stopArmTimer()
	if out.err != nil {
		notify.NotifyError(apperr.Device, out.err.Error())
		s.setState(StateIdle)
		return
	}
	s.setState(StateRecording)
}

func (s *Session) handleInferResult(res inferResultMsg) {
	if res.sessionID != s.sessionID {
		return
	}
	switch {
	case errors.Is(res.err, inference.ErrCancelled):
		s.setState(StateIdle)
	case res.err != nil:
		notify.NotifyError(apperr.Engine, res.err.Error())
		s.setState(StateIdle)
	default:
		if s.state == StateCancelling {
			// The decode finished successfully just as cancellation
			// was requested; a cancelled session is never injected
			// regardless.
			s.setState(StateIdle)
			return
		}
		if strings.TrimSpace(res.transcript.Text) == "" {
			notify.Notify("Scribe", "Try speaking louder or check your microphone.")
			s.setState(StateIdle)
			return
		}
		id := s.sessionID
		s.setState(StateInjecting)
		go s.runInjection(id, res.transcript)
	}
}

func (s *Session) handleInjectDone(done injectResultMsg) {
	if done.sessionID != s.sessionID {
		return
	}
	if done.err != nil {
		notify.NotifyError(apperr.Transient, done.err.Error())
	}
	s.setState(StateIdle)
}

// runInjection is the injection/post-processing thread: it runs off
// the FSM goroutine so a slow paste cannot stall hotkey handling.
func (s *Session) runInjection(id string, transcript inference.Transcript) {
	settings := s.Settings()
	language := settings.Language
	if language == "" || language == "auto" {
		language = transcript.DetectedLanguage
	}
	text := postprocess.Clean(transcript.Text, settings.FillerRemoval, language)

	entry := history.Entry{
		Text:            text,
		Language:        language,
		DurationSeconds: transcript.Duration,
		Timestamp:       time.Now().Unix(),
		Model:           settings.Model,
	}
	if err := s.history.Append(entry); err != nil {
		notify.NotifyError(apperr.Resource, err.Error())
	}

	mode := outputModeFor(settings.OutputMode)
	_, err := s.injector.Inject(text, mode)
	if err != nil {
		// Retry once, then report; the History entry above already
		// stands regardless of outcome.
		_, err = s.injector.Inject(text, mode)
	}

	select {
	case s.injectDone <- injectResultMsg{sessionID: id, err: err}:
	case <-s.quit:
	}
}

func outputModeFor(mode string) textinjector.Mode {
	switch mode {
	case config.OutputClipboardOnly:
		return textinjector.ModeClipboardOnly
	case config.OutputDirectTyping:
		return textinjector.ModeDirectTyping
	default:
		return textinjector.ModeClipboardPaste
	}
}
