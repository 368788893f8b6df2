// Package textinjector delivers a finished transcript to the
// foreground window via clipboard paste, clipboard-only, or direct
// character typing.
package textinjector

import (
	"errors"
	"time"
)

// OutputMethod reports which delivery method actually ran, which can
// differ from the configured mode when a long-transcript downgrade
// applies.
type OutputMethod int

const (
	MethodClipboardPaste OutputMethod = iota
	MethodClipboardOnly
	MethodDirectTyping
)

// Mode mirrors config.Settings.OutputMode's three values without
// importing the config package, keeping this package standalone.
type Mode int

const (
	ModeClipboardPaste Mode = iota
	ModeClipboardOnly
	ModeDirectTyping
)

// directTypingCodePointLimit: transcripts longer than this are
// downgraded from direct_typing to clipboard_only for latency.
const directTypingCodePointLimit = 1000

var (
	ErrClipboardBusy   = errors.New("textinjector: clipboard acquisition failed")
	ErrInjectionFailed = errors.New("textinjector: synthetic input failed")
)

// Clipboard abstracts system clipboard access so tests can substitute
// a fake without touching the real OS clipboard.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// Typer abstracts synthetic keyboard input.
type Typer interface {
	Paste() error         // Ctrl+V into the foreground window
	TypeChar(r rune) error // one character into the foreground window
}

// Injector wires a Clipboard and Typer backend to the three output
// modes. Grounded on the teacher's internal/clipboard/clipboard_windows.go
// (save/write/paste/restore with settle delays), extended with a
// direct_typing mode and explicit mode selection in place of the
// original's always-paste-first fallback chain (see DESIGN.md).
type Injector struct {
	clipboard Clipboard
	typer     Typer

	// settleBeforePaste/settleAfterPaste are the teacher's 80ms/120ms
	// delays, overridable by tests.
	settleBeforePaste time.Duration
	settleAfterPaste  time.Duration
	typeDelay         time.Duration
}

func newInjector(c Clipboard, t Typer) *Injector {
	return &Injector{
		clipboard:         c,
		typer:             t,
		settleBeforePaste: 80 * time.Millisecond,
		settleAfterPaste:  120 * time.Millisecond,
		typeDelay:         10 * time.Millisecond,
	}
}

// Inject delivers text according to mode, returning the method that
// actually ran (which may differ from mode under the long-transcript
// downgrade) and any failure.
func (in *Injector) Inject(text string, mode Mode) (OutputMethod, error) {
	if mode == ModeDirectTyping && len([]rune(text)) > directTypingCodePointLimit {
		mode = ModeClipboardOnly
	}

	switch mode {
	case ModeClipboardOnly:
		if err := in.clipboard.WriteAll(text); err != nil {
			return MethodClipboardOnly, ErrClipboardBusy
		}
		return MethodClipboardOnly, nil

	case ModeDirectTyping:
		for _, r := range text {
			if err := in.typer.TypeChar(r); err != nil {
				return MethodDirectTyping, ErrInjectionFailed
			}
			time.Sleep(in.typeDelay)
		}
		return MethodDirectTyping, nil

	default: // ModeClipboardPaste
		return in.clipboardPaste(text)
	}
}

// clipboardPaste saves the current clipboard, writes text, pastes it,
// and restores the saved contents — unless the clipboard changed
// between the write and the restore, in which case restoring would
// clobber whatever the user (or another app) just placed there; that
// race is resolved by skipping the restore, the conservative choice.
func (in *Injector) clipboardPaste(text string) (OutputMethod, error) {
	orig, hadOrig := "", true
	if v, err := in.clipboard.ReadAll(); err != nil {
		hadOrig = false
	} else {
		orig = v
	}

	if err := in.clipboard.WriteAll(text); err != nil {
		return MethodClipboardPaste, ErrClipboardBusy
	}

	time.Sleep(in.settleBeforePaste)

	if err := in.typer.Paste(); err != nil {
		return MethodClipboardPaste, ErrInjectionFailed
	}

	time.Sleep(in.settleAfterPaste)

	if !hadOrig {
		return MethodClipboardPaste, nil
	}
	if current, err := in.clipboard.ReadAll(); err != nil || current != text {
		return MethodClipboardPaste, nil
	}
	_ = in.clipboard.WriteAll(orig)
	return MethodClipboardPaste, nil
}
