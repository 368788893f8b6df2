package textinjector

import (
	"errors"
	"strings"
	"testing"
)

type fakeClipboard struct {
	contents string
	readErr  error
	writeErr error
}

func (f *fakeClipboard) ReadAll() (string, error) {
	if f.readErr != nil {
		return "", f.readErr
	}
	return f.contents, nil
}

func (f *fakeClipboard) WriteAll(text string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.contents = text
	return nil
}

type fakeTyper struct {
	pasteErr error
	typed    []rune
	typeErr  error
	onPaste  func()
}

func (f *fakeTyper) Paste() error {
	if f.onPaste != nil {
		f.onPaste()
	}
	return f.pasteErr
}

func (f *fakeTyper) TypeChar(r rune) error {
	if f.typeErr != nil {
		return f.typeErr
	}
	f.typed = append(f.typed, r)
	return nil
}

func fastInjector(c Clipboard, t Typer) *Injector {
	in := newInjector(c, t)
	in.settleBeforePaste = 0
	in.settleAfterPaste = 0
	in.typeDelay = 0
	return in
}

func TestClipboardPasteRestoresOriginal(t *testing.T) {
	clip := &fakeClipboard{contents: "original"}
	typer := &fakeTyper{}
	in := fastInjector(clip, typer)

	method, err := in.Inject("transcript", ModeClipboardPaste)
	if err != nil {
		t.Fatalf("Inject error: %v", err)
	}
	if method != MethodClipboardPaste {
		t.Fatalf("method = %v, want MethodClipboardPaste", method)
	}
	if clip.contents != "original" {
		t.Fatalf("clipboard = %q, want restored to %q", clip.contents, "original")
	}
}

func TestClipboardPasteSkipsRestoreIfClipboardChanged(t *testing.T) {
	clip := &fakeClipboard{contents: "original"}
	// Simulate another app/user changing the clipboard between the
	// paste and the restore.
	typer := &fakeTyper{onPaste: func() { clip.contents = "interloper" }}
	in := fastInjector(clip, typer)

	method, err := in.Inject("transcript", ModeClipboardPaste)
	if err != nil {
		t.Fatalf("Inject error: %v", err)
	}
	if method != MethodClipboardPaste {
		t.Fatalf("method = %v", method)
	}
	if clip.contents != "interloper" {
		t.Fatalf("clipboard = %q, want left as %q (restore skipped)", clip.contents, "interloper")
	}
}

func TestClipboardOnlyDoesNotPasteOrRestore(t *testing.T) {
	clip := &fakeClipboard{contents: "original"}
	typer := &fakeTyper{}
	in := fastInjector(clip, typer)

	method, err := in.Inject("transcript", ModeClipboardOnly)
	if err != nil {
		t.Fatalf("Inject error: %v", err)
	}
	if method != MethodClipboardOnly {
		t.Fatalf("method = %v, want MethodClipboardOnly", method)
	}
	if clip.contents != "transcript" {
		t.Fatalf("clipboard = %q, want %q", clip.contents, "transcript")
	}
}

func TestDirectTypingTypesEachRune(t *testing.T) {
	clip := &fakeClipboard{}
	typer := &fakeTyper{}
	in := fastInjector(clip, typer)

	method, err := in.Inject("hi", ModeDirectTyping)
	if err != nil {
		t.Fatalf("Inject error: %v", err)
	}
	if method != MethodDirectTyping {
		t.Fatalf("method = %v, want MethodDirectTyping", method)
	}
	if string(typer.typed) != "hi" {
		t.Fatalf("typed = %q, want %q", string(typer.typed), "hi")
	}
}

func TestLongTranscriptDowngradesDirectTypingToClipboardOnly(t *testing.T) {
	clip := &fakeClipboard{}
	typer := &fakeTyper{}
	in := fastInjector(clip, typer)

	long := strings.Repeat("a", directTypingCodePointLimit+1)
	method, err := in.Inject(long, ModeDirectTyping)
	if err != nil {
		t.Fatalf("Inject error: %v", err)
	}
	if method != MethodClipboardOnly {
		t.Fatalf("method = %v, want MethodClipboardOnly (downgrade)", method)
	}
	if len(typer.typed) != 0 {
		t.Fatalf("typer should not have been used after downgrade")
	}
	if clip.contents != long {
		t.Fatalf("clipboard should hold the full transcript after downgrade")
	}
}

func TestClipboardWriteFailureReturnsClipboardBusy(t *testing.T) {
	clip := &fakeClipboard{writeErr: errors.New("busy")}
	typer := &fakeTyper{}
	in := fastInjector(clip, typer)

	_, err := in.Inject("x", ModeClipboardOnly)
	if !errors.Is(err, ErrClipboardBusy) {
		t.Fatalf("err = %v, want ErrClipboardBusy", err)
	}
}

func TestPasteFailureReturnsInjectionFailed(t *testing.T) {
	clip := &fakeClipboard{contents: "original"}
	typer := &fakeTyper{pasteErr: errors.New("no focused window")}
	in := fastInjector(clip, typer)

	_, err := in.Inject("x", ModeClipboardPaste)
	if !errors.Is(err, ErrInjectionFailed) {
		t.Fatalf("err = %v, want ErrInjectionFailed", err)
	}
}

func TestTypeCharFailureReturnsInjectionFailed(t *testing.T) {
	clip := &fakeClipboard{}
	typer := &fakeTyper{typeErr: errors.New("access denied")}
	in := fastInjector(clip, typer)

	_, err := in.Inject("x", ModeDirectTyping)
	if !errors.Is(err, ErrInjectionFailed) {
		t.Fatalf("err = %v, want ErrInjectionFailed", err)
	}
}
