//go:build windows

package textinjector

import (
	"github.com/atotto/clipboard"
	"github.com/micmonay/keybd_event"
)

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error)    { return clipboard.ReadAll() }
func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// keybdTyper synthesizes input via micmonay/keybd_event, the same
// library the teacher uses for its Ctrl+V paste shortcut.
type keybdTyper struct{}

func (keybdTyper) Paste() error {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return err
	}
	kb.HasCTRL(true)
	kb.SetKeys(keybd_event.VK_V)
	return kb.Launching()
}

// TypeChar synthesizes one printable ASCII character. keybd_event has
// no Unicode input path (unlike a SendInput-with-KEYEVENTF_UNICODE
// approach), so characters outside ASCII are skipped rather than
// mistyped; direct_typing is intended for short, mostly-ASCII
// dictation bursts, with clipboard modes as the fallback for anything
// richer.
func (keybdTyper) TypeChar(r rune) error {
	vk, shift, ok := asciiToVK(r)
	if !ok {
		return nil
	}
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return err
	}
	kb.HasSHIFT(shift)
	kb.SetKeys(vk)
	return kb.Launching()
}

// punctuationVK maps common punctuation and whitespace to their Win32
// virtual-key codes on a US keyboard layout (same codes as
// internal/hotkey/vk_windows.go's vkCodes, plus the shifted symbols
// that package has no reason to carry since hotkeys don't bind to
// them). Letters, digits, and space are handled separately below.
var punctuationVK = map[rune]struct {
	vk    int
	shift bool
}{
	'\n': {0x0D, false}, // Enter
	'\t': {0x09, false}, // Tab
	',':  {0xBC, false},
	'<':  {0xBC, true},
	'.':  {0xBE, false},
	'>':  {0xBE, true},
	'/':  {0xBF, false},
	'?':  {0xBF, true},
	';':  {0xBA, false},
	':':  {0xBA, true},
	'-':  {0xBD, false},
	'_':  {0xBD, true},
	'=':  {0xBB, false},
	'+':  {0xBB, true},
	'\'': {0xDE, false},
	'"':  {0xDE, true},
	'`':  {0xC0, false},
	'~':  {0xC0, true},
	'[':  {0xDB, false},
	'{':  {0xDB, true},
	']':  {0xDD, false},
	'}':  {0xDD, true},
	'\\': {0xDC, false},
	'|':  {0xDC, true},
	'!':  {int(keybd_event.VK_0) + 1, true},
	'@':  {int(keybd_event.VK_0) + 2, true},
	'#':  {int(keybd_event.VK_0) + 3, true},
	'$':  {int(keybd_event.VK_0) + 4, true},
	'%':  {int(keybd_event.VK_0) + 5, true},
	'^':  {int(keybd_event.VK_0) + 6, true},
	'&':  {int(keybd_event.VK_0) + 7, true},
	'*':  {int(keybd_event.VK_0) + 8, true},
	'(':  {int(keybd_event.VK_0) + 9, true},
	')':  {int(keybd_event.VK_0), true},
}

func asciiToVK(r rune) (vk int, shift bool, ok bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return int(keybd_event.VK_A) + int(r-'a'), false, true
	case r >= 'A' && r <= 'Z':
		return int(keybd_event.VK_A) + int(r-'A'), true, true
	case r >= '0' && r <= '9':
		return int(keybd_event.VK_0) + int(r-'0'), false, true
	case r == ' ':
		return keybd_event.VK_SPACE, false, true
	default:
		if p, found := punctuationVK[r]; found {
			return p.vk, p.shift, true
		}
		return 0, false, false
	}
}

// New returns the Windows clipboard+keyboard backed Injector.
func New() *Injector {
	return newInjector(systemClipboard{}, keybdTyper{})
}
