// Package hotkey registers OS-level global shortcuts and normalizes their
// textual representation.
package hotkey

import (
	"fmt"
	"strconv"
	"strings"
)

// Binding is a normalized hotkey combination string. Canonical form is
// modifiers in the fixed order {Ctrl, Shift, Alt, Super} followed by a
// single non-modifier key token, e.g. "Ctrl+Shift+Space".
type Binding string

// ErrInvalidBinding is returned when a binding string cannot be parsed.
type ErrInvalidBinding struct {
	Raw    string
	Reason string
}

func (e *ErrInvalidBinding) Error() string {
	return fmt.Sprintf("invalid binding %q: %s", e.Raw, e.Reason)
}

// parsed is the internal modifier-mask + key-token representation shared
// by Parse and Format.
type parsed struct {
	ctrl, shift, alt, super bool
	key                     string // canonical key token, e.g. "Space", "KeyA", "F1"
}

// modifier bitmask values, matching Win32 MOD_* constants so the Windows
// backend can use them directly.
const (
	modAlt   = 0x0001
	modCtrl  = 0x0002
	modShift = 0x0004
	modSuper = 0x0008
)

func (p parsed) mask() uint32 {
	var m uint32
	if p.alt {
		m |= modAlt
	}
	if p.ctrl {
		m |= modCtrl
	}
	if p.shift {
		m |= modShift
	}
	if p.super {
		m |= modSuper
	}
	return m
}

func isFunctionKey(key string) bool {
	if len(key) < 2 || key[0] != 'F' {
		return false
	}
	n, err := strconv.Atoi(key[1:])
	return err == nil && n >= 1 && n <= 24
}

// Parse normalizes a hotkey string. Modifier aliases collapse to canonical
// names; the Super/Windows key is rejected since the OS intercepts most
// such combinations. At least one modifier is required unless the key
// is a function key.
func Parse(s string) (Binding, error) {
	p, err := parseRaw(s, true)
	if err != nil {
		return "", err
	}
	return Binding(formatParsed(p)), nil
}

// ParseSystemKey parses a binding without requiring a modifier. It exists
// for the small set of fixed, non-user-configurable bindings the session
// registers itself (the Escape cancel key); user-facing bindings must
// always go through Parse.
func ParseSystemKey(s string) (Binding, error) {
	p, err := parseRaw(s, false)
	if err != nil {
		return "", err
	}
	return Binding(formatParsed(p)), nil
}

func parseRaw(s string, requireModifier bool) (parsed, error) {
	if strings.TrimSpace(s) == "" {
		return parsed{}, &ErrInvalidBinding{Raw: s, Reason: "empty binding"}
	}
	parts := strings.Split(s, "+")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	var p parsed
	keyToken := parts[len(parts)-1]
	for _, raw := range parts[:len(parts)-1] {
		switch strings.ToLower(raw) {
		case "ctrl", "control":
			p.ctrl = true
		case "shift":
			p.shift = true
		case "alt", "option", "menu":
			p.alt = true
		case "super", "cmd", "command", "win", "meta", "windows":
			return parsed{}, &ErrInvalidBinding{Raw: s, Reason: "the Super/Windows key is not permitted as a modifier"}
		default:
			return parsed{}, &ErrInvalidBinding{Raw: s, Reason: fmt.Sprintf("unrecognized modifier %q", raw)}
		}
	}

	key, err := canonicalKeyToken(keyToken)
	if err != nil {
		return parsed{}, &ErrInvalidBinding{Raw: s, Reason: err.Error()}
	}
	p.key = key

	if requireModifier && !p.ctrl && !p.shift && !p.alt && !isFunctionKey(p.key) {
		return parsed{}, &ErrInvalidBinding{Raw: s, Reason: "at least one modifier is required unless the key is a function key"}
	}
	return p, nil
}

// canonicalKeyToken maps a free-form key name onto the fixed alphabet:
// KeyA...KeyZ, Digit0...Digit9, F1...F24, and named arrow/edit/whitespace
// and symbol tokens.
func canonicalKeyToken(tok string) (string, error) {
	lower := strings.ToLower(strings.TrimSpace(tok))
	if lower == "" {
		return "", fmt.Errorf("empty key token")
	}

	if len(lower) == 1 {
		c := lower[0]
		switch {
		case c >= 'a' && c <= 'z':
			return "Key" + strings.ToUpper(string(c)), nil
		case c >= '0' && c <= '9':
			return "Digit" + string(c), nil
		}
	}
	if rest, ok := strings.CutPrefix(lower, "key"); ok && len(rest) == 1 && rest[0] >= 'a' && rest[0] <= 'z' {
		return "Key" + strings.ToUpper(rest), nil
	}
	if rest, ok := strings.CutPrefix(lower, "digit"); ok && len(rest) == 1 && rest[0] >= '0' && rest[0] <= '9' {
		return "Digit" + rest, nil
	}

	if strings.HasPrefix(lower, "f") {
		if n, err := strconv.Atoi(lower[1:]); err == nil && n >= 1 && n <= 24 {
			return fmt.Sprintf("F%d", n), nil
		}
	}

	named := map[string]string{
		"space":     "Space",
		"enter":     "Enter",
		"return":    "Enter",
		"esc":       "Escape",
		"escape":    "Escape",
		"tab":       "Tab",
		"backspace": "Backspace",
		"insert":    "Insert",
		"delete":    "Delete",
		"del":       "Delete",
		"home":      "Home",
		"end":       "End",
		"pageup":    "PageUp",
		"pagedown":  "PageDown",
		"left":      "ArrowLeft",
		"up":        "ArrowUp",
		"right":     "ArrowRight",
		"down":      "ArrowDown",
		"minus":     "Minus",
		"plus":      "Plus",
		"equal":     "Equal",
		"comma":     "Comma",
		"period":    "Period",
		"slash":     "Slash",

		"arrowleft":  "ArrowLeft",
		"arrowup":    "ArrowUp",
		"arrowright": "ArrowRight",
		"arrowdown":  "ArrowDown",
	}
	if canon, ok := named[lower]; ok {
		return canon, nil
	}

	return "", fmt.Errorf("unsupported key token %q", tok)
}

func formatParsed(p parsed) string {
	var mods []string
	if p.ctrl {
		mods = append(mods, "Ctrl")
	}
	if p.shift {
		mods = append(mods, "Shift")
	}
	if p.alt {
		mods = append(mods, "Alt")
	}
	if p.super {
		mods = append(mods, "Super")
	}
	mods = append(mods, p.key)
	return strings.Join(mods, "+")
}

// Format returns the canonical string form of an already-parsed Binding.
// For any valid binding string s, Parse(Format(Parse(s))) == Parse(s).
func Format(b Binding) string {
	return string(b)
}
