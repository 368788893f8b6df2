//go:build windows

package hotkey

import "fmt"

// vkCodes maps the canonical key tokens produced by canonicalKeyToken to
// Win32 virtual-key codes.
var vkCodes = func() map[string]uint32 {
	m := map[string]uint32{
		"Space": 0x20, "Enter": 0x0D, "Escape": 0x1B, "Tab": 0x09,
		"Backspace": 0x08, "Insert": 0x2D, "Delete": 0x2E,
		"Home": 0x24, "End": 0x23, "PageUp": 0x21, "PageDown": 0x22,
		"ArrowLeft": 0x25, "ArrowUp": 0x26, "ArrowRight": 0x27, "ArrowDown": 0x28,
		"Minus": 0xBD, "Plus": 0xBB, "Equal": 0xBB, "Comma": 0xBC,
		"Period": 0xBE, "Slash": 0xBF,
	}
	for c := byte('A'); c <= 'Z'; c++ {
		m["Key"+string(c)] = uint32(c)
	}
	for d := byte('0'); d <= '9'; d++ {
		m["Digit"+string(d)] = uint32(d)
	}
	for n := 1; n <= 24; n++ {
		m[fmt.Sprintf("F%d", n)] = 0x70 + uint32(n-1)
	}
	return m
}()

func vkFor(key string) (uint32, error) {
	if vk, ok := vkCodes[key]; ok {
		return vk, nil
	}
	return 0, fmt.Errorf("no virtual-key mapping for token %q", key)
}
