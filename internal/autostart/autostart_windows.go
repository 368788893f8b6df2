//go:build windows

package autostart

import (
	"fmt"
	"os"

	"golang.org/x/sys/windows/registry"
)

const (
	runKeyPath = `Software\Microsoft\Windows\CurrentVersion\Run`
	valueName  = "Scribe"
)

// WindowsRegistrar toggles the HKCU Run key, the same mechanism
// `tauri_plugin_autostart` uses on Windows.
type WindowsRegistrar struct{}

// New returns the Windows Registrar backend.
func New() *WindowsRegistrar { return &WindowsRegistrar{} }

func (WindowsRegistrar) IsEnabled() (bool, error) {
	k, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.QUERY_VALUE)
	if err != nil {
		return false, fmt.Errorf("autostart: open Run key: %w", err)
	}
	defer k.Close()
	_, _, err = k.GetStringValue(valueName)
	if err == registry.ErrNotExist {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("autostart: read %q: %w", valueName, err)
	}
	return true, nil
}

func (WindowsRegistrar) Enable() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("autostart: resolve executable path: %w", err)
	}
	k, _, err := registry.CreateKey(registry.CURRENT_USER, runKeyPath, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("autostart: open Run key for write: %w", err)
	}
	defer k.Close()
	return k.SetStringValue(valueName, fmt.Sprintf(`"%s" --auto-started`, exe))
}

func (WindowsRegistrar) Disable() error {
	k, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("autostart: open Run key for write: %w", err)
	}
	defer k.Close()
	if err := k.DeleteValue(valueName); err != nil && err != registry.ErrNotExist {
		return fmt.Errorf("autostart: delete %q: %w", valueName, err)
	}
	return nil
}
