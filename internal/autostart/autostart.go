// Package autostart enables or disables launching Scribe at user
// login, and reconciles the persisted auto_start setting against the
// OS's actual registration at startup.
package autostart

import "errors"

// ErrNotSupported is returned by Enable/Disable on platforms without a
// login-launch mechanism wired up.
var ErrNotSupported = errors.New("autostart: not supported on this platform")

// Registrar queries and toggles the OS-level auto-start registration.
type Registrar interface {
	IsEnabled() (bool, error)
	Enable() error
	Disable() error
}

// Sync reconciles want (the persisted auto_start setting) against r's
// actual state, correcting the OS side to match want. If the
// correction itself fails, Sync reports the OS's real state instead so
// the caller can persist that back into Settings rather than leave it
// out of sync (original_source/src-tauri/src/main.rs's HIGH-2 fix:
// "sync autostart registry with persisted setting, logging errors and
// correcting settings to match registry reality on failure").
func Sync(r Registrar, want bool) (effective bool, err error) {
	enabled, err := r.IsEnabled()
	if err != nil {
		return want, err
	}
	if want == enabled {
		return want, nil
	}
	if want {
		if err := r.Enable(); err != nil {
			return enabled, err
		}
		return true, nil
	}
	if err := r.Disable(); err != nil {
		return enabled, err
	}
	return false, nil
}
