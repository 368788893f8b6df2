// Package app wires every collaborator into a running Session and
// exposes the command surface a UI collaborator calls (get_settings,
// set_hotkey, switch_model, ...). Grounded on the teacher's
// internal/app/app.go (RunRecordMode builds every collaborator,
// registers hotkeys, and blocks forever), narrowed since this
// module's App no longer owns a blocking run loop itself (that is
// internal/session's job) and broadened with the command methods the
// UI-facing surface needs.
package app

import (
	"errors"
	"fmt"
	"os"

	"scribe/internal/apperr"
	"scribe/internal/audio"
	"scribe/internal/autostart"
	"scribe/internal/config"
	"scribe/internal/history"
	"scribe/internal/hotkey"
	"scribe/internal/inference"
	"scribe/internal/micconditioner"
	"scribe/internal/notify"
	"scribe/internal/session"
	"scribe/internal/signaling"
	"scribe/internal/textinjector"
)

// errModelDownloadDelegated is returned by DownloadModel: populating
// the model cache is an external collaborator's job; this build only
// verifies presence on disk and loads.
var errModelDownloadDelegated = errors.New("app: model acquisition is delegated to an external collaborator; this build only loads models already present on disk")

// Info answers get_app_info: the known model catalog plus which one
// is active and whether it is actually loaded into the engine.
type Info struct {
	Models      []inference.ModelDescriptor
	ActiveModel string
	Loaded      bool
}

// HistoryView answers get_history.
type HistoryView struct {
	Entries []history.Entry
}

// App bundles the running Session with the collaborators a UI layer
// needs direct access to (history, model catalog, hotkey registry)
// that the FSM itself doesn't expose.
type App struct {
	session   *session.Session
	hotkeys   *hotkey.Registry
	history   *history.Log
	autostart autostart.Registrar
	modelDir  string
	loaded    bool
}

// New builds every collaborator, loads the configured model if
// present on disk, reconciles the auto_start setting against the OS's
// actual registration, registers hotkeys, and starts the Session FSM.
func New(debug bool) (*App, error) {
	settings := config.Load()

	modelDir, err := config.ModelDir()
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	if err := os.MkdirAll(modelDir, 0755); err != nil {
		notify.NotifyError(apperr.Resource, err.Error())
	}

	engine := inference.New()
	loaded := false
	if desc := findDescriptor(inference.Catalog(modelDir), settings.Model); desc != nil {
		if _, err := os.Stat(desc.Path); err == nil {
			if err := engine.Load(*desc); err != nil {
				notify.NotifyError(apperr.Engine, err.Error())
			} else {
				loaded = true
			}
		}
	}

	ar := autostart.New()
	if effective, syncErr := autostart.Sync(ar, settings.AutoStart); syncErr != nil {
		notify.NotifyError(apperr.Resource, fmt.Sprintf("auto-start reconciliation failed: %v", syncErr))
		settings.AutoStart = effective
		_ = settings.Save()
	} else if effective != settings.AutoStart {
		settings.AutoStart = effective
		_ = settings.Save()
	}

	var tones session.Tones = noopTones{}
	if t, err := signaling.New(); err != nil {
		notify.NotifyError(apperr.Device, err.Error())
	} else {
		tones = t
	}

	hist := history.Load()
	hotkeys := hotkey.NewRegistry(debug)
	sess := session.New(session.Deps{
		Hotkeys:     hotkeys,
		Capture:     audio.NewCapture(),
		Ring:        audio.NewRing(),
		Conditioner: micconditioner.New(),
		Engine:      engine,
		Injector:    textinjector.New(),
		History:     hist,
		Tones:       tones,
		Settings:    settings,
	})

	if err := sess.RegisterHotkeys(); err != nil {
		hotkeys.Close()
		return nil, fmt.Errorf("app: register hotkeys: %w", err)
	}
	sess.Start()

	return &App{
		session:   sess,
		hotkeys:   hotkeys,
		history:   hist,
		autostart: ar,
		modelDir:  modelDir,
		loaded:    loaded,
	}, nil
}

// Close stops the Session and releases the hotkey registry.
func (a *App) Close() {
	a.session.Close()
	a.hotkeys.Close()
}

// GetSettings answers get_settings.
func (a *App) GetSettings() config.Settings {
	return a.session.Settings()
}

// SaveSettings answers save_settings. auto_start is deliberately
// excluded from the blind merge (original_source's HIGH-1 fix: "merge
// auto_start from current in-memory state instead of accepting it
// from the frontend; only set_auto_start can change auto_start").
func (a *App) SaveSettings(ns config.Settings) error {
	ns.AutoStart = a.session.Settings().AutoStart
	a.session.UpdateSettings(ns)
	return ns.Save()
}

// GetCurrentHotkey answers get_current_hotkey.
func (a *App) GetCurrentHotkey() string {
	return a.session.Settings().Hotkey
}

// SetHotkey answers set_hotkey.
func (a *App) SetHotkey(raw string) (string, error) {
	return a.session.SetHotkey(raw)
}

// PauseHotkey answers pause_hotkey.
func (a *App) PauseHotkey() error { return a.session.PauseHotkeys() }

// ResumeHotkey answers resume_hotkey.
func (a *App) ResumeHotkey() error { return a.session.ResumeHotkeys() }

// GetAppInfo answers get_app_info.
func (a *App) GetAppInfo() Info {
	catalog := inference.Catalog(a.modelDir)
	for i := range catalog {
		if _, err := os.Stat(catalog[i].Path); err == nil {
			catalog[i].Present = true
		}
	}
	active := a.session.Settings().Model
	for i := range catalog {
		catalog[i].Loaded = catalog[i].Name == active && a.loaded
	}
	return Info{Models: catalog, ActiveModel: active, Loaded: a.loaded}
}

// DownloadModel answers download_model. Acquisition is out of scope
// for this module; see errModelDownloadDelegated.
func (a *App) DownloadModel(name string) error {
	return errModelDownloadDelegated
}

// SwitchModel answers switch_model.
func (a *App) SwitchModel(name string) error {
	desc := findDescriptor(inference.Catalog(a.modelDir), name)
	if desc == nil {
		return fmt.Errorf("app: unknown model %q", name)
	}
	if _, err := os.Stat(desc.Path); err != nil {
		return fmt.Errorf("app: model %q not present on disk: %w", name, err)
	}
	if err := a.session.SwitchModel(*desc); err != nil {
		return err
	}
	a.loaded = true
	return nil
}

// GetHistory answers get_history.
func (a *App) GetHistory() HistoryView {
	return HistoryView{Entries: a.history.List()}
}

// ClearHistory answers clear_history.
func (a *App) ClearHistory() error {
	return a.history.Clear()
}

// SetAutoStart answers set_auto_start: the only command allowed to
// change auto_start (original_source's HIGH-1 fix).
func (a *App) SetAutoStart(enabled bool) error {
	effective, err := autostart.Sync(a.autostart, enabled)
	ns := a.session.Settings()
	ns.AutoStart = effective
	a.session.UpdateSettings(ns)
	if saveErr := ns.Save(); saveErr != nil {
		notify.NotifyError(apperr.Resource, saveErr.Error())
	}
	return err
}

// noopTones is the Tones fallback used if signaling.New fails to
// synthesize the tone buffers (e.g. a malformed WAV encode), so a
// broken signaling path never crashes the FSM.
type noopTones struct{}

func (noopTones) PlayStart() {}
func (noopTones) PlayStop()  {}

func findDescriptor(catalog []inference.ModelDescriptor, name string) *inference.ModelDescriptor {
	for i := range catalog {
		if catalog[i].Name == name {
			return &catalog[i]
		}
	}
	return nil
}
