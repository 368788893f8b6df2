// Package notify surfaces OS-level toast notifications. Grounded on
// the teacher's internal/notify package (single Notify(title,
// message) call wrapping beeep), generalized here with a thin
// error-kind-aware helper since this repo's FSM, unlike the teacher's
// fixed call sites, decides notification text from a typed error
// kind.
package notify

import "scribe/internal/apperr"

const appTitle = "Scribe"

// NotifyError surfaces a failure per the error handling policy table:
// Device, Engine and Fatal kinds notify, Cancelled never does, and the
// rest are left to their caller's own UI-surfacing path rather than a
// toast.
func NotifyError(kind apperr.Kind, message string) {
	switch kind {
	case apperr.Device:
		Notify(appTitle, "Microphone error: "+message)
	case apperr.Engine:
		Notify(appTitle, "Transcription failed: "+message)
	case apperr.Fatal:
		Notify(appTitle, "Fatal error: "+message)
	}
}
