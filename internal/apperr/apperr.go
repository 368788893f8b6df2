// Package apperr gives every component a shared vocabulary for the
// error kinds the session FSM must branch on. A component never
// decides user-visibility itself; it wraps what went wrong in a Kind
// and lets the FSM apply policy.
package apperr

import "fmt"

// Kind is one of the seven error kinds from the error handling
// design. It is a classification, not an identity — many distinct
// underlying errors share a Kind.
type Kind int

const (
	// UserInput covers invalid hotkey bindings, unknown model names:
	// surfaced to the UI, state unchanged.
	UserInput Kind = iota
	// Device covers missing/disconnected microphones: aborts the
	// session, returns to Idle, notifies.
	Device
	// Resource covers a model not being loaded, disk full on
	// history write: surfaced, degrades gracefully.
	Resource
	// Transient covers clipboard busy, injection denied: retried
	// once, then reported; history is still recorded.
	Transient
	// Engine covers decode failure, invalid audio: discards the
	// session, notifies, returns to Idle.
	Engine
	// Cancelled covers user escape, model swap mid-inference:
	// silent, no notification beyond overlay dismissal.
	Cancelled
	// Fatal covers model load OOM, ring allocation failure at
	// startup: logged, process exits nonzero.
	Fatal
)

func (k Kind) String() string {
	switch k {
	case UserInput:
		return "user-input"
	case Device:
		return "device"
	case Resource:
		return "resource"
	case Transient:
		return "transient"
	case Engine:
		return "engine"
	case Cancelled:
		return "cancelled"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Error pairs a Kind with the underlying cause. Components return
// *Error instead of a bare error so the FSM can switch on Kind
// without string matching.
type Error struct {
	Kind Kind
	Err  error
}

func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the Kind from err if it (or something it wraps) is
// an *Error, defaulting to Fatal for anything unclassified — an
// unrecognized error is treated as the strictest policy rather than
// silently ignored.
func KindOf(err error) Kind {
	var e *Error
	if asError(err, &e) {
		return e.Kind
	}
	return Fatal
}

func asError(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}
