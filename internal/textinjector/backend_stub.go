//go:build !windows

package textinjector

import "errors"

var errNotSupported = errors.New("textinjector: not supported on this platform")

type noopClipboard struct{}

func (noopClipboard) ReadAll() (string, error) { return "", errNotSupported }
func (noopClipboard) WriteAll(string) error    { return errNotSupported }

type noopTyper struct{}

func (noopTyper) Paste() error         { return errNotSupported }
func (noopTyper) TypeChar(rune) error { return errNotSupported }

// New returns the non-Windows stub Injector; every Inject call fails.
func New() *Injector {
	return newInjector(noopClipboard{}, noopTyper{})
}
