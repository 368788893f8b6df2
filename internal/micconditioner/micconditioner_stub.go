//go:build !windows

package micconditioner

// Stub is the non-Windows backend; Core Audio is Windows-only so every
// query fails with ErrMicUnavailable and the FSM proceeds without
// conditioning the device.
type Stub struct{}

// New returns the non-Windows stub Conditioner.
func New() *Stub { return &Stub{} }

func (s *Stub) Condition() (Result, error) {
	return Result{}, ErrMicUnavailable
}
