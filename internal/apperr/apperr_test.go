package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOfUnwrapsPlainError(t *testing.T) {
	base := New(Device, errors.New("no capture device"))
	wrapped := fmt.Errorf("condition mic: %w", base)

	if got := KindOf(wrapped); got != Device {
		t.Fatalf("KindOf = %v, want Device", got)
	}
}

func TestKindOfDefaultsToFatalForUnclassified(t *testing.T) {
	if got := KindOf(errors.New("boom")); got != Fatal {
		t.Fatalf("KindOf = %v, want Fatal", got)
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	e := New(Resource, cause)
	if !errors.Is(e, cause) {
		t.Fatal("errors.Is should find the wrapped cause")
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		UserInput: "user-input",
		Device:    "device",
		Resource:  "resource",
		Transient: "transient",
		Engine:    "engine",
		Cancelled: "cancelled",
		Fatal:     "fatal",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Fatalf("Kind(%d).String() = %q, want %q", int(k), got, want)
		}
	}
}
