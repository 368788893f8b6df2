package hotkey

import "testing"

func TestParseNormalizesModifierOrderAndAliases(t *testing.T) {
	b, err := Parse("shift+Control+space")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b != "Ctrl+Shift+Space" {
		t.Fatalf("got %q, want Ctrl+Shift+Space", b)
	}
}

func TestParseRejectsSuperKey(t *testing.T) {
	if _, err := Parse("Super+D"); err == nil {
		t.Fatal("expected error for Super modifier")
	}
	if _, err := Parse("Win+D"); err == nil {
		t.Fatal("expected error for Win modifier")
	}
}

func TestParseRequiresModifierUnlessFunctionKey(t *testing.T) {
	if _, err := Parse("D"); err == nil {
		t.Fatal("expected error for bare non-function key")
	}
	if _, err := Parse("F5"); err != nil {
		t.Fatalf("F-keys should not require a modifier: %v", err)
	}
}

func TestNormalizationRoundTrip(t *testing.T) {
	inputs := []string{
		"Ctrl+Shift+Space",
		"alt+F1",
		"control+shift+alt+End",
		"F24",
		"Ctrl+Digit5",
	}
	for _, s := range inputs {
		first, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		second, err := Parse(Format(first))
		if err != nil {
			t.Fatalf("Parse(Format(Parse(%q))): %v", s, err)
		}
		if first != second {
			t.Fatalf("round-trip mismatch for %q: %q != %q", s, first, second)
		}
	}
}
