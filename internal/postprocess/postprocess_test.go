package postprocess

import "testing"

func clean(s string) string {
	return Clean(s, true, "en")
}

func TestSimpleFillersRemoved(t *testing.T) {
	if got := clean("Um, I went to the store"); got != "I went to the store." {
		t.Fatalf("got %q", got)
	}
}

func TestUhRemoved(t *testing.T) {
	if got := clean("I was, uh, thinking about it"); got != "I was thinking about it." {
		t.Fatalf("got %q", got)
	}
}

func TestSeedScenarioSixFillerSweep(t *testing.T) {
	if got := clean("So um I think uh yes"); got != "So I think yes." {
		t.Fatalf("got %q", got)
	}
}

func TestYouKnowFiller(t *testing.T) {
	if got := clean("It was, you know, really good"); got != "It was, really good." {
		t.Fatalf("got %q", got)
	}
}

func TestYouKnowReal(t *testing.T) {
	if got := clean("You know what happened"); got != "You know what happened." {
		t.Fatalf("got %q", got)
	}
}

func TestIMeanFiller(t *testing.T) {
	if got := clean("I mean, it was fine"); got != "It was fine." {
		t.Fatalf("got %q", got)
	}
}

func TestIMeanReal(t *testing.T) {
	if got := clean("I mean what I said"); got != "I mean what I said." {
		t.Fatalf("got %q", got)
	}
}

func TestLikeFillerComma(t *testing.T) {
	if got := clean("It was, like, amazing"); got != "It was amazing." {
		t.Fatalf("got %q", got)
	}
}

func TestLikeRealVerbPreserved(t *testing.T) {
	if got := clean("I like pizza"); got != "I like pizza." {
		t.Fatalf("got %q", got)
	}
}

func TestLikeSentenceStartRemoved(t *testing.T) {
	if got := clean("Like, I don't even know"); got != "I don't even know." {
		t.Fatalf("got %q", got)
	}
}

func TestDoubleSpacesCollapsed(t *testing.T) {
	if got := clean("I  went   to   the  store"); got != "I went to the store." {
		t.Fatalf("got %q", got)
	}
}

func TestSentenceCapitalization(t *testing.T) {
	if got := clean("hello world. this is great"); got != "Hello world. This is great." {
		t.Fatalf("got %q", got)
	}
}

func TestTrailingPeriodAdded(t *testing.T) {
	if got := clean("I went to the store"); got != "I went to the store." {
		t.Fatalf("got %q", got)
	}
}

func TestTrailingPeriodNotDoubled(t *testing.T) {
	if got := clean("I went to the store."); got != "I went to the store." {
		t.Fatalf("got %q", got)
	}
}

func TestExistingQuestionMarkPreserved(t *testing.T) {
	if got := clean("Did you go to the store?"); got != "Did you go to the store?" {
		t.Fatalf("got %q", got)
	}
}

func TestEmptyInput(t *testing.T) {
	if got := clean(""); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestAllFillerInput(t *testing.T) {
	if got := clean("Um, uh, like, you know"); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestSingleWord(t *testing.T) {
	if got := clean("Hello"); got != "Hello." {
		t.Fatalf("got %q", got)
	}
}

func TestNonEnglishPassthrough(t *testing.T) {
	in := "Er sagte dass er kommen will"
	if got := Clean(in, true, "de"); got != in {
		t.Fatalf("got %q", got)
	}
}

func TestAutoLanguageAppliesCleanup(t *testing.T) {
	if got := Clean("Um I was thinking", true, "auto"); got != "I was thinking." {
		t.Fatalf("got %q", got)
	}
}

func TestCommaPreservedWellUmOk(t *testing.T) {
	if got := clean("Well, um, OK"); got != "Well, OK." {
		t.Fatalf("got %q", got)
	}
}

func TestAhPreservedAsInterjection(t *testing.T) {
	if got := clean("Ah I see"); got != "Ah I see." {
		t.Fatalf("got %q", got)
	}
}

func TestLikeAsSimilePreserved(t *testing.T) {
	if got := clean("It looks like rain"); got != "It looks like rain." {
		t.Fatalf("got %q", got)
	}
}

func TestKindOfAsDeterminerPreserved(t *testing.T) {
	if got := clean("What kind of car is that"); got != "What kind of car is that." {
		t.Fatalf("got %q", got)
	}
}

func TestKindOfCommaWrappedRemoved(t *testing.T) {
	if got := clean("It was, kind of, weird"); got != "It was, weird." {
		t.Fatalf("got %q", got)
	}
}

func TestBasicallyMidSentencePreserved(t *testing.T) {
	if got := clean("The system is basically a cache"); got != "The system is basically a cache." {
		t.Fatalf("got %q", got)
	}
}

func TestBasicallyAtSentenceStartRemoved(t *testing.T) {
	if got := clean("Basically we need to go"); got != "We need to go." {
		t.Fatalf("got %q", got)
	}
}

func TestStripContractionBasics(t *testing.T) {
	cases := map[string]string{
		"that's":  "that",
		"don't":   "don",
		"they're": "they",
		"we've":   "we",
		"he'll":   "he",
		"she'd":   "she",
		"hello":   "hello",
	}
	for in, want := range cases {
		if got := stripContraction(in); got != want {
			t.Errorf("stripContraction(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStripContractionNoFalseMatch(t *testing.T) {
	for _, w := range []string{"anything", "also", "together"} {
		if got := stripContraction(w); got != w {
			t.Errorf("stripContraction(%q) = %q, want unchanged", w, got)
		}
	}
}

func TestPassthroughWhenDisabled(t *testing.T) {
	if got := Clean("um uh like yeah", false, "en"); got != "um uh like yeah" {
		t.Fatalf("got %q", got)
	}
}

func TestPassthroughOnlyTrims(t *testing.T) {
	if got := Clean("  hello  ", false, "en"); got != "hello" {
		t.Fatalf("got %q", got)
	}
}

func TestIdempotence(t *testing.T) {
	inputs := []string{
		"Um, I went to the store",
		"So um I think uh yes",
		"It was, kind of, weird",
		"Hello",
		"",
		"HELLO WORLD",
	}
	for _, in := range inputs {
		once := Clean(in, true, "en")
		twice := Clean(once, true, "en")
		if once != twice {
			t.Errorf("Clean not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	}
}
