// Package postprocess strips filler words and normalizes whitespace and
// punctuation in a raw transcript. The filler token set and context
// rules are ported in spirit from
// _examples/original_source/src-tauri/src/post_process.rs; the teacher
// has no post-processing stage of its own, so this is new code written
// in its idiom (stdlib regexp, no third-party dependency needed).
package postprocess

import (
	"regexp"
	"strings"
)

var (
	reSimpleFillers  = regexp.MustCompile(`(?i)(?:,\s*)?\b(?:um|uh|umm|hmm+|er)\b(?:\s*,)?`)
	reLike           = regexp.MustCompile(`(?i)(?:,\s*)?\blike\b(?:\s*,)?`)
	reYouKnow        = regexp.MustCompile(`(?i)(?:,\s*)?\byou know\b(?:\s*,)?`)
	reIMean          = regexp.MustCompile(`(?i)(?:,\s*)?\bI mean\b(?:\s*,)?`)
	reSortOf         = regexp.MustCompile(`(?i)(?:,\s*)?\bsort of\b(?:\s*,)?`)
	reKindOf         = regexp.MustCompile(`(?i)(?:,\s*)?\bkind of\b(?:\s*,)?`)
	reBasically      = regexp.MustCompile(`(?i)(?:,\s*)?\bbasically\b(?:\s*,)?`)
	reOrphanedCommas = regexp.MustCompile(`,(\s*,)+`)
	reMultiSpace     = regexp.MustCompile(`\s{2,}`)
)

// discourseMarkers take a following comma naturally; when a simple
// filler sits between one of these and the next clause, that comma is
// preserved rather than stripped along with the filler.
var discourseMarkers = map[string]bool{
	"well": true, "so": true, "yes": true, "no": true, "ok": true,
	"okay": true, "right": true, "sure": true, "first": true, "second": true,
	"third": true, "finally": true, "actually": true, "anyway": true,
	"however": true, "indeed": true, "still": true, "now": true, "look": true,
	"see": true, "hey": true, "hi": true, "please": true, "thanks": true,
	"great": true, "fine": true, "true": true, "oh": true,
}

var youKnowKeepFollowing = map[string]bool{
	"what": true, "who": true, "where": true, "when": true, "why": true,
	"how": true, "that": true, "if": true, "about": true, "anything": true,
	"something": true,
}

var iMeanKeepFollowing = map[string]bool{
	"it": true, "that": true, "this": true, "to": true, "the": true,
	"a": true, "an": true, "what": true,
}

var contractionSuffixes = []string{
	"’ve", "'ve",
	"’re", "'re",
	"’ll", "'ll",
	"’s", "'s",
	"’t", "'t",
	"’d", "'d",
}

// followingWord extracts the lowercase word immediately after byte
// offset matchEnd, skipping leading whitespace and a single comma.
func followingWord(text string, matchEnd int) (string, bool) {
	after := strings.TrimLeft(text[matchEnd:], " \t\n\r")
	after = strings.TrimPrefix(after, ",")
	after = strings.TrimLeft(after, " \t\n\r")
	idx := strings.IndexFunc(after, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	word := after
	if idx >= 0 {
		word = after[:idx]
	}
	if word == "" {
		return "", false
	}
	return strings.ToLower(word), true
}

// precedingWord extracts the lowercase word immediately before byte
// offset matchStart, skipping trailing whitespace and a comma.
func precedingWord(text string, matchStart int) (string, bool) {
	before := strings.TrimRight(text[:matchStart], " \t\n\r")
	before = strings.TrimSuffix(before, ",")
	before = strings.TrimRight(before, " \t\n\r")
	idx := strings.LastIndexFunc(before, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	word := before
	if idx >= 0 {
		word = before[idx+1:]
	}
	if word == "" {
		return "", false
	}
	return strings.ToLower(word), true
}

// stripContraction removes a trailing English contraction suffix,
// using exact suffix matching rather than a prefix-based heuristic so
// "anything"/"also"/"together" are left untouched.
func stripContraction(word string) string {
	lower := strings.ToLower(word)
	for _, suffix := range contractionSuffixes {
		if stem, ok := strings.CutSuffix(lower, suffix); ok && stem != "" {
			return stem
		}
	}
	return lower
}

func shouldApplyFillerRemoval(language string) bool {
	switch strings.ToLower(language) {
	case "en", "english", "auto":
		return true
	default:
		return false
	}
}

func isSentenceStart(text string, matchStart int) bool {
	before := strings.TrimRight(text[:matchStart], " \t\n\r")
	return before == "" || strings.HasSuffix(before, ".") || strings.HasSuffix(before, "!") || strings.HasSuffix(before, "?")
}

func removeSimpleFillers(text string) string {
	var b strings.Builder
	lastEnd := 0
	for _, loc := range reSimpleFillers.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		matchStr := text[start:end]
		hasLeadingComma := strings.HasPrefix(strings.TrimLeft(matchStr, " \t"), ",") ||
			strings.HasSuffix(strings.TrimRight(text[:start], " \t\n\r"), ",")
		hasTrailingComma := strings.HasSuffix(strings.TrimRight(matchStr, " \t"), ",") ||
			strings.HasPrefix(strings.TrimLeft(text[end:], " \t\n\r"), ",")

		b.WriteString(text[lastEnd:start])
		if hasLeadingComma && hasTrailingComma && strings.TrimRight(text[:start], " \t\n\r") != "" {
			prev, ok := precedingWord(text, start)
			if ok && discourseMarkers[prev] {
				if !strings.HasSuffix(strings.TrimRight(b.String(), ""), ",") {
					b.WriteString(",")
				}
			}
		}
		b.WriteString(" ")
		lastEnd = end
	}
	b.WriteString(text[lastEnd:])
	return b.String()
}

// removeFillerLike strips "like" only in known filler positions:
// comma-wrapped, or sentence-start followed by a comma. Any other
// position (verb, preposition, simile) is left untouched.
func removeFillerLike(text string) string {
	var b strings.Builder
	lastEnd := 0
	for _, loc := range reLike.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		matchStr := text[start:end]
		hasLeadingComma := strings.HasPrefix(strings.TrimLeft(matchStr, " \t"), ",") ||
			strings.HasSuffix(strings.TrimRight(text[:start], " \t\n\r"), ",")
		hasTrailingComma := strings.HasSuffix(strings.TrimRight(matchStr, " \t"), ",") ||
			strings.HasPrefix(strings.TrimLeft(text[end:], " \t\n\r"), ",")
		atSentenceStart := isSentenceStart(text, start)

		isFiller := (hasLeadingComma && hasTrailingComma) || (atSentenceStart && hasTrailingComma)

		if isFiller {
			b.WriteString(text[lastEnd:start])
			b.WriteString(" ")
		} else {
			b.WriteString(text[lastEnd:end])
		}
		lastEnd = end
	}
	b.WriteString(text[lastEnd:])
	return b.String()
}

func removeFillerYouKnow(text string) string {
	var b strings.Builder
	lastEnd := 0
	for _, loc := range reYouKnow.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		next, ok := followingWord(text, end)
		shouldKeep := ok && youKnowKeepFollowing[stripContraction(next)]

		if shouldKeep {
			b.WriteString(text[lastEnd:end])
		} else {
			b.WriteString(text[lastEnd:start])
			matchStr := text[start:end]
			hasLeadingComma := strings.Contains(matchStr, ",") ||
				strings.HasSuffix(strings.TrimRight(text[:start], " \t\n\r"), ",")
			if hasLeadingComma && strings.TrimRight(text[:start], " \t\n\r") != "" {
				if !strings.HasSuffix(b.String(), ",") {
					b.WriteString(",")
				}
			}
			b.WriteString(" ")
		}
		lastEnd = end
	}
	b.WriteString(text[lastEnd:])
	return b.String()
}

func removeFillerIMean(text string) string {
	var b strings.Builder
	lastEnd := 0
	for _, loc := range reIMean.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		matchStr := text[start:end]
		hasComma := strings.Contains(matchStr, ",")
		next, ok := followingWord(text, end)

		shouldKeep := false
		if !hasComma && ok {
			shouldKeep = iMeanKeepFollowing[stripContraction(next)]
		}

		if shouldKeep {
			b.WriteString(text[lastEnd:end])
		} else {
			b.WriteString(text[lastEnd:start])
			b.WriteString(" ")
		}
		lastEnd = end
	}
	b.WriteString(text[lastEnd:])
	return b.String()
}

// removeFillerSortKindOf strips "sort of"/"kind of" at sentence start
// or comma-wrapped, preserving determiner use ("what kind of car").
func removeFillerSortKindOf(text string) string {
	result := text
	for _, re := range []*regexp.Regexp{reSortOf, reKindOf} {
		input := result
		var b strings.Builder
		lastEnd := 0
		for _, loc := range re.FindAllStringIndex(input, -1) {
			start, end := loc[0], loc[1]
			matchStr := input[start:end]
			hasComma := strings.Contains(matchStr, ",") ||
				strings.HasSuffix(strings.TrimRight(input[:start], " \t\n\r"), ",")
			hasTrailingComma := strings.HasSuffix(strings.TrimRight(matchStr, " \t"), ",") ||
				strings.HasPrefix(strings.TrimLeft(input[end:], " \t\n\r"), ",")
			atSentenceStart := isSentenceStart(input, start)

			isFiller := hasComma || atSentenceStart

			if isFiller {
				b.WriteString(input[lastEnd:start])
				if hasComma && hasTrailingComma && !atSentenceStart && strings.TrimRight(input[:start], " \t\n\r") != "" {
					if !strings.HasSuffix(b.String(), ",") {
						b.WriteString(",")
					}
				}
				b.WriteString(" ")
			} else {
				b.WriteString(input[lastEnd:end])
			}
			lastEnd = end
		}
		b.WriteString(input[lastEnd:])
		result = b.String()
	}
	return result
}

// removeFillerBasically strips "basically" at sentence start or
// comma-wrapped, preserving mid-sentence use ("is basically a cache").
func removeFillerBasically(text string) string {
	var b strings.Builder
	lastEnd := 0
	for _, loc := range reBasically.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		matchStr := text[start:end]
		hasComma := strings.Contains(matchStr, ",") ||
			strings.HasSuffix(strings.TrimRight(text[:start], " \t\n\r"), ",")
		hasTrailingComma := strings.HasSuffix(strings.TrimRight(matchStr, " \t"), ",") ||
			strings.HasPrefix(strings.TrimLeft(text[end:], " \t\n\r"), ",")
		atSentenceStart := isSentenceStart(text, start)

		isFiller := hasComma || atSentenceStart

		if isFiller {
			b.WriteString(text[lastEnd:start])
			if hasComma && hasTrailingComma && !atSentenceStart && strings.TrimRight(text[:start], " \t\n\r") != "" {
				if !strings.HasSuffix(b.String(), ",") {
					b.WriteString(",")
				}
			}
			b.WriteString(" ")
		} else {
			b.WriteString(text[lastEnd:end])
		}
		lastEnd = end
	}
	b.WriteString(text[lastEnd:])
	return b.String()
}

func cleanOrphanedCommas(text string) string {
	result := reOrphanedCommas.ReplaceAllString(text, ",")
	return strings.TrimLeft(result, ", \t\n\r")
}

func collapseWhitespace(text string) string {
	return reMultiSpace.ReplaceAllString(text, " ")
}

func capitalizeSentences(text string) string {
	if text == "" {
		return text
	}
	runes := []rune(text)
	capitalizeNext := true
	for i, r := range runes {
		switch {
		case capitalizeNext && isAlpha(r):
			runes[i] = toUpper(r)
			capitalizeNext = false
		case r == '.' || r == '!' || r == '?':
			capitalizeNext = true
		case isSpace(r):
			// leave capitalizeNext as-is
		default:
			if !capitalizeNext {
				capitalizeNext = false
			}
		}
	}
	return string(runes)
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r > 127
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}

// ensureTrailingPeriod appends "." unless the text already ends with
// terminal punctuation (. ! or ?, deliberately not : or ;).
func ensureTrailingPeriod(text string) string {
	trimmed := strings.TrimRight(text, " \t\n\r")
	if trimmed == "" {
		return ""
	}
	switch trimmed[len(trimmed)-1] {
	case '.', '!', '?':
		return trimmed
	default:
		return trimmed + "."
	}
}

// Clean runs the full filler-removal and formatting pipeline over raw.
// When fillerRemoval is false, or language names anything other than
// English/auto, raw is returned trimmed (passthrough): only English
// filler patterns are defined, and applying them to other languages
// produces destructive false positives (German "er" == "he").
//
// Idempotent: Clean(Clean(x, true, lang), true, lang) == Clean(x, true, lang).
func Clean(raw string, fillerRemoval bool, language string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return text
	}
	if !fillerRemoval || !shouldApplyFillerRemoval(language) {
		return text
	}

	// Context-sensitive fillers run before the simple-filler pass so
	// neighboring "um"/"uh" tokens don't corrupt comma context.
	text = removeFillerLike(text)
	text = removeFillerYouKnow(text)
	text = removeFillerIMean(text)
	text = removeFillerSortKindOf(text)
	text = removeFillerBasically(text)
	text = removeSimpleFillers(text)
	text = cleanOrphanedCommas(text)
	text = collapseWhitespace(text)
	text = strings.TrimSpace(text)
	text = capitalizeSentences(text)
	text = ensureTrailingPeriod(text)

	return text
}
