package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldMarks decomposes to NFD, drops combining marks, and recomposes,
// so accented letters collapse onto their base form ("café" -> "cafe").
var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize reduces a token or target to its comparable form: lowercased,
// diacritics folded, every rune outside letters and digits dropped.
// Interior separators vanish, so "re-up" and "reup" compare equal.
//
// With stripPlurals, a trailing possessive marker is removed before
// punctuation stripping (so the apostrophe is still visible), then a final
// plural "s" is dropped from words longer than three letters unless the
// word ends in "ss". The same function runs on both targets and tokens;
// asymmetric normalization would silently miss matches.
func Normalize(s string, stripPlurals bool) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if folded, _, err := transform.String(foldMarks, s); err == nil {
		s = folded
	}
	if stripPlurals {
		s = strings.TrimSuffix(s, "'s")
		s = strings.TrimSuffix(s, "’s") // curly apostrophe from STT output
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	s = b.String()

	if stripPlurals && len(s) > 3 && strings.HasSuffix(s, "s") && !strings.HasSuffix(s, "ss") {
		s = s[:len(s)-1]
	}
	return s
}

// NormalizeFields normalizes each whitespace-separated word of a phrase,
// dropping words that normalize to nothing.
func NormalizeFields(s string, stripPlurals bool) []string {
	fields := strings.Fields(s)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if n := Normalize(f, stripPlurals); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// splitWords breaks a token on its interior separators, preserving word
// boundaries that Normalize erases: runs of non-letter/digit runes become
// splits. "no-good" yields ["no", "good"]. Used for boundary-honoring
// substring matching.
func splitWords(s string, stripPlurals bool) []string {
	s = strings.ToLower(strings.TrimSpace(s))
	if folded, _, err := transform.String(foldMarks, s); err == nil {
		s = folded
	}
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(parts) < 2 {
		return nil // nothing interior to expose
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if n := Normalize(p, stripPlurals); n != "" {
			out = append(out, n)
		}
	}
	return out
}
