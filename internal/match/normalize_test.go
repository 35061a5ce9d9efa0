package match

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in           string
		stripPlurals bool
		want         string
	}{
		{"  Damn,  ", false, "damn"},
		{"HELLO!", false, "hello"},
		{"café", false, "cafe"},
		{"naïve", false, "naive"},
		{"re-up", false, "reup"},
		{"dog's", true, "dog"},
		{"dog’s", true, "dog"},
		{"dogs", true, "dog"},
		{"glass", true, "glass"}, // "ss" ending survives plural strip
		{"is", true, "is"},       // too short for plural strip
		{"dogs", false, "dogs"},
		{"42nd", false, "42nd"},
		{"...", false, ""},
		{"", false, ""},
	}
	for _, c := range cases {
		if got := Normalize(c.in, c.stripPlurals); got != c.want {
			t.Errorf("Normalize(%q, %v) = %q, want %q", c.in, c.stripPlurals, got, c.want)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"Damn!", "café's", "re-up", "DOGS"}
	for _, in := range inputs {
		once := Normalize(in, true)
		twice := Normalize(once, true)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNormalizeFields(t *testing.T) {
	got := NormalizeFields("  Son of   a Gun! ", false)
	want := []string{"son", "of", "a", "gun"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeFields = %v, want %v", got, want)
	}

	if got := NormalizeFields("... ---", false); len(got) != 0 {
		t.Errorf("punctuation-only phrase should normalize to nothing, got %v", got)
	}
}

func TestSplitWords(t *testing.T) {
	got := splitWords("No-Good", false)
	want := []string{"no", "good"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitWords = %v, want %v", got, want)
	}

	// Single-word tokens expose no interior boundary.
	if got := splitWords("goodness", false); got != nil {
		t.Errorf("splitWords(goodness) = %v, want nil", got)
	}
}
