package match

import (
	"reflect"
	"testing"

	"github.com/snarg/wordmute/internal/interval"
	"github.com/snarg/wordmute/internal/transcribe"
)

func tok(w string, start, end float64) transcribe.Word {
	return transcribe.Word{Word: w, Start: start, End: end}
}

func TestMatch_SingleWordWithPad(t *testing.T) {
	tokens := []transcribe.Word{
		tok("the", 0.0, 0.2),
		tok("damn", 0.2, 0.5),
		tok("dog", 0.5, 0.8),
	}
	set := NewSet([]string{"damn"}, false)

	got := Match(tokens, set, Options{Pad: 0.1})
	want := []interval.Interval{{Start: 0.1, End: 0.6}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Match = %v, want %v", got, want)
	}
}

func TestMatch_PadClipsAtZero(t *testing.T) {
	tokens := []transcribe.Word{tok("damn", 0.05, 0.3)}
	set := NewSet([]string{"damn"}, false)

	got := Match(tokens, set, Options{Pad: 0.2})
	want := []interval.Interval{{Start: 0, End: 0.5}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Match = %v, want %v", got, want)
	}
}

func TestMatch_EmptyTargets(t *testing.T) {
	tokens := []transcribe.Word{tok("damn", 0.2, 0.5)}
	if got := Match(tokens, NewSet(nil, false), Options{Pad: 0.1}); got != nil {
		t.Errorf("empty target set should match nothing, got %v", got)
	}
	if got := Match(tokens, nil, Options{Pad: 0.1}); got != nil {
		t.Errorf("nil target set should match nothing, got %v", got)
	}
}

func TestMatch_ZeroDurationToken(t *testing.T) {
	tokens := []transcribe.Word{tok("damn", 1.0, 1.0)}
	set := NewSet([]string{"damn"}, false)

	// With pad the interval is non-degenerate.
	got := Match(tokens, set, Options{Pad: 0.1})
	want := []interval.Interval{{Start: 0.9, End: 1.1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("padded zero-duration match = %v, want %v", got, want)
	}

	// Without pad a zero-length mute is dropped as a no-op.
	if got := Match(tokens, set, Options{}); got != nil {
		t.Errorf("zero-length interval should drop, got %v", got)
	}
}

func TestMatch_NormalizationSymmetry(t *testing.T) {
	// Token carries punctuation and casing; target carries diacritics.
	tokens := []transcribe.Word{tok(" Merde! ", 2.0, 2.4)}
	set := NewSet([]string{"MERDÉ"}, false)

	got := Match(tokens, set, Options{})
	want := []interval.Interval{{Start: 2.0, End: 2.4}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Match = %v, want %v", got, want)
	}
}

func TestMatch_PluralFolding(t *testing.T) {
	tokens := []transcribe.Word{tok("bastards", 0.0, 0.6)}

	if got := Match(tokens, NewSet([]string{"bastard"}, true), Options{}); len(got) != 1 {
		t.Errorf("plural token should match singular target with folding on, got %v", got)
	}
	if got := Match(tokens, NewSet([]string{"bastard"}, false), Options{}); got != nil {
		t.Errorf("plural token should not match with folding off, got %v", got)
	}
}

func TestMatch_PluralPolicyTravelsWithSet(t *testing.T) {
	// The folding policy is fixed when the set is compiled; both sides of
	// every comparison use it, so a plural target still hits a singular
	// token and inner-word matching folds the same way.
	tokens := []transcribe.Word{
		tok("dog", 0.0, 0.3),
		tok("no-dogs", 0.3, 0.7),
	}
	set := NewSet([]string{"dogs"}, true)

	got := Match(tokens, set, Options{Substring: true})
	want := []interval.Interval{
		{Start: 0.0, End: 0.3},
		{Start: 0.3, End: 0.7},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Match = %v, want %v", got, want)
	}
}

func TestMatch_MultiWordPhrase(t *testing.T) {
	tokens := []transcribe.Word{
		tok("you", 0.0, 0.2),
		tok("son", 0.2, 0.4),
		tok("of", 0.4, 0.5),
		tok("a", 0.5, 0.6),
		tok("gun", 0.6, 0.9),
		tok("pal", 0.9, 1.1),
	}
	set := NewSet([]string{"son of a gun"}, false)

	got := Match(tokens, set, Options{Pad: 0.1})
	want := []interval.Interval{{Start: 0.1, End: 1.0}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("phrase match = %v, want %v", got, want)
	}
}

func TestMatch_PhraseNotSplitAcrossGapInTokens(t *testing.T) {
	// "son ... gun" with an interloper token must not match "son gun".
	tokens := []transcribe.Word{
		tok("son", 0.0, 0.2),
		tok("big", 0.2, 0.4),
		tok("gun", 0.4, 0.6),
	}
	set := NewSet([]string{"son gun"}, false)
	if got := Match(tokens, set, Options{}); got != nil {
		t.Errorf("non-contiguous phrase should not match, got %v", got)
	}
}

func TestMatch_SubstringOnWordBoundaries(t *testing.T) {
	tokens := []transcribe.Word{
		tok("no-good", 0.0, 0.5),
		tok("goodness", 0.5, 1.0),
	}
	set := NewSet([]string{"good"}, false)

	got := Match(tokens, set, Options{Substring: true})
	want := []interval.Interval{{Start: 0.0, End: 0.5}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("substring match = %v, want %v", got, want)
	}

	// Substring matching is opt-in.
	if got := Match(tokens, set, Options{}); got != nil {
		t.Errorf("substring match should be off by default, got %v", got)
	}
}

func TestMatch_Deterministic(t *testing.T) {
	tokens := []transcribe.Word{
		tok("damn", 0.0, 0.3),
		tok("son", 0.3, 0.5),
		tok("of", 0.5, 0.6),
		tok("a", 0.6, 0.7),
		tok("gun", 0.7, 0.9),
		tok("damn", 1.0, 1.3),
	}
	set := NewSet([]string{"damn", "son of a gun"}, false)
	opts := Options{Pad: 0.05}

	first := Match(tokens, set, opts)
	for i := 0; i < 50; i++ {
		if got := Match(tokens, set, opts); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %v vs %v", i, got, first)
		}
	}
}

func TestNewSet_Dedupes(t *testing.T) {
	set := NewSet([]string{"Damn", "damn!", "DAMN", "son of a gun", "Son Of A Gun"}, false)
	if set.Len() != 2 {
		t.Errorf("Len = %d, want 2 (one word, one phrase)", set.Len())
	}
}
