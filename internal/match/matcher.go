package match

import (
	"sort"
	"strings"

	"github.com/snarg/wordmute/internal/interval"
	"github.com/snarg/wordmute/internal/transcribe"
)

// Options control how transcript tokens are matched against targets.
// Plural/possessive folding travels with the Set: it is fixed at NewSet
// so targets and tokens always normalize under the same policy.
type Options struct {
	Pad       float64 // seconds added to each side of a matched span
	Substring bool    // match single-word targets inside compound tokens ("no-good")
}

// Set is a compiled target list: single-word targets in a lookup map plus
// multi-word phrases matched against contiguous token windows. Duplicates
// collapse and order is irrelevant.
type Set struct {
	words        map[string]struct{}
	phrases      [][]string
	stripPlurals bool
}

// NewSet compiles raw target terms. Terms are normalized here with the
// same policy the matcher applies to tokens; terms that normalize to
// nothing are discarded.
func NewSet(targets []string, stripPlurals bool) *Set {
	s := &Set{
		words:        make(map[string]struct{}),
		stripPlurals: stripPlurals,
	}
	seen := make(map[string]struct{})
	for _, t := range targets {
		fields := NormalizeFields(t, stripPlurals)
		switch len(fields) {
		case 0:
			continue
		case 1:
			s.words[fields[0]] = struct{}{}
		default:
			key := strings.Join(fields, " ")
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			s.phrases = append(s.phrases, fields)
		}
	}
	// Deterministic phrase order regardless of input order.
	sort.Slice(s.phrases, func(i, j int) bool {
		return strings.Join(s.phrases[i], " ") < strings.Join(s.phrases[j], " ")
	})
	return s
}

// Len returns the number of distinct targets.
func (s *Set) Len() int { return len(s.words) + len(s.phrases) }

// Empty reports whether no targets survived normalization.
func (s *Set) Empty() bool { return s.Len() == 0 }

// Match scans tokens against the target set and returns one raw mute
// interval per match, padded and clipped to a non-negative start. The
// output is unconsolidated and deterministic for identical input;
// overlap resolution is the consolidator's job.
//
// A zero-duration token with zero pad produces nothing: a zero-length
// mute is a no-op, not an error.
func Match(tokens []transcribe.Word, targets *Set, opts Options) []interval.Interval {
	if targets == nil || targets.Empty() || len(tokens) == 0 {
		return nil
	}

	normed := make([]string, len(tokens))
	for i, tok := range tokens {
		normed[i] = Normalize(tok.Word, targets.stripPlurals)
	}

	var out []interval.Interval
	emit := func(start, end float64) {
		start -= opts.Pad
		if start < 0 {
			start = 0
		}
		end += opts.Pad
		if start >= end {
			return
		}
		out = append(out, interval.Interval{Start: start, End: end})
	}

	for i, tok := range tokens {
		if n := normed[i]; n != "" {
			if _, hit := targets.words[n]; hit {
				emit(tok.Start, tok.End)
				continue
			}
		}
		if opts.Substring && targets.hitsInnerWord(tok.Word) {
			emit(tok.Start, tok.End)
		}
	}

	// Multi-word phrases match contiguous token windows whose normalized,
	// space-joined form equals the phrase.
	for _, phrase := range targets.phrases {
		for i := 0; i+len(phrase) <= len(tokens); i++ {
			if windowEquals(normed, i, phrase) {
				emit(tokens[i].Start, tokens[i+len(phrase)-1].End)
			}
		}
	}

	return out
}

// hitsInnerWord reports whether any word inside a compound token equals a
// single-word target. Matching stays on word boundaries: "good" hits
// inside "no-good" but not inside "goodness".
func (s *Set) hitsInnerWord(raw string) bool {
	for _, part := range splitWords(raw, s.stripPlurals) {
		if _, hit := s.words[part]; hit {
			return true
		}
	}
	return false
}

func windowEquals(normed []string, at int, phrase []string) bool {
	for j, want := range phrase {
		if normed[at+j] != want {
			return false
		}
	}
	return true
}
