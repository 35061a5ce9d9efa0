package transcribe

import (
	"fmt"
	"math"
)

// ValidateWords checks provider word timestamps before they reach the
// matcher. Every word needs finite, non-negative times with Start <= End,
// and Start must be non-decreasing across the transcript. The sequence is
// never re-sorted: out-of-order timestamps indicate a provider fault and
// silently reordering them would produce intervals over the wrong audio.
func ValidateWords(words []Word) error {
	prevStart := math.Inf(-1)
	for i, w := range words {
		if math.IsNaN(w.Start) || math.IsNaN(w.End) || math.IsInf(w.Start, 0) || math.IsInf(w.End, 0) {
			return fmt.Errorf("word %d %q: non-numeric timestamps (start=%v end=%v)", i, w.Word, w.Start, w.End)
		}
		if w.Start < 0 {
			return fmt.Errorf("word %d %q: negative start %v", i, w.Word, w.Start)
		}
		if w.Start > w.End {
			return fmt.Errorf("word %d %q: start %v after end %v", i, w.Word, w.Start, w.End)
		}
		if w.Start < prevStart {
			return fmt.Errorf("word %d %q: start %v before previous start %v (non-monotonic transcript)", i, w.Word, w.Start, prevStart)
		}
		prevStart = w.Start
	}
	return nil
}
