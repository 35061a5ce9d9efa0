package interval

import "sort"

// Interval is a half-open time range [Start, End) in seconds over which
// audio will be silenced.
type Interval struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Duration returns the interval length in seconds.
func (iv Interval) Duration() float64 { return iv.End - iv.Start }

// Contains reports whether other lies entirely within iv.
func (iv Interval) Contains(other Interval) bool {
	return other.Start >= iv.Start && other.End <= iv.End
}

// TotalDuration sums the lengths of all intervals in the set.
func TotalDuration(set []Interval) float64 {
	var total float64
	for _, iv := range set {
		total += iv.Duration()
	}
	return total
}

// Consolidate merges raw mute intervals into the minimal sorted, disjoint
// set, clipped to [0, mediaDuration]. Touching intervals merge, so no
// zero-length gap survives between neighbours. mediaDuration <= 0 means
// the container duration is unknown and only the lower bound is enforced.
//
// Consolidate is idempotent: running it on its own output returns the
// same sequence.
func Consolidate(raw []Interval, mediaDuration float64) []Interval {
	clipped := make([]Interval, 0, len(raw))
	for _, iv := range raw {
		if iv.Start < 0 {
			iv.Start = 0
		}
		if mediaDuration > 0 && iv.End > mediaDuration {
			iv.End = mediaDuration
		}
		// Degenerate after clipping, or entirely outside the stream.
		if iv.Start >= iv.End {
			continue
		}
		clipped = append(clipped, iv)
	}
	if len(clipped) == 0 {
		return nil
	}

	sort.Slice(clipped, func(i, j int) bool { return clipped[i].Start < clipped[j].Start })

	out := clipped[:1]
	for _, next := range clipped[1:] {
		cur := &out[len(out)-1]
		if next.Start <= cur.End {
			if next.End > cur.End {
				cur.End = next.End
			}
			continue
		}
		out = append(out, next)
	}
	return out
}
