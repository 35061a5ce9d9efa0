package pipeline

import (
	"errors"
	"fmt"
)

// Kind classifies a failed run. The run either fully succeeds or aborts
// with exactly one of these; nothing is retried automatically.
type Kind string

const (
	// KindInput covers missing or unreadable inputs: the video file, the
	// word list.
	KindInput Kind = "input"
	// KindTranscription covers transcription collaborator failures and
	// malformed token sequences.
	KindTranscription Kind = "transcription"
	// KindMedia covers mute-application and output write failures.
	KindMedia Kind = "media"
)

// Error tags an underlying failure with its run-level kind.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return string(e.Kind) + ": " + e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

func failf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf extracts the kind from a run error, or "" for untagged errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
