package transcribe

import "context"

// Provider is the interface for speech-to-text backends.
type Provider interface {
	Transcribe(ctx context.Context, audioPath string, opts Opts) (*Result, error)
	Name() string  // "whisper", "deepinfra"
	Model() string // model identifier for logs
}

// Opts are per-request options shared by all providers. Zero-value fields
// are omitted from requests, so servers keep their own defaults.
type Opts struct {
	Temperature float64
	Language    string
	Prompt      string // initial_prompt / domain vocabulary
	BeamSize    int    // 0 = server default
	VadFilter   bool
}

// Result is the common transcription result from any provider.
type Result struct {
	Text     string
	Language string
	Duration float64 // audio duration in seconds
	Words    []Word  // word-level timestamps; validated before use
}

// Word is a timestamped word from any STT provider. Start and End are
// seconds from the beginning of the audio stream.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}
