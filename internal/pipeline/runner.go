// Package pipeline orchestrates a single mute run: probe, transcribe,
// validate, match, consolidate, apply. It also provides the worker pool
// used for batch and watch modes.
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/snarg/wordmute/internal/interval"
	"github.com/snarg/wordmute/internal/match"
	"github.com/snarg/wordmute/internal/media"
	"github.com/snarg/wordmute/internal/metrics"
	"github.com/snarg/wordmute/internal/transcribe"
)

// MediaTool is the mute-apply capability: container inspection plus
// producing the silenced output file. media.FFmpeg is the production
// implementation; tests substitute fakes.
type MediaTool interface {
	Probe(ctx context.Context, path string) (media.ProbeResult, error)
	Apply(ctx context.Context, inPath, outPath string, intervals []interval.Interval) error
}

// Job is one video to process.
type Job struct {
	Input  string
	Output string
}

// Result summarizes a completed run.
type Result struct {
	Output       string
	Words        int     // transcript tokens seen
	Matches      int     // raw matches before consolidation
	Muted        []interval.Interval
	MutedSeconds float64
	Duration     float64 // container duration in seconds
}

// Options configure the runner. Everything the pipeline needs is passed
// explicitly; the core reads no ambient state, which keeps the matcher
// and consolidator deterministic and unit-testable.
type Options struct {
	Provider transcribe.Provider
	Media    MediaTool
	Targets  *match.Set
	Match    match.Options

	Transcribe       transcribe.Opts
	FFmpegBin        string // for audio preprocessing
	PreprocessAudio  bool
	ExportTranscript bool
	RunTimeout       time.Duration // per-job cap across both collaborators; 0 = none

	Workers   int
	QueueSize int
	Log       zerolog.Logger
}

// Run executes the full pipeline for one job. The run either fully
// succeeds (output file in place) or fails with a kind-tagged error and
// no partial output.
func (r *Runner) Run(ctx context.Context, job Job) (*Result, error) {
	if _, err := os.Stat(job.Input); err != nil {
		return nil, failf(KindInput, "input video: %w", err)
	}

	probe, err := r.opts.Media.Probe(ctx, job.Input)
	if err != nil {
		return nil, failf(KindMedia, "probe %s: %w", job.Input, err)
	}
	if !probe.HasAudio() {
		return nil, failf(KindInput, "%s has no audio stream", job.Input)
	}

	// Optional preprocessing: the transcription upload shrinks to a bare
	// WAV. Failure falls back to sending the original file.
	transcribePath := job.Input
	if r.opts.PreprocessAudio {
		processed, cleanup, err := transcribe.Preprocess(ctx, r.opts.FFmpegBin, job.Input)
		if err != nil {
			r.log.Warn().Err(err).Str("input", job.Input).Msg("preprocessing failed, sending original file")
		} else {
			transcribePath = processed
			defer cleanup()
		}
	}

	tStart := time.Now()
	res, err := r.opts.Provider.Transcribe(ctx, transcribePath, r.opts.Transcribe)
	if err != nil {
		return nil, failf(KindTranscription, "%s: %w", r.opts.Provider.Name(), err)
	}
	metrics.TranscribeDuration.Observe(time.Since(tStart).Seconds())

	if err := transcribe.ValidateWords(res.Words); err != nil {
		return nil, failf(KindTranscription, "malformed transcript from %s: %w", r.opts.Provider.Name(), err)
	}

	raw := match.Match(res.Words, r.opts.Targets, r.opts.Match)

	duration := probe.DurationSeconds()
	if duration == 0 {
		duration = res.Duration
	}
	muted := interval.Consolidate(raw, duration)

	aStart := time.Now()
	if err := r.opts.Media.Apply(ctx, job.Input, job.Output, muted); err != nil {
		return nil, failf(KindMedia, "apply mutes: %w", err)
	}
	metrics.MuteApplyDuration.Observe(time.Since(aStart).Seconds())

	// Exported only once the output video exists: a failed run leaves no
	// artifact behind, transcript included.
	if r.opts.ExportTranscript {
		path := TranscriptPath(job.Output)
		if err := writeTranscript(path, res.Text); err != nil {
			return nil, failf(KindMedia, "export transcript: %w", err)
		}
	}

	mutedSeconds := interval.TotalDuration(muted)
	metrics.VideosProcessedTotal.Inc()
	metrics.WordsMatchedTotal.Add(float64(len(raw)))
	metrics.MutedSecondsTotal.Add(mutedSeconds)

	r.log.Info().
		Str("input", job.Input).
		Str("output", job.Output).
		Int("words", len(res.Words)).
		Int("matches", len(raw)).
		Int("mute_intervals", len(muted)).
		Float64("muted_seconds", mutedSeconds).
		Msg("video processed")

	return &Result{
		Output:       job.Output,
		Words:        len(res.Words),
		Matches:      len(raw),
		Muted:        muted,
		MutedSeconds: mutedSeconds,
		Duration:     duration,
	}, nil
}

// writeTranscript writes the transcript text next to the output video.
// Atomic write: temp file + rename.
func writeTranscript(path, text string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".transcript-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.WriteString(strings.TrimSpace(text) + "\n"); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
