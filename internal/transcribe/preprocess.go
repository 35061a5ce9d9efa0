package transcribe

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
)

var (
	binMu    sync.Mutex
	binCache = map[string]bool{}
)

// CheckBinary reports whether the named binary is in PATH. Results are
// cached for the process lifetime; call once at startup for the log line.
func CheckBinary(name string) bool {
	binMu.Lock()
	defer binMu.Unlock()
	if avail, ok := binCache[name]; ok {
		return avail
	}
	_, err := exec.LookPath(name)
	binCache[name] = err == nil
	return err == nil
}

// Preprocess extracts the first audio stream of a media file to a mono
// 16kHz WAV, the input format STT backends handle best. Uploading a bare
// WAV is also much cheaper than shipping the whole video container to the
// transcription endpoint.
//
// Returns the path to a temporary WAV file and a cleanup function. If
// ffmpeg is unavailable, returns the original path with a no-op cleanup.
func Preprocess(ctx context.Context, ffmpegBin, inputPath string) (string, func(), error) {
	noop := func() {}

	if ffmpegBin == "" {
		ffmpegBin = "ffmpeg"
	}
	if !CheckBinary(ffmpegBin) {
		return inputPath, noop, nil
	}

	tmp, err := os.CreateTemp("", "wordmute-audio-*.wav")
	if err != nil {
		return inputPath, noop, fmt.Errorf("create temp: %w", err)
	}
	outPath := tmp.Name()
	tmp.Close()

	cmd := exec.CommandContext(ctx, ffmpegBin,
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", inputPath,
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		outPath,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		os.Remove(outPath)
		return inputPath, noop, fmt.Errorf("ffmpeg extract: %w: %s", err, strings.TrimSpace(string(output)))
	}

	cleanup := func() {
		os.Remove(outPath)
	}
	return outPath, cleanup, nil
}
