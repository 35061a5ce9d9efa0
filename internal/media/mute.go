// Package media wraps the external ffmpeg/ffprobe tools: container
// inspection and the mute-apply step that produces the output video.
package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/snarg/wordmute/internal/interval"
)

// FFmpeg drives the external media tools. It is the mute-apply capability:
// given an input file and a consolidated interval set it emits the
// silenced output, leaving the video stream untouched.
type FFmpeg struct {
	FFmpegBin  string
	FFprobeBin string
}

// Probe inspects the container: duration, stream layout.
func (f *FFmpeg) Probe(ctx context.Context, path string) (ProbeResult, error) {
	return probe(ctx, f.FFprobeBin, path)
}

// BuildMuteFilter renders the ffmpeg audio filter chain that zeroes the
// gain over each interval. Intervals are assumed consolidated (sorted,
// disjoint). An empty set yields a pass-through filter so muted and
// unmuted runs share one invocation path.
func BuildMuteFilter(intervals []interval.Interval) string {
	if len(intervals) == 0 {
		return "anull"
	}
	clauses := make([]string, len(intervals))
	for i, iv := range intervals {
		clauses[i] = fmt.Sprintf("volume=enable='between(t,%s,%s)':volume=0",
			formatSeconds(iv.Start), formatSeconds(iv.End))
	}
	return strings.Join(clauses, ",")
}

// Apply produces outPath from inPath with audio silenced over intervals.
// Video and subtitle streams are stream-copied so frame timing and
// container duration are preserved; only audio is re-encoded. The result
// is written to a temporary file in the destination directory and renamed
// into place when ffmpeg succeeds, so a failed run leaves no partial
// output behind.
func (f *FFmpeg) Apply(ctx context.Context, inPath, outPath string, intervals []interval.Interval) error {
	binary := f.FFmpegBin
	if binary == "" {
		binary = "ffmpeg"
	}

	dir := filepath.Dir(outPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	// Same directory as the final path so the rename is atomic. The
	// original extension is kept so ffmpeg infers the right muxer.
	tmp, err := os.CreateTemp(dir, ".wordmute-*"+filepath.Ext(outPath))
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", inPath,
		"-map", "0",
		"-dn",
		"-c:v", "copy",
		"-c:s", "copy",
		"-c:a", "aac",
		"-af", BuildMuteFilter(intervals),
		tmpPath,
	}
	cmd := exec.CommandContext(ctx, binary, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("ffmpeg mute: %w: %s", err, strings.TrimSpace(string(output)))
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}

// formatSeconds renders a timestamp with millisecond precision, enough
// for sample-accurate gating without filter-string noise.
func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
