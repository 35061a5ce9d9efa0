package media

import (
	"testing"

	"github.com/snarg/wordmute/internal/interval"
)

func TestBuildMuteFilter_Empty(t *testing.T) {
	if got := BuildMuteFilter(nil); got != "anull" {
		t.Errorf("BuildMuteFilter(nil) = %q, want anull", got)
	}
}

func TestBuildMuteFilter_SingleInterval(t *testing.T) {
	got := BuildMuteFilter([]interval.Interval{{Start: 0.1, End: 0.6}})
	want := "volume=enable='between(t,0.100,0.600)':volume=0"
	if got != want {
		t.Errorf("BuildMuteFilter = %q, want %q", got, want)
	}
}

func TestBuildMuteFilter_MultipleIntervals(t *testing.T) {
	got := BuildMuteFilter([]interval.Interval{
		{Start: 1.0, End: 3.0},
		{Start: 10.25, End: 12.5},
	})
	want := "volume=enable='between(t,1.000,3.000)':volume=0,volume=enable='between(t,10.250,12.500)':volume=0"
	if got != want {
		t.Errorf("BuildMuteFilter = %q, want %q", got, want)
	}
}

func TestParseProbeOutput(t *testing.T) {
	payload := []byte(`{
		"streams": [
			{"index": 0, "codec_name": "h264", "codec_type": "video"},
			{"index": 1, "codec_name": "aac", "codec_type": "audio", "duration": "12.32"}
		],
		"format": {"filename": "in.mp4", "nb_streams": 2, "duration": "12.345", "format_name": "mov,mp4"}
	}`)

	result, err := parseProbeOutput(payload)
	if err != nil {
		t.Fatalf("parseProbeOutput: %v", err)
	}
	if !result.HasAudio() {
		t.Error("HasAudio = false, want true")
	}
	if !result.HasVideo() {
		t.Error("HasVideo = false, want true")
	}
	if got := result.DurationSeconds(); got != 12.345 {
		t.Errorf("DurationSeconds = %f, want 12.345", got)
	}
}

func TestParseProbeOutput_Invalid(t *testing.T) {
	if _, err := parseProbeOutput([]byte("not json")); err == nil {
		t.Fatal("expected error for invalid payload")
	}
}

func TestProbeResult_MissingDuration(t *testing.T) {
	var r ProbeResult
	if got := r.DurationSeconds(); got != 0 {
		t.Errorf("DurationSeconds = %f, want 0", got)
	}
	r.Format.Duration = "N/A"
	if got := r.DurationSeconds(); got != 0 {
		t.Errorf("DurationSeconds(N/A) = %f, want 0", got)
	}
}
