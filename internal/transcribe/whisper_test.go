package transcribe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTestAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.wav")
	if err := os.WriteFile(path, []byte("RIFF fake"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestWhisperClient_Transcribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			t.Errorf("request path = %q, want /v1/audio/transcriptions", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if got := r.FormValue("response_format"); got != "verbose_json" {
			t.Errorf("response_format = %q, want verbose_json", got)
		}
		if got := r.FormValue("timestamp_granularities[]"); got != "word" {
			t.Errorf("timestamp_granularities = %q, want word", got)
		}
		if got := r.FormValue("model"); got != "base" {
			t.Errorf("model = %q, want base", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"text": "the damn dog",
			"language": "en",
			"duration": 0.8,
			"words": [
				{"word": "the", "start": 0.0, "end": 0.2},
				{"word": "damn", "start": 0.2, "end": 0.5},
				{"word": "dog", "start": 0.5, "end": 0.8}
			]
		}`))
	}))
	defer srv.Close()

	wc := NewWhisperClient(srv.URL, "base", 5*time.Second)
	res, err := wc.Transcribe(context.Background(), writeTestAudio(t), Opts{})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if res.Text != "the damn dog" {
		t.Errorf("Text = %q", res.Text)
	}
	if len(res.Words) != 3 {
		t.Fatalf("len(Words) = %d, want 3", len(res.Words))
	}
	if res.Words[1].Word != "damn" || res.Words[1].Start != 0.2 || res.Words[1].End != 0.5 {
		t.Errorf("Words[1] = %+v", res.Words[1])
	}
	if res.Duration != 0.8 {
		t.Errorf("Duration = %f, want 0.8", res.Duration)
	}
}

func TestResolveWhisperEndpoint(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"http://localhost:9000", "http://localhost:9000/v1/audio/transcriptions"},
		{"http://localhost:9000/", "http://localhost:9000/v1/audio/transcriptions"},
		{"http://stt.local:9000/v1/audio/transcriptions", "http://stt.local:9000/v1/audio/transcriptions"},
		{"http://stt.local/custom/path", "http://stt.local/custom/path"},
	}
	for _, c := range cases {
		if got := resolveWhisperEndpoint(c.in); got != c.want {
			t.Errorf("resolveWhisperEndpoint(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestWhisperClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	wc := NewWhisperClient(srv.URL, "missing", 5*time.Second)
	if _, err := wc.Transcribe(context.Background(), writeTestAudio(t), Opts{}); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestWhisperClient_MissingFile(t *testing.T) {
	wc := NewWhisperClient("http://localhost:1", "base", time.Second)
	if _, err := wc.Transcribe(context.Background(), "/nonexistent.wav", Opts{}); err == nil {
		t.Fatal("expected error for missing audio file")
	}
}

func TestWordsFromSegments(t *testing.T) {
	segments := []deepInfraSegment{
		{Text: "one two", Start: 0.0, End: 1.0},
		{Text: "  ", Start: 1.0, End: 2.0},
		{Text: "three", Start: 2.0, End: 2.5},
	}
	words := wordsFromSegments(segments)
	if len(words) != 3 {
		t.Fatalf("len(words) = %d, want 3", len(words))
	}
	if words[0].Word != "one" || words[0].Start != 0.0 || words[0].End != 0.5 {
		t.Errorf("words[0] = %+v", words[0])
	}
	if words[1].Word != "two" || words[1].Start != 0.5 || words[1].End != 1.0 {
		t.Errorf("words[1] = %+v", words[1])
	}
	if words[2].Word != "three" || words[2].Start != 2.0 || words[2].End != 2.5 {
		t.Errorf("words[2] = %+v", words[2])
	}
}
