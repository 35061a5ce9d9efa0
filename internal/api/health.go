package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/snarg/wordmute/internal/pipeline"
	"github.com/snarg/wordmute/internal/watch"
)

type HealthResponse struct {
	Status        string            `json:"status"`
	Version       string            `json:"version"`
	UptimeSeconds int64             `json:"uptime_seconds"`
	Checks        map[string]string `json:"checks"`
	Queue         *QueueStatus      `json:"queue,omitempty"`
	Watcher       *watch.Status     `json:"watcher,omitempty"`
	Transcriber   string            `json:"transcriber,omitempty"`
}

type QueueStatus struct {
	Queued    int   `json:"queued"`
	Workers   int   `json:"workers"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
}

// WatcherSource reports live watcher state. Nil when running without a
// watch directory.
type WatcherSource interface {
	Status() *watch.Status
}

type HealthHandler struct {
	runner    *pipeline.Runner
	watcher   WatcherSource
	provider  string
	version   string
	startTime time.Time
}

func NewHealthHandler(runner *pipeline.Runner, watcher WatcherSource, provider, version string, startTime time.Time) *HealthHandler {
	return &HealthHandler{
		runner:    runner,
		watcher:   watcher,
		provider:  provider,
		version:   version,
		startTime: startTime,
	}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)
	status := "healthy"

	var queue *QueueStatus
	if h.runner != nil {
		st := h.runner.Stats()
		queue = &QueueStatus{
			Queued:    st.Pending,
			Workers:   h.runner.Workers(),
			Completed: st.Completed,
			Failed:    st.Failed,
		}
		checks["pool"] = "ok"
	} else {
		checks["pool"] = "not_configured"
	}

	var watcherStatus *watch.Status
	if h.watcher != nil {
		watcherStatus = h.watcher.Status()
		checks["file_watcher"] = watcherStatus.Status
		if watcherStatus.Status == "stopped" && status == "healthy" {
			status = "degraded"
		}
	} else {
		checks["file_watcher"] = "not_configured"
	}

	if h.provider != "" {
		checks["transcription"] = "ok"
	} else {
		checks["transcription"] = "not_configured"
	}

	resp := HealthResponse{
		Status:        status,
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Checks:        checks,
		Queue:         queue,
		Watcher:       watcherStatus,
		Transcriber:   h.provider,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// queueHandler returns just the pool counters, for dashboards that poll
// frequently and do not need the full health payload.
func (h *HealthHandler) queueHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if h.runner == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"error": "pool not running"})
		return
	}
	json.NewEncoder(w).Encode(h.runner.Stats())
}
