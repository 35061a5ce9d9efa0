// Package watch monitors an input directory for new video files and feeds
// them into the processing pool. This is the ingestion path for daemon
// mode; one-shot runs bypass it entirely.
package watch

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/snarg/wordmute/internal/pipeline"
)

// EnqueueFunc hands a discovered video path to the pool. Returns false
// when the queue is full; the file is dropped and counted, not retried.
type EnqueueFunc func(path string) bool

// Status is a snapshot for the health endpoint.
type Status struct {
	Status       string `json:"status"`
	WatchDir     string `json:"watch_dir"`
	FilesQueued  int64  `json:"files_queued"`
	FilesDropped int64  `json:"files_dropped"`
}

// Watcher monitors a directory tree for new video files.
type Watcher struct {
	watchDir string
	enqueue  EnqueueFunc
	log      zerolog.Logger

	watcher *fsnotify.Watcher
	done    chan struct{}

	// Debounce: coalesce rapid Create+Write events on the same file and
	// wait out slow copies before the file is read. closed gates the
	// timer callbacks so nothing is enqueued after Stop.
	debounceMu     sync.Mutex
	debounceTimers map[string]*time.Timer
	debounceDelay  time.Duration
	closed         bool

	filesQueued  atomic.Int64
	filesDropped atomic.Int64
	status       atomic.Value // string: "starting", "watching", "stopped"
}

// New creates a watcher over watchDir. Start must be called before any
// events are delivered.
func New(watchDir string, enqueue EnqueueFunc, log zerolog.Logger) *Watcher {
	w := &Watcher{
		watchDir:       watchDir,
		enqueue:        enqueue,
		log:            log.With().Str("component", "watcher").Logger(),
		done:           make(chan struct{}),
		debounceTimers: make(map[string]*time.Timer),
		debounceDelay:  500 * time.Millisecond,
	}
	w.status.Store("starting")
	return w
}

// Start initializes the fsnotify watcher, registers all existing
// directories, and begins watching for new files.
func (w *Watcher) Start() error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = fw

	dirCount := 0
	err = filepath.WalkDir(w.watchDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.log.Warn().Err(err).Str("path", path).Msg("error walking directory")
			return nil // continue walking
		}
		if d.IsDir() {
			if addErr := fw.Add(path); addErr != nil {
				w.log.Warn().Err(addErr).Str("path", path).Msg("failed to watch directory")
			} else {
				dirCount++
			}
		}
		return nil
	})
	if err != nil {
		fw.Close()
		return err
	}

	w.log.Info().
		Int("directories", dirCount).
		Str("watch_dir", w.watchDir).
		Msg("file watcher initialized")

	w.status.Store("watching")
	go w.watchLoop()
	return nil
}

// Stop closes the fsnotify watcher, halts event processing, and cancels
// any armed debounce timers so nothing reaches the enqueue callback
// after shutdown.
func (w *Watcher) Stop() {
	w.status.Store("stopped")
	close(w.done)
	if w.watcher != nil {
		w.watcher.Close()
	}

	w.debounceMu.Lock()
	w.closed = true
	for path, t := range w.debounceTimers {
		t.Stop()
		delete(w.debounceTimers, path)
	}
	w.debounceMu.Unlock()
	w.log.Info().
		Int64("files_queued", w.filesQueued.Load()).
		Int64("files_dropped", w.filesDropped.Load()).
		Msg("file watcher stopped")
}

// Status returns the current watcher state for the health endpoint.
func (w *Watcher) Status() *Status {
	s, _ := w.status.Load().(string)
	return &Status{
		Status:       s,
		WatchDir:     w.watchDir,
		FilesQueued:  w.filesQueued.Load(),
		FilesDropped: w.filesDropped.Load(),
	}
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}

			// New directory: add it to the watch set so files landing in
			// freshly created subdirectories are caught.
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				if err := w.watcher.Add(event.Name); err != nil {
					w.log.Warn().Err(err).Str("path", event.Name).Msg("failed to watch new directory")
				} else {
					w.log.Debug().Str("path", event.Name).Msg("watching new directory")
				}
				continue
			}

			if !pipeline.IsVideoPath(event.Name) {
				continue
			}

			w.scheduleEnqueue(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error().Err(err).Msg("fsnotify error")
		}
	}
}

// scheduleEnqueue debounces per path. Rapid Create+Write sequences while
// a file is still being copied collapse into one enqueue after the writes
// settle.
func (w *Watcher) scheduleEnqueue(path string) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.closed {
		return
	}
	if t, ok := w.debounceTimers[path]; ok {
		t.Reset(w.debounceDelay)
		return
	}

	w.debounceTimers[path] = time.AfterFunc(w.debounceDelay, func() {
		// A timer that already fired can race Stop; the closed check
		// under the same mutex keeps it from touching the queue.
		w.debounceMu.Lock()
		if w.closed {
			w.debounceMu.Unlock()
			return
		}
		delete(w.debounceTimers, path)
		w.debounceMu.Unlock()

		if w.enqueue(path) {
			w.filesQueued.Add(1)
			w.log.Debug().Str("path", path).Msg("video queued")
		} else {
			w.filesDropped.Add(1)
			w.log.Warn().Str("path", path).Msg("queue full, video dropped")
		}
	})
}
