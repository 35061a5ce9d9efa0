package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/snarg/wordmute/internal/api"
	"github.com/snarg/wordmute/internal/config"
	"github.com/snarg/wordmute/internal/match"
	"github.com/snarg/wordmute/internal/media"
	"github.com/snarg/wordmute/internal/pipeline"
	"github.com/snarg/wordmute/internal/transcribe"
	"github.com/snarg/wordmute/internal/watch"
	"github.com/snarg/wordmute/internal/wordlist"
)

var version = "dev"

func main() {
	startTime := time.Now()

	envFile := flag.String("env", "", "path to .env file")
	wordsFile := flag.String("words", "", "path to the word list file")
	inputDir := flag.String("input", "", "directory to scan for videos")
	outputDir := flag.String("output", "", "directory for muted output")
	watchFlag := flag.Bool("watch", false, "keep running and process videos as they appear")
	provider := flag.String("provider", "", "transcription provider (whisper or deepinfra)")
	whisperURL := flag.String("whisper-url", "", "whisper server base URL")
	padFlag := flag.Float64("pad", 0, "seconds of padding around each muted word")
	httpAddr := flag.String("http", "", "address for the status server in watch mode")
	logLevel := flag.String("log-level", "", "log level (trace, debug, info, warn, error)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("wordmute", version)
		return
	}

	overrides := config.Overrides{
		EnvFile:    *envFile,
		WordsFile:  *wordsFile,
		InputDir:   *inputDir,
		OutputDir:  *outputDir,
		Provider:   *provider,
		WhisperURL: *whisperURL,
		HTTPAddr:   *httpAddr,
		LogLevel:   *logLevel,
	}
	// Bool and float flags only override when given on the command line.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "watch":
			overrides.Watch = watchFlag
		case "pad":
			overrides.PadSeconds = padFlag
		}
	})

	cfg, err := config.Load(overrides)
	if err != nil {
		early := zerolog.New(os.Stderr).With().Timestamp().Logger()
		early.Fatal().Err(err).Msg("failed to load config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stdout).With().Timestamp().Logger().Level(level)
	log.Info().Str("version", version).Msg("wordmute starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, bin := range []string{cfg.FFmpegBin, cfg.FFprobeBin} {
		if !transcribe.CheckBinary(bin) {
			log.Fatal().Str("binary", bin).Msg("required tool not found in PATH")
		}
	}

	terms, err := wordlist.Load(cfg.WordsFile)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.WordsFile).Msg("failed to load word list")
	}
	targets := match.NewSet(terms, cfg.StripPlurals)
	log.Info().Int("terms", len(terms)).Str("path", cfg.WordsFile).Msg("word list loaded")

	prov := buildProvider(cfg)
	log.Info().Str("provider", prov.Name()).Str("model", prov.Model()).Msg("transcription provider ready")

	runner := pipeline.NewRunner(ctx, pipeline.Options{
		Provider: prov,
		Media:    &media.FFmpeg{FFmpegBin: cfg.FFmpegBin, FFprobeBin: cfg.FFprobeBin},
		Targets:  targets,
		Match: match.Options{
			Pad:       cfg.PadSeconds,
			Substring: cfg.Substring,
		},
		Transcribe: transcribe.Opts{
			Language:    cfg.Language,
			Temperature: cfg.Temperature,
		},
		FFmpegBin:        cfg.FFmpegBin,
		PreprocessAudio:  cfg.PreprocessAudio,
		ExportTranscript: cfg.ExportTranscript,
		RunTimeout:       cfg.RunTimeout,
		Workers:          cfg.Workers,
		QueueSize:        cfg.QueueSize,
		Log:              log,
	})

	if cfg.Watch {
		runWatch(ctx, cfg, runner, prov, startTime, log)
		return
	}

	if code := runOnce(cfg, runner, flag.Args(), log); code != 0 {
		os.Exit(code)
	}
}

func buildProvider(cfg *config.Config) transcribe.Provider {
	switch cfg.Provider {
	case "deepinfra":
		return transcribe.NewDeepInfraClient(cfg.DeepInfraAPIKey, cfg.DeepInfraModel, cfg.TranscribeTimeout)
	default:
		return transcribe.NewWhisperClient(cfg.WhisperURL, cfg.WhisperModel, cfg.TranscribeTimeout)
	}
}

// runOnce processes the videos named on the command line, or everything
// under INPUT_DIR when no arguments are given, then exits.
func runOnce(cfg *config.Config, runner *pipeline.Runner, args []string, log zerolog.Logger) int {
	inputs := args
	if len(inputs) == 0 {
		if cfg.InputDir == "" {
			log.Error().Msg("no videos given and INPUT_DIR not set")
			return 2
		}
		found, err := pipeline.CollectVideos(cfg.InputDir)
		if err != nil {
			log.Error().Err(err).Str("dir", cfg.InputDir).Msg("failed to scan input directory")
			return 2
		}
		inputs = found
	}
	if len(inputs) == 0 {
		log.Warn().Str("dir", cfg.InputDir).Msg("no videos found")
		return 0
	}

	runner.Start()
	for _, in := range inputs {
		job := pipeline.Job{
			Input:  in,
			Output: pipeline.OutputPath(cfg.InputDir, cfg.OutputDir, in),
		}
		for !runner.Enqueue(job) {
			// Queue smaller than the batch; wait for workers to drain.
			time.Sleep(100 * time.Millisecond)
		}
	}
	runner.Stop()

	stats := runner.Stats()
	log.Info().
		Int64("completed", stats.Completed).
		Int64("failed", stats.Failed).
		Msg("batch finished")
	if stats.Failed > 0 {
		return 1
	}
	return 0
}

// runWatch starts the worker pool, the directory watcher, and the status
// server, then blocks until a shutdown signal.
func runWatch(ctx context.Context, cfg *config.Config, runner *pipeline.Runner, prov transcribe.Provider, startTime time.Time, log zerolog.Logger) {
	runner.Start()

	watcher := watch.New(cfg.InputDir, func(path string) bool {
		return runner.Enqueue(pipeline.Job{
			Input:  path,
			Output: pipeline.OutputPath(cfg.InputDir, cfg.OutputDir, path),
		})
	}, log)
	if err := watcher.Start(); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.InputDir).Msg("failed to start watcher")
	}

	httpLog := log.With().Str("component", "http").Logger()
	health := api.NewHealthHandler(runner, watcher, prov.Name(), version, startTime)
	srv := api.NewServer(cfg, health, httpLog)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown error")
	}

	watcher.Stop()
	runner.Stop()
	log.Info().Msg("wordmute stopped")
}
