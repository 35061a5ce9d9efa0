package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	WordsFile string `env:"WORDS_FILE"`

	InputDir  string `env:"INPUT_DIR"`
	OutputDir string `env:"OUTPUT_DIR" envDefault:"./muted"`
	Watch     bool   `env:"WATCH" envDefault:"false"`

	Provider          string        `env:"TRANSCRIBE_PROVIDER" envDefault:"whisper"`
	WhisperURL        string        `env:"WHISPER_URL" envDefault:"http://localhost:9000"`
	WhisperModel      string        `env:"WHISPER_MODEL" envDefault:"Systran/faster-whisper-base"`
	DeepInfraAPIKey   string        `env:"DEEPINFRA_API_KEY"`
	DeepInfraModel    string        `env:"DEEPINFRA_MODEL" envDefault:"openai/whisper-large-v3-turbo"`
	Language          string        `env:"TRANSCRIBE_LANGUAGE" envDefault:"en"`
	Temperature       float64       `env:"TRANSCRIBE_TEMPERATURE" envDefault:"0"`
	TranscribeTimeout time.Duration `env:"TRANSCRIBE_TIMEOUT" envDefault:"10m"`
	PreprocessAudio   bool          `env:"PREPROCESS_AUDIO" envDefault:"true"`
	ExportTranscript  bool          `env:"EXPORT_TRANSCRIPT" envDefault:"false"`

	PadSeconds   float64 `env:"MUTE_PAD_SECONDS" envDefault:"0.1"`
	Substring    bool    `env:"MATCH_SUBSTRING" envDefault:"false"`
	StripPlurals bool    `env:"STRIP_PLURALS" envDefault:"true"`

	FFmpegBin  string `env:"FFMPEG_BIN" envDefault:"ffmpeg"`
	FFprobeBin string `env:"FFPROBE_BIN" envDefault:"ffprobe"`

	Workers    int           `env:"WORKERS" envDefault:"2"`
	QueueSize  int           `env:"QUEUE_SIZE" envDefault:"100"`
	RunTimeout time.Duration `env:"RUN_TIMEOUT" envDefault:"30m"`

	HTTPAddr     string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`

	AuthToken string `env:"AUTH_TOKEN"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
}

// Overrides holds CLI flag values that take priority over env vars.
type Overrides struct {
	EnvFile    string
	WordsFile  string
	InputDir   string
	OutputDir  string
	Watch      *bool
	Provider   string
	WhisperURL string
	PadSeconds *float64
	HTTPAddr   string
	LogLevel   string
}

// Load reads configuration from .env file, environment variables, and CLI overrides.
// Priority: CLI flags > environment variables > .env file > struct defaults.
func Load(overrides Overrides) (*Config, error) {
	// Load .env file (silent if missing)
	envFile := overrides.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		_ = godotenv.Load(envFile)
	}

	// Parse environment variables into config struct
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Apply CLI overrides (non-empty values win)
	if overrides.WordsFile != "" {
		cfg.WordsFile = overrides.WordsFile
	}
	if overrides.InputDir != "" {
		cfg.InputDir = overrides.InputDir
	}
	if overrides.OutputDir != "" {
		cfg.OutputDir = overrides.OutputDir
	}
	if overrides.Watch != nil {
		cfg.Watch = *overrides.Watch
	}
	if overrides.Provider != "" {
		cfg.Provider = overrides.Provider
	}
	if overrides.WhisperURL != "" {
		cfg.WhisperURL = overrides.WhisperURL
	}
	if overrides.PadSeconds != nil {
		cfg.PadSeconds = *overrides.PadSeconds
	}
	if overrides.HTTPAddr != "" {
		cfg.HTTPAddr = overrides.HTTPAddr
	}
	if overrides.LogLevel != "" {
		cfg.LogLevel = overrides.LogLevel
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	// Checked here instead of an env tag so a -words flag can satisfy it.
	if c.WordsFile == "" {
		return fmt.Errorf("WORDS_FILE (or the -words flag) is required")
	}
	switch c.Provider {
	case "whisper":
	case "deepinfra":
		if c.DeepInfraAPIKey == "" {
			return fmt.Errorf("DEEPINFRA_API_KEY is required when TRANSCRIBE_PROVIDER=deepinfra")
		}
	default:
		return fmt.Errorf("unknown transcription provider %q", c.Provider)
	}
	if c.PadSeconds < 0 {
		return fmt.Errorf("MUTE_PAD_SECONDS must not be negative")
	}
	if c.Watch && c.InputDir == "" {
		return fmt.Errorf("INPUT_DIR is required in watch mode")
	}
	return nil
}
