// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"path/filepath"
	"time"
)

// AppConfig is the complete runtime configuration of the daemon.
// YAML keys mirror the ENV overrides documented in merge_env.go.
type AppConfig struct {
	Version string `yaml:"-"`

	DataDir    string `yaml:"dataDir"`
	LogLevel   string `yaml:"logLevel"`
	LogService string `yaml:"logService"`

	Server     ServerConfig     `yaml:"server"`
	Store      StoreConfig      `yaml:"store"`
	Transcript TranscriptConfig `yaml:"transcript"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Title      TitleConfig      `yaml:"title"`
	RateLimit  RateLimitConfig  `yaml:"rateLimit"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	// ListenAddr is the address to listen on (e.g., ":8000")
	ListenAddr string `yaml:"listenAddr"`

	// ReadTimeout is the maximum duration for reading the entire request
	ReadTimeout time.Duration `yaml:"readTimeout"`

	// WriteTimeout must exceed the slowest provider round trip of a submission.
	WriteTimeout time.Duration `yaml:"writeTimeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	IdleTimeout time.Duration `yaml:"idleTimeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// StoreConfig locates the record files. Relative paths resolve against DataDir.
type StoreConfig struct {
	Path       string `yaml:"path"`
	BackupPath string `yaml:"backupPath"`
}

type TranscriptConfig struct {
	BaseURL string        `yaml:"baseURL"`
	Engine  string        `yaml:"engine"`
	Timeout time.Duration `yaml:"timeout"`
}

type SummarizerConfig struct {
	BaseURL     string        `yaml:"baseURL"`
	Model       string        `yaml:"model"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"maxTokens"`
	Timeout     time.Duration `yaml:"timeout"`
}

type TitleConfig struct {
	WatchURL string        `yaml:"watchURL"`
	Timeout  time.Duration `yaml:"timeout"`
}

type RateLimitConfig struct {
	Enabled bool `yaml:"enabled"`
	// SubmitPerMinute bounds POST /summarize per client IP.
	SubmitPerMinute int `yaml:"submitPerMinute"`
	// APIPerMinute bounds the JSON API per client IP.
	APIPerMinute int `yaml:"apiPerMinute"`
}

type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"`
	Endpoint     string  `yaml:"endpoint"`
	Environment  string  `yaml:"environment"`
	SamplingRate float64 `yaml:"samplingRate"`
}

const (
	DefaultListenAddr       = ":8000"
	DefaultStoreFile        = "summaries.json"
	DefaultTranscriptURL    = "https://www.searchapi.io/api/v1/search"
	DefaultTranscriptEngine = "youtube_transcripts"
	DefaultSummarizerURL    = "https://api.deepseek.com/v1"
	DefaultSummarizerModel  = "deepseek-chat"
	DefaultWatchURL         = "https://www.youtube.com/watch"
)

// Defaults returns the configuration used when neither file nor ENV set a value.
func Defaults() AppConfig {
	return AppConfig{
		DataDir:    ".",
		LogLevel:   "info",
		LogService: "ytsum",
		Server: ServerConfig{
			ListenAddr:      DefaultListenAddr,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    180 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Store: StoreConfig{
			Path: DefaultStoreFile,
		},
		Transcript: TranscriptConfig{
			BaseURL: DefaultTranscriptURL,
			Engine:  DefaultTranscriptEngine,
			Timeout: 15 * time.Second,
		},
		Summarizer: SummarizerConfig{
			BaseURL:     DefaultSummarizerURL,
			Model:       DefaultSummarizerModel,
			Temperature: 0.3,
			MaxTokens:   1000,
			Timeout:     120 * time.Second,
		},
		Title: TitleConfig{
			WatchURL: DefaultWatchURL,
			Timeout:  10 * time.Second,
		},
		RateLimit: RateLimitConfig{
			Enabled:         true,
			SubmitPerMinute: 10,
			APIPerMinute:    600,
		},
		Telemetry: TelemetryConfig{
			Enabled:      false,
			Exporter:     "http",
			Environment:  "production",
			SamplingRate: 1.0,
		},
	}
}

// StorePaths returns the absolute primary and backup record file paths.
func (c AppConfig) StorePaths() (primary, backup string) {
	primary = c.resolve(c.Store.Path)
	if c.Store.BackupPath != "" {
		backup = c.resolve(c.Store.BackupPath)
	} else {
		backup = primary + ".bak"
	}
	return primary, backup
}

func (c AppConfig) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.DataDir, p)
}
