// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import "time"

// ENV keys. Every key overrides the matching YAML field.
const (
	EnvDataDir    = "YTSUM_DATA_DIR"
	EnvLogLevel   = "YTSUM_LOG_LEVEL"
	EnvLogService = "YTSUM_LOG_SERVICE"

	EnvListen          = "YTSUM_LISTEN"
	EnvReadTimeout     = "YTSUM_READ_TIMEOUT"
	EnvWriteTimeout    = "YTSUM_WRITE_TIMEOUT"
	EnvIdleTimeout     = "YTSUM_IDLE_TIMEOUT"
	EnvShutdownTimeout = "YTSUM_SHUTDOWN_TIMEOUT"

	EnvStorePath       = "YTSUM_STORE_PATH"
	EnvStoreBackupPath = "YTSUM_STORE_BACKUP_PATH"

	EnvTranscriptBaseURL = "YTSUM_TRANSCRIPT_BASE_URL"
	EnvTranscriptEngine  = "YTSUM_TRANSCRIPT_ENGINE"
	EnvTranscriptTimeout = "YTSUM_TRANSCRIPT_TIMEOUT"

	EnvSummarizerBaseURL     = "YTSUM_SUMMARIZER_BASE_URL"
	EnvSummarizerModel       = "YTSUM_SUMMARIZER_MODEL"
	EnvSummarizerTemperature = "YTSUM_SUMMARIZER_TEMPERATURE"
	EnvSummarizerMaxTokens   = "YTSUM_SUMMARIZER_MAX_TOKENS"
	EnvSummarizerTimeout     = "YTSUM_SUMMARIZER_TIMEOUT"

	EnvTitleWatchURL = "YTSUM_TITLE_WATCH_URL"
	EnvTitleTimeout  = "YTSUM_TITLE_TIMEOUT"

	EnvRateLimitEnabled = "YTSUM_RATELIMIT_ENABLED"
	EnvRateLimitSubmit  = "YTSUM_RATELIMIT_SUBMIT_PER_MINUTE"
	EnvRateLimitAPI     = "YTSUM_RATELIMIT_API_PER_MINUTE"

	EnvTelemetryEnabled  = "YTSUM_TELEMETRY_ENABLED"
	EnvTelemetryExporter = "YTSUM_TELEMETRY_EXPORTER"
	EnvTelemetryEndpoint = "YTSUM_TELEMETRY_ENDPOINT"
	EnvTelemetryEnv      = "YTSUM_TELEMETRY_ENVIRONMENT"
	EnvTelemetrySampling = "YTSUM_TELEMETRY_SAMPLING_RATE"
)

func (l *Loader) envString(key, defaultVal string) string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseString(key, defaultVal)
}

func (l *Loader) envBool(key string, defaultVal bool) bool {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseBool(key, defaultVal)
}

func (l *Loader) envInt(key string, defaultVal int) int {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseInt(key, defaultVal)
}

func (l *Loader) envDuration(key string, defaultVal time.Duration) time.Duration {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseDuration(key, defaultVal)
}

func (l *Loader) envFloat(key string, defaultVal float64) float64 {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseFloat(key, defaultVal)
}

// mergeEnvConfig applies ENV overrides on top of defaults and file values.
func (l *Loader) mergeEnvConfig(cfg *AppConfig) {
	cfg.DataDir = l.envString(EnvDataDir, cfg.DataDir)
	cfg.LogLevel = l.envString(EnvLogLevel, cfg.LogLevel)
	cfg.LogService = l.envString(EnvLogService, cfg.LogService)

	cfg.Server.ListenAddr = l.envString(EnvListen, cfg.Server.ListenAddr)
	cfg.Server.ReadTimeout = l.envDuration(EnvReadTimeout, cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = l.envDuration(EnvWriteTimeout, cfg.Server.WriteTimeout)
	cfg.Server.IdleTimeout = l.envDuration(EnvIdleTimeout, cfg.Server.IdleTimeout)
	cfg.Server.ShutdownTimeout = l.envDuration(EnvShutdownTimeout, cfg.Server.ShutdownTimeout)

	cfg.Store.Path = l.envString(EnvStorePath, cfg.Store.Path)
	cfg.Store.BackupPath = l.envString(EnvStoreBackupPath, cfg.Store.BackupPath)

	cfg.Transcript.BaseURL = l.envString(EnvTranscriptBaseURL, cfg.Transcript.BaseURL)
	cfg.Transcript.Engine = l.envString(EnvTranscriptEngine, cfg.Transcript.Engine)
	cfg.Transcript.Timeout = l.envDuration(EnvTranscriptTimeout, cfg.Transcript.Timeout)

	cfg.Summarizer.BaseURL = l.envString(EnvSummarizerBaseURL, cfg.Summarizer.BaseURL)
	cfg.Summarizer.Model = l.envString(EnvSummarizerModel, cfg.Summarizer.Model)
	cfg.Summarizer.Temperature = l.envFloat(EnvSummarizerTemperature, cfg.Summarizer.Temperature)
	cfg.Summarizer.MaxTokens = l.envInt(EnvSummarizerMaxTokens, cfg.Summarizer.MaxTokens)
	cfg.Summarizer.Timeout = l.envDuration(EnvSummarizerTimeout, cfg.Summarizer.Timeout)

	cfg.Title.WatchURL = l.envString(EnvTitleWatchURL, cfg.Title.WatchURL)
	cfg.Title.Timeout = l.envDuration(EnvTitleTimeout, cfg.Title.Timeout)

	cfg.RateLimit.Enabled = l.envBool(EnvRateLimitEnabled, cfg.RateLimit.Enabled)
	cfg.RateLimit.SubmitPerMinute = l.envInt(EnvRateLimitSubmit, cfg.RateLimit.SubmitPerMinute)
	cfg.RateLimit.APIPerMinute = l.envInt(EnvRateLimitAPI, cfg.RateLimit.APIPerMinute)

	cfg.Telemetry.Enabled = l.envBool(EnvTelemetryEnabled, cfg.Telemetry.Enabled)
	cfg.Telemetry.Exporter = l.envString(EnvTelemetryExporter, cfg.Telemetry.Exporter)
	cfg.Telemetry.Endpoint = l.envString(EnvTelemetryEndpoint, cfg.Telemetry.Endpoint)
	cfg.Telemetry.Environment = l.envString(EnvTelemetryEnv, cfg.Telemetry.Environment)
	cfg.Telemetry.SamplingRate = l.envFloat(EnvTelemetrySampling, cfg.Telemetry.SamplingRate)
}
