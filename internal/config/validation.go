// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"errors"
	"fmt"
	"strings"

	platformnet "github.com/ManuGH/ytsum/internal/platform/net"
)

// ValidationError collects every invalid field of a configuration.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

// ErrInvalidConfig is matched by every *ValidationError.
var ErrInvalidConfig = errors.New("invalid configuration")

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// Validate checks a fully merged configuration.
func Validate(cfg AppConfig) error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if strings.TrimSpace(cfg.Server.ListenAddr) == "" {
		add("server.listenAddr is required")
	}
	if cfg.Server.ReadTimeout <= 0 {
		add("server.readTimeout must be positive")
	}
	if cfg.Server.WriteTimeout <= 0 {
		add("server.writeTimeout must be positive")
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		add("server.shutdownTimeout must be positive")
	}
	if strings.TrimSpace(cfg.Store.Path) == "" {
		add("store.path is required")
	}

	checkURL := func(field, raw string) {
		if _, ok := platformnet.ParseDirectHTTPURL(raw); !ok {
			add("%s must be an absolute http(s) URL without credentials, got %q", field, raw)
		}
	}
	checkURL("transcript.baseURL", cfg.Transcript.BaseURL)
	checkURL("summarizer.baseURL", cfg.Summarizer.BaseURL)
	checkURL("title.watchURL", cfg.Title.WatchURL)

	if cfg.Transcript.Engine == "" {
		add("transcript.engine is required")
	}
	if cfg.Transcript.Timeout <= 0 {
		add("transcript.timeout must be positive")
	}
	if cfg.Summarizer.Model == "" {
		add("summarizer.model is required")
	}
	if cfg.Summarizer.Temperature < 0 || cfg.Summarizer.Temperature > 2 {
		add("summarizer.temperature must be within [0, 2], got %v", cfg.Summarizer.Temperature)
	}
	if cfg.Summarizer.MaxTokens <= 0 {
		add("summarizer.maxTokens must be positive")
	}
	if cfg.Summarizer.Timeout <= 0 {
		add("summarizer.timeout must be positive")
	}
	if cfg.Title.Timeout <= 0 {
		add("title.timeout must be positive")
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.SubmitPerMinute <= 0 {
			add("rateLimit.submitPerMinute must be positive when rate limiting is enabled")
		}
		if cfg.RateLimit.APIPerMinute <= 0 {
			add("rateLimit.apiPerMinute must be positive when rate limiting is enabled")
		}
	}

	if cfg.Telemetry.Enabled {
		switch cfg.Telemetry.Exporter {
		case "grpc", "http":
		default:
			add("telemetry.exporter must be grpc or http, got %q", cfg.Telemetry.Exporter)
		}
		if cfg.Telemetry.Endpoint == "" {
			add("telemetry.endpoint is required when telemetry is enabled")
		}
	}
	if cfg.Telemetry.SamplingRate < 0 || cfg.Telemetry.SamplingRate > 1 {
		add("telemetry.samplingRate must be within [0, 1]")
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
