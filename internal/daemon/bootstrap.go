// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package daemon composes the summarizer runtime and manages its lifecycle.
package daemon

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ManuGH/ytsum/internal/api"
	"github.com/ManuGH/ytsum/internal/config"
	"github.com/ManuGH/ytsum/internal/health"
	"github.com/ManuGH/ytsum/internal/log"
	"github.com/ManuGH/ytsum/internal/pipeline"
	"github.com/ManuGH/ytsum/internal/platform/httpx"
	"github.com/ManuGH/ytsum/internal/records"
	"github.com/ManuGH/ytsum/internal/summarizer"
	"github.com/ManuGH/ytsum/internal/telemetry"
	"github.com/ManuGH/ytsum/internal/transcript"
	"github.com/ManuGH/ytsum/internal/video"
)

// Runtime is the composed daemon.
type Runtime struct {
	App     *App
	Manager Manager
	Handler http.Handler
	Store   *records.Store
}

// Bootstrap checks the environment, loads the record store and wires the
// providers, the orchestrator and the HTTP surface for the current config.
func Bootstrap(ctx context.Context, holder *config.ConfigHolder) (*Runtime, error) {
	cfg := holder.Get()
	logger := log.WithComponent("daemon")

	if err := health.PerformStartupChecks(ctx, cfg); err != nil {
		return nil, fmt.Errorf("startup checks: %w", err)
	}

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    cfg.LogService,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Telemetry.Environment,
		ExporterType:   cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}

	primary, backup := cfg.StorePaths()
	store := records.NewStore(primary, backup)
	n := store.Load(ctx)
	logger.Info().
		Str(log.FieldEvent, "records.loaded").
		Str(log.FieldPath, primary).
		Int("records", n).
		Msg("record store loaded")

	transcripts := transcript.New(
		httpx.NewClient(cfg.Transcript.Timeout,
			httpx.WithResponseHeaderTimeout(cfg.Transcript.Timeout),
			httpx.WithSpanName("searchapi.transcript")),
		cfg.Transcript.BaseURL,
		cfg.Transcript.Engine,
	)
	titles := video.NewTitleResolver(
		httpx.NewClient(cfg.Title.Timeout, httpx.WithSpanName("youtube.watch")),
		cfg.Title.WatchURL,
	)
	summaries := summarizer.New(
		httpx.NewClient(cfg.Summarizer.Timeout,
			httpx.WithResponseHeaderTimeout(cfg.Summarizer.Timeout),
			httpx.WithSpanName("deepseek.chat")),
		summarizer.Options{
			BaseURL:     cfg.Summarizer.BaseURL,
			Model:       cfg.Summarizer.Model,
			Temperature: cfg.Summarizer.Temperature,
			MaxTokens:   cfg.Summarizer.MaxTokens,
		},
	)

	orch := pipeline.New(pipeline.Deps{
		Transcripts: transcripts,
		Titles:      titles,
		Summarizer:  summaries,
		Store:       store,
	})

	hm := health.NewManager(cfg.Version)
	hm.RegisterChecker(health.NewStoreChecker(store))
	hm.RegisterChecker(health.NewDirWritableChecker("data_dir", cfg.DataDir))

	srv, err := api.New(cfg, api.Deps{Store: store, Submitter: orch, Health: hm})
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("api server: %w", err)
	}
	handler := srv.Handler()

	mgr, err := NewManager(cfg.Server, Deps{Logger: logger, APIHandler: handler})
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}
	mgr.RegisterShutdownHook("telemetry", tp.Shutdown)
	mgr.RegisterShutdownHook("config_watcher", func(context.Context) error {
		holder.Stop()
		return nil
	})

	return &Runtime{
		App:     NewApp(logger, mgr, holder),
		Manager: mgr,
		Handler: handler,
		Store:   store,
	}, nil
}
