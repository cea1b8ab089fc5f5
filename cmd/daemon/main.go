// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/ManuGH/ytsum/internal/config"
	"github.com/ManuGH/ytsum/internal/daemon"
	"github.com/ManuGH/ytsum/internal/log"
	platformnet "github.com/ManuGH/ytsum/internal/platform/net"
	"github.com/ManuGH/ytsum/internal/version"
)

// resolveConfigPath prefers an explicit path, then ${YTSUM_DATA_DIR}/config.yaml
// when it exists. An empty result means ENV and defaults only.
func resolveConfigPath(explicit string) string {
	if p := strings.TrimSpace(explicit); p != "" {
		return p
	}
	dataDir := strings.TrimSpace(os.Getenv(config.EnvDataDir))
	if dataDir == "" {
		return ""
	}
	autoPath := filepath.Join(dataDir, "config.yaml")
	if _, err := os.Stat(autoPath); err == nil {
		return autoPath
	}
	return ""
}

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "config":
			os.Exit(runConfigCLI(os.Args[2:], os.Stdout, os.Stderr))
		case "healthcheck":
			os.Exit(runHealthcheckCLI(os.Args[2:]))
		}
	}

	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		os.Exit(0)
	}

	// Safe defaults until config is loaded
	log.Configure(log.Config{
		Level:   "info",
		Service: "ytsum",
		Version: version.Version,
	})
	logger := log.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	effectiveConfigPath := resolveConfigPath(*configPath)
	loader := config.NewLoader(effectiveConfigPath, version.Version)
	cfg, err := loader.Load()
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "config.load_failed").
			Str("config_path", effectiveConfigPath).
			Msg("failed to load configuration")
	}

	log.Configure(log.Config{
		Level:   cfg.LogLevel,
		Service: cfg.LogService,
		Version: cfg.Version,
	})
	logger = log.WithComponent("daemon")

	if effectiveConfigPath != "" {
		logger.Info().
			Str("event", "config.loaded").
			Str("source", "file").
			Str("path", effectiveConfigPath).
			Msg("loaded configuration from file")
	} else {
		logger.Info().
			Str("event", "config.loaded").
			Str("source", "env+defaults").
			Msg("loaded configuration from environment and defaults")
	}

	logger.Info().
		Str("version", version.Version).
		Str("commit", version.Commit).
		Str("listen", cfg.Server.ListenAddr).
		Str("data_dir", cfg.DataDir).
		Str("transcript_url", platformnet.SanitizeURL(cfg.Transcript.BaseURL)).
		Str("summarizer_url", platformnet.SanitizeURL(cfg.Summarizer.BaseURL)).
		Str("summarizer_model", cfg.Summarizer.Model).
		Msg("starting ytsum")

	holder := config.NewConfigHolder(cfg, loader)
	rt, err := daemon.Bootstrap(ctx, holder)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "startup.failed").
			Msg("failed to bootstrap daemon")
	}

	if err := rt.App.Run(ctx); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "daemon.failed").
			Msg("daemon exited with error")
	}
	logger.Info().Str("event", "daemon.stopped").Msg("ytsum stopped")
}
