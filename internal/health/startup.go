// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package health

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ManuGH/ytsum/internal/config"
	"github.com/ManuGH/ytsum/internal/log"
)

// PerformStartupChecks prepares and validates the environment before the
// server starts: the data directory and the record file directories must be
// writable and the listen address must parse.
func PerformStartupChecks(_ context.Context, cfg config.AppConfig) error {
	logger := log.WithComponent("startup-check")
	logger.Info().Str(log.FieldEvent, "startup.checks_begin").Msg("running pre-flight startup checks")

	primary, backup := cfg.StorePaths()
	dirs := []string{cfg.DataDir, filepath.Dir(primary), filepath.Dir(backup)}
	seen := make(map[string]struct{}, len(dirs))
	for _, dir := range dirs {
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}

		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
		if err := checkWritable(dir); err != nil {
			return fmt.Errorf("data directory check failed: %w", err)
		}
		logger.Info().Str(log.FieldPath, dir).Msg("directory is writable")
	}

	_, port, err := net.SplitHostPort(cfg.Server.ListenAddr)
	if err != nil {
		return fmt.Errorf("invalid listen address %q: %w", cfg.Server.ListenAddr, err)
	}
	if n, err := strconv.Atoi(port); err != nil || n < 0 || n > 65535 {
		return fmt.Errorf("invalid listen port %q in %q", port, cfg.Server.ListenAddr)
	}

	logger.Info().Str(log.FieldEvent, "startup.checks_passed").Msg("all startup checks passed")
	return nil
}
