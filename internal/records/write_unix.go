// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

//go:build !windows

package records

import (
	"context"
	"fmt"

	"github.com/ManuGH/ytsum/internal/log"
	"github.com/google/renameio/v2"
)

// writeFile replaces path with data atomically (temp file, fsync, rename).
func writeFile(ctx context.Context, path string, data []byte) error {
	logger := log.FromContext(ctx)

	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o600))
	if err != nil {
		return fmt.Errorf("create pending record file: %w", err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Msg("cleanup pending record file")
		}
	}()

	if _, err := pendingFile.Write(data); err != nil {
		return fmt.Errorf("write record data: %w", err)
	}

	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace record file: %w", err)
	}
	return nil
}
