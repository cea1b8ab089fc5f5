// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

//go:build windows

package records

import (
	"context"
	"os"
)

// writeFile falls back to a plain overwrite; renameio has no Windows support.
func writeFile(_ context.Context, path string, data []byte) error {
	return os.WriteFile(path, data, 0o600)
}
