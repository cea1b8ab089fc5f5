// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package daemon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/ytsum/internal/config"
	"github.com/ManuGH/ytsum/internal/records"
)

func bootstrapConfig(t *testing.T) config.AppConfig {
	t.Helper()
	cfg := config.Defaults()
	cfg.Version = "test"
	cfg.DataDir = filepath.Join(t.TempDir(), "data")
	cfg.Server.ListenAddr = "127.0.0.1:0"
	return cfg
}

func TestBootstrap_WiresHandlerAndStore(t *testing.T) {
	cfg := bootstrapConfig(t)
	holder := config.NewConfigHolder(cfg, config.NewLoader("", "test"))

	rt, err := Bootstrap(context.Background(), holder)
	require.NoError(t, err)
	require.NotNil(t, rt.App)

	primary, _ := cfg.StorePaths()
	assert.Equal(t, primary, rt.Store.Path())
	assert.DirExists(t, cfg.DataDir)

	require.NoError(t, rt.Store.Append(context.Background(), records.Record{ID: "r1", VideoID: "abc123"}))

	for path, want := range map[string]int{
		"/readyz":         http.StatusOK,
		"/api/summaries":  http.StatusOK,
		"/api/summary/r1": http.StatusOK,
		"/api/summary/nx": http.StatusNotFound,
		"/":               http.StatusOK,
	} {
		rec := httptest.NewRecorder()
		rt.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, rec.Code, path)
	}
}

func TestBootstrap_LoadsExistingRecords(t *testing.T) {
	cfg := bootstrapConfig(t)
	require.NoError(t, os.MkdirAll(cfg.DataDir, 0o750))
	primary, _ := cfg.StorePaths()
	require.NoError(t, os.WriteFile(primary, []byte(`[{"id":"a","youtube_url":"u","video_id":"v","title":"t","summary":"s","created_at":"2025-01-01T00:00:00"}]`), 0o600))

	rt, err := Bootstrap(context.Background(), config.NewConfigHolder(cfg, config.NewLoader("", "test")))
	require.NoError(t, err)
	assert.Equal(t, 1, rt.Store.Len())
}

func TestBootstrap_RejectsBadListenAddr(t *testing.T) {
	cfg := bootstrapConfig(t)
	cfg.Server.ListenAddr = "no-port"

	_, err := Bootstrap(context.Background(), config.NewConfigHolder(cfg, config.NewLoader("", "test")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "startup checks")
}
