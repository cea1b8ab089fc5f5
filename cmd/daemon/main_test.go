// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/ytsum/internal/config"
)

func TestResolveConfigPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvDataDir, dir)

	assert.Equal(t, "explicit.yaml", resolveConfigPath(" explicit.yaml "))
	assert.Empty(t, resolveConfigPath(""))

	auto := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(auto, []byte("logLevel: debug\n"), 0o600))
	assert.Equal(t, auto, resolveConfigPath(""))
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestConfigValidate(t *testing.T) {
	var stdout, stderr bytes.Buffer

	good := writeConfigFile(t, "logLevel: debug\n")
	assert.Equal(t, 0, runConfigCLI([]string{"validate", "-f", good}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "is valid")

	bad := writeConfigFile(t, "unknownKey: 1\n")
	stderr.Reset()
	assert.Equal(t, 1, runConfigCLI([]string{"validate", "--file", bad}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Configuration error")

	assert.Equal(t, 2, runConfigCLI([]string{"bogus"}, &stdout, &stderr))
}

func TestConfigDumpEffective(t *testing.T) {
	path := writeConfigFile(t, "summarizer:\n  model: deepseek-reasoner\n")

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, runConfigCLI([]string{"dump", "--effective", "-f", path, "--format", "json"}, &stdout, &stderr), stderr.String())

	var got config.AppConfig
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
	assert.Equal(t, "deepseek-reasoner", got.Summarizer.Model)
	assert.Equal(t, config.DefaultTranscriptURL, got.Transcript.BaseURL)

	stdout.Reset()
	require.Equal(t, 0, runConfigCLI([]string{"dump", "--effective", "-f", path}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "model: deepseek-reasoner")

	assert.Equal(t, 2, runConfigCLI([]string{"dump", "-f", path}, &stdout, &stderr))
	assert.Equal(t, 2, runConfigCLI([]string{"dump", "--effective", "-f", path, "--format", "toml"}, &stdout, &stderr))
}

func TestProbe(t *testing.T) {
	var ready atomic.Bool
	ready.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/readyz" && !ready.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	assert.Equal(t, 0, probe(srv.URL, "ready", time.Second))
	ready.Store(false)
	assert.Equal(t, 1, probe(srv.URL, "ready", time.Second))
	assert.Equal(t, 0, probe(srv.URL, "live", time.Second))
}
