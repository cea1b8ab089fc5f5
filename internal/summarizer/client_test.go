// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ManuGH/ytsum/internal/apperr"
	"github.com/ManuGH/ytsum/internal/platform/httpx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "sk-deepseek-0123456789"

func testOptions(baseURL string) Options {
	return Options{BaseURL: baseURL, Model: "deepseek-chat", Temperature: 0.3, MaxTokens: 1000}
}

type chatRequest struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completion(content string) string {
	b, _ := json.Marshal(map[string]any{
		"id":      "cmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "deepseek-chat",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	return string(b)
}

func TestSummarizeSendsFixedPromptAndFormatsBreaks(t *testing.T) {
	var got chatRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completion("- first point\n- second point\n")))
	}))
	defer srv.Close()

	c := New(httpx.NewClient(2*time.Second), testOptions(srv.URL+"/v1"))
	summary, err := c.Summarize(context.Background(), "the full transcript text", testKey)
	require.NoError(t, err)

	assert.Equal(t, "- first point<br>- second point<br>", summary)
	assert.Equal(t, "Bearer "+testKey, auth)
	assert.Equal(t, "deepseek-chat", got.Model)
	assert.InDelta(t, 0.3, got.Temperature, 1e-9)
	assert.Equal(t, 1000, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, systemPrompt, got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, UserPrompt("the full transcript text"), got.Messages[1].Content)
	assert.Contains(t, got.Messages[1].Content, "Transcript:\nthe full transcript text\n")
}

func TestSummarizeRejectsShortKeyWithoutCall(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := New(httpx.NewClient(time.Second), testOptions(srv.URL))
	for _, key := range []string{"", "short", "  12345678  "} {
		_, err := c.Summarize(context.Background(), "text", key)
		require.Error(t, err)
		assert.Equal(t, apperr.KindClient, apperr.KindOf(err))
		assert.Equal(t, msgInvalidAPIKey, apperr.Message(err))
	}
	assert.Zero(t, calls.Load())
}

func TestSummarizeProviderErrorCarriesMessage(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Authentication Fails (no such user)","type":"authentication_error"}}`))
	}))
	defer srv.Close()

	c := New(httpx.NewClient(time.Second), testOptions(srv.URL))
	_, err := c.Summarize(context.Background(), "text", testKey)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	assert.Equal(t, "Error with DeepSeek API: Authentication Fails (no such user)", apperr.Message(err))
	assert.Equal(t, int32(1), calls.Load(), "no automatic retries")
}

func TestSummarizeServerErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(httpx.NewClient(time.Second), testOptions(srv.URL))
	_, err := c.Summarize(context.Background(), "text", testKey)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, apperr.HTTPStatus(apperr.KindOf(err)))
	assert.Contains(t, apperr.Message(err), "Error with DeepSeek API: ")
	assert.Equal(t, int32(1), calls.Load())
}

func TestSummarizeNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","created":1,"model":"deepseek-chat","choices":[]}`))
	}))
	defer srv.Close()

	c := New(httpx.NewClient(time.Second), testOptions(srv.URL))
	_, err := c.Summarize(context.Background(), "text", testKey)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	assert.Equal(t, "Error with DeepSeek API: no choices returned", apperr.Message(err))
}

func TestSummarizeTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New(httpx.NewClient(50*time.Millisecond), testOptions(srv.URL))
	_, err := c.Summarize(context.Background(), "text", testKey)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrTimeout))
	assert.Equal(t, msgTimeout, apperr.Message(err))
}

func TestSummarizeUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := New(httpx.NewClient(time.Second), testOptions(base))
	_, err := c.Summarize(context.Background(), "text", testKey)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrUnavailable))
	assert.Equal(t, msgUnreachable, apperr.Message(err))
}

func TestSummarizeCanceledIsNotUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(completion("- a")))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(httpx.NewClient(time.Second), testOptions(srv.URL))
	_, err := c.Summarize(ctx, "text", testKey)
	require.Error(t, err)
	assert.False(t, errors.Is(err, apperr.ErrUnavailable))
	assert.Equal(t, msgCanceled, apperr.Message(err))
}
