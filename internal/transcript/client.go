// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package transcript fetches video transcripts from SearchAPI.io.
package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ManuGH/ytsum/internal/apperr"
	"github.com/ManuGH/ytsum/internal/log"
	"github.com/ManuGH/ytsum/internal/metrics"
	"github.com/ManuGH/ytsum/internal/platform/httpx"
	"github.com/ManuGH/ytsum/internal/telemetry"
)

const (
	providerName = "searchapi"
	operation    = "transcript.fetch"

	// MinAPIKeyLength is the shortest API key accepted before any call is made.
	MinAPIKeyLength = 10

	maxBodyBytes = 16 << 20
)

// Messages reported to the submitter.
const (
	msgInvalidVideoID = "Invalid YouTube video ID"
	msgInvalidAPIKey  = "Invalid SearchAPI.io API key. Please provide a valid API key."
	msgInvalidJSON    = "Invalid response from SearchAPI.io. The API did not return valid JSON."
	msgNoTranscript   = "No transcript found for this video. The video might not have captions available."
	msgEmpty          = "The transcript for this video is empty. The video might not have proper captions."
	msgSegmentNoText  = "Invalid response from SearchAPI.io. A transcript segment has no text."
	msgTimeout        = "SearchAPI.io request timed out. Please try again later."
	msgUnreachable    = "Could not connect to SearchAPI.io. Please check your internet connection."
	msgCanceled       = "The transcript request was cancelled."
)

// Segment is one timed piece of a transcript.
type Segment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

// Result is a fetched transcript.
type Result struct {
	// Text joins every segment's text with single spaces, in provider order.
	Text     string
	Segments []Segment
	// Raw is the provider payload as received.
	Raw json.RawMessage
}

// Client calls the SearchAPI.io transcript engine.
type Client struct {
	http    *http.Client
	baseURL string
	engine  string
}

// New creates a client. The http client carries the request timeout.
func New(httpClient *http.Client, baseURL, engine string) *Client {
	return &Client{http: httpClient, baseURL: baseURL, engine: engine}
}

// Fetch returns the transcript of videoID. Inputs are validated before any
// network call. Errors are *apperr.Error values whose Message is safe to show.
func (c *Client) Fetch(ctx context.Context, videoID, apiKey string) (Result, error) {
	if strings.TrimSpace(videoID) == "" {
		return Result{}, apperr.Client(operation, msgInvalidVideoID)
	}
	apiKey = strings.TrimSpace(apiKey)
	if len(apiKey) < MinAPIKeyLength {
		return Result{}, apperr.Client(operation, msgInvalidAPIKey)
	}

	ctx = log.ContextWithVideoID(ctx, videoID)
	ctx, span := telemetry.Tracer(telemetry.InstrumentationName).Start(ctx, operation)
	defer span.End()
	span.SetAttributes(telemetry.ProviderAttributes(providerName, "transcript")...)
	span.SetAttributes(telemetry.SubmissionAttributes(videoID, "")...)

	start := time.Now()
	res, err := c.fetch(ctx, videoID, apiKey)
	outcome := "success"
	if err != nil {
		outcome = apperr.KindOf(err).String()
		telemetry.RecordError(span, err, outcome)
		logger := log.WithComponentFromContext(ctx, "transcript")
		logger.Warn().
			Err(err).
			Str(log.FieldEvent, "transcript.fetch_failed").
			Str(log.FieldProvider, providerName).
			Str(log.FieldKind, outcome).
			Msg("transcript fetch failed")
	}
	metrics.RecordProviderRequest(providerName, outcome, time.Since(start))
	return res, err
}

func (c *Client) fetch(ctx context.Context, videoID, apiKey string) (Result, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return Result{}, apperr.Wrap(apperr.KindInternal, operation, "invalid transcript endpoint", err)
	}
	q := u.Query()
	q.Set("engine", c.engine)
	q.Set("video_id", videoID)
	q.Set("api_key", apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Result{}, apperr.Wrap(apperr.KindInternal, operation, "invalid transcript request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, transportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Result{}, transportError(err)
	}

	if resp.StatusCode != http.StatusOK {
		return Result{}, apperr.New(apperr.KindClient, operation,
			"Failed to fetch transcript: "+errorDetail(resp.StatusCode, body))
	}

	return parse(body)
}

// parse validates a 200 payload and joins its segments.
func parse(body []byte) (Result, error) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return Result{}, apperr.Wrap(apperr.KindMalformed, operation, msgInvalidJSON, err)
	}

	rawSegments, ok := payload["transcripts"]
	if !ok {
		if providerErr, ok := payload["error"]; ok {
			return Result{}, apperr.New(apperr.KindMalformed, operation,
				"SearchAPI.io error: "+rawText(providerErr))
		}
		return Result{}, apperr.New(apperr.KindMalformed, operation, msgNoTranscript)
	}

	var segments []struct {
		Text     *string `json:"text"`
		Start    float64 `json:"start"`
		Duration float64 `json:"duration"`
	}
	if err := json.Unmarshal(rawSegments, &segments); err != nil {
		return Result{}, apperr.Wrap(apperr.KindMalformed, operation, msgInvalidJSON, err)
	}
	if len(segments) == 0 {
		return Result{}, apperr.New(apperr.KindMalformed, operation, msgEmpty)
	}

	out := Result{Segments: make([]Segment, 0, len(segments)), Raw: json.RawMessage(body)}
	texts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s.Text == nil {
			return Result{}, apperr.New(apperr.KindMalformed, operation, msgSegmentNoText)
		}
		texts = append(texts, *s.Text)
		out.Segments = append(out.Segments, Segment{Text: *s.Text, Start: s.Start, Duration: s.Duration})
	}
	out.Text = strings.Join(texts, " ")
	return out, nil
}

// errorDetail picks the provider's error field, else the raw body, else a
// generic status message.
func errorDetail(status int, body []byte) string {
	var payload any
	if err := json.Unmarshal(body, &payload); err == nil {
		if obj, ok := payload.(map[string]any); ok {
			if e, ok := obj["error"]; ok {
				if s, ok := e.(string); ok {
					return s
				}
				b, _ := json.Marshal(e)
				return string(b)
			}
		}
		var compact bytes.Buffer
		if err := json.Compact(&compact, body); err == nil {
			return compact.String()
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP Error: %d", status)
}

func rawText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// transportError classifies a failed round trip. The request URL carries the
// API key, so it is dropped from the wrapped cause.
func transportError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = fmt.Errorf("%s %s: %w", urlErr.Op, redactURL(urlErr.URL), urlErr.Err)
	}
	if httpx.IsTimeout(err) {
		return apperr.Wrap(apperr.KindTimeout, operation, msgTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return apperr.Wrap(apperr.KindInternal, operation, msgCanceled, err)
	}
	return apperr.Wrap(apperr.KindUnavailable, operation, msgUnreachable, err)
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<redacted>"
	}
	q := u.Query()
	if q.Has("api_key") {
		q.Set("api_key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
