// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package summarizer turns transcripts into bullet-point summaries through
// the DeepSeek chat completion API.
package summarizer

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/ManuGH/ytsum/internal/apperr"
	"github.com/ManuGH/ytsum/internal/log"
	"github.com/ManuGH/ytsum/internal/metrics"
	"github.com/ManuGH/ytsum/internal/platform/httpx"
	"github.com/ManuGH/ytsum/internal/telemetry"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	providerName = "deepseek"
	operation    = "summarizer.summarize"

	// MinAPIKeyLength is the shortest API key accepted before any call is made.
	MinAPIKeyLength = 10

	// LineBreak replaces newlines in generated summaries.
	LineBreak = "<br>"
)

const (
	msgInvalidAPIKey = "Invalid DeepSeek API key. Please provide a valid API key."
	msgTimeout       = "DeepSeek API request timed out. Please try again later."
	msgUnreachable   = "Could not connect to DeepSeek API. Please check your internet connection."
	msgProviderError = "Error with DeepSeek API: "
	msgCanceled      = "The summary request was cancelled."
)

// Options holds the fixed generation settings.
type Options struct {
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
}

// Client calls an OpenAI-compatible chat completion endpoint. A new SDK
// client is built per call because the API key arrives with each submission.
type Client struct {
	http *http.Client
	opts Options
}

// New creates a summarizer. The http client carries the request timeout.
func New(httpClient *http.Client, opts Options) *Client {
	return &Client{http: httpClient, opts: opts}
}

// Summarize returns a bullet-point summary of transcript with newlines
// replaced by LineBreak. The key is validated before any call is made.
func (c *Client) Summarize(ctx context.Context, transcript, apiKey string) (string, error) {
	if len(strings.TrimSpace(apiKey)) < MinAPIKeyLength {
		return "", apperr.Client(operation, msgInvalidAPIKey)
	}

	ctx, span := telemetry.Tracer(telemetry.InstrumentationName).Start(ctx, operation)
	defer span.End()
	span.SetAttributes(telemetry.ProviderAttributes(providerName, "chat.completions")...)

	start := time.Now()
	summary, err := c.complete(ctx, transcript, strings.TrimSpace(apiKey))
	outcome := "success"
	if err != nil {
		outcome = apperr.KindOf(err).String()
		telemetry.RecordError(span, err, outcome)
		logger := log.WithComponentFromContext(ctx, "summarizer")
		logger.Error().
			Err(err).
			Str(log.FieldEvent, "summarizer.failed").
			Str(log.FieldProvider, providerName).
			Str(log.FieldKind, outcome).
			Msg("summary generation failed")
	}
	metrics.RecordProviderRequest(providerName, outcome, time.Since(start))
	return summary, err
}

func (c *Client) complete(ctx context.Context, transcript, apiKey string) (string, error) {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(c.opts.BaseURL),
		option.WithHTTPClient(c.http),
		option.WithMaxRetries(0),
	)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.opts.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(UserPrompt(transcript)),
		},
		Temperature: openai.Float(c.opts.Temperature),
		MaxTokens:   openai.Int(int64(c.opts.MaxTokens)),
	})
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", apperr.New(apperr.KindInternal, operation, msgProviderError+"no choices returned")
	}

	return strings.ReplaceAll(resp.Choices[0].Message.Content, "\n", LineBreak), nil
}

// classify maps an SDK error onto the error taxonomy. Provider-reported
// errors keep the provider's message.
func classify(err error) error {
	var apiErr *openai.Error
	switch {
	case errors.As(err, &apiErr):
		msg := apiErr.Message
		if msg == "" {
			msg = http.StatusText(apiErr.StatusCode)
		}
		return apperr.Wrap(apperr.KindInternal, operation, msgProviderError+msg, err)
	case httpx.IsTimeout(err):
		return apperr.Wrap(apperr.KindTimeout, operation, msgTimeout, err)
	case errors.Is(err, context.Canceled):
		return apperr.Wrap(apperr.KindInternal, operation, msgCanceled, err)
	case isConnError(err):
		return apperr.Wrap(apperr.KindUnavailable, operation, msgUnreachable, err)
	default:
		return apperr.Wrap(apperr.KindInternal, operation, msgProviderError+err.Error(), err)
	}
}

func isConnError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}
