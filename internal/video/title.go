// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package video

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ManuGH/ytsum/internal/log"
	"github.com/ManuGH/ytsum/internal/metrics"
	"github.com/ManuGH/ytsum/internal/telemetry"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/singleflight"
)

const (
	titleSuffix  = "- YouTube"
	maxPageBytes = 4 << 20
	providerName = "youtube"
)

// PlaceholderTitle is used whenever a title cannot be resolved.
func PlaceholderTitle(videoID string) string {
	return "Video " + videoID
}

// TitleResolver scrapes the watch page for a video's title. Lookups never
// fail: any error degrades to PlaceholderTitle. Concurrent lookups of the
// same id share one fetch.
type TitleResolver struct {
	client   *http.Client
	watchURL string
	group    singleflight.Group
}

// NewTitleResolver creates a resolver that fetches watchURL?v=<id>.
func NewTitleResolver(client *http.Client, watchURL string) *TitleResolver {
	return &TitleResolver{client: client, watchURL: watchURL}
}

// Title returns the page title for videoID with the site suffix removed.
func (r *TitleResolver) Title(ctx context.Context, videoID string) string {
	// The fetch is shared by every waiter, so it must not die with the first caller.
	shared := context.WithoutCancel(ctx)
	v, _, _ := r.group.Do(videoID, func() (any, error) {
		return r.resolve(shared, videoID), nil
	})
	return v.(string)
}

func (r *TitleResolver) resolve(ctx context.Context, videoID string) string {
	ctx = log.ContextWithVideoID(ctx, videoID)
	ctx, span := telemetry.Tracer(telemetry.InstrumentationName).Start(ctx, "video.title")
	defer span.End()
	span.SetAttributes(telemetry.ProviderAttributes(providerName, "title")...)
	span.SetAttributes(telemetry.SubmissionAttributes(videoID, "")...)

	logger := log.WithComponentFromContext(ctx, "video")
	start := time.Now()

	title, err := r.fetch(ctx, videoID)
	if err != nil {
		metrics.RecordProviderRequest(providerName, "failure", time.Since(start))
		metrics.IncTitleFallback()
		telemetry.RecordError(span, err, "title")
		logger.Warn().
			Err(err).
			Str(log.FieldEvent, "video.title_fallback").
			Msg("title lookup failed, using placeholder")
		return PlaceholderTitle(videoID)
	}

	metrics.RecordProviderRequest(providerName, "success", time.Since(start))
	logger.Debug().
		Str(log.FieldEvent, "video.title_resolved").
		Msg("title resolved")
	return title
}

func (r *TitleResolver) fetch(ctx context.Context, videoID string) (string, error) {
	u, err := url.Parse(r.watchURL)
	if err != nil {
		return "", fmt.Errorf("parse watch url: %w", err)
	}
	q := u.Query()
	q.Set("v", videoID)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch watch page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("watch page returned HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("parse watch page: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	title = strings.TrimSpace(strings.TrimSuffix(title, titleSuffix))
	if title == "" {
		return "", fmt.Errorf("watch page has no title")
	}
	return title, nil
}
