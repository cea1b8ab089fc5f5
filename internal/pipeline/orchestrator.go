// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package pipeline sequences one summarize submission: identifier
// extraction, transcript fetch, title lookup, summary generation and
// persistence.
package pipeline

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/ManuGH/ytsum/internal/apperr"
	"github.com/ManuGH/ytsum/internal/log"
	"github.com/ManuGH/ytsum/internal/metrics"
	"github.com/ManuGH/ytsum/internal/records"
	"github.com/ManuGH/ytsum/internal/telemetry"
	"github.com/ManuGH/ytsum/internal/transcript"
	"github.com/ManuGH/ytsum/internal/video"
	"github.com/google/uuid"
)

// TranscriptFetcher returns the transcript of a video.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoID, apiKey string) (transcript.Result, error)
}

// TitleResolver returns a display title. It never fails.
type TitleResolver interface {
	Title(ctx context.Context, videoID string) string
}

// Summarizer condenses a transcript.
type Summarizer interface {
	Summarize(ctx context.Context, transcript, apiKey string) (string, error)
}

// RecordAppender persists a finished record.
type RecordAppender interface {
	Append(ctx context.Context, rec records.Record) error
}

// Submission is one summarize request as entered by the user.
type Submission struct {
	YouTubeURL   string
	DeepSeekKey  string
	SearchAPIKey string
}

// Deps are the collaborators of an Orchestrator.
type Deps struct {
	Transcripts TranscriptFetcher
	Titles      TitleResolver
	Summarizer  Summarizer
	Store       RecordAppender
}

// Orchestrator runs submissions. Each submission is independent; a record
// is appended only after every upstream step succeeded.
type Orchestrator struct {
	deps  Deps
	now   func() time.Time
	newID func() string
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithClock overrides the record timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithIDGenerator overrides record id generation.
func WithIDGenerator(newID func() string) Option {
	return func(o *Orchestrator) { o.newID = newID }
}

// New creates an Orchestrator.
func New(deps Deps, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		deps:  deps,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Summarize runs sub to completion or failure. Errors are *apperr.Error
// values carrying a message fit for the submitter.
func (o *Orchestrator) Summarize(ctx context.Context, sub Submission) (rec records.Record, err error) {
	ctx, span := telemetry.Tracer(telemetry.InstrumentationName).Start(ctx, "pipeline.summarize")
	defer span.End()

	start := time.Now()
	t := newTracker(ctx)
	defer func() {
		o.finish(ctx, t, err, time.Since(start))
		if err != nil {
			telemetry.RecordError(span, err, apperr.KindOf(err).String())
		}
	}()

	videoID := video.ExtractVideoID(sub.YouTubeURL)
	ctx = log.ContextWithVideoID(ctx, videoID)
	t.ctx = ctx
	span.SetAttributes(telemetry.SubmissionAttributes(videoID, "")...)
	t.advance(StageIDExtracted)

	tr, err := o.deps.Transcripts.Fetch(ctx, videoID, sub.SearchAPIKey)
	if err != nil {
		return records.Record{}, classify(err)
	}
	t.advance(StageTranscriptReady)

	title := o.deps.Titles.Title(ctx, videoID)
	t.advance(StageTitleResolved)

	summary, err := o.deps.Summarizer.Summarize(ctx, tr.Text, sub.DeepSeekKey)
	if err != nil {
		return records.Record{}, classify(err)
	}
	t.advance(StageSummaryGenerated)

	rec = records.Record{
		ID:         o.newID(),
		YouTubeURL: sub.YouTubeURL,
		VideoID:    videoID,
		Title:      title,
		Summary:    summary,
		CreatedAt:  records.Timestamp(o.now()),
	}
	if err := o.deps.Store.Append(ctx, rec); err != nil {
		return records.Record{}, classify(err)
	}
	t.advance(StageRecordPersisted)
	span.SetAttributes(telemetry.SubmissionAttributes("", rec.ID)...)

	return rec, nil
}

func (o *Orchestrator) finish(ctx context.Context, t *tracker, err error, d time.Duration) {
	logger := log.WithComponentFromContext(ctx, "pipeline")
	if err == nil {
		metrics.RecordSubmission("success", d)
		logger.Info().
			Str(log.FieldEvent, "pipeline.completed").
			Int64(log.FieldDuration, d.Milliseconds()).
			Msg("submission summarized")
		return
	}

	kind := apperr.KindOf(err)
	stage := t.failing()
	metrics.RecordSubmission(kind.String(), d)
	metrics.RecordStageFailure(string(stage))

	ev := logger.Warn()
	if kind == apperr.KindInternal {
		ev = logger.Error().Str(log.FieldStackTrace, string(debug.Stack()))
	}
	ev.Err(err).
		Str(log.FieldEvent, "pipeline.failed").
		Str(log.FieldStage, string(stage)).
		Str(log.FieldKind, kind.String()).
		Int64(log.FieldDuration, d.Milliseconds()).
		Msg("submission failed")
}

// classify keeps taxonomy errors and wraps anything else as internal.
func classify(err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperr.Wrap(apperr.KindInternal, "pipeline.summarize", "An unexpected error occurred: "+err.Error(), err)
}
