// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package pipeline

import (
	"context"
	"fmt"

	"github.com/ManuGH/ytsum/internal/log"
)

// Stage is a step of one submission. Stages only move forward; a failure
// ends the submission at the stage that failed.
type Stage string

const (
	StageReceived         Stage = "received"
	StageIDExtracted      Stage = "id-extracted"
	StageTranscriptReady  Stage = "transcript-fetched"
	StageTitleResolved    Stage = "title-resolved"
	StageSummaryGenerated Stage = "summary-generated"
	StageRecordPersisted  Stage = "record-persisted"
)

var nextStage = map[Stage]Stage{
	StageReceived:         StageIDExtracted,
	StageIDExtracted:      StageTranscriptReady,
	StageTranscriptReady:  StageTitleResolved,
	StageTitleResolved:    StageSummaryGenerated,
	StageSummaryGenerated: StageRecordPersisted,
}

// tracker follows one submission through its stages.
type tracker struct {
	ctx   context.Context
	stage Stage
}

func newTracker(ctx context.Context) *tracker {
	return &tracker{ctx: ctx, stage: StageReceived}
}

// advance moves to the successor of the current stage. Skipping or repeating
// a stage is a programming error.
func (t *tracker) advance(to Stage) {
	want, ok := nextStage[t.stage]
	if !ok || want != to {
		panic(fmt.Sprintf("pipeline: invalid transition %s -> %s", t.stage, to))
	}
	logger := log.WithComponentFromContext(t.ctx, "pipeline")
	logger.Debug().
		Str(log.FieldEvent, "pipeline.stage").
		Str(log.FieldOldState, string(t.stage)).
		Str(log.FieldNewState, string(to)).
		Msg("submission advanced")
	t.stage = to
}

// failing reports the stage whose work failed: the successor of the last
// completed stage.
func (t *tracker) failing() Stage {
	if next, ok := nextStage[t.stage]; ok {
		return next
	}
	return t.stage
}
