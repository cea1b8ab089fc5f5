// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID = "request_id"
	FieldRecordID  = "record_id"
	FieldVideoID   = "video_id"
	FieldTraceID   = "trace_id"
	FieldSpanID    = "span_id"

	// Process / pipeline fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldStage     = "stage"
	FieldProvider  = "provider"
	FieldKind      = "kind"

	// Failure fields
	FieldStackTrace = "stack_trace"

	// State fields
	FieldOldState = "old_state"
	FieldNewState = "new_state"

	// HTTP fields
	FieldMethod   = "method"
	FieldRoute    = "route"
	FieldStatus   = "status"
	FieldDuration = "duration_ms"
	FieldBytes    = "bytes"

	// Path / URL fields
	FieldPath = "path"
	FieldURL  = "url"
)
