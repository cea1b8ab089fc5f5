// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Common attribute keys for consistent tracing across the application.
const (
	// HTTP attributes
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"
	HTTPURLKey        = "http.url"
	HTTPUserAgentKey  = "http.user_agent"

	// Submission attributes
	VideoIDKey  = "video.id"
	RecordIDKey = "record.id"
	StageKey    = "pipeline.stage"

	// Provider attributes
	ProviderNameKey      = "provider.name"
	ProviderOperationKey = "provider.operation"

	// Store attributes
	StoreRecordsKey = "store.records"

	// Error attributes
	ErrorKey     = "error"
	ErrorKindKey = "error.kind"
)

// HTTPAttributes creates common HTTP span attributes.
func HTTPAttributes(method, route, url string, statusCode int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
		attribute.String(HTTPURLKey, url),
		attribute.Int(HTTPStatusCodeKey, statusCode),
	}
}

// SubmissionAttributes describes one summarize submission. Empty values are skipped.
func SubmissionAttributes(videoID, recordID string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 2)
	if videoID != "" {
		attrs = append(attrs, attribute.String(VideoIDKey, videoID))
	}
	if recordID != "" {
		attrs = append(attrs, attribute.String(RecordIDKey, recordID))
	}
	return attrs
}

// ProviderAttributes describes an outbound provider call.
func ProviderAttributes(provider, operation string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(ProviderNameKey, provider),
		attribute.String(ProviderOperationKey, operation),
	}
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(kind string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorKindKey, kind),
	}
}

// RecordError marks span as failed with err classified by kind.
func RecordError(span trace.Span, err error, kind string) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetAttributes(ErrorAttributes(kind)...)
	span.SetStatus(codes.Error, err.Error())
}
