// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package telemetry

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{
		Enabled:      false,
		ServiceName:  "test-service",
		ExporterType: "grpc",
	})
	require.NoError(t, err)
	assert.Nil(t, provider.tp)

	_, span := otel.Tracer("test").Start(context.Background(), "noop-check")
	assert.False(t, span.IsRecording())
	span.End()
}

func TestNewProvider_InvalidExporter(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{
		Enabled:      true,
		ServiceName:  "test-service",
		ExporterType: "invalid",
	})
	require.Error(t, err)
	assert.Equal(t, "unsupported exporter type: invalid (supported: grpc, http)", err.Error())
}

func TestSamplerFor(t *testing.T) {
	assert.Equal(t, "AlwaysOnSampler", samplerFor(1.0).Description())
	assert.Equal(t, "AlwaysOffSampler", samplerFor(0).Description())
	assert.Contains(t, samplerFor(0.5).Description(), "TraceIDRatioBased")
}

func TestNewProviderWithExporter_ExportsSpans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider, err := NewProviderWithExporter(context.Background(), Config{
		Enabled:      true,
		ServiceName:  "ytsum-test",
		SamplingRate: 1.0,
	}, exporter)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = NewProvider(context.Background(), Config{})
	})

	_, span := Tracer(InstrumentationName).Start(context.Background(), "summarize")
	span.SetAttributes(SubmissionAttributes("abc123", "")...)
	span.End()

	require.NoError(t, provider.tp.ForceFlush(context.Background()))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "summarize", spans[0].Name)

	// Shutdown resets the in-memory exporter.
	require.NoError(t, provider.Shutdown(context.Background()))
	assert.Empty(t, exporter.GetSpans())
}

func TestProvider_ShutdownNoop(t *testing.T) {
	var nilProvider *Provider
	assert.NoError(t, nilProvider.Shutdown(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, (&Provider{}).Shutdown(ctx))
}

func TestTracer(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Enabled: false})
	require.NoError(t, err)

	ctx, span := Tracer("test-tracer").Start(context.Background(), "test-span")
	span.End()
	assert.NotNil(t, trace.SpanFromContext(ctx))
}

func TestProvider_ConcurrentShutdown(t *testing.T) {
	provider := &Provider{}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()
			_ = provider.Shutdown(ctx)
		}()
	}
	wg.Wait()
}
