// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package metrics registers the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Submission metrics
	submissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ytsum_submissions_total",
		Help: "Summarize submissions by result",
	}, []string{"result"}) // result=success|client|malformed|timeout|unavailable|internal

	submissionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ytsum_submission_duration_seconds",
		Help:    "End-to-end duration of summarize submissions",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
	})

	stageFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ytsum_stage_failures_total",
		Help: "Submission failures by the stage that failed",
	}, []string{"stage"})

	// Provider metrics
	providerRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ytsum_provider_requests_total",
		Help: "Outbound provider calls by provider and outcome",
	}, []string{"provider", "outcome"}) // provider=searchapi|deepseek|youtube

	providerDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ytsum_provider_request_duration_seconds",
		Help:    "Outbound provider call latency",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 11),
	}, []string{"provider"})

	titleFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ytsum_title_fallbacks_total",
		Help: "Title lookups that fell back to the placeholder title",
	})

	// Store metrics
	storeRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ytsum_store_records",
		Help: "Number of summary records currently held by the store",
	})

	storePersistFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ytsum_store_persist_failures_total",
		Help: "Record file write failures by target",
	}, []string{"target"}) // target=primary|backup

	storeRecoveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ytsum_store_recoveries_total",
		Help: "Reloads from the backup file after a failed primary write",
	}, []string{"outcome"}) // outcome=restored|skipped

	// Operational metrics
	configReloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ytsum_config_reloads_total",
		Help: "Configuration reload attempts by outcome",
	}, []string{"outcome"})
)

// RecordSubmission counts one finished submission.
func RecordSubmission(result string, d time.Duration) {
	submissionsTotal.WithLabelValues(result).Inc()
	submissionDuration.Observe(d.Seconds())
}

// RecordStageFailure counts a submission that stopped at stage.
func RecordStageFailure(stage string) {
	stageFailuresTotal.WithLabelValues(stage).Inc()
}

// RecordProviderRequest counts an outbound provider call and its latency.
func RecordProviderRequest(provider, outcome string, d time.Duration) {
	providerRequestsTotal.WithLabelValues(provider, outcome).Inc()
	providerDuration.WithLabelValues(provider).Observe(d.Seconds())
}

// IncTitleFallback counts a title lookup that returned the placeholder.
func IncTitleFallback() {
	titleFallbacksTotal.Inc()
}

// SetStoreRecords publishes the current record count.
func SetStoreRecords(n int) {
	storeRecords.Set(float64(n))
}

// IncPersistFailure counts a failed write of the primary or backup file.
func IncPersistFailure(target string) {
	storePersistFailures.WithLabelValues(target).Inc()
}

// IncStoreRecovery counts a backup reload attempt.
func IncStoreRecovery(outcome string) {
	storeRecoveriesTotal.WithLabelValues(outcome).Inc()
}

// IncConfigReload counts a configuration reload attempt.
func IncConfigReload(outcome string) {
	configReloadsTotal.WithLabelValues(outcome).Inc()
}
