// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromhttpExposure(t *testing.T) {
	RecordSubmission("success", 3*time.Second)

	srv := httptest.NewServer(promhttp.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "ytsum_submissions_total")
}

func TestRecordSubmission(t *testing.T) {
	before := testutil.ToFloat64(submissionsTotal.WithLabelValues("timeout"))
	RecordSubmission("timeout", 15*time.Second)
	assert.Equal(t, before+1, testutil.ToFloat64(submissionsTotal.WithLabelValues("timeout")))
}

func TestRecordProviderRequest(t *testing.T) {
	before := testutil.ToFloat64(providerRequestsTotal.WithLabelValues("searchapi", "success"))
	RecordProviderRequest("searchapi", "success", 200*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(providerRequestsTotal.WithLabelValues("searchapi", "success")))
}

func TestStoreMetrics(t *testing.T) {
	SetStoreRecords(7)
	assert.Equal(t, float64(7), testutil.ToFloat64(storeRecords))

	before := testutil.ToFloat64(storePersistFailures.WithLabelValues("primary"))
	IncPersistFailure("primary")
	assert.Equal(t, before+1, testutil.ToFloat64(storePersistFailures.WithLabelValues("primary")))

	restored := testutil.ToFloat64(storeRecoveriesTotal.WithLabelValues("restored"))
	IncStoreRecovery("restored")
	assert.Equal(t, restored+1, testutil.ToFloat64(storeRecoveriesTotal.WithLabelValues("restored")))
}

func TestSubmissionDurationHistogram(t *testing.T) {
	RecordSubmission("success", 2*time.Second)

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	var family *dto.MetricFamily
	for _, mf := range families {
		if mf.GetName() == "ytsum_submission_duration_seconds" {
			family = mf
		}
	}
	require.NotNil(t, family)
	require.Len(t, family.GetMetric(), 1)
	assert.GreaterOrEqual(t, family.GetMetric()[0].GetHistogram().GetSampleCount(), uint64(1))
}
