// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package video

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ManuGH/ytsum/internal/platform/httpx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolver(t *testing.T, h http.HandlerFunc) *TitleResolver {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewTitleResolver(httpx.NewClient(time.Second), srv.URL+"/watch")
}

func TestTitleStripsSiteSuffix(t *testing.T) {
	var gotID string
	r := newResolver(t, func(w http.ResponseWriter, req *http.Request) {
		gotID = req.URL.Query().Get("v")
		_, _ = w.Write([]byte(`<html><head><title>Go Concurrency Patterns - YouTube</title></head><body></body></html>`))
	})

	assert.Equal(t, "Go Concurrency Patterns", r.Title(context.Background(), "abc123"))
	assert.Equal(t, "abc123", gotID)
}

func TestTitleUsesFirstTitleAndDecodesEntities(t *testing.T) {
	r := newResolver(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>Tom &amp; Jerry - YouTube</title></head>` +
			`<body><svg><title>icon</title></svg></body></html>`))
	})
	assert.Equal(t, "Tom & Jerry", r.Title(context.Background(), "tj1"))
}

func TestTitleFallsBackToPlaceholder(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"non-200", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`<title>Not found</title>`))
		}},
		{"no title element", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<html><body>nothing here</body></html>`))
		}},
		{"empty title", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<title> - YouTube</title>`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newResolver(t, tt.handler)
			assert.Equal(t, "Video xyz789", r.Title(context.Background(), "xyz789"))
		})
	}
}

func TestTitleUnreachableFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	r := NewTitleResolver(httpx.NewClient(time.Second), url+"/watch")
	assert.Equal(t, "Video gone", r.Title(context.Background(), "gone"))
}

func TestTitleInvalidWatchURLFallsBack(t *testing.T) {
	r := NewTitleResolver(httpx.NewClient(time.Second), "://bad")
	assert.Equal(t, "Video x", r.Title(context.Background(), "x"))
}

func TestTitleSharesConcurrentLookups(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	r := newResolver(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		<-release
		_, _ = w.Write([]byte(`<title>Shared - YouTube</title>`))
	})

	var wg sync.WaitGroup
	results := make([]string, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = r.Title(context.Background(), "same")
		}(i)
	}

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, "Shared", got)
	}
	assert.Less(t, calls.Load(), int32(len(results)))
}

func TestTitleIgnoresCallerCancellation(t *testing.T) {
	r := newResolver(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<title>Still Here - YouTube</title>`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, "Still Here", r.Title(ctx, "abc123"))
}
