// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package httpx builds the outbound HTTP clients used for provider calls.
package httpx

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultClientTimeout         = 5 * time.Second
	defaultDialTimeout           = 3 * time.Second
	defaultResponseHeaderTimeout = 3 * time.Second
	defaultIdleConnTimeout       = 30 * time.Second
	defaultExpectContinueTimeout = 1 * time.Second
	defaultMaxIdleConns          = 16
	defaultMaxIdleConnsPerHost   = 4
)

type options struct {
	userAgent     string
	headerTimeout time.Duration
	spanName      string
	tracing       bool
}

// Option customizes a client built by NewClient.
type Option func(*options)

// WithUserAgent sets the User-Agent on requests that do not carry one.
func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

// WithResponseHeaderTimeout overrides the capped time to first response byte.
// Slow generators (LLM completions) need the full client timeout here.
func WithResponseHeaderTimeout(d time.Duration) Option {
	return func(o *options) { o.headerTimeout = d }
}

// WithSpanName names the client spans emitted for outbound calls.
func WithSpanName(name string) Option {
	return func(o *options) { o.spanName = name }
}

// WithoutTracing returns a client without the otelhttp wrapper.
func WithoutTracing() Option {
	return func(o *options) { o.tracing = false }
}

// NewTransport returns the hardened transport shared by all provider clients.
func NewTransport(timeout, headerTimeout time.Duration) *http.Transport {
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}

	dialTimeout := timeout
	if dialTimeout > defaultDialTimeout {
		dialTimeout = defaultDialTimeout
	}

	if headerTimeout <= 0 {
		headerTimeout = timeout
		if headerTimeout > defaultResponseHeaderTimeout {
			headerTimeout = defaultResponseHeaderTimeout
		}
	}

	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: dialTimeout, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          defaultMaxIdleConns,
		MaxIdleConnsPerHost:   defaultMaxIdleConnsPerHost,
		IdleConnTimeout:       defaultIdleConnTimeout,
		TLSHandshakeTimeout:   dialTimeout,
		ResponseHeaderTimeout: headerTimeout,
		ExpectContinueTimeout: defaultExpectContinueTimeout,
	}
}

// NewClient returns a hardened HTTP client with an overall timeout.
// Outbound requests are traced unless WithoutTracing is given.
func NewClient(timeout time.Duration, opts ...Option) *http.Client {
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}
	o := options{tracing: true}
	for _, opt := range opts {
		opt(&o)
	}

	var rt http.RoundTripper = NewTransport(timeout, o.headerTimeout)
	if o.userAgent != "" {
		rt = &userAgentTransport{next: rt, ua: o.userAgent}
	}
	if o.tracing {
		spanName := o.spanName
		rt = otelhttp.NewTransport(rt, otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			if spanName != "" {
				return spanName
			}
			return "HTTP " + r.Method + " " + r.URL.Host
		}))
	}

	return &http.Client{Timeout: timeout, Transport: rt}
}

type userAgentTransport struct {
	next http.RoundTripper
	ua   string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.next.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", t.ua)
	return t.next.RoundTrip(clone)
}

// IsTimeout reports whether err is a client, dial or context deadline timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
