// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package net holds URL helpers shared by config validation and logging.
package net

import (
	"net/url"
	"strings"
)

// SanitizeURL removes user info and query parameters for safe logging.
// Provider URLs carry API keys in the query string.
func SanitizeURL(rawURL string) string {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "invalid-url-redacted"
	}
	parsedURL.User = nil
	parsedURL.RawQuery = ""
	return parsedURL.String()
}

// ParseDirectHTTPURL accepts only http(s) URLs with a host and without
// credentials or a fragment.
func ParseDirectHTTPURL(s string) (*url.URL, bool) {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return nil, false
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, false
	}
	if u.Host == "" || u.User != nil || u.Fragment != "" {
		return nil, false
	}
	return u, true
}
