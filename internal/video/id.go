// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package video derives video identifiers from submitted URLs and resolves
// display titles.
package video

import (
	"net/url"
	"strings"
)

const (
	shortHost     = "youtu.be"
	canonicalHost = "youtube.com"
)

// ExtractVideoID derives the video identifier from a pasted URL.
//
// Short links yield the last path segment without its query string. Canonical
// links yield the value of the v query parameter. Anything else is returned
// unchanged and treated as a bare identifier. There is no validation: a
// malformed URL can produce a wrong or empty identifier.
func ExtractVideoID(raw string) string {
	u, host := parseHost(raw)
	switch {
	case matchesHost(host, shortHost):
		seg := raw[strings.LastIndex(raw, "/")+1:]
		if i := strings.IndexByte(seg, '?'); i >= 0 {
			seg = seg[:i]
		}
		return seg
	case matchesHost(host, canonicalHost):
		if q := u.Query(); q.Has("v") {
			return q.Get("v")
		}
	}
	return raw
}

// parseHost parses raw as a URL, retrying with an https scheme for inputs
// pasted without one.
func parseHost(raw string) (*url.URL, string) {
	u, err := url.Parse(raw)
	if err == nil && u.Host != "" {
		return u, strings.ToLower(u.Hostname())
	}
	if !strings.Contains(raw, "://") {
		if u, err := url.Parse("https://" + raw); err == nil && u.Host != "" {
			return u, strings.ToLower(u.Hostname())
		}
	}
	return nil, ""
}

func matchesHost(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}
