// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package records owns the persisted collection of summary records.
package records

import "time"

// Record is one stored summarization result. Records are never mutated after
// creation; they are appended or removed as a whole.
type Record struct {
	ID         string `json:"id"`
	YouTubeURL string `json:"youtube_url"`
	VideoID    string `json:"video_id"`
	Title      string `json:"title"`
	// Summary carries <br> markers in place of newlines.
	Summary   string `json:"summary"`
	CreatedAt string `json:"created_at"`
}

// Timestamp formats t the way CreatedAt is stored.
func Timestamp(t time.Time) string {
	return t.Format(time.RFC3339)
}

// Page is one window of the collection in insertion order.
type Page struct {
	Records []Record
	Total   int
	Page    int
	PerPage int
}
