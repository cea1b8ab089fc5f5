// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short link", "https://youtu.be/abc123", "abc123"},
		{"short link with query", "https://youtu.be/abc123?si=tracking&t=4", "abc123"},
		{"short link without scheme", "youtu.be/abc123", "abc123"},
		{"canonical watch", "https://www.youtube.com/watch?v=xyz789&t=10", "xyz789"},
		{"canonical v not first", "https://www.youtube.com/watch?feature=share&v=xyz789", "xyz789"},
		{"mobile host", "https://m.youtube.com/watch?v=mob456", "mob456"},
		{"canonical without scheme", "youtube.com/watch?v=noscheme1", "noscheme1"},
		{"uppercase host", "https://WWW.YOUTUBE.COM/watch?v=Upper1", "Upper1"},
		{"canonical without v", "https://www.youtube.com/channel/UC123", "https://www.youtube.com/channel/UC123"},
		{"bare identifier", "dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"other host", "https://vimeo.com/12345?v=nope", "https://vimeo.com/12345?v=nope"},
		{"lookalike host", "https://notyoutube.com/watch?v=nope", "https://notyoutube.com/watch?v=nope"},
		{"short link trailing slash", "https://youtu.be/", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractVideoID(tt.in))
		})
	}
}
