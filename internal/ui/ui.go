// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package ui renders the embedded HTML interface.
package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/ManuGH/ytsum/internal/records"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const (
	TabGenerate = "generate"
	TabHistory  = "history"

	displayTimeLayout = "2006-01-02 15:04"
)

// View is the data rendered by the index template.
type View struct {
	ActiveTab string

	// Generate tab
	YouTubeURL string
	Title      string
	Summary    string
	Error      string

	// History tab
	Summaries []records.Record
}

// Renderer renders the index page.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("index.html").Funcs(template.FuncMap{
		"datetimeformat": DateTimeFormat,
		"summaryHTML":    SummaryHTML,
	}).ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the index page with the given status. The page is rendered
// into a buffer first so a template error never leaves a half written body.
func (r *Renderer) Render(w http.ResponseWriter, status int, view View) error {
	if view.ActiveTab == "" {
		view.ActiveTab = TabGenerate
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "index.html", view); err != nil {
		return fmt.Errorf("render index: %w", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// StaticHandler serves the embedded assets. Mount it with the /static/ prefix stripped.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "static assets not available", http.StatusInternalServerError)
		})
	}
	fileServer := http.FileServer(http.FS(sub))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=3600")
		fileServer.ServeHTTP(w, r)
	})
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// DateTimeFormat renders a stored created_at value for display. Values that
// do not parse are returned unchanged.
func DateTimeFormat(value string) string {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(displayTimeLayout)
		}
	}
	return value
}

// SummaryHTML escapes a summary and re-enables only its <br> markers.
func SummaryHTML(summary string) template.HTML {
	escaped := template.HTMLEscapeString(summary)
	return template.HTML(strings.ReplaceAll(escaped, "&lt;br&gt;", "<br>")) //nolint:gosec // escaped above
}
