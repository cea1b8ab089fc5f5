// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"context"
	"net/http"

	"github.com/ManuGH/ytsum/internal/apperr"
	"github.com/ManuGH/ytsum/internal/log"
	"github.com/ManuGH/ytsum/internal/pipeline"
	"github.com/ManuGH/ytsum/internal/ui"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, ui.View{ActiveTab: ui.TabGenerate})
}

func (s *Server) handleHistoryPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, ui.View{
		ActiveTab: ui.TabHistory,
		Summaries: s.store.All(),
	})
}

// handleSummarize runs a submission and renders the outcome on the generate
// tab. Failures of any stage are rendered as an error view, never raised.
func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		s.render(w, r, http.StatusBadRequest, ui.View{
			ActiveTab: ui.TabGenerate,
			Error:     "Invalid form submission.",
		})
		return
	}

	sub := pipeline.Submission{
		YouTubeURL:   r.PostForm.Get("youtube_url"),
		DeepSeekKey:  r.PostForm.Get("deepseek_api_key"),
		SearchAPIKey: r.PostForm.Get("searchapi_key"),
	}

	// A started submission runs to completion even if the client goes away.
	rec, err := s.submit.Summarize(context.WithoutCancel(r.Context()), sub)
	if err != nil {
		s.render(w, r, apperr.HTTPStatus(apperr.KindOf(err)), ui.View{
			ActiveTab:  ui.TabGenerate,
			YouTubeURL: sub.YouTubeURL,
			Error:      apperr.Message(err),
		})
		return
	}

	s.render(w, r, http.StatusOK, ui.View{
		ActiveTab:  ui.TabGenerate,
		YouTubeURL: rec.YouTubeURL,
		Title:      rec.Title,
		Summary:    rec.Summary,
	})
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, view ui.View) {
	if err := s.view.Render(w, status, view); err != nil {
		logger := log.WithComponentFromContext(r.Context(), "api")
		logger.Error().Err(err).Str(log.FieldEvent, "ui.render_failed").Msg("failed to render page")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
