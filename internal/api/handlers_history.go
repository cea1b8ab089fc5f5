// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ManuGH/ytsum/internal/apperr"
	"github.com/ManuGH/ytsum/internal/log"
	"github.com/ManuGH/ytsum/internal/problem"
	"github.com/ManuGH/ytsum/internal/records"
)

const (
	defaultPage    = 1
	defaultPerPage = 10
)

type historyResponse struct {
	Summaries []records.Record `json:"summaries"`
	Total     int              `json:"total"`
	Page      int              `json:"page"`
	PerPage   int              `json:"per_page"`
}

type summariesResponse struct {
	Summaries []records.Record `json:"summaries"`
}

type deleteResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", defaultPage)
	if err != nil {
		problem.FromError(w, r, err)
		return
	}
	perPage, err := queryInt(r, "per_page", defaultPerPage)
	if err != nil {
		problem.FromError(w, r, err)
		return
	}

	p, err := s.store.List(page, perPage)
	if err != nil {
		problem.FromError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, historyResponse{
		Summaries: p.Records,
		Total:     p.Total,
		Page:      p.Page,
		PerPage:   p.PerPage,
	})
}

func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		problem.FromError(w, r, err)
		return
	}

	logger := log.WithComponentFromContext(r.Context(), "api")
	logger.Info().Str(log.FieldEvent, "records.deleted").Str(log.FieldRecordID, id).Msg("record deleted")
	writeJSON(w, r, http.StatusOK, deleteResponse{Status: "success", Message: "Record deleted"})
}

func (s *Server) handleListSummaries(w http.ResponseWriter, r *http.Request) {
	all := s.store.All()
	if all == nil {
		all = []records.Record{}
	}
	writeJSON(w, r, http.StatusOK, summariesResponse{Summaries: all})
}

func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		problem.FromError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rec)
}

// queryInt reads an integer query parameter, falling back to def when it is
// absent. Range checks are left to the store.
func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Client("api.history", key+" must be an integer")
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger := log.WithComponentFromContext(r.Context(), "api")
		logger.Error().Err(err).Str(log.FieldEvent, "api.encode_failed").Msg("failed to encode response")
	}
}
