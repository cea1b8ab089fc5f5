// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package problem writes RFC 7807 problem details responses.
package problem

import (
	"encoding/json"
	"net/http"

	"github.com/ManuGH/ytsum/internal/apperr"
	"github.com/ManuGH/ytsum/internal/log"
)

const (
	// HeaderRequestID carries the request correlation id.
	HeaderRequestID = "X-Request-ID"
	// JSONKeyRequestID is the problem body field holding the request id.
	JSONKeyRequestID = "requestId"

	ContentType = "application/problem+json"
)

// Write writes an RFC 7807 problem details response.
//
//   - type: canonical machine identifier (e.g. "records/not_found").
//   - title: short human-readable label (e.g. "Not Found").
//   - detail: explanation of this occurrence; also exposed as "detail" for
//     clients written against a plain {detail} error body.
func Write(w http.ResponseWriter, r *http.Request, status int, problemType, title, detail string, extra map[string]any) {
	reqID := ""
	instance := ""
	if r != nil {
		reqID = log.RequestIDFromContext(r.Context())
		instance = r.URL.EscapedPath()
	}
	if reqID == "" {
		reqID = w.Header().Get(HeaderRequestID)
	}

	res := map[string]any{
		"type":   problemType,
		"title":  title,
		"status": status,
	}
	if reqID != "" {
		res[JSONKeyRequestID] = reqID
	}
	if detail != "" {
		res["detail"] = detail
	}
	if instance != "" {
		res["instance"] = instance
	}

	for k, v := range extra {
		switch k {
		case "type", "title", "status", "detail", "instance", JSONKeyRequestID:
			log.L().Warn().Str("key", k).Str("problem_type", problemType).Msg("ignoring reserved key in problem extras")
			continue
		}
		res[k] = v
	}

	if reqID != "" {
		w.Header().Set(HeaderRequestID, reqID)
	}
	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(res); err != nil {
		log.L().Error().
			Err(err).
			Str("type", problemType).
			Int(log.FieldStatus, status).
			Msg("failed to encode problem response")
	}
}

// FromError writes err using its apperr kind for status, type and title.
// The detail is the error's user-facing message.
func FromError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)
	Write(w, r, status, "ytsum/"+kind.String(), http.StatusText(status), apperr.Message(err), nil)
}
