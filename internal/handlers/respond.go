// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API. Handlers decode and validate
// the request, call one domain service and translate its result or error.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"ourshop/internal/apperr"
	"ourshop/internal/middleware"
	"ourshop/internal/store"
)

// maxBodySize bounds JSON request bodies.
const maxBodySize = 1 << 20

// writeJSON encodes data as the response body.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("encode response failed", "error", err)
	}
}

// errorBody is the shape of every error response.
type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// writeError maps err to its status and message. Unclassified errors are
// logged and surfaced as a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrTooLong) && apperr.KindOf(err) == apperr.KindUnknown {
		err = apperr.Wrap(apperr.KindValidation, "A field value is too long", err)
	}
	status := apperr.Status(err)
	if apperr.KindOf(err) == apperr.KindUnknown || status >= http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	body := errorBody{Error: apperr.Message(err)}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		body.Field = ae.Field
	}
	writeJSON(w, status, body)
}

// decodeJSON reads a JSON body into dst and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return apperr.Validation("Request body is too large")
		case errors.Is(err, io.EOF):
			return apperr.Validation("Request body is required")
		default:
			return apperr.Validation("Invalid request body")
		}
	}
	return validateStruct(dst)
}

// queryID parses a required UUID query parameter.
func queryID(r *http.Request, name, label string) (uuid.UUID, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return uuid.Nil, apperr.InvalidField(name, label+" ID is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.InvalidField(name, "Invalid "+strings.ToLower(label)+" ID")
	}
	return id, nil
}

// optionalID parses a UUID query parameter that may be absent.
func optionalID(r *http.Request, name, label string) (*uuid.UUID, error) {
	if r.URL.Query().Get(name) == "" {
		return nil, nil
	}
	id, err := queryID(r, name, label)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// queryFlag reports whether a boolean query parameter is "true" or "1".
func queryFlag(r *http.Request, name string) bool {
	v := strings.ToLower(r.URL.Query().Get(name))
	return v == "true" || v == "1"
}

// adminView reports whether the request asked for the admin view of a
// listing. The flag is only honoured for admins.
func adminView(r *http.Request) (bool, error) {
	if r.URL.Query().Get("admin") == "" {
		return false, nil
	}
	p := middleware.PrincipalFromCtx(r.Context())
	switch {
	case p.IsAdmin():
		return true, nil
	case p != nil && p.Role.IsAdmin():
		return false, apperr.Forbidden("Two-factor authentication required")
	default:
		return false, apperr.Forbidden("Forbidden")
	}
}

// principal returns the caller, or an Unauthenticated error.
func principal(r *http.Request) (*middleware.Principal, error) {
	p := middleware.PrincipalFromCtx(r.Context())
	if p == nil {
		return nil, apperr.Unauthenticated("Unauthorized")
	}
	return p, nil
}
