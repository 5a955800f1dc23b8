// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"ourshop/internal/apperr"
)

// APIError is a non-2xx reply from a provider. Status carries the
// provider's machine-readable error status (Gemini "status", OpenAI
// "code", Anthropic error "type") when the body had one.
type APIError struct {
	Provider   string
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("%s API error (status %d, %s): %s", e.Provider, e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

// errorEnvelope covers the error body shapes of every supported provider.
type errorEnvelope struct {
	Error *struct {
		Message string          `json:"message"`
		Status  string          `json:"status"`
		Type    string          `json:"type"`
		Code    json.RawMessage `json:"code"`
	} `json:"error"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// parseAPIError builds an APIError from a provider response body. Bodies
// that are not JSON are kept verbatim as the message.
func parseAPIError(provider string, statusCode int, body []byte) *APIError {
	e := &APIError{Provider: provider, StatusCode: statusCode}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		e.Message = strings.TrimSpace(string(body))
		if e.Message == "" {
			e.Message = http.StatusText(statusCode)
		}
		return e
	}

	if env.Error != nil {
		e.Message = env.Error.Message
		var code string
		_ = json.Unmarshal(env.Error.Code, &code)
		switch {
		case env.Error.Status != "":
			e.Status = env.Error.Status
		case code != "":
			e.Status = code
		default:
			e.Status = env.Error.Type
		}
	} else {
		e.Message = env.Message
		e.Status = env.Type
	}
	if e.Message == "" {
		e.Message = http.StatusText(statusCode)
	}
	return e
}

// statusKinds classifies provider status strings.
var statusKinds = map[string]apperr.Kind{
	"RESOURCE_EXHAUSTED":   apperr.KindRateLimited,
	"insufficient_quota":   apperr.KindRateLimited,
	"rate_limit_exceeded":  apperr.KindRateLimited,
	"rate_limit_error":     apperr.KindRateLimited,
	"UNAUTHENTICATED":      apperr.KindProviderAuth,
	"PERMISSION_DENIED":    apperr.KindProviderAuth,
	"invalid_api_key":      apperr.KindProviderAuth,
	"authentication_error": apperr.KindProviderAuth,
	"permission_error":     apperr.KindProviderAuth,
}

// codeKinds classifies HTTP status codes.
var codeKinds = map[int]apperr.Kind{
	http.StatusTooManyRequests: apperr.KindRateLimited,
	http.StatusUnauthorized:    apperr.KindProviderAuth,
	http.StatusForbidden:       apperr.KindProviderAuth,
}

// Classify maps a provider failure onto an *apperr.Error that keeps the
// provider's message. Typed fields decide first; message text is only
// consulted for errors that carry no status.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNoProvider) {
		return apperr.Degraded("The AI assistant is currently unavailable. Please try again later.", err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Wrap(apperr.KindProvider, "The AI assistant took too long to respond.", err)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return apperr.Wrap(apperr.KindProvider, "Failed to generate AI response", err)
	}

	if kind, ok := statusKinds[apiErr.Status]; ok {
		return apperr.Wrap(kind, apiErr.Message, err)
	}
	if kind, ok := codeKinds[apiErr.StatusCode]; ok {
		return apperr.Wrap(kind, apiErr.Message, err)
	}
	return apperr.Wrap(messageKind(apiErr.Message), apiErr.Message, err)
}

// messageKind is the fallback for bodies without a recognised status,
// e.g. Gemini's 400 "API key not valid".
func messageKind(msg string) apperr.Kind {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "rate limit") || strings.Contains(lower, "quota"):
		return apperr.KindRateLimited
	case strings.Contains(lower, "api key") || strings.Contains(lower, "authentication"):
		return apperr.KindProviderAuth
	}
	return apperr.KindProvider
}
