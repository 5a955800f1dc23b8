// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package chat relays visitor questions to the configured LLM with a fixed
// system prompt describing the agency. The relay is stateless: every call
// carries one user message and no history.
package chat

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"ourshop/internal/ai"
	"ourshop/internal/apperr"
	"ourshop/internal/markdown"
)

// MaxMessageLen bounds a single visitor message.
const MaxMessageLen = 2000

// Generator is the LLM capability the relay needs. *ai.Registry satisfies it.
type Generator interface {
	Configured() bool
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Reply is the relay output: the model's Markdown and its HTML rendering.
type Reply struct {
	Response string `json:"response"`
	HTML     string `json:"html"`
}

// Relay answers visitor questions about the business.
type Relay struct {
	gen     Generator
	prompt  string
	timeout time.Duration
}

// New creates a Relay. Every provider call is bounded by timeout.
func New(gen Generator, profile Profile, timeout time.Duration) *Relay {
	return &Relay{gen: gen, prompt: SystemPrompt(profile), timeout: timeout}
}

// Configured reports whether an LLM provider is available.
func (r *Relay) Configured() bool {
	return r.gen != nil && r.gen.Configured()
}

// Ask sends message to the model and returns its reply.
func (r *Relay) Ask(ctx context.Context, message string) (*Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperr.InvalidField("message", "Message is required")
	}
	if len(message) > MaxMessageLen {
		return nil, apperr.InvalidField("message", "Message is too long")
	}
	if !r.Configured() {
		return nil, apperr.Degraded("The AI assistant is currently unavailable. Please try again later.", ai.ErrNoProvider)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	text, err := r.gen.Generate(ctx, r.prompt, message)
	if err != nil {
		classified := ai.Classify(err)
		slog.Error("chat generation failed", "kind", apperr.KindOf(classified), "error", err)
		return nil, classified
	}

	html, err := markdown.ToHTML(text)
	if err != nil {
		// The Markdown is still usable by the client.
		slog.Warn("chat markdown render failed", "error", err)
		html = ""
	}
	return &Reply{Response: text, HTML: html}, nil
}
