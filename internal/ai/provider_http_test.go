// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ourshop/internal/apperr"
)

// ---------- Helpers ----------

// newTestServer creates an httptest.Server that responds with the given status
// code and body bytes. The server is closed when the test finishes.
func newTestServer(t *testing.T, statusCode int, body []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func mustJSON(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}

func openAISuccessBody(text string) []byte {
	return mustJSON(openAIResponse{Choices: []openAIChoice{{Message: openAIMessage{Role: "assistant", Content: text}}}})
}

func claudeSuccessBody(text string) []byte {
	return mustJSON(claudeResponse{Content: []claudeContentBlock{{Type: "text", Text: text}}})
}

func geminiSuccessBody(text string) []byte {
	return mustJSON(geminiResponse{Candidates: []geminiCandidate{{Content: geminiContent{Parts: []geminiPart{{Text: text}}}}}})
}

// providerCase describes one provider for the shared HTTP tests.
type providerCase struct {
	name    string
	build   func(cfg ProviderConfig) Provider
	success func(text string) []byte
	path    string
	authHdr string
	authVal string
}

var providerCases = []providerCase{
	{
		name:    "openai",
		build:   func(cfg ProviderConfig) Provider { return newOpenAI(cfg) },
		success: openAISuccessBody,
		path:    "/chat/completions",
		authHdr: "Authorization", authVal: "Bearer test-key",
	},
	{
		name:    "mistral",
		build:   func(cfg ProviderConfig) Provider { return newMistral(cfg) },
		success: openAISuccessBody,
		path:    "/chat/completions",
		authHdr: "Authorization", authVal: "Bearer test-key",
	},
	{
		name:    "claude",
		build:   func(cfg ProviderConfig) Provider { return newClaude(cfg) },
		success: claudeSuccessBody,
		path:    "/v1/messages",
		authHdr: "x-api-key", authVal: "test-key",
	},
	{
		name:    "gemini",
		build:   func(cfg ProviderConfig) Provider { return newGemini(cfg) },
		success: geminiSuccessBody,
		path:    "/v1beta/models/test-model:generateContent",
		authHdr: "x-goog-api-key", authVal: "test-key",
	},
}

func TestProviderGenerate_Success(t *testing.T) {
	for _, pc := range providerCases {
		t.Run(pc.name, func(t *testing.T) {
			var gotPath string
			var gotHeaders http.Header
			var gotBody []byte
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotHeaders = r.Header.Clone()
				gotBody, _ = io.ReadAll(r.Body)
				w.Header().Set("Content-Type", "application/json")
				w.Write(pc.success("Hello from " + pc.name))
			}))
			defer srv.Close()

			p := pc.build(ProviderConfig{APIKey: "test-key", Model: "test-model", BaseURL: srv.URL + "/"})
			got, err := p.Generate(context.Background(), "system prompt", "user prompt")
			if err != nil {
				t.Fatalf("Generate: unexpected error: %v", err)
			}
			if got != "Hello from "+pc.name {
				t.Errorf("Generate: got %q", got)
			}
			if p.Name() != pc.name {
				t.Errorf("Name: got %q, want %q", p.Name(), pc.name)
			}
			if gotPath != pc.path {
				t.Errorf("path: got %q, want %q", gotPath, pc.path)
			}
			if v := gotHeaders.Get(pc.authHdr); v != pc.authVal {
				t.Errorf("%s header: got %q, want %q", pc.authHdr, v, pc.authVal)
			}
			if ct := gotHeaders.Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type: got %q", ct)
			}
			if !strings.Contains(string(gotBody), "system prompt") || !strings.Contains(string(gotBody), "user prompt") {
				t.Errorf("request body missing prompts: %s", gotBody)
			}
		})
	}
}

func TestProviderGenerate_MalformedJSON(t *testing.T) {
	for _, pc := range providerCases {
		t.Run(pc.name, func(t *testing.T) {
			srv := newTestServer(t, http.StatusOK, []byte(`{not json`))
			p := pc.build(ProviderConfig{APIKey: "test-key", Model: "test-model", BaseURL: srv.URL})
			_, err := p.Generate(context.Background(), "sys", "usr")
			if err == nil || !strings.Contains(err.Error(), "unmarshal") {
				t.Errorf("expected unmarshal error, got %v", err)
			}
		})
	}
}

func TestProviderGenerate_HTTPErrorIsTyped(t *testing.T) {
	for _, pc := range providerCases {
		t.Run(pc.name, func(t *testing.T) {
			srv := newTestServer(t, http.StatusTooManyRequests, []byte(`{"error":{"message":"slow down"}}`))
			p := pc.build(ProviderConfig{APIKey: "test-key", Model: "test-model", BaseURL: srv.URL})

			_, err := p.Generate(context.Background(), "sys", "usr")
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T %v", err, err)
			}
			if apiErr.Provider != pc.name || apiErr.StatusCode != 429 || apiErr.Message != "slow down" {
				t.Errorf("APIError = %+v", apiErr)
			}
			if !apperr.Is(Classify(err), apperr.KindRateLimited) {
				t.Errorf("Classify(%v) should be rate limited", err)
			}
		})
	}
}

func TestProviderGenerate_CancelledContext(t *testing.T) {
	for _, pc := range providerCases {
		t.Run(pc.name, func(t *testing.T) {
			srv := newTestServer(t, http.StatusOK, pc.success("ok"))
			p := pc.build(ProviderConfig{APIKey: "test-key", Model: "test-model", BaseURL: srv.URL})

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			if _, err := p.Generate(ctx, "sys", "usr"); err == nil {
				t.Fatal("expected error for cancelled context, got nil")
			}
		})
	}
}

func TestProviderGenerate_ConnectionRefused(t *testing.T) {
	for _, pc := range providerCases {
		t.Run(pc.name, func(t *testing.T) {
			p := pc.build(ProviderConfig{APIKey: "k", Model: "m", BaseURL: "http://127.0.0.1:1"})
			_, err := p.Generate(context.Background(), "sys", "usr")
			if err == nil || !strings.Contains(err.Error(), "http") {
				t.Errorf("expected http error, got %v", err)
			}
		})
	}
}

func TestOpenAIGenerate_EmptyChoices(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, mustJSON(openAIResponse{Choices: []openAIChoice{}}))
	p := newOpenAI(ProviderConfig{APIKey: "k", Model: "gpt-4o-mini", BaseURL: srv.URL})

	_, err := p.Generate(context.Background(), "sys", "usr")
	if err == nil || !strings.Contains(err.Error(), "no choices") {
		t.Errorf("expected no choices error, got %v", err)
	}
}

func TestClaudeGenerate_NoTextContent(t *testing.T) {
	body := mustJSON(claudeResponse{Content: []claudeContentBlock{{Type: "tool_use"}}})
	srv := newTestServer(t, http.StatusOK, body)
	p := newClaude(ProviderConfig{APIKey: "k", Model: "m", BaseURL: srv.URL})

	_, err := p.Generate(context.Background(), "sys", "usr")
	if err == nil || !strings.Contains(err.Error(), "no text content") {
		t.Errorf("expected no text content error, got %v", err)
	}
}

func TestClaudeDefaultMaxTokens(t *testing.T) {
	p := newClaude(ProviderConfig{APIKey: "k"})
	if p.config.MaxTokens != claudeDefaultMaxTokens {
		t.Errorf("MaxTokens = %d, want %d", p.config.MaxTokens, claudeDefaultMaxTokens)
	}
}

func TestGeminiGenerate_JoinsPartsAndSendsConfig(t *testing.T) {
	var req geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&req)
		w.Write(mustJSON(geminiResponse{Candidates: []geminiCandidate{{
			Content: geminiContent{Parts: []geminiPart{{Text: "## Hi"}, {Text: "\nthere"}}},
		}}}))
	}))
	defer srv.Close()

	p := newGemini(ProviderConfig{APIKey: "k", Model: "m", BaseURL: srv.URL, Temperature: 0.7, MaxTokens: 1024})
	got, err := p.Generate(context.Background(), "sys", "usr")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "## Hi\nthere" {
		t.Errorf("got %q", got)
	}
	if req.GenerationConfig == nil || req.GenerationConfig.MaxOutputTokens != 1024 {
		t.Errorf("generationConfig not sent: %+v", req.GenerationConfig)
	}
	if req.SystemInstruction == nil || req.SystemInstruction.Parts[0].Text != "sys" {
		t.Errorf("system instruction not sent: %+v", req.SystemInstruction)
	}
}

func TestGeminiGenerate_NoCandidates(t *testing.T) {
	tests := []struct {
		name string
		body geminiResponse
		want string
	}{
		{"empty", geminiResponse{}, "no candidates"},
		{"blocked", geminiResponse{PromptFeedback: &geminiPromptFeedback{BlockReason: "SAFETY"}}, "SAFETY"},
		{"no text", geminiResponse{Candidates: []geminiCandidate{{Content: geminiContent{Parts: []geminiPart{}}}}}, "no text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, http.StatusOK, mustJSON(tt.body))
			p := newGemini(ProviderConfig{APIKey: "k", Model: "m", BaseURL: srv.URL})
			_, err := p.Generate(context.Background(), "sys", "usr")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestDefaultBaseURLs(t *testing.T) {
	if got := newOpenAI(ProviderConfig{}).config.BaseURL; got != "https://api.openai.com/v1" {
		t.Errorf("openai: %q", got)
	}
	if got := newMistral(ProviderConfig{}).config.BaseURL; got != "https://api.mistral.ai/v1" {
		t.Errorf("mistral: %q", got)
	}
	if got := newClaude(ProviderConfig{}).config.BaseURL; got != "https://api.anthropic.com" {
		t.Errorf("claude: %q", got)
	}
	if got := newGemini(ProviderConfig{}).config.BaseURL; got != "https://generativelanguage.googleapis.com" {
		t.Errorf("gemini: %q", got)
	}
}

func TestRegistryGenerate_WithRealHTTPProviders(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, geminiSuccessBody("from gemini"))

	reg := NewRegistry("gemini", map[string]ProviderConfig{
		"gemini": {APIKey: "k", Model: "m", BaseURL: srv.URL},
		"openai": {APIKey: ""},
	})
	if !reg.Configured() {
		t.Fatal("registry with a gemini key should be configured")
	}
	got, err := reg.Generate(context.Background(), "sys", "usr")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "from gemini" {
		t.Errorf("got %q", got)
	}
}
