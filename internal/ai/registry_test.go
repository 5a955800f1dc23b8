// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

// mockProvider is a test double implementing the Provider interface.
type mockProvider struct {
	name     string
	response string
	err      error

	mu       sync.Mutex
	calls    int
	lastUser string
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastUser = userPrompt
	return m.response, m.err
}

func TestRegistryGenerate(t *testing.T) {
	t.Run("delegates to active provider", func(t *testing.T) {
		mock := &mockProvider{name: "test", response: "Hello from mock"}
		reg := NewRegistry("test", nil)
		reg.Register("test", mock)

		got, err := reg.Generate(context.Background(), "system", "user")
		if err != nil {
			t.Fatalf("Generate: unexpected error: %v", err)
		}
		if got != "Hello from mock" || mock.calls != 1 || mock.lastUser != "user" {
			t.Errorf("got %q, calls=%d, lastUser=%q", got, mock.calls, mock.lastUser)
		}
	})

	t.Run("propagates provider error", func(t *testing.T) {
		reg := NewRegistry("test", nil)
		reg.Register("test", &mockProvider{name: "test", err: fmt.Errorf("api failure")})

		if _, err := reg.Generate(context.Background(), "s", "u"); err == nil || err.Error() != "api failure" {
			t.Errorf("error: got %v", err)
		}
	})

	t.Run("no provider for active name", func(t *testing.T) {
		reg := NewRegistry("gemini", nil)
		reg.Register("openai", &mockProvider{name: "openai"})

		_, err := reg.Generate(context.Background(), "s", "u")
		if !errors.Is(err, ErrNoProvider) {
			t.Errorf("error: got %v, want ErrNoProvider", err)
		}
		if reg.Configured() {
			t.Error("Configured() = true without an active provider")
		}
	})
}

func TestRegistrySetActive(t *testing.T) {
	reg := NewRegistry("a", nil)
	reg.Register("a", &mockProvider{name: "a", response: "from a"})
	reg.Register("b", &mockProvider{name: "b", response: "from b"})

	if err := reg.SetActive("b"); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if reg.ActiveName() != "b" {
		t.Errorf("ActiveName = %q", reg.ActiveName())
	}
	if got, _ := reg.Generate(context.Background(), "", ""); got != "from b" {
		t.Errorf("Generate after switch: %q", got)
	}

	if err := reg.SetActive("missing"); err == nil {
		t.Error("expected error switching to an unavailable provider")
	}
	if reg.ActiveName() != "b" {
		t.Error("failed SetActive must not change the active provider")
	}
}

func TestRegistryAvailableSorted(t *testing.T) {
	reg := NewRegistry("openai", map[string]ProviderConfig{
		"openai":  {APIKey: "k"},
		"mistral": {APIKey: "k"},
		"gemini":  {APIKey: "k"},
		"claude":  {APIKey: ""},
		"unknown": {APIKey: "k"},
	})

	got := reg.Available()
	want := []string{"gemini", "mistral", "openai"}
	if len(got) != len(want) {
		t.Fatalf("Available = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Available[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if reg.HasProvider("claude") || reg.HasProvider("unknown") {
		t.Error("providers without key or unknown names must be skipped")
	}
}

func TestNewRegistryProviderNames(t *testing.T) {
	for _, name := range []string{"openai", "gemini", "claude", "mistral"} {
		t.Run(name, func(t *testing.T) {
			reg := NewRegistry(name, map[string]ProviderConfig{name: {APIKey: "test-key", Model: "m"}})
			p, err := reg.Active()
			if err != nil {
				t.Fatalf("Active: %v", err)
			}
			if p.Name() != name {
				t.Errorf("Name = %q, want %q", p.Name(), name)
			}
		})
	}
}

func TestRegistryConcurrency(t *testing.T) {
	reg := NewRegistry("a", nil)
	reg.Register("a", &mockProvider{name: "a", response: "a"})
	reg.Register("b", &mockProvider{name: "b", response: "b"})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			reg.Generate(context.Background(), "s", "u")
		}()
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				reg.SetActive("a")
			} else {
				reg.SetActive("b")
			}
		}(i)
		go func() {
			defer wg.Done()
			reg.Available()
			reg.Configured()
		}()
	}
	wg.Wait()
}
