// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterAllow(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		calls []string
		want  []bool
	}{
		{"under limit", 3, []string{"a", "a", "a"}, []bool{true, true, true}},
		{"over limit", 2, []string{"a", "a", "a"}, []bool{true, true, false}},
		{"clients counted apart", 1, []string{"a", "b", "a", "b"}, []bool{true, true, false, false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := NewRateLimiter(tt.limit, time.Minute)
			defer rl.Stop()
			for i, ip := range tt.calls {
				if got := rl.allow(ip); got != tt.want[i] {
					t.Errorf("call %d from %s: got %v, want %v", i+1, ip, got, tt.want[i])
				}
			}
		})
	}
}

func TestRateLimiterWindowSlides(t *testing.T) {
	rl := NewRateLimiter(1, 80*time.Millisecond)
	defer rl.Stop()

	if !rl.allow("chat-client") {
		t.Fatal("first message should pass")
	}
	if rl.allow("chat-client") {
		t.Fatal("second message inside the window should be refused")
	}
	time.Sleep(120 * time.Millisecond)
	if !rl.allow("chat-client") {
		t.Error("message after the window should pass")
	}
}

func TestRateLimiterMiddlewareRefusesContactFlood(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()

	calls := 0
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	}))

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
		req.RemoteAddr = "203.0.113.7:5100"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
		if rr.Code == http.StatusTooManyRequests {
			if got := rr.Header().Get("Retry-After"); got != "60" {
				t.Errorf("Retry-After: got %q, want %q", got, "60")
			}
			if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type: got %q", ct)
			}
		}
	}

	want := []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("request %d: got %d, want %d", i+1, codes[i], want[i])
		}
	}
	if calls != 2 {
		t.Errorf("handler ran %d times, want 2", calls)
	}
}

func TestRateLimiterStopIdempotent(t *testing.T) {
	rl := NewRateLimiter(1, time.Second)
	rl.Stop()
	rl.Stop()
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{"forwarded chain uses first hop", map[string]string{"X-Forwarded-For": "198.51.100.4, 10.0.0.1"}, "10.0.0.2:80", "198.51.100.4"},
		{"real ip header", map[string]string{"X-Real-IP": "198.51.100.9"}, "10.0.0.2:80", "198.51.100.9"},
		{"remote addr with port", nil, "203.0.113.7:5100", "203.0.113.7"},
		{"ipv6 remote addr", nil, "[2001:db8::1]:443", "2001:db8::1"},
		{"remote addr without port", nil, "203.0.113.7", "203.0.113.7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := clientIP(req); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRateLimiterCleanupDropsIdleClients(t *testing.T) {
	rl := NewRateLimiter(10, 100*time.Millisecond)
	defer rl.Stop()

	rl.allow("idle")
	rl.allow("active")
	time.Sleep(150 * time.Millisecond)
	rl.allow("active")

	rl.cleanup()

	rl.mu.RLock()
	defer rl.mu.RUnlock()
	if _, ok := rl.clients["idle"]; ok {
		t.Error("idle client should be dropped")
	}
	if _, ok := rl.clients["active"]; !ok {
		t.Error("active client should be kept")
	}
}
