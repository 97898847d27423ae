// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func sendFrom(h http.HandlerFunc, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/votes", nil)
	req.RemoteAddr = ip + ":4000"
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func TestRateLimiter_BurstThenReject(t *testing.T) {
	rl := NewRateLimiter(1, 3, false)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	h := rl.Limit(okHandler)

	for i := 0; i < 3; i++ {
		if w := sendFrom(h, "10.0.0.1"); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}

	w := sendFrom(h, "10.0.0.1")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") != "1" {
		t.Errorf("Expected Retry-After 1, got %q", w.Header().Get("Retry-After"))
	}

	// Other clients have their own bucket
	if w := sendFrom(h, "10.0.0.2"); w.Code != http.StatusOK {
		t.Errorf("Expected other client to pass, got %d", w.Code)
	}

	// Tokens refill over time
	now = now.Add(time.Second)
	if w := sendFrom(h, "10.0.0.1"); w.Code != http.StatusOK {
		t.Errorf("Expected refill after 1s, got %d", w.Code)
	}
}

func TestRateLimiter_Disabled(t *testing.T) {
	h := NewRateLimiter(0, 0, false).Limit(okHandler)

	for i := 0; i < 100; i++ {
		if w := sendFrom(h, "10.0.0.1"); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}
}

func TestRateLimiter_SweepsIdleClients(t *testing.T) {
	rl := NewRateLimiter(1, 1, false)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	h := rl.Limit(okHandler)

	sendFrom(h, "10.0.0.1")
	now = now.Add(limiterIdleTTL + 2*time.Minute)
	sendFrom(h, "10.0.0.2")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.clients["10.0.0.1"]; ok {
		t.Error("Expected idle client to be swept")
	}
	if len(rl.clients) != 1 {
		t.Errorf("Expected 1 tracked client, got %d", len(rl.clients))
	}
}

func TestRateLimiter_IgnoresForwardedForByDefault(t *testing.T) {
	rl := NewRateLimiter(1, 1, false)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	h := rl.Limit(okHandler)

	limited := 0
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest("POST", "/admin/session", nil)
		req.RemoteAddr = "198.51.100.7:4000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.1.0.%d", i))
		w := httptest.NewRecorder()
		h(w, req)
		if w.Code == http.StatusTooManyRequests {
			limited++
		}
	}

	if limited != 19 {
		t.Errorf("Expected 19 of 20 requests limited, got %d", limited)
	}
}

func TestRateLimiter_TrustedProxy(t *testing.T) {
	rl := NewRateLimiter(1, 1, true)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	h := rl.Limit(okHandler)

	send := func(xff string) int {
		req := httptest.NewRequest("POST", "/votes", nil)
		req.RemoteAddr = "10.0.0.1:4000" // the proxy
		req.Header.Set("X-Forwarded-For", xff)
		w := httptest.NewRecorder()
		h(w, req)
		return w.Code
	}

	// Distinct clients behind the proxy get their own buckets
	if code := send("203.0.113.1"); code != http.StatusOK {
		t.Errorf("Expected first client to pass, got %d", code)
	}
	if code := send("203.0.113.2"); code != http.StatusOK {
		t.Errorf("Expected second client to pass, got %d", code)
	}

	// A spoofed leading hop does not change the proxy-appended one
	if code := send("1.2.3.4, 203.0.113.1"); code != http.StatusTooManyRequests {
		t.Errorf("Expected spoofed hop to share the client bucket, got %d", code)
	}
}

type observation struct {
	method, route string
	status        int
}

type fakeObserver struct {
	seen []observation
}

func (f *fakeObserver) ObserveRequest(method, route string, status int, d time.Duration) {
	f.seen = append(f.seen, observation{method, route, status})
}

func TestWithMetrics(t *testing.T) {
	obs := &fakeObserver{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /votes", WithMetrics(obs, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest("POST", "/votes", nil)
	mux.ServeHTTP(httptest.NewRecorder(), req)

	if len(obs.seen) != 1 {
		t.Fatalf("Expected 1 observation, got %d", len(obs.seen))
	}
	got := obs.seen[0]
	if got.method != "POST" || got.route != "POST /votes" || got.status != http.StatusCreated {
		t.Errorf("Unexpected observation %+v", got)
	}
}

func TestWithLoggingAndMetricsShareRecorder(t *testing.T) {
	obs := &fakeObserver{}
	h := WithLogging(WithMetrics(obs, func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(w, http.StatusNotFound, "photo not found")
	}))

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest("GET", "/photos/x", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
	if len(obs.seen) != 1 || obs.seen[0].status != http.StatusNotFound {
		t.Errorf("Unexpected observations %+v", obs.seen)
	}
	if obs.seen[0].route != "unmatched" {
		t.Errorf("Expected unmatched route, got %q", obs.seen[0].route)
	}
}
