// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/palette/models"
)

func TestStatusRecorder(t *testing.T) {
	testCases := []struct {
		name     string
		handler  http.HandlerFunc
		expected int
	}{
		{
			name: "body only defaults to 200",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("OK"))
			},
			expected: http.StatusOK,
		},
		{
			name: "explicit status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			},
			expected: http.StatusNoContent,
		},
		{
			name: "status from JSON helper",
			handler: func(w http.ResponseWriter, r *http.Request) {
				ErrorResponse(w, http.StatusRequestEntityTooLarge, "too big")
			},
			expected: http.StatusRequestEntityTooLarge,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			rec := record(w)

			tc.handler(rec, httptest.NewRequest("GET", "/", nil))

			if rec.status != tc.expected {
				t.Errorf("Expected recorded status %d, got %d", tc.expected, rec.status)
			}
			if w.Code != tc.expected {
				t.Errorf("Expected written status %d, got %d", tc.expected, w.Code)
			}
		})
	}
}

func TestRecordReusesRecorder(t *testing.T) {
	w := httptest.NewRecorder()
	outer := record(w)

	if inner := record(outer); inner != outer {
		t.Error("Expected nested middleware to share one recorder")
	}
	if outer.Unwrap() != w {
		t.Error("Expected Unwrap to return the underlying writer")
	}

	// ResponseController reaches the underlying writer through Unwrap
	if err := http.NewResponseController(outer).Flush(); err != nil {
		t.Errorf("Expected flush through recorder, got %v", err)
	}
	if !w.Flushed {
		t.Error("Expected underlying recorder to be flushed")
	}
}

func TestWithLogging(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusCreated, http.StatusUnauthorized, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			called := false
			h := WithLogging(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(status)
				w.Write([]byte("body"))
			})

			w := httptest.NewRecorder()
			h(w, httptest.NewRequest("POST", "/votes", nil))

			if !called {
				t.Fatal("Expected handler to be called")
			}
			if w.Code != status || w.Body.String() != "body" {
				t.Errorf("Response altered: %d %q", w.Code, w.Body.String())
			}
		})
	}
}

func TestJSONResponse(t *testing.T) {
	w := httptest.NewRecorder()
	JSONResponse(w, http.StatusCreated, models.VoteResponse{
		Vote:  models.Vote{ID: "v1", OriginalID: "IMG_001", Winner: models.AuthorB, Voter: "Ana"},
		Stats: models.VoteStats{Total: 1, BWins: 1, BPercent: 100},
	})

	if w.Code != http.StatusCreated {
		t.Errorf("Expected 201, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %q", ct)
	}

	var resp models.VoteResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Vote.Winner != models.AuthorB || resp.Stats.BPercent != 100 {
		t.Errorf("Unexpected round trip %+v", resp)
	}
}

func TestErrorResponse(t *testing.T) {
	testCases := []struct {
		status   int
		message  string
		expected string
	}{
		{http.StatusBadRequest, "winner must be A or B", "Bad Request"},
		{http.StatusUnauthorized, "Admin session required", "Unauthorized"},
		{http.StatusTooManyRequests, "Too many requests, slow down", "Too Many Requests"},
		{http.StatusBadGateway, "Image host rejected the upload", "Bad Gateway"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			w := httptest.NewRecorder()
			ErrorResponse(w, tc.status, tc.message)

			if w.Code != tc.status {
				t.Errorf("Expected status %d, got %d", tc.status, w.Code)
			}

			var resp models.ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode error response: %v", err)
			}
			if resp.Error != tc.expected || resp.Message != tc.message {
				t.Errorf("Unexpected error body %+v", resp)
			}
		})
	}
}

func TestParseJSONBody(t *testing.T) {
	testCases := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"favorites request", `{"photoIds":["p1","p2"],"voter":"Ana"}`, false},
		{"unknown fields ignored", `{"photoIds":["p1"],"extra":true}`, false},
		{"malformed", `{"photoIds":`, true},
		{"empty", ``, true},
		{"wrong type", `{"photoIds":"p1"}`, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/favorites", strings.NewReader(tc.body))

			var parsed models.FavoritesRequest
			err := ParseJSONBody(req, &parsed)

			if tc.wantErr != (err != nil) {
				t.Fatalf("wantErr=%v, got %v", tc.wantErr, err)
			}
			if !tc.wantErr && (len(parsed.PhotoIDs) == 0 || parsed.PhotoIDs[0] != "p1") {
				t.Errorf("Unexpected parse %+v", parsed)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	h := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("handled"))
	}))

	testCases := []struct {
		name       string
		method     string
		origin     string
		wantOrigin string
		wantBody   string
	}{
		{"preflight stops at middleware", "OPTIONS", "http://localhost:5173", "http://localhost:5173", ""},
		{"request reflects origin", "DELETE", "https://palette.example.com", "https://palette.example.com", "handled"},
		{"no origin falls back to wildcard", "GET", "", "*", "handled"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/admin/photos/p1", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tc.wantOrigin {
				t.Errorf("Expected origin %q, got %q", tc.wantOrigin, got)
			}
			if w.Body.String() != tc.wantBody {
				t.Errorf("Expected body %q, got %q", tc.wantBody, w.Body.String())
			}
			if !strings.Contains(w.Header().Get("Access-Control-Allow-Methods"), "DELETE") {
				t.Error("Expected DELETE in allowed methods")
			}
			if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), "Authorization") {
				t.Error("Expected Authorization in allowed headers")
			}
		})
	}
}

func TestGetClientIP(t *testing.T) {
	testCases := []struct {
		name       string
		trustProxy bool
		headers    map[string]string
		remoteAddr string
		expectedIP string
	}{
		{
			name:       "peer address without proxy",
			remoteAddr: "192.168.1.50:54321",
			expectedIP: "192.168.1.50",
		},
		{
			name:       "forwarding headers ignored without proxy",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.9", "X-Real-IP": "203.0.113.10"},
			remoteAddr: "198.51.100.7:4000",
			expectedIP: "198.51.100.7",
		},
		{
			name:       "IPv6 peer",
			remoteAddr: "[2001:db8::1]:443",
			expectedIP: "2001:db8::1",
		},
		{
			name:       "peer without port",
			remoteAddr: "192.168.1.50",
			expectedIP: "192.168.1.50",
		},
		{
			name:       "trusted proxy uses last forwarded hop",
			trustProxy: true,
			headers:    map[string]string{"X-Forwarded-For": "6.6.6.6, 203.0.113.195"},
			remoteAddr: "10.0.0.1:12345",
			expectedIP: "203.0.113.195",
		},
		{
			name:       "trusted proxy falls back to X-Real-IP",
			trustProxy: true,
			headers:    map[string]string{"X-Real-IP": "203.0.113.50"},
			remoteAddr: "10.0.0.1:12345",
			expectedIP: "203.0.113.50",
		},
		{
			name:       "trusted proxy without headers uses peer",
			trustProxy: true,
			remoteAddr: "10.0.0.5:8080",
			expectedIP: "10.0.0.5",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tc.remoteAddr
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}

			if got := GetClientIP(req, tc.trustProxy); got != tc.expectedIP {
				t.Errorf("Expected IP '%s', got '%s'", tc.expectedIP, got)
			}
		})
	}
}
