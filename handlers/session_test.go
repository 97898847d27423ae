// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/palette/auth"
	"github.com/danielhkuo/palette/models"
	"github.com/danielhkuo/palette/testutil"
)

func TestCreateSession(t *testing.T) {
	cfg := testutil.GetTestConfig()
	handler := NewSessionHandler(cfg)

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
	}{
		{"correct password", models.AdminSessionRequest{Password: cfg.AdminPassword}, http.StatusCreated},
		{"wrong password", models.AdminSessionRequest{Password: "guess"}, http.StatusUnauthorized},
		{"missing password", map[string]string{}, http.StatusBadRequest},
		{"invalid JSON", "nope", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/admin/session", tt.requestBody, nil)
			w := httptest.NewRecorder()

			handler.CreateSession(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if w.Code != http.StatusCreated {
				return
			}

			var resp models.AdminSessionResponse
			testutil.AssertJSON(t, w, &resp)
			if err := auth.ValidateAdminToken(resp.Token, cfg.AdminTokenSalt, time.Now()); err != nil {
				t.Errorf("Issued token does not validate: %v", err)
			}
			if !resp.ExpiresAt.After(time.Now()) {
				t.Errorf("Expected future expiry, got %v", resp.ExpiresAt)
			}
		})
	}
}
