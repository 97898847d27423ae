// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/palette/auth"
	"github.com/danielhkuo/palette/cliparse"
	"github.com/danielhkuo/palette/middleware"
	"github.com/danielhkuo/palette/models"
)

type SessionHandler struct {
	cfg cliparse.Config
}

func NewSessionHandler(cfg cliparse.Config) *SessionHandler {
	return &SessionHandler{cfg: cfg}
}

// CreateSession handles POST /admin/session
// Exchanges the admin password for a signed session token.
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req models.AdminSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if msg, ok := validateRequest(req); !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	if err := auth.CheckPassword(req.Password, h.cfg.AdminPassword); err != nil {
		slog.Warn("admin login failed", "remote", middleware.GetClientIP(r, h.cfg.TrustProxy))
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	token, expiresAt, err := auth.IssueAdminToken(h.cfg.AdminTokenSalt, h.cfg.AdminTokenTTL, time.Now())
	if err != nil {
		slog.Error("failed to issue admin token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	slog.Info("admin session created", "expires_at", expiresAt)

	middleware.JSONResponse(w, http.StatusCreated, models.AdminSessionResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	})
}
