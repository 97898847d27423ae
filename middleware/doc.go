// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status, duration_ms).

# Metrics

WithMetrics reports each request to a RequestObserver, labelled with the
matched mux pattern:

	mux.HandleFunc("POST /votes", middleware.WithLogging(middleware.WithMetrics(m, h.CreateVote)))

# Admin Gate

RequireAdmin accepts only requests carrying a valid admin session token:

	Authorization: Bearer <token>

Missing, forged, and expired tokens get 401.

# Rate Limiting

RateLimiter keeps a token bucket per client IP and answers 429 with a
Retry-After header once a client runs dry:

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst, cfg.TrustProxy)
	mux.HandleFunc("POST /votes", limiter.Limit(h.CreateVote))

A zero rate disables limiting. Idle buckets are dropped after ten minutes.

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, DELETE, OPTIONS with headers
Content-Type, Authorization.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies:

	var req models.CreateVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the client IP used as the rate limiter key:

	ip := middleware.GetClientIP(r, cfg.TrustProxy)

Forwarding headers (X-Forwarded-For, X-Real-IP) are only read when the
server runs behind a trusted proxy; otherwise the TCP peer is used.
*/
package middleware
