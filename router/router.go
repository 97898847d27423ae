// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"strings"

	"github.com/danielhkuo/palette/cliparse"
	"github.com/danielhkuo/palette/db"
	"github.com/danielhkuo/palette/handlers"
	"github.com/danielhkuo/palette/metrics"
	"github.com/danielhkuo/palette/middleware"
	"github.com/danielhkuo/palette/upload"
)

func NewRouter(store db.Store, uploader upload.Uploader, cfg cliparse.Config, m *metrics.Metrics) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	photoHandler := handlers.NewPhotoHandler(store, uploader, cfg, m)
	votingHandler := handlers.NewVotingHandler(store, m)
	ratingHandler := handlers.NewRatingHandler(store, m)
	dashboardHandler := handlers.NewDashboardHandler(store)
	sessionHandler := handlers.NewSessionHandler(cfg)

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst, cfg.TrustProxy)

	route := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.WithMetrics(m, h))
	}
	write := func(h http.HandlerFunc) http.HandlerFunc {
		return route(limiter.Limit(h))
	}
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return route(middleware.RequireAdmin(cfg.AdminTokenSalt, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", m.Handler())

	// Survey operations (public)
	mux.HandleFunc("GET /pairs", route(photoHandler.ListPairs))
	mux.HandleFunc("GET /photos", route(photoHandler.ListPhotos))
	mux.HandleFunc("POST /votes", write(votingHandler.CreateVote))
	mux.HandleFunc("GET /votes/{originalId}/stats", route(votingHandler.GetVoteStats))
	mux.HandleFunc("POST /ratings", write(ratingHandler.CreateRating))
	mux.HandleFunc("GET /photos/{id}/ratings/summary", route(ratingHandler.GetRatingSummary))
	mux.HandleFunc("POST /favorites", write(ratingHandler.CreateFavorites))

	// Admin session (rate limited against password guessing)
	mux.HandleFunc("POST /admin/session", write(sessionHandler.CreateSession))

	// Admin operations
	mux.HandleFunc("POST /admin/photos", admin(photoHandler.CreatePhotos))
	mux.HandleFunc("POST /admin/photos/upload", admin(photoHandler.UploadPhotos))
	mux.HandleFunc("DELETE /admin/photos/{id}", admin(photoHandler.DeletePhoto))
	mux.HandleFunc("GET /admin/pairs", admin(photoHandler.ListPairSlots))
	mux.HandleFunc("GET /admin/dashboard", admin(dashboardHandler.GetDashboard))

	// Locally stored uploads
	if cfg.UploadProvider == cliparse.ProviderLocal && cfg.UploadDir != "" {
		files := http.StripPrefix(upload.FilesPrefix, http.FileServer(http.Dir(cfg.UploadDir)))
		mux.Handle("GET "+upload.FilesPrefix, noDirListing(files))
	}

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("palette API v1"))
	})

	return mux
}

// noDirListing hides directory indexes of the upload dir
func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
