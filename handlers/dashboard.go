// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/palette/aggregate"
	"github.com/danielhkuo/palette/db"
	"github.com/danielhkuo/palette/middleware"
	"github.com/danielhkuo/palette/models"
)

// number of votes and ratings shown in the activity feed
const recentActivityLimit = 20

type DashboardHandler struct {
	store db.Store
}

func NewDashboardHandler(store db.Store) *DashboardHandler {
	return &DashboardHandler{store: store}
}

// GetDashboard handles GET /admin/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	var (
		photos  []models.Photo
		votes   []models.Vote
		ratings []models.Rating
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		photos, err = h.store.ListPhotos(ctx, db.Query{})
		return err
	})
	g.Go(func() (err error) {
		votes, err = h.store.ListVotes(ctx, db.Query{})
		return err
	})
	g.Go(func() (err error) {
		ratings, err = h.store.ListRatings(ctx, db.Query{})
		return err
	})
	if err := g.Wait(); err != nil {
		slog.Error("failed to load dashboard data", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	summary, err := aggregate.Summarize(photos, votes, ratings)
	if err != nil {
		slog.Error("stored records failed validation", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute dashboard")
		return
	}

	photoStats, err := aggregate.ComputePhotoStats(photos, votes, ratings)
	if err != nil {
		slog.Error("stored records failed validation", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute dashboard")
		return
	}

	recent, err := aggregate.RecentActivity(votes, ratings, recentActivityLimit)
	if err != nil {
		slog.Error("stored records failed validation", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute dashboard")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.DashboardResponse{
		Summary:        summary,
		PhotoStats:     photoStats,
		RecentActivity: recent,
	})
}
