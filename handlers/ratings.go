// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/palette/aggregate"
	"github.com/danielhkuo/palette/db"
	"github.com/danielhkuo/palette/metrics"
	"github.com/danielhkuo/palette/middleware"
	"github.com/danielhkuo/palette/models"
)

// favoritesConcurrency bounds parallel inserts for one gallery submission
const favoritesConcurrency = 8

type RatingHandler struct {
	store   db.Store
	metrics *metrics.Metrics
}

func NewRatingHandler(store db.Store, m *metrics.Metrics) *RatingHandler {
	return &RatingHandler{store: store, metrics: m}
}

// CreateRating handles POST /ratings
func (h *RatingHandler) CreateRating(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRatingRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.PhotoID = strings.TrimSpace(req.PhotoID)
	if msg, ok := validateRequest(req); !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	rating := models.Rating{
		PhotoID: req.PhotoID,
		Score:   req.Score,
		Voter:   voterName(req.Voter),
	}
	if err := aggregate.ValidateRating(rating); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, recordMessage(err))
		return
	}

	// Ratings may only target photos that exist now
	if _, err := h.store.GetPhoto(r.Context(), rating.PhotoID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Photo not found")
			return
		}
		slog.Error("failed to query photo", "photo_id", rating.PhotoID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	rating, err := h.store.InsertRating(r.Context(), rating)
	if err != nil {
		slog.Error("failed to insert rating", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record rating")
		return
	}
	h.metrics.RatingsRecorded(1)

	slog.Info("rating recorded", "photo_id", rating.PhotoID, "score", rating.Score, "voter", rating.Voter)

	summary, err := h.ratingSummary(r, rating.PhotoID)
	if err != nil {
		slog.Error("failed to compute rating summary", "photo_id", rating.PhotoID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load rating summary")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.RatingResponse{
		Rating:  rating,
		Summary: summary,
	})
}

// GetRatingSummary handles GET /photos/{id}/ratings/summary
func (h *RatingHandler) GetRatingSummary(w http.ResponseWriter, r *http.Request) {
	photoID := r.PathValue("id")
	if photoID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "photo id is required")
		return
	}

	summary, err := h.ratingSummary(r, photoID)
	if err != nil {
		slog.Error("failed to compute rating summary", "photo_id", photoID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load rating summary")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, summary)
}

// CreateFavorites handles POST /favorites
// Each selected photo receives one top-score rating. Inserts are not
// transactional: a failure part-way leaves earlier favorites recorded.
func (h *RatingHandler) CreateFavorites(w http.ResponseWriter, r *http.Request) {
	var req models.FavoritesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if msg, ok := validateRequest(req); !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	photoIDs := uniqueTrimmed(req.PhotoIDs)
	if len(photoIDs) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "photoIds is required")
		return
	}
	voter := voterName(req.Voter)
	ctx := r.Context()

	// Check every selection before writing anything
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(favoritesConcurrency)
	missing := make([]bool, len(photoIDs))
	for i, id := range photoIDs {
		g.Go(func() error {
			_, err := h.store.GetPhoto(gctx, id)
			if errors.Is(err, db.ErrNotFound) {
				missing[i] = true
				return nil
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		slog.Error("failed to query favorites", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	for i, id := range photoIDs {
		if missing[i] {
			middleware.ErrorResponse(w, http.StatusNotFound, "Photo not found: "+id)
			return
		}
	}

	created := make([]models.Rating, len(photoIDs))
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(favoritesConcurrency)
	for i, id := range photoIDs {
		g.Go(func() error {
			rating, err := h.store.InsertRating(gctx, models.Rating{
				PhotoID: id,
				Score:   models.FavoriteScore,
				Voter:   voter,
			})
			if err != nil {
				return err
			}
			created[i] = rating
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		slog.Error("failed to insert favorites", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record favorites")
		return
	}
	h.metrics.RatingsRecorded(len(created))

	slog.Info("favorites recorded", "count", len(created), "voter", voter)

	middleware.JSONResponse(w, http.StatusCreated, models.FavoritesResponse{Created: created})
}

func (h *RatingHandler) ratingSummary(r *http.Request, photoID string) (models.RatingSummary, error) {
	ratings, err := h.store.ListRatings(r.Context(), db.Where("photoId", photoID))
	if err != nil {
		return models.RatingSummary{}, err
	}
	return aggregate.ComputeRatingSummary(ratings)
}

// uniqueTrimmed drops blanks and repeats, keeping first-seen order
func uniqueTrimmed(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
