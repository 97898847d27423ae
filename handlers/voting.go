// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/palette/aggregate"
	"github.com/danielhkuo/palette/db"
	"github.com/danielhkuo/palette/metrics"
	"github.com/danielhkuo/palette/middleware"
	"github.com/danielhkuo/palette/models"
)

type VotingHandler struct {
	store   db.Store
	metrics *metrics.Metrics
}

func NewVotingHandler(store db.Store, m *metrics.Metrics) *VotingHandler {
	return &VotingHandler{store: store, metrics: m}
}

// CreateVote handles POST /votes
func (h *VotingHandler) CreateVote(w http.ResponseWriter, r *http.Request) {
	var req models.CreateVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.OriginalID = strings.TrimSpace(req.OriginalID)
	if msg, ok := validateRequest(req); !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	vote := models.Vote{
		OriginalID: req.OriginalID,
		Winner:     req.Winner,
		Voter:      voterName(req.Voter),
	}
	if err := aggregate.ValidateVote(vote); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, recordMessage(err))
		return
	}

	vote, err := h.store.InsertVote(r.Context(), vote)
	if err != nil {
		slog.Error("failed to insert vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}
	h.metrics.VoteRecorded(vote.Winner)

	slog.Info("vote recorded", "original_id", vote.OriginalID, "winner", vote.Winner, "voter", vote.Voter)

	stats, err := h.voteStats(r, vote.OriginalID)
	if err != nil {
		slog.Error("failed to compute vote stats", "original_id", vote.OriginalID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load vote stats")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.VoteResponse{
		Vote:  vote,
		Stats: stats,
	})
}

// GetVoteStats handles GET /votes/{originalId}/stats
func (h *VotingHandler) GetVoteStats(w http.ResponseWriter, r *http.Request) {
	originalID := r.PathValue("originalId")
	if originalID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "originalId is required")
		return
	}

	stats, err := h.voteStats(r, originalID)
	if err != nil {
		slog.Error("failed to compute vote stats", "original_id", originalID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load vote stats")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, stats)
}

func (h *VotingHandler) voteStats(r *http.Request, originalID string) (models.VoteStats, error) {
	votes, err := h.store.ListVotes(r.Context(), db.Where("originalId", originalID))
	if err != nil {
		return models.VoteStats{}, err
	}
	return aggregate.ComputeVoteStats(votes)
}

// voterName applies the anonymous default to a blank voter
func voterName(voter string) string {
	voter = strings.TrimSpace(voter)
	if voter == "" {
		return models.DefaultVoter
	}
	return voter
}
