// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines records, derived views, and request/response types for the API.

# Records

Stored as-is and never updated:

  - Photo: one graded version (author A or B) of an original, by URL
  - Vote: a pairwise choice between A and B for one original
  - Rating: a 1-5 score for a single photo

# Derived Views

Computed on read by package aggregate:

  - ComparisonPair: an original with both graded photos
  - PairSlot: admin view of an original, complete or not
  - VoteStats: win counts and rounded percentages
  - RatingSummary: count and mean score
  - AuthorStats, AuthorStatsSet: per-author wins and ratings
  - PhotoStats: per-photo votes and ratings
  - DashboardSummary: totals plus author stats

# Request Types

  - CreateVoteRequest: originalId, winner, voter
  - CreateRatingRequest: photoId, score, voter
  - FavoritesRequest: photoIds, voter
  - CreatePhotosRequest: originalId, title, urlA, urlB
  - AdminSessionRequest: password

# Response Types

  - VoteResponse: vote, stats
  - RatingResponse: rating, summary
  - FavoritesResponse: created
  - CreatePhotosResponse: photos
  - DashboardResponse: summary, photoStats
  - AdminSessionResponse: token, expiresAt
  - ErrorResponse: error, message

# Constants

Authors:

	AuthorA = "A"
	AuthorB = "B"

Scores:

	MinScore      = 1
	MaxScore      = 5
	FavoriteScore = MaxScore
*/
package models
