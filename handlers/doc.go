// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Palette survey API.

# Handler Types

Each handler is a struct holding the store and whatever else it needs:

  - PhotoHandler: Photo listing, pairing, admin creation, upload, deletion
  - VotingHandler: Pairwise votes and per-subject vote stats
  - RatingHandler: 1-5 ratings, rating summaries, gallery favorites
  - DashboardHandler: Totals, author stats, and per-photo stats
  - SessionHandler: Admin password exchange

Handlers depend on db.Store rather than a concrete database:

	votingHandler := handlers.NewVotingHandler(store, metrics)

# Survey Flows

	GET  /pairs                        → ListPairs (complete A/B pairs)
	POST /votes                        → CreateVote (returns updated stats)
	GET  /photos                       → ListPhotos
	POST /ratings                      → CreateRating (returns updated summary)
	POST /favorites                    → CreateFavorites (one 5 per photo)

A blank voter name is recorded as "Anonymous".

# Admin

	POST   /admin/session       → CreateSession (returns bearer token)
	POST   /admin/photos        → CreatePhotos (by URL)
	POST   /admin/photos/upload → UploadPhotos (multipart fileA/fileB)
	DELETE /admin/photos/{id}   → DeletePhoto
	GET    /admin/pairs         → ListPairSlots
	GET    /admin/dashboard     → GetDashboard

Admin routes are gated by middleware.RequireAdmin in the router.

# Aggregation

Handlers never compute statistics themselves. They load records from the
store and hand them to the aggregate package.

# Validation

Request bodies are checked with go-playground/validator struct tags.
Error messages use the JSON field names, e.g. "originalId is required".
*/
package handlers
