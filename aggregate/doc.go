// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package aggregate turns raw photo, vote, and rating records into the derived
views the survey shows: comparison pairs and result statistics.

Every function is pure. Inputs are never modified, identical inputs always give
identical outputs, and a call either returns a complete result or an error.

# Pairing

	pairs, err := aggregate.BuildComparisonPairs(photos)

Photos are grouped by OriginalID. Each group contributes one pair built from
FirstPerAuthor: the first A and first B photo in input order. Groups without
both authors are left out; GroupPairSlots reports them for the admin view.

# Statistics

	authors, err := aggregate.ComputeAuthorStats(photos, votes, ratings)
	stats, err := aggregate.ComputeVoteStats(votesForSubject)

Rates and averages with an empty denominator are 0. Ratings referencing a
deleted photo are excluded from author statistics.

# Activity

	feed, err := aggregate.RecentActivity(votes, ratings, 20)

Votes and ratings merged newest first for the dashboard feed.

# Errors

Malformed records fail the whole call with a *RecordError wrapping
ErrInvalidInput, or ErrInvalidWinner for a vote naming neither A nor B:

	if errors.Is(err, aggregate.ErrInvalidWinner) { ... }
*/
package aggregate
