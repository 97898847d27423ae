// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package aggregate

import (
	"sort"

	"github.com/danielhkuo/palette/models"
)

// RecentActivity merges votes and ratings into one feed, newest first, and
// keeps at most n items. Items created at the same instant are ordered by
// ID descending, then votes before ratings, matching the store's list order.
func RecentActivity(votes []models.Vote, ratings []models.Rating, n int) ([]models.Activity, error) {
	if err := checkVotes(votes); err != nil {
		return nil, err
	}
	if err := checkRatings(ratings); err != nil {
		return nil, err
	}

	feed := make([]models.Activity, 0, len(votes)+len(ratings))
	for _, v := range votes {
		feed = append(feed, models.Activity{
			Kind:       models.KindVote,
			ID:         v.ID,
			Voter:      v.Voter,
			CreatedAt:  v.CreatedAt,
			OriginalID: v.OriginalID,
			Winner:     v.Winner,
		})
	}
	for _, r := range ratings {
		feed = append(feed, models.Activity{
			Kind:      models.KindRating,
			ID:        r.ID,
			Voter:     r.Voter,
			CreatedAt: r.CreatedAt,
			PhotoID:   r.PhotoID,
			Score:     r.Score,
		})
	}

	sort.SliceStable(feed, func(i, j int) bool {
		a, b := feed[i], feed[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		if a.ID != b.ID {
			return a.ID > b.ID
		}
		return a.Kind == models.KindVote && b.Kind != models.KindVote
	})

	if n < 0 {
		n = 0
	}
	if len(feed) > n {
		feed = feed[:n]
	}
	return feed, nil
}
