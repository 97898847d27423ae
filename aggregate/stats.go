// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package aggregate

import (
	"math"

	"github.com/danielhkuo/palette/models"
)

type tally struct {
	votes    int
	wins     int
	ratings  int
	scoreSum int
}

// ComputeAuthorStats aggregates per-author results. Every vote is a trial for
// both authors; a rating counts for the author of the photo it references.
// Ratings whose photo no longer exists are excluded.
func ComputeAuthorStats(photos []models.Photo, votes []models.Vote, ratings []models.Rating) (models.AuthorStatsSet, error) {
	if err := checkAll(photos, votes, ratings); err != nil {
		return models.AuthorStatsSet{}, err
	}

	authorOf := photoAuthors(photos)
	tallies := map[models.Author]*tally{
		models.AuthorA: {},
		models.AuthorB: {},
	}

	for _, v := range votes {
		tallies[models.AuthorA].votes++
		tallies[models.AuthorB].votes++
		tallies[v.Winner].wins++
	}

	for _, r := range ratings {
		author, ok := authorOf[r.PhotoID]
		if !ok {
			continue
		}
		tallies[author].ratings++
		tallies[author].scoreSum += r.Score
	}

	return models.AuthorStatsSet{
		A: tallies[models.AuthorA].stats(models.AuthorA),
		B: tallies[models.AuthorB].stats(models.AuthorB),
	}, nil
}

func (t *tally) stats(author models.Author) models.AuthorStats {
	return models.AuthorStats{
		Author:       author,
		TotalVotes:   t.votes,
		TotalWins:    t.wins,
		WinRate:      ratio(t.wins, t.votes),
		TotalRatings: t.ratings,
		TotalScore:   t.scoreSum,
		AvgRating:    ratio(t.scoreSum, t.ratings),
	}
}

// ComputeVoteStats summarizes the votes cast on one comparison subject.
// Percentages are rounded independently, so they may sum to 99 or 101.
func ComputeVoteStats(votes []models.Vote) (models.VoteStats, error) {
	if err := checkVotes(votes); err != nil {
		return models.VoteStats{}, err
	}

	stats := models.VoteStats{Total: len(votes)}
	for _, v := range votes {
		if v.Winner == models.AuthorA {
			stats.AWins++
		} else {
			stats.BWins++
		}
	}
	stats.APercent = percent(stats.AWins, stats.Total)
	stats.BPercent = percent(stats.BWins, stats.Total)

	return stats, nil
}

// ComputeRatingSummary returns the count and mean score of ratings.
func ComputeRatingSummary(ratings []models.Rating) (models.RatingSummary, error) {
	if err := checkRatings(ratings); err != nil {
		return models.RatingSummary{}, err
	}

	sum := 0
	for _, r := range ratings {
		sum += r.Score
	}
	return models.RatingSummary{
		Count:   len(ratings),
		Average: ratio(sum, len(ratings)),
	}, nil
}

// ComputePhotoStats returns per-photo results in input order. A photo's votes
// are those cast on its OriginalID; it wins the ones naming its author.
func ComputePhotoStats(photos []models.Photo, votes []models.Vote, ratings []models.Rating) ([]models.PhotoStats, error) {
	if err := checkAll(photos, votes, ratings); err != nil {
		return nil, err
	}

	type subject struct{ total, aWins, bWins int }
	bySubject := make(map[string]*subject)
	for _, v := range votes {
		s, ok := bySubject[v.OriginalID]
		if !ok {
			s = &subject{}
			bySubject[v.OriginalID] = s
		}
		s.total++
		if v.Winner == models.AuthorA {
			s.aWins++
		} else {
			s.bWins++
		}
	}

	byPhoto := make(map[string]*tally)
	for _, r := range ratings {
		t, ok := byPhoto[r.PhotoID]
		if !ok {
			t = &tally{}
			byPhoto[r.PhotoID] = t
		}
		t.ratings++
		t.scoreSum += r.Score
	}

	out := make([]models.PhotoStats, 0, len(photos))
	for _, p := range photos {
		ps := models.PhotoStats{Photo: p}
		if s, ok := bySubject[p.OriginalID]; ok {
			ps.VoteCount = s.total
			if p.Author == models.AuthorA {
				ps.WinCount = s.aWins
			} else {
				ps.WinCount = s.bWins
			}
		}
		if t, ok := byPhoto[p.ID]; ok && p.ID != "" {
			ps.RatingCount = t.ratings
			ps.AvgRating = ratio(t.scoreSum, t.ratings)
		}
		ps.WinRate = ratio(ps.WinCount, ps.VoteCount)
		out = append(out, ps)
	}

	return out, nil
}

// Summarize builds the dashboard totals and author statistics.
func Summarize(photos []models.Photo, votes []models.Vote, ratings []models.Rating) (models.DashboardSummary, error) {
	authors, err := ComputeAuthorStats(photos, votes, ratings)
	if err != nil {
		return models.DashboardSummary{}, err
	}

	subjects := make(map[string]struct{}, len(photos))
	for _, p := range photos {
		subjects[p.OriginalID] = struct{}{}
	}

	return models.DashboardSummary{
		TotalPhotos:   len(photos),
		TotalVotes:    len(votes),
		TotalRatings:  len(ratings),
		TotalSubjects: len(subjects),
		Authors:       authors,
	}, nil
}

func checkAll(photos []models.Photo, votes []models.Vote, ratings []models.Rating) error {
	if err := checkPhotos(photos); err != nil {
		return err
	}
	if err := checkVotes(votes); err != nil {
		return err
	}
	return checkRatings(ratings)
}

// photoAuthors indexes persisted photos by ID; a repeated ID keeps the last author.
func photoAuthors(photos []models.Photo) map[string]models.Author {
	authors := make(map[string]models.Author, len(photos))
	for _, p := range photos {
		if p.ID == "" {
			continue
		}
		authors[p.ID] = p.Author
	}
	return authors
}

// ratio divides with a zero result for an empty denominator.
func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// percent rounds half up, matching how the survey has always displayed shares.
func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Floor(float64(n)/float64(total)*100 + 0.5))
}
