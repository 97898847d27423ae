package models

import "time"

// Author identifies one of the two grading styles under comparison.
type Author string

const (
	AuthorA Author = "A"
	AuthorB Author = "B"
)

// Authors lists both authors in display order.
var Authors = []Author{AuthorA, AuthorB}

// Valid reports whether a is A or B.
func (a Author) Valid() bool {
	return a == AuthorA || a == AuthorB
}

// DefaultVoter is recorded when a voter leaves their name blank
const DefaultVoter = "Anonymous"

// Record kinds, as used by the store and in error messages
const (
	KindPhoto  = "photo"
	KindVote   = "vote"
	KindRating = "rating"
)

// Rating bounds (inclusive)
const (
	MinScore = 1
	MaxScore = 5
)

// FavoriteScore is the score recorded for each photo picked in the gallery
const FavoriteScore = MaxScore

// Records

type Photo struct {
	ID         string    `json:"id,omitempty"`
	URL        string    `json:"url" validate:"required,notblank"`
	Author     Author    `json:"author" validate:"required,oneof=A B"`
	OriginalID string    `json:"originalId" validate:"required,notblank"`
	Title      string    `json:"title,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Vote applies to the pair identified by OriginalID, not to a specific photo row.
type Vote struct {
	ID         string    `json:"id,omitempty"`
	OriginalID string    `json:"originalId" validate:"required,notblank"`
	Winner     Author    `json:"winner" validate:"required,oneof=A B"`
	Voter      string    `json:"voter"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Rating applies to exactly one photo.
type Rating struct {
	ID        string    `json:"id,omitempty"`
	PhotoID   string    `json:"photoId" validate:"required,notblank"`
	Score     int       `json:"score" validate:"min=1,max=5"`
	Voter     string    `json:"voter"`
	CreatedAt time.Time `json:"createdAt"`
}

// Derived views (never persisted)

type ComparisonPair struct {
	OriginalID string `json:"originalId"`
	PhotoA     Photo  `json:"photoA"`
	PhotoB     Photo  `json:"photoB"`
}

type AuthorStats struct {
	Author       Author  `json:"author"`
	TotalVotes   int     `json:"totalVotes"`
	TotalWins    int     `json:"totalWins"`
	WinRate      float64 `json:"winRate"`
	TotalRatings int     `json:"totalRatings"`
	TotalScore   int     `json:"totalScore"`
	AvgRating    float64 `json:"avgRating"`
}

// AuthorStatsSet always carries both authors.
type AuthorStatsSet struct {
	A AuthorStats `json:"A"`
	B AuthorStats `json:"B"`
}

// For returns the stats of the given author.
func (s AuthorStatsSet) For(a Author) AuthorStats {
	if a == AuthorB {
		return s.B
	}
	return s.A
}

type VoteStats struct {
	Total    int `json:"total"`
	AWins    int `json:"aWins"`
	BWins    int `json:"bWins"`
	APercent int `json:"aPercent"`
	BPercent int `json:"bPercent"`
}

type PhotoStats struct {
	Photo       Photo   `json:"photo"`
	VoteCount   int     `json:"voteCount"`
	WinCount    int     `json:"winCount"`
	WinRate     float64 `json:"winRate"`
	RatingCount int     `json:"ratingCount"`
	AvgRating   float64 `json:"avgRating"`
}

type RatingSummary struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

// PairSlot is the admin view of one comparison subject, complete or not.
type PairSlot struct {
	OriginalID string `json:"originalId"`
	A          *Photo `json:"A"`
	B          *Photo `json:"B"`
	Complete   bool   `json:"complete"`
	Duplicates int    `json:"duplicates"` // photos shadowed by an earlier one of the same author
}

// Activity is one vote or rating in the dashboard feed. Kind is KindVote
// or KindRating and decides which of the detail fields are set.
type Activity struct {
	Kind       string    `json:"kind"`
	ID         string    `json:"id"`
	Voter      string    `json:"voter"`
	CreatedAt  time.Time `json:"createdAt"`
	OriginalID string    `json:"originalId,omitempty"`
	Winner     Author    `json:"winner,omitempty"`
	PhotoID    string    `json:"photoId,omitempty"`
	Score      int       `json:"score,omitempty"`
}

type DashboardSummary struct {
	TotalPhotos   int            `json:"totalPhotos"`
	TotalVotes    int            `json:"totalVotes"`
	TotalRatings  int            `json:"totalRatings"`
	TotalSubjects int            `json:"totalSubjects"`
	Authors       AuthorStatsSet `json:"authors"`
}

// Request types

type CreateVoteRequest struct {
	OriginalID string `json:"originalId" validate:"required,notblank"`
	Winner     Author `json:"winner" validate:"required,oneof=A B"`
	Voter      string `json:"voter" validate:"max=50"`
}

type CreateRatingRequest struct {
	PhotoID string `json:"photoId" validate:"required,notblank"`
	Score   int    `json:"score" validate:"min=1,max=5"`
	Voter   string `json:"voter" validate:"max=50"`
}

type FavoritesRequest struct {
	PhotoIDs []string `json:"photoIds" validate:"required,min=1,max=1000,dive,required,notblank"`
	Voter    string   `json:"voter" validate:"max=50"`
}

// CreatePhotosRequest adds one or both sides of a subject by URL.
type CreatePhotosRequest struct {
	OriginalID string `json:"originalId" validate:"required,notblank"`
	Title      string `json:"title"`
	URLA       string `json:"urlA" validate:"omitempty,url"`
	URLB       string `json:"urlB" validate:"omitempty,url"`
}

type AdminSessionRequest struct {
	Password string `json:"password" validate:"required"`
}

// Response types

type VoteResponse struct {
	Vote  Vote      `json:"vote"`
	Stats VoteStats `json:"stats"`
}

type RatingResponse struct {
	Rating  Rating        `json:"rating"`
	Summary RatingSummary `json:"summary"`
}

type FavoritesResponse struct {
	Created []Rating `json:"created"`
}

type CreatePhotosResponse struct {
	Photos []Photo `json:"photos"`
}

type DashboardResponse struct {
	Summary        DashboardSummary `json:"summary"`
	PhotoStats     []PhotoStats     `json:"photoStats"`
	RecentActivity []Activity       `json:"recentActivity"`
}

type AdminSessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
