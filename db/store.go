// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/palette/models"
)

// DefaultLimit bounds every list query that does not set its own limit
const DefaultLimit = 1000

var (
	ErrNotFound     = errors.New("record not found")
	ErrUnknownField = errors.New("unknown filter field")
)

// Query selects records of one kind, newest first.
// Field and Value form an optional equality filter; Field uses wire names
// such as "originalId". Limit <= 0 means DefaultLimit.
type Query struct {
	Field string
	Value string
	Limit int
}

// Where returns a Query filtering on a single field.
func Where(field, value string) Query {
	return Query{Field: field, Value: value}
}

// Store is the persistence contract the handlers depend on.
type Store interface {
	InsertPhoto(ctx context.Context, p models.Photo) (models.Photo, error)
	InsertVote(ctx context.Context, v models.Vote) (models.Vote, error)
	InsertRating(ctx context.Context, r models.Rating) (models.Rating, error)

	ListPhotos(ctx context.Context, q Query) ([]models.Photo, error)
	ListVotes(ctx context.Context, q Query) ([]models.Vote, error)
	ListRatings(ctx context.Context, q Query) ([]models.Rating, error)

	GetPhoto(ctx context.Context, id string) (models.Photo, error)
	DeletePhoto(ctx context.Context, id string) error
}

// Filterable fields per record kind, wire name -> column
var (
	photoColumns = map[string]string{
		"originalId": "original_id",
		"author":     "author",
	}
	voteColumns = map[string]string{
		"originalId": "original_id",
		"winner":     "winner",
		"voter":      "voter",
	}
	ratingColumns = map[string]string{
		"photoId": "photo_id",
		"voter":   "voter",
	}
)

// SQLStore implements Store on PostgreSQL or SQLite.
type SQLStore struct {
	db     *sql.DB
	dbType string
	now    func() time.Time
}

func NewStore(db *sql.DB, dbType string) *SQLStore {
	return &SQLStore{
		db:     db,
		dbType: dbType,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// stamp assigns identity and creation time to a record about to be inserted.
// A caller-provided creation time is kept.
func (s *SQLStore) stamp(createdAt time.Time) (string, time.Time) {
	if createdAt.IsZero() {
		createdAt = s.now()
	}
	return uuid.NewString(), createdAt.UTC()
}

func (s *SQLStore) InsertPhoto(ctx context.Context, p models.Photo) (models.Photo, error) {
	p.ID, p.CreatedAt = s.stamp(p.CreatedAt)
	_, err := s.db.ExecContext(ctx, rebind(s.dbType, `
		INSERT INTO photo (id, url, author, original_id, title, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`), p.ID, p.URL, string(p.Author), p.OriginalID, p.Title, p.CreatedAt)
	if err != nil {
		return models.Photo{}, fmt.Errorf("failed to insert photo: %w", err)
	}
	return p, nil
}

func (s *SQLStore) InsertVote(ctx context.Context, v models.Vote) (models.Vote, error) {
	v.ID, v.CreatedAt = s.stamp(v.CreatedAt)
	_, err := s.db.ExecContext(ctx, rebind(s.dbType, `
		INSERT INTO vote (id, original_id, winner, voter, created_at)
		VALUES (?, ?, ?, ?, ?)
	`), v.ID, v.OriginalID, string(v.Winner), v.Voter, v.CreatedAt)
	if err != nil {
		return models.Vote{}, fmt.Errorf("failed to insert vote: %w", err)
	}
	return v, nil
}

func (s *SQLStore) InsertRating(ctx context.Context, r models.Rating) (models.Rating, error) {
	r.ID, r.CreatedAt = s.stamp(r.CreatedAt)
	_, err := s.db.ExecContext(ctx, rebind(s.dbType, `
		INSERT INTO rating (id, photo_id, score, voter, created_at)
		VALUES (?, ?, ?, ?, ?)
	`), r.ID, r.PhotoID, r.Score, r.Voter, r.CreatedAt)
	if err != nil {
		return models.Rating{}, fmt.Errorf("failed to insert rating: %w", err)
	}
	return r, nil
}

func (s *SQLStore) ListPhotos(ctx context.Context, q Query) ([]models.Photo, error) {
	query, args, err := s.selectQuery(
		"SELECT id, url, author, original_id, title, created_at FROM photo",
		photoColumns, q)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query photos: %w", err)
	}
	defer rows.Close()

	photos := []models.Photo{}
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}

	return photos, rows.Err()
}

func (s *SQLStore) ListVotes(ctx context.Context, q Query) ([]models.Vote, error) {
	query, args, err := s.selectQuery(
		"SELECT id, original_id, winner, voter, created_at FROM vote",
		voteColumns, q)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	votes := []models.Vote{}
	for rows.Next() {
		var v models.Vote
		var winner string
		if err := rows.Scan(&v.ID, &v.OriginalID, &winner, &v.Voter, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		v.Winner = models.Author(winner)
		votes = append(votes, v)
	}

	return votes, rows.Err()
}

func (s *SQLStore) ListRatings(ctx context.Context, q Query) ([]models.Rating, error) {
	query, args, err := s.selectQuery(
		"SELECT id, photo_id, score, voter, created_at FROM rating",
		ratingColumns, q)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()

	ratings := []models.Rating{}
	for rows.Next() {
		var r models.Rating
		if err := rows.Scan(&r.ID, &r.PhotoID, &r.Score, &r.Voter, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}

	return ratings, rows.Err()
}

func (s *SQLStore) GetPhoto(ctx context.Context, id string) (models.Photo, error) {
	row := s.db.QueryRowContext(ctx, rebind(s.dbType, `
		SELECT id, url, author, original_id, title, created_at
		FROM photo
		WHERE id = ?
	`), id)

	p, err := scanPhoto(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Photo{}, ErrNotFound
	}
	if err != nil {
		return models.Photo{}, err
	}
	return p, nil
}

// DeletePhoto removes one photo. Votes and ratings referencing it are kept.
func (s *SQLStore) DeletePhoto(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, rebind(s.dbType, `DELETE FROM photo WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// selectQuery appends the optional filter, ordering, and limit to base.
func (s *SQLStore) selectQuery(base string, columns map[string]string, q Query) (string, []any, error) {
	query := base
	var args []any

	if q.Field != "" {
		column, ok := columns[q.Field]
		if !ok {
			return "", nil, fmt.Errorf("%w: %s", ErrUnknownField, q.Field)
		}
		query += " WHERE " + column + " = ?"
		args = append(args, q.Value)
	}

	limit := q.Limit
	if limit <= 0 || limit > DefaultLimit {
		limit = DefaultLimit
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	return rebind(s.dbType, query), args, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPhoto(row scanner) (models.Photo, error) {
	var p models.Photo
	var author string
	if err := row.Scan(&p.ID, &p.URL, &author, &p.OriginalID, &p.Title, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Photo{}, err
		}
		return models.Photo{}, fmt.Errorf("failed to scan photo: %w", err)
	}
	p.Author = models.Author(author)
	return p, nil
}
