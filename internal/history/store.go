// Package history persists completed searches for registered users. Rows
// are written by the worker, off the request path.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Entry struct {
	ID          uuid.UUID `json:"id"`
	UserID      string    `json:"user_id"`
	Query       string    `json:"query"`
	Filters     []byte    `json:"filters,omitempty"`
	ResultCount int       `json:"result_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Record inserts one history row.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO search_history (id, user_id, query, filters, result_count, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.UserID, e.Query, e.Filters, e.ResultCount, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert search history: %w", err)
	}
	return nil
}

// List returns a user's searches, newest first.
func (s *Store) List(ctx context.Context, userID string, limit, offset int) ([]Entry, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, query, filters, result_count, created_at
		 FROM search_history
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list search history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Query, &e.Filters, &e.ResultCount, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan search history: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountForUser returns the lifetime search count for a registered user.
func (s *Store) CountForUser(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM search_history WHERE user_id = $1`, userID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count search history: %w", err)
	}
	return n, nil
}
