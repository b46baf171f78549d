package assist

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store handles assist_usage persistence.
type Store struct {
	db *pgxpool.Pool
}

// NewStore returns a Store backed by the given connection pool.
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// UseRequest atomically checks the monthly allowance and deducts one request.
// It resets the counter to DefaultMonthlyRequests when last_reset_month is
// behind the current month. Returns ErrInsufficientRequests when 0 rows are
// updated (allowance exhausted or user absent).
func (s *Store) UseRequest(ctx context.Context, uid string) error {
	now := time.Now().Format("2006-01")

	tag, err := s.db.Exec(ctx, `
		UPDATE assist_usage SET
			requests_remaining = CASE WHEN last_reset_month != $1 THEN $2 - 1 ELSE requests_remaining - 1 END,
			last_reset_month = $1
		WHERE uid = $3 AND (last_reset_month < $1 OR requests_remaining > 0)
	`, now, DefaultMonthlyRequests, uid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientRequests
	}
	return nil
}

// EnsureUser inserts a new assist_usage row for uid with the default
// allowance. An existing row is silently kept (ON CONFLICT DO NOTHING).
func (s *Store) EnsureUser(ctx context.Context, uid string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO assist_usage (uid, requests_remaining, last_reset_month)
		VALUES ($1, $2, $3)
		ON CONFLICT (uid) DO NOTHING
	`, uid, DefaultMonthlyRequests, time.Now().Format("2006-01"))
	return err
}
