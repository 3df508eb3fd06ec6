package shares

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/secondbrain/internal/common"
	"github.com/dmitrijs2005/secondbrain/internal/dbx"
	"github.com/dmitrijs2005/secondbrain/internal/server/models"
	"github.com/lib/pq"
)

const shareIDConstraint = "shares_share_id_key"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create stores s. A share token that is already taken yields
// common.ErrorConflict so the caller can retry with a fresh one.
func (r *PostgresRepository) Create(ctx context.Context, s *models.Share) (*models.Share, error) {
	query :=
		`INSERT INTO shares (user_id, content_ids, share_id, expires_at)
		 VALUES ($1, $2::uuid[], $3, $4)
		 RETURNING id, created_at`

	var expires sql.NullTime
	if s.ExpiresAt != nil {
		expires = sql.NullTime{Time: *s.ExpiresAt, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query, s.UserID, pq.Array(s.ContentIDs), s.ShareID, expires).
		Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err, shareIDConstraint) {
			return nil, common.ErrorConflict
		}
		if dbx.IsForeignKeyViolation(err) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) GetByShareID(ctx context.Context, shareID string) (*models.Share, error) {
	query :=
		`SELECT id, user_id, content_ids, share_id, expires_at, created_at FROM shares
		 WHERE share_id = $1`

	var (
		s       models.Share
		ids     pq.StringArray
		expires sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, shareID).
		Scan(&s.ID, &s.UserID, &ids, &s.ShareID, &expires, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	s.ContentIDs = []string(ids)
	if expires.Valid {
		t := expires.Time
		s.ExpiresAt = &t
	}
	return &s, nil
}

// RemoveContent drops every occurrence of contentID from all shares and
// returns the number of shares touched.
func (r *PostgresRepository) RemoveContent(ctx context.Context, contentID string) (int64, error) {
	query :=
		`UPDATE shares SET content_ids = array_remove(content_ids, $1::uuid)
		 WHERE $1::uuid = ANY(content_ids)`

	res, err := r.db.ExecContext(ctx, query, contentID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
