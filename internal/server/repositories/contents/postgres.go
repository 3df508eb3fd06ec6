package contents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/secondbrain/internal/common"
	"github.com/dmitrijs2005/secondbrain/internal/dbx"
	"github.com/dmitrijs2005/secondbrain/internal/server/models"
	"github.com/lib/pq"
)

const contentColumns = `id, user_id, title, body, url, type, tags, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContent(row rowScanner) (*models.Content, error) {
	var (
		c    models.Content
		url  sql.NullString
		tags pq.StringArray
		typ  string
	)
	if err := row.Scan(&c.ID, &c.UserID, &c.Title, &c.Body, &url, &typ, &tags, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if url.Valid {
		c.URL = &url.String
	}
	c.Type = models.ContentType(typ)
	c.Tags = []string(tags)
	if c.Tags == nil {
		c.Tags = []string{}
	}
	return &c, nil
}

func nullURL(u *string) sql.NullString {
	if u == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *u, Valid: true}
}

// Create inserts c (ID must be set by the caller) and fills the timestamps.
func (r *PostgresRepository) Create(ctx context.Context, c *models.Content) (*models.Content, error) {
	query :=
		`INSERT INTO contents (id, user_id, title, body, url, type, tags)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		c.ID, c.UserID, c.Title, c.Body, nullURL(c.URL), string(c.Type), pq.Array(c.Tags)).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorConflict
		}
		// owner deleted after the request was authenticated
		if dbx.IsForeignKeyViolation(err) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

// GetByID returns common.ErrorNotFound for absent or malformed ids.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Content, error) {
	query := `SELECT ` + contentColumns + ` FROM contents WHERE id = $1`

	c, err := scanContent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidTextRepresentation(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

// GetByIDs returns the existing contents among ids, each once, ordered by
// the first position of its id in ids.
func (r *PostgresRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Content, error) {
	if len(ids) == 0 {
		return []*models.Content{}, nil
	}

	query := `SELECT ` + contentColumns + ` FROM contents
		 WHERE id = ANY($1::uuid[])
		 ORDER BY array_position($1::uuid[], id)`

	return r.queryMany(ctx, query, pq.Array(ids))
}

// List returns userID's contents matching filter, most recently updated first.
func (r *PostgresRepository) List(ctx context.Context, userID string, filter models.ContentFilter) ([]*models.Content, error) {
	var sb strings.Builder
	args := []any{userID}

	sb.WriteString(`SELECT ` + contentColumns + ` FROM contents WHERE user_id = $1`)

	if filter.Type != "" {
		args = append(args, string(filter.Type))
		fmt.Fprintf(&sb, ` AND type = $%d`, len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		fmt.Fprintf(&sb, ` AND (title ILIKE $%d OR body ILIKE $%d)`, len(args), len(args))
	}
	if filter.Tag != "" {
		args = append(args, filter.Tag)
		fmt.Fprintf(&sb, ` AND $%d = ANY(tags)`, len(args))
	}
	sb.WriteString(` ORDER BY updated_at DESC`)

	return r.queryMany(ctx, sb.String(), args...)
}

// UpdateOwned replaces the editable fields of the content with id only when
// it belongs to userID. common.ErrorNotFound means no such owned row.
func (r *PostgresRepository) UpdateOwned(ctx context.Context, id, userID string, f models.ContentFields) (*models.Content, error) {
	query :=
		`UPDATE contents
		 SET title = $3, body = $4, url = $5, type = $6, tags = $7, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING ` + contentColumns

	c, err := scanContent(r.db.QueryRowContext(ctx, query,
		id, userID, f.Title, f.Body, nullURL(f.URL), string(f.Type), pq.Array(f.Tags)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidTextRepresentation(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

// DeleteOwned removes the content with id only when it belongs to userID.
func (r *PostgresRepository) DeleteOwned(ctx context.Context, id, userID string) error {
	query := `DELETE FROM contents WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		if dbx.IsInvalidTextRepresentation(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// OwnerOf returns the owner of the content with id.
func (r *PostgresRepository) OwnerOf(ctx context.Context, id string) (string, error) {
	query := `SELECT user_id FROM contents WHERE id = $1`

	var owner string
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&owner); err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidTextRepresentation(err) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return owner, nil
}

// CountOwned counts how many of ids are contents owned by userID. The caller
// passes distinct ids. A malformed id counts as not owned.
func (r *PostgresRepository) CountOwned(ctx context.Context, userID string, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := `SELECT count(*) FROM contents WHERE user_id = $1 AND id = ANY($2::uuid[])`

	var n int
	if err := r.db.QueryRowContext(ctx, query, userID, pq.Array(ids)).Scan(&n); err != nil {
		if dbx.IsInvalidTextRepresentation(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// Tags returns the distinct tags across userID's contents, sorted.
func (r *PostgresRepository) Tags(ctx context.Context, userID string) ([]string, error) {
	query :=
		`SELECT DISTINCT tag FROM contents, unnest(tags) AS tag
		 WHERE user_id = $1
		 ORDER BY tag`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return tags, nil
}

// CountByType returns per-type content counts for userID.
func (r *PostgresRepository) CountByType(ctx context.Context, userID string) ([]models.TypeCount, error) {
	query :=
		`SELECT type, count(*) FROM contents
		 WHERE user_id = $1
		 GROUP BY type
		 ORDER BY type`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	stats := []models.TypeCount{}
	for rows.Next() {
		var (
			typ string
			n   int64
		)
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		stats = append(stats, models.TypeCount{Type: models.ContentType(typ), Count: n})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return stats, nil
}

func (r *PostgresRepository) queryMany(ctx context.Context, query string, args ...any) ([]*models.Content, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	items := []*models.Content{}
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return items, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
