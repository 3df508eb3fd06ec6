// Package contents is the content store: owner-scoped notes.
package contents

import (
	"context"

	"github.com/dmitrijs2005/secondbrain/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, c *models.Content) (*models.Content, error)
	GetByID(ctx context.Context, id string) (*models.Content, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.Content, error)
	List(ctx context.Context, userID string, filter models.ContentFilter) ([]*models.Content, error)
	UpdateOwned(ctx context.Context, id, userID string, f models.ContentFields) (*models.Content, error)
	DeleteOwned(ctx context.Context, id, userID string) error
	OwnerOf(ctx context.Context, id string) (string, error)
	CountOwned(ctx context.Context, userID string, ids []string) (int, error)
	Tags(ctx context.Context, userID string) ([]string, error)
	CountByType(ctx context.Context, userID string) ([]models.TypeCount, error)
}
