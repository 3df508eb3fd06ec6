// Package shares is the share registry: token-addressed public views.
package shares

import (
	"context"

	"github.com/dmitrijs2005/secondbrain/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, s *models.Share) (*models.Share, error)
	GetByShareID(ctx context.Context, shareID string) (*models.Share, error)
	RemoveContent(ctx context.Context, contentID string) (int64, error)
}
