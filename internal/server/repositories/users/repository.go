// Package users is the credential store: persisted accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/secondbrain/internal/server/models"
)

// ProfileUpdate lists optional account changes; nil fields are left alone.
type ProfileUpdate struct {
	UserName     *string
	Email        *string
	PasswordHash *string
}

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Exists(ctx context.Context, id string) (bool, error)
	ExistsByUserNameOrEmail(ctx context.Context, userName, email string) (bool, error)
	Update(ctx context.Context, id string, upd ProfileUpdate) (*models.User, error)
}
