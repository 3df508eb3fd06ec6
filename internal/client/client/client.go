package client

import (
	"context"

	"github.com/dmitrijs2005/secondbrain/internal/client/models"
)

// Client is the API surface the CLI relies on. All calls honor ctx.
type Client interface {
	SetToken(token string)

	Signup(ctx context.Context, userName, email, password string) (*models.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)
	Profile(ctx context.Context) (*models.ProfileResponse, error)
	UpdateProfile(ctx context.Context, u models.ProfileUpdate) (*models.User, error)

	ListContents(ctx context.Context, f models.ContentFilter) ([]models.Content, error)
	GetContent(ctx context.Context, id string) (*models.Content, error)
	CreateContent(ctx context.Context, p models.ContentPayload) (*models.Content, error)
	UpdateContent(ctx context.Context, id string, p models.ContentPayload) (*models.Content, error)
	DeleteContent(ctx context.Context, id string) error
	Tags(ctx context.Context) ([]string, error)

	Share(ctx context.Context, r models.ShareRequest) (*models.ShareResponse, error)
	SharedBrain(ctx context.Context, shareID string) (*models.SharedBrain, error)

	Export(ctx context.Context) (*models.ExportResult, error)
	Ping(ctx context.Context) error
}
