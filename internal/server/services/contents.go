package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/secondbrain/internal/common"
	"github.com/dmitrijs2005/secondbrain/internal/dbx"
	"github.com/dmitrijs2005/secondbrain/internal/server/models"
	"github.com/dmitrijs2005/secondbrain/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ContentInput is the user-supplied part of a content create or update.
type ContentInput struct {
	Title string
	Body  string
	URL   *string
	Type  string
	Tags  []string
}

// ListQuery holds the raw list filters as received from the caller.
type ListQuery struct {
	Type   string
	Search string
	Tag    string
}

// ContentService is the owner-scoped content API. The owner always comes
// from the authenticated caller, never from the payload.
type ContentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewContentService(db *sql.DB, m repomanager.RepositoryManager) *ContentService {
	return &ContentService{db: db, repomanager: m}
}

// List returns the caller's contents, newest update first. An unknown type
// matches nothing; "all" or empty disables the type filter.
func (s *ContentService) List(ctx context.Context, userID string, q ListQuery) ([]*models.Content, error) {
	var filter models.ContentFilter

	if t := strings.TrimSpace(q.Type); t != "" && !strings.EqualFold(t, "all") {
		ct, ok := models.ParseContentType(t)
		if !ok {
			return []*models.Content{}, nil
		}
		filter.Type = ct
	}
	filter.Search = strings.ToLower(strings.TrimSpace(q.Search))
	filter.Tag = strings.ToLower(strings.TrimSpace(q.Tag))

	items, err := s.repomanager.Contents(s.db).List(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing contents: %w", err)
	}
	return items, nil
}

// Get returns the content with id when the caller owns it.
func (s *ContentService) Get(ctx context.Context, userID, id string) (*models.Content, error) {
	c, err := s.repomanager.Contents(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, common.ErrorForbidden
	}
	return c, nil
}

func (s *ContentService) Create(ctx context.Context, userID string, in ContentInput) (*models.Content, error) {
	fields, err := validateContent(in)
	if err != nil {
		return nil, err
	}

	c := &models.Content{
		ID:     uuid.NewString(),
		UserID: userID,
		Title:  fields.Title,
		Body:   fields.Body,
		URL:    fields.URL,
		Type:   fields.Type,
		Tags:   fields.Tags,
	}

	created, err := s.repomanager.Contents(s.db).Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("error creating content: %w", err)
	}
	return created, nil
}

// Update replaces the editable fields of a content the caller owns.
func (s *ContentService) Update(ctx context.Context, userID, id string, in ContentInput) (*models.Content, error) {
	fields, err := validateContent(in)
	if err != nil {
		return nil, err
	}

	c, err := s.repomanager.Contents(s.db).UpdateOwned(ctx, id, userID, fields)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error updating content: %w", err)
	}
	return nil, s.missOrForeign(ctx, id)
}

// Delete removes a content the caller owns and drops it from every share in
// the same transaction.
func (s *ContentService) Delete(ctx context.Context, userID, id string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Contents(tx).DeleteOwned(ctx, id, userID); err != nil {
			return err
		}
		_, err := s.repomanager.Shares(tx).RemoveContent(ctx, id)
		return err
	})
	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("error deleting content: %w", err)
	}
	return s.missOrForeign(ctx, id)
}

// Tags lists the distinct tags across the caller's contents.
func (s *ContentService) Tags(ctx context.Context, userID string) ([]string, error) {
	tags, err := s.repomanager.Contents(s.db).Tags(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing tags: %w", err)
	}
	return tags, nil
}

// missOrForeign explains why an owner-scoped mutation touched no row.
func (s *ContentService) missOrForeign(ctx context.Context, id string) error {
	_, err := s.repomanager.Contents(s.db).OwnerOf(ctx, id)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return common.ErrorNotFound
	case err != nil:
		return fmt.Errorf("error probing content: %w", err)
	default:
		return common.ErrorForbidden
	}
}

func validateContent(in ContentInput) (models.ContentFields, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return models.ContentFields{}, common.NewValidationError("Title is required")
	}
	if strings.TrimSpace(in.Body) == "" {
		return models.ContentFields{}, common.NewValidationError("Content is required")
	}
	typ, ok := models.ParseContentType(in.Type)
	if !ok {
		return models.ContentFields{}, common.NewValidationError("Invalid content type")
	}

	var url *string
	if in.URL != nil {
		if u := strings.TrimSpace(*in.URL); u != "" {
			url = &u
		}
	}

	return models.ContentFields{
		Title: title,
		Body:  in.Body,
		URL:   url,
		Type:  typ,
		Tags:  models.NormalizeTags(in.Tags),
	}, nil
}
