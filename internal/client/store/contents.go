package store

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/secondbrain/internal/client/client"
	"github.com/dmitrijs2005/secondbrain/internal/client/models"
	"github.com/dmitrijs2005/secondbrain/internal/logging"
)

// ContentStore caches the caller's notes as last reported by the server.
type ContentStore struct {
	mu      sync.RWMutex
	api     client.Client
	session *Session
	logger  logging.Logger

	contents []models.Content
	current  *models.Content
	filter   models.ContentFilter
	tags     []string
}

func newContentStore(api client.Client, session *Session, l logging.Logger) *ContentStore {
	return &ContentStore{api: api, session: session, logger: l}
}

func (s *ContentStore) Contents() []models.Content {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Content(nil), s.contents...)
}

func (s *ContentStore) Current() *models.Content {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	c := *s.current
	return &c
}

func (s *ContentStore) Filter() models.ContentFilter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

func (s *ContentStore) Tags() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.tags...)
}

// SetFilter merges f into the active filter and refetches the list.
func (s *ContentStore) SetFilter(ctx context.Context, f models.ContentFilter) error {
	s.mu.Lock()
	s.filter = s.filter.Merge(f)
	s.mu.Unlock()
	return s.FetchContents(ctx)
}

// ResetFilter drops every filter field and refetches the list.
func (s *ContentStore) ResetFilter(ctx context.Context) error {
	s.mu.Lock()
	s.filter = models.ContentFilter{}
	s.mu.Unlock()
	return s.FetchContents(ctx)
}

func (s *ContentStore) FetchContents(ctx context.Context) error {
	items, err := s.api.ListContents(ctx, s.Filter())
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.contents = items
	return nil
}

func (s *ContentStore) FetchContent(ctx context.Context, id string) (*models.Content, error) {
	item, err := s.api.GetContent(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = item
	s.mu.Unlock()
	return s.Current(), nil
}

// Create stores a new note, prepends the server's record and refreshes
// the profile counts.
func (s *ContentStore) Create(ctx context.Context, p models.ContentPayload) (*models.Content, error) {
	if !s.session.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}

	item, err := s.api.CreateContent(ctx, p)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.contents = append([]models.Content{*item}, s.contents...)
	s.mu.Unlock()

	if err := s.session.FetchProfile(ctx); err != nil {
		s.logger.Warn(ctx, "profile refresh failed", "error", err)
	}
	return item, nil
}

// Update replaces the matching cached record and makes it current.
func (s *ContentStore) Update(ctx context.Context, id string, p models.ContentPayload) (*models.Content, error) {
	item, err := s.api.UpdateContent(ctx, id, p)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.contents {
		if s.contents[i].ID == id {
			s.contents[i] = *item
		}
	}
	cur := *item
	s.current = &cur
	return item, nil
}

// Delete removes the record and clears Current when it was the one deleted.
func (s *ContentStore) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteContent(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.contents[:0:0]
	for _, c := range s.contents {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.contents = kept
	if s.current != nil && s.current.ID == id {
		s.current = nil
	}
	return nil
}

func (s *ContentStore) FetchTags(ctx context.Context) error {
	tags, err := s.api.Tags(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tags = tags
	return nil
}

func (s *ContentStore) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contents = nil
	s.current = nil
	s.filter = models.ContentFilter{}
	s.tags = nil
}
