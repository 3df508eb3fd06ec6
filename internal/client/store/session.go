package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/secondbrain/internal/client/client"
	"github.com/dmitrijs2005/secondbrain/internal/client/models"
)

var ErrNotAuthenticated = errors.New("user not authenticated")

// Session caches who is logged in and their per-type content counts.
type Session struct {
	mu     sync.RWMutex
	api    client.Client
	tokens TokenStore

	authenticated bool
	userID        string
	userName      string
	stats         []models.TypeCount
}

func newSession(api client.Client, tokens TokenStore) *Session {
	return &Session{api: api, tokens: tokens}
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// User returns the cached identity; both values are empty when logged out.
func (s *Session) User() (id, name string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID, s.userName
}

func (s *Session) Stats() []models.TypeCount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.TypeCount(nil), s.stats...)
}

func (s *Session) Login(ctx context.Context, email, password string) error {
	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return s.establish(res)
}

func (s *Session) Signup(ctx context.Context, userName, email, password string) error {
	res, err := s.api.Signup(ctx, userName, email, password)
	if err != nil {
		return err
	}
	return s.establish(res)
}

func (s *Session) establish(res *models.AuthResponse) error {
	c := Credentials{Token: res.Token, UserID: res.UserID, UserName: res.UserName}
	if err := s.tokens.Save(c); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	s.restore(c)
	return nil
}

// restore installs persisted credentials without contacting the server.
func (s *Session) restore(c Credentials) {
	s.api.SetToken(c.Token)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = !c.empty()
	s.userID = c.UserID
	s.userName = c.UserName
}

// Logout forgets the identity in memory and on disk.
func (s *Session) Logout() error {
	s.reset()
	return s.tokens.Clear()
}

func (s *Session) reset() {
	s.api.SetToken("")

	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = false
	s.userID = ""
	s.userName = ""
	s.stats = nil
}

// FetchProfile refreshes identity and stats from the server.
func (s *Session) FetchProfile(ctx context.Context) error {
	p, err := s.api.Profile(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = p.User.ID
	s.userName = p.User.UserName
	s.stats = p.Stats
	return nil
}

// UpdateProfile applies changes on the server and keeps the persisted
// username in step with the result.
func (s *Session) UpdateProfile(ctx context.Context, u models.ProfileUpdate) (*models.User, error) {
	user, err := s.api.UpdateProfile(ctx, u)
	if err != nil {
		return nil, err
	}

	c, err := s.tokens.Load()
	if err != nil {
		return nil, err
	}
	if !c.empty() {
		c.UserName = user.UserName
		if err := s.tokens.Save(c); err != nil {
			return nil, fmt.Errorf("persist session: %w", err)
		}
	}

	s.mu.Lock()
	s.userName = user.UserName
	s.mu.Unlock()
	return user, nil
}
