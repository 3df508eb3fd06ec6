// Package store holds the CLI's client-side state: the auth Session and
// the ContentStore, owned by an explicitly constructed App.
//
// Nothing here is package-global. Build an App with NewApp, call Init to
// pick up a persisted login, and Dispose when done.
package store

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/secondbrain/internal/client/client"
	"github.com/dmitrijs2005/secondbrain/internal/logging"
)

type App struct {
	api    client.Client
	tokens TokenStore
	logger logging.Logger

	Session  *Session
	Contents *ContentStore
}

func NewApp(api client.Client, tokens TokenStore, l logging.Logger) *App {
	if l == nil {
		l = logging.Nop{}
	}
	s := newSession(api, tokens)
	return &App{
		api:      api,
		tokens:   tokens,
		logger:   l,
		Session:  s,
		Contents: newContentStore(api, s, l),
	}
}

// Init loads persisted credentials, if any, and authenticates the API
// client with them. The token is not validated against the server.
func (a *App) Init(ctx context.Context) error {
	c, err := a.tokens.Load()
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if c.empty() {
		return nil
	}
	a.Session.restore(c)
	a.logger.Debug(ctx, "session restored", "user_id", c.UserID)
	return nil
}

// Logout clears both stores and the persisted credentials.
func (a *App) Logout() error {
	a.Contents.reset()
	return a.Session.Logout()
}

// Dispose drops in-memory state and the API token. Persisted credentials
// are kept so the next Init resumes the session.
func (a *App) Dispose() {
	a.Contents.reset()
	a.Session.reset()
}
