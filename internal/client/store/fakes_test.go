package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/secondbrain/internal/client/client"
	"github.com/dmitrijs2005/secondbrain/internal/client/models"
	"github.com/dmitrijs2005/secondbrain/internal/common"
)

var errBoom = errors.New("boom")

// fakeAPI is an in-memory stand-in for the REST API.
type fakeAPI struct {
	mu sync.Mutex

	token      string
	lastFilter models.ContentFilter
	items      []models.Content
	stats      []models.TypeCount
	tags       []string
	seq        int

	loginErr   error
	profileErr error
	listErr    error
	profiles   int
}

var _ client.Client = (*fakeAPI)(nil)

func (f *fakeAPI) SetToken(token string) {
	f.mu.Lock()
	f.token = token
	f.mu.Unlock()
}

func (f *fakeAPI) currentToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeAPI) Signup(_ context.Context, userName, email, _ string) (*models.AuthResponse, error) {
	return &models.AuthResponse{Message: "User created successfully", Token: "tok-" + userName, UserID: "u-" + userName, UserName: userName}, nil
}

func (f *fakeAPI) Login(_ context.Context, email, _ string) (*models.AuthResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &models.AuthResponse{Message: "Login successful", Token: "tok-1", UserID: "u-1", UserName: "alice"}, nil
}

func (f *fakeAPI) Profile(context.Context) (*models.ProfileResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles++
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return &models.ProfileResponse{User: models.User{ID: "u-1", UserName: "alice"}, Stats: f.stats}, nil
}

func (f *fakeAPI) UpdateProfile(_ context.Context, u models.ProfileUpdate) (*models.User, error) {
	return &models.User{ID: "u-1", UserName: u.UserName, Email: u.Email}, nil
}

func (f *fakeAPI) ListContents(_ context.Context, filter models.ContentFilter) ([]models.Content, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter = filter
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Content(nil), f.items...), nil
}

func (f *fakeAPI) GetContent(_ context.Context, id string) (*models.Content, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.items {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, &client.APIError{Status: 404, Message: "Content not found"}
}

func (f *fakeAPI) CreateContent(_ context.Context, p models.ContentPayload) (*models.Content, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	c := models.Content{ID: fmt.Sprintf("c-%d", f.seq), UserID: "u-1", Title: p.Title, Body: p.Body, Type: p.Type, Tags: p.Tags}
	f.items = append([]models.Content{c}, f.items...)
	f.stats = []models.TypeCount{{Type: p.Type, Count: int64(len(f.items))}}
	return &c, nil
}

func (f *fakeAPI) UpdateContent(_ context.Context, id string, p models.ContentPayload) (*models.Content, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Title, f.items[i].Body, f.items[i].Type, f.items[i].Tags = p.Title, p.Body, p.Type, p.Tags
			c := f.items[i]
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAPI) DeleteContent(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeAPI) Tags(context.Context) ([]string, error) { return f.tags, nil }

func (f *fakeAPI) Share(context.Context, models.ShareRequest) (*models.ShareResponse, error) {
	return &models.ShareResponse{ShareID: "s-1"}, nil
}

func (f *fakeAPI) SharedBrain(context.Context, string) (*models.SharedBrain, error) {
	return &models.SharedBrain{SharedBy: "alice"}, nil
}

func (f *fakeAPI) Export(context.Context) (*models.ExportResult, error) {
	return &models.ExportResult{}, nil
}

func (f *fakeAPI) Ping(context.Context) error { return nil }
