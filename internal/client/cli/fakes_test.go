package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/secondbrain/internal/client/client"
	"github.com/dmitrijs2005/secondbrain/internal/client/config"
	"github.com/dmitrijs2005/secondbrain/internal/client/models"
	"github.com/dmitrijs2005/secondbrain/internal/client/store"
	"github.com/dmitrijs2005/secondbrain/internal/logging"
)

type fakeClient struct {
	mu sync.Mutex

	token    string
	items    map[string]models.Content
	order    []string
	lastSave models.ContentPayload
	lastUser models.ProfileUpdate
	share    models.ShareRequest
	shareID  string
	filter   models.ContentFilter
	pingErr  error
	pings    int
}

var _ client.Client = (*fakeClient)(nil)

func newFakeClient() *fakeClient {
	return &fakeClient{items: map[string]models.Content{}}
}

func (f *fakeClient) seed(c models.Content) {
	f.items[c.ID] = c
	f.order = append(f.order, c.ID)
}

func (f *fakeClient) SetToken(token string) { f.token = token }

func (f *fakeClient) Signup(_ context.Context, userName, _, _ string) (*models.AuthResponse, error) {
	return &models.AuthResponse{Token: "tok", UserID: "u-1", UserName: userName}, nil
}

func (f *fakeClient) Login(_ context.Context, email, password string) (*models.AuthResponse, error) {
	if password != "secret1" {
		return nil, &client.APIError{Status: http.StatusUnauthorized, Message: "Invalid credentials"}
	}
	return &models.AuthResponse{Token: "tok", UserID: "u-1", UserName: "alice"}, nil
}

func (f *fakeClient) Profile(context.Context) (*models.ProfileResponse, error) {
	return &models.ProfileResponse{
		User:  models.User{ID: "u-1", UserName: "alice"},
		Stats: []models.TypeCount{{Type: "blog", Count: 2}, {Type: "task", Count: 1}},
	}, nil
}

func (f *fakeClient) UpdateProfile(_ context.Context, u models.ProfileUpdate) (*models.User, error) {
	f.lastUser = u
	name := u.UserName
	if name == "" {
		name = "alice"
	}
	return &models.User{ID: "u-1", UserName: name, Email: "a@x.io"}, nil
}

func (f *fakeClient) ListContents(_ context.Context, filter models.ContentFilter) ([]models.Content, error) {
	f.filter = filter
	out := make([]models.Content, 0, len(f.order))
	for _, id := range f.order {
		if c, ok := f.items[id]; ok && (filter.Type == "" || c.Type == filter.Type) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeClient) GetContent(_ context.Context, id string) (*models.Content, error) {
	c, ok := f.items[id]
	if !ok {
		return nil, &client.APIError{Status: http.StatusNotFound, Message: "Content not found"}
	}
	return &c, nil
}

func (f *fakeClient) CreateContent(_ context.Context, p models.ContentPayload) (*models.Content, error) {
	f.lastSave = p
	c := models.Content{ID: "c-new", Title: p.Title, Body: p.Body, URL: p.URL, Type: p.Type, Tags: p.Tags}
	f.seed(c)
	return &c, nil
}

func (f *fakeClient) UpdateContent(_ context.Context, id string, p models.ContentPayload) (*models.Content, error) {
	f.lastSave = p
	c := models.Content{ID: id, Title: p.Title, Body: p.Body, URL: p.URL, Type: p.Type, Tags: p.Tags}
	f.items[id] = c
	return &c, nil
}

func (f *fakeClient) DeleteContent(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return &client.APIError{Status: http.StatusNotFound, Message: "Content not found"}
	}
	delete(f.items, id)
	return nil
}

func (f *fakeClient) Tags(context.Context) ([]string, error) { return []string{"go", "notes"}, nil }

func (f *fakeClient) Share(_ context.Context, r models.ShareRequest) (*models.ShareResponse, error) {
	f.share = r
	res := &models.ShareResponse{ShareID: "AbC123xyz0", ShareLink: "http://h/share/AbC123xyz0"}
	if r.ExpiresIn != nil {
		at := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
		res.ExpiresAt = &at
	}
	return res, nil
}

func (f *fakeClient) SharedBrain(_ context.Context, id string) (*models.SharedBrain, error) {
	f.shareID = id
	if id == "expired" {
		return nil, &client.APIError{Status: http.StatusGone, Message: "This share link has expired"}
	}
	return &models.SharedBrain{SharedBy: "alice", Contents: []models.Content{{ID: "c-1", Title: "Shared note", Type: "blog"}}}, nil
}

func (f *fakeClient) Export(context.Context) (*models.ExportResult, error) {
	return &models.ExportResult{URL: "https://s3.example/exports/x.json", Key: "exports/x.json", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (f *fakeClient) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pings++
	return f.pingErr
}

func (f *fakeClient) pingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pings
}

// harness wires an App to a fakeClient with scripted prompt answers.
type harness struct {
	app     *App
	api     *fakeClient
	tokens  *store.MemoryTokenStore
	out     *bytes.Buffer
	prompts []string
}

func newHarness(t *testing.T, answers ...string) *harness {
	t.Helper()

	h := &harness{api: newFakeClient(), tokens: &store.MemoryTokenStore{}, out: &bytes.Buffer{}}
	cfg := &config.Config{ServerURL: "http://h", StateDir: t.TempDir(), RequestTimeout: time.Second, OnlineCheckInterval: time.Hour}
	h.app = newApp(cfg, h.api, h.tokens, logging.Nop{}, strings.NewReader(""), h.out)

	queue := append([]string(nil), answers...)
	next := func(prompt string) (string, error) {
		h.prompts = append(h.prompts, prompt)
		if len(queue) == 0 {
			return "", io.EOF
		}
		v := queue[0]
		queue = queue[1:]
		return v, nil
	}

	origST, origGP, origML := getSimpleText, getPassword, getMultiline
	getSimpleText = func(_ *bufio.Reader, prompt string, _ io.Writer) (string, error) { return next(prompt) }
	getPassword = func(_ io.Writer, prompt string) ([]byte, error) {
		v, err := next(prompt)
		return []byte(v), err
	}
	getMultiline = func(_ *bufio.Reader, prompt string, _ io.Writer) (string, error) { return next(prompt) }
	t.Cleanup(func() { getSimpleText, getPassword, getMultiline = origST, origGP, origML })

	return h
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	if err := h.app.state.Session.Login(context.Background(), "a@x.io", "secret1"); err != nil {
		t.Fatal(err)
	}
}

func storeCredentials(token, userID, userName string) store.Credentials {
	return store.Credentials{Token: token, UserID: userID, UserName: userName}
}
