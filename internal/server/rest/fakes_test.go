package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/secondbrain/internal/logging"
	"github.com/dmitrijs2005/secondbrain/internal/server/auth"
	"github.com/dmitrijs2005/secondbrain/internal/server/config"
	"github.com/dmitrijs2005/secondbrain/internal/server/models"
	"github.com/dmitrijs2005/secondbrain/internal/server/services"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "test-secret"

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// ---- fakes ----

type fakeUsers struct {
	signupOut *services.Session
	signupErr error
	loginOut  *services.Session
	loginErr  error

	exists    map[string]bool
	existsErr error

	profileOut *services.Profile
	profileErr error
	updateOut  *models.User
	updateErr  error

	gotSignup  [3]string
	gotLogin   [2]string
	gotChanges services.ProfileChanges
	gotUserID  string
}

func (f *fakeUsers) Signup(_ context.Context, userName, email, password string) (*services.Session, error) {
	f.gotSignup = [3]string{userName, email, password}
	return f.signupOut, f.signupErr
}
func (f *fakeUsers) Login(_ context.Context, email, password string) (*services.Session, error) {
	f.gotLogin = [2]string{email, password}
	return f.loginOut, f.loginErr
}
func (f *fakeUsers) Exists(_ context.Context, userID string) (bool, error) {
	return f.exists[userID], f.existsErr
}
func (f *fakeUsers) Profile(_ context.Context, userID string) (*services.Profile, error) {
	f.gotUserID = userID
	return f.profileOut, f.profileErr
}
func (f *fakeUsers) UpdateProfile(_ context.Context, userID string, ch services.ProfileChanges) (*models.User, error) {
	f.gotUserID = userID
	f.gotChanges = ch
	return f.updateOut, f.updateErr
}

type fakeContents struct {
	listOut []*models.Content
	one     *models.Content
	tags    []string
	err     error

	gotUserID string
	gotID     string
	gotQuery  services.ListQuery
	gotInput  services.ContentInput
}

func (f *fakeContents) List(_ context.Context, userID string, q services.ListQuery) ([]*models.Content, error) {
	f.gotUserID, f.gotQuery = userID, q
	return f.listOut, f.err
}
func (f *fakeContents) Get(_ context.Context, userID, id string) (*models.Content, error) {
	f.gotUserID, f.gotID = userID, id
	return f.one, f.err
}
func (f *fakeContents) Create(_ context.Context, userID string, in services.ContentInput) (*models.Content, error) {
	f.gotUserID, f.gotInput = userID, in
	return f.one, f.err
}
func (f *fakeContents) Update(_ context.Context, userID, id string, in services.ContentInput) (*models.Content, error) {
	f.gotUserID, f.gotID, f.gotInput = userID, id, in
	return f.one, f.err
}
func (f *fakeContents) Delete(_ context.Context, userID, id string) error {
	f.gotUserID, f.gotID = userID, id
	return f.err
}
func (f *fakeContents) Tags(_ context.Context, userID string) ([]string, error) {
	f.gotUserID = userID
	return f.tags, f.err
}

type fakeShares struct {
	createOut  *models.Share
	createErr  error
	resolveOut *models.SharedBrain
	resolveErr error

	gotUserID  string
	gotIDs     []string
	gotExpires *float64
	resolved   int
}

func (f *fakeShares) Create(_ context.Context, userID string, ids []string, expiresIn *float64) (*models.Share, error) {
	f.gotUserID, f.gotIDs, f.gotExpires = userID, ids, expiresIn
	return f.createOut, f.createErr
}
func (f *fakeShares) Resolve(_ context.Context, shareID string) (*models.SharedBrain, error) {
	f.resolved++
	return f.resolveOut, f.resolveErr
}

type fakeExports struct {
	out *services.ExportResult
	err error
}

func (f *fakeExports) Export(context.Context, string) (*services.ExportResult, error) {
	return f.out, f.err
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

// ---- harness ----

type harness struct {
	cfg      *config.Config
	users    *fakeUsers
	contents *fakeContents
	shares   *fakeShares
	exports  *fakeExports
	pinger   *fakePinger
	srv      *Server
}

func newHarness(t *testing.T, mutate ...func(*config.Config)) *harness {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = testSecret
	for _, m := range mutate {
		m(cfg)
	}

	h := &harness{
		cfg:      cfg,
		users:    &fakeUsers{exists: map[string]bool{"u-1": true}},
		contents: &fakeContents{},
		shares:   &fakeShares{},
		exports:  &fakeExports{},
		pinger:   &fakePinger{},
	}
	h.srv = NewServer(cfg, logging.Nop{}, Deps{
		Users:    h.users,
		Contents: h.contents,
		Shares:   h.shares,
		Exports:  h.exports,
		DB:       h.pinger,
	})
	return h
}

func tokenFor(t *testing.T, userID string) string {
	t.Helper()
	tok, err := auth.GenerateToken(userID, []byte(testSecret), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return tok
}

type call struct {
	method string
	path   string
	body   any
	token  string
	header map[string]string
	remote string
}

func (h *harness) do(t *testing.T, c call) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	switch b := c.body.(type) {
	case nil:
	case string:
		body = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(c.method, c.path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for k, v := range c.header {
		req.Header.Set(k, v)
	}
	if c.remote != "" {
		req.RemoteAddr = c.remote
	}

	rec := httptest.NewRecorder()
	h.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]any](t, rec)["message"].(string)
}
