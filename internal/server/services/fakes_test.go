package services

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/secondbrain/internal/common"
	"github.com/dmitrijs2005/secondbrain/internal/dbx"
	"github.com/dmitrijs2005/secondbrain/internal/server/config"
	"github.com/dmitrijs2005/secondbrain/internal/server/models"
	"github.com/dmitrijs2005/secondbrain/internal/server/repositories/contents"
	"github.com/dmitrijs2005/secondbrain/internal/server/repositories/shares"
	"github.com/dmitrijs2005/secondbrain/internal/server/repositories/users"
	"github.com/google/uuid"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "k"
	cfg.AccessTokenValidityDuration = time.Hour
	return cfg
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// fakeClock advances by one millisecond on every reading so that writes get
// distinct timestamps.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Millisecond)
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// memStore backs all fake repositories.
type memStore struct {
	mu       sync.Mutex
	clock    *fakeClock
	users    map[string]*models.User
	contents map[string]*models.Content
	shares   map[string]*models.Share

	// failure injection
	shareConflicts int
	failShares     error
	failContents   error
	failUsers      error
	shareCreates   int
}

func newMemStore(clock *fakeClock) *memStore {
	return &memStore{
		clock:    clock,
		users:    map[string]*models.User{},
		contents: map[string]*models.Content{},
		shares:   map[string]*models.Share{},
	}
}

type fakeRepoManager struct{ s *memStore }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return (*memUsers)(m.s) }
func (m *fakeRepoManager) Contents(dbx.DBTX) contents.Repository        { return (*memContents)(m.s) }
func (m *fakeRepoManager) Shares(dbx.DBTX) shares.Repository            { return (*memShares)(m.s) }

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// --- users ---

type memUsers memStore

func (r *memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUsers != nil {
		return nil, r.failUsers
	}
	for _, x := range r.users {
		if x.UserName == u.UserName || x.Email == u.Email {
			return nil, common.ErrorConflict
		}
	}
	cp := *u
	cp.ID = uuid.NewString()
	cp.CreatedAt = r.clock.Now()
	r.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUsers != nil {
		return nil, r.failUsers
	}
	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUsers != nil {
		return nil, r.failUsers
	}
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsers) Exists(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUsers != nil {
		return false, r.failUsers
	}
	_, ok := r.users[id]
	return ok, nil
}

func (r *memUsers) ExistsByUserNameOrEmail(_ context.Context, userName, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUsers != nil {
		return false, r.failUsers
	}
	for _, u := range r.users {
		if u.UserName == userName || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUsers) Update(_ context.Context, id string, upd users.ProfileUpdate) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	for _, x := range r.users {
		if x.ID == id {
			continue
		}
		if (upd.UserName != nil && x.UserName == *upd.UserName) || (upd.Email != nil && x.Email == *upd.Email) {
			return nil, common.ErrorConflict
		}
	}
	if upd.UserName != nil {
		u.UserName = *upd.UserName
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	cp := *u
	return &cp, nil
}

// --- contents ---

type memContents memStore

func copyContent(c *models.Content) *models.Content {
	cp := *c
	cp.Tags = append([]string{}, c.Tags...)
	return &cp
}

func (r *memContents) Create(_ context.Context, c *models.Content) (*models.Content, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failContents != nil {
		return nil, r.failContents
	}
	now := r.clock.Now()
	c.CreatedAt, c.UpdatedAt = now, now
	r.contents[c.ID] = copyContent(c)
	return c, nil
}

func (r *memContents) GetByID(_ context.Context, id string) (*models.Content, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failContents != nil {
		return nil, r.failContents
	}
	c, ok := r.contents[id]
	if !ok || !validID(id) {
		return nil, common.ErrorNotFound
	}
	return copyContent(c), nil
}

func (r *memContents) GetByIDs(_ context.Context, ids []string) ([]*models.Content, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failContents != nil {
		return nil, r.failContents
	}
	out := []*models.Content{}
	seen := map[string]bool{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if c, ok := r.contents[id]; ok {
			out = append(out, copyContent(c))
		}
	}
	return out, nil
}

func (r *memContents) List(_ context.Context, userID string, f models.ContentFilter) ([]*models.Content, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failContents != nil {
		return nil, r.failContents
	}
	out := []*models.Content{}
	for _, c := range r.contents {
		if c.UserID != userID {
			continue
		}
		if f.Type != "" && c.Type != f.Type {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(c.Title), f.Search) &&
			!strings.Contains(strings.ToLower(c.Body), f.Search) {
			continue
		}
		if f.Tag != "" && !containsString(c.Tags, f.Tag) {
			continue
		}
		out = append(out, copyContent(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *memContents) UpdateOwned(_ context.Context, id, userID string, f models.ContentFields) (*models.Content, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failContents != nil {
		return nil, r.failContents
	}
	c, ok := r.contents[id]
	if !ok || c.UserID != userID {
		return nil, common.ErrorNotFound
	}
	c.Title, c.Body, c.URL, c.Type, c.Tags = f.Title, f.Body, f.URL, f.Type, f.Tags
	c.UpdatedAt = r.clock.Now()
	return copyContent(c), nil
}

func (r *memContents) DeleteOwned(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failContents != nil {
		return r.failContents
	}
	c, ok := r.contents[id]
	if !ok || c.UserID != userID {
		return common.ErrorNotFound
	}
	delete(r.contents, id)
	return nil
}

func (r *memContents) OwnerOf(_ context.Context, id string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contents[id]
	if !ok {
		return "", common.ErrorNotFound
	}
	return c.UserID, nil
}

func (r *memContents) CountOwned(_ context.Context, userID string, ids []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failContents != nil {
		return 0, r.failContents
	}
	n := 0
	for _, id := range ids {
		if c, ok := r.contents[id]; ok && c.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *memContents) Tags(_ context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failContents != nil {
		return nil, r.failContents
	}
	set := map[string]struct{}{}
	for _, c := range r.contents {
		if c.UserID != userID {
			continue
		}
		for _, t := range c.Tags {
			set[t] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out, nil
}

func (r *memContents) CountByType(_ context.Context, userID string) ([]models.TypeCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failContents != nil {
		return nil, r.failContents
	}
	counts := map[models.ContentType]int64{}
	for _, c := range r.contents {
		if c.UserID == userID {
			counts[c.Type]++
		}
	}
	out := []models.TypeCount{}
	for _, t := range models.ContentTypes {
		if n := counts[t]; n > 0 {
			out = append(out, models.TypeCount{Type: t, Count: n})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out, nil
}

// --- shares ---

type memShares memStore

func (r *memShares) Create(_ context.Context, s *models.Share) (*models.Share, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shareCreates++
	if r.failShares != nil {
		return nil, r.failShares
	}
	if r.shareConflicts > 0 {
		r.shareConflicts--
		return nil, common.ErrorConflict
	}
	if _, ok := r.shares[s.ShareID]; ok {
		return nil, common.ErrorConflict
	}
	cp := *s
	cp.ID = uuid.NewString()
	cp.ContentIDs = append([]string{}, s.ContentIDs...)
	cp.CreatedAt = r.clock.Now()
	r.shares[cp.ShareID] = &cp
	out := cp
	return &out, nil
}

func (r *memShares) GetByShareID(_ context.Context, shareID string) (*models.Share, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failShares != nil {
		return nil, r.failShares
	}
	s, ok := r.shares[shareID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *s
	cp.ContentIDs = append([]string{}, s.ContentIDs...)
	return &cp, nil
}

func (r *memShares) RemoveContent(_ context.Context, contentID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failShares != nil {
		return 0, r.failShares
	}
	var n int64
	for _, s := range r.shares {
		kept := s.ContentIDs[:0]
		touched := false
		for _, id := range s.ContentIDs {
			if id == contentID {
				touched = true
				continue
			}
			kept = append(kept, id)
		}
		s.ContentIDs = kept
		if touched {
			n++
		}
	}
	return n, nil
}

func containsString(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

// --- fixture ---

type fixture struct {
	db       *sql.DB
	mock     sqlmock.Sqlmock
	clock    *fakeClock
	store    *memStore
	users    *UserService
	contents *ContentService
	shares   *ShareService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, mock := newSQLMockDB(t)
	clock := newFakeClock()
	store := newMemStore(clock)
	rm := &fakeRepoManager{s: store}
	cfg := testConfig()

	shareSvc := NewShareService(db, rm, cfg)
	shareSvc.now = clock.Now

	return &fixture{
		db:       db,
		mock:     mock,
		clock:    clock,
		store:    store,
		users:    NewUserService(db, rm, cfg),
		contents: NewContentService(db, rm),
		shares:   shareSvc,
	}
}

func (f *fixture) signup(t *testing.T, name string) *Session {
	t.Helper()
	s, err := f.users.Signup(context.Background(), name, name+"@example.com", "password1")
	if err != nil {
		t.Fatalf("Signup(%s) error: %v", name, err)
	}
	return s
}

func (f *fixture) create(t *testing.T, userID, title string, typ models.ContentType, tags ...string) *models.Content {
	t.Helper()
	c, err := f.contents.Create(context.Background(), userID, ContentInput{
		Title: title, Body: title + " body", Type: string(typ), Tags: tags,
	})
	if err != nil {
		t.Fatalf("Create(%s) error: %v", title, err)
	}
	return c
}
