package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dmitrijs2005/secondbrain/internal/filex"
)

// SessionFileName is the file FileTokenStore keeps under its directory.
const SessionFileName = "session.json"

// Credentials is what survives between CLI runs.
type Credentials struct {
	Token    string `json:"second_brain_token"`
	UserID   string `json:"second_brain_user_id"`
	UserName string `json:"second_brain_username"`
}

func (c Credentials) empty() bool { return c.Token == "" }

// TokenStore persists Credentials. Load on an empty store returns zero
// Credentials and no error.
type TokenStore interface {
	Load() (Credentials, error)
	Save(Credentials) error
	Clear() error
}

// FileTokenStore keeps Credentials in a JSON file readable only by the owner.
type FileTokenStore struct {
	mu  sync.Mutex
	dir string
}

func NewFileTokenStore(dir string) *FileTokenStore {
	return &FileTokenStore{dir: dir}
}

func (s *FileTokenStore) Path() string {
	return filepath.Join(s.dir, SessionFileName)
}

func (s *FileTokenStore) Load() (Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		return Credentials{}, nil
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("read session: %w", err)
	}

	var c Credentials
	if err := json.Unmarshal(data, &c); err != nil {
		return Credentials{}, fmt.Errorf("decode session: %w", err)
	}
	return c, nil
}

func (s *FileTokenStore) Save(c Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return filex.WriteFileAtomic(s.Path(), data, 0o600)
}

func (s *FileTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filex.RemoveIfExists(s.Path())
}

// MemoryTokenStore keeps Credentials in process memory only.
type MemoryTokenStore struct {
	mu sync.Mutex
	c  Credentials
}

func (s *MemoryTokenStore) Load() (Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c, nil
}

func (s *MemoryTokenStore) Save(c Credentials) error {
	s.mu.Lock()
	s.c = c
	s.mu.Unlock()
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	return s.Save(Credentials{})
}
