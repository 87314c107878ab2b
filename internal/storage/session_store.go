package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/Mohd-umair/repmeup-frontend/internal/model"
)

// ErrNoSession is returned when a user record is saved without a live token.
// The store never persists a user without a token or vice versa.
var ErrNoSession = errors.New("no active session")

type Store interface {
	// SaveSession persists token, refresh token and user in one atomic write.
	SaveSession(token, refreshToken string, user *model.User) error
	// SaveUser replaces the cached user record of an existing session.
	SaveUser(user *model.User) error
	Token() string
	RefreshToken() string
	User() *model.User
	// ClearAll wipes the persisted session. Idempotent.
	ClearAll() error
}

// Persisted keys are fixed and versionless; they match what the web client
// historically wrote to browser storage.
type sessionFile struct {
	Token        string          `json:"orm_token,omitempty"`
	RefreshToken string          `json:"orm_refresh_token,omitempty"`
	User         json.RawMessage `json:"orm_user,omitempty"`
}

// FileStore keeps the session in a single JSON file under the user config
// dir. Writes go through a temp file + rename so a crash can never leave a
// token without its user record or the reverse.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) SaveSession(token, refreshToken string, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.write(&sessionFile{
		Token:        token,
		RefreshToken: refreshToken,
		User:         raw,
	})
}

func (s *FileStore) SaveUser(user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.read()
	if current.Token == "" {
		return ErrNoSession
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	current.User = raw
	return s.write(current)
}

func (s *FileStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read().Token
}

func (s *FileStore) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read().RefreshToken
}

func (s *FileStore) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.read()
	if len(current.User) == 0 {
		return nil
	}
	var user model.User
	if err := json.Unmarshal(current.User, &user); err != nil {
		return nil
	}
	return &user
}

func (s *FileStore) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *FileStore) read() *sessionFile {
	var current sessionFile
	data, err := os.ReadFile(s.path)
	if err != nil {
		return &current
	}
	_ = json.Unmarshal(data, &current)
	return &current
}

func (s *FileStore) write(file *sessionFile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
