// Package session persists the identity of the signed-in user on this machine.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/Thanush-41/AgriXchange/shared/logger"
	"github.com/Thanush-41/AgriXchange/shared/models"
)

// Storage keys. The profile and the token are stored and read independently.
const (
	UserKey  = "agrixchange_user"
	TokenKey = "agrixchange_token"
)

// Identity is what the auth flow left behind: a bearer token and a profile.
// Either may be missing.
type Identity struct {
	Token string
	User  *models.User
}

// CanBid reports whether the identity may start a bidding handshake
func (i Identity) CanBid() bool {
	return i.Token != "" && i.User.IsTrader()
}

// Store reads and writes the persisted identity
type Store interface {
	Load() (Identity, error)
	Save(id Identity) error
	Clear() error
}

// FileStore keeps the identity in a small JSON document on disk
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store backed by the file at path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath returns the per-user session file location
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("session: failed to resolve config dir: %w", err)
	}
	return filepath.Join(dir, "agrixchange", "session.json"), nil
}

// Load reads the identity. A missing file yields an empty identity.
// A corrupt profile is dropped from the file and treated as absent.
func (s *FileStore) Load() (Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return Identity{}, err
	}

	var id Identity
	if raw, ok := entries[TokenKey]; ok {
		if err := json.Unmarshal(raw, &id.Token); err != nil {
			id.Token = ""
		}
	}
	if raw, ok := entries[UserKey]; ok {
		var user models.User
		if err := json.Unmarshal(raw, &user); err != nil {
			logger.Warn("dropping unreadable stored user", map[string]any{
				"path":  s.path,
				"error": err.Error(),
			})
			delete(entries, UserKey)
			if err := s.write(entries); err != nil {
				return Identity{}, err
			}
		} else {
			id.User = &user
		}
	}

	return id, nil
}

// Save stores both values. An empty token or nil user removes that key.
func (s *FileStore) Save(id Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}

	if id.Token == "" {
		delete(entries, TokenKey)
	} else {
		raw, _ := json.Marshal(id.Token)
		entries[TokenKey] = raw
	}
	if id.User == nil {
		delete(entries, UserKey)
	} else {
		raw, err := json.Marshal(id.User)
		if err != nil {
			return fmt.Errorf("session: failed to encode user: %w", err)
		}
		entries[UserKey] = raw
	}

	return s.write(entries)
}

// Clear forgets the identity (logout)
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session: failed to remove %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) read() (map[string]json.RawMessage, error) {
	entries := make(map[string]json.RawMessage)

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: failed to read %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		logger.Warn("ignoring unreadable session file", map[string]any{
			"path":  s.path,
			"error": err.Error(),
		})
		return make(map[string]json.RawMessage), nil
	}
	return entries, nil
}

// write replaces the file atomically
func (s *FileStore) write(entries map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("session: failed to encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("session: failed to create session dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("session: failed to write session: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("session: failed to replace session: %w", err)
	}
	return nil
}

// MemoryStore keeps the identity in memory
type MemoryStore struct {
	mu sync.RWMutex
	id Identity
}

// NewMemoryStore creates a store holding id
func NewMemoryStore(id Identity) *MemoryStore {
	return &MemoryStore{id: id}
}

func (s *MemoryStore) Load() (Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id, nil
}

func (s *MemoryStore) Save(id Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = id
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = Identity{}
	return nil
}
