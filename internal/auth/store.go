package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoSession means no user file exists, a normal signed-out state.
var ErrNoSession = errors.New("auth: no stored session")

// Store persists the current user as a JSON file under the data directory.
// One file, whole-value reads and writes; it plays the role a browser's
// local storage plays for the web client.
type Store struct {
	path string
}

func NewStore(dataDir string) *Store {
	return &Store{path: filepath.Join(dataDir, "bizkash-user.json")}
}

func (s *Store) Load() (User, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return User{}, ErrNoSession
	}
	if err != nil {
		return User{}, fmt.Errorf("read session: %w", err)
	}
	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		// A corrupt session file is dropped, same as a failed parse of
		// stored state in the client.
		_ = os.Remove(s.path)
		return User{}, ErrNoSession
	}
	return u, nil
}

func (s *Store) Save(u User) error {
	data, err := json.MarshalIndent(u, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
