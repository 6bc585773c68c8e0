// Package tokenstore persists the volunteer bearer token on the local
// machine. The workflow controllers only read it; it is written by the
// sign-in flow.
package tokenstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultKey is the fixed key the token is stored under
const DefaultKey = "VL-TK"

// Store is a small YAML key/value file holding client-local credentials
type Store struct {
	mu   sync.Mutex
	path string
	key  string
}

// New creates a store backed by path. An empty key selects DefaultKey.
func New(path, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{path: path, key: key}
}

// Path returns the backing file path
func (s *Store) Path() string {
	return s.path
}

// Key returns the key the token is stored under
func (s *Store) Key() string {
	return s.key
}

// Token returns the stored token, or "" when none has been saved
func (s *Store) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(values[s.key]), nil
}

// Save stores token under the store's key, keeping any other entries
func (s *Store) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return err
	}
	if token == "" {
		delete(values, s.key)
	} else {
		values[s.key] = token
	}

	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode token file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

func (s *Store) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	values := map[string]string{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}
	if values == nil {
		values = map[string]string{}
	}
	return values, nil
}
