package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// fileTokenStore persists the session secret under the user config dir, the
// CLI counterpart of a mobile client keeping its session cookie between
// launches. Only the opaque credential is stored, never any note data.
type fileTokenStore struct {
	path string
}

func newFileTokenStore() (*fileTokenStore, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}
	return &fileTokenStore{path: filepath.Join(base, "silt", "session")}, nil
}

func (s *fileTokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *fileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(token), 0600)
}

func (s *fileTokenStore) Clear() error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
