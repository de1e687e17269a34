package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"

	"campo-listings/pkg/logger"
)

// FileStore persists the token as plain text in a single file so it survives
// across CLI invocations.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Get(context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.GlobalLogger.Debugf("token file unreadable, treating as logged out: path=%s, error=%v", s.path, err)
		}
		return ""
	}
	token := strings.TrimSpace(string(data))
	if !validToken(token) {
		logger.GlobalLogger.Debugf("token file corrupt, treating as logged out: path=%s", s.path)
		return ""
	}
	return token
}

func (s *FileStore) Set(_ context.Context, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		logger.GlobalLogger.Debugf("failed to create token dir: path=%s, error=%v", s.path, err)
		return
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(token+"\n"), 0o600); err != nil {
		logger.GlobalLogger.Debugf("failed to write token file: path=%s, error=%v", s.path, err)
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		logger.GlobalLogger.Debugf("failed to replace token file: path=%s, error=%v", s.path, err)
	}
}

func (s *FileStore) Clear(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.GlobalLogger.Debugf("failed to remove token file: path=%s, error=%v", s.path, err)
	}
}

// validToken rejects empty or binary content; a bearer token is a single
// printable line.
func validToken(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}
