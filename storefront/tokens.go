package storefront

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Token namespaces. Customer and admin sessions never share storage,
// so signing in to one surface cannot leak into the other.
const (
	TokenNamespaceCustomer = "customer"
	TokenNamespaceAdmin    = "admin"
)

// TokenStore holds the bearer token between runs.
type TokenStore interface {
	Token() (string, error)
	Set(token string) error
	Clear() error
}

// FileTokenStore persists the token as a single file per namespace.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore stores tokens under dir, one file per namespace.
func NewFileTokenStore(dir, namespace string) *FileTokenStore {
	if namespace == "" {
		namespace = TokenNamespaceCustomer
	}
	return &FileTokenStore{path: filepath.Join(dir, namespace+"_token")}
}

func (s *FileTokenStore) Token() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *FileTokenStore) Set(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(token), 0o600)
}

func (s *FileTokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MemoryTokenStore keeps the token in process memory only.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

func (s *MemoryTokenStore) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryTokenStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
