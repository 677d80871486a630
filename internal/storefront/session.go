package storefront

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Keys under which the session is persisted.
const (
	KeyToken      = "token"
	KeyAdminToken = "adminToken"
	KeyUser       = "user"
)

// Roles a signed-in user can hold.
const (
	RoleCustomer = "customer"
	RoleSeller   = "seller"
	RoleAdmin    = "admin"
)

// SessionStore is the persistent key/value storage behind a Session.
type SessionStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(keys ...string) error
}

type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStore) Delete(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

// FileStore keeps the session in a JSON object on disk so it survives
// restarts of the shopper CLI.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) load() (map[string]string, error) {
	values := map[string]string{}
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if len(b) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(b, &values); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return values, nil
}

func (s *FileStore) save(values map[string]string) error {
	b, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.load()
	if err != nil {
		return "", false
	}
	v, ok := values[key]
	return v, ok
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.load()
	if err != nil {
		return err
	}
	values[key] = value
	return s.save(values)
}

func (s *FileStore) Delete(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.load()
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(values, k)
	}
	return s.save(values)
}

// User is the signed-in account as returned by the auth endpoints.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session is the identity every manager consults before touching the
// network. Invalidate runs the registered listeners so the managers can drop
// their in-memory state.
type Session struct {
	store  SessionStore
	logger *log.Logger

	mu        sync.Mutex
	listeners []func()
	// revoked holds keys whose delete failed. They read as absent until
	// they are set again.
	revoked map[string]bool
}

func NewSession(store SessionStore, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Default()
	}
	return &Session{store: store, logger: logger, revoked: map[string]bool{}}
}

func (s *Session) get(key string) (string, bool) {
	s.mu.Lock()
	gone := s.revoked[key]
	s.mu.Unlock()
	if gone {
		return "", false
	}
	return s.store.Get(key)
}

func (s *Session) set(key, value string) error {
	if err := s.store.Set(key, value); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.revoked, key)
	s.mu.Unlock()
	return nil
}

func (s *Session) drop(keys ...string) {
	if err := s.store.Delete(keys...); err != nil {
		s.logger.Printf("session: delete %v: %v", keys, err)
		s.mu.Lock()
		for _, k := range keys {
			s.revoked[k] = true
		}
		s.mu.Unlock()
	}
}

func (s *Session) SignIn(token string, u User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	if err := s.set(KeyToken, token); err != nil {
		return err
	}
	return s.set(KeyUser, string(b))
}

// SetAdminToken stores the seller/admin token. It lives next to the
// shopper token and never replaces it.
func (s *Session) SetAdminToken(token string) error {
	return s.set(KeyAdminToken, token)
}

func (s *Session) Token() string {
	v, _ := s.get(KeyToken)
	return v
}

func (s *Session) AdminToken() string {
	v, _ := s.get(KeyAdminToken)
	return v
}

func (s *Session) LoggedIn() bool { return s.Token() != "" }

func (s *Session) User() (User, bool) {
	raw, ok := s.get(KeyUser)
	if !ok || raw == "" {
		return User{}, false
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return User{}, false
	}
	return u, true
}

// OnInvalidate registers fn to run whenever the shopper session ends.
func (s *Session) OnInvalidate(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Invalidate drops the shopper token and user, then notifies listeners.
// It is what a 401 and an explicit logout both end in.
func (s *Session) Invalidate() {
	s.drop(KeyToken, KeyUser)

	s.mu.Lock()
	listeners := append([]func(){}, s.listeners...)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// InvalidateAdmin drops only the seller/admin token.
func (s *Session) InvalidateAdmin() {
	s.drop(KeyAdminToken)
}
