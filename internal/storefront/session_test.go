package storefront

import (
	"bytes"
	"errors"
	"log"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	s := NewSession(NewFileStore(path), nil)
	require.NoError(t, s.SignIn("tok-1", User{ID: "u1", Email: "a@example.com", Role: RoleCustomer}))
	require.NoError(t, s.SetAdminToken("admin-1"))

	reopened := NewSession(NewFileStore(path), nil)
	assert.Equal(t, "tok-1", reopened.Token())
	assert.Equal(t, "admin-1", reopened.AdminToken())
	u, ok := reopened.User()
	require.True(t, ok)
	assert.Equal(t, "a@example.com", u.Email)
}

func TestSession_InvalidateNotifiesAndKeepsAdminToken(t *testing.T) {
	s := NewSession(NewMemoryStore(), nil)
	require.NoError(t, s.SignIn("tok", User{ID: "u1"}))
	require.NoError(t, s.SetAdminToken("admin"))

	calls := 0
	s.OnInvalidate(func() { calls++ })
	s.OnInvalidate(func() { calls++ })

	s.Invalidate()
	assert.Equal(t, 2, calls)
	assert.False(t, s.LoggedIn())
	_, ok := s.User()
	assert.False(t, ok)
	assert.Equal(t, "admin", s.AdminToken())

	s.InvalidateAdmin()
	assert.Empty(t, s.AdminToken())
}

func TestSidebar(t *testing.T) {
	var s Sidebar
	assert.False(t, s.IsOpen())
	s.Toggle()
	assert.True(t, s.IsOpen())
	s.Open()
	assert.True(t, s.IsOpen())
	s.Close()
	assert.False(t, s.IsOpen())
}

// readOnlyStore accepts writes but cannot delete, like a session file on a
// disk that has become read-only.
type readOnlyStore struct{ *MemoryStore }

func (readOnlyStore) Delete(...string) error { return errors.New("read-only file system") }

func TestSession_InvalidateSticksWhenStoreDeleteFails(t *testing.T) {
	var buf bytes.Buffer
	s := NewSession(readOnlyStore{NewMemoryStore()}, log.New(&buf, "", 0))
	require.NoError(t, s.SignIn("tok", User{ID: "u1"}))
	require.NoError(t, s.SetAdminToken("admin"))

	s.Invalidate()
	assert.Empty(t, s.Token())
	_, ok := s.User()
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "read-only file system")
	assert.Equal(t, "admin", s.AdminToken())

	s.InvalidateAdmin()
	assert.Empty(t, s.AdminToken())

	require.NoError(t, s.SignIn("tok-2", User{ID: "u1"}))
	assert.Equal(t, "tok-2", s.Token())
}
