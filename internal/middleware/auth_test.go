package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academy-manager/internal/config"
)

func testSessions() *Sessions {
	return NewSessions([]config.User{
		{ID: "u1", Name: "Admin", Email: "admin@academy.local", Password: "secret", Role: "ADMIN"},
		{ID: "u2", Name: "Desk", Email: "desk@academy.local", Password: "pw", Role: "STAFF"},
	})
}

func TestIssueAndLookup(t *testing.T) {
	s := testSessions()

	token, au, err := s.Issue("Admin@Academy.local", "secret")
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", au.Role)

	got, ok := s.Lookup(token)
	require.True(t, ok)
	assert.Equal(t, "u1", got.ID)

	_, _, err = s.Issue("admin@academy.local", "wrong")
	assert.Error(t, err)
	_, _, err = s.Issue("nobody@academy.local", "secret")
	assert.Error(t, err)

	s.Revoke(token)
	_, ok = s.Lookup(token)
	assert.False(t, ok)
}

func TestWithAuth(t *testing.T) {
	s := testSessions()
	token, _, err := s.Issue("desk@academy.local", "pw")
	require.NoError(t, err)

	var seen *AuthUser
	handler := WithAuth(s)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetAuthUser(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "desk@academy.local", seen.Email)

	// missing header
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// bogus token
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoleHelpers(t *testing.T) {
	assert.True(t, IsAdmin(&AuthUser{Role: "ADMIN"}))
	assert.False(t, IsAdmin(&AuthUser{Role: "STAFF"}))
	assert.False(t, IsAdmin(nil))

	assert.True(t, CanManage(&AuthUser{Role: "MANAGER"}))
	assert.True(t, CanManage(&AuthUser{Role: "ADMIN"}))
	assert.False(t, CanManage(&AuthUser{Role: "STAFF"}))
}
