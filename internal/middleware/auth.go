package middleware

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"academy-manager/internal/config"
)

type ctxKey string

const authUserKey ctxKey = "authUser"

// AuthUser is the operator attached to the request context.
type AuthUser struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// Sessions maps bearer tokens to operator accounts. Tokens live for the
// process lifetime; a restart logs everyone out.
type Sessions struct {
	mu     sync.RWMutex
	users  []config.User
	tokens map[string]AuthUser
}

func NewSessions(users []config.User) *Sessions {
	return &Sessions{users: users, tokens: map[string]AuthUser{}}
}

// Issue checks the credentials and mints a new token.
func (s *Sessions) Issue(email, password string) (string, *AuthUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	for _, u := range s.users {
		if u.Email != email {
			continue
		}
		if subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) != 1 {
			break
		}

		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return "", nil, fmt.Errorf("generate token: %w", err)
		}
		token := hex.EncodeToString(buf)
		au := AuthUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}

		s.mu.Lock()
		s.tokens[token] = au
		s.mu.Unlock()
		return token, &au, nil
	}
	return "", nil, fmt.Errorf("invalid credentials")
}

func (s *Sessions) Lookup(token string) (*AuthUser, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	au, ok := s.tokens[token]
	if !ok {
		return nil, false
	}
	return &au, true
}

func (s *Sessions) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

func WithAuth(sessions *Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if h == "" || !strings.HasPrefix(strings.ToLower(h), "bearer ") {
				http.Error(w, "missing Authorization: Bearer <token>", http.StatusUnauthorized)
				return
			}
			token := strings.TrimSpace(h[len("Bearer "):])

			au, ok := sessions.Lookup(token)
			if !ok {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), authUserKey, au)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetAuthUser(ctx context.Context) (*AuthUser, bool) {
	v := ctx.Value(authUserKey)
	if v == nil {
		return nil, false
	}
	au, ok := v.(*AuthUser)
	return au, ok
}

// IsAdmin reports whether the operator holds the admin role.
func IsAdmin(au *AuthUser) bool {
	return au != nil && au.Role == "ADMIN"
}

// CanManage reports whether the operator may touch money and settings.
func CanManage(au *AuthUser) bool {
	return au != nil && (au.Role == "ADMIN" || au.Role == "MANAGER")
}
