package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"go-task-manager/internal/model"
)

type stubProvider struct {
	tokens map[string]string
	users  map[string]model.Identity
}

func (s *stubProvider) VerifyAccessToken(token string) (string, error) {
	userID, ok := s.tokens[token]
	if !ok {
		return "", errors.New("invalid token")
	}
	return userID, nil
}

func (s *stubProvider) GetUserByID(ctx context.Context, userID string) (model.Identity, error) {
	identity, ok := s.users[userID]
	if !ok {
		return model.Identity{}, model.ErrUserNotFound
	}
	return identity, nil
}

func newStubProvider() *stubProvider {
	return &stubProvider{
		tokens: map[string]string{
			"user-token":  "u1",
			"admin-token": "a1",
			"stale-token": "gone",
		},
		users: map[string]model.Identity{
			"u1": {ID: "u1", Username: "ann", Role: model.RoleUser},
			"a1": {ID: "a1", Username: "root", Role: model.RoleAdmin},
		},
	}
}

func echoIdentity(t *testing.T) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		w.Header().Set("X-User", identity.Username)
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuthMissingToken(t *testing.T) {
	m := NewAuthMiddleware(newStubProvider())
	rec := httptest.NewRecorder()

	m.RequireAuth(echoIdentity(t)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), `"statusCode":401`)
}

func TestRequireAuthBearerHeader(t *testing.T) {
	m := NewAuthMiddleware(newStubProvider())
	rec := httptest.NewRecorder()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer user-token")
	m.RequireAuth(echoIdentity(t)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ann", rec.Header().Get("X-User"))
}

func TestRequireAuthCookieTakesPrecedence(t *testing.T) {
	m := NewAuthMiddleware(newStubProvider())
	rec := httptest.NewRecorder()

	// An invalid cookie fails outright; the header is never consulted.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "garbage"})
	req.Header.Set("Authorization", "Bearer user-token")
	m.RequireAuth(echoIdentity(t)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "admin-token"})
	m.RequireAuth(echoIdentity(t)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "root", rec.Header().Get("X-User"))
}

func TestRequireAuthUserGone(t *testing.T) {
	m := NewAuthMiddleware(newStubProvider())
	rec := httptest.NewRecorder()

	// Token verifies but the user no longer exists: still a 401.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer stale-token")
	m.RequireAuth(echoIdentity(t)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoles(t *testing.T) {
	m := NewAuthMiddleware(newStubProvider())

	protected := m.RequireAuth(m.RequireRoles(model.RoleAdmin)(echoIdentity(t)))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer user-token")
	protected.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	protected.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRolesWithoutAuth(t *testing.T) {
	m := NewAuthMiddleware(newStubProvider())
	rec := httptest.NewRecorder()

	m.RequireRoles(model.RoleUser)(echoIdentity(t)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
