package middleware

import (
	"context"
	"net/http"
	"strings"

	"go-task-manager/internal/model"
)

// identityProvider is the slice of the auth service the middleware needs.
type identityProvider interface {
	VerifyAccessToken(token string) (string, error)
	GetUserByID(ctx context.Context, userID string) (model.Identity, error)
}

type contextKey string

const identityContextKey contextKey = "auth_identity"

// AccessTokenCookie is the cookie the login handler sets; the middleware
// prefers it over the Authorization header.
const AccessTokenCookie = "accessToken"

type AuthMiddleware struct {
	provider identityProvider
}

func NewAuthMiddleware(provider identityProvider) *AuthMiddleware {
	return &AuthMiddleware{provider: provider}
}

// RequireAuth extracts a bearer token (cookie first, then Authorization
// header), verifies it, and loads the user fresh from the store. Every
// failure on this path is a 401, regardless of the underlying cause; nothing
// is cached across requests.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			writeAuthError(w, http.StatusUnauthorized, "unauthorized request")
			return
		}

		userID, err := m.provider.VerifyAccessToken(token)
		if err != nil {
			writeAuthError(w, http.StatusUnauthorized, "invalid access token")
			return
		}

		identity, err := m.provider.GetUserByID(r.Context(), userID)
		if err != nil {
			writeAuthError(w, http.StatusUnauthorized, "invalid access token")
			return
		}

		ctx := context.WithValue(r.Context(), identityContextKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles enforces a closed allow-list. It must run after RequireAuth.
func (m *AuthMiddleware) RequireRoles(allowedRoles ...model.Role) func(http.Handler) http.Handler {
	roleSet := map[model.Role]struct{}{}
	for _, role := range allowedRoles {
		roleSet[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			if len(roleSet) > 0 {
				if _, allowed := roleSet[identity.Role]; !allowed {
					writeAuthError(w, http.StatusForbidden, "you do not have the required permissions")
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(model.Identity)
	return identity, ok
}

func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && strings.TrimSpace(cookie.Value) != "" {
		return strings.TrimSpace(cookie.Value)
	}

	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = jsonEncode(w, model.APIErrorResponse{
		StatusCode: status,
		Message:    message,
		Errors:     []string{},
	})
}
