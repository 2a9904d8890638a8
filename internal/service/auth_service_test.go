package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-task-manager/internal/model"
	"go-task-manager/internal/repository"
	"go-task-manager/pkg/apierror"
)

func newTestAuthService(accessTTL time.Duration) (*AuthService, *repository.MemoryUserRepository) {
	users := repository.NewMemoryUserRepository()
	svc := NewAuthService(users, "access-secret", "refresh-secret", accessTTL, 24*time.Hour)
	return svc, users
}

func registerUser(t *testing.T, svc *AuthService, username string, role string) model.Identity {
	t.Helper()

	user, err := svc.Register(context.Background(), model.RegisterRequest{
		FullName: "Test " + username,
		Username: username,
		Email:    username + "@example.com",
		Password: "secret123",
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

func requireAPIStatus(t *testing.T, err error, status int) {
	t.Helper()

	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.HTTPStatus)
}

func TestRegisterNormalizesAndValidates(t *testing.T) {
	svc, users := newTestAuthService(15 * time.Minute)

	user, err := svc.Register(context.Background(), model.RegisterRequest{
		Username: "  Ann  ",
		Email:    "A@X.com",
		Password: "secret",
		Role:     "User",
	})
	require.NoError(t, err)
	require.Equal(t, "ann", user.Username)
	require.Equal(t, "a@x.com", user.Email)
	require.Equal(t, model.RoleUser, user.Role)

	stored, err := users.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotEqual(t, "secret", stored.PasswordHash)
	require.Empty(t, stored.RefreshToken)
}

func TestRegisterRejectsBadInput(t *testing.T) {
	svc, _ := newTestAuthService(15 * time.Minute)

	cases := []struct {
		name string
		req  model.RegisterRequest
	}{
		{"missing username", model.RegisterRequest{Email: "a@x.com", Password: "p", Role: "User"}},
		{"missing email", model.RegisterRequest{Username: "ann", Password: "p", Role: "User"}},
		{"missing password", model.RegisterRequest{Username: "ann", Email: "a@x.com", Role: "User"}},
		{"invalid role", model.RegisterRequest{Username: "ann", Email: "a@x.com", Password: "p", Role: "SuperAdmin"}},
		{"lowercase role", model.RegisterRequest{Username: "ann", Email: "a@x.com", Password: "p", Role: "user"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.req)
			requireAPIStatus(t, err, 400)
		})
	}
}

func TestRegisterDuplicateConflicts(t *testing.T) {
	svc, _ := newTestAuthService(15 * time.Minute)
	registerUser(t, svc, "ann", "User")

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Username: "ANN",
		Email:    "other@example.com",
		Password: "secret",
		Role:     "User",
	})
	requireAPIStatus(t, err, 409)

	_, err = svc.Register(context.Background(), model.RegisterRequest{
		Username: "bob",
		Email:    "ann@example.com",
		Password: "secret",
		Role:     "User",
	})
	requireAPIStatus(t, err, 409)
}

func TestLoginDoesNotRevealAccountExistence(t *testing.T) {
	svc, _ := newTestAuthService(15 * time.Minute)
	registerUser(t, svc, "ann", "User")

	_, unknownErr := svc.Login(context.Background(), model.LoginRequest{Username: "ghost", Password: "secret123"})
	_, wrongPassErr := svc.Login(context.Background(), model.LoginRequest{Username: "ann", Password: "wrong"})

	requireAPIStatus(t, unknownErr, 401)
	requireAPIStatus(t, wrongPassErr, 401)
	require.Equal(t, unknownErr.Error(), wrongPassErr.Error())
}

func TestLoginIssuesVerifiableTokenPair(t *testing.T) {
	svc, users := newTestAuthService(15 * time.Minute)
	user := registerUser(t, svc, "ann", "User")

	pair, err := svc.Login(context.Background(), model.LoginRequest{Email: "ann@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.Equal(t, "Bearer", pair.TokenType)
	require.Equal(t, user.ID, pair.User.ID)

	userID, err := svc.VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, userID)

	stored, err := users.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, pair.RefreshToken, stored.RefreshToken)
}

func TestVerifyAccessTokenRejectsBadTokens(t *testing.T) {
	svc, _ := newTestAuthService(15 * time.Minute)
	registerUser(t, svc, "ann", "User")

	pair, err := svc.Login(context.Background(), model.LoginRequest{Username: "ann", Password: "secret123"})
	require.NoError(t, err)

	// A refresh token is signed with a different secret and typ.
	_, err = svc.VerifyAccessToken(pair.RefreshToken)
	requireAPIStatus(t, err, 401)

	_, err = svc.VerifyAccessToken("not-a-token")
	requireAPIStatus(t, err, 401)

	expiredSvc, _ := newTestAuthService(-time.Minute)
	registerUser(t, expiredSvc, "bob", "User")
	expiredPair, err := expiredSvc.Login(context.Background(), model.LoginRequest{Username: "bob", Password: "secret123"})
	require.NoError(t, err)

	_, err = expiredSvc.VerifyAccessToken(expiredPair.AccessToken)
	requireAPIStatus(t, err, 401)
}

func TestRefreshRotatesExactlyOnce(t *testing.T) {
	svc, _ := newTestAuthService(15 * time.Minute)
	registerUser(t, svc, "ann", "User")

	pair, err := svc.Login(context.Background(), model.LoginRequest{Username: "ann", Password: "secret123"})
	require.NoError(t, err)

	rotated, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The superseded token is permanently unusable.
	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	requireAPIStatus(t, err, 401)

	// The replacement still works.
	_, err = svc.Refresh(context.Background(), rotated.RefreshToken)
	require.NoError(t, err)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	svc, users := newTestAuthService(15 * time.Minute)
	user := registerUser(t, svc, "ann", "User")

	pair, err := svc.Login(context.Background(), model.LoginRequest{Username: "ann", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), user.ID))

	stored, err := users.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Empty(t, stored.RefreshToken)

	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	requireAPIStatus(t, err, 401)
}

func TestAssignRole(t *testing.T) {
	svc, _ := newTestAuthService(15 * time.Minute)
	user := registerUser(t, svc, "ann", "User")

	updated, err := svc.AssignRole(context.Background(), model.AssignRoleRequest{UserID: user.ID, Role: "Admin"})
	require.NoError(t, err)
	require.Equal(t, model.RoleAdmin, updated.Role)

	_, err = svc.AssignRole(context.Background(), model.AssignRoleRequest{UserID: user.ID, Role: "Owner"})
	requireAPIStatus(t, err, 400)

	_, err = svc.AssignRole(context.Background(), model.AssignRoleRequest{UserID: "missing", Role: "User"})
	require.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestListUsersExcludesCredentials(t *testing.T) {
	svc, _ := newTestAuthService(15 * time.Minute)
	registerUser(t, svc, "ann", "User")
	registerUser(t, svc, "bob", "Admin")

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "ann", users[0].Username)
	require.Equal(t, "bob", users[1].Username)
}
