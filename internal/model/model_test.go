package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"Admin", "User"} {
		role, ok := ParseRole(valid)
		require.True(t, ok)
		require.Equal(t, Role(valid), role)
	}

	for _, invalid := range []string{"", "admin", "user", "Superuser", "ADMIN"} {
		_, ok := ParseRole(invalid)
		require.False(t, ok, invalid)
	}
}

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{"Pending", "In Progress", "Completed"} {
		status, ok := ParseStatus(valid)
		require.True(t, ok)
		require.Equal(t, Status(valid), status)
	}

	for _, invalid := range []string{"", "pending", "InProgress", "Done"} {
		_, ok := ParseStatus(invalid)
		require.False(t, ok, invalid)
	}
}

func TestUserJSONHidesCredentials(t *testing.T) {
	user := User{
		ID:           "u1",
		Username:     "ann",
		Email:        "a@x.com",
		PasswordHash: "$2a$12$hash",
		Role:         RoleUser,
		RefreshToken: "some.jwt.token",
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	raw, err := json.Marshal(user)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	require.NotContains(t, fields, "passwordHash")
	require.NotContains(t, fields, "refreshToken")
	require.NotContains(t, string(raw), "$2a$12$hash")
	require.NotContains(t, string(raw), "some.jwt.token")
}

func TestIdentityStripsCredentials(t *testing.T) {
	user := User{ID: "u1", FullName: "Ann", Username: "ann", Email: "a@x.com", Role: RoleAdmin, PasswordHash: "h", RefreshToken: "r"}

	identity := user.Identity()
	require.Equal(t, "u1", identity.ID)
	require.Equal(t, "ann", identity.Username)
	require.Equal(t, RoleAdmin, identity.Role)
}
