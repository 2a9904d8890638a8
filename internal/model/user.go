package model

import "time"

// Role is the closed set of permission classes a user can hold.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

// ParseRole validates a raw role string against the closed enum.
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleAdmin, RoleUser:
		return Role(raw), true
	default:
		return "", false
	}
}

// User is the persisted credential record. PasswordHash and RefreshToken are
// never serialized to JSON; they leave the repository only on the full record
// used by the auth service itself.
type User struct {
	ID           string    `bson:"_id" json:"id"`
	FullName     string    `bson:"fullName,omitempty" json:"fullName,omitempty"`
	Username     string    `bson:"username" json:"username"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	Role         Role      `bson:"role" json:"role"`
	RefreshToken string    `bson:"refreshToken,omitempty" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Identity is the sanitized per-request view of a user, loaded fresh by the
// auth middleware on every request.
type Identity struct {
	ID       string `json:"id"`
	FullName string `json:"fullName,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// Identity strips the credential fields from a full user record.
func (u User) Identity() Identity {
	return Identity{
		ID:       u.ID,
		FullName: u.FullName,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}

type TokenPair struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	TokenType    string   `json:"tokenType"`
	ExpiresIn    int64    `json:"expiresIn"`
	User         Identity `json:"user"`
}

// AuthClaims is the decoded view of a signed token.
type AuthClaims struct {
	UserID  string
	Type    string
	TokenID string
}
