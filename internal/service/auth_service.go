package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"go-task-manager/internal/model"
	"go-task-manager/pkg/apierror"
)

const bcryptCost = 12

// AuthService owns credentials and tokens: registration, login, access-token
// verification, refresh-token rotation, and the admin user operations.
//
// Access and refresh tokens are signed with distinct secrets. The refresh
// token is persisted on the user record; rotation requires the presented
// token to exactly match the stored one, so a superseded token can never be
// replayed.
type AuthService struct {
	users         UserStore
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(users UserStore, accessSecret string, refreshSecret string, accessTTL time.Duration, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		users:         users,
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.Identity, error) {
	req.FullName = trim(req.FullName)
	req.Username = lower(req.Username)
	req.Email = lower(req.Email)

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return model.Identity{}, apierror.BadRequest("username, email and password are required", "")
	}

	role, ok := model.ParseRole(trim(req.Role))
	if !ok {
		return model.Identity{}, apierror.BadRequest("role must be either 'Admin' or 'User'", req.Role)
	}

	exists, err := s.users.ExistsByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		return model.Identity{}, err
	}
	if exists {
		return model.Identity{}, apierror.Conflict("user with email or username already exists", "")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return model.Identity{}, err
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		FullName:     req.FullName,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrUserAlreadyExists) {
			return model.Identity{}, apierror.Conflict("user with email or username already exists", "")
		}
		return model.Identity{}, err
	}

	return user.Identity(), nil
}

// Login authenticates by username or email. Unknown identifiers and wrong
// passwords fail identically so callers cannot probe for accounts.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.TokenPair, error) {
	if trim(req.Username) == "" && trim(req.Email) == "" {
		return model.TokenPair{}, apierror.BadRequest("username or email is required", "")
	}

	user, err := s.users.FindByLogin(ctx, req.Username, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return model.TokenPair{}, apierror.Unauthenticated("invalid username or password")
		}
		return model.TokenPair{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return model.TokenPair{}, apierror.Unauthenticated("invalid username or password")
	}

	return s.issueTokenPair(ctx, user)
}

// Refresh rotates a refresh token: the presented token must verify against
// the refresh secret and exactly match the token stored on the user record.
// A superseded or revoked token fails; a successful rotation overwrites the
// stored value, so each refresh token is usable at most once.
func (s *AuthService) Refresh(ctx context.Context, presented string) (model.TokenPair, error) {
	claims, err := s.verifyToken(presented, s.refreshSecret, "refresh")
	if err != nil {
		return model.TokenPair{}, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return model.TokenPair{}, apierror.Unauthenticated("invalid refresh token")
		}
		return model.TokenPair{}, err
	}

	if user.RefreshToken == "" || user.RefreshToken != presented {
		return model.TokenPair{}, apierror.Unauthenticated("refresh token is expired or already used")
	}

	return s.issueTokenPair(ctx, user)
}

// Logout clears the stored refresh token, making the previous one
// permanently unusable.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.users.SetRefreshToken(ctx, userID, ""); err != nil && !errors.Is(err, model.ErrUserNotFound) {
		return err
	}
	return nil
}

// VerifyAccessToken validates signature, expiry and token type, returning the
// embedded user id.
func (s *AuthService) VerifyAccessToken(token string) (string, error) {
	claims, err := s.verifyToken(token, s.accessSecret, "access")
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, userID string) (model.Identity, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.Identity{}, err
	}
	return user.Identity(), nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]model.Identity, error) {
	return s.users.List(ctx)
}

func (s *AuthService) AssignRole(ctx context.Context, req model.AssignRoleRequest) (model.Identity, error) {
	if trim(req.UserID) == "" {
		return model.Identity{}, apierror.BadRequest("userId is required", "")
	}

	role, ok := model.ParseRole(trim(req.Role))
	if !ok {
		return model.Identity{}, apierror.BadRequest("role must be either 'Admin' or 'User'", req.Role)
	}

	user, err := s.users.UpdateRole(ctx, req.UserID, role)
	if err != nil {
		return model.Identity{}, err
	}
	return user.Identity(), nil
}

func (s *AuthService) issueTokenPair(ctx context.Context, user model.User) (model.TokenPair, error) {
	now := time.Now().UTC()

	accessToken, err := s.signToken(user.ID, "access", s.accessSecret, now, s.accessTTL)
	if err != nil {
		return model.TokenPair{}, err
	}

	refreshToken, err := s.signToken(user.ID, "refresh", s.refreshSecret, now, s.refreshTTL)
	if err != nil {
		return model.TokenPair{}, err
	}

	if err := s.users.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return model.TokenPair{}, apierror.Internal("could not persist refresh token")
	}

	return model.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
		User:         user.Identity(),
	}, nil
}

func (s *AuthService) signToken(userID string, typ string, secret []byte, now time.Time, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"typ": typ,
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	})
	return token.SignedString(secret)
}

func (s *AuthService) verifyToken(tokenString string, secret []byte, expectedType string) (model.AuthClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apierror.Unauthenticated("invalid token signing method")
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return model.AuthClaims{}, apierror.Unauthenticated("invalid or expired token")
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return model.AuthClaims{}, apierror.Unauthenticated("invalid token claims")
	}

	claims := model.AuthClaims{}
	claims.UserID, _ = claimsMap["sub"].(string)
	claims.Type, _ = claimsMap["typ"].(string)
	claims.TokenID, _ = claimsMap["jti"].(string)

	if claims.UserID == "" || claims.Type != expectedType {
		return model.AuthClaims{}, apierror.Unauthenticated("invalid token")
	}

	return claims, nil
}
