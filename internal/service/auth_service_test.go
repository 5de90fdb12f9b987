package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mediahub-api/internal/models"
	appErrors "github.com/noah-isme/mediahub-api/pkg/errors"
)

func TestAuthServiceRegisterAndLogin(t *testing.T) {
	svc := newServices()
	ctx := context.Background()

	user, err := svc.auth.Register(ctx, models.RegisterRequest{
		Name:     "Asha Admin",
		Email:    "Asha@Example.com",
		Password: "secret123",
		Role:     models.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.NotEqual(t, "secret123", user.PasswordHash)

	resp, err := svc.auth.Login(ctx, models.LoginRequest{Email: "asha@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, user.ID, resp.User.ID)

	claims, err := svc.auth.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "asha@example.com", claims.Email)
}

func TestAuthServiceRegisterDuplicateEmail(t *testing.T) {
	svc := newServices()
	svc.seedUser("Existing", "taken@example.com", models.RoleTeamMember)

	_, err := svc.auth.Register(context.Background(), models.RegisterRequest{
		Name:     "Other",
		Email:    "TAKEN@example.com",
		Password: "secret123",
		Role:     models.RoleTeamMember,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrConflict))
}

func TestAuthServiceRegisterValidation(t *testing.T) {
	svc := newServices()

	_, err := svc.auth.Register(context.Background(), models.RegisterRequest{
		Name:     "Short",
		Email:    "short@example.com",
		Password: "123",
		Role:     models.RoleTeamMember,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestAuthServiceLoginInvalidCredentials(t *testing.T) {
	svc := newServices()
	svc.seedUser("Tara", "tara@example.com", models.RoleTeamMember)
	ctx := context.Background()

	_, err := svc.auth.Login(ctx, models.LoginRequest{Email: "tara@example.com", Password: "wrongpass"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))

	_, err = svc.auth.Login(ctx, models.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))
}

func TestAuthServiceTokenExpired(t *testing.T) {
	svc := newServices()
	user := svc.seedUser("Tara", "tara@example.com", models.RoleTeamMember)

	issued := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	svc.auth.now = func() time.Time { return issued }
	token, err := svc.auth.IssueToken(user)
	require.NoError(t, err)

	svc.auth.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = svc.auth.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrTokenExpired))
}

func TestAuthServiceTokenInvalid(t *testing.T) {
	svc := newServices()
	user := svc.seedUser("Tara", "tara@example.com", models.RoleTeamMember)

	token, err := svc.auth.IssueToken(user)
	require.NoError(t, err)

	tampered := token + "x"
	_, err = svc.auth.ValidateToken(tampered)
	assert.True(t, errors.Is(err, appErrors.ErrTokenInvalid))

	_, err = svc.auth.ValidateToken("not-a-token")
	assert.True(t, errors.Is(err, appErrors.ErrTokenInvalid))

	other := NewAuthService(memUsers{svc.store}, nil, nil, AuthConfig{Secret: "another-secret", Issuer: "mediahub-test"})
	foreign, err := other.IssueToken(user)
	require.NoError(t, err)
	_, err = svc.auth.ValidateToken(foreign)
	assert.True(t, errors.Is(err, appErrors.ErrTokenInvalid))
}

func TestAuthServiceRejectsUnsignedToken(t *testing.T) {
	svc := newServices()

	claims := &models.JWTClaims{
		UserID: "user-1",
		Role:   models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "mediahub-test",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.auth.ValidateToken(token)
	assert.True(t, errors.Is(err, appErrors.ErrTokenInvalid))
}

func TestAuthServiceChangePassword(t *testing.T) {
	svc := newServices()
	user := svc.seedUser("Tara", "tara@example.com", models.RoleTeamMember)
	ctx := context.Background()

	err := svc.auth.ChangePassword(ctx, user.ID, models.ChangePasswordRequest{OldPassword: "nope-nope", NewPassword: "another123"})
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))

	require.NoError(t, svc.auth.ChangePassword(ctx, user.ID, models.ChangePasswordRequest{OldPassword: "secret123", NewPassword: "another123"}))

	_, err = svc.auth.Login(ctx, models.LoginRequest{Email: "tara@example.com", Password: "another123"})
	assert.NoError(t, err)
}

func TestAuthServiceMe(t *testing.T) {
	svc := newServices()
	user := svc.seedUser("Tara", "tara@example.com", models.RoleTeamMember)

	me, err := svc.auth.Me(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tara", me.Name)

	_, err = svc.auth.Me(context.Background(), "missing")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestHashPasswordIsSalted(t *testing.T) {
	a, err := HashPassword("secret123")
	require.NoError(t, err)
	b, err := HashPassword("secret123")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, VerifyPassword("secret123", a))
	assert.False(t, VerifyPassword("secret124", a))
}
