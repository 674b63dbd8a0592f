package service

import (
	"context"
	"testing"

	"github.com/SeptianProject/sirasa-sub000/internal/model"
	"github.com/SeptianProject/sirasa-sub000/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestAuthService(db *gorm.DB) AuthService {
	return NewAuthService(
		repository.NewUserRepository(db),
		repository.NewRefreshTokenRepository(db),
	)
}

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAuthService(db)

	user, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Siti",
		Email:    "siti@example.com",
		Password: "rahasia123",
	})
	require.NoError(t, err)
	assert.Equal(t, string(model.RoleUser), user.Role)
	assert.Equal(t, string(model.UserStatusApproved), user.Status)

	// Duplicate email is rejected.
	_, err = svc.Register(context.Background(), RegisterRequest{
		Name:     "Siti Kedua",
		Email:    "siti@example.com",
		Password: "rahasia123",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)

	tokens, err := svc.Login(context.Background(), LoginRequest{Email: "siti@example.com", Password: "rahasia123"})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.Token)
	assert.NotEmpty(t, tokens.RefreshToken)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "siti@example.com", Password: "salah"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "tidak-ada@example.com", Password: "rahasia123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshToken_Rotation(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAuthService(db)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Budi",
		Email:    "budi@example.com",
		Password: "rahasia123",
	})
	require.NoError(t, err)

	tokens, err := svc.Login(context.Background(), LoginRequest{Email: "budi@example.com", Password: "rahasia123"})
	require.NoError(t, err)

	rotated, err := svc.RefreshToken(context.Background(), RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	// The old token is single-use.
	_, err = svc.RefreshToken(context.Background(), RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetMe(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAuthService(db)

	created, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Dewi",
		Email:    "dewi@example.com",
		Password: "rahasia123",
	})
	require.NoError(t, err)

	me, err := svc.GetMe(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dewi", me.Name)
	assert.Equal(t, "dewi@example.com", me.Email)

	_, err = svc.GetMe(context.Background(), "4b1a2f9e-0000-4000-8000-000000000000")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
