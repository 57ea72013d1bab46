package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/forkspot/forkspot-backend/config"
	"github.com/forkspot/forkspot-backend/internal/app/model"
	"github.com/forkspot/forkspot-backend/internal/app/repository"
	"github.com/forkspot/forkspot-backend/internal/db"
	"github.com/forkspot/forkspot-backend/pkg/util"
)

func setupAuthServiceTest(t *testing.T) (AuthService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:             "test-secret",
			AccessTokenExpiry:  time.Hour,
			RefreshTokenExpiry: 24 * time.Hour,
		},
		OTP: config.OTPConfig{
			Expiry: 5 * time.Minute,
		},
	}

	userRepo := repository.NewUserRepository(testDB)
	return NewAuthService(userRepo, cfg), testDB
}

func TestAuthService_Register_Success(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	user, err := authService.Register(RegisterInput{
		Name:     "New User",
		Email:    "new@example.com",
		Phone:    "9876543210",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.False(t, user.IsVerified)

	// Password is stored hashed, never in the clear.
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.True(t, util.VerifyPassword(user.PasswordHash, "password123"))

	// Registration issues a verification OTP.
	assert.Len(t, user.OTPCode, 6)
	require.NotNil(t, user.OTPExpiresAt)
	assert.True(t, user.OTPExpiresAt.After(time.Now()))
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, err := authService.Register(RegisterInput{
		Name: "A", Email: "dup@example.com", Password: "password123",
	})
	require.NoError(t, err)

	_, err = authService.Register(RegisterInput{
		Name: "B", Email: "dup@example.com", Password: "password456",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_Register_DuplicatePhone(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, err := authService.Register(RegisterInput{
		Name: "A", Email: "a@example.com", Phone: "9000000001", Password: "password123",
	})
	require.NoError(t, err)

	_, err = authService.Register(RegisterInput{
		Name: "B", Email: "b@example.com", Phone: "9000000001", Password: "password456",
	})
	assert.ErrorIs(t, err, ErrPhoneTaken)
}

func TestAuthService_Login(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, err := authService.Register(RegisterInput{
		Name: "Login User", Email: "login@example.com", Password: "password123",
	})
	require.NoError(t, err)

	user, tokens, err := authService.Login("login@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "login@example.com", user.Email)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	_, _, err = authService.Login("login@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = authService.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_OTPFlow(t *testing.T) {
	authService, testDB := setupAuthServiceTest(t)

	// Requesting an OTP for an unknown phone provisions a placeholder account.
	user, err := authService.RequestOTP("9123456789")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Len(t, user.OTPCode, 6)

	verified, tokens, err := authService.VerifyOTP("9123456789", user.OTPCode)
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)
	assert.NotEmpty(t, tokens.AccessToken)

	// The code is single-use.
	var reloaded model.User
	require.NoError(t, testDB.First(&reloaded, user.ID).Error)
	assert.Empty(t, reloaded.OTPCode)

	_, _, err = authService.VerifyOTP("9123456789", user.OTPCode)
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestAuthService_VerifyOTP_WrongCode(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	user, err := authService.RequestOTP("9123456780")
	require.NoError(t, err)

	wrong := "000000"
	if user.OTPCode == wrong {
		wrong = "000001"
	}
	_, _, err = authService.VerifyOTP("9123456780", wrong)
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestAuthService_VerifyOTP_Expired(t *testing.T) {
	authService, testDB := setupAuthServiceTest(t)

	user, err := authService.RequestOTP("9123456781")
	require.NoError(t, err)

	expired := time.Now().Add(-time.Minute)
	require.NoError(t, testDB.Model(&model.User{}).Where("id = ?", user.ID).
		Update("otp_expires_at", expired).Error)

	_, _, err = authService.VerifyOTP("9123456781", user.OTPCode)
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestAuthService_RefreshTokens(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, err := authService.Register(RegisterInput{
		Name: "Refresh User", Email: "refresh@example.com", Password: "password123",
	})
	require.NoError(t, err)

	_, tokens, err := authService.Login("refresh@example.com", "password123")
	require.NoError(t, err)

	refreshed, err := authService.RefreshTokens(tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEmpty(t, refreshed.RefreshToken)

	// An access token cannot be used as a refresh token.
	_, err = authService.RefreshTokens(tokens.AccessToken)
	assert.ErrorIs(t, err, util.ErrInvalidToken)
}
