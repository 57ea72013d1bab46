package service

import (
	"context"
	"errors"
	"time"

	"github.com/forkspot/forkspot-backend/config"
	"github.com/forkspot/forkspot-backend/internal/app/model"
	"github.com/forkspot/forkspot-backend/internal/app/repository"
	"github.com/forkspot/forkspot-backend/pkg/logger"
	"github.com/forkspot/forkspot-backend/pkg/redis"
	"github.com/forkspot/forkspot-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrPhoneTaken         = errors.New("phone number is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidOTP         = errors.New("invalid or expired OTP")
)

type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     model.UserRole
}

type AuthService interface {
	Register(input RegisterInput) (*model.User, error)
	Login(email, password string) (*model.User, *util.TokenPair, error)
	RequestOTP(phone string) (*model.User, error)
	VerifyOTP(phone, code string) (*model.User, *util.TokenPair, error)
	RefreshTokens(refreshToken string) (*util.TokenPair, error)
	Logout(ctx context.Context, token string) error
	GetMe(userID uint) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

func (s *authService) Register(input RegisterInput) (*model.User, error) {
	logger.Info("Registering user", map[string]interface{}{
		"email": input.Email,
	})

	if _, err := s.userRepo.FindByEmail(input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if input.Phone != "" {
		if _, err := s.userRepo.FindByPhone(input.Phone); err == nil {
			return nil, ErrPhoneTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	hash, err := util.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = model.RoleUser
	}

	expiry := time.Now().Add(s.cfg.OTP.Expiry)
	user := &model.User{
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: hash,
		Role:         role,
		OTPCode:      util.GenerateOTP(),
		OTPExpiresAt: &expiry,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	// Delivery of the OTP (SMS/email) happens outside this service; the
	// code is only logged in development setups.
	logger.Debug("Verification OTP issued", map[string]interface{}{
		"user_id": user.ID,
	})

	logger.Info("User registered", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return user, nil
}

func (s *authService) Login(email, password string) (*model.User, *util.TokenPair, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: wrong password", map[string]interface{}{
			"email": email,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("User logged in", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, tokens, nil
}

// RequestOTP issues a fresh OTP for the phone number, creating a placeholder
// account on first contact.
func (s *authService) RequestOTP(phone string) (*model.User, error) {
	user, err := s.userRepo.FindByPhone(phone)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		placeholder, err := util.HashPassword(util.GenerateConfirmationCode(16))
		if err != nil {
			return nil, err
		}
		user = &model.User{
			Name:         "Guest",
			Email:        phone + "@placeholder.forkspot.local",
			Phone:        phone,
			PasswordHash: placeholder,
			Role:         model.RoleUser,
		}
		if err := s.userRepo.Create(user); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	expiry := time.Now().Add(s.cfg.OTP.Expiry)
	user.OTPCode = util.GenerateOTP()
	user.OTPExpiresAt = &expiry
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	logger.Info("OTP requested", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, nil
}

func (s *authService) VerifyOTP(phone, code string) (*model.User, *util.TokenPair, error) {
	user, err := s.userRepo.FindByPhone(phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}

	if user.OTPCode == "" || user.OTPCode != code ||
		user.OTPExpiresAt == nil || time.Now().After(*user.OTPExpiresAt) {
		logger.Warn("OTP verification failed", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, ErrInvalidOTP
	}

	user.IsVerified = true
	user.OTPCode = ""
	user.OTPExpiresAt = nil
	if err := s.userRepo.Update(user); err != nil {
		return nil, nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("OTP verified", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, tokens, nil
}

func (s *authService) RefreshTokens(refreshToken string) (*util.TokenPair, error) {
	claims, err := util.ValidateToken(refreshToken, s.cfg.JWT.Secret)
	if err != nil {
		return nil, err
	}
	if claims.Type != "refresh" {
		return nil, util.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.issueTokens(user)
}

// Logout revokes the presented access token for the remainder of its
// lifetime. Revocation is best effort when Redis is unavailable.
func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := util.ValidateToken(token, s.cfg.JWT.Secret)
	if err != nil {
		return err
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := redis.RevokeToken(ctx, token, ttl); err != nil {
		logger.Warn("Failed to revoke token", map[string]interface{}{
			"user_id": claims.UserID,
		})
	}

	logger.Info("User logged out", map[string]interface{}{
		"user_id": claims.UserID,
	})
	return nil
}

func (s *authService) GetMe(userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) issueTokens(user *model.User) (*util.TokenPair, error) {
	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Email,
		string(user.Role),
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenExpiry,
		s.cfg.JWT.RefreshTokenExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}
	return tokens, nil
}
