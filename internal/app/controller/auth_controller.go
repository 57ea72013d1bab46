package controller

import (
	"net/http"
	"strings"

	"github.com/forkspot/forkspot-backend/internal/app/model"
	"github.com/forkspot/forkspot-backend/internal/app/service"
	"github.com/forkspot/forkspot-backend/internal/errors"
	"github.com/forkspot/forkspot-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"omitempty,len=10,numeric"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=user restaurant_owner"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type OTPRequest struct {
	Phone string `json:"phone" binding:"required,len=10,numeric"`
}

type VerifyOTPRequest struct {
	Phone string `json:"phone" binding:"required,len=10,numeric"`
	Code  string `json:"code" binding:"required,len=6,numeric"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Register creates a new account
// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid registration data")
		return
	}

	user, err := ctrl.authService.Register(service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     model.UserRole(req.Role),
	})
	if err != nil {
		switch err {
		case service.ErrEmailTaken:
			errors.Conflict(c, errors.AuthEmailAlreadyExists, "Email is already registered")
		case service.ErrPhoneTaken:
			errors.Conflict(c, errors.AuthPhoneAlreadyExists, "Phone number is already registered")
		default:
			log.Error("Registration failed", err, map[string]interface{}{
				"email": req.Email,
			})
			errors.InternalError(c, "Failed to register user")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user": user,
	})
}

// Login authenticates with email and password
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid login data")
		return
	}

	user, tokens, err := ctrl.authService.Login(req.Email, req.Password)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthInvalidCredentials, "Invalid email or password")
			return
		}
		log.Error("Login failed", err, map[string]interface{}{
			"email": req.Email,
		})
		errors.InternalError(c, "Failed to log in")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":          user,
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
	})
}

// RequestOTP sends a one-time passcode to the phone number
// POST /api/v1/auth/otp
func (ctrl *AuthController) RequestOTP(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req OTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid phone number")
		return
	}

	if _, err := ctrl.authService.RequestOTP(req.Phone); err != nil {
		log.Error("OTP request failed", err, nil)
		errors.InternalError(c, "Failed to send OTP")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "OTP sent",
	})
}

// VerifyOTP verifies the passcode and logs the user in
// POST /api/v1/auth/otp/verify
func (ctrl *AuthController) VerifyOTP(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid OTP data")
		return
	}

	user, tokens, err := ctrl.authService.VerifyOTP(req.Phone, req.Code)
	if err != nil {
		switch err {
		case service.ErrUserNotFound:
			errors.NotFound(c, errors.UserNotFound, "User not found")
		case service.ErrInvalidOTP:
			errors.BadRequest(c, errors.AuthCodeInvalid, "Invalid or expired OTP")
		default:
			log.Error("OTP verification failed", err, nil)
			errors.InternalError(c, "Failed to verify OTP")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":          user,
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
	})
}

// Refresh exchanges a refresh token for a new token pair
// POST /api/v1/auth/refresh
func (ctrl *AuthController) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Refresh token required")
		return
	}

	tokens, err := ctrl.authService.RefreshTokens(req.RefreshToken)
	if err != nil {
		errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Invalid refresh token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
	})
}

// Logout revokes the current access token
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	if err := ctrl.authService.Logout(c.Request.Context(), parts[1]); err != nil {
		errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Invalid token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out",
	})
}

// Me returns the authenticated user's profile
// GET /api/v1/auth/me
func (ctrl *AuthController) Me(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	user, err := ctrl.authService.GetMe(userID)
	if err != nil {
		if err == service.ErrUserNotFound {
			errors.NotFound(c, errors.UserNotFound, "User not found")
			return
		}
		errors.InternalError(c, "Failed to fetch profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}
