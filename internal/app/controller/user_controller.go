package controller

import (
	"net/http"
	"strconv"

	"github.com/forkspot/forkspot-backend/internal/app/model"
	"github.com/forkspot/forkspot-backend/internal/app/service"
	"github.com/forkspot/forkspot-backend/internal/errors"
	"github.com/forkspot/forkspot-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type UserController struct {
	userService service.UserService
}

func NewUserController(userService service.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

type UpdateProfileRequest struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone" binding:"omitempty,len=10,numeric"`
	ProfileImage *string `json:"profile_image"`
	Bio          *string `json:"bio"`
}

type AddressRequest struct {
	Label        string `json:"label" binding:"required"`
	AddressLine1 string `json:"address_line1" binding:"required"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city" binding:"required"`
	State        string `json:"state" binding:"required"`
	Pincode      string `json:"pincode" binding:"required,len=6,numeric"`
	Landmark     string `json:"landmark"`
	IsDefault    bool   `json:"is_default"`
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	idStr := c.Param(name)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// UpdateProfile updates the caller's profile fields
// PUT /api/v1/users/me
func (ctrl *UserController) UpdateProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid profile data")
		return
	}

	user, err := ctrl.userService.UpdateProfile(userID, service.UpdateProfileInput{
		Name:         req.Name,
		Phone:        req.Phone,
		ProfileImage: req.ProfileImage,
		Bio:          req.Bio,
	})
	if err != nil {
		log.Error("Failed to update profile", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.InternalError(c, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}

// GetProfile returns a user's public profile
// GET /api/v1/users/:id
func (ctrl *UserController) GetProfile(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := ctrl.userService.GetProfile(userID)
	if err != nil {
		switch err {
		case service.ErrUserNotFound:
			errors.NotFound(c, errors.UserNotFound, "User not found")
		default:
			errors.InternalError(c, "Failed to fetch profile")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}

// AddAddress saves a new address
// POST /api/v1/users/me/addresses
func (ctrl *UserController) AddAddress(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid address data")
		return
	}

	address, err := ctrl.userService.AddAddress(userID, &model.Address{
		Label:        req.Label,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		Pincode:      req.Pincode,
		Landmark:     req.Landmark,
		IsDefault:    req.IsDefault,
	})
	if err != nil {
		errors.InternalError(c, "Failed to save address")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"address": address,
	})
}

// GetAddresses lists the caller's addresses
// GET /api/v1/users/me/addresses
func (ctrl *UserController) GetAddresses(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	addresses, err := ctrl.userService.GetAddresses(userID)
	if err != nil {
		errors.InternalError(c, "Failed to fetch addresses")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"addresses": addresses,
		"count":     len(addresses),
	})
}

// UpdateAddress edits one of the caller's addresses
// PUT /api/v1/users/me/addresses/:id
func (ctrl *UserController) UpdateAddress(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	addressID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid address data")
		return
	}

	address, err := ctrl.userService.UpdateAddress(userID, addressID, &model.Address{
		Label:        req.Label,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		Pincode:      req.Pincode,
		Landmark:     req.Landmark,
	})
	if err != nil {
		switch err {
		case service.ErrAddressNotFound:
			errors.NotFound(c, errors.AddressNotFound, "Address not found")
		case service.ErrForbidden:
			errors.Forbidden(c, "You cannot modify this address")
		default:
			errors.InternalError(c, "Failed to update address")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address": address,
	})
}

// DeleteAddress removes one of the caller's addresses
// DELETE /api/v1/users/me/addresses/:id
func (ctrl *UserController) DeleteAddress(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	addressID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.userService.DeleteAddress(userID, addressID); err != nil {
		switch err {
		case service.ErrAddressNotFound:
			errors.NotFound(c, errors.AddressNotFound, "Address not found")
		case service.ErrForbidden:
			errors.Forbidden(c, "You cannot delete this address")
		default:
			errors.InternalError(c, "Failed to delete address")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Address deleted",
	})
}

// SetDefaultAddress marks an address as the default
// PUT /api/v1/users/me/addresses/:id/default
func (ctrl *UserController) SetDefaultAddress(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	addressID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.userService.SetDefaultAddress(userID, addressID); err != nil {
		switch err {
		case service.ErrAddressNotFound:
			errors.NotFound(c, errors.AddressNotFound, "Address not found")
		case service.ErrForbidden:
			errors.Forbidden(c, "You cannot modify this address")
		default:
			errors.InternalError(c, "Failed to set default address")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Default address updated",
	})
}

// Follow follows another user
// POST /api/v1/users/:id/follow
func (ctrl *UserController) Follow(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	targetID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.userService.Follow(userID, targetID); err != nil {
		switch err {
		case service.ErrSelfFollow:
			errors.BadRequest(c, errors.CannotFollowSelf, "You cannot follow yourself")
		case service.ErrUserNotFound:
			errors.NotFound(c, errors.UserNotFound, "User not found")
		default:
			errors.InternalError(c, "Failed to follow user")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Followed",
	})
}

// Unfollow unfollows another user
// DELETE /api/v1/users/:id/follow
func (ctrl *UserController) Unfollow(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	targetID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.userService.Unfollow(userID, targetID); err != nil {
		errors.InternalError(c, "Failed to unfollow user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Unfollowed",
	})
}

// GetFollowers lists users following the given user
// GET /api/v1/users/:id/followers
func (ctrl *UserController) GetFollowers(c *gin.Context) {
	targetID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	followers, err := ctrl.userService.GetFollowers(targetID)
	if err != nil {
		errors.InternalError(c, "Failed to fetch followers")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"followers": followers,
		"count":     len(followers),
	})
}

// GetFollowing lists users the given user follows
// GET /api/v1/users/:id/following
func (ctrl *UserController) GetFollowing(c *gin.Context) {
	targetID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	following, err := ctrl.userService.GetFollowing(targetID)
	if err != nil {
		errors.InternalError(c, "Failed to fetch following")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"following": following,
		"count":     len(following),
	})
}

// ToggleBookmark bookmarks or unbookmarks a restaurant
// POST /api/v1/users/me/bookmarks/:restaurantId
func (ctrl *UserController) ToggleBookmark(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	restaurantID, ok := parseIDParam(c, "restaurantId")
	if !ok {
		return
	}

	bookmarked, err := ctrl.userService.ToggleBookmark(userID, restaurantID)
	if err != nil {
		errors.InternalError(c, "Failed to toggle bookmark")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookmarked": bookmarked,
	})
}

// GetBookmarks lists the caller's bookmarked restaurants
// GET /api/v1/users/me/bookmarks
func (ctrl *UserController) GetBookmarks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	bookmarks, err := ctrl.userService.GetBookmarks(userID)
	if err != nil {
		errors.InternalError(c, "Failed to fetch bookmarks")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookmarks": bookmarks,
		"count":     len(bookmarks),
	})
}

// GetRecentlyViewed lists the caller's recently viewed restaurants
// GET /api/v1/users/me/recently-viewed
func (ctrl *UserController) GetRecentlyViewed(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	entries, err := ctrl.userService.GetRecentlyViewed(userID)
	if err != nil {
		errors.InternalError(c, "Failed to fetch recently viewed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recently_viewed": entries,
		"count":           len(entries),
	})
}

// SaveFavoriteOrder snapshots one of the caller's orders
// POST /api/v1/users/me/favorite-orders/:orderId
func (ctrl *UserController) SaveFavoriteOrder(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}

	favorite, err := ctrl.userService.SaveFavoriteOrder(userID, orderID)
	if err != nil {
		switch err {
		case service.ErrOrderNotFound:
			errors.NotFound(c, errors.OrderNotFound, "Order not found")
		case service.ErrForbidden:
			errors.Forbidden(c, "You cannot favorite this order")
		default:
			errors.InternalError(c, "Failed to save favorite order")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"favorite": favorite,
	})
}

// RemoveFavoriteOrder deletes a favorite order snapshot
// DELETE /api/v1/users/me/favorite-orders/:id
func (ctrl *UserController) RemoveFavoriteOrder(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	favoriteID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.userService.RemoveFavoriteOrder(userID, favoriteID); err != nil {
		errors.InternalError(c, "Failed to remove favorite order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Favorite order removed",
	})
}

// GetFavoriteOrders lists the caller's favorite order snapshots
// GET /api/v1/users/me/favorite-orders
func (ctrl *UserController) GetFavoriteOrders(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	favorites, err := ctrl.userService.GetFavoriteOrders(userID)
	if err != nil {
		errors.InternalError(c, "Failed to fetch favorite orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"favorites": favorites,
		"count":     len(favorites),
	})
}
