package controller

import (
	"net/http"
	"strconv"

	"github.com/forkspot/forkspot-backend/internal/app/service"
	"github.com/forkspot/forkspot-backend/internal/errors"
	"github.com/forkspot/forkspot-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
	}
}

type CreateReviewRequest struct {
	Rating      int      `json:"rating" binding:"required,min=1,max=5"`
	Title       string   `json:"title"`
	Comment     string   `json:"comment" binding:"required"`
	IsAnonymous bool     `json:"is_anonymous"`
	Photos      []string `json:"photos" binding:"omitempty,dive,url"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Title   *string `json:"title"`
	Comment *string `json:"comment"`
}

type ReplyRequest struct {
	Text string `json:"text" binding:"required"`
}

type ReviewPhotoRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// Create posts a review on a restaurant
// POST /api/v1/restaurants/:id/reviews
func (ctrl *ReviewController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	restaurantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid review data")
		return
	}

	review, err := ctrl.reviewService.CreateReview(userID, service.CreateReviewInput{
		RestaurantID: restaurantID,
		Rating:       req.Rating,
		Title:        req.Title,
		Comment:      req.Comment,
		IsAnonymous:  req.IsAnonymous,
		PhotoURLs:    req.Photos,
	})
	if err != nil {
		switch err {
		case service.ErrRestaurantNotFound:
			errors.NotFound(c, errors.RestaurantNotFound, "Restaurant not found")
		case service.ErrReviewAlreadyExists:
			errors.Conflict(c, errors.ReviewAlreadyExists, "You have already reviewed this restaurant")
		case service.ErrInvalidRating:
			errors.BadRequest(c, errors.ReviewInvalidRating, "Rating must be between 1 and 5")
		case service.ErrRatingSync:
			// The review itself is saved; only the aggregate lagged.
			log.Error("Rating aggregate out of sync after create", err, map[string]interface{}{
				"restaurant_id": restaurantID,
			})
			errors.RespondWithError(c, http.StatusInternalServerError, errors.InternalRatingSync, "Review saved but rating update failed")
		default:
			log.Error("Failed to create review", err, map[string]interface{}{
				"user_id":       userID,
				"restaurant_id": restaurantID,
			})
			errors.InternalError(c, "Failed to create review")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"review": review,
	})
}

// ListByRestaurant returns all reviews of a restaurant
// GET /api/v1/restaurants/:id/reviews
func (ctrl *ReviewController) ListByRestaurant(c *gin.Context) {
	restaurantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	rating, _ := strconv.Atoi(c.Query("rating"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	reviews, total, err := ctrl.reviewService.GetRestaurantReviews(restaurantID, rating, limit, offset)
	if err != nil {
		errors.InternalError(c, "Failed to fetch reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// MyReviews returns the caller's reviews
// GET /api/v1/reviews/mine
func (ctrl *ReviewController) MyReviews(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	reviews, err := ctrl.reviewService.GetUserReviews(userID)
	if err != nil {
		errors.InternalError(c, "Failed to fetch reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// Update edits the caller's review
// PUT /api/v1/reviews/:id
func (ctrl *ReviewController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid review data")
		return
	}

	review, err := ctrl.reviewService.UpdateReview(userID, reviewID, service.UpdateReviewInput{
		Rating:  req.Rating,
		Title:   req.Title,
		Comment: req.Comment,
	})
	if err != nil {
		switch err {
		case service.ErrReviewNotFound:
			errors.NotFound(c, errors.ReviewNotFound, "Review not found")
		case service.ErrForbidden:
			errors.Forbidden(c, "You cannot edit this review")
		case service.ErrInvalidRating:
			errors.BadRequest(c, errors.ReviewInvalidRating, "Rating must be between 1 and 5")
		case service.ErrRatingSync:
			log.Error("Rating aggregate out of sync after update", err, map[string]interface{}{
				"review_id": reviewID,
			})
			errors.RespondWithError(c, http.StatusInternalServerError, errors.InternalRatingSync, "Review saved but rating update failed")
		default:
			errors.InternalError(c, "Failed to update review")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"review": review,
	})
}

// Delete removes a review (author or admin)
// DELETE /api/v1/reviews/:id
func (ctrl *ReviewController) Delete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}
	role, _ := middleware.GetUserRole(c)

	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.reviewService.DeleteReview(userID, role, reviewID); err != nil {
		switch err {
		case service.ErrReviewNotFound:
			errors.NotFound(c, errors.ReviewNotFound, "Review not found")
		case service.ErrForbidden:
			errors.Forbidden(c, "You cannot delete this review")
		case service.ErrRatingSync:
			log.Error("Rating aggregate out of sync after delete", err, map[string]interface{}{
				"review_id": reviewID,
			})
			errors.RespondWithError(c, http.StatusInternalServerError, errors.InternalRatingSync, "Review deleted but rating update failed")
		default:
			errors.InternalError(c, "Failed to delete review")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review deleted",
	})
}

// ToggleLike likes or unlikes a review for the caller
// POST /api/v1/reviews/:id/like
func (ctrl *ReviewController) ToggleLike(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	liked, err := ctrl.reviewService.ToggleLike(userID, reviewID)
	if err != nil {
		if err == service.ErrReviewNotFound {
			errors.NotFound(c, errors.ReviewNotFound, "Review not found")
			return
		}
		errors.InternalError(c, "Failed to toggle like")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"liked": liked,
	})
}

// Reply adds a reply to a review's thread
// POST /api/v1/reviews/:id/replies
func (ctrl *ReviewController) Reply(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Reply text required")
		return
	}

	reply, err := ctrl.reviewService.AddReply(userID, reviewID, req.Text)
	if err != nil {
		if err == service.ErrReviewNotFound {
			errors.NotFound(c, errors.ReviewNotFound, "Review not found")
			return
		}
		errors.InternalError(c, "Failed to add reply")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"reply": reply,
	})
}

// AddPhoto registers an uploaded image against the caller's review
// POST /api/v1/reviews/:id/photos
func (ctrl *ReviewController) AddPhoto(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ReviewPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Photo URL required")
		return
	}

	photo, err := ctrl.reviewService.AddPhoto(userID, reviewID, req.URL)
	if err != nil {
		switch err {
		case service.ErrReviewNotFound:
			errors.NotFound(c, errors.ReviewNotFound, "Review not found")
		case service.ErrForbidden:
			errors.Forbidden(c, "You cannot add photos to this review")
		default:
			errors.InternalError(c, "Failed to add photo")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"photo": photo,
	})
}
