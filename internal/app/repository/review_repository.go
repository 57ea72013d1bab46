package repository

import (
	"github.com/forkspot/forkspot-backend/internal/app/model"
	"github.com/forkspot/forkspot-backend/pkg/logger"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(review *model.Review) error
	FindByID(id uint) (*model.Review, error)
	FindByRestaurantID(restaurantID uint, rating, limit, offset int) ([]model.Review, int64, error)
	FindByUserID(userID uint) ([]model.Review, error)
	FindByUserAndRestaurant(userID, restaurantID uint) (*model.Review, error)
	Update(review *model.Review) error
	Delete(id uint) error

	// RatingsForRestaurant returns the raw rating values of every review on
	// the restaurant, for aggregate recomputation.
	RatingsForRestaurant(restaurantID uint) ([]int, error)

	AddLike(reviewID, userID uint) error
	RemoveLike(reviewID, userID uint) error
	HasLiked(reviewID, userID uint) (bool, error)
	CountLikes(reviewID uint) (int64, error)

	AddReply(reply *model.ReviewReply) error
	AddPhoto(photo *model.ReviewPhoto) error
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) preloadReview() *gorm.DB {
	return r.db.Preload("User").
		Preload("Photos").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Preload("User").Order("review_replies.created_at ASC")
		})
}

func (r *reviewRepository) Create(review *model.Review) error {
	logger.Debug("Creating review in database", map[string]interface{}{
		"user_id":       review.UserID,
		"restaurant_id": review.RestaurantID,
		"rating":        review.Rating,
	})

	if err := r.db.Create(review).Error; err != nil {
		logger.Error("Failed to create review in database", err, map[string]interface{}{
			"user_id":       review.UserID,
			"restaurant_id": review.RestaurantID,
		})
		return err
	}

	logger.Debug("Review created in database", map[string]interface{}{
		"review_id": review.ID,
	})
	return nil
}

func (r *reviewRepository) FindByID(id uint) (*model.Review, error) {
	var review model.Review
	if err := r.preloadReview().First(&review, id).Error; err != nil {
		logger.Error("Failed to find review by ID in database", err, map[string]interface{}{
			"review_id": id,
		})
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByRestaurantID(restaurantID uint, rating, limit, offset int) ([]model.Review, int64, error) {
	query := r.preloadReview().Where("restaurant_id = ?", restaurantID)
	countQuery := r.db.Model(&model.Review{}).Where("restaurant_id = ?", restaurantID)
	if rating >= 1 && rating <= 5 {
		query = query.Where("rating = ?", rating)
		countQuery = countQuery.Where("rating = ?", rating)
	}

	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var reviews []model.Review
	err := query.Order("created_at DESC").Find(&reviews).Error
	if err != nil {
		logger.Error("Failed to find reviews by restaurant in database", err, map[string]interface{}{
			"restaurant_id": restaurantID,
		})
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *reviewRepository) FindByUserID(userID uint) ([]model.Review, error) {
	var reviews []model.Review
	err := r.preloadReview().
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		logger.Error("Failed to find reviews by user in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) FindByUserAndRestaurant(userID, restaurantID uint) (*model.Review, error) {
	var review model.Review
	err := r.db.Where("user_id = ? AND restaurant_id = ?", userID, restaurantID).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) Update(review *model.Review) error {
	if err := r.db.Save(review).Error; err != nil {
		logger.Error("Failed to update review in database", err, map[string]interface{}{
			"review_id": review.ID,
		})
		return err
	}
	return nil
}

// Delete removes the review permanently. A soft-deleted row would keep
// occupying the (user_id, restaurant_id) unique slot and block re-reviewing.
func (r *reviewRepository) Delete(id uint) error {
	logger.Debug("Deleting review from database", map[string]interface{}{
		"review_id": id,
	})

	if err := r.db.Unscoped().Delete(&model.Review{}, id).Error; err != nil {
		logger.Error("Failed to delete review from database", err, map[string]interface{}{
			"review_id": id,
		})
		return err
	}
	return nil
}

func (r *reviewRepository) RatingsForRestaurant(restaurantID uint) ([]int, error) {
	var ratings []int
	err := r.db.Model(&model.Review{}).
		Where("restaurant_id = ?", restaurantID).
		Pluck("rating", &ratings).Error
	if err != nil {
		logger.Error("Failed to load ratings for restaurant in database", err, map[string]interface{}{
			"restaurant_id": restaurantID,
		})
		return nil, err
	}
	return ratings, nil
}

func (r *reviewRepository) AddLike(reviewID, userID uint) error {
	like := model.ReviewLike{
		ReviewID: reviewID,
		UserID:   userID,
	}
	if err := r.db.Create(&like).Error; err != nil {
		logger.Error("Failed to create review like in database", err, map[string]interface{}{
			"review_id": reviewID,
			"user_id":   userID,
		})
		return err
	}
	return nil
}

func (r *reviewRepository) RemoveLike(reviewID, userID uint) error {
	if err := r.db.Where("review_id = ? AND user_id = ?", reviewID, userID).
		Delete(&model.ReviewLike{}).Error; err != nil {
		logger.Error("Failed to delete review like in database", err, map[string]interface{}{
			"review_id": reviewID,
			"user_id":   userID,
		})
		return err
	}
	return nil
}

func (r *reviewRepository) HasLiked(reviewID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.ReviewLike{}).
		Where("review_id = ? AND user_id = ?", reviewID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *reviewRepository) CountLikes(reviewID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.ReviewLike{}).
		Where("review_id = ?", reviewID).
		Count(&count).Error
	return count, err
}

func (r *reviewRepository) AddReply(reply *model.ReviewReply) error {
	if err := r.db.Create(reply).Error; err != nil {
		logger.Error("Failed to create review reply in database", err, map[string]interface{}{
			"review_id": reply.ReviewID,
			"user_id":   reply.UserID,
		})
		return err
	}
	return nil
}

func (r *reviewRepository) AddPhoto(photo *model.ReviewPhoto) error {
	if err := r.db.Create(photo).Error; err != nil {
		logger.Error("Failed to create review photo in database", err, map[string]interface{}{
			"review_id": photo.ReviewID,
		})
		return err
	}
	return nil
}
