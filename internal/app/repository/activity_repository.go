package repository

import (
	"time"

	"github.com/forkspot/forkspot-backend/internal/app/model"
	"github.com/forkspot/forkspot-backend/pkg/logger"
	"gorm.io/gorm"
)

const recentlyViewedLimit = 20

// ActivityRepository covers per-user activity lists: bookmarks, recently
// viewed restaurants and favorited orders.
type ActivityRepository interface {
	AddBookmark(userID, restaurantID uint) error
	RemoveBookmark(userID, restaurantID uint) error
	IsBookmarked(userID, restaurantID uint) (bool, error)
	FindBookmarks(userID uint) ([]model.Bookmark, error)

	RecordView(userID, restaurantID uint) error
	FindRecentlyViewed(userID uint) ([]model.RecentlyViewed, error)

	AddFavoriteOrder(favorite *model.FavoriteOrder) error
	RemoveFavoriteOrder(userID, favoriteID uint) error
	FindFavoriteOrders(userID uint) ([]model.FavoriteOrder, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) AddBookmark(userID, restaurantID uint) error {
	bookmark := model.Bookmark{
		UserID:       userID,
		RestaurantID: restaurantID,
	}
	if err := r.db.Create(&bookmark).Error; err != nil {
		logger.Error("Failed to create bookmark in database", err, map[string]interface{}{
			"user_id":       userID,
			"restaurant_id": restaurantID,
		})
		return err
	}
	return nil
}

func (r *activityRepository) RemoveBookmark(userID, restaurantID uint) error {
	if err := r.db.Where("user_id = ? AND restaurant_id = ?", userID, restaurantID).
		Delete(&model.Bookmark{}).Error; err != nil {
		logger.Error("Failed to delete bookmark in database", err, map[string]interface{}{
			"user_id":       userID,
			"restaurant_id": restaurantID,
		})
		return err
	}
	return nil
}

func (r *activityRepository) IsBookmarked(userID, restaurantID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Bookmark{}).
		Where("user_id = ? AND restaurant_id = ?", userID, restaurantID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *activityRepository) FindBookmarks(userID uint) ([]model.Bookmark, error) {
	var bookmarks []model.Bookmark
	err := r.db.Preload("Restaurant").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookmarks).Error
	if err != nil {
		logger.Error("Failed to find bookmarks in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return bookmarks, nil
}

// RecordView upserts the restaurant into the user's recently viewed list and
// trims the list to the newest entries.
func (r *activityRepository) RecordView(userID, restaurantID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing model.RecentlyViewed
		err := tx.Where("user_id = ? AND restaurant_id = ?", userID, restaurantID).
			First(&existing).Error
		switch {
		case err == nil:
			existing.ViewedAt = time.Now()
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
		case err == gorm.ErrRecordNotFound:
			entry := model.RecentlyViewed{
				UserID:       userID,
				RestaurantID: restaurantID,
				ViewedAt:     time.Now(),
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		default:
			return err
		}

		var staleIDs []uint
		if err := tx.Model(&model.RecentlyViewed{}).
			Where("user_id = ?", userID).
			Order("viewed_at DESC").
			Offset(recentlyViewedLimit).
			Pluck("id", &staleIDs).Error; err != nil {
			return err
		}
		if len(staleIDs) > 0 {
			if err := tx.Delete(&model.RecentlyViewed{}, staleIDs).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *activityRepository) FindRecentlyViewed(userID uint) ([]model.RecentlyViewed, error) {
	var entries []model.RecentlyViewed
	err := r.db.Preload("Restaurant").
		Where("user_id = ?", userID).
		Order("viewed_at DESC").
		Limit(recentlyViewedLimit).
		Find(&entries).Error
	if err != nil {
		logger.Error("Failed to find recently viewed in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return entries, nil
}

func (r *activityRepository) AddFavoriteOrder(favorite *model.FavoriteOrder) error {
	if err := r.db.Create(favorite).Error; err != nil {
		logger.Error("Failed to create favorite order in database", err, map[string]interface{}{
			"user_id":       favorite.UserID,
			"restaurant_id": favorite.RestaurantID,
		})
		return err
	}
	return nil
}

func (r *activityRepository) RemoveFavoriteOrder(userID, favoriteID uint) error {
	if err := r.db.Where("id = ? AND user_id = ?", favoriteID, userID).
		Delete(&model.FavoriteOrder{}).Error; err != nil {
		logger.Error("Failed to delete favorite order in database", err, map[string]interface{}{
			"user_id":     userID,
			"favorite_id": favoriteID,
		})
		return err
	}
	return nil
}

func (r *activityRepository) FindFavoriteOrders(userID uint) ([]model.FavoriteOrder, error) {
	var favorites []model.FavoriteOrder
	err := r.db.Preload("Restaurant").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil {
		logger.Error("Failed to find favorite orders in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return favorites, nil
}
