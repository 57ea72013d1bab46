package db

import (
	"github.com/forkspot/forkspot-backend/internal/app/model"
	"github.com/forkspot/forkspot-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Address{},
		&model.UserFollow{},
		&model.Bookmark{},
		&model.RecentlyViewed{},
		&model.FavoriteOrder{},
		&model.Restaurant{},
		&model.RestaurantImage{},
		&model.MenuCategory{},
		&model.MenuItem{},
		&model.Review{},
		&model.ReviewPhoto{},
		&model.ReviewLike{},
		&model.ReviewReply{},
		&model.Order{},
		&model.OrderItem{},
		&model.OrderStatusEvent{},
		&model.Booking{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
