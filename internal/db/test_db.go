package db

import (
	"fmt"
	"log"

	"github.com/forkspot/forkspot-backend/internal/app/model"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	// Run migrations
	err = db.AutoMigrate(
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
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	return db, nil
}

// CleanupTestDB cleans up the test database
func CleanupTestDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Failed to get DB instance: %v", err)
		return
	}
	sqlDB.Close()
}

// TruncateAllTables removes all data from tables
func TruncateAllTables(db *gorm.DB) error {
	tables := []string{
		"order_status_events", "order_items", "orders",
		"bookings",
		"review_replies", "review_likes", "review_photos", "reviews",
		"menu_items", "menu_categories", "restaurant_images", "restaurants",
		"favorite_orders", "recently_viewed", "bookmarks", "user_follows",
		"addresses", "users",
	}
	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return err
		}
	}
	return nil
}
