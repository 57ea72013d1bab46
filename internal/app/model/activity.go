package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Bookmark marks a restaurant saved by a user.
type Bookmark struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID       uint `gorm:"not null;index:idx_user_restaurant_bookmark,unique" json:"user_id"`
	RestaurantID uint `gorm:"not null;index:idx_user_restaurant_bookmark,unique" json:"restaurant_id"`

	Restaurant Restaurant `gorm:"foreignKey:RestaurantID" json:"restaurant,omitempty"`
}

func (Bookmark) TableName() string {
	return "bookmarks"
}

// RecentlyViewed records a restaurant visit on a user's profile. The
// service keeps the list deduplicated by restaurant and capped at 20,
// most recent first.
type RecentlyViewed struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	RestaurantID uint      `gorm:"not null" json:"restaurant_id"`
	ViewedAt     time.Time `gorm:"not null" json:"viewed_at"`

	Restaurant Restaurant `gorm:"foreignKey:RestaurantID" json:"restaurant,omitempty"`
}

func (RecentlyViewed) TableName() string {
	return "recently_viewed"
}

// FavoriteItem is one line of a favorited order snapshot.
type FavoriteItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// FavoriteItems is stored as a JSON column.
type FavoriteItems []FavoriteItem

func (f FavoriteItems) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	return json.Marshal(f)
}

func (f *FavoriteItems) Scan(value interface{}) error {
	if value == nil {
		*f = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			bytes = []byte(s)
		} else {
			return errors.New("failed to scan FavoriteItems")
		}
	}
	return json.Unmarshal(bytes, f)
}

// FavoriteOrder is a reorderable snapshot of a past order.
type FavoriteOrder struct {
	ID           uint          `gorm:"primarykey" json:"id"`
	UserID       uint          `gorm:"not null;index" json:"user_id"`
	RestaurantID uint          `gorm:"not null" json:"restaurant_id"`
	Items        FavoriteItems `gorm:"type:text" json:"items"`
	TotalPrice   float64       `json:"total_price"`
	CreatedAt    time.Time     `json:"created_at"`

	Restaurant Restaurant `gorm:"foreignKey:RestaurantID" json:"restaurant,omitempty"`
}

func (FavoriteOrder) TableName() string {
	return "favorite_orders"
}
