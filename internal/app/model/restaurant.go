package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// StringArray stores a []string as a JSON column, portable across
// Postgres and the SQLite test database.
type StringArray []string

func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if str, ok := value.(string); ok {
			bytes = []byte(str)
		} else {
			return errors.New("failed to scan StringArray")
		}
	}
	return json.Unmarshal(bytes, s)
}

type RestaurantCategory string

const (
	CategoryOrderOnline RestaurantCategory = "order-online"
	CategoryDiningOut   RestaurantCategory = "dining-out"
	CategoryProPlus     RestaurantCategory = "pro-and-pro-plus"
	CategoryNightLife   RestaurantCategory = "night-life"
)

// DayHours is the opening window for one weekday.
type DayHours struct {
	Open   string `json:"open"`  // "09:00"
	Close  string `json:"close"` // "22:30"
	IsOpen bool   `json:"is_open"`
}

// WeeklyHours maps lowercase weekday names to opening windows, stored as
// a JSON column.
type WeeklyHours map[string]DayHours

func (h WeeklyHours) Value() (driver.Value, error) {
	if h == nil {
		return nil, nil
	}
	return json.Marshal(h)
}

func (h *WeeklyHours) Scan(value interface{}) error {
	if value == nil {
		*h = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if str, ok := value.(string); ok {
			bytes = []byte(str)
		} else {
			return errors.New("failed to scan WeeklyHours")
		}
	}
	return json.Unmarshal(bytes, h)
}

// RatingDistribution counts reviews per star value.
type RatingDistribution struct {
	One   int `gorm:"column:rating_one;default:0" json:"one"`
	Two   int `gorm:"column:rating_two;default:0" json:"two"`
	Three int `gorm:"column:rating_three;default:0" json:"three"`
	Four  int `gorm:"column:rating_four;default:0" json:"four"`
	Five  int `gorm:"column:rating_five;default:0" json:"five"`
}

// Ratings is the denormalized aggregate kept in sync with the review set.
// Invariant: One+Two+Three+Four+Five == Count.
type Ratings struct {
	Average      float64            `gorm:"column:rating_average;default:0" json:"average"`
	Count        int                `gorm:"column:rating_count;default:0" json:"count"`
	Distribution RatingDistribution `gorm:"embedded" json:"distribution"`
}

// Features are amenity flags shown on listing cards.
type Features struct {
	HasParking        bool `gorm:"default:false" json:"has_parking"`
	HasWifi           bool `gorm:"default:false" json:"has_wifi"`
	HasAC             bool `gorm:"default:false" json:"has_ac"`
	HasOutdoorSeating bool `gorm:"default:false" json:"has_outdoor_seating"`
	AcceptsCards      bool `gorm:"default:true" json:"accepts_cards"`
	HasHomeDelivery   bool `gorm:"default:false" json:"has_home_delivery"`
	HasTakeaway       bool `gorm:"default:false" json:"has_takeaway"`
}

type Restaurant struct {
	ID          uint               `gorm:"primarykey" json:"id"`
	Name        string             `gorm:"not null;index" json:"name"`
	Description string             `gorm:"type:text;not null" json:"description"`
	Cuisines    StringArray        `gorm:"type:text" json:"cuisines"`
	Category    RestaurantCategory `gorm:"type:varchar(30);not null;index" json:"category"`
	CoverImage  string             `gorm:"not null" json:"cover_image"`

	// Address
	Street   string `gorm:"not null" json:"street"`
	Area     string `gorm:"not null" json:"area"`
	City     string `gorm:"not null;index" json:"city"`
	State    string `gorm:"not null" json:"state"`
	Pincode  string `gorm:"not null" json:"pincode"`
	Landmark string `json:"landmark,omitempty"`

	// Geolocation (WGS84)
	Latitude  *float64 `gorm:"type:decimal(10,8)" json:"latitude"`
	Longitude *float64 `gorm:"type:decimal(11,8)" json:"longitude"`

	// Contact
	Phone   string `gorm:"type:varchar(30);not null" json:"phone"`
	Email   string `json:"email,omitempty"`
	Website string `json:"website,omitempty"`

	Hours         WeeklyHours    `gorm:"type:text" json:"hours,omitempty"`
	CostForTwo    float64        `gorm:"not null" json:"cost_for_two"`
	PopularDishes pq.StringArray `gorm:"type:text[]" json:"popular_dishes,omitempty"`
	Features      Features       `gorm:"embedded" json:"features"`

	Ratings Ratings `gorm:"embedded" json:"ratings"`

	OwnerID    uint `gorm:"not null;index" json:"owner_id"`
	Owner      User `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"owner,omitempty"`
	IsActive   bool `gorm:"default:true;index" json:"is_active"`
	IsVerified bool `gorm:"default:false" json:"is_verified"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Menu   []MenuCategory    `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE" json:"menu,omitempty"`
	Images []RestaurantImage `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

func (Restaurant) TableName() string {
	return "restaurants"
}

// RestaurantImage is one gallery photo, with its uploader.
type RestaurantImage struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	RestaurantID uint      `gorm:"not null;index" json:"restaurant_id"`
	URL          string    `gorm:"not null" json:"url"`
	UploadedByID uint      `json:"uploaded_by_id"`
	CreatedAt    time.Time `json:"uploaded_at"`
}

func (RestaurantImage) TableName() string {
	return "restaurant_images"
}

// MenuCategory is an ordered section of a restaurant's menu.
type MenuCategory struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	RestaurantID uint   `gorm:"not null;index" json:"restaurant_id"`
	Name         string `gorm:"not null" json:"name"`
	Position     int    `gorm:"default:0" json:"position"`

	Items []MenuItem `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"items"`
}

func (MenuCategory) TableName() string {
	return "menu_categories"
}

type MenuItem struct {
	ID          uint        `gorm:"primarykey" json:"id"`
	CategoryID  uint        `gorm:"not null;index" json:"category_id"`
	Name        string      `gorm:"not null" json:"name"`
	Description string      `json:"description,omitempty"`
	Price       float64     `gorm:"not null" json:"price"`
	Image       string      `json:"image,omitempty"`
	IsVeg       bool        `gorm:"default:true" json:"is_veg"`
	IsAvailable bool        `gorm:"default:true" json:"is_available"`
	Tags        StringArray `gorm:"type:text" json:"tags,omitempty"`
}

func (MenuItem) TableName() string {
	return "menu_items"
}
