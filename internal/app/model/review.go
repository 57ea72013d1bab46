package model

import (
	"time"

	"gorm.io/gorm"
)

// Review is one user's review of one restaurant. The unique index on
// (user_id, restaurant_id) enforces at most one review per pair.
type Review struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID       uint       `gorm:"not null;index:idx_user_restaurant_review,unique" json:"user_id"`
	User         User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	RestaurantID uint       `gorm:"not null;index:idx_user_restaurant_review,unique;index" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID" json:"restaurant,omitempty"`

	Rating  int    `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Title   string `gorm:"type:varchar(100)" json:"title,omitempty"`
	Comment string `gorm:"type:text;not null" json:"comment"`

	IsAnonymous   bool `gorm:"default:false" json:"is_anonymous"`
	OrderVerified bool `gorm:"default:false" json:"order_verified"`

	Photos  []ReviewPhoto `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE" json:"photos,omitempty"`
	Likes   []ReviewLike  `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE" json:"-"`
	Replies []ReviewReply `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE" json:"replies,omitempty"`

	LikeCount int `gorm:"-" json:"like_count"`
}

func (Review) TableName() string {
	return "reviews"
}

type ReviewPhoto struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	ReviewID uint   `gorm:"not null;index" json:"review_id"`
	URL      string `gorm:"not null" json:"url"`
	Caption  string `json:"caption,omitempty"`

	CreatedAt time.Time `json:"uploaded_at"`
}

func (ReviewPhoto) TableName() string {
	return "review_photos"
}

// ReviewLike is always attributed to the calling user; admins cannot like
// on someone else's behalf.
type ReviewLike struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ReviewID uint `gorm:"not null;index:idx_review_user_like,unique" json:"review_id"`
	UserID   uint `gorm:"not null;index:idx_review_user_like,unique" json:"user_id"`
}

func (ReviewLike) TableName() string {
	return "review_likes"
}

type ReviewReply struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ReviewID  uint      `gorm:"not null;index" json:"review_id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func (ReviewReply) TableName() string {
	return "review_replies"
}
