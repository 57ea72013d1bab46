package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser            UserRole = "user"
	RoleRestaurantOwner UserRole = "restaurant_owner"
	RoleAdmin           UserRole = "admin"
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	Phone        string         `gorm:"uniqueIndex;not null" json:"phone"` // digits only, 10 characters
	PasswordHash string         `gorm:"not null" json:"-"`
	ProfileImage string         `json:"profile_image"`
	Bio          string         `gorm:"type:varchar(200)" json:"bio,omitempty"`
	Role         UserRole       `gorm:"type:varchar(20);default:'user'" json:"role"`
	IsVerified   bool           `gorm:"default:false" json:"is_verified"`
	OTPCode      string         `gorm:"type:varchar(10)" json:"-"` // transient one-time passcode
	OTPExpiresAt *time.Time     `json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Addresses []Address `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// UserFollow is one edge of the social graph: follower follows following.
type UserFollow struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	FollowerID  uint `gorm:"not null;index:idx_follower_following,unique" json:"follower_id"`
	FollowingID uint `gorm:"not null;index:idx_follower_following,unique" json:"following_id"`

	Follower  User `gorm:"foreignKey:FollowerID" json:"-"`
	Following User `gorm:"foreignKey:FollowingID" json:"-"`
}

func (UserFollow) TableName() string {
	return "user_follows"
}
