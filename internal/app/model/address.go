package model

import (
	"time"
)

// Address is a user's saved delivery address. At most one address per user
// carries IsDefault; the service layer clears the others when it changes.
type Address struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	Label        string    `gorm:"not null" json:"label"` // Home, Work, Other
	AddressLine1 string    `gorm:"not null" json:"address_line1"`
	AddressLine2 string    `json:"address_line2,omitempty"`
	City         string    `gorm:"not null" json:"city"`
	State        string    `gorm:"not null" json:"state"`
	Pincode      string    `gorm:"not null" json:"pincode"`
	Landmark     string    `json:"landmark,omitempty"`
	IsDefault    bool      `gorm:"default:false" json:"is_default"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Address) TableName() string {
	return "addresses"
}
