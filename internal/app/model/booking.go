package model

import (
	"time"

	"github.com/forkspot/forkspot-backend/pkg/util"
	"gorm.io/gorm"
)

type BookingStatus string
type TablePreference string
type Occasion string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusNoShow    BookingStatus = "no_show"

	TableIndoor  TablePreference = "indoor"
	TableOutdoor TablePreference = "outdoor"
	TableWindow  TablePreference = "window"
	TableAny     TablePreference = "any"

	OccasionBirthday    Occasion = "birthday"
	OccasionAnniversary Occasion = "anniversary"
	OccasionDate        Occasion = "date"
	OccasionBusiness    Occasion = "business"
	OccasionCasual      Occasion = "casual"
	OccasionOther       Occasion = "other"
)

func ValidBookingStatus(s BookingStatus) bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled,
		BookingStatusCompleted, BookingStatusNoShow:
		return true
	}
	return false
}

type Booking struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	UserID       uint       `gorm:"not null;index" json:"user_id"`
	User         User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	RestaurantID uint       `gorm:"not null;index" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID" json:"restaurant,omitempty"`

	Date            time.Time       `gorm:"not null;index" json:"date"`
	Time            string          `gorm:"type:varchar(10);not null" json:"time"` // "19:30"
	NumberOfGuests  int             `gorm:"not null;check:number_of_guests >= 1 AND number_of_guests <= 20" json:"number_of_guests"`
	TablePreference TablePreference `gorm:"type:varchar(20);default:'any'" json:"table_preference"`
	Occasion        Occasion        `gorm:"type:varchar(20);default:'casual'" json:"occasion"`
	SpecialRequests string          `gorm:"type:text" json:"special_requests,omitempty"`

	Status BookingStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`

	// Generated once at creation, unique across all bookings, never
	// regenerated.
	ConfirmationCode string `gorm:"uniqueIndex;not null" json:"confirmation_code"`

	CancellationReason string `gorm:"type:text" json:"cancellation_reason,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Booking) TableName() string {
	return "bookings"
}

// BeforeCreate allocates the confirmation code, probing for collisions the
// same way restaurant slugs are deduplicated.
func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ConfirmationCode != "" {
		return nil
	}

	for {
		code := util.GenerateConfirmationCode(8)

		var count int64
		if err := tx.Model(&Booking{}).Where("confirmation_code = ?", code).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			b.ConfirmationCode = code
			return nil
		}
	}
}
