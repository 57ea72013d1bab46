package repository

import (
	"time"

	"github.com/forkspot/forkspot-backend/internal/app/model"
	"github.com/forkspot/forkspot-backend/pkg/logger"
	"gorm.io/gorm"
)

type BookingRepository interface {
	Create(booking *model.Booking) error
	FindByID(id uint) (*model.Booking, error)
	FindByConfirmationCode(code string) (*model.Booking, error)
	FindByUserID(userID uint) ([]model.Booking, error)
	FindByRestaurantID(restaurantID uint, status string, date *time.Time) ([]model.Booking, error)
	Update(booking *model.Booking) error
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) preloadBooking() *gorm.DB {
	return r.db.Preload("User").Preload("Restaurant")
}

func (r *bookingRepository) Create(booking *model.Booking) error {
	logger.Debug("Creating booking in database", map[string]interface{}{
		"user_id":       booking.UserID,
		"restaurant_id": booking.RestaurantID,
		"guests":        booking.NumberOfGuests,
	})

	if err := r.db.Create(booking).Error; err != nil {
		logger.Error("Failed to create booking in database", err, map[string]interface{}{
			"user_id":       booking.UserID,
			"restaurant_id": booking.RestaurantID,
		})
		return err
	}

	logger.Debug("Booking created in database", map[string]interface{}{
		"booking_id":        booking.ID,
		"confirmation_code": booking.ConfirmationCode,
	})
	return nil
}

func (r *bookingRepository) FindByID(id uint) (*model.Booking, error) {
	var booking model.Booking
	if err := r.preloadBooking().First(&booking, id).Error; err != nil {
		logger.Error("Failed to find booking by ID in database", err, map[string]interface{}{
			"booking_id": id,
		})
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByConfirmationCode(code string) (*model.Booking, error) {
	var booking model.Booking
	err := r.preloadBooking().
		Where("confirmation_code = ?", code).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByUserID(userID uint) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.preloadBooking().
		Where("user_id = ?", userID).
		Order("date DESC, time DESC").
		Find(&bookings).Error
	if err != nil {
		logger.Error("Failed to find bookings by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindByRestaurantID(restaurantID uint, status string, date *time.Time) ([]model.Booking, error) {
	query := r.preloadBooking().Where("restaurant_id = ?", restaurantID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if date != nil {
		dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		query = query.Where("date >= ? AND date < ?", dayStart, dayStart.AddDate(0, 0, 1))
	}

	var bookings []model.Booking
	if err := query.Order("date ASC, time ASC").Find(&bookings).Error; err != nil {
		logger.Error("Failed to find bookings by restaurant ID in database", err, map[string]interface{}{
			"restaurant_id": restaurantID,
			"status":        status,
		})
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) Update(booking *model.Booking) error {
	logger.Debug("Updating booking in database", map[string]interface{}{
		"booking_id": booking.ID,
		"status":     booking.Status,
	})

	if err := r.db.Save(booking).Error; err != nil {
		logger.Error("Failed to update booking in database", err, map[string]interface{}{
			"booking_id": booking.ID,
		})
		return err
	}
	return nil
}
