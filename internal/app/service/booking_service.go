package service

import (
	"errors"
	"time"

	"github.com/forkspot/forkspot-backend/internal/app/model"
	"github.com/forkspot/forkspot-backend/internal/app/repository"
	"github.com/forkspot/forkspot-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrBookingNotFound       = errors.New("booking not found")
	ErrInvalidBookingStatus  = errors.New("invalid booking status")
	ErrInvalidGuestCount     = errors.New("number of guests must be between 1 and 20")
	ErrBookingNotCancellable = errors.New("booking can no longer be cancelled")
)

type CreateBookingInput struct {
	RestaurantID    uint
	Date            time.Time
	Time            string
	NumberOfGuests  int
	TablePreference model.TablePreference
	Occasion        model.Occasion
	SpecialRequests string
}

type BookingService interface {
	CreateBooking(userID uint, input CreateBookingInput) (*model.Booking, error)
	GetUserBookings(userID uint) ([]model.Booking, error)
	GetBookingByID(actorID uint, role model.UserRole, bookingID uint) (*model.Booking, error)
	GetBookingByCode(actorID uint, role model.UserRole, code string) (*model.Booking, error)
	GetRestaurantBookings(actorID uint, role model.UserRole, restaurantID uint, status string, date *time.Time) ([]model.Booking, error)
	SetStatus(actorID uint, role model.UserRole, bookingID uint, status model.BookingStatus) (*model.Booking, error)
	Cancel(userID, bookingID uint, reason string) (*model.Booking, error)
}

type bookingService struct {
	bookingRepo    repository.BookingRepository
	restaurantRepo repository.RestaurantRepository
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	restaurantRepo repository.RestaurantRepository,
) BookingService {
	return &bookingService{
		bookingRepo:    bookingRepo,
		restaurantRepo: restaurantRepo,
	}
}

func (s *bookingService) CreateBooking(userID uint, input CreateBookingInput) (*model.Booking, error) {
	logger.Info("Creating booking", map[string]interface{}{
		"user_id":       userID,
		"restaurant_id": input.RestaurantID,
		"guests":        input.NumberOfGuests,
	})

	if input.NumberOfGuests < 1 || input.NumberOfGuests > 20 {
		return nil, ErrInvalidGuestCount
	}

	if _, err := s.restaurantRepo.FindByID(input.RestaurantID, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}

	booking := &model.Booking{
		UserID:          userID,
		RestaurantID:    input.RestaurantID,
		Date:            input.Date,
		Time:            input.Time,
		NumberOfGuests:  input.NumberOfGuests,
		TablePreference: input.TablePreference,
		Occasion:        input.Occasion,
		SpecialRequests: input.SpecialRequests,
		Status:          model.BookingStatusPending,
	}
	if booking.TablePreference == "" {
		booking.TablePreference = model.TableAny
	}
	if booking.Occasion == "" {
		booking.Occasion = model.OccasionCasual
	}

	if err := s.bookingRepo.Create(booking); err != nil {
		return nil, err
	}

	logger.Info("Booking created", map[string]interface{}{
		"booking_id":        booking.ID,
		"confirmation_code": booking.ConfirmationCode,
	})
	return booking, nil
}

func (s *bookingService) GetUserBookings(userID uint) ([]model.Booking, error) {
	return s.bookingRepo.FindByUserID(userID)
}

func (s *bookingService) GetBookingByID(actorID uint, role model.UserRole, bookingID uint) (*model.Booking, error) {
	booking, err := s.bookingRepo.FindByID(bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if !isSelf(actorID, booking.UserID) && !canManageRestaurant(actorID, role, booking.Restaurant.OwnerID) {
		return nil, ErrForbidden
	}
	return booking, nil
}

// GetBookingByCode resolves a booking from its confirmation code, for
// guests arriving with just the code and for front-of-house staff.
func (s *bookingService) GetBookingByCode(actorID uint, role model.UserRole, code string) (*model.Booking, error) {
	booking, err := s.bookingRepo.FindByConfirmationCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if !isSelf(actorID, booking.UserID) && !canManageRestaurant(actorID, role, booking.Restaurant.OwnerID) {
		return nil, ErrForbidden
	}
	return booking, nil
}

func (s *bookingService) GetRestaurantBookings(actorID uint, role model.UserRole, restaurantID uint, status string, date *time.Time) ([]model.Booking, error) {
	restaurant, err := s.restaurantRepo.FindByID(restaurantID, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}

	if !canManageRestaurant(actorID, role, restaurant.OwnerID) {
		return nil, ErrForbidden
	}
	return s.bookingRepo.FindByRestaurantID(restaurantID, status, date)
}

// SetStatus writes the requested status directly. Like order statuses, only
// the enum is validated; the sequence is not enforced.
func (s *bookingService) SetStatus(actorID uint, role model.UserRole, bookingID uint, status model.BookingStatus) (*model.Booking, error) {
	if !model.ValidBookingStatus(status) {
		return nil, ErrInvalidBookingStatus
	}

	booking, err := s.bookingRepo.FindByID(bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if !canManageRestaurant(actorID, role, booking.Restaurant.OwnerID) {
		logger.Warn("Booking status change forbidden", map[string]interface{}{
			"booking_id": bookingID,
			"actor_id":   actorID,
			"status":     status,
		})
		return nil, ErrForbidden
	}

	booking.Status = status
	if err := s.bookingRepo.Update(booking); err != nil {
		return nil, err
	}

	logger.Info("Booking status updated", map[string]interface{}{
		"booking_id": bookingID,
		"status":     status,
		"actor_id":   actorID,
	})
	return booking, nil
}

func (s *bookingService) Cancel(userID, bookingID uint, reason string) (*model.Booking, error) {
	booking, err := s.bookingRepo.FindByID(bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if !isSelf(userID, booking.UserID) {
		return nil, ErrForbidden
	}

	if booking.Status != model.BookingStatusPending && booking.Status != model.BookingStatusConfirmed {
		logger.Warn("Booking cancellation rejected", map[string]interface{}{
			"booking_id": bookingID,
			"status":     booking.Status,
		})
		return nil, ErrBookingNotCancellable
	}

	booking.Status = model.BookingStatusCancelled
	booking.CancellationReason = reason
	if err := s.bookingRepo.Update(booking); err != nil {
		return nil, err
	}

	logger.Info("Booking cancelled", map[string]interface{}{
		"booking_id": bookingID,
		"user_id":    userID,
	})
	return booking, nil
}
