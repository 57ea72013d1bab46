package controller

import (
	"net/http"
	"time"

	"github.com/forkspot/forkspot-backend/internal/app/model"
	"github.com/forkspot/forkspot-backend/internal/app/service"
	"github.com/forkspot/forkspot-backend/internal/errors"
	"github.com/forkspot/forkspot-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type BookingController struct {
	bookingService service.BookingService
}

func NewBookingController(bookingService service.BookingService) *BookingController {
	return &BookingController{
		bookingService: bookingService,
	}
}

type CreateBookingRequest struct {
	RestaurantID    uint   `json:"restaurant_id" binding:"required"`
	Date            string `json:"date" binding:"required"` // "2006-01-02"
	Time            string `json:"time" binding:"required"` // "19:30"
	NumberOfGuests  int    `json:"number_of_guests" binding:"required,min=1,max=20"`
	TablePreference string `json:"table_preference" binding:"omitempty,oneof=indoor outdoor window any"`
	Occasion        string `json:"occasion" binding:"omitempty,oneof=birthday anniversary date business casual other"`
	SpecialRequests string `json:"special_requests"`
}

type UpdateBookingStatusRequest struct {
	Status model.BookingStatus `json:"status" binding:"required"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// Create books a table
// POST /api/v1/bookings
func (ctrl *BookingController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid booking data")
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidFormat, "Date must be YYYY-MM-DD")
		return
	}
	if _, err := time.Parse("15:04", req.Time); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidFormat, "Time must be HH:MM")
		return
	}

	booking, err := ctrl.bookingService.CreateBooking(userID, service.CreateBookingInput{
		RestaurantID:    req.RestaurantID,
		Date:            date,
		Time:            req.Time,
		NumberOfGuests:  req.NumberOfGuests,
		TablePreference: model.TablePreference(req.TablePreference),
		Occasion:        model.Occasion(req.Occasion),
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		switch err {
		case service.ErrRestaurantNotFound:
			errors.NotFound(c, errors.RestaurantNotFound, "Restaurant not found")
		case service.ErrInvalidGuestCount:
			errors.BadRequest(c, errors.BookingInvalidGuests, "Number of guests must be between 1 and 20")
		default:
			log.Error("Failed to create booking", err, map[string]interface{}{
				"user_id": userID,
			})
			errors.InternalError(c, "Failed to create booking")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"booking": booking,
	})
}

// MyBookings lists the caller's bookings
// GET /api/v1/bookings
func (ctrl *BookingController) MyBookings(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	bookings, err := ctrl.bookingService.GetUserBookings(userID)
	if err != nil {
		errors.InternalError(c, "Failed to fetch bookings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
		"count":    len(bookings),
	})
}

// GetByID returns one booking
// GET /api/v1/bookings/:id
func (ctrl *BookingController) GetByID(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}
	role, _ := middleware.GetUserRole(c)

	bookingID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	booking, err := ctrl.bookingService.GetBookingByID(userID, role, bookingID)
	if err != nil {
		switch err {
		case service.ErrBookingNotFound:
			errors.NotFound(c, errors.BookingNotFound, "Booking not found")
		case service.ErrForbidden:
			errors.Forbidden(c, "You cannot view this booking")
		default:
			errors.InternalError(c, "Failed to fetch booking")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"booking": booking,
	})
}

// GetByCode resolves a booking from its confirmation code
// GET /api/v1/bookings/code/:code
func (ctrl *BookingController) GetByCode(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}
	role, _ := middleware.GetUserRole(c)

	code := c.Param("code")
	if code == "" {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Confirmation code required")
		return
	}

	booking, err := ctrl.bookingService.GetBookingByCode(userID, role, code)
	if err != nil {
		switch err {
		case service.ErrBookingNotFound:
			errors.NotFound(c, errors.BookingNotFound, "Booking not found")
		case service.ErrForbidden:
			errors.Forbidden(c, "You cannot view this booking")
		default:
			errors.InternalError(c, "Failed to fetch booking")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"booking": booking,
	})
}

// RestaurantBookings lists a restaurant's bookings for its owner
// GET /api/v1/restaurants/:id/bookings
func (ctrl *BookingController) RestaurantBookings(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}
	role, _ := middleware.GetUserRole(c)

	restaurantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var date *time.Time
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			errors.BadRequest(c, errors.ValidationInvalidFormat, "Date must be YYYY-MM-DD")
			return
		}
		date = &parsed
	}

	bookings, err := ctrl.bookingService.GetRestaurantBookings(userID, role, restaurantID, c.Query("status"), date)
	if err != nil {
		switch err {
		case service.ErrRestaurantNotFound:
			errors.NotFound(c, errors.RestaurantNotFound, "Restaurant not found")
		case service.ErrForbidden:
			errors.Forbidden(c, "You cannot view these bookings")
		default:
			errors.InternalError(c, "Failed to fetch bookings")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
		"count":    len(bookings),
	})
}

// UpdateStatus sets the booking's status (owner or admin)
// PUT /api/v1/bookings/:id/status
func (ctrl *BookingController) UpdateStatus(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}
	role, _ := middleware.GetUserRole(c)

	bookingID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Status required")
		return
	}

	booking, err := ctrl.bookingService.SetStatus(userID, role, bookingID, req.Status)
	if err != nil {
		switch err {
		case service.ErrBookingNotFound:
			errors.NotFound(c, errors.BookingNotFound, "Booking not found")
		case service.ErrInvalidBookingStatus:
			errors.BadRequest(c, errors.BookingInvalidStatus, "Unknown booking status")
		case service.ErrForbidden:
			errors.Forbidden(c, "You cannot update this booking")
		default:
			errors.InternalError(c, "Failed to update booking status")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"booking": booking,
	})
}

// Cancel cancels the caller's own booking
// PUT /api/v1/bookings/:id/cancel
func (ctrl *BookingController) Cancel(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	bookingID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Cancellation reason required")
		return
	}

	booking, err := ctrl.bookingService.Cancel(userID, bookingID, req.Reason)
	if err != nil {
		switch err {
		case service.ErrBookingNotFound:
			errors.NotFound(c, errors.BookingNotFound, "Booking not found")
		case service.ErrForbidden:
			errors.Forbidden(c, "You cannot cancel this booking")
		case service.ErrBookingNotCancellable:
			errors.Conflict(c, errors.BookingNotCancellable, "Booking can no longer be cancelled")
		default:
			errors.InternalError(c, "Failed to cancel booking")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"booking": booking,
	})
}
