package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo pairs an error code with a user-facing message
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError maps database and driver errors to user-facing codes and
// messages. Sensitive details stay out of the message; the context string
// ("review", "order create", ...) selects the wording.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Something went wrong"}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: notFoundMessage(context),
		}
	}

	// PostgreSQL unique constraint violation (23505)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStrLower)
	}

	// Foreign key constraint violation (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStrLower)
	}

	// Not null constraint violation (23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return ErrorInfo{Code: ValidationRequired, Message: "A required field is missing"}
	}

	// Check constraint violation (23514)
	if strings.Contains(errStrLower, "check constraint") {
		if strings.Contains(errStrLower, "rating") {
			return ErrorInfo{Code: ReviewInvalidRating, Message: "Rating must be between 1 and 5"}
		}
		return ErrorInfo{Code: ValidationInvalidInput, Message: "Invalid input"}
	}

	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "A downstream service is unavailable. Please try again later",
		}
	}

	return ErrorInfo{Code: InternalServerError, Message: defaultErrorMessage(context)}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	// One review per (user, restaurant) pair
	if strings.Contains(errLower, "idx_user_restaurant_review") ||
		(strings.Contains(errLower, "review") && strings.Contains(errLower, "user_id")) {
		return ErrorInfo{
			Code:    ReviewAlreadyExists,
			Message: "You have already reviewed this restaurant",
		}
	}

	if strings.Contains(errLower, "confirmation_code") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "Could not allocate a booking confirmation code. Please retry",
		}
	}

	if strings.Contains(errLower, "email") {
		return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "This email is already registered"}
	}

	if strings.Contains(errLower, "phone") {
		return ErrorInfo{Code: AuthPhoneAlreadyExists, Message: "This phone number is already registered"}
	}

	return ErrorInfo{Code: ResourceAlreadyExists, Message: "This record already exists"}
}

func parseForeignKeyError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "still referenced") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "This record is referenced by other data and cannot be deleted",
		}
	}
	if strings.Contains(errLower, "restaurant_id") {
		return ErrorInfo{Code: RestaurantNotFound, Message: "Restaurant not found"}
	}
	if strings.Contains(errLower, "user_id") {
		return ErrorInfo{Code: UserNotFound, Message: "User not found"}
	}
	return ErrorInfo{Code: ResourceNotFound, Message: "Referenced record not found"}
}

func notFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "restaurant"):
		return "Restaurant not found"
	case strings.Contains(contextLower, "review"):
		return "Review not found"
	case strings.Contains(contextLower, "order"):
		return "Order not found"
	case strings.Contains(contextLower, "booking"):
		return "Booking not found"
	case strings.Contains(contextLower, "user"):
		return "User not found"
	case strings.Contains(contextLower, "address"):
		return "Address not found"
	}
	return "Requested record not found"
}

func defaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create"):
		return "Failed to create the record. Please try again later"
	case strings.Contains(contextLower, "update"):
		return "Failed to update the record. Please try again later"
	case strings.Contains(contextLower, "delete"):
		return "Failed to delete the record. Please try again later"
	}
	return "Something went wrong. Please try again later"
}
