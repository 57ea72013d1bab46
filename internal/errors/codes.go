package errors

// Error code constants, format: CATEGORY_SPECIFIC_DETAIL.
// The web client maps these codes to user-facing messages.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"
	AuthPhoneAlreadyExists = "AUTH_PHONE_EXISTS"
	AuthCodeInvalid        = "AUTH_CODE_INVALID"
	AuthCodeExpired        = "AUTH_CODE_EXPIRED"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzAccessDenied = "AUTHZ_ACCESS_DENIED"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Restaurants (RESTAURANT_) ====================
	RestaurantNotFound    = "RESTAURANT_NOT_FOUND"
	RestaurantInactive    = "RESTAURANT_INACTIVE"
	MenuItemNotFound      = "RESTAURANT_MENU_ITEM_NOT_FOUND"
	MenuCategoryNotFound  = "RESTAURANT_MENU_CATEGORY_NOT_FOUND"

	// ==================== Reviews (REVIEW_) ====================
	ReviewNotFound      = "REVIEW_NOT_FOUND"
	ReviewInvalidRating = "REVIEW_INVALID_RATING"
	ReviewAlreadyExists = "REVIEW_ALREADY_EXISTS"

	// ==================== Orders (ORDER_) ====================
	OrderNotFound       = "ORDER_NOT_FOUND"
	OrderInvalidStatus  = "ORDER_INVALID_STATUS"
	OrderNotCancellable = "ORDER_NOT_CANCELLABLE"
	OrderEmptyItems     = "ORDER_EMPTY_ITEMS"

	// ==================== Bookings (BOOKING_) ====================
	BookingNotFound       = "BOOKING_NOT_FOUND"
	BookingInvalidStatus  = "BOOKING_INVALID_STATUS"
	BookingNotCancellable = "BOOKING_NOT_CANCELLABLE"
	BookingInvalidGuests  = "BOOKING_INVALID_GUESTS"

	// ==================== Users (USER_) ====================
	UserNotFound     = "USER_NOT_FOUND"
	AddressNotFound  = "USER_ADDRESS_NOT_FOUND"
	CannotFollowSelf = "USER_CANNOT_FOLLOW_SELF"

	// ==================== Uploads (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalRatingSync    = "INTERNAL_RATING_SYNC"
)
