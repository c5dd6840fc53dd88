package errs

import "errors"

// Sentinel errors shared by the usecase layers. Handlers map these onto the
// public error-code taxonomy.
var (
	// Catalog errors
	ErrRoomTypeNotFound  = errors.New("room type not found")
	ErrRoomTypeNotActive = errors.New("room type is not active")
	ErrRoomNotFound      = errors.New("room not found")

	// Reservation errors
	ErrReservationNotFound = errors.New("reservation not found")
	ErrCatConflict         = errors.New("cat already booked for overlapping dates")
	ErrInvalidTransition   = errors.New("invalid reservation status transition")

	// Party errors
	ErrCatsNotFound     = errors.New("cats not found")
	ErrServicesNotFound = errors.New("addon services not found")

	// Allocation errors
	ErrNoActiveRooms        = errors.New("room type has no active rooms")
	ErrNoRoomAvailable      = errors.New("no room available for the requested dates")
	ErrPartyExceedsCapacity = errors.New("party exceeds room capacity")
	ErrUnavailableDates     = errors.New("room type unavailable for the requested dates")
	// ErrRoomCapacityExceeded: a competing reservation took the chosen room's
	// capacity between allocation and commit.
	ErrRoomCapacityExceeded = errors.New("room capacity exceeded by a concurrent booking")

	// Authorization errors
	ErrUpdateForbidden    = errors.New("update forbidden")
	ErrForbiddenView      = errors.New("view forbidden")
	ErrCustomerIDRequired = errors.New("customer id required")

	// Pricing configuration errors
	ErrConfigVersionConflict = errors.New("pricing configuration version conflict")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
