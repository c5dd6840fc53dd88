package api

import (
	"errors"
	"net/http"

	"catotel/internal/domain/pricing"
	"catotel/internal/domain/reservation"
	"catotel/internal/domain/scheduling"
	"catotel/internal/handler/httperr"
	"catotel/internal/pkg/errs"
	"catotel/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

// respondUseCaseError translates use-case failures into the public error-code
// taxonomy. Validation maps to 400, missing entities to 404, business
// conflicts to 409, allocation failures to 422, and anything unrecognized
// stays a 500.
func respondUseCaseError(c *gin.Context, err error) {
	var conflictErr *commands.CatConflictError
	if errors.As(err, &conflictErr) {
		httperr.AbortWithError(c, http.StatusConflict, err,
			"CAT_CONFLICT", "One or more cats already have an overlapping reservation",
			conflictDetail(conflictErr))
		return
	}

	var catsErr *commands.CatsNotFoundError
	if errors.As(err, &catsErr) {
		httperr.AbortWithError(c, http.StatusNotFound, err,
			"CATS_NOT_FOUND", "One or more cats do not exist", missingDetail(catsErr))
		return
	}

	switch {
	case errors.Is(err, reservation.ErrInvalidDateRange):
		httperr.AbortWithError(c, http.StatusBadRequest, err,
			"INVALID_DATE_RANGE", "Check-out must be after check-in", nil)
	case errors.Is(err, reservation.ErrCheckInInPast):
		httperr.AbortWithError(c, http.StatusBadRequest, err,
			"CHECKIN_IN_PAST", "Check-in date cannot be in the past", nil)
	case errors.Is(err, reservation.ErrMinCatsRequired):
		httperr.AbortWithError(c, http.StatusBadRequest, err,
			"MIN_CATS_REQUIRED", "At least one cat is required", nil)
	case errors.Is(err, reservation.ErrDuplicateCats):
		httperr.AbortWithError(c, http.StatusBadRequest, err,
			"PARTY_SIZE_INVALID", "Duplicate cats in the booking party", nil)
	case errors.Is(err, scheduling.ErrInvalidPartySize):
		httperr.AbortWithError(c, http.StatusBadRequest, err,
			"PARTY_SIZE_INVALID", "Party size must be positive", nil)
	case errors.Is(err, pricing.ErrInvalidAddon):
		httperr.AbortWithError(c, http.StatusBadRequest, err,
			"ADDON_INVALID", "Add-on quantity must be positive", nil)
	case errors.Is(err, errs.ErrCustomerIDRequired):
		httperr.AbortWithError(c, http.StatusBadRequest, err,
			"CUSTOMER_ID_REQUIRED", "customer_id is required when booking on a guest's behalf", nil)

	case errors.Is(err, errs.ErrRoomTypeNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err,
			"ROOM_TYPE_NOT_FOUND", "Room type not found", nil)
	case errors.Is(err, errs.ErrReservationNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err,
			"RESERVATION_NOT_FOUND", "Reservation not found", nil)
	case errors.Is(err, errs.ErrRoomNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err,
			"ROOM_NOT_FOUND", "Room assignment not found", nil)
	case errors.Is(err, errs.ErrServicesNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err,
			"SERVICES_NOT_FOUND", "One or more add-on services do not exist", nil)

	case errors.Is(err, errs.ErrRoomTypeNotActive):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err,
			"ROOM_TYPE_NOT_AVAILABLE", "Room type is not open for booking", nil)
	case errors.Is(err, errs.ErrNoActiveRooms):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err,
			"NO_ACTIVE_ROOMS", "Room type has no active rooms", nil)
	case errors.Is(err, errs.ErrPartyExceedsCapacity):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err,
			"ROOM_ASSIGNMENT_CAPACITY", "Party is larger than any room of this type", nil)

	case errors.Is(err, errs.ErrNoRoomAvailable):
		httperr.AbortWithError(c, http.StatusConflict, err,
			"ROOM_ASSIGNMENT_NO_ROOM", "No room has enough free capacity for these dates", nil)
	case errors.Is(err, errs.ErrRoomCapacityExceeded):
		httperr.AbortWithError(c, http.StatusConflict, err,
			"ROOM_CAPACITY_EXCEEDED", "A concurrent booking took the room's remaining capacity", nil)
	case errors.Is(err, errs.ErrUnavailableDates):
		httperr.AbortWithError(c, http.StatusConflict, err,
			"ROOM_TYPE_UNAVAILABLE_DATES", "Room type is fully booked for these dates", nil)
	case errors.Is(err, errs.ErrInvalidTransition):
		httperr.AbortWithError(c, http.StatusConflict, err,
			"INVALID_STATUS_TRANSITION", "Reservation status does not allow this operation", nil)
	case errors.Is(err, errs.ErrConfigVersionConflict):
		httperr.AbortWithError(c, http.StatusConflict, err,
			"CONFIG_VERSION_CONFLICT", "Pricing configuration was modified concurrently", nil)
	case errors.Is(err, commands.ErrDuplicateReservation):
		httperr.AbortWithError(c, http.StatusConflict, err,
			"IDEMPOTENCY_KEY_REUSED", "Idempotency key reused with different parameters", nil)
	case errors.Is(err, commands.ErrIdempotencyInProgress):
		httperr.AbortWithError(c, http.StatusConflict, err,
			"REQUEST_IN_PROGRESS", "Request with this idempotency key is still being processed", nil)

	case errors.Is(err, errs.ErrUpdateForbidden):
		httperr.AbortWithError(c, http.StatusForbidden, err,
			"UPDATE_FORBIDDEN", "Not allowed to modify this reservation", nil)
	case errors.Is(err, errs.ErrForbiddenView):
		httperr.AbortWithError(c, http.StatusForbidden, err,
			"FORBIDDEN_VIEW", "Not allowed to view this reservation", nil)

	case errors.Is(err, commands.ErrDomainValidation):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err,
			"VALIDATION_FAILED", "Request failed domain validation", nil)

	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err,
			"INTERNAL", "Internal server error", nil)
	}
}

func conflictDetail(e *commands.CatConflictError) any {
	type item struct {
		CatID           string `json:"catId"`
		CatName         string `json:"catName"`
		ReservationCode string `json:"reservationCode"`
	}
	items := make([]item, len(e.Conflicts))
	for i, conflict := range e.Conflicts {
		items[i] = item{
			CatID:           conflict.CatID.String(),
			CatName:         conflict.CatName,
			ReservationCode: conflict.ReservationCode,
		}
	}
	return gin.H{"conflicts": items}
}

func missingDetail(e *commands.CatsNotFoundError) any {
	ids := make([]string, len(e.Missing))
	for i, id := range e.Missing {
		ids[i] = id.String()
	}
	return gin.H{"missingCatIds": ids}
}
