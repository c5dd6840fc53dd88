package api

import (
	"net/http"
	"strconv"

	reqdto "catotel/internal/handler/dto/request"
	resdto "catotel/internal/handler/dto/response"
	"catotel/internal/handler/httperr"
	"catotel/internal/pkg/errs"
	"catotel/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AvailabilityHandler struct {
	queries queries.AvailabilityQueries
}

func NewAvailabilityHandler(qs queries.AvailabilityQueries) *AvailabilityHandler {
	return &AvailabilityHandler{queries: qs}
}

// @Summary Search availability
// @Description List rooms of a category that can hold the party for every night of the window
// @Tags availability
// @Produce json
// @Security BearerAuth
// @Param room_type_id query string true "Room type ID"
// @Param check_in query string true "Check-in date (YYYY-MM-DD)"
// @Param check_out query string true "Check-out date (YYYY-MM-DD)"
// @Param party_size query int true "Number of cats"
// @Success 200 {array} resdto.RoomAvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /availability [get]
func (h *AvailabilityHandler) Search(c *gin.Context) {
	roomTypeID, err := uuid.Parse(c.Query("room_type_id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err,
			"ROOM_TYPE_REQUIRED", "room_type_id is required and must be a UUID", nil)
		return
	}

	checkIn, err := reqdto.ParseDate(c.Query("check_in"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err,
			"INVALID_DATE_RANGE", "check_in must be formatted YYYY-MM-DD", nil)
		return
	}
	checkOut, err := reqdto.ParseDate(c.Query("check_out"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err,
			"INVALID_DATE_RANGE", "check_out must be formatted YYYY-MM-DD", nil)
		return
	}

	partySize, err := strconv.Atoi(c.Query("party_size"))
	if err != nil || partySize <= 0 {
		httperr.AbortWithError(c, http.StatusBadRequest, errParamPartySize(err),
			"PARTY_SIZE_INVALID", "party_size must be a positive integer", nil)
		return
	}

	views, err := h.queries.Search(c.Request.Context(), queries.AvailabilitySearchParams{
		RoomTypeID: roomTypeID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		PartySize:  partySize,
	})
	if err != nil {
		respondUseCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromRoomAvailabilityViews(views))
}

var errPartySizeNotPositive = errs.New("party size must be positive")

func errParamPartySize(err error) error {
	if err != nil {
		return err
	}
	return errPartySizeNotPositive
}
