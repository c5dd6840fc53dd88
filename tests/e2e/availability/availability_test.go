//go:build e2e

package availability_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"catotel/internal/handler/dto/request"
	"catotel/internal/handler/dto/response"
	"catotel/internal/pkg/jwt"
	"catotel/tests/common/authtest"
	"catotel/tests/common/dbtest"
	"catotel/tests/common/httptest"
	"catotel/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const availabilityURL = "/api/availability"

type AvailabilitySuite struct {
	e2e.SharedSuite
}

func (s *AvailabilitySuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestAvailabilitySuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(AvailabilitySuite))
}

func searchURL(roomTypeID uuid.UUID, checkIn, checkOut string, partySize int) string {
	return fmt.Sprintf("%s?room_type_id=%s&check_in=%s&check_out=%s&party_size=%d",
		availabilityURL, roomTypeID, checkIn, checkOut, partySize)
}

func futureStay(daysOut, nights int) (string, string) {
	checkIn := time.Now().UTC().AddDate(0, 0, daysOut).Truncate(24 * time.Hour)
	checkOut := checkIn.AddDate(0, 0, nights)
	return checkIn.Format("2006-01-02"), checkOut.Format("2006-01-02")
}

func (s *AvailabilitySuite) TestSearch() {
	s.Run("Normal case: rooms come back best fit first with residual capacity", func() {
		t := s.T()

		customerID := dbtest.CreateTestUser(t, s.DB, "whiskers@example.com", string(jwt.RoleCustomer))
		catID := dbtest.CreateTestCat(t, s.DB, customerID, "Mochi")
		roomTypeID := dbtest.CreateTestRoomType(t, s.DB, "Window Suite", 4500, 3)
		smallRoomID := dbtest.CreateTestRoom(t, s.DB, roomTypeID, "W-1", 2)
		bigRoomID := dbtest.CreateTestRoom(t, s.DB, roomTypeID, "W-2", 3)

		token := authtest.NewJWTHelper(s.Config.JWT).GenerateToken(t, customerID, jwt.RoleCustomer)

		checkIn, checkOut := futureStay(14, 3)

		// Best fit puts the single cat in the smaller room
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/reservations",
			request.CreateReservationRequest{
				RoomTypeID: roomTypeID,
				CheckIn:    checkIn,
				CheckOut:   checkOut,
				CatIDs:     []uuid.UUID{catID},
			},
			token, httptest.WithIdempotencyKey(uuid.NewString()))
		require.Equal(t, http.StatusCreated, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet,
			searchURL(roomTypeID, checkIn, checkOut, 1), nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		var results []response.RoomAvailabilityResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &results))
		require.Len(t, results, 2)
		require.Equal(t, smallRoomID, results[0].RoomID, "partially occupied room is the tighter fit")
		require.Equal(t, 1, results[0].FreeCapacity)
		require.Equal(t, bigRoomID, results[1].RoomID)
		require.Equal(t, 3, results[1].FreeCapacity)

		// A party of two no longer fits in the occupied room
		w = httptest.PerformRequest(t, s.Router, http.MethodGet,
			searchURL(roomTypeID, checkIn, checkOut, 2), nil, token)
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &results))
		require.Len(t, results, 1)
		require.Equal(t, bigRoomID, results[0].RoomID)
	})

	s.Run("Error case: no room fits the party for the window", func() {
		t := s.T()

		customerID := dbtest.CreateTestUser(t, s.DB, "whiskers@example.com", string(jwt.RoleCustomer))
		roomTypeID := dbtest.CreateTestRoomType(t, s.DB, "Window Suite", 4500, 2)
		dbtest.CreateTestRoom(t, s.DB, roomTypeID, "W-1", 2)

		token := authtest.NewJWTHelper(s.Config.JWT).GenerateToken(t, customerID, jwt.RoleCustomer)

		checkIn, checkOut := futureStay(14, 3)
		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			searchURL(roomTypeID, checkIn, checkOut, 5), nil, token)
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "ROOM_TYPE_UNAVAILABLE_DATES")
	})

	s.Run("Error case: unknown room type", func() {
		t := s.T()

		customerID := dbtest.CreateTestUser(t, s.DB, "whiskers@example.com", string(jwt.RoleCustomer))
		token := authtest.NewJWTHelper(s.Config.JWT).GenerateToken(t, customerID, jwt.RoleCustomer)

		checkIn, checkOut := futureStay(14, 3)
		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			searchURL(uuid.New(), checkIn, checkOut, 1), nil, token)
		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "ROOM_TYPE_NOT_FOUND")
	})

	s.Run("Auth test - Unauthorized when not logged in", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			searchURL(uuid.New(), "2025-07-01", "2025-07-04", 1), nil, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
