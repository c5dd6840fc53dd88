//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"catotel/internal/handler/api"
	resdto "catotel/internal/handler/dto/response"
	"catotel/internal/pkg/errs"
	"catotel/internal/usecase/queries"
	"catotel/tests/common/httptest"
	queriesmock "catotel/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AvailabilityHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockQueries *queriesmock.MockAvailabilityQueries
	handler     *api.AvailabilityHandler
}

func (s *AvailabilityHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockQueries = queriesmock.NewMockAvailabilityQueries(s.mockCtrl)
	s.handler = api.NewAvailabilityHandler(s.mockQueries)

	s.router.GET("/availability", s.handler.Search)
}

func (s *AvailabilityHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAvailabilityHandlerSuite(t *testing.T) {
	suite.Run(t, new(AvailabilityHandlerTestSuite))
}

func (s *AvailabilityHandlerTestSuite) TestSearch() {
	roomTypeID := uuid.New()
	baseURL := "/availability?room_type_id=" + roomTypeID.String() +
		"&check_in=2025-07-01&check_out=2025-07-04&party_size=2"

	views := []queries.RoomAvailabilityView{
		{RoomID: uuid.New(), RoomName: "S-1", FreeCapacity: 2},
		{RoomID: uuid.New(), RoomName: "B-1", FreeCapacity: 4},
	}

	s.Run("success: returns qualifying rooms best fit first", func() {
		s.mockQueries.EXPECT().Search(gomock.Any(), gomock.Any()).
			Return(views, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, baseURL, nil, "")

		var response []resdto.RoomAvailabilityResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, 2)
		s.Equal("S-1", response[0].RoomName)
		s.Equal(2, response[0].FreeCapacity)
	})

	s.Run("error: 400 Bad Request without room_type_id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/availability?check_in=2025-07-01&check_out=2025-07-04&party_size=2", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "ROOM_TYPE_REQUIRED")
	})

	s.Run("error: 400 Bad Request for malformed dates", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/availability?room_type_id="+roomTypeID.String()+"&check_in=bad&check_out=2025-07-04&party_size=2", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "INVALID_DATE_RANGE")
	})

	s.Run("error: 400 Bad Request for non-positive party_size", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/availability?room_type_id="+roomTypeID.String()+"&check_in=2025-07-01&check_out=2025-07-04&party_size=0", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "PARTY_SIZE_INVALID")
	})

	s.Run("error: maps use-case errors to proper statuses", func() {
		testCases := []struct {
			name           string
			queriesError   error
			expectedStatus int
			expectedCode   string
		}{
			{
				name:           "room type not found",
				queriesError:   errs.ErrRoomTypeNotFound,
				expectedStatus: http.StatusNotFound,
				expectedCode:   "ROOM_TYPE_NOT_FOUND",
			},
			{
				name:           "fully booked",
				queriesError:   errs.ErrUnavailableDates,
				expectedStatus: http.StatusConflict,
				expectedCode:   "ROOM_TYPE_UNAVAILABLE_DATES",
			},
			{
				name:           "no active rooms",
				queriesError:   errs.ErrNoActiveRooms,
				expectedStatus: http.StatusUnprocessableEntity,
				expectedCode:   "NO_ACTIVE_ROOMS",
			},
			{
				name:           "internal server error",
				queriesError:   errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedCode:   "INTERNAL",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockQueries.EXPECT().Search(gomock.Any(), gomock.Any()).
					Return(nil, tc.queriesError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, baseURL, nil, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedCode)
			})
		}
	})
}
