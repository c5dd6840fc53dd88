//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"catotel/internal/handler/api"
	resdto "catotel/internal/handler/dto/response"
	"catotel/internal/pkg/errs"
	"catotel/internal/pkg/jwt"
	"catotel/internal/usecase/commands"
	"catotel/internal/usecase/queries"
	"catotel/tests/common/builder"
	"catotel/tests/common/httptest"
	commandsmock "catotel/tests/mock/commands"
	queriesmock "catotel/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ReservationHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockReservationCommands
	mockQueries  *queriesmock.MockReservationQueries
	handler      *api.ReservationHandler
	actorID      uuid.UUID
}

func (s *ReservationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockReservationCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockReservationQueries(s.mockCtrl)
	s.handler = api.NewReservationHandler(s.mockCommands, s.mockQueries)
	s.actorID = uuid.New()

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "UNAUTHORIZED", "message": "Access token required"},
			})
			return
		}
		c.Set("user_id", s.actorID)
		c.Set("user_role", jwt.RoleCustomer)
		c.Next()
	}

	s.router.POST("/reservations", authMiddleware, s.handler.CreateReservation)
	s.router.GET("/reservations", authMiddleware, s.handler.ListReservations)
	s.router.GET("/reservations/:id", authMiddleware, s.handler.GetReservation)
	s.router.POST("/reservations/:id/cancel", authMiddleware, s.handler.CancelReservation)
}

func (s *ReservationHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestReservationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReservationHandlerTestSuite))
}

// ================================================================================
// TestCreateReservation
// ================================================================================

func (s *ReservationHandlerTestSuite) TestCreateReservation() {
	url := "/reservations"
	idempotencyKey := uuid.New().String()

	reqBody := builder.NewReservationBuilder().WithCustomerID(s.actorID).BuildCreateRequestDTO()
	returnView := builder.NewReservationBuilder().WithCustomerID(s.actorID).BuildView()

	s.Run("success: returns 201 Created for a new reservation", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&commands.CreateReservationResult{Reservation: returnView}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token",
			httptest.WithIdempotencyKey(idempotencyKey))

		var response resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(returnView.ID, response.ID)
		s.Equal(returnView.Code, response.Code)
		s.Equal("pending", response.Status)
	})

	s.Run("success: returns 200 OK when the idempotency key replays", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&commands.CreateReservationResult{Reservation: returnView, IsReplayed: true}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token",
			httptest.WithIdempotencyKey(idempotencyKey))

		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 Bad Request without an Idempotency-Key header", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "IDEMPOTENCY_KEY_REQUIRED")
	})

	s.Run("error: 400 Bad Request for a malformed Idempotency-Key", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token",
			httptest.WithIdempotencyKey("not-a-uuid"))
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "IDEMPOTENCY_KEY_REQUIRED")
	})

	s.Run("error: 400 Bad Request when cat_ids is empty", func() {
		body := reqBody
		body.CatIDs = nil
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "bearer-token",
			httptest.WithIdempotencyKey(idempotencyKey))
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "INVALID_REQUEST")
	})

	s.Run("error: 400 Bad Request for an unparseable date", func() {
		body := reqBody
		body.CheckIn = "07/01/2025"
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "bearer-token",
			httptest.WithIdempotencyKey(idempotencyKey))
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "INVALID_DATE_RANGE")
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "UNAUTHORIZED")
	})

	s.Run("error: maps use-case errors to the public code taxonomy", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedCode   string
		}{
			{
				name: "cat already booked",
				commandsError: &commands.CatConflictError{
					Conflicts: nil,
				},
				expectedStatus: http.StatusConflict,
				expectedCode:   "CAT_CONFLICT",
			},
			{
				name:           "cats do not exist",
				commandsError:  &commands.CatsNotFoundError{Missing: []uuid.UUID{uuid.New()}},
				expectedStatus: http.StatusNotFound,
				expectedCode:   "CATS_NOT_FOUND",
			},
			{
				name:           "room type not found",
				commandsError:  errs.ErrRoomTypeNotFound,
				expectedStatus: http.StatusNotFound,
				expectedCode:   "ROOM_TYPE_NOT_FOUND",
			},
			{
				name:           "room type closed for booking",
				commandsError:  errs.ErrRoomTypeNotActive,
				expectedStatus: http.StatusUnprocessableEntity,
				expectedCode:   "ROOM_TYPE_NOT_AVAILABLE",
			},
			{
				name:           "no room free for the dates",
				commandsError:  errs.ErrNoRoomAvailable,
				expectedStatus: http.StatusConflict,
				expectedCode:   "ROOM_ASSIGNMENT_NO_ROOM",
			},
			{
				name:           "party too large for the room type",
				commandsError:  errs.ErrPartyExceedsCapacity,
				expectedStatus: http.StatusUnprocessableEntity,
				expectedCode:   "ROOM_ASSIGNMENT_CAPACITY",
			},
			{
				name:           "idempotency key reused with a different payload",
				commandsError:  commands.ErrDuplicateReservation,
				expectedStatus: http.StatusConflict,
				expectedCode:   "IDEMPOTENCY_KEY_REUSED",
			},
			{
				name:           "concurrent request still in flight",
				commandsError:  commands.ErrIdempotencyInProgress,
				expectedStatus: http.StatusConflict,
				expectedCode:   "REQUEST_IN_PROGRESS",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedCode:   "INTERNAL",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token",
					httptest.WithIdempotencyKey(idempotencyKey))
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedCode)
			})
		}
	})
}

// ================================================================================
// TestGetReservation
// ================================================================================

func (s *ReservationHandlerTestSuite) TestGetReservation() {
	reservationID := uuid.New()
	url := "/reservations/" + reservationID.String()

	returnView := builder.NewReservationBuilder().WithCustomerID(s.actorID).BuildView()
	returnView.ID = reservationID

	s.Run("success: returns 200 OK with the reservation", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), reservationID, gomock.Any()).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(reservationID, response.ID)
		s.Equal(returnView.RoomTypeName, response.RoomTypeName)
		s.Equal(returnView.CheckIn.Format("2006-01-02"), response.CheckIn)
	})

	s.Run("error: 400 Bad Request for invalid UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations/invalid-uuid", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "INVALID_REQUEST")
	})

	s.Run("error: 404 Not Found for missing reservation", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), reservationID, gomock.Any()).
			Return(nil, errs.ErrReservationNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "RESERVATION_NOT_FOUND")
	})

	s.Run("error: 403 Forbidden for another customer's reservation", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), reservationID, gomock.Any()).
			Return(nil, errs.ErrForbiddenView).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "FORBIDDEN_VIEW")
	})
}

// ================================================================================
// TestListReservations
// ================================================================================

func (s *ReservationHandlerTestSuite) TestListReservations() {
	url := "/reservations"

	items := []queries.ReservationListItem{
		builder.NewReservationBuilder().WithStatus("pending").BuildListItem(),
		builder.NewReservationBuilder().WithStatus("confirmed").BuildListItem(),
	}

	s.Run("success: returns the reservation list", func() {
		s.mockQueries.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(items, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response []resdto.ReservationListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, len(items))
	})

	s.Run("success: forwards status and pagination filters", func() {
		expected := queries.ListReservationsFilter{Limit: 10, Offset: 5}
		status := "confirmed"
		expected.Status = &status

		s.mockQueries.EXPECT().List(gomock.Any(), expected, gomock.Any()).
			Return(items[:1], nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			url+"?status=confirmed&limit=10&offset=5", nil, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 Bad Request for invalid customer_id filter", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			url+"?customer_id=invalid", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "INVALID_REQUEST")
	})

	s.Run("error: returns 500 on query failure", func() {
		s.mockQueries.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("database error")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "INTERNAL")
	})
}

// ================================================================================
// TestCancelReservation
// ================================================================================

func (s *ReservationHandlerTestSuite) TestCancelReservation() {
	reservationID := uuid.New()
	url := "/reservations/" + reservationID.String() + "/cancel"

	returnView := builder.NewReservationBuilder().WithCustomerID(s.actorID).WithStatus("cancelled").BuildView()
	returnView.ID = reservationID

	s.Run("success: cancels and returns the updated reservation", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), reservationID, gomock.Any()).
			Return(nil).Times(1)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), reservationID, gomock.Any()).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		var response resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("cancelled", response.Status)
	})

	s.Run("error: 409 Conflict for a non-cancellable status", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), reservationID, gomock.Any()).
			Return(errs.ErrInvalidTransition).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "INVALID_STATUS_TRANSITION")
	})

	s.Run("error: 403 Forbidden for another customer's reservation", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), reservationID, gomock.Any()).
			Return(errs.ErrUpdateForbidden).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "UPDATE_FORBIDDEN")
	})

	s.Run("error: 404 Not Found for missing reservation", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), reservationID, gomock.Any()).
			Return(errs.ErrReservationNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "RESERVATION_NOT_FOUND")
	})
}

// ================================================================================
// Staff transitions run behind a staff-role router
// ================================================================================

func (s *ReservationHandlerTestSuite) TestStaffTransitions() {
	reservationID := uuid.New()

	staffRouter := gin.New()
	staffAuth := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "UNAUTHORIZED", "message": "Access token required"},
			})
			return
		}
		c.Set("user_id", uuid.New())
		c.Set("user_role", jwt.RoleStaff)
		c.Next()
	}
	staffRouter.POST("/reservations/:id/confirm", staffAuth, s.handler.ConfirmReservation)
	staffRouter.POST("/reservations/:id/check-in", staffAuth, s.handler.CheckInReservation)
	staffRouter.POST("/reservations/:id/check-out", staffAuth, s.handler.CheckOutReservation)

	returnView := builder.NewReservationBuilder().WithStatus("confirmed").BuildView()
	returnView.ID = reservationID

	s.Run("success: staff confirms a pending reservation", func() {
		s.mockCommands.EXPECT().Confirm(gomock.Any(), reservationID, gomock.Any()).
			Return(nil).Times(1)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), reservationID, gomock.Any()).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), staffRouter, http.MethodPost,
			"/reservations/"+reservationID.String()+"/confirm", nil, "bearer-token")

		var response resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("confirmed", response.Status)
	})

	s.Run("success: staff checks in a confirmed reservation", func() {
		checkedIn := builder.NewReservationBuilder().WithStatus("checked_in").BuildView()
		checkedIn.ID = reservationID
		checkedIn.AssignmentLocked = true

		s.mockCommands.EXPECT().CheckIn(gomock.Any(), reservationID, gomock.Any()).
			Return(nil).Times(1)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), reservationID, gomock.Any()).
			Return(checkedIn, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), staffRouter, http.MethodPost,
			"/reservations/"+reservationID.String()+"/check-in", nil, "bearer-token")

		var response resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("checked_in", response.Status)
		s.True(response.AssignmentLocked)
	})

	s.Run("error: 409 Conflict when checking in a pending reservation", func() {
		s.mockCommands.EXPECT().CheckIn(gomock.Any(), reservationID, gomock.Any()).
			Return(errs.ErrInvalidTransition).Times(1)

		rec := httptest.PerformRequest(s.T(), staffRouter, http.MethodPost,
			"/reservations/"+reservationID.String()+"/check-in", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "INVALID_STATUS_TRANSITION")
	})

	s.Run("error: 409 Conflict when checking out before check-in", func() {
		s.mockCommands.EXPECT().CheckOut(gomock.Any(), reservationID, gomock.Any()).
			Return(errs.ErrInvalidTransition).Times(1)

		rec := httptest.PerformRequest(s.T(), staffRouter, http.MethodPost,
			"/reservations/"+reservationID.String()+"/check-out", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "INVALID_STATUS_TRANSITION")
	})
}
