//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"catotel/internal/domain/pricing"
	"catotel/internal/domain/reservation"
	"catotel/internal/pkg/clock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestReservation(t *testing.T, initial reservation.Status) *reservation.Reservation {
	t.Helper()

	factory := reservation.NewFactory(clock.NewMockClock(testNow))
	stay, err := reservation.NewStay(date(2025, 3, 10), date(2025, 3, 14), testNow)
	require.NoError(t, err)

	r, err := factory.NewReservation(
		uuid.New(), uuid.New(), stay,
		[]uuid.UUID{uuid.New(), uuid.New()},
		true, nil,
		pricing.Breakdown{BaseCents: 40000, TotalCents: 40000},
		reservation.NewSpecialRequests(""),
		initial,
	)
	require.NoError(t, err)
	return r
}

func TestStay(t *testing.T) {
	t.Run("check-out must be after check-in", func(t *testing.T) {
		_, err := reservation.NewStay(date(2025, 3, 10), date(2025, 3, 10), testNow)
		assert.ErrorIs(t, err, reservation.ErrInvalidDateRange)
	})

	t.Run("check-in may not be in the past", func(t *testing.T) {
		_, err := reservation.NewStay(date(2025, 2, 1), date(2025, 2, 3), testNow)
		assert.ErrorIs(t, err, reservation.ErrCheckInInPast)
	})

	t.Run("same-day check-in is allowed", func(t *testing.T) {
		_, err := reservation.NewStay(date(2025, 3, 1), date(2025, 3, 3), testNow)
		assert.NoError(t, err)
	})

	t.Run("nights counts occupied nights only", func(t *testing.T) {
		s, err := reservation.NewStay(date(2025, 3, 10), date(2025, 3, 14), testNow)
		require.NoError(t, err)
		assert.Equal(t, 4, s.Nights())
	})

	t.Run("historical stays reconstruct without past check", func(t *testing.T) {
		s, err := reservation.ReconstructStay(date(2020, 1, 1), date(2020, 1, 5))
		require.NoError(t, err)
		assert.Equal(t, 4, s.Nights())
	})
}

func TestReservationLifecycle(t *testing.T) {
	at := testNow.Add(time.Hour)

	t.Run("pending walks the full happy path", func(t *testing.T) {
		r := newTestReservation(t, reservation.StatusPending)

		require.NoError(t, r.Confirm(at))
		require.NoError(t, r.CheckIn(at))
		require.NoError(t, r.CheckOut(at))

		assert.Equal(t, reservation.StatusCheckedOut, r.Status())
		assert.True(t, r.Status().IsTerminal())
	})

	t.Run("cancel allowed before check-in only", func(t *testing.T) {
		cases := []struct {
			name    string
			prepare func(t *testing.T, r *reservation.Reservation)
			wantErr error
		}{
			{
				name:    "from pending",
				prepare: func(*testing.T, *reservation.Reservation) {},
			},
			{
				name: "from confirmed",
				prepare: func(t *testing.T, r *reservation.Reservation) {
					require.NoError(t, r.Confirm(at))
				},
			},
			{
				name: "not from checked-in",
				prepare: func(t *testing.T, r *reservation.Reservation) {
					require.NoError(t, r.Confirm(at))
					require.NoError(t, r.CheckIn(at))
				},
				wantErr: reservation.ErrInvalidTransition,
			},
			{
				name: "not from checked-out",
				prepare: func(t *testing.T, r *reservation.Reservation) {
					require.NoError(t, r.Confirm(at))
					require.NoError(t, r.CheckIn(at))
					require.NoError(t, r.CheckOut(at))
				},
				wantErr: reservation.ErrInvalidTransition,
			},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				r := newTestReservation(t, reservation.StatusPending)
				tc.prepare(t, r)

				err := r.Cancel(at)
				if tc.wantErr != nil {
					assert.ErrorIs(t, err, tc.wantErr)
				} else {
					assert.NoError(t, err)
					assert.Equal(t, reservation.StatusCancelled, r.Status())
				}
			})
		}
	})

	t.Run("check-in requires confirmed", func(t *testing.T) {
		r := newTestReservation(t, reservation.StatusPending)
		assert.ErrorIs(t, r.CheckIn(at), reservation.ErrInvalidTransition)
	})

	t.Run("cancelled stops blocking capacity", func(t *testing.T) {
		r := newTestReservation(t, reservation.StatusPending)
		require.True(t, r.Status().BlocksCapacity())

		require.NoError(t, r.Cancel(at))
		assert.False(t, r.Status().BlocksCapacity())
	})
}

func TestFactoryValidation(t *testing.T) {
	factory := reservation.NewFactory(clock.NewMockClock(testNow))
	stay, err := reservation.NewStay(date(2025, 3, 10), date(2025, 3, 14), testNow)
	require.NoError(t, err)

	newWith := func(catIDs []uuid.UUID, initial reservation.Status) error {
		_, err := factory.NewReservation(
			uuid.New(), uuid.New(), stay, catIDs, false, nil,
			pricing.Breakdown{}, reservation.NewSpecialRequests(""), initial,
		)
		return err
	}

	t.Run("at least one cat", func(t *testing.T) {
		assert.ErrorIs(t, newWith(nil, reservation.StatusPending), reservation.ErrMinCatsRequired)
	})

	t.Run("no duplicate cats", func(t *testing.T) {
		id := uuid.New()
		assert.ErrorIs(t, newWith([]uuid.UUID{id, id}, reservation.StatusPending), reservation.ErrDuplicateCats)
	})

	t.Run("initial status restricted to pending or confirmed", func(t *testing.T) {
		assert.ErrorIs(t, newWith([]uuid.UUID{uuid.New()}, reservation.StatusCheckedIn), reservation.ErrInvalidInitialStatus)
	})

	t.Run("code derives from id", func(t *testing.T) {
		r, err := factory.NewReservation(
			uuid.New(), uuid.New(), stay, []uuid.UUID{uuid.New()}, false, nil,
			pricing.Breakdown{}, reservation.NewSpecialRequests(""), reservation.StatusPending,
		)
		require.NoError(t, err)
		assert.Len(t, r.Code().String(), len("RSV-")+8)
	})
}

func TestRoomAssignment(t *testing.T) {
	t.Run("tentative assignment can be reassigned", func(t *testing.T) {
		a, err := reservation.NewRoomAssignment(uuid.New(), uuid.New(), 2)
		require.NoError(t, err)

		next := uuid.New()
		require.NoError(t, a.Reassign(next))
		assert.Equal(t, next, a.RoomID())
	})

	t.Run("locked assignment is immutable", func(t *testing.T) {
		a, err := reservation.NewRoomAssignment(uuid.New(), uuid.New(), 2)
		require.NoError(t, err)

		require.NoError(t, a.Lock(testNow))
		assert.True(t, a.IsLocked())

		assert.ErrorIs(t, a.Reassign(uuid.New()), reservation.ErrAssignmentLocked)
		assert.ErrorIs(t, a.Lock(testNow.Add(time.Hour)), reservation.ErrAssignmentLocked)
	})

	t.Run("cat count must be positive", func(t *testing.T) {
		_, err := reservation.NewRoomAssignment(uuid.New(), uuid.New(), 0)
		assert.ErrorIs(t, err, reservation.ErrInvalidCatCount)
	})
}
