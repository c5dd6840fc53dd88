//go:build unit

package scheduling_test

import (
	"testing"
	"time"

	"catotel/internal/domain/reservation"
	"catotel/internal/domain/scheduling"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func stay(t *testing.T, in, out time.Time) reservation.Stay {
	t.Helper()
	s, err := reservation.ReconstructStay(in, out)
	require.NoError(t, err)
	return s
}

func TestFindConflicts(t *testing.T) {
	oliver := uuid.New()
	misha := uuid.New()

	booking := func(catID uuid.UUID, name, code string, s reservation.Stay) scheduling.CatBooking {
		return scheduling.CatBooking{
			CatID:           catID,
			CatName:         name,
			ReservationID:   uuid.New(),
			ReservationCode: code,
			Stay:            s,
		}
	}

	t.Run("overlapping stay conflicts with cat name reported", func(t *testing.T) {
		existing := []scheduling.CatBooking{
			booking(oliver, "Oliver", "RSV-AAAA0001", stay(t, date(2025, 3, 10), date(2025, 3, 14))),
		}

		got := scheduling.FindConflicts(existing, []uuid.UUID{oliver}, stay(t, date(2025, 3, 12), date(2025, 3, 16)), uuid.Nil)

		require.Len(t, got, 1)
		assert.Equal(t, "Oliver", got[0].CatName)
		assert.Equal(t, "RSV-AAAA0001", got[0].ReservationCode)
	})

	t.Run("back-to-back stays do not conflict", func(t *testing.T) {
		existing := []scheduling.CatBooking{
			booking(oliver, "Oliver", "RSV-AAAA0001", stay(t, date(2025, 3, 10), date(2025, 3, 12))),
		}

		got := scheduling.FindConflicts(existing, []uuid.UUID{oliver}, stay(t, date(2025, 3, 12), date(2025, 3, 14)), uuid.Nil)

		assert.Empty(t, got)
	})

	t.Run("every conflicting cat of the party is reported", func(t *testing.T) {
		window := stay(t, date(2025, 5, 1), date(2025, 5, 5))
		existing := []scheduling.CatBooking{
			booking(oliver, "Oliver", "RSV-AAAA0001", window),
			booking(misha, "Misha", "RSV-BBBB0002", window),
		}

		got := scheduling.FindConflicts(existing, []uuid.UUID{oliver, misha}, stay(t, date(2025, 5, 3), date(2025, 5, 7)), uuid.Nil)

		assert.Len(t, got, 2)
	})

	t.Run("excluded reservation is skipped", func(t *testing.T) {
		b := booking(oliver, "Oliver", "RSV-AAAA0001", stay(t, date(2025, 3, 10), date(2025, 3, 14)))

		got := scheduling.FindConflicts([]scheduling.CatBooking{b}, []uuid.UUID{oliver}, b.Stay, b.ReservationID)

		assert.Empty(t, got)
	})

	t.Run("other cats bookings are ignored", func(t *testing.T) {
		existing := []scheduling.CatBooking{
			booking(misha, "Misha", "RSV-BBBB0002", stay(t, date(2025, 3, 10), date(2025, 3, 14))),
		}

		got := scheduling.FindConflicts(existing, []uuid.UUID{oliver}, stay(t, date(2025, 3, 10), date(2025, 3, 14)), uuid.Nil)

		assert.Empty(t, got)
	})
}
