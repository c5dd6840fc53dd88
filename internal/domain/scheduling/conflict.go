package scheduling

import (
	"catotel/internal/domain/reservation"

	"github.com/google/uuid"
)

// CatBooking is one cat's membership in an existing non-cancelled
// reservation, as read from the schedule snapshot.
type CatBooking struct {
	CatID           uuid.UUID
	CatName         string
	ReservationID   uuid.UUID
	ReservationCode string
	Stay            reservation.Stay
}

// Conflict reports a cat that is already booked for an overlapping stay. The
// cat name is carried for operator display, not just the id.
type Conflict struct {
	CatID           uuid.UUID
	CatName         string
	ReservationCode string
}

// FindConflicts tests every requested cat's existing bookings against the
// requested stay using half-open overlap, so back-to-back stays never
// conflict. exclude skips one reservation id (uuid.Nil to skip none), which
// lets a reschedule ignore the reservation being changed.
//
// The caller treats any non-empty result as fatal for the whole request:
// there is no partial booking of a subset of the party.
func FindConflicts(bookings []CatBooking, catIDs []uuid.UUID, stay reservation.Stay, exclude uuid.UUID) []Conflict {
	byCat := make(map[uuid.UUID][]CatBooking, len(catIDs))
	for _, b := range bookings {
		byCat[b.CatID] = append(byCat[b.CatID], b)
	}

	var conflicts []Conflict
	for _, catID := range catIDs {
		for _, b := range byCat[catID] {
			if exclude != uuid.Nil && b.ReservationID == exclude {
				continue
			}
			if b.Stay.Overlaps(stay) {
				conflicts = append(conflicts, Conflict{
					CatID:           b.CatID,
					CatName:         b.CatName,
					ReservationCode: b.ReservationCode,
				})
			}
		}
	}
	return conflicts
}
