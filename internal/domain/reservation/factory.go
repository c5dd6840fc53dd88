package reservation

import (
	"catotel/internal/domain/pricing"
	"catotel/internal/pkg/clock"

	"github.com/google/uuid"
)

type Factory struct {
	clock clock.Clock
}

func NewFactory(c clock.Clock) *Factory {
	return &Factory{clock: c}
}

// NewReservation assembles a reservation from validated inputs and the
// engine outputs (priced breakdown). Initial status depends on the booking
// channel: guest bookings start pending, staff bookings confirmed.
func (f *Factory) NewReservation(
	roomTypeID, customerID uuid.UUID,
	stay Stay,
	catIDs []uuid.UUID,
	allowSharing bool,
	addons []pricing.AddonLine,
	breakdown pricing.Breakdown,
	specialRequests SpecialRequests,
	initial Status,
) (*Reservation, error) {
	if len(catIDs) == 0 {
		return nil, ErrMinCatsRequired
	}
	seen := make(map[uuid.UUID]struct{}, len(catIDs))
	for _, id := range catIDs {
		if _, dup := seen[id]; dup {
			return nil, ErrDuplicateCats
		}
		seen[id] = struct{}{}
	}
	if initial != StatusPending && initial != StatusConfirmed {
		return nil, ErrInvalidInitialStatus
	}

	id := uuid.New()
	now := f.clock.Now()

	return &Reservation{
		id:              id,
		code:            NewCode(id),
		roomTypeID:      roomTypeID,
		customerID:      customerID,
		stay:            stay,
		status:          initial,
		allowSharing:    allowSharing,
		catIDs:          catIDs,
		addons:          addons,
		breakdown:       breakdown,
		specialRequests: specialRequests,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}
