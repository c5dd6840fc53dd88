package queries

import (
	"bytes"
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"catotel/internal/domain/reservation"
	"catotel/internal/domain/scheduling"
	"catotel/internal/infra"
	"catotel/internal/pkg/errs"
	"catotel/internal/usecase/shared"
)

// AvailabilityReadStore exposes the catalog and schedule reads the
// availability search needs. No locking: results are advisory and may be
// stale by the time a booking lands.
type AvailabilityReadStore interface {
	RoomTypeByID(ctx context.Context, id uuid.UUID) (*shared.RoomTypeSnapshot, error)
	RoomsByType(ctx context.Context, roomTypeID uuid.UUID) ([]shared.RoomSnapshot, error)
	AssignmentSpans(ctx context.Context, roomTypeID uuid.UUID, window reservation.Stay) ([]scheduling.AssignmentSpan, error)
}

type AvailabilitySearchParams struct {
	RoomTypeID uuid.UUID
	CheckIn    time.Time
	CheckOut   time.Time
	PartySize  int
}

type AvailabilityQueries interface {
	Search(ctx context.Context, params AvailabilitySearchParams) ([]RoomAvailabilityView, error)
}

type availabilityQueriesImpl struct {
	store AvailabilityReadStore
}

func NewAvailabilityQueries(store AvailabilityReadStore) AvailabilityQueries {
	return &availabilityQueriesImpl{store: store}
}

// Search returns the rooms of a category that could hold the party for every
// night of the window, best fit first.
func (q *availabilityQueriesImpl) Search(ctx context.Context, params AvailabilitySearchParams) ([]RoomAvailabilityView, error) {
	roomType, err := q.store.RoomTypeByID(ctx, params.RoomTypeID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrRoomTypeNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if !roomType.Active {
		return nil, errs.ErrRoomTypeNotActive
	}

	window, err := reservation.ReconstructStay(params.CheckIn, params.CheckOut)
	if err != nil {
		return nil, err
	}

	rooms, err := q.store.RoomsByType(ctx, params.RoomTypeID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	spans, err := q.store.AssignmentSpans(ctx, params.RoomTypeID, window)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	states := make([]scheduling.RoomState, len(rooms))
	for i, room := range rooms {
		states[i] = scheduling.RoomState{
			ID:       room.ID,
			Name:     room.Name,
			Capacity: room.Capacity,
			Active:   room.Active,
		}
	}

	candidates, err := scheduling.ResolveAvailability(states, spans, window, params.PartySize)
	if err != nil {
		switch {
		case errs.Is(err, scheduling.ErrNoActiveRooms):
			return nil, errs.Mark(err, errs.ErrNoActiveRooms)
		default:
			return nil, err
		}
	}

	qualifying := candidates[:0]
	for _, c := range candidates {
		if c.FreeCapacity >= params.PartySize {
			qualifying = append(qualifying, c)
		}
	}
	if len(qualifying) == 0 {
		return nil, errs.ErrUnavailableDates
	}

	// Same order the allocator would consider them in.
	sort.Slice(qualifying, func(i, j int) bool {
		if qualifying[i].FreeCapacity != qualifying[j].FreeCapacity {
			return qualifying[i].FreeCapacity < qualifying[j].FreeCapacity
		}
		return bytes.Compare(qualifying[i].RoomID[:], qualifying[j].RoomID[:]) < 0
	})

	views := make([]RoomAvailabilityView, len(qualifying))
	for i, c := range qualifying {
		views[i] = RoomAvailabilityView{
			RoomID:       c.RoomID,
			RoomName:     c.RoomName,
			FreeCapacity: c.FreeCapacity,
		}
	}
	return views, nil
}
