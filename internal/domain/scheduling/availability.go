package scheduling

import (
	"errors"

	"catotel/internal/domain/reservation"

	"github.com/google/uuid"
)

var (
	// ErrNoActiveRooms means the room type has no active rooms at all, which
	// is diagnostically different from "all rooms are taken for these dates".
	ErrNoActiveRooms    = errors.New("room type has no active rooms")
	ErrInvalidPartySize = errors.New("party size must be positive")
)

// RoomState is a snapshot of one physical room of the requested type.
type RoomState struct {
	ID       uuid.UUID
	Name     string
	Capacity int
	Active   bool
}

// AssignmentSpan is a non-cancelled room assignment overlapping the
// requested window: which room, how many cats, for which stay.
type AssignmentSpan struct {
	RoomID   uuid.UUID
	CatCount int
	Stay     reservation.Stay
}

// Candidate is a room with its residual capacity over the requested stay.
type Candidate struct {
	RoomID       uuid.UUID
	RoomName     string
	Capacity     int
	FreeCapacity int // minimum free capacity across every night of the stay
	Occupied     bool
}

// ResolveAvailability computes, for every active room, the minimum free
// capacity across each night of the half-open stay. It returns every active
// room (including full ones) so the allocator can distinguish "no room free"
// from "party larger than any room".
func ResolveAvailability(rooms []RoomState, spans []AssignmentSpan, stay reservation.Stay, partySize int) ([]Candidate, error) {
	if partySize <= 0 {
		return nil, ErrInvalidPartySize
	}

	spansByRoom := make(map[uuid.UUID][]AssignmentSpan, len(rooms))
	for _, s := range spans {
		spansByRoom[s.RoomID] = append(spansByRoom[s.RoomID], s)
	}

	nights := stay.Nights()
	var candidates []Candidate
	for _, room := range rooms {
		if !room.Active {
			continue
		}

		roomSpans := spansByRoom[room.ID]
		free := room.Capacity
		occupied := false
		for i := 0; i < nights; i++ {
			night := stay.Night(i)
			used := 0
			for _, s := range roomSpans {
				if !s.Stay.CheckIn().After(night) && s.Stay.CheckOut().After(night) {
					used += s.CatCount
				}
			}
			if used > 0 {
				occupied = true
			}
			if room.Capacity-used < free {
				free = room.Capacity - used
			}
		}

		candidates = append(candidates, Candidate{
			RoomID:       room.ID,
			RoomName:     room.Name,
			Capacity:     room.Capacity,
			FreeCapacity: free,
			Occupied:     occupied,
		})
	}

	if len(candidates) == 0 {
		return nil, ErrNoActiveRooms
	}
	return candidates, nil
}
