package scheduling

import (
	"bytes"
	"errors"
	"sort"

	"github.com/google/uuid"
)

var (
	// ErrNoRoomAvailable: every room is large enough in principle but none has
	// residual capacity for these dates.
	ErrNoRoomAvailable = errors.New("no room with sufficient free capacity")
	// ErrPartyExceedsCapacity: the party is larger than any room of this type
	// could ever hold, regardless of dates.
	ErrPartyExceedsCapacity = errors.New("party exceeds room capacity")
)

// Allocator picks one room from the resolved candidates. The tie-break
// policy is configurable because it is a business preference, not a law:
// best-fit concentrates fragmentation, and parties that declined sharing are
// steered (not guaranteed) into currently empty rooms.
type Allocator struct {
	// PreferPrivateRooms makes a no-sharing party prefer an unoccupied room
	// when one qualifies.
	PreferPrivateRooms bool
}

func NewAllocator() *Allocator {
	return &Allocator{PreferPrivateRooms: true}
}

// Assign returns the chosen room id. Among qualifying rooms it picks the
// smallest sufficient residual capacity; remaining ties break on ascending
// room id so a fixed input always produces the same assignment.
func (a *Allocator) Assign(candidates []Candidate, partySize int, allowSharing bool) (uuid.UUID, error) {
	if partySize <= 0 {
		return uuid.Nil, ErrInvalidPartySize
	}

	fitsAnywhere := false
	var eligible []Candidate
	for _, c := range candidates {
		if c.Capacity >= partySize {
			fitsAnywhere = true
		}
		if c.FreeCapacity >= partySize {
			eligible = append(eligible, c)
		}
	}
	if !fitsAnywhere {
		return uuid.Nil, ErrPartyExceedsCapacity
	}
	if len(eligible) == 0 {
		return uuid.Nil, ErrNoRoomAvailable
	}

	if a.PreferPrivateRooms && !allowSharing {
		var empty []Candidate
		for _, c := range eligible {
			if !c.Occupied {
				empty = append(empty, c)
			}
		}
		if len(empty) > 0 {
			eligible = empty
		}
	}

	sort.Slice(eligible, func(i, j int) bool {
		if eligible[i].FreeCapacity != eligible[j].FreeCapacity {
			return eligible[i].FreeCapacity < eligible[j].FreeCapacity
		}
		return bytes.Compare(eligible[i].RoomID[:], eligible[j].RoomID[:]) < 0
	})

	return eligible[0].RoomID, nil
}
