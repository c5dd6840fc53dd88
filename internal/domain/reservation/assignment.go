package reservation

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAssignmentLocked   = errors.New("assignment is locked")
	ErrInvalidCatCount    = errors.New("assignment cat count must be positive")
	ErrAssignmentUnlocked = errors.New("assignment is not locked")
)

// RoomAssignment binds a reservation to a physical room. It stays tentative
// (reassignable) until check-in locks it; lockedAt is monotonic and the room
// id is immutable once set.
type RoomAssignment struct {
	reservationID uuid.UUID
	roomID        uuid.UUID
	catCount      int
	lockedAt      *time.Time
}

func NewRoomAssignment(reservationID, roomID uuid.UUID, catCount int) (*RoomAssignment, error) {
	if catCount <= 0 {
		return nil, ErrInvalidCatCount
	}
	return &RoomAssignment{
		reservationID: reservationID,
		roomID:        roomID,
		catCount:      catCount,
	}, nil
}

func ReconstructRoomAssignment(reservationID, roomID uuid.UUID, catCount int, lockedAt *time.Time) *RoomAssignment {
	return &RoomAssignment{
		reservationID: reservationID,
		roomID:        roomID,
		catCount:      catCount,
		lockedAt:      lockedAt,
	}
}

func (a *RoomAssignment) Lock(at time.Time) error {
	if a.lockedAt != nil {
		return ErrAssignmentLocked
	}
	a.lockedAt = &at
	return nil
}

func (a *RoomAssignment) Reassign(roomID uuid.UUID) error {
	if a.lockedAt != nil {
		return ErrAssignmentLocked
	}
	a.roomID = roomID
	return nil
}

func (a *RoomAssignment) IsLocked() bool {
	return a.lockedAt != nil
}

func (a *RoomAssignment) ReservationID() uuid.UUID { return a.reservationID }
func (a *RoomAssignment) RoomID() uuid.UUID        { return a.roomID }
func (a *RoomAssignment) CatCount() int            { return a.catCount }
func (a *RoomAssignment) LockedAt() *time.Time     { return a.lockedAt }
