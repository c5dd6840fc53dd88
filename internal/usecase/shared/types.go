package shared

import (
	"time"

	"catotel/internal/pkg/jwt"

	"github.com/google/uuid"
)

// Write-side snapshots prevent dependency on Read-side query types (CQRS separation)
type RoomTypeSnapshot struct {
	ID               uuid.UUID
	Name             string
	NightlyRateCents int64
	CapacityPerRoom  int
	Active           bool
}

type RoomSnapshot struct {
	ID         uuid.UUID
	RoomTypeID uuid.UUID
	Name       string
	Capacity   int
	Active     bool
}

type CatSnapshot struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
	Name    string
}

// ServiceSnapshot is an add-on service; its price is snapshotted into the
// reservation line at booking time.
type ServiceSnapshot struct {
	ID         uuid.UUID
	Name       string
	PriceCents int64
	Active     bool
}

type IdempotencyRecord struct {
	Key                 uuid.UUID
	UserID              uuid.UUID
	Status              string
	RequestHash         string
	ResultReservationID *uuid.UUID
	ExpiresAt           time.Time
}

// Actor is the authenticated principal a command runs on behalf of.
type Actor struct {
	ID   uuid.UUID
	Role jwt.Role
}

func (a Actor) IsStaff() bool {
	return a.Role.AtLeast(jwt.RoleStaff)
}
