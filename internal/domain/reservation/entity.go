package reservation

import (
	"errors"
	"time"

	"catotel/internal/domain/pricing"

	"github.com/google/uuid"
)

var (
	ErrMinCatsRequired      = errors.New("at least one cat is required")
	ErrDuplicateCats        = errors.New("duplicate cat in party")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrInvalidInitialStatus = errors.New("invalid initial status")
)

type Reservation struct {
	id              uuid.UUID
	code            Code
	roomTypeID      uuid.UUID
	customerID      uuid.UUID
	stay            Stay
	status          Status
	allowSharing    bool
	catIDs          []uuid.UUID
	addons          []pricing.AddonLine
	breakdown       pricing.Breakdown
	specialRequests SpecialRequests
	createdAt       time.Time
	updatedAt       time.Time
}

func ReconstructReservation(
	id uuid.UUID,
	code Code,
	roomTypeID, customerID uuid.UUID,
	stay Stay,
	status Status,
	allowSharing bool,
	catIDs []uuid.UUID,
	addons []pricing.AddonLine,
	breakdown pricing.Breakdown,
	specialRequests SpecialRequests,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:              id,
		code:            code,
		roomTypeID:      roomTypeID,
		customerID:      customerID,
		stay:            stay,
		status:          status,
		allowSharing:    allowSharing,
		catIDs:          catIDs,
		addons:          addons,
		breakdown:       breakdown,
		specialRequests: specialRequests,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (r *Reservation) transition(next Status, at time.Time) error {
	if !r.status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	r.status = next
	r.updatedAt = at
	return nil
}

func (r *Reservation) Confirm(at time.Time) error {
	return r.transition(StatusConfirmed, at)
}

func (r *Reservation) CheckIn(at time.Time) error {
	return r.transition(StatusCheckedIn, at)
}

func (r *Reservation) CheckOut(at time.Time) error {
	return r.transition(StatusCheckedOut, at)
}

func (r *Reservation) Cancel(at time.Time) error {
	return r.transition(StatusCancelled, at)
}

func (r *Reservation) PartySize() int {
	return len(r.catIDs)
}

func (r *Reservation) IsOwnedBy(customerID uuid.UUID) bool {
	return r.customerID == customerID
}

func (r *Reservation) ID() uuid.UUID                    { return r.id }
func (r *Reservation) Code() Code                       { return r.code }
func (r *Reservation) RoomTypeID() uuid.UUID            { return r.roomTypeID }
func (r *Reservation) CustomerID() uuid.UUID            { return r.customerID }
func (r *Reservation) Stay() Stay                       { return r.stay }
func (r *Reservation) Status() Status                   { return r.status }
func (r *Reservation) AllowSharing() bool               { return r.allowSharing }
func (r *Reservation) CatIDs() []uuid.UUID              { return r.catIDs }
func (r *Reservation) Addons() []pricing.AddonLine      { return r.addons }
func (r *Reservation) Breakdown() pricing.Breakdown     { return r.breakdown }
func (r *Reservation) SpecialRequests() SpecialRequests { return r.specialRequests }
func (r *Reservation) CreatedAt() time.Time             { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time             { return r.updatedAt }
